package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity bounds for a single cart row
const (
	MinQuantity = 1
	MaxQuantity = 99

	// stored quantities beyond this are garbage, not big orders
	maxDecodedQuantity = 1e9
)

// LineItem is one row in the cart: a menu item and how many of it
type LineItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is the ordered list of line items; insertion order is display order
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart returns an empty cart
func NewCart() Cart {
	return Cart{Items: []LineItem{}}
}

// IsEmpty reports whether the cart has no rows
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IndexOf returns the row index for id, or -1
func (c Cart) IndexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemCount returns the number of portions across all rows
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a deep copy so snapshots don't alias the live cart
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// ClampQuantity forces q into [MinQuantity, MaxQuantity]
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// ParseQuantity coerces a loosely typed quantity (JSON number or string)
// into the allowed range; anything non-numeric becomes MinQuantity.
func ParseQuantity(v any) int {
	f, ok := toNumber(v)
	if !ok || math.IsNaN(f) || f < MinQuantity {
		return MinQuantity
	}
	if f > MaxQuantity {
		return MaxQuantity
	}
	return int(f)
}

// UnmarshalJSON decodes a persisted row leniently. Ids may be numbers or
// strings; a missing, non-numeric or out-of-range price or quantity decodes
// as 0 so the row simply contributes nothing to totals.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       any `json:"id"`
		Title    any `json:"title"`
		Price    any `json:"price"`
		Quantity any `json:"quantity"`
	}
	// numbers stay literal so one unrepresentable value can't fail the row
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	li.ID = idString(raw.ID)
	li.Title, _ = raw.Title.(string)
	li.UnitPrice, _ = toNumber(raw.Price)
	if qty, ok := toNumber(raw.Quantity); ok && math.Abs(qty) <= maxDecodedQuantity {
		li.Quantity = int(qty)
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		f, err := id.Float64()
		if err != nil {
			return id.String()
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return ""
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
