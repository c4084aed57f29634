package models

import "strconv"

// Product represents a dish on the restaurant menu
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	TitleKey string  `json:"titleKey"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// LineItemID is the id a cart row for this product carries
func (p Product) LineItemID() string {
	return strconv.FormatInt(p.ID, 10)
}
