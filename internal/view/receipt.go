package view

import (
	"github.com/shopspring/decimal"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/pricing"
)

// Stage tells which totals a view shows
type Stage string

const (
	StageCart     Stage = "cart"
	StageCheckout Stage = "checkout"
)

// LineView is one rendered cart row
type LineView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// CouponView describes the applied coupon
type CouponView struct {
	Code        string `json:"code"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// CartView is what the cart and checkout pages render
type CartView struct {
	Stage     Stage       `json:"stage"`
	Lang      string      `json:"lang"`
	Items     []LineView  `json:"items"`
	ItemCount int         `json:"itemCount"`
	Coupon    *CouponView `json:"coupon,omitempty"`
	Subtotal  string      `json:"subtotal"`
	Discount  string      `json:"discount"`
	Shipping  string      `json:"shipping,omitempty"`
	Total     string      `json:"total"`
	Labels    Labels      `json:"labels"`
	Empty     bool        `json:"empty"`
}

// Labels are the translated captions for the totals block
type Labels struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
	Empty    string `json:"empty"`
}

// Builder turns pricing output into view models
type Builder struct {
	translator Translator
}

// NewBuilder creates a Builder resolving titles with t
func NewBuilder(t Translator) *Builder {
	return &Builder{translator: t}
}

// Build renders cart, coupon and totals for lang. Money is rounded to two
// decimals here and nowhere earlier.
func (b *Builder) Build(stage Stage, lang string, cart models.Cart, coupon *models.Coupon, totals models.OrderTotals) CartView {
	lang = NormalizeLang(lang)

	items := make([]LineView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, LineView{
			ID:        item.ID,
			Title:     b.translator.Translate(lang, item.Title),
			UnitPrice: FormatMoney(decimal.NewFromFloat(item.UnitPrice)),
			Quantity:  item.Quantity,
			LineTotal: FormatMoney(pricing.LineTotal(item)),
		})
	}

	v := CartView{
		Stage:     stage,
		Lang:      lang,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  FormatMoney(totals.Subtotal),
		Discount:  FormatMoney(totals.Discount),
		Total:     FormatMoney(totals.Total),
		Empty:     cart.IsEmpty(),
		Labels: Labels{
			Subtotal: b.translator.Translate(lang, "cart.subtotal"),
			Discount: b.translator.Translate(lang, "cart.discount"),
			Shipping: b.translator.Translate(lang, "cart.shipping"),
			Total:    b.translator.Translate(lang, "cart.total"),
			Empty:    b.translator.Translate(lang, "cart.empty"),
		},
	}
	if stage == StageCheckout {
		v.Shipping = FormatMoney(totals.Shipping)
	}
	if coupon != nil {
		v.Coupon = &CouponView{
			Code:        coupon.Code,
			Kind:        string(coupon.Kind),
			Description: coupon.Description,
		}
	}
	return v
}

// FormatMoney renders d with exactly two decimals, rounding half away from zero
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
