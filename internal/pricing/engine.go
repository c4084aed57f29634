// Package pricing computes cart and checkout totals. Every function here is
// pure: the same items and coupon always give identical totals.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Engine holds the pricing configuration
type Engine struct {
	shippingFee decimal.Decimal
}

// NewEngine creates an engine charging a flat shippingFee at checkout.
// Negative fees are treated as zero.
func NewEngine(shippingFee decimal.Decimal) *Engine {
	if shippingFee.IsNegative() {
		shippingFee = decimal.Zero
	}
	return &Engine{shippingFee: shippingFee}
}

// ShippingFee returns the configured flat delivery fee
func (e *Engine) ShippingFee() decimal.Decimal {
	return e.shippingFee
}

// CartTotals prices the cart page. Shipping is never part of cart-stage totals.
func (e *Engine) CartTotals(items []models.LineItem, coupon *models.Coupon) models.OrderTotals {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, coupon)
	return models.OrderTotals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: decimal.Zero,
		Total:    nonNegative(subtotal.Sub(discount)),
	}
}

// CheckoutTotals prices the checkout page: cart-stage total plus the flat
// shipping fee, which a free-shipping coupon waives.
func (e *Engine) CheckoutTotals(items []models.LineItem, coupon *models.Coupon) models.OrderTotals {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, coupon)
	shipping := Shipping(e.shippingFee, coupon)
	return models.OrderTotals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    nonNegative(subtotal.Sub(discount)).Add(shipping),
	}
}

// Subtotal sums unit price times quantity. Rows with an unusable price or a
// non-positive quantity contribute nothing.
func Subtotal(items []models.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	return subtotal
}

// LineTotal is unit price times quantity, or zero for a malformed row
func LineTotal(item models.LineItem) decimal.Decimal {
	price := item.UnitPrice
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 || item.Quantity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Discount computes what coupon takes off subtotal. The result is always
// within [0, subtotal].
func Discount(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	magnitude := coupon.Magnitude
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) || magnitude <= 0 {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.Kind {
	case models.CouponPercentage:
		discount = subtotal.Mul(decimal.NewFromFloat(magnitude)).Div(hundred)
	case models.CouponFixed:
		discount = decimal.NewFromFloat(magnitude)
	default:
		return decimal.Zero
	}

	return decimal.Min(discount, subtotal)
}

// Shipping returns fee, or zero when coupon grants free shipping
func Shipping(fee decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon != nil && coupon.Kind == models.CouponFreeShipping {
		return decimal.Zero
	}
	return fee
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
