package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderTotals is the derived pricing of a cart; never persisted on its own
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// CheckoutForm is what the customer submits on the checkout page
type CheckoutForm struct {
	FullName      string `json:"fullName" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,phone"`
	Address       string `json:"address" validate:"required,max=250"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cash card ewallet"`
	Note          string `json:"note,omitempty" validate:"max=500"`
}

// Customer holds the contact details copied into a placed order
type Customer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Note     string `json:"note,omitempty"`
}

// OrderSnapshot is the immutable record of a placed order
type OrderSnapshot struct {
	ID            string     `json:"id"`
	Items         []LineItem `json:"items"`
	OrderTotals
	CouponCode    string    `json:"couponCode,omitempty"`
	PaymentMethod string    `json:"paymentMethod"`
	Customer      Customer  `json:"customer"`
	Timestamp     time.Time `json:"timestamp"`
}

// OrderStatus is the simulated tracking stage of a placed order
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
)

// Tracking stage boundaries, measured from the order timestamp
const (
	preparingAfter  = 5 * time.Minute
	deliveringAfter = 20 * time.Minute
	deliveredAfter  = 45 * time.Minute
)

// StatusAt derives the tracking stage of the order at time now
func (o OrderSnapshot) StatusAt(now time.Time) OrderStatus {
	elapsed := now.Sub(o.Timestamp)
	switch {
	case elapsed >= deliveredAfter:
		return StatusDelivered
	case elapsed >= deliveringAfter:
		return StatusDelivering
	case elapsed >= preparingAfter:
		return StatusPreparing
	default:
		return StatusPlaced
	}
}
