package models

import "strings"

// CouponKind selects how a coupon's magnitude is interpreted
type CouponKind string

const (
	CouponPercentage   CouponKind = "percentage"
	CouponFixed        CouponKind = "fixed"
	CouponFreeShipping CouponKind = "free-shipping"
)

// Valid reports whether k is a known coupon kind
func (k CouponKind) Valid() bool {
	switch k {
	case CouponPercentage, CouponFixed, CouponFreeShipping:
		return true
	}
	return false
}

// Coupon is a named discount rule. Magnitude is percentage points for
// percentage coupons, a currency amount for fixed ones, and unused for
// free-shipping.
type Coupon struct {
	Code        string     `json:"code"`
	Kind        CouponKind `json:"kind"`
	Magnitude   float64    `json:"magnitude"`
	Description string     `json:"description"`
}

// NormalizeCode trims and upper-cases a user-entered coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
