package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Coupon application outcomes
const (
	couponApplied  = "applied"
	couponReplaced = "replaced"
	couponRejected = "rejected"
)

var (
	couponApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_coupon_applications_total",
			Help: "Coupon apply attempts by outcome",
		},
		[]string{"outcome"},
	)

	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders placed by payment method",
		},
		[]string{"payment_method"},
	)
)
