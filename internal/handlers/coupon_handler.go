package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

// couponTable is the read side of the coupon table
type couponTable interface {
	Lookup(code string) *models.Coupon
	Stats() map[string]interface{}
}

// CouponHandler handles HTTP requests for coupon lookups
type CouponHandler struct {
	table  couponTable
	logger *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(table couponTable, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		table:  table,
		logger: logger,
	}
}

// ValidateCoupon handles GET /api/coupon/{couponCode}
// Reports whether the code is known without applying it to any cart
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	couponCode := chi.URLParam(r, "couponCode")

	c := h.table.Lookup(couponCode)
	if c == nil {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid":   false,
			"coupon":  couponCode,
			"message": "Coupon not found or invalid",
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":       true,
		"coupon":      c.Code,
		"kind":        c.Kind,
		"magnitude":   c.Magnitude,
		"description": c.Description,
	}, h.logger)
}

// GetStats handles GET /api/coupon/stats (for debugging/monitoring)
func (h *CouponHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.table.Stats(), h.logger)
}
