package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/logger"
)

// mockTable implements a simple coupon table for testing
type mockTable struct {
	coupons map[string]models.Coupon
}

func (m *mockTable) Lookup(code string) *models.Coupon {
	c, ok := m.coupons[models.NormalizeCode(code)]
	if !ok {
		return nil
	}
	return &c
}

func (m *mockTable) Stats() map[string]interface{} {
	return map[string]interface{}{
		"total_coupons": len(m.coupons),
		"sources":       []string{"builtin"},
	}
}

func TestCouponHandler_ValidateCoupon(t *testing.T) {
	table := &mockTable{
		coupons: map[string]models.Coupon{
			"SAVE10": {Code: "SAVE10", Kind: models.CouponPercentage, Magnitude: 10},
			"FLAT5":  {Code: "FLAT5", Kind: models.CouponFixed, Magnitude: 5},
		},
	}

	tests := []struct {
		name           string
		couponCode     string
		expectedStatus int
		expectedValid  bool
		expectedCode   string
	}{
		{
			name:           "valid coupon",
			couponCode:     "SAVE10",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
			expectedCode:   "SAVE10",
		},
		{
			name:           "lower case code is normalized",
			couponCode:     "flat5",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
			expectedCode:   "FLAT5",
		},
		{
			name:           "unknown coupon",
			couponCode:     "NOTEXIST",
			expectedStatus: http.StatusNotFound,
			expectedValid:  false,
			expectedCode:   "NOTEXIST",
		},
		{
			name:           "empty coupon code",
			couponCode:     "",
			expectedStatus: http.StatusNotFound,
			expectedValid:  false,
			expectedCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCouponHandler(table, logger.Discard())

			req := httptest.NewRequest(http.MethodGet, "/api/coupon/"+tt.couponCode, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("couponCode", tt.couponCode)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			h.ValidateCoupon(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			valid, ok := response["valid"].(bool)
			if !ok {
				t.Fatalf("valid field is not a boolean")
			}
			if valid != tt.expectedValid {
				t.Errorf("expected valid=%v, got valid=%v", tt.expectedValid, valid)
			}

			if got := response["coupon"]; got != tt.expectedCode {
				t.Errorf("expected coupon=%q, got coupon=%v", tt.expectedCode, got)
			}
		})
	}
}

func TestCouponHandler_GetStats(t *testing.T) {
	handler := NewCouponHandler(&mockTable{coupons: map[string]models.Coupon{
		"SAVE10": {Code: "SAVE10", Kind: models.CouponPercentage, Magnitude: 10},
	}}, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/coupon/stats", nil)
	rr := httptest.NewRecorder()
	handler.GetStats(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var stats map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	totalCoupons, ok := stats["total_coupons"].(float64)
	if !ok {
		t.Fatalf("total_coupons is not a number")
	}
	if int(totalCoupons) != 1 {
		t.Errorf("expected total_coupons=1, got %v", totalCoupons)
	}
}
