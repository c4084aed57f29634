package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/logger"
)

func TestHealthHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedHealth string
	}{
		{"no dependencies", nil, http.StatusOK, "healthy"},
		{"all up", map[string]Pinger{"redis": up, "postgres": up}, http.StatusOK, "healthy"},
		{"one down", map[string]Pinger{"redis": down, "postgres": up}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(logger.Discard(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("status field = %q, want %q", resp.Status, tt.expectedHealth)
			}
			if resp.Version != Version {
				t.Errorf("version = %q, want %q", resp.Version, Version)
			}
			if len(resp.Dependencies) != len(tt.checks) {
				t.Errorf("expected %d dependency entries, got %d", len(tt.checks), len(resp.Dependencies))
			}
		})
	}
}
