package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/service"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/view"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/validator"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	translator   view.Translator
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, translator view.Translator, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		translator:   translator,
		log:          log,
	}
}

// PlaceOrder handles POST /api/order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form models.CheckoutForm

	// Parse request body
	if err := decodeJSON(w, r, &form); err != nil {
		h.log.Error("failed to decode checkout form", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	scope := scopeFrom(r)
	order, err := h.orderService.PlaceOrder(r.Context(), scope.Session, form)
	if err != nil {
		var verr *validator.ValidationError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			WriteError(w, http.StatusConflict, h.translator.Translate(scope.Lang, "checkout.empty_cart"), h.log)
		case errors.As(err, &verr):
			WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "Invalid checkout details",
				"fields": verr.Fields(),
			}, h.log)
		default:
			h.log.Error("failed to place order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context(), scopeFrom(r).Session)
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// GetOrder handles GET /api/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.orderService.GetOrder(r.Context(), scopeFrom(r).Session, orderID)
	if err != nil {
		h.writeLookupError(w, orderID, err)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// OrderQR handles GET /api/orders/{orderId}/qr
func (h *OrderHandler) OrderQR(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	png, err := h.orderService.TrackingQR(r.Context(), scopeFrom(r).Session, orderID)
	if err != nil {
		h.writeLookupError(w, orderID, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error("failed to write qr code", "order_id", orderID, "error", err)
	}
}

func (h *OrderHandler) writeLookupError(w http.ResponseWriter, orderID string, err error) {
	if errors.Is(err, service.ErrOrderNotFound) {
		WriteError(w, http.StatusNotFound, "Order not found", h.log)
		return
	}
	h.log.Error("failed to get order", "order_id", orderID, "error", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
}
