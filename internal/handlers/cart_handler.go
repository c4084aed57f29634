package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/service"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/view"
)

// CartHandler exposes the cart, coupon and checkout views
type CartHandler struct {
	carts      *service.CartService
	translator view.Translator
	logger     *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, translator view.Translator, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:      carts,
		translator: translator,
		logger:     logger,
	}
}

type addItemRequest struct {
	ProductID any `json:"productId"`
	Quantity  any `json:"quantity"`
}

type quantityRequest struct {
	Quantity any `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.carts.Cart(r.Context(), scopeFrom(r)), h.logger)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.carts.Clear(r.Context(), scopeFrom(r)), h.logger)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	productID, ok := parseProductID(req.ProductID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	// a missing quantity adds one
	qty := 1
	if req.Quantity != nil {
		qty = models.ParseQuantity(req.Quantity)
	}

	v, err := h.carts.AddItem(r.Context(), scopeFrom(r), productID, qty)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProduct) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to add item", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, v, h.logger)
}

// UpdateItem handles PUT /api/cart/items/{productId}
// Non-numeric quantities count as 1; everything is clamped into 1..99
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode quantity request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	itemID := chi.URLParam(r, "productId")
	v := h.carts.UpdateQuantity(r.Context(), scopeFrom(r), itemID, models.ParseQuantity(req.Quantity))
	WriteJSON(w, http.StatusOK, v, h.logger)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "productId")
	WriteJSON(w, http.StatusOK, h.carts.RemoveItem(r.Context(), scopeFrom(r), itemID), h.logger)
}

// ApplyCoupon handles POST /api/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode coupon request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	scope := scopeFrom(r)
	v, err := h.carts.ApplyCoupon(r.Context(), scope, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			WriteError(w, http.StatusNotFound, h.translator.Translate(scope.Lang, "coupon.invalid"), h.logger)
			return
		}
		h.logger.Error("failed to apply coupon", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, v, h.logger)
}

// RemoveCoupon handles DELETE /api/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.carts.RemoveCoupon(r.Context(), scopeFrom(r)), h.logger)
}

// Checkout handles GET /api/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.carts.Checkout(r.Context(), scopeFrom(r)), h.logger)
}
