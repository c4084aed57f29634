package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/pricing"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/repository"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/view"
)

var (
	ErrUnknownProduct = errors.New("product not found")
	ErrInvalidCoupon  = errors.New("coupon code is not valid")
)

// ProductRepository interface for menu lookups
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// Scope identifies whose cart a call touches and the language to render it in
type Scope struct {
	Session string
	Lang    string
}

// CartService applies cart and coupon edits and renders the result
type CartService struct {
	sessions *Sessions
	products ProductRepository
	engine   *pricing.Engine
	views    *view.Builder
	logger   *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(sessions *Sessions, products ProductRepository, engine *pricing.Engine, views *view.Builder, logger *slog.Logger) *CartService {
	return &CartService{
		sessions: sessions,
		products: products,
		engine:   engine,
		views:    views,
		logger:   logger,
	}
}

// Cart renders the cart page view
func (s *CartService) Cart(ctx context.Context, sc Scope) view.CartView {
	sess := s.sessions.Open(sc.Session)
	return s.render(view.StageCart, sc, sess.Cart.Load(ctx), sess.Coupons.Load(ctx))
}

// Checkout renders the checkout page view, shipping included
func (s *CartService) Checkout(ctx context.Context, sc Scope) view.CartView {
	sess := s.sessions.Open(sc.Session)
	return s.render(view.StageCheckout, sc, sess.Cart.Load(ctx), sess.Coupons.Load(ctx))
}

// AddItem adds qty of a menu item, merging with an existing row
func (s *CartService) AddItem(ctx context.Context, sc Scope, productID int64, qty int) (view.CartView, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return view.CartView{}, ErrUnknownProduct
		}
		return view.CartView{}, err
	}

	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	item := models.LineItem{
		ID:        product.LineItemID(),
		Title:     product.TitleKey,
		UnitPrice: product.Price,
	}
	cart := sess.Cart.AddOrIncrement(ctx, item, qty)

	s.logger.DebugContext(ctx, "item added to cart",
		slog.String("session", sess.ID),
		slog.String("item_id", item.ID),
		slog.Int("quantity", qty),
	)
	return s.render(view.StageCart, sc, cart, sess.Coupons.Load(ctx)), nil
}

// UpdateQuantity sets the quantity of a row; values outside 1..99 are clamped
func (s *CartService) UpdateQuantity(ctx context.Context, sc Scope, itemID string, qty int) view.CartView {
	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	cart := sess.Cart.SetQuantity(ctx, itemID, qty)
	return s.render(view.StageCart, sc, cart, sess.Coupons.Load(ctx))
}

// RemoveItem deletes a row
func (s *CartService) RemoveItem(ctx context.Context, sc Scope, itemID string) view.CartView {
	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	cart := sess.Cart.Remove(ctx, itemID)
	return s.render(view.StageCart, sc, cart, sess.Coupons.Load(ctx))
}

// Clear empties the cart. An applied coupon stays applied.
func (s *CartService) Clear(ctx context.Context, sc Scope) view.CartView {
	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	sess.Cart.Clear(ctx)
	return s.render(view.StageCart, sc, models.NewCart(), sess.Coupons.Load(ctx))
}

// ApplyCoupon applies code, replacing any coupon already applied. Unknown
// codes return ErrInvalidCoupon and leave the stores untouched.
func (s *CartService) ApplyCoupon(ctx context.Context, sc Scope, code string) (view.CartView, error) {
	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	coupon := sess.Coupons.Lookup(code)
	if coupon == nil {
		couponApplications.WithLabelValues(couponRejected).Inc()
		s.logger.InfoContext(ctx, "coupon rejected",
			slog.String("session", sess.ID),
			slog.String("code", models.NormalizeCode(code)),
		)
		return view.CartView{}, ErrInvalidCoupon
	}

	outcome := couponApplied
	if sess.Coupons.Load(ctx) != nil {
		outcome = couponReplaced
	}
	sess.Coupons.Save(ctx, *coupon)
	couponApplications.WithLabelValues(outcome).Inc()

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("session", sess.ID),
		slog.String("code", coupon.Code),
		slog.String("outcome", outcome),
	)
	return s.render(view.StageCart, sc, sess.Cart.Load(ctx), coupon), nil
}

// RemoveCoupon clears the applied coupon
func (s *CartService) RemoveCoupon(ctx context.Context, sc Scope) view.CartView {
	sess, release := s.sessions.Lock(sc.Session)
	defer release()

	sess.Coupons.Clear(ctx)
	return s.render(view.StageCart, sc, sess.Cart.Load(ctx), nil)
}

func (s *CartService) render(stage view.Stage, sc Scope, cart models.Cart, coupon *models.Coupon) view.CartView {
	var totals models.OrderTotals
	if stage == view.StageCheckout {
		totals = s.engine.CheckoutTotals(cart.Items, coupon)
	} else {
		totals = s.engine.CartTotals(cart.Items, coupon)
	}
	return s.views.Build(stage, sc.Lang, cart, coupon, totals)
}
