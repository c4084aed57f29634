package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/event"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/history"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/pricing"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/validator"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// QRSize is the edge length in pixels of tracking QR codes
const QRSize = 256

// TrackedOrder is a placed order with its simulated delivery progress
type TrackedOrder struct {
	models.OrderSnapshot
	Status      models.OrderStatus `json:"status"`
	TrackingURL string             `json:"trackingUrl"`
}

// OrderService turns a checked-out cart into a placed order
type OrderService struct {
	sessions  *Sessions
	engine    *pricing.Engine
	publisher event.Publisher
	baseURL   string
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewOrderService creates a new order service. Tracking links are built
// from baseURL.
func NewOrderService(sessions *Sessions, engine *pricing.Engine, publisher event.Publisher, baseURL string, logger *slog.Logger) *OrderService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &OrderService{
		sessions:  sessions,
		engine:    engine,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
		newID:     generateOrderID,
	}
}

// PlaceOrder validates form, snapshots the cart at checkout prices, records
// the order and then clears the cart and coupon. Nothing is changed when the
// cart is empty, the form is invalid or the order cannot be recorded.
func (s *OrderService) PlaceOrder(ctx context.Context, session string, form models.CheckoutForm) (*models.OrderSnapshot, error) {
	sess, release := s.sessions.Lock(session)
	defer release()

	cart := sess.Cart.Load(ctx)
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	form = normalizeForm(form)
	if err := validator.Validate(form); err != nil {
		return nil, err
	}

	coupon := sess.Coupons.Load(ctx)
	order := models.OrderSnapshot{
		ID:            s.newID(),
		Items:         cart.Clone().Items,
		OrderTotals:   s.engine.CheckoutTotals(cart.Items, coupon),
		PaymentMethod: form.PaymentMethod,
		Customer: models.Customer{
			FullName: form.FullName,
			Email:    form.Email,
			Phone:    form.Phone,
			Address:  form.Address,
			Note:     form.Note,
		},
		Timestamp: s.now().UTC(),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if err := sess.History.Record(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}

	if err := s.publisher.OrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	sess.Cart.Clear(ctx)
	sess.Coupons.Clear(ctx)
	ordersPlaced.WithLabelValues(order.PaymentMethod).Inc()

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session", sess.ID),
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.String()),
	)
	return &order, nil
}

// ListOrders returns the session's placed orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, session string) ([]TrackedOrder, error) {
	orders, err := s.sessions.Open(session).History.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	now := s.now()
	tracked := make([]TrackedOrder, 0, len(orders))
	for _, o := range orders {
		tracked = append(tracked, s.track(o, now))
	}
	return tracked, nil
}

// GetOrder returns one placed order with its tracking status
func (s *OrderService) GetOrder(ctx context.Context, session, id string) (*TrackedOrder, error) {
	order, err := s.sessions.Open(session).History.Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	tracked := s.track(*order, s.now())
	return &tracked, nil
}

// TrackingQR renders a PNG QR code linking to the order's tracking page
func (s *OrderService) TrackingQR(ctx context.Context, session, id string) ([]byte, error) {
	order, err := s.GetOrder(ctx, session, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(order.TrackingURL, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode tracking qr: %w", err)
	}
	return png, nil
}

func (s *OrderService) track(o models.OrderSnapshot, now time.Time) TrackedOrder {
	return TrackedOrder{
		OrderSnapshot: o,
		Status:        o.StatusAt(now),
		TrackingURL:   s.baseURL + "/orders/" + o.ID,
	}
}

func normalizeForm(f models.CheckoutForm) models.CheckoutForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = validator.NormalizePhone(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	f.Note = strings.TrimSpace(f.Note)
	return f
}

// generateOrderID generates a unique order ID using UUID
func generateOrderID() string {
	return uuid.New().String()
}
