package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/coupon"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/history"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/pricing"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/repository"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/view"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/logger"
)

const testSession = "tab-1"

var shippingFee = decimal.RequireFromString("2.50")

type fixture struct {
	kv       *storage.Memory
	sessions *Sessions
	carts    *CartService
	orders   *OrderService
	events   *recordingPublisher
}

func newFixture(t *testing.T, histories HistoryFactory) *fixture {
	t.Helper()

	log := logger.Discard()
	kv := storage.NewMemory()
	sessions := NewSessions(kv, coupon.NewTable(coupon.DefaultCoupons()...), histories, log)
	engine := pricing.NewEngine(shippingFee)
	events := &recordingPublisher{}

	return &fixture{
		kv:       kv,
		sessions: sessions,
		carts:    NewCartService(sessions, repository.NewInMemoryProductRepository(), engine, view.NewBuilder(view.NewCatalog()), log),
		orders:   NewOrderService(sessions, engine, events, "https://shop.example.com/", log),
		events:   events,
	}
}

// fillPhoBanhMiCart fills the session with 2 x Beef Pho (5.99) and 1 x Banh Mi (7.50)
func (f *fixture) fillPhoBanhMiCart(t *testing.T) {
	t.Helper()
	sc := Scope{Session: testSession}
	_, err := f.carts.AddItem(context.Background(), sc, 1, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(context.Background(), sc, 2, 1)
	require.NoError(t, err)
}

type recordingPublisher struct {
	orders []models.OrderSnapshot
	err    error
}

func (p *recordingPublisher) OrderPlaced(_ context.Context, o models.OrderSnapshot) error {
	if p.err != nil {
		return p.err
	}
	p.orders = append(p.orders, o)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type failingHistory struct{}

func (failingHistory) Record(context.Context, models.OrderSnapshot) error {
	return errors.New("disk full")
}
func (failingHistory) List(context.Context) ([]models.OrderSnapshot, error) { return nil, nil }
func (failingHistory) Get(context.Context, string) (*models.OrderSnapshot, error) {
	return nil, history.ErrOrderNotFound
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
