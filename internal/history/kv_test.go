package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/logger"
)

func sampleOrder(id string, at time.Time) models.OrderSnapshot {
	return models.OrderSnapshot{
		ID: id,
		Items: []models.LineItem{
			{ID: "1", Title: "menu.pho_bo", UnitPrice: 5.99, Quantity: 2},
			{ID: "2", Title: "menu.banh_mi", UnitPrice: 7.5, Quantity: 1},
		},
		OrderTotals: models.OrderTotals{
			Subtotal: decimal.RequireFromString("19.48"),
			Discount: decimal.RequireFromString("1.948"),
			Shipping: decimal.RequireFromString("2.5"),
			Total:    decimal.RequireFromString("20.032"),
		},
		CouponCode:    "SAVE10",
		PaymentMethod: "card",
		Customer: models.Customer{
			FullName: "Nguyen Van A",
			Email:    "a@example.com",
			Phone:    "+84901234567",
			Address:  "1 Le Loi, District 1",
		},
		Timestamp: at,
	}
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errors.New("down") }
func (brokenKV) Set(context.Context, string, string) error         { return errors.New("down") }
func (brokenKV) Remove(context.Context, string) error              { return errors.New("down") }

func TestKVHistory_RecordListGet(t *testing.T) {
	h := NewKVHistory(storage.NewMemory(), logger.Discard())
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	list, err := h.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, h.Record(ctx, sampleOrder("ord-1", now)))
	require.NoError(t, h.Record(ctx, sampleOrder("ord-2", now.Add(time.Minute))))

	list, err = h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ord-2", list[0].ID, "newest first")
	assert.Equal(t, "ord-1", list[1].ID)

	got, err := h.Get(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, got.Discount.Equal(decimal.RequireFromString("1.948")))
	assert.Equal(t, "SAVE10", got.CouponCode)
	assert.Equal(t, now, got.Timestamp)
	assert.Len(t, got.Items, 2)

	_, err = h.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestKVHistory_CapsAtMaxOrders(t *testing.T) {
	h := NewKVHistory(storage.NewMemory(), logger.Discard())
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < MaxOrders+5; i++ {
		require.NoError(t, h.Record(ctx, sampleOrder(fmt.Sprintf("ord-%d", i), now)))
	}

	list, err := h.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, MaxOrders)
	assert.Equal(t, fmt.Sprintf("ord-%d", MaxOrders+4), list[0].ID)
}

func TestKVHistory_CorruptHistoryIsReset(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), HistoryKey, "not json"))
	h := NewKVHistory(kv, logger.Discard())

	list, err := h.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, h.Record(context.Background(), sampleOrder("ord-1", time.Now())))
	list, _ = h.List(context.Background())
	assert.Len(t, list, 1)
}

func TestKVHistory_StorageErrorsSurface(t *testing.T) {
	h := NewKVHistory(brokenKV{}, logger.Discard())

	assert.Error(t, h.Record(context.Background(), sampleOrder("ord-1", time.Now())))
	_, err := h.List(context.Background())
	assert.Error(t, err)
}
