package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
)

// HistoryKey is the storage key holding the order list
const HistoryKey = "orderHistory"

// KVHistory stores a session's orders as one JSON array next to its cart
type KVHistory struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *slog.Logger
}

// NewKVHistory creates a history over kv
func NewKVHistory(kv storage.KV, logger *slog.Logger) *KVHistory {
	return &KVHistory{kv: kv, logger: logger}
}

// Record prepends order, dropping the oldest beyond MaxOrders
func (h *KVHistory) Record(ctx context.Context, order models.OrderSnapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.load(ctx)
	if err != nil {
		return err
	}

	orders = append([]models.OrderSnapshot{order}, orders...)
	if len(orders) > MaxOrders {
		orders = orders[:MaxOrders]
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	if err := h.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("save order history: %w", err)
	}
	return nil
}

// List returns all recorded orders, newest first
func (h *KVHistory) List(ctx context.Context) ([]models.OrderSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Get returns the order with id
func (h *KVHistory) Get(ctx context.Context, id string) (*models.OrderSnapshot, error) {
	orders, err := h.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// load reads the stored list. An unreadable list is logged and treated as
// empty, matching how the cart recovers from bad data.
func (h *KVHistory) load(ctx context.Context) ([]models.OrderSnapshot, error) {
	raw, ok, err := h.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("read order history: %w", err)
	}
	if !ok {
		return []models.OrderSnapshot{}, nil
	}

	var orders []models.OrderSnapshot
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		h.logger.WarnContext(ctx, "discarding unreadable order history", slog.String("error", err.Error()))
		return []models.OrderSnapshot{}, nil
	}
	if orders == nil {
		orders = []models.OrderSnapshot{}
	}
	return orders, nil
}
