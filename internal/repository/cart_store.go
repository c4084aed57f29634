package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
)

// CartKey is the storage key holding the line-item array
const CartKey = "cart"

// CartStore persists the cart as a JSON array of line items.
// Reads never fail: anything unreadable is treated as an empty cart.
// Writes never fail either; errors are logged and the caller keeps
// working with its in-memory copy.
type CartStore struct {
	kv     storage.KV
	logger *slog.Logger
}

// NewCartStore creates a cart store over kv
func NewCartStore(kv storage.KV, logger *slog.Logger) *CartStore {
	return &CartStore{kv: kv, logger: logger}
}

// Load returns the persisted cart, or an empty one
func (s *CartStore) Load(ctx context.Context) models.Cart {
	raw, ok, err := s.kv.Get(ctx, CartKey)
	if err != nil {
		s.logger.WarnContext(ctx, "cart read failed, using empty cart", slog.String("error", err.Error()))
		return models.NewCart()
	}
	if !ok {
		return models.NewCart()
	}

	cart, err := decodeCart(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cart", slog.String("error", err.Error()))
		return models.NewCart()
	}
	return cart
}

// Save persists cart
func (s *CartStore) Save(ctx context.Context, cart models.Cart) {
	items := cart.Items
	if items == nil {
		items = []models.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode cart", slog.String("error", err.Error()))
		return
	}
	if err := s.kv.Set(ctx, CartKey, string(data)); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.Int("items", len(items)),
			slog.String("error", err.Error()),
		)
	}
}

// Clear removes the persisted cart entirely
func (s *CartStore) Clear(ctx context.Context) {
	if err := s.kv.Remove(ctx, CartKey); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart", slog.String("error", err.Error()))
	}
}

// AddOrIncrement adds qty of item. An existing row with the same id has its
// quantity raised (capped at MaxQuantity) instead of gaining a duplicate row.
func (s *CartStore) AddOrIncrement(ctx context.Context, item models.LineItem, qty int) models.Cart {
	cart := s.Load(ctx)

	if i := cart.IndexOf(item.ID); i >= 0 {
		cart.Items[i].Quantity = addQuantity(cart.Items[i].Quantity, qty)
	} else {
		item.Quantity = models.ClampQuantity(qty)
		cart.Items = append(cart.Items, item)
	}

	s.Save(ctx, cart)
	return cart
}

// SetQuantity sets the quantity of row id, clamped into range. Missing ids are ignored.
func (s *CartStore) SetQuantity(ctx context.Context, id string, qty int) models.Cart {
	cart := s.Load(ctx)

	i := cart.IndexOf(id)
	if i < 0 {
		return cart
	}
	cart.Items[i].Quantity = models.ClampQuantity(qty)

	s.Save(ctx, cart)
	return cart
}

// Remove deletes row id. Missing ids are ignored.
func (s *CartStore) Remove(ctx context.Context, id string) models.Cart {
	cart := s.Load(ctx)

	i := cart.IndexOf(id)
	if i < 0 {
		return cart
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	s.Save(ctx, cart)
	return cart
}

// addQuantity raises cur by qty without overflowing, clamped into range
func addQuantity(cur, qty int) int {
	if qty >= models.MaxQuantity-cur {
		return models.MaxQuantity
	}
	return models.ClampQuantity(cur + qty)
}

// decodeCart parses a persisted cart document. Quantities outside the
// allowed range count as malformed and decode as 0. Rows sharing an id are
// merged into the first one.
func decodeCart(raw string) (models.Cart, error) {
	var rows []models.LineItem
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return models.Cart{}, fmt.Errorf("decode cart: %w", err)
	}

	items := make([]models.LineItem, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.Quantity < models.MinQuantity || row.Quantity > models.MaxQuantity {
			row.Quantity = 0
		}
		if i, ok := seen[row.ID]; ok {
			items[i].Quantity = min(items[i].Quantity+row.Quantity, models.MaxQuantity)
			continue
		}
		seen[row.ID] = len(items)
		items = append(items, row)
	}
	return models.Cart{Items: items}, nil
}
