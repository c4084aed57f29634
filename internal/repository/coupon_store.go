package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
)

// CouponKey is the storage key holding the applied coupon record
const CouponKey = "appliedCoupon"

// CouponTable resolves user-entered codes against the known coupons
type CouponTable interface {
	Lookup(code string) *models.Coupon
}

// CouponStore holds at most one applied coupon. Like CartStore it never
// surfaces storage errors to the caller.
type CouponStore struct {
	kv     storage.KV
	table  CouponTable
	logger *slog.Logger
}

// NewCouponStore creates a coupon store over kv, resolving codes with table
func NewCouponStore(kv storage.KV, table CouponTable, logger *slog.Logger) *CouponStore {
	return &CouponStore{kv: kv, table: table, logger: logger}
}

// Load returns the applied coupon, or nil when none is applied or the record is unreadable
func (s *CouponStore) Load(ctx context.Context) *models.Coupon {
	raw, ok, err := s.kv.Get(ctx, CouponKey)
	if err != nil {
		s.logger.WarnContext(ctx, "coupon read failed, ignoring coupon", slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		return nil
	}

	c, err := decodeCoupon(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable coupon", slog.String("error", err.Error()))
		return nil
	}
	return c
}

// Save persists c as the one applied coupon, replacing any previous one
func (s *CouponStore) Save(ctx context.Context, c models.Coupon) {
	data, err := json.Marshal(c)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode coupon", slog.String("error", err.Error()))
		return
	}
	if err := s.kv.Set(ctx, CouponKey, string(data)); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist coupon",
			slog.String("code", c.Code),
			slog.String("error", err.Error()),
		)
	}
}

// Clear removes the applied coupon
func (s *CouponStore) Clear(ctx context.Context) {
	if err := s.kv.Remove(ctx, CouponKey); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear coupon", slog.String("error", err.Error()))
	}
}

// Lookup resolves code against the coupon table; unknown codes give nil
func (s *CouponStore) Lookup(code string) *models.Coupon {
	return s.table.Lookup(code)
}

func decodeCoupon(raw string) (*models.Coupon, error) {
	var c models.Coupon
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode coupon: %w", err)
	}
	if c.Code == "" {
		return nil, errors.New("decode coupon: missing code")
	}
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("decode coupon: unknown kind %q", c.Kind)
	}
	return &c, nil
}
