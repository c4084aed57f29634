package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

// DBTX is the subset of pgxpool.Pool the history needs; pgxmock satisfies it too
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the orders table
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	items          JSONB NOT NULL,
	subtotal       NUMERIC NOT NULL,
	discount       NUMERIC NOT NULL,
	shipping       NUMERIC NOT NULL,
	total          NUMERIC NOT NULL,
	coupon_code    TEXT,
	payment_method TEXT NOT NULL,
	customer       JSONB NOT NULL,
	placed_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_session_placed_idx ON orders (session_id, placed_at DESC);`

const selectColumns = `id, items, subtotal::text, discount::text, shipping::text, total::text,
	COALESCE(coupon_code, ''), payment_method, customer, placed_at`

// Postgres stores order history in PostgreSQL, scoped to one session
type Postgres struct {
	db      DBTX
	session string
}

// NewPostgres creates a history for session backed by db
func NewPostgres(db DBTX, session string) *Postgres {
	return &Postgres{db: db, session: session}
}

// EnsureSchema creates the orders table if needed
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create orders schema: %w", err)
	}
	return nil
}

// Record inserts order
func (p *Postgres) Record(ctx context.Context, order models.OrderSnapshot) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, session_id, items, subtotal, discount, shipping, total,
			coupon_code, payment_method, customer, placed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = p.db.Exec(ctx, query,
		order.ID,
		p.session,
		itemsJSON,
		order.Subtotal.String(),
		order.Discount.String(),
		order.Shipping.String(),
		order.Total.String(),
		nullableString(order.CouponCode),
		order.PaymentMethod,
		customerJSON,
		order.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List returns the session's most recent orders, newest first
func (p *Postgres) List(ctx context.Context) ([]models.OrderSnapshot, error) {
	query := `SELECT ` + selectColumns + `
		FROM orders WHERE session_id = $1
		ORDER BY placed_at DESC LIMIT $2`

	rows, err := p.db.Query(ctx, query, p.session, MaxOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.OrderSnapshot{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the session's orders
func (p *Postgres) Get(ctx context.Context, id string) (*models.OrderSnapshot, error) {
	query := `SELECT ` + selectColumns + `
		FROM orders WHERE id = $1 AND session_id = $2`

	order, err := scanOrder(p.db.QueryRow(ctx, query, id, p.session))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*models.OrderSnapshot, error) {
	var (
		order                               models.OrderSnapshot
		itemsJSON, customerJSON             []byte
		subtotal, discount, shipping, total string
		placedAt                            time.Time
	)

	err := row.Scan(
		&order.ID,
		&itemsJSON,
		&subtotal,
		&discount,
		&shipping,
		&total,
		&order.CouponCode,
		&order.PaymentMethod,
		&customerJSON,
		&placedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&order.Subtotal, subtotal},
		{&order.Discount, discount},
		{&order.Shipping, shipping},
		{&order.Total, total},
	} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", f.src, err)
		}
		*f.dst = d
	}

	order.Timestamp = placedAt.UTC()
	return &order, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
