package history

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgres(mock, "sess-1"), mock
}

func orderColumns() []string {
	return []string{
		"id", "items", "subtotal", "discount", "shipping", "total",
		"coupon_code", "payment_method", "customer", "placed_at",
	}
}

func orderRow(t *testing.T, id string, at time.Time) []any {
	t.Helper()
	o := sampleOrder(id, at)
	items, err := json.Marshal(o.Items)
	require.NoError(t, err)
	customer, err := json.Marshal(o.Customer)
	require.NoError(t, err)
	return []any{id, items, "19.48", "1.948", "2.5", "20.032", "SAVE10", "card", customer, at}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestEnsureSchema(t *testing.T) {
	_, mock := newTestPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS orders")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema_AmountsKeepFullPrecision(t *testing.T) {
	assert.Contains(t, Schema, "discount       NUMERIC NOT NULL")
	assert.NotContains(t, Schema, "NUMERIC(", "a fixed scale rounds fractional percentage discounts")
}

func TestPostgres_FractionalDiscountRoundTrip(t *testing.T) {
	repo, mock := newTestPostgres(t)
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	order := sampleOrder("ord-9", at)
	order.Items = order.Items[:1]
	order.Subtotal = decimal.RequireFromString("5.99")
	order.Discount = decimal.RequireFromString("0.74875")
	order.Total = decimal.RequireFromString("7.74125")
	order.CouponCode = "HALFTEN"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("ord-9", "sess-1", pgxmock.AnyArg(), "5.99", "0.74875", "2.5", "7.74125",
			pgxmock.AnyArg(), "card", pgxmock.AnyArg(), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.Record(context.Background(), order))

	row := orderRow(t, "ord-9", at)
	row[2], row[3], row[5] = "5.99", "0.74875", "7.74125"
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1 AND session_id = $2")).
		WithArgs("ord-9", "sess-1").
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(row...))

	got, err := repo.Get(context.Background(), "ord-9")
	require.NoError(t, err)
	assert.True(t, got.Discount.Equal(order.Discount), "discount %s", got.Discount)
	assert.True(t, got.Total.Equal(order.Total), "total %s", got.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Record(t *testing.T) {
	repo, mock := newTestPostgres(t)
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("ord-1", "sess-1", pgxmock.AnyArg(), "19.48", "1.948", "2.5", "20.032",
			pgxmock.AnyArg(), "card", pgxmock.AnyArg(), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Record(context.Background(), sampleOrder("ord-1", at)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Record_Error(t *testing.T) {
	repo, mock := newTestPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Record(context.Background(), sampleOrder("ord-1", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order")
}

func TestPostgres_List(t *testing.T) {
	repo, mock := newTestPostgres(t)
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE session_id = $1")).
		WithArgs("sess-1", MaxOrders).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(orderRow(t, "ord-2", at.Add(time.Minute))...).
			AddRow(orderRow(t, "ord-1", at)...))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-2", orders[0].ID)
	assert.True(t, orders[1].Total.Equal(decimal.RequireFromString("20.032")))
	assert.Equal(t, "Nguyen Van A", orders[1].Customer.FullName)
	assert.Len(t, orders[1].Items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get(t *testing.T) {
	repo, mock := newTestPostgres(t)
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1 AND session_id = $2")).
		WithArgs("ord-1", "sess-1").
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(orderRow(t, "ord-1", at)...))

	order, err := repo.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, at, order.Timestamp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get_NotFound(t *testing.T) {
	repo, mock := newTestPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).
		WithArgs("missing", "sess-1").
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
