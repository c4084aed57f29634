// Package history keeps placed orders for the order history and tracking pages.
package history

import (
	"context"
	"errors"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// MaxOrders caps how many past orders a session keeps
const MaxOrders = 50

// Store receives finalized order snapshots and serves them back, newest first
type Store interface {
	Record(ctx context.Context, order models.OrderSnapshot) error
	List(ctx context.Context) ([]models.OrderSnapshot, error)
	Get(ctx context.Context, id string) (*models.OrderSnapshot, error)
}
