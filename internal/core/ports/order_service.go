package ports

import (
	"context"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// OrderService defines use-case operations for checkout and order management.
type OrderService interface {
	// Place records a new order with status forced to pending.
	Place(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}
