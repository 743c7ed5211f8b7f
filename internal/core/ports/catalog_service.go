package ports

import (
	"context"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// CatalogService defines use-case operations for the product catalog.
// Browse returns available products only; the admin variants operate on the
// full catalog including hidden entries.
type CatalogService interface {
	Browse(ctx context.Context) ([]*domain.Product, error)
	BrowseAll(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input CreateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
