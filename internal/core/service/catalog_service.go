package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

// CatalogService implements product browsing and admin CRUD on top of the
// storage contract.
type CatalogService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewCatalogService(store ports.Store, logger zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// Browse returns the public catalog: available products only.
func (s *CatalogService) Browse(ctx context.Context) ([]*domain.Product, error) {
	return s.store.ListAvailableProducts(ctx)
}

// BrowseAll returns every product, including unavailable ones, for the admin
// console.
func (s *CatalogService) BrowseAll(ctx context.Context) ([]*domain.Product, error) {
	return s.store.ListAllProducts(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := s.store.CreateProduct(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := s.store.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info().Int64("product_id", id).Msg("product deleted")
	}
	return removed, nil
}
