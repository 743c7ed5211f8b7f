package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

// OrderService implements checkout and admin order management.
type OrderService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewOrderService(store ports.Store, logger zerolog.Logger) *OrderService {
	return &OrderService{store: store, logger: logger}
}

// Place records a new order. The submitted total is trusted as-is to match the
// storefront's checkout computation; a divergence from the line items is
// logged but does not reject the order.
func (s *OrderService) Place(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	order, err := s.store.CreateOrder(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("customer", input.CustomerName).Msg("failed to create order")
		return nil, err
	}

	if computed := order.ItemsTotal(); !computed.Equal(order.TotalAmount) {
		s.logger.Warn().
			Int64("order_id", order.ID).
			Str("submitted_total", order.TotalAmount.StringFixed(2)).
			Str("computed_total", computed.StringFixed(2)).
			Msg("order total does not match line items")
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order placed")
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateStatus overwrites the order status. No transition table is enforced:
// the admin console merely suggests the conventional progression.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("order_id", id).Str("status", string(status)).Msg("order status updated")
	return order, nil
}
