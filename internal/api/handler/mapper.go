package handler

import (
	"time"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// timeFormat renders timestamps the way every endpoint does.
const timeFormat = time.RFC3339

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(timeFormat),
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt.UTC().Format(timeFormat),
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]lineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemResponse{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.Price.StringFixed(2),
			Quantity: it.Quantity,
		})
	}

	next := o.Status.NextStatuses()
	hints := make([]string, 0, len(next))
	for _, s := range next {
		hints = append(hints, string(s))
	}

	return orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryLat:     o.DeliveryLat,
		DeliveryLng:     o.DeliveryLng,
		PaymentMethod:   o.PaymentMethod,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		Items:           items,
		CreatedAt:       o.CreatedAt.UTC().Format(timeFormat),
		NextStatuses:    hints,
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
