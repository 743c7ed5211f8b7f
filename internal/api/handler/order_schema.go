package handler

import (
	"fmt"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

type lineItemRequest struct {
	ID       int64  `json:"id"       validate:"required"`
	Name     string `json:"name"     validate:"required"`
	Price    string `json:"price"    validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// createOrderRequest is the checkout payload. Any status field a client
// smuggles in is ignored: the store forces pending.
type createOrderRequest struct {
	CustomerName    string            `json:"customer_name"    validate:"required"`
	CustomerPhone   string            `json:"customer_phone"   validate:"required"`
	DeliveryAddress string            `json:"delivery_address" validate:"required"`
	DeliveryLat     *string           `json:"delivery_latitude"`
	DeliveryLng     *string           `json:"delivery_longitude"`
	PaymentMethod   string            `json:"payment_method"   validate:"required,oneof=cod gcash bank"`
	TotalAmount     string            `json:"total_amount"     validate:"required"`
	Items           []lineItemRequest `json:"items"            validate:"required,min=1,dive"`
}

func (r createOrderRequest) toInput() (ports.CreateOrderInput, error) {
	total, err := parseAmount(r.TotalAmount)
	if err != nil {
		return ports.CreateOrderInput{}, fmt.Errorf("total_amount %w", err)
	}

	items := make([]domain.LineItem, 0, len(r.Items))
	for i, it := range r.Items {
		price, err := parseAmount(it.Price)
		if err != nil {
			return ports.CreateOrderInput{}, fmt.Errorf("items[%d].price %w", i, err)
		}
		items = append(items, domain.LineItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
		})
	}

	return ports.CreateOrderInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		DeliveryLat:     r.DeliveryLat,
		DeliveryLng:     r.DeliveryLng,
		PaymentMethod:   r.PaymentMethod,
		TotalAmount:     total,
		Items:           items,
	}, nil
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type lineItemResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// orderResponse is the transport-layer order view. NextStatuses carries the
// advisory progression hints the admin console renders as buttons; the server
// does not enforce them on writes.
type orderResponse struct {
	ID              int64              `json:"id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryLat     *string            `json:"delivery_latitude"`
	DeliveryLng     *string            `json:"delivery_longitude"`
	PaymentMethod   string             `json:"payment_method"`
	TotalAmount     string             `json:"total_amount"`
	Status          string             `json:"status"`
	Items           []lineItemResponse `json:"items"`
	CreatedAt       string             `json:"created_at"`
	NextStatuses    []string           `json:"next_statuses"`
}
