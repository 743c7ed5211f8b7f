package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// conventionalNext maps each status to the progression the admin console
// suggests. It is advisory only: the storage layer accepts any status write
// from an authorized admin, so these hints are never enforced on mutation.
var conventionalNext = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusDelivered},
	StatusReady:     {StatusDelivered},
}

var ErrOrderNotFound = errors.New("order not found")

// NextStatuses returns the conventional follow-up statuses for s, used by the
// admin console to decide which transition buttons to render. Terminal or
// unrecognized statuses yield an empty slice.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return conventionalNext[s]
}

// Payment methods accepted at checkout.
const (
	PaymentCOD   = "cod"
	PaymentGCash = "gcash"
	PaymentBank  = "bank"
)

// LineItem is one {product, price, quantity} tuple captured at order-creation
// time. It deliberately copies name and price so later product edits do not
// rewrite order history.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is the checkout aggregate. Items is persisted as a single serialized
// column rather than a normalized table.
type Order struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryLat     *string         `json:"delivery_latitude"`
	DeliveryLng     *string         `json:"delivery_longitude"`
	PaymentMethod   string          `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	Items           []LineItem      `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ItemsTotal computes the sum of price times quantity over all line items at
// two-decimal precision.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}
