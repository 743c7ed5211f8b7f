package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// CreateUserInput carries the fields needed to insert a user. Role defaults to
// customer and SecurityCode to nil when absent.
type CreateUserInput struct {
	Username     string
	Password     string // bcrypt hash, never plaintext
	Role         string
	SecurityCode *string
}

// CreateProductInput carries the mutable product fields. Available defaults to
// true and ImageURL to nil when omitted.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    *string
	Available   *bool
}

// CreateOrderInput carries the checkout payload. The store forces the initial
// status to pending regardless of anything the caller supplies.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	DeliveryLat     *string
	DeliveryLng     *string
	PaymentMethod   string
	TotalAmount     decimal.Decimal
	Items           []domain.LineItem
}

// SeedAdmin describes the bootstrap administrator account.
type SeedAdmin struct {
	Username     string
	Password     string // bcrypt hash
	SecurityCode string
}

// Store is the uniform storage contract both persistence backends implement.
// Misses on id-keyed reads/updates are reported with the domain sentinel
// errors, never by panicking or by returning partial records. Both
// implementations must pass the shared contract test so their observable
// behavior cannot drift.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// CreateUser enforces username uniqueness and returns domain.ErrUserExists
	// on a duplicate, uniformly in both backends.
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id int64, password string) error

	// Products
	ListAvailableProducts(ctx context.Context) ([]*domain.Product, error)
	ListAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	// UpdateProduct replaces every mutable field; id and created_at are kept.
	UpdateProduct(ctx context.Context, id int64, input CreateProductInput) (*domain.Product, error)
	// DeleteProduct hard-deletes and reports whether a row was actually removed.
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	// Orders
	// ListOrders returns every order regardless of status, newest first
	// (created_at descending, then id descending).
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	// UpdateOrderStatus overwrites the status unconditionally; any string is
	// accepted from an authorized caller.
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)

	// Seed performs the idempotent first-run bootstrap: when the admin username
	// is absent and the catalog is empty, it creates the admin account and the
	// starter products. Subsequent calls are no-ops.
	Seed(ctx context.Context, admin SeedAdmin) error
}
