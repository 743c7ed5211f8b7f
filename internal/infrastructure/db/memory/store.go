// Package memory provides a map-backed implementation of the storage
// contract for development and tests. State is process-local and guarded by a
// single RWMutex; it satisfies the same contract test as the Postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/seed"
)

// Store is the in-memory storage backend.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*domain.User
	products map[int64]*domain.Product
	orders   map[int64]*domain.Order

	nextUserID    int64
	nextProductID int64
	nextOrderID   int64
}

var _ ports.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[int64]*domain.User),
		products: make(map[int64]*domain.Product),
		orders:   make(map[int64]*domain.Order),
	}
}

// --- Users ------------------------------------------------------------------

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == input.Username {
			return nil, domain.ErrUserExists
		}
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	s.nextUserID++
	u := &domain.User{
		ID:           s.nextUserID,
		Username:     input.Username,
		Password:     input.Password,
		Role:         role,
		SecurityCode: cloneString(input.SecurityCode),
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *Store) UpdateUserPassword(_ context.Context, id int64, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Password = password
	return nil
}

// --- Products ---------------------------------------------------------------

func (s *Store) ListAvailableProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listProducts(func(p *domain.Product) bool { return p.Available }), nil
}

func (s *Store) ListAllProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listProducts(func(*domain.Product) bool { return true }), nil
}

func (s *Store) listProducts(keep func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (s *Store) CreateProduct(_ context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	s.nextProductID++
	p := &domain.Product{
		ID:          s.nextProductID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Category:    input.Category,
		ImageURL:    cloneString(input.ImageURL),
		Available:   available,
		CreatedAt:   time.Now().UTC(),
	}
	s.products[p.ID] = p
	return cloneProduct(p), nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, input ports.CreateProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	p.Name = input.Name
	p.Description = input.Description
	p.Price = input.Price.Round(2)
	p.Category = input.Category
	p.ImageURL = cloneString(input.ImageURL)
	p.Available = available
	return cloneProduct(p), nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// --- Orders -----------------------------------------------------------------

func (s *Store) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) CreateOrder(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	o := &domain.Order{
		ID:              s.nextOrderID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryLat:     cloneString(input.DeliveryLat),
		DeliveryLng:     cloneString(input.DeliveryLng),
		PaymentMethod:   input.PaymentMethod,
		TotalAmount:     input.TotalAmount.Round(2),
		Status:          domain.StatusPending,
		Items:           append([]domain.LineItem(nil), input.Items...),
		CreatedAt:       time.Now().UTC(),
	}
	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	return cloneOrder(o), nil
}

// --- Bootstrap --------------------------------------------------------------

// Seed creates the default admin account and starter catalog, but only when
// neither exists yet.
func (s *Store) Seed(ctx context.Context, admin ports.SeedAdmin) error {
	return seed.Run(ctx, s, admin)
}

// --- clone helpers ----------------------------------------------------------
// Stored records are cloned on the way in and out so callers can never mutate
// shared state behind the lock.

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.SecurityCode = cloneString(u.SecurityCode)
	return &clone
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.ImageURL = cloneString(p.ImageURL)
	return &clone
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.DeliveryLat = cloneString(o.DeliveryLat)
	clone.DeliveryLng = cloneString(o.DeliveryLng)
	clone.Items = append([]domain.LineItem(nil), o.Items...)
	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
