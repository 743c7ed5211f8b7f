// Package postgres implements the storage contract backed by PostgreSQL.
// Orders keep their line items as one JSON-serialized text column rather than
// a normalized table; concurrency control is left to the engine's default
// isolation level.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/seed"
)

const uniqueViolation = "23505"

// Store implements ports.Store backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ ports.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the three tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password      TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'customer',
			security_code TEXT,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(12,2) NOT NULL,
			category    TEXT NOT NULL,
			image_url   TEXT,
			available   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id               BIGSERIAL PRIMARY KEY,
			customer_name    TEXT NOT NULL,
			customer_phone   TEXT NOT NULL,
			delivery_address TEXT NOT NULL,
			delivery_lat     TEXT,
			delivery_lng     TEXT,
			payment_method   TEXT NOT NULL,
			total_amount     NUMERIC(12,2) NOT NULL,
			status           TEXT NOT NULL,
			items            TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC, id DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Users ------------------------------------------------------------------

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, security_code, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, security_code, created_at
		FROM users
		WHERE username = $1
	`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u    domain.User
		code sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &code, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if code.Valid {
		u.SecurityCode = &code.String
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	now := time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, role, security_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, input.Username, input.Password, role, input.SecurityCode, now).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &domain.User{
		ID:           id,
		Username:     input.Username,
		Password:     input.Password,
		Role:         role,
		SecurityCode: input.SecurityCode,
		CreatedAt:    now,
	}, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id int64, password string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE id = $1
	`, id, password)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// --- Products ---------------------------------------------------------------

const productColumns = `id, name, description, price, category, image_url, available, created_at`

func (s *Store) ListAvailableProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE available
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func (s *Store) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	out := []*domain.Product{}
	for rows.Next() {
		var (
			p   domain.Product
			img sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &img, &p.Available, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if img.Valid {
			p.ImageURL = &img.String
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)

	var (
		p   domain.Product
		img sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &img, &p.Available, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if img.Valid {
		p.ImageURL = &img.String
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	available := true
	if input.Available != nil {
		available = *input.Available
	}
	now := time.Now().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, category, image_url, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, input.Name, input.Description, input.Price.Round(2), input.Category, input.ImageURL, available, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Available:   available,
		CreatedAt:   now,
	}, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, input ports.CreateProductInput) (*domain.Product, error) {
	available := true
	if input.Available != nil {
		available = *input.Available
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, image_url = $6, available = $7
		WHERE id = $1
	`, id, input.Name, input.Description, input.Price.Round(2), input.Category, input.ImageURL, available)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, domain.ErrProductNotFound
	}
	return s.GetProduct(ctx, id)
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// --- Orders -----------------------------------------------------------------

const orderColumns = `id, customer_name, customer_phone, delivery_address, delivery_lat, delivery_lng, payment_method, total_amount, status, items, created_at`

func (s *Store) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func scanOrder(scan func(...any) error) (*domain.Order, error) {
	var (
		o        domain.Order
		lat, lng sql.NullString
		itemsRaw []byte
	)
	if err := scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress, &lat, &lng,
		&o.PaymentMethod, &o.TotalAmount, &o.Status, &itemsRaw, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if lat.Valid {
		o.DeliveryLat = &lat.String
	}
	if lng.Valid {
		o.DeliveryLng = &lng.String
	}
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	now := time.Now().UTC()

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO orders (customer_name, customer_phone, delivery_address, delivery_lat, delivery_lng,
			payment_method, total_amount, status, items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, input.CustomerName, input.CustomerPhone, input.DeliveryAddress, input.DeliveryLat, input.DeliveryLng,
		input.PaymentMethod, input.TotalAmount.Round(2), domain.StatusPending, itemsJSON, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return &domain.Order{
		ID:              id,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryLat:     input.DeliveryLat,
		DeliveryLng:     input.DeliveryLng,
		PaymentMethod:   input.PaymentMethod,
		TotalAmount:     input.TotalAmount.Round(2),
		Status:          domain.StatusPending,
		Items:           append([]domain.LineItem(nil), input.Items...),
		CreatedAt:       now,
	}, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.GetOrder(ctx, id)
}

// --- Bootstrap --------------------------------------------------------------

// Seed creates the default admin account and starter catalog, but only when
// neither exists yet.
func (s *Store) Seed(ctx context.Context, admin ports.SeedAdmin) error {
	return seed.Run(ctx, s, admin)
}
