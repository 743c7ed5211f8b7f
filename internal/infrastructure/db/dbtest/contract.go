// Package dbtest holds the storage contract suite. Every persistence backend
// runs the same cases against a fresh store per case, so the two
// implementations cannot drift on observable behavior (miss sentinels,
// listing order, defaulting, seed idempotency).
package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func mustOrder(t *testing.T, store ports.Store) *domain.Order {
	t.Helper()
	o, err := store.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerName: "Maria", CustomerPhone: "+639171234567",
		DeliveryAddress: "123 Rizal St", PaymentMethod: domain.PaymentCOD,
		TotalAmount: dec(t, "5.00"),
		Items:       []domain.LineItem{{ProductID: 1, Name: "Pandesal", Price: dec(t, "5.00"), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return o
}

// RunStoreContract runs the full storage contract against the backend built
// by open. open is called once per case and must return an empty store.
func RunStoreContract(t *testing.T, open func(t *testing.T) ports.Store) {
	t.Run("CreateUser_DuplicateUsername", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		if _, err := store.CreateUser(ctx, ports.CreateUserInput{Username: "alice", Password: "hash"}); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		_, err := store.CreateUser(ctx, ports.CreateUserInput{Username: "alice", Password: "hash2"})
		if !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("CreateUser_DefaultsRole", func(t *testing.T) {
		store := open(t)

		u, err := store.CreateUser(context.Background(), ports.CreateUserInput{Username: "alice", Password: "hash"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if u.ID == 0 {
			t.Fatalf("expected generated id")
		}
		if u.Role != domain.RoleCustomer {
			t.Fatalf("expected customer role, got %q", u.Role)
		}
		if u.SecurityCode != nil {
			t.Fatalf("expected nil security code, got %v", *u.SecurityCode)
		}
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		code := "CODE123"
		created, err := store.CreateUser(ctx, ports.CreateUserInput{
			Username: "alice", Password: "hash",
			Role: domain.RoleAdmin, SecurityCode: &code,
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		u, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if u.ID != created.ID || !u.IsAdmin() {
			t.Fatalf("unexpected user: %+v", u)
		}
		if u.SecurityCode == nil || *u.SecurityCode != code {
			t.Fatalf("security code not persisted")
		}

		if _, err := store.GetUserByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if _, err := store.GetUser(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound by id, got %v", err)
		}
	})

	t.Run("UpdateUserPassword", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		u, err := store.CreateUser(ctx, ports.CreateUserInput{Username: "alice", Password: "old"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if err := store.UpdateUserPassword(ctx, u.ID, "new"); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		reread, err := store.GetUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if reread.Password != "new" {
			t.Fatalf("expected updated password hash, got %q", reread.Password)
		}

		if err := store.UpdateUserPassword(ctx, 999, "x"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("CreateProduct_Defaults", func(t *testing.T) {
		store := open(t)

		p, err := store.CreateProduct(context.Background(), ports.CreateProductInput{
			Name:     "Pandesal",
			Price:    dec(t, "5.00"),
			Category: domain.CategoryBread,
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !p.Available {
			t.Fatalf("expected Available to default to true")
		}
		if p.ImageURL != nil {
			t.Fatalf("expected nil ImageURL, got %v", *p.ImageURL)
		}
		if p.CreatedAt.IsZero() {
			t.Fatalf("expected CreatedAt to be set")
		}
		if !p.Price.Equal(dec(t, "5.00")) {
			t.Fatalf("price roundtrip lost precision: %s", p.Price)
		}
	})

	t.Run("ListProducts_FiltersAndOrders", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		hidden := false
		if _, err := store.CreateProduct(ctx, ports.CreateProductInput{Name: "First", Price: dec(t, "1.00"), Category: domain.CategoryBread}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := store.CreateProduct(ctx, ports.CreateProductInput{Name: "Hidden", Price: dec(t, "2.00"), Category: domain.CategoryBread, Available: &hidden}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := store.CreateProduct(ctx, ports.CreateProductInput{Name: "Last", Price: dec(t, "3.00"), Category: domain.CategoryBread}); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		visible, err := store.ListAvailableProducts(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(visible) != 2 {
			t.Fatalf("expected 2 visible products, got %d", len(visible))
		}
		for _, p := range visible {
			if p.Name == "Hidden" {
				t.Fatalf("unavailable product leaked into the public listing")
			}
		}

		all, err := store.ListAllProducts(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 products, got %d", len(all))
		}
		// Newest first; ids break ties when timestamps collide.
		for i := 1; i < len(all); i++ {
			prev, cur := all[i-1], all[i]
			if cur.CreatedAt.After(prev.CreatedAt) {
				t.Fatalf("listing not newest-first: %q before %q", prev.Name, cur.Name)
			}
			if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
				t.Fatalf("id tiebreak not descending: %d before %d", prev.ID, cur.ID)
			}
		}
	})

	t.Run("UpdateProduct_ReplacesAllFields", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		img := "https://example.com/pandesal.jpg"
		p, err := store.CreateProduct(ctx, ports.CreateProductInput{
			Name: "Pandesal", Description: "old", Price: dec(t, "5.00"),
			Category: domain.CategoryBread, ImageURL: &img,
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		hidden := false
		updated, err := store.UpdateProduct(ctx, p.ID, ports.CreateProductInput{
			Name: "Pandesal Especial", Description: "new", Price: dec(t, "7.50"),
			Category: domain.CategoryBread, Available: &hidden,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Name != "Pandesal Especial" || updated.Description != "new" {
			t.Fatalf("fields not replaced: %+v", updated)
		}
		if !updated.Price.Equal(dec(t, "7.50")) {
			t.Fatalf("unexpected price: %s", updated.Price)
		}
		// Full replace: the omitted image url is cleared, not kept.
		if updated.ImageURL != nil {
			t.Fatalf("expected image url cleared, got %v", *updated.ImageURL)
		}
		if updated.Available {
			t.Fatalf("expected availability to be updated")
		}
		if updated.ID != p.ID || !updated.CreatedAt.Equal(p.CreatedAt) {
			t.Fatalf("id or created_at changed on update")
		}

		if _, err := store.UpdateProduct(ctx, 999, ports.CreateProductInput{Name: "x", Price: dec(t, "1.00"), Category: domain.CategoryBread}); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		p, err := store.CreateProduct(ctx, ports.CreateProductInput{Name: "Pandesal", Price: dec(t, "5.00"), Category: domain.CategoryBread})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}

		removed, err := store.DeleteProduct(ctx, p.ID)
		if err != nil || !removed {
			t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
		}
		removed, err = store.DeleteProduct(ctx, p.ID)
		if err != nil || removed {
			t.Fatalf("expected miss on second delete, got removed=%v err=%v", removed, err)
		}
		if _, err := store.GetProduct(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
		}
	})

	t.Run("CreateOrder_ForcesPending", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		lat := "14.5995"
		o, err := store.CreateOrder(ctx, ports.CreateOrderInput{
			CustomerName:    "Maria",
			CustomerPhone:   "+639171234567",
			DeliveryAddress: "123 Rizal St",
			DeliveryLat:     &lat,
			PaymentMethod:   domain.PaymentGCash,
			TotalAmount:     dec(t, "10.00"),
			Items: []domain.LineItem{
				{ProductID: 1, Name: "Pandesal", Price: dec(t, "5.00"), Quantity: 2},
			},
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if o.Status != domain.StatusPending {
			t.Fatalf("expected pending, got %q", o.Status)
		}

		reread, err := store.GetOrder(ctx, o.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(reread.Items) != 1 || reread.Items[0].Name != "Pandesal" || reread.Items[0].Quantity != 2 {
			t.Fatalf("line items did not roundtrip: %+v", reread.Items)
		}
		if reread.DeliveryLat == nil || *reread.DeliveryLat != lat {
			t.Fatalf("delivery coordinates lost")
		}
		if !reread.TotalAmount.Equal(dec(t, "10.00")) {
			t.Fatalf("total roundtrip lost precision: %s", reread.TotalAmount)
		}
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		o := mustOrder(t, store)
		updated, err := store.UpdateOrderStatus(ctx, o.ID, domain.StatusCancelled)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Status != domain.StatusCancelled {
			t.Fatalf("expected cancelled, got %q", updated.Status)
		}

		if _, err := store.UpdateOrderStatus(ctx, 999, domain.StatusAccepted); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		if _, err := store.GetOrder(ctx, 999); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound on get, got %v", err)
		}
	})

	t.Run("ListOrders_NewestFirst", func(t *testing.T) {
		store := open(t)

		for i := 0; i < 3; i++ {
			mustOrder(t, store)
		}

		orders, err := store.ListOrders(context.Background())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(orders))
		}
		for i := 1; i < len(orders); i++ {
			prev, cur := orders[i-1], orders[i]
			if cur.CreatedAt.After(prev.CreatedAt) {
				t.Fatalf("orders not newest-first")
			}
			if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
				t.Fatalf("id tiebreak not descending: %d before %d", prev.ID, cur.ID)
			}
		}
	})

	t.Run("Seed_Idempotent", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		admin := ports.SeedAdmin{Username: "admin", Password: "hash", SecurityCode: "CODE123"}

		if err := store.Seed(ctx, admin); err != nil {
			t.Fatalf("first seed failed: %v", err)
		}

		u, err := store.GetUserByUsername(ctx, "admin")
		if err != nil {
			t.Fatalf("admin not seeded: %v", err)
		}
		if !u.IsAdmin() {
			t.Fatalf("expected admin role, got %q", u.Role)
		}
		if u.SecurityCode == nil || *u.SecurityCode != "CODE123" {
			t.Fatalf("security code not stored")
		}

		products, err := store.ListAllProducts(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(products) == 0 {
			t.Fatalf("expected starter catalog to be seeded")
		}
		seededCount := len(products)

		// Second run is a no-op.
		if err := store.Seed(ctx, admin); err != nil {
			t.Fatalf("second seed failed: %v", err)
		}
		products, _ = store.ListAllProducts(ctx)
		if len(products) != seededCount {
			t.Fatalf("second seed duplicated products: %d vs %d", len(products), seededCount)
		}
	})

	t.Run("Seed_SkippedWhenCatalogExists", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		// A pre-existing catalog without the admin account still suppresses
		// the bootstrap so manually curated data is never mixed with starter
		// rows.
		if _, err := store.CreateProduct(ctx, ports.CreateProductInput{Name: "Custom", Price: dec(t, "9.00"), Category: domain.CategoryCakes}); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if err := store.Seed(ctx, ports.SeedAdmin{Username: "admin", Password: "hash", SecurityCode: "x"}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		products, _ := store.ListAllProducts(ctx)
		if len(products) != 1 {
			t.Fatalf("expected seed to be skipped, got %d products", len(products))
		}
	})
}
