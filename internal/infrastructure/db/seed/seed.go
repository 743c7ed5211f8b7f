// Package seed holds the first-run bootstrap shared by every storage backend:
// one admin account and a small starter catalog, created only when neither
// exists yet so repeated startups are no-ops.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

type starterProduct struct {
	name        string
	description string
	price       string
	category    string
}

var starterCatalog = []starterProduct{
	{"Pandesal", "Classic Filipino bread roll, baked fresh every morning", "5.00", domain.CategoryBread},
	{"Ensaymada", "Soft brioche topped with butter, sugar, and grated cheese", "35.00", domain.CategoryPastries},
	{"Ube Cake Slice", "Purple yam chiffon cake with ube halaya frosting", "85.00", domain.CategoryCakes},
	{"Chocolate Chip Cookies", "Chewy cookies with semi-sweet chocolate chunks, pack of 6", "120.00", domain.CategoryCookies},
}

// Run performs the idempotent bootstrap against the given store. The admin
// password must already be hashed by the caller.
func Run(ctx context.Context, store ports.Store, admin ports.SeedAdmin) error {
	_, err := store.GetUserByUsername(ctx, admin.Username)
	if err == nil {
		return nil // already bootstrapped
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: lookup admin: %w", err)
	}

	products, err := store.ListAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: list products: %w", err)
	}
	if len(products) > 0 {
		return nil
	}

	code := admin.SecurityCode
	if _, err := store.CreateUser(ctx, ports.CreateUserInput{
		Username:     admin.Username,
		Password:     admin.Password,
		Role:         domain.RoleAdmin,
		SecurityCode: &code,
	}); err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}

	for _, sp := range starterCatalog {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			return fmt.Errorf("seed: parse price %q: %w", sp.price, err)
		}
		if _, err := store.CreateProduct(ctx, ports.CreateProductInput{
			Name:        sp.name,
			Description: sp.description,
			Price:       price,
			Category:    sp.category,
		}); err != nil {
			return fmt.Errorf("seed: create product %q: %w", sp.name, err)
		}
	}
	return nil
}
