package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/panaderia/storefront-api/internal/core/ports"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/dbtest"
)

// testStore connects to the database named by TEST_DATABASE_URL, applies the
// schema, and truncates all tables. Tests are skipped when the variable is
// unset so the suite stays runnable without a local Postgres.
func testStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE users, products, orders RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return store
}

func TestStore_Contract(t *testing.T) {
	dbtest.RunStoreContract(t, func(t *testing.T) ports.Store {
		return testStore(t)
	})
}
