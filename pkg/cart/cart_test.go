package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func pandesal(t *testing.T) *domain.Product {
	t.Helper()
	return &domain.Product{ID: 1, Name: "Pandesal", Price: dec(t, "5.00"), Category: domain.CategoryBread, Available: true}
}

func ensaymada(t *testing.T) *domain.Product {
	t.Helper()
	return &domain.Product{ID: 2, Name: "Ensaymada", Price: dec(t, "35.00"), Category: domain.CategoryPastries, Available: true}
}

func TestCart_AddMergesLines(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 2)
	c.Add(pandesal(t), 3)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	if c.Count() != 5 {
		t.Fatalf("expected count 5, got %d", c.Count())
	}
}

func TestCart_AddIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 0)
	c.Add(pandesal(t), -1)
	if len(c.Lines()) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestCart_ChangeQuantity(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 2)

	c.ChangeQuantity(1, 1)
	if c.Count() != 3 {
		t.Fatalf("expected 3 after increment, got %d", c.Count())
	}

	// Decrementing to zero removes the line.
	c.ChangeQuantity(1, -3)
	if len(c.Lines()) != 0 {
		t.Fatalf("expected line removed at zero quantity")
	}

	// Unknown ids are ignored.
	c.ChangeQuantity(99, 1)
	if len(c.Lines()) != 0 {
		t.Fatalf("unknown id should not create a line")
	}
}

func TestCart_Remove(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 2)
	c.Add(ensaymada(t), 1)

	c.Remove(1)
	lines := c.Lines()
	if len(lines) != 1 || lines[0].ProductID != 2 {
		t.Fatalf("expected only ensaymada to remain, got %+v", lines)
	}
}

func TestCart_Total(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 3)  // 15.00
	c.Add(ensaymada(t), 2) // 70.00

	if !c.Total().Equal(dec(t, "85.00")) {
		t.Fatalf("expected 85.00, got %s", c.Total())
	}
	if c.Total().StringFixed(2) != "85.00" {
		t.Fatalf("expected two-decimal rendering, got %s", c.Total().StringFixed(2))
	}
}

func TestCart_Checkout(t *testing.T) {
	c := New()
	c.Add(pandesal(t), 2)

	lat := "14.5995"
	input, err := c.Checkout(CheckoutInfo{
		CustomerName:    "  Maria Santos  ",
		CustomerPhone:   "+63 (917) 123-4567",
		DeliveryAddress: "123 Rizal St, Manila",
		DeliveryLat:     &lat,
		PaymentMethod:   domain.PaymentCOD,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if input.CustomerName != "Maria Santos" {
		t.Fatalf("expected trimmed name, got %q", input.CustomerName)
	}
	if input.CustomerPhone != "+639171234567" {
		t.Fatalf("expected sanitized phone, got %q", input.CustomerPhone)
	}
	if !input.TotalAmount.Equal(dec(t, "10.00")) {
		t.Fatalf("expected total 10.00, got %s", input.TotalAmount)
	}
	if len(input.Items) != 1 || input.Items[0].Name != "Pandesal" || input.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", input.Items)
	}

	// Checkout clears the cart.
	if len(c.Lines()) != 0 {
		t.Fatalf("expected cart cleared after checkout")
	}
}

func TestCart_Checkout_Validation(t *testing.T) {
	valid := CheckoutInfo{
		CustomerName:    "Maria",
		CustomerPhone:   "+639171234567",
		DeliveryAddress: "123 Rizal St",
		PaymentMethod:   domain.PaymentCOD,
	}

	empty := New()
	if _, err := empty.Checkout(valid); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	cases := []struct {
		name string
		info CheckoutInfo
		want error
	}{
		{"missing name", CheckoutInfo{CustomerPhone: valid.CustomerPhone, DeliveryAddress: valid.DeliveryAddress}, ErrNameRequired},
		{"missing address", CheckoutInfo{CustomerName: valid.CustomerName, CustomerPhone: valid.CustomerPhone}, ErrAddressRequired},
		{"short phone", CheckoutInfo{CustomerName: valid.CustomerName, CustomerPhone: "12345", DeliveryAddress: valid.DeliveryAddress}, ErrPhoneTooShort},
	}
	for _, tc := range cases {
		c := New()
		c.Add(pandesal(t), 1)
		if _, err := c.Checkout(tc.info); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		// Validation failures leave the cart intact.
		if len(c.Lines()) != 1 {
			t.Fatalf("%s: cart should survive a failed checkout", tc.name)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	cases := map[string]string{
		"+63 (917) 123-4567": "+639171234567",
		"0917 123 4567":      "09171234567",
		"tel:+639171234567":  "639171234567", // plus only kept when leading
	}
	for in, want := range cases {
		if got := SanitizePhone(in); got != want {
			t.Fatalf("SanitizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
