package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

type stubOrders struct {
	placeFn  func(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error)
	listFn   func(ctx context.Context) ([]*domain.Order, error)
	getFn    func(ctx context.Context, id int64) (*domain.Order, error)
	updateFn func(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

func (s *stubOrders) Place(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	return s.placeFn(ctx, input)
}

func (s *stubOrders) List(ctx context.Context) ([]*domain.Order, error) { return s.listFn(ctx) }

func (s *stubOrders) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return s.updateFn(ctx, id, status)
}

const checkoutBody = `{
	"customer_name": "Maria Santos",
	"customer_phone": "+639171234567",
	"delivery_address": "123 Rizal St, Manila",
	"payment_method": "cod",
	"total_amount": "10.00",
	"items": [{"id": 1, "name": "Pandesal", "price": "5.00", "quantity": 2}]
}`

func TestOrderHandler_Create(t *testing.T) {
	stub := &stubOrders{
		placeFn: func(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
			if input.CustomerName != "Maria Santos" || input.PaymentMethod != "cod" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if len(input.Items) != 1 || !input.Items[0].Price.Equal(mustDec(t, "5.00")) {
				t.Fatalf("unexpected items: %+v", input.Items)
			}
			return &domain.Order{
				ID: 1, CustomerName: input.CustomerName, CustomerPhone: input.CustomerPhone,
				DeliveryAddress: input.DeliveryAddress, PaymentMethod: input.PaymentMethod,
				TotalAmount: input.TotalAmount, Status: domain.StatusPending, Items: input.Items,
			}, nil
		},
	}
	h := NewOrderHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/orders", checkoutBody)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" {
		t.Fatalf("expected pending status, got %v", resp["status"])
	}
	if resp["total_amount"] != "10.00" {
		t.Fatalf("expected total \"10.00\", got %v", resp["total_amount"])
	}

	// Advisory hints for the admin console: pending suggests accept or cancel.
	hints, _ := resp["next_statuses"].([]any)
	if len(hints) != 2 || hints[0] != "accepted" || hints[1] != "cancelled" {
		t.Fatalf("unexpected next_statuses: %v", resp["next_statuses"])
	}
}

func TestOrderHandler_Create_InvalidPaymentMethod(t *testing.T) {
	h := NewOrderHandler(&stubOrders{
		placeFn: func(context.Context, ports.CreateOrderInput) (*domain.Order, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	body := `{
		"customer_name": "Maria",
		"customer_phone": "+639171234567",
		"delivery_address": "123 Rizal St",
		"payment_method": "bitcoin",
		"total_amount": "10.00",
		"items": [{"id": 1, "name": "Pandesal", "price": "5.00", "quantity": 2}]
	}`
	c, _ := newTestContext(t, http.MethodPost, "/api/orders", body)
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestOrderHandler_Create_EmptyItems(t *testing.T) {
	h := NewOrderHandler(&stubOrders{})

	body := `{
		"customer_name": "Maria",
		"customer_phone": "+639171234567",
		"delivery_address": "123 Rizal St",
		"payment_method": "cod",
		"total_amount": "0.00",
		"items": []
	}`
	c, _ := newTestContext(t, http.MethodPost, "/api/orders", body)
	if code := httpCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestOrderHandler_Get_NotFound(t *testing.T) {
	h := NewOrderHandler(&stubOrders{
		getFn: func(context.Context, int64) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	})

	c, _ := newTestContext(t, http.MethodGet, "/api/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Get(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound to propagate, got %v", err)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	h := NewOrderHandler(&stubOrders{
		updateFn: func(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
			if id != 42 || status != domain.StatusReady {
				t.Fatalf("unexpected args: %d %s", id, status)
			}
			return &domain.Order{ID: 42, Status: status, TotalAmount: mustDec(t, "10.00")}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPut, "/api/orders/42/status", `{"status":"ready"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ready" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
}

func TestOrderHandler_UpdateStatus_MissingStatus(t *testing.T) {
	h := NewOrderHandler(&stubOrders{})

	c, _ := newTestContext(t, http.MethodPut, "/api/orders/42/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if code := httpCode(t, h.UpdateStatus(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
