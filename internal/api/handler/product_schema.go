package handler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// productRequest is the body of POST /api/products and PUT /api/products/:id.
// Price travels as a decimal string ("5.00") so clients never round it through
// binary floats. Available defaults to true when omitted.
type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price"       validate:"required"`
	Category    string  `json:"category"    validate:"required"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,url"`
	Available   *bool   `json:"available"`
}

// toInput parses and checks the price: non-negative, at most two fractional
// digits.
func (r productRequest) toInput() (ports.CreateProductInput, error) {
	price, err := parseAmount(r.Price)
	if err != nil {
		return ports.CreateProductInput{}, fmt.Errorf("price %w", err)
	}
	return ports.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Available:   r.Available,
	}, nil
}

// parseAmount parses a monetary string and rejects negatives and more than
// two fractional digits.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}
	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("must have at most two decimal places")
	}
	return d, nil
}

// productResponse is the transport-layer product view. Money is rendered with
// exactly two decimal digits.
type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url"`
	Available   bool    `json:"available"`
	CreatedAt   string  `json:"created_at"`
}
