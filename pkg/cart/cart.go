// Package cart implements the client shell's in-memory shopping cart and its
// checkout submission. Cart state is per-session and client-only: nothing is
// persisted server-side until checkout creates an order.
package cart

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

var ErrEmptyCart = errors.New("cart is empty")
var ErrNameRequired = errors.New("customer name is required")
var ErrAddressRequired = errors.New("delivery address is required")
var ErrPhoneTooShort = errors.New("phone number must have at least 10 digits")

// minPhoneDigits is the minimum digit count after sanitizing the phone input.
const minPhoneDigits = 10

// Line is one cart entry: a product snapshot plus quantity.
type Line struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Cart holds an ordered list of lines. Not safe for concurrent use; the
// client shell owns a single instance per browsing session.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add inserts a product with the given quantity, merging into an existing
// line when the product id matches. Quantities <= 0 are ignored.
func (c *Cart) Add(p *domain.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	})
}

// ChangeQuantity adjusts a line by a signed delta. The line is removed when
// its quantity would reach zero or below. Unknown product ids are ignored.
func (c *Cart) ChangeQuantity(productID int64, delta int) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Remove drops a line regardless of quantity.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Total is the running sum of price times quantity at two-decimal precision.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2)
}

// Count is the total item quantity across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// CheckoutInfo captures the checkout form fields.
type CheckoutInfo struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	DeliveryLat     *string
	DeliveryLng     *string
	PaymentMethod   string
}

// Checkout validates the form and the cart, then produces the order-creation
// payload with the captured line items and the computed total. On success the
// cart is cleared; on validation failure it is left untouched.
func (c *Cart) Checkout(info CheckoutInfo) (ports.CreateOrderInput, error) {
	if len(c.lines) == 0 {
		return ports.CreateOrderInput{}, ErrEmptyCart
	}
	if strings.TrimSpace(info.CustomerName) == "" {
		return ports.CreateOrderInput{}, ErrNameRequired
	}
	if strings.TrimSpace(info.DeliveryAddress) == "" {
		return ports.CreateOrderInput{}, ErrAddressRequired
	}

	phone := SanitizePhone(info.CustomerPhone)
	if digitCount(phone) < minPhoneDigits {
		return ports.CreateOrderInput{}, ErrPhoneTooShort
	}

	items := make([]domain.LineItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, domain.LineItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}

	input := ports.CreateOrderInput{
		CustomerName:    strings.TrimSpace(info.CustomerName),
		CustomerPhone:   phone,
		DeliveryAddress: strings.TrimSpace(info.DeliveryAddress),
		DeliveryLat:     info.DeliveryLat,
		DeliveryLng:     info.DeliveryLng,
		PaymentMethod:   info.PaymentMethod,
		TotalAmount:     c.Total(),
		Items:           items,
	}

	c.Clear()
	return input, nil
}

// SanitizePhone strips everything except digits and a leading plus sign.
func SanitizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
