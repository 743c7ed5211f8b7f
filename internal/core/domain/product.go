package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// Conventional catalog categories. Category is stored as a free-form string;
// these constants only name the values the storefront UI groups by.
const (
	CategoryBread     = "bread"
	CategoryPastries  = "pastries"
	CategoryCakes     = "cakes"
	CategoryCookies   = "cookies"
	CategoryBeverages = "beverages"
	CategoryFastFood  = "fastfood"
	CategoryMeal      = "meal"
)

// Product is a catalog entry. Price is a fixed-point amount carried at two
// fractional digits; Available gates visibility in the public catalog listing.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}
