package product

import (
	"errors"
	"strings"
	"time"
)

// PlaceholderImage is substituted when an admin adds a product without one.
const PlaceholderImage = "https://picsum.photos/600/400"

// CurrencyPrefix is the display currency for all prices.
const CurrencyPrefix = "₦"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"` // pre-formatted display string, currency-prefixed
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Badge       *string   `json:"badge"`
	CreatedAt   time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("product not found")

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=120"`
	Price       string `json:"price" binding:"required,min=1,max=20"`
	Description string `json:"description" binding:"required,max=1000"`
	Image       string `json:"image" binding:"omitempty"`
	Badge       string `json:"badge" binding:"omitempty,max=40"`
}

// Normalize applies the add-product defaults: currency prefix on the price and
// the placeholder image when none was supplied.
func (r *CreateProductRequest) Normalize() {
	r.Price = NormalizePrice(r.Price)

	if r.Image == "" {
		r.Image = PlaceholderImage
	}
}

// NormalizePrice prefixes the currency symbol unless it is already present.
func NormalizePrice(price string) string {
	if strings.HasPrefix(price, CurrencyPrefix) {
		return price
	}

	return CurrencyPrefix + price
}

// BadgeOrNil maps the empty string to a missing badge.
func (r CreateProductRequest) BadgeOrNil() *string {
	if r.Badge == "" {
		return nil
	}

	b := r.Badge
	return &b
}
