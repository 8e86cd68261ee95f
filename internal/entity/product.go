package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SKU        string    `json:"sku,omitempty"`
	Category   string    `json:"category,omitempty"`
	PriceCents int       `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewProduct(name, sku, category string, priceCents int) *Product {
	return &Product{
		ID:         uuid.New().String(),
		Name:       name,
		Slug:       Slugify(name),
		SKU:        sku,
		Category:   category,
		PriceCents: priceCents,
		CreatedAt:  time.Now(),
	}
}

type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *Product) error
	Search(ctx context.Context, query string, limit int) ([]*Product, error)
}
