package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalogue.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category,omitempty" db:"category"`
	Stock       int             `json:"stock" db:"stock"`
}

// NewProduct creates a product.
func NewProduct(name, description string, price decimal.Decimal, category string, stock int) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Stock:       stock,
	}
}

// Validate reports whether the product may be persisted: non-empty name,
// non-negative price and stock.
func (p *Product) Validate() bool {
	if strings.TrimSpace(p.Name) == "" {
		return false
	}
	if p.Price.IsNegative() || p.Stock < 0 {
		return false
	}
	return true
}

// Record returns the product as a flat map keyed by column name.
func (p *Product) Record() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"stock":       p.Stock,
	}
}
