package repository

import (
	"context"

	"orderdesk/internal/model"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	// Add inserts one customer row and returns the assigned identifier.
	Add(ctx context.Context, customer *model.Customer) (int64, error)

	// GetByID retrieves a single customer by its ID. Returns nil, nil when
	// no such customer exists.
	GetByID(ctx context.Context, id int64) (*model.Customer, error)

	// GetAll retrieves all customers ordered by name.
	GetAll(ctx context.Context) ([]model.Customer, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Add inserts one product row and returns the assigned identifier.
	Add(ctx context.Context, product *model.Product) (int64, error)

	// GetByID retrieves a single product by its ID. Returns nil, nil when
	// no such product exists.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetAll retrieves all products ordered by name.
	GetAll(ctx context.Context) ([]model.Product, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order row and one order_items row per item as a
	// single transaction. No rows are left behind on failure.
	Create(ctx context.Context, order *model.Order) (int64, error)

	// GetByID retrieves an order with its customer and items resolved.
	// Returns nil, nil when no such order exists.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetAll retrieves all orders, most recent order date first.
	GetAll(ctx context.Context) ([]*model.Order, error)
}
