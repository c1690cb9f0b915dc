package service

import (
	"context"

	"orderdesk/internal/model"
)

// CustomerService defines operations for customer management.
type CustomerService interface {
	// Create validates and persists a customer, returning the assigned id.
	Create(ctx context.Context, customer *model.Customer) (int64, error)

	// Get retrieves a customer by id. Returns nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Customer, error)

	// List retrieves all customers ordered by name.
	List(ctx context.Context) ([]model.Customer, error)
}

// ProductService defines operations for product management.
type ProductService interface {
	// Create validates and persists a product, returning the assigned id.
	Create(ctx context.Context, product *model.Product) (int64, error)

	// Get retrieves a product by id. Returns nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Product, error)

	// List retrieves all products ordered by name.
	List(ctx context.Context) ([]model.Product, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create validates and persists an order with its items atomically,
	// returning the assigned id.
	Create(ctx context.Context, order *model.Order) (int64, error)

	// Get retrieves an order by id with customer and items resolved.
	// Returns nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Order, error)

	// List retrieves all orders, most recent first.
	List(ctx context.Context) ([]*model.Order, error)
}
