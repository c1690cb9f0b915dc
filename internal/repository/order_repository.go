package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orderdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderRepository implements OrderRepository over SQLite.
type orderRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewOrderRepository creates a new SQLite-backed order repository.
func NewOrderRepository(db *sql.DB, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create inserts the order row and one order_items row per item as a single
// transaction. Item rows carry the unit price frozen on the item at
// construction time, not the product's current price.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (customer_id, order_date, status, total_amount)
		VALUES (?, ?, ?, ?)
	`, order.Customer.ID, order.OrderDate, order.Status, order.TotalAmount)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert order")
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted order id: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)
		`, id, item.Product.ID, item.Quantity, item.UnitPrice)
		if err != nil {
			r.logger.Error().Err(err).
				Int64("order_id", id).
				Int64("product_id", item.Product.ID).
				Msg("failed to insert order item")
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to commit transaction")
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	order.ID = id

	r.logger.Debug().
		Int64("order_id", id).
		Int("item_count", len(order.Items)).
		Msg("order created")

	return id, nil
}

// GetByID retrieves an order with its customer and items resolved. Items are
// re-joined against products to pick up the current name and description, but
// keep the unit price stored on the item row. The order is rebuilt through
// AddItem and the rebuilt total checked against the stored total_amount
// column; divergence surfaces as model.ErrInconsistentTotal.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var (
		orderID     int64
		customerID  sql.NullInt64
		orderDate   string
		status      string
		storedTotal decimal.Decimal
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, COALESCE(order_date, ''),
		       COALESCE(status, ''), COALESCE(total_amount, 0)
		FROM orders
		WHERE id = ?
	`, id).Scan(&orderID, &customerID, &orderDate, &status, &storedTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order := &model.Order{
		ID:        orderID,
		OrderDate: orderDate,
		Status:    status,
	}

	if customerID.Valid {
		customer, err := r.customerByID(ctx, customerID.Int64)
		if err != nil {
			return nil, err
		}
		order.Customer = customer
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, oi.quantity, oi.unit_price, p.name, COALESCE(p.description, '')
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			product  model.Product
			quantity int
		)
		if err := rows.Scan(&product.ID, &quantity, &product.Price, &product.Name, &product.Description); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		// product.Price carries the frozen unit price here, so AddItem
		// reproduces the item exactly as it was sold.
		order.AddItem(product, quantity)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	if !order.TotalAmount.Equal(storedTotal) {
		r.logger.Error().
			Int64("order_id", id).
			Str("stored", storedTotal.String()).
			Str("rebuilt", order.TotalAmount.String()).
			Msg("stored order total diverges from item sum")
		return nil, fmt.Errorf("order %d: %w", id, model.ErrInconsistentTotal)
	}

	return order, nil
}

// GetAll lists all order ids by order date descending and resolves each one
// individually. One query per order is fine at this scale.
func (r *orderRepository) GetAll(ctx context.Context) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM orders ORDER BY order_date DESC`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order ids")
		return nil, fmt.Errorf("failed to query order ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order ids: %w", err)
	}

	orders := make([]*model.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order != nil {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

// customerByID resolves the full customer record referenced by an order.
func (r *orderRepository) customerByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(address, ''), COALESCE(registration_date, '')
		FROM customers
		WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.RegistrationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Dangling customer reference: the order survives, the
			// customer is simply absent.
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to query order customer")
		return nil, fmt.Errorf("failed to query order customer: %w", err)
	}
	return &c, nil
}
