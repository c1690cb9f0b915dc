package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orderdesk/internal/model"

	"github.com/rs/zerolog"
)

// customerRepository implements CustomerRepository over SQLite.
type customerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCustomerRepository creates a new SQLite-backed customer repository.
func NewCustomerRepository(db *sql.DB, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		db:     db,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

// Add inserts one customer row and returns the assigned identifier. No
// validation happens here; that is the caller's job.
func (r *customerRepository) Add(ctx context.Context, customer *model.Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, email, phone, address, registration_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name, customer.Email, customer.Phone, customer.Address, customer.RegistrationDate)
	if err != nil {
		r.logger.Error().Err(err).Str("name", customer.Name).Msg("failed to insert customer")
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted customer id: %w", err)
	}
	customer.ID = id

	r.logger.Debug().Int64("customer_id", id).Msg("customer inserted")
	return id, nil
}

// GetByID retrieves a single customer by its ID.
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(address, ''), COALESCE(registration_date, '')
		FROM customers
		WHERE id = ?
	`

	var c model.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.RegistrationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug().Int64("customer_id", id).Msg("customer not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return &c, nil
}

// GetAll retrieves all customers ordered by name.
func (r *customerRepository) GetAll(ctx context.Context) ([]model.Customer, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(address, ''), COALESCE(registration_date, '')
		FROM customers
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query customers")
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.RegistrationDate); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan customer row")
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating customer rows")
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
