package service

import (
	"context"
	"fmt"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/rs/zerolog"
)

// customerService implements CustomerService.
type customerService struct {
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

// Create validates and persists a customer. A validation failure is a typed
// rejection; nothing is written.
func (s *customerService) Create(ctx context.Context, customer *model.Customer) (int64, error) {
	if customer == nil || !customer.Validate() {
		s.logger.Warn().Msg("customer failed validation")
		return 0, model.ErrInvalidCustomer
	}

	id, err := s.customerRepo.Add(ctx, customer)
	if err != nil {
		s.logger.Error().Err(err).Str("name", customer.Name).Msg("failed to create customer")
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer created")
	return id, nil
}

// Get retrieves a customer by id.
func (s *customerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to get customer")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// List retrieves all customers ordered by name.
func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.Debug().Int("count", len(customers)).Msg("retrieved customers")
	return customers, nil
}
