package service

import (
	"context"
	"fmt"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create validates and persists an order with its items. The repository
// writes the order row and all item rows in one transaction.
func (s *orderService) Create(ctx context.Context, order *model.Order) (int64, error) {
	if err := s.validateOrder(order); err != nil {
		return 0, err
	}

	id, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", id).
		Int64("customer_id", order.Customer.ID).
		Int("item_count", len(order.Items)).
		Msg("order created")

	return id, nil
}

// Get retrieves an order by id with customer and items resolved.
func (s *orderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// List retrieves all orders, most recent order date first.
func (s *orderService) List(ctx context.Context) ([]*model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")
	return orders, nil
}

// validateOrder rejects orders without a persisted customer, without items,
// or with a non-positive item quantity.
func (s *orderService) validateOrder(order *model.Order) error {
	if order == nil || !order.Validate() {
		s.logger.Warn().Msg("order failed validation")
		return model.ErrInvalidOrder
	}

	if order.Customer.ID == 0 {
		s.logger.Warn().Msg("order customer has no persisted id")
		return model.ErrInvalidOrder
	}

	for i, item := range order.Items {
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int64("product_id", item.Product.ID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
