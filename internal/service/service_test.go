package service

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Add(ctx context.Context, customer *model.Customer) (int64, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Add(ctx context.Context, product *model.Product) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func validOrder() *model.Order {
	customer := &model.Customer{ID: 1, Name: "Alice"}
	order := model.NewOrder(customer)
	order.AddItem(model.Product{ID: 2, Name: "Lamp", Price: decimal.NewFromInt(45)}, 2)
	return order
}

func TestCustomerService_CreateValidatesFirst(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), &model.Customer{Name: "", Email: "x@test.com"})
	assert.ErrorIs(t, err, model.ErrInvalidCustomer)

	_, err = svc.Create(context.Background(), &model.Customer{Name: "Alice", Email: "not-an-email"})
	assert.ErrorIs(t, err, model.ErrInvalidCustomer)

	// Nothing may reach the repository on validation failure.
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCustomerService_CreateDelegates(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, zerolog.Nop())

	customer := model.NewCustomer("Alice", "alice@example.com", "", "")
	repo.On("Add", mock.Anything, customer).Return(int64(7), nil)

	id, err := svc.Create(context.Background(), customer)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	repo.AssertExpectations(t)
}

func TestCustomerService_GetAbsent(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, zerolog.Nop())

	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

	customer, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestProductService_CreateValidatesFirst(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), &model.Product{Name: "Lamp", Price: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, model.ErrInvalidProduct)

	_, err = svc.Create(context.Background(), &model.Product{Name: "Lamp", Price: decimal.NewFromInt(5), Stock: -1})
	assert.ErrorIs(t, err, model.ErrInvalidProduct)

	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestProductService_CreateDelegates(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo, zerolog.Nop())

	product := model.NewProduct("Lamp", "", decimal.NewFromInt(45), "Lighting", 3)
	repo.On("Add", mock.Anything, product).Return(int64(3), nil)

	id, err := svc.Create(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	repo.AssertExpectations(t)
}

func TestOrderService_CreateValidation(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zerolog.Nop())
	ctx := context.Background()

	t.Run("nil order", func(t *testing.T) {
		_, err := svc.Create(ctx, nil)
		assert.ErrorIs(t, err, model.ErrInvalidOrder)
	})

	t.Run("no items", func(t *testing.T) {
		order := model.NewOrder(&model.Customer{ID: 1, Name: "Alice"})
		_, err := svc.Create(ctx, order)
		assert.ErrorIs(t, err, model.ErrInvalidOrder)
	})

	t.Run("no customer", func(t *testing.T) {
		order := validOrder()
		order.Customer = nil
		_, err := svc.Create(ctx, order)
		assert.ErrorIs(t, err, model.ErrInvalidOrder)
	})

	t.Run("unpersisted customer", func(t *testing.T) {
		order := validOrder()
		order.Customer.ID = 0
		_, err := svc.Create(ctx, order)
		assert.ErrorIs(t, err, model.ErrInvalidOrder)
	})

	t.Run("zero quantity", func(t *testing.T) {
		order := validOrder()
		order.Items[0].Quantity = 0
		_, err := svc.Create(ctx, order)
		assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	})

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateDelegates(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zerolog.Nop())

	order := validOrder()
	repo.On("Create", mock.Anything, order).Return(int64(11), nil)

	id, err := svc.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	repo.AssertExpectations(t)
}

func TestOrderService_CreatePropagatesStorageFailure(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zerolog.Nop())

	storageErr := errors.New("disk full")
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(0), storageErr)

	_, err := svc.Create(context.Background(), validOrder())
	assert.ErrorIs(t, err, storageErr)
}

func TestOrderService_GetAbsent(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zerolog.Nop())

	repo.On("GetByID", mock.Anything, int64(5)).Return(nil, nil)

	order, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestOrderService_List(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, zerolog.Nop())

	orders := []*model.Order{validOrder(), validOrder()}
	repo.On("GetAll", mock.Anything).Return(orders, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
