package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"orderdesk/internal/database"
	"orderdesk/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a fresh store in a temp directory with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.InitSchema(ctx, db, zerolog.Nop()))
	return db
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.InitSchema(context.Background(), db, zerolog.Nop()))
}

func TestCustomerRepository_AddAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zerolog.Nop())
	ctx := context.Background()

	customer := model.NewCustomer("Alice Carter", "alice@example.com", "+12025550101", "Boston, Beacon St")
	id, err := repo.Add(ctx, customer)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, customer.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice Carter", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, customer.RegistrationDate, got.RegistrationDate)
}

func TestCustomerRepository_GetByIDAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCustomerRepository_NullColumnsReadAsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zerolog.Nop())
	ctx := context.Background()

	// Imported rows may carry NULL in every optional column.
	_, err := db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, registration_date)
		VALUES (1, 'Ivan', NULL, NULL, NULL, NULL)`)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ivan", got.Name)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.Address)
	assert.Empty(t, got.RegistrationDate)

	customers, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Empty(t, customers[0].Email)
}

func TestCustomerRepository_GetAllOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db, zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"Zoe", "Alice", "Mark"} {
		_, err := repo.Add(ctx, model.NewCustomer(name, "", "", ""))
		require.NoError(t, err)
	}

	customers, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "Alice", customers[0].Name)
	assert.Equal(t, "Mark", customers[1].Name)
	assert.Equal(t, "Zoe", customers[2].Name)
}

func TestProductRepository_AddAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db, zerolog.Nop())
	ctx := context.Background()

	product := model.NewProduct("Desk Lamp", "LED lamp", decimal.RequireFromString("45.50"), "Lighting", 20)
	id, err := repo.Add(ctx, product)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Desk Lamp", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("45.50")), "price was %s", got.Price)
	assert.Equal(t, 20, got.Stock)
}

func TestProductRepository_GetByIDAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_NullColumnsReadAsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db, zerolog.Nop())
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, category, stock)
		VALUES (1, 'Lamp', NULL, 45, NULL, NULL)`)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Category)
	assert.Zero(t, got.Stock)

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Empty(t, products[0].Category)
}

func TestProductRepository_GetAllOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db, zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"Notebook", "Chair", "Lamp"} {
		_, err := repo.Add(ctx, model.NewProduct(name, "", decimal.NewFromInt(1), "", 0))
		require.NoError(t, err)
	}

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Chair", products[0].Name)
	assert.Equal(t, "Lamp", products[1].Name)
	assert.Equal(t, "Notebook", products[2].Name)
}
