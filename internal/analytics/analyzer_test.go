package analytics

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"orderdesk/internal/database"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEmptyDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.InitSchema(ctx, db, zerolog.Nop()))
	return db
}

// setupSeededDB loads a fixed dataset:
//
//	Ivan  (Moscow)            orders on Jan 1 (400) and Jan 3 (400)
//	Petr  (no comma address)  order on Jan 3 (600)
//	Maria (Moscow)            order on Jan 5 (100)
//	Olga  (empty address)     no orders
//
// Widget is bought by everyone, Gadget by Ivan and Petr, Gizmo only by Ivan.
func setupSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db := setupEmptyDB(t)
	ctx := context.Background()

	stmts := []string{
		`INSERT INTO customers (id, name, email, address) VALUES
			(1, 'Ivan', 'ivan@test.com', 'Moscow, Main St 1'),
			(2, 'Petr', 'petr@test.com', 'Saint Petersburg'),
			(3, 'Maria', 'maria@test.com', 'Moscow, Side St 2'),
			(4, 'Olga', 'olga@test.com', '')`,
		`INSERT INTO products (id, name, price, category) VALUES
			(1, 'Widget', 100, 'CatA'),
			(2, 'Gadget', 200, 'CatB'),
			(3, 'Gizmo', 300, 'CatA')`,
		`INSERT INTO orders (id, customer_id, order_date, status, total_amount) VALUES
			(1, 1, '2024-01-01 10:00:00', 'completed', 400),
			(2, 1, '2024-01-03 11:00:00', 'pending', 400),
			(3, 2, '2024-01-03 12:00:00', 'completed', 600),
			(4, 3, '2024-01-05 09:00:00', 'completed', 100)`,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES
			(1, 1, 2, 100),
			(1, 2, 1, 200),
			(2, 3, 1, 300),
			(2, 1, 1, 100),
			(3, 1, 2, 100),
			(3, 2, 2, 200),
			(4, 1, 1, 100)`,
	}
	for _, stmt := range stmts {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	return db
}

func TestTopCustomers(t *testing.T) {
	analyzer := NewAnalyzer(setupSeededDB(t), zerolog.Nop())

	ranks, err := analyzer.TopCustomers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranks, 4)

	assert.Equal(t, "Ivan", ranks[0].Name)
	assert.Equal(t, 2, ranks[0].OrderCount)
	assert.True(t, ranks[0].TotalSpent.Equal(decimal.NewFromInt(800)))

	// One order each: the tie breaks on total spend.
	assert.Equal(t, "Petr", ranks[1].Name)
	assert.Equal(t, "Maria", ranks[2].Name)

	// Zero-order customers still show up, with zero spend.
	assert.Equal(t, "Olga", ranks[3].Name)
	assert.Equal(t, 0, ranks[3].OrderCount)
	assert.True(t, ranks[3].TotalSpent.IsZero())
}

func TestTopCustomersLimit(t *testing.T) {
	analyzer := NewAnalyzer(setupSeededDB(t), zerolog.Nop())

	ranks, err := analyzer.TopCustomers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "Ivan", ranks[0].Name)
	assert.Equal(t, "Petr", ranks[1].Name)
}

func TestTopProducts(t *testing.T) {
	analyzer := NewAnalyzer(setupSeededDB(t), zerolog.Nop())

	ranks, err := analyzer.TopProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranks, 3)

	// Widget and Gadget tie at 600 revenue, so assert the ordering
	// invariant rather than an exact sequence.
	for i := 1; i < len(ranks); i++ {
		assert.True(t, ranks[i-1].TotalRevenue.GreaterThanOrEqual(ranks[i].TotalRevenue),
			"revenue must be descending")
	}

	byName := map[string]ProductRank{}
	for _, r := range ranks {
		byName[r.Name] = r
	}
	assert.Equal(t, int64(6), byName["Widget"].TotalQuantity)
	assert.True(t, byName["Widget"].TotalRevenue.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, int64(3), byName["Gadget"].TotalQuantity)
	assert.True(t, byName["Gadget"].TotalRevenue.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, int64(1), byName["Gizmo"].TotalQuantity)
	assert.True(t, byName["Gizmo"].TotalRevenue.Equal(decimal.NewFromInt(300)))
}

func TestTopProductsLimit(t *testing.T) {
	analyzer := NewAnalyzer(setupSeededDB(t), zerolog.Nop())

	ranks, err := analyzer.TopProducts(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, ranks, 1)
}

func TestCustomerGeography(t *testing.T) {
	analyzer := NewAnalyzer(setupSeededDB(t), zerolog.Nop())

	cities, err := analyzer.CustomerGeography(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 2)

	// Moscow and unspecified both count 2; ties order by city name.
	assert.Equal(t, CityCount{City: "Moscow", Count: 2}, cities[0])
	assert.Equal(t, CityCount{City: UnspecifiedCity, Count: 2}, cities[1])
}

func TestCityOf(t *testing.T) {
	tests := []struct {
		address string
		city    string
	}{
		{"Moscow, Main St 1", "Moscow"},
		{"  Boston , Beacon St", "Boston"},
		{"Saint Petersburg", UnspecifiedCity},
		{"", UnspecifiedCity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.city, cityOf(tt.address), "address %q", tt.address)
	}
}
