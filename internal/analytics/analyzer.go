package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Analyzer derives reporting datasets from the store with read-only aggregate
// queries. Nothing is cached; every call recomputes from the current rows.
type Analyzer struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given database handle.
func NewAnalyzer(db *sql.DB, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		db:     db,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// CustomerRank is one row of the top-customers report.
type CustomerRank struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	OrderCount int             `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// ProductRank is one row of the top-products report.
type ProductRank struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// CityCount is one bucket of the customer-geography report.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// UnspecifiedCity labels customers whose address yields no city.
const UnspecifiedCity = "unspecified"

// TopCustomers ranks customers by order count, then total spend, descending.
// Customers without orders are included with a count of 0 and zero spend.
func (a *Analyzer) TopCustomers(ctx context.Context, limit int) ([]CustomerRank, error) {
	query := `
		SELECT c.name, COALESCE(c.email, ''), COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total_amount), 0) AS total_spent
		FROM customers c
		LEFT JOIN orders o ON c.id = o.customer_id
		GROUP BY c.id
		ORDER BY order_count DESC, total_spent DESC
		LIMIT ?
	`

	rows, err := a.db.QueryContext(ctx, query, limit)
	if err != nil {
		a.logger.Error().Err(err).Int("limit", limit).Msg("failed to query top customers")
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var ranks []CustomerRank
	for rows.Next() {
		var r CustomerRank
		if err := rows.Scan(&r.Name, &r.Email, &r.OrderCount, &r.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan top customer row: %w", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top customers: %w", err)
	}

	return ranks, nil
}

// TopProducts ranks products by revenue (quantity times the unit price frozen
// on each order item), descending.
func (a *Analyzer) TopProducts(ctx context.Context, limit int) ([]ProductRank, error) {
	query := `
		SELECT p.name, COALESCE(p.category, ''),
		       SUM(oi.quantity) AS total_quantity,
		       SUM(oi.quantity * oi.unit_price) AS total_revenue
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		GROUP BY p.id
		ORDER BY total_revenue DESC
		LIMIT ?
	`

	rows, err := a.db.QueryContext(ctx, query, limit)
	if err != nil {
		a.logger.Error().Err(err).Int("limit", limit).Msg("failed to query top products")
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var ranks []ProductRank
	for rows.Next() {
		var r ProductRank
		if err := rows.Scan(&r.Name, &r.Category, &r.TotalQuantity, &r.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product row: %w", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return ranks, nil
}

// CustomerGeography counts customers per city, where the city is the text
// before the first comma of the address. Addresses without a comma, and empty
// addresses, fall into the "unspecified" bucket. Descending by count, ties
// broken by city name.
func (a *Analyzer) CustomerGeography(ctx context.Context) ([]CityCount, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT COALESCE(address, '') FROM customers`)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to query customer addresses")
		return nil, fmt.Errorf("failed to query customer addresses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		counts[cityOf(address)]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	cities := make([]CityCount, 0, len(counts))
	for city, count := range counts {
		cities = append(cities, CityCount{City: city, Count: count})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Count != cities[j].Count {
			return cities[i].Count > cities[j].Count
		}
		return cities[i].City < cities[j].City
	})

	return cities, nil
}

func cityOf(address string) string {
	i := strings.Index(address, ",")
	if address == "" || i < 0 {
		return UnspecifiedCity
	}
	return strings.TrimSpace(address[:i])
}
