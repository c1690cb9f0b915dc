package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderdesk/internal/model"

	"github.com/shopspring/decimal"
)

// Period selects the calendar bucket size for the sales trend.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a period code to a Period. Unrecognized codes fall back to
// daily buckets.
func ParsePeriod(s string) Period {
	switch Period(strings.ToLower(s)) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodDay
	}
}

// TrendPoint is one bucket of the sales trend.
type TrendPoint struct {
	Bucket time.Time       `json:"bucket"`
	Total  decimal.Decimal `json:"total"`
}

// SalesTrend sums order totals per calendar bucket. The series is dense: every
// bucket between the first and last order is present, empty ones with a zero
// total. Orders whose customer no longer resolves are excluded by the join,
// matching the other order-level reports.
func (a *Analyzer) SalesTrend(ctx context.Context, period Period) ([]TrendPoint, error) {
	query := `
		SELECT COALESCE(o.order_date, ''), COALESCE(o.total_amount, 0)
		FROM orders o
		JOIN customers c ON o.customer_id = c.id
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to query orders for sales trend")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	sums := make(map[time.Time]decimal.Decimal)
	var first, last time.Time
	for rows.Next() {
		var (
			dateStr string
			amount  decimal.Decimal
		)
		if err := rows.Scan(&dateStr, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		date, err := parseOrderDate(dateStr)
		if err != nil {
			a.logger.Error().Err(err).Str("order_date", dateStr).Msg("unparseable order date")
			return nil, err
		}

		bucket := bucketStart(date, period)
		sums[bucket] = sums[bucket].Add(amount)
		if first.IsZero() || bucket.Before(first) {
			first = bucket
		}
		if bucket.After(last) {
			last = bucket
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(sums) == 0 {
		return []TrendPoint{}, nil
	}

	var trend []TrendPoint
	for bucket := first; !bucket.After(last); bucket = nextBucket(bucket, period) {
		trend = append(trend, TrendPoint{Bucket: bucket, Total: sums[bucket]})
	}

	return trend, nil
}

// parseOrderDate accepts the full stored timestamp or a bare date.
func parseOrderDate(s string) (time.Time, error) {
	if t, err := time.Parse(model.TimeFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable order date %q: %w", s, err)
	}
	return t, nil
}

// bucketStart truncates a timestamp to the start of its bucket. Weeks start
// on Monday.
func bucketStart(t time.Time, period Period) time.Time {
	switch period {
	case PeriodWeek:
		daysPastMonday := (int(t.Weekday()) + 6) % 7
		t = t.AddDate(0, 0, -daysPastMonday)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(t time.Time, period Period) time.Time {
	switch period {
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
