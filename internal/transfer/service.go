// Package transfer moves whole tables between the store and flat files.
// Exports write every row of a table; imports insert file records verbatim,
// all inside one transaction so a failure leaves nothing behind.
package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tables is the whitelist of importable/exportable table names. This is the
// one place a string tag still selects a schema object.
var tables = map[string]bool{
	"customers":   true,
	"products":    true,
	"orders":      true,
	"order_items": true,
}

var columnNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Service performs bulk table import and export.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a transfer service over the given database handle.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "transfer").Logger(),
	}
}

// jobLogger tags all log lines of one import/export run.
func (s *Service) jobLogger(op, table, path string) zerolog.Logger {
	return s.logger.With().
		Str("job_id", uuid.New().String()).
		Str("op", op).
		Str("table", table).
		Str("file", path).
		Logger()
}

func validateTable(table string) error {
	if !tables[table] {
		return fmt.Errorf("unknown table %q: %w", table, model.ErrUnknownTable)
	}
	return nil
}

// validateColumns rejects header fields that cannot be column names, since
// they are spliced into the INSERT statement.
func validateColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns in header: %w", model.ErrMalformedFile)
	}
	for _, col := range columns {
		if !columnNamePattern.MatchString(col) {
			return fmt.Errorf("invalid column name %q: %w", col, model.ErrMalformedFile)
		}
	}
	return nil
}

// readTable fetches all rows of a table, preserving schema column order.
func (s *Service) readTable(ctx context.Context, table string) ([]string, [][]any, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var records [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		records = append(records, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows of %s: %w", table, err)
	}

	return columns, records, nil
}

// insertRows inserts all records into the table in a single transaction and
// rolls the whole batch back on any failure.
func (s *Service) insertRows(ctx context.Context, table string, columns []string, records [][]any) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback import transaction")
			}
		}
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for i, record := range records {
		if _, err = stmt.ExecContext(ctx, record...); err != nil {
			return fmt.Errorf("failed to insert record %d into %s: %w", i+1, table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import into %s: %w", table, err)
	}

	return nil
}
