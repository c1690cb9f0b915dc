package transfer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"orderdesk/internal/model"
)

// ExportCSV writes every row of the table to a UTF-8 CSV file. The header row
// carries the column names in schema order.
func (s *Service) ExportCSV(ctx context.Context, table, path string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	logger := s.jobLogger("export-csv", table, path)

	columns, records, err := s.readTable(ctx, table)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read table")
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create export file")
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		fields := make([]string, len(record))
		for i, value := range record {
			fields[i] = formatValue(value)
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	logger.Info().Int("rows", len(records)).Msg("table exported")
	return nil
}

// ImportCSV reads a CSV file whose header row names the target columns and
// inserts one row per remaining record, verbatim, in one transaction.
func (s *Service) ImportCSV(ctx context.Context, table, path string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	logger := s.jobLogger("import-csv", table, path)

	file, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open import file")
		return fmt.Errorf("failed to open import file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s has no header row: %w", path, model.ErrMalformedFile)
		}
		return fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	if err := validateColumns(header); err != nil {
		return err
	}

	var records [][]any
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.Reader enforces rectangular records, so a short or
			// long row lands here.
			return fmt.Errorf("malformed CSV record in %s: %v: %w", path, err, model.ErrMalformedFile)
		}
		record := make([]any, len(fields))
		for i, field := range fields {
			record[i] = field
		}
		records = append(records, record)
	}

	if err := s.insertRows(ctx, table, header, records); err != nil {
		logger.Error().Err(err).Msg("import failed, rolled back")
		return err
	}

	logger.Info().Int("rows", len(records)).Msg("table imported")
	return nil
}

// formatValue renders a scanned database value as a CSV field.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
