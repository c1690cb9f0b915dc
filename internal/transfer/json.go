package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"orderdesk/internal/model"
)

// ExportJSON writes every row of the table to a UTF-8 JSON file as an array
// of flat objects keyed by column name, indented for readability.
func (s *Service) ExportJSON(ctx context.Context, table, path string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	logger := s.jobLogger("export-json", table, path)

	columns, records, err := s.readTable(ctx, table)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read table")
		return err
	}

	objects := make([]map[string]any, 0, len(records))
	for _, record := range records {
		object := make(map[string]any, len(columns))
		for i, column := range columns {
			if b, ok := record[i].([]byte); ok {
				object[column] = string(b)
			} else {
				object[column] = record[i]
			}
		}
		objects = append(objects, object)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", table, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error().Err(err).Msg("failed to write export file")
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}

	logger.Info().Int("rows", len(records)).Msg("table exported")
	return nil
}

// ImportJSON reads an array of flat objects and inserts one row per object.
// The first object's keys name the target columns; every object must carry
// exactly those keys. The whole batch is one transaction.
func (s *Service) ImportJSON(ctx context.Context, table, path string) error {
	if err := validateTable(table); err != nil {
		return err
	}
	logger := s.jobLogger("import-json", table, path)

	file, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open import file")
		return fmt.Errorf("failed to open import file %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber()

	var objects []map[string]any
	if err := decoder.Decode(&objects); err != nil {
		return fmt.Errorf("undecodable JSON in %s: %v: %w", path, err, model.ErrMalformedFile)
	}

	if len(objects) == 0 {
		logger.Info().Int("rows", 0).Msg("nothing to import")
		return nil
	}

	columns := make([]string, 0, len(objects[0]))
	for column := range objects[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	if err := validateColumns(columns); err != nil {
		return err
	}

	records := make([][]any, 0, len(objects))
	for i, object := range objects {
		record := make([]any, len(columns))
		for j, column := range columns {
			value, ok := object[column]
			if !ok {
				return fmt.Errorf("record %d of %s is missing key %q: %w",
					i+1, path, column, model.ErrMalformedFile)
			}
			record[j] = normalizeJSONValue(value)
		}
		// All named columns are present, so a longer object carries keys
		// beyond the first record's key set.
		if len(object) != len(columns) {
			return fmt.Errorf("record %d of %s has %d keys, want %d: %w",
				i+1, path, len(object), len(columns), model.ErrMalformedFile)
		}
		records = append(records, record)
	}

	if err := s.insertRows(ctx, table, columns, records); err != nil {
		logger.Error().Err(err).Msg("import failed, rolled back")
		return err
	}

	logger.Info().Int("rows", len(records)).Msg("table imported")
	return nil
}

// normalizeJSONValue converts decoded JSON values into driver-friendly ones.
// Numbers keep integer precision when they have no fractional part.
func normalizeJSONValue(value any) any {
	number, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := number.Int64(); err == nil {
		return i
	}
	if f, err := number.Float64(); err == nil {
		return f
	}
	return number.String()
}
