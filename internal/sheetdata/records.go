package sheetdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// IncludeField is the header name that switches on row filtering.
const IncludeField = "include"

// ToRecords turns a raw table into records, using row 0 as field names.
//
// Data rows whose first cell is blank are dropped. If the header declares an
// include column, only rows whose include value is numerically 1 are kept.
// Duplicate header names resolve to the last such column, and a blank header
// cell becomes the key "".
func ToRecords(table RawTable) []Record {
	if len(table) == 0 {
		return []Record{}
	}

	header := headerNames(table[0])
	includeIdx := -1
	for i, name := range header {
		if name == IncludeField {
			includeIdx = i
		}
	}

	records := make([]Record, 0, len(table)-1)
	skippedBlank, skippedExcluded := 0, 0

	for _, row := range table[1:] {
		if len(row) == 0 || IsBlank(row[0]) {
			skippedBlank++
			continue
		}
		if includeIdx >= 0 && !isOne(cellAt(row, includeIdx)) {
			skippedExcluded++
			continue
		}

		record := make(Record, len(header))
		for i, name := range header {
			record[name] = cellAt(row, i)
		}
		records = append(records, record)
	}

	log.Debug().
		Int("rows", len(table)-1).
		Int("records", len(records)).
		Int("skipped_blank", skippedBlank).
		Int("skipped_excluded", skippedExcluded).
		Bool("include_filter", includeIdx >= 0).
		Msg("Built records")

	return records
}

// BuildRecords reads r and converts it into records of type T. T may be
// Record itself, or any type encoding/json can decode a record into.
func BuildRecords[T any](ctx context.Context, reader ValueReader, r RectRange) ([]T, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	table, err := reader.ReadValues(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read values for %s: %w", r, err)
	}

	return Decode[T](ToRecords(table))
}

// Decode converts records into T through their JSON form.
func Decode[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, record := range records {
		if typed, ok := any(record).(T); ok {
			out = append(out, typed)
			continue
		}

		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func headerNames(row []any) []string {
	names := make([]string, len(row))
	for i, v := range row {
		if IsBlank(v) {
			continue
		}
		names[i] = fmt.Sprint(v)
	}
	return names
}

// cellAt pads short rows with blanks; some sources trim trailing empty cells.
func cellAt(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isOne(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 1
	case int64:
		return n == 1
	case float64:
		return n == 1
	case json.Number:
		f, err := n.Float64()
		return err == nil && f == 1
	default:
		return false
	}
}
