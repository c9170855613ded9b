package sheetdata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sheet resolves data ranges on a Source.
type Sheet struct {
	src Source
}

func NewSheet(src Source) *Sheet {
	return &Sheet{src: src}
}

// Name returns the underlying sheet name.
func (s *Sheet) Name() string {
	return s.src.Name()
}

// LastRow returns the last row of data in column, scanning from row 1.
func (s *Sheet) LastRow(ctx context.Context, column int) (int, error) {
	return FindLastRow(ctx, s.src, s.src.Name(), column, DefaultHeaderRow)
}

// RangeRequest describes the wanted range. Zero fields take their defaults:
// row 1, column 1, and the sheet's last column.
type RangeRequest struct {
	StartRow    int
	StartColumn int
	EndColumn   int
}

// ResolveRange turns req into concrete coordinates. The end row is the last
// row of data in the start column.
func (s *Sheet) ResolveRange(ctx context.Context, req RangeRequest) (RectRange, error) {
	startRow := req.StartRow
	if startRow == 0 {
		startRow = 1
	}
	startColumn := req.StartColumn
	if startColumn == 0 {
		startColumn = 1
	}
	if startRow < 0 || startColumn < 0 || req.EndColumn < 0 {
		return RectRange{}, fmt.Errorf("%w: %+v", ErrInvalidPosition, req)
	}

	lastRow, err := s.LastRow(ctx, startColumn)
	if err != nil {
		return RectRange{}, err
	}

	endColumn := req.EndColumn
	if endColumn == 0 {
		endColumn, err = s.src.LastColumn(ctx)
		if err != nil {
			return RectRange{}, fmt.Errorf("failed to get last column of %q: %w", s.src.Name(), err)
		}
	}

	r := RectRange{
		StartRow:    startRow,
		StartColumn: startColumn,
		EndRow:      max(lastRow, startRow),
		EndColumn:   max(endColumn, startColumn),
	}

	log.Debug().
		Str("sheet", s.src.Name()).
		Stringer("range", r).
		Int("last_row", lastRow).
		Msg("Resolved range")

	return r, nil
}

// Range resolves req and returns a handle for reading it.
func (s *Sheet) Range(ctx context.Context, req RangeRequest) (*Range, error) {
	r, err := s.ResolveRange(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Range{src: s.src, bounds: r}, nil
}

// Range is a resolved rectangle on a sheet.
type Range struct {
	src    Source
	bounds RectRange
}

// Bounds returns the resolved coordinates.
func (r *Range) Bounds() RectRange {
	return r.bounds
}

// Values reads the raw cell values of the range.
func (r *Range) Values(ctx context.Context) (RawTable, error) {
	return r.src.ReadValues(ctx, r.bounds)
}

// Records reads the range as filtered records.
func (r *Range) Records(ctx context.Context) ([]Record, error) {
	return BuildRecords[Record](ctx, r.src, r.bounds)
}

// RecordsOf reads the range into records of type T.
func RecordsOf[T any](ctx context.Context, r *Range) ([]T, error) {
	return BuildRecords[T](ctx, r.src, r.bounds)
}
