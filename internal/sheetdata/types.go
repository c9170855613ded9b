// Package sheetdata finds the extent of data in a sheet and reads it as records.
package sheetdata

import (
	"context"
	"fmt"
)

// CellPosition identifies a single cell. Rows and columns are 1-indexed.
type CellPosition struct {
	Row    int
	Column int
}

func (p CellPosition) String() string {
	return fmt.Sprintf("R%dC%d", p.Row, p.Column)
}

// RectRange is an inclusive rectangle of cells.
type RectRange struct {
	StartRow    int `json:"start_row"`
	StartColumn int `json:"start_column"`
	EndRow      int `json:"end_row"`
	EndColumn   int `json:"end_column"`
}

// Validate checks that the range is 1-indexed and not inverted.
func (r RectRange) Validate() error {
	if r.StartRow < 1 || r.StartColumn < 1 {
		return fmt.Errorf("%w: range %s starts before row 1 or column 1", ErrInvalidPosition, r)
	}
	if r.StartRow > r.EndRow || r.StartColumn > r.EndColumn {
		return fmt.Errorf("%w: range %s is inverted", ErrInvalidPosition, r)
	}
	return nil
}

// Rows returns the number of rows covered by the range.
func (r RectRange) Rows() int {
	return r.EndRow - r.StartRow + 1
}

// Columns returns the number of columns covered by the range.
func (r RectRange) Columns() int {
	return r.EndColumn - r.StartColumn + 1
}

func (r RectRange) String() string {
	return fmt.Sprintf("[%d,%d:%d,%d]", r.StartRow, r.StartColumn, r.EndRow, r.EndColumn)
}

// RawTable holds cell values row by row, exactly as the source returned them.
type RawTable [][]any

// Record is one data row keyed by the header row's field names.
type Record map[string]any

// IsBlank reports whether a raw cell value counts as an empty cell.
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}

// ColumnProbe jumps from a cell to the next populated cell below it, the way
// Ctrl+Down does in a spreadsheet UI. When nothing populated remains below,
// implementations return either the bottom of the sheet or the starting
// position itself.
type ColumnProbe interface {
	ProbeDown(ctx context.Context, from CellPosition) (CellPosition, error)
}

// ValueReader reads the raw values of a rectangular range.
type ValueReader interface {
	ReadValues(ctx context.Context, r RectRange) (RawTable, error)
}

// Source is a single readable sheet.
type Source interface {
	ColumnProbe
	ValueReader
	Name() string
	// LastColumn returns the index of the last column holding any content.
	LastColumn(ctx context.Context) (int, error)
}
