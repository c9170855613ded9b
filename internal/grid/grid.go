// Package grid holds spreadsheet navigation over in-memory values.
package grid

import (
	"context"
	"fmt"

	"sheet_data/internal/sheetdata"
)

var _ sheetdata.Source = (*Grid)(nil)

// Grid is an immutable in-memory sheet. Rows may be ragged; missing cells
// read as blank.
type Grid struct {
	name    string
	rows    [][]any
	maxRows int
}

// New copies rows into a Grid named name. maxRows is the height of the sheet
// including empty rows below the data; values smaller than len(rows) are
// raised to it.
func New(name string, rows [][]any, maxRows int) *Grid {
	copied := make([][]any, len(rows))
	for i, row := range rows {
		copied[i] = append([]any(nil), row...)
	}
	return &Grid{
		name:    name,
		rows:    copied,
		maxRows: max(maxRows, len(rows)),
	}
}

func (g *Grid) Name() string {
	return g.name
}

// MaxRows returns the sheet height.
func (g *Grid) MaxRows() int {
	return g.maxRows
}

func (g *Grid) cell(row, column int) any {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	r := g.rows[row-1]
	if column < 1 || column > len(r) {
		return ""
	}
	return r[column-1]
}

// Column returns the values of column from row start to the last stored row.
func (g *Grid) Column(column, start int) Column {
	start = max(start, 1)
	var values []any
	for row := start; row <= len(g.rows); row++ {
		values = append(values, g.cell(row, column))
	}
	return Column{Start: start, Values: values}
}

func (g *Grid) ProbeDown(_ context.Context, from sheetdata.CellPosition) (sheetdata.CellPosition, error) {
	if from.Row < 1 || from.Column < 1 {
		return sheetdata.CellPosition{}, fmt.Errorf("%w: %s", sheetdata.ErrInvalidPosition, from)
	}
	row := NextDown(g.Column(from.Column, from.Row), from.Row, g.maxRows)
	return sheetdata.CellPosition{Row: row, Column: from.Column}, nil
}

func (g *Grid) ReadValues(_ context.Context, r sheetdata.RectRange) (sheetdata.RawTable, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	table := make(sheetdata.RawTable, 0, r.Rows())
	for row := r.StartRow; row <= r.EndRow; row++ {
		values := make([]any, 0, r.Columns())
		for column := r.StartColumn; column <= r.EndColumn; column++ {
			values = append(values, g.cell(row, column))
		}
		table = append(table, values)
	}
	return table, nil
}

// LastColumn returns the rightmost column holding a non-blank value.
func (g *Grid) LastColumn(_ context.Context) (int, error) {
	last := 0
	for _, row := range g.rows {
		for i := len(row); i > last; i-- {
			if !sheetdata.IsBlank(row[i-1]) {
				last = i
				break
			}
		}
	}
	return last, nil
}
