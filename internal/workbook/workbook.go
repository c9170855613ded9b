// Package workbook loads sheets from local .xlsx files.
package workbook

import (
	"fmt"
	"strconv"

	"sheet_data/internal/grid"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

type Workbook struct {
	file *excelize.File
	path string
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	log.Debug().Str("path", path).Strs("sheets", f.GetSheetList()).Msg("Opened workbook")
	return &Workbook{file: f, path: path}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet loads a sheet into memory with typed cell values: numbers become
// float64, booleans bool, everything else stays a string. The sheet height
// is the xlsx maximum, so a column scan past the data lands on the last row
// the format allows.
func (w *Workbook) Sheet(name string) (*grid.Grid, error) {
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	typed := make([][]any, len(rows))
	for r, row := range rows {
		typed[r] = make([]any, len(row))
		for c, raw := range row {
			value, err := w.typedValue(name, r+1, c+1, raw)
			if err != nil {
				return nil, err
			}
			typed[r][c] = value
		}
	}

	log.Debug().
		Str("path", w.path).
		Str("sheet", name).
		Int("rows", len(rows)).
		Msg("Loaded sheet")

	return grid.New(name, typed, excelize.TotalRows), nil
}

func (w *Workbook) typedValue(sheet string, row, column int, raw string) (any, error) {
	if raw == "" {
		return "", nil
	}

	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return nil, err
	}
	cellType, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to get type of %s!%s: %w", sheet, cell, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE", nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw, nil
	default:
		// Unset, number, date and formula cells carry a numeric raw value
		// when they hold a number.
		return parseNumber(raw), nil
	}
}

func parseNumber(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
