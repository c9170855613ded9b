package sheets

import (
	"context"
	"fmt"

	"sheet_data/internal/grid"
	"sheet_data/internal/sheetdata"

	"github.com/rs/zerolog/log"
)

var _ sheetdata.Source = (*Source)(nil)

// Source reads one sheet of a Google spreadsheet.
type Source struct {
	client        *Client
	spreadsheetID string
	sheetName     string
	maxRows       int
}

// OpenSource checks that the sheet exists and records its height.
func OpenSource(ctx context.Context, client *Client, spreadsheetID, sheetName string) (*Source, error) {
	props, err := client.SheetProperties(ctx, spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}

	maxRows := 0
	if props.GridProperties != nil {
		maxRows = int(props.GridProperties.RowCount)
	}
	if maxRows < 1 {
		return nil, fmt.Errorf("sheet %q has no rows", sheetName)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("sheet", sheetName).
		Int("max_rows", maxRows).
		Msg("Opened sheet source")

	return &Source{
		client:        client,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		maxRows:       maxRows,
	}, nil
}

func (s *Source) Name() string {
	return s.sheetName
}

// ProbeDown reads the column from the anchor to the bottom of the sheet and
// applies Ctrl+Down to it. One API call per probe.
func (s *Source) ProbeDown(ctx context.Context, from sheetdata.CellPosition) (sheetdata.CellPosition, error) {
	if from.Row < 1 || from.Column < 1 {
		return sheetdata.CellPosition{}, fmt.Errorf("%w: %s", sheetdata.ErrInvalidPosition, from)
	}
	if from.Row >= s.maxRows {
		return sheetdata.CellPosition{Row: s.maxRows, Column: from.Column}, nil
	}

	a1, err := rangeA1(s.sheetName, sheetdata.RectRange{
		StartRow:    from.Row,
		StartColumn: from.Column,
		EndRow:      s.maxRows,
		EndColumn:   from.Column,
	})
	if err != nil {
		return sheetdata.CellPosition{}, err
	}

	values, err := s.client.ReadColumn(ctx, s.spreadsheetID, a1)
	if err != nil {
		return sheetdata.CellPosition{}, err
	}

	row := grid.NextDown(grid.Column{Start: from.Row, Values: values}, from.Row, s.maxRows)
	return sheetdata.CellPosition{Row: row, Column: from.Column}, nil
}

// ReadValues returns exactly r.Rows() rows of r.Columns() cells, filling
// cells the API trimmed with "".
func (s *Source) ReadValues(ctx context.Context, r sheetdata.RectRange) (sheetdata.RawTable, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	a1, err := rangeA1(s.sheetName, r)
	if err != nil {
		return nil, err
	}

	values, err := s.client.ReadSheet(ctx, s.spreadsheetID, a1)
	if err != nil {
		return nil, err
	}

	table := make(sheetdata.RawTable, r.Rows())
	for i := range table {
		row := make([]any, r.Columns())
		for j := range row {
			row[j] = ""
			if i < len(values) && j < len(values[i]) && values[i][j] != nil {
				row[j] = values[i][j]
			}
		}
		table[i] = row
	}

	log.Debug().
		Str("sheet", s.sheetName).
		Str("range", a1).
		Int("returned_rows", len(values)).
		Msg("Read sheet values")

	return table, nil
}

// LastColumn returns the rightmost column holding a non-blank value.
func (s *Source) LastColumn(ctx context.Context) (int, error) {
	values, err := s.client.ReadSheet(ctx, s.spreadsheetID, quoteSheetName(s.sheetName))
	if err != nil {
		return 0, err
	}

	last := 0
	for _, row := range values {
		for i := len(row); i > last; i-- {
			if !sheetdata.IsBlank(row[i-1]) {
				last = i
				break
			}
		}
	}
	return last, nil
}
