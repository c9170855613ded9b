package sheets

import (
	"fmt"
	"strings"

	"sheet_data/internal/sheetdata"

	"github.com/xuri/excelize/v2"
)

// quoteSheetName wraps a sheet title for use in A1 notation.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// rangeA1 renders r as 'Sheet'!A1:C10.
func rangeA1(sheetName string, r sheetdata.RectRange) (string, error) {
	start, err := excelize.CoordinatesToCellName(r.StartColumn, r.StartRow)
	if err != nil {
		return "", fmt.Errorf("invalid range start: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(r.EndColumn, r.EndRow)
	if err != nil {
		return "", fmt.Errorf("invalid range end: %w", err)
	}
	return fmt.Sprintf("%s!%s:%s", quoteSheetName(sheetName), start, end), nil
}
