package grid

import "sheet_data/internal/sheetdata"

// Column is a contiguous slice of one column's values. Values[0] holds the
// cell at row Start.
type Column struct {
	Start  int
	Values []any
}

func (c Column) filled(row int) bool {
	i := row - c.Start
	if i < 0 || i >= len(c.Values) {
		return false
	}
	return !sheetdata.IsBlank(c.Values[i])
}

// NextDown returns the row Ctrl+Down lands on starting at row from, in a sheet
// that is maxRows tall. Inside a populated block it moves to the block's last
// cell; otherwise it moves to the next populated cell. With nothing populated
// below, it lands on maxRows, and from maxRows it stays put.
func NextDown(col Column, from, maxRows int) int {
	if from >= maxRows {
		return maxRows
	}

	if col.filled(from) && col.filled(from+1) {
		row := from + 1
		for row < maxRows && col.filled(row+1) {
			row++
		}
		return row
	}

	last := min(maxRows, col.Start+len(col.Values)-1)
	for row := from + 1; row <= last; row++ {
		if col.filled(row) {
			return row
		}
	}
	return maxRows
}
