package sheetdata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	// MaxProbeJumps bounds the number of probes after the initial one.
	MaxProbeJumps = 10
	// DefaultHeaderRow is where column scans start.
	DefaultHeaderRow = 1
)

// FindLastRow returns the last row of data in column, tolerating blank gaps
// inside the data. It walks the column with successive ProbeDown calls and
// stops once a probe lands where the previous one did.
//
// The row returned is the one recorded two probes before the repeat, not the
// one immediately preceding it. With Ctrl+Down semantics the final real jump
// lands on the bottom of the sheet, which the repeat then confirms, so the
// entry before that is the last populated cell.
func FindLastRow(ctx context.Context, probe ColumnProbe, sheetName string, column, headerRow int) (int, error) {
	if column < 1 || headerRow < 1 {
		return 0, fmt.Errorf("%w: column %d, header row %d", ErrInvalidPosition, column, headerRow)
	}

	anchor, err := probe.ProbeDown(ctx, CellPosition{Row: headerRow, Column: column})
	if err != nil {
		return 0, fmt.Errorf("failed to probe column %d of %q: %w", column, sheetName, err)
	}

	// history[0] is the most recent probe; history[1] starts at the header so a
	// column with nothing below the header resolves to the header row itself.
	history := [2]int{anchor.Row, headerRow}

	log.Debug().
		Str("sheet", sheetName).
		Int("column", column).
		Int("row", anchor.Row).
		Msg("Initial column probe")

	for jump := 0; jump < MaxProbeJumps; jump++ {
		next, err := probe.ProbeDown(ctx, anchor)
		if err != nil {
			return 0, fmt.Errorf("failed to probe column %d of %q from row %d: %w", column, sheetName, anchor.Row, err)
		}

		log.Debug().
			Str("sheet", sheetName).
			Int("column", column).
			Int("jump", jump+1).
			Int("from_row", anchor.Row).
			Int("to_row", next.Row).
			Msg("Column probe")

		if next.Row == history[0] {
			log.Debug().
				Str("sheet", sheetName).
				Int("column", column).
				Int("last_row", history[1]).
				Int("probes", jump+2).
				Msg("Found last row")
			return history[1], nil
		}

		history = [2]int{next.Row, history[0]}
		anchor = next
	}

	log.Warn().
		Str("sheet", sheetName).
		Int("column", column).
		Int("limit", MaxProbeJumps).
		Msg("Column scan did not settle")

	return 0, &ScanLimitExceededError{Sheet: sheetName, Column: column, Limit: MaxProbeJumps}
}
