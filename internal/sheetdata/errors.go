package sheetdata

import (
	"errors"
	"fmt"
)

// ErrScanLimitExceeded matches any *ScanLimitExceededError via errors.Is.
var ErrScanLimitExceeded = errors.New("scan limit exceeded")

// ErrInvalidPosition indicates a row or column below 1, or an inverted range.
var ErrInvalidPosition = errors.New("invalid position")

// ScanLimitExceededError is returned when the downward probe does not settle
// within the jump limit. The column most likely has more blank gaps than the
// scan tolerates; retrying will not help, the sheet data has to change.
type ScanLimitExceededError struct {
	Sheet  string
	Column int
	Limit  int
}

func (e *ScanLimitExceededError) Error() string {
	return fmt.Sprintf("there are more than %d blank spaces between rows in %q, column number %d",
		e.Limit, e.Sheet, e.Column)
}

func (e *ScanLimitExceededError) Is(target error) bool {
	return target == ErrScanLimitExceeded
}
