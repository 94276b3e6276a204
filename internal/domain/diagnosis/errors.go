package diagnosis

import (
	"errors"
	"fmt"
)

// ErrInvalidBands is returned when a calibration does not form an ordered,
// total band table.
var ErrInvalidBands = errors.New("invalid band table")

// InvalidBandsError describes which table failed validation.
type InvalidBandsError struct {
	Category Category
	Reason   string
}

func (e *InvalidBandsError) Error() string {
	return fmt.Sprintf("%s bands: %s", e.Category, e.Reason)
}

// Is reports whether target is ErrInvalidBands.
func (e *InvalidBandsError) Is(target error) bool { return target == ErrInvalidBands }
