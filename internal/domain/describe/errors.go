package describe

import (
	"errors"
	"fmt"

	"github.com/okian/rigdiag/internal/domain/model"
)

// ErrEmptySeries is returned when statistics are requested for a series
// without samples. Callers should branch on emptiness before describing.
var ErrEmptySeries = errors.New("empty series")

// EmptySeriesError names the channel that had no samples.
type EmptySeriesError struct {
	Channel model.Channel
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: %s", e.Channel, ErrEmptySeries)
}

// Is reports whether target is ErrEmptySeries.
func (e *EmptySeriesError) Is(target error) bool {
	return target == ErrEmptySeries
}
