package fidelity

import (
	"math"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
)

// DefaultMaxLag bounds the output delay search, in frames.
const DefaultMaxLag = 10

const minLagPairs = 2

// Lag is the output delay that best explains the divergence.
type Lag struct {
	Frames       int           `json:"frames" yaml:"frames"`
	Pairs        int           `json:"pairs" yaml:"pairs"`
	MeanAbsError model.Measure `json:"mean_abs_error" yaml:"mean_abs_error"`
}

// Sufficient reports whether a lag could be estimated.
func (l Lag) Sufficient() bool { return l.MeanAbsError.Valid }

// EstimateLag shifts output back by 0..maxLag frames and returns the shift
// with the smallest mean absolute error against input. Ties keep the smaller
// shift. A persistent non-zero lag points at smoothing between the stages.
func EstimateLag(input, output series.Series, maxLag int) Lag {
	if maxLag < 0 {
		maxLag = 0
	}
	byFrame := make(map[int]float64, len(output.Samples))
	for _, s := range output.Samples {
		byFrame[s.Frame] = s.Value
	}

	best := Lag{}
	for lag := 0; lag <= maxLag; lag++ {
		sum, n := 0.0, 0
		for _, s := range input.Samples {
			v, ok := byFrame[s.Frame+lag]
			if !ok {
				continue
			}
			sum += math.Abs(s.Value - v)
			n++
		}
		if n < minLagPairs {
			continue
		}
		mae := sum / float64(n)
		if !best.MeanAbsError.Valid || mae < best.MeanAbsError.Value {
			best = Lag{Frames: lag, Pairs: n, MeanAbsError: model.Some(mae)}
		}
	}
	return best
}
