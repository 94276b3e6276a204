// Package describe computes descriptive and frame-to-frame statistics for a
// single extracted series.
package describe

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
)

// DefaultLargeStep is the per-frame change treated as a large jump.
const DefaultLargeStep = 0.1

// Record summarizes one series. Jitter fields are invalid for a single
// sample: absence of steps is not measured smoothness.
type Record struct {
	Channel      model.Channel `json:"channel" yaml:"channel"`
	Count        int           `json:"count" yaml:"count"`
	Min          float64       `json:"min" yaml:"min"`
	Max          float64       `json:"max" yaml:"max"`
	Range        float64       `json:"range" yaml:"range"`
	Mean         float64       `json:"mean" yaml:"mean"`
	StdDev       float64       `json:"std_dev" yaml:"std_dev"`
	MeanAbsDelta model.Measure `json:"mean_abs_delta" yaml:"mean_abs_delta"`
	MaxAbsDelta  model.Measure `json:"max_abs_delta" yaml:"max_abs_delta"`
}

// Describe computes the Record for s. Deltas are taken between consecutive
// extracted samples; gaps count as ordinary steps.
func Describe(s series.Series) (Record, error) {
	if s.Empty() {
		return Record{}, &EmptySeriesError{Channel: s.Channel}
	}
	values := s.Values()

	lo, err := stats.Min(values)
	if err != nil {
		return Record{}, fmt.Errorf("min of %s: %w", s.Channel, err)
	}
	hi, err := stats.Max(values)
	if err != nil {
		return Record{}, fmt.Errorf("max of %s: %w", s.Channel, err)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return Record{}, fmt.Errorf("mean of %s: %w", s.Channel, err)
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return Record{}, fmt.Errorf("stddev of %s: %w", s.Channel, err)
	}

	rec := Record{
		Channel: s.Channel,
		Count:   len(values),
		Min:     lo,
		Max:     hi,
		Range:   hi - lo,
		Mean:    mean,
		StdDev:  sd,
	}
	if deltas := absDeltas(values); len(deltas) > 0 {
		// stats.Mean and stats.Max only fail on empty input.
		meanDelta, _ := stats.Mean(deltas)
		maxDelta, _ := stats.Max(deltas)
		rec.MeanAbsDelta = model.Some(meanDelta)
		rec.MaxAbsDelta = model.Some(maxDelta)
	}
	return rec, nil
}

// LargeSteps counts consecutive-sample changes larger than threshold.
func LargeSteps(s series.Series, threshold float64) int {
	n := 0
	for _, d := range absDeltas(s.Values()) {
		if d > threshold {
			n++
		}
	}
	return n
}

// Roughness is the mean absolute second difference of s, a jitter measure
// that ignores steady motion. It needs at least three samples.
func Roughness(s series.Series) model.Measure {
	values := s.Values()
	if len(values) < 3 {
		return model.None()
	}
	accel := make([]float64, 0, len(values)-2)
	for i := 2; i < len(values); i++ {
		accel = append(accel, math.Abs((values[i]-values[i-1])-(values[i-1]-values[i-2])))
	}
	m, err := stats.Mean(accel)
	if err != nil {
		return model.None()
	}
	return model.Some(m)
}

func absDeltas(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = math.Abs(values[i] - values[i-1])
	}
	return out
}
