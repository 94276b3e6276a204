// Package series extracts per-channel scalar time series from frame records.
package series

import "github.com/okian/rigdiag/internal/domain/model"

// Sample is one extracted value. Frame is the position in the original frame
// sequence, not in the compacted series.
type Sample struct {
	Frame int     `json:"frame" yaml:"frame"`
	Value float64 `json:"value" yaml:"value"`
}

// Series is the ordered samples of one channel. Malformed counts frames that
// were skipped because their record was defective; Missing counts frames that
// lacked the channel or carried the no-data sentinel.
type Series struct {
	Channel   model.Channel `json:"channel" yaml:"channel"`
	Samples   []Sample      `json:"samples" yaml:"samples"`
	Malformed int           `json:"malformed" yaml:"malformed"`
	Missing   int           `json:"missing" yaml:"missing"`
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Samples) }

// Empty reports whether the series has no samples.
func (s Series) Empty() bool { return len(s.Samples) == 0 }

// Values returns the sample values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Value
	}
	return out
}

// Pair is a co-temporal sample of two series.
type Pair struct {
	Frame int
	A     float64
	B     float64
}

// Join returns the samples present in both s and other at the same frame
// index, in frame order. Samples missing from either side are dropped.
func (s Series) Join(other Series) []Pair {
	pairs := make([]Pair, 0, min(len(s.Samples), len(other.Samples)))
	i, j := 0, 0
	for i < len(s.Samples) && j < len(other.Samples) {
		a, b := s.Samples[i], other.Samples[j]
		switch {
		case a.Frame == b.Frame:
			pairs = append(pairs, Pair{Frame: a.Frame, A: a.Value, B: b.Value})
			i++
			j++
		case a.Frame < b.Frame:
			i++
		default:
			j++
		}
	}
	return pairs
}
