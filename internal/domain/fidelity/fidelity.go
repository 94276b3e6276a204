// Package fidelity compares the estimated (input) and applied (output)
// values of the same rotation channel.
package fidelity

import (
	"math"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
	"gonum.org/v1/gonum/floats"
)

// Precision thresholds (radians) reported in the error distribution.
var DefaultThresholds = []float64{0.001, 0.01, 0.1}

// Result holds the per-frame input/output divergence of one channel. With
// no joined pairs every measure is invalid rather than a perfect zero.
type Result struct {
	Input        model.Channel `json:"input" yaml:"input"`
	Output       model.Channel `json:"output" yaml:"output"`
	Pairs        int           `json:"pairs" yaml:"pairs"`
	MeanAbsError model.Measure `json:"mean_abs_error" yaml:"mean_abs_error"`
	MaxAbsError  model.Measure `json:"max_abs_error" yaml:"max_abs_error"`

	errs []float64
}

// Fraction is the share of pairs whose error is below Threshold.
type Fraction struct {
	Threshold float64       `json:"threshold" yaml:"threshold"`
	Fraction  model.Measure `json:"fraction" yaml:"fraction"`
}

// Sufficient reports whether any pair was compared.
func (r Result) Sufficient() bool { return r.Pairs > 0 }

// FractionBelow returns the share of joined pairs with error < t.
func (r Result) FractionBelow(t float64) model.Measure {
	if len(r.errs) == 0 {
		return model.None()
	}
	n := 0
	for _, e := range r.errs {
		if e < t {
			n++
		}
	}
	return model.Some(float64(n) / float64(len(r.errs)))
}

// Distribution evaluates FractionBelow for each threshold, in order.
func (r Result) Distribution(thresholds ...float64) []Fraction {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	out := make([]Fraction, len(thresholds))
	for i, t := range thresholds {
		out[i] = Fraction{Threshold: t, Fraction: r.FractionBelow(t)}
	}
	return out
}

// Compare joins input and output by frame index and aggregates |in - out|.
func Compare(input, output series.Series) Result {
	res := Result{Input: input.Channel, Output: output.Channel}

	pairs := input.Join(output)
	if len(pairs) == 0 {
		return res
	}
	res.errs = make([]float64, len(pairs))
	for i, p := range pairs {
		res.errs[i] = math.Abs(p.A - p.B)
	}
	res.Pairs = len(pairs)
	res.MeanAbsError = model.Some(floats.Sum(res.errs) / float64(len(res.errs)))
	res.MaxAbsError = model.Some(floats.Max(res.errs))
	return res
}
