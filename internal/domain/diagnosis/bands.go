package diagnosis

import (
	"fmt"
	"math"
)

// Category groups diagnoses that share a band table and a score budget.
type Category string

// Diagnostic categories.
const (
	CategoryRange        Category = "range"
	CategoryJitter       Category = "jitter"
	CategoryCrosstalk    Category = "crosstalk"
	CategoryFidelity     Category = "fidelity"
	CategoryTiming       Category = "timing"
	CategoryCompleteness Category = "completeness"
	CategoryReach        Category = "reach"
)

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{
		CategoryRange,
		CategoryJitter,
		CategoryCrosstalk,
		CategoryFidelity,
		CategoryTiming,
		CategoryCompleteness,
		CategoryReach,
	}
}

// Verdict is the qualitative outcome of one diagnosis.
type Verdict string

// Verdicts. VerdictInsufficient is shared by every category.
const (
	VerdictInsufficient Verdict = "insufficient data"

	VerdictImmobile   Verdict = "immobile"
	VerdictRestricted Verdict = "restricted"
	VerdictNormal     Verdict = "normal"
	VerdictExcellent  Verdict = "excellent"

	VerdictOverSmoothed Verdict = "over-smoothed"
	VerdictSmooth       Verdict = "smooth"
	VerdictAcceptable   Verdict = "acceptable"
	VerdictJittery      Verdict = "jittery"

	VerdictIsolated Verdict = "isolated"
	VerdictLeak     Verdict = "leak detected"

	VerdictGood    Verdict = "good"
	VerdictLagging Verdict = "lagging"
	VerdictPoor    Verdict = "poor"

	VerdictStable   Verdict = "stable"
	VerdictUnsteady Verdict = "unsteady"
	VerdictUnstable Verdict = "unstable"

	VerdictSparse   Verdict = "sparse"
	VerdictPartial  Verdict = "partial"
	VerdictComplete Verdict = "complete"

	VerdictStatic   Verdict = "static"
	VerdictModerate Verdict = "moderate"
)

// Band matches values strictly below Below.
type Band struct {
	Below   float64 `json:"below" yaml:"below"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
	Rank    int     `json:"rank" yaml:"rank"`
}

// Table is an ordered band list covering the whole real line.
type Table struct {
	Category Category `json:"category" yaml:"category"`
	Bands    []Band   `json:"bands" yaml:"bands"`
}

// Validate checks that edges ascend strictly and the last band is open-ended.
func (t Table) Validate() error {
	if len(t.Bands) == 0 {
		return &InvalidBandsError{Category: t.Category, Reason: "no bands"}
	}
	for i, b := range t.Bands {
		if math.IsNaN(b.Below) {
			return &InvalidBandsError{Category: t.Category, Reason: fmt.Sprintf("band %d edge is NaN", i)}
		}
		if b.Rank < 0 {
			return &InvalidBandsError{Category: t.Category, Reason: fmt.Sprintf("band %d rank is negative", i)}
		}
		if i > 0 && b.Below <= t.Bands[i-1].Below {
			return &InvalidBandsError{Category: t.Category, Reason: fmt.Sprintf("edge %g does not exceed %g", b.Below, t.Bands[i-1].Below)}
		}
	}
	if last := t.Bands[len(t.Bands)-1].Below; !math.IsInf(last, 1) {
		return &InvalidBandsError{Category: t.Category, Reason: "last band must be unbounded"}
	}
	return nil
}

// Lookup returns the single band containing v. A validated table always
// matches; NaN falls into the last band.
func (t Table) Lookup(v float64) Band {
	for _, b := range t.Bands {
		if v < b.Below {
			return b
		}
	}
	return t.Bands[len(t.Bands)-1]
}

// MaxRank is the best rank any band of t awards.
func (t Table) MaxRank() int {
	best := 0
	for _, b := range t.Bands {
		if b.Rank > best {
			best = b.Rank
		}
	}
	return best
}

// scale lists the verdicts of one category from the lowest band upwards,
// with their ranks. Calibrations move edges; they never reorder verdicts.
type scale struct {
	verdicts []Verdict
	ranks    []int
	edges    []float64
}

var scales = map[Category]scale{
	CategoryRange: {
		verdicts: []Verdict{VerdictImmobile, VerdictRestricted, VerdictNormal, VerdictExcellent},
		ranks:    []int{0, 1, 2, 3},
		edges:    []float64{0.5, 1.0, 2.0},
	},
	CategoryJitter: {
		verdicts: []Verdict{VerdictOverSmoothed, VerdictSmooth, VerdictAcceptable, VerdictJittery},
		ranks:    []int{1, 3, 2, 0},
		edges:    []float64{0.01, 0.05, 0.1},
	},
	CategoryCrosstalk: {
		verdicts: []Verdict{VerdictIsolated, VerdictLeak},
		ranks:    []int{1, 0},
		edges:    []float64{0.05},
	},
	CategoryFidelity: {
		verdicts: []Verdict{VerdictExcellent, VerdictGood, VerdictLagging, VerdictPoor},
		ranks:    []int{3, 2, 1, 0},
		edges:    []float64{0.001, 0.01, 0.05},
	},
	CategoryTiming: {
		verdicts: []Verdict{VerdictStable, VerdictUnsteady, VerdictUnstable},
		ranks:    []int{2, 1, 0},
		edges:    []float64{0.2, 0.4},
	},
	CategoryCompleteness: {
		verdicts: []Verdict{VerdictSparse, VerdictPartial, VerdictComplete},
		ranks:    []int{0, 1, 2},
		edges:    []float64{0.5, 0.9},
	},
	CategoryReach: {
		verdicts: []Verdict{VerdictStatic, VerdictModerate, VerdictGood, VerdictExcellent},
		ranks:    []int{0, 1, 2, 3},
		edges:    []float64{0.1, 0.2, 0.3},
	},
}

// Calibration holds the finite band edges per category. Categories left
// out keep their default edges.
type Calibration map[Category][]float64

// DefaultCalibration returns a copy of the built-in edges.
func DefaultCalibration() Calibration {
	cal := make(Calibration, len(scales))
	for c, s := range scales {
		cal[c] = append([]float64(nil), s.edges...)
	}
	return cal
}

// DefaultTables returns the built-in band tables in category order.
func DefaultTables() []Table {
	out := make([]Table, 0, len(scales))
	for _, c := range Categories() {
		t, _ := buildTable(c, scales[c].edges)
		out = append(out, t)
	}
	return out
}

func buildTable(c Category, edges []float64) (Table, error) {
	s, ok := scales[c]
	if !ok {
		return Table{}, &InvalidBandsError{Category: c, Reason: "unknown category"}
	}
	if len(edges) != len(s.edges) {
		return Table{}, &InvalidBandsError{
			Category: c,
			Reason:   fmt.Sprintf("want %d edges, got %d", len(s.edges), len(edges)),
		}
	}
	t := Table{Category: c, Bands: make([]Band, len(s.verdicts))}
	for i, v := range s.verdicts {
		below := math.Inf(1)
		if i < len(edges) {
			if math.IsInf(edges[i], 0) {
				return Table{}, &InvalidBandsError{Category: c, Reason: "edges must be finite"}
			}
			below = edges[i]
		}
		t.Bands[i] = Band{Below: below, Verdict: v, Rank: s.ranks[i]}
	}
	return t, t.Validate()
}
