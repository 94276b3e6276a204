// Package scoring aggregates diagnoses into a weighted overall score.
package scoring

import (
	"math"

	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultBudget = 10
	defaultWeight = 1
	maxPercentage = 100
)

// Rating bands on the percentage, best first.
var ratings = []struct {
	atLeast float64
	label   string
	stars   int
}{
	{80, "excellent", 5},
	{60, "good", 4},
	{40, "fair", 3},
	{math.Inf(-1), "needs work", 2},
}

const maxStars = 5

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithBudgets sets the points each category is worth. Non-positive budgets
// are ignored.
func WithBudgets(budgets map[diagnosis.Category]float64) Option {
	return func(a *Aggregator) {
		for c, b := range budgets {
			if b > 0 {
				a.budgets[c] = b
			}
		}
	}
}

// WithDefaultBudget sets the budget for categories without one.
func WithDefaultBudget(b float64) Option {
	return func(a *Aggregator) {
		if b > 0 {
			a.defaultBudget = b
		}
	}
}

// Weighted is a diagnosis with the weight it carries in the total.
type Weighted struct {
	Diagnosis diagnosis.Diagnosis
	Weight    float64
}

// Report is the overall outcome of one analysis.
type Report struct {
	Score       float64               `json:"score" yaml:"score"`
	Possible    float64               `json:"possible" yaml:"possible"`
	Percentage  model.Measure         `json:"percentage" yaml:"percentage"`
	Rating      string                `json:"rating" yaml:"rating"`
	Stars       string                `json:"stars" yaml:"stars"`
	Included    int                   `json:"included" yaml:"included"`
	Excluded    int                   `json:"excluded" yaml:"excluded"`
	Diagnoses   []diagnosis.Diagnosis `json:"diagnoses" yaml:"diagnoses"`
	Suggestions []string              `json:"suggestions" yaml:"suggestions"`
}

// Aggregator folds weighted diagnoses into a Report.
type Aggregator struct {
	budgets       map[diagnosis.Category]float64
	defaultBudget float64
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		budgets:       make(map[diagnosis.Category]float64),
		defaultBudget: defaultBudget,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Budget returns the points category c is worth.
func (a *Aggregator) Budget(c diagnosis.Category) float64 {
	if b, ok := a.budgets[c]; ok {
		return b
	}
	return a.defaultBudget
}

// Aggregate computes the report. Insufficient diagnoses and entries with a
// non-positive weight are listed but contribute to neither total.
func (a *Aggregator) Aggregate(entries []Weighted) Report {
	r := Report{
		Diagnoses:   make([]diagnosis.Diagnosis, 0, len(entries)),
		Suggestions: []string{},
	}
	seen := make(map[string]struct{})

	for _, e := range entries {
		d := e.Diagnosis
		r.Diagnoses = append(r.Diagnoses, d)
		for _, s := range d.Suggestions {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			r.Suggestions = append(r.Suggestions, s)
		}

		if d.Insufficient() || e.Weight <= 0 || d.MaxRank <= 0 {
			r.Excluded++
			continue
		}
		budget := a.Budget(d.Category)
		r.Score += e.Weight * float64(d.Rank) / float64(d.MaxRank) * budget
		r.Possible += e.Weight * budget
		r.Included++
	}

	if r.Possible > 0 {
		r.Percentage = model.Some(math.Min(maxPercentage, r.Score/r.Possible*maxPercentage))
	}
	r.Rating, r.Stars = Rate(r.Percentage)
	return r
}

// Rate maps a percentage to its rating label and star string.
func Rate(pct model.Measure) (label, stars string) {
	v, ok := pct.Get()
	if !ok {
		return string(diagnosis.VerdictInsufficient), ""
	}
	for _, band := range ratings {
		if v >= band.atLeast {
			return band.label, Stars(band.stars)
		}
	}
	return "", ""
}

// Stars renders n filled stars out of five.
func Stars(n int) string {
	n = max(0, min(maxStars, n))
	out := make([]rune, 0, maxStars)
	for i := 0; i < maxStars; i++ {
		if i < n {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}
