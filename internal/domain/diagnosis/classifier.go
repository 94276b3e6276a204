// Package diagnosis turns metrics into qualitative verdicts through
// calibrated band tables and attaches tuning suggestions.
package diagnosis

import (
	"fmt"
	"math"

	"github.com/okian/rigdiag/internal/domain/crosstalk"
	"github.com/okian/rigdiag/internal/domain/describe"
	"github.com/okian/rigdiag/internal/domain/fidelity"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/session"
)

const sessionSubject = "session"

// Diagnosis is one classified finding.
type Diagnosis struct {
	Category    Category      `json:"category" yaml:"category"`
	Subject     string        `json:"subject" yaml:"subject"`
	Verdict     Verdict       `json:"verdict" yaml:"verdict"`
	Rank        int           `json:"rank" yaml:"rank"`
	MaxRank     int           `json:"max_rank" yaml:"max_rank"`
	Value       model.Measure `json:"value" yaml:"value"`
	Message     string        `json:"message" yaml:"message"`
	Suggestions []string      `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Insufficient reports whether the diagnosis carries no verdict.
func (d Diagnosis) Insufficient() bool { return d.Verdict == VerdictInsufficient }

// Classifier applies band tables to metric records.
type Classifier struct {
	tables map[Category]Table
}

// NewClassifier builds a classifier from cal, falling back to the default
// edges for categories cal omits.
func NewClassifier(cal Calibration) (*Classifier, error) {
	c := &Classifier{tables: make(map[Category]Table, len(scales))}
	for _, cat := range Categories() {
		edges, ok := cal[cat]
		if !ok {
			edges = scales[cat].edges
		}
		t, err := buildTable(cat, edges)
		if err != nil {
			return nil, err
		}
		c.tables[cat] = t
	}
	for cat := range cal {
		if _, ok := scales[cat]; !ok {
			return nil, &InvalidBandsError{Category: cat, Reason: "unknown category"}
		}
	}
	return c, nil
}

// Table returns the band table used for category cat.
func (c *Classifier) Table(cat Category) Table { return c.tables[cat] }

// Range classifies the peak-to-peak travel of a rotation channel.
func (c *Classifier) Range(r describe.Record) Diagnosis {
	v := model.None()
	if r.Count > 0 {
		v = model.Some(r.Range)
	}
	return c.classify(CategoryRange, r.Channel.String(), v, "range")
}

// Jitter classifies the mean per-frame change of a channel.
func (c *Classifier) Jitter(r describe.Record) Diagnosis {
	return c.classify(CategoryJitter, r.Channel.String(), r.MeanAbsDelta, "mean step")
}

// Crosstalk classifies the dependent change observed during driving motion.
func (c *Classifier) Crosstalk(r crosstalk.Result) Diagnosis {
	subject := r.Driving.String() + " -> " + r.Dependent.String()
	d := c.classify(CategoryCrosstalk, subject, r.MeanDependentDelta, "mean dependent step")
	if ratio, ok := r.Ratio.Get(); ok {
		d.Message += fmt.Sprintf(" (ratio %.3f over %d steps)", ratio, r.SampleCount)
	}
	return d
}

// Fidelity classifies the input/output divergence of a channel.
func (c *Classifier) Fidelity(r fidelity.Result) Diagnosis {
	subject := r.Input.Joint + "." + string(r.Input.Axis)
	return c.classify(CategoryFidelity, subject, r.MeanAbsError, "mean abs error")
}

// Timing classifies the frame interval variation of a session.
func (c *Classifier) Timing(p session.Profile) Diagnosis {
	return c.classify(CategoryTiming, sessionSubject, p.IntervalCV, "interval cv")
}

// Completeness classifies the share of frames carrying both rotation sets.
func (c *Classifier) Completeness(p session.Profile) Diagnosis {
	return c.classify(CategoryCompleteness, sessionSubject, p.Completeness, "completeness")
}

// Reach classifies the travel of a landmark coordinate.
func (c *Classifier) Reach(r describe.Record) Diagnosis {
	v := model.None()
	if r.Count > 0 {
		v = model.Some(r.Range)
	}
	return c.classify(CategoryReach, r.Channel.String(), v, "reach")
}

func (c *Classifier) classify(cat Category, subject string, m model.Measure, label string) Diagnosis {
	t := c.tables[cat]
	d := Diagnosis{
		Category: cat,
		Subject:  subject,
		MaxRank:  t.MaxRank(),
		Value:    m,
	}
	v, ok := m.Get()
	if !ok || math.IsNaN(v) {
		d.Verdict = VerdictInsufficient
		d.Value = model.None()
		d.Message = fmt.Sprintf("%s %s: %s", subject, label, VerdictInsufficient)
		return d
	}
	b := t.Lookup(v)
	d.Verdict = b.Verdict
	d.Rank = b.Rank
	d.Message = fmt.Sprintf("%s %s %.4f: %s", subject, label, v, b.Verdict)
	d.Suggestions = Suggestions(cat, b.Verdict)
	return d
}
