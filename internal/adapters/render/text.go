package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	service "github.com/okian/rigdiag/internal/app"
	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/plan"
)

const notAvailable = "n/a"

// Text writes a human-readable report. Angles are shown in radians with
// degrees alongside.
func Text(w io.Writer, res service.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	p.line("Motion diagnosis: %s", res.Source)
	p.line("Report id: %s", res.ID)
	p.blank()

	s := res.Session
	p.line("Session")
	p.line("  frames\t%d (malformed %d, with rotations %d, landmarks %d)", s.Frames, s.Malformed, s.WithRotations, s.LandmarkCount)
	p.line("  completeness\t%s", percent(s.Completeness))
	p.line("  duration\t%s ms at %s fps", number(s.DurationMS, 0), number(s.FPS, 1))
	p.line("  interval\t%s ± %s ms (median %s, cv %s)",
		number(s.IntervalMean, 1), number(s.IntervalStdDev, 1), number(s.IntervalMedian, 1), number(s.IntervalCV, 3))
	for _, d := range res.Report.Diagnoses {
		if d.Category == diagnosis.CategoryTiming || d.Category == diagnosis.CategoryCompleteness {
			p.line("  %s\t%s", d.Category, d.Verdict)
		}
	}

	sections := []struct {
		kind  plan.Kind
		title string
		row   func(service.Finding) string
	}{
		{plan.KindRange, "Range of motion", rangeRow},
		{plan.KindCrosstalk, "Crosstalk", crosstalkRow},
		{plan.KindFidelity, "Input/output fidelity", fidelityRow},
		{plan.KindReach, "Landmark reach", reachRow},
	}
	for _, sec := range sections {
		first := true
		for _, f := range res.Findings {
			if f.Check.Kind != sec.kind {
				continue
			}
			if first {
				p.blank()
				p.line("%s", sec.title)
				first = false
			}
			p.line("  %s\t%s\t%s", subject(f.Check), sec.row(f), verdicts(f.Diagnoses))
		}
	}

	r := res.Report
	p.blank()
	p.line("Score\t%.1f / %.1f (%s)", r.Score, r.Possible, percentValue(r.Percentage))
	p.line("Rating\t%s %s", r.Rating, r.Stars)
	p.line("Diagnoses\t%d scored, %d excluded", r.Included, r.Excluded)
	if err := p.flush(); err != nil {
		return err
	}

	if len(r.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggestions")
		for _, sg := range r.Suggestions {
			fmt.Fprintf(w, "  - %s\n", sg)
		}
	}
	return nil
}

type printer struct {
	w   *tabwriter.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) blank() { p.line("") }

func (p *printer) flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

func subject(c plan.Check) string {
	s := c.Subject()
	var notes []string
	if c.Label != "" {
		notes = append(notes, c.Label)
	}
	if c.Polarity != "" {
		notes = append(notes, c.Polarity)
	}
	if len(notes) > 0 {
		s += " (" + strings.Join(notes, ", ") + ")"
	}
	return s
}

func rangeRow(f service.Finding) string {
	r := f.Record
	if r == nil || r.Count == 0 {
		return fmt.Sprintf("no samples (missing %d)", f.Coverage.Missing)
	}
	return fmt.Sprintf("range %s  [%s .. %s]  step %s  large steps %d",
		angle(r.Range), angle(r.Min), angle(r.Max), angleMeasure(r.MeanAbsDelta), f.LargeSteps)
}

func crosstalkRow(f service.Finding) string {
	c := f.Crosstalk
	if c == nil || !c.Sufficient() {
		return "no driving motion"
	}
	return fmt.Sprintf("ratio %s over %d steps  dependent %s  corr %s",
		number(c.Ratio, 3), c.SampleCount, angleMeasure(c.MeanDependentDelta), number(c.Correlation, 2))
}

func fidelityRow(f service.Finding) string {
	r := f.Fidelity
	if r == nil || !r.Sufficient() {
		return "no paired frames"
	}
	parts := []string{fmt.Sprintf("error %s (max %s) over %d frames",
		angleMeasure(r.MeanAbsError), angleMeasure(r.MaxAbsError), r.Pairs)}
	for _, fr := range f.Precision {
		parts = append(parts, fmt.Sprintf("<%g: %s", fr.Threshold, percent(fr.Fraction)))
	}
	if f.Lag != nil && f.Lag.Sufficient() {
		parts = append(parts, fmt.Sprintf("lag %d frames (%s ms)", f.Lag.Frames, number(f.LatencyMS, 0)))
	}
	return strings.Join(parts, "  ")
}

func reachRow(f service.Finding) string {
	r := f.Record
	if r == nil || r.Count == 0 {
		return "no samples"
	}
	return fmt.Sprintf("travel %.3f  [%.3f .. %.3f]", r.Range, r.Min, r.Max)
}

func verdicts(ds []diagnosis.Diagnosis) string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, string(d.Verdict))
	}
	return strings.Join(out, " / ")
}

func angle(rad float64) string {
	return fmt.Sprintf("%.3f rad (%.1f°)", rad, rad*180/math.Pi)
}

func angleMeasure(m model.Measure) string {
	if v, ok := m.Get(); ok {
		return angle(v)
	}
	return notAvailable
}

func number(m model.Measure, prec int) string {
	if v, ok := m.Get(); ok {
		return fmt.Sprintf("%.*f", prec, v)
	}
	return notAvailable
}

func percent(m model.Measure) string {
	if v, ok := m.Get(); ok {
		return fmt.Sprintf("%.1f%%", v*100)
	}
	return notAvailable
}

func percentValue(m model.Measure) string {
	if v, ok := m.Get(); ok {
		return fmt.Sprintf("%.1f%%", v)
	}
	return notAvailable
}
