package fidelity_test

import (
	"testing"

	"github.com/okian/rigdiag/internal/domain/fidelity"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
	. "github.com/smartystreets/goconvey/convey"
)

func seq(d model.Domain, frames []int, values ...float64) series.Series {
	s := series.Series{Channel: model.Channel{Domain: d, Joint: "RightUpperArm", Axis: model.AxisY}}
	for i, v := range values {
		idx := i
		if frames != nil {
			idx = frames[i]
		}
		s.Samples = append(s.Samples, series.Sample{Frame: idx, Value: v})
	}
	return s
}

func TestCompare(t *testing.T) {
	Convey("Given identical input and output", t, func() {
		res := fidelity.Compare(seq(model.DomainInput, nil, 1, 1, 1), seq(model.DomainOutput, nil, 1, 1, 1))

		Convey("Then the error is a computed zero", func() {
			So(res.Pairs, ShouldEqual, 3)
			So(res.MeanAbsError, ShouldResemble, model.Some(0))
			So(res.MaxAbsError, ShouldResemble, model.Some(0))
			So(res.FractionBelow(0.001), ShouldResemble, model.Some(1))
		})
	})

	Convey("Given an output that trails the input", t, func() {
		in := seq(model.DomainInput, nil, 0.0, 0.1, 0.2, 0.3)
		out := seq(model.DomainOutput, nil, 0.0, 0.05, 0.15, 0.29)

		res := fidelity.Compare(in, out)

		Convey("Then mean never exceeds max", func() {
			So(res.MeanAbsError.Value, ShouldAlmostEqual, (0+0.05+0.05+0.01)/4, 1e-12)
			So(res.MaxAbsError.Value, ShouldAlmostEqual, 0.05, 1e-12)
			So(res.MeanAbsError.Value, ShouldBeLessThanOrEqualTo, res.MaxAbsError.Value)
		})

		Convey("Then the precision distribution is cumulative", func() {
			dist := res.Distribution()
			So(dist, ShouldHaveLength, 3)
			So(dist[0].Threshold, ShouldEqual, 0.001)
			So(dist[0].Fraction.Value, ShouldEqual, 0.25)
			So(dist[1].Fraction.Value, ShouldEqual, 0.25)
			So(dist[2].Fraction.Value, ShouldEqual, 1.0)
		})
	})

	Convey("Given input and output that never share a frame", t, func() {
		res := fidelity.Compare(seq(model.DomainInput, []int{0, 2}, 1, 2), seq(model.DomainOutput, []int{1, 3}, 1, 2))

		Convey("Then every measure is insufficient rather than perfect", func() {
			So(res.Sufficient(), ShouldBeFalse)
			So(res.Pairs, ShouldEqual, 0)
			So(res.MeanAbsError.Valid, ShouldBeFalse)
			So(res.MaxAbsError.Valid, ShouldBeFalse)
			So(res.FractionBelow(1).Valid, ShouldBeFalse)
			So(res.Distribution(0.5)[0].Fraction.Valid, ShouldBeFalse)
		})
	})
}

func TestEstimateLag(t *testing.T) {
	Convey("Given an output delayed by two frames", t, func() {
		values := []float64{0, 0.1, 0.3, 0.6, 1.0, 1.3, 1.5, 1.6, 1.6, 1.6}
		delayed := append([]float64{0, 0}, values[:len(values)-2]...)

		lag := fidelity.EstimateLag(seq(model.DomainInput, nil, values...), seq(model.DomainOutput, nil, delayed...), fidelity.DefaultMaxLag)

		Convey("Then the two-frame shift explains the divergence", func() {
			So(lag.Sufficient(), ShouldBeTrue)
			So(lag.Frames, ShouldEqual, 2)
			So(lag.MeanAbsError.Value, ShouldAlmostEqual, 0, 1e-12)
			So(lag.Pairs, ShouldEqual, 8)
		})
	})

	Convey("Given an output in step with the input", t, func() {
		s := []float64{0, 0.2, 0.1, 0.4, 0.3}
		lag := fidelity.EstimateLag(seq(model.DomainInput, nil, s...), seq(model.DomainOutput, nil, s...), 3)
		So(lag.Frames, ShouldEqual, 0)
	})

	Convey("Given too little overlap", t, func() {
		lag := fidelity.EstimateLag(seq(model.DomainInput, nil, 1), seq(model.DomainOutput, nil, 1), 3)
		So(lag.Sufficient(), ShouldBeFalse)
	})
}
