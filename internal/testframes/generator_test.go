package testframes_test

import (
	"testing"
	"time"

	"github.com/okian/rigdiag/internal/adapters/framestore"
	"github.com/okian/rigdiag/internal/domain/crosstalk"
	"github.com/okian/rigdiag/internal/domain/fidelity"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
	"github.com/okian/rigdiag/internal/domain/session"
	"github.com/okian/rigdiag/internal/testframes"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	upperY = model.Channel{Domain: model.DomainInput, Joint: "RightUpperArm", Axis: model.AxisY}
	upperZ = upperY.WithAxis(model.AxisZ)
)

func TestGenerate(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := testframes.DefaultConfig()
		frames := testframes.Generate(cfg)

		Convey("Then generation is deterministic", func() {
			So(testframes.Generate(cfg), ShouldResemble, frames)
		})

		Convey("Then frames are timestamped at the nominal interval", func() {
			So(frames, ShouldHaveLength, cfg.Frames)
			p := session.Build(frames)
			So(p.IntervalMean.Value, ShouldAlmostEqual, cfg.IntervalMS, 1e-9)
			So(p.Completeness.Value, ShouldEqual, 1)
			So(p.LandmarkCount, ShouldEqual, 33)
		})

		Convey("Then output bones use the output rig spelling", func() {
			_, ok := frames[0].Output["rightUpperArm"]
			So(ok, ShouldBeTrue)
			_, ok = frames[0].Output["rightThumbProximal"]
			So(ok, ShouldBeTrue)
			_, ok = frames[0].Input["RightUpperArm"]
			So(ok, ShouldBeTrue)
		})

		Convey("Then output follows input exactly", func() {
			in := series.Extract(frames, upperZ, series.WithZeroAsMissing(true))
			out := series.Extract(frames, upperZ.WithDomain(model.DomainOutput), series.WithAliases(series.DefaultAliases()), series.WithZeroAsMissing(true))
			res := fidelity.Compare(in, out)
			So(res.Pairs, ShouldEqual, cfg.Frames)
			So(res.MeanAbsError.Value, ShouldEqual, 0)
		})

		Convey("Then upper-arm twist does not leak into raise", func() {
			res := crosstalk.Analyze(
				series.Extract(frames, upperY),
				series.Extract(frames, upperZ),
				crosstalk.DefaultChangeThreshold,
			)
			So(res.SampleCount, ShouldBeGreaterThan, 0)
			So(res.MeanDependentDelta.Value, ShouldBeLessThan, 1e-9)
		})
	})

	Convey("Given a lagging, leaking, lossy configuration", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.OutputLag = 3
		cfg.Leak = 2
		cfg.Dropout = 0.5
		frames := testframes.Generate(cfg)

		Convey("Then the output delay is recoverable", func() {
			in := series.Extract(frames, upperZ)
			out := series.Extract(frames, upperZ.WithDomain(model.DomainOutput), series.WithAliases(series.DefaultAliases()))
			lag := fidelity.EstimateLag(in, out, fidelity.DefaultMaxLag)
			So(lag.Frames, ShouldEqual, 3)
			So(lag.MeanAbsError.Value, ShouldAlmostEqual, 0, 1e-12)
		})

		Convey("Then Z moves with Y", func() {
			res := crosstalk.Analyze(series.Extract(frames, upperY), series.Extract(frames, upperZ), crosstalk.DefaultChangeThreshold)
			So(res.MeanDependentDelta.Value, ShouldBeGreaterThan, 0.05)
		})

		Convey("Then some frames lack output", func() {
			p := session.Build(frames)
			So(p.Completeness.Value, ShouldBeLessThan, 0.9)
			So(p.Completeness.Value, ShouldBeGreaterThan, 0.1)
		})
	})

	Convey("Given a configuration with sentinel zeros", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.ZeroRate = 0.3
		frames := testframes.Generate(cfg)

		s := series.Extract(frames, upperZ, series.WithZeroAsMissing(true))
		So(s.Missing, ShouldBeGreaterThan, 0)
		So(s.Len()+s.Missing, ShouldEqual, cfg.Frames)
	})
}

func TestSessionWrite(t *testing.T) {
	Convey("Given a generated session", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.Frames = 10
		created := time.UnixMilli(1_700_000_000_123)
		s := testframes.NewSession(cfg, created)

		Convey("Then it is named like a recorder log", func() {
			So(s.ID, ShouldNotBeEmpty)
			So(s.FileName(), ShouldEqual, "motion-debug-log-1700000000123.json")
		})

		Convey("When written to disk", func() {
			dir := t.TempDir()
			path, err := s.Write(dir)
			So(err, ShouldBeNil)

			Convey("Then it is the newest log and loads back", func() {
				latest, err := framestore.Latest(dir, framestore.DefaultPattern)
				So(err, ShouldBeNil)
				So(latest, ShouldEqual, path)
				frames, err := framestore.Load(path)
				So(err, ShouldBeNil)
				So(frames, ShouldHaveLength, 10)
			})
		})
	})
}
