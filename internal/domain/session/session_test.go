package session_test

import (
	"testing"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func frameAt(ts float64, withRotations bool) model.Frame {
	fr := model.Frame{Timestamp: model.Some(ts)}
	if withRotations {
		fr.Input = map[string]model.Rotation3{"RightUpperArm": {Z: f(1)}}
		fr.Output = map[string]model.Rotation3{"rightUpperArm": {Z: f(1)}}
	}
	return fr
}

func TestBuild(t *testing.T) {
	Convey("Given a steady 30ms recording with one frame lacking output", t, func() {
		frames := []model.Frame{
			frameAt(1000, true),
			frameAt(1030, true),
			frameAt(1060, false),
			frameAt(1090, true),
		}
		frames[0].RawLandmarks = make([]model.Landmark, 33)

		p := session.Build(frames)

		Convey("Then duration, fps and interval statistics are reported", func() {
			So(p.Frames, ShouldEqual, 4)
			So(p.Timestamped, ShouldEqual, 4)
			So(p.DurationMS.Value, ShouldEqual, 90)
			So(p.FPS.Value, ShouldAlmostEqual, 4/0.09, 1e-9)
			So(p.IntervalMean.Value, ShouldEqual, 30)
			So(p.IntervalMedian.Value, ShouldEqual, 30)
			So(p.IntervalStdDev.Value, ShouldEqual, 0)
			So(p.IntervalCV.Value, ShouldEqual, 0)
		})

		Convey("Then completeness counts frames with both rotation sets", func() {
			So(p.WithRotations, ShouldEqual, 3)
			So(p.Completeness.Value, ShouldEqual, 0.75)
			So(p.LandmarkCount, ShouldEqual, 33)
		})

		Convey("Then frame lags convert to milliseconds", func() {
			So(p.FramesToMS(2), ShouldResemble, model.Some(60))
		})
	})

	Convey("Given frames without timestamps", t, func() {
		p := session.Build([]model.Frame{{}, {}})

		Convey("Then timing is insufficient but completeness is known", func() {
			So(p.DurationMS.Valid, ShouldBeFalse)
			So(p.FPS.Valid, ShouldBeFalse)
			So(p.IntervalCV.Valid, ShouldBeFalse)
			So(p.FramesToMS(3).Valid, ShouldBeFalse)
			So(p.Completeness, ShouldResemble, model.Some(0))
		})
	})

	Convey("Given an empty recording", t, func() {
		p := session.Build(nil)
		So(p.Frames, ShouldEqual, 0)
		So(p.Completeness.Valid, ShouldBeFalse)
	})

	Convey("Given a malformed frame", t, func() {
		frames := []model.Frame{frameAt(0, true), {Defect: &model.MalformedFrameError{Index: 1, Reason: "x"}}}
		p := session.Build(frames)
		So(p.Malformed, ShouldEqual, 1)
		So(p.Completeness.Value, ShouldEqual, 0.5)
	})
}
