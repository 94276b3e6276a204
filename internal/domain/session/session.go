// Package session summarizes recording-level properties of a frame log:
// duration, frame rate, timing stability and data completeness.
package session

import (
	"github.com/montanaflynn/stats"
	"github.com/okian/rigdiag/internal/domain/model"
)

const msPerSecond = 1000.0

// Profile describes a whole recording. Timing measures need at least two
// timestamped frames; completeness needs at least one frame.
type Profile struct {
	Frames         int           `json:"frames" yaml:"frames"`
	Malformed      int           `json:"malformed" yaml:"malformed"`
	WithRotations  int           `json:"with_rotations" yaml:"with_rotations"`
	Timestamped    int           `json:"timestamped" yaml:"timestamped"`
	LandmarkCount  int           `json:"landmark_count" yaml:"landmark_count"`
	Completeness   model.Measure `json:"completeness" yaml:"completeness"`
	DurationMS     model.Measure `json:"duration_ms" yaml:"duration_ms"`
	FPS            model.Measure `json:"fps" yaml:"fps"`
	IntervalMean   model.Measure `json:"interval_mean_ms" yaml:"interval_mean_ms"`
	IntervalMedian model.Measure `json:"interval_median_ms" yaml:"interval_median_ms"`
	IntervalStdDev model.Measure `json:"interval_std_dev_ms" yaml:"interval_std_dev_ms"`
	IntervalCV     model.Measure `json:"interval_cv" yaml:"interval_cv"`
}

// Build computes the Profile of frames.
func Build(frames []model.Frame) Profile {
	p := Profile{Frames: len(frames)}

	stamps := make([]float64, 0, len(frames))
	for i := range frames {
		fr := &frames[i]
		if fr.Defect != nil {
			p.Malformed++
			continue
		}
		if len(fr.Input) > 0 && len(fr.Output) > 0 {
			p.WithRotations++
		}
		if n := len(fr.RawLandmarks); n > p.LandmarkCount {
			p.LandmarkCount = n
		}
		if ts, ok := fr.Timestamp.Get(); ok {
			stamps = append(stamps, ts)
		}
	}
	p.Timestamped = len(stamps)

	if p.Frames > 0 {
		p.Completeness = model.Some(float64(p.WithRotations) / float64(p.Frames))
	}
	if len(stamps) < 2 {
		return p
	}

	duration := stamps[len(stamps)-1] - stamps[0]
	p.DurationMS = model.Some(duration)
	if duration > 0 {
		p.FPS = model.Some(float64(len(stamps)) / (duration / msPerSecond))
	}

	intervals := make([]float64, len(stamps)-1)
	for i := 1; i < len(stamps); i++ {
		intervals[i-1] = stamps[i] - stamps[i-1]
	}
	// intervals is non-empty here, so the stats calls cannot fail on input size.
	mean, _ := stats.Mean(intervals)
	median, _ := stats.Median(intervals)
	p.IntervalMean = model.Some(mean)
	p.IntervalMedian = model.Some(median)

	sd := 0.0
	if len(intervals) > 1 {
		sd, _ = stats.StandardDeviationSample(intervals)
	}
	p.IntervalStdDev = model.Some(sd)
	if mean > 0 {
		p.IntervalCV = model.Some(sd / mean)
	}
	return p
}

// FramesToMS converts a frame count to milliseconds using the median frame
// interval. It is invalid when the recording carried no usable timestamps.
func (p Profile) FramesToMS(frames int) model.Measure {
	median, ok := p.IntervalMedian.Get()
	if !ok {
		return model.None()
	}
	return model.Some(float64(frames) * median)
}
