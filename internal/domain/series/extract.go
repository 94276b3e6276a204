package series

import "github.com/okian/rigdiag/internal/domain/model"

type extractOptions struct {
	aliases       AliasTable
	zeroIsMissing bool
}

// Option configures an extraction.
type Option func(*extractOptions)

// WithAliases sets the joint-name alias table. Without it, and with a nil
// table, joints are looked up under the channel's own name.
func WithAliases(t AliasTable) Option {
	return func(o *extractOptions) {
		if t == nil {
			t = Identity()
		}
		o.aliases = t
	}
}

// WithZeroAsMissing treats an exact 0 as the recorder's no-data sentinel.
func WithZeroAsMissing(enabled bool) Option {
	return func(o *extractOptions) {
		o.zeroIsMissing = enabled
	}
}

func newOptions(opts []Option) extractOptions {
	o := extractOptions{aliases: Identity()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Extract pulls channel ch out of frames. Absent or sentinel values are
// skipped, never zero-filled, so a gap cannot read as "no movement".
func Extract(frames []model.Frame, ch model.Channel, opts ...Option) Series {
	o := newOptions(opts)
	key := o.aliases.Resolve(ch.Domain, ch.Joint)

	out := Series{Channel: ch, Samples: make([]Sample, 0, len(frames))}
	for i := range frames {
		fr := &frames[i]
		if fr.Defect != nil {
			out.Malformed++
			continue
		}
		rot, ok := fr.Rotations(ch.Domain)[key]
		if !ok {
			out.Missing++
			continue
		}
		v, ok := rot.Axis(ch.Axis)
		if !ok || (o.zeroIsMissing && v == 0) {
			out.Missing++
			continue
		}
		out.Samples = append(out.Samples, Sample{Frame: i, Value: v})
	}
	return out
}

// ExtractLandmark pulls one pose landmark coordinate out of frames. Frames
// whose landmark list is too short, or whose point lacks the axis, are gaps.
func ExtractLandmark(frames []model.Frame, lc model.LandmarkChannel, opts ...Option) Series {
	o := newOptions(opts)

	out := Series{Channel: lc.Channel(), Samples: make([]Sample, 0, len(frames))}
	for i := range frames {
		fr := &frames[i]
		if fr.Defect != nil {
			out.Malformed++
			continue
		}
		points := fr.Landmarks(lc.Space)
		if lc.Index < 0 || lc.Index >= len(points) {
			out.Missing++
			continue
		}
		v, ok := points[lc.Index].Axis(lc.Axis)
		if !ok || (o.zeroIsMissing && v == 0) {
			out.Missing++
			continue
		}
		out.Samples = append(out.Samples, Sample{Frame: i, Value: v})
	}
	return out
}
