// Package testframes generates deterministic synthetic rigging sessions.
package testframes

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rigdiag/internal/adapters/framestore"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
)

var arms = []string{"RightUpperArm", "LeftUpperArm", "RightLowerArm", "LeftLowerArm"}

// Rest pose offsets keep held axes away from the recorder's zero sentinel.
const (
	restX    = 0.05
	restY    = 0.1
	restZ    = -0.2
	restCurl = 0.05
)

// Limb landmarks that move with the arms.
var movingLandmarks = []int{13, 14, 15, 16}

type generator struct {
	cfg     Config
	rng     *rand.Rand
	aliases series.AliasTable
}

// Generate builds the frames described by cfg. The same cfg always yields
// the same frames.
func Generate(cfg Config) []model.Frame {
	if cfg.Period < 1 {
		cfg.Period = defaultPeriod
	}
	g := &generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // deterministic sessions
		aliases: series.DefaultAliases(),
	}

	inputs := make([]map[string]model.Rotation3, cfg.Frames)
	for i := range inputs {
		inputs[i] = g.input(i)
	}
	outputs := g.outputs(inputs)

	frames := make([]model.Frame, cfg.Frames)
	ts := cfg.StartMS
	for i := range frames {
		if i > 0 {
			ts += cfg.IntervalMS + g.rng.NormFloat64()*cfg.TimingJitterMS
		}
		fr := model.Frame{Index: i, Timestamp: model.Some(ts), Input: inputs[i]}
		if g.rng.Float64() >= cfg.Dropout {
			fr.Output = outputs[i]
		}
		if cfg.Landmarks {
			fr.RawLandmarks = g.landmarks(i)
		}
		frames[i] = fr
	}
	return frames
}

func (g *generator) phase(i int) float64 {
	return 2 * math.Pi * float64(i) / float64(g.cfg.Period)
}

// input alternates motion cycles: even cycles raise and lower the arms on
// Z while Y holds, odd cycles twist on Y while Z holds. On the upper arms
// any Z change during an odd cycle comes from Leak.
func (g *generator) input(i int) map[string]model.Rotation3 {
	rots := make(map[string]model.Rotation3, len(arms)+len(series.Hands)*len(series.Fingers)*len(series.Segments))
	p := g.phase(i)
	twisting := (i/g.cfg.Period)%2 == 1
	for k, joint := range arms {
		x := restX + 0.3*g.cfg.Amplitude*math.Sin(p+float64(k)*math.Pi/4)
		y, z := restY, restZ
		if twisting {
			y += 0.5 * g.cfg.Amplitude * math.Sin(p)
		} else {
			z += g.cfg.Amplitude * math.Sin(p)
		}
		if k < 2 {
			z += g.cfg.Leak * (y - restY)
		}
		rots[joint] = model.Rotation3{
			X: g.sample(x),
			Y: g.sample(y),
			Z: g.sample(z),
		}
	}
	curl := restCurl + 0.5*g.cfg.Amplitude*(1-math.Cos(p))
	for _, h := range series.Hands {
		for _, f := range series.Fingers {
			for _, s := range series.Segments {
				rots[series.FingerJoint(h, f, s)] = model.Rotation3{Z: ptr(curl + g.noise())}
			}
		}
	}
	return rots
}

func (g *generator) sample(v float64) *float64 {
	if g.cfg.ZeroRate > 0 && g.rng.Float64() < g.cfg.ZeroRate {
		return ptr(0)
	}
	return ptr(v + g.noise())
}

func (g *generator) noise() float64 {
	if g.cfg.Noise <= 0 {
		return 0
	}
	return g.rng.NormFloat64() * g.cfg.Noise
}

// outputs replays the inputs delayed by OutputLag and smoothed, keyed the
// way the output rig names its bones.
func (g *generator) outputs(inputs []map[string]model.Rotation3) []map[string]model.Rotation3 {
	out := make([]map[string]model.Rotation3, len(inputs))
	prev := make(map[string][3]float64)
	alpha := math.Max(0, math.Min(g.cfg.Smoothing, 0.99))
	for i := range inputs {
		src := inputs[max(0, i-g.cfg.OutputLag)]
		rots := make(map[string]model.Rotation3, len(src))
		for joint, r := range src {
			cur := [3]float64{deref(r.X), deref(r.Y), deref(r.Z)}
			if last, ok := prev[joint]; ok && alpha > 0 {
				for a := range cur {
					cur[a] = alpha*last[a] + (1-alpha)*cur[a]
				}
			}
			prev[joint] = cur
			rot := model.Rotation3{Z: ptr(cur[2])}
			if r.X != nil {
				rot.X = ptr(cur[0])
			}
			if r.Y != nil {
				rot.Y = ptr(cur[1])
			}
			rots[g.aliases.Resolve(model.DomainOutput, joint)] = rot
		}
		out[i] = rots
	}
	return out
}

func (g *generator) landmarks(i int) []model.Landmark {
	lms := make([]model.Landmark, poseLandmarkCount)
	p := g.phase(i)
	for k := range lms {
		lms[k] = model.Landmark{X: ptr(0.5), Y: ptr(0.5), Z: ptr(0), Visibility: ptr(0.9)}
	}
	for k, idx := range movingLandmarks {
		y := 0.5 + 0.5*g.cfg.LandmarkTravel*math.Sin(p+float64(k)*math.Pi/8)
		lms[idx].Y = ptr(y)
	}
	return lms
}

// Session is a generated recording with its identity.
type Session struct {
	ID      string
	Created time.Time
	Frames  []model.Frame
}

// NewSession generates frames for cfg under a fresh random id.
func NewSession(cfg Config, now time.Time) Session {
	return Session{
		ID:      uuid.NewString(),
		Created: now,
		Frames:  Generate(cfg),
	}
}

// FileName is the recorder's log name for the session.
func (s Session) FileName() string {
	return fmt.Sprintf("motion-debug-log-%d.json", s.Created.UnixMilli())
}

// Write saves the session into dir and returns the file path.
func (s Session) Write(dir string) (string, error) {
	path := filepath.Join(dir, s.FileName())
	if err := framestore.Save(path, s.ID, s.Frames); err != nil {
		return "", err
	}
	return path, nil
}

func ptr(v float64) *float64 { return &v }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
