// Package plan declares which channels an analysis inspects and how.
package plan

import (
	"fmt"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
)

// Kind selects the analyses a check runs.
type Kind string

// Check kinds.
const (
	KindRange     Kind = "range"     // range of motion and jitter of one channel
	KindCrosstalk Kind = "crosstalk" // dependent motion while another axis moves
	KindFidelity  Kind = "fidelity"  // input against output of one channel
	KindReach     Kind = "reach"     // travel of one pose landmark
)

// Check is one unit of analysis. Label and Polarity only annotate output;
// the engine never flips signs. ZeroIsMissing marks channels whose capture
// writes an exact 0.0 when it has nothing to report; everywhere else zero
// is a real reading.
type Check struct {
	Kind          Kind                  `json:"kind" yaml:"kind"`
	Channel       model.Channel         `json:"channel" yaml:"channel"`
	Dependent     model.Channel         `json:"dependent,omitempty" yaml:"dependent,omitempty"`
	Landmark      model.LandmarkChannel `json:"landmark,omitempty" yaml:"landmark,omitempty"`
	Label         string                `json:"label,omitempty" yaml:"label,omitempty"`
	Polarity      string                `json:"polarity,omitempty" yaml:"polarity,omitempty"`
	ZeroIsMissing bool                  `json:"zero_is_missing,omitempty" yaml:"zero_is_missing,omitempty"`
}

// Subject names what the check looks at.
func (c Check) Subject() string {
	switch c.Kind {
	case KindCrosstalk:
		return c.Channel.String() + " -> " + c.Dependent.String()
	case KindReach:
		return c.Landmark.Channel().String()
	default:
		return c.Channel.String()
	}
}

// Plan groups checks by kind.
type Plan struct {
	Range     []Check `json:"range" yaml:"range"`
	Crosstalk []Check `json:"crosstalk" yaml:"crosstalk"`
	Fidelity  []Check `json:"fidelity" yaml:"fidelity"`
	Reach     []Check `json:"reach" yaml:"reach"`
}

// Job is a check with its position in the flattened plan.
type Job struct {
	Seq   int
	Check Check
}

// Jobs flattens p into range, crosstalk, fidelity and reach order.
func (p Plan) Jobs() []Job {
	total := len(p.Range) + len(p.Crosstalk) + len(p.Fidelity) + len(p.Reach)
	jobs := make([]Job, 0, total)
	for _, group := range [][]Check{p.Range, p.Crosstalk, p.Fidelity, p.Reach} {
		for _, c := range group {
			jobs = append(jobs, Job{Seq: len(jobs), Check: c})
		}
	}
	return jobs
}

// Len returns the number of checks in p.
func (p Plan) Len() int {
	return len(p.Range) + len(p.Crosstalk) + len(p.Fidelity) + len(p.Reach)
}

var (
	arms = []string{"RightUpperArm", "LeftUpperArm", "RightLowerArm", "LeftLowerArm"}
	axes = []model.Axis{model.AxisX, model.AxisY, model.AxisZ}
)

// Pose landmark indices of the upper limbs.
const (
	LeftElbow  = 13
	RightElbow = 14
	LeftWrist  = 15
	RightWrist = 16
)

var limbLandmarks = []struct {
	index int
	name  string
}{
	{RightWrist, "rightWrist"},
	{LeftWrist, "leftWrist"},
	{RightElbow, "rightElbow"},
	{LeftElbow, "leftElbow"},
}

// Default returns the standard coverage: arm range and jitter in both
// domains, finger curl, upper-arm Y to Z crosstalk, arm fidelity and
// wrist and elbow reach.
func Default() Plan {
	var p Plan

	for _, d := range []model.Domain{model.DomainInput, model.DomainOutput} {
		for _, joint := range arms {
			for _, a := range axes {
				c := Check{
					Kind:          KindRange,
					Channel:       model.Channel{Domain: d, Joint: joint, Axis: a},
					ZeroIsMissing: true,
				}
				if a == model.AxisZ {
					c.Polarity = armPolarity(joint)
				}
				p.Range = append(p.Range, c)
			}
		}
	}
	for _, h := range series.Hands {
		for _, f := range series.Fingers {
			for _, s := range series.Segments {
				p.Range = append(p.Range, Check{
					Kind:    KindRange,
					Channel: model.Channel{Domain: model.DomainInput, Joint: series.FingerJoint(h, f, s), Axis: model.AxisZ},
					Label:   fmt.Sprintf("%s %s %s curl", h, f, s),
				})
			}
		}
	}

	for _, joint := range []string{"RightUpperArm", "LeftUpperArm"} {
		drv := model.Channel{Domain: model.DomainInput, Joint: joint, Axis: model.AxisY}
		p.Crosstalk = append(p.Crosstalk, Check{
			Kind:      KindCrosstalk,
			Channel:   drv,
			Dependent: drv.WithAxis(model.AxisZ),
			Label:     "twist leaking into raise",
		})
	}

	for _, joint := range arms {
		for _, a := range axes {
			p.Fidelity = append(p.Fidelity, Check{
				Kind:          KindFidelity,
				Channel:       model.Channel{Domain: model.DomainInput, Joint: joint, Axis: a},
				ZeroIsMissing: true,
			})
		}
	}

	for _, lm := range limbLandmarks {
		p.Reach = append(p.Reach, Check{
			Kind:     KindReach,
			Landmark: model.LandmarkChannel{Space: model.SpaceRaw, Index: lm.index, Axis: model.AxisY, Name: lm.name},
			Label:    "vertical travel",
			Polarity: "image y grows downwards",
		})
	}
	return p
}

func armPolarity(joint string) string {
	switch joint {
	case "RightUpperArm", "LeftUpperArm":
		return "negative lowers the arm"
	default:
		return "magnitude is elbow bend"
	}
}
