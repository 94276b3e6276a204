// Package model contains the frame records and shared value types passed
// between the extraction, statistics and classification layers.
package model

// Rotation3 is an Euler-style rotation in radians. Axis meaning (flexion,
// abduction, twist) is channel specific; a nil axis was absent from the record.
type Rotation3 struct {
	X *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Z *float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// Axis returns the value for a and whether it was present.
func (r Rotation3) Axis(a Axis) (float64, bool) {
	return pick(r.X, r.Y, r.Z, a)
}

// Landmark is a 3D pose point. Raw landmarks use normalized image
// coordinates (y grows downwards); world landmarks are metric.
type Landmark struct {
	X          *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y          *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Z          *float64 `json:"z,omitempty" yaml:"z,omitempty"`
	Visibility *float64 `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Axis returns the coordinate for a and whether it was present.
func (l Landmark) Axis(a Axis) (float64, bool) {
	return pick(l.X, l.Y, l.Z, a)
}

// Frame is one recorded sample. Every field is optional; a nil rotation map
// means the domain was not recorded for this frame.
//
// Defect is set when the record could not be decoded structurally. Such a
// frame keeps its position in the sequence so frame indices stay aligned
// across channels, but extraction skips it.
type Frame struct {
	Index          int
	Timestamp      Measure
	RawLandmarks   []Landmark
	WorldLandmarks []Landmark
	Input          map[string]Rotation3
	Output         map[string]Rotation3
	Defect         error
}

// Rotations returns the rotation map for d.
func (f *Frame) Rotations(d Domain) map[string]Rotation3 {
	switch d {
	case DomainInput:
		return f.Input
	case DomainOutput:
		return f.Output
	default:
		return nil
	}
}

// Landmarks returns the landmark list for s.
func (f *Frame) Landmarks(s Space) []Landmark {
	if s == SpaceWorld {
		return f.WorldLandmarks
	}
	return f.RawLandmarks
}

func pick(x, y, z *float64, a Axis) (float64, bool) {
	var p *float64
	switch a {
	case AxisX:
		p = x
	case AxisY:
		p = y
	case AxisZ:
		p = z
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}
