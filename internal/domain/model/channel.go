package model

import (
	"fmt"
	"strings"
)

// Domain selects which rotation set a channel is read from.
type Domain string

// Rotation domains.
const (
	DomainInput  Domain = "input"  // estimated from sensor data
	DomainOutput Domain = "output" // applied to the target skeleton
)

// Axis names one rotation or landmark component.
type Axis string

// Axes.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Space selects raw (image) or world (metric) landmarks.
type Space string

// Landmark spaces.
const (
	SpaceRaw   Space = "raw"
	SpaceWorld Space = "world"
)

// ParseDomain converts s into a Domain.
func ParseDomain(s string) (Domain, error) {
	switch d := Domain(strings.ToLower(strings.TrimSpace(s))); d {
	case DomainInput, DomainOutput:
		return d, nil
	default:
		return "", fmt.Errorf("unknown domain %q", s)
	}
}

// ParseAxis converts s into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToLower(strings.TrimSpace(s))); a {
	case AxisX, AxisY, AxisZ:
		return a, nil
	default:
		return "", fmt.Errorf("unknown axis %q", s)
	}
}

// Channel is the logical key of one scalar rotation signal. Joint is the
// canonical joint name; per-domain key spelling is resolved by an alias table.
type Channel struct {
	Domain Domain `json:"domain" yaml:"domain"`
	Joint  string `json:"joint" yaml:"joint"`
	Axis   Axis   `json:"axis" yaml:"axis"`
}

// String renders the channel as domain.joint.axis.
func (c Channel) String() string {
	return string(c.Domain) + "." + c.Joint + "." + string(c.Axis)
}

// WithDomain returns a copy of c in domain d.
func (c Channel) WithDomain(d Domain) Channel {
	c.Domain = d
	return c
}

// WithAxis returns a copy of c on axis a.
func (c Channel) WithAxis(a Axis) Channel {
	c.Axis = a
	return c
}

// LandmarkChannel is the key of one pose landmark coordinate.
type LandmarkChannel struct {
	Space Space  `json:"space" yaml:"space"`
	Index int    `json:"index" yaml:"index"`
	Axis  Axis   `json:"axis" yaml:"axis"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Channel maps the landmark key onto the generic Channel shape so landmark
// series flow through the same statistics code.
func (l LandmarkChannel) Channel() Channel {
	joint := l.Name
	if joint == "" {
		joint = fmt.Sprintf("landmark%d", l.Index)
	}
	return Channel{Domain: Domain(l.Space + "Landmarks"), Joint: joint, Axis: l.Axis}
}
