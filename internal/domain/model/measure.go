package model

import (
	"encoding/json"
	"math"
)

// Measure is a metric value that may be absent. An invalid Measure means the
// metric could not be computed (insufficient data); it is never a zero.
type Measure struct {
	Value float64
	Valid bool
}

// Some returns a valid Measure holding v.
func Some(v float64) Measure { return Measure{Value: v, Valid: true} }

// None returns the insufficient-data marker.
func None() Measure { return Measure{} }

// Get returns the value and its validity.
func (m Measure) Get() (float64, bool) { return m.Value, m.Valid }

// Or returns the value, or fallback when the measure is invalid.
func (m Measure) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}

// Degrees converts a radian measure for display.
func (m Measure) Degrees() Measure {
	if !m.Valid {
		return m
	}
	return Some(m.Value * 180 / math.Pi)
}

// MarshalJSON encodes an invalid measure as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null into an invalid measure.
func (m *Measure) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// MarshalYAML encodes an invalid measure as null.
func (m Measure) MarshalYAML() (interface{}, error) {
	if !m.Valid {
		return nil, nil
	}
	return m.Value, nil
}
