package model

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame marks a frame record that could not be decoded.
var ErrMalformedFrame = errors.New("malformed frame")

// MalformedFrameError describes why the frame at Index was rejected.
type MalformedFrameError struct {
	Index  int
	Reason string
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Index, e.Reason)
}

// Is reports whether target is ErrMalformedFrame.
func (e *MalformedFrameError) Is(target error) bool {
	return target == ErrMalformedFrame
}
