package framestore

import (
	"errors"
	"fmt"
)

// Sentinel errors for session log loading.
var (
	ErrMissingFile = errors.New("session log not found")
	ErrUnreadable  = errors.New("session log is not a frame list")
)

// MissingFileError reports a log path that does not exist.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFile, e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMissingFile.
func (e *MissingFileError) Is(target error) bool { return target == ErrMissingFile }

// UnreadableError reports a log whose top level cannot be decoded.
type UnreadableError struct {
	Path   string
	Reason string
}

func (e *UnreadableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrUnreadable, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, ErrUnreadable, e.Reason)
}

// Is reports whether target is ErrUnreadable.
func (e *UnreadableError) Is(target error) bool { return target == ErrUnreadable }
