package framestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/rigdiag/internal/domain/model"
)

// wireFrame is one record as written by the recorder.
type wireFrame struct {
	T              *float64                   `json:"t,omitempty"`
	RawLandmarks   []model.Landmark           `json:"rawLandmarks,omitempty"`
	WorldLandmarks []model.Landmark           `json:"worldLandmarks,omitempty"`
	Input          map[string]model.Rotation3 `json:"input,omitempty"`
	Output         map[string]model.Rotation3 `json:"output,omitempty"`
}

type envelope struct {
	Frames []json.RawMessage `json:"frames"`
}

// sessionFile is the object form written by Save.
type sessionFile struct {
	Session string      `json:"session,omitempty"`
	Frames  []wireFrame `json:"frames"`
}

// Decode reads a session log: either a JSON array of frame records or an
// object holding them under "frames". Records that fail to decode keep
// their position with Frame.Defect set.
func Decode(r io.Reader) ([]model.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &UnreadableError{Reason: err.Error()}
	}
	raws, err := split(data)
	if err != nil {
		return nil, err
	}

	frames := make([]model.Frame, len(raws))
	for i, raw := range raws {
		frames[i] = decodeFrame(i, raw)
	}
	return frames, nil
}

func split(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &UnreadableError{Reason: "empty document"}
	}
	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, &UnreadableError{Reason: err.Error()}
		}
		return raws, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, &UnreadableError{Reason: err.Error()}
		}
		return env.Frames, nil
	default:
		return nil, &UnreadableError{Reason: "top level must be an array or an object"}
	}
}

func decodeFrame(i int, raw json.RawMessage) model.Frame {
	fr := model.Frame{Index: i}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		fr.Defect = &model.MalformedFrameError{Index: i, Reason: "record is not an object"}
		return fr
	}
	var w wireFrame
	if err := json.Unmarshal(trimmed, &w); err != nil {
		fr.Defect = &model.MalformedFrameError{Index: i, Reason: fmt.Sprintf("decode: %v", err)}
		return fr
	}
	if w.T != nil {
		fr.Timestamp = model.Some(*w.T)
	}
	fr.RawLandmarks = w.RawLandmarks
	fr.WorldLandmarks = w.WorldLandmarks
	fr.Input = w.Input
	fr.Output = w.Output
	return fr
}

// Encode writes frames in the recorder's array format. Defective frames
// are written as empty records.
func Encode(w io.Writer, frames []model.Frame) error {
	if err := json.NewEncoder(w).Encode(toWire(frames)); err != nil {
		return fmt.Errorf("encode frames: %w", err)
	}
	return nil
}

func toWire(frames []model.Frame) []wireFrame {
	out := make([]wireFrame, len(frames))
	for i, fr := range frames {
		if fr.Defect != nil {
			continue
		}
		if ts, ok := fr.Timestamp.Get(); ok {
			out[i].T = &ts
		}
		out[i].RawLandmarks = fr.RawLandmarks
		out[i].WorldLandmarks = fr.WorldLandmarks
		out[i].Input = fr.Input
		out[i].Output = fr.Output
	}
	return out
}
