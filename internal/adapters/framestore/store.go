// Package framestore reads recorded session logs from disk.
package framestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/okian/rigdiag/pkg/metrics"
)

// DefaultPattern matches the recorder's log file names.
const DefaultPattern = "motion-debug-log-*.json"

const logFilePermission = 0o600

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithPattern sets the glob used by Newest.
func WithPattern(pattern string) Option {
	return func(s *Store) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store loads session logs and locates the newest one.
type Store struct {
	pattern string
	logger  logger.Logger
}

// New creates a store with configuration options.
func New(opts ...Option) *Store {
	s := &Store{
		pattern: DefaultPattern,
		logger:  logger.Get().Named("framestore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the frames of the log at path.
func (s *Store) Load(ctx context.Context, path string) ([]model.Frame, error) {
	start := time.Now()
	frames, err := Load(path)
	if err != nil {
		s.logger.Error(ctx, "load failed", logger.String("path", path), logger.Error(err))
		return nil, err
	}

	malformed := 0
	for i := range frames {
		if frames[i].Defect != nil {
			malformed++
			s.logger.Debug(ctx, "skipping frame", logger.Error(frames[i].Defect))
		}
	}
	metrics.RecordFramesLoaded(len(frames))
	metrics.RecordFramesMalformed(malformed)
	s.logger.Info(ctx, "session loaded",
		logger.String("path", path),
		logger.Int("frames", len(frames)),
		logger.Int("malformed", malformed),
		logger.Duration("took", time.Since(start)),
	)
	return frames, nil
}

// Newest returns the most recent log in dir matching the store pattern.
func (s *Store) Newest(ctx context.Context, dir string) (string, error) {
	path, err := Latest(dir, s.pattern)
	if err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "newest log", logger.String("path", path))
	return path, nil
}

// Load reads the frames of the log at path.
func Load(path string) ([]model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path, Err: err}
		}
		return nil, &UnreadableError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	frames, err := Decode(f)
	if err != nil {
		var ue *UnreadableError
		if errors.As(err, &ue) {
			ue.Path = path
		}
		return nil, err
	}
	return frames, nil
}

// Save writes frames to path in the object form, tagged with sessionID.
func Save(path, sessionID string, frames []model.Frame) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	enc := json.NewEncoder(f)
	if err := enc.Encode(sessionFile{Session: sessionID, Frames: toWire(frames)}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Latest returns the file in dir matching pattern with the newest
// modification time; equal times fall back to the larger name.
func Latest(dir, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad log pattern %q: %w", pattern, err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	found := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, candidate{path: m, mod: info.ModTime()})
	}
	if len(found) == 0 {
		return "", &MissingFileError{Path: filepath.Join(dir, pattern)}
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].mod.Equal(found[j].mod) {
			return found[i].mod.After(found[j].mod)
		}
		return found[i].path > found[j].path
	})
	return found[0].path, nil
}
