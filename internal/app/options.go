package service

import (
	"github.com/okian/rigdiag/internal/adapters/framestore"
	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/plan"
	"github.com/okian/rigdiag/internal/domain/scoring"
	"github.com/okian/rigdiag/internal/domain/series"
	"github.com/okian/rigdiag/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the session log store.
func WithStore(store *framestore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPlan sets the checks to run.
func WithPlan(p plan.Plan) Option {
	return func(s *Service) { s.plan = p }
}

// WithAliases sets the joint name table used for extraction.
func WithAliases(t series.AliasTable) Option {
	return func(s *Service) { s.aliases = t }
}

// WithZeroAsMissing enables the no-data marker on checks that declare it.
// Disabling it keeps every zero as a reading.
func WithZeroAsMissing(enabled bool) Option {
	return func(s *Service) { s.zeroIsMissing = enabled }
}

// WithChangeThreshold sets the crosstalk driving threshold.
func WithChangeThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 {
			s.changeThreshold = t
		}
	}
}

// WithLargeStepThreshold sets the per-frame jump threshold.
func WithLargeStepThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 {
			s.largeStep = t
		}
	}
}

// WithFidelityThresholds sets the precision distribution levels.
func WithFidelityThresholds(ts []float64) Option {
	return func(s *Service) {
		if len(ts) > 0 {
			s.fidelityThresholds = append([]float64(nil), ts...)
		}
	}
}

// WithMaxLag bounds the output latency search in frames.
func WithMaxLag(frames int) Option {
	return func(s *Service) {
		if frames >= 0 {
			s.maxLag = frames
		}
	}
}

// WithClassifier sets the band classifier.
func WithClassifier(c *diagnosis.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithAggregator sets the report aggregator.
func WithAggregator(a *scoring.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithWeights sets per-category score weights and the fallback weight.
func WithWeights(weights map[diagnosis.Category]float64, fallback float64) Option {
	return func(s *Service) {
		s.weights = make(map[diagnosis.Category]float64, len(weights))
		for c, w := range weights {
			s.weights[c] = w
		}
		if fallback >= 0 {
			s.defaultWeight = fallback
		}
	}
}
