// Package service runs a full motion diagnosis over one recorded session.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rigdiag/internal/adapters/framestore"
	"github.com/okian/rigdiag/internal/adapters/mq/queue"
	"github.com/okian/rigdiag/internal/adapters/mq/worker"
	"github.com/okian/rigdiag/internal/config"
	"github.com/okian/rigdiag/internal/domain/crosstalk"
	"github.com/okian/rigdiag/internal/domain/describe"
	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/fidelity"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/plan"
	"github.com/okian/rigdiag/internal/domain/scoring"
	"github.com/okian/rigdiag/internal/domain/series"
	"github.com/okian/rigdiag/internal/domain/session"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/okian/rigdiag/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount = 4
	defaultWeight      = 1
)

var defaultFidelityThresholds = []float64{0.001, 0.01, 0.1}

// Service analyzes sessions. It holds no per-session state, so one Service
// may run concurrent analyses.
type Service struct {
	workerCount int
	queueSize   int
	logger      logger.Logger

	store      *framestore.Store
	plan       plan.Plan
	aliases    series.AliasTable
	classifier *diagnosis.Classifier
	aggregator *scoring.Aggregator

	zeroIsMissing      bool
	changeThreshold    float64
	largeStep          float64
	fidelityThresholds []float64
	maxLag             int

	weights       map[diagnosis.Category]float64
	defaultWeight float64
}

// New creates a new service with configuration options.
func New(opts ...Option) *Service {
	classifier, _ := diagnosis.NewClassifier(nil) // default tables always validate
	s := &Service{
		workerCount:        defaultWorkerCount,
		logger:             logger.Get().Named("service"),
		plan:               plan.Default(),
		aliases:            series.DefaultAliases(),
		classifier:         classifier,
		aggregator:         scoring.NewAggregator(),
		zeroIsMissing:      true,
		changeThreshold:    crosstalk.DefaultChangeThreshold,
		largeStep:          describe.DefaultLargeStep,
		fidelityThresholds: append([]float64(nil), defaultFidelityThresholds...),
		maxLag:             fidelity.DefaultMaxLag,
		weights:            map[diagnosis.Category]float64{},
		defaultWeight:      defaultWeight,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = framestore.New(framestore.WithLogger(s.logger.Named("framestore")))
	}
	return s
}

// FromConfig builds a service from a validated configuration. Extra options
// are applied after the configured ones.
func FromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	classifier, err := diagnosis.NewClassifier(cfg.Calibration())
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	weights := make(map[diagnosis.Category]float64)
	for _, c := range diagnosis.Categories() {
		weights[c] = cfg.Weight(c)
	}

	base := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithZeroAsMissing(cfg.ZeroIsMissing),
		WithChangeThreshold(cfg.ChangeThreshold),
		WithLargeStepThreshold(cfg.LargeStepThreshold),
		WithFidelityThresholds(cfg.FidelityThresholds),
		WithMaxLag(cfg.MaxLagFrames),
		WithClassifier(classifier),
		WithAggregator(scoring.NewAggregator(
			scoring.WithBudgets(cfg.CategoryBudgets()),
			scoring.WithDefaultBudget(cfg.DefaultBudget),
		)),
		WithWeights(weights, cfg.DefaultWeight),
		WithStore(framestore.New(framestore.WithPattern(cfg.LogPattern))),
	}
	return New(append(base, opts...)...), nil
}

// AnalyzeFile loads a session log and analyzes it.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (Result, error) {
	frames, err := s.store.Load(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return s.Analyze(ctx, path, frames)
}

// AnalyzeLatest analyzes the newest session log in dir.
func (s *Service) AnalyzeLatest(ctx context.Context, dir string) (Result, error) {
	path, err := s.store.Newest(ctx, dir)
	if err != nil {
		return Result{}, err
	}
	return s.AnalyzeFile(ctx, path)
}

// Analyze runs every planned check over frames and scores the outcome.
// Missing or short channels become insufficient diagnoses; only
// cancellation fails the analysis.
func (s *Service) Analyze(ctx context.Context, source string, frames []model.Frame) (Result, error) {
	start := time.Now()

	profile := session.Build(frames)
	jobs := s.plan.Jobs()
	findings := make([]Finding, len(jobs))

	pool := worker.NewPool(s.workerCount,
		worker.WithQueueCapacity(s.queueSize),
		worker.WithPoolLogger(s.logger.Named("pool")),
	)
	err := pool.Process(ctx, jobs, func(ctx context.Context, j queue.Job) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		findings[j.Seq] = s.run(frames, profile, j)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("analyze %s: %w", source, err)
	}

	entries := []scoring.Weighted{
		s.weigh(s.classifier.Timing(profile)),
		s.weigh(s.classifier.Completeness(profile)),
	}
	for _, f := range findings {
		for _, d := range f.Diagnoses {
			entries = append(entries, s.weigh(d))
		}
	}
	report := s.aggregator.Aggregate(entries)

	for _, d := range report.Diagnoses {
		metrics.RecordVerdict(string(d.Category), string(d.Verdict))
		if d.Insufficient() {
			metrics.RecordInsufficient(string(d.Category))
		}
	}
	metrics.UpdateReportPercentage(report.Percentage.Or(0))
	took := time.Since(start)
	metrics.RecordAnalysisDuration(float64(took.Microseconds()) / 1000)

	s.logger.Info(ctx, "session analyzed",
		logger.String("path", source),
		logger.Int("frames", profile.Frames),
		logger.Int("checks", len(jobs)),
		logger.Int("included", report.Included),
		logger.Int("excluded", report.Excluded),
		logger.String("rating", report.Rating),
		logger.Duration("took", took),
	)

	return Result{
		ID:       resultID(source, profile),
		Source:   source,
		Session:  profile,
		Findings: findings,
		Report:   report,
	}, nil
}

// run executes one check. It never fails: a channel with no usable samples
// yields insufficient diagnoses.
func (s *Service) run(frames []model.Frame, profile session.Profile, j queue.Job) Finding {
	c := j.Check
	f := Finding{Seq: j.Seq, Check: c}

	switch c.Kind {
	case plan.KindRange:
		sr := s.extract(frames, c.Channel, c.ZeroIsMissing)
		f.Coverage = cover(sr)
		rec := s.describe(sr)
		f.Record = &rec
		f.Roughness = describe.Roughness(sr)
		f.LargeSteps = describe.LargeSteps(sr, s.largeStep)
		f.Diagnoses = []diagnosis.Diagnosis{s.classifier.Range(rec), s.classifier.Jitter(rec)}

	case plan.KindCrosstalk:
		drv := s.extract(frames, c.Channel, c.ZeroIsMissing)
		dep := s.extract(frames, c.Dependent, c.ZeroIsMissing)
		f.Coverage = cover(drv, dep)
		res := crosstalk.Analyze(drv, dep, s.changeThreshold)
		f.Crosstalk = &res
		f.Diagnoses = []diagnosis.Diagnosis{s.classifier.Crosstalk(res)}

	case plan.KindFidelity:
		in := s.extract(frames, c.Channel.WithDomain(model.DomainInput), c.ZeroIsMissing)
		out := s.extract(frames, c.Channel.WithDomain(model.DomainOutput), c.ZeroIsMissing)
		f.Coverage = cover(in, out)
		res := fidelity.Compare(in, out)
		f.Fidelity = &res
		f.Precision = res.Distribution(s.fidelityThresholds...)
		lag := fidelity.EstimateLag(in, out, s.maxLag)
		f.Lag = &lag
		if lag.Sufficient() {
			f.LatencyMS = profile.FramesToMS(lag.Frames)
		}
		f.Diagnoses = []diagnosis.Diagnosis{s.classifier.Fidelity(res)}

	case plan.KindReach:
		sr := series.ExtractLandmark(frames, c.Landmark)
		f.Coverage = cover(sr)
		rec := s.describe(sr)
		f.Record = &rec
		f.Diagnoses = []diagnosis.Diagnosis{s.classifier.Reach(rec)}
	}
	return f
}

// extract reads one channel. A zero is dropped as no-data only when the
// check marks its channel that way and the service has the marker enabled.
func (s *Service) extract(frames []model.Frame, ch model.Channel, zeroIsMissing bool) series.Series {
	return series.Extract(frames, ch,
		series.WithAliases(s.aliases),
		series.WithZeroAsMissing(s.zeroIsMissing && zeroIsMissing),
	)
}

func (s *Service) describe(sr series.Series) describe.Record {
	rec, err := describe.Describe(sr)
	if err != nil {
		return describe.Record{Channel: sr.Channel}
	}
	return rec
}

func (s *Service) weigh(d diagnosis.Diagnosis) scoring.Weighted {
	w, ok := s.weights[d.Category]
	if !ok {
		w = s.defaultWeight
	}
	return scoring.Weighted{Diagnosis: d, Weight: w}
}

func cover(ss ...series.Series) Coverage {
	var c Coverage
	for _, sr := range ss {
		c.Samples += sr.Len()
		c.Missing += sr.Missing
		c.Malformed += sr.Malformed
	}
	return c
}

// resultID derives a stable identifier so repeated runs over the same log
// produce the same report.
func resultID(source string, p session.Profile) string {
	name := fmt.Sprintf("rigdiag:%s:%d:%d:%d:%v", source, p.Frames, p.Malformed, p.WithRotations, p.DurationMS)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
