// Package worker runs analysis jobs concurrently off a queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/rigdiag/internal/adapters/mq/queue"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/okian/rigdiag/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Handler processes one job. A returned error stops the pool.
type Handler func(ctx context.Context, j queue.Job) error

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker pulls jobs off a queue and hands them to a Handler.
type InMemoryWorker struct {
	queue  Queue
	handle Handler
	name   string
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, h Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		handle: h,
		name:   "worker",
		logger: logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run processes jobs until the queue is drained or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) error {
	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-jobs:
			if !ok {
				return nil
			}
			if err := w.process(ctx, j); err != nil {
				return err
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordJobLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := w.handle(ctx, j); err != nil {
		metrics.RecordJobError()
		if !errors.Is(err, context.Canceled) {
			w.logger.Error(ctx, "job failed",
				logger.Int("seq", j.Seq),
				logger.String("subject", j.Check.Subject()),
				logger.Error(err),
			)
		}
		return fmt.Errorf("job %d (%s): %w", j.Seq, j.Check.Subject(), err)
	}
	metrics.RecordJobProcessed()
	w.logger.Debug(ctx, "job done", logger.Int("seq", j.Seq), logger.String("subject", j.Check.Subject()))
	return nil
}

// Pool runs a fixed number of workers and joins them.
type Pool struct {
	size     int
	capacity int
	logger   logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker
// per CPU.
func NewPool(workerCount int, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		size:   workerCount,
		logger: logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run starts the workers on q and waits for all of them. The first handler
// error cancels the others and is returned.
func (p *Pool) Run(ctx context.Context, q Queue, h Handler) error {
	metrics.UpdateWorkerCount(p.size)
	defer metrics.UpdateWorkerCount(0)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.size; i++ {
		w := NewInMemoryWorker(q, h, WithName("worker-"+strconv.Itoa(i)), WithLogger(p.logger))
		g.Go(func() error { return w.Run(gctx) })
	}
	return g.Wait()
}

// Process queues jobs and runs them to completion.
func (p *Pool) Process(ctx context.Context, jobs []queue.Job, h Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	capacity := p.capacity
	if capacity < 1 {
		capacity = len(jobs)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer q.Close()
		for _, j := range jobs {
			if err := q.Enqueue(gctx, j); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error { return p.Run(gctx, q, h) })

	start := time.Now()
	err := g.Wait()
	p.logger.Debug(ctx, "pool finished",
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", p.size),
		logger.Duration("took", time.Since(start)),
		logger.Bool("ok", err == nil),
	)
	return err
}
