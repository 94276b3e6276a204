package worker_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	queue "github.com/okian/rigdiag/internal/adapters/mq/queue"
	worker "github.com/okian/rigdiag/internal/adapters/mq/worker"
	"github.com/okian/rigdiag/internal/domain/plan"
	logging "github.com/okian/rigdiag/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func jobs(n int) []queue.Job {
	out := make([]queue.Job, n)
	for i := range out {
		out[i] = queue.Job{Seq: i, Check: plan.Check{Kind: plan.KindRange}}
	}
	return out
}

func TestPoolProcess(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		convey.So(logging.Init(logging.WithWriter(&bytes.Buffer{})), convey.ShouldBeNil)
		pool := worker.NewPool(4, worker.WithQueueCapacity(3))
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When every job succeeds", func() {
			results := make([]int, 50)
			err := pool.Process(context.Background(), jobs(50), func(_ context.Context, j queue.Job) error {
				results[j.Seq] = j.Seq * 2
				return nil
			})

			convey.Convey("Then each job wrote its own slot", func() {
				convey.So(err, convey.ShouldBeNil)
				for i, r := range results {
					convey.So(r, convey.ShouldEqual, i*2)
				}
			})
		})

		convey.Convey("When a job fails", func() {
			boom := errors.New("boom")
			var ran atomic.Int64
			err := pool.Process(context.Background(), jobs(20), func(_ context.Context, j queue.Job) error {
				ran.Add(1)
				if j.Seq == 3 {
					return boom
				}
				return nil
			})

			convey.Convey("Then the error is returned with the job attached", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "job 3")
				convey.So(ran.Load(), convey.ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := pool.Process(ctx, jobs(5), func(context.Context, queue.Job) error { return nil })
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})

		convey.Convey("When there are no jobs", func() {
			err := pool.Process(context.Background(), nil, func(context.Context, queue.Job) error { return nil })
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

func TestWorkerRun(t *testing.T) {
	convey.Convey("Given a single worker on a closed queue", t, func() {
		convey.So(logging.Init(logging.WithWriter(&bytes.Buffer{})), convey.ShouldBeNil)
		q := queue.NewInMemoryQueue()
		for _, j := range jobs(3) {
			convey.So(q.Enqueue(context.Background(), j), convey.ShouldBeNil)
		}
		convey.So(q.Close(), convey.ShouldBeNil)

		var mu sync.Mutex
		var seen []int
		w := worker.NewInMemoryWorker(q, func(_ context.Context, j queue.Job) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, j.Seq)
			return nil
		}, worker.WithName("solo"))

		convey.Convey("Then it drains the queue in order and stops", func() {
			convey.So(w.Run(context.Background()), convey.ShouldBeNil)
			convey.So(seen, convey.ShouldResemble, []int{0, 1, 2})
		})
	})
}
