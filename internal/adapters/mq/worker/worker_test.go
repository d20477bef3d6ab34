package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/rapm/internal/adapters/mq/queue"
	worker "github.com/okian/rapm/internal/adapters/mq/worker"
	model "github.com/okian/rapm/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// recorder is a Processor that remembers the games it saw.
type recorder struct {
	mu     sync.Mutex
	seen   map[string]int
	errors map[string]error
	delay  time.Duration
}

func newRecorder() *recorder {
	return &recorder{seen: make(map[string]int), errors: make(map[string]error)}
}

func (r *recorder) Process(ctx context.Context, j worker.Job) error {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[j.ID]++
	return r.errors[j.ID]
}

func (r *recorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[id]
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.seen {
		n += c
	}
	return n
}

type failures struct {
	mu   sync.Mutex
	errs map[string]error
}

func (f *failures) handle(_ context.Context, j worker.Job, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[j.ID] = err
}

func (f *failures) get(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[id]
}

func game(id string) model.GameRef { return model.GameRef{ID: id} }

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		proc := newRecorder()
		fails := &failures{errs: map[string]error{}}
		w := worker.NewInMemoryWorker(q, proc, worker.WithName("test-worker"), worker.WithErrorHandler(fails.handle))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When jobs are queued and the queue is closed", func() {
			proc.errors["bad"] = errors.New("lineup: player not on court")
			for _, id := range []string{"a", "bad", "b"} {
				convey.So(q.Enqueue(ctx, game(id)), convey.ShouldBeTrue)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			w.Run(ctx)

			convey.Convey("Then every job is processed and failures are reported", func() {
				convey.So(proc.total(), convey.ShouldEqual, 3)
				convey.So(w.Processed(), convey.ShouldEqual, 2)
				convey.So(w.Failed(), convey.ShouldEqual, 1)
				convey.So(fails.get("bad"), convey.ShouldNotBeNil)
				convey.So(fails.get("a"), convey.ShouldBeNil)
			})
		})

		convey.Convey("When shutting down an idle worker", func() {
			go w.Run(ctx)
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker with a job timeout", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		proc := newRecorder()
		proc.delay = time.Second
		fails := &failures{errs: map[string]error{}}
		w := worker.NewInMemoryWorker(q, proc,
			worker.WithTimeout(20*time.Millisecond), worker.WithErrorHandler(fails.handle))
		ctx := context.Background()

		convey.So(q.Enqueue(ctx, game("slow")), convey.ShouldBeTrue)
		convey.So(q.Close(), convey.ShouldBeNil)
		w.Run(ctx)

		convey.Convey("Then the slow job fails with a deadline error", func() {
			err := fails.get("slow")
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "slow")
			convey.So(w.Failed(), convey.ShouldEqual, 1)
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		proc := newRecorder()
		pool := worker.NewPool(4, q, worker.ProcessorFunc(proc.Process))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many games are queued from several producers", func() {
			const producers, perProducer = 5, 40
			var wg sync.WaitGroup
			for i := 0; i < producers; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for j := 0; j < perProducer; j++ {
						_ = q.EnqueueWait(ctx, game(fmt.Sprintf("%d-%d", id, j)))
					}
				}(i)
			}
			wg.Wait()
			convey.So(q.Close(), convey.ShouldBeNil)
			pool.Wait()

			convey.Convey("Then each game is processed exactly once", func() {
				convey.So(proc.total(), convey.ShouldEqual, producers*perProducer)
				convey.So(proc.count("3-7"), convey.ShouldEqual, 1)
				convey.So(pool.Processed(), convey.ShouldEqual, producers*perProducer)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the pool is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then the queue is closed and workers stop", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with the default worker count", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newRecorder())
		convey.So(pool, convey.ShouldNotBeNil)
	})
}
