package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/rapm/internal/domain/model"
)

func job(id string) Job {
	return model.GameRef{ID: id, Season: "2018-19", SeasonType: "Regular Season"}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("0021800001")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	dctx, cancel := context.WithCancel(ctx)
	defer cancel()
	j := <-q.Dequeue(dctx)
	if j.ID != "0021800001" {
		t.Errorf("expected 0021800001, got %v", j.ID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("1")) || !q.Enqueue(ctx, job("2")) {
		t.Fatal("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, job("3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_EnqueueWait(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.EnqueueWait(ctx, job("1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	// A full queue blocks until the context expires.
	tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := q.EnqueueWait(tctx, job("2")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	// A blocked producer is released by Close.
	errc := make(chan error, 1)
	go func() { errc <- q.EnqueueWait(ctx, job("3")) }()
	time.Sleep(10 * time.Millisecond)
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked producer was not released")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	numProducers := 10
	numJobs := 50

	done := make(chan struct{}, numProducers)
	for i := 0; i < numProducers; i++ {
		go func(id int) {
			for j := 0; j < numJobs; j++ {
				if err := q.EnqueueWait(ctx, job(fmt.Sprintf("%d-%d", id, j))); err != nil {
					t.Errorf("enqueue: %v", err)
				}
			}
			done <- struct{}{}
		}(i)
	}

	out := q.Dequeue(ctx)
	seen := make(map[string]bool)
	go func() {
		for i := 0; i < numProducers; i++ {
			<-done
		}
		_ = q.Close()
	}()
	for j := range out {
		if seen[j.ID] {
			t.Errorf("job %s delivered twice", j.ID)
		}
		seen[j.ID] = true
	}

	if len(seen) != numProducers*numJobs {
		t.Errorf("expected %d jobs, got %d", numProducers*numJobs, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("1")) || !q.Enqueue(ctx, job("2")) {
		t.Fatal("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if q.Enqueue(ctx, job("3")) {
		t.Error("expected enqueue to fail after closing")
	}
	if err := q.EnqueueWait(ctx, job("3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Queued jobs are still drained, then the channel closes.
	var got []string
	timeout := time.After(time.Second)
	out := q.Dequeue(ctx)
	for {
		select {
		case j, ok := <-out:
			if !ok {
				if len(got) != 2 {
					t.Errorf("expected 2 drained jobs, got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			got = append(got, j.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
