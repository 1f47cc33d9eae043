package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/alde/pdf2pwg/pkg/progress"
)

type testJob struct {
	id        string
	err       error
	processed *atomic.Int32
}

func (j *testJob) ID() string { return j.id }

func (j *testJob) Process(ctx context.Context) error {
	j.processed.Add(1)
	return j.err
}

func TestPoolRunsEveryJob(t *testing.T) {
	var processed atomic.Int32
	failure := errors.New("boom")

	jobs := make([]Job, 20)
	for i := range jobs {
		var err error
		if i%5 == 0 {
			err = failure
		}
		jobs[i] = &testJob{id: fmt.Sprintf("job-%d", i), err: err, processed: &processed}
	}

	tracker := progress.NewBatchTracker(io.Discard, 3, len(jobs))
	pool := NewPool(context.Background(), 3).WithTracker(tracker)
	results := pool.Run(jobs)

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, expected %d", len(results), len(jobs))
	}
	if processed.Load() != int32(len(jobs)) {
		t.Errorf("processed %d jobs, expected %d", processed.Load(), len(jobs))
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			if !errors.Is(r.Error, failure) {
				t.Errorf("unexpected error for %s: %v", r.JobID, r.Error)
			}
			failed++
		}
	}
	if failed != 4 {
		t.Errorf("got %d failures, expected 4", failed)
	}

	stats := tracker.GetStats()
	if stats.Completed != 20 || stats.Failed != 4 {
		t.Errorf("tracker stats = %+v", stats)
	}
}

func TestPoolCancelledContext(t *testing.T) {
	var processed atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{
		&testJob{id: "a", processed: &processed},
		&testJob{id: "b", processed: &processed},
	}
	results := NewPool(ctx, 1).Run(jobs)

	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	for _, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("job %s error = %v, expected context.Canceled", r.JobID, r.Error)
		}
	}
	if processed.Load() != 0 {
		t.Errorf("cancelled pool processed %d jobs", processed.Load())
	}
}

func TestNewPoolDefaultsWorkerCount(t *testing.T) {
	if NewPool(context.Background(), 0).WorkerCount() < 1 {
		t.Error("a pool needs at least one worker")
	}
	if got := NewPool(context.Background(), 4).WorkerCount(); got != 4 {
		t.Errorf("WorkerCount() = %d, expected 4", got)
	}
}

func TestPoolResultsStream(t *testing.T) {
	var processed atomic.Int32
	pool := NewPool(context.Background(), 2)
	pool.Start()

	go func() {
		for i := 0; i < 10; i++ {
			pool.Submit(&testJob{id: fmt.Sprintf("job-%d", i), processed: &processed})
		}
		pool.Stop()
	}()

	seen := make(map[string]bool)
	for result := range pool.Results() {
		if result.Error != nil {
			t.Errorf("unexpected error for %s: %v", result.JobID, result.Error)
		}
		seen[result.JobID] = true
	}
	if len(seen) != 10 {
		t.Errorf("got %d distinct results, expected 10", len(seen))
	}
	if processed.Load() != 10 {
		t.Errorf("processed %d jobs, expected 10", processed.Load())
	}
}
