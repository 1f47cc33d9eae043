package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/alde/pdf2pwg/pkg/progress"
)

// Job is one document to convert. Each job owns its output, so jobs
// never share a raster stream.
type Job interface {
	Process(ctx context.Context) error
	ID() string
}

// Result contains the outcome of processing a job
type Result struct {
	JobID string
	Error error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workerCount int
	jobs        chan Job
	results     chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	tracker     *progress.BatchTracker
}

// NewPool creates a pool bound to ctx. A workerCount of 0 or less uses
// one worker per CPU.
func NewPool(ctx context.Context, workerCount int) *Pool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
		results:     make(chan Result, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// WithTracker reports job progress to tracker
func (p *Pool) WithTracker(tracker *progress.BatchTracker) *Pool {
	p.tracker = tracker
	return p
}

// Start begins processing jobs
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop waits for queued jobs to finish and closes the results channel
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()
}

// Submit adds a job to the processing queue
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	case <-p.ctx.Done():
		p.results <- Result{
			JobID: job.ID(),
			Error: p.ctx.Err(),
		}
	}
}

// Results returns the results channel
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Run processes every job and returns the results in completion order
func (p *Pool) Run(jobs []Job) []Result {
	p.Start()
	go func() {
		for _, job := range jobs {
			p.Submit(job)
		}
		p.Stop()
	}()

	results := make([]Result, 0, len(jobs))
	for result := range p.Results() {
		results = append(results, result)
	}
	return results
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		if p.tracker != nil {
			p.tracker.Start(id, job.ID())
		}

		err := p.ctx.Err()
		if err == nil {
			err = job.Process(p.ctx)
		}

		if p.tracker != nil {
			p.tracker.Done(id, err)
		}

		p.results <- Result{
			JobID: job.ID(),
			Error: err,
		}
	}
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workerCount
}
