package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// WorkerProgress tracks the documents handled by one worker
type WorkerProgress struct {
	WorkerID        int
	DocsCompleted   int
	CurrentDocument string
	LastUpdate      time.Time
}

// BatchTracker reports progress of a batch of documents across workers
type BatchTracker struct {
	mu          sync.RWMutex
	out         io.Writer
	workers     map[int]*WorkerProgress
	totalDocs   int
	completed   int
	failed      int
	startTime   time.Time
	lastDisplay time.Time
	displayRate time.Duration
}

// NewBatchTracker creates a tracker for totalDocs documents
func NewBatchTracker(out io.Writer, workerCount, totalDocs int) *BatchTracker {
	tracker := &BatchTracker{
		out:         out,
		workers:     make(map[int]*WorkerProgress),
		totalDocs:   totalDocs,
		startTime:   time.Now(),
		displayRate: 500 * time.Millisecond,
	}

	for i := 0; i < workerCount; i++ {
		tracker.workers[i] = &WorkerProgress{
			WorkerID:   i,
			LastUpdate: time.Now(),
		}
	}

	return tracker
}

// Start records that a worker picked up a document
func (bt *BatchTracker) Start(workerID int, document string) {
	bt.update(workerID, func(w *WorkerProgress) {
		w.CurrentDocument = document
	})
}

// Done records that a worker finished its current document
func (bt *BatchTracker) Done(workerID int, err error) {
	bt.update(workerID, func(w *WorkerProgress) {
		w.CurrentDocument = ""
		w.DocsCompleted++
		bt.completed++
		if err != nil {
			bt.failed++
		}
	})
}

func (bt *BatchTracker) update(workerID int, fn func(w *WorkerProgress)) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	worker := bt.workers[workerID]
	if worker == nil {
		return
	}
	fn(worker)
	worker.LastUpdate = time.Now()

	if time.Since(bt.lastDisplay) >= bt.displayRate {
		bt.display()
		bt.lastDisplay = time.Now()
	}
}

// display prints one status line; callers hold the lock
func (bt *BatchTracker) display() {
	elapsed := time.Since(bt.startTime)

	var eta time.Duration
	if bt.completed > 0 {
		avg := elapsed / time.Duration(bt.completed)
		eta = avg * time.Duration(bt.totalDocs-bt.completed)
	}

	var active []string
	for i := 0; i < len(bt.workers); i++ {
		if doc := bt.workers[i].CurrentDocument; doc != "" {
			active = append(active, truncate(doc, 30))
		}
	}

	fmt.Fprintf(bt.out, "\033[2K\rDocuments: %d/%d (%.1f%%) | failed: %d | elapsed: %v | ETA: %v | %s",
		bt.completed, bt.totalDocs, percent(bt.completed, bt.totalDocs), bt.failed,
		elapsed.Round(time.Second), eta.Round(time.Second), strings.Join(active, ", "))
}

// Finish prints the final batch summary
func (bt *BatchTracker) Finish() {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	elapsed := time.Since(bt.startTime)
	fmt.Fprintf(bt.out, "\033[2K\rConverted %d of %d documents in %v (%d failed)\n",
		bt.completed-bt.failed, bt.totalDocs, elapsed.Round(time.Millisecond), bt.failed)

	for i := 0; i < len(bt.workers); i++ {
		w := bt.workers[i]
		fmt.Fprintf(bt.out, "  Worker %d: %d documents\n", w.WorkerID, w.DocsCompleted)
	}
}

// GetStats returns current batch statistics
func (bt *BatchTracker) GetStats() Stats {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	return Stats{
		Total:      bt.totalDocs,
		Completed:  bt.completed,
		Failed:     bt.failed,
		Elapsed:    time.Since(bt.startTime),
		Percentage: percent(bt.completed, bt.totalDocs),
	}
}

// Stats contains progress statistics
type Stats struct {
	Total      int
	Completed  int
	Failed     int
	Elapsed    time.Duration
	Percentage float64
}

// PageBar is a progress bar for the pages of a single document
type PageBar struct {
	out     io.Writer
	total   int
	current int
	label   string
	width   int
}

// NewPageBar creates a page progress bar
func NewPageBar(out io.Writer, total int, label string) *PageBar {
	return &PageBar{
		out:   out,
		total: total,
		label: label,
		width: 40,
	}
}

// Update moves the bar to current pages done
func (pb *PageBar) Update(current int) {
	pb.current = current
	pb.display()
}

func (pb *PageBar) display() {
	filled := 0
	if pb.total > 0 {
		filled = pb.width * pb.current / pb.total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)

	fmt.Fprintf(pb.out, "\r%s [%s] %d/%d (%.1f%%)",
		pb.label, bar, pb.current, pb.total, percent(pb.current, pb.total))
}

// Finish completes the bar
func (pb *PageBar) Finish() {
	pb.Update(pb.total)
	fmt.Fprintln(pb.out, " DONE")
}

func percent(done, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
