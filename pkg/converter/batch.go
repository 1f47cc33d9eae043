package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"

	"github.com/alde/pdf2pwg/internal/worker"
	"github.com/alde/pdf2pwg/pkg/progress"
)

// BatchOptions configures conversion of many documents
type BatchOptions struct {
	// Template is applied to every document; its input and output paths
	// are replaced per document
	Template    Options
	Inputs      []string
	OutputDir   string
	WorkerCount int
	ReportPath  string
}

// ReportRow is one line of the batch CSV report
type ReportRow struct {
	Input      string `csv:"input"`
	Output     string `csv:"output"`
	Pages      int    `csv:"pages"`
	InputSize  uint64 `csv:"input_bytes"`
	OutputSize uint64 `csv:"output_bytes"`
	Duration   string `csv:"duration"`
	Error      string `csv:"error"`
}

// conversionJob converts one document
type conversionJob struct {
	opts Options
	row  *ReportRow
}

func (j *conversionJob) ID() string {
	return filepath.Base(j.opts.InputPaths[0])
}

func (j *conversionJob) Process(ctx context.Context) error {
	conv := New(j.opts)
	err := conv.Convert(ctx)

	stats := conv.GetStats()
	j.row.Pages = stats.ProcessedPages
	j.row.InputSize = stats.InputFileSize
	j.row.OutputSize = stats.OutputFileSize
	j.row.Duration = stats.ProcessingTime.Round(time.Millisecond).String()
	if err != nil {
		j.row.Error = err.Error()
		return fmt.Errorf("%s: %w", j.opts.InputPaths[0], err)
	}
	return nil
}

// OutputPathFor returns the raster file name for an input document
func OutputPathFor(input, outputDir string, compressed bool) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".pwg"
	if compressed {
		base += ".gz"
	}
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	}
	return filepath.Join(outputDir, base)
}

// RunBatch converts each input into its own raster file. Every document
// is attempted; the returned error joins all failures.
func RunBatch(ctx context.Context, opts BatchOptions) ([]ReportRow, error) {
	if len(opts.Inputs) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	template := opts.Template
	template.Quiet = true
	template.Verbose = false

	pool := worker.NewPool(ctx, opts.WorkerCount)
	if template.PDFPool == nil {
		pdfPool, err := NewPDFPool(pool.WorkerCount())
		if err != nil {
			return nil, err
		}
		defer pdfPool.Close()
		template.PDFPool = pdfPool
	}

	out := template.Output
	if out == nil {
		out = os.Stdout
	}
	tracker := progress.NewBatchTracker(out, pool.WorkerCount(), len(opts.Inputs))
	pool.WithTracker(tracker)

	rows := make([]ReportRow, len(opts.Inputs))
	jobs := make([]worker.Job, len(opts.Inputs))
	for i, input := range opts.Inputs {
		jobOpts := template
		jobOpts.InputPaths = []string{input}
		jobOpts.OutputPath = OutputPathFor(input, opts.OutputDir, template.Gzip)
		rows[i] = ReportRow{Input: input, Output: jobOpts.OutputPath}
		jobs[i] = &conversionJob{opts: jobOpts, row: &rows[i]}
	}

	var result *multierror.Error
	for _, res := range pool.Run(jobs) {
		if res.Error != nil {
			result = multierror.Append(result, res.Error)
		}
	}
	tracker.Finish()

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, rows); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return rows, result.ErrorOrNil()
}

// WriteReport writes the batch report as CSV
func WriteReport(path string, rows []ReportRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
