package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/klippa-app/go-pdfium"

	"github.com/alde/pdf2pwg/pkg/printer"
	"github.com/alde/pdf2pwg/pkg/progress"
	"github.com/alde/pdf2pwg/pkg/pwg"
	"github.com/alde/pdf2pwg/pkg/render"
)

// Options contains conversion settings
type Options struct {
	// InputPaths is a single PDF or one or more image files
	InputPaths []string
	OutputPath string
	Profile    printer.Profile
	// Settings are the raster settings, usually Profile.OutputSettings()
	// with command line overrides applied
	Settings  pwg.OutputSettings
	PageRange string
	// MediaSize fits image inputs to a PWG media size. Headers carry its
	// name only for fitted pages; Settings.PageSizeName is always replaced.
	MediaSize string
	// Gzip compresses the output stream
	Gzip    bool
	Verbose bool
	Quiet   bool
	// Output receives progress and summaries, os.Stdout when nil
	Output io.Writer
	// PDFPool is shared by batch conversions; nil starts a private pool
	PDFPool pdfium.Pool
}

// Converter turns page images into a PWG raster file
type Converter struct {
	options   Options
	source    PageSource
	stats     ConversionStats
	startTime time.Time
	bar       *progress.PageBar
}

// ConversionStats tracks conversion metrics
type ConversionStats struct {
	InputFileSize    uint64
	OutputFileSize   uint64
	PageCount        int
	ProcessedPages   int
	RasterBytes      uint64
	ProcessingTime   time.Duration
	CompressionRatio float64
}

// New creates a new converter instance
func New(opts Options) *Converter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Converter{
		options:   opts,
		startTime: time.Now(),
	}
}

// Convert writes every selected page to the output file. On error the
// partial output file is removed.
func (c *Converter) Convert(ctx context.Context) error {
	if err := c.initialize(); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer c.cleanup()

	ranges, err := ParsePageRanges(c.options.PageRange)
	if err != nil {
		return fmt.Errorf("invalid page range: %w", err)
	}
	if err := ranges.ValidateAgainstTotal(c.source.PageCount()); err != nil {
		return fmt.Errorf("invalid page range: %w", err)
	}
	pages := ranges.Pages(c.source.PageCount())
	if len(pages) == 0 {
		return fmt.Errorf("no pages to convert")
	}
	c.stats.PageCount = len(pages)

	if c.options.Verbose {
		fmt.Fprintf(c.options.Output, "Converting %s to %s\n", strings.Join(c.options.InputPaths, ", "), c.options.OutputPath)
		fmt.Fprintf(c.options.Output, "Target printer: %s (%s)\n", c.options.Profile.Name, c.options.Profile.Manufacturer)
		fmt.Fprintf(c.options.Output, "Raster: %s, %d dpi, %s\n",
			c.options.Settings.ColorSpace, c.options.Settings.DPI, c.options.Settings.Sides)
		c.bar = progress.NewPageBar(c.options.Output, len(pages), "Pages")
	}

	if err := c.writeRaster(ctx, pages); err != nil {
		os.Remove(c.options.OutputPath)
		return err
	}
	if c.bar != nil {
		c.bar.Finish()
	}

	if err := c.calculateFinalStats(); err != nil {
		return fmt.Errorf("failed to calculate final statistics: %w", err)
	}

	if !c.options.Quiet {
		c.displayResults()
	}
	return nil
}

// initialize opens the page source
func (c *Converter) initialize() error {
	if err := c.options.Settings.Validate(); err != nil {
		return err
	}

	source, err := openSource(c.options)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	c.source = source

	if sized, ok := source.(interface{ GetFileSize() int64 }); ok {
		c.stats.InputFileSize = uint64(sized.GetFileSize())
	}
	return nil
}

// writeRaster renders pages into the output stream in order
func (c *Converter) writeRaster(ctx context.Context, pages []int) error {
	settings := c.options.Settings
	settings.PageCount = len(pages)
	settings.PageSizeName = ""
	if fitted, ok := c.source.(interface{ MediaName() string }); ok {
		settings.PageSizeName = fitted.MediaName()
	}

	writer, err := c.createWriter(settings)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, pageNum := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := c.source.Page(ctx, pageNum-1)
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", pageNum, err)
		}

		page := render.NewPage(img)
		if err := writer.WritePage(page); err != nil {
			return fmt.Errorf("failed to write page %d: %w", pageNum, err)
		}

		c.stats.ProcessedPages++
		c.stats.RasterBytes += uint64(page.RenderSize(page.Height(), settings.ColorSpace))
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish raster stream: %w", err)
	}
	return nil
}

// gzipFile closes the gzip stream before the file it writes to
type gzipFile struct {
	*gzip.Writer
	file *os.File
}

func (g gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}

// createWriter opens the output file, wrapped in gzip if requested
func (c *Converter) createWriter(settings pwg.OutputSettings) (*pwg.Writer, error) {
	onPage := pwg.WithProgress(c.progressCallback)
	if !c.options.Gzip {
		writer, err := pwg.Create(c.options.OutputPath, settings, onPage)
		if err != nil {
			return nil, fmt.Errorf("failed to start raster stream: %w", err)
		}
		return writer, nil
	}

	file, err := os.Create(c.options.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	sink := gzipFile{Writer: gzip.NewWriter(file), file: file}
	writer, err := pwg.NewWriter(sink, settings, onPage)
	if err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to start raster stream: %w", err)
	}
	return writer, nil
}

// progressCallback is called by the raster writer before each page
func (c *Converter) progressCallback(index, total int) {
	if c.bar != nil {
		c.bar.Update(index)
	}
}

// calculateFinalStats computes final conversion statistics
func (c *Converter) calculateFinalStats() error {
	outputStat, err := os.Stat(c.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to get output file size: %w", err)
	}
	c.stats.OutputFileSize = uint64(outputStat.Size())

	if c.stats.RasterBytes > 0 {
		c.stats.CompressionRatio = float64(c.stats.OutputFileSize) / float64(c.stats.RasterBytes)
	}

	c.stats.ProcessingTime = time.Since(c.startTime)

	return nil
}

// displayResults shows the conversion results
func (c *Converter) displayResults() {
	out := c.options.Output
	fmt.Fprintf(out, "\nConversion completed successfully\n")
	fmt.Fprintf(out, "================================================================\n")

	input := filepath.Base(c.options.InputPaths[0])
	if len(c.options.InputPaths) > 1 {
		input = fmt.Sprintf("%d images", len(c.options.InputPaths))
	}
	fmt.Fprintf(out, "Input:         %s (%s)\n", input, humanize.Bytes(c.stats.InputFileSize))
	fmt.Fprintf(out, "Output:        %s (%s)\n", filepath.Base(c.options.OutputPath), humanize.Bytes(c.stats.OutputFileSize))
	fmt.Fprintf(out, "Raw pixels:    %s\n", humanize.Bytes(c.stats.RasterBytes))

	if c.stats.CompressionRatio > 0 && c.stats.CompressionRatio < 1.0 {
		fmt.Fprintf(out, "Compression:   %.1f%% size reduction\n", (1.0-c.stats.CompressionRatio)*100)
	}

	fmt.Fprintf(out, "Pages:         %s written\n", humanize.Comma(int64(c.stats.ProcessedPages)))
	fmt.Fprintf(out, "Processing:    %v\n", c.stats.ProcessingTime.Round(time.Millisecond))
	fmt.Fprintf(out, "================================================================\n")
}

// GetStats returns the current conversion statistics
func (c *Converter) GetStats() ConversionStats {
	return c.stats
}

// cleanup closes resources
func (c *Converter) cleanup() {
	if c.source != nil {
		c.source.Close()
	}
}
