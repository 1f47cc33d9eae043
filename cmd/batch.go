package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/converter"
)

var (
	outputDir   string
	workerCount int
	reportPath  string
)

var batchCmd = &cobra.Command{
	Use:   "batch [pdf files...]",
	Short: "Convert many PDFs in parallel",
	Long: `Convert several PDF documents, each into its own raster file.

Documents are converted concurrently by a pool of workers that share one
PDFium instance pool. A failing document does not stop the others; all
failures are reported at the end.

Examples:
  pdf2pwg batch *.pdf --out-dir spool/ --profile mono --workers 4
  pdf2pwg batch a.pdf b.pdf --report report.csv --gzip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "out-dir", "", "Directory for raster files (default next to each input)")
	batchCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of worker goroutines (0 = auto)")
	batchCmd.Flags().StringVar(&reportPath, "report", "", "Write a CSV report of every conversion")
	addRasterFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if err := validateInputFile(path); err != nil {
			return fmt.Errorf("input validation failed: %w", err)
		}
		if kind, err := converter.DetectSourceKind([]string{path}); err != nil || kind != converter.SourcePDF {
			return fmt.Errorf("input validation failed: %s is not a PDF", path)
		}
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.MediaSize = ""

	rows, err := converter.RunBatch(cmd.Context(), converter.BatchOptions{
		Template:    opts,
		Inputs:      args,
		OutputDir:   outputDir,
		WorkerCount: workerCount,
		ReportPath:  reportPath,
	})

	if verbose {
		for _, row := range rows {
			status := "ok"
			if row.Error != "" {
				status = row.Error
			}
			fmt.Printf("  %s -> %s: %d pages, %s\n", row.Input, row.Output, row.Pages, status)
		}
	}
	if reportPath != "" {
		fmt.Printf("Report written to %s\n", reportPath)
	}
	return err
}
