package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/converter"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input file]",
	Short: "Convert a PDF to PWG raster",
	Long: `Convert a PDF document to a PWG raster stream for a printer profile.

Each page is rendered at the profile resolution. Flags override the
profile settings.

Examples:
  pdf2pwg convert input.pdf -o output.pwg --profile mono
  pdf2pwg convert report.pdf -o report.pwg --dpi 600 --gray --sides two-sided-long-edge
  pdf2pwg convert book.pdf -o book.pwg.gz --pages "1-4,10" --gzip`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().StringVar(&pageRange, "pages", "", "Pages to convert (e.g., \"1-2,5\"); all when empty")
	addRasterFlags(convertCmd)

	convertCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if err := validateInputFile(inputPath); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	if kind, err := converter.DetectSourceKind(args); err != nil || kind != converter.SourcePDF {
		return fmt.Errorf("input validation failed: %s is not a PDF, use the images command for pictures", inputPath)
	}
	if err := converter.ValidatePDF(inputPath); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	output, compressed := resolveOutputPath(outputPath, gzipOutput)
	if err := validateOutputPath(output); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	if pageRange != "" {
		if _, err := converter.ParsePageRanges(pageRange); err != nil {
			return fmt.Errorf("invalid pages format: %w", err)
		}
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.InputPaths = args
	opts.OutputPath = output
	opts.Gzip = compressed
	opts.PageRange = pageRange
	// PDF pages keep their own size
	opts.MediaSize = ""

	conv := converter.New(opts)
	return conv.Convert(cmd.Context())
}
