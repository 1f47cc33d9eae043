package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/converter"
)

var imagesCmd = &cobra.Command{
	Use:   "images [image files...]",
	Short: "Convert image files to PWG raster, one page per image",
	Long: `Convert JPEG, PNG, GIF or WebP images into one PWG raster stream.

With --media (or a profile media size) each image is scaled to fit the
sheet at the output resolution and centred on white paper. Without a
media size each image is printed at its own pixel size.

Examples:
  pdf2pwg images scan1.jpg scan2.jpg -o scans.pwg --profile mono
  pdf2pwg images photo.webp -o photo.pwg --profile photo --media a4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (required)")
	addRasterFlags(imagesCmd)

	imagesCmd.MarkFlagRequired("output")
}

func runImages(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if err := validateInputFile(path); err != nil {
			return fmt.Errorf("input validation failed: %w", err)
		}
	}
	if kind, err := converter.DetectSourceKind(args); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	} else if kind != converter.SourceImages {
		return fmt.Errorf("input validation failed: use the convert command for PDF files")
	}
	output, compressed := resolveOutputPath(outputPath, gzipOutput)
	if err := validateOutputPath(output); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.InputPaths = args
	opts.OutputPath = output
	opts.Gzip = compressed

	if verbose {
		fmt.Printf("Converting %d images\n", len(args))
	}

	conv := converter.New(opts)
	return conv.Convert(cmd.Context())
}
