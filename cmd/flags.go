package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/converter"
	"github.com/alde/pdf2pwg/pkg/printer"
	"github.com/alde/pdf2pwg/pkg/pwg"
)

// Raster flags shared by convert, images and batch
var (
	outputPath  string
	profileName string
	dpi         int
	grayscale   bool
	sides       string
	quality     string
	mediaSource string
	mediaSize   string
	pageRange   string
	copies      int
	gzipOutput  bool
)

func addRasterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&profileName, "profile", "generic", "Printer profile ("+strings.Join(printer.ProfileNames(), ", ")+")")
	flags.IntVar(&dpi, "dpi", 0, "Resolution in dots per inch (default from profile)")
	flags.BoolVar(&grayscale, "gray", false, "Write 8-bit grayscale instead of RGB")
	flags.StringVar(&sides, "sides", "", "one-sided, two-sided-long-edge or two-sided-short-edge")
	flags.StringVar(&quality, "quality", "", "Print quality (draft, normal, high)")
	flags.StringVar(&mediaSource, "source", "", "IPP media source, e.g. auto, main, tray-1")
	flags.StringVar(&mediaSize, "media", "", "PWG media size name, e.g. iso_a4_210x297mm or letter")
	flags.IntVar(&copies, "copies", 0, "Number of copies recorded in each page header")
	flags.BoolVar(&gzipOutput, "gzip", false, "Compress the raster stream with gzip, adding .gz to the output name")
}

// buildOptions merges the selected profile with any flags the user set
func buildOptions(cmd *cobra.Command) (converter.Options, error) {
	profile, err := printer.GetProfile(profileName)
	if err != nil {
		return converter.Options{}, fmt.Errorf("printer profile error: %w", err)
	}

	settings := profile.OutputSettings()
	flags := cmd.Flags()

	if flags.Changed("dpi") {
		settings.DPI = dpi
	}
	if grayscale {
		settings.ColorSpace = pwg.Grayscale
	}
	if flags.Changed("sides") {
		s := pwg.ParseSides(sides)
		if !isKeyword(s.String(), sides) {
			return converter.Options{}, fmt.Errorf("invalid sides: %s", sides)
		}
		settings.Sides = s
	}
	if flags.Changed("quality") {
		q := pwg.ParsePrintQuality(quality)
		if !isKeyword(q.String(), quality) {
			return converter.Options{}, fmt.Errorf("invalid print quality: %s", quality)
		}
		settings.Quality = q
	}
	if flags.Changed("source") {
		settings.Source = mediaSource
	}
	if flags.Changed("copies") {
		settings.Copies = copies
	}

	media := profile.Capabilities.MediaSize
	if flags.Changed("media") {
		media = mediaSize
	}
	if media != "" {
		if _, ok := printer.LookupMediaSize(media); !ok {
			return converter.Options{}, fmt.Errorf("unknown media size: %s (known sizes: %s)",
				media, strings.Join(printer.MediaSizeNames(), ", "))
		}
	}

	if err := settings.Validate(); err != nil {
		return converter.Options{}, err
	}

	return converter.Options{
		Profile:   profile,
		Settings:  settings,
		MediaSize: media,
		Gzip:      gzipOutput,
		Verbose:   verbose,
	}, nil
}

// isKeyword reports whether input names keyword; parsers fall back silently
func isKeyword(keyword, input string) bool {
	return strings.EqualFold(keyword, strings.TrimSpace(input))
}

func validateInputFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	return nil
}

// resolveOutputPath appends ".gz" when compression is requested for a
// plain name, and turns compression on for ".gz" names.
func resolveOutputPath(path string, compressed bool) (string, bool) {
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return path, true
	}
	if compressed {
		return path + ".gz", true
	}
	return path, false
}

func validateOutputPath(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("output directory does not exist: %s", dir)
	}

	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".pwg") && !strings.HasSuffix(lower, ".pwg.gz") {
		return fmt.Errorf("unsupported output format: %s (use .pwg or .pwg.gz)", filepath.Ext(path))
	}
	return nil
}
