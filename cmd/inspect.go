package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/pwg"
)

var dumpHeaders bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [raster file]",
	Short: "Show the page headers of a PWG raster file",
	Long: `Decode a PWG raster file and print a summary of every page.

All pixel data is decompressed, so a truncated or corrupt stream is
reported. Files ending in .gz are decompressed first.

Examples:
  pdf2pwg inspect output.pwg
  pdf2pwg inspect output.pwg.gz --dump`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&dumpHeaders, "dump", false, "Dump every header field")
}

func runInspect(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open raster file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(strings.ToLower(args[0]), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return inspectStream(cmd.OutOrStdout(), r)
}

// inspectStream prints one line per page and checks every page decodes
func inspectStream(out io.Writer, r io.Reader) error {
	dec, err := pwg.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("not a PWG raster stream: %w", err)
	}

	var pages int
	var pixels uint64
	for {
		page, err := dec.NextPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", pages+1, err)
		}
		pages++

		h := page.Header
		fmt.Fprintf(out, "Page %d: %dx%d px, %d dpi, %s, %d bpp, %dx%d pt",
			pages, h.Width, h.Height, h.HWResolutionX, h.ColorSpace, h.BitsPerPixel, h.PageSizeX, h.PageSizeY)
		if h.PageSizeName != "" {
			fmt.Fprintf(out, " (%s)", h.PageSizeName)
		}
		if h.Duplex {
			fmt.Fprintf(out, ", duplex")
			if h.Tumble {
				fmt.Fprintf(out, " tumble")
			}
		}
		fmt.Fprintln(out)

		if dumpHeaders {
			spew.Fdump(out, h)
		}

		line := make([]byte, page.LineSize())
		for page.UnreadLines() > 0 {
			if err := page.ReadLine(line); err != nil {
				return fmt.Errorf("page %d: %w", pages, err)
			}
			pixels += uint64(len(line))
		}
	}

	fmt.Fprintf(out, "%s pages, %s of pixel data\n", humanize.Comma(int64(pages)), humanize.Bytes(pixels))
	return nil
}
