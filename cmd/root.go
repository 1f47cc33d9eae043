package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pdf2pwg",
	Short: "Convert documents to PWG raster for IPP Everywhere printers",
	Long: `pdf2pwg renders documents into PWG raster streams (PWG 5102.4),
the page format accepted by driverless IPP Everywhere and AirPrint printers.

Currently supports:
- PDF to PWG raster conversion with printer profiles
- Image files (JPEG, PNG, GIF, WebP) as one page each
- Batch conversion of many PDFs with a CSV report
- Inspecting the page headers of existing raster files`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
