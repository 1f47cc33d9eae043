package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/pdf2pwg/pkg/printer"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in printer profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := printer.ListProfiles()
		for _, key := range printer.ProfileNames() {
			p := profiles[key]
			settings := p.OutputSettings()
			fmt.Printf("%-10s %s (%s)\n", key, p.Name, p.Manufacturer)
			fmt.Printf("           %d dpi, %s, %s, quality %s, source %s\n",
				settings.DPI, settings.ColorSpace, settings.Sides, settings.Quality, settings.Source)
			if verbose && p.Capabilities.MediaSize != "" {
				fmt.Printf("           media %s, type %q, content %q\n",
					p.Capabilities.MediaSize, settings.MediaType, settings.PrintContentOptimize)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
