package printer

import "github.com/alde/pdf2pwg/pkg/pwg"

// Capabilities defines what a printer accepts and how jobs for it are set up
type Capabilities struct {
	// Resolution
	DPI int // Dots per inch, used for both axes

	// Color support
	SupportsColor  bool
	SupportsDuplex bool

	// Job defaults
	DefaultSides   pwg.Sides
	DefaultQuality pwg.PrintQuality
	MediaSource    string // IPP media-source keyword, e.g. "auto" or "tray-1"
	MediaType      string // IPP media-type keyword, e.g. "stationery"
	MediaSize      string // PWG media size name, see LookupMediaSize

	// Content hint sent to printers that tune halftoning per content type
	PrintContentOptimize string
}

// Profile represents a complete printer profile
type Profile struct {
	Name         string
	Manufacturer string
	Model        string
	Capabilities Capabilities
}

// OutputSettings returns raster output settings for this profile
func (p *Profile) OutputSettings() pwg.OutputSettings {
	settings := pwg.DefaultOutputSettings()
	settings.DPI = p.Capabilities.DPI
	if !p.Capabilities.SupportsColor {
		settings.ColorSpace = pwg.Grayscale
	}
	if p.Capabilities.SupportsDuplex {
		settings.Sides = p.Capabilities.DefaultSides
	}
	settings.Quality = p.Capabilities.DefaultQuality
	if p.Capabilities.MediaSource != "" {
		settings.Source = p.Capabilities.MediaSource
	}
	settings.MediaType = p.Capabilities.MediaType
	settings.PrintContentOptimize = p.Capabilities.PrintContentOptimize
	return settings
}
