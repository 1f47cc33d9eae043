package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alde/pdf2pwg/pkg/pwg"
)

// Available printer profiles
var profiles = map[string]Profile{
	"generic": {
		Name:         "Generic IPP Everywhere",
		Manufacturer: "Generic",
		Model:        "PWG Raster",
		Capabilities: Capabilities{
			DPI:           300,
			SupportsColor: true,

			DefaultSides:   pwg.OneSided,
			DefaultQuality: pwg.QualityDefault,
			MediaSource:    "auto",
		},
	},
	"mono": {
		Name:         "Generic Monochrome Laser",
		Manufacturer: "Generic",
		Model:        "Mono Laser",
		Capabilities: Capabilities{
			DPI:            600,
			SupportsColor:  false,
			SupportsDuplex: true,

			DefaultSides:   pwg.TwoSidedLongEdge,
			DefaultQuality: pwg.QualityNormal,
			MediaSource:    "tray-1",
			MediaType:      "stationery",
			MediaSize:      "iso_a4_210x297mm",

			PrintContentOptimize: "text",
		},
	},
	"draft": {
		Name:         "Draft Output",
		Manufacturer: "Generic",
		Model:        "Draft",
		Capabilities: Capabilities{
			DPI:           150,
			SupportsColor: false,

			DefaultSides:   pwg.OneSided,
			DefaultQuality: pwg.QualityDraft,
			MediaSource:    "auto",
		},
	},
	"duplex": {
		Name:         "Color Duplex Office",
		Manufacturer: "Generic",
		Model:        "Office Color",
		Capabilities: Capabilities{
			DPI:            300,
			SupportsColor:  true,
			SupportsDuplex: true,

			DefaultSides:   pwg.TwoSidedLongEdge,
			DefaultQuality: pwg.QualityHigh,
			MediaSource:    "auto",
			MediaSize:      "na_letter_8.5x11in",
		},
	},
	"photo": {
		Name:         "Photo Inkjet",
		Manufacturer: "Generic",
		Model:        "Photo",
		Capabilities: Capabilities{
			DPI:           600,
			SupportsColor: true,

			DefaultSides:   pwg.OneSided,
			DefaultQuality: pwg.QualityHigh,
			MediaSource:    "photo",
			MediaType:      "photographic-glossy",

			PrintContentOptimize: "photo",
		},
	},
}

// GetProfile returns a printer profile by name
func GetProfile(name string) (Profile, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))

	if profile, exists := profiles[normalizedName]; exists {
		return profile, nil
	}

	return Profile{}, fmt.Errorf("unknown printer profile '%s'. Available profiles: %v", name, ProfileNames())
}

// ListProfiles returns all available printer profiles
func ListProfiles() map[string]Profile {
	return profiles
}

// ProfileNames returns the profile keys in sorted order
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for key := range profiles {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}
