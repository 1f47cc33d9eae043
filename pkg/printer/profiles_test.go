package printer

import (
	"strings"
	"testing"

	"github.com/alde/pdf2pwg/pkg/pwg"
)

func TestGetProfile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"generic", false},
		{"MONO", false},
		{" draft ", false},
		{"duplex", false},
		{"photo", false},
		{"laserjet-9000", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			profile, err := GetProfile(test.name)
			if test.wantErr {
				if err == nil {
					t.Fatal("expected an error for an unknown profile")
				}
				if !strings.Contains(err.Error(), "generic") {
					t.Errorf("error should list available profiles, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetProfile(%q) error = %v", test.name, err)
			}
			if profile.Capabilities.DPI <= 0 {
				t.Errorf("profile %q has no resolution", test.name)
			}
		})
	}
}

func TestProfileOutputSettings(t *testing.T) {
	mono, _ := GetProfile("mono")
	settings := mono.OutputSettings()

	if settings.ColorSpace != pwg.Grayscale {
		t.Errorf("mono profile color space = %s, expected grayscale", settings.ColorSpace)
	}
	if settings.DPI != 600 {
		t.Errorf("mono profile dpi = %d, expected 600", settings.DPI)
	}
	if settings.Sides != pwg.TwoSidedLongEdge {
		t.Errorf("mono profile sides = %s, expected two-sided-long-edge", settings.Sides)
	}
	if settings.Source != "tray-1" {
		t.Errorf("mono profile source = %q, expected tray-1", settings.Source)
	}
	if settings.PageSizeName != "" {
		t.Errorf("profile settings should not name a page size, got %q", settings.PageSizeName)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("profile settings should be valid: %v", err)
	}

	generic, _ := GetProfile("generic")
	settings = generic.OutputSettings()
	if settings.ColorSpace != pwg.RGB || settings.Sides != pwg.OneSided || settings.Source != "auto" {
		t.Errorf("generic profile settings = %+v", settings)
	}
}

func TestSimplexProfileIgnoresSides(t *testing.T) {
	profile := Profile{Capabilities: Capabilities{DPI: 300, DefaultSides: pwg.TwoSidedShortEdge}}
	if sides := profile.OutputSettings().Sides; sides != pwg.OneSided {
		t.Errorf("printer without duplex got sides %s", sides)
	}
}

func TestProfileNamesSorted(t *testing.T) {
	names := ProfileNames()
	if len(names) != len(ListProfiles()) {
		t.Fatalf("ProfileNames() returned %d names for %d profiles", len(names), len(ListProfiles()))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
