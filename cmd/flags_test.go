package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func rasterCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRasterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func TestBuildOptionsLeavesPageSizeNameToConverter(t *testing.T) {
	tests := []struct {
		args  []string
		media string
	}{
		{[]string{"--profile", "mono"}, "iso_a4_210x297mm"},
		{[]string{"--profile", "duplex"}, "na_letter_8.5x11in"},
		{[]string{"--media", "letter"}, "letter"},
	}
	for _, tt := range tests {
		opts, err := buildOptions(rasterCommand(t, tt.args...))
		if err != nil {
			t.Fatalf("buildOptions(%v) error = %v", tt.args, err)
		}
		if opts.MediaSize != tt.media {
			t.Errorf("buildOptions(%v) media = %q, expected %q", tt.args, opts.MediaSize, tt.media)
		}

		// PDF pages keep their own size
		opts.MediaSize = ""
		h, err := opts.Settings.BuildHeader(2550, 3300)
		if err != nil {
			t.Fatalf("BuildHeader() error = %v", err)
		}
		if h.PageSizeName != "" {
			t.Errorf("buildOptions(%v): %dx%d pt page named %q", tt.args, h.PageSizeX, h.PageSizeY, h.PageSizeName)
		}
	}
}

func TestBuildOptionsUnknownMedia(t *testing.T) {
	if _, err := buildOptions(rasterCommand(t, "--media", "postcard-xl")); err == nil {
		t.Error("expected error for an unknown media size")
	}
}

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		path       string
		gzip       bool
		want       string
		compressed bool
	}{
		{"out.pwg", false, "out.pwg", false},
		{"out.pwg", true, "out.pwg.gz", true},
		{"out.pwg.gz", false, "out.pwg.gz", true},
		{"OUT.PWG.GZ", true, "OUT.PWG.GZ", true},
	}
	for _, tt := range tests {
		got, compressed := resolveOutputPath(tt.path, tt.gzip)
		if got != tt.want || compressed != tt.compressed {
			t.Errorf("resolveOutputPath(%q, %v) = %q, %v; expected %q, %v",
				tt.path, tt.gzip, got, compressed, tt.want, tt.compressed)
		}
		if err := validateOutputPath(got); err != nil {
			t.Errorf("validateOutputPath(%q) error = %v", got, err)
		}
	}
}
