package converter

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/alde/pdf2pwg/pkg/printer"
	"github.com/alde/pdf2pwg/pkg/pwg"
)

func testOptions(t *testing.T, inputs []string, output string) Options {
	t.Helper()
	profile, err := printer.GetProfile("generic")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	return Options{
		InputPaths: inputs,
		OutputPath: output,
		Profile:    profile,
		Settings:   profile.OutputSettings(),
		Output:     io.Discard,
	}
}

func readPages(t *testing.T, r io.Reader) ([]*pwg.PageHeader, [][]byte) {
	t.Helper()
	dec, err := pwg.NewDecoder(r)
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	var headers []*pwg.PageHeader
	var pixels [][]byte
	for {
		page, err := dec.NextPage()
		if err == io.EOF {
			return headers, pixels
		}
		if err != nil {
			t.Fatalf("NextPage() error = %v", err)
		}
		buf := make([]byte, page.Size())
		if err := page.ReadAll(buf); err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		headers = append(headers, page.Header)
		pixels = append(pixels, buf)
	}
}

func TestNew(t *testing.T) {
	conv := New(Options{InputPaths: []string{"a.png"}, OutputPath: "a.pwg"})
	if conv.options.Output == nil {
		t.Error("New() should default the output writer")
	}
	if conv.startTime.IsZero() {
		t.Error("New() should record the start time")
	}
}

func TestConvertImages(t *testing.T) {
	dir := t.TempDir()
	black := filepath.Join(dir, "black.png")
	white := filepath.Join(dir, "white.png")
	writeTestPNG(t, black, 4, 3, color.Black)
	writeTestPNG(t, white, 2, 2, color.White)

	output := filepath.Join(dir, "out.pwg")
	opts := testOptions(t, []string{black, white}, output)
	opts.Settings.ColorSpace = pwg.Grayscale
	opts.Settings.DPI = 72

	conv := New(opts)
	if err := conv.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	defer f.Close()
	headers, pixels := readPages(t, f)

	if len(headers) != 2 {
		t.Fatalf("got %d pages, expected 2", len(headers))
	}
	if headers[0].Width != 4 || headers[0].Height != 3 {
		t.Errorf("page 1 is %dx%d, expected 4x3", headers[0].Width, headers[0].Height)
	}
	if headers[1].TotalPageCount != 2 {
		t.Errorf("total page count = %d, expected 2", headers[1].TotalPageCount)
	}
	if !bytes.Equal(pixels[0], make([]byte, 12)) {
		t.Errorf("black page pixels = %v", pixels[0])
	}
	if !bytes.Equal(pixels[1], bytes.Repeat([]byte{255}, 4)) {
		t.Errorf("white page pixels = %v", pixels[1])
	}

	stats := conv.GetStats()
	if stats.ProcessedPages != 2 || stats.PageCount != 2 {
		t.Errorf("stats = %+v, expected 2 pages", stats)
	}
	if stats.RasterBytes != 16 {
		t.Errorf("raster bytes = %d, expected 16", stats.RasterBytes)
	}
	if stats.OutputFileSize == 0 || stats.InputFileSize == 0 {
		t.Errorf("file sizes should be recorded: %+v", stats)
	}
}

func TestConvertPageRange(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		path := filepath.Join(dir, name)
		writeTestPNG(t, path, i+1, 1, color.Black)
		inputs = append(inputs, path)
	}

	output := filepath.Join(dir, "range.pwg")
	opts := testOptions(t, inputs, output)
	opts.PageRange = "1,3"

	if err := New(opts).Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	f, _ := os.Open(output)
	defer f.Close()
	headers, _ := readPages(t, f)
	if len(headers) != 2 || headers[0].Width != 1 || headers[1].Width != 3 {
		t.Errorf("expected pages 1 and 3, got %d pages", len(headers))
	}

	opts.PageRange = "4"
	if err := New(opts).Convert(context.Background()); err == nil {
		t.Error("expected error for a page beyond the end")
	}
}

func TestConvertGzip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.png")
	writeTestPNG(t, input, 5, 5, color.RGBA{255, 0, 0, 255})

	output := filepath.Join(dir, "out.pwg.gz")
	opts := testOptions(t, []string{input}, output)
	opts.Gzip = true

	if err := New(opts).Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not gzip: %v", err)
	}
	headers, pixels := readPages(t, gz)
	if len(headers) != 1 {
		t.Fatalf("got %d pages, expected 1", len(headers))
	}
	if !bytes.Equal(pixels[0], bytes.Repeat([]byte{255, 0, 0}, 25)) {
		t.Error("red page did not survive the round trip")
	}
}

func TestConvertRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.png")
	writeTestPNG(t, input, 2, 2, color.Black)

	output := filepath.Join(dir, "cancelled.pwg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(testOptions(t, []string{input}, output)).Convert(ctx)
	if err == nil {
		t.Fatal("expected error on a cancelled context")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("partial output should be removed")
	}
}

func TestConvertInvalidSettings(t *testing.T) {
	opts := testOptions(t, []string{"a.png"}, "a.pwg")
	opts.Settings.DPI = 0
	err := New(opts).Convert(context.Background())
	if err == nil || !strings.Contains(err.Error(), "initialization failed") {
		t.Errorf("expected initialization error, got %v", err)
	}
}

func TestDisplayResults(t *testing.T) {
	var out bytes.Buffer
	conv := New(Options{InputPaths: []string{"/tmp/in.pdf"}, OutputPath: "/tmp/out.pwg", Output: &out})
	conv.stats = ConversionStats{
		InputFileSize:    2048,
		OutputFileSize:   512,
		ProcessedPages:   1200,
		RasterBytes:      4096,
		CompressionRatio: 0.125,
	}
	conv.displayResults()

	for _, want := range []string{"in.pdf (2.0 kB)", "out.pwg (512 B)", "87.5% size reduction", "1,200 written"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestConvertPageSizeName(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	writeTestPNG(t, input, 40, 30, color.Black)

	tests := []struct {
		name      string
		mediaSize string
		want      string
	}{
		{"fitted", "iso_a5_148x210mm", "iso_a5_148x210mm"},
		{"own size", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".pwg")
			opts := testOptions(t, []string{input}, output)
			opts.Settings.DPI = 72
			opts.Settings.PageSizeName = "na_legal_8.5x14in"
			opts.MediaSize = tt.mediaSize

			if err := New(opts).Convert(context.Background()); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			f, err := os.Open(output)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			defer f.Close()
			headers, _ := readPages(t, f)

			h := headers[0]
			if h.PageSizeName != tt.want {
				t.Errorf("page size name = %q, expected %q", h.PageSizeName, tt.want)
			}
			if tt.want == "" {
				if h.PageSizeX != 40 || h.PageSizeY != 30 {
					t.Errorf("page size = %dx%d pt, expected 40x30", h.PageSizeX, h.PageSizeY)
				}
				return
			}
			size, _ := printer.LookupMediaSize(tt.want)
			width, height := size.PixelSize(72)
			if h.Width != uint32(width) || h.Height != uint32(height) {
				t.Errorf("page is %dx%d px, expected %dx%d", h.Width, h.Height, width, height)
			}
		})
	}
}
