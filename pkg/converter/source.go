package converter

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// PageSource produces decoded page images by zero-based index
type PageSource interface {
	PageCount() int
	Page(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// SourceKind tells how input files are turned into pages
type SourceKind int

const (
	SourcePDF SourceKind = iota
	SourceImages
)

func (k SourceKind) String() string {
	switch k {
	case SourcePDF:
		return "pdf"
	case SourceImages:
		return "images"
	default:
		return "unknown"
	}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DetectSourceKind decides the source kind from the input file extensions
func DetectSourceKind(paths []string) (SourceKind, error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("no input files")
	}

	if len(paths) == 1 && strings.ToLower(filepath.Ext(paths[0])) == ".pdf" {
		return SourcePDF, nil
	}

	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".pdf" {
			return 0, fmt.Errorf("only one PDF can be converted at a time, got %d inputs", len(paths))
		}
		if !imageExtensions[ext] {
			return 0, fmt.Errorf("unsupported input format: %s", ext)
		}
	}
	return SourceImages, nil
}

// openSource opens the page source described by opts
func openSource(opts Options) (PageSource, error) {
	kind, err := DetectSourceKind(opts.InputPaths)
	if err != nil {
		return nil, err
	}

	switch kind {
	case SourcePDF:
		return NewPDFSource(opts.InputPaths[0], opts.Settings.DPI, opts.PDFPool)
	default:
		return NewImageSource(opts.InputPaths, opts.MediaSize, opts.Settings.DPI)
	}
}

// compile-time checks
var (
	_ PageSource = (*PDFSource)(nil)
	_ PageSource = (*ImageSource)(nil)
)
