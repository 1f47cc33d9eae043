package converter

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/alde/pdf2pwg/pkg/printer"
)

// ImageSource reads one page per image file
type ImageSource struct {
	paths []string
	media *printer.MediaSize
	dpi   int
}

// NewImageSource creates a source over image files. When mediaSize names
// a known size, every image is scaled to fit that size at dpi and centred
// on a white sheet.
func NewImageSource(paths []string, mediaSize string, dpi int) (*ImageSource, error) {
	source := &ImageSource{
		paths: paths,
		dpi:   dpi,
	}

	if mediaSize != "" {
		size, ok := printer.LookupMediaSize(mediaSize)
		if !ok {
			return nil, fmt.Errorf("unknown media size: %s (known sizes: %s)",
				mediaSize, strings.Join(printer.MediaSizeNames(), ", "))
		}
		source.media = &size
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to stat image: %w", err)
		}
	}
	return source, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

// Page decodes the image at index
func (s *ImageSource) Page(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("page index %d out of range (0-%d)", index, len(s.paths)-1)
	}

	img, err := openImage(s.paths[index])
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	if s.media != nil {
		img = s.fitToMedia(img)
	}
	return img, nil
}

// MediaName is the PWG name of the size every page is fitted to, or ""
// when images keep their own dimensions.
func (s *ImageSource) MediaName() string {
	if s.media == nil {
		return ""
	}
	return s.media.Name
}

// fitToMedia scales img to fit the media size and centres it on white
func (s *ImageSource) fitToMedia(img image.Image) image.Image {
	width, height := s.media.PixelSize(s.dpi)
	fitted := imaging.Fit(img, width, height, imaging.Lanczos)
	sheet := imaging.New(width, height, color.White)
	return imaging.PasteCenter(sheet, fitted)
}

// openImage decodes an image file, honouring EXIF orientation
func openImage(path string) (image.Image, error) {
	if strings.ToLower(filepath.Ext(path)) == ".webp" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return webp.Decode(f)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// GetFileSize returns the combined size of the image files in bytes
func (s *ImageSource) GetFileSize() int64 {
	var total int64
	for _, path := range s.paths {
		if stat, err := os.Stat(path); err == nil {
			total += stat.Size()
		}
	}
	return total
}

func (s *ImageSource) Close() error {
	return nil
}
