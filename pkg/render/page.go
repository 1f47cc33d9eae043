// Package render turns decoded page images into the raw pixel bytes
// that pwg.Writer packs into a raster stream.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/alde/pdf2pwg/pkg/pwg"
)

// ErrRowRange is returned when a requested row window lies outside the page.
var ErrRowRange = errors.New("rows outside of page")

// Luminance weights used for grayscale output.
const (
	redWeight   = 0.2126
	greenWeight = 0.7512
	blueWeight  = 0.0722
)

// Page exposes an image as rows of pixel bytes. It implements pwg.Renderer.
type Page struct {
	img    image.Image
	bounds image.Rectangle
}

// NewPage wraps img. The page geometry is fixed to the bounds of img.
func NewPage(img image.Image) *Page {
	return &Page{img: img, bounds: img.Bounds()}
}

func (p *Page) Width() int  { return p.bounds.Dx() }
func (p *Page) Height() int { return p.bounds.Dy() }

// RenderSize returns the number of bytes needed to render rows lines.
func (p *Page) RenderSize(rows int, cs pwg.ColorSpace) int {
	return p.Width() * cs.BytesPerPixel() * rows
}

// Render writes rows lines starting at yOffset into dst. RGB pixels are
// written as red, green, blue; grayscale pixels as one luminance byte.
// Translucent pixels are composited over white paper.
func (p *Page) Render(yOffset, rows int, cs pwg.ColorSpace, dst []byte) error {
	if yOffset < 0 || rows < 0 || yOffset+rows > p.Height() {
		return fmt.Errorf("%w: %d+%d of %d", ErrRowRange, yOffset, rows, p.Height())
	}
	if need := p.RenderSize(rows, cs); len(dst) < need {
		return fmt.Errorf("render buffer is %d bytes, need %d", len(dst), need)
	}

	pixel := p.pixelFunc()
	gray := cs == pwg.Grayscale
	i := 0
	for y := p.bounds.Min.Y + yOffset; y < p.bounds.Min.Y+yOffset+rows; y++ {
		for x := p.bounds.Min.X; x < p.bounds.Max.X; x++ {
			r, g, b := pixel(x, y)
			if gray {
				dst[i] = luminance(r, g, b)
				i++
			} else {
				dst[i], dst[i+1], dst[i+2] = r, g, b
				i += 3
			}
		}
	}
	return nil
}

// pixelFunc returns an 8-bit RGB accessor over white for the image type.
func (p *Page) pixelFunc() func(x, y int) (r, g, b uint8) {
	switch img := p.img.(type) {
	case *image.RGBA:
		return func(x, y int) (uint8, uint8, uint8) {
			s := img.Pix[img.PixOffset(x, y):]
			bg := 0xff - s[3]
			return s[0] + bg, s[1] + bg, s[2] + bg
		}
	case *image.NRGBA:
		return func(x, y int) (uint8, uint8, uint8) {
			s := img.Pix[img.PixOffset(x, y):]
			return overWhite8(s[0], s[3]), overWhite8(s[1], s[3]), overWhite8(s[2], s[3])
		}
	case *image.Gray:
		return func(x, y int) (uint8, uint8, uint8) {
			v := img.Pix[img.PixOffset(x, y)]
			return v, v, v
		}
	default:
		return func(x, y int) (uint8, uint8, uint8) {
			r, g, b, a := img.At(x, y).RGBA()
			bg := 0xffff - a
			return uint8((r + bg) >> 8), uint8((g + bg) >> 8), uint8((b + bg) >> 8)
		}
	}
}

// overWhite8 composites a non-premultiplied channel over white.
func overWhite8(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 0xff*(0xff-uint32(a)) + 0x7f) / 0xff)
}

// luminance truncates the weighted sum to a byte, saturating at white.
func luminance(r, g, b uint8) uint8 {
	v := redWeight*float64(r) + greenWeight*float64(g) + blueWeight*float64(b)
	if v >= 0xff {
		return 0xff
	}
	return uint8(v)
}
