package pwg

import "fmt"

const (
	pointsPerInch = 72
	bitsPerByte   = 8
)

// ColorSpace identifies how each pixel of image data is encoded.
type ColorSpace int

const (
	// RGB uses three bytes per pixel: red, green, blue.
	RGB ColorSpace = iota
	// Grayscale uses one byte per pixel, 0x00 black to 0xFF white.
	Grayscale
)

// BytesPerPixel is the number of bytes used by one pixel.
func (c ColorSpace) BytesPerPixel() int {
	if c == Grayscale {
		return 1
	}
	return 3
}

// Code is the header color space written for pixels in c.
func (c ColorSpace) Code() ColorSpaceCode {
	if c == Grayscale {
		return CodeSGray
	}
	return CodeSRGB
}

func (c ColorSpace) String() string {
	if c == Grayscale {
		return "grayscale"
	}
	return "rgb"
}

// Sides is the IPP sides attribute.
type Sides uint32

const (
	OneSided Sides = iota
	TwoSidedLongEdge
	TwoSidedShortEdge
)

var sidesTable = []keyword[Sides]{
	{OneSided, "one-sided"},
	{TwoSidedLongEdge, "two-sided-long-edge"},
	{TwoSidedShortEdge, "two-sided-short-edge"},
}

// ParseSides maps an IPP sides keyword to Sides, falling back to OneSided.
func ParseSides(s string) Sides { return fromKeyword(sidesTable, s, OneSided) }

func (s Sides) String() string { return nameOf(sidesTable, s) }

// OutputSettings describe the whole output stream. Color space and
// resolution are shared by every page.
type OutputSettings struct {
	ColorSpace ColorSpace
	Sides      Sides
	// DPI is used for both the horizontal and vertical resolution.
	DPI int
	// Source is an IPP media-source keyword such as "auto" or "tray-1".
	Source      string
	Quality     PrintQuality
	Orientation Orientation
	// PageCount is the total number of pages in the stream, or 0 if unknown.
	PageCount int
	Copies    int

	MediaType            string
	MediaColor           string
	PrintContentOptimize string
	RenderingIntent      string
	PageSizeName         string

	VendorIdentifier uint32
	VendorData       []byte
}

// DefaultOutputSettings returns one-sided 300 dpi RGB output from the
// automatic media source.
func DefaultOutputSettings() OutputSettings {
	return OutputSettings{
		ColorSpace: RGB,
		Sides:      OneSided,
		DPI:        300,
		Source:     "auto",
	}
}

// Validate reports settings that cannot produce a valid header.
func (s OutputSettings) Validate() error {
	if s.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalidSettings, s.DPI)
	}
	if s.PageCount < 0 || s.Copies < 0 {
		return fmt.Errorf("%w: page and copy counts must not be negative", ErrInvalidSettings)
	}
	if len(s.VendorData) > MaxVendorDataSize {
		return fmt.Errorf("%w: got %d bytes", ErrVendorDataTooLarge, len(s.VendorData))
	}
	return nil
}

// BuildHeader returns the header of a page that is width by height pixels.
func (s OutputSettings) BuildHeader(width, height int) (*PageHeader, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrInvalidGeometry, width, height)
	}
	dpi := uint32(s.DPI)
	sides := fromValue(sidesTable, uint32(s.Sides), OneSided)
	return NewPageHeader(PageHeader{
		MediaColor:           s.MediaColor,
		MediaType:            s.MediaType,
		PrintContentOptimize: s.PrintContentOptimize,
		Duplex:               sides != OneSided,
		HWResolutionX:        dpi,
		HWResolutionY:        dpi,
		MediaPosition:        ParseMediaSource(s.Source),
		NumCopies:            uint32(s.Copies),
		Orientation:          OrientationFromValue(uint32(s.Orientation)),
		PageSizeX:            uint32(width) * pointsPerInch / dpi,
		PageSizeY:            uint32(height) * pointsPerInch / dpi,
		Tumble:               sides == TwoSidedShortEdge,
		Width:                uint32(width),
		Height:               uint32(height),
		BitsPerColor:         bitsPerByte,
		BitsPerPixel:         uint32(s.ColorSpace.BytesPerPixel() * bitsPerByte),
		ColorOrder:           Chunky,
		ColorSpace:           s.ColorSpace.Code(),
		TotalPageCount:       uint32(s.PageCount),
		CrossFeedTransform:   1,
		FeedTransform:        1,
		AlternatePrimary:     White,
		PrintQuality:         PrintQualityFromValue(uint32(s.Quality)),
		VendorIdentifier:     s.VendorIdentifier,
		VendorData:           s.VendorData,
		RenderingIntent:      s.RenderingIntent,
		PageSizeName:         s.PageSizeName,
	})
}
