package pwg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic is the sync word written once at the start of a stream.
	Magic = "RaS2"

	// HeaderSize is the size of a serialized page header in octets.
	HeaderSize = 1796

	// MaxVendorDataSize is the largest vendor data payload a header holds.
	MaxVendorDataSize = 1088

	// White is the default alternate primary, a 24-bit sRGB value.
	White = 0xFFFFFF

	rasterName    = "PwgRaster"
	cstringLength = 64
)

// PageHeader holds all elements of a PWG raster page header as described
// in section 4.3 of PWG 5102.4. A header describes exactly one page.
type PageHeader struct {
	MediaColor           string
	MediaType            string
	PrintContentOptimize string
	CutMedia             When
	// Duplex is true when printing two-sided.
	Duplex            bool
	HWResolutionX     uint32
	HWResolutionY     uint32
	InsertSheet       bool
	Jog               When
	LeadingEdge       Edge
	MediaPosition     MediaPosition
	MediaWeightMetric uint32
	NumCopies         uint32
	Orientation       Orientation
	// PageSizeX and PageSizeY are the media size in points.
	PageSizeX uint32
	PageSizeY uint32
	// Tumble is true when two-sided printing flips along the short edge.
	Tumble bool
	// Width and Height are the full-bleed page size in pixels.
	Width              uint32
	Height             uint32
	BitsPerColor       uint32
	BitsPerPixel       uint32
	ColorOrder         ColorOrder
	ColorSpace         ColorSpaceCode
	TotalPageCount     uint32
	CrossFeedTransform uint32
	FeedTransform      uint32
	// The image box is the non-blank area of the page in pixels, if known.
	ImageBoxLeft   uint32
	ImageBoxTop    uint32
	ImageBoxRight  uint32
	ImageBoxBottom uint32
	// AlternatePrimary is a 24-bit sRGB color.
	AlternatePrimary uint32
	PrintQuality     PrintQuality
	// VendorIdentifier is a USB vendor identification number or 0.
	VendorIdentifier uint32
	VendorData       []byte
	RenderingIntent  string
	PageSizeName     string
}

// NewPageHeader validates h and returns a copy of it.
func NewPageHeader(h PageHeader) (*PageHeader, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	h.VendorData = append([]byte(nil), h.VendorData...)
	return &h, nil
}

func (h *PageHeader) validate() error {
	if len(h.VendorData) > MaxVendorDataSize {
		return fmt.Errorf("%w: got %d bytes", ErrVendorDataTooLarge, len(h.VendorData))
	}
	return nil
}

// BytesPerLine is the number of bytes in one line of pixels.
func (h *PageHeader) BytesPerLine() uint32 {
	return uint32((uint64(h.BitsPerPixel)*uint64(h.Width) + 7) / 8)
}

// NumColors is the number of color channels of a pixel.
func (h *PageHeader) NumColors() uint32 {
	if h.BitsPerColor == 0 {
		return 0
	}
	return h.BitsPerPixel / h.BitsPerColor
}

// BytesPerPixel is the number of whole bytes used by one pixel.
func (h *PageHeader) BytesPerPixel() int {
	return int(h.BitsPerPixel / 8)
}

type regionKind int

const (
	kindReserved regionKind = iota
	kindString
	kindUint
	kindVendorLength
	kindVendorData
)

// region is one span of the serialized header.
type region struct {
	name   string
	offset int
	size   int
	kind   regionKind
	str    func(h *PageHeader) *string
	get    func(h *PageHeader) uint32
	set    func(h *PageHeader, v uint32)
}

// layout tiles the whole header in wire order. Both MarshalBinary and
// ParseHeader walk it; offsets are assigned by buildLayout. Enum getters
// map undefined values to their fallback, so a hand-built header encodes
// the same way it would decode.
var layout = buildLayout([]region{
	{name: "PwgRaster", size: cstringLength, kind: kindString},
	strField("MediaColor", func(h *PageHeader) *string { return &h.MediaColor }),
	strField("MediaType", func(h *PageHeader) *string { return &h.MediaType }),
	strField("PrintContentOptimize", func(h *PageHeader) *string { return &h.PrintContentOptimize }),
	reserved(12),
	uintField("CutMedia",
		func(h *PageHeader) uint32 { return uint32(WhenFromValue(uint32(h.CutMedia))) },
		func(h *PageHeader, v uint32) { h.CutMedia = WhenFromValue(v) }),
	boolField("Duplex",
		func(h *PageHeader) bool { return h.Duplex },
		func(h *PageHeader, v bool) { h.Duplex = v }),
	uintField("HWResolutionX",
		func(h *PageHeader) uint32 { return h.HWResolutionX },
		func(h *PageHeader, v uint32) { h.HWResolutionX = v }),
	uintField("HWResolutionY",
		func(h *PageHeader) uint32 { return h.HWResolutionY },
		func(h *PageHeader, v uint32) { h.HWResolutionY = v }),
	reserved(16),
	boolField("InsertSheet",
		func(h *PageHeader) bool { return h.InsertSheet },
		func(h *PageHeader, v bool) { h.InsertSheet = v }),
	uintField("Jog",
		func(h *PageHeader) uint32 { return uint32(WhenFromValue(uint32(h.Jog))) },
		func(h *PageHeader, v uint32) { h.Jog = WhenFromValue(v) }),
	uintField("LeadingEdge",
		func(h *PageHeader) uint32 { return uint32(EdgeFromValue(uint32(h.LeadingEdge))) },
		func(h *PageHeader, v uint32) { h.LeadingEdge = EdgeFromValue(v) }),
	reserved(12),
	uintField("MediaPosition",
		func(h *PageHeader) uint32 { return uint32(MediaPositionFromValue(uint32(h.MediaPosition))) },
		func(h *PageHeader, v uint32) { h.MediaPosition = MediaPositionFromValue(v) }),
	uintField("MediaWeightMetric",
		func(h *PageHeader) uint32 { return h.MediaWeightMetric },
		func(h *PageHeader, v uint32) { h.MediaWeightMetric = v }),
	reserved(8),
	uintField("NumCopies",
		func(h *PageHeader) uint32 { return h.NumCopies },
		func(h *PageHeader, v uint32) { h.NumCopies = v }),
	uintField("Orientation",
		func(h *PageHeader) uint32 { return uint32(OrientationFromValue(uint32(h.Orientation))) },
		func(h *PageHeader, v uint32) { h.Orientation = OrientationFromValue(v) }),
	reserved(4),
	uintField("PageSizeX",
		func(h *PageHeader) uint32 { return h.PageSizeX },
		func(h *PageHeader, v uint32) { h.PageSizeX = v }),
	uintField("PageSizeY",
		func(h *PageHeader) uint32 { return h.PageSizeY },
		func(h *PageHeader, v uint32) { h.PageSizeY = v }),
	reserved(8),
	boolField("Tumble",
		func(h *PageHeader) bool { return h.Tumble },
		func(h *PageHeader, v bool) { h.Tumble = v }),
	uintField("Width",
		func(h *PageHeader) uint32 { return h.Width },
		func(h *PageHeader, v uint32) { h.Width = v }),
	uintField("Height",
		func(h *PageHeader) uint32 { return h.Height },
		func(h *PageHeader, v uint32) { h.Height = v }),
	reserved(4),
	uintField("BitsPerColor",
		func(h *PageHeader) uint32 { return h.BitsPerColor },
		func(h *PageHeader, v uint32) { h.BitsPerColor = v }),
	uintField("BitsPerPixel",
		func(h *PageHeader) uint32 { return h.BitsPerPixel },
		func(h *PageHeader, v uint32) { h.BitsPerPixel = v }),
	uintField("BytesPerLine", (*PageHeader).BytesPerLine, nil),
	uintField("ColorOrder",
		func(h *PageHeader) uint32 { return uint32(ColorOrderFromValue(uint32(h.ColorOrder))) },
		func(h *PageHeader, v uint32) { h.ColorOrder = ColorOrderFromValue(v) }),
	uintField("ColorSpace",
		func(h *PageHeader) uint32 { return uint32(ColorSpaceCodeFromValue(uint32(h.ColorSpace))) },
		func(h *PageHeader, v uint32) { h.ColorSpace = ColorSpaceCodeFromValue(v) }),
	reserved(16),
	// Version 2 fields start here.
	uintField("NumColors", (*PageHeader).NumColors, nil),
	reserved(28),
	uintField("TotalPageCount",
		func(h *PageHeader) uint32 { return h.TotalPageCount },
		func(h *PageHeader, v uint32) { h.TotalPageCount = v }),
	uintField("CrossFeedTransform",
		func(h *PageHeader) uint32 { return h.CrossFeedTransform },
		func(h *PageHeader, v uint32) { h.CrossFeedTransform = v }),
	uintField("FeedTransform",
		func(h *PageHeader) uint32 { return h.FeedTransform },
		func(h *PageHeader, v uint32) { h.FeedTransform = v }),
	uintField("ImageBoxLeft",
		func(h *PageHeader) uint32 { return h.ImageBoxLeft },
		func(h *PageHeader, v uint32) { h.ImageBoxLeft = v }),
	uintField("ImageBoxTop",
		func(h *PageHeader) uint32 { return h.ImageBoxTop },
		func(h *PageHeader, v uint32) { h.ImageBoxTop = v }),
	uintField("ImageBoxRight",
		func(h *PageHeader) uint32 { return h.ImageBoxRight },
		func(h *PageHeader, v uint32) { h.ImageBoxRight = v }),
	uintField("ImageBoxBottom",
		func(h *PageHeader) uint32 { return h.ImageBoxBottom },
		func(h *PageHeader, v uint32) { h.ImageBoxBottom = v }),
	uintField("AlternatePrimary",
		func(h *PageHeader) uint32 { return h.AlternatePrimary },
		func(h *PageHeader, v uint32) { h.AlternatePrimary = v }),
	uintField("PrintQuality",
		func(h *PageHeader) uint32 { return uint32(PrintQualityFromValue(uint32(h.PrintQuality))) },
		func(h *PageHeader, v uint32) { h.PrintQuality = PrintQualityFromValue(v) }),
	reserved(20),
	uintField("VendorIdentifier",
		func(h *PageHeader) uint32 { return h.VendorIdentifier },
		func(h *PageHeader, v uint32) { h.VendorIdentifier = v }),
	{name: "VendorLength", size: 4, kind: kindVendorLength},
	{name: "VendorData", size: MaxVendorDataSize, kind: kindVendorData},
	reserved(64),
	strField("RenderingIntent", func(h *PageHeader) *string { return &h.RenderingIntent }),
	strField("PageSizeName", func(h *PageHeader) *string { return &h.PageSizeName }),
})

func buildLayout(regions []region) []region {
	offset := 0
	for i := range regions {
		regions[i].offset = offset
		offset += regions[i].size
	}
	if offset != HeaderSize {
		panic(fmt.Sprintf("pwg: header layout is %d bytes, want %d", offset, HeaderSize))
	}
	return regions
}

func reserved(size int) region {
	return region{name: "reserved", size: size, kind: kindReserved}
}

func strField(name string, str func(h *PageHeader) *string) region {
	return region{name: name, size: cstringLength, kind: kindString, str: str}
}

func uintField(name string, get func(h *PageHeader) uint32, set func(h *PageHeader, v uint32)) region {
	return region{name: name, size: 4, kind: kindUint, get: get, set: set}
}

// boolField encodes a boolean as a four byte integer, 0 or 1.
func boolField(name string, get func(h *PageHeader) bool, set func(h *PageHeader, v bool)) region {
	return uintField(name,
		func(h *PageHeader) uint32 {
			if get(h) {
				return 1
			}
			return 0
		},
		func(h *PageHeader, v uint32) { set(h, v != 0) })
}

// MarshalBinary encodes the header into exactly HeaderSize bytes.
func (h *PageHeader) MarshalBinary() ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	// A fresh buffer keeps every reserved region and string tail zero.
	b := make([]byte, HeaderSize)
	for _, r := range layout {
		dst := b[r.offset : r.offset+r.size]
		switch r.kind {
		case kindString:
			s := rasterName
			if r.str != nil {
				s = *r.str(h)
			}
			copy(dst, s)
		case kindUint:
			binary.BigEndian.PutUint32(dst, r.get(h))
		case kindVendorLength:
			binary.BigEndian.PutUint32(dst, uint32(len(h.VendorData)))
		case kindVendorData:
			copy(dst, h.VendorData)
		}
	}
	return b, nil
}

// WriteTo writes the encoded header to w.
func (h *PageHeader) WriteTo(w io.Writer) (int64, error) {
	b, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// UnmarshalBinary decodes a header produced by MarshalBinary.
func (h *PageHeader) UnmarshalBinary(b []byte) error {
	if len(b) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidFormat, len(b), HeaderSize)
	}
	var out PageHeader
	var bytesPerLine, numColors uint32
	for _, r := range layout {
		src := b[r.offset : r.offset+r.size]
		switch r.kind {
		case kindString:
			if r.str != nil {
				*r.str(&out) = cstring(src)
			}
		case kindUint:
			v := binary.BigEndian.Uint32(src)
			switch {
			case r.set != nil:
				r.set(&out, v)
			case r.name == "BytesPerLine":
				bytesPerLine = v
			case r.name == "NumColors":
				numColors = v
			}
		case kindVendorLength:
			n := binary.BigEndian.Uint32(src)
			if n > MaxVendorDataSize {
				return fmt.Errorf("%w: vendor length %d", ErrInvalidFormat, n)
			}
			out.VendorData = make([]byte, n)
		case kindVendorData:
			copy(out.VendorData, src)
		}
	}
	if bytesPerLine != out.BytesPerLine() {
		return fmt.Errorf("%w: bytes per line %d, want %d", ErrInvalidFormat, bytesPerLine, out.BytesPerLine())
	}
	if numColors != out.NumColors() {
		return fmt.Errorf("%w: color count %d, want %d", ErrInvalidFormat, numColors, out.NumColors())
	}
	*h = out
	return nil
}

// ParseHeader decodes a serialized header.
func ParseHeader(b []byte) (*PageHeader, error) {
	h := new(PageHeader)
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return h, nil
}

func cstring(b []byte) string {
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		b = b[:idx]
	}
	return string(b)
}
