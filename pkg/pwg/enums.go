package pwg

import (
	"fmt"
	"strings"
)

// keyword pairs a wire value with its IPP keyword.
type keyword[T ~uint32] struct {
	value T
	name  string
}

// fromValue returns the table entry whose wire value is v, or fallback.
func fromValue[T ~uint32](table []keyword[T], v uint32, fallback T) T {
	for _, k := range table {
		if uint32(k.value) == v {
			return k.value
		}
	}
	return fallback
}

// fromKeyword returns the table entry named s, or fallback.
// Matching ignores case and surrounding whitespace.
func fromKeyword[T ~uint32](table []keyword[T], s string, fallback T) T {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range table {
		if k.name == s {
			return k.value
		}
	}
	return fallback
}

func nameOf[T ~uint32](table []keyword[T], v T) string {
	for _, k := range table {
		if k.value == v {
			return k.name
		}
	}
	return fmt.Sprintf("unknown(%d)", uint32(v))
}

// When identifies a point during printing at which the printer cuts or
// jogs the media.
type When uint32

const (
	Never         When = 0
	AfterDocument When = 1
	AfterJob      When = 2
	AfterSet      When = 3
	AfterPage     When = 4
)

var whenTable = []keyword[When]{
	{Never, "never"},
	{AfterDocument, "after-document"},
	{AfterJob, "after-job"},
	{AfterSet, "after-set"},
	{AfterPage, "after-page"},
}

// WhenFromValue maps a wire value to a When, falling back to Never.
func WhenFromValue(v uint32) When { return fromValue(whenTable, v, Never) }

// ParseWhen maps a keyword to a When, falling back to Never.
func ParseWhen(s string) When { return fromKeyword(whenTable, s, Never) }

func (w When) String() string { return nameOf(whenTable, w) }

// Edge is the edge of the sheet that enters the printer first.
type Edge uint32

const (
	ShortEdgeFirst Edge = 0
	LongEdgeFirst  Edge = 1
)

var edgeTable = []keyword[Edge]{
	{ShortEdgeFirst, "short-edge-first"},
	{LongEdgeFirst, "long-edge-first"},
}

// EdgeFromValue maps a wire value to an Edge, falling back to ShortEdgeFirst.
func EdgeFromValue(v uint32) Edge { return fromValue(edgeTable, v, ShortEdgeFirst) }

// ParseEdge maps a keyword to an Edge, falling back to ShortEdgeFirst.
func ParseEdge(s string) Edge { return fromKeyword(edgeTable, s, ShortEdgeFirst) }

func (e Edge) String() string { return nameOf(edgeTable, e) }

// Orientation is the output orientation of a page.
type Orientation uint32

const (
	Portrait         Orientation = 0
	Landscape        Orientation = 1
	ReversePortrait  Orientation = 2
	ReverseLandscape Orientation = 3
)

var orientationTable = []keyword[Orientation]{
	{Portrait, "portrait"},
	{Landscape, "landscape"},
	{ReversePortrait, "reverse-portrait"},
	{ReverseLandscape, "reverse-landscape"},
}

// OrientationFromValue maps a wire value to an Orientation, falling back to Portrait.
func OrientationFromValue(v uint32) Orientation {
	return fromValue(orientationTable, v, Portrait)
}

// ParseOrientation maps a keyword to an Orientation, falling back to Portrait.
func ParseOrientation(s string) Orientation {
	return fromKeyword(orientationTable, s, Portrait)
}

func (o Orientation) String() string { return nameOf(orientationTable, o) }

// ColorOrder describes how color channels are laid out. PWG raster only
// defines chunky pixels.
type ColorOrder uint32

const Chunky ColorOrder = 0

var colorOrderTable = []keyword[ColorOrder]{
	{Chunky, "chunky"},
}

// ColorOrderFromValue maps a wire value to a ColorOrder, falling back to Chunky.
func ColorOrderFromValue(v uint32) ColorOrder { return fromValue(colorOrderTable, v, Chunky) }

func (c ColorOrder) String() string { return nameOf(colorOrderTable, c) }

// ColorSpaceCode is the meaning of the color values of each pixel, as
// written to the header.
type ColorSpaceCode uint32

const (
	CodeRGB      ColorSpaceCode = 1
	CodeBlack    ColorSpaceCode = 3
	CodeCMYK     ColorSpaceCode = 6
	CodeSGray    ColorSpaceCode = 18
	CodeSRGB     ColorSpaceCode = 19
	CodeAdobeRGB ColorSpaceCode = 20
	CodeDevice1  ColorSpaceCode = 48
	CodeDevice15 ColorSpaceCode = 62
)

var colorSpaceCodeTable = func() []keyword[ColorSpaceCode] {
	t := []keyword[ColorSpaceCode]{
		{CodeRGB, "rgb"},
		{CodeBlack, "black"},
		{CodeCMYK, "cmyk"},
		{CodeSGray, "sgray"},
		{CodeSRGB, "srgb"},
		{CodeAdobeRGB, "adobe-rgb"},
	}
	for c := CodeDevice1; c <= CodeDevice15; c++ {
		t = append(t, keyword[ColorSpaceCode]{c, fmt.Sprintf("device%d", uint32(c-CodeDevice1+1))})
	}
	return t
}()

// ColorSpaceCodeFromValue maps a wire value to a ColorSpaceCode, falling back to CodeSRGB.
func ColorSpaceCodeFromValue(v uint32) ColorSpaceCode {
	return fromValue(colorSpaceCodeTable, v, CodeSRGB)
}

func (c ColorSpaceCode) String() string { return nameOf(colorSpaceCodeTable, c) }

// MediaPosition is the media input source.
type MediaPosition uint32

const (
	MediaAuto          MediaPosition = 0
	MediaMain          MediaPosition = 1
	MediaAlternate     MediaPosition = 2
	MediaLargeCapacity MediaPosition = 3
	MediaManual        MediaPosition = 4
	MediaEnvelope      MediaPosition = 5
	MediaDisc          MediaPosition = 6
	MediaPhoto         MediaPosition = 7
	MediaHagaki        MediaPosition = 8
	MediaMainRoll      MediaPosition = 9
	MediaAlternateRoll MediaPosition = 10
	MediaTop           MediaPosition = 11
	MediaMiddle        MediaPosition = 12
	MediaBottom        MediaPosition = 13
	MediaSide          MediaPosition = 14
	MediaLeft          MediaPosition = 15
	MediaRight         MediaPosition = 16
	MediaCenter        MediaPosition = 17
	MediaRear          MediaPosition = 18
	MediaByPassTray    MediaPosition = 19
	MediaTray1         MediaPosition = 20
	MediaTray20        MediaPosition = 39
	MediaRoll1         MediaPosition = 40
	MediaRoll10        MediaPosition = 49
)

var mediaPositionTable = func() []keyword[MediaPosition] {
	names := []string{
		"auto", "main", "alternate", "large-capacity", "manual", "envelope",
		"disc", "photo", "hagaki", "main-roll", "alternate-roll", "top",
		"middle", "bottom", "side", "left", "right", "center", "rear",
		"by-pass-tray",
	}
	t := make([]keyword[MediaPosition], 0, MediaRoll10+1)
	for i, name := range names {
		t = append(t, keyword[MediaPosition]{MediaPosition(i), name})
	}
	for p := MediaTray1; p <= MediaTray20; p++ {
		t = append(t, keyword[MediaPosition]{p, fmt.Sprintf("tray-%d", uint32(p-MediaTray1+1))})
	}
	for p := MediaRoll1; p <= MediaRoll10; p++ {
		t = append(t, keyword[MediaPosition]{p, fmt.Sprintf("roll-%d", uint32(p-MediaRoll1+1))})
	}
	return t
}()

// MediaPositionFromValue maps a wire value to a MediaPosition, falling back to MediaAuto.
func MediaPositionFromValue(v uint32) MediaPosition {
	return fromValue(mediaPositionTable, v, MediaAuto)
}

// ParseMediaSource maps an IPP media-source keyword such as "tray-2" to a
// MediaPosition, falling back to MediaAuto.
func ParseMediaSource(s string) MediaPosition {
	return fromKeyword(mediaPositionTable, s, MediaAuto)
}

func (m MediaPosition) String() string { return nameOf(mediaPositionTable, m) }

// PrintQuality is the requested output quality.
type PrintQuality uint32

const (
	QualityDefault PrintQuality = 0
	QualityDraft   PrintQuality = 3
	QualityNormal  PrintQuality = 4
	QualityHigh    PrintQuality = 5
)

var printQualityTable = []keyword[PrintQuality]{
	{QualityDefault, "default"},
	{QualityDraft, "draft"},
	{QualityNormal, "normal"},
	{QualityHigh, "high"},
}

// PrintQualityFromValue maps a wire value to a PrintQuality, falling back to QualityDefault.
func PrintQualityFromValue(v uint32) PrintQuality {
	return fromValue(printQualityTable, v, QualityDefault)
}

// ParsePrintQuality maps a keyword to a PrintQuality, falling back to QualityDefault.
func ParsePrintQuality(s string) PrintQuality {
	return fromKeyword(printQualityTable, s, QualityDefault)
}

func (q PrintQuality) String() string { return nameOf(printQualityTable, q) }
