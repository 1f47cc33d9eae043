package pwg

import "errors"

var (
	// ErrVendorDataTooLarge is returned when a header carries more than
	// MaxVendorDataSize bytes of vendor data.
	ErrVendorDataTooLarge = errors.New("vendor data exceeds 1088 bytes")

	// ErrInvalidSettings is returned for output settings that cannot
	// describe any page, such as a non-positive resolution.
	ErrInvalidSettings = errors.New("invalid output settings")

	// ErrInvalidGeometry is returned when a page or encoder has no
	// pixels per line or no bytes per pixel.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrShortRow is returned when a pixel source yields a partial row.
	ErrShortRow = errors.New("pixel source returned a partial row")

	// ErrUnknownMagic is returned when a stream does not start with the
	// PWG raster sync word.
	ErrUnknownMagic = errors.New("not a PWG raster stream")

	// ErrInvalidFormat is returned when decoding encounters values that
	// a conforming writer cannot produce.
	ErrInvalidFormat = errors.New("error in the format")

	// ErrBufferTooSmall is returned from ReadLine and ReadAll when the
	// destination cannot hold a line or a page.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrClosed is returned when writing to a closed Writer.
	ErrClosed = errors.New("writer is closed")
)
