package pwg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// maxGroup is the largest number of pixels in one pixel group.
	maxGroup = 128
	// maxLineRepeat is the largest number of identical lines folded into
	// one encoded line.
	maxLineRepeat = 256
	// nonRepeatBase is subtracted from the pixel count of a literal group.
	nonRepeatBase = 257
)

// Encoder packs lines of pixels with the PackBits variant used by PWG
// raster: identical consecutive lines are folded into a repeat count,
// and each line is split into repeating and non-repeating pixel groups.
type Encoder struct {
	bytesPerPixel int
	pixelsPerLine int
}

// NewEncoder returns an encoder for lines of pixelsPerLine pixels, each
// bytesPerPixel bytes wide.
func NewEncoder(bytesPerPixel, pixelsPerLine int) *Encoder {
	return &Encoder{bytesPerPixel: bytesPerPixel, pixelsPerLine: pixelsPerLine}
}

// Encode reads whole lines from r until it is exhausted and writes the
// packed bytes to w. Input that ends in the middle of a line yields
// ErrShortRow.
func (e *Encoder) Encode(r io.Reader, w io.Writer) error {
	if e.bytesPerPixel <= 0 || e.pixelsPerLine <= 0 {
		return fmt.Errorf("%w: %d pixels of %d bytes", ErrInvalidGeometry, e.pixelsPerLine, e.bytesPerPixel)
	}
	bytesPerLine := e.bytesPerPixel * e.pixelsPerLine
	ctx := &encodeContext{
		in:            r,
		out:           w,
		bytesPerPixel: e.bytesPerPixel,
		line:          make([]byte, bytesPerLine),
		next:          make([]byte, bytesPerLine),
		// Worst case is one control byte per pixel.
		packed: make([]byte, 0, 1+bytesPerLine+e.pixelsPerLine),
	}
	return ctx.encode()
}

// encodeContext holds the mutable state of one Encode call.
type encodeContext struct {
	in            io.Reader
	out           io.Writer
	bytesPerPixel int

	line      []byte
	next      []byte
	nextValid bool
	repeat    int
	packed    []byte
}

func (c *encodeContext) encode() error {
	for {
		ok, err := c.readNextLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		c.packed = append(c.packed[:0], byte(c.repeat-1))
		c.packed = appendPixelGroups(c.packed, c.line, c.bytesPerPixel)
		if _, err := c.out.Write(c.packed); err != nil {
			return fmt.Errorf("failed to write packed line: %w", err)
		}
	}
}

// readNextLine makes c.line the next distinct line and counts how many
// times it repeats, reading ahead one line to find out.
func (c *encodeContext) readNextLine() (bool, error) {
	if c.nextValid {
		c.line, c.next = c.next, c.line
		c.nextValid = false
	} else {
		ok, err := c.readLine(c.line)
		if err != nil || !ok {
			return false, err
		}
	}

	c.repeat = 1
	for c.repeat < maxLineRepeat {
		ok, err := c.readLine(c.next)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		if !bytes.Equal(c.line, c.next) {
			c.nextValid = true
			break
		}
		c.repeat++
	}
	return true, nil
}

// readLine fills into with one line. It reports false at a clean end of input.
func (c *encodeContext) readLine(into []byte) (bool, error) {
	n, err := io.ReadFull(c.in, into)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return false, fmt.Errorf("%w: read %d of %d bytes: %w", ErrShortRow, n, len(into), err)
	default:
		return false, fmt.Errorf("failed to read pixels: %w", err)
	}
}

// appendPixelGroups appends the pixel groups of one line to dst.
func appendPixelGroups(dst, line []byte, bpp int) []byte {
	same := func(a, b int) bool {
		return bytes.Equal(line[a:a+bpp], line[b:b+bpp])
	}

	pos := 0
	for pos < len(line) {
		count := 1
		repeating := true
		switch {
		case pos+bpp == len(line):
			// Exactly one pixel left, encode it as repeating of 1.
		case same(pos, pos+bpp):
			count = 2
			for next := pos + count*bpp; count < maxGroup && next < len(line) && same(pos, next); next += bpp {
				count++
			}
		default:
			// Collect differing pixels, leaving a trailing matching pair
			// to the repeating group that follows.
			count = 2
			for next := pos + count*bpp; next < len(line) && count < maxGroup; next += bpp {
				if same(next-bpp, next) {
					count--
					break
				}
				count++
			}
			repeating = count == 1
		}

		if repeating {
			dst = append(dst, byte(count-1))
			dst = append(dst, line[pos:pos+bpp]...)
		} else {
			dst = append(dst, byte(nonRepeatBase-count))
			dst = append(dst, line[pos:pos+count*bpp]...)
		}
		pos += count * bpp
	}
	return dst
}

// Decompress reads lines packed by Encoder from r and writes the raw
// pixels to w. It stops after the given number of lines.
func Decompress(r io.Reader, w io.Writer, bytesPerPixel, pixelsPerLine, lines int) error {
	if bytesPerPixel <= 0 || pixelsPerLine <= 0 {
		return fmt.Errorf("%w: %d pixels of %d bytes", ErrInvalidGeometry, pixelsPerLine, bytesPerPixel)
	}
	br, ok := r.(io.ByteReader)
	if !ok {
		b := bufio.NewReader(r)
		r, br = b, b
	}
	line := make([]byte, bytesPerPixel*pixelsPerLine)
	for done := 0; done < lines; {
		repeat, err := unpackLine(r, br, line, bytesPerPixel)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("failed to unpack line %d: %w", done, err)
		}
		if done+repeat > lines {
			return fmt.Errorf("%w: line repeat overruns page", ErrInvalidFormat)
		}
		for i := 0; i < repeat; i++ {
			if _, err := w.Write(line); err != nil {
				return fmt.Errorf("failed to write pixels: %w", err)
			}
		}
		done += repeat
	}
	return nil
}

// unpackLine decodes one packed line into line and returns how many
// times it repeats.
func unpackLine(r io.Reader, br io.ByteReader, line []byte, bpp int) (int, error) {
	rep, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	pos := 0
	for pos < len(line) {
		n, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if n < maxGroup {
			// n+1 copies of one pixel.
			count := int(n) + 1
			end := pos + count*bpp
			if end > len(line) {
				return 0, fmt.Errorf("%w: repeating group overruns line", ErrInvalidFormat)
			}
			if _, err := io.ReadFull(r, line[pos:pos+bpp]); err != nil {
				return 0, err
			}
			for p := pos + bpp; p < end; p += bpp {
				copy(line[p:p+bpp], line[pos:pos+bpp])
			}
			pos = end
		} else {
			// 257-n literal pixels.
			count := nonRepeatBase - int(n)
			if count > maxGroup {
				return 0, fmt.Errorf("%w: control byte %d", ErrInvalidFormat, n)
			}
			end := pos + count*bpp
			if end > len(line) {
				return 0, fmt.Errorf("%w: literal group overruns line", ErrInvalidFormat)
			}
			if _, err := io.ReadFull(r, line[pos:end]); err != nil {
				return 0, err
			}
			pos = end
		}
	}
	return int(rep) + 1, nil
}
