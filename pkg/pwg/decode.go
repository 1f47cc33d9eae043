package pwg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineSize bounds the line buffer a decoded header may ask for.
const MaxLineSize = 1 << 24

// Decoder reads a PWG raster stream page by page.
type Decoder struct {
	r       *bufio.Reader
	curPage *Page
}

// NewDecoder reads and checks the stream magic.
func NewDecoder(r io.Reader) (*Decoder, error) {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, ErrUnknownMagic
	}
	return &Decoder{r: br}, nil
}

// Page is one decoded page. Its pixel data must be read before the next
// call to NextPage; unread lines are skipped.
type Page struct {
	Header *PageHeader

	dec       *Decoder
	line      []byte
	lineRep   int
	linesRead int
}

// NextPage returns the next page in the stream, or io.EOF when there are
// no more pages. After a call to NextPage, previously returned pages can
// no longer read pixel data, but their headers remain valid.
func (d *Decoder) NextPage() (*Page, error) {
	if d.curPage != nil {
		if err := d.curPage.discard(); err != nil {
			return nil, err
		}
		d.curPage = nil
	}

	b := make([]byte, HeaderSize)
	// ReadFull reports io.EOF only when nothing was read, and
	// io.ErrUnexpectedEOF for a truncated header.
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, err
	}
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if h.ColorOrder != Chunky || h.BitsPerColor != 8 || h.BitsPerPixel%8 != 0 || h.BitsPerPixel == 0 {
		return nil, fmt.Errorf("%w: %d bits per pixel, %d bits per color", ErrInvalidFormat, h.BitsPerPixel, h.BitsPerColor)
	}
	if lineSize := uint64(h.Width) * uint64(h.BitsPerPixel) / 8; lineSize > MaxLineSize {
		return nil, fmt.Errorf("%w: %d byte lines exceed %d", ErrInvalidFormat, lineSize, MaxLineSize)
	}
	p := &Page{
		Header: h,
		dec:    d,
		line:   make([]byte, h.BytesPerLine()),
	}
	d.curPage = p
	return p, nil
}

// LineSize returns the number of bytes in one line.
func (p *Page) LineSize() int {
	return int(p.Header.BytesPerLine())
}

// Size returns the number of bytes in the whole page.
func (p *Page) Size() int {
	return p.LineSize() * int(p.Header.Height)
}

// UnreadLines returns the number of lines that have not been read yet.
func (p *Page) UnreadLines() int {
	return int(p.Header.Height) - p.linesRead
}

// ReadLine reads the next line of pixels into b. It returns io.EOF when
// every line of the page has been read.
func (p *Page) ReadLine(b []byte) error {
	if len(b) < p.LineSize() {
		return ErrBufferTooSmall
	}
	if p.dec.curPage != p {
		return fmt.Errorf("%w: page is no longer current", ErrInvalidFormat)
	}
	if p.UnreadLines() == 0 {
		return io.EOF
	}
	if p.lineRep == 0 {
		rep, err := unpackLine(p.dec.r, p.dec.r, p.line, p.Header.BytesPerPixel())
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		if rep > p.UnreadLines() {
			return fmt.Errorf("%w: line repeat overruns page", ErrInvalidFormat)
		}
		p.lineRep = rep
	}
	p.lineRep--
	p.linesRead++
	copy(b, p.line)
	return nil
}

// ReadAll reads the remainder of the page into b.
func (p *Page) ReadAll(b []byte) error {
	n := p.UnreadLines()
	if len(b) < n*p.LineSize() {
		return ErrBufferTooSmall
	}
	if n == 0 {
		return io.EOF
	}
	size := p.LineSize()
	for i := 0; i < n; i++ {
		if err := p.ReadLine(b[i*size : (i+1)*size]); err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

func (p *Page) discard() error {
	b := make([]byte, p.LineSize())
	for p.UnreadLines() > 0 {
		if err := p.ReadLine(b); err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}
