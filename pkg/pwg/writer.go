package pwg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxSwathHeight is the number of lines rendered and packed at a time.
// It bounds the working memory of a page to one swath.
const MaxSwathHeight = 256

// Renderer produces the pixels of one page. Width and Height are fixed
// for the life of the page; Render fills dst with rows lines starting at
// yOffset, laid out as rows*Width()*cs.BytesPerPixel() bytes.
type Renderer interface {
	Width() int
	Height() int
	Render(yOffset, rows int, cs ColorSpace, dst []byte) error
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithProgress registers fn to be called before each page is written
// with the zero-based page index and the settings' page count.
func WithProgress(fn func(index, total int)) WriterOption {
	return func(w *Writer) {
		w.progress = fn
	}
}

// Writer writes a PWG raster stream. Pages are written strictly in
// order; a Writer must not be used from more than one goroutine.
type Writer struct {
	settings OutputSettings
	sink     io.Writer
	counter  *countingWriter
	buf      *bufio.Writer
	progress func(index, total int)

	swath  []byte
	pages  int
	err    error
	closed bool
}

// NewWriter validates settings and writes the stream magic to sink.
// Close flushes the stream and closes sink if it is an io.Closer.
func NewWriter(sink io.Writer, settings OutputSettings, opts ...WriterOption) (*Writer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	counter := &countingWriter{w: sink}
	w := &Writer{
		settings: settings,
		sink:     sink,
		counter:  counter,
		buf:      bufio.NewWriterSize(counter, 64*1024),
	}
	for _, opt := range opts {
		opt(w)
	}
	if _, err := w.buf.WriteString(Magic); err != nil {
		return nil, fmt.Errorf("failed to write magic: %w", err)
	}
	return w, nil
}

// Create creates the named file and returns a Writer for it.
func Create(path string, settings OutputSettings, opts ...WriterOption) (*Writer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w, err := NewWriter(f, settings, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// WritePage writes the header and packed pixels of page. After a failed
// WritePage the stream is unusable and every later call returns the
// same error.
func (w *Writer) WritePage(page Renderer) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if w.progress != nil {
		w.progress(w.pages, w.settings.PageCount)
	}
	if err := w.writePage(page); err != nil {
		w.err = fmt.Errorf("page %d: %w", w.pages+1, err)
		return w.err
	}
	w.pages++
	return nil
}

func (w *Writer) writePage(page Renderer) error {
	width, height := page.Width(), page.Height()
	header, err := w.settings.BuildHeader(width, height)
	if err != nil {
		return fmt.Errorf("failed to build header: %w", err)
	}
	if _, err := header.WriteTo(w.buf); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	cs := w.settings.ColorSpace
	enc := NewEncoder(cs.BytesPerPixel(), width)
	lineSize := width * cs.BytesPerPixel()
	for y := 0; y < height; {
		rows := min(MaxSwathHeight, height-y)
		size := rows * lineSize
		if cap(w.swath) < size {
			w.swath = make([]byte, size)
		}
		swath := w.swath[:size]
		if err := page.Render(y, rows, cs, swath); err != nil {
			return fmt.Errorf("failed to render rows %d-%d: %w", y, y+rows-1, err)
		}
		if err := enc.Encode(bytes.NewReader(swath), w.buf); err != nil {
			return err
		}
		y += rows
	}
	return nil
}

// Pages returns the number of pages written so far.
func (w *Writer) Pages() int {
	return w.pages
}

// BytesWritten returns the number of bytes that reached the sink.
func (w *Writer) BytesWritten() int64 {
	return w.counter.n
}

// Close flushes buffered output and closes the sink if it is an io.Closer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.buf.Flush()
	if err != nil {
		err = fmt.Errorf("failed to flush output: %w", err)
	}
	if c, ok := w.sink.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output: %w", cerr))
		}
	}
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
