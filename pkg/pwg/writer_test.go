package pwg_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alde/pdf2pwg/pkg/pwg"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidPage renders every pixel with the same bytes
type solidPage struct {
	width, height int
	pixel         []byte
	renderErr     error
	calls         int
}

func (p *solidPage) Width() int  { return p.width }
func (p *solidPage) Height() int { return p.height }

func (p *solidPage) Render(yOffset, rows int, cs pwg.ColorSpace, dst []byte) error {
	p.calls++
	if p.renderErr != nil {
		return p.renderErr
	}
	bpp := cs.BytesPerPixel()
	for i := 0; i < rows*p.width; i++ {
		copy(dst[i*bpp:(i+1)*bpp], p.pixel)
	}
	return nil
}

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestWriter__SinglePageStream(t *testing.T) {
	var out closeRecorder
	settings := pwg.DefaultOutputSettings()
	settings.ColorSpace = pwg.Grayscale
	settings.DPI = 150
	settings.PageCount = 1

	w, err := pwg.NewWriter(&out, settings)
	require.NoError(t, err)
	require.NoError(t, w.WritePage(&solidPage{width: 1, height: 2, pixel: []byte{0}}))
	require.NoError(t, w.Close())
	assert.Equal(t, 1, out.closed)

	b := out.Bytes()
	require.Len(t, b, 4+pwg.HeaderSize+3)
	assert.Equal(t, pwg.Magic, string(b[:4]))
	assert.Equal(t, []byte{0x01, 0x00, 0x00}, b[4+pwg.HeaderSize:])
	assert.Equal(t, int64(len(b)), w.BytesWritten())
	assert.Equal(t, 1, w.Pages())

	h, err := pwg.ParseHeader(b[4 : 4+pwg.HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, pwg.CodeSGray, h.ColorSpace)
	assert.Equal(t, uint32(8), h.BitsPerPixel)
	assert.Equal(t, uint32(1), h.TotalPageCount)
}

func TestWriter__EmptyStreamIsMagicOnly(t *testing.T) {
	var out bytes.Buffer
	w, err := pwg.NewWriter(&out, pwg.DefaultOutputSettings())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, []byte("RaS2"), out.Bytes())
}

func TestWriter__SwathsRestartLineRepeat(t *testing.T) {
	var out bytes.Buffer
	settings := pwg.DefaultOutputSettings()
	settings.ColorSpace = pwg.Grayscale

	page := &solidPage{width: 1, height: 300, pixel: []byte{0}}
	w, err := pwg.NewWriter(&out, settings)
	require.NoError(t, err)
	require.NoError(t, w.WritePage(page))
	require.NoError(t, w.Close())

	assert.Equal(t, 2, page.calls, "300 rows render as two swaths")
	assert.Equal(t, []byte{255, 0, 0, 43, 0, 0}, out.Bytes()[4+pwg.HeaderSize:])
}

func TestWriter__ProgressCallback(t *testing.T) {
	settings := pwg.DefaultOutputSettings()
	settings.PageCount = 3

	var calls [][2]int
	w, err := pwg.NewWriter(io.Discard, settings, pwg.WithProgress(func(index, total int) {
		calls = append(calls, [2]int{index, total})
	}))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.WritePage(&solidPage{width: 2, height: 2, pixel: []byte{1, 2, 3}}))
	}
	require.NoError(t, w.Close())

	assert.Equal(t, [][2]int{{0, 3}, {1, 3}, {2, 3}}, calls)
}

func TestWriter__ErrorsAreSticky(t *testing.T) {
	renderErr := errors.New("render failed")
	w, err := pwg.NewWriter(io.Discard, pwg.DefaultOutputSettings())
	require.NoError(t, err)

	err = w.WritePage(&solidPage{width: 2, height: 2, renderErr: renderErr})
	require.ErrorIs(t, err, renderErr)

	good := &solidPage{width: 2, height: 2, pixel: []byte{1, 2, 3}}
	err = w.WritePage(good)
	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, 0, good.calls)
	assert.Equal(t, 0, w.Pages())
}

func TestWriter__InvalidPages(t *testing.T) {
	w, err := pwg.NewWriter(io.Discard, pwg.DefaultOutputSettings())
	require.NoError(t, err)
	err = w.WritePage(&solidPage{width: 0, height: 10})
	assert.ErrorIs(t, err, pwg.ErrInvalidGeometry)

	_, err = pwg.NewWriter(io.Discard, pwg.OutputSettings{DPI: 0})
	assert.ErrorIs(t, err, pwg.ErrInvalidSettings)

	settings := pwg.DefaultOutputSettings()
	settings.VendorData = make([]byte, pwg.MaxVendorDataSize+1)
	_, err = pwg.NewWriter(io.Discard, settings)
	assert.ErrorIs(t, err, pwg.ErrVendorDataTooLarge)
}

func TestWriter__Closed(t *testing.T) {
	var out closeRecorder
	w, err := pwg.NewWriter(&out, pwg.DefaultOutputSettings())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, out.closed)

	err = w.WritePage(&solidPage{width: 1, height: 1, pixel: []byte{0, 0, 0}})
	assert.ErrorIs(t, err, pwg.ErrClosed)
}

func TestWriter__SinkFull(t *testing.T) {
	sink := bytewriter.New(make([]byte, 100))
	w, err := pwg.NewWriter(sink, pwg.DefaultOutputSettings())
	require.NoError(t, err)

	err = w.WritePage(&solidPage{width: 10, height: 10, pixel: []byte{1, 2, 3}})
	if err == nil {
		err = w.Close()
	}
	assert.Error(t, err, "a header does not fit in 100 bytes")
}

func TestWriter__RoundTripThroughDecoder(t *testing.T) {
	var out bytes.Buffer
	settings := pwg.DefaultOutputSettings()
	settings.Sides = pwg.TwoSidedLongEdge
	settings.Source = "tray-2"
	settings.Quality = pwg.QualityDraft
	settings.PageCount = 2

	pages := []*solidPage{
		{width: 3, height: 4, pixel: []byte{10, 20, 30}},
		{width: 5, height: 600, pixel: []byte{255, 255, 255}},
	}
	w, err := pwg.NewWriter(&out, settings)
	require.NoError(t, err)
	for _, p := range pages {
		require.NoError(t, w.WritePage(p))
	}
	require.NoError(t, w.Close())

	dec, err := pwg.NewDecoder(&out)
	require.NoError(t, err)
	for i, want := range pages {
		page, err := dec.NextPage()
		require.NoError(t, err, "page %d", i+1)

		h := page.Header
		assert.Equal(t, uint32(want.width), h.Width)
		assert.Equal(t, uint32(want.height), h.Height)
		assert.True(t, h.Duplex)
		assert.False(t, h.Tumble)
		assert.Equal(t, pwg.MediaTray1+1, h.MediaPosition)
		assert.Equal(t, pwg.QualityDraft, h.PrintQuality)
		assert.Equal(t, uint32(2), h.TotalPageCount)
		assert.Equal(t, uint32(pwg.White), h.AlternatePrimary)

		buf := make([]byte, page.Size())
		require.NoError(t, page.ReadAll(buf))
		assert.Equal(t, bytes.Repeat(want.pixel, want.width*want.height), buf)
	}

	_, err = dec.NextPage()
	assert.Equal(t, io.EOF, err)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pwg")
	w, err := pwg.Create(path, pwg.DefaultOutputSettings())
	require.NoError(t, err)
	require.NoError(t, w.WritePage(&solidPage{width: 4, height: 2, pixel: []byte{9, 8, 7}}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := pwg.NewDecoder(f)
	require.NoError(t, err)
	page, err := dec.NextPage()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), page.Header.Width)

	_, err = pwg.Create(filepath.Join(t.TempDir(), "missing", "out.pwg"), pwg.DefaultOutputSettings())
	assert.Error(t, err)

	bad := pwg.DefaultOutputSettings()
	bad.DPI = 0
	_, err = pwg.Create(filepath.Join(t.TempDir(), "bad.pwg"), bad)
	assert.ErrorIs(t, err, pwg.ErrInvalidSettings)
}
