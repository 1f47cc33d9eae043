package converter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

const instanceTimeout = 30 * time.Second

// PDFSource renders the pages of a PDF document with PDFium
type PDFSource struct {
	filePath  string
	pdfBytes  []byte
	dpi       int
	pool      pdfium.Pool
	ownsPool  bool
	instance  pdfium.Pdfium
	document  references.FPDF_DOCUMENT
	pageCount int
}

// NewPDFPool starts a PDFium WebAssembly pool that can be shared by
// several sources
func NewPDFPool(maxTotal int) (pdfium.Pool, error) {
	if maxTotal < 1 {
		maxTotal = 1
	}
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  maxTotal,
		MaxTotal: maxTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium: %w", err)
	}
	return pool, nil
}

// NewPDFSource opens filePath for rendering at dpi. If pool is nil the
// source starts and later closes its own.
func NewPDFSource(filePath string, dpi int, pool pdfium.Pool) (*PDFSource, error) {
	pdfBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	source := &PDFSource{
		filePath: filePath,
		pdfBytes: pdfBytes,
		dpi:      dpi,
		pool:     pool,
	}
	if source.pool == nil {
		source.pool, err = NewPDFPool(1)
		if err != nil {
			return nil, err
		}
		source.ownsPool = true
	}

	if err := source.open(); err != nil {
		source.Close()
		return nil, err
	}
	return source, nil
}

func (p *PDFSource) open() error {
	instance, err := p.pool.GetInstance(instanceTimeout)
	if err != nil {
		return fmt.Errorf("failed to get PDFium instance: %w", err)
	}
	p.instance = instance

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		File: &p.pdfBytes,
	})
	if err != nil {
		// Files with trailing garbage after %%EOF often open once trimmed
		repaired, ok := repairPDF(p.pdfBytes)
		if !ok {
			return fmt.Errorf("failed to open PDF document: %w", err)
		}
		p.pdfBytes = repaired
		doc, err = instance.OpenDocument(&requests.OpenDocument{
			File: &p.pdfBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to open PDF document: %w", err)
		}
	}
	p.document = doc.Document

	pageCountResp, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: p.document,
	})
	if err != nil {
		return fmt.Errorf("failed to get page count: %w", err)
	}
	p.pageCount = pageCountResp.PageCount
	return nil
}

// repairPDF truncates everything after the last %%EOF marker
func repairPDF(data []byte) ([]byte, bool) {
	marker := []byte("%%EOF")
	idx := bytes.LastIndex(data, marker)
	if idx == -1 {
		return nil, false
	}
	end := idx + len(marker)
	if end == len(data) || (end == len(data)-1 && data[end] == '\n') {
		// Nothing to trim, the problem is elsewhere
		return nil, false
	}
	repaired := make([]byte, end+1)
	copy(repaired, data[:end])
	repaired[end] = '\n'
	return repaired, true
}

func (p *PDFSource) PageCount() int {
	return p.pageCount
}

// Page renders the page at index into an RGBA image
func (p *PDFSource) Page(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= p.pageCount {
		return nil, fmt.Errorf("page index %d out of range (0-%d)", index, p.pageCount-1)
	}

	rendered, err := p.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: p.document,
				Index:    index,
			},
		},
		DPI: p.dpi,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index+1, err)
	}
	defer rendered.Cleanup()

	// The pixel buffer belongs to PDFium until Cleanup, keep a copy
	src := rendered.Result.Image
	img := &image.RGBA{
		Pix:    append([]byte(nil), src.Pix...),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	return img, nil
}

// GetFileSize returns the size of the PDF in bytes
func (p *PDFSource) GetFileSize() int64 {
	return int64(len(p.pdfBytes))
}

func (p *PDFSource) Close() error {
	if p.instance != nil {
		if p.document != "" {
			p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: p.document})
		}
		p.instance.Close()
		p.instance = nil
	}
	if p.ownsPool && p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// ValidatePDF checks the PDF header and that an %%EOF marker exists.
// Data after the last marker is tolerated since opening trims it.
func ValidatePDF(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("file does not start with PDF header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		return fmt.Errorf("PDF file does not contain %%EOF marker")
	}
	return nil
}
