// Package pdf draws invoice documents with gofpdf and reads PDFs back with
// go-fitz. It provides the render surface, the paginator and the artifact
// inspector used by the export flow.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/render"
)

const (
	// DefaultSurfaceWidth is an A4 page width in points.
	DefaultSurfaceWidth = 595.28
	measureHeight       = 14400
	pointsPerInch       = 72
)

// ScreenPresentation is how a surface sits in the page when not exporting.
var ScreenPresentation = port.Presentation{
	Position:  "relative",
	Visible:   true,
	Opacity:   1,
	Transform: "none",
}

// DocumentSurface lays a document out on one tall page. Width is fixed;
// height follows the content.
type DocumentSurface struct {
	mu           sync.Mutex
	width        float64
	doc          *render.Document
	height       float64
	presentation port.Presentation
	logger       *zap.Logger
}

// NewDocumentSurface creates an empty surface of the given width in points.
func NewDocumentSurface(width float64, logger *zap.Logger) *DocumentSurface {
	if width <= 0 {
		width = DefaultSurfaceWidth
	}
	return &DocumentSurface{width: width, presentation: ScreenPresentation, logger: logger}
}

// Mount replaces the document and re-measures the layout.
func (s *DocumentSurface) Mount(doc *render.Document) {
	height := 0.0
	if doc != nil {
		h, err := s.measure(doc)
		if err != nil {
			s.logger.Error("Failed to lay out document", zap.Error(err))
		} else {
			height = h
		}
	}

	s.mu.Lock()
	s.doc = doc
	s.height = height
	s.mu.Unlock()
}

// Size returns the laid-out size in points, one pixel per point at 72 dpi.
func (s *DocumentSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.height <= 0 {
		return 0, 0
	}
	return int(math.Ceil(s.width)), int(math.Ceil(s.height))
}

// HasContent reports whether an invoice (not the placeholder) is mounted
func (s *DocumentSurface) HasContent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc != nil && !s.doc.Empty
}

func (s *DocumentSurface) Presentation() port.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentation
}

func (s *DocumentSurface) SetPresentation(p port.Presentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentation = p
}

// Capture draws the mounted document and rasterizes it at 72*scale dpi.
// A hidden or fully transparent surface captures as a blank image.
func (s *DocumentSurface) Capture(ctx context.Context, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}

	s.mu.Lock()
	doc, height, pres := s.doc, s.height, s.presentation
	s.mu.Unlock()

	if doc == nil || height <= 0 {
		return nil, fmt.Errorf("surface has no document")
	}
	if !pres.Visible || pres.Opacity <= 0 {
		return blank(int(s.width*scale), int(height*scale)), nil
	}

	data, err := s.draw(doc, height)
	if err != nil {
		return nil, err
	}

	fd, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawn document: %w", err)
	}
	defer fd.Close()

	img, err := fd.ImageDPI(0, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize document: %w", err)
	}
	return img, nil
}

// PDF returns the document drawn as a single vector page.
func (s *DocumentSurface) PDF() ([]byte, error) {
	s.mu.Lock()
	doc, height := s.doc, s.height
	s.mu.Unlock()
	if doc == nil || height <= 0 {
		return nil, fmt.Errorf("surface has no document")
	}
	return s.draw(doc, height)
}

func (s *DocumentSurface) measure(doc *render.Document) (float64, error) {
	pdf := newPage(s.width, measureHeight)
	return newPainter(pdf, doc, s.width, true).paint()
}

func (s *DocumentSurface) draw(doc *render.Document, height float64) ([]byte, error) {
	pdf := newPage(s.width, height)
	pdf.SetTitle(doc.InvoiceNumber, true)

	p := newPainter(pdf, doc, s.width, false)
	p.frame(height)
	if _, err := p.paint(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}

func newPage(width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// SurfaceFactory creates DocumentSurfaces of one width
type SurfaceFactory struct {
	width  float64
	logger *zap.Logger
}

// NewSurfaceFactory creates a new SurfaceFactory
func NewSurfaceFactory(width float64, logger *zap.Logger) *SurfaceFactory {
	return &SurfaceFactory{width: width, logger: logger}
}

func (f *SurfaceFactory) NewSurface() port.Surface {
	return NewDocumentSurface(f.width, f.logger)
}

var (
	_ port.Surface        = (*DocumentSurface)(nil)
	_ port.SurfaceFactory = (*SurfaceFactory)(nil)
)
