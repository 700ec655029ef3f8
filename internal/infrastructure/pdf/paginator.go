package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/gen2brain/go-fitz"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
)

// PageLayout places a captured image on fixed-size pages.
type PageLayout struct {
	// Width and Height of the placed image in page units
	Width  float64
	Height float64
	// Offsets holds the image's top edge on each page. The image is clipped
	// to the printable area, so page k shows the k-th printable-height slice.
	Offsets []float64
}

// Pages returns the page count
func (l PageLayout) Pages() int { return len(l.Offsets) }

// Layout scales an imgW x imgH pixel image to the printable width of a
// pageW x pageH page with a uniform margin and slices it into pages.
func Layout(imgW, imgH int, pageW, pageH, margin float64) PageLayout {
	if imgW <= 0 || imgH <= 0 {
		return PageLayout{}
	}
	printW := pageW - 2*margin
	printH := pageH - 2*margin
	height := float64(imgH) * printW / float64(imgW)

	pages := int(math.Ceil(height/printH - 1e-9))
	if pages < 1 {
		pages = 1
	}
	offsets := make([]float64, pages)
	for k := range offsets {
		offsets[k] = margin - float64(k)*printH
	}
	return PageLayout{Width: printW, Height: height, Offsets: offsets}
}

// Paginator writes a captured image into a multi-page PDF
type Paginator struct {
	pageSize string
	logger   *zap.Logger
}

// NewPaginator creates a paginator for a standard page size such as "A4" or "Letter".
func NewPaginator(pageSize string, logger *zap.Logger) *Paginator {
	if pageSize == "" {
		pageSize = "A4"
	}
	return &Paginator{pageSize: pageSize, logger: logger}
}

// Paginate lays img over as many portrait pages as its scaled height needs.
func (p *Paginator) Paginate(ctx context.Context, img image.Image, opts port.PageOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return nil, fmt.Errorf("failed to encode capture: %w", err)
	}

	pdf := gofpdf.New("P", "mm", p.pageSize, "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetMargins(opts.MarginMM, opts.MarginMM, opts.MarginMM)
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	b := img.Bounds()
	layout := Layout(b.Dx(), b.Dy(), pageW, pageH, opts.MarginMM)
	if layout.Pages() == 0 {
		return nil, fmt.Errorf("capture has no area")
	}

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", imgOpts, &encoded)
	for _, y := range layout.Offsets {
		pdf.AddPage()
		pdf.ClipRect(opts.MarginMM, opts.MarginMM, layout.Width, pageH-2*opts.MarginMM, false)
		pdf.ImageOptions("capture", opts.MarginMM, y, layout.Width, layout.Height, false, imgOpts, 0, "")
		pdf.ClipEnd()
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	p.logger.Debug("Paginated capture",
		zap.Int("pages", layout.Pages()),
		zap.Float64("image_height_mm", layout.Height),
	)
	return out.Bytes(), nil
}

// Inspector reads produced PDFs back with go-fitz
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector { return &Inspector{} }

// PageCount opens the artifact and returns its page count
func (Inspector) PageCount(artifact []byte) (int, error) {
	doc, err := fitz.NewFromMemory(artifact)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

var (
	_ port.Paginator         = (*Paginator)(nil)
	_ port.ArtifactInspector = Inspector{}
)
