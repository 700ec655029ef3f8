package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/template"
	"github.com/garyjia/invoice-studio/internal/render"
)

var errUnsupportedImage = errors.New("unsupported image format")

// imageTypes are the formats gofpdf can embed.
var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/gif":  "GIF",
}

// painter draws a document top to bottom onto a single tall page. In dry
// mode it only advances the cursor, which is how the surface measures height.
type painter struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	doc   *render.Document
	m     metrics
	dry   bool
	width float64
	y     float64
}

func newPainter(pdf *gofpdf.Fpdf, doc *render.Document, width float64, dry bool) *painter {
	return &painter{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		doc:   doc,
		m:     newMetrics(doc.Style),
		dry:   dry,
		width: width,
	}
}

func (p *painter) left() float64  { return p.m.padding }
func (p *painter) inner() float64 { return p.width - 2*p.m.padding }

// frame paints the background and the layout decoration for a page of height h.
func (p *painter) frame(h float64) {
	style := p.doc.Style
	p.fill(parseColor(style.BackgroundColor, white))
	p.pdf.Rect(0, 0, p.width, h, "F")

	switch style.Layout {
	case template.LayoutMinimal:
		p.stroke(minimalOutline, 0.75)
		p.pdf.Rect(0.5, 0.5, p.width-1, h-1, "D")
	case template.LayoutClassic:
		p.stroke(classicBorder, 1.5)
		p.pdf.Rect(1, 1, p.width-2, h-2, "D")
	case template.LayoutCorporate:
		p.fill(corporateRule)
		p.pdf.Rect(0, 0, 3, h, "F")
	case template.LayoutModern:
		if style.Shadow != "" {
			p.fill(modernShadow)
			p.pdf.Rect(0, h-3, p.width, 3, "F")
		}
	}
}

// paint draws every section and returns the final cursor position.
func (p *painter) paint() (float64, error) {
	p.y = p.m.padding
	for i, s := range p.doc.Sections {
		if len(s.Nodes) == 0 {
			continue
		}
		if i > 0 {
			p.y += p.m.gap
		}
		if s.ID == render.SectionTotals {
			p.rule()
		}
		for _, n := range s.Nodes {
			if err := p.node(n); err != nil {
				return 0, fmt.Errorf("%s: %w", n.ID, err)
			}
		}
	}
	return p.y + p.m.padding, p.pdf.Error()
}

func (p *painter) node(n render.Node) error {
	color := parseColor(p.doc.Color(n.Tone), black)
	switch n.Kind {
	case render.KindHeading:
		size := p.m.subhead
		if n.ID == render.NodeTitle {
			size = p.m.heading
		}
		p.text(n.Value, "B", size, color)
	case render.KindField:
		p.field(n.Label, n.Value, color)
	case render.KindAmount:
		style := ""
		if n.ID == render.NodeTotal {
			style = "B"
		}
		p.amount(n.Label, n.Value, style, color)
	case render.KindImage:
		return p.image(n)
	default:
		p.text(n.Value, "", p.m.body, color)
	}
	return nil
}

func (p *painter) lineHeight(size float64) float64 { return size * 1.4 }

func (p *painter) text(s, style string, size float64, color rgb) {
	p.pdf.SetFont(p.m.family, style, size)
	p.pdf.SetTextColor(color.r, color.g, color.b)
	lh := p.lineHeight(size)
	for _, line := range p.pdf.SplitLines([]byte(p.tr(s)), p.inner()) {
		p.pdf.SetXY(p.left(), p.y)
		p.pdf.CellFormat(p.inner(), lh, string(line), "", 0, "L", false, 0, "")
		p.y += lh
	}
}

func (p *painter) field(label, value string, color rgb) {
	secondary := parseColor(p.doc.Style.SecondaryColor, black)
	p.pdf.SetFont(p.m.family, "B", p.m.body)
	p.pdf.SetTextColor(secondary.r, secondary.g, secondary.b)
	lw := p.pdf.GetStringWidth(p.tr(label)) + 4
	lh := p.lineHeight(p.m.body)
	p.pdf.SetXY(p.left(), p.y)
	p.pdf.CellFormat(lw, lh, p.tr(label), "", 0, "L", false, 0, "")

	p.pdf.SetFont(p.m.family, "", p.m.body)
	p.pdf.SetTextColor(color.r, color.g, color.b)
	lines := p.pdf.SplitLines([]byte(p.tr(value)), p.inner()-lw)
	if len(lines) == 0 {
		p.y += lh
		return
	}
	for _, line := range lines {
		p.pdf.SetXY(p.left()+lw, p.y)
		p.pdf.CellFormat(p.inner()-lw, lh, string(line), "", 0, "L", false, 0, "")
		p.y += lh
	}
}

func (p *painter) amount(label, value, style string, color rgb) {
	size := p.m.body
	if style == "B" {
		size = p.m.subhead
	}
	lh := p.lineHeight(size)
	text := parseColor(p.doc.Style.TextColor, black)

	p.pdf.SetFont(p.m.family, style, size)
	p.pdf.SetTextColor(text.r, text.g, text.b)
	p.pdf.SetXY(p.left(), p.y)
	p.pdf.CellFormat(p.inner()/2, lh, p.tr(label), "", 0, "L", false, 0, "")

	p.pdf.SetTextColor(color.r, color.g, color.b)
	p.pdf.SetXY(p.left()+p.inner()/2, p.y)
	p.pdf.CellFormat(p.inner()/2, lh, p.tr(value), "", 0, "R", false, 0, "")
	p.y += lh
}

func (p *painter) rule() {
	p.stroke(parseColor(p.doc.Style.SecondaryColor, black), 0.5)
	p.pdf.Line(p.left(), p.y, p.left()+p.inner(), p.y)
	p.y += p.m.gap / 2
}

func (p *painter) image(n render.Node) error {
	if n.Label != "" && n.ID == render.NodeSignature {
		p.text(n.Label, "B", p.m.body, parseColor(p.doc.Style.SecondaryColor, black))
	}

	imgType, data, cfg, err := loadImage(n.Src)
	if err != nil {
		if p.dry {
			// measuring only; reserve the default box
			p.y += p.m.imageMax + p.m.gap/2
			return nil
		}
		return err
	}

	h := p.m.imageMax
	w := h
	if cfg.Height > 0 {
		w = h * float64(cfg.Width) / float64(cfg.Height)
	}
	if w > p.inner() {
		w = p.inner()
		h = w * float64(cfg.Height) / float64(cfg.Width)
	}

	if !p.dry {
		opts := gofpdf.ImageOptions{ImageType: imgType}
		p.pdf.RegisterImageOptionsReader(n.ID, opts, bytes.NewReader(data))
		p.pdf.ImageOptions(n.ID, p.left(), p.y, w, h, false, opts, 0, "")
	}
	p.y += h + p.m.gap/2
	return nil
}

func loadImage(src string) (string, []byte, image.Config, error) {
	mime, data, err := decodeDataURI(src)
	if err != nil {
		return "", nil, image.Config{}, err
	}
	imgType, ok := imageTypes[mime]
	if !ok {
		return "", nil, image.Config{}, fmt.Errorf("%w: %s", errUnsupportedImage, mime)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, image.Config{}, fmt.Errorf("decode %s: %w", mime, err)
	}
	return imgType, data, cfg, nil
}

func (p *painter) fill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }

func (p *painter) stroke(c rgb, width float64) {
	p.pdf.SetDrawColor(c.r, c.g, c.b)
	p.pdf.SetLineWidth(width)
}

// decodeDataURI splits a base64 data URI. Anything else is a reference to
// content outside the document and cannot be read back.
func decodeDataURI(src string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: external image %q", port.ErrCaptureRestricted, truncate(src, 64))
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("malformed data uri")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri: %w", err)
	}
	return strings.TrimSuffix(header, ";base64"), data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
