package render

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/template"
)

// PreviewElementID is the DOM id of the preview container. htmx swaps target it.
const PreviewElementID = "invoice-preview"

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.rawf(` %s="%s"`, name, templ.EscapeString(value))
}

// layoutStyle is the container decoration of each layout.
func layoutStyle(cfg template.Config) string {
	switch cfg.Layout {
	case template.LayoutMinimal:
		return "border:1px solid #e5e7eb;"
	case template.LayoutCorporate:
		return "border-left:4px solid #3b82f6;"
	case template.LayoutClassic:
		return "border:2px solid #d1d5db;"
	default:
		return "box-shadow:" + cfg.Shadow + ";"
	}
}

func spacingPadding(spacing string) string {
	switch spacing {
	case "compact":
		return "1.5rem"
	case "relaxed":
		return "2.5rem"
	default:
		return "2rem"
	}
}

// Preview writes the document as the swappable preview fragment.
func Preview(doc *Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		writePreview(h, doc)
		return h.err
	})
}

func writePreview(h *htmlWriter, doc *Document) {
	cfg := doc.Style
	h.raw(`<div`)
	h.attr("id", PreviewElementID)
	h.attr("class", "invoice-preview layout-"+string(cfg.Layout))
	h.attr("data-version", fmt.Sprint(doc.Version))
	h.attr("style", fmt.Sprintf("max-width:56rem;margin:0 auto;padding:%s;background-color:%s;color:%s;font-family:%s;font-size:%s;border-radius:%s;%s",
		spacingPadding(cfg.Spacing), cfg.BackgroundColor, cfg.TextColor, cfg.FontFamily, cfg.BodySize, cfg.BorderRadius, layoutStyle(cfg)))
	h.raw(`>`)

	for _, s := range doc.Sections {
		h.raw(`<section`)
		h.attr("class", "invoice-"+s.ID)
		h.raw(`>`)
		for _, n := range s.Nodes {
			writeNode(h, doc, n)
		}
		h.raw(`</section>`)
	}

	h.raw(`</div>`)
}

func writeNode(h *htmlWriter, doc *Document, n Node) {
	color := doc.Color(n.Tone)
	switch n.Kind {
	case KindHeading:
		size := "1.125rem"
		switch n.ID {
		case NodeTitle:
			size = doc.Style.HeadingSize
		case NodeBusinessName:
			size = "1.5rem"
		}
		h.raw(`<h2`)
		h.attr("data-node", n.ID)
		h.attr("style", fmt.Sprintf("color:%s;font-size:%s;font-weight:600;", color, size))
		h.raw(`>`)
		h.text(n.Value)
		h.raw(`</h2>`)
	case KindField:
		h.raw(`<div`)
		h.attr("data-node", n.ID)
		h.raw(`><span`)
		h.attr("style", fmt.Sprintf("color:%s;font-weight:600;", doc.Style.PrimaryColor))
		h.raw(`>`)
		h.text(n.Label)
		h.raw(`</span> <span`)
		h.attr("style", "color:"+color+";")
		h.raw(`>`)
		h.text(n.Value)
		h.raw(`</span></div>`)
	case KindAmount:
		style := "display:flex;justify-content:space-between;margin-bottom:0.75rem;"
		if n.ID == NodeTotal {
			style += "font-weight:700;font-size:1.125rem;border-top:1px solid #e5e7eb;padding-top:1rem;color:" + color + ";"
		}
		h.raw(`<div`)
		h.attr("data-node", n.ID)
		h.attr("style", style)
		h.raw(`><span>`)
		h.text(n.Label)
		h.raw(`</span><span`)
		h.attr("style", "color:"+color+";")
		h.raw(`>`)
		h.text(n.Value)
		h.raw(`</span></div>`)
	case KindImage:
		h.raw(`<img`)
		h.attr("data-node", n.ID)
		h.attr("src", n.Src)
		h.attr("alt", n.Label)
		if n.ID == NodeSignature {
			h.attr("style", "width:8rem;height:4rem;object-fit:contain;border:1px solid #d1d5db;")
		} else {
			h.attr("style", "width:5rem;height:5rem;object-fit:contain;")
		}
		h.raw(`>`)
	default:
		h.raw(`<p`)
		h.attr("data-node", n.ID)
		h.attr("style", "color:"+color+";")
		h.raw(`>`)
		h.text(n.Value)
		h.raw(`</p>`)
	}
}

// PageProps is everything the editor page shows.
type PageProps struct {
	SessionID     string
	Input         invoice.Input
	Templates     []template.Template
	TemplateID    string
	Theme         entity.ThemePreference
	QuickServices []entity.QuickService
	Document      *Document
}

type formField struct {
	field invoice.Field
	label string
	kind  string
	value string
}

// Page writes the full editor page. Every input posts its field to the
// session and swaps the returned preview in place.
func Page(p PageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		base := "/api/sessions/" + p.SessionID

		h.raw(`<!DOCTYPE html><html lang="en"`)
		h.attr("class", string(p.Theme))
		h.raw(`><head><meta charset="utf-8"><title>Invoice Studio</title>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@1.9.10"></script></head><body>`)
		h.raw(`<div id="error-banner" role="alert"></div>`)
		h.raw(`<main style="display:grid;grid-template-columns:1fr 1fr;gap:2rem;padding:2rem;">`)

		h.raw(`<form`)
		h.attr("hx-post", base+"/fields")
		h.attr("hx-trigger", "input changed delay:300ms from:find input, input changed delay:300ms from:find textarea, change from:find select")
		h.attr("hx-target", "#"+PreviewElementID)
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)

		in := p.Input
		fields := []formField{
			{invoice.FieldBusinessName, "Business Name", "text", in.BusinessName},
			{invoice.FieldBusinessPhone, "Business Phone", "tel", in.BusinessPhone},
			{invoice.FieldBusinessEmail, "Business Email", "email", in.BusinessEmail},
			{invoice.FieldBusinessAddress, "Business Address", "text", in.BusinessAddress},
			{invoice.FieldClientName, "Client Name", "text", in.ClientName},
			{invoice.FieldClientPhone, "Client Phone", "tel", in.ClientPhone},
			{invoice.FieldClientEmail, "Client Email", "email", in.ClientEmail},
			{invoice.FieldClientAddress, "Client Address", "text", in.ClientAddress},
			{invoice.FieldServiceDescription, "Service Description", "text", in.ServiceDescription},
			{invoice.FieldAmount, "Amount (KSh)", "number", in.Amount},
			{invoice.FieldDiscount, "Discount (KSh)", "number", in.Discount},
			{invoice.FieldDate, "Invoice Date", "date", in.Date},
			{invoice.FieldDueDate, "Due Date", "date", in.DueDate},
			{invoice.FieldNotes, "Notes", "textarea", in.Notes},
		}
		for _, f := range fields {
			h.raw(`<label>`)
			h.text(f.label)
			if f.kind == "textarea" {
				h.raw(`<textarea`)
				h.attr("name", string(f.field))
				h.raw(` rows="3">`)
				h.text(f.value)
				h.raw(`</textarea></label>`)
				continue
			}
			h.raw(`<input`)
			h.attr("type", f.kind)
			h.attr("name", string(f.field))
			h.attr("value", f.value)
			h.raw(`></label>`)
		}

		h.raw(`<label><input type="checkbox"`)
		h.attr("name", string(invoice.FieldTaxEnabled))
		if in.TaxEnabled {
			h.raw(` checked`)
		}
		h.raw(`> Include VAT</label>`)

		h.raw(`<select`)
		h.attr("name", string(invoice.FieldPaymentMethod))
		h.raw(`>`)
		for _, m := range []entity.PaymentMethod{entity.PaymentMpesa, entity.PaymentCash, entity.PaymentBank} {
			h.raw(`<option`)
			h.attr("value", string(m))
			if m == in.PaymentMethod {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(m.Label())
			h.raw(`</option>`)
		}
		h.raw(`</select></form>`)

		h.raw(`<aside>`)
		h.raw(`<select name="template_id"`)
		h.attr("hx-put", base+"/template")
		h.attr("hx-target", "#"+PreviewElementID)
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)
		for _, t := range p.Templates {
			h.raw(`<option`)
			h.attr("value", t.ID)
			if t.ID == p.TemplateID {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(t.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)

		for _, s := range p.QuickServices {
			h.raw(`<button type="button"`)
			h.attr("hx-post", base+"/quick-services/"+s.ID)
			h.attr("hx-target", "#"+PreviewElementID)
			h.attr("hx-swap", "outerHTML")
			h.raw(`>`)
			h.text(s.Description)
			h.raw(`</button>`)
		}

		for _, a := range []struct {
			field invoice.Field
			label string
		}{
			{invoice.FieldBusinessLogo, "Business Logo"},
			{invoice.FieldClientSignature, "Client Signature"},
		} {
			h.raw(`<label>`)
			h.text(a.label)
			h.raw(`<input type="file" name="file" accept="image/*"`)
			h.attr("hx-post", base+"/attachments/"+string(a.field))
			h.attr("hx-encoding", "multipart/form-data")
			h.attr("hx-target", "#"+PreviewElementID)
			h.attr("hx-swap", "outerHTML")
			h.raw(`></label>`)
		}

		for _, action := range []struct{ path, label string }{
			{"/notifications/sms", "Send SMS"},
			{"/notifications/email", "Send Email"},
			{"/payments/mpesa", "Request M-Pesa Payment"},
		} {
			h.raw(`<button type="button" hx-swap="none"`)
			h.attr("hx-post", base+action.path)
			h.raw(`>`)
			h.text(action.label)
			h.raw(`</button>`)
		}

		h.raw(`<a`)
		h.attr("href", base+"/export")
		h.raw(`>Download PDF</a> <a`)
		h.attr("href", "/sessions/"+p.SessionID+"/print")
		h.raw(`>Print</a>`)

		if p.Document != nil {
			writePreview(h, p.Document)
		}
		h.raw(`</aside></main>`)
		h.raw(`<script>document.body.addEventListener("set-err-message",function(e){document.getElementById("error-banner").textContent=e.detail.value})</script>`)
		h.raw(`</body></html>`)

		return h.err
	})
}

// PrintPage writes a standalone page that opens the browser print dialog,
// used when PDF export cannot complete.
func PrintPage(doc *Document) templ.Component {
	return standalonePage(doc, true)
}

// InvoicePage writes the read-only invoice page linked from notifications.
func InvoicePage(doc *Document) templ.Component {
	return standalonePage(doc, false)
}

func standalonePage(doc *Document, print bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(doc.InvoiceNumber)
		h.raw(`</title><style>@media print{body{margin:0}}</style></head><body>`)
		writePreview(h, doc)
		if print {
			h.raw(`<script>window.addEventListener("load",function(){window.print()})</script>`)
		}
		h.raw(`</body></html>`)
		return h.err
	})
}
