// Package render turns an invoice snapshot and a resolved template
// configuration into a presentation-neutral document tree, and writes that
// tree as HTML.
package render

import "github.com/garyjia/invoice-studio/internal/domain/template"

// Kind is the shape of a document node.
type Kind string

const (
	KindHeading Kind = "heading"
	KindText    Kind = "text"
	KindField   Kind = "field"
	KindAmount  Kind = "amount"
	KindImage   Kind = "image"
)

// Tone selects which configured color a node is drawn in.
type Tone string

const (
	ToneText      Tone = "text"
	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
	ToneAccent    Tone = "accent"
	ToneNegative  Tone = "negative"
)

// NegativeColor is the fixed color of the discount figure.
const NegativeColor = "#dc2626"

// Stable node ids. Conditional lines are only present when shown.
const (
	NodePlaceholder     = "placeholder"
	NodeTitle           = "title"
	NodeInvoiceNumber   = "invoice_number"
	NodeLogo            = "logo"
	NodeBusinessName    = "business_name"
	NodeBusinessPhone   = "business_phone"
	NodeBusinessEmail   = "business_email"
	NodeBusinessAddress = "business_address"
	NodeBillTo          = "bill_to"
	NodeClientName      = "client_name"
	NodeClientPhone     = "client_phone"
	NodeClientEmail     = "client_email"
	NodeClientAddress   = "client_address"
	NodeDate            = "date"
	NodeDueDate         = "due_date"
	NodePaymentMethod   = "payment_method"
	NodeServiceTitle    = "service_title"
	NodeService         = "service"
	NodeAmount          = "amount"
	NodeDiscount        = "discount"
	NodeSubtotal        = "subtotal"
	NodeTax             = "tax"
	NodeTotal           = "total"
	NodeNotes           = "notes"
	NodeSignature       = "signature"
)

// Section ids in drawing order.
const (
	SectionEmpty   = "empty"
	SectionHeader  = "header"
	SectionParties = "parties"
	SectionService = "service"
	SectionTotals  = "totals"
	SectionFooter  = "footer"
)

// PlaceholderText is shown when no invoice has been assembled yet.
const PlaceholderText = "No invoice data available. Please fill in the form to generate an invoice."

// Node is one drawable element.
type Node struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
	Src   string `json:"src,omitempty"`
	Tone  Tone   `json:"tone"`
}

// Section groups nodes drawn together.
type Section struct {
	ID    string `json:"id"`
	Nodes []Node `json:"nodes"`
}

// Document is the rendered invoice.
type Document struct {
	Empty         bool            `json:"empty"`
	Version       uint64          `json:"version"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Style         template.Config `json:"style"`
	Sections      []Section       `json:"sections"`
}

// Find returns the node with the given id.
func (d *Document) Find(id string) (Node, bool) {
	for _, s := range d.Sections {
		for _, n := range s.Nodes {
			if n.ID == id {
				return n, true
			}
		}
	}
	return Node{}, false
}

// Has reports whether a node with the given id is present
func (d *Document) Has(id string) bool {
	_, ok := d.Find(id)
	return ok
}

// Images returns every image node in drawing order
func (d *Document) Images() []Node {
	var out []Node
	for _, s := range d.Sections {
		for _, n := range s.Nodes {
			if n.Kind == KindImage {
				out = append(out, n)
			}
		}
	}
	return out
}

// Color returns the configured color for a tone.
func (d *Document) Color(t Tone) string {
	switch t {
	case TonePrimary:
		return d.Style.PrimaryColor
	case ToneSecondary:
		return d.Style.SecondaryColor
	case ToneAccent:
		return d.Style.AccentColor
	case ToneNegative:
		return NegativeColor
	default:
		return d.Style.TextColor
	}
}
