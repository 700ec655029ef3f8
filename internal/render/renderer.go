package render

import (
	"github.com/garyjia/invoice-studio/internal/domain/invoice"
	"github.com/garyjia/invoice-studio/internal/domain/money"
	"github.com/garyjia/invoice-studio/internal/domain/template"
)

// Renderer builds documents. It holds no state besides the formatter and is
// safe for concurrent use.
type Renderer struct {
	formatter *money.Formatter
}

// NewRenderer creates a renderer that formats every amount with f.
func NewRenderer(f *money.Formatter) *Renderer {
	return &Renderer{formatter: f}
}

// Render draws snap with cfg. A nil snapshot yields the empty-state document.
func (r *Renderer) Render(snap *invoice.Snapshot, cfg template.Config) *Document {
	if snap == nil {
		return &Document{
			Empty: true,
			Style: cfg,
			Sections: []Section{{
				ID:    SectionEmpty,
				Nodes: []Node{{ID: NodePlaceholder, Kind: KindText, Value: PlaceholderText, Tone: ToneSecondary}},
			}},
		}
	}

	in := snap.Input
	labels := cfg.Labels
	figures := r.formatter.Display(snap.Breakdown)

	header := Section{ID: SectionHeader}
	header.Nodes = append(header.Nodes,
		Node{ID: NodeTitle, Kind: KindHeading, Value: labels.Invoice, Tone: TonePrimary},
		Node{ID: NodeInvoiceNumber, Kind: KindText, Value: labels.InvoiceNumber + snap.InvoiceNumber, Tone: ToneSecondary},
	)
	if cfg.ShowLogo && in.BusinessLogo != nil {
		header.Nodes = append(header.Nodes, Node{ID: NodeLogo, Kind: KindImage, Label: "Business Logo", Src: in.BusinessLogo.DataURI})
	}
	header.Nodes = append(header.Nodes, Node{ID: NodeBusinessName, Kind: KindHeading, Value: in.BusinessName, Tone: TonePrimary})
	header.Nodes = appendOptional(header.Nodes, NodeBusinessPhone, in.BusinessPhone)
	header.Nodes = appendOptional(header.Nodes, NodeBusinessEmail, in.BusinessEmail)
	header.Nodes = appendOptional(header.Nodes, NodeBusinessAddress, in.BusinessAddress)

	parties := Section{ID: SectionParties}
	parties.Nodes = append(parties.Nodes,
		Node{ID: NodeBillTo, Kind: KindHeading, Value: labels.BillTo, Tone: TonePrimary},
		Node{ID: NodeClientName, Kind: KindText, Value: in.ClientName, Tone: ToneText},
	)
	parties.Nodes = appendOptional(parties.Nodes, NodeClientPhone, in.ClientPhone)
	parties.Nodes = appendOptional(parties.Nodes, NodeClientEmail, in.ClientEmail)
	parties.Nodes = appendOptional(parties.Nodes, NodeClientAddress, in.ClientAddress)
	parties.Nodes = append(parties.Nodes, Node{ID: NodeDate, Kind: KindField, Label: labels.Date, Value: in.Date, Tone: ToneText})
	if cfg.ShowDueDate {
		parties.Nodes = append(parties.Nodes, Node{ID: NodeDueDate, Kind: KindField, Label: labels.DueDate, Value: in.DueDate, Tone: ToneText})
	}
	if cfg.ShowPaymentMethod {
		parties.Nodes = append(parties.Nodes, Node{ID: NodePaymentMethod, Kind: KindField, Label: labels.PaymentMethod, Value: in.PaymentMethod.Label(), Tone: ToneText})
	}

	service := Section{ID: SectionService, Nodes: []Node{
		{ID: NodeServiceTitle, Kind: KindHeading, Value: labels.ServiceDescription, Tone: TonePrimary},
		{ID: NodeService, Kind: KindText, Value: in.ServiceDescription, Tone: ToneText},
	}}

	totals := Section{ID: SectionTotals}
	totals.Nodes = append(totals.Nodes, Node{ID: NodeAmount, Kind: KindAmount, Label: labels.Amount, Value: figures.Amount, Tone: ToneText})
	if snap.Breakdown.HasDiscount() {
		totals.Nodes = append(totals.Nodes, Node{ID: NodeDiscount, Kind: KindAmount, Label: labels.Discount, Value: figures.Discount, Tone: ToneNegative})
	}
	totals.Nodes = append(totals.Nodes, Node{ID: NodeSubtotal, Kind: KindAmount, Label: labels.Subtotal, Value: figures.Subtotal, Tone: ToneText})
	if in.TaxEnabled && cfg.ShowTaxBreakdown {
		totals.Nodes = append(totals.Nodes, Node{
			ID:    NodeTax,
			Kind:  KindAmount,
			Label: labels.Tax + " (" + snap.TaxRate.String() + "%):",
			Value: figures.Tax,
			Tone:  ToneText,
		})
	}
	totals.Nodes = append(totals.Nodes, Node{ID: NodeTotal, Kind: KindAmount, Label: labels.Total, Value: figures.Total, Tone: ToneAccent})

	footer := Section{ID: SectionFooter}
	if cfg.ShowNotes && in.Notes != "" {
		footer.Nodes = append(footer.Nodes, Node{ID: NodeNotes, Kind: KindField, Label: labels.Notes, Value: in.Notes, Tone: ToneText})
	}
	if cfg.ShowSignature && in.ClientSignature != nil {
		footer.Nodes = append(footer.Nodes, Node{ID: NodeSignature, Kind: KindImage, Label: labels.Signature, Src: in.ClientSignature.DataURI})
	}

	return &Document{
		Version:       snap.Version,
		InvoiceNumber: snap.InvoiceNumber,
		Style:         cfg,
		Sections:      []Section{header, parties, service, totals, footer},
	}
}

func appendOptional(nodes []Node, id, value string) []Node {
	if value == "" {
		return nodes
	}
	return append(nodes, Node{ID: id, Kind: KindText, Value: value, Tone: ToneSecondary})
}
