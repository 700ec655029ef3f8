// Package template holds the invoice style catalog and resolves a selected
// style into the configuration consumed by the preview renderer.
package template

// Layout is the structural variant of the invoice preview.
type Layout string

const (
	LayoutModern    Layout = "modern"
	LayoutClassic   Layout = "classic"
	LayoutMinimal   Layout = "minimal"
	LayoutCorporate Layout = "corporate"
)

// IsValid reports whether l is a known layout.
func (l Layout) IsValid() bool {
	switch l {
	case LayoutModern, LayoutClassic, LayoutMinimal, LayoutCorporate:
		return true
	default:
		return false
	}
}

// Colors is a template's brand palette. Empty optional colors are absent.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Options are the structural switches a template controls.
type Options struct {
	Layout           Layout `json:"layout"`
	ShowLogo         bool   `json:"show_logo"`
	ShowSignature    bool   `json:"show_signature"`
	ShowTaxBreakdown bool   `json:"show_tax_breakdown"`
	BorderRadius     string `json:"border_radius"`
	Spacing          string `json:"spacing"`
}

// Template is a named, immutable style descriptor.
type Template struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Colors Colors  `json:"colors"`
	Config Options `json:"config"`
}

// Labels is the text dictionary of every preview string.
type Labels struct {
	Invoice            string `json:"invoice"`
	InvoiceNumber      string `json:"invoice_number"`
	BillTo             string `json:"bill_to"`
	Date               string `json:"date"`
	DueDate            string `json:"due_date"`
	PaymentMethod      string `json:"payment_method"`
	ServiceDescription string `json:"service_description"`
	Amount             string `json:"amount"`
	Discount           string `json:"discount"`
	Subtotal           string `json:"subtotal"`
	Tax                string `json:"tax"`
	Total              string `json:"total"`
	Notes              string `json:"notes"`
	Signature          string `json:"signature"`
}

// Config is the fully resolved configuration the renderer reads.
type Config struct {
	Layout            Layout `json:"layout"`
	PrimaryColor      string `json:"primary_color"`
	SecondaryColor    string `json:"secondary_color"`
	BackgroundColor   string `json:"background_color"`
	TextColor         string `json:"text_color"`
	AccentColor       string `json:"accent_color"`
	FontFamily        string `json:"font_family"`
	HeadingSize       string `json:"heading_size"`
	BodySize          string `json:"body_size"`
	ShowLogo          bool   `json:"show_logo"`
	ShowSignature     bool   `json:"show_signature"`
	ShowTaxBreakdown  bool   `json:"show_tax_breakdown"`
	ShowPaymentMethod bool   `json:"show_payment_method"`
	ShowNotes         bool   `json:"show_notes"`
	ShowDueDate       bool   `json:"show_due_date"`
	BorderRadius      string `json:"border_radius"`
	Shadow            string `json:"shadow"`
	Spacing           string `json:"spacing"`
	Labels            Labels `json:"labels"`
}

// Default returns the baseline configuration used when no template is
// selected and as the base every template is merged onto.
func Default() Config {
	return Config{
		Layout:            LayoutModern,
		PrimaryColor:      "#ea580c",
		SecondaryColor:    "#6b7280",
		BackgroundColor:   "#ffffff",
		TextColor:         "#111827",
		AccentColor:       "#16a34a",
		FontFamily:        "Inter, system-ui, sans-serif",
		HeadingSize:       "2rem",
		BodySize:          "0.875rem",
		ShowLogo:          true,
		ShowSignature:     true,
		ShowTaxBreakdown:  true,
		ShowPaymentMethod: true,
		ShowNotes:         true,
		ShowDueDate:       true,
		BorderRadius:      "0.5rem",
		Shadow:            "0 10px 15px -3px rgba(0, 0, 0, 0.1)",
		Spacing:           "normal",
		Labels: Labels{
			Invoice:            "INVOICE",
			InvoiceNumber:      "Invoice #: ",
			BillTo:             "Bill To:",
			Date:               "Date:",
			DueDate:            "Due Date:",
			PaymentMethod:      "Payment Method:",
			ServiceDescription: "Service Description",
			Amount:             "Amount:",
			Discount:           "Discount:",
			Subtotal:           "Subtotal:",
			Tax:                "VAT",
			Total:              "Total:",
			Notes:              "Notes:",
			Signature:          "Signature:",
		},
	}
}

// Resolve merges the selected template onto Default, one field at a time.
// Branding (colors, layout, logo/signature/tax visibility, radius, spacing)
// comes from the template; fonts, labels and the payment method, notes and
// due date switches always come from Default. A nil template yields Default.
func Resolve(selected *Template) Config {
	cfg := Default()
	if selected == nil {
		return cfg
	}

	cfg.Layout = selected.Config.Layout
	cfg.PrimaryColor = selected.Colors.Primary
	cfg.SecondaryColor = selected.Colors.Secondary
	if selected.Colors.Background != "" {
		cfg.BackgroundColor = selected.Colors.Background
	}
	if selected.Colors.Text != "" {
		cfg.TextColor = selected.Colors.Text
	}
	if selected.Colors.Accent != "" {
		cfg.AccentColor = selected.Colors.Accent
	} else {
		cfg.AccentColor = selected.Colors.Primary
	}
	cfg.ShowLogo = selected.Config.ShowLogo
	cfg.ShowSignature = selected.Config.ShowSignature
	cfg.ShowTaxBreakdown = selected.Config.ShowTaxBreakdown
	cfg.BorderRadius = selected.Config.BorderRadius
	cfg.Spacing = selected.Config.Spacing

	return cfg
}
