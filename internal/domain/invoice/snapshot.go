package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/domain/money"
)

// Snapshot is the immutable, normalized invoice handed to renderers and
// exporters. Its Breakdown is the only source of amounts downstream.
type Snapshot struct {
	Version       uint64          `json:"version"`
	InvoiceNumber string          `json:"invoice_number"`
	Input         Input           `json:"input"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Breakdown     money.Breakdown `json:"breakdown"`
}

// Assemble copies in, fills the due date from the date when it is empty and
// embeds the breakdown computed at taxRate.
func Assemble(in Input, invoiceNumber string, taxRate decimal.Decimal) *Snapshot {
	normalized := in
	if normalized.DueDate == "" {
		normalized.DueDate = normalized.Date
	}
	if in.Recurring != nil {
		r := *in.Recurring
		normalized.Recurring = &r
	}

	return &Snapshot{
		InvoiceNumber: invoiceNumber,
		Input:         normalized,
		TaxRate:       taxRate,
		Breakdown:     money.Compute(in.Amount, in.Discount, in.TaxEnabled, taxRate),
	}
}

// WithVersion returns a copy of s carrying version v.
func (s *Snapshot) WithVersion(v uint64) *Snapshot {
	cp := *s
	cp.Version = v
	return &cp
}

// HasLogo reports whether a business logo is attached
func (s *Snapshot) HasLogo() bool {
	return s.Input.BusinessLogo != nil
}

// HasSignature reports whether a client signature is attached
func (s *Snapshot) HasSignature() bool {
	return s.Input.ClientSignature != nil
}

// Attachments returns the attachments present on the snapshot
func (s *Snapshot) Attachments() []*entity.Attachment {
	out := make([]*entity.Attachment, 0, 2)
	if s.HasLogo() {
		out = append(out, s.Input.BusinessLogo)
	}
	if s.HasSignature() {
		out = append(out, s.Input.ClientSignature)
	}
	return out
}

// IssueDate parses Input.Date. The zero time is returned when it is empty or malformed.
func (s *Snapshot) IssueDate() time.Time {
	t, _ := time.Parse(DateLayout, s.Input.Date)
	return t
}
