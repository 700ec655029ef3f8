// Package invoice holds the editable invoice input, the state-transition
// function applied on every form edit and the assembler that produces the
// immutable snapshot consumed by rendering and export.
package invoice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// DateLayout is the calendar date format used by every date field.
const DateLayout = "2006-01-02"

var (
	// ErrUnknownField is returned when an edit names a field that does not exist
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue is returned when an edit carries a value the field cannot hold
	ErrInvalidValue = errors.New("invalid field value")
)

// Input is the user-supplied invoice data of one editing session.
// Amount and Discount stay raw strings; parsing happens in the calculator.
type Input struct {
	BusinessName    string `json:"business_name"`
	BusinessPhone   string `json:"business_phone"`
	BusinessEmail   string `json:"business_email"`
	BusinessAddress string `json:"business_address"`

	ClientName    string `json:"client_name"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email"`
	ClientAddress string `json:"client_address"`

	ServiceDescription string               `json:"service_description"`
	Amount             string               `json:"amount"`
	Discount           string               `json:"discount"`
	TaxEnabled         bool                 `json:"tax_enabled"`
	PaymentMethod      entity.PaymentMethod `json:"payment_method"`

	Date    string `json:"date"`
	DueDate string `json:"due_date"`

	BusinessLogo    *entity.Attachment `json:"business_logo,omitempty"`
	ClientSignature *entity.Attachment `json:"client_signature,omitempty"`

	Notes     string                    `json:"notes"`
	Recurring *entity.RecurringSchedule `json:"recurring,omitempty"`
}

// NewInput returns a blank input dated today with the due date dueDays later.
func NewInput(today time.Time, dueDays int, method entity.PaymentMethod) Input {
	return Input{
		PaymentMethod: method,
		Date:          today.Format(DateLayout),
		DueDate:       today.AddDate(0, 0, dueDays).Format(DateLayout),
	}
}

// Field names an editable Input field.
type Field string

const (
	FieldBusinessName       Field = "businessName"
	FieldBusinessPhone      Field = "businessPhone"
	FieldBusinessEmail      Field = "businessEmail"
	FieldBusinessAddress    Field = "businessAddress"
	FieldClientName         Field = "clientName"
	FieldClientPhone        Field = "clientPhone"
	FieldClientEmail        Field = "clientEmail"
	FieldClientAddress      Field = "clientAddress"
	FieldServiceDescription Field = "serviceDescription"
	FieldAmount             Field = "amount"
	FieldDiscount           Field = "discount"
	FieldTaxEnabled         Field = "taxEnabled"
	FieldPaymentMethod      Field = "paymentMethod"
	FieldDate               Field = "date"
	FieldDueDate            Field = "dueDate"
	FieldBusinessLogo       Field = "businessLogo"
	FieldClientSignature    Field = "clientSignature"
	FieldNotes              Field = "notes"
	FieldRecurring          Field = "recurring"
	FieldRecurringEnd       Field = "recurringEndDate"
)

// FieldEdit is one change to one field. Attachment fields read Attachment
// (nil removes it); every other field reads Value.
type FieldEdit struct {
	Field      Field              `json:"field"`
	Value      string             `json:"value"`
	Attachment *entity.Attachment `json:"-"`
}

// Apply returns in with edit applied. in is never modified; on error the
// returned Input equals in.
func Apply(in Input, edit FieldEdit) (Input, error) {
	out := in
	if in.Recurring != nil {
		r := *in.Recurring
		out.Recurring = &r
	}

	switch edit.Field {
	case FieldBusinessName:
		out.BusinessName = edit.Value
	case FieldBusinessPhone:
		out.BusinessPhone = edit.Value
	case FieldBusinessEmail:
		out.BusinessEmail = edit.Value
	case FieldBusinessAddress:
		out.BusinessAddress = edit.Value
	case FieldClientName:
		out.ClientName = edit.Value
	case FieldClientPhone:
		out.ClientPhone = edit.Value
	case FieldClientEmail:
		out.ClientEmail = edit.Value
	case FieldClientAddress:
		out.ClientAddress = edit.Value
	case FieldServiceDescription:
		out.ServiceDescription = edit.Value
	case FieldAmount:
		out.Amount = edit.Value
	case FieldDiscount:
		out.Discount = edit.Value
	case FieldNotes:
		out.Notes = edit.Value
	case FieldTaxEnabled:
		enabled, err := parseToggle(edit.Value)
		if err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInvalidValue, edit.Field, err)
		}
		out.TaxEnabled = enabled
	case FieldPaymentMethod:
		method, err := entity.ParsePaymentMethod(edit.Value)
		if err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInvalidValue, edit.Field, err)
		}
		out.PaymentMethod = method
	case FieldDate, FieldDueDate:
		if edit.Value != "" {
			if _, err := time.Parse(DateLayout, edit.Value); err != nil {
				return in, fmt.Errorf("%w: %s: %q is not a date", ErrInvalidValue, edit.Field, edit.Value)
			}
		}
		if edit.Field == FieldDate {
			out.Date = edit.Value
		} else {
			out.DueDate = edit.Value
		}
	case FieldBusinessLogo:
		out.BusinessLogo = edit.Attachment
	case FieldClientSignature:
		out.ClientSignature = edit.Attachment
	case FieldRecurring:
		if edit.Value == "" {
			out.Recurring = nil
			break
		}
		schedule := entity.RecurringSchedule{Frequency: entity.Frequency(edit.Value)}
		if out.Recurring != nil {
			schedule.EndDate = out.Recurring.EndDate
		}
		if err := schedule.Validate(); err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInvalidValue, edit.Field, err)
		}
		out.Recurring = &schedule
	case FieldRecurringEnd:
		if out.Recurring == nil {
			return in, fmt.Errorf("%w: %s: invoice is not recurring", ErrInvalidValue, edit.Field)
		}
		if edit.Value == "" {
			out.Recurring.EndDate = nil
			break
		}
		end, err := time.Parse(DateLayout, edit.Value)
		if err != nil {
			return in, fmt.Errorf("%w: %s: %q is not a date", ErrInvalidValue, edit.Field, edit.Value)
		}
		out.Recurring.EndDate = &end
	default:
		return in, fmt.Errorf("%w: %q", ErrUnknownField, edit.Field)
	}

	return out, nil
}

// parseToggle accepts strconv booleans plus the "on"/"off" values HTML
// checkboxes submit.
func parseToggle(raw string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "on":
		return true, nil
	case "off", "":
		return false, nil
	}
	return strconv.ParseBool(v)
}
