package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-studio/internal/domain/money"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("invoice validation failed")

// FieldError describes one invalid field.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a snapshot.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var (
	outOfRange    = fmt.Sprintf("must be less than %s", money.MaxAmount.String())
	errOutOfRange = errors.New("out of range")
)

// Validate checks the rules an invoice must satisfy before it is issued
// (exported, sent or paid). Editing and previewing never validate.
func Validate(s *Snapshot) error {
	var fields []FieldError
	add := func(f Field, msg string) {
		fields = append(fields, FieldError{Field: f, Message: msg})
	}

	in := s.Input
	if strings.TrimSpace(in.BusinessName) == "" {
		add(FieldBusinessName, "is required")
	}
	if strings.TrimSpace(in.ClientName) == "" {
		add(FieldClientName, "is required")
	}
	if strings.TrimSpace(in.ServiceDescription) == "" {
		add(FieldServiceDescription, "is required")
	}

	amount, amountErr := decimal.NewFromString(strings.TrimSpace(in.Amount))
	switch {
	case strings.TrimSpace(in.Amount) == "":
		add(FieldAmount, "is required")
	case amountErr != nil:
		add(FieldAmount, "must be a number")
	case !money.InRange(amount):
		add(FieldAmount, outOfRange)
		amountErr = errOutOfRange
	case amount.IsNegative():
		add(FieldAmount, "must not be negative")
	}

	if raw := strings.TrimSpace(in.Discount); raw != "" {
		discount, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			add(FieldDiscount, "must be a number")
		case !money.InRange(discount):
			add(FieldDiscount, outOfRange)
		case discount.IsNegative():
			add(FieldDiscount, "must not be negative")
		case amountErr == nil && discount.GreaterThan(amount):
			add(FieldDiscount, "must not exceed the amount")
		}
	}

	if amountErr == nil && !money.InRange(s.Breakdown.Total) {
		add(FieldAmount, "gives a total that is too large")
	}

	date, dateErr := time.Parse(DateLayout, in.Date)
	if dateErr != nil {
		add(FieldDate, "must be a date")
	}
	if due, err := time.Parse(DateLayout, in.DueDate); err != nil {
		add(FieldDueDate, "must be a date")
	} else if dateErr == nil && due.Before(date) {
		add(FieldDueDate, "must not be before the invoice date")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
