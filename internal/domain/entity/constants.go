package entity

import "fmt"

// PaymentMethod is how the client is expected to pay.
type PaymentMethod string

// Payment method constants
const (
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCash  PaymentMethod = "cash"
	PaymentBank  PaymentMethod = "bank"
)

// ParsePaymentMethod validates a raw payment method value
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(raw); m {
	case PaymentMpesa, PaymentCash, PaymentBank:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
}

// Label returns the display label used on the invoice
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMpesa:
		return "M-Pesa"
	case PaymentCash:
		return "Cash"
	case PaymentBank:
		return "Bank Transfer"
	default:
		return string(m)
	}
}

// ThemePreference is the persisted color scheme choice.
type ThemePreference string

// Theme constants
const (
	ThemeLight  ThemePreference = "light"
	ThemeDark   ThemePreference = "dark"
	ThemeSystem ThemePreference = "system"
)

// IsValid reports whether t is one of light, dark or system
func (t ThemePreference) IsValid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// Resolve maps system to the scheme reported by the client. An unknown or
// missing signal resolves to light.
func (t ThemePreference) Resolve(signal string) ThemePreference {
	if t != ThemeSystem {
		return t
	}
	if ThemePreference(signal) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Backup record status constants
const (
	BackupStatusDraft  = "draft"
	BackupStatusIssued = "issued"
	BackupStatusPaid   = "paid"
)
