package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrExportInProgress is returned when a session already has an export running
	ErrExportInProgress = errors.New("export already in progress")

	// ErrUnknownQuickService is returned when a preset service id is unknown
	ErrUnknownQuickService = errors.New("unknown quick service")

	// ErrMissingRecipient is returned when neither the request nor the invoice carries a recipient
	ErrMissingRecipient = errors.New("missing recipient")

	// ErrInvalidTheme is returned for theme values other than light, dark or system
	ErrInvalidTheme = errors.New("invalid theme preference")
)

// ExportErrorKind distinguishes export failures by the remedy they need.
type ExportErrorKind string

const (
	// ExportEmpty means there was nothing to export; capture was never attempted
	ExportEmpty ExportErrorKind = "empty"
	// ExportContent means capture ran but produced no usable content
	ExportContent ExportErrorKind = "content"
	// ExportSecurity means capture was refused by a content restriction
	ExportSecurity ExportErrorKind = "security"
	// ExportUnknown covers every other capture or pagination failure
	ExportUnknown ExportErrorKind = "unknown"
)

// FallbackPrint is the degraded path offered for every export failure.
const FallbackPrint = "print"

var exportRemedies = map[ExportErrorKind]string{
	ExportEmpty:    "Fill in the invoice details so the preview shows an invoice, then try again.",
	ExportContent:  "Check that the preview shows the invoice, then try again or use Print.",
	ExportSecurity: "Remove or re-upload images that were not uploaded from this device, then try again or use Print.",
	ExportUnknown:  "Try again, or use Print and save as PDF from the print dialog.",
}

// ExportError is a classified export failure.
type ExportError struct {
	Kind     ExportErrorKind `json:"kind"`
	Message  string          `json:"message"`
	Remedy   string          `json:"remedy"`
	Fallback string          `json:"fallback"`
	Err      error           `json:"-"`
}

func newExportError(kind ExportErrorKind, message string, err error) *ExportError {
	return &ExportError{
		Kind:     kind,
		Message:  message,
		Remedy:   exportRemedies[kind],
		Fallback: FallbackPrint,
		Err:      err,
	}
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("export %s: %s", e.Kind, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
