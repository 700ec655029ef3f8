package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEmail is returned for malformed email addresses
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPhone is returned for malformed phone numbers
	ErrInvalidPhone = errors.New("invalid phone number")
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return nil
}

// ValidatePhone accepts 9 to 15 digits with an optional leading +,
// ignoring spaces and dashes.
func ValidatePhone(phone string) error {
	compact := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !phoneRegex.MatchString(compact) {
		return fmt.Errorf("%w: %s", ErrInvalidPhone, phone)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
