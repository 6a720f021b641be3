package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks the basic shape of an email address
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateBusinessName checks the submitted business name
func ValidateBusinessName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("business name cannot be empty")
	}
	if len(name) > 200 {
		return fmt.Errorf("business name too long (max 200 chars)")
	}
	return nil
}

// ValidateShareCode checks the share code wire format: exactly 6 lowercase
// alphanumerics. Casing lain ditolak, bukan dinormalisasi.
func ValidateShareCode(code string) error {
	matched, _ := regexp.MatchString(`^[a-z0-9]{6}$`, code)
	if !matched {
		return fmt.Errorf("invalid share code format (6 lowercase alphanumerics)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
