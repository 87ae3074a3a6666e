package errors

import (
	"strings"
	"unicode"
)

// maxLabelLength bounds column labels and result names taken from the host.
const maxLabelLength = 256

// ValidateLabel validates a column label supplied by the host application.
// Labels become record keys and SVG text, so they must be non-empty,
// reasonably short and free of control characters.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeMalformedPayload, "column label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeMalformedPayload, "column label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedPayload, "column label %q contains control characters", label)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
