package provider

import (
	"errors"
	"strings"
)

// ProviderError wraps a messaging API error with classification metadata.
type ProviderError struct {
	// Provider is the name of the service that returned the error.
	Provider string
	// StatusCode is the HTTP status code from the provider API.
	StatusCode int
	// Message is the error description from the provider API.
	Message string
	// Permanent indicates the error will not succeed on retry.
	Permanent bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Message
}

// IsPermanent returns true if the error is a permanent failure that
// redelivery cannot fix.
func IsPermanent(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Permanent
	}
	return false
}

// IsTransient returns true if the error is a temporary failure that may
// succeed on redelivery.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return !pe.Permanent
	}
	// Unknown errors are treated as transient to avoid data loss.
	return true
}

// ClassifyHTTPError creates a ProviderError from an HTTP status code and
// response body, classifying it as permanent or transient.
func ClassifyHTTPError(providerName string, statusCode int, body string) *ProviderError {
	pe := &ProviderError{
		Provider:   providerName,
		StatusCode: statusCode,
		Message:    body,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		// Not an error.
		return nil

	case statusCode == 400:
		pe.Permanent = containsPermanentIndicator(body)

	case statusCode == 401, statusCode == 403, statusCode == 404:
		pe.Permanent = true

	case statusCode == 429:
		// Rate limited - always transient.
		pe.Permanent = false

	case statusCode >= 500:
		pe.Permanent = false

	default:
		// Other 4xx codes are treated as permanent.
		pe.Permanent = statusCode >= 400 && statusCode < 500
	}

	return pe
}

// containsPermanentIndicator checks if a 400 response body indicates a
// permanent failure (e.g., an invalid recipient number that will never
// accept delivery).
func containsPermanentIndicator(body string) bool {
	lower := strings.ToLower(body)
	permanentPatterns := []string{
		"is not a valid phone number",
		"invalid 'to' phone number",
		"not a mobile number",
		"unsubscribed recipient",
		"blacklist",
		"permanently unreachable",
		"invalid messagingservicesid",
	}
	for _, pattern := range permanentPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
