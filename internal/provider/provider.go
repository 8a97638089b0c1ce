package provider

import (
	"context"
	"time"
)

// Provider defines the interface for delivering an SMS through a messaging
// service.
type Provider interface {
	// Send delivers a message and returns a delivery result.
	Send(ctx context.Context, msg *Message) (*DeliveryResult, error)
	// GetName returns the provider's identifier (e.g., "twilio").
	GetName() string
	// HealthCheck verifies the provider is reachable and functional.
	HealthCheck(ctx context.Context) error
}

// HTTPClient abstracts HTTP operations for testability.
type HTTPClient interface {
	Do(req *HTTPRequest) (*HTTPResponse, error)
}

// HTTPRequest represents an outgoing HTTP request.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse represents an HTTP response from a provider API.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Message represents an SMS to be delivered.
type Message struct {
	// To is the recipient phone number in E.164 format.
	To string
	// Body is the rendered message text.
	Body string
}

// DeliveryResult contains the outcome of a delivery attempt.
type DeliveryResult struct {
	// ProviderMessageID is the provider-assigned delivery identifier
	// (Twilio message SID).
	ProviderMessageID string
	Status            DeliveryStatus
	Timestamp         time.Time
}

// DeliveryStatus represents the provider-reported state of a delivery.
type DeliveryStatus string

const (
	StatusQueued DeliveryStatus = "queued"
	StatusSent   DeliveryStatus = "sent"
	StatusFailed DeliveryStatus = "failed"
)
