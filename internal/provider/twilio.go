package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const twilioDefaultEndpoint = "https://api.twilio.com"

// TwilioConfig holds the credentials and tuning for the Twilio REST API.
type TwilioConfig struct {
	AccountSID          string
	AuthToken           string
	MessagingServiceSID string
	// Endpoint overrides the API base URL; empty means the public API.
	Endpoint string
}

// Twilio implements the Provider interface for the Twilio Messages API.
type Twilio struct {
	accountSID          string
	authToken           string
	messagingServiceSID string
	endpoint            string
	client              HTTPClient
}

// NewTwilio creates a Twilio provider from the given configuration.
func NewTwilio(cfg TwilioConfig, client HTTPClient) *Twilio {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = twilioDefaultEndpoint
	}
	return &Twilio{
		accountSID:          cfg.AccountSID,
		authToken:           cfg.AuthToken,
		messagingServiceSID: cfg.MessagingServiceSID,
		endpoint:            endpoint,
		client:              client,
	}
}

func (t *Twilio) GetName() string { return "twilio" }

// twilioMessageResponse is the subset of the Messages API response we read.
type twilioMessageResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

// Send delivers a message via POST /2010-04-01/Accounts/{sid}/Messages.json.
// The sender identity is the configured messaging service.
func (t *Twilio) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)
	form.Set("MessagingServiceSid", t.messagingServiceSID)

	resp, err := t.client.Do(&HTTPRequest{
		Method: "POST",
		URL:    t.messagesURL(),
		Headers: map[string]string{
			"Authorization": t.basicAuth(),
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: []byte(form.Encode()),
	})
	if err != nil {
		return nil, fmt.Errorf("twilio: send request: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed twilioMessageResponse
		if err := json.Unmarshal(resp.Body, &parsed); err != nil {
			return nil, fmt.Errorf("twilio: parse response: %w", err)
		}
		status := StatusQueued
		if parsed.Status == "sent" {
			status = StatusSent
		}
		return &DeliveryResult{
			ProviderMessageID: parsed.Sid,
			Status:            status,
			Timestamp:         time.Now(),
		}, nil
	}

	return nil, ClassifyHTTPError("twilio", resp.StatusCode, string(resp.Body))
}

// HealthCheck verifies API connectivity by fetching the account resource.
func (t *Twilio) HealthCheck(ctx context.Context) error {
	resp, err := t.client.Do(&HTTPRequest{
		Method: "GET",
		URL:    fmt.Sprintf("%s/2010-04-01/Accounts/%s.json", t.endpoint, t.accountSID),
		Headers: map[string]string{
			"Authorization": t.basicAuth(),
		},
	})
	if err != nil {
		return fmt.Errorf("twilio: health check request: %w", err)
	}

	if resp.StatusCode != 200 {
		return fmt.Errorf("twilio: health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (t *Twilio) messagesURL() string {
	return fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.endpoint, t.accountSID)
}

func (t *Twilio) basicAuth() string {
	creds := t.accountSID + ":" + t.authToken
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}
