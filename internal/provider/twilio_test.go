package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
)

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	resp     *HTTPResponse
	err      error
	requests []*HTTPRequest
}

func (m *mockHTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func newTwilioForTest(client HTTPClient) *Twilio {
	return NewTwilio(TwilioConfig{
		AccountSID:          "AC123",
		AuthToken:           "secret-token",
		MessagingServiceSID: "MG456",
	}, client)
}

func TestTwilio_Send_Success(t *testing.T) {
	mock := &mockHTTPClient{resp: &HTTPResponse{
		StatusCode: 201,
		Body:       []byte(`{"sid":"SM789","status":"queued"}`),
	}}
	tw := newTwilioForTest(mock)

	result, err := tw.Send(context.Background(), &Message{
		To:   "+15555550123",
		Body: "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProviderMessageID != "SM789" {
		t.Errorf("expected SID SM789, got %s", result.ProviderMessageID)
	}
	if result.Status != StatusQueued {
		t.Errorf("expected status queued, got %s", result.Status)
	}

	if len(mock.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mock.requests))
	}
	req := mock.requests[0]
	if req.Method != "POST" {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if !strings.Contains(req.URL, "/2010-04-01/Accounts/AC123/Messages.json") {
		t.Errorf("unexpected URL: %s", req.URL)
	}

	form, err := url.ParseQuery(string(req.Body))
	if err != nil {
		t.Fatalf("body is not form-encoded: %v", err)
	}
	if form.Get("To") != "+15555550123" {
		t.Errorf("expected To=+15555550123, got %s", form.Get("To"))
	}
	if form.Get("Body") != "hello" {
		t.Errorf("expected Body=hello, got %s", form.Get("Body"))
	}
	if form.Get("MessagingServiceSid") != "MG456" {
		t.Errorf("expected MessagingServiceSid=MG456, got %s", form.Get("MessagingServiceSid"))
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("AC123:secret-token"))
	if req.Headers["Authorization"] != wantAuth {
		t.Errorf("unexpected Authorization header: %s", req.Headers["Authorization"])
	}
	if req.Headers["Content-Type"] != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected Content-Type: %s", req.Headers["Content-Type"])
	}
}

func TestTwilio_Send_APIError(t *testing.T) {
	mock := &mockHTTPClient{resp: &HTTPResponse{
		StatusCode: 400,
		Body:       []byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`),
	}}
	tw := newTwilioForTest(mock)

	_, err := tw.Send(context.Background(), &Message{To: "bogus", Body: "x"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if !pe.Permanent {
		t.Error("invalid recipient should be classified permanent")
	}
	if pe.StatusCode != 400 {
		t.Errorf("expected status 400, got %d", pe.StatusCode)
	}
}

func TestTwilio_Send_TransportError(t *testing.T) {
	mock := &mockHTTPClient{err: errors.New("connection refused")}
	tw := newTwilioForTest(mock)

	_, err := tw.Send(context.Background(), &Message{To: "+15555550123", Body: "x"})
	if err == nil {
		t.Fatal("expected error for transport failure")
	}
	if !IsTransient(err) {
		t.Error("transport failures should be transient")
	}
}

func TestTwilio_HealthCheck(t *testing.T) {
	mock := &mockHTTPClient{resp: &HTTPResponse{StatusCode: 200, Body: []byte(`{}`)}}
	tw := newTwilioForTest(mock)

	if err := tw.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(mock.requests[0].URL, "/2010-04-01/Accounts/AC123.json") {
		t.Errorf("unexpected health check URL: %s", mock.requests[0].URL)
	}

	mock.resp = &HTTPResponse{StatusCode: 503}
	if err := tw.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for unhealthy response")
	}
}

func TestTwilio_DefaultEndpoint(t *testing.T) {
	tw := newTwilioForTest(&mockHTTPClient{})
	if !strings.HasPrefix(tw.messagesURL(), "https://api.twilio.com/") {
		t.Errorf("expected public API endpoint, got %s", tw.messagesURL())
	}
}
