package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/event"
	"github.com/payslice/sms-relay/internal/provider"
)

// mockProvider implements provider.Provider for testing.
type mockProvider struct {
	sent    []*provider.Message
	sendErr error
}

func (m *mockProvider) Send(_ context.Context, msg *provider.Message) (*provider.DeliveryResult, error) {
	m.sent = append(m.sent, msg)
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return &provider.DeliveryResult{ProviderMessageID: "SM999", Status: provider.StatusSent}, nil
}

func (m *mockProvider) GetName() string { return "mock" }

func (m *mockProvider) HealthCheck(_ context.Context) error { return nil }

const approvedJob = `{"event_id":"e1","event":"advance_approved","user":{"phone":"+15555550123"},"amount":185.0}`

func TestHandleMessage_SendsRenderedBody(t *testing.T) {
	prov := &mockProvider{}
	h := NewHandler(prov, zerolog.Nop())

	if err := h.HandleMessage(context.Background(), []byte(approvedJob)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prov.sent) != 1 {
		t.Fatalf("expected exactly one provider call, got %d", len(prov.sent))
	}
	if prov.sent[0].To != "+15555550123" {
		t.Errorf("unexpected recipient: %s", prov.sent[0].To)
	}
	if !strings.Contains(prov.sent[0].Body, "$185.00") {
		t.Errorf("body should contain formatted amount, got %q", prov.sent[0].Body)
	}
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	prov := &mockProvider{}
	h := NewHandler(prov, zerolog.Nop())

	if err := h.HandleMessage(context.Background(), []byte("not json")); err == nil {
		t.Fatal("malformed payload must return an error")
	}
	if len(prov.sent) != 0 {
		t.Errorf("malformed payload must not reach the provider, got %d sends", len(prov.sent))
	}
}

func TestHandleMessage_MissingPhone(t *testing.T) {
	prov := &mockProvider{}
	h := NewHandler(prov, zerolog.Nop())

	payload := `{"event_id":"e1","event":"advance_approved","user":{},"amount":185.0}`
	if err := h.HandleMessage(context.Background(), []byte(payload)); err == nil {
		t.Fatal("job without a phone must return an error")
	}
	if len(prov.sent) != 0 {
		t.Errorf("expected zero provider calls, got %d", len(prov.sent))
	}
}

func TestHandleMessage_UnsupportedEvent(t *testing.T) {
	prov := &mockProvider{}
	h := NewHandler(prov, zerolog.Nop())

	payload := `{"event_id":"e1","event":"advance_rejected","user":{"phone":"+15555550123"},"amount":185.0}`
	err := h.HandleMessage(context.Background(), []byte(payload))
	if !errors.Is(err, event.ErrUnsupportedEvent) {
		t.Fatalf("expected ErrUnsupportedEvent, got %v", err)
	}
	if len(prov.sent) != 0 {
		t.Errorf("expected zero provider calls, got %d", len(prov.sent))
	}
}

func TestHandleMessage_ProviderFailure(t *testing.T) {
	prov := &mockProvider{sendErr: errors.New("provider down")}
	h := NewHandler(prov, zerolog.Nop())

	if err := h.HandleMessage(context.Background(), []byte(approvedJob)); err == nil {
		t.Fatal("provider failure must leave the record unacknowledged")
	}
}
