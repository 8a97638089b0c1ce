package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockReprocessor implements queue.Reprocessor for testing.
type mockReprocessor struct {
	maxSeen int
	moved   int
	err     error
}

func (m *mockReprocessor) Reprocess(_ context.Context, max int) (int, error) {
	m.maxSeen = max
	if m.err != nil {
		return 0, m.err
	}
	return m.moved, nil
}

func postReprocess(t *testing.T, reproc *mockReprocessor, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/dlq/reprocess", strings.NewReader(body))
	rec := httptest.NewRecorder()
	DLQReprocessHandler(reproc)(rec, req)
	return rec
}

func TestDLQReprocess_Success(t *testing.T) {
	reproc := &mockReprocessor{moved: 3}
	rec := postReprocess(t, reproc, `{"max":25}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reproc.maxSeen != 25 {
		t.Errorf("expected max 25 passed through, got %d", reproc.maxSeen)
	}

	var resp dlqReprocessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reprocessed != 3 {
		t.Errorf("expected reprocessed 3, got %d", resp.Reprocessed)
	}
}

func TestDLQReprocess_DefaultMax(t *testing.T) {
	reproc := &mockReprocessor{}
	rec := postReprocess(t, reproc, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reproc.maxSeen != 10 {
		t.Errorf("expected default max 10, got %d", reproc.maxSeen)
	}
}

func TestDLQReprocess_InvalidBody(t *testing.T) {
	rec := postReprocess(t, &mockReprocessor{}, "{bad json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDLQReprocess_NonPositiveMax(t *testing.T) {
	rec := postReprocess(t, &mockReprocessor{}, `{"max":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDLQReprocess_Failure(t *testing.T) {
	rec := postReprocess(t, &mockReprocessor{err: errors.New("sqs unavailable")}, `{"max":5}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
