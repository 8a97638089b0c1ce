package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/payslice/sms-relay/internal/event"
	"github.com/payslice/sms-relay/internal/ingest"
	"github.com/payslice/sms-relay/internal/logger"
)

// ingestResponse is the JSON body returned by POST /v1/events.
type ingestResponse struct {
	Queued     bool   `json:"queued,omitempty"`
	Duplicate  bool   `json:"duplicate,omitempty"`
	Sent       bool   `json:"sent,omitempty"`
	MessageSID string `json:"message_sid,omitempty"`
}

// IngestHandler handles POST /v1/events. It validates the inbound event and
// hands it to the ingest service; validation failures never reach the
// provider or the queue.
func IngestHandler(svc *ingest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var ev event.InboundEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if details := validateInbound(&ev); len(details) > 0 {
			respondValidationErrors(w, details)
			return
		}

		t, ok := event.ParseType(string(ev.Event))
		if !ok {
			respondError(w, http.StatusBadRequest, "unsupported event type: "+string(ev.Event))
			return
		}
		ev.Event = t

		out, err := svc.Process(r.Context(), &ev)
		if err != nil {
			if errors.Is(err, event.ErrUnsupportedEvent) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Str("event_id", ev.EventID).Msg("event processing failed")
			respondError(w, http.StatusInternalServerError, "failed to process event")
			return
		}

		switch {
		case out.Duplicate:
			respondJSON(w, http.StatusOK, ingestResponse{Duplicate: true})
		case out.Queued:
			respondJSON(w, http.StatusAccepted, ingestResponse{Queued: true, MessageSID: out.MessageSID})
		default:
			respondJSON(w, http.StatusOK, ingestResponse{Sent: true, MessageSID: out.MessageSID})
		}
	}
}

// validateInbound collects missing-field errors for an inbound event.
func validateInbound(ev *event.InboundEvent) []string {
	var details []string
	if ev.Event == "" {
		details = append(details, "event is required")
	}
	if ev.EventID == "" {
		details = append(details, "event_id is required")
	}
	if ev.User.Phone == "" {
		details = append(details, "user.phone is required")
	}
	if ev.Amount == nil {
		details = append(details, "amount is required")
	}
	return details
}
