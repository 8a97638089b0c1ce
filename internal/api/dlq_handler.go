package api

import (
	"encoding/json"
	"net/http"

	"github.com/payslice/sms-relay/internal/logger"
	"github.com/payslice/sms-relay/internal/queue"
)

// dlqReprocessRequest is the JSON body for POST /v1/dlq/reprocess.
type dlqReprocessRequest struct {
	Max int `json:"max"`
}

// dlqReprocessResponse is the JSON response for a DLQ reprocess operation.
type dlqReprocessResponse struct {
	Reprocessed int `json:"reprocessed"`
}

// DLQReprocessHandler handles POST /v1/dlq/reprocess. It moves up to max
// dead-letter messages back onto the primary queue for another round of
// delivery attempts.
func DLQReprocessHandler(reproc queue.Reprocessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		req := dlqReprocessRequest{Max: 10}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if req.Max <= 0 {
			respondError(w, http.StatusBadRequest, "max must be positive")
			return
		}

		moved, err := reproc.Reprocess(r.Context(), req.Max)
		if err != nil {
			log.Error().Err(err).Int("reprocessed", moved).Msg("dlq reprocess failed")
			respondError(w, http.StatusInternalServerError, "reprocess failed")
			return
		}

		log.Info().Int("reprocessed", moved).Msg("dlq reprocess completed")
		respondJSON(w, http.StatusOK, dlqReprocessResponse{Reprocessed: moved})
	}
}
