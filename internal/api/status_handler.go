package api

import (
	"net/http"

	"github.com/payslice/sms-relay/internal/logger"
)

// StatusCallbackHandler handles POST /v1/status/twilio, the form-encoded
// delivery receipt the provider posts back after a send. The receipt is
// logged and acknowledged; it always gets a 200 so the provider does not
// retry, even when the payload is unusable.
func StatusCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			log.Warn().Err(err).Msg("unparseable status callback")
			respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}

		// First value wins for repeated keys.
		params := make(map[string]string, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}

		status := params["MessageStatus"]
		if status == "" {
			status = params["SmsStatus"]
		}

		log.Info().
			Str("message_sid", params["MessageSid"]).
			Str("message_status", status).
			Str("error_code", params["ErrorCode"]).
			Str("to", params["To"]).
			Msg("delivery status callback")

		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
