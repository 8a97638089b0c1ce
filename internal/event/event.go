package event

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a transactional event kind.
type Type string

const (
	TypeAdvanceApproved  Type = "advance_approved"
	TypeAdvanceInTransit Type = "advance_in_transit"
)

// ErrUnsupportedEvent is returned when an event tag is well-formed but not
// one of the known variants.
var ErrUnsupportedEvent = errors.New("unsupported event type")

func (t Type) String() string { return string(t) }

// Valid reports whether t is a known event type.
func (t Type) Valid() bool {
	return t == TypeAdvanceApproved || t == TypeAdvanceInTransit
}

// ParseType normalizes raw input into a Type. Returns (value, true) if the
// input names a known event type.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// User carries the recipient identity attached to an event.
type User struct {
	Phone string `json:"phone"`
}

// InboundEvent is the payload accepted by the ingest endpoint. It is consumed
// once and never retained.
type InboundEvent struct {
	Event            Type     `json:"event"`
	EventID          string   `json:"event_id"`
	User             User     `json:"user"`
	Amount           *float64 `json:"amount"`
	SendInTransitNow bool     `json:"send_in_transit_now"`
}

// QueuedJob is the durable copy of an InboundEvent placed on the queue for
// delayed delivery. Its JSON shape is the queue wire schema.
type QueuedJob struct {
	EventID string  `json:"event_id"`
	Event   Type    `json:"event"`
	User    User    `json:"user"`
	Amount  float64 `json:"amount"`
}

// RenderBody produces the SMS body for a queued job of the given type.
// Unknown types are a modeled error, not a lookup failure.
func RenderBody(t Type, amount float64) (string, error) {
	switch t {
	case TypeAdvanceInTransit:
		return fmt.Sprintf("Ta-dah! Your advance of $%.2f is being sent! 💸 – PaySlice", amount), nil
	case TypeAdvanceApproved:
		return fmt.Sprintf("🎉 Your $%.2f advance has been approved. Funds are now moving to your bank. You’ll get another text once it lands. – PaySlice", amount), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEvent, t)
	}
}

// InTransitNowBody is the copy used for the optional immediate send performed
// at ingest time, distinct from the delayed in-transit template.
func InTransitNowBody(amount float64) string {
	return fmt.Sprintf("🎉 Your $%.2f advance is on its way! We’ve sent it to your bank. – PaySlice", amount)
}
