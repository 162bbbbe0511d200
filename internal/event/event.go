package event

import "time"

// Type identifies an outbound application event.
type Type string

const (
	IncomingPush            Type = "incoming_push"
	AcceptedIncomingCall    Type = "accepted_incoming_call"
	RejectedIncomingCall    Type = "rejected_incoming_call"
	PushTokenUpdated        Type = "push_token_updated"
	AudioSessionActivated   Type = "audio_session_activated"
	AudioSessionDeactivated Type = "audio_session_deactivated"
)

// Event is one entry in the application-facing event stream. Fields
// beyond Type are populated per event type.
type Event struct {
	Type       Type           `json:"event"`
	CallID     string         `json:"call_id,omitempty"`
	CallerID   string         `json:"caller_id,omitempty"`
	CallerName string         `json:"caller_name,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Token      string         `json:"token,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
