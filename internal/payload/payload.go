package payload

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Call state tags carried in the push payload. The tag set is open; only
// StateTerminated has coordinator-level meaning.
const (
	StateRinging    = "ringing"
	StateTerminated = "terminated"
)

// Alert field names as they appear on the wire.
const (
	fieldCallID     = "uuid"
	fieldCallerID   = "incoming_caller_id"
	fieldCallerName = "incoming_caller_name"
	fieldCallState  = "incoming_call_state"
)

// Announcement is the validated content of one push notification.
type Announcement struct {
	CallID     string
	CallerID   string
	CallerName string
	State      string

	// Alert retains the full alert object for pass-through to the
	// application event stream.
	Alert map[string]any
}

// Terminated reports whether the announcement cancels a previously
// announced call.
func (a Announcement) Terminated() bool {
	return a.State == StateTerminated
}

// FieldError describes a required alert field that is missing or unusable.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("push payload field %q %s", e.Field, e.Reason)
}

// Extract parses a raw push payload and pulls the four required alert
// fields. It fails closed: any missing or mistyped field yields a
// *FieldError and no Announcement is produced.
func Extract(raw []byte) (Announcement, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return Announcement{}, fmt.Errorf("decoding push payload: %w", err)
	}

	aps, ok := root["aps"].(map[string]any)
	if !ok {
		return Announcement{}, &FieldError{Field: "aps", Reason: "is missing"}
	}
	alert, ok := aps["alert"].(map[string]any)
	if !ok {
		return Announcement{}, &FieldError{Field: "alert", Reason: "is missing"}
	}

	ann := Announcement{Alert: alert}
	var err error
	if ann.CallID, err = stringField(alert, fieldCallID); err != nil {
		return Announcement{}, err
	}
	if ann.CallerID, err = stringField(alert, fieldCallerID); err != nil {
		return Announcement{}, err
	}
	if ann.CallerName, err = stringField(alert, fieldCallerName); err != nil {
		return Announcement{}, err
	}
	if ann.State, err = stringField(alert, fieldCallState); err != nil {
		return Announcement{}, err
	}

	if _, err := uuid.Parse(ann.CallID); err != nil {
		return Announcement{}, &FieldError{Field: fieldCallID, Reason: "is not a valid UUID"}
	}

	return ann, nil
}

func stringField(alert map[string]any, key string) (string, error) {
	v, ok := alert[key]
	if !ok {
		return "", &FieldError{Field: key, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: key, Reason: "is not a string"}
	}
	if s == "" {
		return "", &FieldError{Field: key, Reason: "is empty"}
	}
	return s, nil
}
