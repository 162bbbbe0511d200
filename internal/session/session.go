package session

import (
	"fmt"
	"time"
)

// Phase is the lifecycle phase of a call session.
type Phase int

const (
	// Ringing indicates the call is presented and waiting for the user.
	Ringing Phase = iota
	// Connecting indicates the call was accepted and media is being set up.
	Connecting
	// Active indicates the parties are connected.
	Active
	// Disconnecting indicates teardown is in progress.
	Disconnecting
	// Ended indicates the call is over; the registry slot is cleared.
	Ended
)

// String returns the string representation of a Phase.
func (p Phase) String() string {
	switch p {
	case Ringing:
		return "Ringing"
	case Connecting:
		return "Connecting"
	case Active:
		return "Active"
	case Disconnecting:
		return "Disconnecting"
	case Ended:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Terminal returns true if the phase is final.
func (p Phase) Terminal() bool {
	return p == Ended
}

// Origin indicates which side initiated the call.
type Origin int

const (
	Incoming Origin = iota
	Outgoing
)

// String returns the string representation of an Origin.
func (o Origin) String() string {
	if o == Outgoing {
		return "Outgoing"
	}
	return "Incoming"
}

// CallSession is the in-memory record of one call's identity and phase.
// ID, CallerID and CallerName are immutable once the session is created.
type CallSession struct {
	ID         string
	CallerID   string
	CallerName string
	Phase      Phase
	Origin     Origin

	// AcceptedAt is set exactly once, on the accept transition. It
	// distinguishes "rejected before accept" from "ended after accept".
	AcceptedAt time.Time
}

// Accepted reports whether the session passed through the accept transition.
func (s CallSession) Accepted() bool {
	return !s.AcceptedAt.IsZero()
}
