// Package surface defines the boundary to the platform's native
// call-management subsystem. The platform owns call UI presentation,
// enforces one call at a time and reports user actions through Hooks.
package surface

import (
	"context"
	"errors"
)

// Errors a CallSurface implementation may return from PresentIncomingCall.
var (
	// ErrRegistrationFailed indicates the native surface refused to
	// present the call.
	ErrRegistrationFailed = errors.New("call registration failed")
	// ErrAlreadyInCall indicates the single call slot is occupied.
	ErrAlreadyInCall = errors.New("already in a call")
)

// CallSurface is what the coordinator asks the native surface to do.
// PresentIncomingCall may take arbitrarily long; its result re-enters
// the coordinator's serialized context.
type CallSurface interface {
	// PresentIncomingCall registers and presents an incoming call.
	PresentIncomingCall(ctx context.Context, id, callerID, callerName string) error
	// WithdrawCall tears down a presented call without user action.
	// Failures are the surface's to report; the caller treats the call
	// as gone either way.
	WithdrawCall(id string)
	// ReportOutgoingCallConnecting tells the surface an outgoing call
	// has started connecting.
	ReportOutgoingCallConnecting(id string)
	// EndCall ends a call with the given reason.
	EndCall(id, reason string)
}

// Hooks receives platform callbacks. Implementations must tolerate
// callbacks arriving on arbitrary goroutines.
type Hooks interface {
	OnAnswer(id string)
	OnEnd(id, reason string)
	OnStart(id string)
	OnAudioSessionActivated()
	OnAudioSessionDeactivated()
}
