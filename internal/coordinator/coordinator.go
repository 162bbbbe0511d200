// Package coordinator implements the call lifecycle state machine. It
// ingests push announcements and native-surface callbacks, owns the
// single session slot and emits the application event stream.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/renwick/callpush/internal/audio"
	"github.com/renwick/callpush/internal/event"
	"github.com/renwick/callpush/internal/payload"
	"github.com/renwick/callpush/internal/session"
	"github.com/renwick/callpush/internal/surface"
)

// Clock provides the current time. Defaults to time.Now; override in tests.
type Clock func() time.Time

// pendingRegistration tracks one outstanding PresentIncomingCall. While
// it is in flight no other trigger for the same id is applied, and a
// terminated push only flips withdraw — the withdrawal itself is issued
// once registration settles.
type pendingRegistration struct {
	ann      payload.Announcement
	withdraw bool
}

// Coordinator serializes all state transitions behind one mutex. Every
// entry point re-reads registry state under the lock, so no transition
// is computed from a stale view. Triggering callbacks may arrive on any
// goroutine.
type Coordinator struct {
	surface  surface.CallSurface
	registry *session.Registry
	emitter  *event.Emitter
	audio    audio.Configurator
	settings audio.Settings
	clock    Clock
	log      *logrus.Entry

	mu      sync.Mutex
	pending *pendingRegistration
}

var _ surface.Hooks = (*Coordinator)(nil)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithAudioSettings sets the settings applied on the accept transition.
func WithAudioSettings(s audio.Settings) Option {
	return func(co *Coordinator) { co.settings = s }
}

// New creates a Coordinator. The coordinator exclusively owns the
// registry slot; no other component may write to it.
func New(s surface.CallSurface, reg *session.Registry, em *event.Emitter, ac audio.Configurator, log *logrus.Entry, opts ...Option) *Coordinator {
	c := &Coordinator{
		surface:  s,
		registry: reg,
		emitter:  em,
		audio:    ac,
		settings: audio.DefaultSettings(),
		clock:    time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ingest extracts a raw push payload and applies it. Extraction errors
// are logged and returned; no session is ever created from incomplete
// data.
func (c *Coordinator) Ingest(raw []byte) error {
	ann, err := payload.Extract(raw)
	if err != nil {
		c.log.Warnf("dropping malformed push: %v", err)
		return err
	}
	c.HandlePush(ann)
	return nil
}

// HandlePush applies one validated push announcement.
func (c *Coordinator) HandlePush(ann payload.Announcement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ann.Terminated() {
		c.handleTerminated(ann.CallID)
		return
	}

	if c.pending != nil {
		if c.pending.ann.CallID == ann.CallID {
			c.log.Debugf("duplicate push for %s while registration pending", ann.CallID)
		} else {
			c.log.Warnf("dropping push for %s: registration pending for %s", ann.CallID, c.pending.ann.CallID)
		}
		return
	}

	if cur, ok := c.registry.Get(); ok {
		if cur.ID == ann.CallID {
			c.log.Debugf("duplicate push for live call %s in phase %s", ann.CallID, cur.Phase)
		} else {
			c.log.Warnf("dropping push for %s: already in call %s", ann.CallID, cur.ID)
		}
		return
	}

	c.pending = &pendingRegistration{ann: ann}
	go c.register(ann)
}

// register runs the asynchronous surface registration and re-enters the
// serialized context with its result.
func (c *Coordinator) register(ann payload.Announcement) {
	err := c.surface.PresentIncomingCall(context.Background(), ann.CallID, ann.CallerID, ann.CallerName)

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.pending
	c.pending = nil
	if pending == nil || pending.ann.CallID != ann.CallID {
		// Should not happen; pending is only cleared here.
		c.log.Errorf("registration result for %s without pending record", ann.CallID)
		return
	}

	if err != nil {
		// Nothing was presented, so a deferred withdrawal has nothing
		// to undo either way.
		c.log.Warnf("call registration failed for %s: %v", ann.CallID, err)
		return
	}

	if pending.withdraw {
		// A terminated push arrived while registration was in flight.
		// The local registration finished first; withdraw immediately
		// so no ghost call is left on screen. No events.
		c.log.Infof("withdrawing call %s terminated during registration", ann.CallID)
		c.surface.WithdrawCall(ann.CallID)
		return
	}

	c.registry.Set(session.CallSession{
		ID:         ann.CallID,
		CallerID:   ann.CallerID,
		CallerName: ann.CallerName,
		Phase:      session.Ringing,
		Origin:     session.Incoming,
	})
	c.log.Infof("incoming call %s from %s ringing", ann.CallID, ann.CallerName)
	c.emit(event.Event{
		Type:       event.IncomingPush,
		CallID:     ann.CallID,
		CallerName: ann.CallerName,
		Payload:    ann.Alert,
	})
}

// handleTerminated honors a push-initiated cancellation. Called with the
// lock held.
func (c *Coordinator) handleTerminated(id string) {
	if c.pending != nil && c.pending.ann.CallID == id {
		// Never dropped: deferred until the in-flight registration
		// settles.
		c.pending.withdraw = true
		c.log.Infof("deferring withdrawal of %s until registration settles", id)
		return
	}

	ringing := false
	ok := c.registry.CompareAndSet(id, func(s *session.CallSession) {
		if s.Phase != session.Ringing {
			return
		}
		s.Phase = session.Ended
		ringing = true
	})
	if !ok {
		c.log.Debugf("stale terminated push for %s", id)
		return
	}
	if !ringing {
		// Cancellation only applies before the user acted; an accepted
		// call is ended through the surface, not by push.
		c.log.Debugf("terminated push for %s ignored: call already accepted", id)
		return
	}

	c.log.Infof("call %s terminated by push while ringing", id)
	c.surface.WithdrawCall(id)
	c.registry.Clear()
}

// OnAnswer handles the user answering the presented call.
func (c *Coordinator) OnAnswer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	var callerID string
	accepted := false
	ok := c.registry.CompareAndSet(id, func(s *session.CallSession) {
		if s.Phase != session.Ringing || s.Accepted() {
			return
		}
		s.Phase = session.Connecting
		s.AcceptedAt = now
		callerID = s.CallerID
		accepted = true
	})
	if !ok {
		c.log.Debugf("stale answer for %s", id)
		return
	}
	if !accepted {
		c.log.Debugf("answer for %s ignored: not ringing", id)
		return
	}

	// Audio routing failure does not roll back the transition; the call
	// proceeds without guaranteed ideal routing.
	if err := c.audio.Configure(c.settings); err != nil {
		c.log.Warnf("audio session configuration failed: %v", err)
	}

	c.log.Infof("call %s accepted", id)
	c.emit(event.Event{
		Type:     event.AcceptedIncomingCall,
		CallID:   id,
		CallerID: callerID,
	})
}

// OnEnd handles the user or system ending the call.
func (c *Coordinator) OnEnd(id, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var callerID string
	rejected := false
	ok := c.registry.CompareAndSet(id, func(s *session.CallSession) {
		rejected = !s.Accepted() && s.Origin == session.Incoming
		callerID = s.CallerID
		s.Phase = session.Ended
	})
	if !ok {
		c.log.Debugf("stale end for %s", id)
		return
	}

	c.registry.Clear()
	c.surface.EndCall(id, reason)
	c.log.Infof("call %s ended: %s", id, reason)

	if rejected {
		c.emit(event.Event{
			Type:     event.RejectedIncomingCall,
			CallID:   id,
			CallerID: callerID,
		})
	}
}

// OnStart handles the surface reporting an outgoing call start.
func (c *Coordinator) OnStart(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.log.Warnf("ignoring outgoing call %s: registration pending", id)
		return
	}
	if cur, ok := c.registry.Get(); ok {
		c.log.Warnf("ignoring outgoing call %s: already in call %s", id, cur.ID)
		return
	}

	c.registry.Set(session.CallSession{
		ID:     id,
		Phase:  session.Connecting,
		Origin: session.Outgoing,
	})
	c.surface.ReportOutgoingCallConnecting(id)
	c.log.Infof("outgoing call %s connecting", id)
}

// OnAudioSessionActivated passes the platform audio activation through
// to the application. No phase change.
func (c *Coordinator) OnAudioSessionActivated() {
	c.emit(event.Event{Type: event.AudioSessionActivated})
}

// OnAudioSessionDeactivated passes the platform audio deactivation
// through to the application. No phase change.
func (c *Coordinator) OnAudioSessionDeactivated() {
	c.emit(event.Event{Type: event.AudioSessionDeactivated})
}

// HandleToken forwards a push-token update from the token-registration
// collaborator onto the event stream.
func (c *Coordinator) HandleToken(token string) {
	c.log.Debugf("push token updated")
	c.emit(event.Event{Type: event.PushTokenUpdated, Token: token})
}

func (c *Coordinator) emit(ev event.Event) {
	ev.Timestamp = c.clock()
	c.emitter.Emit(ev)
}
