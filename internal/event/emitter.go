package event

import "sync"

// Listener receives emitted events.
type Listener func(Event)

// Emitter is a volatile single-subscriber broadcast point. At most one
// listener is active at a time; attaching replaces the previous one.
// Events emitted with no listener attached are dropped — there is no
// buffering and no replay.
type Emitter struct {
	mu       sync.Mutex
	listener Listener
}

// NewEmitter creates an Emitter with no listener attached.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Attach installs l as the active listener, replacing any previous one.
func (e *Emitter) Attach(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// Detach removes the active listener, if any.
func (e *Emitter) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = nil
}

// Emit delivers ev synchronously to the current listener, or drops it
// silently when none is attached.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	l := e.listener
	e.mu.Unlock()
	if l != nil {
		l(ev)
	}
}
