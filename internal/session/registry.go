package session

import "sync"

// Registry holds at most one in-flight call session. It is the single
// source of truth for whether a call exists and what phase it is in.
// All mutation happens on the coordinator's serialized control path; the
// registry itself only provides atomic reads and id-guarded writes.
type Registry struct {
	mu      sync.Mutex
	current *CallSession
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns a copy of the current session, if any.
func (r *Registry) Get() (CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return CallSession{}, false
	}
	return *r.current, true
}

// Set stores s as the current session, replacing any previous one.
func (r *Registry) Set(s CallSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &s
}

// Clear empties the slot.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// CompareAndSet applies fn to the current session only if the slot holds
// id. It returns false when the slot is empty or holds a different id,
// which marks the triggering event as stale.
func (r *Registry) CompareAndSet(id string, fn func(*CallSession)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.ID != id {
		return false
	}
	fn(r.current)
	return true
}
