package surface

import (
	"context"
	"sync"
)

// Call records a single operation asked of the mock surface.
type Call struct {
	Op         string // "present", "withdraw", "report_outgoing", "end"
	ID         string
	CallerID   string
	CallerName string
	Reason     string
}

// Mock records all surface operations for test assertions. Present can
// be gated so tests can interleave events while a registration is
// outstanding.
type Mock struct {
	mu         sync.Mutex
	calls      []Call
	presentErr error

	gate         chan struct{}
	presentBegan chan string
}

// NewMock creates a new Mock surface.
func NewMock() *Mock {
	return &Mock{presentBegan: make(chan string, 16)}
}

func (m *Mock) PresentIncomingCall(ctx context.Context, id, callerID, callerName string) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: "present", ID: id, CallerID: callerID, CallerName: callerName})
	err := m.presentErr
	gate := m.gate
	m.mu.Unlock()

	select {
	case m.presentBegan <- id:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *Mock) WithdrawCall(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "withdraw", ID: id})
}

func (m *Mock) ReportOutgoingCallConnecting(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "report_outgoing", ID: id})
}

func (m *Mock) EndCall(id, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "end", ID: id, Reason: reason})
}

// Calls returns a copy of all recorded operations.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears all recorded operations.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// SetPresentError causes subsequent PresentIncomingCall calls to return
// err. Pass nil to clear.
func (m *Mock) SetPresentError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presentErr = err
}

// HoldPresent makes PresentIncomingCall block until the returned release
// function is called.
func (m *Mock) HoldPresent() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// PresentBegan signals each time PresentIncomingCall is entered, carrying
// the call id. Lets tests wait for a registration to be in flight.
func (m *Mock) PresentBegan() <-chan string {
	return m.presentBegan
}
