package surface

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Console is a stand-in call surface for running the daemon without a
// real platform binding. It accepts every registration, enforces the
// single-call-slot contract and logs what a native surface would do.
type Console struct {
	log *logrus.Entry

	mu      sync.Mutex
	current string
}

// NewConsole creates a Console surface.
func NewConsole(log *logrus.Entry) *Console {
	return &Console{log: log}
}

func (c *Console) PresentIncomingCall(ctx context.Context, id, callerID, callerName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != "" && c.current != id {
		c.log.Warnf("refusing to present call %s: slot held by %s", id, c.current)
		return ErrAlreadyInCall
	}
	c.current = id
	c.log.Infof("presenting incoming call %s from %s (%s)", id, callerName, callerID)
	return nil
}

func (c *Console) WithdrawCall(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == id {
		c.current = ""
	}
	c.log.Infof("withdrawing call %s", id)
}

func (c *Console) ReportOutgoingCallConnecting(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = id
	c.log.Infof("outgoing call %s connecting", id)
}

func (c *Console) EndCall(id, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == id {
		c.current = ""
	}
	c.log.Infof("ending call %s: %s", id, reason)
}
