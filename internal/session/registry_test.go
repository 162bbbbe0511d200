package session

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(); ok {
		t.Fatal("expected empty registry")
	}
}

func TestRegistrySetGetClear(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", CallerID: "c1", CallerName: "Bob", Phase: Ringing})

	s, ok := r.Get()
	if !ok {
		t.Fatal("expected session after Set")
	}
	if s.ID != "A" || s.Phase != Ringing {
		t.Errorf("unexpected session %+v", s)
	}

	r.Clear()
	if _, ok := r.Get(); ok {
		t.Fatal("expected empty registry after Clear")
	}
}

func TestRegistrySingleSlot(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", Phase: Ringing})
	r.Set(CallSession{ID: "B", Phase: Connecting})

	s, ok := r.Get()
	if !ok {
		t.Fatal("expected session")
	}
	if s.ID != "B" {
		t.Errorf("expected slot to hold B, got %s", s.ID)
	}
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", Phase: Ringing})

	s, _ := r.Get()
	s.Phase = Ended

	stored, _ := r.Get()
	if stored.Phase != Ringing {
		t.Error("mutating the returned copy must not affect the slot")
	}
}

func TestCompareAndSetMatching(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", Phase: Ringing})

	ok := r.CompareAndSet("A", func(s *CallSession) {
		s.Phase = Connecting
		s.AcceptedAt = time.Now()
	})
	if !ok {
		t.Fatal("expected CompareAndSet to apply for matching id")
	}

	s, _ := r.Get()
	if s.Phase != Connecting {
		t.Errorf("expected phase Connecting, got %s", s.Phase)
	}
	if !s.Accepted() {
		t.Error("expected AcceptedAt to be set")
	}
}

func TestCompareAndSetStale(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", Phase: Ringing})

	if r.CompareAndSet("B", func(s *CallSession) { s.Phase = Ended }) {
		t.Fatal("expected stale id to be a no-op")
	}

	s, _ := r.Get()
	if s.Phase != Ringing {
		t.Error("stale CompareAndSet must not mutate the session")
	}
}

func TestCompareAndSetEmpty(t *testing.T) {
	r := NewRegistry()
	if r.CompareAndSet("A", func(s *CallSession) {}) {
		t.Fatal("expected CompareAndSet on empty registry to be a no-op")
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	r := NewRegistry()
	r.Set(CallSession{ID: "A", Phase: Ringing})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s, ok := r.Get(); ok && s.ID != "A" {
					t.Errorf("unexpected session id %s", s.ID)
					return
				}
				r.CompareAndSet("A", func(s *CallSession) {})
			}
		}()
	}
	wg.Wait()
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		Ringing:       "Ringing",
		Connecting:    "Connecting",
		Active:        "Active",
		Disconnecting: "Disconnecting",
		Ended:         "Ended",
		Phase(42):     "Unknown(42)",
	}
	for p, want := range cases {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %s, want %s", int(p), p.String(), want)
		}
	}
	if !Ended.Terminal() {
		t.Error("Ended should be terminal")
	}
	if Ringing.Terminal() {
		t.Error("Ringing should not be terminal")
	}
}
