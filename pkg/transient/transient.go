// Package transient provides a single-slot, auto-expiring status message.
//
// A Slot holds at most one message at a time. Setting a new message
// replaces the current one and restarts the expiry window. Every message
// gets a version number; the expiry timer only clears the slot if the
// version it was scheduled for is still current, so a timer left over from
// a replaced message can never wipe out its successor.
package transient

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible when no explicit TTL is
// configured.
const DefaultTTL = 3 * time.Second

// Slot is a single-message holder with automatic expiry. It is safe for
// concurrent use.
type Slot struct {
	ttl time.Duration

	// mu guards everything below. The expiry callback takes mu too, so the
	// timer must never be manipulated while holding it from within the
	// callback itself; expire only compares versions and clears.
	mu      sync.Mutex
	version uint64
	text    string
	timer   *time.Timer
}

// NewSlot creates a Slot whose messages expire after ttl. A non-positive
// ttl falls back to DefaultTTL.
func NewSlot(ttl time.Duration) *Slot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Slot{ttl: ttl}
}

// Set replaces the current message and restarts the expiry window.
func (s *Slot) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.text = text

	if s.timer != nil {
		s.timer.Stop()
	}
	v := s.version
	s.timer = time.AfterFunc(s.ttl, func() { s.expire(v) })
}

// expire clears the slot, but only if the message it was scheduled for is
// still the current one.
func (s *Slot) expire(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != version {
		return
	}
	s.text = ""
	s.timer = nil
}

// Current returns the visible message, or false when the slot is empty or
// the last message already expired.
func (s *Slot) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.text != ""
}

// Clear drops the current message immediately and cancels its timer.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.text = ""
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Stop cancels any pending expiry timer without clearing the message.
// The slot remains usable; call it when tearing down a session. The
// version bump invalidates a timer that already fired but has not run yet.
func (s *Slot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
