// Package sensor holds the handoff primitives between adapter goroutines and
// the control loop: a last-writer-wins reading slot with a staleness window,
// and a one-shot event latch.
package sensor

import (
	"sync"
	"time"
)

// Slot is a latest-reading mailbox. One adapter goroutine publishes, the
// control loop reads. The lock guards against torn reads of multi-field
// signals; the loop never blocks waiting for a fresh value.
type Slot[T any] struct {
	lock      sync.RWMutex
	value     T
	updatedAt time.Time
	maxAge    time.Duration
}

// NewSlot returns a slot whose readings expire after maxAge. A maxAge of 0
// means readings never go stale.
func NewSlot[T any](maxAge time.Duration) *Slot[T] {
	return &Slot[T]{
		maxAge: maxAge,
	}
}

func (s *Slot[T]) Publish(value T) {
	s.lock.Lock()
	s.value = value
	s.updatedAt = time.Now()
	s.lock.Unlock()
}

// PublishAt is Publish with an explicit timestamp, used by tests and by
// adapters that carry their own capture time.
func (s *Slot[T]) PublishAt(value T, at time.Time) {
	s.lock.Lock()
	s.value = value
	s.updatedAt = at
	s.lock.Unlock()
}

// Latest returns the most recent reading and whether it is still valid at
// now. A slot that was never written, or whose reading is older than the
// staleness window, reports invalid with a zero value.
func (s *Slot[T]) Latest(now time.Time) (T, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.updatedAt.IsZero() {
		var zero T
		return zero, false
	}
	if s.maxAge > 0 && now.Sub(s.updatedAt) > s.maxAge {
		var zero T
		return zero, false
	}
	return s.value, true
}
