package sensor

import "sync"

// Latch is a one-shot event flag. Adapters trigger it, the control loop
// consumes it at the start of a tick. Repeated triggers before consumption
// collapse into one event.
type Latch struct {
	lock    sync.Mutex
	pending bool
}

func NewLatch() *Latch {
	return &Latch{}
}

func (l *Latch) Trigger() {
	l.lock.Lock()
	l.pending = true
	l.lock.Unlock()
}

// Consume reports whether an event fired since the last call and clears it.
func (l *Latch) Consume() bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	fired := l.pending
	l.pending = false
	return fired
}
