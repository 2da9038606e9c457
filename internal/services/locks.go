package services

import "sync"

// EventLocks serializes writes per event inside this process. Writers of
// different events never wait on each other.
type EventLocks struct {
	mu    sync.Mutex
	locks map[int64]*eventLock
}

type eventLock struct {
	mu   sync.Mutex
	refs int
}

func NewEventLocks() *EventLocks {
	return &EventLocks{locks: make(map[int64]*eventLock)}
}

// Lock blocks until the caller holds eventID and returns the matching
// unlock function.
func (l *EventLocks) Lock(eventID int64) func() {
	l.mu.Lock()
	el := l.locks[eventID]
	if el == nil {
		el = &eventLock{}
		l.locks[eventID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()

	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, eventID)
		}
		l.mu.Unlock()
	}
}

func (l *EventLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
