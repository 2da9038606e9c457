package services

import (
	"sync"
	"testing"
)

func TestEventLocksSerializeSameEvent(t *testing.T) {
	locks := NewEventLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(7)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("%d goroutines held the same event lock at once", maxSeen)
	}
	if n := locks.size(); n != 0 {
		t.Errorf("size = %d after all unlocks, want 0", n)
	}
}

func TestEventLocksIndependentEvents(t *testing.T) {
	locks := NewEventLocks()

	unlockA := locks.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(done)
	}()
	<-done
	unlockA()

	if n := locks.size(); n != 0 {
		t.Errorf("size = %d, want 0", n)
	}
}
