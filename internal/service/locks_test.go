package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedLocks(t *testing.T) {
	t.Run("holders of one key are mutually exclusive", func(t *testing.T) {
		locks := newKeyedLocks()

		var active, overlaps int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.lock("expense-1")
				defer unlock()

				if atomic.AddInt32(&active, 1) != 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
			}()
		}
		wg.Wait()

		if overlaps != 0 {
			t.Errorf("observed %d overlapping holders of the same key", overlaps)
		}
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		locks := newKeyedLocks()
		unlockA := locks.lock("expense-a")
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlockB := locks.lock("expense-b")
			unlockB()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on a different key blocked behind an unrelated holder")
		}
	})

	t.Run("entries are removed once the last holder unlocks", func(t *testing.T) {
		locks := newKeyedLocks()

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.lock("expense-1")
				unlock()
			}()
		}
		unlock := locks.lock("expense-2")
		unlock()
		wg.Wait()

		locks.mu.Lock()
		defer locks.mu.Unlock()
		if len(locks.locks) != 0 {
			t.Errorf("expected no retained entries, got %d", len(locks.locks))
		}
	})
}
