package scan

import (
	"context"
	"sync"
)

// semaphore is a counting semaphore with strictly FIFO waiters.
//
// Release hands a permit directly to the longest-waiting acquirer instead
// of returning it to the shared pool, so a woken waiter never races a fresh
// Acquire for the permit. A limit of zero is legal: every Acquire then
// waits for a matching Release.
//
// The semaphore is local to one traversal call and holds no filesystem
// resources.
type semaphore struct {
	mu      sync.Mutex
	permits int
	waiters []chan struct{}
}

func newSemaphore(permits int) *semaphore {
	return &semaphore{permits: permits}
}

// Acquire obtains a permit, blocking in FIFO order when none is available.
// It returns ctx.Err() without a permit when ctx is done first.
func (s *semaphore) Acquire(ctx context.Context) error {
	s.mu.Lock()

	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()

		return nil
	}

	ready := make(chan struct{})
	s.waiters = append(s.waiters, ready)
	s.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for i, w := range s.waiters {
			if w == ready {
				s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
				s.mu.Unlock()

				return ctx.Err()
			}
		}
		s.mu.Unlock()

		// A Release handed us the permit concurrently with cancellation;
		// pass it on so it is not lost.
		<-ready
		s.Release()

		return ctx.Err()
	}
}

// Release returns a permit, transferring it to the head of the wait queue
// when one is queued.
func (s *semaphore) Release() {
	s.mu.Lock()

	if len(s.waiters) > 0 {
		ready := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()

		close(ready)

		return
	}

	s.permits++
	s.mu.Unlock()
}

// waiting reports the number of queued acquirers.
func (s *semaphore) waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.waiters)
}
