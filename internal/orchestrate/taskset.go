package orchestrate

import (
	"sync"
)

// taskSet tracks the concurrently running joiner tasks. Tasks are added
// from the host's stderr callback, which runs on the host scanner
// goroutine, so additions are guarded; every task added is awaited
// exactly once by Wait.
type taskSet struct {
	mu sync.Mutex
	wg sync.WaitGroup
	n  int
}

// Go runs fn on its own goroutine and registers it in the set.
func (s *taskSet) Go(fn func()) {
	s.mu.Lock()
	s.n++
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Len returns the number of tasks ever added.
func (s *taskSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Wait blocks until every registered task has finished. It must only be
// called once no further additions are possible.
func (s *taskSet) Wait() {
	s.wg.Wait()
}
