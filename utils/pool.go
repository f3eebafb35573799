package utils

import (
	"errors"
	"sync"
)

// WorkerPool runs jobs on a bounded number of goroutines and collects their
// errors.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	errs      []error
}

// NewWorkerPool creates a WorkerPool running at most maxWorkers jobs at once.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Submit enqueues a job for execution in the pool. It blocks while the pool
// is full.
func (wp *WorkerPool) Submit(job func() error) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		if err := job(); err != nil {
			wp.mu.Lock()
			wp.errs = append(wp.errs, err)
			wp.mu.Unlock()
		}
	}()
}

// Wait blocks until all submitted jobs have completed and returns their
// errors joined, or nil.
func (wp *WorkerPool) Wait() error {
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}

// NameSet is a thread-safe set of names.
type NameSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewNameSet creates an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]struct{})}
}

// Add returns true if name was newly added, false if already present.
func (s *NameSet) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[name]; exists {
		return false
	}
	s.seen[name] = struct{}{}
	return true
}

// Contains reports whether name has been added.
func (s *NameSet) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[name]
	return exists
}

// Size returns the number of unique names tracked.
func (s *NameSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
