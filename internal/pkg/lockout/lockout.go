// Package lockout throttles repeated failed verification attempts for a
// (coupon code, branch) pair. The state lives in process memory only:
// it is an advisory speed bump against brute-forcing the 5-digit branch
// password, not a security boundary. The authoritative failed-attempt
// counter stays on the coupon row in the store.
package lockout

import (
	"sync"
	"time"
)

const (
	// Duration a pair stays locked once the attempt threshold is hit.
	Duration = 10 * time.Minute
	// Threshold is the failed-attempt count that triggers a lock.
	Threshold = 5
)

type Status struct {
	Locked           bool
	RemainingSeconds int
}

type Store struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		until: make(map[string]time.Time),
	}
}

func key(code, branchCode string) string {
	return code + ":" + branchCode
}

// Check reports whether the pair is locked at now. Expired entries are
// cleared lazily on the way through.
func (s *Store) Check(code, branchCode string, now time.Time) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(code, branchCode)
	until, ok := s.until[k]
	if !ok {
		return Status{}
	}
	if !now.Before(until) {
		delete(s.until, k)
		return Status{}
	}
	remaining := int(until.Sub(now).Round(time.Second) / time.Second)
	return Status{Locked: true, RemainingSeconds: remaining}
}

// Lock marks the pair locked until now + Duration.
func (s *Store) Lock(code, branchCode string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.until[key(code, branchCode)] = now.Add(Duration)
}
