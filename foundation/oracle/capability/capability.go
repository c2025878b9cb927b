// Package capability maintains the grants that gate privileged oracle
// operations. A grant binds one operation signature to one caller; the
// wildcard signature authorizes a caller for every operation.
package capability

import (
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// Wildcard authorizes a caller for any operation signature.
const Wildcard = "*"

// Store maintains the set of grants.
type Store struct {
	mu     sync.RWMutex
	grants map[string]map[commit.AccountID]struct{}
}

// New constructs an empty capability store.
func New() *Store {
	return &Store{
		grants: make(map[string]map[commit.AccountID]struct{}),
	}
}

// Grant authorizes the caller for the operation signature.
func (s *Store) Grant(signature string, caller commit.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callers, exists := s.grants[signature]
	if !exists {
		callers = make(map[commit.AccountID]struct{})
		s.grants[signature] = callers
	}
	callers[caller] = struct{}{}
}

// Revoke removes the caller's authorization for the operation signature.
func (s *Store) Revoke(signature string, caller commit.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if callers, exists := s.grants[signature]; exists {
		delete(callers, caller)
	}
}

// IsAuthorized reports whether the caller holds a grant for the operation
// signature or the wildcard.
func (s *Store) IsAuthorized(signature string, caller commit.AccountID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if callers, exists := s.grants[signature]; exists {
		if _, granted := callers[caller]; granted {
			return true
		}
	}

	if callers, exists := s.grants[Wildcard]; exists {
		if _, granted := callers[caller]; granted {
			return true
		}
	}

	return false
}
