// Package memory implements a volatile store for the proposal digest ledger.
package memory

import (
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// Store keeps the digests in memory only.
type Store struct {
	mu      sync.Mutex
	digests map[commit.RateID]commit.Digest
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		digests: make(map[commit.RateID]commit.Digest),
	}
}

// Save records the digest for the rate id.
func (s *Store) Save(rateID commit.RateID, digest commit.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.digests[rateID] = digest

	return nil
}

// Load returns a copy of every recorded digest.
func (s *Store) Load() (map[commit.RateID]commit.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digests := make(map[commit.RateID]commit.Digest, len(s.digests))
	for rateID, digest := range s.digests {
		digests[rateID] = digest
	}

	return digests, nil
}
