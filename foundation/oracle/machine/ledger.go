package machine

import (
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// ledger guards the proposal digest map with its own lock so collaborators
// holding their own locks can read the current digest without contending with
// an in-flight operation's collaborator calls.
type ledger struct {
	mu        sync.RWMutex
	proposals map[commit.RateID]commit.Digest
	storer    Storer
}

// newLedger reloads the persisted digests.
func newLedger(storer Storer) (*ledger, error) {
	proposals, err := storer.Load()
	if err != nil {
		return nil, err
	}
	if proposals == nil {
		proposals = make(map[commit.RateID]commit.Digest)
	}

	return &ledger{
		proposals: proposals,
		storer:    storer,
	}, nil
}

// current returns the committed digest, or the sentinel when none exists.
func (l *ledger) current(rateID commit.RateID) commit.Digest {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.proposals[rateID]
}

// store commits the digest to memory and to the storer together. A storer
// failure rolls the memory write back so the two never diverge.
func (l *ledger) store(rateID commit.RateID, digest commit.Digest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.proposals[rateID]
	l.proposals[rateID] = digest

	if err := l.storer.Save(rateID, digest); err != nil {
		l.proposals[rateID] = prev
		return err
	}

	return nil
}
