// Package memory implements an in-memory feed for testing and for nodes that
// receive their rounds over the private API.
package memory

import (
	"math/big"
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/feed"
)

// Feed implements feed.Reader over an in-memory round history.
type Feed struct {
	mu       sync.RWMutex
	decimals uint8
	rounds   map[uint64]feed.Round
	latest   uint64
}

// New constructs a feed reporting answers at the specified native precision.
func New(decimals uint8) *Feed {
	return &Feed{
		decimals: decimals,
		rounds:   make(map[uint64]feed.Round),
	}
}

// Post publishes a new round with the next round id and returns it.
func (f *Feed) Post(answer *big.Int, updatedAt uint64) feed.Round {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest++
	round := feed.Round{
		ID:        f.latest,
		Answer:    new(big.Int).Set(answer),
		UpdatedAt: updatedAt,
	}
	f.rounds[round.ID] = round

	return round
}

// PostAt mirrors a round published by an external source under the source's
// own round id. Ids may be sparse but a published round is immutable.
func (f *Feed) PostAt(id uint64, answer *big.Int, updatedAt uint64) (feed.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.rounds[id]; exists {
		return feed.Round{}, feed.ErrRoundExists
	}

	round := feed.Round{
		ID:        id,
		Answer:    new(big.Int).Set(answer),
		UpdatedAt: updatedAt,
	}
	f.rounds[id] = round

	if id > f.latest {
		f.latest = id
	}

	return round, nil
}

// Decimals returns the feed's native fixed-point precision.
func (f *Feed) Decimals() (uint8, error) {
	return f.decimals, nil
}

// LatestRound returns the most recently posted round.
func (f *Feed) LatestRound() (feed.Round, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	round, exists := f.rounds[f.latest]
	if !exists {
		return feed.Round{}, feed.ErrRoundNotFound
	}

	return round, nil
}

// Round returns the historical round for the specified id.
func (f *Feed) Round(id uint64) (feed.Round, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	round, exists := f.rounds[id]
	if !exists {
		return feed.Round{}, feed.ErrRoundNotFound
	}

	return round, nil
}
