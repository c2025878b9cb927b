package memory

import (
	"errors"
	"math/big"
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/feed"
)

// Set of errors the bank fails with.
var (
	ErrExists   = errors.New("feed already exists")
	ErrNotFound = errors.New("feed not found")
)

// Bank maintains a set of named in-memory feeds. The node's private API
// creates feeds here and posts rounds into them.
type Bank struct {
	mu    sync.RWMutex
	feeds map[string]*Feed
}

// NewBank constructs an empty bank.
func NewBank() *Bank {
	return &Bank{
		feeds: make(map[string]*Feed),
	}
}

// Create adds a new feed under the specified name.
func (b *Bank) Create(name string, decimals uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.feeds[name]; exists {
		return ErrExists
	}
	b.feeds[name] = New(decimals)

	return nil
}

// Post publishes a round into the named feed.
func (b *Bank) Post(name string, answer *big.Int, updatedAt uint64) (feed.Round, error) {
	b.mu.RLock()
	f, exists := b.feeds[name]
	b.mu.RUnlock()

	if !exists {
		return feed.Round{}, ErrNotFound
	}

	return f.Post(answer, updatedAt), nil
}

// PostAt mirrors an external source's round into the named feed under the
// source's own round id. The raw id is range-checked before it enters the
// nonce's 64-bit round field.
func (b *Bank) PostAt(name string, rawID *big.Int, answer *big.Int, updatedAt uint64) (feed.Round, error) {
	b.mu.RLock()
	f, exists := b.feeds[name]
	b.mu.RUnlock()

	if !exists {
		return feed.Round{}, ErrNotFound
	}

	id, err := feed.CheckRoundID(rawID)
	if err != nil {
		return feed.Round{}, err
	}

	return f.PostAt(id, answer, updatedAt)
}

// Lookup returns the named feeds in order. It fails if any name is unknown.
func (b *Bank) Lookup(names ...string) ([]feed.Reader, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	feeds := make([]feed.Reader, 0, len(names))
	for _, name := range names {
		f, exists := b.feeds[name]
		if !exists {
			return nil, ErrNotFound
		}
		feeds = append(feeds, f)
	}

	return feeds, nil
}
