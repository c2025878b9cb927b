// Package registry maintains the downstream spot registry finalized values
// are pushed into. The oracle treats this push as best-effort; queries read
// whatever made it through.
package registry

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"
)

// ErrUnknownAsset indicates no value has been pushed for the asset yet.
var ErrUnknownAsset = errors.New("unknown asset")

// Spot maintains the latest finalized value per asset.
type Spot struct {
	mu    sync.RWMutex
	spots map[string]*uint256.Int
}

// New constructs an empty spot registry.
func New() *Spot {
	return &Spot{
		spots: make(map[string]*uint256.Int),
	}
}

// UpdateSpot records the finalized value for the asset.
func (s *Spot) UpdateSpot(asset string, value *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spots[asset] = new(uint256.Int).Set(value)

	return nil
}

// Value returns the latest finalized value for the asset.
func (s *Spot) Value(asset string) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.spots[asset]
	if !exists {
		return nil, ErrUnknownAsset
	}

	return new(uint256.Int).Set(value), nil
}

// Copy returns a snapshot of every asset's latest value.
func (s *Spot) Copy() map[string]*uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spots := make(map[string]*uint256.Int, len(s.spots))
	for asset, value := range s.spots {
		spots[asset] = new(uint256.Int).Set(value)
	}

	return spots
}
