// Package ratereg tracks which rate ids are active. Only an active rate id
// may be bonded against or proposed for.
package ratereg

import (
	"errors"
	"sync"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// Operation signatures checked against the capability collaborator.
const (
	SigActivate   = "ratereg.activate"
	SigDeactivate = "ratereg.deactivate"
	SigLock       = "ratereg.lock"
)

// Set of errors the registry fails with.
var (
	ErrActiveRateID   = errors.New("rate id already active")
	ErrInactiveRateID = errors.New("rate id not active")
	ErrNotAuthorized  = errors.New("caller not authorized")
)

// Authorizer is the behavior required of the capability collaborator gating
// privileged operations.
type Authorizer interface {
	IsAuthorized(signature string, caller commit.AccountID) bool
}

// =============================================================================

// Registry maintains the activation ledger.
type Registry struct {
	mu     sync.RWMutex
	active map[commit.RateID]struct{}
	auth   Authorizer
}

// New constructs a registry with every rate id inactive.
func New(auth Authorizer) *Registry {
	return &Registry{
		active: make(map[commit.RateID]struct{}),
		auth:   auth,
	}
}

// Activate marks the rate id active.
func (r *Registry) Activate(caller commit.AccountID, rateID commit.RateID) error {
	if !r.auth.IsAuthorized(SigActivate, caller) {
		return ErrNotAuthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[rateID]; exists {
		return ErrActiveRateID
	}
	r.active[rateID] = struct{}{}

	return nil
}

// Deactivate marks the rate id inactive.
func (r *Registry) Deactivate(caller commit.AccountID, rateID commit.RateID) error {
	if !r.auth.IsAuthorized(SigDeactivate, caller) {
		return ErrNotAuthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[rateID]; !exists {
		return ErrInactiveRateID
	}
	delete(r.active, rateID)

	return nil
}

// Lock batch-deactivates a set of rate ids as an emergency brake. Already
// inactive ids are left alone so a partial prior lock never blocks the rest
// of the batch.
func (r *Registry) Lock(caller commit.AccountID, rateIDs []commit.RateID) error {
	if !r.auth.IsAuthorized(SigLock, caller) {
		return ErrNotAuthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rateID := range rateIDs {
		delete(r.active, rateID)
	}

	return nil
}

// IsActive reports whether the rate id is active.
func (r *Registry) IsActive(rateID commit.RateID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.active[rateID]
	return exists
}

// Copy returns a snapshot of the active rate ids.
func (r *Registry) Copy() []commit.RateID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rateIDs := make([]commit.RateID, 0, len(r.active))
	for rateID := range r.active {
		rateIDs = append(rateIDs, rateID)
	}

	return rateIDs
}
