// Package adapter implements the value-validation contract every feed family
// must satisfy: compute the current true value from the configured feeds,
// validate a previously proposed tuple against that truth, and forward a
// finalized value downstream.
package adapter

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/feed"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
)

// SigSetFeed gates adapter configuration.
const SigSetFeed = "adapter.setfeed"

// Set of errors adapters fail with.
var (
	ErrFeedNotFound  = errors.New("no feed configured for rate id")
	ErrNotAuthorized = errors.New("caller not authorized")
	ErrFeedCount     = errors.New("wrong number of feeds for adapter family")
)

// ValidateResult enumerates the outcome of checking a proposed value against
// ground truth. Only Success distinguishes dispute outcomes; the non-success
// causes are diagnostic.
type ValidateResult int

// Possible validation outcomes.
const (
	Success ValidateResult = iota
	InvalidNonce
	InvalidRound
	InvalidValue
)

// String implements the fmt.Stringer interface.
func (vr ValidateResult) String() string {
	switch vr {
	case Success:
		return "success"
	case InvalidNonce:
		return "invalid nonce"
	case InvalidRound:
		return "invalid round"
	case InvalidValue:
		return "invalid value"
	}
	return "unknown"
}

// Registry is the behavior required of the downstream registry collaborator.
type Registry interface {
	UpdateSpot(asset string, value *uint256.Int) error
}

// Authorizer is the behavior required of the capability collaborator.
type Authorizer interface {
	IsAuthorized(signature string, caller commit.AccountID) bool
}

// Adapter is the capability set one feed family provides.
type Adapter interface {
	Value(rateID commit.RateID) (*uint256.Int, []byte, error)
	Validate(proposed *uint256.Int, rateID commit.RateID, n nonce.Nonce, data []byte) (ValidateResult, *uint256.Int, error)
	Push(rateID commit.RateID, value *uint256.Int) error
}

// =============================================================================

// binding ties a rate id to its feeds and its registry-facing asset identity.
type binding struct {
	asset string
	feeds []feed.Reader
}

// base carries the state and behavior shared by the concrete adapter
// families. The families differ only in feed cardinality and in how the
// per-feed scaled values combine.
type base struct {
	mu       sync.RWMutex
	bindings map[commit.RateID]binding
	codec    *nonce.Codec
	registry Registry
	auth     Authorizer
	combine  func(values []*uint256.Int) *uint256.Int
	arity    func(n int) bool
}

// SetFeed binds the rate id to its feeds and registry identity.
func (b *base) SetFeed(caller commit.AccountID, rateID commit.RateID, asset string, feeds ...feed.Reader) error {
	if !b.auth.IsAuthorized(SigSetFeed, caller) {
		return ErrNotAuthorized
	}
	if !b.arity(len(feeds)) {
		return ErrFeedCount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.bindings[rateID] = binding{asset: asset, feeds: feeds}

	return nil
}

// UnsetFeed removes the rate id's binding.
func (b *base) UnsetFeed(caller commit.AccountID, rateID commit.RateID) error {
	if !b.auth.IsAuthorized(SigSetFeed, caller) {
		return ErrNotAuthorized
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.bindings, rateID)

	return nil
}

// binding returns the feeds configured for the rate id.
func (b *base) binding(rateID commit.RateID) (binding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bnd, exists := b.bindings[rateID]
	if !exists {
		return binding{}, ErrFeedNotFound
	}

	return bnd, nil
}

// Value reads the latest round from each configured feed, normalizes every
// answer to the WAD base, combines per the family rule, and serializes the
// round identifiers used as the proposal data.
func (b *base) Value(rateID commit.RateID) (*uint256.Int, []byte, error) {
	bnd, err := b.binding(rateID)
	if err != nil {
		return nil, nil, err
	}

	values := make([]*uint256.Int, 0, len(bnd.feeds))
	sources := make([]nonce.Source, 0, len(bnd.feeds))

	for _, f := range bnd.feeds {
		round, err := f.LatestRound()
		if err != nil {
			return nil, nil, err
		}

		decimals, err := f.Decimals()
		if err != nil {
			return nil, nil, err
		}

		scaled, err := feed.ScaleWAD(round.Answer, decimals)
		if err != nil {
			return nil, nil, err
		}

		values = append(values, scaled)
		sources = append(sources, nonce.Source{RoundID: round.ID, UpdatedAt: round.UpdatedAt})
	}

	return b.combine(values), nonce.MarshalData(sources), nil
}

// Validate checks a proposed value against ground truth. The nonce is
// re-derived from the supplied data, each source's historical round is
// re-fetched by round id, and the true value recomputed with the same
// scaling and combination rule as Value.
func (b *base) Validate(proposed *uint256.Int, rateID commit.RateID, n nonce.Nonce, data []byte) (ValidateResult, *uint256.Int, error) {
	bnd, err := b.binding(rateID)
	if err != nil {
		return InvalidRound, nil, err
	}

	fp, asOf, err := b.codec.Derive(data)
	if err != nil {
		return InvalidNonce, nil, nil
	}
	if fp != n.Fingerprint || asOf != n.AsOf {
		return InvalidNonce, nil, nil
	}

	sources, err := nonce.UnmarshalData(data)
	if err != nil {
		return InvalidNonce, nil, nil
	}
	if len(sources) != len(bnd.feeds) {
		return InvalidNonce, nil, nil
	}

	values := make([]*uint256.Int, 0, len(bnd.feeds))
	for i, f := range bnd.feeds {
		// The historical lookup guards against a feed answering differently
		// for the latest round and the stored round of the same id.
		round, err := f.Round(sources[i].RoundID)
		if err != nil {
			return InvalidRound, nil, nil
		}
		if round.UpdatedAt != sources[i].UpdatedAt {
			return InvalidRound, nil, nil
		}

		decimals, err := f.Decimals()
		if err != nil {
			return InvalidRound, nil, err
		}

		scaled, err := feed.ScaleWAD(round.Answer, decimals)
		if err != nil {
			return InvalidRound, nil, err
		}
		values = append(values, scaled)
	}

	trueValue := b.combine(values)

	if proposed != nil && proposed.Eq(trueValue) {
		return Success, trueValue, nil
	}

	return InvalidValue, trueValue, nil
}

// Push maps the rate id back to its registry-facing identity and forwards the
// finalized value. The caller treats a returned error as best-effort.
func (b *base) Push(rateID commit.RateID, value *uint256.Int) error {
	bnd, err := b.binding(rateID)
	if err != nil {
		return err
	}

	return b.registry.UpdateSpot(bnd.asset, value)
}
