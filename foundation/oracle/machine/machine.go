// Package machine is the core proposal/dispute engine. It owns the
// committed-proposal ledger per rate id and implements all the business rules
// for shifting, disputing, and finalizing values.
package machine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/adapter"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
)

// Set of errors the engine fails with.
var (
	ErrInactiveRateID          = errors.New("rate id not active")
	ErrUnbondedProposer        = errors.New("caller not bonded")
	ErrInvalidPreviousProposal = errors.New("previous proposal does not match ledger")
	ErrAlreadyDisputed         = errors.New("proposal already disputed")
	ErrUnknownProposal         = errors.New("proposal tuple does not match ledger")
	ErrInvalidDispute          = errors.New("challenged value is correct")
	ErrUnprovenDispute         = errors.New("dispute data does not prove the value wrong")
)

// EventHandler defines a function that is called when events occur in the
// processing of proposals.
type EventHandler func(v string, args ...any)

// Rates is the behavior required of the rate registry.
type Rates interface {
	IsActive(rateID commit.RateID) bool
	Lock(caller commit.AccountID, rateIDs []commit.RateID) error
}

// Bonds is the behavior required of the bond vault.
type Bonds interface {
	IsBonded(proposer commit.AccountID, rateID commit.RateID) bool
	Claim(proposer commit.AccountID, rateID commit.RateID, receiver commit.AccountID) error
	Recover(caller commit.AccountID, rateID commit.RateID, receiver commit.AccountID) error
}

// NonceCodec is the behavior required of the freshness token codec.
type NonceCodec interface {
	Encode(prev nonce.Nonce, data []byte) (nonce.Nonce, error)
	CanDispute(n nonce.Nonce) bool
}

// ValueAdapter is the behavior required of the feed family adapter.
type ValueAdapter interface {
	Value(rateID commit.RateID) (*uint256.Int, []byte, error)
	Validate(proposed *uint256.Int, rateID commit.RateID, n nonce.Nonce, data []byte) (adapter.ValidateResult, *uint256.Int, error)
	Push(rateID commit.RateID, value *uint256.Int) error
}

// Storer is the behavior required of any package providing support for
// persisting the proposal digest ledger.
type Storer interface {
	Save(rateID commit.RateID, digest commit.Digest) error
	Load() (map[commit.RateID]commit.Digest, error)
}

// =============================================================================

// Config represents the collaborators required to run the engine.
type Config struct {
	Account   commit.AccountID
	Rates     Rates
	Bonds     Bonds
	Adapter   ValueAdapter
	Codec     NonceCodec
	Storer    Storer
	EvHandler EventHandler
}

// Machine manages the proposal ledger. Every state transition executes as one
// serialized operation; a failed precondition leaves the ledger unchanged.
type Machine struct {
	mu        sync.Mutex
	ledger    *ledger
	account   commit.AccountID
	rates     Rates
	bonds     Bonds
	adapter   ValueAdapter
	codec     NonceCodec
	evHandler EventHandler
}

// New constructs the engine and reloads any persisted proposal digests.
func New(cfg Config) (*Machine, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	ledger, err := newLedger(cfg.Storer)
	if err != nil {
		return nil, err
	}

	m := Machine{
		ledger:    ledger,
		account:   cfg.Account,
		rates:     cfg.Rates,
		bonds:     cfg.Bonds,
		adapter:   cfg.Adapter,
		codec:     cfg.Codec,
		evHandler: ev,
	}

	return &m, nil
}

// Account returns the engine's own identity. Proposals produced by a dispute
// are attributed to this account.
func (m *Machine) Account() commit.AccountID {
	return m.account
}

// Current returns the committed proposal digest for the rate id. The sentinel
// digest means no proposal is pending.
func (m *Machine) Current(rateID commit.RateID) commit.Digest {
	return m.ledger.current(rateID)
}

// Value reads the live value and the serialized proposal data for the rate
// id from the adapter. Proposers use this to build their next shift.
func (m *Machine) Value(rateID commit.RateID) (*uint256.Int, []byte, error) {
	return m.adapter.Value(rateID)
}

// =============================================================================

// Shift commits a new proposal for the rate id. The caller resupplies the
// previous tuple; its digest must match the ledger, with the zero tuple
// granted a bypass only while the ledger still holds the sentinel. A previous
// proposal whose dispute window has lapsed is finalized into the registry
// before the new proposal is recorded. The minted nonce is returned for use
// in the caller's next shift.
func (m *Machine) Shift(caller commit.AccountID, rateID commit.RateID, prevProposer commit.AccountID, prevValue *uint256.Int, prevNonce nonce.Nonce, value *uint256.Int, data []byte) (nonce.Nonce, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.rates.IsActive(rateID) {
		return nonce.Nonce{}, ErrInactiveRateID
	}
	if !m.bonds.IsBonded(caller, rateID) {
		return nonce.Nonce{}, ErrUnbondedProposer
	}

	stored := m.ledger.current(rateID)

	zeroTuple := prevProposer.IsZero() && (prevValue == nil || prevValue.IsZero()) && prevNonce.IsZero()
	switch {
	case zeroTuple:
		// The zero tuple bypasses the match check only while no proposal has
		// ever been committed.
		if !stored.IsSentinel() {
			return nonce.Nonce{}, ErrInvalidPreviousProposal
		}

	default:
		expected := commit.Propose(rateID, prevProposer, prevValue, prevNonce.Pack())
		if expected != stored {
			return nonce.Nonce{}, ErrInvalidPreviousProposal
		}

		// The previous proposal survived its window, so it is final and
		// stands whether or not the shift below succeeds. The registry push
		// is a convenience, not a correctness dependency; a failure is
		// logged and never aborts the shift.
		if !m.codec.CanDispute(prevNonce) {
			if err := m.adapter.Push(rateID, prevValue); err != nil {
				m.evHandler("shift: finalize push failed: rate[%s] %s", rateID.Hex(), err)
			} else {
				m.evHandler("shift: finalized: rate[%s] value[%s]", rateID.Hex(), prevValue)
			}
		}
	}

	n, err := m.codec.Encode(prevNonce, data)
	if err != nil {
		return nonce.Nonce{}, err
	}

	digest := commit.Propose(rateID, caller, value, n.Pack())
	if err := m.ledger.store(rateID, digest); err != nil {
		return nonce.Nonce{}, err
	}

	m.evHandler("shift: committed: rate[%s] proposer[%s] value[%s]", rateID.Hex(), caller, value)

	return n, nil
}

// Dispute challenges the committed proposal for the rate id. If the value
// does not validate against ground truth, the proposal is replaced with the
// true value attributed to the engine itself under the same nonce, and the
// challenged proposer's bond is force-claimed to the receiver.
func (m *Machine) Dispute(rateID commit.RateID, proposer commit.AccountID, receiver commit.AccountID, value *uint256.Int, n nonce.Nonce, data []byte) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.rates.IsActive(rateID) {
		return nil, ErrInactiveRateID
	}

	// A proposal produced by a prior dispute has no bonded proposer to
	// penalize and is authoritative until overwritten by a fresh shift.
	if proposer.Equal(m.account) {
		return nil, ErrAlreadyDisputed
	}

	stored := m.ledger.current(rateID)
	if commit.Propose(rateID, proposer, value, n.Pack()) != stored {
		return nil, ErrUnknownProposal
	}

	result, trueValue, err := m.adapter.Validate(value, rateID, n, data)
	if err != nil {
		return nil, err
	}
	if result == adapter.Success {
		return nil, ErrInvalidDispute
	}

	// A nonce or round mismatch never computes ground truth. With no true
	// value there is nothing to commit and no proof the proposer lied.
	if trueValue == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnprovenDispute, result)
	}

	// The ledger write precedes the collateral move so a storer failure
	// cannot strand a paid dispute. A claim failure restores the challenged
	// proposal.
	digest := commit.Propose(rateID, m.account, trueValue, n.Pack())
	if err := m.ledger.store(rateID, digest); err != nil {
		return nil, err
	}

	if err := m.bonds.Claim(proposer, rateID, receiver); err != nil {
		if rerr := m.ledger.store(rateID, stored); rerr != nil {
			m.evHandler("dispute: restore failed: rate[%s] %s", rateID.Hex(), rerr)
		}
		return nil, err
	}

	m.evHandler("dispute: upheld: rate[%s] proposer[%s] cause[%s] value[%s]", rateID.Hex(), proposer, result, trueValue)

	return trueValue, nil
}

// Push force-finalizes the current live value into the registry and retires
// any pending proposal for the rate id.
func (m *Machine) Push(rateID commit.RateID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.rates.IsActive(rateID) {
		return ErrInactiveRateID
	}

	value, _, err := m.adapter.Value(rateID)
	if err != nil {
		return err
	}

	if err := m.adapter.Push(rateID, value); err != nil {
		m.evHandler("push: registry push failed: rate[%s] %s", rateID.Hex(), err)
	}

	// A push always retires the pending proposal, win or not.
	if err := m.ledger.store(rateID, commit.Sentinel); err != nil {
		return err
	}

	m.evHandler("push: finalized: rate[%s] value[%s]", rateID.Hex(), value)

	return nil
}

// Lock batch-deactivates the rate ids as an emergency brake, halting
// proposing while leaving bonded collateral recoverable.
func (m *Machine) Lock(caller commit.AccountID, rateIDs []commit.RateID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.rates.Lock(caller, rateIDs); err != nil {
		return err
	}

	m.evHandler("lock: halted: rates[%d]", len(rateIDs))

	return nil
}

// Recover returns the caller's bond for a deactivated rate id.
func (m *Machine) Recover(caller commit.AccountID, rateID commit.RateID, receiver commit.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.bonds.Recover(caller, rateID, receiver)
}
