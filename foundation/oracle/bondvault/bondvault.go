// Package bondvault tracks which proposer has locked collateral against which
// rate id and moves that collateral through the external token collaborator.
package bondvault

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
)

// SigBond is the operation signature gating who may act as a proposer.
const SigBond = "bondvault.bond"

// Set of errors the vault fails with.
var (
	ErrBondedProposer   = errors.New("proposer already bonded")
	ErrUnbondedProposer = errors.New("proposer not bonded")
	ErrInvalidProposal  = errors.New("proposal tuple does not match ledger")
	ErrIsProposing      = errors.New("dispute window still open")
	ErrNotLocked        = errors.New("rate id not locked")
	ErrInactiveRateID   = errors.New("rate id not active")
	ErrNotAuthorized    = errors.New("caller not authorized")
	ErrTransferFailed   = errors.New("token transfer failed")
)

// Mover is the behavior required of the token collaborator. A returned false
// and a returned error are treated identically as a failed transfer.
type Mover interface {
	Transfer(to commit.AccountID, amount *uint256.Int) (bool, error)
	TransferFrom(from commit.AccountID, to commit.AccountID, amount *uint256.Int) (bool, error)
}

// Rates is the behavior the vault needs from the rate registry.
type Rates interface {
	IsActive(rateID commit.RateID) bool
}

// Proposals is the behavior the vault needs from the proposal ledger to prove
// an unbonding caller knows the live state.
type Proposals interface {
	Current(rateID commit.RateID) commit.Digest
}

// Authorizer is the behavior required of the capability collaborator.
type Authorizer interface {
	IsAuthorized(signature string, caller commit.AccountID) bool
}

// =============================================================================

// bondKey identifies one bond record.
type bondKey struct {
	proposer commit.AccountID
	rateID   commit.RateID
}

// Config holds the collaborators and parameters the vault depends on.
type Config struct {
	Account   commit.AccountID
	BondSize  *uint256.Int
	Token     Mover
	Rates     Rates
	Proposals Proposals
	Codec     *nonce.Codec
	Auth      Authorizer
}

// Vault maintains the bond ledger.
type Vault struct {
	mu        sync.Mutex
	bonds     map[bondKey]struct{}
	account   commit.AccountID
	bondSize  *uint256.Int
	token     Mover
	rates     Rates
	proposals Proposals
	codec     *nonce.Codec
	auth      Authorizer
}

// New constructs a vault holding collateral under its own account.
func New(cfg Config) *Vault {
	return &Vault{
		bonds:     make(map[bondKey]struct{}),
		account:   cfg.Account,
		bondSize:  new(uint256.Int).Set(cfg.BondSize),
		token:     cfg.Token,
		rates:     cfg.Rates,
		proposals: cfg.Proposals,
		codec:     cfg.Codec,
		auth:      cfg.Auth,
	}
}

// SetProposals wires the proposal ledger after construction. The vault and
// the state machine reference each other; the machine is built second.
func (v *Vault) SetProposals(proposals Proposals) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.proposals = proposals
}

// BondSize returns the collateral locked per bond.
func (v *Vault) BondSize() *uint256.Int {
	return new(uint256.Int).Set(v.bondSize)
}

// Bond locks bondSize collateral for each rate id. Every rate id must be
// active and not already bonded by the caller, and the caller must hold the
// proposer capability.
func (v *Vault) Bond(caller commit.AccountID, rateIDs []commit.RateID) error {
	if !v.auth.IsAuthorized(SigBond, caller) {
		return ErrNotAuthorized
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// Validate the whole batch before moving any collateral so a failed
	// precondition leaves the ledger untouched.
	seen := make(map[commit.RateID]struct{}, len(rateIDs))
	for _, rateID := range rateIDs {
		if !v.rates.IsActive(rateID) {
			return fmt.Errorf("rate %s: %w", rateID.Hex(), ErrInactiveRateID)
		}
		if _, exists := v.bonds[bondKey{caller, rateID}]; exists {
			return fmt.Errorf("rate %s: %w", rateID.Hex(), ErrBondedProposer)
		}
		if _, dup := seen[rateID]; dup {
			return fmt.Errorf("rate %s: %w", rateID.Hex(), ErrBondedProposer)
		}
		seen[rateID] = struct{}{}
	}

	// One transfer covers the whole batch so the ledger and the token move
	// together or not at all.
	total := new(uint256.Int).Mul(v.bondSize, uint256.NewInt(uint64(len(rateIDs))))
	ok, err := v.token.TransferFrom(caller, v.account, total)
	if err != nil || !ok {
		return ErrTransferFailed
	}

	for _, rateID := range rateIDs {
		v.bonds[bondKey{caller, rateID}] = struct{}{}
	}

	return nil
}

// Unbond releases the caller's bond to the receiver. The caller must resupply
// the live proposal tuple, proving knowledge of the current ledger state, and
// that proposal's dispute window must have elapsed since the proposer could
// otherwise still be disputed.
func (v *Vault) Unbond(caller commit.AccountID, rateID commit.RateID, lastProposer commit.AccountID, lastValue *uint256.Int, lastNonce nonce.Nonce, receiver commit.AccountID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.bonds[bondKey{caller, rateID}]; !exists {
		return ErrUnbondedProposer
	}

	expected := commit.Propose(rateID, lastProposer, lastValue, lastNonce.Pack())
	if expected != v.proposals.Current(rateID) {
		return ErrInvalidProposal
	}

	if v.codec.CanDispute(lastNonce) {
		return ErrIsProposing
	}

	ok, err := v.token.Transfer(receiver, v.bondSize)
	if err != nil || !ok {
		return ErrTransferFailed
	}
	delete(v.bonds, bondKey{caller, rateID})

	return nil
}

// Recover returns the caller's bond once the rate id has been deactivated or
// locked. No further disputes are possible for a locked rate id, so the live
// proposal check is bypassed.
func (v *Vault) Recover(caller commit.AccountID, rateID commit.RateID, receiver commit.AccountID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rates.IsActive(rateID) {
		return ErrNotLocked
	}

	if _, exists := v.bonds[bondKey{caller, rateID}]; !exists {
		return ErrUnbondedProposer
	}

	ok, err := v.token.Transfer(receiver, v.bondSize)
	if err != nil || !ok {
		return ErrTransferFailed
	}
	delete(v.bonds, bondKey{caller, rateID})

	return nil
}

// Claim force-transfers the proposer's bond to the receiver, independent of
// window state. Invoked only by a successful dispute.
func (v *Vault) Claim(proposer commit.AccountID, rateID commit.RateID, receiver commit.AccountID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.bonds[bondKey{proposer, rateID}]; !exists {
		return ErrUnbondedProposer
	}

	ok, err := v.token.Transfer(receiver, v.bondSize)
	if err != nil || !ok {
		return ErrTransferFailed
	}
	delete(v.bonds, bondKey{proposer, rateID})

	return nil
}

// IsBonded reports whether the proposer holds a bond for the rate id.
func (v *Vault) IsBonded(proposer commit.AccountID, rateID commit.RateID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, exists := v.bonds[bondKey{proposer, rateID}]
	return exists
}
