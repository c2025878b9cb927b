// Package token implements the fungible bond-token ledger the vault moves
// collateral through. Semantics follow the standard transfer/transfer-from
// model with per-owner allowances.
package token

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// Set of errors a transfer can fail with.
var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Ledger maintains balances and allowances for one token.
type Ledger struct {
	mu         sync.Mutex
	balances   map[commit.AccountID]*uint256.Int
	allowances map[commit.AccountID]map[commit.AccountID]*uint256.Int
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances:   make(map[commit.AccountID]*uint256.Int),
		allowances: make(map[commit.AccountID]map[commit.AccountID]*uint256.Int),
	}
}

// Mint credits the account, growing supply. Used to seed test and demo
// environments.
func (l *Ledger) Mint(account commit.AccountID, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.credit(account, amount)
}

// BalanceOf returns the account's current balance.
func (l *Ledger) BalanceOf(account commit.AccountID) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bal, exists := l.balances[account]; exists {
		return new(uint256.Int).Set(bal)
	}

	return new(uint256.Int)
}

// Approve lets the spender move up to amount from the owner's balance.
func (l *Ledger) Approve(owner commit.AccountID, spender commit.AccountID, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	spenders, exists := l.allowances[owner]
	if !exists {
		spenders = make(map[commit.AccountID]*uint256.Int)
		l.allowances[owner] = spenders
	}
	spenders[spender] = new(uint256.Int).Set(amount)
}

// Bind returns a session that moves tokens as the specified owner. The vault
// holds a session bound to its own account.
func (l *Ledger) Bind(owner commit.AccountID) *Session {
	return &Session{
		ledger: l,
		owner:  owner,
	}
}

// =============================================================================

// Session is a ledger handle bound to one owner account.
type Session struct {
	ledger *Ledger
	owner  commit.AccountID
}

// Transfer moves amount from the bound owner to the receiver.
func (s *Session) Transfer(to commit.AccountID, amount *uint256.Int) (bool, error) {
	l := s.ledger

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(s.owner, amount); err != nil {
		return false, err
	}
	l.credit(to, amount)

	return true, nil
}

// TransferFrom moves amount from the specified owner to the receiver,
// consuming the bound account's allowance.
func (s *Session) TransferFrom(from commit.AccountID, to commit.AccountID, amount *uint256.Int) (bool, error) {
	l := s.ledger

	l.mu.Lock()
	defer l.mu.Unlock()

	allowance, exists := l.allowances[from][s.owner]
	if !exists || allowance.Lt(amount) {
		return false, ErrInsufficientAllowance
	}

	if err := l.debit(from, amount); err != nil {
		return false, err
	}
	l.credit(to, amount)
	allowance.Sub(allowance, amount)

	return true, nil
}

// =============================================================================

// credit adds amount to the account. Callers hold the lock.
func (l *Ledger) credit(account commit.AccountID, amount *uint256.Int) {
	bal, exists := l.balances[account]
	if !exists {
		bal = new(uint256.Int)
		l.balances[account] = bal
	}
	bal.Add(bal, amount)
}

// debit removes amount from the account. Callers hold the lock.
func (l *Ledger) debit(account commit.AccountID, amount *uint256.Int) error {
	bal, exists := l.balances[account]
	if !exists || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)

	return nil
}
