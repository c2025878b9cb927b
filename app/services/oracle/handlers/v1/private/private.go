// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"math/big"
	"net/http"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/oraclenet/spot/business/web/errs"
	"github.com/oraclenet/spot/foundation/oracle/capability"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/feed"
	"github.com/oraclenet/spot/foundation/oracle/feed/memory"
	"github.com/oraclenet/spot/foundation/oracle/machine"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
	"github.com/oraclenet/spot/foundation/oracle/token"
	"github.com/oraclenet/spot/foundation/web"
)

// FeedAdmin is the behavior required to configure an adapter's feeds.
type FeedAdmin interface {
	SetFeed(caller commit.AccountID, rateID commit.RateID, asset string, feeds ...feed.Reader) error
	UnsetFeed(caller commit.AccountID, rateID commit.RateID) error
}

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Machine *machine.Machine
	Rates   *ratereg.Registry
	Token   *token.Ledger
	Caps    *capability.Store
	Feeds   *memory.Bank
	Adapter FeedAdmin
}

// Activate marks a rate id active.
func (h Handlers) Activate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rateRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, rateID, err := req.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Rates.Activate(caller, rateID); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "activated")
}

// Deactivate marks a rate id inactive.
func (h Handlers) Deactivate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rateRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, rateID, err := req.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Rates.Deactivate(caller, rateID); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "deactivated")
}

// Lock batch-deactivates a set of rate ids.
func (h Handlers) Lock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req lockRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, err := commit.ToAccountID(req.Caller)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	rateIDs := make([]commit.RateID, len(req.RateIDs))
	for i, hexID := range req.RateIDs {
		rateID, err := commit.ToRateID(hexID)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		rateIDs[i] = rateID
	}

	if err := h.Machine.Lock(caller, rateIDs); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "locked")
}

// CreateFeed adds a named in-memory feed.
func (h Handlers) CreateFeed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req createFeedRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	if err := h.Feeds.Create(req.Name, req.Decimals); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "feed created")
}

// PostRound publishes a round into a named feed.
func (h Handlers) PostRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req postRoundRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	answer, ok := new(big.Int).SetString(req.Answer, 10)
	if !ok {
		return errs.NewTrusted(errors.New("answer is not a decimal number"), http.StatusBadRequest)
	}

	var round feed.Round
	var err error

	switch req.RoundID {
	case "":
		round, err = h.Feeds.Post(req.Name, answer, req.UpdatedAt)

	default:
		rawID, ok := new(big.Int).SetString(req.RoundID, 10)
		if !ok {
			return errs.NewTrusted(errors.New("round id is not a decimal number"), http.StatusBadRequest)
		}
		round, err = h.Feeds.PostAt(req.Name, rawID, answer, req.UpdatedAt)
	}
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status  string `json:"status"`
		RoundID uint64 `json:"round_id"`
	}{
		Status:  "round posted",
		RoundID: round.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetFeed binds a rate id to its feeds and registry identity.
func (h Handlers) SetFeed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req setFeedRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, err := commit.ToAccountID(req.Caller)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	rateID, err := commit.ToRateID(req.RateID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	feeds, err := h.Feeds.Lookup(req.Feeds...)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Adapter.SetFeed(caller, rateID, req.Asset, feeds...); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "feed bound")
}

// UnsetFeed removes a rate id's feed binding.
func (h Handlers) UnsetFeed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rateRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, rateID, err := req.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Adapter.UnsetFeed(caller, rateID); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return respondStatus(ctx, w, "feed unbound")
}

// Grant authorizes an account for an operation signature.
func (h Handlers) Grant(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req capRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	account, err := commit.ToAccountID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Caps.Grant(req.Signature, account)

	return respondStatus(ctx, w, "granted")
}

// Revoke removes an account's authorization for an operation signature.
func (h Handlers) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req capRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	account, err := commit.ToAccountID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Caps.Revoke(req.Signature, account)

	return respondStatus(ctx, w, "revoked")
}

// Mint credits bond tokens to an account.
func (h Handlers) Mint(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req tokenRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	account, amount, err := req.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Token.Mint(account, amount)

	return respondStatus(ctx, w, "minted")
}

// Approve lets the vault pull bond collateral from an account.
func (h Handlers) Approve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req approveRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	owner, err := commit.ToAccountID(req.Owner)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	spender, err := commit.ToAccountID(req.Spender)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	amount, err := uint256.FromDecimal(req.Amount)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Token.Approve(owner, spender, amount)

	return respondStatus(ctx, w, "approved")
}

// =============================================================================

// respondStatus sends the uniform status response.
func respondStatus(ctx context.Context, w http.ResponseWriter, status string) error {
	resp := struct {
		Status string `json:"status"`
	}{
		Status: status,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
