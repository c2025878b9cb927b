package private

import (
	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// rateRequest targets one rate id with an authorized caller.
type rateRequest struct {
	Caller string `json:"caller" validate:"required"`
	RateID string `json:"rate_id" validate:"required"`
}

// parse converts the request's wire fields.
func (req rateRequest) parse() (commit.AccountID, commit.RateID, error) {
	caller, err := commit.ToAccountID(req.Caller)
	if err != nil {
		return "", commit.RateID{}, err
	}

	rateID, err := commit.ToRateID(req.RateID)
	if err != nil {
		return "", commit.RateID{}, err
	}

	return caller, rateID, nil
}

// lockRequest batch-deactivates rate ids.
type lockRequest struct {
	Caller  string   `json:"caller" validate:"required"`
	RateIDs []string `json:"rate_ids" validate:"required,min=1"`
}

// createFeedRequest adds a named in-memory feed.
type createFeedRequest struct {
	Name     string `json:"name" validate:"required"`
	Decimals uint8  `json:"decimals"`
}

// postRoundRequest publishes a round into a named feed. An empty round id
// lets the feed assign the next sequential id; a mirrored external round
// carries the source's own id as a decimal string.
type postRoundRequest struct {
	Name      string `json:"name" validate:"required"`
	RoundID   string `json:"round_id"`
	Answer    string `json:"answer" validate:"required"`
	UpdatedAt uint64 `json:"updated_at" validate:"required"`
}

// setFeedRequest binds a rate id to feeds and a registry asset.
type setFeedRequest struct {
	Caller string   `json:"caller" validate:"required"`
	RateID string   `json:"rate_id" validate:"required"`
	Asset  string   `json:"asset" validate:"required"`
	Feeds  []string `json:"feeds" validate:"required,min=1"`
}

// capRequest grants or revokes one capability.
type capRequest struct {
	Signature string `json:"signature" validate:"required"`
	Account   string `json:"account" validate:"required"`
}

// tokenRequest mints bond tokens.
type tokenRequest struct {
	Account string `json:"account" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}

// parse converts the request's wire fields.
func (req tokenRequest) parse() (commit.AccountID, *uint256.Int, error) {
	account, err := commit.ToAccountID(req.Account)
	if err != nil {
		return "", nil, err
	}

	amount, err := uint256.FromDecimal(req.Amount)
	if err != nil {
		return "", nil, err
	}

	return account, amount, nil
}

// approveRequest sets a vault allowance.
type approveRequest struct {
	Owner   string `json:"owner" validate:"required"`
	Spender string `json:"spender" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}
