package public

// bondRequest is what a proposer submits to lock collateral.
type bondRequest struct {
	Caller  string   `json:"caller" validate:"required"`
	RateIDs []string `json:"rate_ids" validate:"required,min=1"`
}

// unbondRequest resupplies the live proposal tuple to release a bond.
type unbondRequest struct {
	Caller       string `json:"caller" validate:"required"`
	RateID       string `json:"rate_id" validate:"required"`
	LastProposer string `json:"last_proposer"`
	LastValue    string `json:"last_value"`
	LastNonce    string `json:"last_nonce"`
	Receiver     string `json:"receiver" validate:"required"`
}

// recoverRequest releases a bond for a locked rate id.
type recoverRequest struct {
	Caller   string `json:"caller" validate:"required"`
	RateID   string `json:"rate_id" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
}

// shiftRequest commits a new proposal.
type shiftRequest struct {
	Caller       string `json:"caller" validate:"required"`
	RateID       string `json:"rate_id" validate:"required"`
	PrevProposer string `json:"prev_proposer"`
	PrevValue    string `json:"prev_value"`
	PrevNonce    string `json:"prev_nonce"`
	Value        string `json:"value" validate:"required"`
	Data         string `json:"data" validate:"required"`
}

// disputeRequest challenges the committed proposal.
type disputeRequest struct {
	RateID   string `json:"rate_id" validate:"required"`
	Proposer string `json:"proposer" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	Value    string `json:"value" validate:"required"`
	Nonce    string `json:"nonce" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

// pushRequest force-finalizes the live value.
type pushRequest struct {
	RateID string `json:"rate_id" validate:"required"`
}

// shiftResponse returns the minted nonce for the caller's next shift.
type shiftResponse struct {
	Status string `json:"status"`
	Nonce  string `json:"nonce"`
}

// disputeResponse returns the true value the proposal was replaced with.
type disputeResponse struct {
	Status    string `json:"status"`
	TrueValue string `json:"true_value"`
}

// valueResponse returns the live value and the data payload needed to
// propose it.
type valueResponse struct {
	Value string `json:"value"`
	Data  string `json:"data"`
}

// proposalResponse returns the committed digest for a rate id.
type proposalResponse struct {
	RateID   string `json:"rate_id"`
	Digest   string `json:"digest"`
	Sentinel bool   `json:"sentinel"`
}
