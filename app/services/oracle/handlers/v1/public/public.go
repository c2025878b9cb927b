// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/oraclenet/spot/business/web/errs"
	"github.com/oraclenet/spot/foundation/events"
	"github.com/oraclenet/spot/foundation/oracle/bondvault"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/machine"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
	"github.com/oraclenet/spot/foundation/oracle/registry"
	"github.com/oraclenet/spot/foundation/web"
)

// Handlers manages the set of public oracle endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Machine  *machine.Machine
	Vault    *bondvault.Vault
	Registry *ratereg.Registry
	Spot     *registry.Spot
	WS       websocket.Upgrader
	Evts     *events.Events
}

// Events handles a web socket to provide oracle activity to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(event); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Bond locks collateral for the caller against a set of rate ids.
func (h Handlers) Bond(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req bondRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	caller, err := commit.ToAccountID(req.Caller)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	rateIDs, err := toRateIDs(req.RateIDs)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Vault.Bond(caller, rateIDs); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "bonded",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Unbond releases the caller's bond once the live proposal's window elapsed.
func (h Handlers) Unbond(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req unbondRequest
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

	receiver, err := commit.ToAccountID(req.Receiver)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	lastProposer, lastValue, lastNonce, err := toTuple(req.LastProposer, req.LastValue, req.LastNonce)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Vault.Unbond(caller, rateID, lastProposer, lastValue, lastNonce, receiver); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "unbonded",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Recover releases the caller's bond for a locked rate id.
func (h Handlers) Recover(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req recoverRequest
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

	receiver, err := commit.ToAccountID(req.Receiver)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Machine.Recover(caller, rateID, receiver); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "recovered",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Shift commits a new proposal and returns the minted nonce.
func (h Handlers) Shift(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req shiftRequest
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

	prevProposer, prevValue, prevNonce, err := toTuple(req.PrevProposer, req.PrevValue, req.PrevNonce)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	value, err := toValue(req.Value)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	data, err := hexutil.Decode(req.Data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("shift", "traceid", v.TraceID, "rateid", req.RateID, "caller", req.Caller, "value", req.Value)

	n, err := h.Machine.Shift(caller, rateID, prevProposer, prevValue, prevNonce, value, data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := shiftResponse{
		Status: "proposal committed",
		Nonce:  n.Pack().Hex(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Dispute challenges the committed proposal for a rate id.
func (h Handlers) Dispute(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req disputeRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	rateID, err := commit.ToRateID(req.RateID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	receiver, err := commit.ToAccountID(req.Receiver)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	proposer, value, n, err := toTuple(req.Proposer, req.Value, req.Nonce)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	data, err := hexutil.Decode(req.Data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("dispute", "traceid", v.TraceID, "rateid", req.RateID, "proposer", req.Proposer)

	trueValue, err := h.Machine.Dispute(rateID, proposer, receiver, value, n, data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := disputeResponse{
		Status: "dispute upheld",
	}
	if trueValue != nil {
		resp.TrueValue = trueValue.Dec()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Push force-finalizes the live value into the spot registry.
func (h Handlers) Push(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req pushRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	rateID, err := commit.ToRateID(req.RateID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Machine.Push(rateID); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "pushed",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Rates returns the set of active rate ids.
func (h Handlers) Rates(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rateIDs := h.Registry.Copy()

	hexIDs := make([]string, len(rateIDs))
	for i, rateID := range rateIDs {
		hexIDs[i] = rateID.Hex()
	}

	resp := struct {
		RateIDs []string `json:"rate_ids"`
	}{
		RateIDs: hexIDs,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proposal returns the committed digest for a rate id.
func (h Handlers) Proposal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rateID, err := commit.ToRateID(web.Param(r, "rateid"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	digest := h.Machine.Current(rateID)

	resp := proposalResponse{
		RateID:   rateID.Hex(),
		Digest:   digest.Hex(),
		Sentinel: digest.IsSentinel(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Value returns the live value and the data payload a proposer needs.
func (h Handlers) Value(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rateID, err := commit.ToRateID(web.Param(r, "rateid"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	value, data, err := h.Machine.Value(rateID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := valueResponse{
		Value: value.Dec(),
		Data:  hexutil.Encode(data),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SpotValue returns the latest finalized value for an asset.
func (h Handlers) SpotValue(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	asset := web.Param(r, "asset")

	value, err := h.Spot.Value(asset)
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	resp := struct {
		Asset string `json:"asset"`
		Value string `json:"value"`
	}{
		Asset: asset,
		Value: value.Dec(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// toRateIDs converts a slice of hex strings into rate ids.
func toRateIDs(hexIDs []string) ([]commit.RateID, error) {
	rateIDs := make([]commit.RateID, len(hexIDs))
	for i, hexID := range hexIDs {
		rateID, err := commit.ToRateID(hexID)
		if err != nil {
			return nil, err
		}
		rateIDs[i] = rateID
	}

	return rateIDs, nil
}

// toValue parses a decimal value string. Empty means zero.
func toValue(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}

	return uint256.FromDecimal(s)
}

// toTuple parses the (proposer, value, nonce) parts of a proposal tuple.
// Empty strings map to the zero tuple fields.
func toTuple(proposer string, value string, packedNonce string) (commit.AccountID, *uint256.Int, nonce.Nonce, error) {
	account := commit.ZeroAccount
	if proposer != "" {
		var err error
		account, err = commit.ToAccountID(proposer)
		if err != nil {
			return "", nil, nonce.Nonce{}, err
		}
	}

	v, err := toValue(value)
	if err != nil {
		return "", nil, nonce.Nonce{}, err
	}

	var n nonce.Nonce
	if packedNonce != "" {
		packed, err := uint256.FromHex(packedNonce)
		if err != nil {
			return "", nil, nonce.Nonce{}, err
		}
		n = nonce.Unpack(packed)
	}

	return account, v, n, nil
}
