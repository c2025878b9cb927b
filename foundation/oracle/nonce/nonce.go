// Package nonce implements the freshness token protecting proposals against
// replay. A nonce packs, from most to least significant bits: a 128-bit
// fingerprint of the underlying feed data, the minimum as-of timestamp carried
// by that data, and the wall-clock time the proposal was computed.
package nonce

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Bit layout of the packed token.
const (
	FingerprintSize = 16 // high 128 bits
	asOfShift       = 64 // next 64 bits
	packedSize      = 32
)

// Set of errors surfaced while minting a nonce.
var (
	ErrStaleProposal       = errors.New("stale proposal")
	ErrActiveDisputeWindow = errors.New("active dispute window")
	ErrMalformedData       = errors.New("malformed round data")
)

// =============================================================================

// Nonce is the unpacked form of a freshness token.
type Nonce struct {
	Fingerprint [FingerprintSize]byte
	AsOf        uint64
	ProposeTime uint64
}

// IsZero reports whether the nonce is the default value carried by the
// sentinel tuple.
func (n Nonce) IsZero() bool {
	return n == Nonce{}
}

// Pack serializes the nonce into its 256-bit wire form.
func (n Nonce) Pack() *uint256.Int {
	var b [packedSize]byte
	copy(b[:FingerprintSize], n.Fingerprint[:])
	binary.BigEndian.PutUint64(b[FingerprintSize:FingerprintSize+8], n.AsOf)
	binary.BigEndian.PutUint64(b[packedSize-8:], n.ProposeTime)

	return new(uint256.Int).SetBytes(b[:])
}

// Unpack splits a 256-bit token back into its parts. It is pure bit
// extraction and performs no validation.
func Unpack(w *uint256.Int) Nonce {
	var n Nonce
	if w == nil {
		return n
	}

	b := w.Bytes32()
	copy(n.Fingerprint[:], b[:FingerprintSize])
	n.AsOf = binary.BigEndian.Uint64(b[FingerprintSize : FingerprintSize+8])
	n.ProposeTime = binary.BigEndian.Uint64(b[packedSize-8:])

	return n
}

// =============================================================================

// Source identifies one historical feed round used to compute a proposed
// value: the round id and the round's updated-at timestamp.
type Source struct {
	RoundID   uint64
	UpdatedAt uint64
}

// sourceSize is the wire size of one packed source.
const sourceSize = 16

// MarshalData serializes the per-source rounds into the data payload carried
// alongside a proposal.
func MarshalData(sources []Source) []byte {
	data := make([]byte, 0, len(sources)*sourceSize)
	for _, src := range sources {
		var b [sourceSize]byte
		binary.BigEndian.PutUint64(b[:8], src.RoundID)
		binary.BigEndian.PutUint64(b[8:], src.UpdatedAt)
		data = append(data, b[:]...)
	}

	return data
}

// UnmarshalData parses a data payload back into its per-source rounds.
func UnmarshalData(data []byte) ([]Source, error) {
	if len(data) == 0 || len(data)%sourceSize != 0 {
		return nil, ErrMalformedData
	}

	sources := make([]Source, 0, len(data)/sourceSize)
	for i := 0; i < len(data); i += sourceSize {
		sources = append(sources, Source{
			RoundID:   binary.BigEndian.Uint64(data[i : i+8]),
			UpdatedAt: binary.BigEndian.Uint64(data[i+8 : i+16]),
		})
	}

	return sources, nil
}

// =============================================================================

// Codec mints and checks freshness tokens for one adapter family. The dispute
// window is fixed at construction. The clock can be overridden for testing.
type Codec struct {
	window time.Duration
	now    func() time.Time
}

// NewCodec constructs a codec enforcing the specified dispute window. A nil
// now function defaults to time.Now.
func NewCodec(window time.Duration, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}

	return &Codec{
		window: window,
		now:    now,
	}
}

// Window returns the dispute window the codec enforces.
func (c *Codec) Window() time.Duration {
	return c.window
}

// Derive computes the data fingerprint and the as-of timestamp for a data
// payload. A single source packs its fields directly into the fingerprint; a
// multi-source payload hashes the packed tuple. The as-of timestamp is the
// minimum across sources.
func (c *Codec) Derive(data []byte) ([FingerprintSize]byte, uint64, error) {
	var fp [FingerprintSize]byte

	sources, err := UnmarshalData(data)
	if err != nil {
		return fp, 0, err
	}

	asOf := sources[0].UpdatedAt
	for _, src := range sources[1:] {
		if src.UpdatedAt < asOf {
			asOf = src.UpdatedAt
		}
	}

	if len(sources) == 1 {
		copy(fp[:], data)
		return fp, asOf, nil
	}

	copy(fp[:], crypto.Keccak256(data))
	return fp, asOf, nil
}

// Encode mints the nonce for a new proposal. When a previous nonce is
// supplied, the new data must carry a strictly greater as-of timestamp and
// the previous proposal's dispute window must have elapsed.
func (c *Codec) Encode(prev Nonce, data []byte) (Nonce, error) {
	fp, asOf, err := c.Derive(data)
	if err != nil {
		return Nonce{}, err
	}

	now := c.now()

	if !prev.IsZero() {
		if asOf <= prev.AsOf {
			return Nonce{}, ErrStaleProposal
		}
		if now.Sub(time.Unix(int64(prev.ProposeTime), 0)) < c.window {
			return Nonce{}, ErrActiveDisputeWindow
		}
	}

	n := Nonce{
		Fingerprint: fp,
		AsOf:        asOf,
		ProposeTime: uint64(now.Unix()),
	}

	return n, nil
}

// CanDispute reports whether the proposal carrying this nonce is still inside
// its dispute window at the caller-observed current time.
func (c *Codec) CanDispute(n Nonce) bool {
	return c.now().Sub(time.Unix(int64(n.ProposeTime), 0)) < c.window
}
