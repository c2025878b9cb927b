// Package commit implements the commit-by-digest scheme used by the proposal
// ledger. Only a keccak digest over the full proposal tuple is ever stored;
// callers must resupply the plaintext tuple and verifying code recomputes the
// digest and compares.
package commit

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// HashLength is the byte length of rate ids and proposal digests.
const HashLength = 32

// =============================================================================

// RateID is an opaque 256-bit key identifying one tracked value stream.
type RateID [HashLength]byte

// ToRateID converts a hex-encoded string to a rate id and validates the
// hex-encoded string is formatted correctly.
func ToRateID(hex string) (RateID, error) {
	b, err := hexutil.Decode(hex)
	if err != nil {
		return RateID{}, err
	}

	var id RateID
	copy(id[HashLength-len(b):], b)

	return id, nil
}

// AssetToRateID derives the rate id for an asset symbol. Any unique string
// works; the id is only ever compared for equality.
func AssetToRateID(asset string) RateID {
	var id RateID
	copy(id[:], crypto.Keccak256([]byte(asset)))

	return id
}

// Hex returns the rate id in 0x prefixed hex encoding.
func (id RateID) Hex() string {
	return hexutil.Encode(id[:])
}

// =============================================================================

// Digest is the only on-ledger representation of a pending proposal. The zero
// value is the reserved sentinel meaning no proposal has been committed; a
// real digest collides with it only with astronomically low probability.
type Digest [HashLength]byte

// Sentinel is the all-zero digest stored for a rate id with no proposal.
var Sentinel = Digest{}

// ToDigest converts a hex-encoded string to a digest and validates the
// hex-encoded string is formatted correctly.
func ToDigest(hex string) (Digest, error) {
	b, err := hexutil.Decode(hex)
	if err != nil {
		return Digest{}, err
	}

	var d Digest
	copy(d[HashLength-len(b):], b)

	return d, nil
}

// IsSentinel reports whether the digest is the reserved no-proposal value.
func (d Digest) IsSentinel() bool {
	return d == Sentinel
}

// Hex returns the digest in 0x prefixed hex encoding.
func (d Digest) Hex() string {
	return hexutil.Encode(d[:])
}

// =============================================================================

// Propose computes the digest committing a (rateID, proposer, value, nonce)
// tuple. The nonce is supplied in its packed 256-bit form. A nil value is
// treated as zero so the default tuple digests deterministically.
func Propose(rateID RateID, proposer AccountID, value *uint256.Int, packedNonce *uint256.Int) Digest {
	if value == nil {
		value = new(uint256.Int)
	}
	if packedNonce == nil {
		packedNonce = new(uint256.Int)
	}

	buf := make([]byte, 0, 4*HashLength)
	buf = append(buf, rateID[:]...)
	buf = append(buf, proposer.bytes32()...)

	vb := value.Bytes32()
	buf = append(buf, vb[:]...)

	nb := packedNonce.Bytes32()
	buf = append(buf, nb[:]...)

	var d Digest
	copy(d[:], crypto.Keccak256(buf))

	return d
}
