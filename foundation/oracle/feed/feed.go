// Package feed declares the contract an external round-based value source
// must satisfy and the fixed-point normalization shared by every adapter.
package feed

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Set of errors surfaced at the feed boundary.
var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrRoundExists     = errors.New("round id already published")
	ErrNegativeAnswer  = errors.New("feed answer is not positive")
	ErrAnswerOverflow  = errors.New("scaled answer overflows 256 bits")
	ErrDecimalsTooBig  = errors.New("feed decimals out of range")
	ErrRoundIDOverflow = errors.New("round id out of range")
)

// maxDecimals bounds a feed's native precision. 10^77 still fits 256 bits;
// anything larger cannot be scaled without precision games.
const maxDecimals = 77

// =============================================================================

// Round is one published observation from a feed: a monotonically increasing
// round id, the raw answer in the feed's native precision, and the time the
// answer was last updated.
type Round struct {
	ID        uint64
	Answer    *big.Int
	UpdatedAt uint64
}

// Reader is the behavior required of any external value source. Round is the
// historical lookup and may fail with ErrRoundNotFound for an unknown id.
type Reader interface {
	Decimals() (uint8, error)
	LatestRound() (Round, error)
	Round(id uint64) (Round, error)
}

// =============================================================================

// ScaleWAD converts a raw feed answer in the feed's native precision to the
// 18-decimal WAD base: scaled = raw * 10^18 / 10^decimals.
func ScaleWAD(answer *big.Int, decimals uint8) (*uint256.Int, error) {
	if answer == nil || answer.Sign() <= 0 {
		return nil, ErrNegativeAnswer
	}
	if decimals > maxDecimals {
		return nil, ErrDecimalsTooBig
	}

	scaled := new(big.Int).Mul(answer, big.NewInt(1_000_000_000_000_000_000))
	scaled.Quo(scaled, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))

	v, overflow := uint256.FromBig(scaled)
	if overflow {
		return nil, ErrAnswerOverflow
	}

	return v, nil
}

// CheckRoundID traps a source round id that does not fit the nonce's 64-bit
// round field rather than letting it silently truncate.
func CheckRoundID(id *big.Int) (uint64, error) {
	if id == nil || id.Sign() < 0 || !id.IsUint64() {
		return 0, ErrRoundIDOverflow
	}

	return id.Uint64(), nil
}
