package adapter

import (
	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
)

// Single is the one-feed adapter family: the value is the feed's latest
// answer normalized to WAD.
type Single struct {
	base
}

// NewSingle constructs a single-feed adapter.
func NewSingle(codec *nonce.Codec, registry Registry, auth Authorizer) *Single {
	s := Single{
		base: base{
			bindings: make(map[commit.RateID]binding),
			codec:    codec,
			registry: registry,
			auth:     auth,
		},
	}
	s.combine = func(values []*uint256.Int) *uint256.Int { return values[0] }
	s.arity = func(n int) bool { return n == 1 }

	return &s
}
