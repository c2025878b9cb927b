package adapter

import (
	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
)

// MinFeeds is the minimum feed cardinality of the min-of-N family. Taking the
// minimum across fewer than three independent sources gives an attacker too
// much leverage over a single compromised feed.
const MinFeeds = 3

// MinOf is the minimum-aggregator adapter family: the value is the smallest
// WAD-normalized answer across the configured feeds.
type MinOf struct {
	base
}

// NewMinOf constructs a min-of-N adapter.
func NewMinOf(codec *nonce.Codec, registry Registry, auth Authorizer) *MinOf {
	m := MinOf{
		base: base{
			bindings: make(map[commit.RateID]binding),
			codec:    codec,
			registry: registry,
			auth:     auth,
		},
	}
	m.combine = func(values []*uint256.Int) *uint256.Int {
		min := values[0]
		for _, v := range values[1:] {
			if v.Lt(min) {
				min = v
			}
		}
		return min
	}
	m.arity = func(n int) bool { return n >= MinFeeds }

	return &m
}
