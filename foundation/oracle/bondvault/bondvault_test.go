package bondvault_test

import (
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/bondvault"
	"github.com/oraclenet/spot/foundation/oracle/capability"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
	"github.com/oraclenet/spot/foundation/oracle/token"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

const (
	admin     = commit.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	vaultAcct = commit.AccountID("0x39F36a5bbB0F669f08E11ed7309bd3824e833ec5")
	proposer  = commit.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	pauper    = commit.AccountID("0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8")
	receiver  = commit.AccountID("0xbEE6ACE826eC2DE1B38a1F7DDfdf1Ab45779c56a")
)

var wad = uint256.MustFromDecimal("1000000000000000000")

// proposals is a fixed-digest ledger standing in for the state machine.
type proposals struct {
	digest commit.Digest
}

func (p *proposals) Current(rateID commit.RateID) commit.Digest {
	return p.digest
}

func Test_Vault(t *testing.T) {
	caps := capability.New()
	caps.Grant(capability.Wildcard, admin)
	caps.Grant(bondvault.SigBond, proposer)
	caps.Grant(bondvault.SigBond, pauper)

	reg := ratereg.New(caps)
	ethusd := commit.AssetToRateID("ETHUSD")
	btcusd := commit.AssetToRateID("BTCUSD")
	dogeusd := commit.AssetToRateID("DOGEUSD")

	if err := reg.Activate(admin, ethusd); err != nil {
		t.Fatalf("\t%s\tShould be able to activate ETHUSD: %v", failed, err)
	}
	if err := reg.Activate(admin, btcusd); err != nil {
		t.Fatalf("\t%s\tShould be able to activate BTCUSD: %v", failed, err)
	}

	tok := token.New()
	tok.Mint(proposer, new(uint256.Int).Mul(wad, uint256.NewInt(10)))
	tok.Approve(proposer, vaultAcct, new(uint256.Int).Mul(wad, uint256.NewInt(10)))

	clock := time.Unix(1_700_001_000, 0)
	codec := nonce.NewCodec(10*time.Minute, func() time.Time { return clock })

	props := proposals{}

	vault := bondvault.New(bondvault.Config{
		Account:   vaultAcct,
		BondSize:  wad,
		Token:     tok.Bind(vaultAcct),
		Rates:     reg,
		Proposals: &props,
		Codec:     codec,
		Auth:      caps,
	})

	t.Log("Given the need to hold proposer collateral.")
	{
		t.Logf("\tTest 0:\tWhen bonding against rate ids.")
		{
			if err := vault.Bond(receiver, []commit.RateID{ethusd}); !errors.Is(err, bondvault.ErrNotAuthorized) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an ungranted caller: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an ungranted caller.", success)

			if err := vault.Bond(proposer, []commit.RateID{dogeusd}); !errors.Is(err, bondvault.ErrInactiveRateID) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an inactive rate id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an inactive rate id.", success)

			if err := vault.Bond(proposer, []commit.RateID{ethusd, ethusd}); !errors.Is(err, bondvault.ErrBondedProposer) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a duplicate in the batch: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a duplicate in the batch.", success)

			if err := vault.Bond(pauper, []commit.RateID{ethusd}); !errors.Is(err, bondvault.ErrTransferFailed) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a caller without allowance: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a caller without allowance.", success)

			if err := vault.Bond(proposer, []commit.RateID{ethusd, btcusd}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to bond a batch: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to bond a batch.", success)

			want := new(uint256.Int).Mul(wad, uint256.NewInt(2))
			if !tok.BalanceOf(vaultAcct).Eq(want) {
				t.Fatalf("\t%s\tTest 0:\tShould hold one bond per rate id: got %s", failed, tok.BalanceOf(vaultAcct).Dec())
			}
			t.Logf("\t%s\tTest 0:\tShould hold one bond per rate id.", success)

			if !vault.IsBonded(proposer, ethusd) || !vault.IsBonded(proposer, btcusd) {
				t.Fatalf("\t%s\tTest 0:\tShould record both bonds.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould record both bonds.", success)

			if err := vault.Bond(proposer, []commit.RateID{ethusd}); !errors.Is(err, bondvault.ErrBondedProposer) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a double bond: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a double bond.", success)
		}

		value := new(uint256.Int).Mul(wad, uint256.NewInt(2500))
		n, err := codec.Encode(nonce.Nonce{}, nonce.MarshalData([]nonce.Source{{RoundID: 1, UpdatedAt: 1_700_000_000}}))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mint a nonce: %v", failed, err)
		}
		props.digest = commit.Propose(ethusd, proposer, value, n.Pack())

		t.Logf("\tTest 1:\tWhen unbonding.")
		{
			if err := vault.Unbond(receiver, ethusd, proposer, value, n, receiver); !errors.Is(err, bondvault.ErrUnbondedProposer) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an unbonded caller: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an unbonded caller.", success)

			if err := vault.Unbond(proposer, ethusd, proposer, wad, n, receiver); !errors.Is(err, bondvault.ErrInvalidProposal) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a tuple that does not match the ledger: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a tuple that does not match the ledger.", success)

			if err := vault.Unbond(proposer, ethusd, proposer, value, n, receiver); !errors.Is(err, bondvault.ErrIsProposing) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an unbond inside the dispute window: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an unbond inside the dispute window.", success)

			clock = clock.Add(10 * time.Minute)

			if err := vault.Unbond(proposer, ethusd, proposer, value, n, receiver); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unbond after the window: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to unbond after the window.", success)

			if !tok.BalanceOf(receiver).Eq(wad) {
				t.Fatalf("\t%s\tTest 1:\tShould pay the bond to the receiver: got %s", failed, tok.BalanceOf(receiver).Dec())
			}
			t.Logf("\t%s\tTest 1:\tShould pay the bond to the receiver.", success)

			if vault.IsBonded(proposer, ethusd) {
				t.Fatalf("\t%s\tTest 1:\tShould clear the bond record.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould clear the bond record.", success)
		}

		t.Logf("\tTest 2:\tWhen recovering after a lock.")
		{
			if err := vault.Recover(proposer, btcusd, receiver); !errors.Is(err, bondvault.ErrNotLocked) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a recover while the rate id is active: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a recover while the rate id is active.", success)

			if err := reg.Lock(admin, []commit.RateID{btcusd}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to lock the rate id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to lock the rate id.", success)

			if err := vault.Recover(receiver, btcusd, receiver); !errors.Is(err, bondvault.ErrUnbondedProposer) {
				t.Fatalf("\t%s\tTest 2:\tShould reject an unbonded caller: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an unbonded caller.", success)

			if err := vault.Recover(proposer, btcusd, receiver); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to recover the bond: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to recover the bond.", success)

			want := new(uint256.Int).Mul(wad, uint256.NewInt(2))
			if !tok.BalanceOf(receiver).Eq(want) {
				t.Fatalf("\t%s\tTest 2:\tShould pay the bond to the receiver: got %s", failed, tok.BalanceOf(receiver).Dec())
			}
			t.Logf("\t%s\tTest 2:\tShould pay the bond to the receiver.", success)
		}

		t.Logf("\tTest 3:\tWhen claiming without a bond.")
		{
			if err := vault.Claim(proposer, ethusd, receiver); !errors.Is(err, bondvault.ErrUnbondedProposer) {
				t.Fatalf("\t%s\tTest 3:\tShould reject a claim with no bond: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject a claim with no bond.", success)
		}
	}
}
