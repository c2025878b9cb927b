package commit_test

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/commit"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

const (
	proposerA = commit.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	proposerB = commit.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
)

func Test_Propose(t *testing.T) {
	t.Log("Given the need to commit proposal tuples by digest.")
	{
		rateID := commit.AssetToRateID("ETHUSD")
		value := uint256.NewInt(1_000_000_000)
		packed := uint256.NewInt(42)

		t.Logf("\tTest 0:\tWhen digesting the same tuple twice.")
		{
			d1 := commit.Propose(rateID, proposerA, value, packed)
			d2 := commit.Propose(rateID, proposerA, value, packed)

			if d1 != d2 {
				t.Fatalf("\t%s\tTest 0:\tShould compute the same digest: got %s and %s", failed, d1.Hex(), d2.Hex())
			}
			t.Logf("\t%s\tTest 0:\tShould compute the same digest.", success)

			if d1.IsSentinel() {
				t.Fatalf("\t%s\tTest 0:\tShould not collide with the sentinel.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not collide with the sentinel.", success)
		}

		t.Logf("\tTest 1:\tWhen any field of the tuple changes.")
		{
			base := commit.Propose(rateID, proposerA, value, packed)

			if commit.Propose(commit.AssetToRateID("BTCUSD"), proposerA, value, packed) == base {
				t.Fatalf("\t%s\tTest 1:\tShould change the digest with the rate id.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the digest with the rate id.", success)

			if commit.Propose(rateID, proposerB, value, packed) == base {
				t.Fatalf("\t%s\tTest 1:\tShould change the digest with the proposer.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the digest with the proposer.", success)

			if commit.Propose(rateID, proposerA, uint256.NewInt(7), packed) == base {
				t.Fatalf("\t%s\tTest 1:\tShould change the digest with the value.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the digest with the value.", success)

			if commit.Propose(rateID, proposerA, value, uint256.NewInt(43)) == base {
				t.Fatalf("\t%s\tTest 1:\tShould change the digest with the nonce.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the digest with the nonce.", success)
		}

		t.Logf("\tTest 2:\tWhen digesting the zero tuple.")
		{
			d1 := commit.Propose(rateID, commit.ZeroAccount, nil, nil)
			d2 := commit.Propose(rateID, commit.ZeroAccount, new(uint256.Int), new(uint256.Int))

			if d1 != d2 {
				t.Fatalf("\t%s\tTest 2:\tShould treat nil value and nonce as zero.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould treat nil value and nonce as zero.", success)
		}
	}
}

func Test_RateID(t *testing.T) {
	t.Log("Given the need to parse and derive rate ids.")
	{
		t.Logf("\tTest 0:\tWhen round-tripping through hex.")
		{
			rateID := commit.AssetToRateID("ETHUSD")

			parsed, err := commit.ToRateID(rateID.Hex())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to parse the hex form: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to parse the hex form.", success)

			if parsed != rateID {
				t.Fatalf("\t%s\tTest 0:\tShould round-trip to the same id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould round-trip to the same id.", success)
		}

		t.Logf("\tTest 1:\tWhen deriving ids from asset symbols.")
		{
			if commit.AssetToRateID("ETHUSD") == commit.AssetToRateID("BTCUSD") {
				t.Fatalf("\t%s\tTest 1:\tShould derive distinct ids for distinct assets.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould derive distinct ids for distinct assets.", success)
		}

		t.Logf("\tTest 2:\tWhen parsing malformed hex.")
		{
			if _, err := commit.ToRateID("not hex"); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject malformed hex.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject malformed hex.", success)
		}
	}
}

func Test_AccountID(t *testing.T) {
	t.Log("Given the need to validate account identities.")
	{
		t.Logf("\tTest 0:\tWhen parsing account strings.")
		{
			if _, err := commit.ToAccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a well-formed account: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a well-formed account.", success)

			if _, err := commit.ToAccountID("0xF01813"); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a short account.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a short account.", success)

			if _, err := commit.ToAccountID("0xZZ1813E4B85e178A83e29B8E7bF26BD830a25f32"); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject non-hex characters.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject non-hex characters.", success)
		}

		t.Logf("\tTest 1:\tWhen checking the zero account.")
		{
			if !commit.ZeroAccount.IsZero() {
				t.Fatalf("\t%s\tTest 1:\tShould report the zero account as zero.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report the zero account as zero.", success)

			if proposerA.IsZero() {
				t.Fatalf("\t%s\tTest 1:\tShould not report a real account as zero.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not report a real account as zero.", success)
		}

		t.Logf("\tTest 2:\tWhen comparing case variants of one identity.")
		{
			a, err := commit.ToAccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the mixed-case account: %v", failed, err)
			}
			b, err := commit.ToAccountID("0xf01813e4b85e178a83e29b8e7bf26bd830a25f32")
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the lower-case account: %v", failed, err)
			}

			if a != b {
				t.Fatalf("\t%s\tTest 2:\tShould parse case variants to one id: %s vs %s", failed, a, b)
			}
			t.Logf("\t%s\tTest 2:\tShould parse case variants to one id.", success)

			if !proposerA.Equal(commit.AccountID("0xf01813e4b85e178a83e29b8e7bf26bd830a25f32")) {
				t.Fatalf("\t%s\tTest 2:\tShould treat case variants as equal.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould treat case variants as equal.", success)

			if proposerA.Equal(proposerB) {
				t.Fatalf("\t%s\tTest 2:\tShould keep distinct identities apart.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould keep distinct identities apart.", success)
		}
	}
}
