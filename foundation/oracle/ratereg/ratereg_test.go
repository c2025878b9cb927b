package ratereg_test

import (
	"errors"
	"testing"

	"github.com/oraclenet/spot/foundation/oracle/capability"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

const (
	admin    = commit.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	stranger = commit.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
)

func Test_Registry(t *testing.T) {
	caps := capability.New()
	caps.Grant(capability.Wildcard, admin)

	reg := ratereg.New(caps)

	ethusd := commit.AssetToRateID("ETHUSD")
	btcusd := commit.AssetToRateID("BTCUSD")

	t.Log("Given the need to track which rate ids are active.")
	{
		t.Logf("\tTest 0:\tWhen activating a rate id.")
		{
			if err := reg.Activate(stranger, ethusd); !errors.Is(err, ratereg.ErrNotAuthorized) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an unauthorized caller: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an unauthorized caller.", success)

			if err := reg.Activate(admin, ethusd); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to activate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to activate.", success)

			if !reg.IsActive(ethusd) {
				t.Fatalf("\t%s\tTest 0:\tShould report the rate id active.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the rate id active.", success)

			if err := reg.Activate(admin, ethusd); !errors.Is(err, ratereg.ErrActiveRateID) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a double activate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a double activate.", success)
		}

		t.Logf("\tTest 1:\tWhen deactivating a rate id.")
		{
			if err := reg.Deactivate(admin, ethusd); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to deactivate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to deactivate.", success)

			if reg.IsActive(ethusd) {
				t.Fatalf("\t%s\tTest 1:\tShould report the rate id inactive.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report the rate id inactive.", success)

			if err := reg.Deactivate(admin, ethusd); !errors.Is(err, ratereg.ErrInactiveRateID) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a double deactivate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a double deactivate.", success)
		}

		t.Logf("\tTest 2:\tWhen locking a batch.")
		{
			if err := reg.Activate(admin, btcusd); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to activate: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to activate.", success)

			if err := reg.Lock(stranger, []commit.RateID{btcusd}); !errors.Is(err, ratereg.ErrNotAuthorized) {
				t.Fatalf("\t%s\tTest 2:\tShould reject an unauthorized lock: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject an unauthorized lock.", success)

			// The batch names an already inactive id; the lock still lands.
			if err := reg.Lock(admin, []commit.RateID{ethusd, btcusd}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to lock past inactive ids: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to lock past inactive ids.", success)

			if reg.IsActive(btcusd) {
				t.Fatalf("\t%s\tTest 2:\tShould deactivate every locked id.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould deactivate every locked id.", success)

			if len(reg.Copy()) != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould leave no active rate ids.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave no active rate ids.", success)
		}
	}
}
