package memory_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/oraclenet/spot/foundation/oracle/feed"
	"github.com/oraclenet/spot/foundation/oracle/feed/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Feed(t *testing.T) {
	t.Log("Given the need to serve rounds from memory.")
	{
		f := memory.New(8)

		t.Logf("\tTest 0:\tWhen no round has been posted.")
		{
			if _, err := f.LatestRound(); !errors.Is(err, feed.ErrRoundNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould have no latest round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould have no latest round.", success)
		}

		t.Logf("\tTest 1:\tWhen posting rounds.")
		{
			r1 := f.Post(big.NewInt(100_000_000), 1_700_000_000)
			r2 := f.Post(big.NewInt(200_000_000), 1_700_000_060)

			if r1.ID != 1 || r2.ID != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould assign increasing round ids: got %d and %d", failed, r1.ID, r2.ID)
			}
			t.Logf("\t%s\tTest 1:\tShould assign increasing round ids.", success)

			latest, err := f.LatestRound()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the latest round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to read the latest round.", success)

			if latest.ID != 2 || latest.Answer.Cmp(big.NewInt(200_000_000)) != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould serve the most recent round: got id %d", failed, latest.ID)
			}
			t.Logf("\t%s\tTest 1:\tShould serve the most recent round.", success)

			hist, err := f.Round(1)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read a historical round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to read a historical round.", success)

			if hist.UpdatedAt != 1_700_000_000 {
				t.Fatalf("\t%s\tTest 1:\tShould keep the historical round intact: got %d", failed, hist.UpdatedAt)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the historical round intact.", success)

			if _, err := f.Round(99); !errors.Is(err, feed.ErrRoundNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an unknown round id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an unknown round id.", success)
		}

		t.Logf("\tTest 2:\tWhen reading the precision.")
		{
			decimals, err := f.Decimals()
			if err != nil || decimals != 8 {
				t.Fatalf("\t%s\tTest 2:\tShould report the configured decimals: got %d, %v", failed, decimals, err)
			}
			t.Logf("\t%s\tTest 2:\tShould report the configured decimals.", success)
		}
	}
}

func Test_Bank(t *testing.T) {
	t.Log("Given the need to manage a set of named feeds.")
	{
		bank := memory.NewBank()

		t.Logf("\tTest 0:\tWhen creating feeds.")
		{
			if err := bank.Create("eth-usd", 8); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a feed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create a feed.", success)

			if err := bank.Create("eth-usd", 8); !errors.Is(err, memory.ErrExists) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a duplicate name: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a duplicate name.", success)
		}

		t.Logf("\tTest 1:\tWhen posting and looking up.")
		{
			if _, err := bank.Post("btc-usd", big.NewInt(1), 1_700_000_000); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a post to an unknown feed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a post to an unknown feed.", success)

			round, err := bank.Post("eth-usd", big.NewInt(100_000_000), 1_700_000_000)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to post a round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to post a round.", success)

			if round.ID != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould start round ids at one: got %d", failed, round.ID)
			}
			t.Logf("\t%s\tTest 1:\tShould start round ids at one.", success)

			feeds, err := bank.Lookup("eth-usd")
			if err != nil || len(feeds) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould be able to look up the feed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to look up the feed.", success)

			if _, err := bank.Lookup("eth-usd", "btc-usd"); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould fail a lookup naming an unknown feed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould fail a lookup naming an unknown feed.", success)
		}

		t.Logf("\tTest 2:\tWhen mirroring external rounds under their source ids.")
		{
			round, err := bank.PostAt("eth-usd", big.NewInt(1_000), big.NewInt(110_000_000), 1_700_000_060)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mirror a round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to mirror a round.", success)

			if round.ID != 1_000 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the source round id: got %d", failed, round.ID)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the source round id.", success)

			latest, err := bank.Lookup("eth-usd")
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to look up the feed: %v", failed, err)
			}
			lr, err := latest[0].LatestRound()
			if err != nil || lr.ID != 1_000 {
				t.Fatalf("\t%s\tTest 2:\tShould advance the latest round to the source id: got %d, %v", failed, lr.ID, err)
			}
			t.Logf("\t%s\tTest 2:\tShould advance the latest round to the source id.", success)

			if _, err := bank.PostAt("eth-usd", big.NewInt(1_000), big.NewInt(120_000_000), 1_700_000_120); !errors.Is(err, feed.ErrRoundExists) {
				t.Fatalf("\t%s\tTest 2:\tShould refuse to overwrite a published round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould refuse to overwrite a published round.", success)

			huge := new(big.Int).Lsh(big.NewInt(1), 64)
			if _, err := bank.PostAt("eth-usd", huge, big.NewInt(120_000_000), 1_700_000_120); !errors.Is(err, feed.ErrRoundIDOverflow) {
				t.Fatalf("\t%s\tTest 2:\tShould trap a round id wider than 64 bits: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould trap a round id wider than 64 bits.", success)
		}
	}
}
