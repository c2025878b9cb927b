package feed_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/oraclenet/spot/foundation/oracle/feed"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_ScaleWAD(t *testing.T) {
	type table struct {
		name     string
		answer   *big.Int
		decimals uint8
		want     *uint256.Int
		err      error
	}

	wad, _ := uint256.FromDecimal("1000000000000000000")

	tt := []table{
		{
			name:     "eight decimals",
			answer:   big.NewInt(100_000_000),
			decimals: 8,
			want:     wad,
		},
		{
			name:     "already wad",
			answer:   big.NewInt(1_000_000_000_000_000_000),
			decimals: 18,
			want:     wad,
		},
		{
			name:     "zero decimals",
			answer:   big.NewInt(3),
			decimals: 0,
			want:     new(uint256.Int).Mul(wad, uint256.NewInt(3)),
		},
		{
			name:     "truncating division",
			answer:   big.NewInt(15),
			decimals: 19,
			want:     uint256.NewInt(1),
		},
		{
			name:     "zero answer",
			answer:   big.NewInt(0),
			decimals: 8,
			err:      feed.ErrNegativeAnswer,
		},
		{
			name:     "negative answer",
			answer:   big.NewInt(-1),
			decimals: 8,
			err:      feed.ErrNegativeAnswer,
		},
		{
			name:     "nil answer",
			answer:   nil,
			decimals: 8,
			err:      feed.ErrNegativeAnswer,
		},
		{
			name:     "decimals out of range",
			answer:   big.NewInt(1),
			decimals: 78,
			err:      feed.ErrDecimalsTooBig,
		},
		{
			name:     "overflow",
			answer:   new(big.Int).Lsh(big.NewInt(1), 256),
			decimals: 0,
			err:      feed.ErrAnswerOverflow,
		},
	}

	t.Log("Given the need to normalize feed answers to the WAD base.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen scaling the %s case.", testID, tst.name)
			{
				got, err := feed.ScaleWAD(tst.answer, tst.decimals)

				if tst.err != nil {
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould fail with %v: got %v", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould fail with %v.", success, testID, tst.err)
					continue
				}

				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to scale: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to scale.", success, testID)

				if !got.Eq(tst.want) {
					t.Fatalf("\t%s\tTest %d:\tShould get %s: got %s", failed, testID, tst.want.Dec(), got.Dec())
				}
				t.Logf("\t%s\tTest %d:\tShould get %s.", success, testID, tst.want.Dec())
			}
		}
	}
}

func Test_CheckRoundID(t *testing.T) {
	t.Log("Given the need to bound source round ids.")
	{
		t.Logf("\tTest 0:\tWhen the round id fits 64 bits.")
		{
			id, err := feed.CheckRoundID(big.NewInt(42))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a small round id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a small round id.", success)

			if id != 42 {
				t.Fatalf("\t%s\tTest 0:\tShould return the round id: got %d", failed, id)
			}
			t.Logf("\t%s\tTest 0:\tShould return the round id.", success)
		}

		t.Logf("\tTest 1:\tWhen the round id is out of range.")
		{
			if _, err := feed.CheckRoundID(nil); !errors.Is(err, feed.ErrRoundIDOverflow) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a nil round id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a nil round id.", success)

			if _, err := feed.CheckRoundID(big.NewInt(-1)); !errors.Is(err, feed.ErrRoundIDOverflow) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a negative round id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a negative round id.", success)

			huge := new(big.Int).Lsh(big.NewInt(1), 64)
			if _, err := feed.CheckRoundID(huge); !errors.Is(err, feed.ErrRoundIDOverflow) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a 65-bit round id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a 65-bit round id.", success)
		}
	}
}
