package commit

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// AccountID represents the address-like identity of a party acting against
// the oracle: a proposer, a disputer, or the oracle engine itself.
type AccountID string

// ZeroAccount is the default identity carried by the sentinel tuple.
const ZeroAccount AccountID = ""

// ToAccountID converts a hex-encoded string to an account id and validates
// the hex-encoded string is formatted correctly. The id is normalized to
// lower case so the same identity always keys ledgers identically.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(strings.ToLower(hex))
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account id value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(strings.ToLower(crypto.PubkeyToAddress(pk).String()))
}

// IsZero reports whether the account id is the default identity.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

// Equal reports whether two account ids name the same identity. Hex case and
// the 0x prefix are not significant, matching how the digest treats accounts.
func (a AccountID) Equal(b AccountID) bool {
	return bytes.Equal(a.bytes32(), b.bytes32())
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	const addressLength = 20

	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*addressLength && isHex(a)
}

// bytes32 returns the account as a left-padded 32 byte slice for digesting.
// The zero account pads to all zeros.
func (a AccountID) bytes32() []byte {
	b := make([]byte, HashLength)

	hex := a
	if has0xPrefix(hex) {
		hex = hex[2:]
	}

	for i := 0; i+1 < len(hex); i += 2 {
		b[HashLength-len(hex)/2+i/2] = fromHexChar(hex[i])<<4 | fromHexChar(hex[i+1])
	}

	return b
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// fromHexChar converts one hex character to its value. Callers validate the
// input first.
func fromHexChar(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
