// Package identity defines Address, the 20-byte account identifier every
// caller, member and assignee is keyed by.
//
// The canonical text form is "0x" followed by 40 hex digits with the
// EIP-55 mixed-case checksum. Parse accepts all-lower and all-upper input
// without a checksum, and verifies the checksum of mixed-case input.
package identity

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"golang.org/x/crypto/sha3"
)

// Length is the number of bytes in an Address.
const Length = 20

// Address is an account identifier.
type Address [Length]byte

// Zero is the sentinel "no address" value. It is never a valid member.
var Zero Address

// Parse decodes s into an Address. It fails with common.ErrInvalidIdentity
// when s is not a 0x-prefixed 40-digit hex string or carries a wrong
// checksum.
func Parse(s string) (Address, error) {
	var a Address

	if len(s) != 2+2*Length || (s[:2] != "0x" && s[:2] != "0X") {
		return a, fmt.Errorf("%w: %q", common.ErrInvalidIdentity, s)
	}
	digits := s[2:]

	if _, err := hex.Decode(a[:], []byte(digits)); err != nil {
		return Zero, fmt.Errorf("%w: %q", common.ErrInvalidIdentity, s)
	}

	if digits != strings.ToLower(digits) && digits != strings.ToUpper(digits) {
		if a.Hex() != "0x"+digits {
			return Zero, fmt.Errorf("%w: bad checksum %q", common.ErrInvalidIdentity, s)
		}
	}
	return a, nil
}

// ParseMember is Parse that also rejects the zero address.
func ParseMember(s string) (Address, error) {
	a, err := Parse(s)
	if err != nil {
		return Zero, err
	}
	if a.IsZero() {
		return Zero, fmt.Errorf("%w: zero address", common.ErrInvalidIdentity)
	}
	return a, nil
}

// MustParse is Parse for constants and tests; it panics on error.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsZero() bool { return a == Zero }

// Hex returns the EIP-55 checksummed form.
func (a Address) Hex() string {
	lower := hex.EncodeToString(a[:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

func (a Address) String() string { return a.Hex() }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the checksummed form.
func (a Address) Value() (driver.Value, error) {
	return a.Hex(), nil
}

// Scan reads a stored address; NULL scans as Zero.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Zero
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	default:
		return fmt.Errorf("identity: cannot scan %T into Address", src)
	}
}
