// Package money holds Amount, a non-negative integral quantity of base
// value units (the smallest indivisible unit, e.g. wei).
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/shopspring/decimal"
)

// Amount is a non-negative integer number of base units. The zero value
// is a valid zero amount.
type Amount struct {
	d decimal.Decimal
}

// Zero is the empty balance.
var Zero = Amount{}

// MaxDigits bounds every amount to what a NUMERIC(78,0) column holds,
// enough for any 256-bit value.
const MaxDigits = 78

// Parse reads a plain base-10 digit string of at most MaxDigits digits.
// Signs, fractions and exponents fail with common.ErrInvalidAmount.
func Parse(s string) (Amount, error) {
	if len(s) == 0 || len(s) > MaxDigits {
		return Zero, fmt.Errorf("%w: %d digits", common.ErrInvalidAmount, len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
	}
	return Amount{d: d}, nil
}

// FromInt64 converts n; negative n fails.
func FromInt64(n int64) (Amount, error) {
	if n < 0 {
		return Zero, fmt.Errorf("%w: %d", common.ErrInvalidAmount, n)
	}
	return Amount{d: decimal.NewFromInt(n)}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// CheckedAdd is Add that fails with common.ErrInvalidAmount when the sum
// needs more than MaxDigits digits.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a.Add(b)
	if len(sum.d.String()) > MaxDigits {
		return Zero, fmt.Errorf("%w: sum exceeds %d digits", common.ErrInvalidAmount, MaxDigits)
	}
	return sum, nil
}

func (a Amount) IsZero() bool { return a.d.IsZero() }

// Cmp returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) String() string { return a.d.String() }

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.d.String()), nil
}

func (a *Amount) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the decimal text; NUMERIC and TEXT columns both accept it.
func (a Amount) Value() (driver.Value, error) {
	return a.d.String(), nil
}

func (a *Amount) Scan(src any) error {
	var (
		parsed Amount
		err    error
	)
	switch v := src.(type) {
	case string:
		parsed, err = Parse(v)
	case []byte:
		parsed, err = Parse(string(v))
	case int64:
		parsed, err = FromInt64(v)
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*a = parsed
	return nil
}
