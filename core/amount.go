package core

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// Uint is an unsigned coin amount. It is backed by a 256-bit integer so the
// commission multiply can never overflow, and it serializes as a quoted
// decimal string to stay compatible with the original state snapshots.
type Uint struct {
	v uint256.Int
}

// NewUint creates a Uint from a uint64.
func NewUint(n uint64) Uint {
	var u Uint
	u.v.SetUint64(n)
	return u
}

// ZeroUint returns the zero amount.
func ZeroUint() Uint { return Uint{} }

// UintFromString parses a decimal amount string.
func UintFromString(s string) (Uint, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Uint{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Uint{v: *v}, nil
}

// Add returns u + o.
func (u Uint) Add(o Uint) Uint {
	var r Uint
	r.v.Add(&u.v, &o.v)
	return r
}

// Sub returns u - o. It fails on underflow rather than wrapping.
func (u Uint) Sub(o Uint) (Uint, error) {
	if u.v.Lt(&o.v) {
		return Uint{}, fmt.Errorf("amount underflow: %s - %s", u.String(), o.String())
	}
	var r Uint
	r.v.Sub(&u.v, &o.v)
	return r, nil
}

// MulDiv returns floor(u * mul / div). div must be non-zero.
func (u Uint) MulDiv(mul, div Uint) Uint {
	var r Uint
	r.v.Mul(&u.v, &mul.v)
	r.v.Div(&r.v, &div.v)
	return r
}

// LT reports u < o.
func (u Uint) LT(o Uint) bool { return u.v.Lt(&o.v) }

// IsZero reports whether the amount is zero.
func (u Uint) IsZero() bool { return u.v.IsZero() }

// Equal reports u == o.
func (u Uint) Equal(o Uint) bool { return u.v.Eq(&o.v) }

// Uint64 returns the amount as a uint64; it panics if the value does not
// fit, which only a corrupted snapshot can produce.
func (u Uint) Uint64() uint64 {
	if !u.v.IsUint64() {
		panic(fmt.Sprintf("amount %s exceeds uint64", u.String()))
	}
	return u.v.Uint64()
}

// String renders the amount in decimal.
func (u Uint) String() string { return u.v.Dec() }

// MarshalJSON encodes the amount as a quoted decimal string.
func (u Uint) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(u.v.Dec())), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (u *Uint) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(data), err)
	}
	u.v = *v
	return nil
}
