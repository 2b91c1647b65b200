package digits

import (
	"errors"
	"slices"
)

// ErrInseparable is returned when two boundaries pad to the same digits and
// leave no room for anything between them.
var ErrInseparable = errors.New("boundaries lexicographically inseparable")

// Value is the exact rational Digits + Rem/Den.
type Value struct {
	Digits []int
	Rem    int
	Den    int
}

// Linspace returns a + k*(b-a)/m for k = 1..n, with n < m.
//
// The shorter of a and b is right-padded with zeros first. Rather than
// multiplying by k, each step removes one more m-th of a and adds one more
// m-th of b, so the work per step is linear in the array length.
func Linspace(a, b []int, base, n, m int) ([]Value, error) {
	width := max(len(a), len(b))
	a = RightPad(a, width)
	b = RightPad(b, width)
	if slices.Equal(a, b) {
		return nil, ErrInseparable
	}

	aDiv, aDivRem := Divide(a, base, m)
	bDiv, bDivRem := Divide(b, base, m)

	aPrev, aRem := SubtractWithFraction(a, aDiv, base, 0, aDivRem, m)
	bPrev, bRem := bDiv, bDivRem

	values := make([]Value, 0, n)
	for k := 1; k <= n; k++ {
		x, rem := AddWithFraction(aPrev, bPrev, base, aRem+bRem, m)
		values = append(values, Value{Digits: x, Rem: rem, Den: m})

		aPrev, aRem = SubtractWithFraction(aPrev, aDiv, base, aRem, aDivRem, m)
		bPrev, bRem = AddWithFraction(bPrev, bDiv, base, bRem+bDivRem, m)
	}
	return values, nil
}

// RightPad returns a copy of d extended with zeros to length n.
func RightPad(d []int, n int) []int {
	out := make([]int, max(len(d), n))
	copy(out, d)
	return out
}

// LeftPad returns a copy of d prefixed with zeros to length n.
func LeftPad(d []int, n int) []int {
	pad := max(0, n-len(d))
	out := make([]int, pad+len(d))
	copy(out[pad:], d)
	return out
}
