package digits

import (
	"fmt"
	"slices"
)

// InvariantError is the panic value raised when an arithmetic precondition
// that callers are required to uphold turns out to be false.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("digits: %s: %s", e.Op, e.Message)
}

// Divide divides the number held in digits by den with a single
// left-to-right pass and returns the quotient digits and the remainder.
func Divide(digits []int, base, den int) ([]int, int) {
	quotient := make([]int, len(digits))
	carry := 0
	for i, d := range digits {
		carry = carry*base + d
		quotient[i] = carry / den
		carry %= den
	}
	return quotient, carry
}

// AddWithFraction returns a+b+rem/den.
//
// A rem of at least den is an integer carry into the least significant
// digit; the returned remainder has den subtracted in that case. A carry out
// of the most significant digit is discarded, so callers must size operands
// so the sum fits.
func AddWithFraction(a, b []int, base, rem, den int) ([]int, int) {
	mustSameLen("add", a, b)

	carry := 0
	if rem >= den {
		rem -= den
		carry = 1
	}

	sum := make([]int, len(a))
	for i := len(a) - 1; i >= 0; i-- {
		s := a[i] + b[i] + carry
		if s >= base {
			s -= base
			carry = 1
		} else {
			carry = 0
		}
		sum[i] = s
	}
	return sum, rem
}

// Subtract returns a-b. a must not be smaller than b.
func Subtract(a, b []int, base int) []int {
	mustSameLen("subtract", a, b)
	return subtractExtended(slices.Clone(a), b, base, base)
}

// SubtractWithFraction returns (a+remA/den) - (b+remB/den) as digits and a
// remainder over den. The left operand must not be smaller than the right.
func SubtractWithFraction(a, b []int, base, remA, remB, den int) ([]int, int) {
	mustSameLen("subtract", a, b)

	x := make([]int, len(a)+1)
	copy(x, a)
	x[len(a)] = remA

	y := make([]int, len(b)+1)
	copy(y, b)
	y[len(b)] = remB

	diff := subtractExtended(x, y, base, den)
	return diff[:len(a)], diff[len(a)]
}

// subtractExtended computes x-y digit by digit, right to left, consuming x as
// scratch space. Every position has radix base except the least significant
// one, which has radix last.
func subtractExtended(x, y []int, base, last int) []int {
	n := len(x)
	diff := make([]int, n)

	for i := n - 1; i >= 0; i-- {
		if x[i] >= y[i] {
			diff[i] = x[i] - y[i]
			continue
		}

		j := i - 1
		for j >= 0 && x[j] == 0 {
			j--
		}
		if j < 0 {
			panic(&InvariantError{Op: "subtract", Message: "no nonzero digit to borrow from"})
		}

		x[j]--
		for k := j + 1; k < i; k++ {
			x[k] = base - 1
		}

		radix := base
		if i == n-1 {
			radix = last
		}
		diff[i] = x[i] + radix - y[i]
	}

	return diff
}

func mustSameLen(op string, a, b []int) {
	if len(a) != len(b) {
		panic(&InvariantError{
			Op:      op,
			Message: fmt.Sprintf("operands must have equal length (%d != %d)", len(a), len(b)),
		})
	}
}

