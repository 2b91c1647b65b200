// Package digits implements exact positional arithmetic on digit arrays.
//
// A digit array is a []int, most significant digit first, with every value in
// [0, base). Fractional parts are carried as an explicit (remainder,
// denominator) pair so that chained divisions never lose precision.
//
// Key constraints:
//   - Binary operations require operands of equal length; callers right-pad.
//   - Inputs are never mutated. Every result is freshly allocated.
//   - No floating point anywhere.
//   - A subtraction that would go negative is a programming error and panics
//     with *InvariantError.
package digits
