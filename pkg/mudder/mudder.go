package mudder

import (
	"errors"
	"slices"

	"github.com/roach88/mudder/internal/digits"
)

// DefaultUpperPadding is how many symbols longer than the lower boundary the
// implicit upper boundary is. An omitted upper boundary is the last symbol
// repeated len(lower)+DefaultUpperPadding times: long enough to leave room
// below it, short enough to keep keys compact.
const DefaultUpperPadding = 6

// Options tunes Mudder. The zero value asks for one string.
type Options struct {
	// NumStrings is how many strings to return. Defaults to 1.
	NumStrings int

	// Base is the radix to compute in, at most MaxBase. Defaults to MaxBase.
	Base int

	// NumDivisions is how many equal intervals the range is cut into; it must
	// exceed NumStrings. Defaults to NumStrings+1, which spaces results
	// evenly.
	NumDivisions int

	// PlacesToKeep is the number of leading digits never considered when
	// truncating a result.
	PlacesToKeep int

	// UpperPadding overrides DefaultUpperPadding for an omitted upper
	// boundary.
	UpperPadding int
}

func (o Options) withDefaults(maxBase int) (Options, error) {
	if o.NumStrings < 0 {
		return o, invalidArgument("NumStrings must not be negative, got %d", o.NumStrings)
	}
	if o.NumStrings == 0 {
		o.NumStrings = 1
	}
	if o.Base == 0 {
		o.Base = maxBase
	}
	if o.Base < 2 || o.Base > maxBase {
		return o, invalidArgument("base %d out of range [2, %d]", o.Base, maxBase)
	}
	if o.NumDivisions == 0 {
		o.NumDivisions = o.NumStrings + 1
	}
	if o.NumDivisions <= o.NumStrings {
		return o, invalidArgument("NumDivisions (%d) must exceed NumStrings (%d)", o.NumDivisions, o.NumStrings)
	}
	if o.PlacesToKeep < 0 {
		return o, invalidArgument("PlacesToKeep must not be negative, got %d", o.PlacesToKeep)
	}
	if o.UpperPadding < 0 {
		return o, invalidArgument("UpperPadding must not be negative, got %d", o.UpperPadding)
	}
	if o.UpperPadding == 0 {
		o.UpperPadding = DefaultUpperPadding
	}
	return o, nil
}

// Mudder returns opts.NumStrings strings that sort strictly between a and b,
// in the same direction as (a, b). An empty a stands for the first symbol of
// the alphabet; an empty b stands for the last symbol repeated
// len(a)+UpperPadding times.
func (t *SymbolTable) Mudder(a, b string, opts Options) ([]string, error) {
	var ad, bd []int
	var err error
	if a != "" {
		if ad, err = t.Decode(a); err != nil {
			return nil, err
		}
	}
	if b != "" {
		if bd, err = t.Decode(b); err != nil {
			return nil, err
		}
	}
	return t.mudder(ad, bd, opts)
}

// MudderTokens is Mudder for pre-tokenized boundaries, which works with any
// alphabet, prefix code or not.
func (t *SymbolTable) MudderTokens(a, b []string, opts Options) ([]string, error) {
	var ad, bd []int
	var err error
	if len(a) > 0 {
		if ad, err = t.DecodeTokens(a); err != nil {
			return nil, err
		}
	}
	if len(b) > 0 {
		if bd, err = t.DecodeTokens(b); err != nil {
			return nil, err
		}
	}
	return t.mudder(ad, bd, opts)
}

// Between returns the single shortest evenly placed string between a and b.
func (t *SymbolTable) Between(a, b string) (string, error) {
	out, err := t.Mudder(a, b, Options{})
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// Spread returns n evenly spaced strings over the default boundaries.
func (t *SymbolTable) Spread(n int) ([]string, error) {
	if n <= 0 {
		return nil, invalidArgument("Spread needs a positive count, got %d", n)
	}
	return t.Mudder("", "", Options{NumStrings: n})
}

func (t *SymbolTable) mudder(ad, bd []int, opts Options) ([]string, error) {
	opts, err := opts.withDefaults(t.MaxBase())
	if err != nil {
		return nil, err
	}

	// Omitted bounds are built from the lowest and highest digit of the
	// working base, not of the whole alphabet.
	if len(ad) == 0 {
		ad = []int{0}
	}
	if len(bd) == 0 {
		bd = make([]int, len(ad)+opts.UpperPadding)
		for i := range bd {
			bd[i] = opts.Base - 1
		}
	}

	for _, d := range [][]int{ad, bd} {
		for _, x := range d {
			if x >= opts.Base {
				return nil, invalidArgument("digit %d does not fit base %d", x, opts.Base)
			}
		}
	}

	lo, hi := ad, bd
	swapped := digits.Compare(lo, hi) > 0
	if swapped {
		lo, hi = hi, lo
	}

	values, err := digits.Linspace(lo, hi, opts.Base, opts.NumStrings, opts.NumDivisions)
	if errors.Is(err, digits.ErrInseparable) {
		return nil, &Error{Code: ErrCodeDomain, Message: "start and end strings lexicographically inseparable", Err: err}
	}
	if err != nil {
		return nil, err
	}

	chain := make([][]int, 0, len(values)+2)
	chain = append(chain, lo)
	for _, v := range values {
		chain = append(chain, append(v.Digits, digits.RoundFraction(v.Rem, v.Den, opts.Base)...))
	}
	chain = append(chain, hi)

	chopped := digits.ChopSuccessive(chain, opts.PlacesToKeep)

	out := make([]string, 0, len(values))
	for _, d := range chopped[1 : len(chopped)-1] {
		s, err := t.Encode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if swapped {
		slices.Reverse(out)
	}
	return out, nil
}
