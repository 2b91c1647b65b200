package mudder

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"github.com/roach88/mudder/internal/digits"
)

// DigitPair assigns a digit value to a symbol in an explicit digit map.
// Several symbols may share one digit (e.g. "a" and "A"); decoding accepts
// all of them, encoding always emits the alphabet's own symbol.
type DigitPair struct {
	Symbol string
	Digit  int
}

// SymbolTable is a bidirectional codec between symbols and digits.
type SymbolTable struct {
	num2sym      []string
	sym2num      map[string]int
	maxKeyLen    int
	isPrefixCode bool
}

// NewSymbolTable builds a table whose digits are the positions of symbols.
func NewSymbolTable(symbols []string) (*SymbolTable, error) {
	pairs := make([]DigitPair, len(symbols))
	for i, s := range symbols {
		pairs[i] = DigitPair{Symbol: s, Digit: i}
	}
	return NewSymbolTableWithDigits(symbols, pairs)
}

// NewSymbolTableFromString builds a table with one symbol per rune of s.
func NewSymbolTableFromString(s string) (*SymbolTable, error) {
	symbols := make([]string, 0, len(s))
	for _, r := range s {
		symbols = append(symbols, string(r))
	}
	return NewSymbolTable(symbols)
}

// NewSymbolTableWithDigits builds a table from an alphabet and an explicit
// symbol-to-digit map given as ordered pairs. Later pairs for the same symbol
// override earlier ones. Every digit in [0, len(symbols)) must be assigned to
// at least one symbol.
func NewSymbolTableWithDigits(symbols []string, pairs []DigitPair) (*SymbolTable, error) {
	if len(symbols) == 0 {
		return nil, constructionError("alphabet is empty")
	}
	for i, s := range symbols {
		if s == "" {
			return nil, constructionError("symbol %d is empty", i)
		}
	}

	sym2num := make(map[string]int, len(pairs))
	maxKeyLen := 0
	for _, p := range pairs {
		if p.Symbol == "" {
			return nil, constructionError("digit map contains an empty symbol")
		}
		if p.Digit < 0 || p.Digit >= len(symbols) {
			return nil, constructionError("digit %d for symbol %q outside [0, %d)", p.Digit, p.Symbol, len(symbols))
		}
		sym2num[p.Symbol] = p.Digit
		maxKeyLen = max(maxKeyLen, len(p.Symbol))
	}

	present := make(map[int]bool, len(sym2num))
	for _, d := range sym2num {
		present[d] = true
	}
	for i := range symbols {
		if !present[i] {
			return nil, constructionError("%d symbols given but %d not found in symbol table", len(symbols), i)
		}
	}

	// Decode matches every digit map key, so aliases count toward the
	// prefix property too.
	keys := slices.Clone(symbols)
	for _, p := range pairs {
		keys = append(keys, p.Symbol)
	}

	return &SymbolTable{
		num2sym:      slices.Clone(symbols),
		sym2num:      sym2num,
		maxKeyLen:    maxKeyLen,
		isPrefixCode: isPrefixCode(keys),
	}, nil
}

// MaxBase is the number of symbols in the alphabet.
func (t *SymbolTable) MaxBase() int {
	return len(t.num2sym)
}

// Symbols returns a copy of the alphabet in digit order.
func (t *SymbolTable) Symbols() []string {
	return slices.Clone(t.num2sym)
}

// DigitMap returns every accepted symbol with its digit, ordered by digit
// and then by symbol.
func (t *SymbolTable) DigitMap() []DigitPair {
	pairs := make([]DigitPair, 0, len(t.sym2num))
	for s, d := range t.sym2num {
		pairs = append(pairs, DigitPair{Symbol: s, Digit: d})
	}
	slices.SortFunc(pairs, func(a, b DigitPair) int {
		if a.Digit != b.Digit {
			return a.Digit - b.Digit
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return pairs
}

// IsPrefixCode reports whether no decodable symbol, alias or not, is a
// proper prefix of another, which is what makes plain-string decoding
// unambiguous.
func (t *SymbolTable) IsPrefixCode() bool {
	return t.isPrefixCode
}

// Encode concatenates the symbols for digits.
func (t *SymbolTable) Encode(d []int) (string, error) {
	var sb strings.Builder
	for i, n := range d {
		if n < 0 || n >= len(t.num2sym) {
			return "", invalidArgument("digit %d at position %d out of range [0, %d)", n, i, len(t.num2sym))
		}
		sb.WriteString(t.num2sym[n])
	}
	return sb.String(), nil
}

// Decode splits s into symbols and returns their digits. Only supported
// when the alphabet is a prefix code; otherwise use DecodeTokens.
func (t *SymbolTable) Decode(s string) ([]int, error) {
	if !t.isPrefixCode {
		return nil, &Error{
			Code:    ErrCodeParse,
			Message: "parsing string without prefix code is unsupported, pass pre-tokenized symbols",
			Input:   s,
		}
	}

	out := make([]int, 0, len(s))
	for i := 0; i < len(s); {
		n, width := t.matchAt(s, i)
		if width == 0 {
			return nil, &Error{
				Code:    ErrCodeParse,
				Message: fmt.Sprintf("no symbol matches at byte offset %d", i),
				Input:   s,
			}
		}
		out = append(out, n)
		i += width
	}
	return out, nil
}

// matchAt returns the digit and byte width of the longest known symbol
// starting at s[i:], or width 0 if none does.
func (t *SymbolTable) matchAt(s string, i int) (int, int) {
	for w := min(t.maxKeyLen, len(s)-i); w > 0; w-- {
		if n, ok := t.sym2num[s[i:i+w]]; ok {
			return n, w
		}
	}
	return 0, 0
}

// DecodeTokens maps already separated symbols to their digits.
func (t *SymbolTable) DecodeTokens(tokens []string) ([]int, error) {
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		n, ok := t.sym2num[tok]
		if !ok {
			return nil, &Error{
				Code:    ErrCodeParse,
				Message: fmt.Sprintf("unknown symbol at position %d", i),
				Input:   tok,
			}
		}
		out[i] = n
	}
	return out, nil
}

// Compare orders two strings by their decoded digits.
func (t *SymbolTable) Compare(a, b string) (int, error) {
	ad, err := t.Decode(a)
	if err != nil {
		return 0, err
	}
	bd, err := t.Decode(b)
	if err != nil {
		return 0, err
	}
	return digits.Compare(ad, bd), nil
}

// NumberToDigits converts n to digits in base. A base of 0 means MaxBase.
// Zero is a single zero digit.
func (t *SymbolTable) NumberToDigits(n uint64, base int) []int {
	base = t.baseOrDefault(base)
	if n == 0 {
		return []int{0}
	}

	var out []int
	b := uint64(base)
	for n > 0 {
		out = append(out, int(n%b))
		n /= b
	}
	slices.Reverse(out)
	return out
}

// DigitsToNumber is the inverse of NumberToDigits. A base of 0 means MaxBase.
func (t *SymbolTable) DigitsToNumber(d []int, base int) (uint64, error) {
	base = t.baseOrDefault(base)
	b := uint64(base)

	var n uint64
	for i, x := range d {
		if x < 0 || x >= base {
			return 0, invalidArgument("digit %d at position %d out of range [0, %d)", x, i, base)
		}
		hi, lo := bits.Mul64(n, b)
		sum, carry := bits.Add64(lo, uint64(x), 0)
		if hi != 0 || carry != 0 {
			return 0, invalidArgument("digits overflow uint64")
		}
		n = sum
	}
	return n, nil
}

// NumberToString encodes n using this alphabet.
func (t *SymbolTable) NumberToString(n uint64, base int) (string, error) {
	return t.Encode(t.NumberToDigits(n, base))
}

// StringToNumber decodes s as a number using this alphabet.
func (t *SymbolTable) StringToNumber(s string, base int) (uint64, error) {
	d, err := t.Decode(s)
	if err != nil {
		return 0, err
	}
	return t.DigitsToNumber(d, base)
}

func (t *SymbolTable) baseOrDefault(base int) int {
	if base <= 0 {
		return len(t.num2sym)
	}
	return base
}
