package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mudder/internal/ir"
)

func compileAt(t *testing.T, src, path string) (*ir.AlphabetSpec, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileAlphabet(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileAlphabetString(t *testing.T) {
	spec, err := compileAt(t, `
		alphabet: decimal: {
			symbols: "0123456789"
		}
	`, "alphabet.decimal")
	require.NoError(t, err)

	assert.Equal(t, "decimal", spec.Name)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, spec.Symbols)
	assert.Empty(t, spec.Digits)
}

func TestCompileAlphabetList(t *testing.T) {
	spec, err := compileAt(t, `
		alphabet: roman: {
			symbols: ["i", "ii", "iii", "iv"]
		}
	`, "alphabet.roman")
	require.NoError(t, err)

	assert.Equal(t, "roman", spec.Name)
	assert.Equal(t, []string{"i", "ii", "iii", "iv"}, spec.Symbols)
}

func TestCompileAlphabetMultiByteString(t *testing.T) {
	spec, err := compileAt(t, `
		alphabet: faces: {
			symbols: "\U0001F600\U0001F603\U0001F604"
		}
	`, "alphabet.faces")
	require.NoError(t, err)

	assert.Equal(t, []string{"\U0001F600", "\U0001F603", "\U0001F604"}, spec.Symbols)
}

func TestCompileAlphabetNormalizesNFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to one symbol.
	spec, err := compileAt(t, `
		alphabet: accents: {
			symbols: "ae\u0301"
		}
	`, "alphabet.accents")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "\u00e9"}, spec.Symbols)
}

func TestCompileAlphabetDigits(t *testing.T) {
	spec, err := compileAt(t, `
		alphabet: binary: {
			symbols: "ab"
			digits: {
				a: 0
				b: 1
				B: 1
			}
		}
	`, "alphabet.binary")
	require.NoError(t, err)

	assert.Equal(t, []ir.DigitPair{
		{Symbol: "a", Digit: 0},
		{Symbol: "b", Digit: 1},
		{Symbol: "B", Digit: 1},
	}, spec.Digits)
}

func TestCompileAlphabetAliases(t *testing.T) {
	spec, err := compileAt(t, `
		alphabet: hex: {
			symbols: "0123456789abcdef"
			aliases: {
				A: 10
				F: 15
			}
		}
	`, "alphabet.hex")
	require.NoError(t, err)

	// Positional pairs come first, then the aliases.
	require.Len(t, spec.Digits, 18)
	assert.Equal(t, ir.DigitPair{Symbol: "0", Digit: 0}, spec.Digits[0])
	assert.Equal(t, ir.DigitPair{Symbol: "A", Digit: 10}, spec.Digits[16])
	assert.Equal(t, ir.DigitPair{Symbol: "F", Digit: 15}, spec.Digits[17])
}

func TestCompileAlphabetMissingSymbols(t *testing.T) {
	_, err := compileAt(t, `
		alphabet: bad: {
			digits: { a: 0 }
		}
	`, "alphabet.bad")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "symbols", compileErr.Field)
	assert.Contains(t, compileErr.Message, "required")
}

func TestCompileAlphabetSymbolsWrongType(t *testing.T) {
	_, err := compileAt(t, `
		alphabet: bad: {
			symbols: 42
		}
	`, "alphabet.bad")

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "symbols", compileErr.Field)
}

func TestCompileAlphabetSymbolNotString(t *testing.T) {
	_, err := compileAt(t, `
		alphabet: bad: {
			symbols: ["a", 1]
		}
	`, "alphabet.bad")

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Message, "symbols[1]")
}

func TestCompileAlphabetDigitNotInteger(t *testing.T) {
	_, err := compileAt(t, `
		alphabet: bad: {
			symbols: "ab"
			digits: { a: 0, b: "one" }
		}
	`, "alphabet.bad")

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "digits", compileErr.Field)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "symbols", Message: "symbols is required"}
	assert.Equal(t, "symbols: symbols is required", err.Error())
}
