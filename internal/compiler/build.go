package compiler

import (
	"fmt"

	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/pkg/mudder"
)

// Build constructs the symbol table for a compiled alphabet.
func Build(spec *ir.AlphabetSpec) (*mudder.SymbolTable, error) {
	var (
		table *mudder.SymbolTable
		err   error
	)
	if len(spec.Digits) == 0 {
		table, err = mudder.NewSymbolTable(spec.Symbols)
	} else {
		pairs := make([]mudder.DigitPair, len(spec.Digits))
		for i, p := range spec.Digits {
			pairs[i] = mudder.DigitPair{Symbol: p.Symbol, Digit: p.Digit}
		}
		table, err = mudder.NewSymbolTableWithDigits(spec.Symbols, pairs)
	}
	if err != nil {
		return nil, fmt.Errorf("build alphabet %q: %w", spec.Name, err)
	}
	return table, nil
}

// SpecFromTable describes an existing symbol table as an AlphabetSpec. The
// digit map is omitted when it is exactly the positional one.
func SpecFromTable(name string, table *mudder.SymbolTable) ir.AlphabetSpec {
	spec := ir.AlphabetSpec{Name: name, Symbols: table.Symbols()}

	pairs := table.DigitMap()
	positional := len(pairs) == len(spec.Symbols)
	for _, p := range pairs {
		if !positional {
			break
		}
		positional = spec.Symbols[p.Digit] == p.Symbol
	}
	if positional {
		return spec
	}

	spec.Digits = make([]ir.DigitPair, len(pairs))
	for i, p := range pairs {
		spec.Digits[i] = ir.DigitPair{Symbol: p.Symbol, Digit: p.Digit}
	}
	return spec
}

// Builtin names resolvable without any CUE files.
const (
	BuiltinBase62   = "base62"
	BuiltinBase36   = "base36"
	BuiltinAlphabet = "alphabet"
	BuiltinDecimal  = "decimal"
)

var decimal = func() *mudder.SymbolTable {
	t, err := mudder.NewSymbolTableFromString("0123456789")
	if err != nil {
		panic(err)
	}
	return t
}()

// Builtin returns one of the preset alphabets by name.
func Builtin(name string) (ir.AlphabetSpec, *mudder.SymbolTable, bool) {
	var table *mudder.SymbolTable
	switch name {
	case BuiltinBase62:
		table = mudder.Base62
	case BuiltinBase36:
		table = mudder.Base36
	case BuiltinAlphabet:
		table = mudder.Alphabet
	case BuiltinDecimal:
		table = decimal
	default:
		return ir.AlphabetSpec{}, nil, false
	}
	return SpecFromTable(name, table), table, true
}

// BuiltinNames lists the preset alphabet names.
func BuiltinNames() []string {
	return []string{BuiltinAlphabet, BuiltinBase36, BuiltinBase62, BuiltinDecimal}
}
