package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mudder/internal/ir"
)

// CompileAlphabet parses a CUE value into an AlphabetSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the alphabet struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`alphabet: decimal: { symbols: "0123456789" }`)
//	spec, err := CompileAlphabet(v.LookupPath(cue.ParsePath("alphabet.decimal")))
func CompileAlphabet(v cue.Value) (*ir.AlphabetSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.AlphabetSpec{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].Unquoted()
	}

	symbolsVal := v.LookupPath(cue.ParsePath("symbols"))
	if !symbolsVal.Exists() {
		return nil, &CompileError{
			Field:   "symbols",
			Message: "symbols is required",
			Pos:     v.Pos(),
		}
	}
	symbols, err := parseSymbols(symbolsVal)
	if err != nil {
		return nil, err
	}
	spec.Symbols = symbols

	digitsVal := v.LookupPath(cue.ParsePath("digits"))
	aliasesVal := v.LookupPath(cue.ParsePath("aliases"))
	if !digitsVal.Exists() && !aliasesVal.Exists() {
		return spec, nil
	}

	var pairs []ir.DigitPair
	if digitsVal.Exists() {
		pairs, err = parseDigitMap(digitsVal, "digits")
		if err != nil {
			return nil, err
		}
	} else {
		for i, s := range spec.Symbols {
			pairs = append(pairs, ir.DigitPair{Symbol: s, Digit: i})
		}
	}

	if aliasesVal.Exists() {
		aliases, err := parseDigitMap(aliasesVal, "aliases")
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, aliases...)
	}
	spec.Digits = pairs

	return spec, nil
}

// parseSymbols accepts either a string, split per character, or a list of
// strings.
func parseSymbols(v cue.Value) ([]string, error) {
	if s, err := v.String(); err == nil {
		var symbols []string
		for _, r := range norm.NFC.String(s) {
			symbols = append(symbols, string(r))
		}
		return symbols, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "symbols",
			Message: "symbols must be a string or a list of strings",
			Pos:     v.Pos(),
		}
	}

	var symbols []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "symbols",
				Message: fmt.Sprintf("symbols[%d] must be a string", len(symbols)),
				Pos:     iter.Value().Pos(),
			}
		}
		symbols = append(symbols, norm.NFC.String(s))
	}
	return symbols, nil
}

// parseDigitMap reads a {symbol: digit} struct in declaration order.
func parseDigitMap(v cue.Value, field string) ([]ir.DigitPair, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a struct of symbol: digit", field),
			Pos:     v.Pos(),
		}
	}

	var pairs []ir.DigitPair
	for iter.Next() {
		symbol := iter.Selector().Unquoted()
		digit, err := iter.Value().Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("%s.%q must be an integer", field, symbol),
				Pos:     iter.Value().Pos(),
			}
		}
		pairs = append(pairs, ir.DigitPair{Symbol: norm.NFC.String(symbol), Digit: int(digit)})
	}
	return pairs, nil
}

// CompileError is a compilation failure with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
