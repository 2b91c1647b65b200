package compiler

import (
	"fmt"

	"github.com/roach88/mudder/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrAlphabetEmpty    = "E101" // at least one symbol required
	ErrSymbolEmpty      = "E102" // symbol must be non-empty
	ErrSymbolDuplicate  = "E103" // symbol listed twice
	ErrDigitOutOfRange  = "E104" // digit map value outside [0, len(symbols))
	ErrDigitUnmapped    = "E105" // no symbol decodes to this digit
	ErrAliasConflicting = "E106" // alias remaps an alphabet symbol to another digit
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks an alphabet definition.
// Returns all errors found (does not fail-fast).
func Validate(spec *ir.AlphabetSpec) []ValidationError {
	var errs []ValidationError

	if len(spec.Symbols) == 0 {
		return []ValidationError{{
			Field:   "symbols",
			Message: "at least one symbol is required",
			Code:    ErrAlphabetEmpty,
		}}
	}

	seen := make(map[string]int, len(spec.Symbols))
	for i, s := range spec.Symbols {
		if s == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("symbols[%d]", i),
				Message: "symbol must be non-empty",
				Code:    ErrSymbolEmpty,
			})
			continue
		}
		if first, dup := seen[s]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("symbols[%d]", i),
				Message: fmt.Sprintf("symbol %q already used for digit %d", s, first),
				Code:    ErrSymbolDuplicate,
			})
			continue
		}
		seen[s] = i
	}

	if len(spec.Digits) == 0 {
		return errs
	}

	final := make(map[string]int, len(spec.Digits))
	for _, p := range spec.Digits {
		if p.Digit < 0 || p.Digit >= len(spec.Symbols) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("digits[%q]", p.Symbol),
				Message: fmt.Sprintf("digit %d outside [0, %d)", p.Digit, len(spec.Symbols)),
				Code:    ErrDigitOutOfRange,
			})
		}
		final[p.Symbol] = p.Digit
	}

	covered := make(map[int]bool, len(final))
	for _, d := range final {
		covered[d] = true
	}
	for i := range spec.Symbols {
		if !covered[i] {
			errs = append(errs, ValidationError{
				Field:   "digits",
				Message: fmt.Sprintf("no symbol decodes to digit %d", i),
				Code:    ErrDigitUnmapped,
			})
		}
	}

	for i, s := range spec.Symbols {
		if d, ok := final[s]; ok && d != i && seen[s] == i {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("digits[%q]", s),
				Message: fmt.Sprintf("symbol encodes digit %d but decodes to %d", i, d),
				Code:    ErrAliasConflicting,
			})
		}
	}

	return errs
}
