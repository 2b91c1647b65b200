package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mudder/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValid(t *testing.T) {
	spec := &ir.AlphabetSpec{Name: "abc", Symbols: []string{"a", "b", "c"}}
	assert.Empty(t, Validate(spec))
}

func TestValidateValidWithAliases(t *testing.T) {
	spec := &ir.AlphabetSpec{
		Name:    "ab",
		Symbols: []string{"a", "b"},
		Digits: []ir.DigitPair{
			{Symbol: "a", Digit: 0},
			{Symbol: "b", Digit: 1},
			{Symbol: "A", Digit: 0},
		},
	}
	assert.Empty(t, Validate(spec))
}

func TestValidateEmpty(t *testing.T) {
	errs := Validate(&ir.AlphabetSpec{Name: "empty"})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrAlphabetEmpty, errs[0].Code)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	spec := &ir.AlphabetSpec{Symbols: []string{"a", "", "a"}}
	assert.Equal(t, []string{ErrSymbolEmpty, ErrSymbolDuplicate}, codes(Validate(spec)))
}

func TestValidateDigitMap(t *testing.T) {
	tests := []struct {
		name   string
		digits []ir.DigitPair
		want   []string
	}{
		{
			name:   "out of range",
			digits: []ir.DigitPair{{"a", 0}, {"b", 1}, {"c", 2}, {"d", 3}},
			want:   []string{ErrDigitOutOfRange},
		},
		{
			name:   "unmapped digit",
			digits: []ir.DigitPair{{"a", 0}, {"b", 1}},
			want:   []string{ErrDigitUnmapped},
		},
		{
			name:   "symbol decodes to another digit",
			digits: []ir.DigitPair{{"a", 1}, {"b", 0}, {"c", 2}},
			want:   []string{ErrAliasConflicting, ErrAliasConflicting},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &ir.AlphabetSpec{Symbols: []string{"a", "b", "c"}, Digits: tt.digits}
			assert.Equal(t, tt.want, codes(Validate(spec)))
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "symbols[1]", Message: "symbol must be non-empty", Code: ErrSymbolEmpty}
	assert.Equal(t, "[E102] symbols[1]: symbol must be non-empty", err.Error())

	err.Line = 4
	assert.Equal(t, "[E102] line 4: symbols[1]: symbol must be non-empty", err.Error())
}
