package mudder

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// isPrefixCodeQuadratic is the all-pairs definition of isPrefixCode.
func isPrefixCodeQuadratic(symbols []string) bool {
	for _, i := range symbols {
		for _, j := range symbols {
			if i == j {
				continue
			}
			if strings.HasPrefix(i, j) {
				return false
			}
		}
	}
	return true
}

func TestIsPrefixCode(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		want    bool
	}{
		{"single characters", []string{"a", "b", "c"}, true},
		{"proper prefix", []string{"a", "ab"}, false},
		{"prefix not adjacent in input", []string{"ab", "c", "a"}, false},
		{"duplicates ignored", []string{"a", "b", "a"}, true},
		{"duplicate prefix", []string{"a", "a", "ab"}, false},
		{"shared prefix only", []string{"ab", "ac"}, true},
		{"empty symbol", []string{"", "a"}, false},
		{"no symbols", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPrefixCode(tt.symbols))
			assert.Equal(t, tt.want, isPrefixCodeQuadratic(tt.symbols))
		})
	}
}

func TestIsPrefixCode_AgreesWithQuadratic(t *testing.T) {
	pool := []string{"", "a", "b", "ab", "ba", "abc", "aa", "c", "ca", "bab"}
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 2000; i++ {
		symbols := make([]string, rng.IntN(6))
		for j := range symbols {
			symbols[j] = pool[rng.IntN(len(pool))]
		}
		assert.Equal(t, isPrefixCodeQuadratic(symbols), isPrefixCode(symbols), "symbols=%q", symbols)
	}
}

func TestIsPrefixCode_DoesNotReorderInput(t *testing.T) {
	symbols := []string{"c", "a", "b"}
	isPrefixCode(symbols)
	assert.Equal(t, []string{"c", "a", "b"}, symbols)
}
