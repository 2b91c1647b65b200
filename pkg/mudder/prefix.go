package mudder

import (
	"slices"
	"strings"
)

// isPrefixCode reports whether no symbol is a proper prefix of another.
// Repeated symbols are ignored rather than treated as prefixes of each
// other.
//
// After sorting, any symbol that has a proper prefix in the set has one
// immediately before it: everything between a prefix and its extension
// shares the prefix, so checking neighbours suffices.
func isPrefixCode(symbols []string) bool {
	sorted := slices.Clone(symbols)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if prev == curr {
			continue
		}
		if strings.HasPrefix(curr, prev) {
			return false
		}
	}
	return true
}

