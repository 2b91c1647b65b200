package digits

import "slices"

// Compare orders two digit arrays lexicographically. A proper prefix sorts
// before any of its extensions.
func Compare(a, b []int) int {
	return slices.Compare(a, b)
}

// Less reports whether a sorts strictly before b.
func Less(a, b []int) bool {
	return Compare(a, b) < 0
}

// Chop returns the shortest prefix of cand that differs from ref at some
// index >= placesToKeep. Only a nonzero digit may end the prefix; if none
// qualifies, a copy of cand is returned whole.
func Chop(ref, cand []int, placesToKeep int) []int {
	for i := max(placesToKeep, 0); i < len(cand); i++ {
		if cand[i] == 0 {
			continue
		}
		if i >= len(ref) || ref[i] != cand[i] {
			return slices.Clone(cand[:i+1])
		}
	}
	return slices.Clone(cand)
}

// ChopSuccessive chops every entry of an ordered chain against its already
// chopped predecessor. A descending chain is processed ascending and then
// restored, so the first entry of the ascending order is always kept intact.
func ChopSuccessive(chain [][]int, placesToKeep int) [][]int {
	out := slices.Clone(chain)
	if len(out) < 2 {
		return out
	}

	reversed := !Less(out[0], out[1])
	if reversed {
		slices.Reverse(out)
	}
	for i := 1; i < len(out); i++ {
		out[i] = Chop(out[i-1], out[i], placesToKeep)
	}
	if reversed {
		slices.Reverse(out)
	}
	return out
}
