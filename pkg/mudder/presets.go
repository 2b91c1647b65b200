package mudder

// Preset tables.
var (
	// Base62 is 0-9, A-Z, a-z in ASCII order.
	Base62 = mustTable(NewSymbolTable(charRange('0', 10, 'A', 26, 'a', 26)))

	// Base36 is 0-9, a-z. Uppercase letters decode to the same digits as
	// their lowercase forms, matching strconv.FormatInt output.
	Base36 = mustTable(NewSymbolTableWithDigits(
		charRange('0', 10, 'a', 26),
		caseFolded(charRange('0', 10, 'a', 26), 10),
	))

	// Alphabet is a-z, decoding A-Z case-insensitively.
	Alphabet = mustTable(NewSymbolTableWithDigits(
		charRange('a', 26),
		caseFolded(charRange('a', 26), 0),
	))
)

// charRange expands (start, count) pairs into consecutive one-rune symbols.
func charRange(spans ...rune) []string {
	var out []string
	for i := 0; i+1 < len(spans); i += 2 {
		for r := spans[i]; r < spans[i]+spans[i+1]; r++ {
			out = append(out, string(r))
		}
	}
	return out
}

// caseFolded maps each symbol to its position and, from index letters on,
// the uppercase form of each symbol to the same digit.
func caseFolded(symbols []string, letters int) []DigitPair {
	pairs := make([]DigitPair, 0, len(symbols)*2-letters)
	for i, s := range symbols {
		pairs = append(pairs, DigitPair{Symbol: s, Digit: i})
	}
	for i := letters; i < len(symbols); i++ {
		pairs = append(pairs, DigitPair{Symbol: string(rune(symbols[i][0]) - 'a' + 'A'), Digit: i})
	}
	return pairs
}

func mustTable(t *SymbolTable, err error) *SymbolTable {
	if err != nil {
		panic(err)
	}
	return t
}
