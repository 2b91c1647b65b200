// Package mudder generates strings that sort strictly between two others.
//
// A SymbolTable maps an alphabet of symbols (single characters or longer
// tokens) to digits. Mudder treats the two boundary strings as fractions in
// that base, interpolates evenly spaced points between them with exact
// arithmetic, and truncates each point to the shortest prefix that still
// sorts strictly between its neighbours. Keys can be generated between any
// two existing keys indefinitely without renumbering either.
//
//	keys, err := mudder.Base62.Mudder("cat", "dog", mudder.Options{NumStrings: 3})
//	// keys == []string{"ct", "d", "dV"}
//
// A SymbolTable is immutable once constructed and safe for concurrent use.
package mudder
