package ir

// DigitPair assigns a digit value to a symbol.
type DigitPair struct {
	Symbol string `json:"symbol"`
	Digit  int    `json:"digit"`
}

// AlphabetSpec is a compiled alphabet definition.
//
// Symbols lists the alphabet in digit order. Digits is optional; when empty
// each symbol's digit is its position. When present it may alias extra
// symbols to existing digits (e.g. uppercase forms).
type AlphabetSpec struct {
	Name    string      `json:"name"`
	Symbols []string    `json:"symbols"`
	Digits  []DigitPair `json:"digits,omitempty"`
}

// List is a named, ordered collection of items whose order is carried by
// mudder keys drawn from one alphabet.
type List struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Alphabet     string `json:"alphabet"`
	AlphabetHash string `json:"alphabet_hash"`
	Seq          int64  `json:"seq"`
}

// Item is one entry of a List. Key orders it among its siblings.
type Item struct {
	ID     string `json:"id"`
	ListID string `json:"list_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
	Seq    int64  `json:"seq"`
}
