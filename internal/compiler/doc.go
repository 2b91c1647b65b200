// Package compiler turns CUE alphabet definitions into symbol tables.
//
// Alphabets are declared under the top-level "alphabet" struct:
//
//	alphabet: decimal: {
//		symbols: "0123456789"
//	}
//
//	alphabet: hex: {
//		symbols: "0123456789abcdef"
//		aliases: {A: 10, B: 11, C: 12, D: 13, E: 14, F: 15}
//	}
//
//	alphabet: notes: {
//		symbols: ["do", "re", "mi", "fa", "so", "la", "ti"]
//	}
//
// symbols is either a string (one symbol per character) or a list of
// strings. digits, when present, replaces the positional symbol-to-digit map
// entirely; aliases adds extra spellings on top of whichever map is in
// effect. All symbols are NFC normalized.
package compiler
