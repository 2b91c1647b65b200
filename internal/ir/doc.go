// Package ir provides the shared record types for mudder's supporting
// layers: alphabet definitions, ranked lists and their items.
//
// This package contains type definitions and their canonical encoding only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Alphabet identity is content-addressed: a SHA-256 over RFC 8785
//     canonical JSON of the symbols and digit map, with domain separation
//   - Strings are NFC normalized before hashing so visually identical
//     alphabets hash identically
//   - Ordering uses logical sequence numbers (seq), never wall-clock time
//   - No float types anywhere
package ir
