package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainAlphabet = "mudder/alphabet/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// AlphabetHash computes the content-addressed identity of an alphabet.
//
// The name is excluded: two definitions with the same symbols and digit map
// produce interchangeable keys, so a list created under one can be read
// under the other.
func AlphabetHash(spec AlphabetSpec) (string, error) {
	obj := map[string]any{"symbols": spec.Symbols}
	if len(spec.Digits) > 0 {
		obj["digits"] = spec.Digits
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("AlphabetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAlphabet, canonical), nil
}

// MustAlphabetHash is like AlphabetHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustAlphabetHash(spec AlphabetSpec) string {
	h, err := AlphabetHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}
