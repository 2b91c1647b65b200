package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/mudder/internal/ir"
)

// marshalAlphabet converts an AlphabetSpec to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so equal specs are stored byte-identically.
func marshalAlphabet(spec ir.AlphabetSpec) (string, error) {
	data, err := ir.MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("marshal alphabet: %w", err)
	}
	return string(data), nil
}

// unmarshalAlphabet parses a stored alphabet back into an AlphabetSpec.
func unmarshalAlphabet(data string) (ir.AlphabetSpec, error) {
	var spec ir.AlphabetSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return ir.AlphabetSpec{}, fmt.Errorf("unmarshal alphabet: %w", err)
	}
	return spec, nil
}
