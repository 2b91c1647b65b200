package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/mudder/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testAlphabet = ir.AlphabetSpec{
	Name:    "decimal",
	Symbols: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
}

// createTestList stores testAlphabet and a list using it.
func createTestList(t *testing.T, s *Store, id, name string, seq int64) ir.List {
	t.Helper()
	ctx := context.Background()
	hash, err := s.WriteAlphabet(ctx, testAlphabet)
	if err != nil {
		t.Fatalf("WriteAlphabet() failed: %v", err)
	}
	list := ir.List{ID: id, Name: name, Alphabet: testAlphabet.Name, AlphabetHash: hash, Seq: seq}
	if err := s.CreateList(ctx, list); err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}
	return list
}

// createTestItem writes an item with the given key.
func createTestItem(t *testing.T, s *Store, id, listID, key string, seq int64) ir.Item {
	t.Helper()
	item := ir.Item{ID: id, ListID: listID, Key: key, Value: "value-" + id, Seq: seq}
	if err := s.WriteItem(context.Background(), item); err != nil {
		t.Fatalf("WriteItem(%s) failed: %v", id, err)
	}
	return item
}
