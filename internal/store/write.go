package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/mudder/internal/ir"
)

// WriteAlphabet stores an alphabet under its content hash and returns the hash.
// Uses ON CONFLICT(hash) DO NOTHING for idempotency - the first stored spec
// for a hash wins, including its name.
func (s *Store) WriteAlphabet(ctx context.Context, spec ir.AlphabetSpec) (string, error) {
	hash, err := ir.AlphabetHash(spec)
	if err != nil {
		return "", fmt.Errorf("write alphabet: %w", err)
	}

	specJSON, err := marshalAlphabet(spec)
	if err != nil {
		return "", fmt.Errorf("write alphabet: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alphabets (hash, spec)
		VALUES (?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, specJSON)
	if err != nil {
		return "", fmt.Errorf("write alphabet: %w", err)
	}

	return hash, nil
}

// CreateList inserts a list record.
// The alphabet referenced by AlphabetHash must exist (foreign key constraint)
// and the name must be unused.
func (s *Store) CreateList(ctx context.Context, list ir.List) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (id, name, alphabet, alphabet_hash, seq)
		VALUES (?, ?, ?, ?, ?)
	`,
		list.ID,
		list.Name,
		list.Alphabet,
		list.AlphabetHash,
		list.Seq,
	)
	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

// WriteItem inserts an item record.
// Fails if the list does not exist or the key is already used in the list.
func (s *Store) WriteItem(ctx context.Context, item ir.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, list_id, key, value, seq)
		VALUES (?, ?, ?, ?, ?)
	`,
		item.ID,
		item.ListID,
		item.Key,
		item.Value,
		item.Seq,
	)
	if err != nil {
		return fmt.Errorf("write item: %w", err)
	}
	return nil
}

// UpdateItemKey moves an item to a new key.
// Returns sql.ErrNoRows if the item does not exist.
func (s *Store) UpdateItemKey(ctx context.Context, id, key string, seq int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET key = ?, seq = ? WHERE id = ?
	`, key, seq, id)
	if err != nil {
		return fmt.Errorf("update item key: %w", err)
	}
	return requireRow(result, "update item key")
}

// DeleteItem removes an item.
// Returns sql.ErrNoRows if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireRow(result, "delete item")
}

// DeleteList removes a list and all its items.
// Returns sql.ErrNoRows if the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return requireRow(result, "delete list")
}

// RekeyItems assigns new keys to items of one list atomically.
// keys maps item ID to its new key; every ID must belong to listID.
//
// The new key set may overlap the old one (rebalancing usually does), so
// affected rows are first parked on keys derived from their IDs, which
// cannot collide with one another.
func (s *Store) RekeyItems(ctx context.Context, listID string, keys map[string]string, seq int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rekey items: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	park, err := tx.PrepareContext(ctx, `
		UPDATE items SET key = char(0) || id WHERE id = ? AND list_id = ?
	`)
	if err != nil {
		return fmt.Errorf("rekey items: prepare: %w", err)
	}
	defer park.Close()

	for id := range keys {
		result, err := park.ExecContext(ctx, id, listID)
		if err != nil {
			return fmt.Errorf("rekey items: park %s: %w", id, err)
		}
		if err := requireRow(result, "rekey items"); err != nil {
			return err
		}
	}

	set, err := tx.PrepareContext(ctx, `
		UPDATE items SET key = ?, seq = ? WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("rekey items: prepare: %w", err)
	}
	defer set.Close()

	for id, key := range keys {
		if _, err := set.ExecContext(ctx, key, seq, id); err != nil {
			return fmt.Errorf("rekey items: set %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rekey items: commit: %w", err)
	}
	return nil
}

// requireRow maps a zero-row write to sql.ErrNoRows.
func requireRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}
