package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/mudder/internal/ir"
)

// ReadAlphabet retrieves an alphabet by content hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAlphabet(ctx context.Context, hash string) (ir.AlphabetSpec, error) {
	var specJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT spec FROM alphabets WHERE hash = ?
	`, hash).Scan(&specJSON)
	if err != nil {
		return ir.AlphabetSpec{}, err
	}
	return unmarshalAlphabet(specJSON)
}

// ReadList retrieves a list by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadList(ctx context.Context, id string) (ir.List, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, alphabet, alphabet_hash, seq
		FROM lists
		WHERE id = ?
	`, id)
	return scanList(row)
}

// ReadListByName retrieves a list by name.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadListByName(ctx context.Context, name string) (ir.List, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, alphabet, alphabet_hash, seq
		FROM lists
		WHERE name = ?
	`, name)
	return scanList(row)
}

// ReadLists returns all lists ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadLists(ctx context.Context) ([]ir.List, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, alphabet, alphabet_hash, seq
		FROM lists
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	lists := []ir.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

// ReadItem retrieves a single item by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadItem(ctx context.Context, id string) (ir.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, list_id, key, value, seq
		FROM items
		WHERE id = ?
	`, id)
	return scanItem(row)
}

// ReadItems returns the items of a list ordered by key COLLATE BINARY, then id.
// Byte order of keys matches list order only for alphabets whose symbols
// ascend in byte order; see package doc.
// Returns an empty slice (not nil) if the list has no items.
func (s *Store) ReadItems(ctx context.Context, listID string) ([]ir.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_id, key, value, seq
		FROM items
		WHERE list_id = ?
		ORDER BY key COLLATE BINARY ASC, id COLLATE BINARY ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []ir.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// MaxSeq returns the highest seq recorded in any table, or 0 for an empty
// store. Used to resume the logical clock across process restarts.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM (
			SELECT seq FROM lists
			UNION ALL
			SELECT seq FROM items
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanList(row scanner) (ir.List, error) {
	var list ir.List
	if err := row.Scan(&list.ID, &list.Name, &list.Alphabet, &list.AlphabetHash, &list.Seq); err != nil {
		return ir.List{}, err
	}
	return list, nil
}

func scanItem(row scanner) (ir.Item, error) {
	var item ir.Item
	if err := row.Scan(&item.ID, &item.ListID, &item.Key, &item.Value, &item.Seq); err != nil {
		return ir.Item{}, err
	}
	return item, nil
}
