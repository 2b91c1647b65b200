package ranking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/mudder/internal/compiler"
	"github.com/roach88/mudder/internal/digits"
	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/internal/store"
	"github.com/roach88/mudder/pkg/mudder"
)

// Service assigns and maintains mudder keys for lists in a store.
type Service struct {
	mu    sync.Mutex // serializes read-modify-write of a list
	store *store.Store
	clock SeqSource
	ids   IDGenerator

	tablesMu sync.RWMutex
	tables   map[string]*mudder.SymbolTable // by alphabet hash
}

// Option allows configuration of the service.
type Option func(*Service)

// WithClock sets the seq source. Default: a Clock resumed at the store's
// highest seq.
func WithClock(c SeqSource) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithIDGenerator sets the ID source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// New creates a Service over st.
func New(ctx context.Context, st *store.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:  st,
		ids:    UUIDv7Generator{},
		tables: make(map[string]*mudder.SymbolTable),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		seq, err := st.MaxSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume clock: %w", err)
		}
		s.clock = NewClockAt(seq)
	}

	return s, nil
}

// CreateList creates a list keyed by the given alphabet. Creating a list that
// already exists with an equivalent alphabet returns the existing list.
func (s *Service) CreateList(ctx context.Context, name string, spec ir.AlphabetSpec) (ir.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := compiler.Build(&spec)
	if err != nil {
		return ir.List{}, err
	}
	if !table.IsPrefixCode() {
		return ir.List{}, &RankError{
			Code:    ErrCodeAlphabetUnsupported,
			Message: fmt.Sprintf("alphabet %q is not a prefix code, stored keys could not be decoded", spec.Name),
			List:    name,
		}
	}

	hash, err := ir.AlphabetHash(spec)
	if err != nil {
		return ir.List{}, err
	}

	existing, err := s.store.ReadListByName(ctx, name)
	switch {
	case err == nil:
		if existing.AlphabetHash != hash {
			return ir.List{}, &RankError{
				Code:    ErrCodeAlphabetMismatch,
				Message: fmt.Sprintf("list exists with alphabet %q", existing.Alphabet),
				List:    name,
			}
		}
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return ir.List{}, fmt.Errorf("create list %s: %w", name, err)
	}

	if _, err := s.store.WriteAlphabet(ctx, spec); err != nil {
		return ir.List{}, err
	}

	list := ir.List{
		ID:           s.ids.Generate(),
		Name:         name,
		Alphabet:     spec.Name,
		AlphabetHash: hash,
		Seq:          s.clock.Next(),
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return ir.List{}, err
	}
	s.cacheTable(hash, table)

	slog.Info("list created",
		"list", name,
		"id", list.ID,
		"alphabet", spec.Name,
	)

	return list, nil
}

// Lists returns every list in creation order.
func (s *Service) Lists(ctx context.Context) ([]ir.List, error) {
	return s.store.ReadLists(ctx)
}

// OpenList returns a list and the symbol table its keys are drawn from.
func (s *Service) OpenList(ctx context.Context, name string) (ir.List, *mudder.SymbolTable, error) {
	list, err := s.store.ReadListByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.List{}, nil, listNotFound(name)
	}
	if err != nil {
		return ir.List{}, nil, fmt.Errorf("open list %s: %w", name, err)
	}

	table, err := s.table(ctx, list.AlphabetHash)
	if err != nil {
		return ir.List{}, nil, fmt.Errorf("open list %s: %w", name, err)
	}
	return list, table, nil
}

// DeleteList removes a list and its items.
func (s *Service) DeleteList(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.OpenList(ctx, name)
	if err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, list.ID); err != nil {
		return err
	}

	slog.Info("list deleted", "list", name, "id", list.ID)
	return nil
}

// Items returns the items of a list in key order.
func (s *Service) Items(ctx context.Context, name string) ([]ir.Item, error) {
	list, table, err := s.OpenList(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.ordered(ctx, list, table)
}

// Append adds an item after the last item of the list.
func (s *Service) Append(ctx context.Context, name, value string) (ir.Item, error) {
	return s.insert(ctx, name, value, func(items []ir.Item) (string, string, error) {
		if len(items) == 0 {
			return "", "", nil
		}
		return items[len(items)-1].Key, "", nil
	})
}

// Prepend adds an item before the first item of the list.
func (s *Service) Prepend(ctx context.Context, name, value string) (ir.Item, error) {
	return s.insert(ctx, name, value, func(items []ir.Item) (string, string, error) {
		if len(items) == 0 {
			return "", "", nil
		}
		return "", items[0].Key, nil
	})
}

// InsertAfter adds an item directly after the item with ID afterID.
func (s *Service) InsertAfter(ctx context.Context, name, afterID, value string) (ir.Item, error) {
	return s.insert(ctx, name, value, func(items []ir.Item) (string, string, error) {
		i := indexOf(items, afterID)
		if i < 0 {
			return "", "", itemNotFound(name, afterID)
		}
		return items[i].Key, keyAt(items, i+1), nil
	})
}

// InsertBefore adds an item directly before the item with ID beforeID.
func (s *Service) InsertBefore(ctx context.Context, name, beforeID, value string) (ir.Item, error) {
	return s.insert(ctx, name, value, func(items []ir.Item) (string, string, error) {
		i := indexOf(items, beforeID)
		if i < 0 {
			return "", "", itemNotFound(name, beforeID)
		}
		return keyAt(items, i-1), items[i].Key, nil
	})
}

// insert places a new item between the boundary keys chosen by bounds from
// the list's current order. An empty boundary is open-ended.
func (s *Service) insert(
	ctx context.Context,
	name, value string,
	bounds func(items []ir.Item) (lo, hi string, err error),
) (ir.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, table, err := s.OpenList(ctx, name)
	if err != nil {
		return ir.Item{}, err
	}
	items, err := s.ordered(ctx, list, table)
	if err != nil {
		return ir.Item{}, err
	}

	lo, hi, err := bounds(items)
	if err != nil {
		return ir.Item{}, err
	}
	key, err := table.Between(lo, hi)
	if err != nil {
		return ir.Item{}, fmt.Errorf("key between %q and %q: %w", lo, hi, err)
	}

	item := ir.Item{
		ID:     s.ids.Generate(),
		ListID: list.ID,
		Key:    key,
		Value:  value,
		Seq:    s.clock.Next(),
	}
	if err := s.store.WriteItem(ctx, item); err != nil {
		return ir.Item{}, err
	}

	slog.Info("item inserted",
		"list", name,
		"item", item.ID,
		"key", key,
	)
	return item, nil
}

// Move re-keys an item to sit directly after afterID, or first in the list
// when afterID is empty. The item keeps its ID and value.
func (s *Service) Move(ctx context.Context, name, itemID, afterID string) (ir.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, table, err := s.OpenList(ctx, name)
	if err != nil {
		return ir.Item{}, err
	}
	items, err := s.ordered(ctx, list, table)
	if err != nil {
		return ir.Item{}, err
	}

	i := indexOf(items, itemID)
	if i < 0 {
		return ir.Item{}, itemNotFound(name, itemID)
	}
	item := items[i]
	rest := slices.Delete(slices.Clone(items), i, i+1)

	var lo, hi string
	if afterID == "" {
		hi = keyAt(rest, 0)
	} else {
		j := indexOf(rest, afterID)
		if j < 0 {
			return ir.Item{}, itemNotFound(name, afterID)
		}
		lo, hi = rest[j].Key, keyAt(rest, j+1)
	}

	key, err := table.Between(lo, hi)
	if err != nil {
		return ir.Item{}, fmt.Errorf("key between %q and %q: %w", lo, hi, err)
	}

	item.Key = key
	item.Seq = s.clock.Next()
	if err := s.store.UpdateItemKey(ctx, item.ID, item.Key, item.Seq); err != nil {
		return ir.Item{}, err
	}

	slog.Info("item moved",
		"list", name,
		"item", item.ID,
		"key", key,
	)
	return item, nil
}

// Remove deletes an item from a list.
func (s *Service) Remove(ctx context.Context, name, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.OpenList(ctx, name)
	if err != nil {
		return err
	}

	item, err := s.store.ReadItem(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && item.ListID != list.ID) {
		return itemNotFound(name, itemID)
	}
	if err != nil {
		return fmt.Errorf("remove item %s: %w", itemID, err)
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	slog.Info("item removed", "list", name, "item", itemID)
	return nil
}

// Rebalance reassigns every item an evenly spaced short key, keeping the
// current order. Returns the items in their new key order.
func (s *Service) Rebalance(ctx context.Context, name string) ([]ir.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, table, err := s.OpenList(ctx, name)
	if err != nil {
		return nil, err
	}
	items, err := s.ordered(ctx, list, table)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	keys, err := table.Spread(len(items))
	if err != nil {
		return nil, fmt.Errorf("rebalance %s: %w", name, err)
	}

	seq := s.clock.Next()
	rekey := make(map[string]string, len(items))
	for i := range items {
		rekey[items[i].ID] = keys[i]
		items[i].Key = keys[i]
		items[i].Seq = seq
	}
	if err := s.store.RekeyItems(ctx, list.ID, rekey, seq); err != nil {
		return nil, err
	}

	slog.Info("list rebalanced",
		"list", name,
		"items", len(items),
		"max_key_len", maxKeyLen(keys),
	)
	return items, nil
}

// ordered reads a list's items sorted by decoded key, ties broken by ID.
func (s *Service) ordered(ctx context.Context, list ir.List, table *mudder.SymbolTable) ([]ir.Item, error) {
	items, err := s.store.ReadItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		item   ir.Item
		digits []int
	}
	decoded := make([]keyed, len(items))
	for i, item := range items {
		d, err := table.Decode(item.Key)
		if err != nil {
			return nil, fmt.Errorf("item %s has undecodable key %q: %w", item.ID, item.Key, err)
		}
		decoded[i] = keyed{item: item, digits: d}
	}

	slices.SortFunc(decoded, func(a, b keyed) int {
		if c := digits.Compare(a.digits, b.digits); c != 0 {
			return c
		}
		return strings.Compare(a.item.ID, b.item.ID)
	})

	for i := range decoded {
		items[i] = decoded[i].item
	}
	return items, nil
}

// table returns the cached symbol table for an alphabet hash, building it
// from the stored spec on first use.
func (s *Service) table(ctx context.Context, hash string) (*mudder.SymbolTable, error) {
	s.tablesMu.RLock()
	table, ok := s.tables[hash]
	s.tablesMu.RUnlock()
	if ok {
		return table, nil
	}

	spec, err := s.store.ReadAlphabet(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("read alphabet %s: %w", hash, err)
	}
	table, err = compiler.Build(&spec)
	if err != nil {
		return nil, err
	}

	slog.Debug("alphabet loaded", "alphabet", spec.Name, "hash", hash)
	s.cacheTable(hash, table)
	return table, nil
}

func (s *Service) cacheTable(hash string, table *mudder.SymbolTable) {
	s.tablesMu.Lock()
	defer s.tablesMu.Unlock()
	s.tables[hash] = table
}

func indexOf(items []ir.Item, id string) int {
	return slices.IndexFunc(items, func(it ir.Item) bool { return it.ID == id })
}

// keyAt returns the key at i, or "" past either end.
func keyAt(items []ir.Item, i int) string {
	if i < 0 || i >= len(items) {
		return ""
	}
	return items[i].Key
}

func maxKeyLen(keys []string) int {
	n := 0
	for _, k := range keys {
		n = max(n, len(k))
	}
	return n
}
