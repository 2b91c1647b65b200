package ranking

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mudder/internal/compiler"
	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/internal/store"
	"github.com/roach88/mudder/pkg/mudder"
)

func decimalSpec() ir.AlphabetSpec {
	spec, _, _ := compiler.Builtin(compiler.BuiltinDecimal)
	return spec
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := New(context.Background(), st,
		WithClock(NewClockAt(0)),
		WithIDGenerator(NewSequentialGenerator("id")),
	)
	require.NoError(t, err)
	return svc, st
}

func keys(items []ir.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func values(items []ir.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

func TestCreateList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)
	assert.Equal(t, "id-1", list.ID)
	assert.Equal(t, "todo", list.Name)
	assert.Equal(t, "decimal", list.Alphabet)
	assert.Equal(t, int64(1), list.Seq)
	assert.Equal(t, ir.MustAlphabetHash(decimalSpec()), list.AlphabetHash)
}

func TestCreateList_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	renamed := decimalSpec()
	renamed.Name = "digits"
	again, err := svc.CreateList(ctx, "todo", renamed)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestCreateList_AlphabetMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	spec, _, _ := compiler.Builtin(compiler.BuiltinBase62)
	_, err = svc.CreateList(ctx, "todo", spec)
	assert.True(t, IsAlphabetMismatch(err), "got %v", err)
}

func TestCreateList_RejectsNonPrefixCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateList(context.Background(), "todo", ir.AlphabetSpec{
		Name:    "overlap",
		Symbols: []string{"a", "ab", "b"},
	})
	var re *RankError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeAlphabetUnsupported, re.Code)
}

func TestCreateList_InvalidAlphabet(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateList(context.Background(), "todo", ir.AlphabetSpec{Name: "empty"})
	require.Error(t, err)
}

func TestAppend(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	for _, v := range []string{"a", "b", "c"} {
		_, err := svc.Append(ctx, "todo", v)
		require.NoError(t, err)
	}

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6", "7"}, keys(items))
	assert.Equal(t, []string{"a", "b", "c"}, values(items))
}

func TestPrepend(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	first, err := svc.Prepend(ctx, "todo", "b")
	require.NoError(t, err)
	assert.Equal(t, "4", first.Key)

	second, err := svc.Prepend(ctx, "todo", "a")
	require.NoError(t, err)
	assert.Equal(t, "2", second.Key)

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, values(items))
}

func TestInsertAfterAndBefore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	a, err := svc.Append(ctx, "todo", "a")
	require.NoError(t, err)
	c, err := svc.Append(ctx, "todo", "c")
	require.NoError(t, err)

	b, err := svc.InsertAfter(ctx, "todo", a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, "5", b.Key)

	z, err := svc.InsertBefore(ctx, "todo", a.ID, "z")
	require.NoError(t, err)
	assert.Equal(t, "2", z.Key)

	d, err := svc.InsertAfter(ctx, "todo", c.ID, "d")
	require.NoError(t, err)
	assert.Equal(t, "7", d.Key)

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "b", "c", "d"}, values(items))
}

func TestInsertAfter_Narrowing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	head, err := svc.Append(ctx, "todo", "head")
	require.NoError(t, err)
	_, err = svc.Append(ctx, "todo", "tail")
	require.NoError(t, err)

	var got []string
	for i := 0; i < 10; i++ {
		item, err := svc.InsertAfter(ctx, "todo", head.ID, "x")
		require.NoError(t, err)
		got = append(got, item.Key)
	}
	assert.Equal(t, []string{"5", "45", "42", "41", "405", "402", "401", "4005", "4002", "4001"}, got)

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, "head", items[0].Value)
	assert.Equal(t, "tail", items[len(items)-1].Value)
	assertStrictlyIncreasing(t, svc, items)
}

func TestInsert_UnknownItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	_, err = svc.InsertAfter(ctx, "todo", "missing", "x")
	assert.True(t, IsItemNotFound(err), "got %v", err)

	_, err = svc.InsertBefore(ctx, "todo", "missing", "x")
	assert.True(t, IsItemNotFound(err), "got %v", err)
}

func TestUnknownList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Append(ctx, "nope", "x")
	assert.True(t, IsListNotFound(err), "got %v", err)

	_, err = svc.Items(ctx, "nope")
	assert.True(t, IsListNotFound(err), "got %v", err)

	err = svc.DeleteList(ctx, "nope")
	assert.True(t, IsListNotFound(err), "got %v", err)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		move    int // index of item to move
		after   int // index of new predecessor, -1 for front
		wantKey string
		want    []string
	}{
		{"last to front", 2, -1, "2", []string{"c", "a", "b"}},
		{"first to end", 0, 2, "8", []string{"b", "c", "a"}},
		{"first to middle", 0, 1, "65", []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			_, err := svc.CreateList(ctx, "todo", decimalSpec())
			require.NoError(t, err)

			var created []ir.Item
			for _, v := range []string{"a", "b", "c"} {
				item, err := svc.Append(ctx, "todo", v)
				require.NoError(t, err)
				created = append(created, item)
			}

			afterID := ""
			if tt.after >= 0 {
				afterID = created[tt.after].ID
			}
			moved, err := svc.Move(ctx, "todo", created[tt.move].ID, afterID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, moved.Key)
			assert.Equal(t, created[tt.move].ID, moved.ID)
			assert.Equal(t, created[tt.move].Value, moved.Value)

			items, err := svc.Items(ctx, "todo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, values(items))
		})
	}
}

func TestMove_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)
	a, err := svc.Append(ctx, "todo", "a")
	require.NoError(t, err)

	_, err = svc.Move(ctx, "todo", "missing", "")
	assert.True(t, IsItemNotFound(err))

	_, err = svc.Move(ctx, "todo", a.ID, a.ID)
	assert.True(t, IsItemNotFound(err), "an item cannot follow itself")
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)
	_, err = svc.CreateList(ctx, "other", decimalSpec())
	require.NoError(t, err)

	a, err := svc.Append(ctx, "todo", "a")
	require.NoError(t, err)
	_, err = svc.Append(ctx, "todo", "b")
	require.NoError(t, err)
	foreign, err := svc.Append(ctx, "other", "x")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "todo", a.ID))

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, values(items))

	assert.True(t, IsItemNotFound(svc.Remove(ctx, "todo", a.ID)))
	assert.True(t, IsItemNotFound(svc.Remove(ctx, "todo", foreign.ID)), "item of another list")
}

func TestRebalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	head, err := svc.Append(ctx, "todo", "a")
	require.NoError(t, err)
	_, err = svc.Append(ctx, "todo", "c")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = svc.InsertAfter(ctx, "todo", head.ID, "b")
		require.NoError(t, err)
	}

	before, err := svc.Items(ctx, "todo")
	require.NoError(t, err)

	rebalanced, err := svc.Rebalance(ctx, "todo")
	require.NoError(t, err)

	spread, err := decimalTable(t).Spread(len(before))
	require.NoError(t, err)
	assert.Equal(t, spread, keys(rebalanced))

	after, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, rebalanced, after)

	var beforeIDs, afterIDs []string
	for i := range before {
		beforeIDs = append(beforeIDs, before[i].ID)
		afterIDs = append(afterIDs, after[i].ID)
	}
	assert.Equal(t, beforeIDs, afterIDs, "rebalance must preserve order")
}

func TestRebalance_SmallList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)

	items, err := svc.Rebalance(ctx, "todo")
	require.NoError(t, err)
	assert.Empty(t, items)

	for _, v := range []string{"a", "b", "c"} {
		_, err := svc.Append(ctx, "todo", v)
		require.NoError(t, err)
	}
	items, err = svc.Rebalance(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "7"}, keys(items))
}

func TestItems_DigitOrderNotByteOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Symbols deliberately out of byte order: "z" is digit 0.
	spec := ir.AlphabetSpec{Name: "reversed", Symbols: []string{"z", "y", "x", "w"}}
	_, err := svc.CreateList(ctx, "todo", spec)
	require.NoError(t, err)

	for _, v := range []string{"a", "b", "c", "d"} {
		_, err := svc.Append(ctx, "todo", v)
		require.NoError(t, err)
	}

	items, err := svc.Items(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, values(items))
	assertStrictlyIncreasing(t, svc, items)
}

func TestNew_ResumesClockFromStore(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)
	_, err = svc.Append(ctx, "todo", "a")
	require.NoError(t, err)

	resumed, err := New(ctx, st, WithIDGenerator(NewSequentialGenerator("next")))
	require.NoError(t, err)

	item, err := resumed.Append(ctx, "todo", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.Seq)
}

func TestDeleteList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateList(ctx, "todo", decimalSpec())
	require.NoError(t, err)
	_, err = svc.Append(ctx, "todo", "a")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, "todo"))

	lists, err := svc.Lists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestRankErrorFormat(t *testing.T) {
	assert.Equal(t, "LIST_NOT_FOUND: no such list (list=todo)", listNotFound("todo").Error())
	assert.Equal(t, "ITEM_NOT_FOUND: no such item in list (list=todo, item=x)", itemNotFound("todo", "x").Error())
}

func decimalTable(t *testing.T) *mudder.SymbolTable {
	t.Helper()
	_, table, ok := compiler.Builtin(compiler.BuiltinDecimal)
	require.True(t, ok)
	return table
}

func assertStrictlyIncreasing(t *testing.T, svc *Service, items []ir.Item) {
	t.Helper()
	_, table, err := svc.OpenList(context.Background(), "todo")
	require.NoError(t, err)
	for i := 1; i < len(items); i++ {
		c, err := table.Compare(items[i-1].Key, items[i].Key)
		require.NoError(t, err)
		assert.Negative(t, c, "%q should sort before %q", items[i-1].Key, items[i].Key)
	}
}
