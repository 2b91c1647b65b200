package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/internal/ranking"
)

// listFixture runs list subcommands against one database with
// deterministic IDs: the first generated ID is id-1.
type listFixture struct {
	t    *testing.T
	db   string
	opts *ListOptions
}

func newListFixture(t *testing.T, format string) *listFixture {
	t.Helper()
	return &listFixture{
		t:  t,
		db: filepath.Join(t.TempDir(), "lists.db"),
		opts: &ListOptions{
			RootOptions: &RootOptions{Format: format},
			IDGenerator: ranking.NewSequentialGenerator("id"),
		},
	}
}

func (f *listFixture) run(args ...string) (string, error) {
	f.t.Helper()
	buf := &bytes.Buffer{}
	cmd := newListCommand(f.opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--db", f.db))
	err := cmd.Execute()
	return buf.String(), err
}

func (f *listFixture) mustRun(args ...string) string {
	f.t.Helper()
	out, err := f.run(args...)
	require.NoError(f.t, err, out)
	return out
}

func TestListWorkflowText(t *testing.T) {
	f := newListFixture(t, "text")

	assert.Equal(t, "todo\tid-1\tbase62\n", f.mustRun("create", "todo"))
	assert.Equal(t, "U\tid-2\tmilk\n", f.mustRun("add", "todo", "milk"))
	assert.Equal(t, "j\tid-3\teggs\n", f.mustRun("add", "todo", "eggs"))
	assert.Equal(t, "F\tid-4\tbread\n", f.mustRun("add", "todo", "bread", "--front"))
	assert.Equal(t, "b\tid-5\tjam\n", f.mustRun("add", "todo", "jam", "--after", "id-2"))

	assert.Equal(t, "F\tid-4\tbread\nU\tid-2\tmilk\nb\tid-5\tjam\nj\tid-3\teggs\n", f.mustRun("show", "todo"))

	assert.Equal(t, "7\tid-3\teggs\n", f.mustRun("move", "todo", "id-3"))
	assert.Equal(t, "removed id-2\n", f.mustRun("remove", "todo", "id-2"))
	assert.Equal(t, "7\tid-3\teggs\nF\tid-4\tbread\nb\tid-5\tjam\n", f.mustRun("show", "todo"))

	assert.Equal(t, "F\tid-3\teggs\nU\tid-4\tbread\nk\tid-5\tjam\n", f.mustRun("rebalance", "todo"))
}

func TestListPersistsAcrossInvocations(t *testing.T) {
	f := newListFixture(t, "text")
	f.mustRun("create", "todo")
	f.mustRun("add", "todo", "milk")

	// A fresh generator must not collide with stored IDs; UUIDs never do.
	f.opts.IDGenerator = nil
	f.mustRun("add", "todo", "eggs")

	out := f.mustRun("show", "todo")
	assert.Contains(t, out, "U\tid-2\tmilk\n")
	assert.Contains(t, out, "\teggs\n")
}

func TestListCreateIsIdempotent(t *testing.T) {
	f := newListFixture(t, "text")
	first := f.mustRun("create", "todo")
	second := f.mustRun("create", "todo")
	assert.Equal(t, first, second)

	_, err := f.run("create", "todo", "--alphabet", "decimal")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestListLsAndDelete(t *testing.T) {
	f := newListFixture(t, "text")
	f.mustRun("create", "todo")
	f.mustRun("create", "scores", "--alphabet", "decimal")

	assert.Equal(t, "todo\tid-1\tbase62\nscores\tid-2\tdecimal\n", f.mustRun("ls"))

	assert.Equal(t, "deleted todo\n", f.mustRun("delete", "todo"))
	assert.Equal(t, "scores\tid-2\tdecimal\n", f.mustRun("ls"))
}

func TestListErrorsJSON(t *testing.T) {
	f := newListFixture(t, "json")
	f.mustRun("create", "todo")

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing list", []string{"add", "groceries", "milk"}, string(ranking.ErrCodeListNotFound)},
		{"missing anchor", []string{"add", "todo", "milk", "--after", "nope"}, string(ranking.ErrCodeItemNotFound)},
		{"missing item", []string{"remove", "todo", "nope"}, string(ranking.ErrCodeItemNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestListShowJSON(t *testing.T) {
	f := newListFixture(t, "json")
	f.mustRun("create", "todo")
	f.mustRun("add", "todo", "milk")
	f.mustRun("add", "todo", "eggs")

	var resp struct {
		Status string   `json:"status"`
		Data   ItemList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.mustRun("show", "todo")), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "todo", resp.Data.List)
	require.Len(t, resp.Data.Items, 2)
	assert.Equal(t, ir.Item{ID: "id-2", ListID: "id-1", Key: "U", Value: "milk", Seq: resp.Data.Items[0].Seq}, resp.Data.Items[0])
	assert.Equal(t, "j", resp.Data.Items[1].Key)
}

func TestListRequiresDB(t *testing.T) {
	cmd := newListCommand(&ListOptions{RootOptions: &RootOptions{Format: "text"}})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ls"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestListAddFlagsExclusive(t *testing.T) {
	f := newListFixture(t, "text")
	f.mustRun("create", "todo")

	_, err := f.run("add", "todo", "milk", "--front", "--after", "id-1")
	require.Error(t, err)
}
