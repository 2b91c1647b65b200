package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mudder/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mudder", cmd.Use)
	assert.Contains(t, cmd.Long, "lexicographically")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"between", "encode", "decode", "alphabets", "list", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestListSubcommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, sub := range []string{"create", "ls", "delete", "add", "move", "remove", "show", "rebalance"} {
		t.Run(sub, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{"list", sub})
			require.NoError(t, err)
			assert.Equal(t, sub, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	alphabetsFlag := cmd.PersistentFlags().Lookup("alphabets")
	require.NotNil(t, alphabetsFlag)
	assert.Equal(t, "", alphabetsFlag.DefValue)
}

func TestBetweenCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	betweenCmd, _, err := cmd.Find([]string{"between"})
	require.NoError(t, err)

	alphabetFlag := betweenCmd.Flags().Lookup("alphabet")
	require.NotNil(t, alphabetFlag)
	assert.Equal(t, "a", alphabetFlag.Shorthand)
	assert.Equal(t, "base62", alphabetFlag.DefValue)

	countFlag := betweenCmd.Flags().Lookup("count")
	require.NotNil(t, countFlag)
	assert.Equal(t, "n", countFlag.Shorthand)
	assert.Equal(t, "1", countFlag.DefValue)

	for _, name := range []string{"divisions", "places", "base"} {
		require.NotNil(t, betweenCmd.Flags().Lookup(name), name)
	}
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	dbFlag := listCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	addCmd, _, err := cmd.Find([]string{"list", "add"})
	require.NoError(t, err)
	require.NotNil(t, addCmd.Flags().Lookup("after"))
	require.NotNil(t, addCmd.Flags().Lookup("before"))
	require.NotNil(t, addCmd.Flags().Lookup("front"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "between", "a", "b"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootExecuteBetween(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"between", "cat", "dog"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "d\n", buf.String())
}

func TestVerboseLogsGoToStderr(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"-v", "--format", "json", "between", "cat", "dog"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "alphabet base62")
	assert.NotContains(t, out.String(), "alphabet base62")
}

func TestVersionFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), ir.Version)
}
