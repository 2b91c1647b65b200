package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runKeysCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--format", format}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestBetweenText(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single", []string{"between", "cat", "dog"}, "d\n"},
		{"three", []string{"between", "cat", "dog", "-n", "3"}, "ct\nd\ndV\n"},
		{"reversed", []string{"between", "dog", "cat", "-n", "3"}, "dV\nd\nct\n"},
		{"open ended", []string{"between", "-n", "5"}, "A\nK\nU\nf\np\n"},
		{"decimal", []string{"between", "1", "2", "--alphabet", "decimal"}, "15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runKeysCommand(t, "text", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestBetweenJSON(t *testing.T) {
	out, err := runKeysCommand(t, "json", "between", "cat", "dog", "-n", "3")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   KeysResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "base62", resp.Data.Alphabet)
	assert.Equal(t, []string{"ct", "d", "dV"}, resp.Data.Keys)
}

func TestBetweenErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"equal bounds", []string{"between", "cat", "cat"}, "DOMAIN", ExitFailure},
		{"unknown symbol", []string{"between", "cat!", "dog"}, "PARSE", ExitFailure},
		{"base too large", []string{"between", "cat", "dog", "--base", "100"}, "INVALID_ARGUMENT", ExitFailure},
		{"unknown alphabet", []string{"between", "a", "b", "--alphabet", "klingon"}, ErrCodeUnknownAlphabet, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runKeysCommand(t, "json", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestBetweenCustomAlphabet(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "alphabets")

	out, err := runKeysCommand(t, "text", "--alphabets", dir, "between", "2", "4", "--alphabet", "hex", "-n", "4")
	require.NoError(t, err)
	assert.Equal(t, "26\n2d\n3\n3a\n", out)
}

func TestEncodeDecode(t *testing.T) {
	out, err := runKeysCommand(t, "text", "encode", "38", "36", "55")
	require.NoError(t, err)
	assert.Equal(t, "cat\n", out)

	out, err = runKeysCommand(t, "text", "decode", "cat")
	require.NoError(t, err)
	assert.Equal(t, "38 36 55\n", out)

	out, err = runKeysCommand(t, "json", "decode", "cat")
	require.NoError(t, err)
	var resp struct {
		Data DigitsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []int{38, 36, 55}, resp.Data.Digits)
	assert.Equal(t, "cat", resp.Data.Key)
}

func TestEncodeRejectsBadDigits(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"not an integer", []string{"encode", "x"}, ErrCodeInvalidInput},
		{"fraction after valid digit", []string{"encode", "3", "1.5"}, ErrCodeInvalidInput},
		{"digit past alphabet", []string{"encode", "62"}, "INVALID_ARGUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runKeysCommand(t, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestDecodeRejectsUnknownSymbols(t *testing.T) {
	out, err := runKeysCommand(t, "text", "decode", "c-t")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "PARSE")
}
