package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loadArgs_no_files_drains_stdin(t *testing.T) {
	e := New(WithOutput(&strings.Builder{}))
	defer e.Close()

	old := os.Stdin
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdin = r
	defer func() { os.Stdin = old }()

	_, _ = w.WriteString("hi")
	w.Close()

	require.NoError(t, loadArgs(e, nil))
	assert.True(t, e.in.Empty(), "expected no files to be pushed onto the stream directly")

	c, err := e.in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), c, "expected reads to fall through to stdin")
}

func Test_loadArgs_loads_files_right_to_left(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.m4")
	b := filepath.Join(dir, "b.m4")
	require.NoError(t, os.WriteFile(a, []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("B"), 0o644))

	e := New(WithOutput(&strings.Builder{}))
	defer e.Close()

	require.NoError(t, loadArgs(e, []string{a, b}))

	var got []byte
	for {
		c, err := e.in.ReadByte()
		if err != nil {
			break
		}
		got = append(got, c)
	}
	assert.Equal(t, "AB", string(got))
}

func Test_loadArgs_missing_file_errors(t *testing.T) {
	e := New(WithOutput(&strings.Builder{}))
	defer e.Close()
	err := loadArgs(e, []string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
