package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(out, diagOut *strings.Builder) *Engine {
	return New(WithOutput(out), WithDiagWriter(diagOut))
}

func Test_biChangequoteArgs(t *testing.T) {
	for _, tc := range []struct {
		name    string
		l, r    string
		wantErr bool
	}{
		{name: "valid", l: "[", r: "]"},
		{name: "same byte twice", l: "[", r: "[", wantErr: true},
		{name: "multi-byte left", l: "ab", r: "]", wantErr: true},
		{name: "left paren rejected", l: "(", r: "]", wantErr: true},
		{name: "comma rejected", l: ",", r: "]", wantErr: true},
		{name: "non-graphic rejected", l: "\n", r: "]", wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(&strings.Builder{}, &strings.Builder{})
			defer e.Close()
			f := newCallFrame("changequote", nil, biChangequote, 0)
			require.NoError(t, f.args[1].AppendString(tc.l))
			require.NoError(t, f.nextArg(0))
			require.NoError(t, f.args[2].AppendString(tc.r))

			err := biChangequoteArgs(e, f)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.l[0], e.quoteLeft)
			assert.Equal(t, tc.r[0], e.quoteRight)
		})
	}
}

func Test_biErrprintArgs(t *testing.T) {
	var diagOut strings.Builder
	e := newTestEngine(&strings.Builder{}, &diagOut)
	defer e.Close()

	f := newCallFrame("errprint", nil, biErrprint, 0)
	require.NoError(t, f.args[1].AppendString("uh oh"))

	require.NoError(t, biErrprintArgs(e, f))
	assert.Equal(t, "uh oh\n", diagOut.String())
}

func Test_biDumpdefArgs(t *testing.T) {
	var diagOut strings.Builder
	e := newTestEngine(&strings.Builder{}, &diagOut)
	defer e.Close()
	e.symtab.upsert("x", "body")

	f := newCallFrame("dumpdef", nil, biDumpdef, 0)
	require.NoError(t, f.args[1].AppendString("x"))
	require.NoError(t, f.nextArg(0))
	require.NoError(t, f.args[2].AppendString("nope"))

	require.NoError(t, biDumpdefArgs(e, f))
	assert.Contains(t, diagOut.String(), "x: body")
	assert.Contains(t, diagOut.String(), "nope: undefined")
}

func Test_biIncludeArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inc.m4")
	require.NoError(t, os.WriteFile(path, []byte("included"), 0o644))

	e := newTestEngine(&strings.Builder{}, &strings.Builder{})
	defer e.Close()

	f := newCallFrame("include", nil, biInclude, 0)
	require.NoError(t, f.args[1].AppendString(path))

	require.NoError(t, biIncludeArgs(e, f))

	var got []byte
	for {
		c, err := e.in.ReadByte()
		if err != nil {
			break
		}
		got = append(got, c)
	}
	assert.Equal(t, "included", string(got))
}

func Test_biIncludeArgs_missing_file(t *testing.T) {
	e := newTestEngine(&strings.Builder{}, &strings.Builder{})
	defer e.Close()

	f := newCallFrame("include", nil, biInclude, 0)
	require.NoError(t, f.args[1].AppendString(filepath.Join(t.TempDir(), "nope")))

	err := biIncludeArgs(e, f)
	assert.Error(t, err)
}

func Test_biUndivertNoArgs_rejects_non_zero_active(t *testing.T) {
	e := newTestEngine(&strings.Builder{}, &strings.Builder{})
	defer e.Close()
	e.div.active = 2

	err := biUndivertNoArgs(e)
	assert.Error(t, err)
}

func Test_biDivertNoArgs_resets_to_zero(t *testing.T) {
	e := newTestEngine(&strings.Builder{}, &strings.Builder{})
	defer e.Close()
	e.div.active = 5

	require.NoError(t, biDivertNoArgs(e))
	assert.Equal(t, 0, e.div.active)
}

func Test_biHtdistArgs(t *testing.T) {
	var diagOut strings.Builder
	e := newTestEngine(&strings.Builder{}, &diagOut)
	defer e.Close()

	require.NoError(t, biHtdistArgs(e, nil))
	assert.Contains(t, diagOut.String(), "entries_per_bucket number_of_buckets")
}

func Test_biDirsepArgs_pushes_the_path_separator(t *testing.T) {
	e := newTestEngine(&strings.Builder{}, &strings.Builder{})
	defer e.Close()

	require.NoError(t, biDirsepArgs(e, nil))

	c, err := e.in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, string(os.PathSeparator), string(c))
}
