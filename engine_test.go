package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// engineTestCases runs a list of engineTestCase under t.Run, stopping at
// the first case that fails. If any case carries an exclusiveTest mark,
// only the marked cases run (to pare a large table down to one case
// under investigation).
type engineTestCases []engineTestCase

func (ets engineTestCases) run(t *testing.T) {
	var exclusive []engineTestCase
	for _, et := range ets {
		if et.exclusive {
			exclusive = append(exclusive, et)
		}
	}
	if len(exclusive) > 0 {
		ets = exclusive
	}
	for _, et := range ets {
		if !t.Run(et.name, et.run) {
			return
		}
	}
}

func engineTest(name string) (et engineTestCase) {
	et.name = name
	return et
}

type engineTestCase struct {
	name    string
	opts    []EngineOption
	input   string
	timeout time.Duration
	wantErr error
	expect  []func(t *testing.T, out string)

	exclusive bool
}

func (et engineTestCase) exclusiveTest() engineTestCase {
	et.exclusive = true
	return et
}

func (et engineTestCase) withOptions(opts ...EngineOption) engineTestCase {
	et.opts = append(et.opts, opts...)
	return et
}

func (et engineTestCase) withInput(input string) engineTestCase {
	et.input = input
	return et
}

func (et engineTestCase) withTimeout(timeout time.Duration) engineTestCase {
	et.timeout = timeout
	return et
}

func (et engineTestCase) expectError(err error) engineTestCase {
	et.wantErr = err
	return et
}

func (et engineTestCase) expectOutput(output string) engineTestCase {
	et.expect = append(et.expect, func(t *testing.T, out string) {
		assert.Equal(t, output, out, "expected output")
	})
	return et
}

func (et engineTestCase) expectOutputContains(substr string) engineTestCase {
	et.expect = append(et.expect, func(t *testing.T, out string) {
		assert.Contains(t, out, substr, "expected output to contain substring")
	})
	return et
}

func (et engineTestCase) run(t *testing.T) {
	const defaultTimeout = time.Second
	timeout := et.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	var out strings.Builder
	opts := append([]EngineOption{
		WithOutput(&out),
		WithStdin(strings.NewReader(et.input)),
	}, et.opts...)
	e := New(opts...)
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := e.Run(ctx)
	if et.wantErr != nil {
		assert.True(t, errors.Is(err, et.wantErr) || errorContains(err, et.wantErr),
			"expected error: %v\ngot: %+v", et.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected run error")
	}

	if !t.Failed() {
		for _, expect := range et.expect {
			expect(t, out.String())
		}
	}
}

// errorContains supports expectError cases built from a bare message
// (via errors.New) rather than a sentinel, where errors.Is would never
// match.
func errorContains(err, want error) bool {
	return err != nil && want != nil && strings.Contains(err.Error(), want.Error())
}
