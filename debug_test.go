// FILE: mylog/debug_test.go
package mylog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDebugLevels(t *testing.T) {
	tests := []struct {
		input   string
		lo, hi  int
		wantErr bool
	}{
		{"3", 0, 3, false},
		{"2-5", 2, 5, false},
		{"5-2", 2, 5, false},
		{"4-", 4, maxDebugLevel, false},
		{"-7", 0, 7, false},
		{"-", 0, maxDebugLevel, false},
		{"abc", 0, 0, true},
		{"1-2-3", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lo, hi, err := parseDebugLevels(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDebugLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestDebug(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.Debug(0, "nothing")
		assert.Empty(t, tl.readFile(t, "mydss.dbg"))
	})

	t.Run("level range", func(t *testing.T) {
		tl := newTestLogger(t)
		require.NoError(t, tl.ApplyOverride("debug_level=1-2"))

		tl.Debug(0, "below")
		tl.Debug(1, "inside", "/src/a.go", "7")
		tl.Debug(3, "above")

		assert.Equal(t, "1:inside\nCalled:a.go(7)\n", tl.readFile(t, "mydss.dbg"))
	})

	t.Run("header", func(t *testing.T) {
		tl := newTestLogger(t)
		require.NoError(t, tl.ApplyOverride("debug_level=2"))
		tl.State().Command = "dsrqst -r 1"

		tl.Debug(1, "")
		assert.Equal(t, "0-2:DEBUG for host-prog-user dsrqst -r 1\n", tl.readFile(t, "mydss.dbg"))
		assert.Contains(t, tl.stdout.String(), "Append debug Info (levels 0-2)")
	})

	t.Run("dump", func(t *testing.T) {
		tl := newTestLogger(t)
		require.NoError(t, tl.ApplyOverride("debug_level=5"))

		tl.DebugDump(1, struct{ Dataset string }{Dataset: "ds083.2"})
		content := tl.readFile(t, "mydss.dbg")
		assert.Contains(t, content, "1:")
		assert.Contains(t, content, "Dataset")
		assert.Contains(t, content, "ds083.2")
	})

	t.Run("invalid level is fatal", func(t *testing.T) {
		tl := newTestLogger(t)
		cfg := tl.getConfig()
		cfg.DebugLevel = "x-y"

		assert.PanicsWithValue(t, exitCode(1), func() { tl.Debug(1, "m") })
		assert.Contains(t, tl.readFile(t, "mydss.err"), "x-y: Invalid Debug Levels")
	})
}

func TestRecord(t *testing.T) {
	tl := newTestLogger(t)

	tl.Record([]string{"a", "b", "c"})
	assert.Contains(t, tl.stdout.String(), "3 Element(s) displayed\n")

	tl.stdout.Reset()
	tl.Record(map[string]int{"x": 1})
	assert.Contains(t, tl.stdout.String(), "\"x\"")
	assert.Contains(t, tl.stdout.String(), "1 Element(s) displayed\n")
}

func TestUntaint(t *testing.T) {
	tl := newTestLogger(t)

	assert.Equal(t, "ds083.2", tl.Untaint("ds083.2"))
	assert.Equal(t, "", tl.Untaint(""))

	assert.PanicsWithValue(t, exitCode(1), func() { tl.Untaint("bad\x00input") })
	assert.Contains(t, tl.readFile(t, "mydss.err"), "cannot untaint")
}
