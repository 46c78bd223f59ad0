// FILE: mylog/formatter/formatter_test.go
package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		assert.Equal(t, "hello world", NewBreaker().Limit(40).Apply("hello world"))
	})

	t.Run("soft cut after space", func(t *testing.T) {
		s := strings.Repeat("a", 25) + " " + strings.Repeat("b", 30)
		got := NewBreaker().Limit(40).Apply(s)
		assert.Equal(t, strings.Repeat("a", 25)+" \n"+strings.Repeat("b", 30), got)
	})

	t.Run("hard cut without break chars", func(t *testing.T) {
		s := strings.Repeat("x", 100)
		got := NewBreaker().Limit(40).Apply(s)
		lines := strings.Split(got, "\n")
		assert.Len(t, lines, 3)
		assert.Len(t, lines[0], 40)
		assert.Len(t, lines[1], 40)
		assert.Len(t, lines[2], 20)
	})

	t.Run("existing breaks kept", func(t *testing.T) {
		s := "line one\n" + strings.Repeat("z", 30)
		got := NewBreaker().Limit(20).Apply(s)
		assert.True(t, strings.HasPrefix(got, "line one\n"))
		assert.NotContains(t, got, "\n\n")
	})

	t.Run("max lines", func(t *testing.T) {
		s := strings.Repeat("word ", 40)
		got := NewBreaker().Limit(30).MaxLines(2).Apply(s)
		assert.Equal(t, 2, strings.Count(got, "\n"))
	})
}

func TestAbbreviate(t *testing.T) {
	cmd := "rsync -av /data/one/source/directory /data/two/target/directory"
	got := Abbreviate(cmd, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 43)
	assert.True(t, strings.HasPrefix(cmd, strings.TrimSuffix(got, "...")))

	assert.Equal(t, "ls -l", Abbreviate("ls -l", 40))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		showZero bool
		want     string
	}{
		{0, false, ""},
		{0, true, "0S"},
		{59 * time.Second, false, "59S"},
		{60 * time.Second, false, "1M"},
		{65 * time.Second, false, "1M5S"},
		{time.Hour + 2*time.Second, false, "1H2S"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, false, "1D2H3M4S"},
		{48 * time.Hour, false, "2D"},
		{1500 * time.Millisecond, false, "1S"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in, tt.showZero))
		})
	}
}

func TestExecuteTime(t *testing.T) {
	assert.Equal(t, "ERROR pid", ExecuteTime("ERROR pid", 59*time.Second))
	assert.Equal(t, "ERROR pid within 1M5S", ExecuteTime("ERROR pid", 65*time.Second))
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 1, 0, time.Local)
	assert.Equal(t, "240307090501", DateTime(ts))
}

func TestCallTrace(t *testing.T) {
	assert.Equal(t, "", CallTrace())
	assert.Equal(t, "", CallTrace("", ""))
	assert.Equal(t, "Called:a.go(12)\n", CallTrace("/src/a.go", "12"))
	assert.Equal(t, "Called:a.go(12)->b.go(30)\n", CallTrace("/src/a.go", "12", "/lib/b.go", "30"))
	// repeated file collapsed
	assert.Equal(t, "Called:a.go(1)(2)\n", CallTrace("a.go", "1", "a.go", "2"))
}

func TestTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode int
		want string
	}{
		{"whitespace only", "  value \n", KeepComments, "value"},
		{"keep comments", "value # note", KeepComments, "value # note"},
		{"comment line", "# full comment", StripComments, ""},
		{"trailing comment", "value # note", StripComments, "value"},
		{"spaced keeps single", "value # note", StripSpaced, "value # note"},
		{"spaced strips double", "value  # note", StripSpaced, "value"},
		{"blank", " \t\n", StripComments, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trim(tt.in, tt.mode))
		})
	}
}
