// FILE: mylog/cmd/mylog/main_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdatools/mylog"
)

type exitCode int

// cliFixture runs the root command against buffers and a temp log directory
type cliFixture struct {
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	return &cliFixture{dir: t.TempDir()}
}

func (f *cliFixture) execute(args ...string) error {
	env := &cliEnv{
		stdout: &f.stdout,
		stderr: &f.stderr,
		exit:   func(code int) { panic(exitCode(code)) },
	}
	root := newRootCommand(env)
	root.SetArgs(append([]string{"--set", "log_path=" + f.dir}, args...))
	return root.Execute()
}

func (f *cliFixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestRunCommand(t *testing.T) {
	t.Run("capture", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("run", "--opts", "Capture", "--", "echo", "hello"))
		assert.Equal(t, "hello\n", f.stdout.String())
		assert.Empty(t, f.read(t, "mydss.log"))
	})

	t.Run("logs command line", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("run", "--background", "--", "true"))
		assert.Equal(t, "> true\n", f.read(t, "mydss.log"))
	})

	t.Run("failure exits 1", func(t *testing.T) {
		f := newCLIFixture(t)
		err := f.execute("run", "--background", "--", "false")

		var ee *exitError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, 1, ee.code)
		assert.Contains(t, f.read(t, "mydss.err"), "exit status 1")
	})

	t.Run("timeout", func(t *testing.T) {
		f := newCLIFixture(t)
		err := f.execute("run", "--background", "--timeout", "1", "--", "sleep", "5")
		require.Error(t, err)
		assert.Contains(t, f.read(t, "mydss.err"), "Timeout(1) Execute: sleep 5")
	})

	t.Run("reclassified stderr", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("run", "--background", "--opts", "Capture",
			"--err2std", "^note", "--", "echo note >&2"))
		assert.Equal(t, "note\n", f.stdout.String())
	})

	t.Run("metrics", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("run", "--background", "--metrics", "--", "true"))
		assert.Contains(t, f.stderr.String(), "mylog_runner_commands_total 1")
	})

	t.Run("bad flags", func(t *testing.T) {
		f := newCLIFixture(t)
		assert.ErrorContains(t, f.execute("run", "--opts", "Bogus", "--", "true"), "invalid runner option")
		assert.ErrorContains(t, f.execute("run", "--act", "nope", "--", "true"), "invalid action")
		assert.Error(t, f.execute("run", "--std2err", "(", "--", "true"))
	})
}

func TestLogCommand(t *testing.T) {
	t.Run("warning", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("log", "--act", "LOGWRN", "archive", "starts"))
		assert.Equal(t, "archive starts\n", f.read(t, "mydss.log"))
		assert.Equal(t, "archive starts\n", f.stdout.String())
	})

	t.Run("return message", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("log", "--act", "MsgLog|RetMsg", "kept"))
		assert.Equal(t, "kept\n", f.stdout.String())
	})

	t.Run("abort", func(t *testing.T) {
		f := newCLIFixture(t)
		assert.PanicsWithValue(t, exitCode(1), func() {
			_ = f.execute("log", "--background", "--act", "LGEREX", "cannot", "open")
		})
		assert.Contains(t, f.read(t, "mydss.err"), "cannot open; Exit 1\n")
	})

	t.Run("debug", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("--set", "debug_level=3", "log", "--debug", "2", "parsed"))
		assert.Equal(t, "2:parsed\n", f.read(t, "mydss.dbg"))
	})
}

func TestConfigCommand(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		f := newCLIFixture(t)
		require.NoError(t, f.execute("--set", "timeout_s=42", "config"))
		assert.Contains(t, f.stdout.String(), "[mylog]")
		assert.Contains(t, f.stdout.String(), "timeout_s = 42")
	})

	t.Run("file round trip", func(t *testing.T) {
		f := newCLIFixture(t)
		path := filepath.Join(f.dir, "mylog.toml")
		require.NoError(t, f.execute("--set", "email_addr=ops@example.org", "config", "--file", path))

		cfg, err := mylog.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.org", cfg.EmailAddr)
		assert.Equal(t, f.dir, cfg.LogPath)

		g := newCLIFixture(t)
		require.NoError(t, g.execute("--config", path, "config"))
		assert.Contains(t, g.stdout.String(), "ops@example.org")
	})

	t.Run("invalid override", func(t *testing.T) {
		f := newCLIFixture(t)
		assert.Error(t, f.execute("--set", "timeout_s=0", "config"))
	})
}

func TestEmailCommand(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		f := newCLIFixture(t)
		out := filepath.Join(f.dir, "mail.txt")
		require.NoError(t, f.execute("--set", "email_send=tee "+out, "--set", "user=ops",
			"email", "--to", "dss", "--subject", "Archive", "all", "done"))

		mail, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(mail), "To: dss@localhost\n")
		assert.Contains(t, string(mail), "Subject: Archive!\n\nall done\n")
		assert.Contains(t, f.stdout.String(), "Email dss@localhost")
		assert.Contains(t, f.read(t, "myemail.log"), "all done")
	})

	t.Run("mailer fails", func(t *testing.T) {
		f := newCLIFixture(t)
		err := f.execute("--background", "--set", "email_send=false", "email", "text")

		var ee *exitError
		require.ErrorAs(t, err, &ee)
		assert.Contains(t, f.read(t, "mydss.err"), "Error Send Email 'false'")
	})
}
