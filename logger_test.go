// FILE: mylog/logger_test.go
package mylog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exitCode is the panic value of the test exit hook
type exitCode int

type testLogger struct {
	*Logger
	dir    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	mails  *[]string
}

// newTestLogger creates a logger writing into a temp directory, capturing
// screen output and mail, with an exit hook that panics with exitCode
func newTestLogger(t *testing.T, opts ...Option) *testLogger {
	t.Helper()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	mails := []string{}

	base := []Option{
		WithOutput(&stdout, &stderr),
		WithExitFunc(func(code int) { panic(exitCode(code)) }),
		WithMailer(MailerFunc(func(ctx context.Context, msg string) error {
			mails = append(mails, msg)
			return nil
		})),
	}
	logger := NewLogger(append(base, opts...)...)

	cfg := DefaultConfig()
	cfg.LogPath = dir
	cfg.Hostname = "host"
	cfg.User = "user"
	cfg.Program = "prog"
	require.NoError(t, logger.ApplyConfig(cfg))

	return &testLogger{Logger: logger, dir: dir, stdout: &stdout, stderr: &stderr, mails: &mails}
}

// readFile returns the content of name in the log directory, "" if missing
func (tl *testLogger) readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(tl.dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.State())
	assert.NotNil(t, logger.mailer)
	cfg := logger.GetConfig()
	assert.Equal(t, "mydss.log", cfg.LogFile)
	assert.NotEmpty(t, cfg.Program)
}

func TestApplyConfig(t *testing.T) {
	t.Run("creates log directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "logs")
		cfg := DefaultConfig()
		cfg.LogPath = dir

		logger := NewLogger()
		require.NoError(t, logger.ApplyConfig(cfg))
		assert.DirExists(t, dir)
	})

	t.Run("nil config", func(t *testing.T) {
		assert.Error(t, NewLogger().ApplyConfig(nil))
	})

	t.Run("invalid config keeps current", func(t *testing.T) {
		tl := newTestLogger(t)
		cfg := tl.GetConfig()
		cfg.TimeoutS = 0
		assert.Error(t, tl.ApplyConfig(cfg))
		assert.Equal(t, tl.dir, tl.GetConfig().LogPath)
	})
}

func TestLogMessage(t *testing.T) {
	tl := newTestLogger(t)

	res := tl.Log("  hello", MsgLog)
	assert.Equal(t, Result{Status: Failure}, res)
	assert.Equal(t, "hello\n", tl.readFile(t, "mydss.log"))
	assert.Empty(t, tl.stdout.String())
	assert.Empty(t, tl.stderr.String())
}

func TestLogDefaultAction(t *testing.T) {
	tl := newTestLogger(t)

	tl.Log("plain", 0)
	assert.Equal(t, "plain\n", tl.readFile(t, "mydss.log"))
}

func TestLogWarnEcho(t *testing.T) {
	tl := newTestLogger(t)

	tl.Log("careful\n", LogWarn)
	assert.Equal(t, "careful\n", tl.readFile(t, "mydss.log"))
	assert.Equal(t, "careful\n", tl.stdout.String())

	t.Run("separator and break", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.Log("x", WarnLog|SepLine|BreakLine)
		assert.Equal(t, "\n"+tl.GetConfig().SepLine+"x\n", tl.stdout.String())
		assert.Empty(t, tl.readFile(t, "mydss.log"))
	})

	t.Run("background", func(t *testing.T) {
		tl := newTestLogger(t)
		require.NoError(t, tl.ApplyOverride("background=true"))
		tl.Log("quiet", LogWarn)
		assert.Empty(t, tl.stdout.String())
		assert.Equal(t, "quiet\n", tl.readFile(t, "mydss.log"))
	})
}

func TestLogRetMsg(t *testing.T) {
	tl := newTestLogger(t)

	res := tl.Log("done", MsgLog|RetMsg)
	assert.Equal(t, Failure, res.Status)
	assert.Equal(t, "done\n", res.Message)

	res = tl.Log("kept\n", LogWarn|RetMsg)
	assert.Equal(t, "kept\n", res.Message)

	res = tl.Log("plain", MsgLog)
	assert.Empty(t, res.Message)
}

func TestLogExitNeverReturns(t *testing.T) {
	masks := []Action{LogExit, WarnExit, LogWarnExit, LogErrExit, LogWarnEmailExit, ExitLog | RetMsg}

	for _, act := range masks {
		t.Run(act.String(), func(t *testing.T) {
			tl := newTestLogger(t)
			returned := false
			assert.PanicsWithValue(t, exitCode(1), func() {
				tl.Log("bye", act)
				returned = true
			})
			assert.False(t, returned)
		})
	}

	t.Run("quit banner", func(t *testing.T) {
		tl := newTestLogger(t)
		assert.PanicsWithValue(t, exitCode(1), func() { tl.Log("bye\n", LogExit) })

		content := tl.readFile(t, "mydss.log")
		assert.True(t, strings.HasPrefix(content, "QUITS host-prog-user"), content)
		assert.Contains(t, content, "bye; Exit 1\n")
	})

	t.Run("empty message", func(t *testing.T) {
		tl := newTestLogger(t)
		assert.PanicsWithValue(t, exitCode(1), func() { tl.Log("", WarnExit) })
		assert.Equal(t, "Exit 1\n", tl.stderr.String())
	})
}

func TestLogWithoutExitReturns(t *testing.T) {
	masks := []Action{MsgLog, LogWarn, LogErr, LogWarnEmail, LogErrEmail, MsgLog | NotLog}

	for _, act := range masks {
		t.Run(act.String(), func(t *testing.T) {
			tl := newTestLogger(t)
			assert.NotPanics(t, func() {
				assert.Equal(t, Failure, tl.Log("msg", act).Status)
			})
		})
	}
}

func TestLogNoQuit(t *testing.T) {
	tl := newTestLogger(t)
	require.NoError(t, tl.ApplyOverride("no_quit=true"))

	assert.NotPanics(t, func() { tl.Log("daemon", LogExit) })
	content := tl.readFile(t, "mydss.log")
	assert.Equal(t, "daemon\n", content)
	assert.NotContains(t, content, "Exit 1")
}

func TestLogMask(t *testing.T) {
	tl := newTestLogger(t)
	require.NoError(t, tl.ApplyOverride("log_mask=MSGLOG"))

	tl.Log("masked", LogWarn)
	assert.Empty(t, tl.stdout.String())
	assert.Equal(t, "masked\n", tl.readFile(t, "mydss.log"))

	// ExitLog masked out
	assert.NotPanics(t, func() { tl.Log("stay", LogExit) })
}

func TestLogErrorFile(t *testing.T) {
	tl := newTestLogger(t)

	tl.Log("oops", LogErr)

	content := tl.readFile(t, "mydss.err")
	assert.True(t, strings.HasPrefix(content, "ERROR host-prog-user"), content)
	assert.Contains(t, content, "  at ")
	assert.True(t, strings.HasSuffix(content, "oops\n"))
	assert.Empty(t, tl.readFile(t, "mydss.log"))
	assert.Equal(t, content, tl.stderr.String())

	t.Run("explicit error file", func(t *testing.T) {
		tl := newTestLogger(t)
		require.NoError(t, tl.ApplyOverride("err_file=errors.txt"))
		tl.Log("oops", ErrLog)
		assert.Contains(t, tl.readFile(t, "errors.txt"), "oops\n")
	})
}

func TestLogAbortMirrorsBanner(t *testing.T) {
	tl := newTestLogger(t)
	tl.State().Command = "dsarch -DS ds083.2 -GN ALL"
	tl.State().CommandID = "CPID 77"

	assert.PanicsWithValue(t, exitCode(1), func() { tl.Log("cannot archive", LogErrExit) })

	errContent := tl.readFile(t, "mydss.err")
	logContent := tl.readFile(t, "mydss.log")

	banner, body, found := strings.Cut(errContent, "\n")
	require.True(t, found)
	assert.True(t, strings.HasPrefix(banner, "ABORTS host-prog-user CPID 77 <= dsarch -DS ds083.2 -GN ALL  at "), banner)
	assert.Equal(t, "cannot archive; Exit 1\n", body)
	assert.Equal(t, banner+"\n", logContent)
}

func TestLogNotLog(t *testing.T) {
	tl := newTestLogger(t)

	tl.Log("screen only", LogErr|NotLog)
	assert.Empty(t, tl.readFile(t, "mydss.err"))
	assert.Empty(t, tl.readFile(t, "mydss.log"))
	assert.Contains(t, tl.stderr.String(), "screen only\n")
}

func TestLogCallTrace(t *testing.T) {
	tl := newTestLogger(t)

	tl.Log("traced", MsgLog, "/src/archive.go", "12", "/src/lib.go", "30")
	assert.Equal(t, "traced\nCalled:archive.go(12)->lib.go(30)\n", tl.readFile(t, "mydss.log"))

	tl.Log("here", MsgLog, Here()...)
	assert.Contains(t, tl.readFile(t, "mydss.log"), "Called:logger_test.go(")
}

func TestLogSinkFailure(t *testing.T) {
	tl := newTestLogger(t)
	// A directory where the log file should be makes every open fail
	require.NoError(t, os.Mkdir(filepath.Join(tl.dir, "mydss.log"), 0755))

	assert.NotPanics(t, func() {
		assert.Equal(t, Failure, tl.Log("first", MsgLog).Status)
		assert.Equal(t, Failure, tl.Log("second", MsgLog).Status)
	})
	assert.Equal(t, 1, strings.Count(tl.stderr.String(), "mylog: failed to open"))
}

func TestLogAbortSendsEmail(t *testing.T) {
	tl := newTestLogger(t)
	tl.SetEmail("pending detail\n", EmailLog)

	assert.PanicsWithValue(t, exitCode(1), func() { tl.Log("oops", LogErrExit) })

	require.Len(t, *tl.mails, 1)
	mail := (*tl.mails)[0]
	assert.Contains(t, mail, "Subject: ABORTS host-prog!\n")
	assert.Contains(t, mail, "ABORTS host-prog with 1 Error:\n1. oops; Exit 1\n")
	assert.Contains(t, mail, "pending detail\n")
	assert.Empty(t, tl.Email())
	assert.Zero(t, tl.State().ErrorCount)

	assert.Contains(t, tl.readFile(t, "mydss.err"), "Subject: ABORTS host-prog!")
	assert.Contains(t, tl.readFile(t, "myemail.log"), "Subject: ABORTS host-prog!")
}

func TestLogExitWithoutPendingEmail(t *testing.T) {
	tl := newTestLogger(t)

	assert.PanicsWithValue(t, exitCode(1), func() { tl.Log("oops", LogErrExit) })
	assert.Empty(t, *tl.mails)
}

func TestLogEmailActions(t *testing.T) {
	t.Run("detail accumulates", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.Log("one", LogWarnEmail)
		tl.Log("two", LogWarnEmail)
		assert.Equal(t, "one\ntwo\n", tl.Email())
		assert.Equal(t, "one\ntwo\n", tl.readFile(t, "mydss.log"))
	})

	t.Run("send now", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.SetEmail("detail\n", EmailLog)

		tl.Log("Report", SendEmail)
		require.Len(t, *tl.mails, 1)
		assert.Contains(t, (*tl.mails)[0], "Subject: Report!\n\ndetail\n")
		assert.Empty(t, tl.Email())
	})

	t.Run("error only", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.Log("bad", LogErrEmail|EmailErrOnly)
		assert.Empty(t, tl.Email())
		assert.Equal(t, "1. bad\n", tl.State().ErrorBuffer)

		tl.Log("fine", LogWarnEmail|EmailErrOnly)
		assert.Empty(t, tl.Email())
	})

	t.Run("summary", func(t *testing.T) {
		tl := newTestLogger(t)
		tl.Log("3 files archived", MsgLog|EmailSummary)
		assert.Equal(t, "3 files archived\n", tl.State().Summary)
	})
}
