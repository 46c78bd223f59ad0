// FILE: mylog/logger.go
package mylog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rdatools/mylog/formatter"
	"github.com/rdatools/mylog/sanitizer"
)

// Logger interprets action masks: it writes log and error files, echoes to
// the screen, composes and sends email and exits the process on ExitLog.
//
// A Logger and its State serve one logical run. Log and the email methods
// are not safe for concurrent use.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         *State
	mailer        Mailer
	customMailer  bool
	sanitizer     *sanitizer.Sanitizer
	stdout        io.Writer
	stderr        io.Writer
	exit          func(int)
	now           func() time.Time
	reported      map[string]bool // internal failure kinds already reported
}

// Option customizes a Logger
type Option func(*Logger)

// WithState shares an existing run context
func WithState(st *State) Option {
	return func(l *Logger) {
		if st != nil {
			l.state = st
		}
	}
}

// WithExitFunc replaces os.Exit for ExitLog
func WithExitFunc(exit func(int)) Option {
	return func(l *Logger) {
		if exit != nil {
			l.exit = exit
		}
	}
}

// WithMailer replaces the command mailer built from email_send
func WithMailer(m Mailer) Option {
	return func(l *Logger) {
		if m != nil {
			l.mailer = m
			l.customMailer = true
		}
	}
}

// WithOutput sets the writers used for screen echo
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Logger) {
		if stdout != nil {
			l.stdout = stdout
		}
		if stderr != nil {
			l.stderr = stderr
		}
	}
}

// WithClock replaces time.Now for banners and elapsed times
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates a new Logger instance with default settings
func NewLogger(opts ...Option) *Logger {
	l := &Logger{
		state:    NewState(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		exit:     os.Exit,
		now:      time.Now,
		reported: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(l)
	}

	cfg := DefaultConfig()
	cfg.resolve()
	l.install(cfg)

	return l
}

// ApplyConfig validates cfg and makes it current. The log directory is
// created if missing.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	cfg = cfg.Clone()
	cfg.resolve()

	if err := ensureLogDir(cfg); err != nil {
		return err
	}

	l.install(cfg)
	return nil
}

// install stores cfg and rebuilds the parts derived from it
func (l *Logger) install(cfg *Config) {
	old, _ := l.currentConfig.Load().(*Config)
	l.currentConfig.Store(cfg)

	if !l.customMailer {
		l.mailer = NewCommandMailer(cfg.EmailSend)
	}

	l.sanitizer = nil
	if cfg.Sanitization != string(sanitizer.PolicyRaw) {
		l.sanitizer = sanitizer.New().Policy(sanitizer.PolicyPreset(cfg.Sanitization))
	}

	if old == nil || old.CcAddr != cfg.CcAddr {
		l.state.Cc = ""
		l.AddCarbonCopy(cfg.CcAddr)
	}
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// State returns the run context shared by this logger
func (l *Logger) State() *State {
	return l.state
}

// getConfig returns the current configuration
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// Log records msg according to act and returns FAILURE, or the message
// when RetMsg is set. With ExitLog the process exits and Log does not
// return. Call-trace locations are file names followed by line numbers.
//
// A zero act means MsgLog.
func (l *Logger) Log(msg string, act Action, locs ...string) Result {
	cfg := l.getConfig()
	st := l.state

	if act == 0 {
		act = MsgLog
	}
	act &= Action(cfg.LogMask)
	if act.Any(RecordMsg) {
		act |= MsgLog
	}
	if cfg.NoQuit {
		act &^= ExitLog
	}
	if act.Has(EmailErrOnly) {
		act &^= EmailLog
		if !act.Has(ErrLog) {
			act &^= EmailErrOnly
		}
	}

	msg = strings.TrimLeft(msg, " \t\r\n\f\v")

	var retmsg string
	if act.Has(ExitLog) {
		msg = appendExit(msg)
	} else if act.Has(RetMsg) {
		retmsg = msg
		if retmsg != "" && !endsWithEOL(retmsg) {
			retmsg += "\n"
		}
	}

	if msg != "" && !endsWithEOL(msg) && !act.Has(SendEmail) {
		msg += "\n"
	}

	if act.Any(EmailAll) {
		if act.Has(SendEmail) || msg == "" {
			title := msg
			if title == "" {
				title = "Message from " + l.hostCommand()
			}
			msg = l.SendEmail(title, "", "", "", 0)
		} else {
			l.SetEmail(msg, act)
		}
	}
	if msg == "" {
		return Result{Status: Failure, Message: retmsg}
	}

	if act.Has(ExitLog) && st.HasPendingEmail() {
		if !act.Any(EmailAll) {
			l.SetEmail(msg, act)
		}
		title := "ABORTS " + l.hostCommand()
		top := title
		if st.PID != "" {
			top = "ABORTS " + st.PID
		}
		l.SetEmail(top, EmailTop)
		msg += l.SendEmail(title, "", "", "", 0)
	}

	msg += formatter.CallTrace(locs...)

	if act.Any(LogErr) {
		msg = formatter.BreakLongString(msg)

		var banner string
		if act.Any(ErrLog | ExitLog) {
			banner = l.banner(act, l.now())
			msg = banner + msg
		}

		if !act.Has(NotLog) {
			if act.Has(ErrLog) {
				if err := l.writeSink(cfg.ErrFilePath(), msg); err == nil && act.Has(ExitLog) {
					// Best effort: the main log records that the run aborted
					_ = l.writeSink(cfg.LogFilePath(), banner)
				}
			} else {
				_ = l.writeSink(cfg.LogFilePath(), msg)
			}
		}
	}

	if !cfg.Background && act.Any(ErrLog|WarnLog) {
		w := l.stdout
		if act.Any(ErrLog | ExitLog) {
			w = l.stderr
		}
		var sb strings.Builder
		if act.Has(BreakLine) {
			sb.WriteString("\n")
		}
		if act.Has(SepLine) {
			sb.WriteString(cfg.SepLine)
		}
		sb.WriteString(msg)
		fmt.Fprint(w, sb.String())
	}

	if act.Has(ExitLog) {
		l.exit(1)
	}
	return Result{Status: Failure, Message: retmsg}
}
