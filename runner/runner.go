// FILE: mylog/runner/runner.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"mvdan.cc/sh/v3/syntax"

	"github.com/rdatools/mylog"
	"github.com/rdatools/mylog/formatter"
	"github.com/rdatools/mylog/sanitizer"
)

// Logger is the part of *mylog.Logger a Runner reports through
type Logger interface {
	Log(msg string, act mylog.Action, locs ...string) mylog.Result
	CmdLog(cmdline string, at time.Time, act mylog.Action)
	Untaint(s string, ranges ...sanitizer.RuneRange) string
	State() *mylog.State
	GetConfig() *mylog.Config
}

var _ Logger = (*mylog.Logger)(nil)

// waitDelay bounds how long output pipes are drained once the child has
// exited or been killed
const waitDelay = 500 * time.Millisecond

// Result of a run
type Result struct {
	Status   mylog.Status
	Stdout   string        // Captured stdout, set with OptCapture
	Error    string        // Error report of the last attempt
	ExitCode int           // Exit status of the last attempt, -1 if killed or never started
	Attempts int           // Executions performed
	Elapsed  time.Duration // Wall time of all attempts
	TimedOut bool          // The context deadline ended the run
	Err      error         // Execution error: parse or start failure, or context end
}

// OK reports whether the run succeeded
func (r *Result) OK() bool {
	return r.Status == mylog.Success
}

// Runner runs shell command strings and funnels their failures through a
// Logger. A Runner shares the Logger's State and, like it, serves a single
// active command at a time.
type Runner struct {
	logger  Logger
	rules   Rules
	metrics *metrics

	slowPattern string
	slowRe      *regexp.Regexp

	commands map[string]mylog.Status // ValidCommand cache
	names    *sanitizer.Sanitizer    // strips what a bare command name cannot hold
}

// RunnerOption customizes a Runner
type RunnerOption func(*Runner)

// WithRules sets the output reclassification rules
func WithRules(rules Rules) RunnerOption {
	return func(r *Runner) {
		r.rules = rules
	}
}

// WithMetrics registers runner counters on reg
func WithMetrics(reg prometheus.Registerer) RunnerOption {
	return func(r *Runner) {
		if reg != nil {
			r.metrics = newMetrics(reg)
		}
	}
}

// New creates a Runner reporting through logger
func New(logger Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:   logger,
		commands: make(map[string]mylog.Status),
		names:    sanitizer.New().Policy(sanitizer.PolicyShell),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetRules replaces the reclassification rules
func (r *Runner) SetRules(rules Rules) {
	r.rules = rules
}

// Rules returns the reclassification rules in use
func (r *Runner) Rules() Rules {
	return r.rules
}

// Run executes cmd through the configured shell.
//
// The command line and output lines are logged with act reduced to a
// warning: ExitLog is dropped and ErrLog becomes WarnLog. A zero act means
// mylog.LogWarn. Error text is logged with ErrLog added, and with the full
// act once the last attempt has failed, so an exit action takes effect only
// when retries are exhausted.
//
// A failed attempt is retried once with OptRetry after retry_delay_ms. When
// ctx ends the run stops, "Error Execute: cmd" is reported with the
// context error like any other failure, and Result.Err holds ctx.Err().
func (r *Runner) Run(ctx context.Context, cmd string, act mylog.Action, opts Option, locs ...string) *Result {
	return r.run(ctx, cmd, act, opts, true, locs...)
}

// run is Run; reportEnd selects whether an ended context is reported here
// or left to the caller
func (r *Runner) run(ctx context.Context, cmd string, act mylog.Action, opts Option, reportEnd bool, locs ...string) *Result {
	if cmd == "" {
		return &Result{Status: mylog.Success}
	}
	if cmd = r.logger.Untaint(cmd); cmd == "" {
		return &Result{Status: mylog.Failure, ExitCode: -1, Err: sanitizer.ErrTainted}
	}

	cfg := r.logger.GetConfig()
	st := r.logger.State()
	logact, lact := reduceAction(act)

	var cmdlog mylog.Action
	if opts.Has(OptLogCmd) {
		cmdlog = lact
	}
	if cmdlog != 0 {
		if opts.Has(OptLogCmdTime) {
			r.logger.CmdLog("starts '"+cmd+"'", time.Time{}, cmdlog)
		} else {
			r.logger.Log("> "+cmd, cmdlog)
		}
	}

	if _, err := syntax.NewParser().Parse(strings.NewReader(cmd), ""); err != nil {
		r.logger.Log(fmt.Sprintf("parse '%s': %v", cmd, err), logact, locs...)
		return &Result{Status: mylog.Failure, ExitCode: -1, Err: err}
	}

	if opts.Has(OptCacheStderr) {
		st.LastSystemError = ""
	}
	attempts := 1
	if opts.Has(OptRetry) {
		attempts = 2
	}

	r.metrics.command()
	res := &Result{}
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if res.Status != mylog.Success {
			r.metrics.failure()
		}
	}()

	for n := 1; ; n++ {
		res.Attempts = n
		a := &attempt{
			logger: r.logger,
			rules:  r.rules,
			opts:   opts,
			state:  st,
		}
		if opts.Has(OptLogStdout) {
			a.stdlog = lact
		}
		if opts.Has(OptForceAbort) {
			a.abort = -1
		}

		began := time.Now()
		code, started, err := execute(ctx, cfg.Shell, cmd, a.handle)
		elapsed := time.Since(began)

		res.ExitCode = code
		if opts.Has(OptCapture) {
			res.Stdout = a.stdout.String()
		}

		if ctx.Err() != nil {
			if reportEnd {
				r.reportEnd(res, cmd, ctx.Err(), logact, opts, n, locs)
			}
			res.Status = mylog.Failure
			res.Err = ctx.Err()
			res.TimedOut = errors.Is(res.Err, context.DeadlineExceeded)
			return res
		}
		if !started {
			r.logger.Log(fmt.Sprintf("open '%s': %v", cmd, err), logact, locs...)
			res.Status = mylog.Failure
			res.Err = err
			return res
		}

		if code != 0 {
			a.failed = true
			if a.errText.Len() == 0 && a.keepErr() {
				if err != nil {
					a.errText.WriteString(err.Error() + "\n")
				} else {
					fmt.Fprintf(&a.errText, "exit status %d\n", code)
				}
			}
		}
		if !a.failed && a.abort == 1 {
			a.failed = true
		}

		res.Error = ""
		if a.errText.Len() > 0 {
			head := "Error From: "
			if a.failed {
				head = "Error Execute: "
			}
			msg := head + cmd + "\n" + a.errText.String()
			if n > 1 {
				msg = "Retry " + msg
			}
			res.Error = msg
			if opts.Has(OptCacheStderr) {
				st.LastSystemError = msg
			}
			if opts.Has(OptLogStderr) {
				errlog := lact | mylog.ErrLog
				if a.failed && n >= attempts {
					errlog |= logact
				}
				r.logger.Log(msg, errlog, locs...)
			}
		}

		if cmdlog != 0 && elapsed > time.Duration(cfg.SlowCommandS)*time.Second && !r.knownSlow(cfg, cmd) {
			msg := "> " + formatter.Abbreviate(cmd, 60) + " Ends"
			r.logger.Log(formatter.ExecuteTime(msg, elapsed), cmdlog)
		}

		if a.failed {
			res.Status = mylog.Failure
		} else {
			res.Status = mylog.Success
		}
		if !a.failed || n >= attempts {
			return res
		}

		r.metrics.retry()
		if err := sleepOrCancel(ctx, time.Duration(cfg.RetryDelayMs)*time.Millisecond); err != nil {
			if reportEnd {
				r.reportEnd(res, cmd, err, logact, opts, n, locs)
			}
			res.Err = err
			res.TimedOut = errors.Is(err, context.DeadlineExceeded)
			return res
		}
	}
}

// reportEnd surfaces the end of ctx as the run's error text
func (r *Runner) reportEnd(res *Result, cmd string, err error, logact mylog.Action, opts Option, n int, locs []string) {
	msg := "Error Execute: " + cmd + "\n" + err.Error()
	if n > 1 {
		msg = "Retry " + msg
	}
	res.Error = msg
	if opts.Has(OptCacheStderr) {
		r.logger.State().LastSystemError = msg
	}
	if opts.Has(OptLogStderr) {
		r.logger.Log(msg, logact|mylog.ErrLog, locs...)
	}
}

// ValidCommand reports whether name resolves to an executable. The
// lookup runs "which name" once per name; error text is only cached. A
// name holding shell metacharacters or whitespace is rejected unrun.
func (r *Runner) ValidCommand(ctx context.Context, name string, act mylog.Action, locs ...string) mylog.Status {
	if status, ok := r.commands[name]; ok {
		return status
	}
	if name == "" || r.names.Sanitize(name) != name {
		logact, _ := reduceAction(act)
		r.logger.Log(fmt.Sprintf("'%s': invalid command name", name), logact|mylog.ErrLog, locs...)
		r.commands[name] = mylog.Failure
		return mylog.Failure
	}
	res := r.Run(ctx, "which "+name, act, OptCacheStderr, locs...)
	if res.Err == nil {
		r.commands[name] = res.Status
	}
	return res.Status
}

// reduceAction returns the caller's action, defaulted, and the reduced
// action used for command and output lines
func reduceAction(act mylog.Action) (logact, lact mylog.Action) {
	if act == 0 {
		logact, lact = mylog.LogWarn, mylog.LogWarn
	} else {
		logact = act
		lact = act.Without(mylog.ExitLog)
		if lact.Has(mylog.ErrLog) {
			lact = lact.Without(mylog.ErrLog).With(mylog.WarnLog)
		}
	}
	if lact.Has(mylog.MsgLog) {
		lact |= mylog.ForceLog
	}
	return logact, lact
}

// knownSlow reports whether cmd runs one of the tools expected to be slow
func (r *Runner) knownSlow(cfg *mylog.Config, cmd string) bool {
	pattern := cfg.SlowCommandPattern()
	if pattern == "" {
		return false
	}
	if pattern != r.slowPattern {
		r.slowPattern = pattern
		r.slowRe = regexp.MustCompile(pattern)
	}
	return r.slowRe.MatchString(cmd)
}

// attempt classifies the output of one execution
type attempt struct {
	logger Logger
	rules  Rules
	opts   Option
	state  *mylog.State
	stdlog mylog.Action

	failed  bool
	abort   int // -1 armed by OptForceAbort, 1 once an "ABORTS " error line was seen
	errText strings.Builder
	stdout  strings.Builder
}

// keepErr reports whether error text is collected at all
func (a *attempt) keepErr() bool {
	return a.opts.Has(OptLogStderr) || a.opts.Has(OptCacheStderr)
}

// handle classifies one line. A stdout line is tested against StdToErr
// only and a stderr line against ErrToStd only. Blank lines count as
// stdout. A later non-blank stdout line clears an earlier failure.
func (a *attempt) handle(l outputLine) {
	line := stripOutputLine(l.text)
	stdout := l.stdout || line == "\n"

	switch {
	case stdout && a.rules.stdToErr(line):
		a.fail(line)
	case stdout:
		if a.failed && formatter.Trim(line, formatter.StripComments) != "" {
			a.failed = false
		}
		if len(line) > 1 && line[0] == '>' && unicode.IsSpace(rune(line[1])) {
			line = ">" + line
		}
		a.output(line)
	case a.rules.errToStd(line):
		a.output(line)
	case a.opts.Has(OptErrAsStdout):
		a.output(line)
		if a.opts.Has(OptCacheStderr) {
			a.state.LastSystemError += line
		}
	default:
		a.fail(line)
	}
}

func (a *attempt) fail(line string) {
	a.failed = true
	if a.keepErr() {
		a.errText.WriteString(line)
	}
	if a.abort == -1 && strings.HasPrefix(line, "ABORTS ") {
		a.abort = 1
	}
}

func (a *attempt) output(line string) {
	if a.stdlog != 0 {
		a.logger.Log(line, a.stdlog)
	}
	if a.opts.Has(OptCapture) {
		a.stdout.WriteString(line)
	}
}

// execute runs cmd with shell -c, delivering its output lines to handle
// in arrival order on one merged pipe. It returns the exit code (-1 when
// killed or never started), whether the process started, and any error
// besides a plain non-zero exit.
func execute(ctx context.Context, shell, cmd string, handle func(outputLine)) (int, bool, error) {
	out, err := newMergedOutput()
	if err != nil {
		return -1, false, err
	}

	c := exec.CommandContext(ctx, shell, "-c", cmd)
	setProcessGroup(c)
	c.WaitDelay = waitDelay
	out.attach(c)

	if err := c.Start(); err != nil {
		out.close()
		return -1, false, err
	}
	out.started()

	drained := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		err := c.Wait()
		if ctx.Err() != nil {
			// Descendants outside the killed group may still hold the pipes
			t := time.NewTimer(waitDelay)
			select {
			case <-drained:
			case <-t.C:
				out.abandon()
			}
			t.Stop()
		}
		done <- err
	}()

	out.read(handle)
	close(drained)

	err = <-done
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, true, nil
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			return code, true, nil
		}
		return -1, true, err
	case errors.Is(err, exec.ErrWaitDelay) && c.ProcessState != nil:
		return c.ProcessState.ExitCode(), true, nil
	default:
		return -1, true, err
	}
}

// sleepOrCancel waits for d or until ctx ends
func sleepOrCancel(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
