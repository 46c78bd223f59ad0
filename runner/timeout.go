// FILE: mylog/runner/timeout.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rdatools/mylog"
)

// RunWithTimeout runs cmd like Run under a deadline of timeoutS seconds,
// timeout_s when timeoutS is not positive. At the deadline the child's
// process group is killed and "Timeout(N) Execute: cmd" is reported as an
// error with act; a timed-out command is never retried. Any other end of
// the run's context is reported as "Timeout(N) Error: cmd" with the error.
//
// Zero opts report through OptLogStderr. With OptErrAsStdout the report
// becomes the output instead, logged with OptLogStdout and captured with
// OptCapture; with OptCacheStderr it is appended to the cached error text.
func (r *Runner) RunWithTimeout(ctx context.Context, cmd string, timeoutS int, act mylog.Action, opts Option, locs ...string) *Result {
	if timeoutS <= 0 {
		timeoutS = int(r.logger.GetConfig().TimeoutS)
	}

	tctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutS)*time.Second)
	defer cancel()

	res := r.run(tctx, cmd, act, opts, false, locs...)
	if res.Err == nil || !isContextErr(res.Err) {
		return res
	}

	var report string
	if errors.Is(res.Err, context.DeadlineExceeded) && ctx.Err() == nil {
		report = fmt.Sprintf("Timeout(%d) Execute: %s", timeoutS, cmd)
		res.TimedOut = true
		res.Err = errors.Join(mylog.ErrTimeout, res.Err)
		r.metrics.timeout()
	} else {
		report = fmt.Sprintf("Timeout(%d) Error: %s\n%v", timeoutS, cmd, res.Err)
		res.TimedOut = false
	}
	res.Status = mylog.Failure
	res.Error = report

	if opts == 0 {
		opts = OptLogStderr
	}

	var stdout string
	switch {
	case opts.Has(OptErrAsStdout):
		stdout, report = report, ""
	case opts.Has(OptCacheStderr):
		st := r.logger.State()
		st.LastSystemError += report
	}

	switch {
	case report != "" && opts.Has(OptLogStderr):
		la := mylog.LogErr
		if act != 0 {
			la = act | mylog.ErrLog
		}
		r.logger.Log(report, la, locs...)
	case stdout != "" && opts.Has(OptLogStdout):
		la := mylog.LogWarn
		if act != 0 {
			la = act | mylog.WarnLog
		}
		r.logger.Log(stdout, la, locs...)
	}

	if opts.Has(OptCapture) {
		res.Stdout = stdout
	}
	return res
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
