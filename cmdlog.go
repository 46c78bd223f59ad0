// FILE: mylog/cmdlog.go
package mylog

import (
	"regexp"
	"strings"
	"time"

	"github.com/rdatools/mylog/formatter"
)

// DefaultCmdLog is the action commonly used for command context lines
const DefaultCmdLog = MsgLog | ForceLog

var (
	cmdEndRe  = regexp.MustCompile(`(?i)^(end|quit|exit|abort)`)
	cmdIDRe   = regexp.MustCompile(`^CPID \d+`)
	cmdStepRe = regexp.MustCompile(`^(starts|catches) `)
)

// CmdLog maintains the current command context and logs it with act
// (nothing is logged when act is zero). A zero at means now.
//
//   - "" or a line starting with end/quit/exit/abort logs how long the
//     current command ran: "<pid> Ends within 1M5S: CPID n <= command"
//   - "CPID n ..." sets the command identifier
//   - "starts ..." or "catches ..." annotates the running command
//   - any other line starts a new command
func (l *Logger) CmdLog(cmdline string, at time.Time, act Action) {
	cfg := l.getConfig()
	st := l.state
	if at.IsZero() {
		at = l.now()
	}

	if cmdline == "" || cmdEndRe.MatchString(cmdline) {
		word := "Ends"
		if cmdline != "" {
			word = strings.ToUpper(cmdline[:1]) + cmdline[1:]
		}
		info := formatter.ExecuteTime(l.processID()+" "+word, st.Elapsed(at)) + ": "
		info += l.commandContext(" <= ")
		if act != 0 {
			l.Log(info, act)
		}
		return
	}

	stamp := formatter.DateTime(at)
	switch {
	case cmdIDRe.MatchString(cmdline):
		st.PID = cfg.Hostname + "-" + cfg.User + stamp
		if act != 0 {
			l.Log(st.PID+": "+cmdline, act)
		}
		st.CommandID = cmdline
	case st.PID != "" && cmdStepRe.MatchString(cmdline):
		if act != 0 {
			l.Log(st.PID+": "+cmdline+" at "+stamp, act)
		}
	default:
		st.PID = cfg.Hostname + "-" + cfg.User + stamp
		if act != 0 {
			l.Log(st.PID+": "+cmdline, act)
		}
		st.Command = cmdline
	}
	st.StartTime = at
}
