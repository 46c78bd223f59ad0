// FILE: mylog/format.go
package mylog

import (
	"strings"
	"time"

	"github.com/rdatools/mylog/formatter"
)

// Abbreviation limit for command lines quoted in banners
const bannerCommandLimit = 40

const exitSuffix = "; Exit 1"

// endsWithEOL reports whether s ends with a newline or carriage return
func endsWithEOL(s string) bool {
	return strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r")
}

// appendExit marks msg as the last words of an exiting process. A trailing
// line terminator is replaced by the suffix.
func appendExit(msg string) string {
	switch {
	case msg == "":
		return "Exit 1"
	case endsWithEOL(msg):
		return msg[:len(msg)-1] + exitSuffix
	default:
		return msg + exitSuffix
	}
}

// processID returns the process identifier for banners, defaulting to
// host-program-user.
func (l *Logger) processID() string {
	if l.state.PID == "" {
		cfg := l.getConfig()
		l.state.PID = cfg.Hostname + "-" + cfg.Program + "-" + cfg.User
	}
	return l.state.PID
}

// hostCommand returns "host-program"
func (l *Logger) hostCommand() string {
	cfg := l.getConfig()
	return cfg.Hostname + "-" + cfg.Program
}

// commandContext renders "CPID n <= abbreviated command"
func (l *Logger) commandContext(sep string) string {
	var sb strings.Builder
	if l.state.CommandID != "" {
		sb.WriteString(l.state.CommandID + sep)
	}
	sb.WriteString(formatter.Abbreviate(l.state.Command, bannerCommandLimit))
	return sb.String()
}

// banner renders the header prefixed to error and abort entries:
// "ABORTS pid within 1M5S CPID n <= command  at YYMMDDhhmmss\n"
func (l *Logger) banner(act Action, now time.Time) string {
	kind := "ERROR"
	if act.Has(ExitLog) {
		if act.Has(ErrLog) {
			kind = "ABORTS"
		} else {
			kind = "QUITS"
		}
	}

	head := formatter.ExecuteTime(kind+" "+l.processID(), l.state.Elapsed(now))
	if l.state.CommandID != "" {
		head += " " + l.state.CommandID + " <="
	}
	head += " " + formatter.Abbreviate(l.state.Command, bannerCommandLimit)
	return head + "  at " + formatter.DateTime(now) + "\n"
}
