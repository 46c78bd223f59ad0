// FILE: mylog/interface.go
package mylog

import (
	"fmt"
)

// Logger shorthands for the common presets.

// Message writes msg to the main log file.
func (l *Logger) Message(msg string, locs ...string) Result {
	return l.Log(msg, MsgLog, locs...)
}

// Warn writes msg to the main log file and echoes it to stdout.
func (l *Logger) Warn(msg string, locs ...string) Result {
	return l.Log(msg, LogWarn, locs...)
}

// Error writes msg with a banner to the error file and echoes it to stderr.
func (l *Logger) Error(msg string, locs ...string) Result {
	return l.Log(msg, LogErr, locs...)
}

// Quit logs msg like Warn and exits.
func (l *Logger) Quit(msg string, locs ...string) {
	l.Log(msg, LogWarnExit, locs...)
}

// Fatal logs msg like Error and exits.
func (l *Logger) Fatal(msg string, locs ...string) {
	l.Log(msg, LogErrExit, locs...)
}

// Logf formats a message and logs it with act.
func (l *Logger) Logf(act Action, format string, args ...any) Result {
	return l.Log(fmt.Sprintf(format, args...), act)
}
