// FILE: mylog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/rdatools/mylog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter writes fasthttp server messages through an action-mask logger
type FastHTTPAdapter struct {
	sink           Sink
	defaultAction  mylog.Action
	actionDetector func(string) mylog.Action // Picks the action from message content
	debugLevel     int
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(sink Sink, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		sink:           sink,
		defaultAction:  mylog.MsgLog,
		actionDetector: DetectAction,
		debugLevel:     1,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultAction sets the action used when detection finds nothing
func WithDefaultAction(act mylog.Action) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultAction = act
	}
}

// WithActionDetector sets a custom function to pick the action from message content
func WithActionDetector(detector func(string) mylog.Action) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.actionDetector = detector
	}
}

// WithDebugLevel sets the debug level of debug-class messages
func WithDebugLevel(level int) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.debugLevel = level
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := "fasthttp: " + fmt.Sprintf(format, args...)

	act := a.defaultAction
	debug := false
	if a.actionDetector != nil {
		switch detected := a.actionDetector(msg); detected {
		case ActDebug:
			debug = true
		case mylog.MsgLog:
		default:
			act = detected
		}
	}

	if debug {
		a.sink.Debug(a.debugLevel, msg)
		return
	}
	a.sink.Log(msg, act)
}

// ActDebug is returned by an action detector for debug-class messages,
// which go to the debug sink instead of Log
const ActDebug mylog.Action = 0

// DetectAction picks an action from message content: LogErr for errors,
// LogWarn for warnings, ActDebug for debug output and MsgLog otherwise.
func DetectAction(msg string) mylog.Action {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return mylog.LogErr
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return mylog.LogWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return ActDebug
	}

	return mylog.MsgLog
}
