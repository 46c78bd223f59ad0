// FILE: mylog/compat/gnet.go
package compat

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/rdatools/mylog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter writes gnet engine messages through an action-mask logger
type GnetAdapter struct {
	sink         Sink
	debugLevel   int
	fatalHandler func(msg string) // Replaces the logger's exit on Fatalf
}

// NewGnetAdapter creates a new gnet-compatible logger adapter. Without a
// fatal handler Fatalf logs with LogErrExit and the logger ends the process.
func NewGnetAdapter(sink Sink, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		sink:       sink,
		debugLevel: 1,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetDebugLevel sets the debug level of Debugf messages
func WithGnetDebugLevel(level int) GnetOption {
	return func(a *GnetAdapter) {
		a.debugLevel = level
	}
}

// Debugf writes to the debug sink
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.sink.Debug(a.debugLevel, "gnet: "+fmt.Sprintf(format, args...))
}

// Infof writes to the main log
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.sink.Log("gnet: "+fmt.Sprintf(format, args...), mylog.MsgLog)
}

// Warnf writes to the main log and echoes the message
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.sink.Log("gnet: "+fmt.Sprintf(format, args...), mylog.LogWarn)
}

// Errorf writes an error entry
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.sink.Log("gnet: "+fmt.Sprintf(format, args...), mylog.LogErr)
}

// Fatalf writes an abort entry and ends the process, or calls the fatal
// handler after an error entry
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := "gnet: " + fmt.Sprintf(format, args...)
	if a.fatalHandler == nil {
		a.sink.Log(msg, mylog.LogErrExit)
		return
	}
	a.sink.Log(msg, mylog.LogErr)
	a.fatalHandler(msg)
}
