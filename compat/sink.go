// FILE: mylog/compat/sink.go
package compat

import (
	"sync"

	"github.com/rdatools/mylog"
)

// Sink is the part of *mylog.Logger the adapters write through
type Sink interface {
	Log(msg string, act mylog.Action, locs ...string) mylog.Result
	Debug(level int, msg string, locs ...string)
}

var _ Sink = (*mylog.Logger)(nil)

// Serialized guards a Logger shared by servers that log from many
// goroutines. All adapters built on one Serialized take the same lock.
type Serialized struct {
	mu     sync.Mutex
	logger *mylog.Logger
}

// Serialize wraps l for concurrent callers
func Serialize(l *mylog.Logger) *Serialized {
	return &Serialized{logger: l}
}

// Log calls Logger.Log under the lock
func (s *Serialized) Log(msg string, act mylog.Action, locs ...string) mylog.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Log(msg, act, locs...)
}

// Debug calls Logger.Debug under the lock
func (s *Serialized) Debug(level int, msg string, locs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug(level, msg, locs...)
}

// Logger returns the wrapped Logger
func (s *Serialized) Logger() *mylog.Logger {
	return s.logger
}
