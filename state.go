// FILE: mylog/state.go
package mylog

import (
	"time"
)

// State carries the accumulators of one logical run: the command context
// used in abort and error banners, and the buffers an email is composed
// from. One State is shared by a Logger and the runners built on it.
//
// State is not safe for concurrent use; a run has a single active command
// at a time and callers serialize access.
type State struct {
	StartTime time.Time // When the current command began
	Command   string    // Description of what is running
	CommandID string    // Command identifier, e.g. "CPID 1234"
	PID       string    // Process identifier used in banners

	ErrorCount  int    // Errors recorded since the last composition
	ErrorBuffer string // Numbered error lines
	Summary     string // Email summary buffer
	Detail      string // Email detail buffer
	Progress    string // In-progress message, replaced each time

	Cc string // Carbon copies for outgoing email

	LastSystemError string // Error text cached by the last command run
}

// NewState creates a State whose current command starts now
func NewState() *State {
	return &State{StartTime: time.Now()}
}

// HasPendingEmail reports whether any email buffer holds content
func (s *State) HasPendingEmail() bool {
	return s.Detail != "" || s.Summary != "" || s.ErrorBuffer != "" || s.Progress != ""
}

// Elapsed returns the time since the current command began
func (s *State) Elapsed(now time.Time) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return now.Sub(s.StartTime)
}
