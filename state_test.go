// FILE: mylog/state_test.go
package mylog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatePendingEmail(t *testing.T) {
	st := NewState()
	assert.False(t, st.HasPendingEmail())
	assert.WithinDuration(t, time.Now(), st.StartTime, time.Second)

	for _, set := range []func(*State){
		func(s *State) { s.Detail = "d" },
		func(s *State) { s.Summary = "s" },
		func(s *State) { s.ErrorBuffer = "1. e\n" },
		func(s *State) { s.Progress = "p" },
	} {
		st := NewState()
		set(st)
		assert.True(t, st.HasPendingEmail())
	}

	// Carbon copies alone do not make an email
	st.Cc = "ops@localhost"
	assert.False(t, st.HasPendingEmail())
}

func TestStateElapsed(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := &State{StartTime: t0}
	assert.Equal(t, 90*time.Second, st.Elapsed(t0.Add(90*time.Second)))

	assert.Zero(t, (&State{}).Elapsed(t0))
}

func TestSharedState(t *testing.T) {
	st := NewState()
	a := newTestLogger(t, WithState(st))
	b := newTestLogger(t, WithState(st))

	a.SetEmail("from a\n", EmailLog)
	assert.Equal(t, "from a\n", b.Email())
}
