// FILE: mylog/cmdlog_test.go
package mylog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rdatools/mylog/formatter"
)

func TestCmdLog(t *testing.T) {
	tl := newTestLogger(t)
	st := tl.State()
	t0 := time.Date(2024, 3, 7, 9, 0, 0, 0, time.Local)
	stamp := formatter.DateTime(t0)

	tl.CmdLog("dsarch -DS ds083.2 -GN ALL", t0, DefaultCmdLog)
	assert.Equal(t, "dsarch -DS ds083.2 -GN ALL", st.Command)
	assert.Equal(t, "host-user"+stamp, st.PID)
	assert.Equal(t, t0, st.StartTime)

	tl.CmdLog("CPID 4242", t0, DefaultCmdLog)
	assert.Equal(t, "CPID 4242", st.CommandID)
	assert.Equal(t, "dsarch -DS ds083.2 -GN ALL", st.Command)

	t1 := t0.Add(10 * time.Second)
	tl.CmdLog("starts 'ls -l'", t1, DefaultCmdLog)
	assert.Equal(t, t1, st.StartTime)

	tl.CmdLog("", t1.Add(65*time.Second), DefaultCmdLog)

	lines := strings.Split(strings.TrimSuffix(tl.readFile(t, "mydss.log"), "\n"), "\n")
	assert.Equal(t, []string{
		"host-user" + stamp + ": dsarch -DS ds083.2 -GN ALL",
		"host-user" + stamp + ": CPID 4242",
		"host-user" + stamp + ": starts 'ls -l' at " + formatter.DateTime(t1),
		"host-user" + stamp + " Ends within 1M5S: CPID 4242 <= dsarch -DS ds083.2 -GN ALL",
	}, lines)
}

func TestCmdLogEndWords(t *testing.T) {
	tl := newTestLogger(t)
	tl.CmdLog("rdacp -f a -t b", time.Time{}, 0)

	tl.CmdLog("quits on request", time.Time{}, MsgLog)
	content := tl.readFile(t, "mydss.log")
	assert.Contains(t, content, " Quits on request: rdacp -f a -t b\n")
}

func TestCmdLogSilent(t *testing.T) {
	tl := newTestLogger(t)

	tl.CmdLog("dsupdt -d ds083.2", time.Time{}, 0)
	assert.Equal(t, "dsupdt -d ds083.2", tl.State().Command)
	assert.Empty(t, tl.readFile(t, "mydss.log"))

	// starts without a process identifier starts a new command
	tl2 := newTestLogger(t)
	tl2.CmdLog("starts 'x'", time.Time{}, 0)
	assert.Equal(t, "starts 'x'", tl2.State().Command)
}
