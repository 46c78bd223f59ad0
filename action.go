// FILE: mylog/action.go
package mylog

import (
	"sort"
	"strconv"
	"strings"
)

// Action is a set of logging directives attached to one Log call
type Action uint32

// Action bits. Values are stable so masks read the same in configuration files.
const (
	MsgLog       Action = 0x00001 // write to the main log file
	WarnLog      Action = 0x00002 // echo to stdout/stderr unless backgrounded
	ExitLog      Action = 0x00004 // exit with status 1 after logging
	EmailLog     Action = 0x00008 // append to the email detail buffer
	ErrLog       Action = 0x00010 // route to the error file and stderr
	SendEmail    Action = 0x00200 // send the pending email now
	RetMsg       Action = 0x00400 // return the message instead of a status
	ForceLog     Action = 0x00800 // record even if normally suppressed
	SepLine      Action = 0x01000 // separator line before output
	BreakLine    Action = 0x02000 // blank line before output
	EmailTop     Action = 0x04000 // prepend to the email buffer with error roll-up
	EmailSummary Action = 0x08000 // append to the email summary buffer
	EmailErrOnly Action = 0x10000 // errors reach email through the error buffer only
	DoSudo       Action = 0x20000 // privilege-wrap the associated command
	NotLog       Action = 0x40000 // no file writes
)

// Named presets
const (
	LogWarn          = MsgLog | WarnLog
	LogExit          = MsgLog | ExitLog
	WarnExit         = WarnLog | ExitLog
	LogWarnExit      = MsgLog | WarnLog | ExitLog
	LogWarnEmail     = MsgLog | WarnLog | EmailLog
	LogWarnEmailExit = MsgLog | WarnLog | EmailLog | ExitLog
	LogErr           = MsgLog | ErrLog
	LogErrExit       = MsgLog | ErrLog | ExitLog
	LogErrEmail      = MsgLog | ErrLog | EmailLog
	RecordMsg        = ExitLog | ErrLog | ForceLog
	MissLog          = MsgLog | ErrLog | ForceLog
	EmailAll         = EmailLog | SendEmail | EmailTop | EmailSummary | EmailErrOnly

	// DefaultLogMask lets every action through
	DefaultLogMask Action = 0xFFFFF
)

// Has reports whether all bits of x are set
func (a Action) Has(x Action) bool {
	return a&x == x
}

// Any reports whether at least one bit of x is set
func (a Action) Any(x Action) bool {
	return a&x != 0
}

// With returns a with the bits of x set
func (a Action) With(x Action) Action {
	return a | x
}

// Without returns a with the bits of x cleared
func (a Action) Without(x Action) Action {
	return a &^ x
}

var actionBits = []struct {
	bit  Action
	name string
}{
	{MsgLog, "MsgLog"},
	{WarnLog, "WarnLog"},
	{ExitLog, "ExitLog"},
	{EmailLog, "EmailLog"},
	{ErrLog, "ErrLog"},
	{SendEmail, "SendEmail"},
	{RetMsg, "RetMsg"},
	{ForceLog, "ForceLog"},
	{SepLine, "SepLine"},
	{BreakLine, "BreakLine"},
	{EmailTop, "EmailTop"},
	{EmailSummary, "EmailSummary"},
	{EmailErrOnly, "EmailErrOnly"},
	{DoSudo, "DoSudo"},
	{NotLog, "NotLog"},
}

// String renders the set bits pipe-joined, e.g. "MsgLog|ErrLog"
func (a Action) String() string {
	if a == 0 {
		return "None"
	}
	var names []string
	rest := a
	for _, b := range actionBits {
		if a&b.bit != 0 {
			names = append(names, b.name)
			rest &^= b.bit
		}
	}
	if rest != 0 {
		names = append(names, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(names, "|")
}

// actionNames maps lower-cased short and long names onto their values
var actionNames = func() map[string]Action {
	m := map[string]Action{
		"msglog": MsgLog, "warnlg": WarnLog, "exitlg": ExitLog, "emllog": EmailLog,
		"errlog": ErrLog, "sndeml": SendEmail, "retmsg": RetMsg, "frclog": ForceLog,
		"seplin": SepLine, "brklin": BreakLine, "emltop": EmailTop, "emlsum": EmailSummary,
		"emerol": EmailErrOnly, "dosudo": DoSudo, "notlog": NotLog,
		"logwrn": LogWarn, "logext": LogExit, "wrnext": WarnExit, "lgwnex": LogWarnExit,
		"lgwnem": LogWarnEmail, "lwemex": LogWarnEmailExit, "logerr": LogErr,
		"lgerex": LogErrExit, "lgerem": LogErrEmail, "rcdmsg": RecordMsg,
		"mislog": MissLog, "emlall": EmailAll,
		"logwarn": LogWarn, "logexit": LogExit, "warnexit": WarnExit,
		"logwarnexit": LogWarnExit, "logwarnemail": LogWarnEmail,
		"logwarnemailexit": LogWarnEmailExit, "logerrexit": LogErrExit,
		"logerremail": LogErrEmail, "recordmsg": RecordMsg, "misslog": MissLog,
		"emailall": EmailAll,
	}
	for _, b := range actionBits {
		m[strings.ToLower(b.name)] = b.bit
	}
	return m
}()

// ActionNames returns the accepted action names, sorted
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for name := range actionNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseAction parses an action expression such as "LGEREX", "MsgLog|WarnLog"
// or "0x11". Names are case-insensitive; parts may be joined with '|', '+' or ','.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmtErrorf("empty action")
	}

	var act Action
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == '+' || r == ','
	})
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, ok := actionNames[strings.ToLower(part)]; ok {
			act |= v
			continue
		}
		n, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return 0, fmtErrorf("invalid action '%s'", part)
		}
		act |= Action(n)
	}
	return act, nil
}

// Status is the outcome of a logger or runner call
type Status int

const (
	Failure Status = 0
	Success Status = 1
	Finish  Status = 2
)

func (s Status) String() string {
	switch s {
	case Failure:
		return "FAILURE"
	case Success:
		return "SUCCESS"
	case Finish:
		return "FINISH"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result is returned by Log. Message is set only when RetMsg was requested.
type Result struct {
	Status  Status
	Message string
}
