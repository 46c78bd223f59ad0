// FILE: mylog/runner/options.go
package runner

import (
	"strconv"
	"strings"
)

// Option selects what a run logs, captures and retries
type Option uint32

const (
	OptLogCmd      Option = 1 << iota // log "> cmd" before running
	OptLogStdout                      // log each stdout line
	OptLogStderr                      // log error text through the logger
	OptLogCmdTime                     // log "starts 'cmd'" through CmdLog instead of "> cmd"
	OptCapture                        // return captured stdout
	OptErrAsStdout                    // stderr lines count as stdout and are cached
	OptForceAbort                     // an "ABORTS " error line forces failure
	OptRetry                          // allow a second attempt
	OptCacheStderr                    // cache error text in State.LastSystemError

	OptLogAll = OptLogCmd | OptLogStdout | OptLogStderr

	// DefaultOptions logs the command line and its errors
	DefaultOptions = OptLogCmd | OptLogStderr
)

var optionNames = []struct {
	opt  Option
	name string
}{
	{OptLogCmd, "LogCmd"},
	{OptLogStdout, "LogStdout"},
	{OptLogStderr, "LogStderr"},
	{OptLogCmdTime, "LogCmdTime"},
	{OptCapture, "Capture"},
	{OptErrAsStdout, "ErrAsStdout"},
	{OptForceAbort, "ForceAbort"},
	{OptRetry, "Retry"},
	{OptCacheStderr, "CacheStderr"},
}

// Has reports whether all bits of x are set
func (o Option) Has(x Option) bool {
	return o&x == x
}

func (o Option) String() string {
	if o == 0 {
		return "None"
	}
	var names []string
	for _, n := range optionNames {
		if o&n.opt != 0 {
			names = append(names, n.name)
		}
	}
	if rest := o &^ (OptLogAll | OptLogCmdTime | OptCapture | OptErrAsStdout |
		OptForceAbort | OptRetry | OptCacheStderr); rest != 0 {
		names = append(names, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(names, "|")
}

// ParseOption parses a number ("5", "0x105") or names joined by '|'
// ("LogCmd|Capture"). Names are case-insensitive.
func ParseOption(s string) (Option, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		return Option(n), nil
	}

	var opt Option
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, n := range optionNames {
			if strings.EqualFold(part, n.name) || strings.EqualFold(part, "Opt"+n.name) {
				opt |= n.opt
				found = true
				break
			}
		}
		if !found {
			if strings.EqualFold(part, "LogAll") || strings.EqualFold(part, "OptLogAll") {
				opt |= OptLogAll
				continue
			}
			return 0, fmtErrorf("invalid runner option '%s'", part)
		}
	}
	return opt, nil
}
