// FILE: mylog/runner/rules.go
package runner

import (
	"regexp"
	"strings"
)

// Rules reclassify output lines. A stderr line matching ErrToStd is treated
// as ordinary output; a stdout line matching StdToErr is treated as an
// error. Each line is tested against the rules of its own stream only, so
// at most one reclassification applies.
type Rules struct {
	ErrToStd []*regexp.Regexp
	StdToErr []*regexp.Regexp
}

// NewRules compiles the two pattern lists
func NewRules(errToStd, stdToErr []string) (Rules, error) {
	var rules Rules
	for _, p := range errToStd {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rules{}, fmtErrorf("invalid err2std pattern '%s': %w", p, err)
		}
		rules.ErrToStd = append(rules.ErrToStd, re)
	}
	for _, p := range stdToErr {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rules{}, fmtErrorf("invalid std2err pattern '%s': %w", p, err)
		}
		rules.StdToErr = append(rules.StdToErr, re)
	}
	return rules, nil
}

// MustRules is like NewRules but panics on an invalid pattern
func MustRules(errToStd, stdToErr []string) Rules {
	rules, err := NewRules(errToStd, stdToErr)
	if err != nil {
		panic(err)
	}
	return rules
}

func (r Rules) errToStd(line string) bool {
	return matchAny(r.ErrToStd, line)
}

func (r Rules) stdToErr(line string) bool {
	return matchAny(r.StdToErr, line)
}

func matchAny(res []*regexp.Regexp, line string) bool {
	for _, re := range res {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// stripOutputLine keeps the last carriage-return segment of a progress
// line and terminates it with a newline
func stripOutputLine(line string) string {
	line = strings.TrimRight(line, "\r")
	if i := strings.LastIndexByte(line, '\r'); i >= 0 {
		line = line[i+1:]
	}
	return line + "\n"
}
