// FILE: mylog/debug.go
package mylog

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/rdatools/mylog/formatter"
	"github.com/rdatools/mylog/sanitizer"
)

const maxDebugLevel = 9999

var (
	debugSingleRe = regexp.MustCompile(`^(\d+)$`)
	debugRangeRe  = regexp.MustCompile(`^(\d*)-(\d*)$`)
)

// dumpConfig renders values for debug entries and records
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// parseDebugLevels parses "N" (0-N), "A-B", "A-" (A-9999) or "-B" (0-B).
// A reversed range is swapped.
func parseDebugLevels(levels string) (lo, hi int, err error) {
	levels = strings.TrimSpace(levels)
	if m := debugSingleRe.FindStringSubmatch(levels); m != nil {
		hi, _ = strconv.Atoi(m[1])
		return 0, hi, nil
	}
	m := debugRangeRe.FindStringSubmatch(levels)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: '%s'", ErrInvalidDebugLevel, levels)
	}
	hi = maxDebugLevel
	if m[1] != "" {
		lo, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		hi, _ = strconv.Atoi(m[2])
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// Debug appends msg to the debug file when level falls in debug_level.
// An empty msg writes a header naming the current command. An invalid
// debug_level or an unwritable debug file is fatal.
func (l *Logger) Debug(level int, msg string, locs ...string) {
	cfg := l.getConfig()
	if cfg.DebugLevel == "" {
		return
	}

	lo, hi, err := parseDebugLevels(cfg.DebugLevel)
	if err != nil {
		l.Log(cfg.DebugLevel+": Invalid Debug Levels", LogErrExit, locs...)
		return
	}
	if level < lo || level > hi {
		return
	}

	path := cfg.DebugFilePath()
	tag := strconv.Itoa(level)
	if msg == "" {
		tag = fmt.Sprintf("%d-%d", lo, hi)
		l.Log(fmt.Sprintf("Append debug Info (levels %s) to %s", tag, path), WarnLog)
		msg = "DEBUG for " + l.processID() + " " + l.commandContext(" <= ")
	}

	entry := tag + ":" + msg + "\n" + formatter.CallTrace(locs...)
	if err := appendFile(path, entry); err != nil {
		l.Log(fmt.Sprintf("Error open '>> %s': %v", path, err), LogErrExit, locs...)
	}
}

// DebugDump writes a dump of v to the debug file at level
func (l *Logger) DebugDump(level int, v any, locs ...string) {
	if l.getConfig().DebugLevel == "" {
		return
	}
	l.Debug(level, strings.TrimRight(dumpConfig.Sdump(v), "\n"), locs...)
}

// Record prints a dump of a slice, array or map to stdout followed by the
// number of elements shown.
func (l *Logger) Record(v any) {
	n := 0
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		n = rv.Len()
	}
	fmt.Fprint(l.stdout, dumpConfig.Sdump(v))
	fmt.Fprintf(l.stdout, "%d Element(s) displayed\n", n)
}

// Untaint returns s when every rune falls in ranges (sanitizer.DefaultRanges
// when none are given). Tainted input is fatal.
func (l *Logger) Untaint(s string, ranges ...sanitizer.RuneRange) string {
	clean, err := sanitizer.Untaint(s, ranges...)
	if err != nil {
		l.Log(fmt.Sprintf("%s: cannot untaint: %v", s, err), LogErrExit)
		return ""
	}
	return clean
}
