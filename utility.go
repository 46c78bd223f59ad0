// FILE: mylog/utility.go
package mylog

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const errorPrefix = "mylog: "

// Sentinel errors
var (
	ErrInvalidDebugLevel = errors.New("invalid debug levels")
	ErrMissingEntry      = errors.New("missing email entry")
	ErrTimeout           = errors.New("command timed out")
)

// Here returns the caller's file and line as call-trace locations,
// for use as Log(msg, act, mylog.Here()...).
func Here() []string {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return nil
	}
	return []string{file, strconv.Itoa(line)}
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// internalLog writes a logger diagnostic to stderr once per kind.
// It never goes through Log, so a broken sink cannot recurse.
func (l *Logger) internalLog(kind string, format string, args ...any) {
	if l.reported[kind] {
		return
	}
	l.reported[kind] = true

	msg := fmt.Sprintf(format, args...)

	// Ensure consistent prefix
	if !strings.HasPrefix(msg, errorPrefix) {
		msg = errorPrefix + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	fmt.Fprint(l.stderr, msg)
}
