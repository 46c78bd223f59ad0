// FILE: mylog/runner/errors.go
package runner

import (
	"fmt"
	"strings"
)

const errorPrefix = "runner: "

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, args...)
}
