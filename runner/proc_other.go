// FILE: mylog/runner/proc_other.go
//go:build !unix

package runner

import (
	"os/exec"
)

// setProcessGroup leaves the default cancellation, which kills the shell only
func setProcessGroup(cmd *exec.Cmd) {}
