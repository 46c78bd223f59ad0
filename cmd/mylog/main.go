// FILE: mylog/cmd/mylog/main.go
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	env := &cliEnv{stdout: os.Stdout, stderr: os.Stderr, exit: os.Exit}
	root := newRootCommand(env)
	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "mylog:", err)
		os.Exit(2)
	}
}
