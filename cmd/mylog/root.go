// FILE: mylog/cmd/mylog/root.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rdatools/mylog"
)

// cliEnv carries the process surface so commands run under test
type cliEnv struct {
	stdout io.Writer
	stderr io.Writer
	exit   func(int)
}

// exitError ends the process with code without printing anything
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	overrides  []string
	background bool
}

func newRootCommand(env *cliEnv) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "mylog",
		Short: "Log messages and run commands under an action mask",
		Long: `mylog writes log, error and debug files, composes email and runs
shell commands with retries and deadlines. Actions are masks such as
LOGWRN, LGEREX or MsgLog|ErrLog|ExitLog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "TOML configuration file with a [mylog] table")
	pf.StringArrayVar(&flags.overrides, "set", nil, "override a configuration key (key=value, repeatable)")
	pf.BoolVar(&flags.background, "background", false, "suppress screen echo")

	root.AddCommand(
		newRunCommand(env, flags),
		newLogCommand(env, flags),
		newEmailCommand(env, flags),
		newConfigCommand(env, flags),
	)
	return root
}

// loadConfig reads the configuration file, or the defaults with MYLOG_*
// environment overrides when none is given
func (f *globalFlags) loadConfig() (*mylog.Config, error) {
	if f.configFile != "" {
		return mylog.NewConfigFromFile(f.configFile)
	}
	cfg := mylog.DefaultConfig()
	if err := mylog.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a logger writing its echo to env and exiting through it
func (f *globalFlags) newLogger(env *cliEnv) (*mylog.Logger, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(f.overrides...); err != nil {
		return nil, err
	}
	if f.background {
		cfg.Background = true
	}

	logger := mylog.NewLogger(
		mylog.WithOutput(env.stdout, env.stderr),
		mylog.WithExitFunc(env.exit),
	)
	if err := logger.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return logger, nil
}

// parseActionFlag treats an empty flag as the zero action
func parseActionFlag(s string) (mylog.Action, error) {
	if s == "" {
		return 0, nil
	}
	return mylog.ParseAction(s)
}
