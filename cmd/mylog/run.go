// FILE: mylog/cmd/mylog/run.go
package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/rdatools/mylog"
	"github.com/rdatools/mylog/runner"
)

// runParams bundles the flags of the run command
type runParams struct {
	timeoutS int
	act      string
	opts     string
	retry    bool
	err2std  []string
	std2err  []string
	metrics  bool
}

func newRunCommand(env *cliEnv, flags *globalFlags) *cobra.Command {
	p := &runParams{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a shell command and log its output",
		Long: `Run a shell command through the configured shell. The command line,
output and error text are logged according to --opts and --act. The exit
status is 0 when the command succeeds and 1 otherwise.`,
		Example: `  # Log the command and its error output, retry once
  mylog run --retry -- dsarch -DS ds083.2

  # Capture stdout, give up after 30 seconds
  mylog run --opts LogCmd|Capture --timeout 30 -- ls -l /data

  # Treat "warning" lines on stderr as output
  mylog run --err2std '^warning' -- ncdump -h file.nc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runCommand(ctx, env, flags, p, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.timeoutS, "timeout", 0, "kill the command after this many seconds (0 runs without a deadline)")
	f.StringVar(&p.act, "act", "", "action for logged lines, e.g. LOGWRN or LGEREX (default LOGWRN)")
	f.StringVar(&p.opts, "opts", runner.DefaultOptions.String(), "runner options, e.g. LogCmd|LogStderr|Capture")
	f.BoolVar(&p.retry, "retry", false, "retry a failed command once")
	f.StringArrayVar(&p.err2std, "err2std", nil, "regexp of stderr lines treated as output (repeatable)")
	f.StringArrayVar(&p.std2err, "std2err", nil, "regexp of stdout lines treated as errors (repeatable)")
	f.BoolVar(&p.metrics, "metrics", false, "print runner metrics after the command")
	return cmd
}

func runCommand(ctx context.Context, env *cliEnv, flags *globalFlags, p *runParams, command string) error {
	act, err := parseActionFlag(p.act)
	if err != nil {
		return err
	}
	opts, err := runner.ParseOption(p.opts)
	if err != nil {
		return err
	}
	if p.retry {
		opts |= runner.OptRetry
	}
	rules, err := runner.NewRules(p.err2std, p.std2err)
	if err != nil {
		return err
	}

	logger, err := flags.newLogger(env)
	if err != nil {
		return err
	}
	logger.State().Command = command

	reg := prometheus.NewRegistry()
	r := runner.New(logger, runner.WithRules(rules), runner.WithMetrics(reg))

	var res *runner.Result
	if p.timeoutS > 0 {
		res = r.RunWithTimeout(ctx, command, p.timeoutS, act, opts)
	} else {
		res = r.Run(ctx, command, act, opts)
	}

	if opts.Has(runner.OptCapture) {
		fmt.Fprint(env.stdout, res.Stdout)
	}
	if p.metrics {
		if err := writeMetrics(env.stderr, reg); err != nil {
			return err
		}
	}

	if res.Status != mylog.Success {
		return &exitError{code: 1}
	}
	return nil
}

// writeMetrics prints the gathered families in the text exposition format
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
