// FILE: mylog/cmd/mylog/log.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rdatools/mylog"
)

func newLogCommand(env *cliEnv, flags *globalFlags) *cobra.Command {
	var act string
	var debugLevel int

	cmd := &cobra.Command{
		Use:   "log [flags] message...",
		Short: "Record a message with an action mask",
		Example: `  mylog log --act LOGWRN "archive starts"
  mylog log --act LGEREX "cannot open ds083.2"
  mylog log --debug 2 "request 17 parsed"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.newLogger(env)
			if err != nil {
				return err
			}
			msg := strings.Join(args, " ")

			if cmd.Flags().Changed("debug") {
				logger.Debug(debugLevel, msg)
				return nil
			}

			a, err := parseActionFlag(act)
			if err != nil {
				return err
			}
			res := logger.Log(msg, a)
			if a.Has(mylog.RetMsg) && res.Message != "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&act, "act", "", "action mask, e.g. MSGLOG, LOGWRN or LgErr|RetMsg (default MSGLOG)")
	cmd.Flags().IntVar(&debugLevel, "debug", 0, "write to the debug file at this level instead")
	return cmd
}
