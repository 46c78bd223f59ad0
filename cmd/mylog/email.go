// FILE: mylog/cmd/mylog/email.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEmailCommand(env *cliEnv, flags *globalFlags) *cobra.Command {
	var subject, to, cc, from string

	cmd := &cobra.Command{
		Use:   "email [flags] message...",
		Short: "Send a message through the configured mailer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.newLogger(env)
			if err != nil {
				return err
			}
			if cc != "" {
				logger.AddCarbonCopy(cc)
			}
			sent := logger.SendEmail(subject, to, strings.Join(args, " "), from, 0)
			if sent == "" {
				return &exitError{code: 1}
			}
			fmt.Fprint(cmd.OutOrStdout(), sent)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&subject, "subject", "", "email subject (default names the host and program)")
	f.StringVar(&to, "to", "", "receiver (default email_addr)")
	f.StringVar(&cc, "cc", "", "comma separated carbon copy receivers")
	f.StringVar(&from, "from", "", "sender (default the current user)")
	return cmd
}
