// FILE: mylog/cmd/mylog/config.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newConfigCommand(env *cliEnv, flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after the file, MYLOG_* environment variables
and --set overrides are applied. With --file it is written there instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.newLogger(env)
			if err != nil {
				return err
			}
			cfg := logger.GetConfig()

			if file == "" {
				return cfg.WriteTOML(cmd.OutOrStdout())
			}
			f, err := os.Create(file)
			if err != nil {
				return err
			}
			if err := cfg.WriteTOML(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "write the configuration to this file")
	return cmd
}
