package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/ipmt/internal/configloader"
	"github.com/yaklabco/ipmt/pkg/config"
)

type configFlags struct {
	env bool
}

func newConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration that index and search would use, after merging
system, user, and project files, the .env file, IPMT_* environment
variables, and global flags.

With --env, list the supported environment variables instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.env {
				printEnvVars(cmd)
				return nil
			}

			cfg, _, err := loadConfig(cmd, &config.Config{})
			if err != nil {
				return err
			}

			content, err := cfg.ToYAML()
			if err != nil {
				return err
			}

			if _, err := cmd.OutOrStdout().Write(content); err != nil {
				return fmt.Errorf("write configuration: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")

	return cmd
}

func printEnvVars(cmd *cobra.Command) {
	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(log.InfoLevel)

	for _, v := range configloader.ListEnvVars() {
		logger.Info(v[0], "description", v[1])
	}
}
