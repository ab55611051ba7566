package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ipmt/internal/logging"
	"github.com/yaklabco/ipmt/pkg/config"
	"github.com/yaklabco/ipmt/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigFile is the project configuration written by init.
const defaultConfigFile = ".ipmt.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ipmt configuration file",
		Long: `Create a new .ipmt.yml configuration file in the current directory
with the default settings documented.

Examples:
  ipmt init                      Create .ipmt.yml
  ipmt init --output custom.yml  Write to a custom file path
  ipmt init --force              Overwrite an existing file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .ipmt.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigFile
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content := config.GenerateTemplate()

	if flags.force {
		if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	} else {
		created, err := fsutil.CreateExclusive(ctx, absPath, content, configFilePermissions)
		if err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		if !created {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'ipmt config' to see the effective settings")

	return nil
}
