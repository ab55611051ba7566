// Package cli provides the Cobra command structure for ipmt.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ipmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root ipmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	var jobs int

	rootCmd := &cobra.Command{
		Use:   "ipmt",
		Short: "Compressed full-text indexes with fast substring search",
		Long: `ipmt builds a compressed full-text index for each file and searches
those indexes for exact substring occurrences.

An index stores the file's suffix array together with its text, compressed
with Huffman coding or LZ78. Searching an index never touches the original
file: occurrences are located by binary search over the suffix array and
printed from the decoded text.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := logging.WithLogger(cmd.Context(), logging.Default())
			cmd.SetContext(logging.With(ctx, logging.FieldCommand, cmd.Name()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0,
		"number of parallel workers (0 = auto)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// requireArgs returns a positional argument check that fails with ErrUsage.
func requireArgs(minArgs int, what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < minArgs {
			return fmt.Errorf("%w: expected %s", ErrUsage, what)
		}
		return nil
	}
}
