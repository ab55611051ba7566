package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ipmt/internal/logging"
	"github.com/yaklabco/ipmt/pkg/config"
	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/reporter"
	"github.com/yaklabco/ipmt/pkg/runner"
)

type indexFlags struct {
	compression  string
	indexType    string
	ignore       []string
	format       string
	verifySource bool
	compact      bool
}

func newIndexCommand() *cobra.Command {
	flags := &indexFlags{}

	cmd := &cobra.Command{
		Use:   "index [flags] FILE|GLOB...",
		Short: "Build compressed indexes for text files",
		Long:  indexLongDescription,
		Args:  requireArgs(1, "at least one file or glob"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.compression, "compression", "c", "",
		"text codec: huffman or lz78 (default huffman)")
	cmd.Flags().StringVarP(&flags.indexType, "index-type", "i", "",
		"index structure: sa")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil,
		"glob patterns to exclude (repeatable)")
	cmd.Flags().StringVar(&flags.format, "format", "",
		"output format: text, json")
	cmd.Flags().BoolVar(&flags.verifySource, "verify-source", false,
		"re-hash each source after indexing to catch concurrent edits")
	cmd.Flags().BoolVar(&flags.compact, "compact", false,
		"minified JSON output")

	return cmd
}

const indexLongDescription = `Build one index file per source. The index is written next to the
source with its extension replaced by .idx, so notes.txt becomes notes.idx.

Arguments may be files, directories, or glob patterns; "**" matches across
directories. Existing .idx files are never indexed.

Examples:
  ipmt index book.txt              # Index a single file
  ipmt index -c lz78 'logs/*.log'  # Index with LZ78 compression
  ipmt index 'docs/**.md'          # Index a tree of files
  ipmt index --format json data/   # Machine-readable summary`

func runIndex(cmd *cobra.Command, args []string, flags *indexFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cliCfg := &config.Config{
		Compression:  flags.compression,
		IndexType:    flags.indexType,
		Format:       config.OutputFormat(flags.format),
		VerifySource: flags.verifySource,
	}
	if cmd.Flags().Changed("ignore") {
		cliCfg.Ignore = flags.ignore
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	compression, err := index.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	files, err := runner.Discover(ctx, runner.Options{
		Patterns:       args,
		WorkingDir:     workDir,
		SkipExtensions: []string{index.Ext},
		Ignore:         cfg.Ignore,
	})
	if err != nil {
		return err
	}

	logger.Debug("starting index run",
		logging.FieldPaths, args,
		logging.FieldFiles, len(files),
		logging.FieldCompression, compression,
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.New(nil).Index(ctx, files, runner.IndexOptions{
		Compression:  compression,
		Jobs:         cfg.Jobs,
		VerifySource: cfg.VerifySource,
	})
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       string(cfg.Color),
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.ReportIndex(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("index run complete",
		logging.FieldFilesIndexed, result.Stats.FilesProcessed,
		logging.FieldFailures, result.Stats.FilesErrored,
	)

	if result.HasErrors() {
		return fmt.Errorf("%w: %d of %d files failed",
			ErrFilesFailed, result.Stats.FilesErrored, result.Stats.FilesDiscovered)
	}

	return nil
}
