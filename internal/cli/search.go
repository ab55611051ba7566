package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/ipmt/internal/logging"
	"github.com/yaklabco/ipmt/pkg/config"
	"github.com/yaklabco/ipmt/pkg/fsutil"
	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/reporter"
	"github.com/yaklabco/ipmt/pkg/runner"
)

type searchFlags struct {
	count       bool
	patternFile bool
	ignore      []string
	format      string
	compact     bool
	noSummary   bool
}

func newSearchCommand() *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search [flags] PATTERN INDEX|GLOB...",
		Short: "Search indexes for exact occurrences of a pattern",
		Long:  searchLongDescription,
		Args:  requireArgs(2, "a pattern and at least one index file or glob"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.count, "count", "c", false,
		"print only the number of occurrences per index and pattern")
	cmd.Flags().BoolVarP(&flags.patternFile, "pattern", "p", false,
		"treat PATTERN as a file with one pattern per line")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil,
		"glob patterns to exclude (repeatable)")
	cmd.Flags().StringVar(&flags.format, "format", "",
		"output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false,
		"minified JSON output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false,
		"omit the summary line")

	return cmd
}

const searchLongDescription = `Search one or more indexes for every exact occurrence of PATTERN.

Matching lines are printed with occurrences highlighted; occurrences that
overlap are shown as one highlighted span. Indexes of binary files print
byte offsets instead of lines. Only .idx files are searched when a
directory or glob is given.

Exit status is 0 when at least one occurrence was found, 1 when none was.

Examples:
  ipmt search needle book.idx           # Show matching lines
  ipmt search -c error 'logs/*.idx'     # Count occurrences per index
  ipmt search -p patterns.txt data/     # Search every pattern in a file
  ipmt search --format json TODO src/   # Machine-readable results`

func runSearch(cmd *cobra.Command, args []string, flags *searchFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cliCfg := &config.Config{
		Format:      config.OutputFormat(flags.format),
		Count:       flags.count,
		PatternFile: flags.patternFile,
	}
	if cmd.Flags().Changed("ignore") {
		cliCfg.Ignore = flags.ignore
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	patterns, err := searchPatterns(ctx, args[0], cfg.PatternFile)
	if err != nil {
		return err
	}

	indexes, err := runner.Discover(ctx, runner.Options{
		Patterns:   args[1:],
		WorkingDir: workDir,
		Extensions: []string{index.Ext},
		Ignore:     cfg.Ignore,
	})
	if err != nil {
		return err
	}

	cache, err := index.NewCache(cfg.CacheSize)
	if err != nil {
		return err
	}

	logger.Debug("starting search",
		logging.FieldPaths, args[1:],
		logging.FieldFiles, len(indexes),
		logging.FieldPatterns, len(patterns),
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.New(cache).Search(ctx, indexes, patterns, runner.SearchOptions{
		Jobs:      cfg.Jobs,
		CountOnly: cfg.Count,
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
		CountOnly:   cfg.Count,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.ReportSearch(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("search complete",
		logging.FieldFilesSearched, result.Stats.FilesProcessed,
		logging.FieldOccurrences, result.Stats.Occurrences,
		logging.FieldFailures, result.Stats.FilesErrored,
	)

	switch {
	case result.HasErrors():
		return fmt.Errorf("%w: %d of %d indexes failed",
			ErrFilesFailed, result.Stats.FilesErrored, result.Stats.FilesDiscovered)
	case !result.HasMatches():
		return ErrNoMatches
	default:
		return nil
	}
}

// searchPatterns returns the patterns to search for. When fromFile is set,
// arg names a file with one pattern per line; empty lines are skipped and a
// trailing carriage return is dropped.
func searchPatterns(ctx context.Context, arg string, fromFile bool) ([][]byte, error) {
	if !fromFile {
		return [][]byte{[]byte(arg)}, nil
	}

	content, _, err := fsutil.ReadFile(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var patterns [][]byte
	for _, line := range bytes.Split(content, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) > 0 {
			patterns = append(patterns, line)
		}
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: pattern file %s has no patterns", ErrUsage, arg)
	}
	return patterns, nil
}
