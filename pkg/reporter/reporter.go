// Package reporter renders index and search results.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/ipmt/pkg/runner"
)

// Reporter formats and writes index and search results.
type Reporter interface {
	// ReportIndex writes the outcome of an indexing run.
	// It returns the number of files indexed.
	ReportIndex(ctx context.Context, result *runner.IndexResult) (int, error)

	// ReportSearch writes the outcome of a search run.
	// It returns the number of occurrences reported.
	ReportSearch(ctx context.Context, result *runner.SearchResult) (int, error)
}

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
)

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
