package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/yaklabco/ipmt/internal/ui/pretty"
	"github.com/yaklabco/ipmt/pkg/runner"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	table  *pretty.TableFormatter
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TextReporter{
		opts:   opts,
		styles: styles,
		table:  pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportIndex implements Reporter.
func (r *TextReporter) ReportIndex(_ context.Context, result *runner.IndexResult) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Warning.Render("No files to index."))
		}
		return 0, nil
	}

	rows := make([]pretty.IndexRow, 0, len(result.Files))
	for _, file := range result.Files {
		if file.Error != nil {
			continue
		}
		rows = append(rows, pretty.IndexRow{
			Source:      r.opts.displayPath(file.Source),
			Compression: file.Compression.String(),
			TextBytes:   file.TextBytes,
			IndexBytes:  file.IndexBytes,
		})
	}
	fmt.Fprint(r.bw, r.table.FormatIndexTable(rows))

	for _, file := range result.Files {
		if file.Error != nil {
			r.writeError(file.Source, file.Error)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatIndexSummary(result.Stats))
	}

	return result.Stats.FilesProcessed, nil
}

// ReportSearch implements Reporter.
func (r *TextReporter) ReportSearch(_ context.Context, result *runner.SearchResult) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	failed := make(map[string]bool)

	for _, outcome := range result.Outcomes {
		if outcome.Error != nil {
			// A failed index fails every pattern the same way.
			if !failed[outcome.Index] {
				failed[outcome.Index] = true
				r.writeError(outcome.Index, outcome.Error)
			}
			continue
		}

		total += outcome.Count

		if r.opts.CountOnly {
			fmt.Fprintf(r.bw, "%s: %s: %d\n",
				r.styles.FilePath.Render(r.opts.displayPath(outcome.Index)),
				r.styles.Pattern.Render(strconv.Quote(string(outcome.Pattern))),
				outcome.Count,
			)
			continue
		}

		if outcome.Count == 0 {
			continue
		}
		r.writeOccurrences(outcome)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSearchSummary(result.Stats))
	}

	return total, nil
}

// writeOccurrences writes the header and matched lines, or offsets for
// binary texts, of one outcome followed by a blank line.
func (r *TextReporter) writeOccurrences(outcome runner.SearchOutcome) {
	word := "occurrences"
	if outcome.Count == 1 {
		word = "occurrence"
	}
	fmt.Fprintf(r.bw, "%s %s\n",
		r.styles.FilePath.Render(r.opts.displayPath(outcome.Index)),
		r.styles.Dim.Render(fmt.Sprintf("(%d %s of %s)", outcome.Count, word,
			r.styles.Pattern.Render(strconv.Quote(string(outcome.Pattern))))),
	)

	if outcome.Kind == textkind.Binary {
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Dim.Render("offsets:"), r.styles.FormatOffsets(outcome.Offsets))
		fmt.Fprintln(r.bw)
		return
	}

	lines := pretty.MatchedLines(outcome.Text, outcome.Offsets, len(outcome.Pattern))
	width := 0
	if n := len(lines); n > 0 {
		width = len(strconv.Itoa(lines[n-1].Number))
	}
	for _, line := range lines {
		fmt.Fprintln(r.bw, "  "+r.styles.FormatLine(line, width))
	}
	fmt.Fprintln(r.bw)
}

func (r *TextReporter) writeError(path string, err error) {
	fmt.Fprintf(r.bw, "%s: %s\n",
		r.styles.FilePath.Render(r.opts.displayPath(path)),
		r.styles.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}
