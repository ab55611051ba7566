package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/ipmt/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatIndexSummary formats indexing statistics as a single line.
// Example: "Indexed 3 files: 12.0 KB of text into 9.1 KB of indexes (75.8%)".
func (s *Styles) FormatIndexSummary(stats runner.Stats) string {
	var b strings.Builder

	if stats.FilesProcessed > 0 {
		b.WriteString(s.Success.Render(fmt.Sprintf("Indexed %d %s",
			stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))
		b.WriteString(s.Dim.Render(fmt.Sprintf(": %s of text into %s of indexes (%s)",
			HumanSize(stats.TextBytes), HumanSize(stats.IndexBytes), Ratio(stats.IndexBytes, stats.TextBytes))))
	} else {
		b.WriteString(s.Warning.Render("No files indexed"))
	}

	if stats.FilesErrored > 0 {
		b.WriteString(", ")
		b.WriteString(s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return b.String() + "\n"
}

// FormatSearchSummary formats search statistics as a single line.
// Example: "5 occurrences of 2 patterns in 3 indexes".
func (s *Styles) FormatSearchSummary(stats runner.Stats) string {
	var b strings.Builder

	if stats.Occurrences == 0 {
		b.WriteString(s.Warning.Render("No occurrences found"))
	} else {
		b.WriteString(s.Success.Render(fmt.Sprintf("%d %s",
			stats.Occurrences, plural(stats.Occurrences, "occurrence", "occurrences"))))
	}
	b.WriteString(s.Dim.Render(fmt.Sprintf(" of %d %s in %d %s",
		stats.Patterns, plural(stats.Patterns, "pattern", "patterns"),
		stats.FilesProcessed, plural(stats.FilesProcessed, "index", "indexes"))))

	if stats.FilesErrored > 0 {
		b.WriteString(", ")
		b.WriteString(s.Failure.Render(fmt.Sprintf("%d %s failed to load",
			stats.FilesErrored, plural(stats.FilesErrored, "index", "indexes"))))
	}

	return b.String() + "\n"
}
