package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/ipmt/internal/ui/pretty"
	"github.com/yaklabco/ipmt/pkg/runner"
)

func TestFormatIndexSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	got := styles.FormatIndexSummary(runner.Stats{FilesProcessed: 3, TextBytes: 2048, IndexBytes: 1536})
	assert.Equal(t, "Indexed 3 files: 2.0 KB of text into 1.5 KB of indexes (75.0%)\n", got)

	got = styles.FormatIndexSummary(runner.Stats{FilesProcessed: 1, TextBytes: 10, IndexBytes: 40, FilesErrored: 1})
	assert.Equal(t, "Indexed 1 file: 10 B of text into 40 B of indexes (400.0%), 1 file failed\n", got)

	got = styles.FormatIndexSummary(runner.Stats{FilesErrored: 2})
	assert.Equal(t, "No files indexed, 2 files failed\n", got)
}

func TestFormatSearchSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	got := styles.FormatSearchSummary(runner.Stats{Occurrences: 5, Patterns: 2, FilesProcessed: 3})
	assert.Equal(t, "5 occurrences of 2 patterns in 3 indexes\n", got)

	got = styles.FormatSearchSummary(runner.Stats{Patterns: 1, FilesProcessed: 1, FilesErrored: 1})
	assert.Equal(t, "No occurrences found of 1 pattern in 1 index, 1 index failed to load\n", got)
}

func TestFormatIndexTable(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	assert.Empty(t, table.FormatIndexTable(nil))

	out := table.FormatIndexTable([]pretty.IndexRow{
		{Source: "docs/guide.txt", Compression: "huffman", TextBytes: 2048, IndexBytes: 1024},
		{Source: "empty.txt", Compression: "lz78", TextBytes: 0, IndexBytes: 13},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "SOURCE"))
	assert.True(t, strings.HasPrefix(lines[1], "===="))
	assert.Contains(t, lines[2], "docs/guide.txt")
	assert.Contains(t, lines[2], "2.0 KB")
	assert.Contains(t, lines[2], "50.0%")
	assert.Contains(t, lines[3], "13 B")
	assert.True(t, strings.HasSuffix(lines[3], "-"))
}

func TestFormatIndexTable_NarrowTerminal(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 60)
	long := strings.Repeat("d/", 40) + "file.txt"

	out := table.FormatIndexTable([]pretty.IndexRow{{Source: long, Compression: "lz78", TextBytes: 1, IndexBytes: 1}})
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "file.txt")
	assert.NotContains(t, out, long)
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", pretty.HumanSize(0))
	assert.Equal(t, "0 B", pretty.HumanSize(-5))
	assert.Equal(t, "100 B", pretty.HumanSize(100))
	assert.Equal(t, "1.5 KB", pretty.HumanSize(1536))
	assert.Equal(t, "2.0 MB", pretty.HumanSize(2*1024*1024))
}
