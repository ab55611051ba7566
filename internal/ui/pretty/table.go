package pretty

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minSourceWidth   = 12
	compressionWidth = 11
	sizeWidth        = 10
	ratioWidth       = 7
	heavySeparator   = "="
)

// IndexRow is one indexed file in the index table.
type IndexRow struct {
	Source      string
	Compression string
	TextBytes   int64
	IndexBytes  int64
}

// TableFormatter formats index summaries as a table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatIndexTable formats rows with a header and a separator line.
func (t *TableFormatter) FormatIndexTable(rows []IndexRow) string {
	if len(rows) == 0 {
		return ""
	}

	sourceWidth := t.sourceWidth(rows)
	total := sourceWidth + compressionWidth + 2*sizeWidth + ratioWidth + 4*tablePadding

	var b strings.Builder
	header := fmt.Sprintf("%-*s  %-*s  %*s  %*s  %*s",
		sourceWidth, "SOURCE",
		compressionWidth, "COMPRESSION",
		sizeWidth, "TEXT",
		sizeWidth, "INDEX",
		ratioWidth, "RATIO",
	)
	b.WriteString(t.styles.TableHeader.Render(header))
	b.WriteString("\n")
	b.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	b.WriteString("\n")

	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %-*s  %*s  %*s  %*s\n",
			sourceWidth, truncateFilePath(row.Source, sourceWidth),
			compressionWidth, row.Compression,
			sizeWidth, HumanSize(row.TextBytes),
			sizeWidth, HumanSize(row.IndexBytes),
			ratioWidth, Ratio(row.IndexBytes, row.TextBytes),
		)
	}

	return b.String()
}

// sourceWidth fits the source column to the longest path and the terminal.
func (t *TableFormatter) sourceWidth(rows []IndexRow) int {
	width := minSourceWidth
	for _, row := range rows {
		width = max(width, len(row.Source))
	}
	fixed := compressionWidth + 2*sizeWidth + ratioWidth + 4*tablePadding
	if width+fixed > t.termWidth {
		width = max(minSourceWidth, t.termWidth-fixed)
	}
	return width
}

// HumanSize renders a byte count in human units, e.g. "1.5 KB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return datasize.ByteSize(n).HR()
}

// Ratio renders part as a percentage of whole, or "-" when whole is zero.
func Ratio(part, whole int64) string {
	if whole <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(whole))
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
