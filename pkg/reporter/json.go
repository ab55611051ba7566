package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/ipmt/internal/ui/pretty"
	"github.com/yaklabco/ipmt/pkg/runner"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// jsonVersion is the schema version of the JSON output.
const jsonVersion = "1.0.0"

// JSONIndexOutput is the top-level JSON structure of an indexing run.
type JSONIndexOutput struct {
	Version string           `json:"version"`
	Files   []JSONIndexFile  `json:"files"`
	Summary JSONIndexSummary `json:"summary"`
}

// JSONIndexFile represents one indexed source.
type JSONIndexFile struct {
	Source      string `json:"source"`
	Index       string `json:"index,omitempty"`
	Compression string `json:"compression"`
	TextBytes   int64  `json:"textBytes"`
	IndexBytes  int64  `json:"indexBytes"`
	Kind        string `json:"kind,omitempty"`
	Language    string `json:"language,omitempty"`
	Error       string `json:"error,omitempty"`
}

// JSONIndexSummary contains aggregate indexing statistics.
type JSONIndexSummary struct {
	FilesIndexed int   `json:"filesIndexed"`
	FilesErrored int   `json:"filesErrored"`
	TextBytes    int64 `json:"textBytes"`
	IndexBytes   int64 `json:"indexBytes"`
}

// JSONSearchOutput is the top-level JSON structure of a search run.
type JSONSearchOutput struct {
	Version string             `json:"version"`
	Results []JSONSearchResult `json:"results"`
	Summary JSONSearchSummary  `json:"summary"`
}

// JSONSearchResult represents one pattern against one index.
type JSONSearchResult struct {
	Index   string     `json:"index"`
	Pattern string     `json:"pattern"`
	Count   int        `json:"count"`
	Offsets []int      `json:"offsets,omitempty"`
	Lines   []JSONLine `json:"lines,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// JSONLine is a matched line with its highlighted byte ranges.
type JSONLine struct {
	Number int      `json:"number"`
	Text   string   `json:"text"`
	Spans  [][2]int `json:"spans"`
}

// JSONSearchSummary contains aggregate search statistics.
type JSONSearchSummary struct {
	IndexesSearched int `json:"indexesSearched"`
	IndexesErrored  int `json:"indexesErrored"`
	Patterns        int `json:"patterns"`
	Occurrences     int `json:"occurrences"`
	Matches         int `json:"matches"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportIndex implements Reporter.
func (r *JSONReporter) ReportIndex(_ context.Context, result *runner.IndexResult) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := &JSONIndexOutput{Version: jsonVersion, Files: make([]JSONIndexFile, 0)}
	if result != nil {
		for _, file := range result.Files {
			entry := JSONIndexFile{
				Source:      r.opts.displayPath(file.Source),
				Compression: file.Compression.String(),
				TextBytes:   file.TextBytes,
				IndexBytes:  file.IndexBytes,
			}
			if file.IndexPath != "" {
				entry.Index = r.opts.displayPath(file.IndexPath)
			}
			if file.Error != nil {
				entry.Error = file.Error.Error()
			} else {
				entry.Kind = file.Kind.String()
				entry.Language = file.Language
			}
			output.Files = append(output.Files, entry)
		}
		output.Summary = JSONIndexSummary{
			FilesIndexed: result.Stats.FilesProcessed,
			FilesErrored: result.Stats.FilesErrored,
			TextBytes:    result.Stats.TextBytes,
			IndexBytes:   result.Stats.IndexBytes,
		}
	}

	if err := r.encode(output); err != nil {
		return 0, err
	}
	return output.Summary.FilesIndexed, nil
}

// ReportSearch implements Reporter.
func (r *JSONReporter) ReportSearch(_ context.Context, result *runner.SearchResult) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := &JSONSearchOutput{Version: jsonVersion, Results: make([]JSONSearchResult, 0)}
	if result != nil {
		for _, outcome := range result.Outcomes {
			output.Results = append(output.Results, r.searchResult(outcome))
		}
		output.Summary = JSONSearchSummary{
			IndexesSearched: result.Stats.FilesProcessed,
			IndexesErrored:  result.Stats.FilesErrored,
			Patterns:        result.Stats.Patterns,
			Occurrences:     result.Stats.Occurrences,
			Matches:         result.Stats.Matches,
		}
	}

	if err := r.encode(output); err != nil {
		return 0, err
	}
	return output.Summary.Occurrences, nil
}

func (r *JSONReporter) searchResult(outcome runner.SearchOutcome) JSONSearchResult {
	entry := JSONSearchResult{
		Index:   r.opts.displayPath(outcome.Index),
		Pattern: string(outcome.Pattern),
		Count:   outcome.Count,
	}
	if outcome.Error != nil {
		entry.Error = outcome.Error.Error()
		return entry
	}
	if r.opts.CountOnly {
		return entry
	}

	entry.Offsets = outcome.Offsets
	if outcome.Kind == textkind.Binary {
		return entry
	}
	for _, line := range pretty.MatchedLines(outcome.Text, outcome.Offsets, len(outcome.Pattern)) {
		spans := make([][2]int, len(line.Spans))
		for i, span := range line.Spans {
			spans[i] = [2]int{span.Start, span.End}
		}
		entry.Lines = append(entry.Lines, JSONLine{
			Number: line.Number,
			Text:   string(line.Content),
			Spans:  spans,
		})
	}
	return entry
}

func (r *JSONReporter) encode(v any) error {
	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
