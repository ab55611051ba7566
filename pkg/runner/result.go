package runner

import (
	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// IndexOutcome is the result of indexing one source file.
type IndexOutcome struct {
	// Source is the file that was indexed.
	Source string

	// IndexPath is the written index file. Empty if writing failed.
	IndexPath string

	// Compression is the codec used for the text.
	Compression index.Compression

	// TextBytes is the size of the source text.
	TextBytes int64

	// IndexBytes is the size of the written index file.
	IndexBytes int64

	// Kind tells whether the text is printable or binary.
	Kind textkind.Kind

	// Language is a best-effort language name for the source, used in logs.
	Language string

	// Error is set if the file could not be indexed.
	Error error
}

// SearchOutcome is the result of one pattern against one index.
type SearchOutcome struct {
	// Index is the index file that was searched.
	Index string

	// Pattern is the pattern that was searched for.
	Pattern []byte

	// Text is the decoded text of the index, shared with the cache. Callers
	// must not modify it.
	Text []byte

	// Offsets are the ascending occurrence offsets. Nil for count-only runs.
	Offsets []int

	// Count is the number of occurrences.
	Count int

	// Kind tells whether Text is printable or binary.
	Kind textkind.Kind

	// Error is set if the index could not be loaded.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the number of input files after expansion.
	FilesDiscovered int

	// FilesProcessed is the number of files indexed or searched successfully.
	FilesProcessed int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// TextBytes is the total size of indexed texts.
	TextBytes int64

	// IndexBytes is the total size of written index files.
	IndexBytes int64

	// Patterns is the number of patterns searched per index.
	Patterns int

	// Occurrences is the total number of occurrences found.
	Occurrences int

	// Matches is the number of (index, pattern) pairs with at least one occurrence.
	Matches int
}

// IndexResult is the overall result of an indexing run.
type IndexResult struct {
	// Files are ordered as the sources were given.
	Files []IndexOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// SearchResult is the overall result of a search run.
type SearchResult struct {
	// Outcomes are ordered by index, then by pattern.
	Outcomes []SearchOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *IndexResult) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasErrors reports whether any index failed to load.
func (r *SearchResult) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasMatches reports whether any pattern occurred in any index.
func (r *SearchResult) HasMatches() bool {
	return r != nil && r.Stats.Occurrences > 0
}

func (r *IndexResult) accumulate(outcome IndexOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.TextBytes += outcome.TextBytes
	r.Stats.IndexBytes += outcome.IndexBytes
}

// accumulate adds an outcome. Load failures repeat once per pattern, so
// file counts are taken from the first pattern of each index only.
func (r *SearchResult) accumulate(outcome SearchOutcome, firstPattern bool) {
	r.Outcomes = append(r.Outcomes, outcome)

	if firstPattern {
		if outcome.Error != nil {
			r.Stats.FilesErrored++
		} else {
			r.Stats.FilesProcessed++
		}
	}

	if outcome.Error != nil {
		return
	}

	r.Stats.Occurrences += outcome.Count
	if outcome.Count > 0 {
		r.Stats.Matches++
	}
}
