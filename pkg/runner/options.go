// Package runner expands input patterns and runs index and search jobs
// over many files concurrently.
package runner

import (
	"github.com/yaklabco/ipmt/pkg/index"
)

// Options controls file expansion.
type Options struct {
	// Patterns are files, directories, or glob patterns. Globs support "**".
	Patterns []string

	// WorkingDir is the base directory used to resolve relative patterns.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions keeps only files with one of these extensions (lowercase,
	// with leading dot). Empty keeps everything.
	Extensions []string

	// SkipExtensions drops files with one of these extensions.
	SkipExtensions []string

	// Ignore are glob patterns, relative to WorkingDir, excluded from expansion.
	Ignore []string
}

// IndexOptions controls an indexing run.
type IndexOptions struct {
	// Compression is the codec for the indexed text.
	Compression index.Compression

	// Jobs is the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// VerifySource re-hashes each source after its index is written.
	// Without it only size and modification time are compared.
	VerifySource bool
}

// SearchOptions controls a search run.
type SearchOptions struct {
	// Jobs is the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// CountOnly skips collecting offsets; only counts are reported.
	CountOnly bool
}
