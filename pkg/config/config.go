// Package config defines the configuration types for ipmt.
// These are plain data structures; loading and layering live in
// internal/configloader.
package config

// OutputFormat specifies how search results are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is supported.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// IndexTypeSuffixArray is the only supported index structure.
const IndexTypeSuffixArray = "sa"

// Defaults.
const (
	DefaultCompression = "huffman"
	DefaultCacheSize   = 16
)

// Config is the root configuration structure for ipmt.
type Config struct {
	// Compression is the codec for indexed text: "huffman" or "lz78".
	Compression string `yaml:"compression"`

	// IndexType is the index structure; only "sa" is supported.
	IndexType string `yaml:"index_type"`

	// Jobs is the number of parallel workers (0 = GOMAXPROCS).
	Jobs int `yaml:"jobs"`

	// Ignore contains glob patterns excluded from file expansion.
	Ignore []string `yaml:"ignore"`

	// CacheSize is the number of decoded indexes kept in memory during search.
	CacheSize int `yaml:"cache_size"`

	// Color controls colored output: auto, always, or never.
	Color ColorMode `yaml:"color"`

	// VerifySource re-hashes each source after indexing to detect edits made
	// while the index was built. Without it only size and mtime are checked.
	VerifySource bool `yaml:"verify_source"`

	// CLI-level options (not persisted to config files).

	// Format is the search output format.
	Format OutputFormat `yaml:"-"`

	// Count prints only occurrence counts.
	Count bool `yaml:"-"`

	// PatternFile treats the search pattern argument as a file of patterns.
	PatternFile bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Compression: DefaultCompression,
		IndexType:   IndexTypeSuffixArray,
		Jobs:        0,
		CacheSize:   DefaultCacheSize,
		Color:       ColorAuto,
		Format:      FormatText,
	}
}
