package config

// template is the commented project configuration written by `ipmt init`.
const template = `# ipmt configuration
# See: https://github.com/yaklabco/ipmt

# Codec for the text stored in index files: huffman or lz78
compression: huffman

# Index structure (only suffix arrays are supported)
index_type: sa

# Number of parallel workers (0 = auto)
# jobs: 0

# Decoded indexes kept in memory while searching
# cache_size: 16

# Colored output: auto, always, or never
# color: auto

# Re-hash each source after indexing to catch concurrent edits
# verify_source: false

# File patterns excluded from expansion (glob patterns)
# ignore:
#   - "**/*.idx"
#   - "vendor/**"
`

// GenerateTemplate returns the commented default configuration file.
func GenerateTemplate() []byte {
	return []byte(template)
}
