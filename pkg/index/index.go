// Package index persists a text's suffix array together with a compressed
// copy of the text, and reads both back.
//
// An index file holds, in order: the suffix array, a compression tag, and
// the payload of the codec named by the tag. See Encode for the layout.
package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/ipmt/pkg/fsutil"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// Ext is the extension of index files.
const Ext = ".idx"

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the index file does not exist.
	ErrNotFound = errors.New("index not found")

	// ErrUnknownCompression indicates an unrecognized compression tag.
	ErrUnknownCompression = errors.New("unknown compression")

	// ErrCorrupt indicates a malformed index file.
	ErrCorrupt = errors.New("corrupt index")

	// ErrTextTooLarge indicates a text whose offsets do not fit the format.
	ErrTextTooLarge = errors.New("text too large to index")

	// ErrMismatch indicates a suffix array whose length differs from its text.
	ErrMismatch = errors.New("suffix array does not match text")
)

// Compression selects the codec used for the text payload.
type Compression string

// Supported compressions.
const (
	Huffman Compression = "huffman"
	LZ78    Compression = "lz78"
)

// DefaultCompression is used when none is configured.
const DefaultCompression = Huffman

// Compressions returns all supported compressions.
func Compressions() []Compression {
	return []Compression{Huffman, LZ78}
}

// ParseCompression converts a string to a Compression.
func ParseCompression(s string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: huffman, lz78)", ErrUnknownCompression, s)
	}
	return c, nil
}

// IsValid returns true if c is a supported compression.
func (c Compression) IsValid() bool {
	switch c {
	case Huffman, LZ78:
		return true
	default:
		return false
	}
}

// String returns the compression tag.
func (c Compression) String() string {
	return string(c)
}

// Index is a decoded index file.
type Index struct {
	// Path is the file the index was read from.
	Path string

	// Text is the decoded text.
	Text []byte

	// SuffixArray is the suffix array of Text.
	SuffixArray []int

	// Compression is the codec the text was stored with.
	Compression Compression

	// Kind tells whether Text is printable or binary.
	Kind textkind.Kind

	// Info is the index file's state when it was read.
	Info *fsutil.FileInfo
}

// PathFor returns the index path for a source file: the source path with
// its extension replaced by Ext.
func PathFor(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + Ext
}

// Write encodes an index for source and writes it atomically to
// PathFor(source). It returns the path written.
func Write(ctx context.Context, source string, sa []int, text []byte, c Compression) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, sa, text, c); err != nil {
		return "", fmt.Errorf("encode index for %s: %w", source, err)
	}

	path := PathFor(source)
	if err := fsutil.WriteAtomic(ctx, path, buf.Bytes(), 0); err != nil {
		return "", fmt.Errorf("write index %s: %w", path, err)
	}

	return path, nil
}

// Read loads and decodes the index file at path.
func Read(ctx context.Context, path string) (*Index, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	idx, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	idx.Path = path
	idx.Info = info
	return idx, nil
}
