// Package huffman implements a byte-oriented Huffman codec.
//
// Encoding builds a tree from the text's byte histogram and returns the
// compressed bits together with the CodeTable. The table is the artifact
// that gets persisted; decoding rebuilds a tree from it with
// BuildTreeFromTable.
package huffman

import (
	"errors"
	"fmt"

	"github.com/yaklabco/ipmt/pkg/bitbuf"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrTruncated indicates the bitstream ended in the middle of a codeword.
	ErrTruncated = errors.New("huffman: truncated bitstream")

	// ErrEmptyTree indicates bits were supplied to a tree with no symbols.
	ErrEmptyTree = errors.New("huffman: empty tree")

	// ErrInvalidCode indicates a bit sequence that no codeword accounts for.
	ErrInvalidCode = errors.New("huffman: invalid code")

	// ErrNotPrefixFree indicates a code table violating the prefix property.
	ErrNotPrefixFree = errors.New("huffman: code table is not prefix-free")

	// ErrTooLong indicates a bitstream decoding to more bytes than allowed.
	ErrTooLong = errors.New("huffman: decoded text exceeds limit")
)

// CodeTable maps each byte value to its codeword.
type CodeTable map[byte]*bitbuf.Buffer

// Encode compresses text and returns the bits and the table used.
// Empty text yields an empty buffer and an empty table.
func Encode(text []byte) (*bitbuf.Buffer, CodeTable) {
	tree := BuildTree(Frequencies(text))
	table := tree.Table()

	out := bitbuf.New()
	for _, b := range text {
		out.AppendBuffer(table[b])
	}

	return out, table
}

// Decode walks tree once per bit of bits, emitting a byte every time a
// leaf is reached. A tree whose root is itself a leaf decodes each 0 bit
// as one occurrence of that symbol.
func Decode(bits *bitbuf.Buffer, tree *Tree) ([]byte, error) {
	return decode(bits, tree, -1)
}

// decode is Decode with an output bound; maxLen < 0 means unbounded.
func decode(bits *bitbuf.Buffer, tree *Tree, maxLen int) ([]byte, error) {
	if bits == nil || bits.Len() == 0 {
		return []byte{}, nil
	}
	if tree.Empty() {
		return nil, ErrEmptyTree
	}

	if root := tree.nodes[tree.root]; root.leaf {
		return decodeSingle(bits, root.sym, maxLen)
	}

	size := bits.Len() / 2
	if maxLen >= 0 {
		size = min(size, maxLen)
	}
	out := make([]byte, 0, size)
	cur := tree.root
	for i := range bits.Len() {
		bit, err := bits.Get(i)
		if err != nil {
			return nil, err
		}

		cur = tree.child(cur, bit)
		if cur == noChild {
			return nil, fmt.Errorf("%w: at bit %d", ErrInvalidCode, i)
		}
		if nd := tree.nodes[cur]; nd.leaf {
			if len(out) == maxLen {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLong, maxLen)
			}
			out = append(out, nd.sym)
			cur = tree.root
		}
	}

	if cur != tree.root {
		return nil, fmt.Errorf("%w: %d bits, decoded %d bytes", ErrTruncated, bits.Len(), len(out))
	}

	return out, nil
}

func decodeSingle(bits *bitbuf.Buffer, sym byte, maxLen int) ([]byte, error) {
	if maxLen >= 0 && bits.Len() > maxLen {
		return nil, fmt.Errorf("%w: %d bits for at most %d bytes", ErrTooLong, bits.Len(), maxLen)
	}
	out := make([]byte, bits.Len())
	for i := range bits.Len() {
		bit, err := bits.Get(i)
		if err != nil {
			return nil, err
		}
		if bit {
			return nil, fmt.Errorf("%w: at bit %d", ErrInvalidCode, i)
		}
		out[i] = sym
	}
	return out, nil
}

// DecodeTable rebuilds the tree for table and decodes bits with it.
func DecodeTable(bits *bitbuf.Buffer, table CodeTable) ([]byte, error) {
	tree, err := BuildTreeFromTable(table)
	if err != nil {
		return nil, err
	}
	return Decode(bits, tree)
}

// DecodeTableLimit is DecodeTable failing with ErrTooLong as soon as the
// output would exceed maxLen bytes.
func DecodeTableLimit(bits *bitbuf.Buffer, table CodeTable, maxLen int) ([]byte, error) {
	tree, err := BuildTreeFromTable(table)
	if err != nil {
		return nil, err
	}
	return decode(bits, tree, maxLen)
}
