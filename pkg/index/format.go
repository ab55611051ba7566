package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"slices"

	"github.com/icza/bitio"

	"github.com/yaklabco/ipmt/pkg/bitbuf"
	"github.com/yaklabco/ipmt/pkg/huffman"
	"github.com/yaklabco/ipmt/pkg/lz78"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// bufferSize is the write buffer size for encoding.
const bufferSize = 64 * 1024

// maxTagLen bounds the compression tag read before its newline.
const maxTagLen = 16

// growStep bounds how far slices grow ahead of the data actually read,
// so a corrupt length field cannot force a huge allocation.
const growStep = 1 << 16

// Encode writes the index of text to w. All integers are little-endian:
//
//	suffix_array_len  uint64
//	entries           suffix_array_len × int32
//	tag               ASCII compression name, then '\n'
//	payload           codec specific
//
// The Huffman payload is the table size (uint64), one (key byte, codeword)
// entry per key in ascending order, then the compressed text. The LZ78
// payload is the pair count (uint64) followed by (index int32, byte) pairs.
//
// A bit sequence is stored as a byte count (int32) and that many bytes. The
// bits are packed most-significant bit first and closed by a single 1 bit,
// then zero padding up to the byte boundary.
func Encode(w io.Writer, sa []int, text []byte, c Compression) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCompression, c)
	}
	if len(text) > math.MaxInt32 {
		return fmt.Errorf("%w: %d bytes", ErrTextTooLarge, len(text))
	}
	if len(sa) != len(text) {
		return fmt.Errorf("%w: %d entries for %d bytes", ErrMismatch, len(sa), len(text))
	}

	enc := &encoder{w: bufio.NewWriterSize(w, bufferSize)}

	enc.writeUint64(uint64(len(sa)))
	for _, o := range sa {
		enc.writeInt32(int32(o))
	}
	enc.write([]byte(c))
	enc.writeByte('\n')

	switch c {
	case Huffman:
		enc.writeHuffman(text)
	case LZ78:
		enc.writeLZ78(text)
	}

	if enc.err != nil {
		return enc.err
	}
	return enc.w.Flush()
}

// encoder writes fields and keeps the first error.
type encoder struct {
	w       *bufio.Writer
	scratch [8]byte
	err     error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

func (e *encoder) writeUint64(v uint64) {
	binary.LittleEndian.PutUint64(e.scratch[:], v)
	e.write(e.scratch[:8])
}

func (e *encoder) writeInt32(v int32) {
	binary.LittleEndian.PutUint32(e.scratch[:], uint32(v))
	e.write(e.scratch[:4])
}

func (e *encoder) writeBits(buf *bitbuf.Buffer) {
	packed, err := packBits(buf)
	if err != nil {
		e.err = err
		return
	}
	if len(packed) > math.MaxInt32 {
		e.err = fmt.Errorf("%w: %d byte bit sequence", ErrTextTooLarge, len(packed))
		return
	}
	e.writeInt32(int32(len(packed)))
	e.write(packed)
}

func (e *encoder) writeHuffman(text []byte) {
	compressed, table := huffman.Encode(text)

	keys := make([]byte, 0, len(table))
	for sym := range table {
		keys = append(keys, sym)
	}
	slices.Sort(keys)

	e.writeUint64(uint64(len(keys)))
	for _, sym := range keys {
		e.writeByte(sym)
		e.writeBits(table[sym])
	}
	e.writeBits(compressed)
}

func (e *encoder) writeLZ78(text []byte) {
	pairs := lz78.Encode(text)

	e.writeUint64(uint64(len(pairs)))
	for _, p := range pairs {
		e.writeInt32(int32(p.Index))
		e.writeByte(p.Byte)
	}
}

// packBits packs buf most-significant bit first, adds the terminating 1
// bit and pads with zeros.
func packBits(buf *bitbuf.Buffer) ([]byte, error) {
	var out bytes.Buffer
	w := bitio.NewWriter(&out)
	for bit := range buf.All() {
		if err := w.WriteBool(bit); err != nil {
			return nil, fmt.Errorf("pack bits: %w", err)
		}
	}
	if err := w.WriteBool(true); err != nil {
		return nil, fmt.Errorf("pack bits: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("pack bits: %w", err)
	}
	return out.Bytes(), nil
}

// unpackBits reverses packBits.
func unpackBits(packed []byte) (*bitbuf.Buffer, error) {
	if len(packed) == 0 {
		return nil, fmt.Errorf("%w: empty bit sequence", ErrCorrupt)
	}
	last := packed[len(packed)-1]
	if last == 0 {
		return nil, fmt.Errorf("%w: bit sequence without terminator", ErrCorrupt)
	}

	n := len(packed)*8 - bits.TrailingZeros8(last) - 1
	buf := bitbuf.New()
	r := bitio.NewReader(bytes.NewReader(packed))
	for range n {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		buf.Push(bit)
	}
	return buf, nil
}

// Decode reads an index written by Encode. The returned Index has no Path.
func Decode(r io.Reader) (*Index, error) {
	dec := &decoder{r: bufio.NewReaderSize(r, bufferSize)}

	n, err := dec.readLength("suffix array length")
	if err != nil {
		return nil, err
	}
	sa := make([]int, 0, min(n, growStep))
	for range n {
		v, err := dec.readInt32()
		if err != nil {
			return nil, err
		}
		sa = append(sa, int(v))
	}

	c, err := dec.readTag()
	if err != nil {
		return nil, err
	}

	var text []byte
	switch c {
	case Huffman:
		text, err = dec.readHuffman(n)
	case LZ78:
		text, err = dec.readLZ78(n)
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.r.ReadByte(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrCorrupt)
	}

	if err := checkSuffixArray(sa, len(text)); err != nil {
		return nil, err
	}

	return &Index{Text: text, SuffixArray: sa, Compression: c, Kind: textkind.Classify(text)}, nil
}

// decoder reads fields, mapping short reads to ErrCorrupt.
type decoder struct {
	r       *bufio.Reader
	scratch [8]byte
}

func (d *decoder) readFull(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: unexpected end of file", ErrCorrupt)
		}
		return fmt.Errorf("read index: %w", err)
	}
	return nil
}

func (d *decoder) readUint64() (uint64, error) {
	if err := d.readFull(d.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(d.scratch[:8]), nil
}

func (d *decoder) readInt32() (int32, error) {
	if err := d.readFull(d.scratch[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(d.scratch[:4])), nil
}

func (d *decoder) readByte() (byte, error) {
	if err := d.readFull(d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

// readLength reads a uint64 count and checks it fits an int32 offset space.
func (d *decoder) readLength(field string) (int, error) {
	v, err := d.readUint64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %d", ErrCorrupt, field, v)
	}
	return int(v), nil
}

func (d *decoder) readTag() (Compression, error) {
	var tag []byte
	for {
		b, err := d.readByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if len(tag) == maxTagLen {
			return "", fmt.Errorf("%w: tag longer than %d bytes", ErrUnknownCompression, maxTagLen)
		}
		tag = append(tag, b)
	}

	c := Compression(tag)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, tag)
	}
	return c, nil
}

func (d *decoder) readBits() (*bitbuf.Buffer, error) {
	count, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: bit sequence of %d bytes", ErrCorrupt, count)
	}

	var packed bytes.Buffer
	if _, err := io.CopyN(&packed, d.r, int64(count)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: unexpected end of file", ErrCorrupt)
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	return unpackBits(packed.Bytes())
}

// readHuffman decodes a Huffman payload of at most maxLen bytes.
func (d *decoder) readHuffman(maxLen int) ([]byte, error) {
	size, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	if size > 256 {
		return nil, fmt.Errorf("%w: code table of %d entries", ErrCorrupt, size)
	}

	table := make(huffman.CodeTable, size)
	for range size {
		sym, err := d.readByte()
		if err != nil {
			return nil, err
		}
		code, err := d.readBits()
		if err != nil {
			return nil, err
		}
		if _, dup := table[sym]; dup {
			return nil, fmt.Errorf("%w: duplicate code table key 0x%02x", ErrCorrupt, sym)
		}
		table[sym] = code
	}

	compressed, err := d.readBits()
	if err != nil {
		return nil, err
	}

	text, err := huffman.DecodeTableLimit(compressed, table, maxLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return text, nil
}

// readLZ78 decodes an LZ78 payload of at most maxLen bytes. The bound is
// checked before each phrase is expanded.
func (d *decoder) readLZ78(maxLen int) ([]byte, error) {
	n, err := d.readLength("pair count")
	if err != nil {
		return nil, err
	}

	dec := lz78.NewDecoder()
	for i := range n {
		idx, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: pair %d has negative index %d", ErrCorrupt, i, idx)
		}
		if size, ok := dec.PhraseLen(int(idx)); ok && dec.Size()+size+1 > maxLen {
			return nil, fmt.Errorf("%w: %w: pair %d expands text past %d bytes", ErrCorrupt, ErrMismatch, i, maxLen)
		}
		if err := dec.Add(lz78.Pair{Index: int(idx), Byte: b}); err != nil {
			return nil, fmt.Errorf("%w: pair %d: %w", ErrCorrupt, i, err)
		}
	}
	return dec.Bytes(), nil
}

// checkSuffixArray verifies sa is a permutation of [0, n).
func checkSuffixArray(sa []int, n int) error {
	if len(sa) != n {
		return fmt.Errorf("%w: %w: %d entries for %d bytes", ErrCorrupt, ErrMismatch, len(sa), n)
	}
	seen := make([]bool, n)
	for i, o := range sa {
		if o < 0 || o >= n {
			return fmt.Errorf("%w: entry %d out of range: %d", ErrCorrupt, i, o)
		}
		if seen[o] {
			return fmt.Errorf("%w: entry %d repeats offset %d", ErrCorrupt, i, o)
		}
		seen[o] = true
	}
	return nil
}
