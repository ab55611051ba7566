// Package bitbuf provides a growable, append-only sequence of bits.
//
// Bits are packed into bytes least-significant bit first: bit i of the
// buffer lives in byte i/8 at position i%8. Both codecs produce their
// output as a Buffer, and the index format decides how the packed bits
// are laid out on disk.
package bitbuf

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// wordSize is the number of bits held by one backing byte.
const wordSize = 8

// defaultCapacity is the initial number of backing bytes.
const defaultCapacity = 1

// ErrOutOfRange is returned when a bit index is outside the buffer.
var ErrOutOfRange = errors.New("bit index out of range")

// Buffer is an ordered sequence of bits.
//
// The zero value is an empty buffer ready to use. A Buffer is not safe
// for concurrent mutation.
type Buffer struct {
	// data is the backing storage; len(data) is the capacity in bytes.
	data []byte

	// size is the logical number of bits.
	size int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{data: make([]byte, defaultCapacity)}
}

// Parse builds a buffer from a string of '0' and '1' characters.
func Parse(bits string) (*Buffer, error) {
	buf := New()
	for i, c := range bits {
		switch c {
		case '0':
			buf.Push(false)
		case '1':
			buf.Push(true)
		default:
			return nil, fmt.Errorf("parse bits: invalid character %q at %d", c, i)
		}
	}
	return buf, nil
}

// Len returns the number of bits in the buffer.
func (b *Buffer) Len() int {
	return b.size
}

// Cap returns the capacity of the backing storage in bits.
func (b *Buffer) Cap() int {
	return len(b.data) * wordSize
}

// grow doubles the backing storage.
func (b *Buffer) grow() {
	newCap := len(b.data) << 1
	if newCap == 0 {
		newCap = defaultCapacity
	}
	data := make([]byte, newCap)
	copy(data, b.data)
	b.data = data
}

// Push appends one bit.
func (b *Buffer) Push(bit bool) {
	if b.size == len(b.data)*wordSize {
		b.grow()
	}

	word, offset := b.size/wordSize, uint(b.size%wordSize)
	if bit {
		b.data[word] |= 1 << offset
	} else {
		b.data[word] &^= 1 << offset
	}
	b.size++
}

// AppendByte appends the 8 bits of v, least-significant bit first.
func (b *Buffer) AppendByte(v byte) {
	for i := range wordSize {
		b.Push(v&(1<<uint(i)) != 0)
	}
}

// AppendBuffer appends every bit of other, in order.
func (b *Buffer) AppendBuffer(other *Buffer) {
	if other == nil {
		return
	}
	for i := range other.size {
		b.Push(other.bit(i))
	}
}

// Get returns the i-th bit.
func (b *Buffer) Get(i int) (bool, error) {
	if i < 0 || i >= b.size {
		return false, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, b.size)
	}
	return b.bit(i), nil
}

// bit returns the i-th bit without bounds checking against size.
func (b *Buffer) bit(i int) bool {
	return b.data[i/wordSize]&(1<<uint(i%wordSize)) != 0
}

// All iterates over the bits in order.
func (b *Buffer) All() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for i := range b.size {
			if !yield(b.bit(i)) {
				return
			}
		}
	}
}

// Bytes returns a copy of the packed bits, ceil(Len/8) bytes long.
// Bits past Len in the last byte are zero.
func (b *Buffer) Bytes() []byte {
	n := (b.size + wordSize - 1) / wordSize
	out := make([]byte, n)
	copy(out, b.data[:n])
	if rem := b.size % wordSize; rem != 0 {
		out[n-1] &= byte(1<<uint(rem)) - 1
	}
	return out
}

// Clone returns a buffer holding the same bits. The copy's capacity is
// sized to its content, not to the source's capacity.
func (b *Buffer) Clone() *Buffer {
	data := b.Bytes()
	if len(data) == 0 {
		data = make([]byte, defaultCapacity)
	}
	return &Buffer{data: data, size: b.size}
}

// Equal reports whether both buffers hold the same bit sequence.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.size != other.size {
		return false
	}
	for i := range b.size {
		if b.bit(i) != other.bit(i) {
			return false
		}
	}
	return true
}

// Reset empties the buffer, keeping its storage.
func (b *Buffer) Reset() {
	clear(b.data)
	b.size = 0
}

// String renders the bits as '0' and '1' characters in order.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.size)
	for i := range b.size {
		if b.bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
