// Package lz78 implements the LZ78 dictionary codec.
//
// A text is encoded as a sequence of pairs, each naming an earlier phrase
// by dictionary index and the literal byte that extends it. Index 0 is
// the empty phrase. Encoder and Decoder grow their dictionaries by one
// entry per pair, so both agree on every index.
package lz78

import (
	"errors"
	"fmt"
)

// ErrUnknownIndex indicates a pair referencing a phrase not yet defined.
var ErrUnknownIndex = errors.New("lz78: unknown dictionary index")

// Pair is one encoded unit: the phrase at Index followed by Byte.
type Pair struct {
	Index int
	Byte  byte
}

// Encoder builds pairs one input byte at a time.
type Encoder struct {
	dict    map[string]int
	current []byte
	next    int
}

// NewEncoder returns an encoder whose dictionary holds only the empty phrase.
func NewEncoder() *Encoder {
	return &Encoder{
		dict: map[string]int{"": 0},
		next: 1,
	}
}

// Len returns the number of dictionary entries, including the empty phrase.
func (e *Encoder) Len() int {
	return e.next
}

// Add consumes one byte. It returns a pair and true when the byte closes a
// new phrase; otherwise the byte extends the current phrase.
func (e *Encoder) Add(b byte) (Pair, bool) {
	e.current = append(e.current, b)
	if _, ok := e.dict[string(e.current)]; ok {
		return Pair{}, false
	}

	pair := Pair{Index: e.dict[string(e.current[:len(e.current)-1])], Byte: b}
	e.dict[string(e.current)] = e.next
	e.next++
	e.current = e.current[:0]
	return pair, true
}

// Flush closes a pending phrase at end of input. The phrase already has
// an index, so it is emitted as its prefix plus its last byte. The entry
// is counted like any other so the decoder's dictionary stays in step.
func (e *Encoder) Flush() (Pair, bool) {
	if len(e.current) == 0 {
		return Pair{}, false
	}

	last := len(e.current) - 1
	pair := Pair{Index: e.dict[string(e.current[:last])], Byte: e.current[last]}
	e.next++
	e.current = e.current[:0]
	return pair, true
}

// Encode compresses text into pairs. Every text, including one ending in
// the middle of a known phrase, round-trips through Decode.
func Encode(text []byte) []Pair {
	enc := NewEncoder()
	pairs := make([]Pair, 0, len(text)/2+1)

	for _, b := range text {
		if pair, ok := enc.Add(b); ok {
			pairs = append(pairs, pair)
		}
	}
	if pair, ok := enc.Flush(); ok {
		pairs = append(pairs, pair)
	}

	return pairs
}

// span locates a phrase inside the decoder's output.
type span struct {
	start, end int
}

// Decoder expands pairs one at a time.
type Decoder struct {
	out     []byte
	phrases []span
}

// NewDecoder returns a decoder whose dictionary holds only the empty phrase.
func NewDecoder() *Decoder {
	return &Decoder{out: []byte{}, phrases: make([]span, 1)}
}

// Len returns the number of dictionary entries, including the empty phrase.
func (d *Decoder) Len() int {
	return len(d.phrases)
}

// PhraseLen returns the length of the phrase at index i, and false when i
// is not yet defined.
func (d *Decoder) PhraseLen(i int) (int, bool) {
	if i < 0 || i >= len(d.phrases) {
		return 0, false
	}
	return d.phrases[i].end - d.phrases[i].start, true
}

// Size returns the number of bytes decoded so far.
func (d *Decoder) Size() int {
	return len(d.out)
}

// Add appends the phrase a pair describes and binds it to the next index.
func (d *Decoder) Add(p Pair) error {
	if p.Index < 0 || p.Index >= len(d.phrases) {
		return fmt.Errorf("%w: %d, dictionary has %d entries", ErrUnknownIndex, p.Index, len(d.phrases))
	}

	prefix := d.phrases[p.Index]
	start := len(d.out)
	d.out = append(d.out, d.out[prefix.start:prefix.end]...)
	d.out = append(d.out, p.Byte)
	d.phrases = append(d.phrases, span{start: start, end: len(d.out)})
	return nil
}

// Bytes returns the text decoded so far.
func (d *Decoder) Bytes() []byte {
	return d.out
}

// Decode expands pairs back into text.
func Decode(pairs []Pair) ([]byte, error) {
	dec := NewDecoder()
	dec.out = make([]byte, 0, len(pairs)*2)
	dec.phrases = make([]span, 1, len(pairs)+1)

	for i, p := range pairs {
		if err := dec.Add(p); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
	}

	return dec.Bytes(), nil
}
