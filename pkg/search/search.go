// Package search answers substring queries against a text and its suffix
// array.
package search

import (
	"bytes"
	"slices"
	"sort"
)

// Find returns the sorted offsets of every occurrence of pattern in text.
// sa must be the suffix array of text. An empty pattern matches nothing.
//
// The occurrences form one contiguous range of sa; two binary searches
// locate its ends, comparing each suffix truncated to len(pattern) bytes.
func Find(pattern, text []byte, sa []int) []int {
	lo, hi := Range(pattern, text, sa)
	if lo == hi {
		return []int{}
	}

	offsets := slices.Clone(sa[lo:hi])
	slices.Sort(offsets)
	return offsets
}

// Count returns the number of occurrences of pattern in text.
func Count(pattern, text []byte, sa []int) int {
	lo, hi := Range(pattern, text, sa)
	return hi - lo
}

// Range returns the half-open interval of sa holding the suffixes that
// start with pattern.
func Range(pattern, text []byte, sa []int) (int, int) {
	if len(pattern) == 0 {
		return 0, 0
	}

	lo := sort.Search(len(sa), func(i int) bool {
		return comparePrefix(text, sa[i], pattern) >= 0
	})
	hi := lo + sort.Search(len(sa)-lo, func(i int) bool {
		return comparePrefix(text, sa[lo+i], pattern) > 0
	})
	return lo, hi
}

// comparePrefix compares the first len(pattern) bytes of the suffix at
// offset with pattern. A suffix shorter than pattern compares by what it
// has, so a proper prefix of pattern sorts before it.
func comparePrefix(text []byte, offset int, pattern []byte) int {
	end := min(offset+len(pattern), len(text))
	return bytes.Compare(text[offset:end], pattern)
}

// Naive scans text for pattern at every offset. It serves as the
// reference for Find in tests.
func Naive(pattern, text []byte) []int {
	offsets := []int{}
	if len(pattern) == 0 {
		return offsets
	}
	for i := 0; i+len(pattern) <= len(text); i++ {
		if bytes.Equal(text[i:i+len(pattern)], pattern) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
