// Package suffixarray builds suffix arrays with the Manber–Myers prefix
// doubling algorithm.
//
// The array of a text of length n is the permutation of [0, n) listing the
// start offsets of all suffixes in lexicographic order, a shorter suffix
// sorting before any longer suffix it is a prefix of.
package suffixarray

import (
	"bytes"
	"slices"
)

// Build returns the suffix array of text in O(n log n) time.
//
// Suffixes are first bucket-sorted by their first byte. Each round then
// doubles h: within every h-bucket, suffixes are reordered by the bucket
// of the suffix starting h bytes later, which sorts them by their first
// 2h bytes. The loop stops once every suffix sits in its own bucket.
func Build(text []byte) []int {
	n := len(text)
	switch n {
	case 0:
		return []int{}
	case 1:
		return []int{0}
	}

	s := newSorter(n)
	s.sortFirstByte(text)

	for h := 1; h < n; h <<= 1 {
		if s.rankBuckets() == n {
			break
		}
		s.refine(h)
	}

	return s.pos
}

// sorter holds the working arrays of one Build call.
type sorter struct {
	n int

	// pos lists suffix offsets in current order.
	pos []int

	// prm is the inverse of pos, except that during refine every suffix
	// of a bucket is first ranked at the bucket's left boundary.
	prm []int

	// count is the number of suffixes already moved to the front of the
	// bucket starting at each rank.
	count []int

	// bh marks the left boundary of each h-bucket; b2h marks the
	// boundaries of the 2h-buckets under construction. Both carry a
	// sentinel at index n.
	bh  []bool
	b2h []bool
}

func newSorter(n int) *sorter {
	return &sorter{
		n:     n,
		pos:   make([]int, n),
		prm:   make([]int, n),
		count: make([]int, n),
		bh:    make([]bool, n+1),
		b2h:   make([]bool, n+1),
	}
}

// sortFirstByte places suffixes in pos by first byte with a counting sort
// and marks the resulting 1-buckets.
func (s *sorter) sortFirstByte(text []byte) {
	var start [257]int
	for _, b := range text {
		start[int(b)+1]++
	}
	for c := 1; c <= 256; c++ {
		start[c] += start[c-1]
	}

	next := start
	for i, b := range text {
		s.pos[next[b]] = i
		next[b]++
	}

	for c := range 256 {
		if start[c] < start[c+1] {
			s.bh[start[c]] = true
		}
	}
	s.bh[s.n] = true
}

// rankBuckets sets every suffix's rank to the left boundary of its
// bucket, resets the per-bucket counters, and returns the bucket count.
func (s *sorter) rankBuckets() int {
	buckets := 0
	for left := 0; left < s.n; {
		right := left + 1
		for !s.bh[right] {
			right++
		}
		s.count[left] = 0
		for c := left; c < right; c++ {
			s.prm[s.pos[c]] = left
		}
		buckets++
		left = right
	}
	return buckets
}

// refine splits every h-bucket into 2h-buckets.
func (s *sorter) refine(h int) {
	n := s.n

	// The suffix of length h sorts first in its bucket: its h-successor
	// is the empty string.
	s.moveToFront(n - h)

	for left := 0; left < n; {
		right := left + 1
		for !s.bh[right] {
			right++
		}

		for c := left; c < right; c++ {
			if d := s.pos[c] - h; d >= 0 {
				s.moveToFront(d)
			}
		}

		// Only the first suffix moved from each target bucket keeps its
		// 2h boundary; later ones in the same run belong to it.
		for c := left; c < right; c++ {
			if d := s.pos[c] - h; d >= 0 && s.b2h[s.prm[d]] {
				for f := s.prm[d] + 1; !s.bh[f] && s.b2h[f]; f++ {
					s.b2h[f] = false
				}
			}
		}

		left = right
	}

	for i := range n {
		s.pos[s.prm[i]] = i
		s.bh[i] = s.bh[i] || s.b2h[i]
	}
}

// moveToFront ranks suffix d at the next free slot of its bucket and marks
// that slot as a candidate 2h boundary.
func (s *sorter) moveToFront(d int) {
	bucket := s.prm[d]
	s.prm[d] = bucket + s.count[bucket]
	s.count[bucket]++
	s.b2h[s.prm[d]] = true
}

// Naive returns the suffix array of text by sorting all suffixes with
// full comparisons. It is O(n² log n) and serves as a reference for
// testing Build.
func Naive(text []byte) []int {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	slices.SortFunc(sa, func(a, b int) int {
		return bytes.Compare(text[a:], text[b:])
	})
	return sa
}

// Verify reports whether sa is a suffix array of text: a permutation of
// [0, n) whose suffixes are in non-decreasing order.
func Verify(text []byte, sa []int) bool {
	n := len(text)
	if len(sa) != n {
		return false
	}

	seen := make([]bool, n)
	for _, o := range sa {
		if o < 0 || o >= n || seen[o] {
			return false
		}
		seen[o] = true
	}

	for i := 1; i < n; i++ {
		if bytes.Compare(text[sa[i-1]:], text[sa[i]:]) > 0 {
			return false
		}
	}
	return true
}
