package huffman

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/yaklabco/ipmt/pkg/bitbuf"
)

// noChild marks an absent child or an absent root.
const noChild = -1

// node is one entry of a Tree's arena. Children are indexes into the
// same arena.
type node struct {
	freq  int
	sym   byte
	leaf  bool
	left  int
	right int
}

// Tree is a Huffman code tree stored as an arena of nodes.
//
// A tree is built either from byte frequencies (for encoding) or from a
// CodeTable (for decoding). The zero value is an empty tree.
type Tree struct {
	nodes []node
	root  int
}

// Empty reports whether the tree has no symbols.
func (t *Tree) Empty() bool {
	return t == nil || len(t.nodes) == 0
}

// Leaves returns the number of symbols in the tree.
func (t *Tree) Leaves() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, nd := range t.nodes {
		if nd.leaf {
			n++
		}
	}
	return n
}

func (t *Tree) addLeaf(sym byte, freq int) int {
	t.nodes = append(t.nodes, node{freq: freq, sym: sym, leaf: true, left: noChild, right: noChild})
	return len(t.nodes) - 1
}

func (t *Tree) addInternal(left, right, freq int) int {
	t.nodes = append(t.nodes, node{freq: freq, left: left, right: right})
	return len(t.nodes) - 1
}

// Frequencies returns the byte histogram of text.
func Frequencies(text []byte) [256]int {
	var freq [256]int
	for _, b := range text {
		freq[b]++
	}
	return freq
}

// BuildTree builds a Huffman tree from a byte histogram by repeatedly
// merging the two lowest-frequency nodes.
//
// Leaves are queued in ascending byte order and merged nodes receive
// increasing sequence numbers; equal frequencies are ordered by sequence.
// A histogram with a single non-zero entry yields a tree whose root is
// that leaf. An all-zero histogram yields an empty tree.
func BuildTree(freq [256]int) *Tree {
	tree := &Tree{root: noChild}
	queue := &nodeQueue{}

	seq := 0
	for sym, count := range freq {
		if count == 0 {
			continue
		}
		idx := tree.addLeaf(byte(sym), count)
		queue.items = append(queue.items, queueItem{node: idx, freq: count, seq: seq})
		seq++
	}

	if queue.Len() == 0 {
		return tree
	}
	heap.Init(queue)

	for queue.Len() > 1 {
		a := heap.Pop(queue).(queueItem)
		b := heap.Pop(queue).(queueItem)

		idx := tree.addInternal(a.node, b.node, a.freq+b.freq)
		heap.Push(queue, queueItem{node: idx, freq: a.freq + b.freq, seq: seq})
		seq++
	}

	tree.root = heap.Pop(queue).(queueItem).node
	return tree
}

// Table derives the code table of the tree: each symbol's codeword is its
// path from the root, 0 for left and 1 for right. A tree holding a single
// symbol at the root assigns it the codeword "0".
func (t *Tree) Table() CodeTable {
	table := make(CodeTable)
	if t.Empty() {
		return table
	}

	if root := t.nodes[t.root]; root.leaf {
		code := bitbuf.New()
		code.Push(false)
		table[root.sym] = code
		return table
	}

	var walk func(idx int, path []bool)
	walk = func(idx int, path []bool) {
		if idx == noChild {
			return
		}
		nd := t.nodes[idx]
		if nd.leaf {
			code := bitbuf.New()
			for _, bit := range path {
				code.Push(bit)
			}
			table[nd.sym] = code
			return
		}
		walk(nd.left, append(path, false))
		walk(nd.right, append(path, true))
	}
	walk(t.root, make([]bool, 0, 16))

	return table
}

// BuildTreeFromTable rebuilds a decoding tree from a code table. Each
// codeword is followed from the root, creating internal nodes on demand,
// and its final step is bound to a leaf for the key.
//
// The table must be prefix-free and contain no empty codeword.
func BuildTreeFromTable(table CodeTable) (*Tree, error) {
	tree := &Tree{root: noChild}
	if len(table) == 0 {
		return tree, nil
	}

	tree.root = tree.addInternal(noChild, noChild, 0)

	keys := make([]byte, 0, len(table))
	for sym := range table {
		keys = append(keys, sym)
	}
	slices.Sort(keys)

	for _, sym := range keys {
		code := table[sym]
		if code == nil || code.Len() == 0 {
			return nil, fmt.Errorf("%w: empty codeword for byte 0x%02x", ErrInvalidCode, sym)
		}

		cur := tree.root
		last := code.Len() - 1
		for i := range code.Len() {
			bit, err := code.Get(i)
			if err != nil {
				return nil, err
			}

			next := tree.child(cur, bit)
			switch {
			case next == noChild && i == last:
				next = tree.addLeaf(sym, 0)
			case next == noChild:
				next = tree.addInternal(noChild, noChild, 0)
			case tree.nodes[next].leaf || i == last:
				return nil, fmt.Errorf("%w: codeword %s of byte 0x%02x", ErrNotPrefixFree, code, sym)
			}
			tree.setChild(cur, bit, next)
			cur = next
		}
	}

	return tree, nil
}

func (t *Tree) child(idx int, bit bool) int {
	if bit {
		return t.nodes[idx].right
	}
	return t.nodes[idx].left
}

func (t *Tree) setChild(idx int, bit bool, child int) {
	if bit {
		t.nodes[idx].right = child
	} else {
		t.nodes[idx].left = child
	}
}

// queueItem is a pending subtree in the merge queue.
type queueItem struct {
	node int
	freq int
	seq  int
}

// nodeQueue is a min-heap ordered by (freq, seq).
type nodeQueue struct {
	items []queueItem
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.items[i].freq != q.items[j].freq {
		return q.items[i].freq < q.items[j].freq
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *nodeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *nodeQueue) Push(x any) { q.items = append(q.items, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	last := len(q.items) - 1
	item := q.items[last]
	q.items = q.items[:last]
	return item
}
