package huffman

import (
	"bytes"
	"container/heap"
	"errors"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// ErrEmptyFrequencyTable is returned by BuildTree when there is nothing to
// build a tree from.
var ErrEmptyFrequencyTable = errors.New("huffman: cannot build a tree from an empty frequency table")

const noChild = int32(-1)

// Node is one node of a Tree.  A leaf has Left == Right == -1 and carries a
// Symbol; an internal node has two children and Symbol == InvalidSymbol.
type Node struct {
	Freq   uint64
	Symbol Symbol
	Left   int32
	Right  int32
}

// IsLeaf returns true if this Node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == noChild
}

// Tree is a Huffman code tree.  Nodes live in a single slice and refer to
// their children by index.  A Tree is immutable once built, so it may be
// shared freely between an encoder and any number of decoders.
type Tree struct {
	nodes     []Node
	root      int32
	numLeaves int
}

// BuildTree constructs the Huffman tree for the given frequencies.
//
// The two lowest-frequency nodes are repeatedly merged, the first one popped
// becoming the left child.  Equal frequencies are ordered by sequence
// number: leaves are numbered in the table's insertion order, and each new
// internal node gets the next number.  The same table therefore always
// yields the same tree.
//
// A table with a single entry yields a tree consisting of one leaf.
//
func BuildTree(ft FrequencyTable) (*Tree, error) {
	numLeaves := ft.Len()
	if numLeaves == 0 {
		return nil, ErrEmptyFrequencyTable
	}

	// Step 1: one leaf per symbol, in insertion order.  The arena index
	// doubles as the tie-break sequence number.

	nodes := make([]Node, 0, 2*numLeaves-1)
	h := nodeHeap{nodes: &nodes, list: make([]int32, 0, numLeaves)}
	for _, sym := range ft.order {
		assert.Assertf(sym.IsValid(), "invalid symbol %d in frequency table", int32(sym))
		index := int32(len(nodes))
		nodes = append(nodes, Node{Freq: ft.counts[sym], Symbol: sym, Left: noChild, Right: noChild})
		h.list = append(h.list, index)
	}
	h.Init()

	// Step 2: merge until one node is left.

	for h.Len() > 1 {
		a := heap.Pop(&h).(int32)
		b := heap.Pop(&h).(int32)

		index := int32(len(nodes))
		nodes = append(nodes, Node{
			Freq:   saturatingAdd(nodes[a].Freq, nodes[b].Freq),
			Symbol: InvalidSymbol,
			Left:   a,
			Right:  b,
		})
		heap.Push(&h, index)
	}

	root := heap.Pop(&h).(int32)
	assert.Assertf(len(nodes) == 2*numLeaves-1, "expected %d nodes, got %d", 2*numLeaves-1, len(nodes))

	return &Tree{nodes: nodes, root: root, numLeaves: numLeaves}, nil
}

// Root returns the index of the root node.
func (t *Tree) Root() int32 {
	return t.root
}

// Node returns the node at the given index.
func (t *Tree) Node(index int32) Node {
	return t.nodes[index]
}

// Len returns the total number of nodes, leaves and internal nodes alike.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NumLeaves returns the number of leaves, i.e. the size of the alphabet.
func (t *Tree) NumLeaves() int {
	return t.numLeaves
}

// IsLeaf returns true if the node at the given index is a leaf.
func (t *Tree) IsLeaf(index int32) bool {
	return t.nodes[index].IsLeaf()
}

// Child returns the child reached from the node at the given index by
// following a 0 bit (left) or a 1 bit (right).  ok is false if there is no
// such child.
//
// A single-leaf tree is treated as if its root had a 0 edge to itself, so
// the lone symbol can still be coded with one bit.
//
func (t *Tree) Child(index int32, bit bool) (child int32, ok bool) {
	n := t.nodes[index]
	if n.IsLeaf() {
		if index == t.root && len(t.nodes) == 1 && !bit {
			return index, true
		}
		return noChild, false
	}
	if bit {
		return n.Right, true
	}
	return n.Left, true
}

// Dump writes a programmer-readable debugging dump of the tree to the given
// writer, one node per line, indented by depth.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")

	type stackItem struct {
		index int32
		depth int
	}
	stack := []stackItem{{t.root, 1}}
	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[top.index]
		for i := 0; i < top.depth; i++ {
			buf.WriteByte('\t')
		}
		if n.IsLeaf() {
			fmt.Fprintf(&buf, "%s: %d\n", n.Symbol, n.Freq)
			continue
		}
		fmt.Fprintf(&buf, "*: %d\n", n.Freq)
		stack = append(stack, stackItem{n.Right, top.depth + 1}, stackItem{n.Left, top.depth + 1})
	}

	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// type nodeHeap {{{

type nodeHeap struct {
	nodes *[]Node
	list  []int32
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	nodes := *h.nodes
	if fa, fb := nodes[a].Freq, nodes[b].Freq; fa != fb {
		return fa < fb
	}
	return a < b
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(int32))
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
