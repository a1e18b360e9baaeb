package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/chronos-tachyon/assert"
)

// ErrCodeTooLong is returned by DeriveCodeTable when the tree is so deep
// that some codeword would not fit in a Code.
var ErrCodeTooLong = errors.New("huffman: codeword exceeds 64 bits")

// CodeTable maps each Symbol of a Tree to its codeword.  Codewords are the
// root-to-leaf paths of the tree, 0 for left and 1 for right, so no
// codeword is a prefix of another.
type CodeTable struct {
	codes   map[Symbol]Code
	order   []Symbol
	minSize byte
	maxSize byte
}

// DeriveCodeTable walks the tree depth-first, left before right, and binds
// each leaf's symbol to the path leading to it.
//
// A tree consisting of a single leaf gets the one-bit code "0" for its only
// symbol, matching the virtual 0 edge that Tree.Child reports for it.
//
func DeriveCodeTable(t *Tree) (CodeTable, error) {
	ct := CodeTable{
		codes: make(map[Symbol]Code, t.numLeaves),
		order: make([]Symbol, 0, t.numLeaves),
	}

	root := t.nodes[t.root]
	if root.IsLeaf() {
		ct.bind(root.Symbol, MakeCode(1, 0))
		return ct, nil
	}

	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children
	//
	// Only internal nodes get pushed; leaves are bound as soon as they are
	// seen.

	type stackItem struct {
		index int32
		code  Code
		x     byte
	}

	stack := make([]stackItem, 0, log2uint64(uint64(t.numLeaves))+1)
	stack = append(stack, stackItem{index: t.root})

	processChild := func(child int32, code Code) error {
		if code.Size > maxBitsPerCode {
			return fmt.Errorf("%w: tree depth exceeds %d", ErrCodeTooLong, maxBitsPerCode)
		}
		n := t.nodes[child]
		if n.IsLeaf() {
			ct.bind(n.Symbol, code)
			return nil
		}
		stack = append(stack, stackItem{index: child, code: code})
		return nil
	}

	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		n := t.nodes[top.index]
		x := top.x
		top.x++

		var err error
		switch x {
		case 0:
			err = processChild(n.Left, appendChecked(top.code, false))
		case 1:
			err = processChild(n.Right, appendChecked(top.code, true))
		case 2:
			stack = stack[:len(stack)-1]
		}
		if err != nil {
			return CodeTable{}, err
		}
	}

	assert.Assertf(len(ct.codes) == t.numLeaves, "bound %d codes for %d leaves", len(ct.codes), t.numLeaves)
	return ct, nil
}

// appendChecked is Code.Append, except that a full Code grows to an
// oversized one instead of wrapping, so the caller can detect the overflow.
func appendChecked(hc Code, bit bool) Code {
	if hc.Size >= maxBitsPerCode {
		return Code{Size: maxBitsPerCode + 1}
	}
	return hc.Append(bit)
}

func (ct *CodeTable) bind(sym Symbol, hc Code) {
	assert.Assertf(ct.codes[sym].Size == 0, "symbol %s appears in more than one leaf", sym)
	if len(ct.order) == 0 || ct.minSize > hc.Size {
		ct.minSize = hc.Size
	}
	if ct.maxSize < hc.Size {
		ct.maxSize = hc.Size
	}
	ct.codes[sym] = hc
	ct.order = append(ct.order, sym)
}

// Lookup returns the codeword for sym.
func (ct CodeTable) Lookup(sym Symbol) (Code, bool) {
	hc, found := ct.codes[sym]
	return hc, found
}

// Len returns the number of symbols in the table.
func (ct CodeTable) Len() int {
	return len(ct.order)
}

// Symbols returns the symbols in the order their leaves were visited.
func (ct CodeTable) Symbols() []Symbol {
	out := make([]Symbol, len(ct.order))
	copy(out, ct.order)
	return out
}

// MinSize is the bit length of the shortest codeword.
func (ct CodeTable) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest codeword.
func (ct CodeTable) MaxSize() byte {
	return ct.maxSize
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer, sorted by codeword.
func (ct CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	sorted := make(byCode, 0, len(ct.order))
	for _, sym := range ct.order {
		sorted = append(sorted, symbolAndCode{sym, ct.codes[sym]})
	}
	sorted.Sort()
	for _, item := range sorted {
		fmt.Fprintf(&buf, "\tLookup(%s) = %s\n", item.symbol, item.code)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// type symbolAndCode + type byCode {{{

type symbolAndCode struct {
	symbol Symbol
	code   Code
}

type byCode []symbolAndCode

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	a, b := list[i].code, list[j].code
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	return a.Reversed().Bits < b.Reversed().Bits
}

var _ sort.Interface = byCode(nil)

// }}}
