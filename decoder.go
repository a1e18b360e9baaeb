package huffman

import (
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// ErrCorruptStream is matched by every CorruptStreamError.
var ErrCorruptStream = errors.New("huffman: corrupt bitstream")

// ErrTruncatedStream is returned when the bits run out before EndOfStream
// has been decoded.
var ErrTruncatedStream = errors.New("huffman: bitstream ended before end-of-stream symbol")

// CorruptStreamError is returned when a bit leads to a child the tree does
// not have.
type CorruptStreamError struct {
	Offset uint64
	Bit    bool
}

func (err *CorruptStreamError) Error() string {
	b := 0
	if err.Bit {
		b = 1
	}
	return fmt.Sprintf("huffman: corrupt bitstream: bit %d at offset %d leads nowhere", b, err.Offset)
}

func (err *CorruptStreamError) Is(target error) bool {
	return target == ErrCorruptStream
}

// Decoder reconstructs messages by walking a Tree.
type Decoder struct {
	tree *Tree
}

// NewDecoder returns a Decoder for the given tree.  The tree must be the one
// the encoder's CodeTable was derived from.
func NewDecoder(tree *Tree) *Decoder {
	return &Decoder{tree: tree}
}

// Decode decodes bs up to and excluding EndOfStream.  Any bits after
// EndOfStream are ignored.  On error, the symbols decoded so far are
// returned along with it.
func (d *Decoder) Decode(bs *Bitstream) ([]Symbol, error) {
	var out []Symbol
	c := d.newCursor()
	for i := uint64(0); i < bs.n; i++ {
		sym, err := c.step(bs.Bit(i))
		if err != nil {
			return out, err
		}
		switch sym {
		case InvalidSymbol:
			// mid-codeword
		case EndOfStream:
			return out, nil
		default:
			out = append(out, sym)
		}
	}
	return out, ErrTruncatedStream
}

// DecodeString is Decode, returning the message as a string.
func (d *Decoder) DecodeString(bs *Bitstream) (string, error) {
	symbols, err := d.Decode(bs)
	if err != nil {
		return "", err
	}
	return symbolsToString(symbols), nil
}

// DecodeFrom reads packed bits from r until EndOfStream is decoded.  r may be
// read past the end of the message.
func (d *Decoder) DecodeFrom(r io.Reader) (string, error) {
	br := bitio.NewReader(r)
	var out []Symbol
	c := d.newCursor()
	for {
		bit, err := br.ReadBool()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", ErrTruncatedStream
		}
		if err != nil {
			return "", fmt.Errorf("huffman: failed to read encoded data: %w", err)
		}
		sym, err := c.step(bit)
		if err != nil {
			return "", err
		}
		switch sym {
		case InvalidSymbol:
			// mid-codeword
		case EndOfStream:
			return symbolsToString(out), nil
		default:
			out = append(out, sym)
		}
	}
}

// cursor is the decoding state machine.  It rests at the root between
// codewords and at an internal node in the middle of one; reaching a leaf
// emits that leaf's symbol and returns the cursor to the root.
type cursor struct {
	tree   *Tree
	index  int32
	offset uint64
}

func (d *Decoder) newCursor() cursor {
	return cursor{tree: d.tree, index: d.tree.root}
}

// step consumes one bit.  It returns the emitted symbol, or InvalidSymbol if
// the bit did not complete a codeword.
func (c *cursor) step(bit bool) (Symbol, error) {
	offset := c.offset
	c.offset++

	child, ok := c.tree.Child(c.index, bit)
	if !ok {
		return InvalidSymbol, &CorruptStreamError{Offset: offset, Bit: bit}
	}

	n := c.tree.nodes[child]
	if !n.IsLeaf() {
		c.index = child
		return InvalidSymbol, nil
	}

	c.index = c.tree.root
	return n.Symbol, nil
}
