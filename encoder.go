package huffman

import (
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// ErrUnmappedSymbol is matched by every UnmappedSymbolError.
var ErrUnmappedSymbol = errors.New("huffman: symbol has no codeword")

// UnmappedSymbolError is returned when a symbol to encode has no entry in
// the CodeTable.  This means the table was derived from a different text.
type UnmappedSymbolError struct {
	Symbol Symbol
	Index  int
}

func (err *UnmappedSymbolError) Error() string {
	return fmt.Sprintf("huffman: symbol %s at index %d has no codeword", err.Symbol, err.Index)
}

func (err *UnmappedSymbolError) Is(target error) bool {
	return target == ErrUnmappedSymbol
}

// Encoder maps symbols to codewords.
type Encoder struct {
	table CodeTable
}

// NewEncoder returns an Encoder that uses the given table.
func NewEncoder(table CodeTable) *Encoder {
	return &Encoder{table: table}
}

// Encode concatenates the codewords of symbols, in order.  The caller is
// responsible for terminating the message with EndOfStream.
func (e *Encoder) Encode(symbols []Symbol) (*Bitstream, error) {
	nbits, err := e.EncodedSize(symbols)
	if err != nil {
		return nil, err
	}

	bs := &Bitstream{buf: make([]byte, 0, (nbits+7)/8)}
	for _, sym := range symbols {
		bs.WriteCode(e.table.codes[sym])
	}
	return bs, nil
}

// EncodeString encodes text followed by EndOfStream.
func (e *Encoder) EncodeString(text string) (*Bitstream, error) {
	return e.Encode(append(SymbolsOf(text), EndOfStream))
}

// EncodeTo encodes text followed by EndOfStream and writes the packed bits to
// w, padding the final byte with zeroes.  It returns the number of bits
// written, padding excluded.
func (e *Encoder) EncodeTo(w io.Writer, text string) (int64, error) {
	symbols := append(SymbolsOf(text), EndOfStream)
	if _, err := e.EncodedSize(symbols); err != nil {
		return 0, err
	}

	bw := bitio.NewWriter(w)
	var nbits int64
	for _, sym := range symbols {
		hc := e.table.codes[sym]
		if err := bw.WriteBits(hc.Reversed().Bits, hc.Size); err != nil {
			return nbits, err
		}
		nbits += int64(hc.Size)
	}
	if err := bw.Close(); err != nil {
		return nbits, err
	}
	return nbits, nil
}

// EncodedSize returns the number of bits Encode would produce for symbols.
func (e *Encoder) EncodedSize(symbols []Symbol) (uint64, error) {
	var nbits uint64
	for index, sym := range symbols {
		hc, found := e.table.codes[sym]
		if !found {
			return 0, &UnmappedSymbolError{Symbol: sym, Index: index}
		}
		nbits += uint64(hc.Size)
	}
	return nbits, nil
}

// Dump writes a programmer-readable debugging dump of the Encoder's current
// state to the given writer.
func (e *Encoder) Dump(w io.Writer) (int64, error) {
	return e.table.Dump(w)
}
