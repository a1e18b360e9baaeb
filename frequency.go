package huffman

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a text source is not valid UTF-8.  Such
// text cannot be represented as code points without losing bytes.
var ErrInvalidUTF8 = errors.New("huffman: text is not valid UTF-8")

// FrequencyTable maps each Symbol to its number of occurrences.  It
// remembers the order in which symbols were first added, and every method
// that enumerates symbols uses that order; this is what makes BuildTree
// reproducible.
//
// The zero value is an empty table ready for use.
//
type FrequencyTable struct {
	counts map[Symbol]uint64
	order  []Symbol
}

// CountFrequencies counts the code points of text and appends EndOfStream
// with a count of 0.  Invalid UTF-8 is counted as U+FFFD; ReadFrequencies
// and NewArchive reject it instead.
func CountFrequencies(text string) FrequencyTable {
	var ft FrequencyTable
	for _, ch := range text {
		ft.Add(Symbol(ch), 1)
	}
	ft.Add(EndOfStream, 0)
	return ft
}

// CountSymbols counts the given symbols and adds EndOfStream with a count of
// 0 if it is not already present.
func CountSymbols(symbols []Symbol) FrequencyTable {
	var ft FrequencyTable
	for _, sym := range symbols {
		ft.Add(sym, 1)
	}
	ft.Add(EndOfStream, 0)
	return ft
}

// ReadFrequencies reads the whole text source from r and counts it.  The
// text itself is returned as well, since the caller nearly always needs it
// to encode.
func ReadFrequencies(r io.Reader) (FrequencyTable, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return FrequencyTable{}, "", fmt.Errorf("huffman: failed to read text source: %w", err)
	}
	if !utf8.Valid(raw) {
		return FrequencyTable{}, "", fmt.Errorf("huffman: failed to read text source: %w", ErrInvalidUTF8)
	}
	text := string(raw)
	return CountFrequencies(text), text, nil
}

// Add adds n occurrences of sym.  Adding 0 occurrences of an absent symbol
// still inserts it.
func (ft *FrequencyTable) Add(sym Symbol, n uint64) {
	if ft.counts == nil {
		ft.counts = make(map[Symbol]uint64)
	}
	count, found := ft.counts[sym]
	if !found {
		ft.order = append(ft.order, sym)
	}
	ft.counts[sym] = saturatingAdd(count, n)
}

// Count returns the number of occurrences of sym.
func (ft FrequencyTable) Count(sym Symbol) uint64 {
	return ft.counts[sym]
}

// Contains returns true if sym has an entry, even one with a count of 0.
func (ft FrequencyTable) Contains(sym Symbol) bool {
	_, found := ft.counts[sym]
	return found
}

// Len returns the number of distinct symbols.
func (ft FrequencyTable) Len() int {
	return len(ft.order)
}

// Symbols returns the symbols in first-insertion order.
func (ft FrequencyTable) Symbols() []Symbol {
	out := make([]Symbol, len(ft.order))
	copy(out, ft.order)
	return out
}

// Total returns the sum of all counts.
func (ft FrequencyTable) Total() uint64 {
	var sum uint64
	for _, sym := range ft.order {
		sum = saturatingAdd(sum, ft.counts[sym])
	}
	return sum
}

// Dump writes a programmer-readable debugging dump of the table to the
// given writer.
func (ft FrequencyTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyTable{\n")
	for _, sym := range ft.order {
		fmt.Fprintf(&buf, "\t%s: %d\n", sym, ft.counts[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// MarshalJSON encodes the table as an array of [symbol, count] pairs, in
// insertion order.
func (ft FrequencyTable) MarshalJSON() ([]byte, error) {
	pairs := make([][2]int64, len(ft.order))
	for i, sym := range ft.order {
		count := ft.counts[sym]
		if count > uint64(1)<<53 {
			return nil, fmt.Errorf("huffman: count %d for symbol %s is too large for JSON", count, sym)
		}
		pairs[i] = [2]int64{int64(sym), int64(count)}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (ft *FrequencyTable) UnmarshalJSON(raw []byte) error {
	var pairs [][]int64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return err
	}

	var tmp FrequencyTable
	for i, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("huffman: frequency table entry %d has %d elements, expected 2", i, len(pair))
		}
		sym, count := pair[0], pair[1]
		if sym < int64(EndOfStream) || sym > int64(MaxSymbol) || !Symbol(sym).IsValid() {
			return fmt.Errorf("huffman: invalid symbol %d in frequency table", sym)
		}
		if Symbol(sym).IsData() && !utf8.ValidRune(rune(sym)) {
			return fmt.Errorf("huffman: invalid code point U+%04X in frequency table", sym)
		}
		if count < 0 {
			return fmt.Errorf("huffman: negative count %d for symbol %s", count, Symbol(sym))
		}
		if tmp.Contains(Symbol(sym)) {
			return fmt.Errorf("huffman: duplicate symbol %s in frequency table", Symbol(sym))
		}
		tmp.Add(Symbol(sym), uint64(count))
	}
	*ft = tmp
	return nil
}

var _ json.Marshaler = FrequencyTable{}
var _ json.Unmarshaler = (*FrequencyTable)(nil)
