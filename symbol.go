package huffman

import (
	"fmt"
	"strconv"
	"unicode"
)

// Symbol represents a symbol in the alphabet of a message.  Non-negative
// symbols are Unicode code points; negative symbols are reserved.
type Symbol int32

// MaxSymbol is the maximum valid data symbol.
const MaxSymbol = Symbol(unicode.MaxRune)

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(-1)

// EndOfStream is the sentinel that terminates every encoded message.  It is
// negative, so no code point can ever collide with it.
const EndOfStream = Symbol(-2)

// IsData returns true if this Symbol is a code point rather than a reserved
// value.
func (sym Symbol) IsData() bool {
	return sym >= 0 && sym <= MaxSymbol
}

// IsValid returns true if this Symbol may appear in a FrequencyTable.
func (sym Symbol) IsValid() bool {
	return sym == EndOfStream || sym.IsData()
}

// String returns the string representation of this Symbol.
func (sym Symbol) String() string {
	switch {
	case sym == EndOfStream:
		return "EOS"
	case sym.IsData():
		return strconv.QuoteRune(rune(sym))
	default:
		return "INVALID"
	}
}

var _ fmt.Stringer = Symbol(0)

// SymbolsOf splits text into one Symbol per code point.  Invalid UTF-8
// bytes become U+FFFD.  The result does not include EndOfStream.
func SymbolsOf(text string) []Symbol {
	out := make([]Symbol, 0, len(text))
	for _, ch := range text {
		out = append(out, Symbol(ch))
	}
	return out
}

func symbolsToString(symbols []Symbol) string {
	runes := make([]rune, len(symbols))
	for i, sym := range symbols {
		runes[i] = rune(sym)
	}
	return string(runes)
}
