package huffman

import (
	"fmt"
	mathbits "math/bits"
	"strconv"
)

// maxBitsPerCode is the longest codeword a Code can hold.
const maxBitsPerCode = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The least significant bit
	// of Bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// MakeReversedCode constructs a Code from a sequence of bits that's in the
// wrong order, i.e. the least significant bit is the *last* bit in the
// sequence, instead of the first.
func MakeReversedCode(size byte, bits uint64) Code {
	return MakeCode(size, reverseBits(size, bits))
}

// Reversed returns the corresponding Code with the bits in reverse order.
// The result has the first bit in the most significant position, which is
// the order MSB-first bit writers expect.
func (hc Code) Reversed() Code {
	return MakeReversedCode(hc.Size, hc.Bits)
}

// Append returns this Code with one more bit at the end.
func (hc Code) Append(bit bool) Code {
	if bit {
		hc.Bits |= uint64(1) << hc.Size
	}
	hc.Size++
	return hc
}

// Bit returns the i'th bit, counting from the first.
func (hc Code) Bit(i byte) bool {
	return (hc.Bits>>i)&1 != 0
}

// HasPrefix returns true if prefix is a (possibly equal) prefix of this Code.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	if prefix.Size == 0 {
		return true
	}
	mask := ^uint64(0) >> (64 - prefix.Size)
	return hc.Bits&mask == prefix.Bits&mask
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Reversed().Bits))
}

var _ fmt.Stringer = Code{}

func reverseBits(size byte, bits uint64) uint64 {
	if size == 0 {
		return 0
	}
	return mathbits.Reverse64(bits) >> (64 - size)
}
