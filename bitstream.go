package huffman

import (
	"fmt"
	"io"
	"strings"

	"github.com/icza/bitio"
)

// Bitstream is a growable sequence of bits, packed most-significant-bit
// first into bytes.
//
// The zero value is an empty Bitstream ready for use.
//
type Bitstream struct {
	buf []byte
	n   uint64
}

// BitstreamFromBytes returns a Bitstream holding every bit of raw, padding
// included.  The decoder relies on EndOfStream, not on the bit count, to
// find the end of the message.
func BitstreamFromBytes(raw []byte) *Bitstream {
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Bitstream{buf: buf, n: uint64(len(raw)) * 8}
}

// ReadBitstream reads r to EOF and returns its contents as a Bitstream.
func ReadBitstream(r io.Reader) (*Bitstream, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("huffman: failed to read encoded data: %w", err)
	}
	return &Bitstream{buf: raw, n: uint64(len(raw)) * 8}, nil
}

// Len returns the number of bits.
func (bs *Bitstream) Len() uint64 {
	return bs.n
}

// WriteBit appends one bit.
func (bs *Bitstream) WriteBit(bit bool) {
	shift := 7 - byte(bs.n&7)
	if shift == 7 {
		bs.buf = append(bs.buf, 0)
	}
	if bit {
		bs.buf[len(bs.buf)-1] |= 1 << shift
	}
	bs.n++
}

// WriteCode appends every bit of hc, first bit first.
func (bs *Bitstream) WriteCode(hc Code) {
	for i := byte(0); i < hc.Size; i++ {
		bs.WriteBit(hc.Bit(i))
	}
}

// Bit returns the i'th bit.  It panics if i is out of range.
func (bs *Bitstream) Bit(i uint64) bool {
	if i >= bs.n {
		panic(fmt.Errorf("huffman: bit index %d out of range [0, %d)", i, bs.n))
	}
	return bs.buf[i>>3]&(0x80>>(i&7)) != 0
}

// Bytes returns the packed bits.  The unused low bits of the final byte are
// zero.
func (bs *Bitstream) Bytes() []byte {
	out := make([]byte, len(bs.buf))
	copy(out, bs.buf)
	return out
}

// WriteTo writes the packed bits to w, padding the final byte with zeroes.
func (bs *Bitstream) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bitio.NewWriter(cw)

	whole := bs.n >> 3
	for i := uint64(0); i < whole; i++ {
		if err := bw.WriteByte(bs.buf[i]); err != nil {
			return cw.n, err
		}
	}
	if rem := uint8(bs.n & 7); rem != 0 {
		if err := bw.WriteBits(uint64(bs.buf[whole]>>(8-rem)), rem); err != nil {
			return cw.n, err
		}
	}
	if err := bw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// String returns the bits as a string of '0' and '1' characters.
func (bs *Bitstream) String() string {
	var sb strings.Builder
	sb.Grow(int(bs.n))
	for i := uint64(0); i < bs.n; i++ {
		if bs.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

var _ io.WriterTo = (*Bitstream)(nil)
var _ fmt.Stringer = (*Bitstream)(nil)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
