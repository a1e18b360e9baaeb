package huffman

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// archiveMagic begins every archive.
const archiveMagic = "THUF"

// ArchiveVersion is the only archive format version understood.
const ArchiveVersion = 1

// maxHeaderLen bounds the JSON header: one entry per code point is well
// under this.
const maxHeaderLen = 64 << 20

var (
	// ErrBadMagic is returned when the input does not start with an
	// archive signature.
	ErrBadMagic = errors.New("huffman: not an archive (bad magic)")

	// ErrUnsupportedVersion is returned for archives written by a newer
	// format.
	ErrUnsupportedVersion = errors.New("huffman: unsupported archive version")
)

// Archive is a self-contained compressed message.  It carries the frequency
// table the tree was built from; since BuildTree is deterministic, the
// receiver rebuilds the identical tree from it.
//
// Layout:
//
//     "THUF"                    magic
//     0x01                      version
//     uvarint + JSON            frequency table, see FrequencyTable.MarshalJSON
//     uvarint                   payload length in bits, padding excluded
//     bytes                     payload, MSB-first, last byte zero padded
//
type Archive struct {
	Freqs       FrequencyTable
	PayloadBits uint64
	Payload     []byte
}

// Stats describes the result of Compress.
type Stats struct {
	InputBytes      uint64
	Symbols         uint64
	DistinctSymbols int
	PayloadBits     uint64
	OutputBytes     uint64
}

// NewArchive runs the whole pipeline over text, which must be valid UTF-8.
func NewArchive(text string) (*Archive, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("huffman: cannot compress text: %w", ErrInvalidUTF8)
	}
	freqs := CountFrequencies(text)
	tree, err := BuildTree(freqs)
	if err != nil {
		return nil, err
	}
	table, err := DeriveCodeTable(tree)
	if err != nil {
		return nil, err
	}
	bs, err := NewEncoder(table).EncodeString(text)
	if err != nil {
		return nil, err
	}
	return &Archive{Freqs: freqs, PayloadBits: bs.Len(), Payload: bs.Bytes()}, nil
}

// Compress writes the archive for text to w.
func Compress(w io.Writer, text string) (Stats, error) {
	a, err := NewArchive(text)
	if err != nil {
		return Stats{}, err
	}
	n, err := a.WriteTo(w)
	stats := Stats{
		InputBytes:      uint64(len(text)),
		Symbols:         a.Freqs.Total(),
		DistinctSymbols: a.Freqs.Len(),
		PayloadBits:     a.PayloadBits,
		OutputBytes:     uint64(n),
	}
	return stats, err
}

// Decompress reads an archive from r and returns the original text.
func Decompress(r io.Reader) (string, error) {
	a, err := ReadArchive(r)
	if err != nil {
		return "", err
	}
	return a.Decode()
}

// Tree rebuilds the tree the payload was encoded with.
func (a *Archive) Tree() (*Tree, error) {
	return BuildTree(a.Freqs)
}

// Decode decodes the payload.
func (a *Archive) Decode() (string, error) {
	if a.PayloadBits > uint64(len(a.Payload))*8 {
		return "", fmt.Errorf("huffman: payload holds %d bits, header claims %d: %w", len(a.Payload)*8, a.PayloadBits, ErrTruncatedStream)
	}
	tree, err := a.Tree()
	if err != nil {
		return "", err
	}
	bs := &Bitstream{buf: a.Payload, n: a.PayloadBits}
	return NewDecoder(tree).DecodeString(bs)
}

// WriteTo writes the archive to w.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	header, err := json.Marshal(a.Freqs)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	buf.Grow(len(archiveMagic) + 1 + 2*binary.MaxVarintLen64 + len(header) + len(a.Payload))
	buf.WriteString(archiveMagic)
	buf.WriteByte(ArchiveVersion)
	writeUvarint(&buf, uint64(len(header)))
	buf.Write(header)
	writeUvarint(&buf, a.PayloadBits)
	buf.Write(a.Payload)
	return buf.WriteTo(w)
}

// ReadArchive reads an archive from r.
func ReadArchive(r io.Reader) (*Archive, error) {
	br := bufio.NewReader(r)

	var magic [len(archiveMagic)]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, fmt.Errorf("huffman: failed to read archive: %w", err)
	}
	if string(magic[:]) != archiveMagic {
		return nil, ErrBadMagic
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, truncatedArchive(err)
	}
	if version != ArchiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	headerLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, truncatedArchive(err)
	}
	if headerLen > maxHeaderLen {
		return nil, fmt.Errorf("huffman: archive header of %d bytes exceeds limit of %d", headerLen, maxHeaderLen)
	}
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, truncatedArchive(err)
	}

	a := &Archive{}
	if err := json.Unmarshal(header, &a.Freqs); err != nil {
		return nil, fmt.Errorf("huffman: corrupt archive header: %w", err)
	}

	a.PayloadBits, err = binary.ReadUvarint(br)
	if err != nil {
		return nil, truncatedArchive(err)
	}

	a.Payload, err = io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("huffman: failed to read archive payload: %w", err)
	}
	if expect := (a.PayloadBits + 7) / 8; uint64(len(a.Payload)) != expect {
		return nil, fmt.Errorf("huffman: archive payload is %d bytes, expected %d: %w", len(a.Payload), expect, ErrTruncatedStream)
	}
	return a, nil
}

func truncatedArchive(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("huffman: archive header is truncated: %w", ErrTruncatedStream)
	}
	return fmt.Errorf("huffman: failed to read archive: %w", err)
}

func writeUvarint(buf *bytes.Buffer, x uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	buf.Write(tmp[:n])
}

var _ io.WriterTo = (*Archive)(nil)
