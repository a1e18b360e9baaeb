package huffman

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompress_ScenarioA(t *testing.T) {
	var buf bytes.Buffer
	stats, err := Compress(&buf, "aaab")
	require.NoError(t, err)

	header := `[[97,3],[98,1],[-2,0]]`
	expect := []byte("THUF\x01")
	expect = append(expect, byte(len(header)))
	expect = append(expect, header...)
	expect = append(expect, 0x07, 0xe8)
	require.Equal(t, expect, buf.Bytes())

	require.Equal(t, Stats{
		InputBytes:      4,
		Symbols:         4,
		DistinctSymbols: 3,
		PayloadBits:     7,
		OutputBytes:     uint64(len(expect)),
	}, stats)

	text, err := Decompress(&buf)
	require.NoError(t, err)
	require.Equal(t, "aaab", text)
}

func TestCompress_RoundTrip(t *testing.T) {
	for _, text := range testTexts {
		var buf bytes.Buffer
		_, err := Compress(&buf, text)
		require.NoError(t, err)

		actual, err := Decompress(&buf)
		require.NoError(t, err)
		require.Equal(t, text, actual)
	}
}

func TestCompress_InvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compress(&buf, "ab\xffc")
	require.ErrorIs(t, err, ErrInvalidUTF8)
	require.Zero(t, buf.Len())

	_, err = NewArchive("\xc3")
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestReadArchive_Errors(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compress(&buf, "mississippi")
	require.NoError(t, err)
	good := buf.Bytes()

	mutate := func(fn func([]byte) []byte) []byte {
		raw := make([]byte, len(good))
		copy(raw, good)
		return fn(raw)
	}

	type testRow struct {
		name  string
		input []byte
		err   error
	}

	testData := [...]testRow{
		{"empty", nil, ErrBadMagic},
		{"magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), ErrBadMagic},
		{"version", mutate(func(b []byte) []byte { b[4] = 9; return b }), ErrUnsupportedVersion},
		{"no-header", good[:5], ErrTruncatedStream},
		{"short-header", good[:8], ErrTruncatedStream},
		{"short-payload", good[:len(good)-1], ErrTruncatedStream},
		{"long-payload", append(mutate(func(b []byte) []byte { return b }), 0), ErrTruncatedStream},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			_, err := Decompress(bytes.NewReader(row.input))
			if !errors.Is(err, row.err) {
				t.Errorf("expected %v, got %v", row.err, err)
			}
		})
	}
}

func TestReadArchive_CorruptHeader(t *testing.T) {
	raw := []byte("THUF\x01\x0b[[97,1],[97")
	_, err := ReadArchive(bytes.NewReader(raw))
	require.Error(t, err)
	require.Contains(t, err.Error(), "corrupt archive header")
}

func TestArchive_Inconsistent(t *testing.T) {
	a, err := NewArchive("aaab")
	require.NoError(t, err)

	a.PayloadBits = 64
	_, err = a.Decode()
	require.ErrorIs(t, err, ErrTruncatedStream)
}
