package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lorem.txt")
	packed := filepath.Join(dir, "lorem.thuf")
	unpacked := filepath.Join(dir, "lorem.out")

	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit.\n", 50)
	require.NoError(t, os.WriteFile(src, []byte(text), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"compress", src, packed}, &stdout, &stderr), stderr.String())
	require.Contains(t, stdout.String(), "lorem.txt")

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-v", "inspect", packed}, &stdout, &stderr), stderr.String())
	require.Contains(t, stdout.String(), "CodeTable{")
	require.Contains(t, stdout.String(), "Lookup(EOS)")

	require.Equal(t, 0, run([]string{"-json-log", "decompress", packed, unpacked}, &stdout, &stderr), stderr.String())
	actual, err := os.ReadFile(unpacked)
	require.NoError(t, err)
	require.Equal(t, text, string(actual))
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(bogus, []byte("not an archive"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run(nil, &stdout, &stderr))
	require.Equal(t, 2, run([]string{"compress", bogus}, &stdout, &stderr))
	require.Equal(t, 2, run([]string{"-nope"}, &stdout, &stderr))

	stderr.Reset()
	require.Equal(t, 1, run([]string{"decompress", bogus, out}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "bad magic")

	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err), "failed run must not leave an output file")

	binary := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(binary, []byte("ab\xffc"), 0o644))

	stderr.Reset()
	require.Equal(t, 1, run([]string{"compress", binary, out}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "not valid UTF-8")

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "failed run must not leave an output file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
