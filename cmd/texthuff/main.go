// Command texthuff compresses and decompresses text files with a static
// Huffman code.
//
// Usage:
//
//     texthuff [-v] [-json-log] compress IN OUT
//     texthuff [-v] [-json-log] decompress IN OUT
//     texthuff [-v] [-json-log] inspect IN
//
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	huffman "github.com/chronos-tachyon/statichuff"
)

var errUsage = errors.New("usage: texthuff [-v] [-json-log] {compress IN OUT | decompress IN OUT | inspect IN}")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("texthuff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "enable debug logging")
	jsonLog := fs.Bool("json-log", false, "log as JSON instead of console text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(stderr, *verbose, *jsonLog)
	defer func() { _ = logger.Sync() }()

	err := dispatch(logger, fs.Args(), stdout)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, errUsage)
		return 2
	}
	if err != nil {
		logger.Error("texthuff failed", zap.Error(err))
		return 1
	}
	return 0
}

func dispatch(logger *zap.Logger, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch cmd, rest := args[0], args[1:]; {
	case cmd == "compress" && len(rest) == 2:
		return compress(logger, rest[0], rest[1], stdout)
	case cmd == "decompress" && len(rest) == 2:
		return decompress(logger, rest[0], rest[1], stdout)
	case cmd == "inspect" && len(rest) == 1:
		return inspect(logger, rest[0], stdout)
	default:
		return errUsage
	}
}

func newLogger(w io.Writer, verbose, jsonLog bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if jsonLog {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func compress(logger *zap.Logger, inPath, outPath string, stdout io.Writer) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	text := string(raw)

	var buf bytes.Buffer
	stats, err := huffman.Compress(&buf, text)
	if err != nil {
		return fmt.Errorf("compress %s: %w", inPath, err)
	}
	if c := logger.Check(zap.DebugLevel, "encoded"); c != nil {
		c.Write(
			zap.String("input", inPath),
			zap.Uint64("symbols", stats.Symbols),
			zap.Int("distinct", stats.DistinctSymbols),
			zap.Uint64("payload_bits", stats.PayloadBits),
		)
	}

	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return err
	}

	ratio := 0.0
	if stats.InputBytes != 0 {
		ratio = float64(stats.OutputBytes) / float64(stats.InputBytes)
	}
	fmt.Fprintf(stdout, "%s: %s -> %s (%.1f%%)\n",
		inPath,
		humanize.IBytes(stats.InputBytes),
		humanize.IBytes(stats.OutputBytes),
		100*ratio)
	logger.Info("compressed", zap.String("input", inPath), zap.String("output", outPath))
	return nil
}

func decompress(logger *zap.Logger, inPath, outPath string, stdout io.Writer) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	text, err := huffman.Decompress(f)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", inPath, err)
	}

	if err := writeFileAtomic(outPath, []byte(text)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s\n", outPath, humanize.IBytes(uint64(len(text))))
	logger.Info("decompressed", zap.String("input", inPath), zap.String("output", outPath))
	return nil
}

func inspect(logger *zap.Logger, inPath string, stdout io.Writer) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := huffman.ReadArchive(f)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", inPath, err)
	}
	tree, err := a.Tree()
	if err != nil {
		return fmt.Errorf("inspect %s: %w", inPath, err)
	}
	table, err := huffman.DeriveCodeTable(tree)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", inPath, err)
	}

	fmt.Fprintf(stdout, "symbols: %s (%d distinct)\n", humanize.Comma(int64(a.Freqs.Total())), a.Freqs.Len())
	fmt.Fprintf(stdout, "payload: %s bits\n", humanize.Comma(int64(a.PayloadBits)))
	if _, err := table.Dump(stdout); err != nil {
		return err
	}
	logger.Debug("inspected", zap.String("input", inPath))
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so a failed run never leaves a complete-looking output.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
