package precompress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/moby/sys/atomicwriter"
)

// Algorithm names a precompression format served by static hosts
type Algorithm string

const (
	AlgorithmGzip   Algorithm = "gzip"
	AlgorithmBrotli Algorithm = "brotli"
	AlgorithmZstd   Algorithm = "zstd"
)

// ErrUnsupportedAlgorithm is returned for unknown algorithm names
var ErrUnsupportedAlgorithm = errors.New("unsupported precompression algorithm")

// ParseAlgorithm accepts the algorithm name or its file extension
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gzip", "gz":
		return AlgorithmGzip, nil
	case "brotli", "br":
		return AlgorithmBrotli, nil
	case "zstd", "zst":
		return AlgorithmZstd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// Extension returns the sibling suffix for the algorithm
func (a Algorithm) Extension() string {
	switch a {
	case AlgorithmGzip:
		return ".gz"
	case AlgorithmBrotli:
		return ".br"
	case AlgorithmZstd:
		return ".zst"
	}
	return ""
}

// Compressor writes precompressed siblings (app.js.gz, app.js.br) next to
// optimized assets, always at the strongest level since it runs once per
// deploy rather than per request
type Compressor struct {
	algorithms []Algorithm
}

// New creates a Compressor for the given algorithm names
func New(names []string) (*Compressor, error) {
	c := &Compressor{}
	seen := make(map[Algorithm]bool)
	for _, name := range names {
		algo, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if !seen[algo] {
			seen[algo] = true
			c.algorithms = append(c.algorithms, algo)
		}
	}
	return c, nil
}

// Algorithms returns the configured algorithms in order
func (c *Compressor) Algorithms() []Algorithm {
	return c.algorithms
}

// Precompress writes one sibling per algorithm and returns their paths. A
// failing algorithm does not stop the others; errors are joined.
func (c *Compressor) Precompress(ctx context.Context, path string, data []byte) ([]string, error) {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	var written []string
	var errs []error
	for _, algo := range c.algorithms {
		compressed, err := Compress(algo, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", algo, err))
			continue
		}
		target := path + algo.Extension()
		if err := atomicwriter.WriteFile(target, compressed, perm); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", algo, err))
			continue
		}
		written = append(written, target)
	}
	return written, errors.Join(errs...)
}

// Compress encodes data with the given algorithm at its best level
func Compress(algo Algorithm, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := newWriter(algo, &buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress
func Decompress(algo Algorithm, data []byte) ([]byte, error) {
	var r io.Reader
	switch algo {
	case AlgorithmGzip:
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case AlgorithmBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case AlgorithmZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return nil, ErrUnsupportedAlgorithm
	}
	return io.ReadAll(r)
}

func newWriter(algo Algorithm, w io.Writer) (io.WriteCloser, error) {
	switch algo {
	case AlgorithmGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case AlgorithmBrotli:
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	case AlgorithmZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
