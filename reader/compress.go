package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
	CompressionBrotli
)

var compressionNames = map[Compression]string{
	CompressionNone:   "none",
	CompressionGzip:   "gzip",
	CompressionZstd:   "zstd",
	CompressionLZ4:    "lz4",
	CompressionBrotli: "brotli",
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// DetectCompression returns the compression implied by the file extension
// and the name with that extension removed.
func DetectCompression(name string) (Compression, string) {
	ext := filepath.Ext(name)
	var c Compression
	switch strings.ToLower(ext) {
	case ".gz", ".gzip":
		c = CompressionGzip
	case ".zst", ".zstd":
		c = CompressionZstd
	case ".lz4":
		c = CompressionLZ4
	case ".br":
		c = CompressionBrotli
	default:
		return CompressionNone, name
	}
	return c, strings.TrimSuffix(name, ext)
}

// NewDecompressor wraps r with a decoder for c. Closing the result releases
// the decoder but not r.
func NewDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported compression %v", c)
}
