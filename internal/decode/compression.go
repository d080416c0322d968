package decode

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies a wrapping compression format.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

var compressionExts = []struct {
	ext string
	c   Compression
}{
	{".gz", CompressionGZ},
	{".bz2", CompressionBZ2},
	{".xz", CompressionXZ},
	{".zst", CompressionZSTD},
}

// splitCompression strips a known compression suffix from name.
func splitCompression(name string) (string, Compression) {
	lower := strings.ToLower(name)
	for _, ce := range compressionExts {
		if strings.HasSuffix(lower, ce.ext) {
			return name[:len(name)-len(ce.ext)], ce.c
		}
	}
	return name, CompressionNone
}

type decompressor struct {
	c Compression
}

func newDecompressor(c Compression) decompressor { return decompressor{c: c} }

// CreateReader wraps r with the matching decompression reader. The returned
// cleanup must be called once reading is done.
func (d decompressor) CreateReader(r io.Reader) (io.Reader, func() error, error) {
	switch d.c {
	case CompressionNone:
		return r, func() error { return nil }, nil
	case CompressionGZ:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gz, gz.Close, nil
	case CompressionBZ2:
		return bzip2.NewReader(r), func() error { return nil }, nil
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create xz reader: %w", err)
		}
		return xr, func() error { return nil }, nil
	case CompressionZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("create zstd reader: %w", err)
		}
		return zr, func() error {
			zr.Close()
			return nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %d", d.c)
	}
}
