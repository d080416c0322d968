// Package decode turns uploaded or on-disk tabular files into datasets.
// Formats are chosen by file extension after any compression suffix is
// stripped.
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

var (
	// ErrUnsupported indicates a file format that no decoder handles.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrEmpty indicates input without a header row.
	ErrEmpty = errors.New("no header row found")
	// ErrTooLarge indicates input above the configured byte limit.
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidExtension indicates an upload whose extension is not accepted.
	ErrInvalidExtension = errors.New("invalid file extension")
)

// Options controls decoding.
type Options struct {
	// Delimiter for delimited text. If 0, sniffs among ',', ';', '\t'.
	Delimiter rune
	// SheetName selects a workbook sheet (case-insensitive).
	SheetName string
	// SheetIndex selects a workbook sheet by 1-based position when SheetName is empty.
	SheetIndex int
	// MaxBytes caps the decompressed input size; 0 means unlimited.
	MaxBytes int64
}

// Decoder reads one family of formats.
type Decoder interface {
	CanDecode(name string) bool
	Decode(r io.Reader, opt Options) (*dataset.Dataset, error)
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

func init() {
	Register(delimitedDecoder{})
	Register(workbookDecoder{})
	Register(jsonDecoder{})
}

// Decode selects a decoder by name and reads r into a dataset. Compressed
// inputs (.gz, .bz2, .xz, .zst) are unwrapped first.
func Decode(name string, r io.Reader, opt Options) (*dataset.Dataset, error) {
	base, comp := splitCompression(name)
	var dec Decoder
	for _, d := range registry {
		if d.CanDecode(base) {
			dec = d
			break
		}
	}
	if dec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(name))
	}
	rd, cleanup, err := newDecompressor(comp).CreateReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cleanup() }()
	if opt.MaxBytes > 0 {
		rd = &limitedReader{r: rd, remaining: opt.MaxBytes}
	}
	ds, err := dec.Decode(rd, opt)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return ds, nil
}

// DecodeFile opens path and decodes it with Decode.
func DecodeFile(path string, opt Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Decode(path, f, opt)
}

// Supported reports whether some decoder handles name.
func Supported(name string) bool {
	base, _ := splitCompression(name)
	for _, d := range registry {
		if d.CanDecode(base) {
			return true
		}
	}
	return false
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// limitedReader fails with ErrTooLarge once more than remaining bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
