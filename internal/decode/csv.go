package decode

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

const sniffBytes = 64 * 1024

type delimitedDecoder struct{}

func (delimitedDecoder) CanDecode(name string) bool {
	return hasExt(name, ".csv", ".tsv", ".txt")
}

func (delimitedDecoder) Decode(r io.Reader, opt Options) (*dataset.Dataset, error) {
	br := bufio.NewReaderSize(r, sniffBytes)
	delim := opt.Delimiter
	if delim == 0 {
		head, err := br.Peek(sniffBytes)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		delim = sniffDelimiter(head)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = delim

	var header []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if !blankRecord(rec) {
			header = rec
			break
		}
	}
	tb := newTableBuilder(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		tb.add(rec)
	}
	return tb.build()
}

// sniffDelimiter picks the candidate that occurs most often outside quotes
// on the first line. Ties and misses fall back to comma.
func sniffDelimiter(head []byte) rune {
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	inQuote := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == ',' || ch == ';' || ch == '\t':
			counts[ch]++
		}
	}
	best, bestN := ',', counts[',']
	for _, c := range []rune{';', '\t'} {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}
