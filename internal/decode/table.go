package decode

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

// normalizeHeader trims names, fills blanks as column_N and suffixes
// repeats with _2, _3 and so on.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// tableBuilder accumulates string records under a header.
type tableBuilder struct {
	columns []string
	rows    []dataset.Row
}

func newTableBuilder(header []string) *tableBuilder {
	return &tableBuilder{columns: normalizeHeader(header)}
}

// add appends one record. Cells are trimmed, empty cells are omitted and
// records with no content are skipped. Cells past the header are dropped.
func (b *tableBuilder) add(record []string) {
	var row dataset.Row
	for j, cell := range record {
		if j >= len(b.columns) {
			break
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if row == nil {
			row = make(dataset.Row, len(b.columns))
		}
		row[b.columns[j]] = dataset.String(v)
	}
	if row == nil {
		return
	}
	b.rows = append(b.rows, row)
}

func (b *tableBuilder) build() (*dataset.Dataset, error) {
	return dataset.New(b.columns, b.rows)
}

func blankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
