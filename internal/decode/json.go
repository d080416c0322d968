package decode

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

type jsonDecoder struct{}

func (jsonDecoder) CanDecode(name string) bool {
	return hasExt(name, ".json")
}

// Decode accepts either {"columns":[...],"rows":[{...}]} or a bare array of
// row objects. Without an explicit column list, columns are the row keys in
// order of first appearance.
func (jsonDecoder) Decode(r io.Reader, _ Options) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read json: %w", err)
	}
	var columns []string
	var raws []json.RawMessage
	switch first {
	case '[':
		if err := json.NewDecoder(br).Decode(&raws); err != nil {
			return nil, fmt.Errorf("parse json rows: %w", err)
		}
	case '{':
		var doc struct {
			Columns []string          `json:"columns"`
			Rows    []json.RawMessage `json:"rows"`
		}
		if err := json.NewDecoder(br).Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json table: %w", err)
		}
		columns, raws = doc.Columns, doc.Rows
	default:
		return nil, fmt.Errorf("parse json: expected an array or object, got %q", first)
	}
	return RowsFromJSON(columns, raws)
}

// RowsFromJSON builds a dataset from raw JSON row objects. When columns is
// empty it is derived from the objects' keys in first-appearance order.
func RowsFromJSON(columns []string, raws []json.RawMessage) (*dataset.Dataset, error) {
	derive := len(columns) == 0
	seen := make(map[string]bool)
	rows := make([]dataset.Row, 0, len(raws))
	for i, raw := range raws {
		row, keys, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if derive {
			for _, k := range keys {
				if !seen[k] {
					seen[k] = true
					columns = append(columns, k)
				}
			}
		}
		rows = append(rows, row)
	}
	if len(columns) == 0 {
		return nil, ErrEmpty
	}
	return dataset.New(columns, rows)
}

// decodeObject reads one JSON object keeping its key order.
func decodeObject(raw json.RawMessage) (dataset.Row, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("expected a JSON object")
	}
	row := dataset.Row{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v dataset.Value
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", key, err)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = v
	}
	return row, keys, nil
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
