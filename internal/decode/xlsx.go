package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

// oleMagic starts every legacy binary (BIFF) workbook.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var errLegacyWorkbook = errors.New("legacy binary or encrypted workbook; save it as .xlsx or .csv")

type workbookDecoder struct{}

func (workbookDecoder) CanDecode(name string) bool {
	return hasExt(name, ".xlsx", ".xlsm", ".xls")
}

func (workbookDecoder) Decode(r io.Reader, opt Options) (*dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if bytes.HasPrefix(data, oleMagic) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, errLegacyWorkbook)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for len(rows) > 0 && blankRecord(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	tb := newTableBuilder(rows[0])
	for _, rec := range rows[1:] {
		tb.add(rec)
	}
	return tb.build()
}

// pickSheet resolves a sheet by name first, then by 1-based index, and
// defaults to the first sheet.
func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", ErrEmpty
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		return sheets[0], nil
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}
