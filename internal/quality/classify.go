package quality

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

// ColumnType is the semantic type inferred for a column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeMixed   ColumnType = "mixed"
)

// Classify assigns a single non-blank value to number, boolean, date or
// string, checked in that order. Strings are inspected too: decoders for
// CSV and XLSX hand every cell over as text.
func Classify(v dataset.Value) ColumnType {
	switch v.Kind() {
	case dataset.KindNumber:
		return TypeNumber
	case dataset.KindBool:
		return TypeBoolean
	case dataset.KindString:
		s := strings.TrimSpace(v.Str())
		if _, ok := parseNumber(s); ok {
			return TypeNumber
		}
		if isBoolLiteral(s) {
			return TypeBoolean
		}
		if _, ok := parseDate(s); ok {
			return TypeDate
		}
		return TypeString
	default:
		// null never reaches inference; treat it as the fallback class
		return TypeString
	}
}

// numericValue coerces a cell to a finite float. Blank, boolean and
// non-numeric cells are rejected.
func numericValue(v dataset.Value) (float64, bool) {
	switch v.Kind() {
	case dataset.KindNumber:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case dataset.KindString:
		return parseNumber(strings.TrimSpace(v.Str()))
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isBoolLiteral(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

var dateLayouts = []string{
	time.RFC3339, time.RFC3339Nano, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"1/2/2006", "2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
	"1/2/2006 15:04", "1/2/2006 15:04:05", "02.01.2006", "2.1.2006",
	"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "02 Jan 2006",
	time.RFC1123, time.RFC1123Z, time.RFC850, time.ANSIC,
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
