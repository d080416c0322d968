package quality

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
)

// IssueType names the category of a detected problem.
type IssueType string

const (
	IssueMissingValues IssueType = "missing_values"
	IssueDuplicates    IssueType = "duplicates"
	IssueOutliers      IssueType = "outliers"
	IssueInconsistency IssueType = "inconsistency"
)

// Severity ranks an issue. Each level carries a fixed score weight.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight is the score penalty multiplier for the severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 5
	case SeverityCritical:
		return 10
	default:
		return 0
	}
}

// Issue is one finding. Column is empty for dataset-wide issues.
type Issue struct {
	Type            IssueType `json:"type" yaml:"type"`
	Severity        Severity  `json:"severity" yaml:"severity"`
	Column          string    `json:"column,omitempty" yaml:"column,omitempty"`
	Description     string    `json:"description" yaml:"description"`
	AffectedRecords int       `json:"affectedRecords" yaml:"affectedRecords"`
	Recommendation  string    `json:"recommendation" yaml:"recommendation"`
	SampleValues    []string  `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
}

// Detector inspects a dataset with its column profiles and reports issues.
// Implementations must not modify their inputs; they may run concurrently.
type Detector interface {
	Name() string
	Detect(ds *dataset.Dataset, profiles []ColumnProfile) []Issue
}

// DefaultDetectors returns the four built-in detectors in report order.
func DefaultDetectors() []Detector {
	return []Detector{MissingValues{}, Duplicates{}, Outliers{}, Inconsistency{}}
}

const (
	missingThreshold   = 5.0
	missingCritical    = 50.0
	missingHigh        = 20.0
	duplicateHighRatio = 0.10
	outlierHighRatio   = 0.10
	maxIssueSamples    = 5
)

// MissingValues flags columns whose blank share exceeds 5%.
type MissingValues struct{}

func (MissingValues) Name() string { return string(IssueMissingValues) }

func (MissingValues) Detect(_ *dataset.Dataset, profiles []ColumnProfile) []Issue {
	var out []Issue
	for _, p := range profiles {
		if p.NullPercentage <= missingThreshold {
			continue
		}
		sev := SeverityMedium
		switch {
		case p.NullPercentage > missingCritical:
			sev = SeverityCritical
		case p.NullPercentage > missingHigh:
			sev = SeverityHigh
		}
		rec := "Fill missing values with the mean or median, or remove the affected rows"
		if p.NullPercentage > missingCritical {
			rec = "Consider dropping this column or collecting more data"
		}
		out = append(out, Issue{
			Type:            IssueMissingValues,
			Severity:        sev,
			Column:          p.Name,
			Description:     fmt.Sprintf("Column %q has %.1f%% missing values", p.Name, p.NullPercentage),
			AffectedRecords: p.NullCount,
			Recommendation:  rec,
		})
	}
	return out
}

// Duplicates reports one issue counting every row that repeats an earlier
// row exactly across all columns.
type Duplicates struct{}

func (Duplicates) Name() string { return string(IssueDuplicates) }

func (Duplicates) Detect(ds *dataset.Dataset, _ []ColumnProfile) []Issue {
	cols := ds.Columns()
	seen := make(map[string]struct{}, ds.Len())
	dups := 0
	ds.Each(func(_ int, r dataset.Row) {
		k := rowKey(cols, r)
		if _, ok := seen[k]; ok {
			dups++
			return
		}
		seen[k] = struct{}{}
	})
	if dups == 0 {
		return nil
	}
	sev := SeverityMedium
	if float64(dups) > float64(ds.Len())*duplicateHighRatio {
		sev = SeverityHigh
	}
	return []Issue{{
		Type:            IssueDuplicates,
		Severity:        sev,
		Description:     fmt.Sprintf("Found %d duplicate rows", dups),
		AffectedRecords: dups,
		Recommendation:  "Remove duplicate rows to avoid skewed analysis",
	}}
}

// rowKey builds a canonical key: one kind tag plus a length-prefixed
// payload per column, in column order. Absent keys encode as null.
func rowKey(cols []string, r dataset.Row) string {
	var b strings.Builder
	for _, c := range cols {
		v := r[c]
		var payload string
		switch v.Kind() {
		case dataset.KindString:
			payload = v.Str()
		case dataset.KindNumber:
			f := v.Float()
			if f == 0 {
				f = 0 // fold -0
			}
			payload = strconv.FormatFloat(f, 'g', -1, 64)
		case dataset.KindBool:
			payload = strconv.FormatBool(v.BoolVal())
		}
		b.WriteByte(byte('0' + v.Kind()))
		b.WriteString(strconv.Itoa(len(payload)))
		b.WriteByte(':')
		b.WriteString(payload)
	}
	return b.String()
}

// Outliers applies the 1.5×IQR rule to every number column.
type Outliers struct{}

func (Outliers) Name() string { return string(IssueOutliers) }

func (Outliers) Detect(ds *dataset.Dataset, profiles []ColumnProfile) []Issue {
	var out []Issue
	for _, p := range profiles {
		if p.Type != TypeNumber {
			continue
		}
		nums := numericValues(ds.Column(p.Name))
		lower, upper, ok := Fences(nums)
		if !ok {
			continue
		}
		var samples []string
		count := 0
		for _, f := range nums {
			if f >= lower && f <= upper {
				continue
			}
			count++
			if len(samples) < maxIssueSamples {
				samples = append(samples, dataset.Number(f).String())
			}
		}
		if count == 0 {
			continue
		}
		sev := SeverityMedium
		if float64(count) > float64(len(nums))*outlierHighRatio {
			sev = SeverityHigh
		}
		out = append(out, Issue{
			Type:            IssueOutliers,
			Severity:        sev,
			Column:          p.Name,
			Description:     fmt.Sprintf("Column %q contains %d outliers", p.Name, count),
			AffectedRecords: count,
			Recommendation:  "Check whether these values are entry errors or legitimate extremes",
			SampleValues:    samples,
		})
	}
	return out
}

// Fences returns the Tukey fences Q1-1.5·IQR and Q3+1.5·IQR. Quartiles are
// taken at index floor(0.25·n) and floor(0.75·n) of the sorted values.
// ok is false for an empty input or one containing NaN.
func Fences(values []float64) (lower, upper float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for _, f := range sorted {
		if math.IsNaN(f) {
			return 0, 0, false
		}
	}
	sort.Float64s(sorted)
	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr, true
}

// Inconsistency flags columns whose non-blank values span several classes.
type Inconsistency struct{}

func (Inconsistency) Name() string { return string(IssueInconsistency) }

func (Inconsistency) Detect(ds *dataset.Dataset, profiles []ColumnProfile) []Issue {
	var out []Issue
	for _, p := range profiles {
		if p.Type != TypeMixed {
			continue
		}
		out = append(out, Issue{
			Type:            IssueInconsistency,
			Severity:        SeverityMedium,
			Column:          p.Name,
			Description:     fmt.Sprintf("Column %q contains mixed data types", p.Name),
			AffectedRecords: ds.Len(),
			Recommendation:  "Standardize the data type used in this column",
		})
	}
	return out
}
