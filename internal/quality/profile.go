package quality

import (
	"math"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
	"github.com/montanaflynn/stats"
)

const maxSampleValues = 5

// ColumnProfile captures the descriptive statistics every detector reads.
type ColumnProfile struct {
	Name           string          `json:"name" yaml:"name"`
	Type           ColumnType      `json:"type" yaml:"type"`
	UniqueValues   int             `json:"uniqueValues" yaml:"uniqueValues"`
	NullCount      int             `json:"nullCount" yaml:"nullCount"`
	NullPercentage float64         `json:"nullPercentage" yaml:"nullPercentage"`
	SampleValues   []dataset.Value `json:"sampleValues" yaml:"sampleValues"`
	// Numeric is set for number columns only.
	Numeric *NumericStats `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// NumericStats summarizes the numeric cells of a number column.
type NumericStats struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"stdDev" yaml:"stdDev"`
}

// AnalyzeColumns profiles every column of ds in column order. The result is
// freshly allocated on each call and depends only on ds.
func AnalyzeColumns(ds *dataset.Dataset) []ColumnProfile {
	cols := ds.Columns()
	out := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		out = append(out, profileColumn(c, ds.Column(c)))
	}
	return out
}

func profileColumn(name string, values []dataset.Value) ColumnProfile {
	p := ColumnProfile{Name: name, SampleValues: []dataset.Value{}}
	seen := make(map[dataset.Value]struct{})
	classes := make(map[ColumnType]struct{}, 4)
	for _, v := range values {
		if v.IsBlank() {
			p.NullCount++
			continue
		}
		classes[Classify(v)] = struct{}{}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if len(p.SampleValues) < maxSampleValues {
			p.SampleValues = append(p.SampleValues, v)
		}
	}
	p.UniqueValues = len(seen)
	if len(values) > 0 {
		p.NullPercentage = float64(p.NullCount) / float64(len(values)) * 100
	}
	p.Type = inferType(classes)
	if p.Type == TypeNumber {
		p.Numeric = numericStats(values)
	}
	return p
}

func inferType(classes map[ColumnType]struct{}) ColumnType {
	if len(classes) != 1 {
		return TypeMixed
	}
	for t := range classes {
		return t
	}
	return TypeMixed
}

func numericValues(values []dataset.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := numericValue(v); ok {
			out = append(out, f)
		}
	}
	return out
}

func numericStats(values []dataset.Value) *NumericStats {
	data := stats.Float64Data(numericValues(values))
	if data.Len() == 0 {
		return nil
	}
	ns := &NumericStats{Count: data.Len()}
	// stats only errors on empty input, which is excluded above
	ns.Min, _ = data.Min()
	ns.Max, _ = data.Max()
	ns.Mean, _ = data.Mean()
	ns.Median, _ = data.Median()
	ns.StdDev, _ = data.StandardDeviation()
	// sums over values near MaxFloat64 overflow; JSON cannot carry Inf
	ns.Mean = finiteOrZero(ns.Mean)
	ns.StdDev = finiteOrZero(ns.StdDev)
	return ns
}

func finiteOrZero(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
