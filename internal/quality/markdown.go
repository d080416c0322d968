package quality

import (
	"fmt"
	"strings"
)

// Markdown renders the report as compact sectioned text for terminals and
// prompt context. Column profiles are included when present.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.FileName != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.FileName))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.TotalRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.TotalColumns))
	b.WriteString(fmt.Sprintf("Quality score: %.1f/100\n", r.QualityScore))
	if !r.ProcessedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Processed: %s\n", r.ProcessedAt.Format("2006-01-02 15:04:05 MST")))
	}

	if len(r.Columns) > 0 {
		b.WriteString("\n[SCHEMA]\n")
		for _, c := range r.Columns {
			b.WriteString(fmt.Sprintf("- %s: %s (unique %d, missing %.1f%%)", safeName(c.Name), c.Type, c.UniqueValues, c.NullPercentage))
			if n := c.Numeric; n != nil {
				b.WriteString(fmt.Sprintf(" | min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", n.Min, n.Max, n.Mean, n.Median, n.StdDev))
			} else if len(c.SampleValues) > 0 {
				b.WriteString(" | e.g., ")
				for i, v := range c.SampleValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(safeVal(v.String()))
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n[ISSUES]\n")
	s := r.Summary
	b.WriteString(fmt.Sprintf("Missing values: %d, duplicates: %d, outliers: %d, inconsistencies: %d\n",
		s.MissingValues, s.Duplicates, s.Outliers, s.Inconsistencies))
	if len(r.Issues) == 0 {
		b.WriteString("No issues detected.\n")
	}
	for _, is := range r.Issues {
		b.WriteString(fmt.Sprintf("- [%s] %s (%d records)\n", strings.ToUpper(string(is.Severity)), is.Description, is.AffectedRecords))
		if is.Recommendation != "" {
			b.WriteString(fmt.Sprintf("  • %s\n", is.Recommendation))
		}
	}

	if strings.TrimSpace(r.AIInsights) != "" {
		b.WriteString("\n[INSIGHTS]\n")
		b.WriteString(strings.TrimSpace(r.AIInsights))
		b.WriteString("\n")
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\n[RECOMMENDATIONS]\n")
		for i, rec := range r.Recommendations {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
