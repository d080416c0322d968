package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/quality"
)

// Fallback builds a narrative from the report alone. It never fails.
type Fallback struct{}

func (Fallback) Narrate(_ context.Context, rep *quality.Report) (Narrative, error) {
	return Narrative{
		Insights:        fallbackInsights(rep),
		Recommendations: fallbackRecommendations(rep),
	}, nil
}

type tier struct {
	min         float64
	level       string
	description string
}

var tiers = []tier{
	{90, "excellent", "The data is in great shape and needs few corrections."},
	{75, "good", "Quality is satisfactory, though some improvements are recommended."},
	{60, "moderate", "Several problems were found that may affect analyses."},
	{40, "low", "Significant problems need attention before production use."},
	{0, "critical", "Quality is inadequate for use. The data needs a full review."},
}

func tierFor(score float64) tier {
	for _, t := range tiers {
		if score >= t.min {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func countSeverity(issues []quality.Issue, sev quality.Severity) int {
	n := 0
	for _, is := range issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

func fallbackInsights(rep *quality.Report) string {
	t := tierFor(rep.QualityScore)
	total := len(rep.Issues)

	var b strings.Builder
	fmt.Fprintf(&b, "**Analysis of %q**\n\n", rep.FileName)
	fmt.Fprintf(&b, "The dataset has **%s** quality with a score of **%.1f/100**. %s ", t.level, rep.QualityScore, t.description)
	fmt.Fprintf(&b, "Found **%d %s** across categories.", total, plural(total, "issue", "issues"))

	crit := countSeverity(rep.Issues, quality.SeverityCritical)
	high := countSeverity(rep.Issues, quality.SeverityHigh)
	if crit > 0 || high > 0 {
		b.WriteString("\n\n")
	}
	if crit > 0 {
		fmt.Fprintf(&b, "**%d critical %s** %s immediate action. ", crit, plural(crit, "issue", "issues"), plural(crit, "needs", "need"))
	}
	if high > 0 {
		fmt.Fprintf(&b, "**%d high severity %s** should be handled soon.", high, plural(high, "issue", "issues"))
	}

	s := rep.Summary
	if s.MissingValues > 0 {
		fmt.Fprintf(&b, "\n\n**Missing values:** found in %d %s. This reduces completeness and can bias statistical analyses.",
			s.MissingValues, plural(s.MissingValues, "column", "columns"))
	}
	if s.Duplicates > 0 {
		rows := affected(rep.Issues, quality.IssueDuplicates)
		fmt.Fprintf(&b, "\n\n**Duplicates:** %d duplicate %s found. This inflates counts and skews results.",
			rows, plural(rows, "row", "rows"))
	}
	if s.Outliers > 0 {
		fmt.Fprintf(&b, "\n\n**Outliers:** %d %s with atypical values. Investigate whether they are errors or legitimate extremes.",
			s.Outliers, plural(s.Outliers, "column", "columns"))
	}
	if s.Inconsistencies > 0 {
		fmt.Fprintf(&b, "\n\n**Inconsistencies:** %d %s with mixed data types. This can break processing and analyses.",
			s.Inconsistencies, plural(s.Inconsistencies, "column", "columns"))
	}

	b.WriteString("\n\n**Recommendation:** ")
	if rep.QualityScore < 60 {
		b.WriteString("Do not use this data in production without the necessary corrections.")
	} else {
		b.WriteString("Address the identified problems before critical analyses.")
	}
	return b.String()
}

func affected(issues []quality.Issue, typ quality.IssueType) int {
	n := 0
	for _, is := range issues {
		if is.Type == typ {
			n += is.AffectedRecords
		}
	}
	return n
}

func fallbackRecommendations(rep *quality.Report) []string {
	var recs []string
	if crit := countSeverity(rep.Issues, quality.SeverityCritical); crit > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: fix the %d critical %s before any analysis", crit, plural(crit, "issue", "issues")))
	}
	s := rep.Summary
	if s.MissingValues > 0 {
		cols := rep.TotalColumns
		if cols == 0 {
			cols = 1
		}
		if float64(s.MissingValues)/float64(cols)*100 > 50 {
			recs = append(recs, "Review the data collection process: more than 50% of columns have missing values")
		} else {
			recs = append(recs, "Impute missing values (mean, median, forward-fill) or remove incomplete records")
		}
	}
	if s.Duplicates > 0 {
		rows := affected(rep.Issues, quality.IssueDuplicates)
		recs = append(recs, fmt.Sprintf("Remove the %d duplicate %s using aggregation or primary-key deduplication", rows, plural(rows, "row", "rows")))
	}
	if s.Outliers > 0 {
		recs = append(recs, "Inspect outliers visually (box plots, scatter plots) to separate errors from legitimate extremes")
	}
	if s.Inconsistencies > 0 {
		recs = append(recs, "Standardize data types: convert columns to the correct type and document the expected schema")
	}
	recs = append(recs, generalRecommendations...)
	return capRecommendations(recs)
}
