// Package render encodes analysis results in the supported output formats.
package render

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/KaramelBytes/dataqa-cli/internal/utils"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts the format names and their common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md", "text":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use json|yaml|markdown|html)", s)
}

// Ext is the file extension for outputs of f.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	}
	return ".json"
}

// Render encodes res in format f.
func Render(res quality.Result, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return utils.PrettyJSON(res)
	case FormatYAML:
		b, err := yaml.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatMarkdown:
		rep := *res.Report
		rep.Columns = res.ColumnAnalysis
		return []byte(rep.Markdown()), nil
	case FormatHTML:
		return HTML(res), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}

// HTML renders a standalone page.
func HTML(res quality.Result) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Title: "Data quality report: " + res.Report.FileName,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML(document(res), p, r)
}

// document lays the result out as GitHub-flavored Markdown.
func document(res quality.Result) []byte {
	rep := res.Report
	var b strings.Builder
	fmt.Fprintf(&b, "# Data quality report: %s\n\n", cell(rep.FileName))
	b.WriteString("| Rows | Columns | Quality score | Processed |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %.1f/100 | %s |\n\n", rep.TotalRows, rep.TotalColumns, rep.QualityScore,
		rep.ProcessedAt.Format("2006-01-02 15:04:05 MST"))

	s := rep.Summary
	b.WriteString("## Issues\n\n")
	fmt.Fprintf(&b, "Missing values: %d, duplicates: %d, outliers: %d, inconsistencies: %d\n\n",
		s.MissingValues, s.Duplicates, s.Outliers, s.Inconsistencies)
	if len(rep.Issues) == 0 {
		b.WriteString("No issues detected.\n\n")
	} else {
		b.WriteString("| Severity | Type | Column | Description | Records | Recommendation |\n|---|---|---|---|---|---|\n")
		for _, is := range rep.Issues {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s |\n", is.Severity, is.Type, cell(is.Column),
				cell(is.Description), is.AffectedRecords, cell(is.Recommendation))
		}
		b.WriteString("\n")
	}

	if len(res.ColumnAnalysis) > 0 {
		b.WriteString("## Columns\n\n| Name | Type | Unique | Missing | Samples |\n|---|---|---|---|---|\n")
		for _, c := range res.ColumnAnalysis {
			samples := make([]string, 0, len(c.SampleValues))
			for _, v := range c.SampleValues {
				samples = append(samples, v.String())
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %.1f%% | %s |\n", cell(c.Name), c.Type, c.UniqueValues,
				c.NullPercentage, cell(strings.Join(samples, ", ")))
		}
		b.WriteString("\n")
	}

	if strings.TrimSpace(rep.AIInsights) != "" {
		b.WriteString("## Insights\n\n")
		b.WriteString(strings.TrimSpace(rep.AIInsights))
		b.WriteString("\n\n")
	}
	if len(rep.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range rep.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}
	return []byte(b.String())
}

// cell escapes text for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
