package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/ai"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/KaramelBytes/dataqa-cli/internal/utils"
)

const (
	defaultInsights = "Data analysis completed successfully."
	maxPromptIssues = 5
	// per issue line
	maxIssueTokens = 60
)

// AI asks a language model for the narrative. When the model is unknown to
// the runtime, FallbackModels are tried in order.
type AI struct {
	Runtime        ai.Runtime
	Model          string
	FallbackModels []string
	MaxTokens      int
	Temperature    float64
}

func (a AI) Narrate(ctx context.Context, rep *quality.Report) (Narrative, error) {
	if a.Runtime == nil {
		return Narrative{}, errors.New("no AI runtime configured")
	}
	prompt := BuildPrompt(rep)
	slog.Debug("requesting narrative", "file", rep.FileName, "model", a.Model, "prompt_tokens", utils.CountTokens(prompt))
	models := append([]string{a.Model}, a.FallbackModels...)
	var lastErr error
	for i, m := range models {
		if m == "" {
			continue
		}
		resp, err := a.Runtime.Generate(ctx, ai.GenerateRequest{
			Model:       m,
			Messages:    []ai.Message{{Role: "user", Content: prompt}},
			MaxTokens:   a.MaxTokens,
			Temperature: a.Temperature,
		})
		if err == nil {
			if i > 0 {
				slog.Info("narrative generated with fallback model", "model", m)
			}
			return ParseResponse(resp.Text()), nil
		}
		if !ai.IsModelNotFound(err) {
			return Narrative{}, fmt.Errorf("generate insights with %s: %w", m, err)
		}
		slog.Warn("model not found, trying next", "model", m, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		return Narrative{}, errors.New("no model configured")
	}
	return Narrative{}, fmt.Errorf("all models failed: %w", lastErr)
}

// BuildPrompt renders the report summary and the expected answer layout.
func BuildPrompt(rep *quality.Report) string {
	var b strings.Builder
	b.WriteString("You are a data quality expert. Analyze this report and give practical insights.\n\n")
	fmt.Fprintf(&b, "File: %s\n", rep.FileName)
	fmt.Fprintf(&b, "Total rows: %d\n", rep.TotalRows)
	fmt.Fprintf(&b, "Total columns: %d\n", rep.TotalColumns)
	fmt.Fprintf(&b, "Quality score: %.1f/100\n\n", rep.QualityScore)

	b.WriteString("Issue summary:\n")
	fmt.Fprintf(&b, "- Missing values: %d columns affected\n", rep.Summary.MissingValues)
	fmt.Fprintf(&b, "- Duplicates: %d\n", rep.Summary.Duplicates)
	fmt.Fprintf(&b, "- Outliers: %d columns with anomalies\n", rep.Summary.Outliers)
	fmt.Fprintf(&b, "- Inconsistencies: %d type problems\n\n", rep.Summary.Inconsistencies)

	b.WriteString("Top issues:\n")
	if len(rep.Issues) == 0 {
		b.WriteString("No issues detected\n")
	}
	for i, is := range rep.Issues {
		if i == maxPromptIssues {
			break
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, strings.ToUpper(string(is.Severity)),
			utils.TruncateToTokenLimit(is.Description, maxIssueTokens))
	}

	b.WriteString(`
Answer in this structured format:

INSIGHTS:
[Two or three paragraphs covering overall data quality, the likely business impact of the problems found, and the recommended correction priorities]

RECOMMENDATIONS:
- [Specific, actionable recommendation 1]
- [Specific, actionable recommendation 2]
- [Specific, actionable recommendation 3]
- [Specific, actionable recommendation 4]
- [Specific, actionable recommendation 5]

Be direct, practical and technical.
`)
	return b.String()
}

// ParseResponse splits a model answer into insights and bullet
// recommendations. Fewer than three bullets are padded with general advice.
func ParseResponse(text string) Narrative {
	head, tail, _ := strings.Cut(text, "RECOMMENDATIONS:")
	insights := strings.TrimSpace(strings.Replace(head, "INSIGHTS:", "", 1))
	if insights == "" {
		insights = defaultInsights
	}

	recs := []string{}
	for _, line := range strings.Split(tail, "\n") {
		if item, ok := bullet(strings.TrimSpace(line)); ok {
			recs = append(recs, item)
		}
	}
	if len(recs) < 3 {
		recs = append(recs, generalRecommendations...)
	}
	return Narrative{Insights: insights, Recommendations: capRecommendations(recs)}
}

func bullet(line string) (string, bool) {
	for _, p := range []string{"-", "*", "•"} {
		rest, ok := strings.CutPrefix(line, p)
		if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		item := strings.TrimSpace(rest)
		return item, item != ""
	}
	return "", false
}
