// Package insights turns a quality report into a human readable narrative,
// either from a language model or from fixed rules.
package insights

import (
	"context"
	"log/slog"

	"github.com/KaramelBytes/dataqa-cli/internal/quality"
)

const maxRecommendations = 7

// generalRecommendations close every recommendation list.
var generalRecommendations = []string{
	"Add validation at the data source to prevent these problems from recurring",
	"Run automated data quality checks as part of the ETL pipeline",
	"Document the business rules, accepted formats and valid values for each field",
}

// Narrative is the prose attached to a report.
type Narrative struct {
	Insights        string   `json:"insights" yaml:"insights"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Narrator produces a narrative for a finished report.
type Narrator interface {
	Narrate(ctx context.Context, rep *quality.Report) (Narrative, error)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(ctx context.Context, rep *quality.Report) (Narrative, error)

func (f NarratorFunc) Narrate(ctx context.Context, rep *quality.Report) (Narrative, error) {
	return f(ctx, rep)
}

// WithFallback returns a Narrator that uses fallback whenever primary fails.
// A cancelled context is still reported as an error.
func WithFallback(primary, fallback Narrator) Narrator {
	return NarratorFunc(func(ctx context.Context, rep *quality.Report) (Narrative, error) {
		n, err := primary.Narrate(ctx, rep)
		if err == nil {
			return n, nil
		}
		if ctx.Err() != nil {
			return Narrative{}, ctx.Err()
		}
		slog.Warn("narrative generation failed, using rule-based insights", "file", rep.FileName, "error", err)
		return fallback.Narrate(ctx, rep)
	})
}

// Apply copies the narrative into the report.
func Apply(rep *quality.Report, n Narrative) {
	rep.AIInsights = n.Insights
	rep.Recommendations = append([]string{}, n.Recommendations...)
}

func capRecommendations(recs []string) []string {
	if len(recs) > maxRecommendations {
		return recs[:maxRecommendations]
	}
	return recs
}
