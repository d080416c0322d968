package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataqa-cli/internal/ai"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRuntime struct {
	models  []string
	replies map[string]string
	errs    map[string]error
}

func (s *stubRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	s.models = append(s.models, req.Model)
	if err := s.errs[req.Model]; err != nil {
		return nil, err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: s.replies[req.Model]}}}}, nil
}

func notFound() error {
	return &ai.ModelNotFoundError{APIError: &ai.APIError{StatusCode: 404, Message: "no such model"}}
}

func sampleReport(score float64) *quality.Report {
	return &quality.Report{
		FileName:     "sales.csv",
		TotalRows:    100,
		TotalColumns: 4,
		QualityScore: score,
		Issues: []quality.Issue{
			{Type: quality.IssueMissingValues, Severity: quality.SeverityCritical, Column: "email", Description: `Column "email" has 60.0% missing values`, AffectedRecords: 60},
			{Type: quality.IssueDuplicates, Severity: quality.SeverityHigh, Description: "Found 12 duplicate rows", AffectedRecords: 12},
		},
		Summary:         quality.Summary{MissingValues: 1, Duplicates: 1},
		Recommendations: []string{},
	}
}

func TestFallbackTiers(t *testing.T) {
	cases := []struct {
		score float64
		level string
	}{
		{95, "excellent"}, {90, "excellent"}, {80, "good"}, {60, "moderate"}, {45, "low"}, {10, "critical"},
	}
	for _, tc := range cases {
		n, err := Fallback{}.Narrate(context.Background(), sampleReport(tc.score))
		require.NoError(t, err)
		assert.Contains(t, n.Insights, "**"+tc.level+"**", "score %v", tc.score)
	}
}

func TestFallbackContent(t *testing.T) {
	n, err := Fallback{}.Narrate(context.Background(), sampleReport(42))
	require.NoError(t, err)
	assert.Contains(t, n.Insights, "1 critical issue")
	assert.Contains(t, n.Insights, "12 duplicate rows")
	assert.Contains(t, n.Insights, "Do not use this data in production")
	assert.NotContains(t, n.Insights, "**Outliers:**")

	require.Len(t, n.Recommendations, 6)
	assert.True(t, strings.HasPrefix(n.Recommendations[0], "URGENT"))
	assert.Contains(t, n.Recommendations[1], "Impute")
	assert.Contains(t, n.Recommendations[2], "12 duplicate rows")
	assert.Equal(t, generalRecommendations, n.Recommendations[3:])
}

func TestFallbackCleanReport(t *testing.T) {
	rep := &quality.Report{FileName: "ok.csv", TotalRows: 3, TotalColumns: 2, QualityScore: 100, Issues: []quality.Issue{}}
	n, err := Fallback{}.Narrate(context.Background(), rep)
	require.NoError(t, err)
	assert.Contains(t, n.Insights, "0 issues")
	assert.Contains(t, n.Insights, "Address the identified problems")
	assert.Equal(t, generalRecommendations, n.Recommendations)
}

func TestFallbackRecommendationsCapped(t *testing.T) {
	rep := sampleReport(20)
	rep.Summary = quality.Summary{MissingValues: 3, Duplicates: 1, Outliers: 2, Inconsistencies: 1}
	n, _ := Fallback{}.Narrate(context.Background(), rep)
	assert.Len(t, n.Recommendations, maxRecommendations)
	assert.Contains(t, n.Recommendations[1], "Review the data collection process")
}

func TestParseResponse(t *testing.T) {
	text := `INSIGHTS:
The data looks decent.

Some columns need work.

RECOMMENDATIONS:
- Fix emails
* Drop duplicates
• Check outliers
-not a bullet
- Validate inputs
`
	n := ParseResponse(text)
	assert.Equal(t, "The data looks decent.\n\nSome columns need work.", n.Insights)
	assert.Equal(t, []string{"Fix emails", "Drop duplicates", "Check outliers", "Validate inputs"}, n.Recommendations)
}

func TestParseResponsePadsAndDefaults(t *testing.T) {
	n := ParseResponse("RECOMMENDATIONS:\n- Only one")
	assert.Equal(t, defaultInsights, n.Insights)
	assert.Equal(t, append([]string{"Only one"}, generalRecommendations...), n.Recommendations)

	var b strings.Builder
	b.WriteString("INSIGHTS: fine\nRECOMMENDATIONS:\n")
	for i := 0; i < 10; i++ {
		b.WriteString("- item\n")
	}
	assert.Len(t, ParseResponse(b.String()).Recommendations, maxRecommendations)
}

func TestBuildPrompt(t *testing.T) {
	rep := sampleReport(42)
	for i := 0; i < 6; i++ {
		rep.Issues = append(rep.Issues, quality.Issue{Severity: quality.SeverityLow, Description: "extra"})
	}
	p := BuildPrompt(rep)
	assert.Contains(t, p, "File: sales.csv")
	assert.Contains(t, p, "Quality score: 42.0/100")
	assert.Contains(t, p, `1. [CRITICAL] Column "email" has 60.0% missing values`)
	assert.Contains(t, p, "5. [LOW] extra")
	assert.NotContains(t, p, "6. [LOW]")
	assert.Contains(t, p, "RECOMMENDATIONS:")

	long := &quality.Report{Issues: []quality.Issue{{Severity: quality.SeverityLow, Description: strings.Repeat("x", 1000)}}}
	assert.Contains(t, BuildPrompt(long), strings.Repeat("x", 239)+"…")
	assert.NotContains(t, BuildPrompt(long), strings.Repeat("x", 241))

	empty := BuildPrompt(&quality.Report{FileName: "x"})
	assert.Contains(t, empty, "No issues detected")
}

func TestAIFallsBackOnMissingModel(t *testing.T) {
	rt := &stubRuntime{
		errs:    map[string]error{"a": notFound()},
		replies: map[string]string{"b": "INSIGHTS: good\nRECOMMENDATIONS:\n- one\n- two\n- three"},
	}
	n, err := AI{Runtime: rt, Model: "a", FallbackModels: []string{"b", "c"}}.Narrate(context.Background(), sampleReport(50))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rt.models)
	assert.Equal(t, "good", n.Insights)
	assert.Equal(t, []string{"one", "two", "three"}, n.Recommendations)
}

func TestAIAllModelsMissing(t *testing.T) {
	rt := &stubRuntime{errs: map[string]error{"a": notFound(), "b": notFound()}}
	_, err := AI{Runtime: rt, Model: "a", FallbackModels: []string{"b"}}.Narrate(context.Background(), sampleReport(50))
	require.Error(t, err)
	assert.True(t, ai.IsModelNotFound(err))
	assert.Equal(t, []string{"a", "b"}, rt.models)
}

func TestAIStopsOnOtherErrors(t *testing.T) {
	rt := &stubRuntime{errs: map[string]error{"a": &ai.AuthError{APIError: &ai.APIError{StatusCode: 401}}}}
	_, err := AI{Runtime: rt, Model: "a", FallbackModels: []string{"b"}}.Narrate(context.Background(), sampleReport(50))
	var authErr *ai.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, []string{"a"}, rt.models)
}

func TestWithFallback(t *testing.T) {
	failing := NarratorFunc(func(context.Context, *quality.Report) (Narrative, error) {
		return Narrative{}, errors.New("boom")
	})
	rep := sampleReport(42)
	n, err := WithFallback(failing, Fallback{}).Narrate(context.Background(), rep)
	require.NoError(t, err)
	assert.Contains(t, n.Insights, "**low**")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = WithFallback(failing, Fallback{}).Narrate(ctx, rep)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApply(t *testing.T) {
	rep := sampleReport(42)
	n := Narrative{Insights: "text", Recommendations: []string{"r1"}}
	Apply(rep, n)
	assert.Equal(t, "text", rep.AIInsights)
	assert.Equal(t, []string{"r1"}, rep.Recommendations)
	n.Recommendations[0] = "changed"
	assert.Equal(t, "r1", rep.Recommendations[0])
}
