package quality

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Summary counts issues per type.
type Summary struct {
	MissingValues   int `json:"missingValues" yaml:"missingValues"`
	Duplicates      int `json:"duplicates" yaml:"duplicates"`
	Outliers        int `json:"outliers" yaml:"outliers"`
	Inconsistencies int `json:"inconsistencies" yaml:"inconsistencies"`
}

// Report is the outcome of one analysis.
type Report struct {
	ID              string    `json:"reportId" yaml:"reportId"`
	FileName        string    `json:"fileName" yaml:"fileName"`
	TotalRows       int       `json:"totalRows" yaml:"totalRows"`
	TotalColumns    int       `json:"totalColumns" yaml:"totalColumns"`
	QualityScore    float64   `json:"qualityScore" yaml:"qualityScore"`
	Issues          []Issue   `json:"issues" yaml:"issues"`
	Summary         Summary   `json:"summary" yaml:"summary"`
	AIInsights      string    `json:"aiInsights" yaml:"aiInsights"`
	Recommendations []string  `json:"recommendations" yaml:"recommendations"`
	ProcessedAt     time.Time `json:"processedAt" yaml:"processedAt"`

	// Columns holds the profiles the detectors ran against. It is kept out of
	// the flat report encoding; use Result to publish it.
	Columns []ColumnProfile `json:"-" yaml:"-"`
}

// Result pairs a report with its column analysis for output.
type Result struct {
	Report         *Report         `json:"report" yaml:"report"`
	ColumnAnalysis []ColumnProfile `json:"columnAnalysis,omitempty" yaml:"columnAnalysis,omitempty"`
}

// Summarize counts issues by type.
func Summarize(issues []Issue) Summary {
	var s Summary
	for _, is := range issues {
		switch is.Type {
		case IssueMissingValues:
			s.MissingValues++
		case IssueDuplicates:
			s.Duplicates++
		case IssueOutliers:
			s.Outliers++
		case IssueInconsistency:
			s.Inconsistencies++
		}
	}
	return s
}

// Analyzer runs the profiler, the detectors and the scorer over a dataset.
// It holds no per-analysis state and is safe for concurrent use.
type Analyzer struct {
	detectors []Detector
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDetectors replaces the default detector set. Issues are reported in
// the order given.
func WithDetectors(ds ...Detector) Option {
	return func(a *Analyzer) { a.detectors = ds }
}

// WithClock overrides the ProcessedAt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{detectors: DefaultDetectors(), now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze builds the quality report for ds. It fails only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, fileName string, ds *dataset.Dataset) (*Report, error) {
	start := time.Now()
	profiles := AnalyzeColumns(ds)

	results := make([][]Issue, len(a.detectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range a.detectors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.Detect(ds, profiles)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issues := []Issue{}
	for _, r := range results {
		issues = append(issues, r...)
	}
	score := Score(ds.Len(), ds.Width(), issues)
	rep := &Report{
		ID:              uuid.NewString(),
		FileName:        fileName,
		TotalRows:       ds.Len(),
		TotalColumns:    ds.Width(),
		QualityScore:    math.Round(score*10) / 10,
		Issues:          issues,
		Summary:         Summarize(issues),
		Recommendations: []string{},
		ProcessedAt:     a.now().UTC(),
		Columns:         profiles,
	}
	slog.Debug("quality analysis complete",
		"file", fileName,
		"rows", rep.TotalRows,
		"columns", rep.TotalColumns,
		"issues", len(issues),
		"score", rep.QualityScore,
		"elapsed", time.Since(start))
	return rep, nil
}
