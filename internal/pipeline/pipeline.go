// Package pipeline ties decoding, analysis and narration together for the
// CLI, HTTP and MCP front ends.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/dataqa-cli/internal/dataset"
	"github.com/KaramelBytes/dataqa-cli/internal/decode"
	"github.com/KaramelBytes/dataqa-cli/internal/insights"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
)

// Options select decoding and narration for one run.
type Options struct {
	Decode decode.Options
	// Insights asks the AI narrator for the narrative. Without it, or when
	// no AI narrator is configured, the rule-based narrative is used.
	Insights bool
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	analyzer *quality.Analyzer
	ai       insights.Narrator
	rules    insights.Narrator
}

// New returns a pipeline. ai may be nil.
func New(analyzer *quality.Analyzer, ai insights.Narrator) *Pipeline {
	if analyzer == nil {
		analyzer = quality.NewAnalyzer()
	}
	return &Pipeline{analyzer: analyzer, ai: ai, rules: insights.Fallback{}}
}

// HasAI reports whether an AI narrator is configured.
func (p *Pipeline) HasAI() bool { return p.ai != nil }

func (p *Pipeline) narrator(opt Options) insights.Narrator {
	if opt.Insights && p.ai != nil {
		return insights.WithFallback(p.ai, p.rules)
	}
	return p.rules
}

// Dataset analyzes an already decoded dataset.
func (p *Pipeline) Dataset(ctx context.Context, name string, ds *dataset.Dataset, opt Options) (*quality.Report, error) {
	rep, err := p.analyzer.Analyze(ctx, name, ds)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", name, err)
	}
	n, err := p.narrator(opt).Narrate(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("narrate %s: %w", name, err)
	}
	insights.Apply(rep, n)
	return rep, nil
}

// Reader decodes r, whose format is taken from name, and analyzes it.
func (p *Pipeline) Reader(ctx context.Context, name string, r io.Reader, opt Options) (*quality.Report, error) {
	ds, err := decode.Decode(name, r, opt.Decode)
	if err != nil {
		return nil, err
	}
	return p.Dataset(ctx, filepath.Base(name), ds, opt)
}

// File decodes and analyzes the file at path.
func (p *Pipeline) File(ctx context.Context, path string, opt Options) (*quality.Report, error) {
	ds, err := decode.DecodeFile(path, opt.Decode)
	if err != nil {
		return nil, err
	}
	return p.Dataset(ctx, filepath.Base(path), ds, opt)
}

// Result wraps rep for output, attaching column profiles when withColumns is set.
func Result(rep *quality.Report, withColumns bool) quality.Result {
	res := quality.Result{Report: rep}
	if withColumns {
		res.ColumnAnalysis = rep.Columns
	}
	return res
}
