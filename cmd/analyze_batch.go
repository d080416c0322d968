package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/KaramelBytes/dataqa-cli/internal/decode"
	"github.com/KaramelBytes/dataqa-cli/internal/pipeline"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
	"github.com/KaramelBytes/dataqa-cli/internal/render"
	"github.com/KaramelBytes/dataqa-cli/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abJobs      int
	abOutputDir string
	abFormat    string
	abColumns   bool
	abInsights  bool
	abDelimiter string
	abQuiet     bool
)

// batchResult is one file's outcome; exactly one of rep and err is set.
type batchResult struct {
	path string
	rep  *quality.Report
	err  error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze many files concurrently and print a summary table",
	Example: `  dataqa analyze-batch 'data/*.csv' --jobs 8
  dataqa analyze-batch exports/*.xlsx --output-dir reports --format markdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandInputs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format, err := render.ParseFormat(abFormat)
		if err != nil {
			return err
		}
		delim, err := parseDelimiter(abDelimiter)
		if err != nil {
			return err
		}
		c := currentConfig()
		jobs := abJobs
		if !cmd.Flags().Changed("jobs") && c.BatchJobs > 0 {
			jobs = c.BatchJobs
		}
		wantAI := c.Insights
		if cmd.Flags().Changed("insights") {
			wantAI = abInsights
		}
		pipe, err := newPipeline(wantAI)
		if err != nil {
			return err
		}
		opt := pipeline.Options{Decode: decode.Options{Delimiter: delim}, Insights: wantAI}

		out := cmd.OutOrStdout()
		results := runBatch(cmd.Context(), pipe, files, opt, jobs, func(done int, r batchResult) {
			if abQuiet {
				return
			}
			status := "✓"
			if r.err != nil {
				status = "✗"
			}
			fmt.Fprintf(out, "[%d/%d] %s %s\n", done, len(files), status, filepath.Base(r.path))
		})

		failed := 0
		for i := range results {
			r := &results[i]
			if r.err != nil {
				failed++
				continue
			}
			if abOutputDir == "" {
				continue
			}
			b, err := render.Render(pipeline.Result(r.rep, abColumns), format)
			if err == nil {
				err = utils.SafeWriteFile(filepath.Join(abOutputDir, utils.OutputName(r.path, format.Ext())), b)
			}
			if err != nil {
				r.err = fmt.Errorf("write report: %w", err)
				failed++
			}
		}

		printBatchTable(out, results)
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(files))
		}
		if abOutputDir != "" && !abQuiet {
			fmt.Fprintf(out, "✓ Wrote %d reports to %s\n", len(files), abOutputDir)
		}
		return nil
	},
}

// runBatch analyzes files with at most jobs concurrent workers. Results keep
// the input order; a failing file does not stop the others.
func runBatch(ctx context.Context, pipe *pipeline.Pipeline, files []string, opt pipeline.Options, jobs int, progress func(done int, r batchResult)) []batchResult {
	if jobs <= 0 {
		jobs = 1
	}
	results := make([]batchResult, len(files))
	done := make(chan batchResult)
	var g errgroup.Group
	g.SetLimit(jobs)
	go func() {
		for i, path := range files {
			g.Go(func() error {
				rep, err := pipe.File(ctx, path, opt)
				results[i] = batchResult{path: path, rep: rep, err: err}
				done <- results[i]
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()
	n := 0
	for r := range done {
		n++
		if progress != nil {
			progress(n, r)
		}
	}
	return results
}

func printBatchTable(w io.Writer, results []batchResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tROWS\tCOLUMNS\tSCORE\tISSUES\tSTATUS")
	for _, r := range results {
		name := filepath.Base(r.path)
		if r.err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t✗ %v\n", name, r.err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%d\t✓\n", name, r.rep.TotalRows, r.rep.TotalColumns, r.rep.QualityScore, len(r.rep.Issues))
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().IntVar(&abJobs, "jobs", 4, "number of files analyzed concurrently (default from config batch_jobs)")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one report per file into this directory")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "json", "report format for --output-dir: json|yaml|markdown|html")
	analyzeBatchCmd.Flags().BoolVar(&abColumns, "columns", false, "include per-column profiles in written reports")
	analyzeBatchCmd.Flags().BoolVar(&abInsights, "insights", false, "ask the configured AI model for insights (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
