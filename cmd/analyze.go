package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/dataqa-cli/internal/decode"
	"github.com/KaramelBytes/dataqa-cli/internal/pipeline"
	"github.com/KaramelBytes/dataqa-cli/internal/render"
	"github.com/KaramelBytes/dataqa-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFormat     string
	anaOutputPath string
	anaColumns    bool
	anaInsights   bool
	anaDelimiter  string
	anaSheetName  string
	anaSheetIndex int
	anaTimeoutSec int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze the data quality of a CSV, TSV, Excel or JSON file",
	Example: `  dataqa analyze sales.csv
  dataqa analyze sales.xlsx --sheet-name Q1 --format markdown
  dataqa analyze export.json.gz --columns --insights -o report.html --format html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(anaFormat)
		if err != nil {
			return err
		}
		delim, err := parseDelimiter(anaDelimiter)
		if err != nil {
			return err
		}
		wantAI := currentConfig().Insights
		if cmd.Flags().Changed("insights") {
			wantAI = anaInsights
		}
		pipe, err := newPipeline(wantAI)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if anaTimeoutSec > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(anaTimeoutSec)*time.Second)
			defer cancel()
		}
		rep, err := pipe.File(ctx, args[0], pipeline.Options{
			Decode:   decode.Options{Delimiter: delim, SheetName: anaSheetName, SheetIndex: anaSheetIndex},
			Insights: wantAI,
		})
		if err != nil {
			return err
		}
		out, err := render.Render(pipeline.Result(rep, anaColumns), format)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report for %s to %s (score %.1f/100, %d issues)\n",
				format, rep.FileName, anaOutputPath, rep.QualityScore, len(rep.Issues))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "json", "output format: json|yaml|markdown|html")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().BoolVar(&anaColumns, "columns", false, "include per-column profiles")
	analyzeCmd.Flags().BoolVar(&anaInsights, "insights", false, "ask the configured AI model for insights (default from config)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().IntVar(&anaTimeoutSec, "timeout-sec", 0, "abort the analysis after this many seconds (0 = no limit)")
}
