package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points HOME and the working directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DATAQA_API_KEY", "")
	t.Setenv("DATAQA_INSIGHTS", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const ordersCSV = "id,customer,amount\n1,ann,10\n2,bob,12\n2,bob,12\n3,,11\n4,dan,9\n5,eve,10\n"

func TestCLI_AnalyzeJSON(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "orders.csv", ordersCSV)

	out, err := runCmd(t, "analyze", path, "--columns")
	require.NoError(t, err)

	var res struct {
		Report struct {
			FileName  string `json:"fileName"`
			TotalRows int    `json:"totalRows"`
			Summary   struct {
				Duplicates    int `json:"duplicates"`
				MissingValues int `json:"missingValues"`
			} `json:"summary"`
			Recommendations []string `json:"recommendations"`
		} `json:"report"`
		ColumnAnalysis []struct {
			Name string `json:"name"`
		} `json:"columnAnalysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "orders.csv", res.Report.FileName)
	assert.Equal(t, 6, res.Report.TotalRows)
	assert.Equal(t, 1, res.Report.Summary.Duplicates)
	assert.Equal(t, 1, res.Report.Summary.MissingValues)
	assert.NotEmpty(t, res.Report.Recommendations)
	assert.Len(t, res.ColumnAnalysis, 3)
}

func TestCLI_AnalyzeWritesOutput(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "orders.csv", ordersCSV)
	dest := filepath.Join(home, "reports", "orders.md")

	out, err := runCmd(t, "analyze", path, "--format", "markdown", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote markdown report")

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(body), "[DATASET SUMMARY]")
	assert.Contains(t, string(body), "[RECOMMENDATIONS]")
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, home, "orders.csv", ordersCSV)

	_, err := runCmd(t, "analyze", path, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = runCmd(t, "analyze", path, "--delimiter", "#")
	assert.ErrorContains(t, err, "unsupported --delimiter")

	_, err = runCmd(t, "analyze", writeFile(t, home, "notes.pdf", "x"))
	assert.ErrorContains(t, err, "unsupported file format")
}

func TestCLI_AnalyzeBatch(t *testing.T) {
	home := isolate(t)
	writeFile(t, home, "a.csv", ordersCSV)
	writeFile(t, home, "b.csv", "x,y\n1,2\n3,4\n")
	outDir := filepath.Join(home, "reports")

	out, err := runCmd(t, "analyze-batch", filepath.Join(home, "*.csv"), "--jobs", "2", "--output-dir", outDir, "--format", "yaml")
	require.NoError(t, err, out)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "a.csv")
	assert.Contains(t, out, "b.csv")
	assert.Contains(t, out, "✓ Wrote 2 reports")

	for _, n := range []string{"a.quality.yaml", "b.quality.yaml"} {
		_, err := os.Stat(filepath.Join(outDir, n))
		assert.NoError(t, err, n)
	}
}

func TestCLI_AnalyzeBatchContinuesPastFailures(t *testing.T) {
	home := isolate(t)
	good := writeFile(t, home, "good.csv", "x\n1\n")
	bad := writeFile(t, home, "empty.csv", "")

	out, err := runCmd(t, "analyze-batch", good, bad, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.Contains(t, lines[1], "empty.csv")
	assert.Contains(t, lines[1], "✗")
	assert.Contains(t, lines[2], "good.csv")
	assert.Contains(t, lines[2], "✓")

	_, err = runCmd(t, "analyze-batch", filepath.Join(home, "*.none"))
	assert.ErrorContains(t, err, "no input files matched")
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "dataqa.yaml")

	_, err := runCmd(t, "--config", cfgPath, "config", "set", "provider", "ollama")
	require.NoError(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "api_key", "sk-abcdef123456")
	require.NoError(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "bogus", "1")
	assert.ErrorContains(t, err, "unknown config key")

	out, err := runCmd(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: ollama")
	assert.Contains(t, out, "api_key: sk-****456")
	assert.NotContains(t, out, "abcdef")
}

func TestCLI_Models(t *testing.T) {
	isolate(t)
	out, err := runCmd(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "openrouter (configured)")
	assert.Contains(t, out, "google/gemini-2.5-flash")
	assert.Contains(t, out, "ollama\n")

	out, err = runCmd(t, "models", "--provider", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3.1:8b")
	assert.NotContains(t, out, "gemini")

	_, err = runCmd(t, "models", "--provider", "nope")
	assert.Error(t, err)
}

func TestNormalizeProvider(t *testing.T) {
	assert.Equal(t, "openrouter", normalizeProvider(""))
	assert.Equal(t, "ollama", normalizeProvider(" Local "))
	assert.Equal(t, "other", normalizeProvider("Other"))
}
