package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataqa-cli/internal/ai"
	"github.com/spf13/cobra"
)

var modelsProvider string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the narration model and fallback chain per provider",
	Example: `  dataqa models
  dataqa models --provider ollama`,
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := ai.Providers()
		if modelsProvider != "" {
			p := normalizeProvider(modelsProvider)
			if _, err := ai.NewRuntime(p, ai.RuntimeConfig{}); err != nil {
				return err
			}
			providers = []string{p}
		}
		c := currentConfig()
		out := cmd.OutOrStdout()
		for _, p := range providers {
			model := ai.DefaultModel(p)
			fallbacks := ai.FallbackModels(p, model)
			if normalizeProvider(c.Provider) == p {
				if c.Model != "" {
					model = c.Model
				}
				if len(c.FallbackModels) > 0 {
					fallbacks = c.FallbackModels
				} else {
					fallbacks = ai.FallbackModels(p, model)
				}
				p += " (configured)"
			}
			fmt.Fprintf(out, "%s\n  model:     %s\n", p, model)
			if len(fallbacks) > 0 {
				fmt.Fprintf(out, "  fallbacks: %s\n", strings.Join(fallbacks, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsProvider, "provider", "", "show only this provider (openrouter|ollama)")
}
