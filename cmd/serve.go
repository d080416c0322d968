package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/dataqa-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	srvAddr        string
	srvMaxUploadMB int
	srvInsights    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	Long: `Starts an HTTP API:
  GET  /healthz
  POST /api/analyze        multipart upload, field "file" (CSV or Excel)
  POST /api/analyze/rows   JSON body {"fileName", "columns", "rows"}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ListenAddr
		if cmd.Flags().Changed("addr") || addr == "" {
			addr = srvAddr
		}
		maxMB := c.MaxUploadMB
		if cmd.Flags().Changed("max-upload-mb") || maxMB <= 0 {
			maxMB = srvMaxUploadMB
		}
		if maxMB <= 0 {
			return fmt.Errorf("--max-upload-mb must be positive")
		}
		wantAI := c.Insights
		if cmd.Flags().Changed("insights") {
			wantAI = srvInsights
		}
		pipe, err := newPipeline(wantAI)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s := server.New(server.Config{
			Addr:           addr,
			MaxUploadBytes: int64(maxMB) << 20,
			Insights:       wantAI,
		}, pipe)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ DataQA API listening on %s (max upload %d MB)\n", addr, maxMB)
		return s.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", ":8080", "listen address (default from config listen_addr)")
	serveCmd.Flags().IntVar(&srvMaxUploadMB, "max-upload-mb", 100, "maximum upload size in MB (default from config max_upload_mb)")
	serveCmd.Flags().BoolVar(&srvInsights, "insights", false, "narrate reports with the configured AI model (default from config)")
}
