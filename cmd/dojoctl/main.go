package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-assist-bff/internal/config"
	"sales-assist-bff/pkg/analysis"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	baseURL string
	wsURL   string
	rootCmd = &cobra.Command{
		Use:   "dojoctl",
		Short: "Terminal client for the sales analysis service",
		Long: `dojoctl talks to the analysis service directly: hold a practice
conversation from the terminal or manage the knowledge base.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("base-url") {
				baseURL = cfg.Analysis.BaseURL
			}
			if !cmd.Flags().Changed("ws-url") {
				wsURL = cfg.Analysis.WsURL
			}
		},
		SilenceUsage: true,
	}
)

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "analysis service base URL (default: ANALYSIS_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&wsURL, "ws-url", "", "analysis push base URL (default: ANALYSIS_WS_URL)")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(nuggetsCmd())
	rootCmd.AddCommand(standardsCmd())
}

func newClient() *analysis.Client {
	return analysis.NewClient(baseURL, cfg.Analysis.AdminKey, cfg.Analysis.Timeout)
}

// requestContext bounds one admin call.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, analysis.UserMessage(err))
		os.Exit(1)
	}
}
