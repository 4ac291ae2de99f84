package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seo-auditor",
	Short: "Three-stage AI SEO audit pipeline",
	Long: `Audits a web page, analyzes the search results for its primary keyword and
writes a prioritized optimization report.

Run one audit with "audit", a list of URLs with "batch", or expose the
pipeline over HTTP with "serve". Finished runs are kept in the run history
("runs"), the last result is saved locally ("state"), and reports can be
exported to xlsx or markdown ("export") or published to Notion ("publish").`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
