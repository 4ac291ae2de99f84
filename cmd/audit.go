package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/report"
)

var (
	auditURL  string
	auditOut  string
	auditJSON bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a single URL",
	Example: `  seo-auditor audit --url https://example.com/blog/post
  seo-auditor audit --url https://example.com --out report.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateAuditURL(auditURL); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res := env.Engine.Run(ctx, auditURL)

		if auditOut != "" {
			if err := os.WriteFile(auditOut, []byte(report.Markdown(res.State)), 0o644); err != nil {
				return eris.Wrapf(err, "write report %s", auditOut)
			}
			zap.L().Info("report written", zap.String("path", auditOut))
		}

		return writeAuditResult(os.Stdout, res.State, auditJSON)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditURL, "url", "", "page URL to audit (required)")
	auditCmd.Flags().StringVar(&auditOut, "out", "", "also write a markdown report to this path")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print the final workflow state as JSON")
	_ = auditCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(auditCmd)
}

// validateAuditURL rejects input that is not an http(s) URL.
func validateAuditURL(u string) error {
	if !strings.HasPrefix(strings.TrimSpace(u), "http") {
		return eris.Errorf("invalid url %q: must start with http:// or https://", u)
	}
	return nil
}

// writeAuditResult prints the report, or a notice followed by the error list
// when no report was produced. Errors are listed after a report too.
func writeAuditResult(w io.Writer, state model.WorkflowState, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	if state.Report != "" {
		fmt.Fprintln(w, state.Report)
	} else {
		fmt.Fprintln(w, report.NoReport)
	}

	if len(state.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors:")
		for _, e := range state.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	return nil
}
