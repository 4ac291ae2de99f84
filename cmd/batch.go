package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/pipeline"
)

var (
	batchFile        string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Audit every URL listed in a file",
	Long:  "Reads one URL per line (blank lines and # comments are skipped) and audits them with bounded concurrency. Each audit runs its own pipeline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(batchFile)
		if err != nil {
			return eris.Wrapf(err, "open %s", batchFile)
		}
		urls, err := readURLs(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			fmt.Fprintln(os.Stderr, "No URLs to audit.")
			return nil
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		sum := runBatch(ctx, urls, concurrency, env.Engine.Run)
		fmt.Fprintf(os.Stdout, "Audited %d URLs: %d clean, %d with errors, %d without a report\n",
			sum.Total, sum.Clean, sum.WithErrors, sum.NoReport)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one URL per line (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel audits (defaults to batch.concurrency)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// readURLs parses one URL per line. Lines that are not http(s) URLs are
// logged and skipped.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		u := strings.TrimSpace(sc.Text())
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		if err := validateAuditURL(u); err != nil {
			zap.L().Warn("batch: skipping line", zap.Int("line", line), zap.Error(err))
			continue
		}
		urls = append(urls, u)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read urls")
	}
	return urls, nil
}

type batchSummary struct {
	Total      int
	Clean      int
	WithErrors int
	NoReport   int
}

type auditFunc func(ctx context.Context, url string) *pipeline.Result

// runBatch audits urls with at most concurrency audits in flight. Audits
// never fail as a whole, so the group only stops early on cancellation.
func runBatch(ctx context.Context, urls []string, concurrency int, audit auditFunc) batchSummary {
	results := make([]*pipeline.Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = audit(gctx, u)
			zap.L().Info("batch: audit finished",
				zap.String("url", u),
				zap.Int("errors", len(results[i].State.Errors)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Warn("batch: stopped early", zap.Error(err))
	}

	sum := batchSummary{}
	for _, res := range results {
		if res == nil {
			continue
		}
		sum.Total++
		switch {
		case res.State.Report == "":
			sum.NoReport++
		case len(res.State.Errors) > 0:
			sum.WithErrors++
		default:
			sum.Clean++
		}
	}
	return sum
}
