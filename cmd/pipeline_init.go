package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/adapter"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/config"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/cost"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/pipeline"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/prompts"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/scrape"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/search"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/store"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/firecrawl"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/google"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/jina"
)

// pipelineEnv holds the store and engine needed by the audit, batch and
// serve commands.
type pipelineEnv struct {
	Store    store.Store
	Engine   *pipeline.Engine
	backends *config.Backends
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.backends != nil {
		if err := pe.backends.Close(); err != nil {
			zap.L().Warn("close inference backends", zap.Error(err))
		}
	}
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline resolves inference backends first so a missing credential
// aborts before any store or network work, then builds the engine. Callers
// should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	be, err := config.ResolveBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}
	env := &pipelineEnv{backends: be}

	instr, err := prompts.Load(cfg.Prompts.Dir, cfg.Prompts.Bundle)
	if err != nil {
		env.Close()
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Store = st

	ad, err := buildAdapters(ctx, cfg, cfg.Breakers())
	if err != nil {
		env.Close()
		return nil, err
	}

	calc := cost.NewCalculator(cfg.Pricing)
	env.Engine = pipeline.New(
		pipeline.NewInferers(be.Selection, cfg.InferOptions(calc)),
		instr,
		ad,
		pipeline.WithRetry(cfg.StageRetry()),
		pipeline.WithStore(st),
		pipeline.WithMemory(cfg.Memory.Path),
	)

	return env, nil
}

// initStore opens and migrates the run history store.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	if cfg.Store.Driver == "postgres" {
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	} else {
		st, err = store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	}
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// buildAdapters assembles the scrape and search chains. Firecrawl leads the
// scrape chain when keyed, followed by Jina Reader and the local fetcher.
// Google Custom Search leads the search chain when keyed, followed by Jina
// Search when keyed.
func buildAdapters(ctx context.Context, c *config.Config, breakers *resilience.Breakers) (*adapter.Adapters, error) {
	jinaClient := jina.NewClient(c.Jina.Key,
		jina.WithBaseURL(c.Jina.BaseURL),
		jina.WithSearchBaseURL(c.Jina.SearchBaseURL),
	)

	var (
		scrapers []scrape.Scraper
		opts     []adapter.Option
	)
	if c.Firecrawl.Key != "" {
		fcOpts := scrape.DefaultScrapeOptions()
		fcOpts.TimeoutMs = c.Firecrawl.TimeoutMs
		fc := scrape.NewFirecrawlAdapter(
			firecrawl.NewClient(c.Firecrawl.Key, firecrawl.WithBaseURL(c.Firecrawl.BaseURL)),
			fcOpts,
		)
		scrapers = append(scrapers, fc)
		opts = append(opts, adapter.WithOptionScraper(fc))
	}
	scrapers = append(scrapers, scrape.NewJinaAdapter(jinaClient), scrape.NewLocalScraper())

	var providers []search.Provider
	if c.Google.Key != "" && c.Google.CSEID != "" {
		gc, err := google.NewClient(ctx, c.Google.Key, c.Google.CSEID)
		if err != nil {
			return nil, eris.Wrap(err, "init google search")
		}
		providers = append(providers, search.NewGoogleProvider(gc, c.Google.QPS))
	}
	if c.Jina.Key != "" {
		providers = append(providers, search.NewJinaProvider(jinaClient))
	}
	if len(providers) == 0 {
		zap.L().Warn("no search provider configured; competitor analysis will run without live results")
	}

	scraper := scrape.NewChain(nil, breakers, scrapers...)
	searcher := search.NewChain(breakers, providers...)

	zap.L().Info("adapters ready",
		zap.Strings("scrapers", scraper.Names()),
		zap.Int("search_providers", len(providers)),
	)
	return adapter.New(scraper, searcher, opts...), nil
}
