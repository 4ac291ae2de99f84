// Package pipeline runs the three-stage SEO audit: page audit, SERP
// analysis and optimization advice over one shared WorkflowState.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/adapter"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/contract"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/memory"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/prompts"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/store"
)

// Inferers holds the inferer for plain stages and the one for stages that
// bind tools. Tools may be nil, in which case Default serves every stage.
type Inferers struct {
	Default *llm.Inferer
	Tools   *llm.Inferer
}

// NewInferers builds Inferers from a resolved backend selection.
func NewInferers(sel llm.Selection, opts llm.Options) Inferers {
	inf := Inferers{Default: llm.NewInferer(sel.For(false), opts)}
	if tb := sel.For(true); tb != nil && tb != sel.Default {
		inf.Tools = llm.NewInferer(tb, opts)
	} else {
		inf.Tools = inf.Default
	}
	return inf
}

func (i Inferers) forTools(withTools bool) *llm.Inferer {
	if withTools && i.Tools != nil {
		return i.Tools
	}
	return i.Default
}

// Engine sequences the audit stages. It is safe for concurrent Runs; each
// Run owns its own state.
type Engine struct {
	audit   *Unit[model.PageAudit]
	serp    *Unit[model.SerpAnalysis]
	advisor *Unit[string]

	retry      resilience.RetryConfig
	store      store.Store
	memoryPath string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetry overrides the stage retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(e *Engine) { e.retry = cfg }
}

// WithStore records runs and phases in st.
func WithStore(st store.Store) Option {
	return func(e *Engine) { e.store = st }
}

// WithMemory saves the final state of every run to path.
func WithMemory(path string) Option {
	return func(e *Engine) { e.memoryPath = path }
}

// New builds an Engine. The page auditor may call the scrape tool and the
// SERP analyst the search tool when ad is non-nil.
func New(inf Inferers, instr prompts.Set, ad *adapter.Adapters, opts ...Option) *Engine {
	var scrapeTools, searchTools *llm.Toolset
	if ad != nil {
		scrapeTools = llm.NewToolset(ad.ScrapeTool())
		searchTools = llm.NewToolset(ad.SearchTool())
	}

	e := &Engine{
		audit: &Unit[model.PageAudit]{
			Name:        prompts.PageAuditor,
			Instruction: instr.PageAuditor,
			OutputKey:   "page_audit",
			Tools:       scrapeTools,
			Validate:    contract.PageAudit.Validate,
			inferer:     inf.forTools(scrapeTools != nil),
		},
		serp: &Unit[model.SerpAnalysis]{
			Name:        prompts.SerpAnalyst,
			Instruction: instr.SerpAnalyst,
			OutputKey:   "serp_analysis",
			Tools:       searchTools,
			Validate:    contract.SerpAnalysis.Validate,
			inferer:     inf.forTools(searchTools != nil),
		},
		advisor: &Unit[string]{
			Name:        prompts.OptimizationAdvisor,
			Instruction: instr.OptimizationAdvisor,
			OutputKey:   "report",
			Validate:    textValidator,
			inferer:     inf.Default,
		},
		retry: resilience.StageRetryConfig(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Result is a finished run.
type Result struct {
	RunID  string
	State  model.WorkflowState
	Phases []model.PhaseResult
	Usage  model.TokenUsage
}

// Run audits url. It never fails: stage faults land in State.Errors. When a
// store is configured the run is recorded; store failures are only logged.
func (e *Engine) Run(ctx context.Context, url string) *Result {
	runID := ""
	if e.store != nil {
		run, err := e.store.CreateRun(context.WithoutCancel(ctx), url)
		if err != nil {
			zap.L().Warn("pipeline: failed to create run", zap.String("url", url), zap.Error(err))
		} else {
			runID = run.ID
		}
	}
	return e.Execute(ctx, runID, url)
}

// Execute audits url under an existing run id. An empty runID skips run
// history.
func (e *Engine) Execute(ctx context.Context, runID, url string) *Result {
	log := zap.L().With(zap.String("url", url), zap.String("run_id", runID))
	log.Info("pipeline: starting audit")

	// Bookkeeping outlives cancellation so a cancelled run is still closed out.
	bctx := context.WithoutCancel(ctx)
	track := e.store != nil && runID != ""

	setStatus := func(status model.RunStatus) {
		if !track {
			return
		}
		if err := e.store.UpdateRunStatus(bctx, runID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	result := &Result{RunID: runID}
	trackPhase := func(name string, fn func() *model.PhaseResult) *model.PhaseResult {
		var phase *model.RunPhase
		if track {
			p, err := e.store.CreatePhase(bctx, runID, name)
			if err != nil {
				log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(err))
			}
			phase = p
		}

		start := time.Now()
		pr := fn()
		pr.Name = name
		pr.Duration = time.Since(start).Milliseconds()

		fields := []zap.Field{
			zap.String("phase", name),
			zap.Int64("duration_ms", pr.Duration),
			zap.Int("attempts", pr.Attempts),
		}
		switch pr.Status {
		case model.PhaseStatusFailed:
			log.Warn("pipeline: node failed", append(fields, zap.String("error", pr.Error))...)
		case model.PhaseStatusSkipped:
			log.Info("pipeline: node skipped", fields...)
		default:
			log.Info("pipeline: node complete", fields...)
		}

		if phase != nil {
			if err := e.store.CompletePhase(bctx, phase.ID, pr); err != nil {
				log.Warn("pipeline: failed to complete phase", zap.String("phase", name), zap.Error(err))
			}
		}
		result.Phases = append(result.Phases, *pr)
		result.Usage.Add(pr.TokenUsage)
		return pr
	}

	setStatus(model.RunStatusRunning)

	state := model.NewWorkflowState(url)
	for stage := StagePageAuditor; stage != StageDone; stage = stage.Next() {
		trackPhase(stage.PhaseName(), func() *model.PhaseResult {
			update, pr := e.node(ctx, stage, state)
			state.Apply(update)
			return pr
		})
	}

	result.State = state.Snapshot()

	if e.memoryPath != "" {
		if err := memory.Save(e.memoryPath, result.State); err != nil {
			log.Warn("pipeline: failed to save memory", zap.String("path", e.memoryPath), zap.Error(err))
		}
	}

	if track {
		status := model.RunStatusComplete
		runResult := &model.RunResult{
			State:       result.State,
			Phases:      result.Phases,
			TotalTokens: result.Usage.Total(),
			TotalCost:   result.Usage.Cost,
		}
		if err := ctx.Err(); err != nil {
			status = model.RunStatusFailed
			runResult.Error = err.Error()
		}
		if err := e.store.UpdateRunResult(bctx, runID, status, runResult); err != nil {
			log.Warn("pipeline: failed to save run result", zap.Error(err))
		}
	}

	log.Info("pipeline: audit complete",
		zap.Int("errors", len(result.State.Errors)),
		zap.Int("tokens", result.Usage.Total()),
		zap.Float64("cost_usd", result.Usage.Cost),
	)
	return result
}
