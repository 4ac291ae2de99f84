package pipeline

import (
	"context"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/resilience"
)

// ReasonNoPrimaryKeyword is the sentinel written to serp_analysis when the
// page audit yields no keyword to research.
const ReasonNoPrimaryKeyword = "No primary keyword found"

func (e *Engine) node(ctx context.Context, stage Stage, state *model.WorkflowState) (model.Update, *model.PhaseResult) {
	switch stage {
	case StagePageAuditor:
		return e.pageAuditor(ctx, state)
	case StageSerpAnalyst:
		return e.serpAnalyst(ctx, state)
	case StageOptimizationAdvisor:
		return e.optimizationAdvisor(ctx, state)
	default:
		return model.Update{}, &model.PhaseResult{Status: model.PhaseStatusSkipped}
	}
}

func (e *Engine) pageAuditor(ctx context.Context, state *model.WorkflowState) (model.Update, *model.PhaseResult) {
	rec, errs, pr := invoke(ctx, e.retry, StagePageAuditor, e.audit, map[string]any{
		"url": state.URL,
	})
	u := model.Update{Errors: errs}
	if !rec.IsEmpty() {
		u.PageAudit = &rec
	}
	return u, pr
}

// serpAnalyst skips inference entirely when there is no primary keyword.
// The skip is not an error.
func (e *Engine) serpAnalyst(ctx context.Context, state *model.WorkflowState) (model.Update, *model.PhaseResult) {
	keyword := state.PrimaryKeyword()
	if keyword == "" {
		skip := model.Failed[model.SerpAnalysis](ReasonNoPrimaryKeyword, "")
		return model.Update{SerpAnalysis: &skip}, &model.PhaseResult{
			Status:   model.PhaseStatusSkipped,
			Metadata: map[string]any{"reason": ReasonNoPrimaryKeyword},
		}
	}

	audit, _ := state.PageAudit.Value()
	rec, errs, pr := invoke(ctx, e.retry, StageSerpAnalyst, e.serp, map[string]any{
		"page_audit": audit,
	})
	pr.Metadata["primary_keyword"] = keyword

	u := model.Update{Errors: errs}
	if !rec.IsEmpty() {
		u.SerpAnalysis = &rec
	}
	return u, pr
}

// optimizationAdvisor always runs, even when both upstream records are
// empty or failed.
func (e *Engine) optimizationAdvisor(ctx context.Context, state *model.WorkflowState) (model.Update, *model.PhaseResult) {
	rec, errs, pr := invoke(ctx, e.retry, StageOptimizationAdvisor, e.advisor, map[string]any{
		"page_audit":    state.PageAudit,
		"serp_analysis": state.SerpAnalysis,
	})
	u := model.Update{Errors: errs}
	if report, ok := rec.Value(); ok {
		u.Report = &report
	}
	return u, pr
}

// invoke runs u under the retry policy and turns the outcome into a record
// plus error entries. Only a Validated record is returned non-empty. A fault
// that survives every attempt becomes "<Tag> Exception: ..."; a contract
// failure becomes "<Tag> Error: ..." and is not retried.
func invoke[T any](ctx context.Context, cfg resilience.RetryConfig, stage Stage, u *Unit[T], input map[string]any) (model.Record[T], []string, *model.PhaseResult) {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("pipeline", stage.String())
	}
	if cfg.OnGiveUp == nil {
		cfg.OnGiveUp = resilience.GiveUpLogger("pipeline", stage.String())
	}

	pr := &model.PhaseResult{Status: model.PhaseStatusComplete, Metadata: map[string]any{}}
	out, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (Outcome[T], error) {
		pr.Attempts++
		o, runErr := u.Run(ctx, input)
		pr.TokenUsage.Add(o.Usage)
		return o, runErr
	})
	if err != nil {
		msg := stage.Tag() + " Exception: " + err.Error()
		pr.Status = model.PhaseStatusFailed
		pr.Error = msg
		return model.Empty[T](), []string{msg}, pr
	}

	pr.Metadata["backend"] = out.Backend
	pr.Metadata["model"] = out.Model
	pr.Metadata["tool_calls"] = out.ToolCalls

	if out.Record.Kind() == model.RecordFailed {
		msg := stage.Tag() + " Error: " + out.Record.Reason()
		if raw := out.Record.RawOutput(); raw != "" {
			msg += " | raw_output: " + raw
		}
		pr.Status = model.PhaseStatusFailed
		pr.Error = msg
		return model.Empty[T](), []string{msg}, pr
	}
	return out.Record, nil, pr
}
