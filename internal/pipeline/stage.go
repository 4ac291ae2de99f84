package pipeline

// Stage is a node of the audit workflow. Transitions are unconditional:
// PageAuditor → SerpAnalyst → OptimizationAdvisor → Done.
type Stage int

const (
	StagePageAuditor Stage = iota
	StageSerpAnalyst
	StageOptimizationAdvisor
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePageAuditor:
		return "PageAuditor"
	case StageSerpAnalyst:
		return "SerpAnalyst"
	case StageOptimizationAdvisor:
		return "OptimizationAdvisor"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Next returns the following stage. Done is terminal.
func (s Stage) Next() Stage {
	if s >= StageDone {
		return StageDone
	}
	return s + 1
}

// Tag prefixes entries the stage appends to the error list.
func (s Stage) Tag() string {
	if s == StageOptimizationAdvisor {
		return "Advisor"
	}
	return s.String()
}

// PhaseName is the name the stage is recorded under in run history.
func (s Stage) PhaseName() string {
	switch s {
	case StagePageAuditor:
		return "1_page_auditor"
	case StageSerpAnalyst:
		return "2_serp_analyst"
	case StageOptimizationAdvisor:
		return "3_optimization_advisor"
	default:
		return ""
	}
}
