package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_Sequence(t *testing.T) {
	var seen []string
	for s := StagePageAuditor; s != StageDone; s = s.Next() {
		seen = append(seen, s.String())
	}
	assert.Equal(t, []string{"PageAuditor", "SerpAnalyst", "OptimizationAdvisor"}, seen)
	assert.Equal(t, StageDone, StageDone.Next())
}

func TestStage_Names(t *testing.T) {
	tests := []struct {
		stage Stage
		tag   string
		phase string
	}{
		{StagePageAuditor, "PageAuditor", "1_page_auditor"},
		{StageSerpAnalyst, "SerpAnalyst", "2_serp_analyst"},
		{StageOptimizationAdvisor, "Advisor", "3_optimization_advisor"},
		{StageDone, "Done", ""},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			assert.Equal(t, tt.tag, tt.stage.Tag())
			assert.Equal(t, tt.phase, tt.stage.PhaseName())
		})
	}
	assert.Equal(t, "Unknown", Stage(42).String())
}
