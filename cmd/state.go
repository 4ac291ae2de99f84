package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/memory"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the last saved workflow state",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(memory.Load(cfg.Memory.Path))
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

// loadState returns the final state of runID, or the last memory snapshot
// when runID is empty. The run is nil for snapshots.
func loadState(ctx context.Context, runID string) (model.WorkflowState, *model.Run, error) {
	if runID == "" {
		return memory.Load(cfg.Memory.Path), nil, nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return model.WorkflowState{}, nil, err
	}
	defer st.Close() //nolint:errcheck

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return model.WorkflowState{}, nil, eris.Wrapf(err, "load run %s", runID)
	}
	if run.Result == nil {
		return model.WorkflowState{}, run, eris.Errorf("run %s has not finished (status %s)", runID, run.Status)
	}
	return run.Result.State, run, nil
}
