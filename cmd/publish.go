package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/report"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/pkg/notion"
)

var publishRun string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an audit report to Notion",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
			return eris.New("publish: notion.token and notion.database_id are required")
		}

		ctx := cmd.Context()
		state, run, err := loadState(ctx, publishRun)
		if err != nil {
			return err
		}

		client := notion.NewClient(cfg.Notion.Token)
		pageID, err := notion.PublishReport(ctx, client, cfg.Notion.DatabaseID, reportPage(state, run))
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, pageID)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishRun, "run", "", "run ID (defaults to the last saved snapshot)")
	rootCmd.AddCommand(publishCmd)
}

// reportPage maps a final state onto a Notion report page.
func reportPage(state model.WorkflowState, run *model.Run) notion.ReportPage {
	p := notion.ReportPage{
		URL:      state.URL,
		Keyword:  state.PrimaryKeyword(),
		Markdown: report.Markdown(state),
	}
	if run != nil {
		p.RunID = run.ID
		p.Status = string(run.Status)
	}
	return p
}
