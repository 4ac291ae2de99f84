package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/report"
)

var (
	exportRun  string
	exportXLSX string
	exportMD   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an audit as a spreadsheet or markdown file",
	Long:  "Exports the final state of a recorded run, or the last saved snapshot when --run is omitted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportXLSX == "" && exportMD == "" {
			return eris.New("export: nothing to do, pass --xlsx and/or --md")
		}

		state, _, err := loadState(cmd.Context(), exportRun)
		if err != nil {
			return err
		}

		if exportXLSX != "" {
			if err := report.WriteXLSX(exportXLSX, state); err != nil {
				return err
			}
			zap.L().Info("spreadsheet written", zap.String("path", exportXLSX))
		}
		if exportMD != "" {
			if err := os.WriteFile(exportMD, []byte(report.Markdown(state)), 0o644); err != nil {
				return eris.Wrapf(err, "export: write %s", exportMD)
			}
			zap.L().Info("markdown written", zap.String("path", exportMD))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRun, "run", "", "run ID (defaults to the last saved snapshot)")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write an Audit/Headings/SERP/Errors workbook here")
	exportCmd.Flags().StringVar(&exportMD, "md", "", "write the markdown report here")
	rootCmd.AddCommand(exportCmd)
}
