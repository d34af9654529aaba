package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbix-insight/src/controller"
	"pbix-insight/src/service/demo"
	"pbix-insight/src/service/scoring"
)

func (h *Handler) demoCmd() *cobra.Command {
	var (
		report string
		format string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "List or render precomputed demo reports",
		Long:  "Rebuilds analyses from precomputed extraction folders configured under demo.dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := demo.NewLoader(scoring.NewScorer(h.cfg.Scoring))
			reports, err := loader.LoadAll(h.cfg.Demo.Dir)
			if err != nil {
				return fmt.Errorf("loading demo reports: %w", err)
			}
			if len(reports) == 0 {
				fmt.Printf("No precomputed demo data found under %s\n", h.cfg.Demo.Dir)
				return nil
			}

			if report == "" {
				fmt.Println("Available demo reports:")
				for _, name := range controller.SortedReportNames(reports) {
					fmt.Printf("  - %s\n", name)
				}
				return nil
			}

			analysis, ok := reports[report]
			if !ok {
				return fmt.Errorf("unknown demo report: %s", report)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			return h.emit(reportCtrl, analysis, "", format)
		},
	}

	cmd.Flags().StringVarP(&report, "report", "r", "", "Demo report name to render (default: list)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, table)")

	return cmd
}
