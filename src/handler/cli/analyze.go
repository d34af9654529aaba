package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbix-insight/src/controller"
	"pbix-insight/src/model"
	"pbix-insight/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		artifactDir string
		artifactZip string
		outputDir   string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "analyze <pbix-file>...",
		Short: "Analyze PBIX files for measure and column usage",
		Long: "Extracts query references and semantic references from each PBIX layout, " +
			"scores them, and optionally enriches measures with DAX formula artifacts",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysisCtrl := controller.NewAnalysisController(h.cfg)
			reportCtrl := controller.NewReportController(h.cfg)

			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
			}
			if format != "" {
				h.cfg.Output.Formats = []string{format}
			}

			requests := make([]controller.AnalyzeRequest, 0, len(args))
			for _, pbix := range args {
				requests = append(requests, controller.AnalyzeRequest{
					PbixPath:    pbix,
					ArtifactDir: artifactDir,
					ArtifactZip: artifactZip,
				})
			}

			if len(requests) == 1 {
				analysis, err := analysisCtrl.Analyze(requests[0])
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
				return h.emit(reportCtrl, analysis, outputDir, format)
			}

			batch := analysisCtrl.AnalyzeBatch(requests)
			if len(batch) == 0 {
				return fmt.Errorf("no reports could be analyzed")
			}
			for _, name := range controller.SortedReportNames(batch) {
				if err := h.emit(reportCtrl, batch[name], outputDir, format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&artifactDir, "artifacts", "a", "", "Extraction artifact folder with .dax/.bim files")
	cmd.Flags().StringVarP(&artifactZip, "artifact-zip", "z", "", "Extraction artifact zip bundle")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: print to stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, table)")

	return cmd
}

// emit writes report files when an output directory was requested, otherwise
// prints a single-format rendering to stdout
func (h *Handler) emit(reportCtrl *controller.ReportController, analysis *model.ReportAnalysis, outputDir, format string) error {
	if outputDir != "" {
		paths, err := reportCtrl.GenerateReports(analysis)
		if err != nil {
			return fmt.Errorf("generating reports: %w", err)
		}
		for _, path := range paths {
			fmt.Printf("Report written to %s\n", path)
		}
		return nil
	}

	outputFormat := format
	if outputFormat == "" {
		outputFormat = "table"
	}
	output, err := reportCtrl.GenerateToString(analysis, outputFormat)
	if err != nil {
		util.Error("Rendering failed: %v", err)
		return err
	}
	fmt.Println(output)
	return nil
}
