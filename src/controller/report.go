package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
	"pbix-insight/src/service/report"
	"pbix-insight/src/util"
)

// ReportController handles rendering and writing analysis reports
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports writes the analysis in all configured formats and returns
// the written paths
func (c *ReportController) GenerateReports(analysis *model.ReportAnalysis) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	generator := report.NewGenerator(c.cfg.Output)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		output, err := generator.Generate(analysis, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(analysis.ReportName, format)

		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}

		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString renders the analysis in one format
func (c *ReportController) GenerateToString(analysis *model.ReportAnalysis, format string) (string, error) {
	return report.NewGenerator(c.cfg.Output).Generate(analysis, format)
}

func (c *ReportController) getOutputPath(name, format string) string {
	ext := format
	switch format {
	case "markdown":
		ext = "md"
	case "table":
		ext = "txt"
	}

	filename := fmt.Sprintf("%s_summary.%s", name, ext)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
