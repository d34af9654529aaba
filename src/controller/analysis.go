package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
	"pbix-insight/src/service/artifacts"
	"pbix-insight/src/service/dax"
	"pbix-insight/src/service/scoring"
	"pbix-insight/src/service/semantic"
	"pbix-insight/src/util"
)

// AnalysisController orchestrates PBIX analysis and optional DAX enrichment
type AnalysisController struct {
	cfg      *config.Config
	analyzer *semantic.Analyzer
	scanner  *artifacts.Scanner
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(cfg *config.Config) *AnalysisController {
	exclusions := util.NewExclusionMatcher(cfg.Exclusions)
	return &AnalysisController{
		cfg:      cfg,
		analyzer: semantic.NewAnalyzer(scoring.NewScorer(cfg.Scoring), exclusions),
		scanner:  artifacts.NewScanner(cfg.Artifacts, exclusions),
	}
}

// AnalyzeRequest describes one report analysis
type AnalyzeRequest struct {
	PbixPath    string
	ArtifactDir string // optional extraction folder with .dax/.bim files
	ArtifactZip string // optional extraction bundle; takes precedence over the folder
}

// Analyze runs semantic extraction over a PBIX file and enriches the result
// with DAX artifacts when any were supplied. Artifact problems downgrade to
// a semantic-only analysis instead of failing the run.
func (c *AnalysisController) Analyze(req AnalyzeRequest) (*model.ReportAnalysis, error) {
	startTime := time.Now()
	util.Info("Analyzing report: %s", req.PbixPath)

	content, err := os.ReadFile(req.PbixPath)
	if err != nil {
		return nil, fmt.Errorf("reading pbix: %w", err)
	}

	analysis, err := c.analyzer.AnalyzeBytes(reportName(req.PbixPath), content)
	if err != nil {
		util.Error("Semantic extraction failed: %v", err)
		return nil, err
	}

	analysis = c.enrich(analysis, req)

	util.Info("Analysis complete: %d visuals, %d measures, mode=%s (took %v)",
		analysis.TotalQueries, len(analysis.Measures), analysis.SourceMode, time.Since(startTime))
	return analysis, nil
}

func (c *AnalysisController) enrich(analysis *model.ReportAnalysis, req AnalyzeRequest) *model.ReportAnalysis {
	var parsed *artifacts.ParseResult
	var err error

	switch {
	case req.ArtifactZip != "":
		var content []byte
		if content, err = os.ReadFile(req.ArtifactZip); err == nil {
			parsed, err = c.scanner.ScanZip(content)
		}
	case req.ArtifactDir != "":
		parsed, err = c.scanner.ScanFolder(req.ArtifactDir)
	default:
		return analysis
	}

	if err != nil {
		util.Warn("Artifact scan failed, continuing semantic-only: %v", err)
		return analysis
	}

	util.Info("Artifact scan: %d dax files, bim=%v (%s)", parsed.DaxCount, parsed.HasBim, parsed.BimLocation)
	if parsed.DaxCount == 0 {
		util.Warn("No %s files found in artifacts", c.cfg.Artifacts.DaxExtension)
	}

	return dax.Merge(analysis, parsed.Measures, parsed.HasBim)
}

func reportName(pbixPath string) string {
	base := filepath.Base(pbixPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
