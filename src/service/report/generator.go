package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
	"pbix-insight/src/util"
)

// Generator renders a ReportAnalysis in various formats
type Generator struct {
	cfg config.OutputConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate renders the analysis in the specified format
func (g *Generator) Generate(analysis *model.ReportAnalysis, format string) (string, error) {
	util.Debug("Generating report in %s format (%d measures)", format, len(analysis.Measures))
	switch format {
	case "json":
		return g.generateJSON(analysis)
	case "markdown", "md":
		return g.generateMarkdown(analysis), nil
	case "table":
		return g.generateTable(analysis), nil
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(analysis *model.ReportAnalysis) (string, error) {
	payload := struct {
		*model.ReportAnalysis
		Measures []*model.MeasureDetail `json:"measures"`
	}{
		ReportAnalysis: analysis,
		Measures:       analysis.TopMeasures(0),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(analysis *model.ReportAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# PowerBI Analysis Summary - %s\n\n", analysis.ReportName))
	sb.WriteString(fmt.Sprintf("- Source mode: `%s`\n", analysis.SourceMode))
	sb.WriteString(fmt.Sprintf("- Visual queries: %d\n", analysis.TotalQueries))
	sb.WriteString(fmt.Sprintf("- Semantic references: %d\n", analysis.TotalRefs))
	sb.WriteString(fmt.Sprintf("- Unique measures: %d\n", analysis.UniqueMeasures))
	sb.WriteString(fmt.Sprintf("- Unique columns: %d\n", analysis.UniqueColumns))
	sb.WriteString(fmt.Sprintf("- DAX formulas available: %t\n", analysis.HasDaxFormulas))
	sb.WriteString(fmt.Sprintf("- BIM file available: %t\n\n", analysis.HasBim))

	sb.WriteString("## Top Measure Logic Candidates\n")
	for _, m := range analysis.TopMeasures(g.cfg.TopMeasures) {
		suffix := " (query-ref only)"
		if m.DaxFormula != "" {
			suffix = " (formula available)"
		}
		sb.WriteString(fmt.Sprintf("- `%s` | score=%d | usage=%d%s\n", m.Name, m.ComplexityScore, m.UsageCount, suffix))
	}

	sb.WriteString("\n## Section Logic Density\n")
	for _, sec := range topSections(analysis.SectionSummaries, g.cfg.TopSections) {
		sb.WriteString(fmt.Sprintf("- `%s` | complexity_score=%d | unique_refs=%d\n", sec.Section, sec.ComplexityScore, sec.UniqueRefs))
	}

	return sb.String()
}

func (g *Generator) generateTable(analysis *model.ReportAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s (%s)\n\n", analysis.ReportName, analysis.SourceMode))

	mt := table.NewWriter()
	mt.SetStyle(table.StyleLight)
	mt.AppendHeader(table.Row{"Measure", "Source", "Complexity", "Usage", "Sections", "Formula"})
	for _, m := range analysis.TopMeasures(g.cfg.TopMeasures) {
		hasFormula := "no"
		if m.DaxFormula != "" {
			hasFormula = "yes"
		}
		mt.AppendRow(table.Row{
			m.Name, string(m.Source), m.ComplexityScore, m.UsageCount,
			strings.Join(m.Sections, ", "), hasFormula,
		})
	}
	sb.WriteString(mt.Render())
	sb.WriteString("\n\n")

	st := table.NewWriter()
	st.SetStyle(table.StyleLight)
	st.AppendHeader(table.Row{"Section", "Complexity", "Unique Refs"})
	for _, sec := range topSections(analysis.SectionSummaries, g.cfg.TopSections) {
		st.AppendRow(table.Row{sec.Section, sec.ComplexityScore, sec.UniqueRefs})
	}
	sb.WriteString(st.Render())
	sb.WriteString("\n")

	return sb.String()
}

func topSections(summaries []model.SectionSummary, limit int) []model.SectionSummary {
	if limit > 0 && len(summaries) > limit {
		return summaries[:limit]
	}
	return summaries
}
