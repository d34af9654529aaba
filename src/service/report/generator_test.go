package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
)

func sampleAnalysis() *model.ReportAnalysis {
	return &model.ReportAnalysis{
		ReportName:     "sales",
		SourceMode:     model.SourceModeDaxEnriched,
		TotalQueries:   2,
		TotalRefs:      3,
		UniqueMeasures: 2,
		UniqueColumns:  1,
		Measures: map[string]*model.MeasureDetail{
			"YTD Growth %": {
				Name: "YTD Growth %", Source: model.SourceQueryRef,
				UsageCount: 1, Sections: []string{"Trends"}, ComplexityScore: 3,
			},
			"Total Sales": {
				Name: "Total Sales", Source: model.SourceDax,
				UsageCount: 4, Sections: []string{"Overview", "Trends"},
				DaxFormula: "SUM(Sales[Amount])", ComplexityScore: 0,
			},
		},
		SectionSummaries: []model.SectionSummary{
			{Section: "Trends", UniqueRefs: 2, ComplexityScore: 3},
			{Section: "Overview", UniqueRefs: 1, ComplexityScore: 0},
		},
		HasDaxFormulas: true,
		HasBim:         true,
	}
}

func newTestGenerator() *Generator {
	return NewGenerator(config.DefaultConfig().Output)
}

func TestGenerator_Generate_JSON(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "json")
	require.NoError(t, err)

	var decoded struct {
		ReportName string                 `json:"report_name"`
		SourceMode string                 `json:"source_mode"`
		Measures   []*model.MeasureDetail `json:"measures"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "sales", decoded.ReportName)
	assert.Equal(t, "dax_enriched", decoded.SourceMode)

	// Measures serialize as a ranked list, not the internal map.
	require.Len(t, decoded.Measures, 2)
	assert.Equal(t, "YTD Growth %", decoded.Measures[0].Name)
	assert.Equal(t, "Total Sales", decoded.Measures[1].Name)
}

func TestGenerator_Generate_Markdown(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# PowerBI Analysis Summary - sales")
	assert.Contains(t, out, "- Source mode: `dax_enriched`")
	assert.Contains(t, out, "- Unique measures: 2")
	assert.Contains(t, out, "## Top Measure Logic Candidates")
	assert.Contains(t, out, "`YTD Growth %` | score=3 | usage=1 (query-ref only)")
	assert.Contains(t, out, "`Total Sales` | score=0 | usage=4 (formula available)")
	assert.Contains(t, out, "## Section Logic Density")
	assert.Contains(t, out, "`Trends` | complexity_score=3 | unique_refs=2")

	// md is an alias
	alias, err := newTestGenerator().Generate(sampleAnalysis(), "md")
	require.NoError(t, err)
	assert.Equal(t, out, alias)
}

func TestGenerator_Generate_Table(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "table")
	require.NoError(t, err)

	assert.Contains(t, out, "sales (dax_enriched)")
	assert.Contains(t, out, "MEASURE")
	assert.Contains(t, out, "YTD Growth %")
	assert.Contains(t, out, "Overview, Trends")
	assert.Contains(t, out, "SECTION")
}

func TestGenerator_Generate_UnsupportedFormat(t *testing.T) {
	_, err := newTestGenerator().Generate(sampleAnalysis(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestGenerator_Generate_TopMeasuresLimit(t *testing.T) {
	cfg := config.DefaultConfig().Output
	cfg.TopMeasures = 1
	gen := NewGenerator(cfg)

	out, err := gen.Generate(sampleAnalysis(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "YTD Growth %")
	assert.NotContains(t, out, "`Total Sales`")
}
