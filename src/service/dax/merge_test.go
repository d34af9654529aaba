package dax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbix-insight/src/model"
)

func semanticAnalysis() *model.ReportAnalysis {
	return &model.ReportAnalysis{
		ReportName: "sales",
		SourceMode: model.SourceModeSemanticOnly,
		Measures: map[string]*model.MeasureDetail{
			"Table[Total Sales]": {
				Name:            "Table[Total Sales]",
				Source:          model.SourceQueryRef,
				UsageCount:      3,
				Sections:        []string{"Overview", "Trends"},
				ComplexityScore: 0,
			},
			"YTD Growth %": {
				Name:            "YTD Growth %",
				Source:          model.SourceQueryRef,
				UsageCount:      1,
				Sections:        []string{"Trends"},
				MatchedTokens:   []string{"ytd", "%", "growth"},
				ComplexityScore: 3,
			},
		},
	}
}

func artifactMeasure(name, formula string) *model.MeasureDetail {
	return &model.MeasureDetail{
		Name:       name,
		Source:     model.SourceDax,
		DaxFormula: formula,
	}
}

func TestMerge_EnrichesMatchingMeasure(t *testing.T) {
	analysis := semanticAnalysis()
	artifacts := map[string]*model.MeasureDetail{
		"Table/total_sales": artifactMeasure("Table/total_sales", "SUM(Sales[Amount])"),
	}

	enriched := Merge(analysis, artifacts, true)

	// The matched artifact lands on the existing entry; it is not inserted a
	// second time under its own name.
	require.Len(t, enriched.Measures, 2)
	_, doubled := enriched.Measures["Table/total_sales"]
	assert.False(t, doubled)

	total := enriched.Measures["Table[Total Sales]"]
	require.NotNil(t, total)
	assert.Equal(t, model.SourceDax, total.Source)
	assert.Equal(t, "SUM(Sales[Amount])", total.DaxFormula)
	assert.Equal(t, 3, total.UsageCount)
	assert.Equal(t, []string{"Overview", "Trends"}, total.Sections)
	assert.Equal(t, 0, total.ComplexityScore)

	// The unmatched ref keeps its query-ref provenance.
	assert.Equal(t, model.SourceQueryRef, enriched.Measures["YTD Growth %"].Source)
	assert.Empty(t, enriched.Measures["YTD Growth %"].DaxFormula)

	assert.True(t, enriched.HasDaxFormulas)
	assert.True(t, enriched.HasBim)
	assert.Equal(t, model.SourceModeDaxEnriched, enriched.SourceMode)
}

func TestMerge_UnmatchedArtifactInserted(t *testing.T) {
	analysis := semanticAnalysis()
	artifacts := map[string]*model.MeasureDetail{
		"Hidden Helper": artifactMeasure("Hidden Helper", "DIVIDE([a], [b])"),
	}

	enriched := Merge(analysis, artifacts, false)

	require.Len(t, enriched.Measures, 3)
	helper := enriched.Measures["Hidden Helper"]
	require.NotNil(t, helper)
	assert.Equal(t, model.SourceDax, helper.Source)
	assert.Equal(t, "DIVIDE([a], [b])", helper.DaxFormula)
	assert.Zero(t, helper.UsageCount)
	assert.False(t, enriched.HasBim)
}

func TestMerge_EmptyArtifactsOnlyPropagatesBim(t *testing.T) {
	analysis := semanticAnalysis()

	enriched := Merge(analysis, nil, true)

	assert.True(t, enriched.HasBim)
	assert.False(t, enriched.HasDaxFormulas)
	assert.Equal(t, model.SourceModeSemanticOnly, enriched.SourceMode)
	assert.Equal(t, model.SourceQueryRef, enriched.Measures["Table[Total Sales]"].Source)
}

func TestMerge_InputNotMutated(t *testing.T) {
	analysis := semanticAnalysis()
	artifacts := map[string]*model.MeasureDetail{
		"Table/total_sales": artifactMeasure("Table/total_sales", "SUM(Sales[Amount])"),
		"Hidden Helper":     artifactMeasure("Hidden Helper", "DIVIDE([a], [b])"),
	}

	_ = Merge(analysis, artifacts, true)

	assert.Equal(t, model.SourceModeSemanticOnly, analysis.SourceMode)
	assert.False(t, analysis.HasDaxFormulas)
	assert.False(t, analysis.HasBim)
	require.Len(t, analysis.Measures, 2)
	assert.Equal(t, model.SourceQueryRef, analysis.Measures["Table[Total Sales]"].Source)
	assert.Empty(t, analysis.Measures["Table[Total Sales]"].DaxFormula)
}

// Merging never removes a key: everything present before is present after.
func TestMerge_Additive(t *testing.T) {
	analysis := semanticAnalysis()
	artifacts := map[string]*model.MeasureDetail{
		"Table/total_sales": artifactMeasure("Table/total_sales", "SUM(Sales[Amount])"),
		"Hidden Helper":     artifactMeasure("Hidden Helper", "DIVIDE([a], [b])"),
	}

	enriched := Merge(analysis, artifacts, false)

	for key := range analysis.Measures {
		assert.Contains(t, enriched.Measures, key)
	}
}

func TestMerge_RepeatedMergeStable(t *testing.T) {
	analysis := semanticAnalysis()
	artifacts := map[string]*model.MeasureDetail{
		"Table/total_sales": artifactMeasure("Table/total_sales", "SUM(Sales[Amount])"),
	}

	once := Merge(analysis, artifacts, true)
	twice := Merge(once, artifacts, true)

	assert.Len(t, twice.Measures, len(once.Measures))
	assert.Equal(t, once.Measures["Table[Total Sales]"].DaxFormula, twice.Measures["Table[Total Sales]"].DaxFormula)
}
