package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
	"pbix-insight/src/service/scoring"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(scoring.NewScorer(config.DefaultConfig().Scoring))
}

func TestAggregator_Measures(t *testing.T) {
	agg := newTestAggregator()
	agg.Add("Sales", "Sum(Revenue)")
	agg.Add("Sales", "Sum(Revenue)")
	agg.Add("Trends", "Sum(Revenue)")
	agg.Add("Trends", "YTD Growth %")

	measures := agg.Measures()
	require.Len(t, measures, 2)

	rev := measures["Sum(Revenue)"]
	require.NotNil(t, rev)
	assert.Equal(t, 3, rev.UsageCount)
	assert.Equal(t, []string{"Sales", "Trends"}, rev.Sections)
	assert.Equal(t, model.SourceQueryRef, rev.Source)
	assert.Equal(t, 0, rev.ComplexityScore)

	growth := measures["YTD Growth %"]
	require.NotNil(t, growth)
	assert.Equal(t, 1, growth.UsageCount)
	assert.Equal(t, 3, growth.ComplexityScore)
	assert.Equal(t, []string{"ytd", "%", "growth"}, growth.MatchedTokens)

	// Every key equals its detail's own name.
	for key, m := range measures {
		assert.Equal(t, key, m.Name)
	}
}

func TestAggregator_SectionSummaries_Ordering(t *testing.T) {
	agg := newTestAggregator()
	// "quiet": one simple ref.
	agg.Add("quiet", "Revenue")
	// "busy": two refs, total score 2.
	agg.Add("busy", "Budget Amount")
	agg.Add("busy", "Margin Pct")
	// "dense": one ref, total score 3.
	agg.Add("dense", "YTD Growth %")
	// "Alpha" and "beta" tie on score and ref count; name breaks the tie
	// case-insensitively.
	agg.Add("beta", "Variance A")
	agg.Add("Alpha", "Variance B")

	summaries := agg.SectionSummaries()
	require.Len(t, summaries, 5)

	var names []string
	for _, s := range summaries {
		names = append(names, s.Section)
	}
	assert.Equal(t, []string{"dense", "busy", "Alpha", "beta", "quiet"}, names)
}

// Occurrence counts never inflate a section's score: the rollup sums each
// distinct ref once.
func TestAggregator_SectionSummaries_DistinctRefsOnly(t *testing.T) {
	agg := newTestAggregator()
	for i := 0; i < 5; i++ {
		agg.Add("Sales", "Budget Amount")
	}
	agg.Add("Sales", "Margin Pct")

	summaries := agg.SectionSummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].UniqueRefs)
	assert.Equal(t, 2, summaries[0].ComplexityScore)
}

// Sections never double-count: summing unique_refs over sections equals the
// number of distinct (section, ref) pairs.
func TestAggregator_SectionSummaries_NoDoubleCounting(t *testing.T) {
	agg := newTestAggregator()
	pairs := map[[2]string]struct{}{}
	add := func(section, ref string) {
		agg.Add(section, ref)
		pairs[[2]string{section, ref}] = struct{}{}
	}

	add("a", "x")
	add("a", "x")
	add("a", "y")
	add("b", "x")
	add("b", "z")
	add("c", "z")

	total := 0
	for _, s := range agg.SectionSummaries() {
		total += s.UniqueRefs
	}
	assert.Equal(t, len(pairs), total)
}

func TestUniquePairs(t *testing.T) {
	refs := []model.SemanticReference{
		{Type: model.RefTypeMeasure, Table: "Sales", Name: "Total"},
		{Type: model.RefTypeMeasure, Table: "Sales", Name: "Total"},
		{Type: model.RefTypeMeasure, Table: "Budget", Name: "Total"},
		{Type: model.RefTypeColumn, Table: "Sales", Name: "Total"},
		{Type: model.RefTypeColumn, Table: "Date", Name: "Month"},
	}

	assert.Equal(t, 2, UniquePairs(refs, model.RefTypeMeasure))
	assert.Equal(t, 2, UniquePairs(refs, model.RefTypeColumn))
}
