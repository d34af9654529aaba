package model

import (
	"sort"
	"strings"
)

// RefType classifies a semantic reference recovered from a visual's query tree
type RefType string

const (
	RefTypeMeasure RefType = "Measure"
	RefTypeColumn  RefType = "Column"
)

// Source indicates where a measure's detail came from
type Source string

const (
	SourceQueryRef Source = "query_ref"
	SourceDax      Source = "dax"
)

// SourceMode indicates how a report analysis was produced
type SourceMode string

const (
	SourceModeSemanticOnly    SourceMode = "semantic_only"
	SourceModeDaxEnriched     SourceMode = "dax_enriched"
	SourceModeDemoPrecomputed SourceMode = "demo_precomputed"
)

// UnknownName is the sentinel used when an optional field is absent
const UnknownName = "Unknown"

// VisualQuery is one analytic visual as found in the layout document.
// Geometry and the raw projections/query values are passed through
// uninterpreted for drill-down display.
type VisualQuery struct {
	Section     string         `json:"section"`
	X           float64        `json:"x"`
	Y           float64        `json:"y"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Projections map[string]any `json:"projections"`
	Query       any            `json:"query"`
}

// SemanticReference is a typed field mention recovered from a query
// expression tree. One entry per mention; duplicates are not collapsed here.
type SemanticReference struct {
	Type    RefType `json:"type"`
	Table   string  `json:"table"`
	Name    string  `json:"name"`
	Section string  `json:"section"`
}

// MeasureDetail is the canonical exposed unit of the analysis, keyed by name
type MeasureDetail struct {
	Name            string   `json:"name"`
	Source          Source   `json:"source"`
	UsageCount      int      `json:"usage_count"`
	Sections        []string `json:"sections"`
	DaxFormula      string   `json:"dax_formula"`
	MatchedTokens   []string `json:"matched_tokens"`
	ComplexityScore int      `json:"complexity_score"`
}

// Clone returns a deep copy of the detail
func (m *MeasureDetail) Clone() *MeasureDetail {
	c := *m
	c.Sections = append([]string(nil), m.Sections...)
	c.MatchedTokens = append([]string(nil), m.MatchedTokens...)
	return &c
}

// SectionSummary is the per-section rollup of distinct references
type SectionSummary struct {
	Section         string `json:"section"`
	UniqueRefs      int    `json:"unique_refs"`
	ComplexityScore int    `json:"complexity_score"`
}

// ReportAnalysis is the report-level aggregate produced by extraction and
// optionally enriched once with DAX formula artifacts
type ReportAnalysis struct {
	ReportName         string                    `json:"report_name"`
	SourceMode         SourceMode                `json:"source_mode"`
	TotalQueries       int                       `json:"total_queries"`
	TotalRefs          int                       `json:"total_refs"`
	UniqueMeasures     int                       `json:"unique_measures"`
	UniqueColumns      int                       `json:"unique_columns"`
	Measures           map[string]*MeasureDetail `json:"measures"`
	SectionSummaries   []SectionSummary          `json:"section_summaries"`
	VisualQueries      []VisualQuery             `json:"visual_queries"`
	SemanticReferences []SemanticReference       `json:"semantic_references"`
	HasDaxFormulas     bool                      `json:"has_dax_formulas"`
	HasBim             bool                      `json:"has_bim"`
}

// TopMeasures returns up to limit measures ranked by complexity score
// descending, usage count descending, then name ascending case-insensitive
func (a *ReportAnalysis) TopMeasures(limit int) []*MeasureDetail {
	ranked := make([]*MeasureDetail, 0, len(a.Measures))
	for _, m := range a.Measures {
		ranked = append(ranked, m)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ComplexityScore != ranked[j].ComplexityScore {
			return ranked[i].ComplexityScore > ranked[j].ComplexityScore
		}
		if ranked[i].UsageCount != ranked[j].UsageCount {
			return ranked[i].UsageCount > ranked[j].UsageCount
		}
		return strings.ToLower(ranked[i].Name) < strings.ToLower(ranked[j].Name)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Clone returns a deep copy of the analysis. The merge step operates on a
// clone so callers holding the original never observe partial enrichment.
func (a *ReportAnalysis) Clone() *ReportAnalysis {
	c := *a
	c.Measures = make(map[string]*MeasureDetail, len(a.Measures))
	for k, v := range a.Measures {
		c.Measures[k] = v.Clone()
	}
	c.SectionSummaries = append([]SectionSummary(nil), a.SectionSummaries...)
	c.VisualQueries = append([]VisualQuery(nil), a.VisualQueries...)
	c.SemanticReferences = append([]SemanticReference(nil), a.SemanticReferences...)
	return &c
}
