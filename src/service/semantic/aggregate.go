package semantic

import (
	"sort"
	"strings"

	"pbix-insight/src/model"
	"pbix-insight/src/service/scoring"
)

// Aggregator folds per-visual query-ref occurrences into usage counts,
// section membership, and per-section rollups for one report. It is owned by
// a single analysis run and never shared across reports.
type Aggregator struct {
	scorer      *scoring.Scorer
	usage       map[string]int
	refSections map[string]map[string]struct{}
	sectionRefs map[string]map[string]struct{}
}

// NewAggregator creates an empty aggregator backed by the given scorer
func NewAggregator(scorer *scoring.Scorer) *Aggregator {
	return &Aggregator{
		scorer:      scorer,
		usage:       make(map[string]int),
		refSections: make(map[string]map[string]struct{}),
		sectionRefs: make(map[string]map[string]struct{}),
	}
}

// Add records one occurrence of ref inside section
func (a *Aggregator) Add(section, ref string) {
	a.usage[ref]++

	if a.refSections[ref] == nil {
		a.refSections[ref] = make(map[string]struct{})
	}
	a.refSections[ref][section] = struct{}{}

	if a.sectionRefs[section] == nil {
		a.sectionRefs[section] = make(map[string]struct{})
	}
	a.sectionRefs[section][ref] = struct{}{}
}

// Measures builds one MeasureDetail per distinct ref, keyed by the ref
// string, with sections rendered as a lexicographically sorted list
func (a *Aggregator) Measures() map[string]*model.MeasureDetail {
	measures := make(map[string]*model.MeasureDetail, len(a.usage))
	for ref, count := range a.usage {
		score, matched := a.scorer.Score(ref)
		sections := make([]string, 0, len(a.refSections[ref]))
		for s := range a.refSections[ref] {
			sections = append(sections, s)
		}
		sort.Strings(sections)

		measures[ref] = &model.MeasureDetail{
			Name:            ref,
			Source:          model.SourceQueryRef,
			UsageCount:      count,
			Sections:        sections,
			MatchedTokens:   matched,
			ComplexityScore: score,
		}
	}
	return measures
}

// SectionSummaries builds one summary per section. The complexity score is
// the sum over distinct refs in that section, not weighted by occurrence
// count. Summaries are ordered by complexity score descending, unique refs
// descending, then section name ascending case-insensitive; that tie-break
// chain defines the "top sections" ranking shown to users.
func (a *Aggregator) SectionSummaries() []model.SectionSummary {
	summaries := make([]model.SectionSummary, 0, len(a.sectionRefs))
	for section, refs := range a.sectionRefs {
		total := 0
		for ref := range refs {
			score, _ := a.scorer.Score(ref)
			total += score
		}
		summaries = append(summaries, model.SectionSummary{
			Section:         section,
			UniqueRefs:      len(refs),
			ComplexityScore: total,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ComplexityScore != summaries[j].ComplexityScore {
			return summaries[i].ComplexityScore > summaries[j].ComplexityScore
		}
		if summaries[i].UniqueRefs != summaries[j].UniqueRefs {
			return summaries[i].UniqueRefs > summaries[j].UniqueRefs
		}
		return strings.ToLower(summaries[i].Section) < strings.ToLower(summaries[j].Section)
	})

	return summaries
}

// UniquePairs counts distinct (table, name) identities among refs of the
// given type. This is deliberately separate from the measures map: measures
// are keyed by the projection-level ref string, uniqueness by the underlying
// semantic identity, and the two counts may legitimately differ.
func UniquePairs(refs []model.SemanticReference, refType model.RefType) int {
	type pair struct{ table, name string }
	seen := make(map[pair]struct{})
	for _, r := range refs {
		if r.Type != refType {
			continue
		}
		seen[pair{r.Table, r.Name}] = struct{}{}
	}
	return len(seen)
}
