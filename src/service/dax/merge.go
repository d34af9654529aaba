package dax

import (
	"sort"

	"pbix-insight/src/model"
	"pbix-insight/src/util"
)

// Merge reconciles an aggregated analysis with externally supplied DAX
// measures and returns the enriched result. The input analysis is never
// mutated: enrichment happens on a clone, so callers re-rendering or caching
// the original never observe partial state.
//
// Matching existing measures attaches the formula and flips the source to
// dax; the entry's key, usage count, sections, and score are untouched.
// Artifact measures never consumed by a match are inserted under their raw
// name with a usage count of zero, surfacing formulas present in the model
// but unreferenced by any visual. No key present before the call is ever
// removed.
func Merge(analysis *model.ReportAnalysis, daxMeasures map[string]*model.MeasureDetail, hasBim bool) *model.ReportAnalysis {
	enriched := analysis.Clone()

	if len(daxMeasures) == 0 {
		enriched.HasBim = hasBim
		return enriched
	}

	lookup, names := buildIndex(daxMeasures)
	consumed := make(map[string]struct{})

	matched := 0
	for key, measure := range enriched.Measures {
		for _, candidate := range Variants(key) {
			detail, ok := lookup[candidate]
			if !ok {
				continue
			}
			measure.Source = model.SourceDax
			measure.DaxFormula = detail.DaxFormula
			consumed[detail.Name] = struct{}{}
			matched++
			break
		}
	}

	// Surface artifact measures no query ref claimed.
	added := 0
	for _, name := range names {
		if _, used := consumed[name]; used {
			continue
		}
		if _, exists := enriched.Measures[name]; exists {
			continue
		}
		enriched.Measures[name] = daxMeasures[name].Clone()
		added++
	}

	util.Debug("DAX merge: %d refs enriched, %d artifact-only measures added", matched, added)

	enriched.HasDaxFormulas = true
	enriched.HasBim = hasBim
	enriched.SourceMode = model.SourceModeDaxEnriched
	return enriched
}

// buildIndex maps every variant spelling of every artifact measure back to
// its detail and returns the sorted measure names. Artifacts are indexed in
// lexicographic name order, so when two measures collide on a variant the
// lexicographically later one wins; the ordering is fixed here rather than
// left to map iteration.
func buildIndex(daxMeasures map[string]*model.MeasureDetail) (map[string]*model.MeasureDetail, []string) {
	names := make([]string, 0, len(daxMeasures))
	for name := range daxMeasures {
		names = append(names, name)
	}
	sort.Strings(names)

	lookup := make(map[string]*model.MeasureDetail)
	for _, name := range names {
		for _, v := range Variants(name) {
			lookup[v] = daxMeasures[name]
		}
	}
	return lookup, names
}
