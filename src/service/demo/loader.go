// Package demo rebuilds report analyses from precomputed extraction folders,
// used when no PBIX upload is available.
package demo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pbix-insight/src/model"
	"pbix-insight/src/service/scoring"
	"pbix-insight/src/service/semantic"
	"pbix-insight/src/util"
)

const (
	visualQueriesFile = "visual_queries.json"
	semanticRefsFile  = "semantic_references.json"
)

// Loader reads precomputed demo report folders
type Loader struct {
	scorer *scoring.Scorer
}

// NewLoader creates a loader backed by the given scorer
func NewLoader(scorer *scoring.Scorer) *Loader {
	return &Loader{scorer: scorer}
}

// LoadReport rebuilds one analysis from a folder of precomputed extraction
// JSON. Missing files degrade to empty lists; the folder name becomes the
// report name.
func (l *Loader) LoadReport(folder string) (*model.ReportAnalysis, error) {
	var visualQueries []model.VisualQuery
	if err := readJSONIfExists(filepath.Join(folder, visualQueriesFile), &visualQueries); err != nil {
		return nil, err
	}

	var semanticRefs []model.SemanticReference
	if err := readJSONIfExists(filepath.Join(folder, semanticRefsFile), &semanticRefs); err != nil {
		return nil, err
	}

	agg := semantic.NewAggregator(l.scorer)
	for _, q := range visualQueries {
		section := q.Section
		if section == "" {
			section = model.UnknownName
		}
		for _, ref := range semantic.ExtractQueryRefs(q.Projections) {
			agg.Add(section, ref)
		}
	}

	return &model.ReportAnalysis{
		ReportName:         filepath.Base(folder),
		SourceMode:         model.SourceModeDemoPrecomputed,
		TotalQueries:       len(visualQueries),
		TotalRefs:          len(semanticRefs),
		UniqueMeasures:     semantic.UniquePairs(semanticRefs, model.RefTypeMeasure),
		UniqueColumns:      semantic.UniquePairs(semanticRefs, model.RefTypeColumn),
		Measures:           agg.Measures(),
		SectionSummaries:   agg.SectionSummaries(),
		VisualQueries:      visualQueries,
		SemanticReferences: semanticRefs,
	}, nil
}

// LoadAll loads every demo report folder under base, keyed by report name.
// A missing base directory yields an empty map, not an error.
func (l *Loader) LoadAll(base string) (map[string]*model.ReportAnalysis, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			util.Debug("No demo reports under %s", base)
			return map[string]*model.ReportAnalysis{}, nil
		}
		return nil, fmt.Errorf("reading demo dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	reports := make(map[string]*model.ReportAnalysis)
	for _, name := range names {
		folder := filepath.Join(base, name)
		if _, err := os.Stat(filepath.Join(folder, visualQueriesFile)); err != nil {
			continue
		}
		analysis, err := l.LoadReport(folder)
		if err != nil {
			return nil, fmt.Errorf("loading demo report %s: %w", name, err)
		}
		reports[analysis.ReportName] = analysis
	}

	return reports, nil
}

func readJSONIfExists(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
