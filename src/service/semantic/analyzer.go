package semantic

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"

	"pbix-insight/src/model"
	"pbix-insight/src/service/scoring"
	"pbix-insight/src/util"
)

// layoutEntry is the archive path of the report layout document inside a PBIX
const layoutEntry = "Report/Layout"

// ErrMissingLayout indicates the PBIX archive has no layout document. This is
// the only fatal extraction error; everything else degrades to a partial
// analysis.
var ErrMissingLayout = errors.New("pbix does not contain Report/Layout")

// Analyzer extracts a semantic-only ReportAnalysis from PBIX report bundles
type Analyzer struct {
	scorer     *scoring.Scorer
	exclusions *util.ExclusionMatcher
}

// NewAnalyzer creates an analyzer backed by the given scorer. A nil
// exclusion matcher disables ref filtering.
func NewAnalyzer(scorer *scoring.Scorer, exclusions *util.ExclusionMatcher) *Analyzer {
	return &Analyzer{scorer: scorer, exclusions: exclusions}
}

// layoutDocument mirrors the outer shape of the layout JSON. Visual configs
// stay raw strings here; each one is parsed individually so a malformed
// visual skips without failing the report.
type layoutDocument struct {
	Sections []struct {
		DisplayName      string `json:"displayName"`
		Name             string `json:"name"`
		VisualContainers []struct {
			Config string  `json:"config"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"visualContainers"`
	} `json:"sections"`
}

// AnalyzeBytes runs semantic extraction over the raw bytes of a PBIX archive
func (a *Analyzer) AnalyzeBytes(reportName string, content []byte) (*model.ReportAnalysis, error) {
	layoutBytes, err := readLayout(content)
	if err != nil {
		return nil, err
	}

	var layout layoutDocument
	if err := decodeLayout(layoutBytes, &layout); err != nil {
		return nil, fmt.Errorf("parsing layout document: %w", err)
	}

	agg := NewAggregator(a.scorer)
	var visualQueries []model.VisualQuery
	var semanticRefs []model.SemanticReference
	skipped := 0

	for _, section := range layout.Sections {
		sectionName := section.DisplayName
		if sectionName == "" {
			sectionName = section.Name
		}
		if sectionName == "" {
			sectionName = model.UnknownName
		}

		for _, vc := range section.VisualContainers {
			if vc.Config == "" {
				continue
			}

			var cfg struct {
				SingleVisual struct {
					PrototypeQuery any            `json:"prototypeQuery"`
					Query          any            `json:"query"`
					Projections    map[string]any `json:"projections"`
				} `json:"singleVisual"`
			}
			if err := json.Unmarshal([]byte(vc.Config), &cfg); err != nil {
				skipped++
				continue
			}

			query := cfg.SingleVisual.PrototypeQuery
			if query == nil {
				query = cfg.SingleVisual.Query
			}
			if query == nil {
				continue
			}

			for _, ref := range ExtractQueryRefs(cfg.SingleVisual.Projections) {
				if a.exclusions != nil && a.exclusions.MatchesRef(ref) {
					continue
				}
				agg.Add(sectionName, ref)
			}
			semanticRefs = append(semanticRefs, ExtractSemanticRefs(query, sectionName)...)

			visualQueries = append(visualQueries, model.VisualQuery{
				Section:     sectionName,
				X:           vc.X,
				Y:           vc.Y,
				Width:       vc.Width,
				Height:      vc.Height,
				Projections: cfg.SingleVisual.Projections,
				Query:       query,
			})
		}
	}

	if skipped > 0 {
		util.Debug("Skipped %d visuals with malformed config in %s", skipped, reportName)
	}

	return &model.ReportAnalysis{
		ReportName:         reportName,
		SourceMode:         model.SourceModeSemanticOnly,
		TotalQueries:       len(visualQueries),
		TotalRefs:          len(semanticRefs),
		UniqueMeasures:     UniquePairs(semanticRefs, model.RefTypeMeasure),
		UniqueColumns:      UniquePairs(semanticRefs, model.RefTypeColumn),
		Measures:           agg.Measures(),
		SectionSummaries:   agg.SectionSummaries(),
		VisualQueries:      visualQueries,
		SemanticReferences: semanticRefs,
	}, nil
}

// readLayout locates the layout entry inside the PBIX zip
func readLayout(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening pbix archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != layoutEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening layout entry: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return nil, ErrMissingLayout
}

// decodeLayout parses the layout bytes as UTF-16 little-endian JSON, the
// encoding PBIX writes, and retries as plain UTF-8 when that fails
func decodeLayout(layoutBytes []byte, out any) error {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	if decoded, err := decoder.Bytes(layoutBytes); err == nil {
		if err := json.Unmarshal(decoded, out); err == nil {
			return nil
		}
	}
	return json.Unmarshal(layoutBytes, out)
}
