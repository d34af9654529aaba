// Package artifacts scans extraction output (folders or zip bundles) for
// .dax formula files and .bim model metadata, producing the name->measure
// mapping the DAX merge consumes.
package artifacts

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"pbix-insight/src/config"
	"pbix-insight/src/model"
	"pbix-insight/src/util"
)

// BimLocation describes where model metadata was found relative to the
// scanned root
type BimLocation string

const (
	BimNone         BimLocation = "none"
	BimInsideFolder BimLocation = "inside_folder"
	BimSiblingFile  BimLocation = "sibling_file"
)

// ParseResult is the outcome of scanning one artifact source
type ParseResult struct {
	Measures    map[string]*model.MeasureDetail
	HasBim      bool
	BimLocation BimLocation
	DaxCount    int
}

// Scanner collects DAX formula measures from extraction artifacts
type Scanner struct {
	cfg        config.ArtifactsConfig
	exclusions *util.ExclusionMatcher
}

// NewScanner creates a scanner from config
func NewScanner(cfg config.ArtifactsConfig, exclusions *util.ExclusionMatcher) *Scanner {
	return &Scanner{cfg: cfg, exclusions: exclusions}
}

// ScanFolder walks an extraction folder recursively. Each .dax file becomes
// one measure keyed by its file stem, prefixed with the relative parent path
// when nested, which keeps same-named measures in different folders apart.
// Missing .bim inside the folder falls back to probing for the sibling file
// pbi-tools writes next to the extraction root.
func (s *Scanner) ScanFolder(root string) (*ParseResult, error) {
	result := &ParseResult{
		Measures:    make(map[string]*model.MeasureDetail),
		BimLocation: BimNone,
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if s.exclusions != nil && s.exclusions.MatchesFile(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if ext == s.cfg.BimExtension {
			result.HasBim = true
			result.BimLocation = BimInsideFolder
		}
		if ext != s.cfg.DaxExtension {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		formula, err := decodeFormula(data)
		if err != nil {
			// Collaborator-level problem; the rest of the scan continues.
			util.Warn("Skipping undecodable artifact %s: %v", rel, err)
			return nil
		}

		s.addMeasure(result, artifactName(rel), formula)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.HasBim {
		sibling := filepath.Join(filepath.Dir(root), filepath.Base(root)+s.cfg.BimExtension)
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			result.HasBim = true
			result.BimLocation = BimSiblingFile
		}
	}

	util.Debug("Artifact folder scan: %d dax files, bim=%v (%s)", result.DaxCount, result.HasBim, result.BimLocation)
	return result, nil
}

// ScanZip reads artifact entries straight from a zip bundle. Entries are
// processed in sorted name order; the sibling .bim probe does not apply
// because a bundle has no parent directory.
func (s *Scanner) ScanZip(content []byte) (*ParseResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening artifact zip: %w", err)
	}

	result := &ParseResult{
		Measures:    make(map[string]*model.MeasureDetail),
		BimLocation: BimNone,
	}

	files := make([]*zip.File, len(zr.File))
	copy(files, zr.File)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(f.Name)
		if s.exclusions != nil && s.exclusions.MatchesFile(name) {
			continue
		}

		ext := strings.ToLower(path.Ext(name))
		if ext == s.cfg.BimExtension {
			result.HasBim = true
			result.BimLocation = BimInsideFolder
		}
		if ext != s.cfg.DaxExtension {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening artifact entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading artifact entry %s: %w", f.Name, err)
		}

		formula, err := decodeFormula(data)
		if err != nil {
			util.Warn("Skipping undecodable artifact %s: %v", name, err)
			continue
		}
		s.addMeasure(result, artifactName(name), formula)
	}

	util.Debug("Artifact zip scan: %d dax files, bim=%v", result.DaxCount, result.HasBim)
	return result, nil
}

func (s *Scanner) addMeasure(result *ParseResult, name, formula string) {
	result.Measures[name] = &model.MeasureDetail{
		Name:       name,
		Source:     model.SourceDax,
		DaxFormula: formula,
	}
	result.DaxCount = len(result.Measures)
}

// artifactName derives the measure key from a slash-separated relative path:
// the file stem, prefixed with its parent path when not at the root
func artifactName(rel string) string {
	dir, file := path.Split(rel)
	stem := strings.TrimSuffix(file, path.Ext(file))
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return stem
	}
	return dir + "/" + stem
}

// decodeFormula interprets artifact bytes as UTF-8, falling back to latin-1
// for files written by older extraction tooling
func decodeFormula(data []byte) (string, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding artifact text: %w", err)
		}
		data = decoded
	}
	return strings.TrimSpace(string(data)), nil
}
