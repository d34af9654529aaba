package util

import (
	"path/filepath"
	"regexp"
	"strings"

	"pbix-insight/src/config"
)

// ExclusionMatcher matches references and artifact paths against exclusion
// patterns from config
type ExclusionMatcher struct {
	filePatterns []string
	refPatterns  []*regexp.Regexp
}

// NewExclusionMatcher creates a new exclusion matcher from config
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{
		filePatterns: cfg.FilePatterns,
	}

	for _, p := range cfg.RefPatterns {
		if re, err := regexp.Compile(p); err == nil {
			m.refPatterns = append(m.refPatterns, re)
		}
	}

	return m
}

// MatchesRef checks if a reference name should be excluded from aggregation
func (m *ExclusionMatcher) MatchesRef(name string) bool {
	for _, re := range m.refPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// MatchesFile checks if an artifact path should be excluded from scanning
func (m *ExclusionMatcher) MatchesFile(path string) bool {
	for _, pattern := range m.filePatterns {
		if MatchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// MatchGlob matches a path against a glob pattern, including ** patterns
func MatchGlob(pattern, path string) bool {
	if strings.Contains(pattern, "**") {
		return matchDoubleGlob(pattern, path)
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}

// matchDoubleGlob handles ** patterns in globs
func matchDoubleGlob(pattern, path string) bool {
	parts := strings.Split(pattern, "**")
	if len(parts) != 2 {
		return false
	}
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix == "" && suffix != "" {
		return strings.HasSuffix(path, suffix) || strings.Contains(path, "/"+suffix)
	}
	if suffix == "" && prefix != "" {
		return strings.HasPrefix(path, prefix) || strings.Contains(path, prefix+"/")
	}
	if prefix != "" && suffix != "" {
		return strings.Contains(path, prefix) && strings.Contains(path, suffix)
	}
	return false
}
