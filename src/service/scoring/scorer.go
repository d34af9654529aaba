package scoring

import (
	"strings"

	"pbix-insight/src/config"
)

// Scorer estimates how analytically involved a reference is from tokens
// appearing in its name. It is pure and stateless; the vocabulary comes
// from config so tests and deployments can exercise it explicitly.
type Scorer struct {
	tokens   []string
	prefixes []string
}

// NewScorer creates a scorer from config
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{
		tokens:   cfg.ComplexityTokens,
		prefixes: cfg.AggregationPrefixes,
	}
}

// Score returns the complexity score for a reference name together with the
// matched tokens, in vocabulary order. A name wrapped in a plain aggregation
// (Sum(...), Count(...)) is discounted by one, floored at zero: a bare
// aggregation over a simple field reads as simple even when the field name
// happens to contain a vocabulary token.
//
// Overlapping tokens each count: a name containing "last year" matches both
// "ly" and "last year" and scores 2 for the one concept. That is intentional
// heuristic behavior carried over from production scoring runs.
func (s *Scorer) Score(name string) (int, []string) {
	lowered := strings.ToLower(name)

	var matched []string
	for _, tok := range s.tokens {
		if strings.Contains(lowered, tok) {
			matched = append(matched, tok)
		}
	}

	score := len(matched)
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(lowered, prefix) {
			score--
			break
		}
	}
	if score < 0 {
		score = 0
	}

	return score, matched
}
