// Package dax reconciles reference-only analyses with externally extracted
// DAX formula artifacts. Query-ref identifiers and artifact names follow two
// independently evolved conventions (bracketed Table[Measure Name] vs. the
// dotted/underscore style emitted by wrapping aggregations), so matching
// works over a closure of partial and fully-normalized spellings rather than
// a single canonical form.
package dax

import (
	"sort"
	"strings"
)

var normalizer = strings.NewReplacer(
	"sum(", "",
	")", "",
	"[", ".",
	"]", "",
	"/", ".",
	"_", "",
	" ", "",
)

// Variants returns the sorted set of alternate spellings of a name used for
// cross-source matching: the lower-cased base, each single transform applied
// to it, and each of those re-normalized in full. Generating the closure
// maximizes match recall at the cost of occasional accidental collisions;
// collisions resolve last-write-wins during index construction. Empty
// strings are discarded.
func Variants(value string) []string {
	base := strings.ToLower(value)

	seeds := []string{
		base,
		strings.ReplaceAll(strings.ReplaceAll(base, "sum(", ""), ")", ""),
		strings.ReplaceAll(strings.ReplaceAll(base, "[", "."), "]", ""),
		strings.ReplaceAll(base, "/", "."),
		strings.ReplaceAll(base, "_", ""),
		strings.ReplaceAll(base, " ", ""),
	}

	set := make(map[string]struct{}, len(seeds)*2)
	for _, v := range seeds {
		set[v] = struct{}{}
		set[normalizer.Replace(v)] = struct{}{}
	}
	delete(set, "")

	variants := make([]string, 0, len(set))
	for v := range set {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	return variants
}
