package semantic

import "sort"

// Walk traverses a JSON-decoded value depth-first, parents before children,
// calling visit for every object node. Object keys are visited in sorted
// order and array elements in index order, so repeated runs over the same
// document produce the same match sequence. Shape recognition lives in the
// visitors; Walk only owns the traversal so both extractors recurse the same
// way. Scalars terminate a branch silently.
//
// A visited node's children are always traversed too: query trees re-wrap
// field references inside calculation expressions, so a match at one level
// never prunes matches below it.
func Walk(node any, visit func(obj map[string]any)) {
	switch v := node.(type) {
	case map[string]any:
		visit(v)
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			Walk(v[key], visit)
		}
	case []any:
		for _, child := range v {
			Walk(child, visit)
		}
	}
}

// digString follows a chain of object keys and returns the string at the
// end, or "" when any hop is absent or not an object
func digString(obj map[string]any, keys ...string) string {
	current := any(obj)
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	s, _ := current.(string)
	return s
}
