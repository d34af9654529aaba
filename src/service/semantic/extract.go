package semantic

import (
	"fmt"
	"sort"

	"pbix-insight/src/model"
)

// ExtractQueryRefs pulls the ordered query-ref identifiers out of a visual's
// projections mapping (role name -> list of bindings). Roles are scanned in
// sorted order; within a role, bindings keep their list order. Bindings
// without a queryRef field contribute nothing.
func ExtractQueryRefs(projections map[string]any) []string {
	roles := make([]string, 0, len(projections))
	for role := range projections {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var refs []string
	for _, role := range roles {
		bindings, ok := projections[role].([]any)
		if !ok {
			continue
		}
		for _, b := range bindings {
			obj, ok := b.(map[string]any)
			if !ok {
				continue
			}
			if ref, present := obj["queryRef"]; present {
				refs = append(refs, fmt.Sprintf("%v", ref))
			}
		}
	}
	return refs
}

// ExtractSemanticRefs walks a visual's query expression tree and collects
// every typed Measure/Column mention. The table name always sits behind the
// Expression.SourceRef.Entity path; absent table or field names degrade to
// the Unknown sentinel rather than failing.
func ExtractSemanticRefs(query any, section string) []model.SemanticReference {
	var refs []model.SemanticReference

	Walk(query, func(obj map[string]any) {
		for _, refType := range []model.RefType{model.RefTypeMeasure, model.RefTypeColumn} {
			inner, ok := obj[string(refType)].(map[string]any)
			if !ok {
				continue
			}
			refs = append(refs, model.SemanticReference{
				Type:    refType,
				Table:   orUnknown(digString(inner, "Expression", "SourceRef", "Entity")),
				Name:    orUnknown(digString(inner, "Property")),
				Section: section,
			})
		}
	})

	return refs
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownName
	}
	return s
}
