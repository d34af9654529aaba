package semantic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestWalk_VisitsParentsBeforeChildren(t *testing.T) {
	tree := decode(t, `{"id": "root", "a": {"id": "a", "inner": {"id": "a.inner"}}, "b": [{"id": "b0"}, {"id": "b1"}]}`)

	var order []string
	Walk(tree, func(obj map[string]any) {
		if id, ok := obj["id"].(string); ok {
			order = append(order, id)
		}
	})

	assert.Equal(t, []string{"root", "a", "a.inner", "b0", "b1"}, order)
}

func TestWalk_ScalarsTerminateSilently(t *testing.T) {
	for _, root := range []any{"text", 3.14, true, nil} {
		visited := 0
		Walk(root, func(map[string]any) { visited++ })
		assert.Zero(t, visited)
	}
}

func TestWalk_DeterministicAcrossRuns(t *testing.T) {
	tree := decode(t, `{"z": {"id": "z"}, "a": {"id": "a"}, "m": {"id": "m"}}`)

	collect := func() []string {
		var order []string
		Walk(tree, func(obj map[string]any) {
			if id, ok := obj["id"].(string); ok {
				order = append(order, id)
			}
		})
		return order
	}

	first := collect()
	assert.Equal(t, []string{"a", "m", "z"}, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, collect())
	}
}

func TestDigString(t *testing.T) {
	obj := decode(t, `{"Expression": {"SourceRef": {"Entity": "Sales"}}}`).(map[string]any)

	assert.Equal(t, "Sales", digString(obj, "Expression", "SourceRef", "Entity"))
	assert.Equal(t, "", digString(obj, "Expression", "Missing", "Entity"))
	assert.Equal(t, "", digString(obj, "Expression", "SourceRef"))
}
