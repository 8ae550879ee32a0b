package normalize

import (
	"reflect"
	"sort"

	"github.com/spigell/cvfuse/internal/textutil"
)

type visit struct {
	value any
	depth int
}

// findArray walks the graph under root breadth first and returns the first
// non-empty array stored under one of the aliases of field. The walk keeps
// its pending nodes in an arena indexed by position instead of recursing,
// stops at maxDepth and visits every map or slice at most once. Keys naming
// another section are not entered, so a "languages" group inside skills is
// never taken for the spoken languages.
func findArray(root any, field string, maxDepth int) []any {
	wanted := map[string]bool{}
	for _, a := range aliases[field] {
		wanted[textutil.AlnumKey(a)] = true
	}
	blocked := map[string]bool{}
	for _, other := range sections {
		if other == field {
			continue
		}
		for _, a := range aliases[other] {
			blocked[textutil.AlnumKey(a)] = true
		}
	}

	arena := []visit{{value: root}}
	seen := map[uintptr]bool{}

	for i := 0; i < len(arena); i++ {
		n := arena[i]
		if n.depth > maxDepth || !firstVisit(seen, n.value) {
			continue
		}

		switch t := n.value.(type) {
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				key := textutil.AlnumKey(k)
				if blocked[key] {
					continue
				}
				v := t[k]
				if arr, ok := v.([]any); ok && len(arr) > 0 && wanted[key] {
					return arr
				}
				arena = append(arena, visit{value: v, depth: n.depth + 1})
			}
		case []any:
			for _, v := range t {
				arena = append(arena, visit{value: v, depth: n.depth + 1})
			}
		}
	}
	return nil
}

func firstVisit(seen map[uintptr]bool, v any) bool {
	switch v.(type) {
	case map[string]any, []any:
	default:
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return true
	}
	ptr := rv.Pointer()
	if seen[ptr] {
		return false
	}
	seen[ptr] = true
	return true
}
