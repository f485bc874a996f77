package resolve

import (
	"sort"
	"strconv"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/label"
)

// Reshape converts an untyped stored value into its GraphQL shape:
//
//   - scalars pass through unchanged
//   - term handles become {id, name, slug, description, taxonomy}
//   - records with "image_meta" are unwrapped to that value
//   - records with "url" become {id, url, title, name}
//   - anything else becomes ""
func Reshape(v any) any {
	switch label.Fingerprint(v) {
	case label.ShapeScalar:
		return v
	case label.ShapeTerm:
		return v.(label.TermHandle).TermRecord()
	case label.ShapeImageMeta:
		return v.(map[string]any)["image_meta"]
	case label.ShapeURLRecord:
		rec := v.(map[string]any)
		return map[string]any{
			"id":    rec["ID"],
			"url":   rec["url"],
			"title": rec["title"],
			"name":  rec["name"],
		}
	default:
		return ""
	}
}

// ReshapeEach reshapes every element of a stored list. A single stored value
// is treated as a one element list.
func ReshapeEach(v any) any {
	if v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = Reshape(e)
	}
	return out
}

// GatherIDs extracts the referenced entity ids from a stored reference value,
// in stored order. Single references accept an id or a record with an "ID"
// entry; multiple references accept a list of those or a record keyed by id.
// A single reference stored in one of the multiple shapes is gathered the
// same way.
func GatherIDs(v any, c field.Cardinality) []int {
	if c == field.Single {
		if id, ok := idOf(v); ok {
			return []int{id}
		}
		switch v.(type) {
		case []any, map[string]any:
		default:
			return nil
		}
	}
	switch x := v.(type) {
	case []any:
		ids := make([]int, 0, len(x))
		for _, e := range x {
			if id, ok := idOf(e); ok {
				ids = append(ids, id)
			}
		}
		return ids
	case map[string]any:
		if id, ok := idOf(x); ok {
			return []int{id}
		}
		ids := make([]int, 0, len(x))
		for k := range x {
			if id, err := strconv.Atoi(k); err == nil {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
		return ids
	default:
		if id, ok := idOf(v); ok {
			return []int{id}
		}
		return nil
	}
}

func idOf(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), x == float64(int(x))
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	case map[string]any:
		if id, ok := x["ID"]; ok {
			return idOf(id)
		}
		return 0, false
	case content.Entity:
		return x.DatabaseID(), true
	default:
		return 0, false
	}
}
