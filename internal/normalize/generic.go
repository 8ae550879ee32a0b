package normalize

import (
	"encoding/json"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

const maxGenericDepth = 64

// generic converts any Go value into plain maps, slices and scalars. Structs
// go through mapstructure using their json tags, so a cv.Record becomes the
// same shape as its JSON form. The input is never modified; cycles and very
// deep values are cut off.
func generic(v any) any {
	return toGeneric(v, 0, map[uintptr]bool{})
}

func toGeneric(v any, depth int, path map[uintptr]bool) any {
	if depth > maxGenericDepth {
		return nil
	}

	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, float64, int64, uint64:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []byte:
		return string(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return toGeneric(rv.Elem().Interface(), depth+1, path)

	case reflect.Struct:
		var m map[string]any
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &m})
		if err != nil {
			return nil
		}
		if err := dec.Decode(v); err != nil {
			return nil
		}
		return toGeneric(m, depth+1, path)

	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		ptr := rv.Pointer()
		if path[ptr] {
			return nil
		}
		path[ptr] = true
		defer delete(path, ptr)

		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = toGeneric(iter.Value().Interface(), depth+1, path)
		}
		return out

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				return nil
			}
			if rv.Len() > 0 {
				ptr := rv.Pointer()
				if path[ptr] {
					return nil
				}
				path[ptr] = true
				defer delete(path, ptr)
			}
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, toGeneric(rv.Index(i).Interface(), depth+1, path))
		}
		return out

	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return nil
}
