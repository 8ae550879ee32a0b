package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/cvfuse/internal/textutil"
)

// lookup returns the value stored under the first alias of field that is
// present and not empty in m.
func lookup(m map[string]any, field string) (any, bool) {
	if m == nil {
		return nil, false
	}
	index := keyIndex(m)
	for _, alias := range aliases[field] {
		key, ok := index[textutil.AlnumKey(alias)]
		if !ok {
			continue
		}
		if v := m[key]; !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// keyIndex maps normalized keys to the real keys of m. When two keys fold
// to the same name the lexically smallest wins.
func keyIndex(m map[string]any) map[string]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	index := make(map[string]string, len(keys))
	for _, k := range keys {
		nk := textutil.AlnumKey(k)
		if _, ok := index[nk]; !ok {
			index[nk] = k
		}
	}
	return index
}

// firstString resolves field in each scope and returns the first non-empty
// text.
func firstString(field string, scopes ...map[string]any) string {
	for _, scope := range scopes {
		if v, ok := lookup(scope, field); ok {
			if s := scalar(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func mapOf(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func child(m map[string]any, field string) map[string]any {
	v, _ := lookup(m, field)
	return mapOf(v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// scalar reads a single text value. Objects contribute their name-like
// field and lists their first non-empty element.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return textutil.Clean(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case map[string]any:
		for _, key := range []string{"name", "title", "text", "value", "formatted", "url"} {
			if s := scalar(t[key]); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range t {
			if s := scalar(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// text joins every string found in v with spaces.
func text(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return scalar(v)
	}
}

// place reads a location from a string or from a {city, country} style object.
func place(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return scalar(v)
	}
	city := firstOf(m, "city", "town", "locality", "name")
	country := firstOf(m, "country", "countryName", "countryCode", "region")
	switch {
	case city == "":
		return country
	case country == "" || strings.EqualFold(city, country):
		return city
	}
	return city + ", " + country
}

func firstOf(m map[string]any, keys ...string) string {
	index := keyIndex(m)
	for _, k := range keys {
		if key, ok := index[textutil.AlnumKey(k)]; ok {
			if s := scalar(m[key]); s != "" {
				return s
			}
		}
	}
	return ""
}
