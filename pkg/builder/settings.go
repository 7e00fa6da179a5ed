package builder

import (
	"reflect"
	"sort"
	"strings"
)

// Settings is a loosely typed builder settings object. Values are strings,
// numbers, bools, nested Settings, map[string]any or slices.
type Settings map[string]any

// Set stores v under key unless v is empty.
func (s Settings) Set(key string, v any) {
	if isEmpty(v) {
		return
	}
	s[key] = v
}

// SetIfEmpty stores v only when key holds nothing yet.
func (s Settings) SetIfEmpty(key string, v any) {
	if _, ok := s[key]; ok {
		return
	}
	s.Set(key, v)
}

// Merge copies the non-empty entries of other over s. Later merges win,
// so callers merge defaults first and overrides last.
func (s Settings) Merge(other Settings) Settings {
	for k, v := range other {
		s.Set(k, v)
	}
	return s
}

// Clone returns a deep copy of the nested maps and slices.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	return cloneValue(s).(Settings)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Settings:
		out := make(Settings, len(val))
		for k, x := range val {
			out[k] = cloneValue(x)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = cloneValue(x)
		}
		return out
	}
	return v
}

// Keys returns the keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prune removes empty values recursively and returns the number of keys
// dropped. Pruning an already pruned object drops nothing.
func (s Settings) Prune() int {
	return pruneMap(s)
}

func pruneMap(m map[string]any) int {
	dropped := 0
	for k, v := range m {
		switch val := v.(type) {
		case Settings:
			dropped += pruneMap(val)
		case map[string]any:
			dropped += pruneMap(val)
		}
		if isEmpty(m[k]) {
			delete(m, k)
			dropped++
		}
	}
	return dropped
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case Settings:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Strings returns every string value reachable from s, lower-cased. Exporter
// validators use it to find which registry entries are referenced.
func (s Settings) Strings() map[string]bool {
	out := make(map[string]bool)
	collectStrings(map[string]any(s), out)
	return out
}

func collectStrings(v any, out map[string]bool) {
	switch val := v.(type) {
	case string:
		if val != "" {
			out[strings.ToLower(val)] = true
		}
	case Settings:
		for _, x := range val {
			collectStrings(x, out)
		}
	case map[string]any:
		for _, x := range val {
			collectStrings(x, out)
		}
	case []any:
		for _, x := range val {
			collectStrings(x, out)
		}
	case []Settings:
		for _, x := range val {
			collectStrings(x, out)
		}
	case []string:
		for _, x := range val {
			collectStrings(x, out)
		}
	}
}

// AsMap returns v as a plain map when it is Settings or map[string]any, so
// documents built in memory and decoded from JSON read the same way.
func AsMap(v any) map[string]any {
	switch m := v.(type) {
	case Settings:
		return m
	case map[string]any:
		return m
	}
	return nil
}
