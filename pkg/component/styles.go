package component

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Styles maps CSS property names to computed values.
//
// Keys may be camelCase ("backgroundColor") or kebab-case
// ("background-color"); lookups accept either spelling.
type Styles map[string]any

// Get returns the value of a property as a trimmed string. Numbers are
// formatted without a unit, objects yield "".
func (s Styles) Get(name string) string {
	v, ok := s.lookup(name)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	}
	return ""
}

// Raw returns the untouched value of a property.
func (s Styles) Raw(name string) (any, bool) {
	return s.lookup(name)
}

// Object returns a nested object value, e.g. an explicit
// {top,right,bottom,left} padding.
func (s Styles) Object(name string) (map[string]any, bool) {
	v, ok := s.lookup(name)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Has reports whether a property is present with a non-empty value.
func (s Styles) Has(name string) bool {
	v, ok := s.lookup(name)
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return strings.TrimSpace(str) != ""
	}
	return true
}

// Diff returns the string-valued properties of other that differ from s.
func (s Styles) Diff(other Styles) map[string]string {
	out := make(map[string]string)
	for k := range other {
		key := CamelCase(k)
		v := other.Get(k)
		if v == "" {
			continue
		}
		if s.Get(key) != v {
			out[key] = v
		}
	}
	return out
}

func (s Styles) lookup(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	if v, ok := s[name]; ok {
		return v, true
	}
	if v, ok := s[CamelCase(name)]; ok {
		return v, true
	}
	if v, ok := s[KebabCase(name)]; ok {
		return v, true
	}
	return nil, false
}

// CamelCase converts "background-color" to "backgroundColor".
func CamelCase(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KebabCase converts "backgroundColor" to "background-color".
func KebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
