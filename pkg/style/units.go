// Package style turns raw per-element style and behaviour data into
// normalized, builder-agnostic descriptors.
//
// Every function here is total: unparseable input yields a zero value or
// ok=false, never a panic or an error. Callers omit the derived field.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnit is assumed for lengths written without a unit.
const DefaultUnit = "px"

// Size is a CSS length split into value and unit.
type Size struct {
	Value float64 `json:"size"`
	Unit  string  `json:"unit"`
}

// String renders the size back to CSS ("12.5px").
func (s Size) String() string {
	return FormatNumber(s.Value) + s.Unit
}

var sizePattern = regexp.MustCompile(`^(-?\d*\.?\d+)(px|em|rem|%|vh|vw|vmin|vmax|pt|ch|ex|fr|s|ms|deg)?$`)

// ParseSize parses a single CSS length. Unitless numbers get DefaultUnit.
func ParseSize(s string) (Size, bool) {
	return ParseSizeWithUnit(s, DefaultUnit)
}

// ParseSizeWithUnit parses a single CSS length, using unit when the value
// carries none.
func ParseSizeWithUnit(s, unit string) (Size, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return Size{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Size{}, false
	}
	u := m[2]
	if u == "" {
		u = unit
	}
	return Size{Value: v, Unit: u}, true
}

// ParseSizePtr is ParseSize returning nil on failure.
func ParseSizePtr(s string) *Size {
	if sz, ok := ParseSize(s); ok {
		return &sz
	}
	return nil
}

var durationPattern = regexp.MustCompile(`(\d*\.?\d+)\s*(ms|s)\b`)

// ParseDurationMs finds the first "<n>s" or "<n>ms" in s and returns it in
// milliseconds.
func ParseDurationMs(s string) (int, bool) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "s" {
		v *= 1000
	}
	return int(math.Round(v)), true
}

// FormatNumber prints a float without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toFloat converts JSON-ish numbers and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if sz, ok := ParseSize(n); ok {
			return sz.Value, true
		}
	}
	return 0, false
}

// splitTopLevel splits s on sep, ignoring separators nested in parentheses.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + len(string(r))
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
