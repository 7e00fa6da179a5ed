package style

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Typography is the normalized text styling of an element.
type Typography struct {
	FontFamily     string `json:"fontFamily,omitempty"`
	FontSize       *Size  `json:"fontSize,omitempty"`
	FontWeight     string `json:"fontWeight,omitempty"`
	FontStyle      string `json:"fontStyle,omitempty"`
	LineHeight     *Size  `json:"lineHeight,omitempty"`
	LetterSpacing  *Size  `json:"letterSpacing,omitempty"`
	TextTransform  string `json:"textTransform,omitempty"`
	TextDecoration string `json:"textDecoration,omitempty"`
	TextAlign      string `json:"textAlign,omitempty"`
	Color          string `json:"color,omitempty"`
}

// IsZero reports whether no typography property was found.
func (t Typography) IsZero() bool {
	return t == Typography{}
}

var fontWeights = map[string]string{
	"thin":    "100",
	"light":   "300",
	"normal":  "400",
	"regular": "400",
	"medium":  "500",
	"bold":    "700",
	"bolder":  "800",
	"black":   "900",
}

// ExtractTypography reads font and text properties from the component.
func ExtractTypography(c *component.ComponentInfo) Typography {
	if c == nil {
		return Typography{}
	}
	return TypographyFromStyles(c.Styles)
}

// TypographyFromStyles is ExtractTypography over a bare style map.
func TypographyFromStyles(s component.Styles) Typography {
	t := Typography{
		FontFamily:     PrimaryFont(s.Get("fontFamily")),
		FontSize:       ParseSizePtr(s.Get("fontSize")),
		FontWeight:     NormalizeFontWeight(s.Get("fontWeight")),
		FontStyle:      keyword(s.Get("fontStyle"), "normal"),
		LetterSpacing:  ParseSizePtr(s.Get("letterSpacing")),
		TextTransform:  keyword(s.Get("textTransform"), "none"),
		TextDecoration: firstWord(keyword(s.Get("textDecoration"), "none")),
		TextAlign:      normalizeAlign(s.Get("textAlign")),
	}
	if lh := s.Get("lineHeight"); lh != "" && lh != "normal" {
		if sz, ok := ParseSizeWithUnit(lh, "em"); ok {
			t.LineHeight = &sz
		}
	}
	if c, ok := NormalizeColor(s.Get("color")); ok {
		t.Color = c
	}
	return t
}

// PrimaryFont returns the first family of a font stack, unquoted.
func PrimaryFont(stack string) string {
	if stack == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(stack, ",")[0])
	return strings.Trim(first, `"'`)
}

// NormalizeFontWeight maps keywords to numeric weights.
func NormalizeFontWeight(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	if n, ok := fontWeights[w]; ok {
		return n
	}
	if len(w) == 3 && w[0] >= '1' && w[0] <= '9' && strings.HasSuffix(w, "00") {
		return w
	}
	return ""
}

func keyword(v, ignore string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == ignore {
		return ""
	}
	return v
}

func firstWord(v string) string {
	if f := strings.Fields(v); len(f) > 0 {
		return f[0]
	}
	return ""
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return "left"
	case "right", "end":
		return "right"
	case "center":
		return "center"
	case "justify":
		return "justify"
	}
	return ""
}
