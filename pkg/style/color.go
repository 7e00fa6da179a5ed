package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"aqua":    "#00ffff",
	"fuchsia": "#ff00ff",
}

var rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d*\.?\d+)(%?)\s*[,\s]\s*(\d*\.?\d+)(%?)\s*[,\s]\s*(\d*\.?\d+)(%?)\s*(?:[,/]\s*(\d*\.?\d+)(%?)\s*)?\)$`)

// NormalizeColor canonicalizes a CSS color. Opaque colors become lower-case
// "#rrggbb"; translucent ones become "rgba(r, g, b, a)". Transparent,
// inherit-style keywords and unparseable values return ok=false.
func NormalizeColor(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if hex, ok := namedColors[s]; ok {
		return hex, true
	}
	if strings.HasPrefix(s, "#") {
		return normalizeHex(s)
	}
	if strings.HasPrefix(s, "rgb") {
		return normalizeRGB(s)
	}
	return "", false
}

// MustColor returns the normalized color or the trimmed input unchanged.
func MustColor(s string) string {
	if c, ok := NormalizeColor(s); ok {
		return c
	}
	return strings.TrimSpace(s)
}

func normalizeHex(s string) (string, bool) {
	body := s[1:]
	alpha := 1.0
	switch len(body) {
	case 3, 6:
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(body[3:], 2), 16, 8)
		if err != nil {
			return "", false
		}
		alpha = float64(a) / 255
		body = body[:3]
	case 8:
		a, err := strconv.ParseUint(body[6:], 16, 8)
		if err != nil {
			return "", false
		}
		alpha = float64(a) / 255
		body = body[:6]
	default:
		return "", false
	}
	c, err := colorful.Hex("#" + body)
	if err != nil {
		return "", false
	}
	return formatColor(c, alpha), true
}

func normalizeRGB(s string) (string, bool) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	channel := func(v, pct string) float64 {
		f, _ := strconv.ParseFloat(v, 64)
		if pct == "%" {
			return clamp01(f / 100)
		}
		return clamp01(f / 255)
	}
	c := colorful.Color{R: channel(m[1], m[2]), G: channel(m[3], m[4]), B: channel(m[5], m[6])}
	alpha := 1.0
	if m[7] != "" {
		a, _ := strconv.ParseFloat(m[7], 64)
		if m[8] == "%" {
			a /= 100
		}
		alpha = clamp01(a)
	}
	if alpha == 0 {
		return "", false
	}
	return formatColor(c, alpha), true
}

func formatColor(c colorful.Color, alpha float64) string {
	if alpha >= 1 {
		return c.Hex()
	}
	r, g, b := c.RGB255()
	return "rgba(" + strconv.Itoa(int(r)) + ", " + strconv.Itoa(int(g)) + ", " + strconv.Itoa(int(b)) + ", " +
		strconv.FormatFloat(float64(int(alpha*100+0.5))/100, 'f', -1, 64) + ")"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// StripHash drops the leading '#' of a hex color (Beaver Builder stores
// colors bare).
func StripHash(c string) string {
	return strings.TrimPrefix(c, "#")
}
