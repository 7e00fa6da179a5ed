package style

import (
	"regexp"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Background describes an element's background layer.
type Background struct {
	Color      string `json:"color,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Gradient   string `json:"gradient,omitempty"`
	Position   string `json:"position,omitempty"`
	Size       string `json:"size,omitempty"`
	Repeat     string `json:"repeat,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// IsZero reports whether nothing was found.
func (b Background) IsZero() bool {
	return b == Background{}
}

// Border describes an element's border.
type Border struct {
	Style  string     `json:"style,omitempty"`
	Width  *Dimension `json:"width,omitempty"`
	Color  string     `json:"color,omitempty"`
	Radius *Dimension `json:"radius,omitempty"`
}

// IsZero reports whether nothing was found.
func (b Border) IsZero() bool {
	return b.Style == "" && b.Width == nil && b.Color == "" && b.Radius == nil
}

var (
	urlPattern      = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	gradientPattern = regexp.MustCompile(`((?:repeating-)?(?:linear|radial|conic)-gradient\(.*\))`)
	borderStyles    = map[string]bool{"solid": true, "dashed": true, "dotted": true, "double": true, "groove": true, "ridge": true, "inset": true, "outset": true}
)

// ExtractBackground reads background color, image and gradient.
func ExtractBackground(c *component.ComponentInfo) Background {
	if c == nil {
		return Background{}
	}
	s := c.Styles
	var b Background
	if col, ok := NormalizeColor(s.Get("backgroundColor")); ok {
		b.Color = col
	}
	img := s.Get("backgroundImage")
	if img == "" {
		img = s.Get("background")
	}
	if m := urlPattern.FindStringSubmatch(img); m != nil {
		b.ImageURL = m[1]
	}
	if m := gradientPattern.FindStringSubmatch(img); m != nil {
		b.Gradient = m[1]
	}
	if b.Color == "" && b.Gradient == "" && b.ImageURL == "" {
		if col, ok := NormalizeColor(s.Get("background")); ok {
			b.Color = col
		}
	}
	if b.ImageURL != "" {
		b.Position = keyword(s.Get("backgroundPosition"), "0% 0%")
		b.Size = keyword(s.Get("backgroundSize"), "auto")
		b.Repeat = keyword(s.Get("backgroundRepeat"), "repeat")
		b.Attachment = keyword(s.Get("backgroundAttachment"), "scroll")
	}
	return b
}

// ExtractBorder reads border style, width, color and radius. The "border"
// shorthand ("1px solid #ccc") is split when longhands are absent.
func ExtractBorder(c *component.ComponentInfo) Border {
	if c == nil {
		return Border{}
	}
	s := c.Styles
	box := BoxModelFromStyles(s)
	b := Border{
		Style:  keyword(s.Get("borderStyle"), "none"),
		Width:  box.BorderWidth,
		Radius: box.BorderRadius,
	}
	if col, ok := NormalizeColor(s.Get("borderColor")); ok {
		b.Color = col
	}
	if short := s.Get("border"); short != "" && short != "none" {
		for _, tok := range splitTopLevel(short, ' ') {
			lower := strings.ToLower(tok)
			switch {
			case borderStyles[lower]:
				if b.Style == "" {
					b.Style = lower
				}
			case b.Width == nil:
				if d, ok := ParseDimension(tok); ok {
					b.Width = &d
					continue
				}
				fallthrough
			default:
				if col, ok := NormalizeColor(tok); ok && b.Color == "" {
					b.Color = col
				}
			}
		}
	}
	if b.Style == "" && b.Width != nil && !b.Width.IsZero() {
		b.Style = "solid"
	}
	if b.Width != nil && b.Width.IsZero() && b.Style == "" {
		b.Width = nil
	}
	return b
}
