package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Layout captures flex/grid container settings and sizing.
type Layout struct {
	Display        string `json:"display,omitempty"`
	Direction      string `json:"direction,omitempty"`
	JustifyContent string `json:"justifyContent,omitempty"`
	AlignItems     string `json:"alignItems,omitempty"`
	Wrap           bool   `json:"wrap,omitempty"`
	Gap            *Size  `json:"gap,omitempty"`
	GridColumns    int    `json:"gridColumns,omitempty"`
	Width          *Size  `json:"width,omitempty"`
	MaxWidth       *Size  `json:"maxWidth,omitempty"`
	MinHeight      *Size  `json:"minHeight,omitempty"`
	Position       string `json:"position,omitempty"`
	ZIndex         string `json:"zIndex,omitempty"`
	Overflow       string `json:"overflow,omitempty"`
	Opacity        string `json:"opacity,omitempty"`
}

// IsFlex reports a flex container.
func (l Layout) IsFlex() bool { return l.Display == "flex" || l.Display == "inline-flex" }

// IsGrid reports a grid container.
func (l Layout) IsGrid() bool { return l.Display == "grid" || l.Display == "inline-grid" }

var repeatPattern = regexp.MustCompile(`repeat\(\s*(\d+)\s*,`)

// ExtractLayout reads display, flex and grid properties and box sizing.
func ExtractLayout(c *component.ComponentInfo) Layout {
	if c == nil {
		return Layout{}
	}
	s := c.Styles
	l := Layout{
		Display:        strings.ToLower(s.Get("display")),
		Direction:      keyword(s.Get("flexDirection"), ""),
		JustifyContent: keyword(s.Get("justifyContent"), "normal"),
		AlignItems:     keyword(s.Get("alignItems"), "normal"),
		Wrap:           strings.HasPrefix(strings.ToLower(s.Get("flexWrap")), "wrap"),
		Width:          sizeUnlessAuto(s.Get("width")),
		MaxWidth:       sizeUnlessAuto(s.Get("maxWidth")),
		MinHeight:      sizeUnlessAuto(s.Get("minHeight")),
		Position:       keyword(s.Get("position"), "static"),
		ZIndex:         keyword(s.Get("zIndex"), "auto"),
		Overflow:       keyword(s.Get("overflow"), "visible"),
		Opacity:        keyword(s.Get("opacity"), "1"),
	}
	gap := s.Get("gap")
	if gap == "" {
		gap = s.Get("columnGap")
	}
	if gap != "" {
		l.Gap = ParseSizePtr(strings.Fields(gap)[0])
	}
	l.GridColumns = GridColumnCount(s)
	return l
}

// GridColumnCount returns the number of explicit grid columns, or 0.
// grid-template-columns may be a CSS string or an object {columns: n}.
func GridColumnCount(s component.Styles) int {
	if obj, ok := s.Object("gridTemplateColumns"); ok {
		if n, ok := toFloat(obj["columns"]); ok && n > 0 {
			return int(n)
		}
		return 0
	}
	tpl := strings.TrimSpace(s.Get("gridTemplateColumns"))
	if tpl == "" || tpl == "none" {
		return 0
	}
	if m := repeatPattern.FindStringSubmatch(tpl); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	n := 0
	for _, part := range splitTopLevel(tpl, ' ') {
		if part != "" {
			n++
		}
	}
	return n
}

func sizeUnlessAuto(v string) *Size {
	switch strings.ToLower(v) {
	case "", "auto", "none", "normal":
		return nil
	}
	return ParseSizePtr(v)
}
