package style

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Scroll effect types.
const (
	MotionVertical   = "vertical"
	MotionHorizontal = "horizontal"
	MotionOpacity    = "opacity"
	MotionBlur       = "blur"
	MotionScale      = "scale"
	MotionRotate     = "rotate"
)

// DefaultMotionSpeed is used when a scroll effect carries no speed.
const DefaultMotionSpeed = 4

var motionTypes = map[string]string{
	"parallax":   MotionVertical,
	"vertical":   MotionVertical,
	"translatey": MotionVertical,
	"horizontal": MotionHorizontal,
	"translatex": MotionHorizontal,
	"opacity":    MotionOpacity,
	"fade":       MotionOpacity,
	"blur":       MotionBlur,
	"scale":      MotionScale,
	"zoom":       MotionScale,
	"rotate":     MotionRotate,
}

// ScrollMotion is one scroll-linked effect.
type ScrollMotion struct {
	Type      string  `json:"type"`
	Direction string  `json:"direction,omitempty"`
	Speed     float64 `json:"speed"`
}

// Sticky describes position:sticky/fixed behaviour.
type Sticky struct {
	Edge   string  `json:"edge"`
	Offset float64 `json:"offset,omitempty"`
}

// MotionEffects groups scroll effects and stickiness.
type MotionEffects struct {
	Scroll []ScrollMotion `json:"scroll,omitempty"`
	Sticky *Sticky        `json:"sticky,omitempty"`
}

// Has reports whether a scroll effect of type t is present.
func (m *MotionEffects) Has(t string) (ScrollMotion, bool) {
	if m == nil {
		return ScrollMotion{}, false
	}
	for _, s := range m.Scroll {
		if s.Type == t {
			return s, true
		}
	}
	return ScrollMotion{}, false
}

// ExtractMotionEffects reads scroll effects from the behavior descriptor
// and sticky positioning from the styles. Unknown effect types are dropped.
func ExtractMotionEffects(c *component.ComponentInfo) *MotionEffects {
	if c == nil {
		return nil
	}
	m := &MotionEffects{}
	if c.Behavior != nil {
		seen := make(map[string]bool)
		for _, e := range c.Behavior.ScrollEffects {
			t, ok := motionTypes[strings.ToLower(strings.TrimSpace(e.Type))]
			if !ok || seen[t] {
				continue
			}
			seen[t] = true
			speed := e.Speed
			if speed <= 0 {
				speed = DefaultMotionSpeed
			}
			m.Scroll = append(m.Scroll, ScrollMotion{Type: t, Direction: strings.ToLower(e.Direction), Speed: speed})
		}
	}

	pos := strings.ToLower(c.Styles.Get("position"))
	if pos == "sticky" || pos == "fixed" {
		s := &Sticky{Edge: "top"}
		if c.Styles.Get("top") == "" && c.Styles.Get("bottom") != "" {
			s.Edge = "bottom"
		}
		if sz, ok := ParseSize(c.Styles.Get(s.Edge)); ok {
			s.Offset = sz.Value
		}
		m.Sticky = s
	}

	if len(m.Scroll) == 0 && m.Sticky == nil {
		return nil
	}
	return m
}
