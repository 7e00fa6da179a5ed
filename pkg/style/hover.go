package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Hover animation categories.
const (
	HoverGrow   = "grow"
	HoverShrink = "shrink"
	HoverFloat  = "float"
	HoverSink   = "sink"
	HoverRotate = "rotate"
)

// HoverEffects is the style delta an element applies on hover.
type HoverEffects struct {
	Styles       map[string]string `json:"styles,omitempty"`
	Animation    string            `json:"animation,omitempty"`
	TransitionMs int               `json:"transitionMs,omitempty"`
	Easing       string            `json:"easing,omitempty"`
}

// Color returns the hover text color, normalized.
func (h *HoverEffects) Color() string {
	return h.color("color")
}

// BackgroundColor returns the hover background color, normalized.
func (h *HoverEffects) BackgroundColor() string {
	return h.color("backgroundColor")
}

func (h *HoverEffects) color(key string) string {
	if h == nil {
		return ""
	}
	c, _ := NormalizeColor(h.Styles[key])
	return c
}

var (
	scalePattern   = regexp.MustCompile(`scale[xy]?\(\s*(-?\d*\.?\d+)`)
	translateYPatt = regexp.MustCompile(`translatey\(\s*(-?\d*\.?\d+)`)
	easingPattern  = regexp.MustCompile(`(ease-in-out|ease-in|ease-out|ease|linear|step-start|step-end|cubic-bezier\([^)]*\))`)
)

// ExtractHoverEffects diffs the hover state bucket against the base styles
// and classifies the transform. Returns nil without a hover bucket.
func ExtractHoverEffects(c *component.ComponentInfo) *HoverEffects {
	if c == nil {
		return nil
	}
	hover := c.States[component.StateHover]
	if len(hover) == 0 {
		return nil
	}
	h := &HoverEffects{}
	if delta := c.Styles.Diff(hover); len(delta) > 0 {
		delete(delta, "transition")
		if len(delta) > 0 {
			h.Styles = delta
		}
	}
	h.Animation = HoverAnimation(hover.Get("transform"))

	transition := hover.Get("transition")
	if transition == "" {
		transition = c.Styles.Get("transition")
	}
	if transition == "" {
		transition = c.Styles.Get("transitionDuration")
	}
	if ms, ok := ParseDurationMs(transition); ok {
		h.TransitionMs = ms
	}
	if m := easingPattern.FindStringSubmatch(strings.ToLower(transition)); m != nil {
		h.Easing = m[1]
	}
	if h.Styles == nil && h.Animation == "" {
		return nil
	}
	return h
}

// HoverAnimation classifies a CSS transform by substring.
func HoverAnimation(transform string) string {
	t := strings.ToLower(transform)
	switch {
	case t == "" || t == "none":
		return ""
	case strings.Contains(t, "scale"):
		if m := scalePattern.FindStringSubmatch(t); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v < 1 {
				return HoverShrink
			}
		}
		return HoverGrow
	case strings.Contains(t, "translatey"):
		if m := translateYPatt.FindStringSubmatch(t); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				return HoverSink
			}
		}
		return HoverFloat
	case strings.Contains(t, "rotate"):
		return HoverRotate
	}
	return ""
}
