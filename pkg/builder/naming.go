package builder

import (
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// Naming is one row of the naming translation table: how a target spells
// responsive keys, entrance animations and hover animations.
type Naming struct {
	// TabletSuffix and MobileSuffix are appended to a setting key for
	// per-device values. Empty means the target keys devices elsewhere
	// (Oxygen media buckets, Gutenberg classes).
	TabletSuffix string
	MobileSuffix string

	// TabletMedia and MobileMedia name the media buckets of targets that
	// nest per-device values instead of suffixing keys.
	TabletMedia string
	MobileMedia string

	// Animations translates canonical animation names. A nil table passes
	// canonical names through.
	Animations map[string]string
	// DefaultAnimation is used for unknown or unmapped animations.
	DefaultAnimation string

	Hover map[string]string

	// HashColors reports whether colors keep their leading '#'.
	HashColors bool
}

var kebabAnimations = map[string]string{
	"fadeIn":        "fade-in",
	"fadeInUp":      "fade-up",
	"fadeInDown":    "fade-down",
	"fadeInLeft":    "fade-left",
	"fadeInRight":   "fade-right",
	"slideInUp":     "slide-up",
	"slideInDown":   "slide-down",
	"slideInLeft":   "slide-left",
	"slideInRight":  "slide-right",
	"zoomIn":        "zoom-in",
	"zoomInUp":      "zoom-up",
	"zoomInDown":    "zoom-down",
	"zoomInLeft":    "zoom-left",
	"zoomInRight":   "zoom-right",
	"bounceIn":      "bounce-in",
	"bounceInUp":    "bounce-up",
	"bounceInDown":  "bounce-down",
	"bounceInLeft":  "bounce-left",
	"bounceInRight": "bounce-right",
	"rotateIn":      "rotate-in",
	"flipInX":       "flip-vertical",
	"flipInY":       "flip-horizontal",
	"lightSpeedIn":  "light-speed",
	"rollIn":        "roll-in",
}

// naming is the shared translation table, one row per target.
var naming = map[Target]Naming{
	TargetElementor: {
		TabletSuffix:     "_tablet",
		MobileSuffix:     "_mobile",
		DefaultAnimation: "fadeIn",
		Hover: map[string]string{
			style.HoverGrow:   "grow",
			style.HoverShrink: "shrink",
			style.HoverFloat:  "float",
			style.HoverSink:   "sink",
			style.HoverRotate: "rotate",
		},
		HashColors: true,
	},
	TargetGutenberg: {
		DefaultAnimation: "fadeIn",
		Hover: map[string]string{
			style.HoverGrow:   "hover-grow",
			style.HoverShrink: "hover-shrink",
			style.HoverFloat:  "hover-float",
			style.HoverSink:   "hover-sink",
			style.HoverRotate: "hover-rotate",
		},
		HashColors: true,
	},
	TargetOxygen: {
		TabletMedia:      "tablet",
		MobileMedia:      "phone-portrait",
		Animations:       kebabAnimations,
		DefaultAnimation: "fade-in",
		Hover: map[string]string{
			style.HoverGrow:   "grow",
			style.HoverShrink: "shrink",
			style.HoverFloat:  "float",
			style.HoverSink:   "sink",
			style.HoverRotate: "rotate",
		},
		HashColors: true,
	},
	TargetBeaver: {
		TabletSuffix:     "_medium",
		MobileSuffix:     "_responsive",
		Animations:       kebabAnimations,
		DefaultAnimation: "fade-in",
		Hover: map[string]string{
			style.HoverGrow:   "grow",
			style.HoverShrink: "shrink",
			style.HoverFloat:  "float",
			style.HoverSink:   "sink",
			style.HoverRotate: "rotate",
		},
	},
}

// NamingFor returns the naming row of a target. Unknown targets get the
// canonical spelling with Elementor-style suffixes.
func NamingFor(t Target) Naming {
	if n, ok := naming[t]; ok {
		return n
	}
	return naming[TargetElementor]
}

// Key returns the setting key for a breakpoint: key itself on desktop,
// key+suffix elsewhere. It returns "" when the target has no suffix for
// the breakpoint.
func (n Naming) Key(key string, bp component.Breakpoint) string {
	switch bp {
	case component.BreakpointTablet:
		if n.TabletSuffix == "" {
			return ""
		}
		return key + n.TabletSuffix
	case component.BreakpointMobile:
		if n.MobileSuffix == "" {
			return ""
		}
		return key + n.MobileSuffix
	}
	return key
}

// Media returns the media bucket name for a breakpoint, or "".
func (n Naming) Media(bp component.Breakpoint) string {
	switch bp {
	case component.BreakpointTablet:
		return n.TabletMedia
	case component.BreakpointMobile:
		return n.MobileMedia
	}
	return ""
}

// Animation translates an entrance animation. Unknown names fall back to
// the default; a nil animation yields "".
func (n Naming) Animation(a *style.EntranceAnimation) string {
	if a == nil {
		return ""
	}
	return n.AnimationName(a.Type)
}

// AnimationName translates a canonical animation name, falling back to the
// target default.
func (n Naming) AnimationName(canonical string) string {
	if canonical == "" {
		return n.DefaultAnimation
	}
	if n.Animations == nil {
		return canonical
	}
	if v, ok := n.Animations[canonical]; ok {
		return v
	}
	return n.DefaultAnimation
}

// HoverAnimation translates a hover category, or "".
func (n Naming) HoverAnimation(category string) string {
	return n.Hover[category]
}

// Color formats a normalized color for the target.
func (n Naming) Color(c string) string {
	if n.HashColors {
		return c
	}
	return style.StripHash(c)
}

// Breakpoints lists the non-desktop breakpoints in output order.
var Breakpoints = []component.Breakpoint{component.BreakpointTablet, component.BreakpointMobile}
