// Package component defines the builder-agnostic component tree every exporter
// consumes, together with the analysis inputs (palette, typography, component
// library, template parts) that travel with a page.
package component

// Breakpoint names a responsive bucket of styles.
type Breakpoint string

const (
	BreakpointDesktop Breakpoint = "desktop"
	BreakpointTablet  Breakpoint = "tablet"
	BreakpointMobile  Breakpoint = "mobile"
)

// State names an interactive-state bucket of styles.
type State string

const (
	StateHover  State = "hover"
	StateFocus  State = "focus"
	StateActive State = "active"
)

// ComponentInfo is one node of the component tree.
//
// A node exclusively owns its children. The tree carries no parent pointers
// and no node may appear under more than one parent.
type ComponentInfo struct {
	// ComponentType is a semantic classification ("heading", "button",
	// "gallery", "card"), not the raw HTML tag.
	ComponentType string `json:"componentType"`

	TagName     string            `json:"tagName"`
	ClassName   string            `json:"className,omitempty"`
	ID          string            `json:"id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	TextContent string            `json:"textContent,omitempty"`
	InnerHTML   string            `json:"innerHTML,omitempty"`

	// Styles holds computed desktop styles. Values are usually CSS strings
	// but may be numbers or nested objects (box-shadow parts, explicit
	// {top,right,bottom,left} spacing).
	Styles Styles `json:"styles,omitempty"`

	// Responsive holds styles already split per breakpoint upstream.
	Responsive map[Breakpoint]Styles `json:"responsiveStyles,omitempty"`

	// States holds style buckets for interactive states (hover, focus).
	States map[State]Styles `json:"interactiveStates,omitempty"`

	Behavior *Behavior `json:"behavior,omitempty"`

	Children []*ComponentInfo `json:"children,omitempty"`
}

// Behavior describes runtime behaviour observed on an element.
type Behavior struct {
	HasAnimations bool           `json:"hasAnimations"`
	Animations    []Animation    `json:"animations,omitempty"`
	ScrollEffects []ScrollEffect `json:"scrollEffects,omitempty"`
}

// Animation is a named CSS animation observed on an element.
type Animation struct {
	Name           string `json:"name"`
	Duration       string `json:"duration,omitempty"`
	Delay          string `json:"delay,omitempty"`
	TimingFunction string `json:"timingFunction,omitempty"`
	IterationCount string `json:"iterationCount,omitempty"`
}

// ScrollEffect is a scroll-linked effect such as parallax translation.
type ScrollEffect struct {
	Type      string  `json:"type"`
	Direction string  `json:"direction,omitempty"`
	Speed     float64 `json:"speed,omitempty"`
}
