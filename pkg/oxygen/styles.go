package oxygen

import (
	"fmt"
	"regexp"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// original returns the desktop style state of a component's options,
// creating it when missing.
func original(o builder.Settings) builder.Settings {
	return state(o, "original")
}

func state(o builder.Settings, name string) builder.Settings {
	if s, ok := o[name].(builder.Settings); ok {
		return s
	}
	s := builder.Settings{}
	o[name] = s
	return s
}

// setSize writes a value and its unit under key and key+"-unit".
func setSize(s builder.Settings, key string, v *style.Size) {
	if v == nil {
		return
	}
	s[key] = style.FormatNumber(v.Value)
	if v.Unit != "" {
		s[key+"-unit"] = v.Unit
	}
}

var sideNames = [4]string{"top", "right", "bottom", "left"}

// setSides writes padding or margin per side.
func setSides(s builder.Settings, prop string, d *style.Dimension) {
	if d == nil {
		return
	}
	for i, v := range d.Sides() {
		key := prop + "-" + sideNames[i]
		s[key] = style.FormatNumber(v)
		s[key+"-unit"] = d.Unit
	}
}

// color registers a literal color and stores its normalized value.
func (e *Exporter) color(s builder.Settings, key, value string) {
	if c, ok := e.registry.Color(value); ok {
		s.Set(key, e.naming.Color(c.Value))
	}
}

// colorRef returns the global color reference of a registered id.
func (e *Exporter) colorRef(id string) string {
	for i, c := range e.registry.Colors() {
		if c.ID == id {
			return fmt.Sprintf("color(%d)", i+1)
		}
	}
	return ""
}

// fontRef returns the global font reference of a registered id.
func (e *Exporter) fontRef(id string) []any {
	for _, f := range e.registry.Fonts() {
		if f.ID == id {
			return []any{"global", f.Title}
		}
	}
	return nil
}

func (e *Exporter) typography(s builder.Settings, t style.Typography) {
	if t.FontFamily != "" {
		if f, ok := e.registry.Font(t.FontFamily); ok {
			s.Set("font-family", f.Family)
		}
	}
	setSize(s, "font-size", t.FontSize)
	s.Set("font-weight", t.FontWeight)
	s.Set("font-style", t.FontStyle)
	setSize(s, "line-height", t.LineHeight)
	setSize(s, "letter-spacing", t.LetterSpacing)
	s.Set("text-transform", t.TextTransform)
	s.Set("text-decoration", t.TextDecoration)
	s.Set("text-align", t.TextAlign)
	e.color(s, "color", t.Color)
}

var gradientPattern = regexp.MustCompile(`(?i)^(repeating-)?(linear|radial|conic)-gradient\(`)

func (e *Exporter) background(s builder.Settings, bg style.Background) {
	e.color(s, "background-color", bg.Color)
	if bg.ImageURL != "" {
		s.Set("background-image", e.mediaURL(bg.ImageURL))
		s.Set("background-size", bg.Size)
		s.Set("background-position", bg.Position)
		s.Set("background-repeat", bg.Repeat)
		s.Set("background-attachment", bg.Attachment)
	}
	if bg.Gradient != "" && gradientPattern.MatchString(bg.Gradient) {
		s.Set("custom-css", "background-image:"+bg.Gradient+";")
	}
}

func (e *Exporter) box(s builder.Settings, a *builder.Analysis) {
	setSides(s, "padding", a.Box.Padding)
	setSides(s, "margin", a.Box.Margin)

	b := a.Border
	if b.Style != "" && b.Style != "none" {
		s.Set("border-all-style", b.Style)
		if b.Width != nil {
			setSize(s, "border-all-width", &style.Size{Value: b.Width.Top, Unit: b.Width.Unit})
		}
		e.color(s, "border-all-color", b.Color)
	}
	radius := b.Radius
	if radius == nil {
		radius = a.Box.BorderRadius
	}
	if radius != nil {
		if radius.Uniform() {
			setSize(s, "border-radius", &style.Size{Value: radius.Top, Unit: radius.Unit})
		} else {
			corners := [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}
			for i, v := range radius.Sides() {
				setSize(s, "border-"+corners[i]+"-radius", &style.Size{Value: v, Unit: radius.Unit})
			}
		}
	}

	if sh := a.Shadow; sh != nil {
		s["box-shadow-horizontal-offset"] = style.FormatNumber(sh.Horizontal)
		s["box-shadow-vertical-offset"] = style.FormatNumber(sh.Vertical)
		s["box-shadow-blur"] = style.FormatNumber(sh.Blur)
		s["box-shadow-spread"] = style.FormatNumber(sh.Spread)
		e.color(s, "box-shadow-color", sh.Color)
		if sh.Inset {
			s["box-shadow-inset"] = "inset"
		}
	}
}

func layout(s builder.Settings, l style.Layout) {
	s.Set("display", l.Display)
	if l.IsFlex() {
		s.Set("flex-direction", l.Direction)
		s.Set("justify-content", l.JustifyContent)
		s.Set("align-items", l.AlignItems)
		if l.Wrap {
			s["flex-wrap"] = "wrap"
		}
	}
	if l.IsGrid() && l.GridColumns > 0 {
		s["grid-column-count"] = fmt.Sprint(l.GridColumns)
	}
	if l.IsFlex() || l.IsGrid() {
		setSize(s, "gap", l.Gap)
	}
	setSize(s, "width", l.Width)
	setSize(s, "max-width", l.MaxWidth)
	setSize(s, "min-height", l.MinHeight)
	s.Set("position", l.Position)
	s.Set("z-index", l.ZIndex)
	s.Set("overflow", l.Overflow)
	s.Set("opacity", l.Opacity)
}

// decorate writes every style-derived option of a component: the desktop
// state, media buckets, hover state, entrance animation, motion, classes
// and token references.
func (e *Exporter) decorate(c *Component, a *builder.Analysis) {
	o := c.Options
	orig := original(o)
	e.typography(orig, a.Typography)
	e.background(orig, a.Background)
	e.box(orig, a)
	layout(orig, a.Layout)

	e.responsive(o, a)
	e.hover(c, a)
	e.animation(orig, a)
	e.motion(c, a)
	e.linkTokens(o, a)

	if a.Node.ID != "" {
		o.Set("selector", a.Node.ID)
	}
	if a.Node.ClassName != "" {
		e.addClass(c, a.Node.ClassName)
	}
}

// deviceStyles translates a breakpoint override into an Oxygen state.
func (e *Exporter) deviceStyles(st component.Styles) builder.Settings {
	s := builder.Settings{}
	box := style.BoxModelFromStyles(st)
	setSides(s, "padding", box.Padding)
	setSides(s, "margin", box.Margin)
	t := style.TypographyFromStyles(st)
	setSize(s, "font-size", t.FontSize)
	setSize(s, "line-height", t.LineHeight)
	setSize(s, "letter-spacing", t.LetterSpacing)
	s.Set("text-align", t.TextAlign)
	e.color(s, "color", t.Color)
	setSize(s, "width", style.ParseSizePtr(st.Get("width")))
	s.Set("flex-direction", st.Get("flexDirection"))
	s.Set("display", st.Get("display"))
	return s
}

// responsive nests tablet and phone overrides in media buckets. Hidden
// breakpoints get display:none.
func (e *Exporter) responsive(o builder.Settings, a *builder.Analysis) {
	r := a.Responsive
	if r == nil {
		return
	}
	media := builder.Settings{}
	visible := a.Layout.Display
	if visible == "" || visible == "none" {
		visible = "block"
	}
	for _, bp := range builder.Breakpoints {
		name := e.naming.Media(bp)
		d := r.Device(bp)
		var s builder.Settings
		if d != nil {
			s = e.deviceStyles(d.AsStyles())
		} else {
			s = builder.Settings{}
		}
		if r.Hidden(bp) {
			s["display"] = "none"
		} else if r.HideDesktop {
			s.SetIfEmpty("display", visible)
		}
		if len(s) > 0 {
			media[name] = builder.Settings{"original": s}
		}
	}
	if r.HideDesktop {
		original(o)["display"] = "none"
	}
	o.Set("media", media)
}

var hoverTransforms = map[string]string{
	style.HoverGrow:   "scale(1.05)",
	style.HoverShrink: "scale(0.95)",
	style.HoverFloat:  "translateY(-8px)",
	style.HoverSink:   "translateY(8px)",
	style.HoverRotate: "rotate(4deg)",
}

// hover writes the hover state. Hover animations have no option, so they
// become a registered class with a stylesheet rule.
func (e *Exporter) hover(c *Component, a *builder.Analysis) {
	h := a.Hover
	if h == nil {
		return
	}
	hs := builder.Settings{}
	e.color(hs, "color", h.Color())
	e.color(hs, "background-color", h.BackgroundColor())
	for k, v := range h.Styles {
		switch k {
		case "color", "backgroundColor", "background-color", "transform", "transition":
			continue
		}
		hs.Set(component.KebabCase(k), v)
	}
	if len(hs) > 0 {
		c.Options["hover"] = hs
	}
	orig := original(c.Options)
	if h.TransitionMs > 0 {
		orig["transition-duration"] = fmt.Sprint(h.TransitionMs)
		orig["transition-duration-unit"] = "ms"
		orig.Set("transition-timing-function", h.Easing)
	}
	if anim := e.naming.HoverAnimation(h.Animation); anim != "" {
		class := "hover-" + anim
		e.addClass(c, class)
		e.rule(fmt.Sprintf(".%s{transition:transform .3s}.%s:hover{transform:%s}", class, class, hoverTransforms[h.Animation]))
	}
}

// animation enables Oxygen's scroll-reveal (AOS) settings.
func (e *Exporter) animation(s builder.Settings, a *builder.Analysis) {
	an := a.Animation
	if an == nil {
		return
	}
	s["aos-enable"] = "true"
	s["aos-type"] = e.naming.Animation(an)
	if an.DurationMs > 0 {
		s["aos-duration"] = fmt.Sprint(an.DurationMs)
	}
	if an.DelayMs > 0 {
		s["aos-delay"] = fmt.Sprint(an.DelayMs)
	}
	s.Set("aos-easing", an.Easing)
}

// motion writes sticky positioning natively. Scroll effects have no
// native equivalent and become marker classes.
func (e *Exporter) motion(c *Component, a *builder.Analysis) {
	m := a.Motion
	if m == nil {
		return
	}
	orig := original(c.Options)
	if st := m.Sticky; st != nil {
		edge := firstNonEmpty(st.Edge, "top")
		orig["position"] = "sticky"
		orig[edge] = style.FormatNumber(st.Offset)
		orig[edge+"-unit"] = "px"
	}
	for _, fx := range m.Scroll {
		class := "wpx-motion-" + fx.Type
		e.addClass(c, class)
		e.rule(fmt.Sprintf(".%s{--wpx-motion-speed:%s}", class, style.FormatNumber(fx.Speed)))
	}
	if len(m.Scroll) > 0 {
		e.log.Debug("scroll effects exported as classes", "path", a.Path, "effects", len(m.Scroll))
	}
}

var tokenKeys = map[string]string{
	"color":           "color",
	"backgroundColor": "background-color",
	"borderColor":     "border-all-color",
}

// linkTokens replaces literal colors and fonts with global references when
// the value matches a design token.
func (e *Exporter) linkTokens(o builder.Settings, a *builder.Analysis) {
	if a.Tokens.Empty() {
		return
	}
	orig := original(o)
	for prop, id := range a.Tokens.Colors {
		key, ok := tokenKeys[prop]
		if !ok {
			continue
		}
		if _, written := orig[key]; !written {
			continue
		}
		if ref := e.colorRef(id); ref != "" {
			orig[key] = ref
			e.registry.Use(id)
		}
	}
	if id, ok := a.Tokens.Fonts["fontFamily"]; ok {
		if ref := e.fontRef(id); ref != nil {
			orig["font-family"] = ref
			e.registry.Use(id)
		}
	}
}
