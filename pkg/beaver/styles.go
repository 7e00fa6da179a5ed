package beaver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

var sideNames = [4]string{"top", "right", "bottom", "left"}

// setSides writes padding or margin per side with a shared unit key:
// padding_top ... padding_unit, or padding_top_medium ... padding_unit_medium
// when suffix is set.
func setSides(s builder.Settings, prop, suffix string, d *style.Dimension) {
	if d == nil {
		return
	}
	for i, v := range d.Sides() {
		s[prop+"_"+sideNames[i]+suffix] = style.FormatNumber(v)
	}
	s[prop+"_unit"+suffix] = firstNonEmpty(d.Unit, "px")
}

// length is a typography length value.
func length(v *style.Size) builder.Settings {
	if v == nil {
		return nil
	}
	return builder.Settings{"length": style.FormatNumber(v.Value), "unit": v.Unit}
}

// color registers a literal color and stores it without '#'.
func (e *Exporter) color(s builder.Settings, key, value string) {
	if c, ok := e.registry.Color(value); ok {
		s.Set(key, e.naming.Color(c.Value))
	}
}

// colorKey is the setting holding a node's text color.
func colorKey(n *Node) string {
	switch n.Module() {
	case "":
		return "text_color"
	case ModButton, ModCallout:
		return "text_color"
	}
	return "color"
}

// globalVar returns the CSS variable of a global color id.
func globalVar(id string) string {
	return "var(--fl-global-" + id + ")"
}

// css appends a rule scoped to the node's class.
func (e *Exporter) css(n *Node, suffix string, decls []string) {
	if len(decls) == 0 {
		return
	}
	e.rule(fmt.Sprintf("%s%s{%s}", nodeClass(n), suffix, strings.Join(decls, ";")))
}

// typography builds the typography object of a module.
func (e *Exporter) typography(t style.Typography) builder.Settings {
	s := builder.Settings{}
	if t.FontFamily != "" {
		if f, ok := e.registry.Font(t.FontFamily); ok {
			s["font_family"] = f.Family
		}
	}
	s.Set("font_weight", t.FontWeight)
	s.Set("font_style", t.FontStyle)
	s.Set("font_size", length(t.FontSize))
	s.Set("line_height", length(t.LineHeight))
	s.Set("letter_spacing", length(t.LetterSpacing))
	s.Set("text_transform", t.TextTransform)
	s.Set("text_decoration", t.TextDecoration)
	s.Set("text_align", t.TextAlign)
	return s
}

var gradientPattern = regexp.MustCompile(`(?i)^(repeating-)?(linear|radial|conic)-gradient\(`)

// background writes row and column backgrounds natively. Modules have no
// background settings (buttons aside), so theirs become layout CSS.
func (e *Exporter) background(n *Node, bg style.Background) {
	s := n.Settings
	switch n.Type {
	case NodeRow, NodeColumn:
		if bg.Color != "" {
			e.color(s, "bg_color", bg.Color)
			if _, ok := s["bg_color"]; ok {
				s["bg_type"] = "color"
			}
		}
		if bg.ImageURL != "" {
			s["bg_type"] = "photo"
			s["bg_image_source"] = "url"
			s["bg_image_url"] = e.mediaURL(bg.ImageURL)
			s.Set("bg_size", bg.Size)
			s.Set("bg_position", bg.Position)
			s.Set("bg_repeat", bg.Repeat)
			s.Set("bg_attachment", bg.Attachment)
		}
		if bg.Gradient != "" && gradientPattern.MatchString(bg.Gradient) {
			e.css(n, "", []string{"background-image:" + bg.Gradient})
		}
	case NodeModule:
		if n.Module() == ModButton {
			e.color(s, "bg_color", bg.Color)
			return
		}
		var decls []string
		if c, ok := e.registry.Color(bg.Color); ok {
			decls = append(decls, "background-color:"+c.Value)
		}
		if bg.ImageURL != "" {
			decls = append(decls, fmt.Sprintf("background-image:url(%s)", e.mediaURL(bg.ImageURL)))
		}
		if bg.Gradient != "" && gradientPattern.MatchString(bg.Gradient) {
			decls = append(decls, "background-image:"+bg.Gradient)
		}
		e.css(n, " .fl-module-content", decls)
	}
}

// border builds the border object shared by rows, columns and most modules.
func (e *Exporter) border(s builder.Settings, a *builder.Analysis) {
	border := builder.Settings{}
	b := a.Border
	if b.Style != "" && b.Style != "none" {
		border["style"] = b.Style
		e.color(border, "color", b.Color)
		if w := b.Width; w != nil {
			width := builder.Settings{}
			for i, v := range w.Sides() {
				width[sideNames[i]] = style.FormatNumber(v)
			}
			border["width"] = width
		}
	}
	radius := b.Radius
	if radius == nil {
		radius = a.Box.BorderRadius
	}
	if radius != nil {
		corners := [4]string{"top_left", "top_right", "bottom_right", "bottom_left"}
		r := builder.Settings{}
		for i, v := range radius.Sides() {
			r[corners[i]] = style.FormatNumber(v)
		}
		border["radius"] = r
	}
	if sh := a.Shadow; sh != nil {
		shadow := builder.Settings{
			"horizontal": style.FormatNumber(sh.Horizontal),
			"vertical":   style.FormatNumber(sh.Vertical),
			"blur":       style.FormatNumber(sh.Blur),
			"spread":     style.FormatNumber(sh.Spread),
		}
		e.color(shadow, "color", sh.Color)
		border["shadow"] = shadow
	}
	s.Set("border", border)
}

// layout writes sizing and alignment. Rows and columns have native
// settings for height and alignment; the rest becomes layout CSS.
func (e *Exporter) layout(n *Node, l style.Layout) {
	s := n.Settings
	var decls []string
	switch n.Type {
	case NodeRow:
		if h := l.MinHeight; h != nil {
			s["full_height"] = "custom"
			s["min_height"] = style.FormatNumber(h.Value)
			s["min_height_unit"] = firstNonEmpty(h.Unit, "px")
		}
		s.Set("content_alignment", alignment(l.AlignItems))
	case NodeColumn:
		if l.IsFlex() && l.Direction == "column" {
			s.Set("content_alignment", alignment(l.JustifyContent))
		}
		if h := l.MinHeight; h != nil {
			s["equal_height"] = "yes"
			decls = append(decls, "min-height:"+h.String())
		}
	case NodeModule:
		if w := l.Width; w != nil && n.Module() == ModPhoto {
			s["width"] = style.FormatNumber(w.Value)
			s["width_unit"] = firstNonEmpty(w.Unit, "px")
		}
	}
	if l.IsFlex() && n.Type != NodeColumn {
		decls = append(decls, "display:flex")
		if l.Direction != "" {
			decls = append(decls, "flex-direction:"+l.Direction)
		}
		if l.Wrap {
			decls = append(decls, "flex-wrap:wrap")
		}
	}
	if (l.IsFlex() || l.IsGrid()) && l.Gap != nil {
		decls = append(decls, "gap:"+l.Gap.String())
	}
	if l.IsGrid() && l.GridColumns > 0 {
		decls = append(decls, fmt.Sprintf("display:grid;grid-template-columns:repeat(%d,1fr)", l.GridColumns))
	}
	for _, kv := range [][2]string{
		{"position", l.Position},
		{"z-index", l.ZIndex},
		{"overflow", l.Overflow},
		{"opacity", l.Opacity},
	} {
		if kv[1] != "" && kv[1] != "static" {
			decls = append(decls, kv[0]+":"+kv[1])
		}
	}
	e.css(n, "", decls)
}

func alignment(v string) string {
	switch v {
	case "center":
		return "center"
	case "flex-start", "start", "top":
		return "top"
	case "flex-end", "end", "bottom":
		return "bottom"
	}
	return ""
}

// decorate writes every style-derived setting of a node.
func (e *Exporter) decorate(n *Node, a *builder.Analysis) {
	s := n.Settings
	if n.Type == NodeModule {
		s.Set("typography", e.typography(a.Typography))
	} else if a.Typography.FontFamily != "" || a.Typography.FontSize != nil {
		e.css(n, "", fontDecls(a.Typography))
	}
	e.color(s, colorKey(n), a.Typography.Color)
	e.background(n, a.Background)
	setSides(s, "padding", "", a.Box.Padding)
	setSides(s, "margin", "", a.Box.Margin)
	e.border(s, a)
	e.layout(n, a.Layout)

	e.responsive(n, a)
	e.hover(n, a)
	e.animation(s, a)
	e.motion(n, a)
	e.linkTokens(n, a)

	s.Set("id", a.Node.ID)
	if a.Node.ClassName != "" {
		addClass(n, a.Node.ClassName)
	}
}

func fontDecls(t style.Typography) []string {
	var decls []string
	if f := style.PrimaryFont(t.FontFamily); f != "" {
		decls = append(decls, fmt.Sprintf("font-family:%q", f))
	}
	if t.FontSize != nil {
		decls = append(decls, "font-size:"+t.FontSize.String())
	}
	return decls
}

// responsive writes per-device overrides under suffixed keys and the
// visibility setting.
func (e *Exporter) responsive(n *Node, a *builder.Analysis) {
	r := a.Responsive
	if r == nil {
		return
	}
	s := n.Settings
	for _, bp := range builder.Breakpoints {
		d := r.Device(bp)
		if d == nil {
			continue
		}
		suffix := e.naming.Key("", bp)
		st := d.AsStyles()
		box := style.BoxModelFromStyles(st)
		setSides(s, "padding", suffix, box.Padding)
		setSides(s, "margin", suffix, box.Margin)
		t := style.TypographyFromStyles(st)
		if n.Type == NodeModule {
			typo := builder.Settings{}
			typo.Set("font_size", length(t.FontSize))
			typo.Set("line_height", length(t.LineHeight))
			typo.Set("letter_spacing", length(t.LetterSpacing))
			typo.Set("text_align", t.TextAlign)
			s.Set("typography"+suffix, typo)
		}
		if n.Type == NodeColumn {
			if w := style.ParseSizePtr(st.Get("width")); w != nil && w.Unit == "%" {
				s["size"+suffix] = w.Value
			}
		}
	}

	var visible []string
	if !r.HideDesktop {
		visible = append(visible, "desktop")
	}
	if !r.Hidden(component.BreakpointTablet) {
		visible = append(visible, "medium")
	}
	if !r.Hidden(component.BreakpointMobile) {
		visible = append(visible, "mobile")
	}
	if len(visible) < 3 {
		s["responsive_display"] = strings.Join(visible, ",")
		if len(visible) == 0 {
			e.log.Debug("node hidden on every device", "path", a.Path, "node", n.ID)
		}
	}
}

var hoverTransforms = map[string]string{
	style.HoverGrow:   "scale(1.05)",
	style.HoverShrink: "scale(0.95)",
	style.HoverFloat:  "translateY(-8px)",
	style.HoverSink:   "translateY(8px)",
	style.HoverRotate: "rotate(4deg)",
}

// hover writes button hover colors natively; every other hover state
// becomes a :hover rule on the node class.
func (e *Exporter) hover(n *Node, a *builder.Analysis) {
	h := a.Hover
	if h == nil {
		return
	}
	if n.Module() == ModButton {
		e.color(n.Settings, "bg_hover_color", h.BackgroundColor())
		e.color(n.Settings, "text_hover_color", h.Color())
		n.Settings["button_transition"] = "enable"
	} else {
		var decls []string
		if c, ok := e.registry.Color(h.Color()); ok {
			decls = append(decls, "color:"+c.Value)
		}
		if c, ok := e.registry.Color(h.BackgroundColor()); ok {
			decls = append(decls, "background-color:"+c.Value)
		}
		keys := make([]string, 0, len(h.Styles))
		for k := range h.Styles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch k {
			case "color", "backgroundColor", "background-color", "transform", "transition":
				continue
			}
			decls = append(decls, fmt.Sprintf("%s:%v", component.KebabCase(k), h.Styles[k]))
		}
		e.css(n, ":hover", decls)
	}
	if anim := e.naming.HoverAnimation(h.Animation); anim != "" {
		ms := h.TransitionMs
		if ms <= 0 {
			ms = 300
		}
		e.css(n, "", []string{fmt.Sprintf("transition:transform %dms %s", ms, firstNonEmpty(h.Easing, "ease"))})
		e.css(n, ":hover", []string{"transform:" + hoverTransforms[h.Animation]})
	}
}

// animation writes the entrance animation object. Durations are seconds.
func (e *Exporter) animation(s builder.Settings, a *builder.Analysis) {
	an := a.Animation
	if an == nil {
		return
	}
	anim := builder.Settings{"style": e.naming.Animation(an)}
	if an.DelayMs > 0 {
		anim["delay"] = style.FormatNumber(float64(an.DelayMs) / 1000)
	}
	if an.DurationMs > 0 {
		anim["duration"] = style.FormatNumber(float64(an.DurationMs) / 1000)
	}
	s["animation"] = anim
}

// motion has no native settings: sticky positioning becomes layout CSS
// and scroll effects become marker classes.
func (e *Exporter) motion(n *Node, a *builder.Analysis) {
	m := a.Motion
	if m == nil {
		return
	}
	if st := m.Sticky; st != nil {
		edge := firstNonEmpty(st.Edge, "top")
		e.css(n, "", []string{"position:sticky", fmt.Sprintf("%s:%spx", edge, style.FormatNumber(st.Offset)), "z-index:10"})
	}
	for _, fx := range m.Scroll {
		class := "wpx-motion-" + fx.Type
		addClass(n, class)
		e.rule(fmt.Sprintf(".%s{--wpx-motion-speed:%s}", class, style.FormatNumber(fx.Speed)))
	}
	if len(m.Scroll) > 0 {
		e.log.Debug("scroll effects exported as classes", "path", a.Path, "effects", len(m.Scroll))
	}
}

// linkTokens points color settings written from a design token at the
// global color variable. Fonts keep their family, which the global font
// entry also carries.
func (e *Exporter) linkTokens(n *Node, a *builder.Analysis) {
	if a.Tokens.Empty() {
		return
	}
	s := n.Settings
	for prop, id := range a.Tokens.Colors {
		var target builder.Settings
		var key string
		switch prop {
		case "color":
			target, key = s, colorKey(n)
		case "backgroundColor":
			target, key = s, "bg_color"
		case "borderColor":
			target, _ = s["border"].(builder.Settings)
			key = "color"
		default:
			continue
		}
		if target == nil {
			continue
		}
		if _, written := target[key]; !written {
			continue
		}
		target[key] = globalVar(id)
		e.registry.Use(id)
	}
	if id, ok := a.Tokens.Fonts["fontFamily"]; ok {
		if typo, ok := s["typography"].(builder.Settings); ok && typo["font_family"] != nil {
			e.registry.Use(id)
		}
	}
}
