package gutenberg

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// supports mirrors the block-supports a block type declares.
type supports uint8

const (
	supportColor supports = 1 << iota
	supportTypography
	supportSpacing
	supportBorder
	supportLayout
	supportAlign

	supportText  = supportColor | supportTypography | supportSpacing | supportAlign
	supportGroup = supportColor | supportTypography | supportSpacing | supportBorder | supportLayout
	supportMedia = supportSpacing | supportBorder
)

// breakpointMedia are the media queries of WordPress's stock breakpoints.
var breakpointMedia = map[component.Breakpoint]string{
	component.BreakpointTablet: "(max-width: 1024px)",
	component.BreakpointMobile: "(max-width: 767px)",
}

func sizeCSS(s *style.Size) string {
	if s == nil {
		return ""
	}
	return s.String()
}

func sides(d *style.Dimension) builder.Settings {
	if d == nil {
		return nil
	}
	f := func(v float64) string { return style.FormatNumber(v) + d.Unit }
	return builder.Settings{"top": f(d.Top), "right": f(d.Right), "bottom": f(d.Bottom), "left": f(d.Left)}
}

func radius(d *style.Dimension) any {
	if d == nil {
		return nil
	}
	if d.Uniform() {
		return style.FormatNumber(d.Top) + d.Unit
	}
	f := func(v float64) string { return style.FormatNumber(v) + d.Unit }
	return builder.Settings{"topLeft": f(d.Top), "topRight": f(d.Right), "bottomRight": f(d.Bottom), "bottomLeft": f(d.Left)}
}

// color registers a literal color and stores its normalized value.
func (e *Exporter) color(s builder.Settings, key, value string) {
	if value == "" {
		return
	}
	if c, ok := e.registry.Color(value); ok {
		s.Set(key, c.Value)
	}
}

// applyStyle writes the style attribute from the node's styles, then the
// cross-cutting effects, then replaces literals with preset references
// where the value matches a design token.
func (e *Exporter) applyStyle(attrs builder.Settings, a *builder.Analysis, sup supports) {
	t := a.Typography
	color := builder.Settings{}
	typo := builder.Settings{}
	spacing := builder.Settings{}
	border := builder.Settings{}
	st := builder.Settings{}

	if sup&supportColor != 0 {
		e.color(color, "text", t.Color)
		if a.Background.Gradient != "" {
			color.Set("gradient", a.Background.Gradient)
		} else {
			e.color(color, "background", a.Background.Color)
		}
	}
	if sup&supportTypography != 0 {
		if t.FontFamily != "" {
			if f, ok := e.registry.Font(t.FontFamily); ok {
				typo.Set("fontFamily", f.Family)
			}
		}
		typo.Set("fontSize", sizeCSS(t.FontSize))
		typo.Set("fontWeight", t.FontWeight)
		typo.Set("fontStyle", t.FontStyle)
		typo.Set("lineHeight", sizeCSS(t.LineHeight))
		typo.Set("letterSpacing", sizeCSS(t.LetterSpacing))
		typo.Set("textTransform", t.TextTransform)
		typo.Set("textDecoration", t.TextDecoration)
	}
	if sup&supportAlign != 0 {
		attrs.Set("textAlign", t.TextAlign)
	}
	if sup&supportSpacing != 0 {
		spacing.Set("padding", sides(a.Box.Padding))
		spacing.Set("margin", sides(a.Box.Margin))
	}
	if sup&supportLayout != 0 {
		spacing.Set("blockGap", sizeCSS(a.Layout.Gap))
		if a.Layout.MinHeight != nil {
			st.Set("dimensions", builder.Settings{"minHeight": a.Layout.MinHeight.String()})
		}
	}
	if sup&supportBorder != 0 {
		b := a.Border
		if b.Style != "" && b.Style != "none" {
			border.Set("style", b.Style)
			if b.Width != nil {
				border.Set("width", style.FormatNumber(b.Width.Top)+b.Width.Unit)
			}
			e.color(border, "color", b.Color)
		}
		r := b.Radius
		if r == nil {
			r = a.Box.BorderRadius
		}
		border.Set("radius", radius(r))
		if a.Shadow != nil {
			st.Set("shadow", a.Shadow.CSS())
		}
	}

	e.effects(attrs, a, st)
	e.linkTokens(attrs, a, color, typo, border)

	st.Set("color", color)
	st.Set("typography", typo)
	st.Set("spacing", spacing)
	st.Set("border", border)
	attrs.Set("style", st)

	if a.Node.ID != "" {
		attrs.Set("anchor", a.Node.ID)
	}
}

// linkTokens swaps literal style values for preset slugs.
func (e *Exporter) linkTokens(attrs builder.Settings, a *builder.Analysis, color, typo, border builder.Settings) {
	if a.Tokens.Empty() {
		return
	}
	swap := func(from builder.Settings, key, attr, id string) {
		if _, ok := from[key]; !ok {
			return
		}
		delete(from, key)
		attrs.Set(attr, id)
		e.registry.Use(id)
	}
	for prop, id := range a.Tokens.Colors {
		switch prop {
		case "color":
			swap(color, "text", "textColor", id)
		case "backgroundColor":
			swap(color, "background", "backgroundColor", id)
		case "borderColor":
			swap(border, "color", "borderColor", id)
		}
	}
	if id, ok := a.Tokens.Fonts["fontFamily"]; ok {
		swap(typo, "fontFamily", "fontFamily", id)
	}
	if id, ok := a.Tokens.Sizes["fontSize"]; ok {
		if _, set := typo["fontSize"]; set {
			delete(typo, "fontSize")
			attrs.Set("fontSize", id)
		}
	}
}

// effects translates responsive overrides, hover, entrance animation and
// motion. Block attributes cannot hold them, so they become classes and
// rules in the global stylesheet scoped to a generated class.
func (e *Exporter) effects(attrs builder.Settings, a *builder.Analysis, st builder.Settings) {
	var classes []string
	scope := ""
	scoped := func() string {
		if scope == "" {
			scope = "wpx-" + e.ids.Next(a.Path)
			classes = append(classes, scope)
		}
		return scope
	}

	if r := a.Responsive; r != nil {
		for _, bp := range builder.Breakpoints {
			d := r.Device(bp)
			if d == nil {
				continue
			}
			if d.Hidden {
				classes = append(classes, "hide-on-"+string(bp))
			}
			if decls := declarations(d.Styles); decls != "" {
				e.rule(fmt.Sprintf("@media %s{.%s{%s}}", breakpointMedia[bp], scoped(), decls))
			}
		}
		if r.HideDesktop {
			classes = append(classes, "hide-on-desktop")
		}
	}

	if h := a.Hover; h != nil {
		if anim := e.naming.HoverAnimation(h.Animation); anim != "" {
			classes = append(classes, anim)
		}
		hover := map[string]string{}
		for k, v := range h.Styles {
			if k == "transform" && h.Animation != "" {
				continue
			}
			hover[k] = v
		}
		if c := h.Color(); c != "" {
			if rc, ok := e.registry.Color(c); ok {
				hover["color"] = rc.Value
			}
		}
		if c := h.BackgroundColor(); c != "" {
			if rc, ok := e.registry.Color(c); ok {
				hover["backgroundColor"] = rc.Value
			}
		}
		if decls := declarations(hover); decls != "" {
			e.rule(fmt.Sprintf(".%s:hover{%s}", scoped(), decls))
		}
		if h.TransitionMs > 0 {
			e.rule(fmt.Sprintf(".%s{transition:all %dms}", scoped(), h.TransitionMs))
		}
	}

	if an := a.Animation; an != nil {
		classes = append(classes, "animate__animated", "animate__"+e.naming.Animation(an))
		var decls []string
		if an.DurationMs > 0 {
			decls = append(decls, fmt.Sprintf("animation-duration:%dms", an.DurationMs))
		}
		if an.DelayMs > 0 {
			decls = append(decls, fmt.Sprintf("animation-delay:%dms", an.DelayMs))
		}
		if an.Easing != "" {
			decls = append(decls, "animation-timing-function:"+an.Easing)
		}
		if len(decls) > 0 {
			e.rule(fmt.Sprintf(".%s{%s}", scoped(), strings.Join(decls, ";")))
		}
	}

	if m := a.Motion; m != nil {
		if len(m.Scroll) > 0 {
			classes = append(classes, "has-parallax")
		}
		if m.Sticky != nil {
			pos := builder.Settings{"type": "sticky"}
			edge := m.Sticky.Edge
			if edge == "" {
				edge = "top"
			}
			pos[edge] = style.FormatNumber(m.Sticky.Offset) + "px"
			st.Set("position", pos)
		}
	}

	if a.Node.ClassName != "" {
		classes = append(classes, a.Node.ClassName)
	}
	addClass(attrs, classes...)
}

func (e *Exporter) rule(css string) {
	e.css = append(e.css, css)
}

func addClass(attrs builder.Settings, classes ...string) {
	var all []string
	if existing, _ := attrs["className"].(string); existing != "" {
		all = append(all, existing)
	}
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			all = append(all, c)
		}
	}
	attrs.Set("className", strings.Join(all, " "))
}

// declarations renders camelCase style properties as sorted CSS.
func declarations(styles map[string]string) string {
	keys := make([]string, 0, len(styles))
	for k, v := range styles {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, component.KebabCase(k)+":"+styles[k])
	}
	return strings.Join(parts, ";")
}

// decorate derives the class and style attributes WordPress writes into a
// block's saved markup from its attributes.
func decorate(base string, attrs builder.Settings) (classes []string, css string) {
	if base != "" {
		classes = append(classes, base)
	}
	str := func(m map[string]any, k string) string {
		s, _ := m[k].(string)
		return s
	}
	if v := str(attrs, "align"); v == "wide" || v == "full" {
		classes = append(classes, "align"+v)
	}
	if v := str(attrs, "textAlign"); v != "" {
		classes = append(classes, "has-text-align-"+v)
	}

	st := builder.AsMap(attrs["style"])
	color := builder.AsMap(st["color"])
	typo := builder.AsMap(st["typography"])
	spacing := builder.AsMap(st["spacing"])
	border := builder.AsMap(st["border"])
	var decls []string

	if slug := str(attrs, "textColor"); slug != "" {
		classes = append(classes, "has-"+slug+"-color", "has-text-color")
	} else if v := str(color, "text"); v != "" {
		classes = append(classes, "has-text-color")
		decls = append(decls, "color:"+v)
	}
	if slug := str(attrs, "backgroundColor"); slug != "" {
		classes = append(classes, "has-"+slug+"-background-color", "has-background")
	} else if v := str(color, "gradient"); v != "" {
		classes = append(classes, "has-background")
		decls = append(decls, "background:"+v)
	} else if v := str(color, "background"); v != "" {
		classes = append(classes, "has-background")
		decls = append(decls, "background-color:"+v)
	}
	if slug := str(attrs, "borderColor"); slug != "" {
		classes = append(classes, "has-"+slug+"-border-color", "has-border-color")
	} else if v := str(border, "color"); v != "" {
		classes = append(classes, "has-border-color")
		decls = append(decls, "border-color:"+v)
	}
	if slug := str(attrs, "fontSize"); slug != "" {
		classes = append(classes, "has-"+slug+"-font-size")
	}
	if slug := str(attrs, "fontFamily"); slug != "" {
		classes = append(classes, "has-"+slug+"-font-family")
	}

	for _, k := range []string{"width", "style"} {
		if v := str(border, k); v != "" {
			decls = append(decls, "border-"+k+":"+v)
		}
	}
	switch r := border["radius"].(type) {
	case string:
		decls = append(decls, "border-radius:"+r)
	case builder.Settings:
		for _, k := range []string{"topLeft", "topRight", "bottomRight", "bottomLeft"} {
			if v := str(r, k); v != "" {
				decls = append(decls, "border-"+component.KebabCase(k)+"-radius:"+v)
			}
		}
	}
	for _, group := range []string{"padding", "margin"} {
		box := builder.AsMap(spacing[group])
		for _, side := range []string{"top", "right", "bottom", "left"} {
			if v := str(box, side); v != "" {
				decls = append(decls, group+"-"+side+":"+v)
			}
		}
	}
	for _, k := range []string{"fontFamily", "fontSize", "fontStyle", "fontWeight", "letterSpacing", "lineHeight", "textDecoration", "textTransform"} {
		if v := str(typo, k); v != "" {
			decls = append(decls, component.KebabCase(k)+":"+v)
		}
	}
	if dims := builder.AsMap(st["dimensions"]); dims != nil {
		if v := str(dims, "minHeight"); v != "" {
			decls = append(decls, "min-height:"+v)
		}
	}
	if v := str(st, "shadow"); v != "" {
		decls = append(decls, "box-shadow:"+v)
	}

	if v := str(attrs, "className"); v != "" {
		classes = append(classes, v)
	}
	return classes, strings.Join(decls, ";")
}

// htmlAttrs renders the class and style attributes of a markup element.
func htmlAttrs(classes []string, css string) string {
	var b strings.Builder
	if len(classes) > 0 {
		b.WriteString(` class="` + html.EscapeString(strings.Join(classes, " ")) + `"`)
	}
	if css != "" {
		b.WriteString(` style="` + html.EscapeString(css) + `"`)
	}
	return b.String()
}

// anchorAttr renders the id attribute of an anchored block.
func anchorAttr(attrs builder.Settings) string {
	if id, _ := attrs["anchor"].(string); id != "" {
		return ` id="` + html.EscapeString(id) + `"`
	}
	return ""
}
