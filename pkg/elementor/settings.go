package elementor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

func dimension(d *style.Dimension) builder.Settings {
	if d == nil {
		return nil
	}
	return builder.Settings{
		"unit":     d.Unit,
		"top":      style.FormatNumber(d.Top),
		"right":    style.FormatNumber(d.Right),
		"bottom":   style.FormatNumber(d.Bottom),
		"left":     style.FormatNumber(d.Left),
		"isLinked": d.IsLinked,
	}
}

func size(s *style.Size) builder.Settings {
	if s == nil {
		return nil
	}
	return builder.Settings{"unit": s.Unit, "size": s.Value, "sizes": []any{}}
}

// color registers a literal color and stores its normalized value.
func (e *Exporter) color(s builder.Settings, key, value string) {
	if c, ok := e.registry.Color(value); ok {
		s.Set(key, c.Value)
	}
}

// typography writes the typography group under prefix ("typography",
// "title_typography") and the text color under colorKey.
func (e *Exporter) typography(s builder.Settings, t style.Typography, prefix, colorKey string) {
	if t.FontFamily != "" {
		if f, ok := e.registry.Font(t.FontFamily); ok {
			s.Set(prefix+"_font_family", f.Family)
		}
	}
	s.Set(prefix+"_font_size", size(t.FontSize))
	s.Set(prefix+"_font_weight", t.FontWeight)
	s.Set(prefix+"_font_style", t.FontStyle)
	s.Set(prefix+"_line_height", size(t.LineHeight))
	s.Set(prefix+"_letter_spacing", size(t.LetterSpacing))
	s.Set(prefix+"_text_transform", t.TextTransform)
	s.Set(prefix+"_text_decoration", t.TextDecoration)
	for _, k := range []string{"_font_family", "_font_size", "_font_weight", "_line_height", "_letter_spacing"} {
		if _, ok := s[prefix+k]; ok {
			s.Set(prefix+"_typography", "custom")
			break
		}
	}
	if colorKey != "" && t.Color != "" {
		e.color(s, colorKey, t.Color)
	}
}

var (
	gradientColors = regexp.MustCompile(`#[0-9a-fA-F]{3,8}|rgba?\([^)]*\)`)
	gradientAngle  = regexp.MustCompile(`(-?\d+)deg`)
)

// applyBackground writes the background group. prefix is "" for sections
// and columns and "_" for widgets.
func (e *Exporter) applyBackground(s builder.Settings, a *builder.Analysis, prefix string) {
	bg := a.Background
	switch {
	case bg.Gradient != "":
		s.Set(prefix+"background_background", "gradient")
		colors := gradientColors.FindAllString(bg.Gradient, -1)
		if len(colors) > 0 {
			e.color(s, prefix+"background_color", colors[0])
		}
		if len(colors) > 1 {
			e.color(s, prefix+"background_color_b", colors[len(colors)-1])
		}
		if m := gradientAngle.FindStringSubmatch(bg.Gradient); m != nil {
			if sz, ok := style.ParseSizeWithUnit(m[1], "deg"); ok {
				s.Set(prefix+"background_gradient_angle", size(&sz))
			}
		}
		if strings.HasPrefix(bg.Gradient, "radial") {
			s.Set(prefix+"background_gradient_type", "radial")
		}
	case bg.Color != "" || bg.ImageURL != "":
		s.Set(prefix+"background_background", "classic")
		e.color(s, prefix+"background_color", bg.Color)
	}
	if bg.ImageURL != "" {
		s.Set(prefix+"background_image", builder.Settings{"url": bg.ImageURL, "id": ""})
		s.Set(prefix+"background_position", bg.Position)
		s.Set(prefix+"background_size", bg.Size)
		s.Set(prefix+"background_repeat", bg.Repeat)
		s.Set(prefix+"background_attachment", bg.Attachment)
	}
}

// applyBox writes spacing, border and shadow groups.
func (e *Exporter) applyBox(s builder.Settings, a *builder.Analysis, prefix string) {
	s.Set(prefix+"padding", dimension(a.Box.Padding))
	s.Set(prefix+"margin", dimension(a.Box.Margin))

	b := a.Border
	if b.Style != "" && b.Style != "none" {
		s.Set(prefix+"border_border", b.Style)
		s.Set(prefix+"border_width", dimension(b.Width))
		e.color(s, prefix+"border_color", b.Color)
	}
	radius := b.Radius
	if radius == nil {
		radius = a.Box.BorderRadius
	}
	s.Set(prefix+"border_radius", dimension(radius))

	if sh := a.Shadow; sh != nil {
		s.Set(prefix+"box_shadow_box_shadow_type", "yes")
		v := builder.Settings{
			"horizontal": sh.Horizontal,
			"vertical":   sh.Vertical,
			"blur":       sh.Blur,
			"spread":     sh.Spread,
		}
		if c, ok := style.NormalizeColor(sh.Color); ok {
			v["color"] = c
		}
		s.Set(prefix+"box_shadow_box_shadow", v)
		if sh.Inset {
			s.Set(prefix+"box_shadow_box_shadow_position", "inset")
		}
	}

	if l := a.Layout; l.ZIndex != "" {
		s.Set(prefix+"z_index", l.ZIndex)
	}
	if a.Node.ID != "" {
		s.Set("_element_id", a.Node.ID)
	}
	if a.Node.ClassName != "" {
		key := "_css_classes"
		if prefix == "" {
			key = "css_classes"
		}
		s.Set(key, a.Node.ClassName)
	}
}

// responsive writes tablet and mobile overrides with Elementor's device
// suffixes, and the per-device visibility classes.
func (e *Exporter) responsive(s builder.Settings, a *builder.Analysis, prefix, typoPrefix, alignKey string) {
	r := a.Responsive
	if r == nil {
		return
	}
	if r.HideDesktop {
		s.Set("hide_desktop", "hidden-desktop")
	}
	for _, bp := range builder.Breakpoints {
		d := r.Device(bp)
		if d == nil {
			continue
		}
		if d.Hidden {
			s.Set("hide_"+string(bp), "hidden-"+string(bp))
		}
		st := d.AsStyles()
		box := style.BoxModelFromStyles(st)
		s.Set(e.naming.Key(prefix+"padding", bp), dimension(box.Padding))
		s.Set(e.naming.Key(prefix+"margin", bp), dimension(box.Margin))
		t := style.TypographyFromStyles(st)
		if typoPrefix != "" {
			s.Set(e.naming.Key(typoPrefix+"_font_size", bp), size(t.FontSize))
			s.Set(e.naming.Key(typoPrefix+"_line_height", bp), size(t.LineHeight))
			s.Set(e.naming.Key(typoPrefix+"_letter_spacing", bp), size(t.LetterSpacing))
		}
		if alignKey != "" {
			s.Set(e.naming.Key(alignKey, bp), t.TextAlign)
		}
		if w, ok := style.ParseSize(st.Get("width")); ok && w.Unit == "%" && a.Kind == builder.KindColumn {
			s.Set(e.naming.Key("_inline_size", bp), w.Value)
		}
	}
}

// hover writes hover colors, background and animation.
func (e *Exporter) hover(s builder.Settings, a *builder.Analysis, colorKey, bgKey, prefix string) {
	h := a.Hover
	if h == nil {
		return
	}
	if colorKey != "" {
		e.color(s, colorKey, h.Color())
	}
	if bg := h.BackgroundColor(); bg != "" {
		if bgKey != "" {
			e.color(s, bgKey, bg)
		} else {
			s.Set(prefix+"background_hover_background", "classic")
			e.color(s, prefix+"background_hover_color", bg)
		}
	}
	if anim := e.naming.HoverAnimation(h.Animation); anim != "" {
		s.Set("hover_animation", anim)
	}
	if h.TransitionMs > 0 {
		s.Set(prefix+"background_hover_transition", builder.Settings{"unit": "px", "size": float64(h.TransitionMs) / 1000, "sizes": []any{}})
	}
}

// animation writes the entrance animation. Widgets use the underscored
// advanced-tab keys.
func (e *Exporter) animation(s builder.Settings, a *builder.Analysis, widget bool) {
	if a.Animation == nil {
		return
	}
	key := "animation"
	if widget {
		key = "_animation"
	}
	s.Set(key, e.naming.Animation(a.Animation))
	if a.Animation.DelayMs > 0 {
		s.Set(key+"_delay", a.Animation.DelayMs)
	}
	switch d := a.Animation.DurationMs; {
	case d == 0:
	case d >= 1500:
		s.Set("animation_duration", "slow")
	case d <= 800:
		s.Set("animation_duration", "fast")
	}
}

var motionKeys = map[string]string{
	style.MotionVertical:   "translateY",
	style.MotionHorizontal: "translateX",
	style.MotionOpacity:    "opacity",
	style.MotionBlur:       "blur",
	style.MotionScale:      "scale",
	style.MotionRotate:     "rotateZ",
}

// motion writes scrolling effects and sticky positioning.
func (e *Exporter) motion(s builder.Settings, a *builder.Analysis) {
	m := a.Motion
	if m == nil {
		return
	}
	if len(m.Scroll) > 0 {
		s.Set("motion_fx_motion_fx_scrolling", "yes")
	}
	for _, fx := range m.Scroll {
		k, ok := motionKeys[fx.Type]
		if !ok {
			continue
		}
		prefix := "motion_fx_" + k
		s.Set(prefix+"_effect", "yes")
		s.Set(prefix+"_speed", builder.Settings{"unit": "px", "size": fx.Speed, "sizes": []any{}})
		switch fx.Direction {
		case "up", "left", "negative", "out":
			s.Set(prefix+"_direction", "negative")
		case "down", "right", "in":
			s.Set(prefix+"_direction", fx.Direction)
		}
	}
	if m.Sticky != nil {
		s.Set("sticky", m.Sticky.Edge)
		s.Set("sticky_on", []any{"desktop", "tablet", "mobile"})
		if m.Sticky.Offset != 0 {
			s.Set("sticky_offset", m.Sticky.Offset)
		}
	}
}

// linkTokens replaces literal colors and font families with global
// references when the value matches a design token. keys maps the style
// property to the settings key it was written under.
func (e *Exporter) linkTokens(s builder.Settings, a *builder.Analysis, keys map[string]string) {
	if a.Tokens.Empty() {
		return
	}
	globals, _ := s["__globals__"].(builder.Settings)
	if globals == nil {
		globals = builder.Settings{}
	}
	for prop, id := range a.Tokens.Colors {
		key, ok := keys[prop]
		if !ok {
			continue
		}
		delete(s, key)
		globals[key] = "globals/colors?id=" + id
		e.registry.Use(id)
	}
	if id, ok := a.Tokens.Fonts["fontFamily"]; ok {
		if prefix, ok := keys["fontFamily"]; ok {
			delete(s, prefix+"_font_family")
			globals[prefix+"_typography"] = "globals/typography?id=" + id
			e.registry.Use(id)
		}
	}
	s.Set("__globals__", globals)
}

var dynamicTags = map[style.DynamicTag]string{
	style.TagPostTitle:     "post-title",
	style.TagSiteTitle:     "site-title",
	style.TagPostDate:      "post-date",
	style.TagAuthorName:    "author-name",
	style.TagPostExcerpt:   "post-excerpt",
	style.TagFeaturedImage: "post-featured-image",
	style.TagPostURL:       "post-url",
	style.TagACF:           "acf-text",
}

// dynamic binds a setting to an Elementor dynamic tag.
func (e *Exporter) dynamic(s builder.Settings, a *builder.Analysis, key string) {
	d := a.Dynamic
	if d == nil || key == "" {
		return
	}
	name, ok := dynamicTags[d.Tag]
	if !ok {
		return
	}
	params := map[string]string{}
	if d.Field != "" {
		params["key"] = d.Field
	}
	if d.Fallback != "" {
		params["fallback"] = d.Fallback
	}
	raw, _ := json.Marshal(params)
	tag := fmt.Sprintf(`[elementor-tag id="%s" name="%s" settings="%s"]`, e.ids.Next("tag"), name, url.QueryEscape(string(raw)))
	dyn, _ := s["__dynamic__"].(builder.Settings)
	if dyn == nil {
		dyn = builder.Settings{}
	}
	dyn[key] = tag
	s["__dynamic__"] = dyn
}

// sectionSettings builds the settings of a section from its node.
func (e *Exporter) sectionSettings(a *builder.Analysis) builder.Settings {
	s := builder.Settings{}
	l := a.Layout
	if l.MaxWidth != nil && l.MaxWidth.Unit == "px" {
		s.Set("layout", "boxed")
		s.Set("content_width", size(l.MaxWidth))
	} else if l.Width != nil && l.Width.Unit == "%" && l.Width.Value >= 100 {
		s.Set("layout", "full_width")
	}
	if l.MinHeight != nil {
		s.Set("height", "min-height")
		s.Set("custom_height", size(l.MinHeight))
	}
	if l.Gap != nil {
		s.Set("gap", "custom")
		s.Set("gap_columns_custom", size(l.Gap))
	}
	switch l.AlignItems {
	case "center":
		s.Set("content_position", "middle")
	case "flex-end", "end":
		s.Set("content_position", "bottom")
	case "flex-start", "start":
		s.Set("content_position", "top")
	}
	if l.Overflow == "hidden" {
		s.Set("overflow", "hidden")
	}
	if a.Node.Tag() != "" && a.Node.Tag() != "div" && a.Kind == builder.KindSection {
		s.Set("html_tag", a.Node.Tag())
	}
	e.applyBackground(s, a, "")
	e.applyBox(s, a, "")
	if t := a.Typography; t.Color != "" {
		e.color(s, "color_text", t.Color)
	}
	e.responsive(s, a, "", "", "")
	e.hover(s, a, "", "", "")
	e.animation(s, a, false)
	e.motion(s, a)
	e.linkTokens(s, a, map[string]string{
		"color":           "color_text",
		"backgroundColor": "background_color",
		"borderColor":     "border_color",
	})
	return s
}

// columnSettings builds column settings; size is the percentage width.
func (e *Exporter) columnSettings(a *builder.Analysis, size int) builder.Settings {
	s := builder.Settings{}
	s.Set("_column_size", size)
	if w, ok := a.ColumnWidth(); ok {
		s.Set("_inline_size", w)
	}
	switch a.Layout.JustifyContent {
	case "center":
		s.Set("content_position", "center")
	case "flex-end", "end":
		s.Set("content_position", "bottom")
	}
	e.applyBackground(s, a, "")
	e.applyBox(s, a, "")
	e.responsive(s, a, "", "", "")
	e.hover(s, a, "", "", "")
	e.animation(s, a, false)
	e.motion(s, a)
	e.linkTokens(s, a, map[string]string{
		"backgroundColor": "background_color",
		"borderColor":     "border_color",
	})
	return s
}

// isAbsolute reports whether a URL carries a scheme or is protocol-relative.
func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "//") || strings.Contains(u, "://") || strings.HasPrefix(u, "data:")
}

// mediaURL resolves root-relative media URLs against the configured site.
func (e *Exporter) mediaURL(u string) string {
	if u == "" || isAbsolute(u) || e.opts.SiteURL == "" {
		return u
	}
	return strings.TrimRight(e.opts.SiteURL, "/") + "/" + strings.TrimLeft(u, "/")
}

// linkSetting is Elementor's link control value.
func linkSetting(href string, node *component.ComponentInfo) builder.Settings {
	if href == "" {
		return nil
	}
	l := builder.Settings{"url": href, "is_external": "", "nofollow": ""}
	if node != nil {
		if node.Attr("target") == "_blank" {
			l["is_external"] = "on"
		}
		if strings.Contains(node.Attr("rel"), "nofollow") {
			l["nofollow"] = "on"
		}
	}
	return l
}
