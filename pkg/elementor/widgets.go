package elementor

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/widgets"
)

// Widget types.
const (
	WidgetHeading       = "heading"
	WidgetText          = "text-editor"
	WidgetButton        = "button"
	WidgetImage         = "image"
	WidgetVideo         = "video"
	WidgetAudio         = "audio"
	WidgetMap           = "google_maps"
	WidgetHTML          = "html"
	WidgetIcon          = "icon"
	WidgetIconList      = "icon-list"
	WidgetNavMenu       = "nav-menu"
	WidgetForm          = "form"
	WidgetQuote         = "blockquote"
	WidgetDivider       = "divider"
	WidgetSpacer        = "spacer"
	WidgetGallery       = "image-gallery"
	WidgetImageCarousel = "image-carousel"
	WidgetSlides        = "slides"
	WidgetTestimonial   = "testimonial"
	WidgetPriceTable    = "price-table"
)

var natives = builder.NativeTable{
	Natives: map[builder.Kind]string{
		builder.KindHeading: WidgetHeading,
		builder.KindText:    WidgetText,
		builder.KindButton:  WidgetButton,
		builder.KindLink:    WidgetText,
		builder.KindImage:   WidgetImage,
		builder.KindVideo:   WidgetVideo,
		builder.KindAudio:   WidgetAudio,
		builder.KindMap:     WidgetMap,
		builder.KindEmbed:   WidgetHTML,
		builder.KindIcon:    WidgetIcon,
		builder.KindList:    WidgetText,
		builder.KindNav:     WidgetNavMenu,
		builder.KindForm:    WidgetForm,
		builder.KindQuote:   WidgetQuote,
		builder.KindCode:    WidgetHTML,
		builder.KindTable:   WidgetHTML,
		builder.KindDivider: WidgetDivider,
		builder.KindSpacer:  WidgetSpacer,
		builder.KindHTML:    WidgetHTML,
	},
	Types: map[string]string{
		"cta":       WidgetButton,
		"separator": WidgetDivider,
		"menu":      WidgetNavMenu,
	},
	Fallback: WidgetText,
}

// colorKeys maps style properties to the settings key each widget writes
// them under, for token linking.
func colorKeys(widget string) map[string]string {
	keys := map[string]string{
		"backgroundColor": "_background_color",
		"borderColor":     "_border_color",
		"fontFamily":      "typography",
	}
	switch widget {
	case WidgetHeading:
		keys["color"] = "title_color"
	case WidgetButton:
		keys["color"] = "button_text_color"
		keys["backgroundColor"] = "background_color"
	case WidgetIcon:
		keys["color"] = "primary_color"
	default:
		keys["color"] = "text_color"
	}
	return keys
}

// widget converts a node placed as a single widget. A detected specialized
// widget takes precedence over the generic mapping.
func (e *Exporter) widget(a *builder.Analysis) *Element {
	el := e.newElement(ElWidget, a.Trace())
	if a.Widget != nil {
		el.WidgetType, el.Settings = e.specialized(a)
		e.advanced(el.Settings, a, el.WidgetType)
		return el
	}
	name, fallback := natives.Resolve(a.Node, a.Kind)
	if fallback {
		e.log.Debug("no native widget, using fallback", "path", a.Path, "kind", a.Kind, "widget", name)
	}
	el.WidgetType = name
	el.Settings = e.widgetSettings(name, a)
	e.advanced(el.Settings, a, name)
	e.linkTokens(el.Settings, a, colorKeys(name))
	return el
}

// advanced writes the advanced-tab groups every widget shares.
func (e *Exporter) advanced(s builder.Settings, a *builder.Analysis, widget string) {
	if widget != WidgetButton {
		e.applyBackground(s, a, "_")
	}
	e.applyBox(s, a, "_")
	typoPrefix, alignKey := "typography", "align"
	switch widget {
	case WidgetDivider, WidgetSpacer, WidgetGallery, WidgetImageCarousel, WidgetHTML:
		typoPrefix, alignKey = "", ""
	}
	e.responsive(s, a, "_", typoPrefix, alignKey)
	colorKey, bgKey := "", ""
	switch widget {
	case WidgetButton:
		colorKey, bgKey = "hover_color", "button_background_hover_color"
	}
	e.hover(s, a, colorKey, bgKey, "_")
	e.animation(s, a, true)
	e.motion(s, a)
}

// widgetSettings builds the content and style settings of a generic
// widget: type defaults first, then style-derived values.
func (e *Exporter) widgetSettings(name string, a *builder.Analysis) builder.Settings {
	s := builder.Settings{}
	n := a.Node
	switch name {
	case WidgetHeading:
		s.Set("title", a.Text())
		s.Set("header_size", fmt.Sprintf("h%d", a.Heading(2)))
		s.Set("align", a.Typography.TextAlign)
		e.typography(s, a.Typography, "typography", "title_color")
		s.Set("link", linkSetting(a.Link(), n.FindFirst(component.IsTag("a"))))
		e.dynamic(s, a, "title")

	case WidgetText:
		content := a.Content()
		switch a.Kind {
		case builder.KindLink:
			content = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(n.Attr("href")), html.EscapeString(a.Text()))
		case builder.KindList:
			if n.InnerHTML == "" {
				content = listHTML(n.Tag(), a.ListItems())
			} else {
				content = fmt.Sprintf("<%s>%s</%s>", n.Tag(), builder.SanitizeHTML(n.InnerHTML), n.Tag())
			}
		}
		if a.Kind == builder.KindText && n.Tag() == "p" && !strings.HasPrefix(content, "<p") {
			content = "<p>" + content + "</p>"
		}
		s.Set("editor", content)
		s.Set("align", a.Typography.TextAlign)
		e.typography(s, a.Typography, "typography", "text_color")
		e.dynamic(s, a, "editor")

	case WidgetButton:
		s.Set("text", a.Text())
		s.Set("link", linkSetting(a.Link(), n))
		s.Set("align", "center")
		if al := a.Typography.TextAlign; al != "" {
			s.Set("align", al)
		}
		e.typography(s, a.Typography, "typography", "button_text_color")
		e.color(s, "background_color", a.Background.Color)
		if a.Background.Color != "" {
			s.Set("background_background", "classic")
		}
		if a.Dynamic != nil && a.Dynamic.Attribute == "href" {
			e.dynamic(s, a, "link")
		} else {
			e.dynamic(s, a, "text")
		}

	case WidgetImage:
		src, alt := a.Image()
		s.Set("image", builder.Settings{"url": e.mediaURL(src), "id": "", "alt": alt})
		s.Set("image_size", "full")
		s.Set("align", a.Typography.TextAlign)
		if href := a.Link(); href != "" {
			s.Set("link_to", "custom")
			s.Set("link", linkSetting(href, n.FindFirst(component.IsTag("a"))))
		}
		if caption := n.FindFirst(component.IsTag("figcaption")); caption != nil {
			s.Set("caption_source", "custom")
			s.Set("caption", caption.Text())
		}
		if w := a.Layout.Width; w != nil {
			s.Set("width", size(w))
		}
		e.dynamic(s, a, "image")

	case WidgetVideo:
		src := n.Attr("src")
		if src == "" {
			if source := n.FindFirst(component.IsTag("source")); source != nil {
				src = source.Attr("src")
			}
		}
		switch {
		case strings.Contains(src, "youtube") || strings.Contains(src, "youtu.be"):
			s.Set("video_type", "youtube")
			s.Set("youtube_url", src)
		case strings.Contains(src, "vimeo"):
			s.Set("video_type", "vimeo")
			s.Set("vimeo_url", src)
		default:
			s.Set("video_type", "hosted")
			s.Set("hosted_url", builder.Settings{"url": e.mediaURL(src), "id": ""})
		}
		if _, ok := n.Attributes["autoplay"]; ok {
			s.Set("autoplay", "yes")
		}
		if _, ok := n.Attributes["loop"]; ok {
			s.Set("loop", "yes")
		}
		if _, ok := n.Attributes["muted"]; ok {
			s.Set("mute", "yes")
		}

	case WidgetAudio:
		src := n.Attr("src")
		if src == "" {
			if source := n.FindFirst(component.IsTag("source")); source != nil {
				src = source.Attr("src")
			}
		}
		s.Set("link", linkSetting(e.mediaURL(src), nil))

	case WidgetMap:
		src := n.Attr("src")
		address := ""
		if u, err := url.Parse(src); err == nil {
			address = u.Query().Get("q")
		}
		if address == "" {
			address = n.Attr("title")
		}
		s.Set("address", address)
		if h := a.Layout.MinHeight; h != nil {
			s.Set("height", size(h))
		} else if h := style.ParseSizePtr(n.Attr("height")); h != nil {
			s.Set("height", size(h))
		}

	case WidgetHTML:
		s.Set("html", rawHTML(a))

	case WidgetIcon:
		lib, value := iconValue(n)
		s.Set("selected_icon", builder.Settings{"value": value, "library": lib})
		s.Set("link", linkSetting(a.Link(), nil))
		s.Set("align", a.Typography.TextAlign)
		e.color(s, "primary_color", a.Typography.Color)
		s.Set("size", size(a.Typography.FontSize))

	case WidgetNavMenu:
		s.Set("layout", "horizontal")
		if a.Layout.Direction == "column" {
			s.Set("layout", "vertical")
		}
		s.Set("align_items", a.Typography.TextAlign)
		e.typography(s, a.Typography, "menu_typography", "color_menu_item")

	case WidgetForm:
		s.Set("form_name", firstNonEmpty(n.Attr("name"), n.Attr("id"), "Form"))
		s.Set("form_fields", formFields(n, e.ids))
		if btn := n.FindFirst(func(c *component.ComponentInfo) bool {
			return c.Tag() == "button" || (c.Tag() == "input" && c.Attr("type") == "submit")
		}); btn != nil {
			s.Set("button_text", firstNonEmpty(btn.Text(), btn.Attr("value"), "Send"))
		}

	case WidgetQuote:
		content := a.Text()
		author := ""
		if cite := n.FindFirst(component.IsTag("cite", "footer")); cite != nil {
			author = cite.Text()
			if p := n.FindFirst(component.IsTag("p")); p != nil {
				content = p.Text()
			}
		}
		s.Set("blockquote_content", content)
		s.Set("author_name", author)
		e.typography(s, a.Typography, "content_typography", "content_text_color")

	case WidgetDivider:
		st := "solid"
		if a.Border.Style != "" && a.Border.Style != "none" {
			st = a.Border.Style
		}
		s.Set("style", st)
		if c := a.Border.Color; c != "" {
			e.color(s, "color", c)
		} else {
			e.color(s, "color", a.Background.Color)
		}
		if w := a.Border.Width; w != nil {
			s.Set("weight", builder.Settings{"unit": w.Unit, "size": w.Top, "sizes": []any{}})
		}
		if w := a.Layout.Width; w != nil {
			s.Set("width", size(w))
		}

	case WidgetSpacer:
		h := style.ParseSizePtr(a.Styles.Get("height"))
		if h == nil {
			h = a.Layout.MinHeight
		}
		if h == nil {
			h = &style.Size{Value: 50, Unit: "px"}
		}
		s.Set("space", size(h))

	default:
		s.Set("editor", a.Content())
		e.typography(s, a.Typography, "typography", "text_color")
	}
	return s
}

// specialized converts a detected widget. Its settings replace the generic
// per-property walk.
func (e *Exporter) specialized(a *builder.Analysis) (string, builder.Settings) {
	d := a.Widget
	s := builder.Settings{}
	switch d.Kind {
	case widgets.KindIcon:
		w := d.Icon
		value := w.Name
		if w.Library == widgets.LibrarySVG {
			value = ""
		}
		s.Set("selected_icon", builder.Settings{"value": value, "library": w.Library})
		s.Set("link", linkSetting(w.Link, nil))
		s.Set("size", size(w.Size))
		e.color(s, "primary_color", w.Color)
		return WidgetIcon, s

	case widgets.KindIconList:
		w := d.IconList
		items := []any{}
		for _, it := range w.Items {
			item := builder.Settings{
				"_id":           e.ids.Next("icon-list-item"),
				"text":          it.Text,
				"selected_icon": builder.Settings{"value": it.Icon, "library": it.Library},
			}
			item.Set("link", linkSetting(it.Link, nil))
			items = append(items, item)
		}
		s.Set("icon_list", items)
		if w.Inline {
			s.Set("view", "inline")
		} else {
			s.Set("view", "traditional")
		}
		e.color(s, "icon_color", w.IconColor)
		s.Set("icon_size", size(w.IconSize))
		s.Set("space_between", size(w.Gap))
		return WidgetIconList, s

	case widgets.KindGallery:
		w := d.Gallery
		images := []any{}
		for _, img := range w.Images {
			images = append(images, builder.Settings{"id": "", "url": e.mediaURL(img.URL)})
		}
		s.Set("wp_gallery", images)
		s.Set("gallery_columns", w.Columns)
		if w.Lightbox {
			s.Set("gallery_link", "file")
			s.Set("open_lightbox", "yes")
		} else {
			s.Set("gallery_link", "none")
		}
		if w.Captions {
			s.Set("gallery_display_caption", "")
		} else {
			s.Set("gallery_display_caption", "none")
		}
		if w.Gap != nil {
			s.Set("image_spacing", "custom")
			s.Set("image_spacing_custom", size(w.Gap))
		}
		return WidgetGallery, s

	case widgets.KindCarousel:
		w := d.Carousel
		nav := "none"
		switch {
		case w.Arrows && w.Dots:
			nav = "both"
		case w.Arrows:
			nav = "arrows"
		case w.Dots:
			nav = "dots"
		}
		s.Set("navigation", nav)
		s.Set("autoplay", yesNo(w.Autoplay))
		s.Set("autoplay_speed", w.AutoplaySpeedMs)
		s.Set("infinite", yesNo(w.Loop))
		if w.Effect == "fade" {
			s.Set("effect", "fade")
		}
		if w.ImageOnly {
			slides := []any{}
			for _, sl := range w.Slides {
				slides = append(slides, builder.Settings{"id": "", "url": e.mediaURL(sl.ImageURL)})
			}
			s.Set("carousel", slides)
			if w.SlidesToShow > 0 {
				s.Set("slides_to_show", fmt.Sprint(w.SlidesToShow))
			}
			return WidgetImageCarousel, s
		}
		slides := []any{}
		for _, sl := range w.Slides {
			slide := builder.Settings{"_id": e.ids.Next("slide")}
			slide.Set("heading", sl.Heading)
			slide.Set("description", sl.Text)
			slide.Set("button_text", sl.ButtonText)
			slide.Set("link", linkSetting(sl.ButtonURL, nil))
			if sl.ImageURL != "" {
				slide.Set("background_image", builder.Settings{"url": e.mediaURL(sl.ImageURL), "id": ""})
			}
			slides = append(slides, slide)
		}
		s.Set("slides", slides)
		return WidgetSlides, s

	case widgets.KindTestimonial:
		w := d.Testimonial
		s.Set("testimonial_content", w.Content)
		s.Set("testimonial_name", w.Name)
		job := w.Title
		if w.Company != "" {
			job = strings.TrimSpace(strings.Trim(job+", "+w.Company, ", "))
		}
		s.Set("testimonial_job", job)
		if w.ImageURL != "" {
			s.Set("testimonial_image", builder.Settings{"url": e.mediaURL(w.ImageURL), "id": ""})
			s.Set("testimonial_image_position", "aside")
		}
		if w.Rating > 0 {
			s.Set("rating", w.Rating)
		}
		return WidgetTestimonial, s

	case widgets.KindPricing:
		w := d.Pricing
		s.Set("heading", w.Heading)
		s.Set("sub_heading", w.SubHeading)
		s.Set("currency_symbol", "custom")
		s.Set("currency_symbol_custom", w.Currency)
		s.Set("price", w.Price)
		s.Set("period", w.Period)
		features := []any{}
		for _, f := range w.Features {
			icon := "fas fa-check"
			if !f.Included {
				icon = "fas fa-times"
			}
			features = append(features, builder.Settings{
				"_id":                e.ids.Next("feature"),
				"item_text":          f.Text,
				"selected_item_icon": builder.Settings{"value": icon, "library": widgets.LibrarySolid},
			})
		}
		s.Set("features_list", features)
		s.Set("button_text", w.ButtonText)
		s.Set("link", linkSetting(w.ButtonURL, nil))
		if w.Ribbon != "" || w.Featured {
			s.Set("show_ribbon", "yes")
			s.Set("ribbon_title", firstNonEmpty(w.Ribbon, "Popular"))
		}
		return WidgetPriceTable, s
	}
	s.Set("editor", a.Content())
	return WidgetText, s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func listHTML(tag string, items []string) string {
	if tag != "ol" {
		tag = "ul"
	}
	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, it := range items {
		b.WriteString("<li>" + html.EscapeString(it) + "</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

// rawHTML rebuilds the markup of embeds, code and tables.
func rawHTML(a *builder.Analysis) string {
	n := a.Node
	switch n.Tag() {
	case "iframe":
		return fmt.Sprintf(`<iframe src="%s" width="100%%" height="%s" frameborder="0" allowfullscreen></iframe>`,
			html.EscapeString(n.Attr("src")), firstNonEmpty(n.Attr("height"), "400"))
	case "pre", "code":
		return "<pre><code>" + html.EscapeString(a.Text()) + "</code></pre>"
	}
	if n.InnerHTML != "" && n.Tag() != "" {
		return fmt.Sprintf("<%s>%s</%s>", n.Tag(), n.InnerHTML, n.Tag())
	}
	if n.InnerHTML != "" {
		return n.InnerHTML
	}
	return html.EscapeString(a.Text())
}

func iconValue(n *component.ComponentInfo) (string, string) {
	if w := widgets.ExtractIconWidget(n); w != nil && w.Library != widgets.LibrarySVG {
		return w.Library, w.Name
	}
	if n.Tag() == "svg" {
		return widgets.LibrarySVG, ""
	}
	return widgets.LibrarySolid, n.ClassName
}

var fieldTypes = map[string]string{
	"email":    "email",
	"tel":      "tel",
	"url":      "url",
	"number":   "number",
	"date":     "date",
	"checkbox": "checkbox",
	"radio":    "radio",
	"password": "password",
	"file":     "upload",
	"hidden":   "hidden",
}

// formFields turns inputs, textareas and selects into form_fields rows.
func formFields(form *component.ComponentInfo, ids *builder.IDGenerator) []any {
	out := []any{}
	for _, f := range form.Find(component.IsTag("input", "textarea", "select")) {
		typ := "text"
		switch f.Tag() {
		case "textarea":
			typ = "textarea"
		case "select":
			typ = "select"
		default:
			t := strings.ToLower(f.Attr("type"))
			if t == "submit" || t == "button" {
				continue
			}
			if ft, ok := fieldTypes[t]; ok {
				typ = ft
			}
		}
		field := builder.Settings{
			"_id":        ids.Next("field"),
			"field_type": typ,
		}
		field.Set("custom_id", f.Attr("name"))
		field.Set("field_label", firstNonEmpty(f.Attr("aria-label"), f.Attr("placeholder"), f.Attr("name")))
		field.Set("placeholder", f.Attr("placeholder"))
		if _, ok := f.Attributes["required"]; ok {
			field.Set("required", "true")
		}
		out = append(out, field)
	}
	return out
}
