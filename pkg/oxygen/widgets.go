package oxygen

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

var natives = builder.NativeTable{
	Natives: map[builder.Kind]string{
		builder.KindHeading: CtHeadline,
		builder.KindText:    CtTextBlock,
		builder.KindButton:  CtLinkButton,
		builder.KindLink:    CtLinkText,
		builder.KindImage:   CtImage,
		builder.KindVideo:   CtVideo,
		builder.KindAudio:   CtCodeBlock,
		builder.KindMap:     OxyMap,
		builder.KindEmbed:   CtCodeBlock,
		builder.KindIcon:    CtFancyIcon,
		builder.KindList:    OxyRichText,
		builder.KindNav:     OxyNavMenu,
		builder.KindForm:    CtCodeBlock,
		builder.KindQuote:   CtTextBlock,
		builder.KindCode:    CtCodeBlock,
		builder.KindTable:   CtCodeBlock,
		builder.KindDivider: CtDivBlock,
		builder.KindSpacer:  CtDivBlock,
		builder.KindHTML:    CtCodeBlock,
	},
	Types: map[string]string{
		"cta":       CtLinkButton,
		"separator": CtDivBlock,
		"menu":      OxyNavMenu,
		"richtext":  OxyRichText,
	},
	Fallback: CtDivBlock,
}

// widget converts a node placed as a single component. A detected
// specialized widget takes precedence over the generic mapping.
func (e *Exporter) widget(a *builder.Analysis) *Component {
	if a.Widget != nil {
		c := e.specialized(a)
		e.decorate(c, a)
		return c
	}
	name, fallback := natives.Resolve(a.Node, a.Kind)
	if fallback {
		e.log.Debug("no native component, using fallback", "path", a.Path, "kind", a.Kind, "component", name)
	}
	c := newComponent(name, a.Trace())
	e.decorate(c, a)
	e.options(c, a)
	if name == CtImage {
		if href := a.Link(); href != "" {
			// ct_image cannot link; a link wrapper can
			link := newComponent(CtLink, builder.SyntheticTrace())
			link.Options["url"] = href
			link.add(c)
			return link
		}
	}
	return c
}

// setContent stores the text or markup a component renders.
func setContent(c *Component, content string) {
	c.Options.Set("ct_content", content)
}

// options writes the content options of a generic component.
func (e *Exporter) options(c *Component, a *builder.Analysis) {
	o := c.Options
	n := a.Node
	switch c.Name {
	case CtHeadline:
		o["tag"] = fmt.Sprintf("h%d", a.Heading(2))
		setContent(c, html.EscapeString(a.Text()))
		e.dynamic(c, a)

	case CtTextBlock:
		if a.Kind == builder.KindQuote {
			o["tag"] = "blockquote"
			setContent(c, html.EscapeString(a.Text()))
			break
		}
		if tag := n.Tag(); tag != "" && tag != "div" && tag != "p" {
			o["tag"] = tag
		}
		setContent(c, a.Content())
		e.dynamic(c, a)

	case CtLinkText:
		o.Set("url", a.Link())
		linkTarget(o, n)
		setContent(c, html.EscapeString(a.Text()))
		e.dynamic(c, a)

	case CtLinkButton:
		o.Set("url", a.Link())
		linkTarget(o, n)
		original(o)["button-style"] = "1"
		setContent(c, html.EscapeString(a.Text()))
		e.dynamic(c, a)

	case CtImage:
		src, alt := a.Image()
		o.Set("src", e.mediaURL(src))
		o.Set("alt", alt)
		o["image_type"] = "2"
		if a.Dynamic != nil && a.Dynamic.Attribute == "src" {
			o.Set("src", dynamicShortcode(a.Dynamic))
		}

	case CtVideo:
		src := mediaSource(n)
		if embed := embedURL(src); embed != "" {
			o["src"] = src
			o["embed_src"] = embed
			break
		}
		c.Name = CtCodeBlock
		o["code-php"] = fmt.Sprintf(`<video src="%s" controls%s></video>`, html.EscapeString(e.mediaURL(src)), mediaFlags(n))

	case OxyMap:
		address := ""
		if u, err := url.Parse(n.Attr("src")); err == nil {
			address = u.Query().Get("q")
		}
		o.Set("map_address", firstNonEmpty(address, n.Attr("title")))
		o["map_zoom"] = "14"
		if h := a.Layout.MinHeight; h != nil {
			setSize(original(o), "height", h)
		} else if h := style.ParseSizePtr(n.Attr("height")); h != nil {
			setSize(original(o), "height", h)
		}

	case CtFancyIcon:
		w := widgets.ExtractIconWidget(n)
		if w == nil {
			w = &widgets.IconWidget{Library: widgets.LibrarySolid, Name: n.ClassName}
		}
		e.icon(c, w)

	case OxyRichText:
		if a.Kind == builder.KindList && n.InnerHTML == "" {
			setContent(c, listHTML(n.Tag(), a.ListItems()))
		} else if n.InnerHTML != "" && n.Tag() != "" {
			setContent(c, fmt.Sprintf("<%s>%s</%s>", n.Tag(), builder.SanitizeHTML(n.InnerHTML), n.Tag()))
		} else {
			setContent(c, a.Content())
		}

	case OxyNavMenu:
		o["menu_id"] = ""
		o["menu_dropdowns"] = "on"
		if a.Layout.Direction == "column" {
			o["menu_layout"] = "vertical"
		}
		var items []any
		for _, l := range n.Find(component.IsTag("a")) {
			items = append(items, builder.Settings{"title": l.Text(), "url": l.Attr("href")})
		}
		o.Set("menu_items", items)

	case CtDivBlock:
		orig := original(o)
		switch a.Kind {
		case builder.KindDivider:
			w := a.Layout.Width
			if w == nil {
				w = &style.Size{Value: 100, Unit: "%"}
			}
			setSize(orig, "width", w)
			height := &style.Size{Value: 1, Unit: "px"}
			if bw := a.Border.Width; bw != nil {
				height = &style.Size{Value: bw.Top, Unit: bw.Unit}
			}
			setSize(orig, "height", height)
			col := firstNonEmpty(a.Border.Color, a.Background.Color, "#dddddd")
			e.color(orig, "background-color", col)
			delete(orig, "border-all-style")
			delete(orig, "border-all-width")
			delete(orig, "border-all-width-unit")
			delete(orig, "border-all-color")
		case builder.KindSpacer:
			h := style.ParseSizePtr(a.Styles.Get("height"))
			if h == nil {
				h = a.Layout.MinHeight
			}
			if h == nil {
				h = &style.Size{Value: 50, Unit: "px"}
			}
			setSize(orig, "height", h)
		default:
			setContent(c, a.Content())
		}

	default:
		o["code-php"] = rawHTML(a)
	}
}

// specialized converts a detected widget.
func (e *Exporter) specialized(a *builder.Analysis) *Component {
	d := a.Widget
	trace := a.Trace()
	switch d.Kind {
	case widgets.KindIcon:
		c := newComponent(CtFancyIcon, trace)
		e.icon(c, d.Icon)
		return c

	case widgets.KindIconList:
		w := d.IconList
		c := newComponent(OxyRichText, trace)
		var b strings.Builder
		class := "wpx-icon-list"
		if w.Inline {
			class += " is-inline"
		}
		b.WriteString(`<ul class="` + class + `">`)
		for _, it := range w.Items {
			text := html.EscapeString(it.Text)
			if it.Link != "" {
				text = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(it.Link), text)
			}
			icon := ""
			if it.Icon != "" {
				icon = fmt.Sprintf(`<i class="%s" aria-hidden="true"></i> `, html.EscapeString(it.Icon))
			}
			b.WriteString("<li>" + icon + text + "</li>")
		}
		b.WriteString("</ul>")
		setContent(c, b.String())
		if w.IconColor != "" || w.IconSize != nil {
			var decls []string
			if col, ok := e.registry.Color(w.IconColor); ok {
				decls = append(decls, "color:"+col.Value)
			}
			if w.IconSize != nil {
				decls = append(decls, "font-size:"+w.IconSize.String())
			}
			e.rule(".wpx-icon-list i{" + strings.Join(decls, ";") + "}")
		}
		return c

	case widgets.KindGallery:
		w := d.Gallery
		c := newComponent(OxyGallery, trace)
		images := []any{}
		for _, img := range w.Images {
			im := builder.Settings{"url": e.mediaURL(img.URL)}
			im.Set("alt", img.Alt)
			im.Set("caption", img.Caption)
			images = append(images, im)
		}
		c.Options["gallery_source"] = "custom"
		c.Options["images"] = images
		c.Options["layout"] = firstNonEmpty(w.Layout, "grid")
		if w.Columns > 0 {
			c.Options["columns"] = fmt.Sprint(w.Columns)
		}
		setSize(c.Options, "image_spacing", w.Gap)
		c.Options["link"] = "none"
		if w.Lightbox {
			c.Options["link"] = "lightbox"
		}
		c.Options["display_caption"] = onOff(w.Captions)
		return c

	case widgets.KindCarousel:
		w := d.Carousel
		c := newComponent(CtSlider, trace)
		c.Options["slider-autoplay"] = onOff(w.Autoplay)
		if w.AutoplaySpeedMs > 0 {
			c.Options["slider-autoplay-delay"] = fmt.Sprint(w.AutoplaySpeedMs)
		}
		c.Options["slider-infinite"] = onOff(w.Loop)
		c.Options["slider-show-arrows"] = onOff(w.Arrows)
		c.Options["slider-show-dots"] = onOff(w.Dots)
		if w.Effect == "fade" {
			c.Options["slider-animation"] = "fade"
		}
		if w.SlidesToShow > 1 {
			c.Options["slider-slides-to-show"] = fmt.Sprint(w.SlidesToShow)
		}
		for _, sl := range w.Slides {
			c.add(e.slide(sl, w.ImageOnly))
		}
		return c

	case widgets.KindTestimonial:
		w := d.Testimonial
		c := newComponent(OxyTestimonial, trace)
		c.Options.Set("testimonial_text", w.Content)
		c.Options.Set("testimonial_author", w.Name)
		info := w.Title
		if w.Company != "" {
			info = strings.Trim(strings.TrimSpace(info+", "+w.Company), ", ")
		}
		c.Options.Set("testimonial_author_info", info)
		c.Options.Set("testimonial_photo", e.mediaURL(w.ImageURL))
		c.Options["testimonial_layout"] = "vertical"
		if w.Rating > 0 {
			c.Options["testimonial_rating"] = style.FormatNumber(w.Rating)
		}
		return c

	case widgets.KindPricing:
		w := d.Pricing
		c := newComponent(OxyPricingBox, trace)
		c.Options.Set("pricing_box_package_title", w.Heading)
		c.Options.Set("pricing_box_package_subtitle", w.SubHeading)
		c.Options.Set("pricing_box_currency", w.Currency)
		c.Options.Set("pricing_box_amount_main", w.Price)
		c.Options.Set("pricing_box_term", w.Period)
		var b strings.Builder
		b.WriteString("<ul>")
		for _, f := range w.Features {
			class := "included"
			if !f.Included {
				class = "excluded"
			}
			b.WriteString(`<li class="` + class + `">` + html.EscapeString(f.Text) + "</li>")
		}
		b.WriteString("</ul>")
		c.Options["pricing_box_content"] = b.String()
		c.Options.Set("pricing_box_button_text", w.ButtonText)
		c.Options.Set("pricing_box_button_url", w.ButtonURL)
		if w.Featured || w.Ribbon != "" {
			c.Options["pricing_box_ribbon"] = firstNonEmpty(w.Ribbon, "Popular")
		}
		return c
	}
	c := newComponent(CtTextBlock, trace)
	setContent(c, a.Content())
	return c
}

// slide builds one ct_slide of a slider.
func (e *Exporter) slide(sl widgets.Slide, imageOnly bool) *Component {
	s := newComponent(CtSlide, builder.SyntheticTrace())
	if imageOnly || (sl.Heading == "" && sl.Text == "" && sl.ButtonText == "") {
		img := newComponent(CtImage, builder.SyntheticTrace())
		img.Options.Set("src", e.mediaURL(sl.ImageURL))
		img.Options.Set("alt", sl.ImageAlt)
		img.Options["image_type"] = "2"
		s.add(img)
		return s
	}
	if sl.ImageURL != "" {
		orig := original(s.Options)
		orig["background-image"] = e.mediaURL(sl.ImageURL)
		orig["background-size"] = "cover"
	}
	if sl.Heading != "" {
		h := newComponent(CtHeadline, builder.SyntheticTrace())
		h.Options["tag"] = "h2"
		setContent(h, html.EscapeString(sl.Heading))
		s.add(h)
	}
	if sl.Text != "" {
		t := newComponent(CtTextBlock, builder.SyntheticTrace())
		setContent(t, html.EscapeString(sl.Text))
		s.add(t)
	}
	if sl.ButtonText != "" {
		btn := newComponent(CtLinkButton, builder.SyntheticTrace())
		btn.Options.Set("url", sl.ButtonURL)
		setContent(btn, html.EscapeString(sl.ButtonText))
		s.add(btn)
	}
	return s
}

// faStyles are Font Awesome classes that select a style, not a glyph.
var faStyles = map[string]bool{
	"fa-solid": true, "fa-regular": true, "fa-brands": true, "fa-light": true,
	"fa-thin": true, "fa-duotone": true, "fa-fw": true, "fa-lg": true,
	"fa-2x": true, "fa-3x": true, "fa-spin": true,
}

// fontAwesomeName extracts the glyph name ("star") from an icon class list.
func fontAwesomeName(classes string) string {
	for _, f := range strings.Fields(classes) {
		if strings.HasPrefix(f, "fa-") && !faStyles[f] {
			return strings.TrimPrefix(f, "fa-")
		}
	}
	return ""
}

// icon fills a ct_fancy_icon. Icons outside Font Awesome fall back to a
// code block with their markup.
func (e *Exporter) icon(c *Component, w *widgets.IconWidget) {
	name := ""
	switch w.Library {
	case widgets.LibrarySolid, widgets.LibraryRegular, widgets.LibraryBrands:
		name = fontAwesomeName(w.Name)
	}
	if name == "" {
		c.Name = CtCodeBlock
		markup := w.SVG
		if markup == "" {
			markup = fmt.Sprintf(`<span class="%s" aria-hidden="true"></span>`, html.EscapeString(w.Name))
		}
		if w.Link != "" {
			markup = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(w.Link), markup)
		}
		c.Options["code-php"] = markup
		return
	}
	c.Options["icon-id"] = "FontAwesomeicon-" + name
	orig := original(c.Options)
	setSize(orig, "icon-size", w.Size)
	e.color(orig, "icon-color", w.Color)
	c.Options.Set("url", w.Link)
	c.Options.Set("title", w.Label)
}

func onOff(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func linkTarget(o builder.Settings, n *component.ComponentInfo) {
	if n.Attr("target") == "_blank" {
		o["target"] = "_blank"
	}
}

func mediaSource(n *component.ComponentInfo) string {
	src := n.Attr("src")
	if src == "" {
		if source := n.FindFirst(component.IsTag("source")); source != nil {
			src = source.Attr("src")
		}
	}
	return src
}

func mediaFlags(n *component.ComponentInfo) string {
	var b strings.Builder
	for _, f := range []string{"autoplay", "loop", "muted"} {
		if _, ok := n.Attributes[f]; ok {
			b.WriteString(" " + f)
		}
	}
	return b.String()
}

// embedURL returns the player URL of a YouTube or Vimeo link, or "".
func embedURL(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Host, "www.")
	switch {
	case host == "youtu.be":
		return "https://www.youtube.com/embed/" + strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		if strings.HasPrefix(u.Path, "/embed/") {
			return src
		}
		if v := u.Query().Get("v"); v != "" {
			return "https://www.youtube.com/embed/" + v
		}
	case strings.HasSuffix(host, "vimeo.com"):
		if host == "player.vimeo.com" {
			return src
		}
		return "https://player.vimeo.com/video/" + strings.Trim(u.Path, "/")
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

// rawHTML rebuilds the markup of embeds, forms, code, tables and unknown
// elements for a code block.
func rawHTML(a *builder.Analysis) string {
	n := a.Node
	switch n.Tag() {
	case "iframe":
		return fmt.Sprintf(`<iframe src="%s" width="100%%" height="%s" frameborder="0" allowfullscreen></iframe>`,
			html.EscapeString(n.Attr("src")), firstNonEmpty(n.Attr("height"), "400"))
	case "audio":
		return fmt.Sprintf(`<audio src="%s" controls%s></audio>`, html.EscapeString(mediaSource(n)), mediaFlags(n))
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
