package beaver

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

// Module slugs.
const (
	ModHeading       = "heading"
	ModRichText      = "rich-text"
	ModButton        = "button"
	ModCallout       = "callout"
	ModPhoto         = "photo"
	ModVideo         = "video"
	ModAudio         = "audio"
	ModMap           = "map"
	ModHTML          = "html"
	ModIcon          = "icon"
	ModList          = "list"
	ModMenu          = "menu"
	ModContactForm   = "contact-form"
	ModSeparator     = "separator"
	ModGallery       = "gallery"
	ModSlideshow     = "slideshow"
	ModContentSlider = "content-slider"
	ModTestimonials  = "testimonials"
	ModPricingTable  = "pricing-table"
)

var natives = builder.NativeTable{
	Natives: map[builder.Kind]string{
		builder.KindHeading: ModHeading,
		builder.KindText:    ModRichText,
		builder.KindButton:  ModButton,
		builder.KindLink:    ModRichText,
		builder.KindImage:   ModPhoto,
		builder.KindVideo:   ModVideo,
		builder.KindAudio:   ModAudio,
		builder.KindMap:     ModMap,
		builder.KindEmbed:   ModHTML,
		builder.KindIcon:    ModIcon,
		builder.KindList:    ModRichText,
		builder.KindNav:     ModMenu,
		builder.KindForm:    ModContactForm,
		builder.KindQuote:   ModRichText,
		builder.KindCode:    ModHTML,
		builder.KindTable:   ModHTML,
		builder.KindDivider: ModSeparator,
		builder.KindSpacer:  ModHTML,
		builder.KindHTML:    ModHTML,
	},
	Types: map[string]string{
		"cta":       ModButton,
		"separator": ModSeparator,
		"menu":      ModMenu,
		"richtext":  ModRichText,
	},
	Fallback: ModRichText,
}

var specializedModules = map[widgets.Kind]string{
	widgets.KindIcon:        ModIcon,
	widgets.KindIconList:    ModList,
	widgets.KindGallery:     ModGallery,
	widgets.KindTestimonial: ModTestimonials,
	widgets.KindPricing:     ModPricingTable,
}

// moduleType picks the module slug of a widget node.
func (e *Exporter) moduleType(a *builder.Analysis) string {
	if d := a.Widget; d != nil {
		if d.Kind == widgets.KindCarousel {
			if d.Carousel.ImageOnly {
				return ModSlideshow
			}
			return ModContentSlider
		}
		if slug, ok := specializedModules[d.Kind]; ok {
			return slug
		}
	}
	slug, fallback := natives.Resolve(a.Node, a.Kind)
	if fallback {
		e.log.Debug("no native module, using fallback", "path", a.Path, "kind", a.Kind, "module", slug)
	}
	return slug
}

// module adds a module node for a widget under parent.
func (e *Exporter) module(t *tree, a *builder.Analysis, parent string) *Node {
	n := e.add(t, NodeModule, a.Trace(), parent)
	n.Settings["type"] = e.moduleType(a)
	e.decorate(n, a)
	if a.Widget != nil {
		e.specialized(n, a)
	} else {
		e.options(n, a)
	}
	e.connect(n, a)
	return n
}

// options writes the content settings of a generic module.
func (e *Exporter) options(n *Node, a *builder.Analysis) {
	s := n.Settings
	node := a.Node
	switch n.Module() {
	case ModHeading:
		s["heading"] = html.EscapeString(a.Text())
		s["tag"] = fmt.Sprintf("h%d", a.Heading(2))
		if href := a.Link(); href != "" {
			s["link"] = href
			linkTarget(s, "link_target", node)
		}

	case ModRichText:
		s["text"] = e.richText(a)

	case ModButton:
		s["text"] = html.EscapeString(a.Text())
		s.Set("link", a.Link())
		linkTarget(s, "link_target", node)
		s["style"] = "flat"

	case ModPhoto:
		src, alt := a.Image()
		s["photo_source"] = "url"
		s.Set("photo_url", e.mediaURL(src))
		s.Set("alt", alt)
		if href := a.Link(); href != "" {
			s["link_type"] = "url"
			s["link_url"] = href
			linkTarget(s, "link_url_target", node)
		}

	case ModVideo:
		src := mediaSource(node)
		if embed := embedURL(src); embed != "" {
			s["video_type"] = "embed"
			s["embed_code"] = fmt.Sprintf(`<iframe src="%s" frameborder="0" allowfullscreen></iframe>`, html.EscapeString(embed))
			break
		}
		s["video_type"] = "media_library"
		s["data_source"] = "url"
		s.Set("video_url_mp4", e.mediaURL(src))
		mediaToggles(s, node)

	case ModAudio:
		s["audio_type"] = "link"
		s.Set("link", e.mediaURL(mediaSource(node)))
		mediaToggles(s, node)

	case ModMap:
		address := ""
		if u, err := url.Parse(node.Attr("src")); err == nil {
			address = u.Query().Get("q")
		}
		s.Set("address", firstNonEmpty(address, node.Attr("title")))
		h := a.Layout.MinHeight
		if h == nil {
			h = style.ParseSizePtr(node.Attr("height"))
		}
		if h != nil {
			s["height"] = style.FormatNumber(h.Value)
			s["height_unit"] = firstNonEmpty(h.Unit, "px")
		}

	case ModIcon:
		w := widgets.ExtractIconWidget(node)
		if w == nil {
			w = &widgets.IconWidget{Library: widgets.LibrarySolid, Name: node.ClassName}
		}
		e.icon(n, w)

	case ModMenu:
		s["menu"] = ""
		s["menu_layout"] = "horizontal"
		if a.Layout.Direction == "column" {
			s["menu_layout"] = "vertical"
		}
		s["mobile_toggle"] = "hamburger"

	case ModContactForm:
		e.contactForm(s, node)

	case ModSeparator:
		e.separator(s, a)

	case ModHTML:
		if a.Kind == builder.KindSpacer {
			h := style.ParseSizePtr(a.Styles.Get("height"))
			if h == nil {
				h = a.Layout.MinHeight
			}
			if h == nil {
				h = &style.Size{Value: 50, Unit: "px"}
			}
			s["html"] = fmt.Sprintf(`<div class="wpx-spacer" style="height:%s" aria-hidden="true"></div>`, h.String())
			break
		}
		s["html"] = rawHTML(a)

	default:
		s["text"] = a.Content()
	}
}

// richText renders the markup of a rich-text module.
func (e *Exporter) richText(a *builder.Analysis) string {
	n := a.Node
	switch a.Kind {
	case builder.KindQuote:
		return "<blockquote><p>" + html.EscapeString(a.Text()) + "</p></blockquote>"
	case builder.KindLink:
		target := ""
		if n.Attr("target") == "_blank" {
			target = ` target="_blank" rel="noopener"`
		}
		return fmt.Sprintf(`<a href="%s"%s>%s</a>`, html.EscapeString(a.Link()), target, html.EscapeString(a.Text()))
	case builder.KindList:
		if n.InnerHTML == "" {
			return listHTML(n.Tag(), a.ListItems())
		}
	}
	if n.InnerHTML != "" && component.IsTag("ul", "ol")(n) {
		return fmt.Sprintf("<%s>%s</%s>", n.Tag(), builder.SanitizeHTML(n.InnerHTML), n.Tag())
	}
	content := a.Content()
	if !strings.HasPrefix(strings.TrimSpace(content), "<") {
		content = "<p>" + content + "</p>"
	}
	return content
}

// contactForm shows the fields the source form carries.
func (e *Exporter) contactForm(s builder.Settings, n *component.ComponentInfo) {
	fields := map[string]bool{}
	for _, in := range n.Find(component.IsTag("input", "textarea")) {
		key := strings.ToLower(firstNonEmpty(in.Attr("name"), in.Attr("type"), in.Tag()))
		switch {
		case strings.Contains(key, "mail"):
			fields["email"] = true
		case strings.Contains(key, "phone"), strings.Contains(key, "tel"):
			fields["phone"] = true
		case strings.Contains(key, "subject"):
			fields["subject"] = true
		case strings.Contains(key, "name"):
			fields["name"] = true
		}
	}
	for _, f := range []string{"name", "subject", "email", "phone"} {
		toggle := "hide"
		if fields[f] {
			toggle = "show"
		}
		s[f+"_toggle"] = toggle
	}
	btn := "Send"
	if b := n.FindFirst(component.IsTag("button")); b != nil && b.Text() != "" {
		btn = b.Text()
	}
	s["btn_text"] = btn
}

// separator writes a divider's line settings.
func (e *Exporter) separator(s builder.Settings, a *builder.Analysis) {
	width := 100.0
	if w := a.Layout.Width; w != nil && w.Unit == "%" {
		width = w.Value
	}
	s["width"] = style.FormatNumber(width)
	height := 1.0
	if bw := a.Border.Width; bw != nil {
		height = bw.Top
	}
	s["height"] = style.FormatNumber(height)
	s["style"] = firstNonEmpty(a.Border.Style, "solid")
	e.color(s, "color", firstNonEmpty(a.Border.Color, a.Background.Color, "#dddddd"))
	delete(s, "border")
}

// specialized fills the settings of a detected widget.
func (e *Exporter) specialized(n *Node, a *builder.Analysis) {
	d := a.Widget
	s := n.Settings
	switch d.Kind {
	case widgets.KindIcon:
		e.icon(n, d.Icon)

	case widgets.KindIconList:
		w := d.IconList
		items := []any{}
		for _, it := range w.Items {
			item := builder.Settings{"heading": html.EscapeString(it.Text)}
			item.Set("icon", it.Icon)
			item.Set("link", it.Link)
			items = append(items, item)
		}
		s["list_items"] = items
		s["list_type"] = "icon"
		s["layout"] = "list"
		if w.Inline {
			s["layout"] = "inline"
		}
		e.color(s, "icon_color", w.IconColor)
		if w.IconSize != nil {
			s["icon_size"] = style.FormatNumber(w.IconSize.Value)
		}
		if w.Gap != nil {
			s["item_spacing"] = style.FormatNumber(w.Gap.Value)
		}

	case widgets.KindGallery:
		w := d.Gallery
		photos := []any{}
		for _, img := range w.Images {
			p := builder.Settings{"url": e.mediaURL(img.URL)}
			p.Set("alt", img.Alt)
			p.Set("caption", img.Caption)
			p.Set("link", img.Link)
			photos = append(photos, p)
		}
		s["source"] = "urls"
		s["photo_data"] = photos
		s["layout"] = "thumb"
		if w.Layout == "masonry" {
			s["layout"] = "collage"
		}
		if w.Columns > 0 {
			s["photo_columns"] = fmt.Sprint(w.Columns)
		}
		if w.Gap != nil {
			s["photo_spacing"] = style.FormatNumber(w.Gap.Value)
		}
		s["click_action"] = "none"
		if w.Lightbox {
			s["click_action"] = "lightbox"
		}
		s["show_captions"] = "0"
		if w.Captions {
			s["show_captions"] = "hover"
		}
		if w.LazyLoad {
			s["lazy_load"] = "1"
		}

	case widgets.KindCarousel:
		e.carousel(n, d.Carousel)

	case widgets.KindTestimonial:
		w := d.Testimonial
		var b strings.Builder
		b.WriteString("<p>" + html.EscapeString(w.Content) + "</p>")
		if w.Name != "" {
			b.WriteString("<h4>" + html.EscapeString(w.Name) + "</h4>")
		}
		info := w.Title
		if w.Company != "" {
			info = strings.Trim(strings.TrimSpace(info+", "+w.Company), ", ")
		}
		if info != "" {
			b.WriteString("<p>" + html.EscapeString(info) + "</p>")
		}
		t := builder.Settings{"testimonial": b.String()}
		t.Set("photo", e.mediaURL(w.ImageURL))
		if w.Rating > 0 {
			t["rating"] = style.FormatNumber(w.Rating)
		}
		s["layout"] = "wide"
		s["testimonials"] = []any{t}
		s["auto_play"] = "0"
		s["arrows"] = "0"
		s["dots"] = "0"

	case widgets.KindPricing:
		w := d.Pricing
		features := []any{}
		for _, f := range w.Features {
			text := html.EscapeString(f.Text)
			if !f.Included {
				text = "<del>" + text + "</del>"
			}
			features = append(features, text)
		}
		col := builder.Settings{
			"title":    w.Heading,
			"price":    w.Currency + w.Price,
			"features": features,
		}
		col.Set("duration", w.Period)
		col.Set("subtitle", w.SubHeading)
		col.Set("button_text", w.ButtonText)
		col.Set("button_url", w.ButtonURL)
		if w.Featured || w.Ribbon != "" {
			col["show_ribbon"] = "yes"
			col["ribbon_text"] = firstNonEmpty(w.Ribbon, "Popular")
		}
		s["pricing_columns"] = []any{col}
	}
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// carousel fills a slideshow (image slides) or content slider.
func (e *Exporter) carousel(n *Node, w *widgets.CarouselWidget) {
	s := n.Settings
	s["auto_play"] = bit(w.Autoplay)
	delay := w.AutoplaySpeedMs
	if delay <= 0 {
		delay = widgets.DefaultAutoplaySpeedMs
	}
	seconds := style.FormatNumber(float64(delay) / 1000)
	if n.Module() == ModSlideshow {
		photos := []any{}
		for _, sl := range w.Slides {
			p := builder.Settings{"url": e.mediaURL(sl.ImageURL)}
			p.Set("alt", sl.ImageAlt)
			photos = append(photos, p)
		}
		s["source"] = "urls"
		s["photos"] = photos
		s["speed"] = seconds
		s["transition"] = "slideHorizontal"
		if w.Effect == "fade" {
			s["transition"] = "fade"
		}
		s["nav_type"] = "none"
		if w.Arrows {
			s["nav_type"] = "buttons"
		}
		s["loop"] = bit(w.Loop)
		return
	}
	slides := []any{}
	for i, sl := range w.Slides {
		slide := builder.Settings{"label": fmt.Sprintf("Slide %d", i+1), "bg_layout": "none"}
		if sl.ImageURL != "" {
			slide["bg_layout"] = "photo"
			slide["bg_photo_src"] = e.mediaURL(sl.ImageURL)
		}
		slide.Set("title", html.EscapeString(sl.Heading))
		slide.Set("text", html.EscapeString(sl.Text))
		slide["cta_type"] = "none"
		if sl.ButtonText != "" {
			slide["cta_type"] = "button"
			slide["btn_text"] = sl.ButtonText
			slide.Set("link", sl.ButtonURL)
		}
		slides = append(slides, slide)
	}
	s["slides"] = slides
	s["delay"] = seconds
	s["loop"] = bit(w.Loop)
	s["arrows"] = bit(w.Arrows)
	s["dots"] = bit(w.Dots)
	s["transition"] = "slide"
	if w.Effect == "fade" {
		s["transition"] = "fade"
	}
}

// icon fills an icon module. Font Awesome and Dashicons classes are
// native; inline SVG has no icon setting and becomes an HTML module.
func (e *Exporter) icon(n *Node, w *widgets.IconWidget) {
	s := n.Settings
	classes := ""
	switch w.Library {
	case widgets.LibrarySolid, widgets.LibraryRegular, widgets.LibraryBrands, widgets.LibraryDashicons:
		classes = strings.TrimSpace(w.Name)
	}
	if classes == "" {
		s["type"] = ModHTML
		markup := w.SVG
		if markup == "" {
			markup = fmt.Sprintf(`<span class="%s" aria-hidden="true"></span>`, html.EscapeString(w.Name))
		}
		if w.Link != "" {
			markup = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(w.Link), markup)
		}
		s["html"] = markup
		return
	}
	s["icon"] = classes
	if w.Size != nil {
		s["size"] = style.FormatNumber(w.Size.Value)
		s["size_unit"] = firstNonEmpty(w.Size.Unit, "px")
	}
	e.color(s, "color", w.Color)
	s.Set("link", w.Link)
	s.Set("text", w.Label)
}

func linkTarget(s builder.Settings, key string, n *component.ComponentInfo) {
	if n.Attr("target") == "_blank" {
		s[key] = "_blank"
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

func mediaToggles(s builder.Settings, n *component.ComponentInfo) {
	for _, f := range []string{"autoplay", "loop", "muted"} {
		if _, ok := n.Attributes[f]; ok {
			s[strings.TrimSuffix(f, "d")] = "1"
		}
	}
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

// rawHTML rebuilds the markup of embeds, code, tables and unknown elements
// for an HTML module.
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
