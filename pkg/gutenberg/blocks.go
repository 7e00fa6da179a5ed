package gutenberg

import (
	"fmt"
	"html"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/widgets"
)

// Block names.
const (
	BlockGroup          = "core/group"
	BlockColumns        = "core/columns"
	BlockColumn         = "core/column"
	BlockCover          = "core/cover"
	BlockHeading        = "core/heading"
	BlockParagraph      = "core/paragraph"
	BlockButtons        = "core/buttons"
	BlockButton         = "core/button"
	BlockImage          = "core/image"
	BlockGallery        = "core/gallery"
	BlockVideo          = "core/video"
	BlockAudio          = "core/audio"
	BlockEmbed          = "core/embed"
	BlockHTML           = "core/html"
	BlockList           = "core/list"
	BlockListItem       = "core/list-item"
	BlockNavigation     = "core/navigation"
	BlockNavigationLink = "core/navigation-link"
	BlockQuote          = "core/quote"
	BlockPullquote      = "core/pullquote"
	BlockCode           = "core/code"
	BlockPreformatted   = "core/preformatted"
	BlockVerse          = "core/verse"
	BlockTable          = "core/table"
	BlockSeparator      = "core/separator"
	BlockSpacer         = "core/spacer"

	BlockPostTitle         = "core/post-title"
	BlockPostExcerpt       = "core/post-excerpt"
	BlockPostDate          = "core/post-date"
	BlockPostAuthorName    = "core/post-author-name"
	BlockPostFeaturedImage = "core/post-featured-image"
	BlockSiteTitle         = "core/site-title"
)

var natives = builder.NativeTable{
	Natives: map[builder.Kind]string{
		builder.KindHeading: BlockHeading,
		builder.KindText:    BlockParagraph,
		builder.KindLink:    BlockParagraph,
		builder.KindButton:  BlockButton,
		builder.KindImage:   BlockImage,
		builder.KindVideo:   BlockVideo,
		builder.KindAudio:   BlockAudio,
		builder.KindMap:     BlockHTML,
		builder.KindEmbed:   BlockHTML,
		builder.KindIcon:    BlockHTML,
		builder.KindList:    BlockList,
		builder.KindNav:     BlockNavigation,
		builder.KindForm:    BlockHTML,
		builder.KindQuote:   BlockQuote,
		builder.KindCode:    BlockCode,
		builder.KindTable:   BlockTable,
		builder.KindDivider: BlockSeparator,
		builder.KindSpacer:  BlockSpacer,
		builder.KindHTML:    BlockHTML,
	},
	Types: map[string]string{
		"pullquote":    BlockPullquote,
		"preformatted": BlockPreformatted,
		"verse":        BlockVerse,
		"poem":         BlockVerse,
	},
	Fallback: BlockGroup,
}

var escape = html.EscapeString

var embedProviders = []string{"youtube", "vimeo", "dailymotion"}

// content converts a node placed as a single content block.
func (e *Exporter) content(a *builder.Analysis) *Block {
	if b := e.dynamicBlock(a); b != nil {
		return b
	}
	name, fallback := natives.Resolve(a.Node, a.Kind)
	if fallback {
		e.log.Debug("no block for node, using group", "path", a.Path, "kind", a.Kind, "type", a.Node.Type())
	}
	n := a.Node
	b := newBlock(name, a.Trace())

	switch name {
	case BlockHeading:
		b.Attrs["level"] = a.Heading(2)
		e.applyStyle(b.Attrs, a, supportText)
		e.binding(b.Attrs, a)
		tag := fmt.Sprintf("h%d", a.Heading(2))
		classes, css := decorate("wp-block-heading", b.Attrs)
		b.compose(fmt.Sprintf("<%s%s%s>%s", tag, anchorAttr(b.Attrs), htmlAttrs(classes, css), a.Content()), "</"+tag+">")

	case BlockParagraph:
		text := a.Content()
		if a.Kind == builder.KindLink {
			text = linkHTML(n.Attr("href"), escape(a.Text()), n)
		}
		e.applyStyle(b.Attrs, a, supportText)
		e.binding(b.Attrs, a)
		classes, css := decorate("", b.Attrs)
		b.compose("<p"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">"+text, "</p>")

	case BlockImage:
		src, alt := a.Image()
		caption := ""
		if fc := n.FindFirst(component.IsTag("figcaption")); fc != nil {
			caption = fc.Text()
		}
		b = e.image(a.Trace(), a.Link(), "full")
		e.binding(b.Attrs, a)
		e.applyStyle(b.Attrs, a, supportMedia)
		b.compose(imageMarkup(b.Attrs, e.mediaURL(src), alt, caption, a.Link(), "full"), "")

	case BlockVideo:
		src := n.Attr("src")
		if src == "" {
			if s := n.FindFirst(component.IsTag("source")); s != nil {
				src = s.Attr("src")
			}
		}
		if p := provider(src); p != "" {
			return e.embed(a, src, p)
		}
		e.applyStyle(b.Attrs, a, supportSpacing)
		classes, css := decorate("wp-block-video", b.Attrs)
		opts := " controls"
		for _, flag := range []string{"autoplay", "loop", "muted"} {
			if _, ok := n.Attributes[flag]; ok {
				b.Attrs[flag] = true
				opts += " " + flag
			}
		}
		b.compose(fmt.Sprintf(`<figure%s%s><video%s src="%s"></video>`, anchorAttr(b.Attrs), htmlAttrs(classes, css), opts, escape(e.mediaURL(src))), "</figure>")

	case BlockAudio:
		src := n.Attr("src")
		if src == "" {
			if s := n.FindFirst(component.IsTag("source")); s != nil {
				src = s.Attr("src")
			}
		}
		e.applyStyle(b.Attrs, a, supportSpacing)
		classes, css := decorate("wp-block-audio", b.Attrs)
		b.compose(fmt.Sprintf(`<figure%s%s><audio controls src="%s"></audio>`, anchorAttr(b.Attrs), htmlAttrs(classes, css), escape(e.mediaURL(src))), "</figure>")

	case BlockList:
		ordered := n.Tag() == "ol"
		if ordered {
			b.Attrs["ordered"] = true
		}
		for _, item := range listItems(n) {
			b.InnerBlocks = append(b.InnerBlocks, listItem(item))
		}
		e.applyStyle(b.Attrs, a, supportText&^supportAlign)
		tag := "ul"
		if ordered {
			tag = "ol"
		}
		classes, css := decorate("wp-block-list", b.Attrs)
		b.compose("<"+tag+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">", "</"+tag+">")

	case BlockNavigation:
		b.Attrs["overlayMenu"] = "mobile"
		for _, l := range n.Find(component.IsTag("a")) {
			link := newBlock(BlockNavigationLink, builder.SyntheticTrace())
			link.Attrs.Set("label", l.Text())
			link.Attrs.Set("url", l.Attr("href"))
			link.Attrs["kind"] = "custom"
			link.Attrs["isTopLevelLink"] = true
			link.dynamic()
			b.InnerBlocks = append(b.InnerBlocks, link)
		}
		e.applyStyle(b.Attrs, a, supportColor|supportTypography)
		b.dynamic()

	case BlockQuote:
		citation := ""
		var paragraphs []string
		for _, child := range n.Children {
			switch {
			case child.TagIn("cite", "footer"):
				citation = child.Text()
			case child.Text() != "":
				paragraphs = append(paragraphs, child.Text())
			}
		}
		if len(paragraphs) == 0 {
			paragraphs = []string{strings.TrimSpace(strings.TrimSuffix(a.Text(), citation))}
		}
		for _, p := range paragraphs {
			b.InnerBlocks = append(b.InnerBlocks, paragraph(escape(p)))
		}
		e.applyStyle(b.Attrs, a, supportText)
		classes, css := decorate("wp-block-quote", b.Attrs)
		closing := "</blockquote>"
		if citation != "" {
			closing = "<cite>" + escape(citation) + "</cite></blockquote>"
		}
		b.compose("<blockquote"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">", closing)

	case BlockPullquote:
		e.applyStyle(b.Attrs, a, supportText)
		classes, css := decorate("wp-block-pullquote", b.Attrs)
		b.compose(fmt.Sprintf("<figure%s%s><blockquote><p>%s</p></blockquote>", anchorAttr(b.Attrs), htmlAttrs(classes, css), a.Content()), "</figure>")

	case BlockCode:
		e.applyStyle(b.Attrs, a, supportText&^supportAlign)
		classes, css := decorate("wp-block-code", b.Attrs)
		b.compose(fmt.Sprintf("<pre%s%s><code>%s</code>", anchorAttr(b.Attrs), htmlAttrs(classes, css), escape(a.Text())), "</pre>")

	case BlockPreformatted, BlockVerse:
		e.applyStyle(b.Attrs, a, supportText&^supportAlign)
		classes, css := decorate("wp-block-"+commentName(name), b.Attrs)
		b.compose(fmt.Sprintf("<pre%s%s>%s", anchorAttr(b.Attrs), htmlAttrs(classes, css), escape(a.Text())), "</pre>")

	case BlockTable:
		inner := builder.SanitizeHTML(n.InnerHTML)
		if n.Tag() == "table" && inner != "" {
			inner = "<table>" + inner + "</table>"
		}
		if !strings.Contains(inner, "<table") {
			inner = "<table><tbody></tbody></table>"
		}
		e.applyStyle(b.Attrs, a, supportColor|supportSpacing|supportBorder)
		classes, css := decorate("wp-block-table", b.Attrs)
		b.compose("<figure"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">"+inner, "</figure>")

	case BlockSeparator:
		e.applyStyle(b.Attrs, a, supportColor|supportSpacing)
		classes, css := decorate("wp-block-separator has-alpha-channel-opacity", b.Attrs)
		b.compose("<hr"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+"/>", "")

	case BlockSpacer:
		height := "100px"
		if h, ok := style.ParseSize(a.Styles.Get("height")); ok {
			height = h.String()
		}
		b.Attrs["height"] = height
		b.compose(fmt.Sprintf(`<div style="height:%s" aria-hidden="true" class="wp-block-spacer">`, height), "</div>")

	case BlockGroup:
		b.Attrs["layout"] = builder.Settings{"type": "constrained"}
		if text := a.Text(); text != "" {
			b.InnerBlocks = append(b.InnerBlocks, paragraph(escape(text)))
		}
		e.applyStyle(b.Attrs, a, supportGroup&^supportLayout)
		classes, css := decorate("wp-block-group", b.Attrs)
		b.compose("<div"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">", "</div>")

	default:
		b.Name = BlockHTML
		b.compose(rawHTML(a), "")
	}
	return b
}

// button builds a core/button; the caller places it in core/buttons.
func (e *Exporter) button(a *builder.Analysis) *Block {
	b := newBlock(BlockButton, a.Trace())
	n := a.Node
	e.applyStyle(b.Attrs, a, supportColor|supportTypography|supportSpacing|supportBorder)
	href := a.Link()
	if n.Attr("target") == "_blank" {
		b.Attrs["linkTarget"] = "_blank"
		b.Attrs["rel"] = "noreferrer noopener"
	}
	text := a.Text()
	if text == "" {
		text = n.Attr("value")
	}
	b.compose(buttonMarkup(b.Attrs, href, text), "")
	return b
}

func buttonMarkup(attrs builder.Settings, href, text string) string {
	classes, css := decorate("wp-block-button__link wp-element-button", attrs)
	// the button's own className and anchor belong on the wrapper
	var inner []string
	custom, _ := attrs["className"].(string)
	for _, c := range classes {
		if c != custom {
			inner = append(inner, c)
		}
	}
	wrapper := []string{"wp-block-button"}
	if custom != "" {
		wrapper = append(wrapper, custom)
	}
	link := "<a" + htmlAttrs(inner, css)
	if href != "" {
		link += ` href="` + escape(href) + `"`
	}
	if t, _ := attrs["linkTarget"].(string); t != "" {
		link += ` target="` + t + `"`
	}
	if rel, _ := attrs["rel"].(string); rel != "" {
		link += ` rel="` + rel + `"`
	}
	return "<div" + anchorAttr(attrs) + htmlAttrs(wrapper, "") + ">" + link + ">" + escape(text) + "</a></div>"
}

func (e *Exporter) image(trace builder.Trace, link, size string) *Block {
	b := newBlock(BlockImage, trace)
	b.Attrs["sizeSlug"] = size
	b.Attrs["linkDestination"] = "none"
	if link != "" {
		b.Attrs["linkDestination"] = "custom"
	}
	return b
}

func imageMarkup(attrs builder.Settings, src, alt, caption, link, size string) string {
	classes, css := decorate("wp-block-image size-"+size, attrs)
	img := fmt.Sprintf(`<img src="%s" alt="%s"/>`, escape(src), escape(alt))
	if link != "" {
		img = `<a href="` + escape(link) + `">` + img + "</a>"
	}
	if caption != "" {
		img += `<figcaption class="wp-element-caption">` + escape(caption) + "</figcaption>"
	}
	return "<figure" + anchorAttr(attrs) + htmlAttrs(classes, css) + ">" + img + "</figure>"
}

// syntheticImage builds an image standing for no input node of its own.
func (e *Exporter) syntheticImage(src, alt, caption, link, size string) *Block {
	b := e.image(builder.SyntheticTrace(), link, size)
	b.compose(imageMarkup(b.Attrs, e.mediaURL(src), alt, caption, link, size), "")
	return b
}

func provider(src string) string {
	lower := strings.ToLower(src)
	for _, p := range embedProviders {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

// embed converts a provider video to an oEmbed block.
func (e *Exporter) embed(a *builder.Analysis, src, provider string) *Block {
	b := newBlock(BlockEmbed, a.Trace())
	b.Attrs["url"] = src
	b.Attrs["type"] = "video"
	b.Attrs["providerNameSlug"] = provider
	b.Attrs["responsive"] = true
	b.Attrs["className"] = "wp-embed-aspect-16-9 wp-has-aspect-ratio"
	e.applyStyle(b.Attrs, a, supportSpacing)
	classes, css := decorate(fmt.Sprintf("wp-block-embed is-type-video is-provider-%s wp-block-embed-%s", provider, provider), b.Attrs)
	b.compose(fmt.Sprintf("<figure%s%s><div class=\"wp-block-embed__wrapper\">\n%s\n</div>", anchorAttr(b.Attrs), htmlAttrs(classes, css), escape(src)), "</figure>")
	return b
}

func paragraph(content string) *Block {
	b := newBlock(BlockParagraph, builder.SyntheticTrace())
	b.compose("<p>"+content, "</p>")
	return b
}

func heading(level int, text string) *Block {
	b := newBlock(BlockHeading, builder.SyntheticTrace())
	b.Attrs["level"] = level
	b.compose(fmt.Sprintf(`<h%d class="wp-block-heading">%s`, level, escape(text)), fmt.Sprintf("</h%d>", level))
	return b
}

func listItem(content string) *Block {
	b := newBlock(BlockListItem, builder.SyntheticTrace())
	b.compose("<li>"+content, "</li>")
	return b
}

func list(items []string, className string) *Block {
	b := newBlock(BlockList, builder.SyntheticTrace())
	b.Attrs.Set("className", className)
	for _, it := range items {
		b.InnerBlocks = append(b.InnerBlocks, listItem(it))
	}
	classes, _ := decorate("wp-block-list", b.Attrs)
	b.compose("<ul"+htmlAttrs(classes, "")+">", "</ul>")
	return b
}

func buttons(text, href string) *Block {
	btn := newBlock(BlockButton, builder.SyntheticTrace())
	btn.compose(buttonMarkup(btn.Attrs, href, text), "")
	wrap := newBlock(BlockButtons, builder.SyntheticTrace())
	wrap.InnerBlocks = append(wrap.InnerBlocks, btn)
	wrap.compose(`<div class="wp-block-buttons">`, `</div>`)
	return wrap
}

// listItems returns the escaped inner markup of each list item, keeping
// item links.
func listItems(n *component.ComponentInfo) []string {
	var out []string
	for _, li := range n.Find(component.IsTag("li", "dt", "dd")) {
		text := li.Text()
		if text == "" {
			continue
		}
		if a := li.FindFirst(component.IsTag("a")); a != nil && a.Attr("href") != "" {
			out = append(out, linkHTML(a.Attr("href"), escape(text), a))
			continue
		}
		out = append(out, escape(text))
	}
	if len(out) == 0 && n.InnerHTML != "" {
		for _, t := range strings.Split(builder.PlainText(n.InnerHTML), "\n") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, escape(t))
			}
		}
	}
	return out
}

func linkHTML(href, inner string, node *component.ComponentInfo) string {
	attrs := ` href="` + escape(href) + `"`
	if node != nil && node.Attr("target") == "_blank" {
		attrs += ` target="_blank" rel="noreferrer noopener"`
	}
	return "<a" + attrs + ">" + inner + "</a>"
}

// rawHTML rebuilds the markup of embeds, maps, forms and icons for a
// custom HTML block.
func rawHTML(a *builder.Analysis) string {
	n := a.Node
	switch n.Tag() {
	case "iframe":
		return fmt.Sprintf(`<iframe src="%s" width="100%%" height="%s" frameborder="0" allowfullscreen></iframe>`,
			escape(n.Attr("src")), firstNonEmpty(n.Attr("height"), "400"))
	case "i", "span":
		if n.InnerHTML == "" {
			return fmt.Sprintf(`<%s class="%s" aria-hidden="true"></%s>`, n.Tag(), escape(n.ClassName), n.Tag())
		}
	}
	if n.InnerHTML != "" && n.Tag() != "" {
		return fmt.Sprintf("<%s>%s</%s>", n.Tag(), n.InnerHTML, n.Tag())
	}
	if n.InnerHTML != "" {
		return n.InnerHTML
	}
	return escape(a.Text())
}

// specialized converts a detected widget with its dedicated conversion.
func (e *Exporter) specialized(a *builder.Analysis) *Block {
	w := a.Widget
	switch w.Kind {
	case widgets.KindIcon:
		return e.icon(a, w.Icon)
	case widgets.KindIconList:
		return e.iconList(a, w.IconList)
	case widgets.KindGallery:
		return e.gallery(a, w.Gallery)
	case widgets.KindCarousel:
		return e.carousel(a, w.Carousel)
	case widgets.KindTestimonial:
		return e.testimonial(a, w.Testimonial)
	case widgets.KindPricing:
		return e.pricing(a, w.Pricing)
	}
	return e.content(a)
}

func (e *Exporter) icon(a *builder.Analysis, w *widgets.IconWidget) *Block {
	b := newBlock(BlockHTML, a.Trace())
	b.Attrs["metadata"] = builder.Settings{"name": "Icon"}
	markup := w.SVG
	if w.Library != widgets.LibrarySVG || markup == "" {
		markup = fmt.Sprintf(`<i class="%s" aria-hidden="true"></i>`, escape(w.Name))
	}
	if w.Label != "" {
		markup += `<span class="screen-reader-text">` + escape(w.Label) + "</span>"
	}
	if w.Link != "" {
		markup = linkHTML(w.Link, markup, nil)
	}
	var css []string
	if w.Color != "" {
		if c, ok := e.registry.Color(w.Color); ok {
			css = append(css, "color:"+c.Value)
		}
	}
	if w.Size != nil {
		css = append(css, "font-size:"+w.Size.String())
	}
	b.compose(`<span class="wp-icon"`+styleAttr(strings.Join(css, ";"))+">"+markup+"</span>", "")
	return b
}

func styleAttr(css string) string {
	if css == "" {
		return ""
	}
	return ` style="` + escape(css) + `"`
}

func (e *Exporter) iconList(a *builder.Analysis, w *widgets.IconListWidget) *Block {
	var items []string
	for _, it := range w.Items {
		text := escape(it.Text)
		if it.Link != "" {
			text = linkHTML(it.Link, text, nil)
		}
		items = append(items, text)
	}
	className := "is-style-icon-list"
	if w.Inline {
		className += " is-inline"
	}
	b := list(items, className)
	b.Trace = a.Trace()
	b.Attrs["metadata"] = builder.Settings{"name": "Icon list"}
	classes, _ := decorate("wp-block-list", b.Attrs)
	b.compose("<ul"+htmlAttrs(classes, "")+">", "</ul>")
	return b
}

func (e *Exporter) gallery(a *builder.Analysis, w *widgets.GalleryWidget) *Block {
	b := newBlock(BlockGallery, a.Trace())
	b.Attrs["columns"] = w.Columns
	b.Attrs["imageCrop"] = w.Layout == "grid"
	b.Attrs["sizeSlug"] = "large"
	b.Attrs["linkTo"] = "none"
	if w.Lightbox {
		b.Attrs["linkTo"] = "media"
	}
	if w.Layout != "grid" {
		b.Attrs["className"] = "is-style-" + w.Layout
	}
	if w.Gap != nil {
		b.Attrs["style"] = builder.Settings{"spacing": builder.Settings{"blockGap": w.Gap.String()}}
	}
	for _, img := range w.Images {
		link := img.Link
		if w.Lightbox && link == "" {
			link = e.mediaURL(img.URL)
		}
		b.InnerBlocks = append(b.InnerBlocks, e.syntheticImage(img.URL, img.Alt, img.Caption, link, "large"))
	}
	e.effects(b.Attrs, a, builder.Settings{})
	base := fmt.Sprintf("wp-block-gallery has-nested-images columns-%d", w.Columns)
	if w.Layout == "grid" {
		base += " is-cropped"
	}
	classes, css := decorate(base, b.Attrs)
	b.compose("<figure"+htmlAttrs(classes, css)+">", "</figure>")
	return b
}

func (e *Exporter) carousel(a *builder.Analysis, w *widgets.CarouselWidget) *Block {
	options := builder.Settings{
		"autoplay":     w.Autoplay,
		"loop":         w.Loop,
		"arrows":       w.Arrows,
		"dots":         w.Dots,
		"slidesToShow": w.SlidesToShow,
		"effect":       w.Effect,
	}
	if w.AutoplaySpeedMs > 0 {
		options["autoplaySpeed"] = w.AutoplaySpeedMs
	}

	if w.ImageOnly {
		b := newBlock(BlockGallery, a.Trace())
		b.Attrs["columns"] = 1
		b.Attrs["linkTo"] = "none"
		b.Attrs["className"] = "is-style-carousel"
		b.Attrs["metadata"] = builder.Settings{"name": "Carousel", "carousel": options}
		for _, s := range w.Slides {
			b.InnerBlocks = append(b.InnerBlocks, e.syntheticImage(s.ImageURL, s.ImageAlt, "", "", "large"))
		}
		classes, css := decorate("wp-block-gallery has-nested-images columns-1", b.Attrs)
		b.compose("<figure"+htmlAttrs(classes, css)+">", "</figure>")
		return b
	}

	b := newBlock(BlockGroup, a.Trace())
	b.Attrs["className"] = "is-style-carousel"
	b.Attrs["metadata"] = builder.Settings{"name": "Slides", "carousel": options}
	b.Attrs["layout"] = builder.Settings{"type": "flex", "flexWrap": "nowrap"}
	for _, s := range w.Slides {
		slide := newBlock(BlockGroup, builder.SyntheticTrace())
		slide.Attrs["className"] = "carousel-slide"
		slide.Attrs["layout"] = builder.Settings{"type": "constrained"}
		if s.ImageURL != "" {
			slide.InnerBlocks = append(slide.InnerBlocks, e.syntheticImage(s.ImageURL, s.ImageAlt, "", "", "large"))
		}
		if s.Heading != "" {
			slide.InnerBlocks = append(slide.InnerBlocks, heading(2, s.Heading))
		}
		if s.Text != "" {
			slide.InnerBlocks = append(slide.InnerBlocks, paragraph(escape(s.Text)))
		}
		if s.ButtonText != "" {
			slide.InnerBlocks = append(slide.InnerBlocks, buttons(s.ButtonText, s.ButtonURL))
		}
		slide.compose(`<div class="wp-block-group carousel-slide">`, "</div>")
		b.InnerBlocks = append(b.InnerBlocks, slide)
	}
	classes, css := decorate("wp-block-group", b.Attrs)
	b.compose("<div"+htmlAttrs(classes, css)+">", "</div>")
	return b
}

func (e *Exporter) testimonial(a *builder.Analysis, w *widgets.TestimonialWidget) *Block {
	b := newBlock(BlockQuote, a.Trace())
	b.Attrs["className"] = "is-style-testimonial"
	meta := builder.Settings{"name": "Testimonial"}
	if w.Rating > 0 {
		meta["rating"] = w.Rating
	}
	b.Attrs["metadata"] = meta
	if w.ImageURL != "" {
		b.InnerBlocks = append(b.InnerBlocks, e.syntheticImage(w.ImageURL, w.Name, "", "", "thumbnail"))
	}
	b.InnerBlocks = append(b.InnerBlocks, paragraph(escape(w.Content)))
	e.applyStyle(b.Attrs, a, supportColor|supportSpacing|supportBorder)

	var cite []string
	for _, s := range []string{w.Name, w.Title, w.Company} {
		if s != "" {
			cite = append(cite, escape(s))
		}
	}
	closing := "</blockquote>"
	if len(cite) > 0 {
		closing = "<cite>" + strings.Join(cite, ", ") + "</cite></blockquote>"
	}
	classes, css := decorate("wp-block-quote", b.Attrs)
	b.compose("<blockquote"+htmlAttrs(classes, css)+">", closing)
	return b
}

func (e *Exporter) pricing(a *builder.Analysis, w *widgets.PricingWidget) *Block {
	b := newBlock(BlockGroup, a.Trace())
	className := "is-style-pricing-table"
	if w.Featured {
		className += " is-featured"
	}
	b.Attrs["className"] = className
	b.Attrs["metadata"] = builder.Settings{"name": "Pricing table"}
	b.Attrs["layout"] = builder.Settings{"type": "flex", "orientation": "vertical"}

	if w.Ribbon != "" {
		r := paragraph(escape(w.Ribbon))
		r.Attrs["className"] = "pricing-ribbon"
		r.compose(`<p class="pricing-ribbon">`+escape(w.Ribbon), "</p>")
		b.InnerBlocks = append(b.InnerBlocks, r)
	}
	if w.Heading != "" {
		b.InnerBlocks = append(b.InnerBlocks, heading(3, w.Heading))
	}
	if w.SubHeading != "" {
		b.InnerBlocks = append(b.InnerBlocks, paragraph(escape(w.SubHeading)))
	}
	price := "<strong>" + escape(w.Currency+w.Price) + "</strong>"
	if w.Period != "" {
		price += " / " + escape(w.Period)
	}
	b.InnerBlocks = append(b.InnerBlocks, paragraph(price))
	if len(w.Features) > 0 {
		var items []string
		for _, f := range w.Features {
			if f.Included {
				items = append(items, escape(f.Text))
			} else {
				items = append(items, "<s>"+escape(f.Text)+"</s>")
			}
		}
		b.InnerBlocks = append(b.InnerBlocks, list(items, "pricing-features"))
	}
	if w.ButtonText != "" {
		b.InnerBlocks = append(b.InnerBlocks, buttons(w.ButtonText, w.ButtonURL))
	}
	e.applyStyle(b.Attrs, a, supportGroup&^supportLayout)
	classes, css := decorate("wp-block-group", b.Attrs)
	b.compose("<div"+htmlAttrs(classes, css)+">", "</div>")
	return b
}
