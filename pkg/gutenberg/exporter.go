package gutenberg

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/tokens"
)

// PatternNamespace prefixes pattern names.
const PatternNamespace = "wpexport"

// Exporter converts pages to blocks. The palette registry, id generator and
// stylesheet live on the exporter; an Exporter must not be used by
// concurrent exports.
type Exporter struct {
	opts     builder.Options
	naming   builder.Naming
	registry *builder.Registry
	ids      *builder.IDGenerator
	posts    *builder.Counter
	refs     *tokens.References
	css      []string
	log      *slog.Logger
}

// New creates a Gutenberg exporter.
func New(opts builder.Options) *Exporter {
	opts = opts.Normalize()
	e := &Exporter{
		opts:   opts,
		naming: builder.NamingFor(builder.TargetGutenberg),
		log:    opts.Logger.With("target", string(builder.TargetGutenberg)),
		registry: builder.NewRegistry(
			func(n int) string { return fmt.Sprintf("custom-color-%d", n) },
			func(n int) string { return fmt.Sprintf("custom-font-%d", n) },
		),
		posts: builder.NewCounter(1),
	}
	e.Reset()
	return e
}

// Reset clears the registries, the stylesheet and id generation.
func (e *Exporter) Reset() {
	e.registry.Reset()
	e.ids = builder.NewIDGenerator(string(builder.TargetGutenberg), 6)
	e.posts.Reset()
	e.refs = nil
	e.css = nil
}

// Export converts page. The exporter is reset first.
func (e *Exporter) Export(page *component.Page) *Document {
	e.Reset()
	doc := &Document{Blocks: []*Block{}, page: builder.SyntheticTrace()}
	if page == nil {
		doc.GlobalStyles = e.globalStyles()
		return doc
	}
	doc.Title = page.Title
	e.refs = tokens.Build(page.Palette, page.Typography)
	e.registry.Seed(e.refs)

	tops, pageTrace := builder.Unwrap(page.Root)
	doc.page = pageTrace
	doc.Blocks = e.blocks(tops, "")

	for _, p := range e.opts.Thresholds.Promote(page.Library) {
		tpl := p.Template
		blocks := e.blocks([]builder.TopLevel{{Node: tpl.Component, Path: "0"}}, "")
		title := firstNonEmpty(tpl.Name, tokens.Title(tpl.ID))
		if p.Global {
			doc.ReusableBlocks = append(doc.ReusableBlocks, ReusableBlock{
				ID:       e.posts.Next(),
				Title:    title,
				PostType: "wp_block",
				Status:   "publish",
				Content:  e.markup(blocks),
				Blocks:   blocks,
			})
			continue
		}
		category := firstNonEmpty(tokens.Slugify(tpl.Category), PatternNamespace)
		doc.Patterns = append(doc.Patterns, Pattern{
			Name:       PatternNamespace + "/" + tokens.Slugify(firstNonEmpty(tpl.Name, tpl.ID)),
			Title:      title,
			Categories: []string{category},
			Content:    e.markup(blocks),
			Blocks:     blocks,
		})
	}

	for _, part := range e.opts.Thresholds.Parts(page.Parts) {
		blocks := e.blocks([]builder.TopLevel{{Node: part.Component, Path: "0"}}, "")
		area := string(part.Kind)
		if part.Kind == component.PartSidebar {
			area = "uncategorized"
		}
		doc.TemplateParts = append(doc.TemplateParts, TemplatePart{
			Slug:    string(part.Kind),
			Title:   tokens.Title(string(part.Kind)),
			Area:    area,
			Content: e.markup(blocks),
			Blocks:  blocks,
		})
	}

	doc.GlobalStyles = e.globalStyles()
	e.log.Debug("gutenberg export complete",
		"blocks", len(doc.Blocks),
		"palette", len(doc.GlobalStyles.Settings.Color.Palette),
		"patterns", len(doc.Patterns),
		"reusable", len(doc.ReusableBlocks))
	return doc
}

func (e *Exporter) markup(blocks []*Block) string {
	out, err := Markup(blocks)
	if err != nil {
		e.log.Warn("failed to serialize blocks", "error", err)
		return ""
	}
	return out
}

func (e *Exporter) globalStyles() GlobalStyles {
	gs := GlobalStyles{
		Schema:  ThemeJSONSchema,
		Version: ThemeJSONVersion,
		Settings: ThemeSettings{
			Color:      ColorSettings{Palette: []PaletteColor{}},
			Typography: TypographySettings{FontFamilies: []FontFamily{}},
		},
	}
	for _, c := range e.registry.Colors() {
		gs.Settings.Color.Palette = append(gs.Settings.Color.Palette, PaletteColor{Slug: c.ID, Name: c.Title, Color: c.Value})
	}
	for _, f := range e.registry.Fonts() {
		gs.Settings.Typography.FontFamilies = append(gs.Settings.Typography.FontFamilies, FontFamily{Slug: f.ID, Name: f.Title, FontFamily: f.Family})
	}
	for _, t := range e.refs.Tokens(tokens.KindSize) {
		gs.Settings.Typography.FontSizes = append(gs.Settings.Typography.FontSizes, FontSize{Slug: t.ID, Name: t.Name, Size: t.Value})
	}
	gs.Styles.CSS = strings.Join(e.css, "\n")
	return gs
}

func (e *Exporter) analyze(c *component.ComponentInfo, path string) *builder.Analysis {
	return builder.Analyze(c, path, e.refs, e.opts)
}

func newBlock(name string, trace builder.Trace) *Block {
	return &Block{Trace: trace, Name: name, Attrs: builder.Settings{}, InnerBlocks: []*Block{}}
}

// blocks converts sibling nodes. Runs of buttons share one core/buttons
// wrapper, since a button block cannot stand alone.
func (e *Exporter) blocks(nodes []builder.TopLevel, parent string) []*Block {
	out := []*Block{}
	var run *Block
	for _, n := range nodes {
		a := e.analyze(n.Node, n.Path)
		if a.Widget == nil && a.Kind == builder.KindButton {
			if run == nil {
				run = newBlock(BlockButtons, builder.SyntheticTrace())
				out = append(out, run)
			}
			run.InnerBlocks = append(run.InnerBlocks, e.button(a))
			continue
		}
		if run != nil {
			e.finishButtons(run)
			run = nil
		}
		out = append(out, e.block(a, parent))
	}
	if run != nil {
		e.finishButtons(run)
	}
	return out
}

func (e *Exporter) finishButtons(b *Block) {
	if len(b.InnerBlocks) > 1 {
		b.Attrs.Set("layout", builder.Settings{"type": "flex"})
	}
	b.compose(`<div class="wp-block-buttons">`, `</div>`)
}

// block converts one node: a specialized widget, a content block, or a
// container holding its children.
func (e *Exporter) block(a *builder.Analysis, parent string) *Block {
	if a.Widget != nil {
		return e.specialized(a)
	}
	if a.IsWidget() {
		if a.Kind == builder.KindButton {
			b := newBlock(BlockButtons, builder.SyntheticTrace())
			b.InnerBlocks = append(b.InnerBlocks, e.button(a))
			e.finishButtons(b)
			return b
		}
		return e.content(a)
	}
	return e.container(a, parent)
}

// container converts a structural node. Explicit rows become core/columns;
// everything else is a group whose layout follows the node's flex or grid
// settings.
func (e *Exporter) container(a *builder.Analysis, parent string) *Block {
	children := builder.Children(a.Node, a.Path)
	switch {
	case a.Kind == builder.KindRow && len(children) > 0, allColumns(a.Node):
		return e.columns(a, children)
	case a.Kind == builder.KindColumn && parent == BlockColumns:
		return e.column(a, a.Trace(), children)
	case a.Background.ImageURL != "":
		return e.cover(a, children)
	}
	return e.group(a, children)
}

func allColumns(c *component.ComponentInfo) bool {
	if len(c.Children) == 0 {
		return false
	}
	for _, child := range c.Children {
		if builder.Classify(child) != builder.KindColumn {
			return false
		}
	}
	return true
}

var groupTags = map[string]bool{
	"section": true, "header": true, "footer": true, "main": true,
	"article": true, "aside": true,
}

func (e *Exporter) group(a *builder.Analysis, children []builder.TopLevel) *Block {
	b := newBlock(BlockGroup, a.Trace())
	tag := "div"
	if t := a.Node.Tag(); groupTags[t] {
		tag = t
		b.Attrs.Set("tagName", t)
	}
	b.Attrs.Set("layout", layout(a))
	if w := a.Layout.Width; w != nil && w.Unit == "%" && w.Value >= 100 && a.Kind == builder.KindSection {
		b.Attrs.Set("align", "full")
	}
	e.applyStyle(b.Attrs, a, supportGroup)
	b.InnerBlocks = e.blocks(children, BlockGroup)

	classes, css := decorate("wp-block-group", b.Attrs)
	b.compose(fmt.Sprintf("<%s%s%s>", tag, anchorAttr(b.Attrs), htmlAttrs(classes, css)), "</"+tag+">")
	return b
}

var justify = map[string]string{
	"flex-start":    "left",
	"start":         "left",
	"center":        "center",
	"flex-end":      "right",
	"end":           "right",
	"space-between": "space-between",
}

var verticalAlign = map[string]string{
	"flex-start": "top",
	"start":      "top",
	"center":     "center",
	"flex-end":   "bottom",
	"end":        "bottom",
	"stretch":    "stretch",
}

// layout maps flex and grid containers onto the group layout types.
func layout(a *builder.Analysis) builder.Settings {
	l := a.Layout
	switch {
	case l.IsGrid():
		out := builder.Settings{"type": "grid"}
		if l.GridColumns > 0 {
			out["columnCount"] = l.GridColumns
		}
		return out
	case l.IsFlex():
		out := builder.Settings{"type": "flex"}
		if strings.HasPrefix(l.Direction, "column") {
			out["orientation"] = "vertical"
		}
		if !l.Wrap {
			out["flexWrap"] = "nowrap"
		}
		out.Set("justifyContent", justify[l.JustifyContent])
		out.Set("verticalAlignment", verticalAlign[l.AlignItems])
		return out
	}
	out := builder.Settings{"type": "constrained"}
	if l.MaxWidth != nil && l.MaxWidth.Unit == "px" {
		out["contentSize"] = l.MaxWidth.String()
	}
	return out
}

// columns converts a row. Children that are not columns get a synthetic
// column of their own.
func (e *Exporter) columns(a *builder.Analysis, children []builder.TopLevel) *Block {
	b := newBlock(BlockColumns, a.Trace())
	b.Attrs.Set("verticalAlignment", verticalAlign[a.Layout.AlignItems])
	e.applyStyle(b.Attrs, a, supportGroup&^supportLayout)
	for _, child := range children {
		ca := e.analyze(child.Node, child.Path)
		if ca.Kind == builder.KindColumn && ca.Widget == nil {
			b.InnerBlocks = append(b.InnerBlocks, e.column(ca, ca.Trace(), builder.Children(ca.Node, ca.Path)))
			continue
		}
		col := newBlock(BlockColumn, builder.SyntheticTrace())
		col.InnerBlocks = e.blocks([]builder.TopLevel{child}, BlockColumn)
		col.compose(`<div class="wp-block-column">`, `</div>`)
		b.InnerBlocks = append(b.InnerBlocks, col)
	}
	classes, css := decorate("wp-block-columns", b.Attrs)
	b.compose("<div"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">", "</div>")
	return b
}

func (e *Exporter) column(a *builder.Analysis, trace builder.Trace, children []builder.TopLevel) *Block {
	b := newBlock(BlockColumn, trace)
	if w, ok := a.ColumnWidth(); ok {
		b.Attrs.Set("width", style.FormatNumber(w)+"%")
	}
	b.Attrs.Set("verticalAlignment", verticalAlign[a.Layout.JustifyContent])
	e.applyStyle(b.Attrs, a, supportGroup&^supportLayout)
	b.InnerBlocks = e.blocks(children, BlockColumn)

	classes, css := decorate("wp-block-column", b.Attrs)
	if w, _ := b.Attrs["width"].(string); w != "" {
		css = strings.Trim("flex-basis:"+w+";"+css, ";")
	}
	b.compose("<div"+anchorAttr(b.Attrs)+htmlAttrs(classes, css)+">", "</div>")
	return b
}

// cover converts a container with a background image.
func (e *Exporter) cover(a *builder.Analysis, children []builder.TopLevel) *Block {
	b := newBlock(BlockCover, a.Trace())
	url := e.mediaURL(a.Background.ImageURL)
	b.Attrs.Set("url", url)
	dim := 0
	if a.Background.Color != "" {
		if c, ok := e.registry.Color(a.Background.Color); ok {
			b.Attrs.Set("customOverlayColor", c.Value)
			dim = 50
		}
	}
	b.Attrs["dimRatio"] = dim
	if a.Layout.MinHeight != nil {
		b.Attrs.Set("minHeight", a.Layout.MinHeight.Value)
		b.Attrs.Set("minHeightUnit", a.Layout.MinHeight.Unit)
	}
	if a.Background.Attachment == "fixed" || (a.Motion != nil && len(a.Motion.Scroll) > 0) {
		b.Attrs.Set("hasParallax", true)
	}
	tag := "div"
	if t := a.Node.Tag(); groupTags[t] {
		tag = t
		b.Attrs.Set("tagName", t)
	}
	b.Attrs.Set("layout", builder.Settings{"type": "constrained"})
	e.applyStyle(b.Attrs, a, supportSpacing|supportBorder|supportTypography)
	b.InnerBlocks = e.blocks(children, BlockCover)

	classes, css := decorate("wp-block-cover", b.Attrs)
	if a.Layout.MinHeight != nil {
		css = strings.Trim("min-height:"+a.Layout.MinHeight.String()+";"+css, ";")
	}
	overlay := fmt.Sprintf(`<span aria-hidden="true" class="wp-block-cover__background has-background-dim-%d has-background-dim"`, dim)
	if c, _ := b.Attrs["customOverlayColor"].(string); c != "" {
		overlay += ` style="background-color:` + c + `"`
	}
	overlay += "></span>"
	img := fmt.Sprintf(`<img class="wp-block-cover__image-background" alt="" src="%s" data-object-fit="cover"/>`, escape(url))
	open := fmt.Sprintf("<%s%s%s>%s%s<div class=\"wp-block-cover__inner-container\">", tag, anchorAttr(b.Attrs), htmlAttrs(classes, css), overlay, img)
	b.compose(open, "</div></"+tag+">")
	return b
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

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
