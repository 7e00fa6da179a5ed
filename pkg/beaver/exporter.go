package beaver

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/tokens"
)

// NodeIDLength is the length of generated node ids.
const NodeIDLength = 13

// Saved node types.
const (
	SavedRow    = "row"
	SavedModule = "module"
)

// Exporter converts pages to Beaver Builder documents. Registries, node id
// generation and the layout CSS live on the exporter; an Exporter must not
// be used by concurrent exports.
type Exporter struct {
	opts     builder.Options
	naming   builder.Naming
	registry *builder.Registry
	ids      *builder.IDGenerator
	posts    *builder.Counter
	refs     *tokens.References
	rules    []string
	ruleSet  map[string]bool
	log      *slog.Logger
}

// New creates a Beaver Builder exporter.
func New(opts builder.Options) *Exporter {
	opts = opts.Normalize()
	e := &Exporter{
		opts:   opts,
		naming: builder.NamingFor(builder.TargetBeaver),
		log:    opts.Logger.With("target", string(builder.TargetBeaver)),
		registry: builder.NewRegistry(
			func(n int) string { return fmt.Sprintf("custom-color-%d", n) },
			func(n int) string { return fmt.Sprintf("custom-font-%d", n) },
		),
		ids:   builder.NewIDGenerator(string(builder.TargetBeaver), NodeIDLength),
		posts: builder.NewCounter(1),
	}
	e.Reset()
	return e
}

// Reset clears the registries, issued node ids, the layout CSS and saved
// node numbering.
func (e *Exporter) Reset() {
	e.registry.Reset()
	e.ids.Reset()
	e.posts.Reset()
	e.refs = nil
	e.rules = nil
	e.ruleSet = make(map[string]bool)
}

// tree collects nodes for one layout and tracks the next position under
// each parent.
type tree struct {
	nodes Layout
	next  map[string]int
}

func newTree() *tree {
	return &tree{nodes: Layout{}, next: make(map[string]int)}
}

// Export converts page. The exporter is reset first.
func (e *Exporter) Export(page *component.Page) *Document {
	e.Reset()
	doc := &Document{Nodes: Layout{}, page: builder.SyntheticTrace()}
	if page == nil {
		e.finish(doc)
		return doc
	}
	doc.Title = page.Title
	e.refs = tokens.Build(page.Palette, page.Typography)
	e.registry.Seed(e.refs)

	t := newTree()
	tops, pageTrace := builder.Unwrap(page.Root)
	doc.page = pageTrace
	for _, top := range tops {
		e.topLevel(t, top.Node, top.Path)
	}
	doc.Nodes = t.nodes

	for _, p := range e.opts.Thresholds.Promote(page.Library) {
		tpl := p.Template
		nodes, kind := e.saved(tpl.Component)
		doc.Saved = append(doc.Saved, Saved{
			ID:     e.posts.Next(),
			Title:  firstNonEmpty(tpl.Name, tokens.Title(tpl.ID)),
			Type:   kind,
			Global: p.Global,
			Nodes:  nodes,
		})
	}
	for _, part := range e.opts.Thresholds.Parts(page.Parts) {
		pt := newTree()
		e.topLevel(pt, part.Component, "0")
		doc.Themer = append(doc.Themer, Themer{
			ID:        e.posts.Next(),
			Title:     tokens.Title(string(part.Kind)),
			Type:      themerType(part.Kind),
			Locations: []string{"general:site"},
			Nodes:     pt.nodes,
		})
	}

	e.finish(doc)
	e.log.Debug("beaver builder export complete",
		"nodes", len(doc.Nodes),
		"colors", len(doc.GlobalStyles.Colors),
		"saved", len(doc.Saved),
		"themer", len(doc.Themer))
	return doc
}

// themerType maps a page part to a themer layout type.
func themerType(kind component.PartKind) string {
	switch kind {
	case component.PartHeader, component.PartFooter:
		return string(kind)
	}
	return "part"
}

// saved converts a library component. Widgets become saved modules,
// anything else a saved row.
func (e *Exporter) saved(c *component.ComponentInfo) (Layout, string) {
	t := newTree()
	a := e.analyze(c, "0")
	if a.IsWidget() {
		e.module(t, a, "")
		return t.nodes, SavedModule
	}
	e.row(t, a)
	return t.nodes, SavedRow
}

// finish copies the registries and layout CSS into the document.
func (e *Exporter) finish(doc *Document) {
	doc.GlobalStyles = GlobalStyles{Colors: []GlobalColor{}, Fonts: []GlobalFont{}}
	for _, c := range e.registry.Colors() {
		doc.GlobalStyles.Colors = append(doc.GlobalStyles.Colors, GlobalColor{
			UID:   c.ID,
			Label: c.Title,
			Color: e.naming.Color(c.Value),
		})
	}
	for _, f := range e.registry.Fonts() {
		doc.GlobalStyles.Fonts = append(doc.GlobalStyles.Fonts, GlobalFont{UID: f.ID, Label: f.Title, Family: f.Family})
	}
	doc.Settings.CSS = strings.Join(e.rules, "\n")
}

func (e *Exporter) analyze(c *component.ComponentInfo, path string) *builder.Analysis {
	return builder.Analyze(c, path, e.refs, e.opts)
}

// add creates a node under parent at the next free position.
func (e *Exporter) add(t *tree, typ string, trace builder.Trace, parent string) *Node {
	n := &Node{
		Trace:    trace,
		ID:       e.ids.Next(fmt.Sprintf("%s-%d", typ, len(t.nodes))),
		Type:     typ,
		Parent:   ParentRef(parent),
		Position: t.next[parent],
		Settings: builder.Settings{},
	}
	t.next[parent]++
	t.nodes[n.ID] = n
	return n
}

// topLevel places a node at the top of the layout. Only rows may sit
// there, so widgets get a synthetic row, column group and column.
func (e *Exporter) topLevel(t *tree, c *component.ComponentInfo, path string) {
	a := e.analyze(c, path)
	if !a.IsWidget() {
		e.row(t, a)
		return
	}
	e.log.Debug("wrapping top-level widget in default row", "path", path, "kind", a.Kind)
	row := e.add(t, NodeRow, builder.SyntheticTrace(), "")
	rowDefaults(row.Settings)
	group := e.add(t, NodeColumnGroup, builder.SyntheticTrace(), row.ID)
	col := e.column(t, builder.SyntheticTrace(), group.ID, 100)
	e.module(t, a, col.ID)
}

func rowDefaults(s builder.Settings) {
	s["width"] = "fixed"
	s["content_width"] = "fixed"
}

// row converts a structural node. Rows split into one column per child;
// anything else gets a single full-width column holding its children.
func (e *Exporter) row(t *tree, a *builder.Analysis) *Node {
	row := e.add(t, NodeRow, a.Trace(), "")
	rowDefaults(row.Settings)
	if a.Layout.Width != nil && a.Layout.Width.Unit == "%" && a.Layout.Width.Value >= 100 {
		row.Settings["width"] = "full"
	}
	e.decorate(row, a)
	if mw := a.Layout.MaxWidth; mw != nil {
		row.Settings["max_content_width"] = style.FormatNumber(mw.Value)
		row.Settings["max_content_width_unit"] = firstNonEmpty(mw.Unit, "px")
	}

	body, folded := builder.Fold(a, e.analyze)
	row.Consumed += folded
	if body != a && body.Background.Color != "" && a.Background.Color == "" {
		row.Settings.SetIfEmpty("bg_type", "color")
		e.color(row.Settings, "bg_color", body.Background.Color)
	}

	if body.IsRow() {
		e.columns(t, body, builder.SyntheticTrace(), row.ID)
		return row
	}
	group := e.add(t, NodeColumnGroup, builder.SyntheticTrace(), row.ID)
	col := e.column(t, builder.SyntheticTrace(), group.ID, 100)
	e.contents(t, body, col.ID)
	return row
}

// columns adds a column group under parent with one column per child.
func (e *Exporter) columns(t *tree, a *builder.Analysis, trace builder.Trace, parent string) *Node {
	group := e.add(t, NodeColumnGroup, trace, parent)
	children := builder.Children(a.Node, a.Path)
	for _, child := range children {
		e.columnFor(t, e.analyze(child.Node, child.Path), len(children), group.ID)
	}
	return group
}

// columnFor turns one child of a row into a column.
func (e *Exporter) columnFor(t *tree, a *builder.Analysis, siblings int, group string) {
	width := columnWidth(a, siblings)
	if a.IsWidget() {
		col := e.column(t, builder.SyntheticTrace(), group, width)
		e.module(t, a, col.ID)
		return
	}
	col := e.column(t, a.Trace(), group, width)
	e.decorate(col, a)
	if a.IsRow() {
		e.columns(t, a, builder.SyntheticTrace(), col.ID)
		return
	}
	e.contents(t, a, col.ID)
}

// column adds a column of the given percentage width.
func (e *Exporter) column(t *tree, trace builder.Trace, group string, width float64) *Node {
	col := e.add(t, NodeColumn, trace, group)
	col.Settings["size"] = width
	return col
}

// contents converts the children of a column. Widgets become modules.
// Columns cannot hold containers, so a structural child becomes a nested
// column group: rows keep their columns, anything else gets one column
// carrying its styles.
func (e *Exporter) contents(t *tree, a *builder.Analysis, col string) {
	for _, child := range builder.Children(a.Node, a.Path) {
		ca := e.analyze(child.Node, child.Path)
		switch {
		case ca.IsWidget():
			e.module(t, ca, col)
		case ca.IsRow():
			e.columns(t, ca, ca.Trace(), col)
		default:
			group := e.add(t, NodeColumnGroup, builder.SyntheticTrace(), col)
			inner := e.column(t, ca.Trace(), group.ID, 100)
			e.decorate(inner, ca)
			e.contents(t, ca, inner.ID)
		}
	}
}

func columnWidth(a *builder.Analysis, siblings int) float64 {
	if w, ok := a.ColumnWidth(); ok {
		return w
	}
	if siblings <= 0 {
		return 100
	}
	return math.Round(10000/float64(siblings)) / 100
}

// rule appends a layout CSS rule once.
func (e *Exporter) rule(css string) {
	if e.ruleSet[css] {
		return
	}
	e.ruleSet[css] = true
	e.rules = append(e.rules, css)
}

// nodeClass is the class Beaver Builder renders on every node.
func nodeClass(n *Node) string {
	return ".fl-node-" + n.ID
}

// addClass appends class names to the node's class setting.
func addClass(n *Node, names ...string) {
	existing, _ := n.Settings["class"].(string)
	fields := strings.Fields(existing)
	for _, name := range names {
		for _, f := range strings.Fields(name) {
			if !contains(fields, f) {
				fields = append(fields, f)
			}
		}
	}
	n.Settings.Set("class", strings.Join(fields, " "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

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
