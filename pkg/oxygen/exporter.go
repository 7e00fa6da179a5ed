package oxygen

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/tokens"
)

// StyleSheetName names the stylesheet the exporter writes rules to.
const StyleSheetName = "wpexport"

// Exporter converts pages to Oxygen documents. The color and font
// registries, class registry and stylesheet live on the exporter; an
// Exporter must not be used by concurrent exports.
type Exporter struct {
	opts     builder.Options
	naming   builder.Naming
	registry *builder.Registry
	posts    *builder.Counter
	refs     *tokens.References
	classes  map[string]Class
	rules    []string
	ruleSet  map[string]bool
	log      *slog.Logger
}

// New creates an Oxygen exporter.
func New(opts builder.Options) *Exporter {
	opts = opts.Normalize()
	e := &Exporter{
		opts:   opts,
		naming: builder.NamingFor(builder.TargetOxygen),
		log:    opts.Logger.With("target", string(builder.TargetOxygen)),
		registry: builder.NewRegistry(
			func(n int) string { return fmt.Sprintf("custom-color-%d", n) },
			func(n int) string { return fmt.Sprintf("custom-font-%d", n) },
		),
		posts: builder.NewCounter(1),
	}
	e.Reset()
	return e
}

// Reset clears the registries, the stylesheet and part numbering.
func (e *Exporter) Reset() {
	e.registry.Reset()
	e.posts.Reset()
	e.refs = nil
	e.classes = make(map[string]Class)
	e.rules = nil
	e.ruleSet = make(map[string]bool)
}

// Export converts page. The exporter is reset first.
func (e *Exporter) Export(page *component.Page) *Document {
	e.Reset()
	doc := &Document{Tree: newRoot(), page: builder.SyntheticTrace()}
	if page == nil {
		e.finish(doc)
		return doc
	}
	doc.Title = page.Title
	e.refs = tokens.Build(page.Palette, page.Typography)
	e.registry.Seed(e.refs)

	tops, pageTrace := builder.Unwrap(page.Root)
	doc.page = pageTrace
	for _, top := range tops {
		doc.Tree.add(e.topLevel(top.Node, top.Path))
	}
	number(doc.Tree)

	for _, p := range e.opts.Thresholds.Promote(page.Library) {
		tpl := p.Template
		doc.ReusableParts = append(doc.ReusableParts, ReusablePart{
			ID:     e.posts.Next(),
			Title:  firstNonEmpty(tpl.Name, tokens.Title(tpl.ID)),
			Type:   PartReusable,
			Global: p.Global,
			Tree:   e.tree(tpl.Component),
		})
	}
	for _, part := range e.opts.Thresholds.Parts(page.Parts) {
		doc.ReusableParts = append(doc.ReusableParts, ReusablePart{
			ID:    e.posts.Next(),
			Title: tokens.Title(string(part.Kind)),
			Type:  PartTemplate,
			Part:  string(part.Kind),
			Tree:  e.tree(part.Component),
		})
	}

	e.finish(doc)
	e.log.Debug("oxygen export complete",
		"components", len(doc.Tree.Children),
		"colors", len(doc.GlobalColors.Colors),
		"classes", len(doc.Classes),
		"parts", len(doc.ReusableParts))
	return doc
}

// tree converts a standalone component into its own numbered tree.
func (e *Exporter) tree(c *component.ComponentInfo) *Component {
	root := newRoot()
	root.add(e.topLevel(c, "0"))
	number(root)
	return root
}

// finish copies the registries into the document.
func (e *Exporter) finish(doc *Document) {
	doc.GlobalColors = GlobalColors{
		Colors: []GlobalColor{},
		Sets:   []ColorSet{{ID: 1, Name: "Global Colors"}},
	}
	for i, c := range e.registry.Colors() {
		doc.GlobalColors.Colors = append(doc.GlobalColors.Colors, GlobalColor{ID: i + 1, Name: c.Title, Value: c.Value, Set: 1})
	}
	doc.GlobalSettings = GlobalSettings{Fonts: map[string]string{}}
	for _, f := range e.registry.Fonts() {
		doc.GlobalSettings.Fonts[f.Title] = f.Family
	}
	doc.Classes = make(map[string]Class, len(e.classes))
	for k, c := range e.classes {
		doc.Classes[k] = c
	}
	doc.StyleSheets = []StyleSheet{}
	if len(e.rules) > 0 {
		doc.StyleSheets = append(doc.StyleSheets, StyleSheet{
			ID:     1,
			Name:   StyleSheetName,
			CSS:    strings.Join(e.rules, "\n"),
			Status: 1,
		})
	}
}

// number assigns ids in pre-order starting at 1 and writes the bookkeeping
// options Oxygen expects on every component.
func number(root *Component) {
	ids := builder.NewCounter(1)
	root.Walk(func(c, parent *Component) {
		if parent == nil {
			return
		}
		c.ID = ids.Next()
		c.Depth = parent.Depth + 1
		if c.Options == nil {
			c.Options = builder.Settings{}
		}
		c.Options["ct_id"] = c.ID
		c.Options["ct_parent"] = parent.ID
		s := strings.ReplaceAll(short(c.Name), "_", "-")
		c.Options.SetIfEmpty("selector", fmt.Sprintf("%s-%d", s, c.ID))
		c.Options["nicename"] = fmt.Sprintf("%s (#%d)", tokens.Title(short(c.Name)), c.ID)
	})
}

func (e *Exporter) analyze(c *component.ComponentInfo, path string) *builder.Analysis {
	return builder.Analyze(c, path, e.refs, e.opts)
}

func newComponent(name string, trace builder.Trace) *Component {
	return &Component{Trace: trace, Name: name, Options: builder.Settings{}}
}

// topLevel places a node at the top of the tree. Only sections may sit
// there, so widgets get a synthetic section and column.
func (e *Exporter) topLevel(c *component.ComponentInfo, path string) *Component {
	a := e.analyze(c, path)
	if a.IsWidget() {
		e.log.Debug("wrapping top-level widget in default section", "path", path, "kind", a.Kind)
		sec := newComponent(CtSection, builder.SyntheticTrace())
		col := e.column(builder.SyntheticTrace(), 100)
		col.add(e.widget(a))
		sec.add(col)
		return sec
	}
	return e.section(a)
}

// section converts a structural node. Rows become a ct_new_columns with
// one div block per child; anything else gets a single full-width div
// block holding its children.
func (e *Exporter) section(a *builder.Analysis) *Component {
	sec := newComponent(CtSection, a.Trace())
	e.decorate(sec, a)

	body, folded := builder.Fold(a, e.analyze)
	sec.Consumed += folded
	if body != a && body.Background.Color != "" && a.Background.Color == "" {
		e.color(original(sec.Options), "background-color", body.Background.Color)
	}

	if body.IsRow() {
		sec.add(e.columns(body, builder.SyntheticTrace()))
		return sec
	}
	col := e.column(builder.SyntheticTrace(), 100)
	col.add(e.contents(body)...)
	sec.add(col)
	return sec
}

// columns lays out the children of a row side by side.
func (e *Exporter) columns(a *builder.Analysis, trace builder.Trace) *Component {
	nc := newComponent(CtNewColumns, trace)
	children := builder.Children(a.Node, a.Path)
	for _, child := range children {
		nc.add(e.columnFor(e.analyze(child.Node, child.Path), len(children)))
	}
	if g := a.Layout.Gap; g != nil {
		setSize(original(nc.Options), "gap", g)
	}
	return nc
}

// columnFor turns one child of a row into a div block column.
func (e *Exporter) columnFor(a *builder.Analysis, siblings int) *Component {
	width := columnWidth(a, siblings)
	if a.IsWidget() {
		col := e.column(builder.SyntheticTrace(), width)
		col.add(e.widget(a))
		return col
	}
	col := e.div(a)
	o := original(col.Options)
	o["width"] = style.FormatNumber(width)
	o["width-unit"] = "%"
	return col
}

// column is a synthetic div block of the given percentage width.
func (e *Exporter) column(trace builder.Trace, width float64) *Component {
	col := newComponent(CtDivBlock, trace)
	col.Options["original"] = builder.Settings{
		"width":      style.FormatNumber(width),
		"width-unit": "%",
	}
	return col
}

// div converts a nested structural node.
func (e *Exporter) div(a *builder.Analysis) *Component {
	d := newComponent(CtDivBlock, a.Trace())
	e.decorate(d, a)
	if a.IsRow() {
		d.add(e.columns(a, builder.SyntheticTrace()))
		return d
	}
	d.add(e.contents(a)...)
	return d
}

// contents converts the children of a container: widgets stay widgets,
// structural children become div blocks.
func (e *Exporter) contents(a *builder.Analysis) []*Component {
	var out []*Component
	for _, child := range builder.Children(a.Node, a.Path) {
		ca := e.analyze(child.Node, child.Path)
		if ca.IsWidget() {
			out = append(out, e.widget(ca))
			continue
		}
		out = append(out, e.div(ca))
	}
	return out
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

// addClass registers class names in the class registry and references them
// from the component.
func (e *Exporter) addClass(c *Component, names ...string) {
	existing, _ := c.Options["classes"].([]any)
	for _, n := range names {
		for _, name := range strings.Fields(n) {
			if _, ok := e.classes[name]; !ok {
				e.classes[name] = Class{Key: name, Original: builder.Settings{}}
			}
			existing = append(existing, name)
		}
	}
	c.Options.Set("classes", existing)
}

// rule appends a stylesheet rule once.
func (e *Exporter) rule(css string) {
	if e.ruleSet[css] {
		return
	}
	e.ruleSet[css] = true
	e.rules = append(e.rules, css)
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

// classKeys returns the registry keys in sorted order.
func classKeys(m map[string]Class) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
