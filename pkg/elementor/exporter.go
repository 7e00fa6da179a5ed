package elementor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/tokens"
)

// Exporter converts pages to Elementor documents. The global color and font
// registries and the id generator live on the exporter; an Exporter must
// not be used by concurrent exports.
type Exporter struct {
	opts     builder.Options
	naming   builder.Naming
	registry *builder.Registry
	ids      *builder.IDGenerator
	refs     *tokens.References
	log      *slog.Logger
}

// New creates an Elementor exporter.
func New(opts builder.Options) *Exporter {
	opts = opts.Normalize()
	e := &Exporter{
		opts:   opts,
		naming: builder.NamingFor(builder.TargetElementor),
		log:    opts.Logger.With("target", string(builder.TargetElementor)),
		registry: builder.NewRegistry(
			func(n int) string { return fmt.Sprintf("custom-color-%d", n) },
			func(n int) string { return fmt.Sprintf("custom-font-%d", n) },
		),
	}
	e.Reset()
	return e
}

// Reset clears the registries and restarts id generation.
func (e *Exporter) Reset() {
	e.registry.Reset()
	e.ids = builder.NewIDGenerator(string(builder.TargetElementor), 7)
	e.refs = nil
}

// Export converts page. The exporter is reset first, so ids and registry
// numbering restart for every page.
func (e *Exporter) Export(page *component.Page) *Document {
	e.Reset()
	doc := &Document{Type: "page", Version: FormatVersion, Content: []*Element{}, page: builder.SyntheticTrace()}
	if page == nil {
		return doc
	}
	doc.Title = page.Title
	e.refs = tokens.Build(page.Palette, page.Typography)
	e.registry.Seed(e.refs)

	tops, pageTrace := builder.Unwrap(page.Root)
	doc.page = pageTrace
	for _, top := range tops {
		doc.Content = append(doc.Content, e.topLevel(top.Node, top.Path))
	}

	for _, p := range e.opts.Thresholds.Promote(page.Library) {
		doc.Templates = append(doc.Templates, e.template(p.Template.ID, p.Template.Name, p.Template.Component, p.Global, nil))
	}
	for _, part := range e.opts.Thresholds.Parts(page.Parts) {
		typ := string(part.Kind)
		if part.Kind == component.PartSidebar {
			typ = "section"
		}
		t := e.template("part-"+string(part.Kind), tokens.Title(string(part.Kind)), part.Component, false, []string{"include/general"})
		t.Type = typ
		doc.Templates = append(doc.Templates, t)
	}

	doc.PageSettings = e.pageSettings()
	e.log.Debug("elementor export complete",
		"sections", len(doc.Content),
		"colors", len(doc.PageSettings.CustomColors),
		"templates", len(doc.Templates))
	return doc
}

func (e *Exporter) template(id, title string, root *component.ComponentInfo, global bool, conditions []string) Template {
	t := Template{ID: id, Title: title, Type: "section", Global: global, Conditions: conditions}
	a := e.analyze(root, "0")
	if a.IsWidget() {
		t.Type = "widget"
	}
	t.Content = []*Element{e.topLevel(root, "0")}
	return t
}

func (e *Exporter) pageSettings() PageSettings {
	ps := PageSettings{CustomColors: []CustomColor{}, CustomFonts: []CustomFont{}}
	for _, c := range e.registry.Colors() {
		ps.CustomColors = append(ps.CustomColors, CustomColor{ID: c.ID, Title: c.Title, Color: c.Value})
	}
	for _, f := range e.registry.Fonts() {
		ps.CustomFonts = append(ps.CustomFonts, CustomFont{ID: f.ID, Title: f.Title, Typography: "custom", FontFamily: f.Family})
	}
	return ps
}

func (e *Exporter) analyze(c *component.ComponentInfo, path string) *builder.Analysis {
	return builder.Analyze(c, path, e.refs, e.opts)
}

func (e *Exporter) newElement(elType string, trace builder.Trace) *Element {
	return &Element{
		Trace:    trace,
		ID:       e.ids.Next(elType),
		ElType:   elType,
		Settings: builder.Settings{},
		Elements: []*Element{},
	}
}

// topLevel places a node at the top of the page. Sections need columns and
// columns need a section, so anything that is not a section gets default
// wrappers.
func (e *Exporter) topLevel(c *component.ComponentInfo, path string) *Element {
	a := e.analyze(c, path)
	switch {
	case a.IsWidget():
		e.log.Debug("wrapping top-level widget in default section", "path", path, "kind", a.Kind)
		return e.wrap(e.widget(a), false)
	case a.Kind == builder.KindColumn && !a.IsRow():
		sec := e.newElement(ElSection, builder.SyntheticTrace())
		sec.Settings.Set("structure", "10")
		col := e.column(a, 100)
		sec.Elements = append(sec.Elements, col)
		return sec
	}
	return e.section(a, false)
}

// wrap puts a widget into a synthetic section with one full-width column.
func (e *Exporter) wrap(w *Element, inner bool) *Element {
	sec := e.newElement(ElSection, builder.SyntheticTrace())
	sec.IsInner = inner
	col := e.newElement(ElColumn, builder.SyntheticTrace())
	col.Settings.Set("_column_size", 100)
	col.Elements = append(col.Elements, w)
	sec.Elements = append(sec.Elements, col)
	return sec
}

// section converts a structural node. Row-like nodes give one column per
// child; anything else gets a single synthetic column holding its children.
func (e *Exporter) section(a *builder.Analysis, inner bool) *Element {
	sec := e.newElement(ElSection, a.Trace())
	sec.IsInner = inner
	sec.Settings = e.sectionSettings(a)

	body, folded := builder.Fold(a, e.analyze)
	sec.Consumed += folded
	if body != a && body.Background.Color != "" && a.Background.Color == "" {
		e.applyBackground(sec.Settings, body, "")
	}

	if body.IsRow() {
		children := builder.Children(body.Node, body.Path)
		for _, child := range children {
			sec.Elements = append(sec.Elements, e.columnFor(e.analyze(child.Node, child.Path), len(children)))
		}
	} else {
		col := e.newElement(ElColumn, builder.SyntheticTrace())
		col.Settings.Set("_column_size", 100)
		col.Elements = e.contents(body)
		sec.Elements = append(sec.Elements, col)
	}
	sec.Settings.Set("structure", structure(len(sec.Elements)))
	return sec
}

// columnFor turns one child of a row into a column.
func (e *Exporter) columnFor(a *builder.Analysis, siblings int) *Element {
	size := columnSize(a, siblings)
	switch {
	case a.IsWidget():
		col := e.newElement(ElColumn, builder.SyntheticTrace())
		col.Settings.Set("_column_size", size)
		col.Elements = append(col.Elements, e.widget(a))
		return col
	case a.IsRow():
		col := e.newElement(ElColumn, builder.SyntheticTrace())
		col.Settings.Set("_column_size", size)
		col.Elements = append(col.Elements, e.section(a, true))
		return col
	}
	return e.column(a, size)
}

// column converts a structural node into a column holding its children.
func (e *Exporter) column(a *builder.Analysis, size int) *Element {
	col := e.newElement(ElColumn, a.Trace())
	col.Settings = e.columnSettings(a, size)
	col.Elements = e.contents(a)
	return col
}

// contents converts the children of a column body: widgets stay widgets,
// structural children become inner sections.
func (e *Exporter) contents(a *builder.Analysis) []*Element {
	out := []*Element{}
	for _, child := range builder.Children(a.Node, a.Path) {
		ca := e.analyze(child.Node, child.Path)
		if ca.IsWidget() {
			out = append(out, e.widget(ca))
			continue
		}
		out = append(out, e.section(ca, true))
	}
	return out
}

func columnSize(a *builder.Analysis, siblings int) int {
	if w, ok := a.ColumnWidth(); ok {
		return int(math.Round(w))
	}
	if siblings <= 0 {
		return 100
	}
	return int(math.Round(100 / float64(siblings)))
}

// structure is Elementor's preset name for n equal columns ("10" .. "60").
func structure(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 6 {
		n = 6
	}
	return fmt.Sprintf("%d0", n)
}
