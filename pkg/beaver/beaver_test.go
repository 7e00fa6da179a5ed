package beaver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
)

// --- Helpers ---

func el(tag, class, text string, children ...*component.ComponentInfo) *component.ComponentInfo {
	return &component.ComponentInfo{TagName: tag, ClassName: class, TextContent: text, Children: children}
}

func cardPage() *component.Page {
	btn := el("a", "btn", "Click")
	btn.Attributes = map[string]string{"href": "/x"}
	return &component.Page{
		Title: "Card",
		Root:  el("div", "card", "", el("h3", "", "Title"), el("p", "", "Body"), btn),
	}
}

func galleryPage(n int) *component.Page {
	root := el("div", "", "")
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, &component.ComponentInfo{
			TagName:    "img",
			Attributes: map[string]string{"src": fmt.Sprintf("/uploads/%d.jpg", i), "alt": fmt.Sprintf("Image %d", i)},
		})
	}
	return &component.Page{Root: root}
}

func export(page *component.Page) *Document {
	return New(builder.DefaultOptions()).Export(page)
}

// modules returns the module nodes of the page layout in walk order.
func modules(doc *Document) []*Node {
	var out []*Node
	doc.Nodes.Walk(func(n, _ *Node) {
		if n.Type == NodeModule {
			out = append(out, n)
		}
	})
	return out
}

func node(id, typ, parent string, position int, settings builder.Settings) *Node {
	if settings == nil {
		settings = builder.Settings{}
	}
	return &Node{ID: id, Type: typ, Parent: ParentRef(parent), Position: position, Settings: settings}
}

// --- Scenarios ---

func TestExport_Card(t *testing.T) {
	page := cardPage()
	doc := export(page)

	rows := doc.Nodes.Rows()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Len(t, row.ID, NodeIDLength)
	assert.Equal(t, ParentRef(""), row.Parent)
	assert.Equal(t, "card", row.Settings["class"])
	assert.Equal(t, "fixed", row.Settings["width"])

	groups := doc.Nodes.Children(row.ID)
	require.Len(t, groups, 1)
	assert.Equal(t, NodeColumnGroup, groups[0].Type)
	assert.True(t, groups[0].Synthetic)

	cols := doc.Nodes.Children(groups[0].ID)
	require.Len(t, cols, 1)
	assert.Equal(t, 100.0, cols[0].Settings["size"])

	mods := doc.Nodes.Children(cols[0].ID)
	require.Len(t, mods, 3)
	for i, m := range mods {
		assert.Equal(t, i, m.Position)
		assert.Equal(t, ParentRef(cols[0].ID), m.Parent)
	}
	heading, text, button := mods[0], mods[1], mods[2]
	assert.Equal(t, ModHeading, heading.Module())
	assert.Equal(t, "Title", heading.Settings["heading"])
	assert.Equal(t, "h3", heading.Settings["tag"])
	assert.Equal(t, ModRichText, text.Module())
	assert.Equal(t, "<p>Body</p>", text.Settings["text"])
	assert.Equal(t, ModButton, button.Module())
	assert.Equal(t, "Click", button.Settings["text"])
	assert.Equal(t, "/x", button.Settings["link"])
	assert.Equal(t, "btn", button.Settings["class"])

	assert.Len(t, doc.Nodes, 6)
	assert.Equal(t, component.Count(page.Root), doc.Weight())

	r := doc.Validate()
	assert.True(t, r.Valid, r.Violations)
}

func TestExport_GalleryDetected(t *testing.T) {
	doc := export(galleryPage(5))

	mods := modules(doc)
	require.Len(t, mods, 1)
	assert.Equal(t, ModGallery, mods[0].Module())
	photos, _ := mods[0].Settings["photo_data"].([]any)
	assert.Len(t, photos, 5)
	assert.Equal(t, 6, doc.Weight())

	// row, group and column around the gallery are synthetic
	row := doc.Nodes.Rows()[0]
	assert.True(t, row.Synthetic)
	assert.Empty(t, doc.Validate().Errors())
}

func TestExport_SingleImageIsNotGallery(t *testing.T) {
	page := galleryPage(1)
	doc := export(page)

	mods := modules(doc)
	require.Len(t, mods, 1)
	assert.Equal(t, ModPhoto, mods[0].Module())
	assert.Equal(t, "/uploads/0.jpg", mods[0].Settings["photo_url"])
	assert.Equal(t, "Image 0", mods[0].Settings["alt"])
	assert.Equal(t, component.Count(page.Root), doc.Weight())
}

func TestExport_StructuralCompleteness(t *testing.T) {
	nav := el("nav", "", "", el("ul", "", "", el("li", "", "Home"), el("li", "", "About")))
	row := el("section", "", "",
		el("div", "", "", el("h2", "", "Left"), el("p", "", "Copy")),
		el("div", "", "", &component.ComponentInfo{TagName: "img", Attributes: map[string]string{"src": "/a.png"}}),
	)
	row.Styles = component.Styles{"display": "flex"}
	root := el("body", "", "",
		el("header", "", "", el("h1", "", "Site"), nav),
		row,
		el("div", "card", "", el("div", "inner", "", el("div", "deeper", "", el("p", "", "Deep")))),
		el("p", "", "loose"),
	)
	doc := export(&component.Page{Root: root})

	assert.Equal(t, component.Count(root), doc.Weight())
	rows := doc.Nodes.Rows()
	require.Len(t, rows, 4)

	// the flex row produced two 50% columns
	groups := doc.Nodes.Children(rows[1].ID)
	require.Len(t, groups, 1)
	cols := doc.Nodes.Children(groups[0].ID)
	require.Len(t, cols, 2)
	assert.Equal(t, 50.0, cols[0].Settings["size"])
	assert.Equal(t, 50.0, cols[1].Settings["size"])

	r := doc.Validate()
	assert.Empty(t, r.Errors(), r.Violations)
	assert.False(t, r.HasRule("column-size-sum"))
	assert.True(t, r.HasRule("menu-needs-assignment"))
}

func TestExport_NestedContainersBecomeColumnGroups(t *testing.T) {
	root := el("section", "", "",
		el("h2", "", "Intro"),
		el("div", "panel", "", el("p", "", "One"), el("p", "", "Two")),
	)
	doc := export(&component.Page{Root: root})

	col := doc.Nodes.Children(doc.Nodes.Children(doc.Nodes.Rows()[0].ID)[0].ID)[0]
	kids := doc.Nodes.Children(col.ID)
	require.Len(t, kids, 2)
	assert.Equal(t, NodeModule, kids[0].Type)
	assert.Equal(t, NodeColumnGroup, kids[1].Type)

	inner := doc.Nodes.Children(kids[1].ID)
	require.Len(t, inner, 1)
	assert.Equal(t, "panel", inner[0].Settings["class"])
	assert.Len(t, doc.Nodes.Children(inner[0].ID), 2)
	assert.Equal(t, component.Count(root), doc.Weight())
	assert.Empty(t, doc.Validate().Errors())
}

func TestExport_TokensBecomeGlobalColors(t *testing.T) {
	h := el("h2", "", "Brand")
	h.Styles = component.Styles{"color": "#3366CC", "fontFamily": `"Inter", sans-serif`}
	page := &component.Page{
		Root:    el("section", "", "", h),
		Palette: &component.ColorPalette{Primary: []component.Color{{Value: "#3366cc"}}, Accent: []component.Color{{Value: "#ff9900"}}},
		Typography: &component.TypographySystem{
			Fonts: []component.FontFamily{{Family: "Inter", Role: "heading"}},
		},
	}
	doc := export(page)
	mods := modules(doc)
	require.Len(t, mods, 1)

	assert.Equal(t, "var(--fl-global-primary-1)", mods[0].Settings["color"])
	assert.Equal(t, "Inter", builder.AsMap(mods[0].Settings["typography"])["font_family"])

	require.Len(t, doc.GlobalStyles.Colors, 2)
	assert.Equal(t, GlobalColor{UID: "primary-1", Label: "Primary 1", Color: "3366cc"}, doc.GlobalStyles.Colors[0])
	assert.Equal(t, "ff9900", doc.GlobalStyles.Colors[1].Color)
	require.Len(t, doc.GlobalStyles.Fonts, 1)
	assert.Equal(t, "Inter", doc.GlobalStyles.Fonts[0].Family)

	r := doc.Validate()
	assert.True(t, r.Valid)
	assert.False(t, r.HasRule("unused-global-font"))
	require.True(t, r.HasRule("unused-global-color"))
	for _, w := range r.Warnings() {
		if w.Rule == "unused-global-color" {
			assert.Contains(t, w.Message, "ff9900")
		}
	}
}

func TestExport_ColorsWithoutHash(t *testing.T) {
	p := el("p", "", "Red text")
	p.Styles = component.Styles{"color": "rgb(255, 0, 0)"}
	doc := export(&component.Page{Root: p})

	require.Len(t, doc.GlobalStyles.Colors, 1)
	assert.Equal(t, "ff0000", doc.GlobalStyles.Colors[0].Color)
	assert.Equal(t, "ff0000", modules(doc)[0].Settings["color"])
	assert.False(t, doc.Validate().HasRule("unused-global-color"))
}

func TestExport_ResponsiveSuffixes(t *testing.T) {
	p := el("p", "", "Copy")
	p.Styles = component.Styles{"padding": "20px"}
	p.Responsive = map[component.Breakpoint]component.Styles{
		component.BreakpointTablet: {"padding": "5px"},
		component.BreakpointMobile: {"display": "none"},
	}
	doc := export(&component.Page{Root: p})
	s := modules(doc)[0].Settings

	assert.Equal(t, "20", s["padding_top"])
	assert.Equal(t, "px", s["padding_unit"])
	assert.Equal(t, "5", s["padding_top_medium"])
	assert.Equal(t, "px", s["padding_unit_medium"])
	assert.NotContains(t, s, "padding_top_responsive")
	assert.Equal(t, "desktop,medium", s["responsive_display"])
}

func TestExport_AnimationAndHover(t *testing.T) {
	unknown := el("h2", "", "Hi")
	unknown.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "wobbleAround", Duration: "2s"}}}
	known := el("p", "", "There")
	known.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "fadeInUp", Delay: "200ms"}}}

	doc := export(&component.Page{Root: el("section", "", "", unknown, known)})
	mods := modules(doc)
	require.Len(t, mods, 2)
	first := builder.AsMap(mods[0].Settings["animation"])
	assert.Equal(t, "fade-in", first["style"])
	assert.Equal(t, "2", first["duration"])
	second := builder.AsMap(mods[1].Settings["animation"])
	assert.Equal(t, "fade-up", second["style"])
	assert.Equal(t, "0.2", second["delay"])
}

func TestExport_ButtonHover(t *testing.T) {
	btn := el("a", "btn", "Buy")
	btn.Attributes = map[string]string{"href": "/buy"}
	btn.Styles = component.Styles{"backgroundColor": "#3366cc", "transition": "all 0.3s ease-in-out"}
	btn.States = map[component.State]component.Styles{
		component.StateHover: {"backgroundColor": "#224488", "transform": "translateY(-4px)"},
	}
	doc := export(&component.Page{Root: btn})
	mods := modules(doc)
	require.Len(t, mods, 1)
	s := mods[0].Settings

	assert.Equal(t, "3366cc", s["bg_color"])
	assert.Equal(t, "224488", s["bg_hover_color"])
	assert.Equal(t, "enable", s["button_transition"])
	assert.Contains(t, doc.Settings.CSS, nodeClass(mods[0])+":hover{transform:translateY(-8px)}")
	assert.Contains(t, doc.Settings.CSS, "transition:transform 300ms ease-in-out")
}

func TestExport_DynamicConnections(t *testing.T) {
	doc := export(&component.Page{Root: el("section", "", "",
		el("h1", "", "{{post_title}}"),
		el("p", "", "{{acf:price}}"),
	)})
	mods := modules(doc)
	require.Len(t, mods, 2)

	conns := builder.AsMap(mods[0].Settings["connections"])
	require.NotNil(t, conns)
	assert.Equal(t, Connection{Object: "post", Property: "title", Field: "text"}, conns["heading"])

	conns = builder.AsMap(mods[1].Settings["connections"])
	require.NotNil(t, conns)
	acf, ok := conns["text"].(Connection)
	require.True(t, ok)
	assert.Equal(t, "acf", acf.Property)
	assert.Equal(t, "price", acf.Settings["name"])
}

func TestOptimize_Idempotent(t *testing.T) {
	page := cardPage()
	page.Palette = &component.ColorPalette{Primary: []component.Color{{Value: "#3366cc"}}}
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "a", Name: "Card", ReusabilityScore: 90, Component: el("div", "card", "", el("h3", "", "Title"))},
		{ID: "b", Name: "Card copy", ReusabilityScore: 70, Component: el("div", "card", "", el("h3", "", "Title"))},
	}}
	doc := export(page)
	require.Len(t, doc.Saved, 2)
	doc.Settings.CSS += "\n.x{color:red}\n.x{color:red}"

	doc.Optimize()
	once, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)
	doc.Optimize()
	twice, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)

	assert.JSONEq(t, string(once), string(twice))
	require.Len(t, doc.Saved, 1)
	assert.True(t, doc.Saved[0].Global)
	assert.Equal(t, 1, strings.Count(doc.Settings.CSS, ".x{color:red}"))
}

func TestExport_SavedNodesAndThemer(t *testing.T) {
	cta := el("a", "btn", "Go")
	cta.Attributes = map[string]string{"href": "/go"}
	page := cardPage()
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "hero", Name: "Hero", ReusabilityScore: 65, Component: el("section", "", "", el("h1", "", "Hi"))},
		{ID: "cta", Name: "CTA", ReusabilityScore: 85, Component: cta},
		{ID: "skip", Name: "Rare", ReusabilityScore: 20, Component: el("div", "", "")},
	}}
	page.Parts = &component.TemplateParts{
		Header: &component.TemplatePart{Confidence: 90, Component: el("header", "", "", el("h1", "", "Logo"))},
	}
	doc := export(page)

	require.Len(t, doc.Saved, 2)
	hero, saved := doc.Saved[0], doc.Saved[1]
	assert.Equal(t, 1, hero.ID)
	assert.Equal(t, "Hero", hero.Title)
	assert.Equal(t, SavedRow, hero.Type)
	assert.False(t, hero.Global)
	assert.Len(t, hero.Nodes.Rows(), 1)

	assert.Equal(t, 2, saved.ID)
	assert.Equal(t, SavedModule, saved.Type)
	assert.True(t, saved.Global)
	require.Len(t, saved.Nodes, 1)
	for _, n := range saved.Nodes {
		assert.Equal(t, ModButton, n.Module())
		assert.Equal(t, ParentRef(""), n.Parent)
	}

	require.Len(t, doc.Themer, 1)
	header := doc.Themer[0]
	assert.Equal(t, 3, header.ID)
	assert.Equal(t, "header", header.Type)
	assert.Equal(t, []string{"general:site"}, header.Locations)
	assert.Equal(t, component.Count(page.Root), doc.Weight())
	assert.Empty(t, doc.Validate().Errors())
}

func TestValidate_Hierarchy(t *testing.T) {
	l := Layout{
		"r1": node("r1", NodeRow, "", 0, nil),
		"g1": node("g1", NodeColumnGroup, "r1", 0, nil),
		"c1": node("c1", NodeColumn, "g1", 0, builder.Settings{"size": 60.0}),
		"m1": node("m1", NodeModule, "c1", 0, builder.Settings{"type": ModHeading}),
		"m2": node("m2", NodeModule, "g1", 1, builder.Settings{"type": ModHeading}),
		"m3": node("m3", NodeModule, "nope", 0, builder.Settings{"type": ModHeading}),
		"m4": node("m4", NodeModule, "c1", 0, builder.Settings{}),
		"r2": node("r2", NodeRow, "c1", 2, nil),
		"y":  node("x", NodeRow, "", 1, nil),
	}
	doc := &Document{Nodes: l}
	r := doc.Validate()

	assert.False(t, r.Valid)
	for _, rule := range []string{
		"invalid-parent", "unknown-parent", "row-has-parent", "duplicate-position",
		"column-size-sum", "key-mismatch", "missing-module-type",
	} {
		assert.True(t, r.HasRule(rule), rule)
	}
}

func TestValidate_ParentCycle(t *testing.T) {
	doc := &Document{Nodes: Layout{
		"ca": node("ca", NodeColumn, "gb", 0, builder.Settings{"size": 100.0}),
		"gb": node("gb", NodeColumnGroup, "ca", 0, nil),
	}}
	assert.True(t, doc.Validate().HasRule("parent-cycle"))
}

func TestSerialize_RoundTrip(t *testing.T) {
	doc := export(cardPage())
	data, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parent": null`)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Nodes, len(doc.Nodes))
	assert.Equal(t, ParentRef(""), back.Nodes.Rows()[0].Parent)
	assert.True(t, back.Validate().Valid)
}

func TestExport_ResetBetweenRuns(t *testing.T) {
	e := New(builder.DefaultOptions())
	p := el("p", "", "Red")
	p.Styles = component.Styles{"color": "#f00"}
	first, err := e.Export(&component.Page{Root: p}).Serialize(builder.FormatJSON)
	require.NoError(t, err)
	second, err := e.Export(&component.Page{Root: p}).Serialize(builder.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestSerialize_UnsupportedFormat(t *testing.T) {
	doc := export(cardPage())
	_, err := doc.Serialize(builder.FormatShortcode)
	assert.True(t, errors.Is(err, builder.ErrUnsupportedFormat))
	assert.Equal(t, []builder.Format{builder.FormatJSON}, doc.Formats())
}

func TestExport_NilPage(t *testing.T) {
	doc := export(nil)
	assert.Empty(t, doc.Nodes)
	assert.Zero(t, doc.Weight())
	assert.True(t, doc.Validate().HasRule("empty-document"))
}
