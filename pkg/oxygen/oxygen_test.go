package oxygen

import (
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

// leaves returns the non-container components of the page tree.
func leaves(doc *Document) []*Component {
	var out []*Component
	doc.Walk(func(c, _ *Component) {
		if !IsContainer(c.Name) {
			out = append(out, c)
		}
	})
	return out
}

func mustShortcodes(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.Serialize(builder.FormatShortcode)
	require.NoError(t, err)
	return string(out)
}

// --- Scenarios ---

func TestExport_Card(t *testing.T) {
	page := cardPage()
	doc := export(page)

	require.Len(t, doc.Tree.Children, 1)
	sec := doc.Tree.Children[0]
	assert.Equal(t, CtSection, sec.Name)
	assert.Equal(t, 1, sec.ID)
	assert.Equal(t, 1, sec.Depth)
	assert.Equal(t, 0, sec.Options["ct_parent"])
	assert.Equal(t, "section-1", sec.Options["selector"])
	assert.Equal(t, []any{"card"}, sec.Options["classes"])

	require.Len(t, sec.Children, 1)
	col := sec.Children[0]
	assert.Equal(t, CtDivBlock, col.Name)
	assert.True(t, col.Synthetic)
	require.Len(t, col.Children, 3)

	heading, text, button := col.Children[0], col.Children[1], col.Children[2]
	assert.Equal(t, CtHeadline, heading.Name)
	assert.Equal(t, 3, heading.ID)
	assert.Equal(t, 2, heading.Options["ct_parent"])
	assert.Equal(t, "h3", heading.Options["tag"])
	assert.Equal(t, "Title", heading.Options["ct_content"])
	assert.Equal(t, "Headline (#3)", heading.Options["nicename"])

	assert.Equal(t, CtTextBlock, text.Name)
	assert.Equal(t, "Body", text.Options["ct_content"])

	assert.Equal(t, CtLinkButton, button.Name)
	assert.Equal(t, "/x", button.Options["url"])
	assert.Equal(t, "Click", button.Options["ct_content"])

	assert.Contains(t, doc.Classes, "card")
	assert.Contains(t, doc.Classes, "btn")
	assert.Equal(t, component.Count(page.Root), doc.Weight())

	r := doc.Validate()
	assert.True(t, r.Valid, r.Violations)
}

func TestExport_GalleryDetected(t *testing.T) {
	doc := export(galleryPage(5))

	ls := leaves(doc)
	require.Len(t, ls, 1)
	assert.Equal(t, OxyGallery, ls[0].Name)
	images, _ := ls[0].Options["images"].([]any)
	assert.Len(t, images, 5)
	assert.Equal(t, 6, doc.Weight())

	// the gallery sits in a synthetic section and column
	sec := doc.Tree.Children[0]
	assert.True(t, sec.Synthetic)
	assert.True(t, sec.Children[0].Synthetic)
	assert.Empty(t, doc.Validate().Errors())
}

func TestExport_SingleImageIsNotGallery(t *testing.T) {
	page := galleryPage(1)
	doc := export(page)

	ls := leaves(doc)
	require.Len(t, ls, 1)
	assert.Equal(t, CtImage, ls[0].Name)
	assert.Equal(t, "/uploads/0.jpg", ls[0].Options["src"])
	assert.Equal(t, "Image 0", ls[0].Options["alt"])
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
	require.Len(t, doc.Tree.Children, 4)

	// the flex row produced two 50% columns
	rowSec := doc.Tree.Children[1]
	require.Len(t, rowSec.Children, 1)
	cols := rowSec.Children[0]
	assert.Equal(t, CtNewColumns, cols.Name)
	require.Len(t, cols.Children, 2)
	orig := builder.AsMap(cols.Children[0].Options["original"])
	assert.Equal(t, "50", orig["width"])
	assert.Equal(t, "%", orig["width-unit"])

	r := doc.Validate()
	assert.Empty(t, r.Errors(), r.Violations)
	assert.True(t, r.HasRule("menu-needs-assignment"))
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
	ls := leaves(doc)
	require.Len(t, ls, 1)

	orig := builder.AsMap(ls[0].Options["original"])
	assert.Equal(t, "color(1)", orig["color"])
	assert.Equal(t, []any{"global", "Inter"}, orig["font-family"])

	require.Len(t, doc.GlobalColors.Colors, 2)
	assert.Equal(t, GlobalColor{ID: 1, Name: "Primary 1", Value: "#3366cc", Set: 1}, doc.GlobalColors.Colors[0])
	assert.Equal(t, "#ff9900", doc.GlobalColors.Colors[1].Value)
	assert.Equal(t, "Inter", doc.GlobalSettings.Fonts["Inter"])

	r := doc.Validate()
	assert.True(t, r.Valid)
	require.True(t, r.HasRule("unused-global-color"))
	for _, w := range r.Warnings() {
		if w.Rule == "unused-global-color" {
			assert.Contains(t, w.Message, "#ff9900")
		}
	}
}

func TestExport_LiteralColorsRegistered(t *testing.T) {
	p := el("p", "", "Red text")
	p.Styles = component.Styles{"color": "rgb(255, 0, 0)"}
	doc := export(&component.Page{Root: p})

	require.Len(t, doc.GlobalColors.Colors, 1)
	assert.Equal(t, "#ff0000", doc.GlobalColors.Colors[0].Value)
	orig := builder.AsMap(leaves(doc)[0].Options["original"])
	assert.Equal(t, "#ff0000", orig["color"])
	assert.False(t, doc.Validate().HasRule("unused-global-color"))
}

func TestExport_ResponsiveMediaBuckets(t *testing.T) {
	p := el("p", "", "Copy")
	p.Styles = component.Styles{"padding": "20px"}
	p.Responsive = map[component.Breakpoint]component.Styles{
		component.BreakpointTablet: {"padding": "5px"},
		component.BreakpointMobile: {"display": "none"},
	}
	doc := export(&component.Page{Root: p})
	o := leaves(doc)[0].Options

	assert.Equal(t, "20", builder.AsMap(o["original"])["padding-top"])
	media := builder.AsMap(o["media"])
	require.NotNil(t, media)
	tablet := builder.AsMap(builder.AsMap(media["tablet"])["original"])
	assert.Equal(t, "5", tablet["padding-top"])
	assert.Equal(t, "px", tablet["padding-top-unit"])
	phone := builder.AsMap(builder.AsMap(media["phone-portrait"])["original"])
	assert.Equal(t, "none", phone["display"])
}

func TestExport_AnimationAndHover(t *testing.T) {
	unknown := el("h2", "", "Hi")
	unknown.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "wobbleAround", Duration: "2s"}}}
	known := el("p", "", "There")
	known.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "fadeInUp", Delay: "200ms"}}}

	doc := export(&component.Page{Root: el("section", "", "", unknown, known)})
	ls := leaves(doc)
	require.Len(t, ls, 2)
	first := builder.AsMap(ls[0].Options["original"])
	assert.Equal(t, "true", first["aos-enable"])
	assert.Equal(t, "fade-in", first["aos-type"])
	assert.Equal(t, "2000", first["aos-duration"])
	second := builder.AsMap(ls[1].Options["original"])
	assert.Equal(t, "fade-up", second["aos-type"])
	assert.Equal(t, "200", second["aos-delay"])
}

func TestExport_Dynamic(t *testing.T) {
	doc := export(&component.Page{Root: el("section", "", "",
		el("h1", "", "{{post_title}}"),
		el("p", "", "{{acf:price}}"),
	)})
	ls := leaves(doc)
	require.Len(t, ls, 2)
	assert.Equal(t, "[oxygen data='title']", ls[0].Options["ct_content"])
	assert.Equal(t, "[oxygen data='meta' key='price']", ls[1].Options["ct_content"])

	out := mustShortcodes(t, doc)
	assert.Contains(t, out, "[oxygen data='title'][/ct_headline]")
}

func TestShortcodes_Escaping(t *testing.T) {
	img := &component.ComponentInfo{TagName: "img", Attributes: map[string]string{"src": "/a[1].png", "alt": "Bob's photo"}}
	doc := export(&component.Page{Root: el("section", "", "", img)})
	out := mustShortcodes(t, doc)

	assert.True(t, strings.HasPrefix(out, "[ct_section ct_options='{"), out)
	assert.True(t, strings.HasSuffix(out, "[/ct_section]"), out)
	// three components: each opens and closes once and quotes its options
	assert.Equal(t, 6, strings.Count(out, "["))
	assert.Equal(t, 6, strings.Count(out, "]"))
	assert.Equal(t, 6, strings.Count(out, "'"))
	assert.Contains(t, out, `"alt":"Bob\u0027s photo"`)
}

func TestShortcodes_NestedSameName(t *testing.T) {
	root := el("section", "", "",
		el("div", "a", "", el("p", "", "One")),
		el("div", "b", "", el("p", "", "Two")),
	)
	out := mustShortcodes(t, export(&component.Page{Root: root}))

	assert.Contains(t, out, "[ct_div_block ct_options=")
	assert.Contains(t, out, "[ct_div_block_2 ct_options=")
	assert.Contains(t, out, "One[/ct_text_block]")
	assert.Equal(t, 2, strings.Count(out, "[/ct_div_block_2]"))
	assert.Equal(t, 1, strings.Count(out, "[/ct_div_block]"))
}

func TestOptimize_Idempotent(t *testing.T) {
	page := cardPage()
	page.Palette = &component.ColorPalette{Primary: []component.Color{{Value: "#3366cc"}}}
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "a", Name: "Card", ReusabilityScore: 90, Component: el("div", "card", "", el("h3", "", "Title"))},
		{ID: "b", Name: "Card copy", ReusabilityScore: 70, Component: el("div", "card", "", el("h3", "", "Title"))},
	}}
	doc := export(page)
	require.Len(t, doc.ReusableParts, 2)
	doc.Classes["ghost"] = Class{Key: "ghost"}

	doc.Optimize()
	once, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)
	doc.Optimize()
	twice, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)

	assert.JSONEq(t, string(once), string(twice))
	require.Len(t, doc.ReusableParts, 1)
	assert.True(t, doc.ReusableParts[0].Global)
	assert.NotContains(t, doc.Classes, "ghost")
	assert.Contains(t, doc.Classes, "card")
	assert.NotContains(t, string(once), `"classes": []`)
}

func TestExport_ReusablePartsAndTemplates(t *testing.T) {
	page := cardPage()
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "hero", Name: "Hero", ReusabilityScore: 65, Component: el("section", "", "", el("h1", "", "Hi"))},
		{ID: "skip", Name: "Rare", ReusabilityScore: 20, Component: el("div", "", "")},
	}}
	page.Parts = &component.TemplateParts{
		Header: &component.TemplatePart{Confidence: 90, Component: el("header", "", "", el("h1", "", "Logo"))},
	}
	doc := export(page)

	require.Len(t, doc.ReusableParts, 2)
	hero, header := doc.ReusableParts[0], doc.ReusableParts[1]
	assert.Equal(t, 1, hero.ID)
	assert.Equal(t, "Hero", hero.Title)
	assert.Equal(t, PartReusable, hero.Type)
	assert.False(t, hero.Global)
	// every part numbers its components from 1
	require.Len(t, hero.Tree.Children, 1)
	assert.Equal(t, 1, hero.Tree.Children[0].ID)

	assert.Equal(t, 2, header.ID)
	assert.Equal(t, PartTemplate, header.Type)
	assert.Equal(t, "header", header.Part)
	assert.Equal(t, component.Count(page.Root), doc.Weight())
	assert.Empty(t, doc.Validate().Errors())
}

func TestValidate_Nesting(t *testing.T) {
	comp := func(id, parent int, name string, children ...*Component) *Component {
		return &Component{
			ID:       id,
			Name:     name,
			Options:  builder.Settings{"ct_id": id, "ct_parent": parent, "selector": fmt.Sprintf("s-%d", id)},
			Children: children,
		}
	}
	text := comp(3, 2, CtTextBlock)
	cols := comp(2, 1, CtNewColumns, text)
	sec := comp(1, 0, CtSection, cols)
	stray := comp(4, 0, CtHeadline, comp(4, 4, CtTextBlock))
	root := newRoot()
	root.add(sec, stray)
	number(root)
	// break the numbering again after the fact
	stray.Children[0].ID = 1

	doc := &Document{Tree: root}
	r := doc.Validate()
	assert.False(t, r.Valid)
	assert.True(t, r.HasRule("top-level-not-section"))
	assert.True(t, r.HasRule("new-columns-child-not-div-block"))
	assert.True(t, r.HasRule("widget-with-children"))
	assert.True(t, r.HasRule("duplicate-id"))
	assert.True(t, r.HasRule("id-mismatch"))
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
	_, err := export(cardPage()).Serialize(builder.FormatHTML)
	assert.True(t, errors.Is(err, builder.ErrUnsupportedFormat))
}

func TestExport_NilPage(t *testing.T) {
	doc := export(nil)
	assert.Empty(t, doc.Tree.Children)
	assert.Zero(t, doc.Weight())
	assert.True(t, doc.Validate().HasRule("empty-document"))
}
