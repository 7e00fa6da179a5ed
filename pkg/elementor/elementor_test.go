package elementor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

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

func widgetsOf(doc *Document) []*Element {
	var out []*Element
	doc.Walk(func(e, _ *Element) {
		if e.ElType == ElWidget {
			out = append(out, e)
		}
	})
	return out
}

func export(page *component.Page) *Document {
	return New(builder.DefaultOptions()).Export(page)
}

// --- Scenarios ---

func TestExport_Card(t *testing.T) {
	page := cardPage()
	doc := export(page)

	require.Len(t, doc.Content, 1)
	sec := doc.Content[0]
	assert.Equal(t, ElSection, sec.ElType)
	require.Len(t, sec.Elements, 1)
	col := sec.Elements[0]
	assert.Equal(t, ElColumn, col.ElType)
	require.Len(t, col.Elements, 3)

	heading, text, button := col.Elements[0], col.Elements[1], col.Elements[2]
	assert.Equal(t, WidgetHeading, heading.WidgetType)
	assert.Equal(t, "Title", heading.Settings["title"])
	assert.Equal(t, "h3", heading.Settings["header_size"])

	assert.Equal(t, WidgetText, text.WidgetType)
	assert.Equal(t, "<p>Body</p>", text.Settings["editor"])

	assert.Equal(t, WidgetButton, button.WidgetType)
	assert.Equal(t, "Click", button.Settings["text"])
	assert.Equal(t, "center", button.Settings["align"])
	link := builder.AsMap(button.Settings["link"])
	assert.Equal(t, "/x", link["url"])

	assert.Equal(t, component.Count(page.Root), doc.Weight())
	assert.True(t, doc.Validate().Valid)
}

func TestExport_GalleryDetected(t *testing.T) {
	page := galleryPage(5)
	doc := export(page)

	ws := widgetsOf(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, WidgetGallery, ws[0].WidgetType)
	images, _ := ws[0].Settings["wp_gallery"].([]any)
	assert.Len(t, images, 5)
	assert.Equal(t, 6, doc.Weight())
}

func TestExport_SingleImageIsNotGallery(t *testing.T) {
	page := galleryPage(1)
	doc := export(page)

	ws := widgetsOf(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, WidgetImage, ws[0].WidgetType)
	img := builder.AsMap(ws[0].Settings["image"])
	assert.Equal(t, "/uploads/0.jpg", img["url"])
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
	page := &component.Page{Root: root}
	doc := export(page)

	assert.Equal(t, component.Count(root), doc.Weight())
	require.Len(t, doc.Content, 4)
	// the flex row produced two columns
	assert.Len(t, doc.Content[1].Elements, 2)
	assert.Equal(t, "20", doc.Content[1].Settings["structure"])

	r := doc.Validate()
	assert.Empty(t, r.Errors(), r.Violations)
}

func TestExport_UnknownNodeStillProducesWidget(t *testing.T) {
	page := &component.Page{Root: el("custom-thing", "", "")}
	doc := export(page)
	ws := widgetsOf(doc)
	require.Len(t, ws, 0)
	require.Len(t, doc.Content, 1)
	assert.Equal(t, 1, doc.Weight())

	page = &component.Page{Root: &component.ComponentInfo{TagName: "x-rating", InnerHTML: "<b>5</b> stars"}}
	doc = export(page)
	ws = widgetsOf(doc)
	require.Len(t, ws, 1)
	assert.Equal(t, WidgetHTML, ws[0].WidgetType)
}

func TestOptimize_Idempotent(t *testing.T) {
	page := cardPage()
	page.Palette = &component.ColorPalette{Primary: []component.Color{{Value: "#3366cc"}}, Neutral: []component.Color{{Value: "#ffffff"}}}
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "a", Name: "Card", ReusabilityScore: 90, Component: el("div", "card", "", el("h3", "", "Title"))},
		{ID: "b", Name: "Card copy", ReusabilityScore: 70, Component: el("div", "card", "", el("h3", "", "Title"))},
	}}
	doc := export(page)
	require.Len(t, doc.Templates, 2)

	doc.Optimize()
	once, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)
	doc.Optimize()
	twice, err := doc.Serialize(builder.FormatJSON)
	require.NoError(t, err)

	assert.JSONEq(t, string(once), string(twice))
	require.Len(t, doc.Templates, 1)
	assert.True(t, doc.Templates[0].Global)
	assert.NotContains(t, string(once), `"is_external": ""`)
}

func TestExport_AnimationFallback(t *testing.T) {
	unknown := el("h2", "", "Hi")
	unknown.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "wobbleAround", Duration: "2s"}}}
	known := el("p", "", "There")
	known.Behavior = &component.Behavior{HasAnimations: true, Animations: []component.Animation{{Name: "fadeInUp", Delay: "200ms"}}}

	doc := export(&component.Page{Root: el("section", "", "", unknown, known)})
	ws := widgetsOf(doc)
	require.Len(t, ws, 2)
	assert.Equal(t, "fadeIn", ws[0].Settings["_animation"])
	assert.Equal(t, "slow", ws[0].Settings["animation_duration"])
	assert.Equal(t, "fadeInUp", ws[1].Settings["_animation"])
	assert.Equal(t, 200, ws[1].Settings["_animation_delay"])
}

func TestExport_TokensBecomeGlobals(t *testing.T) {
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
	ws := widgetsOf(doc)
	require.Len(t, ws, 1)

	s := ws[0].Settings
	assert.NotContains(t, s, "title_color")
	globals := builder.AsMap(s["__globals__"])
	assert.Equal(t, "globals/colors?id=primary-1", globals["title_color"])
	assert.Equal(t, "globals/typography?id=font-heading", globals["typography_typography"])

	ids := []string{}
	for _, c := range doc.PageSettings.CustomColors {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"primary-1", "accent-1"}, ids)

	r := doc.Validate()
	assert.True(t, r.Valid)
	assert.True(t, r.HasRule("unused-global-color"))
	for _, w := range r.Warnings() {
		if w.Rule == "unused-global-color" {
			assert.Contains(t, w.Message, "accent-1")
		}
	}
}

func TestExport_LiteralColorsRegistered(t *testing.T) {
	p := el("p", "", "Red text")
	p.Styles = component.Styles{"color": "rgb(255, 0, 0)"}
	doc := export(&component.Page{Root: p})

	require.Len(t, doc.PageSettings.CustomColors, 1)
	assert.Equal(t, "custom-color-1", doc.PageSettings.CustomColors[0].ID)
	assert.Equal(t, "#ff0000", doc.PageSettings.CustomColors[0].Color)
	assert.Equal(t, "#ff0000", widgetsOf(doc)[0].Settings["text_color"])
	assert.False(t, doc.Validate().HasRule("unused-global-color"))
}

func TestExport_ResponsiveAndVisibility(t *testing.T) {
	p := el("p", "", "Copy")
	p.Styles = component.Styles{"padding": "20px"}
	p.Responsive = map[component.Breakpoint]component.Styles{
		component.BreakpointTablet: {"padding": "5px"},
		component.BreakpointMobile: {"display": "none"},
	}
	doc := export(&component.Page{Root: p})
	s := widgetsOf(doc)[0].Settings

	tablet := builder.AsMap(s["_padding_tablet"])
	require.NotNil(t, tablet)
	assert.Equal(t, "5", tablet["top"])
	assert.Equal(t, "hidden-mobile", s["hide_mobile"])
}

func TestExport_Dynamic(t *testing.T) {
	doc := export(&component.Page{Root: el("h1", "", "{{post_title}}")})
	s := widgetsOf(doc)[0].Settings
	dyn := builder.AsMap(s["__dynamic__"])
	require.NotNil(t, dyn)
	tag, _ := dyn["title"].(string)
	assert.True(t, strings.HasPrefix(tag, "[elementor-tag"))
	assert.Contains(t, tag, `name="post-title"`)
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

func TestExport_TemplatesAndParts(t *testing.T) {
	page := cardPage()
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "hero", Name: "Hero", ReusabilityScore: 65, Component: el("section", "", "", el("h1", "", "Hi"))},
		{ID: "skip", Name: "Rare", ReusabilityScore: 20, Component: el("div", "", "")},
	}}
	page.Parts = &component.TemplateParts{
		Header: &component.TemplatePart{Confidence: 90, Component: el("header", "", "", el("h1", "", "Logo"))},
	}
	doc := export(page)
	require.Len(t, doc.Templates, 2)
	assert.Equal(t, "hero", doc.Templates[0].ID)
	assert.False(t, doc.Templates[0].Global)
	assert.Equal(t, "header", doc.Templates[1].Type)
	assert.Equal(t, []string{"include/general"}, doc.Templates[1].Conditions)
	assert.Equal(t, component.Count(page.Root), doc.Weight())
}

func TestSerialize_UnsupportedFormat(t *testing.T) {
	_, err := export(cardPage()).Serialize(builder.FormatShortcode)
	assert.True(t, errors.Is(err, builder.ErrUnsupportedFormat))
}

func TestExport_NilPage(t *testing.T) {
	doc := export(nil)
	assert.Empty(t, doc.Content)
	assert.Zero(t, doc.Weight())
	assert.True(t, doc.Validate().HasRule("empty-content"))
}

func TestExport_LargePageIsLinear(t *testing.T) {
	// 2,500 section>p pairs plus the root: 5,001 input nodes.
	root := el("main", "", "")
	for i := 0; i < 2500; i++ {
		root.Children = append(root.Children, el("section", "", "", el("p", "", fmt.Sprintf("Paragraph %d", i))))
	}
	page := &component.Page{Root: root}

	start := time.Now()
	doc := export(page)
	elapsed := time.Since(start)

	assert.Equal(t, component.Count(root), doc.Weight())
	assert.Less(t, elapsed, 5*time.Second, "export of %d nodes took %s", component.Count(root), elapsed)

	ids := make(map[string]bool)
	doc.Walk(func(e, _ *Element) {
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
	})
}
