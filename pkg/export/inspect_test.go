package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/widgets"
)

func TestInspect_Card(t *testing.T) {
	in, err := Inspect(cardPage(), quietOptions())
	require.NoError(t, err)
	assert.Equal(t, "Card", in.Title)
	assert.Equal(t, 4, in.Nodes)
	assert.Equal(t, 2, in.Depth)
	assert.Equal(t, map[string]int{"div": 1, "h3": 1, "p": 1, "a": 1}, in.Tags)
	assert.Empty(t, in.Tokens)
	assert.Empty(t, in.Links)
	assert.Equal(t, "div", in.SortedTags()[0])
}

func TestInspect_GalleryStopsAtWidget(t *testing.T) {
	in, err := Inspect(galleryPage(3), quietOptions())
	require.NoError(t, err)
	require.Len(t, in.Widgets, 1)
	assert.Equal(t, "/", in.Widgets[0].Path)
	assert.Equal(t, widgets.KindGallery, in.Widgets[0].Kind)
	assert.NotNil(t, in.Widgets[0].Detail)
	assert.Equal(t, 3, in.Tags["img"])
	assert.Equal(t, []KindCount{{Kind: widgets.KindGallery, Count: 1}}, in.WidgetCounts())
}

func TestInspect_TokensAndLinks(t *testing.T) {
	page := cardPage()
	page.Palette = &component.ColorPalette{Primary: []component.Color{{Value: "#3366cc", Name: "Brand"}}}
	page.Root.Children[0].Styles = component.Styles{"color": "#3366CC"}

	in, err := Inspect(page, quietOptions())
	require.NoError(t, err)
	require.Len(t, in.Tokens, 1)
	assert.Equal(t, "primary-1", in.Tokens[0].ID)
	require.Len(t, in.Links, 1)
	assert.Equal(t, "/0", in.Links[0].Path)
	assert.Equal(t, "primary-1", in.Links[0].Links.Color("color"))
}

func TestInspect_LibraryAndParts(t *testing.T) {
	page := cardPage()
	page.Library = &component.ComponentLibrary{Templates: []component.LibraryTemplate{
		{ID: "a", Name: "A", ReusabilityScore: 50, Component: el("div", "", "a")},
		{ID: "b", Name: "B", ReusabilityScore: 70, Component: el("div", "", "b")},
		{ID: "c", Name: "C", ReusabilityScore: 90, Component: el("div", "", "c")},
	}}
	page.Parts = &component.TemplateParts{
		Header: &component.TemplatePart{Confidence: 92, Component: el("header", "", "")},
		Footer: &component.TemplatePart{Confidence: 40, Component: el("footer", "", "")},
	}

	in, err := Inspect(page, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, in.Templates)
	assert.Equal(t, 2, in.Reusable)
	assert.Equal(t, 1, in.Global)
	assert.Equal(t, []string{"header"}, in.Parts)
}

func TestInspect_NilPage(t *testing.T) {
	_, err := Inspect(nil, quietOptions())
	assert.ErrorIs(t, err, ErrNilPage)
}
