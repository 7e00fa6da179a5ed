package component

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func cardTree() *ComponentInfo {
	return &ComponentInfo{
		ComponentType: "card",
		TagName:       "div",
		ClassName:     "card shadow",
		Children: []*ComponentInfo{
			{ComponentType: "heading", TagName: "h3", TextContent: "Title"},
			{ComponentType: "text", TagName: "p", TextContent: "Body"},
			{ComponentType: "button", TagName: "a", ClassName: "btn", TextContent: "Click", Attributes: map[string]string{"href": "/x"}},
		},
	}
}

// --- Tree ---

func TestCountAndWalkPaths(t *testing.T) {
	root := cardTree()
	assert.Equal(t, 4, Count(root))

	var paths []string
	root.Walk(func(_ *ComponentInfo, path string, _ int) bool {
		paths = append(paths, path)
		return true
	})
	assert.Equal(t, []string{"0", "0.0", "0.1", "0.2"}, paths)
}

func TestWalkSkipChildren(t *testing.T) {
	root := cardTree()
	visited := 0
	root.Walk(func(*ComponentInfo, string, int) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestTextFallsBackToChildren(t *testing.T) {
	root := cardTree()
	assert.Equal(t, "Title Body Click", root.Text())
	assert.Equal(t, "Title", root.Children[0].Text())
}

func TestClassHelpers(t *testing.T) {
	root := cardTree()
	assert.True(t, root.HasClass("card"))
	assert.False(t, root.HasClass("car"))
	assert.True(t, root.ClassContains("nope", "shadow"))
	assert.Equal(t, "/x", root.Children[2].Attr("href"))
	assert.Equal(t, 3, root.Children[0].HeadingLevel())
	assert.Equal(t, 0, root.HeadingLevel())
}

// --- Styles ---

func TestStylesLookupAcceptsBothSpellings(t *testing.T) {
	s := Styles{"background-color": "#fff", "fontSize": 16.0, "padding": map[string]any{"top": 1.0}}
	assert.Equal(t, "#fff", s.Get("backgroundColor"))
	assert.Equal(t, "16", s.Get("font-size"))
	assert.True(t, s.Has("fontSize"))
	assert.False(t, s.Has("color"))

	obj, ok := s.Object("padding")
	require.True(t, ok)
	assert.Equal(t, 1.0, obj["top"])
	assert.Equal(t, "", s.Get("padding"))
}

func TestStylesDiff(t *testing.T) {
	desktop := Styles{"fontSize": "32px", "color": "#000"}
	tablet := Styles{"font-size": "24px", "color": "#000"}
	assert.Equal(t, map[string]string{"fontSize": "24px"}, desktop.Diff(tablet))
}

func TestCaseConversion(t *testing.T) {
	assert.Equal(t, "backgroundColor", CamelCase("background-color"))
	assert.Equal(t, "background-color", KebabCase("backgroundColor"))
	assert.Equal(t, "color", CamelCase("color"))
}

// --- Page ---

func TestDecode_Valid(t *testing.T) {
	data := []byte(`{
		"title": "Home",
		"root": {"componentType": "section", "tagName": "section",
			"children": [{"componentType": "heading", "tagName": "h1", "textContent": "Hi"}]},
		"colorPalette": {"primary": [{"value": "#3366cc"}]}
	}`)
	page, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, 2, Count(page.Root))
	require.NotNil(t, page.Palette)
	assert.Equal(t, "#3366cc", page.Palette.Primary[0].Value)
}

func TestDecode_MissingRoot(t *testing.T) {
	_, err := Decode([]byte(`{"title": "x"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestDecodeAny_BareTree(t *testing.T) {
	page, err := DecodeAny([]byte(`{"componentType": "button", "tagName": "button", "textContent": "Go"}`))
	require.NoError(t, err)
	assert.Equal(t, "button", page.Root.ComponentType)
}

func TestValidate_SharedNodeRejected(t *testing.T) {
	shared := &ComponentInfo{TagName: "p"}
	page := &Page{Root: &ComponentInfo{TagName: "div", Children: []*ComponentInfo{shared, shared}}}
	errs := page.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "already appears")
}

func TestValidate_LibraryTemplateNeedsComponent(t *testing.T) {
	page := &Page{
		Root:    cardTree(),
		Library: &ComponentLibrary{Templates: []LibraryTemplate{{ID: "t1"}}},
	}
	errs := page.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "component is required")
}

func TestTemplatePartsAllFillsKind(t *testing.T) {
	parts := &TemplateParts{
		Footer: &TemplatePart{Confidence: 70, Component: &ComponentInfo{TagName: "footer"}},
		Header: &TemplatePart{Confidence: 90, Component: &ComponentInfo{TagName: "header"}},
	}
	all := parts.All()
	require.Len(t, all, 2)
	assert.Equal(t, PartHeader, all[0].Kind)
	assert.Equal(t, PartFooter, all[1].Kind)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"root":{"componentType":"text","tagName":"p"}}`), 0644))

	page, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "p", page.Root.Tag())
}
