package elementor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Optimize drops empty settings, duplicate saved templates and duplicate
// global colors and fonts. Running it again changes nothing.
func (d *Document) Optimize() {
	prune := func(content []*Element) {
		for _, top := range content {
			top.Walk(func(el, _ *Element) {
				if el.Settings == nil {
					el.Settings = builder.Settings{}
				}
				el.Settings.Prune()
				if el.Elements == nil {
					el.Elements = []*Element{}
				}
			})
		}
	}
	prune(d.Content)

	var templates []Template
	seen := make(map[string]int)
	for _, t := range d.Templates {
		prune(t.Content)
		sig := t.Type + "|" + signature(t.Content)
		if i, dup := seen[sig]; dup {
			templates[i].Global = templates[i].Global || t.Global
			continue
		}
		seen[sig] = len(templates)
		templates = append(templates, t)
	}
	d.Templates = templates

	colors := d.PageSettings.CustomColors[:0]
	byValue := make(map[string]bool)
	for _, c := range d.PageSettings.CustomColors {
		key := strings.ToLower(c.Color)
		if byValue[key] {
			continue
		}
		byValue[key] = true
		colors = append(colors, c)
	}
	d.PageSettings.CustomColors = colors

	fonts := d.PageSettings.CustomFonts[:0]
	byFamily := make(map[string]bool)
	for _, f := range d.PageSettings.CustomFonts {
		key := strings.ToLower(f.FontFamily)
		if byFamily[key] {
			continue
		}
		byFamily[key] = true
		fonts = append(fonts, f)
	}
	d.PageSettings.CustomFonts = fonts
}

// signature describes element content without ids, so two templates
// built from identical components compare equal.
func signature(content []*Element) string {
	var b strings.Builder
	for _, top := range content {
		top.Walk(func(el, parent *Element) {
			settings, _ := json.Marshal(withoutIDs(el.Settings))
			fmt.Fprintf(&b, "%s/%s/%t/%d:%s;", el.ElType, el.WidgetType, el.IsInner, len(el.Elements), settings)
		})
	}
	return b.String()
}

// withoutIDs strips repeater row ids ("_id") and dynamic tag ids.
func withoutIDs(v any) any {
	switch val := v.(type) {
	case builder.Settings:
		return withoutIDs(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			if k == "_id" || k == "__dynamic__" {
				continue
			}
			out[k] = withoutIDs(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = withoutIDs(x)
		}
		return out
	}
	return v
}

// Serialize renders the document. Elementor only imports JSON.
func (d *Document) Serialize(format builder.Format) ([]byte, error) {
	if format != builder.FormatJSON && format != "" {
		return nil, fmt.Errorf("%w: elementor cannot write %s", builder.ErrUnsupportedFormat, format)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode elementor document: %w", err)
	}
	return data, nil
}
