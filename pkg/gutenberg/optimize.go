package gutenberg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Optimize drops empty attributes, duplicate patterns and reusable blocks
// and duplicate palette entries, then re-serializes pattern content.
// Running it again changes nothing.
func (d *Document) Optimize() {
	prune := func(blocks []*Block) {
		for _, top := range blocks {
			top.Walk(func(blk, _ *Block) {
				if blk.Attrs == nil {
					blk.Attrs = builder.Settings{}
				}
				blk.Attrs.Prune()
				if blk.InnerBlocks == nil {
					blk.InnerBlocks = []*Block{}
				}
			})
		}
	}
	content := func(blocks []*Block) string {
		out, err := Markup(blocks)
		if err != nil {
			return ""
		}
		return out
	}
	prune(d.Blocks)

	synced := make(map[string]bool)
	var reusable []ReusableBlock
	for _, r := range d.ReusableBlocks {
		prune(r.Blocks)
		r.Content = content(r.Blocks)
		if synced[r.Content] {
			continue
		}
		synced[r.Content] = true
		reusable = append(reusable, r)
	}
	d.ReusableBlocks = reusable

	seen := make(map[string]bool)
	var patterns []Pattern
	for _, p := range d.Patterns {
		prune(p.Blocks)
		p.Content = content(p.Blocks)
		if seen[p.Content] || synced[p.Content] {
			continue
		}
		seen[p.Content] = true
		patterns = append(patterns, p)
	}
	d.Patterns = patterns

	for i := range d.TemplateParts {
		prune(d.TemplateParts[i].Blocks)
		d.TemplateParts[i].Content = content(d.TemplateParts[i].Blocks)
	}

	s := &d.GlobalStyles.Settings
	s.Color.Palette = dedupe(s.Color.Palette, func(c PaletteColor) string { return c.Slug + "|" + strings.ToLower(c.Color) })
	s.Typography.FontFamilies = dedupe(s.Typography.FontFamilies, func(f FontFamily) string { return f.Slug })
	s.Typography.FontSizes = dedupe(s.Typography.FontSizes, func(f FontSize) string { return f.Slug })
}

func dedupe[T any](items []T, key func(T) string) []T {
	if items == nil {
		return nil
	}
	out := items[:0]
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		k := key(it)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// Serialize renders the document as JSON or as block markup of the page.
func (d *Document) Serialize(format builder.Format) ([]byte, error) {
	switch format {
	case builder.FormatJSON, "":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode gutenberg document: %w", err)
		}
		return data, nil
	case builder.FormatHTML:
		out, err := Markup(d.Blocks)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	return nil, fmt.Errorf("%w: gutenberg cannot write %s", builder.ErrUnsupportedFormat, format)
}
