package oxygen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Optimize drops empty options, duplicate reusable parts, unused classes
// and empty stylesheets. Running it again changes nothing.
func (d *Document) Optimize() {
	prune := func(root *Component) {
		if root == nil {
			return
		}
		root.Walk(func(c, parent *Component) {
			if parent == nil {
				return
			}
			if c.Options == nil {
				c.Options = builder.Settings{}
			}
			c.Options.Prune()
		})
	}
	prune(d.Tree)

	var parts []ReusablePart
	seen := make(map[string]int)
	for _, p := range d.ReusableParts {
		prune(p.Tree)
		sig := p.Type + "|" + p.Part + "|" + signature(p.Tree)
		if i, dup := seen[sig]; dup {
			parts[i].Global = parts[i].Global || p.Global
			continue
		}
		seen[sig] = len(parts)
		parts = append(parts, p)
	}
	d.ReusableParts = parts

	used := make(map[string]bool)
	collect := func(root *Component) {
		if root == nil {
			return
		}
		root.Walk(func(c, _ *Component) {
			classes, _ := c.Options["classes"].([]any)
			for _, cl := range classes {
				if s, ok := cl.(string); ok {
					used[s] = true
				}
			}
		})
	}
	collect(d.Tree)
	for _, p := range d.ReusableParts {
		collect(p.Tree)
	}
	for key, cl := range d.Classes {
		if !used[key] {
			delete(d.Classes, key)
			continue
		}
		cl.Original.Prune()
		cl.Media.Prune()
		d.Classes[key] = cl
	}

	sheets := d.StyleSheets[:0]
	for _, s := range d.StyleSheets {
		if strings.TrimSpace(s.CSS) == "" {
			continue
		}
		sheets = append(sheets, s)
	}
	d.StyleSheets = sheets
}

// signature describes a tree without ids and selectors, so two parts built
// from identical components compare equal.
func signature(root *Component) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	root.Walk(func(c, _ *Component) {
		opts := make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			switch k {
			case "ct_id", "ct_parent", "selector", "nicename":
				continue
			}
			opts[k] = v
		}
		data, _ := json.Marshal(opts)
		fmt.Fprintf(&b, "%s/%d/%d:%s;", c.Name, c.Depth, len(c.Children), data)
	})
	return b.String()
}

// Serialize renders the document as JSON or as the page's shortcodes.
func (d *Document) Serialize(format builder.Format) ([]byte, error) {
	switch format {
	case builder.FormatJSON, "":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode oxygen document: %w", err)
		}
		return data, nil
	case builder.FormatShortcode:
		out, err := Shortcodes(d.Tree)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	return nil, fmt.Errorf("%w: oxygen cannot write %s", builder.ErrUnsupportedFormat, format)
}
