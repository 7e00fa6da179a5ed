package widgets

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// IconListItem is one row of an icon list.
type IconListItem struct {
	Text    string `json:"text"`
	Icon    string `json:"icon,omitempty"`
	Library string `json:"library,omitempty"`
	Link    string `json:"link,omitempty"`
}

// IconListWidget is a list whose every item starts with an icon.
type IconListWidget struct {
	Items     []IconListItem `json:"items"`
	Inline    bool           `json:"inline,omitempty"`
	IconColor string         `json:"iconColor,omitempty"`
	IconSize  *style.Size    `json:"iconSize,omitempty"`
	Gap       *style.Size    `json:"gap,omitempty"`
}

// ExtractIconListWidget recognizes an icon list with the default thresholds.
func ExtractIconListWidget(c *component.ComponentInfo) *IconListWidget {
	return extractIconList(c, DefaultOptions())
}

func extractIconList(c *component.ComponentInfo, opts Options) *IconListWidget {
	if c == nil {
		return nil
	}
	hinted := c.Type() == "icon-list" || c.ClassContains("icon-list")
	if !hinted && !c.TagIn("ul", "ol") {
		return nil
	}
	items := c.Children
	if len(items) < opts.MinIconListItems {
		return nil
	}

	w := &IconListWidget{}
	for _, item := range items {
		icon := item.FindFirst(IsIcon)
		if icon == nil {
			return nil
		}
		lib, name := LibrarySVG, ""
		if icon.Tag() != "svg" {
			lib, name = iconName(icon)
		}
		entry := IconListItem{Text: itemText(item, icon), Icon: name, Library: lib}
		if item.Tag() == "a" {
			entry.Link = item.Attr("href")
		} else if a := item.FindFirst(component.IsTag("a")); a != nil {
			entry.Link = a.Attr("href")
		}
		if entry.Text == "" {
			return nil
		}
		if w.IconColor == "" {
			w.IconColor = style.ExtractTypography(icon).Color
			w.IconSize = style.ExtractTypography(icon).FontSize
		}
		w.Items = append(w.Items, entry)
	}

	layout := style.ExtractLayout(c)
	w.Inline = layout.IsFlex() && layout.Direction != "column"
	w.Gap = layout.Gap
	return w
}

// itemText joins the texts of an item's nodes, skipping the icon.
func itemText(item, icon *component.ComponentInfo) string {
	var parts []string
	item.Walk(func(n *component.ComponentInfo, _ string, _ int) bool {
		if n == icon {
			return false
		}
		if t := strings.TrimSpace(n.TextContent); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return strings.Join(parts, " ")
}
