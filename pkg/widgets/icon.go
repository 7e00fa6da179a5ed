package widgets

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// Icon libraries.
const (
	LibrarySolid     = "fa-solid"
	LibraryRegular   = "fa-regular"
	LibraryBrands    = "fa-brands"
	LibraryDashicons = "dashicons"
	LibrarySVG       = "svg"
)

// IconWidget is a standalone icon.
type IconWidget struct {
	// Library is the icon font, or "svg" for inline SVG.
	Library string `json:"library"`
	// Name is the icon class list ("fas fa-star"), empty for SVG.
	Name  string      `json:"name,omitempty"`
	SVG   string      `json:"svg,omitempty"`
	Size  *style.Size `json:"size,omitempty"`
	Color string      `json:"color,omitempty"`
	Link  string      `json:"link,omitempty"`
	Label string      `json:"label,omitempty"`
}

var iconClassHints = []string{"fa-", "fas", "far", "fab", "dashicons", "bi-", "icon", "material-icons", "glyph"}

// IsIcon reports whether the node looks like an icon element: an i/span/svg
// carrying an icon class (or an svg), without text of its own.
func IsIcon(c *component.ComponentInfo) bool {
	if c == nil {
		return false
	}
	if c.Type() == "icon" {
		return true
	}
	switch c.Tag() {
	case "svg":
		return true
	case "i", "span":
		if strings.TrimSpace(c.TextContent) != "" && !c.ClassContains("material-icons") {
			return false
		}
		return c.ClassContains(iconClassHints...)
	}
	return false
}

// ExtractIconWidget recognizes a standalone icon, or a link wrapping only
// an icon.
func ExtractIconWidget(c *component.ComponentInfo) *IconWidget {
	if c == nil {
		return nil
	}
	link := ""
	node := c
	if c.Tag() == "a" && len(c.Children) == 1 && IsIcon(c.Children[0]) && strings.TrimSpace(c.TextContent) == "" {
		link = c.Attr("href")
		node = c.Children[0]
	}
	if !IsIcon(node) {
		return nil
	}
	w := iconFromNode(node)
	w.Link = link
	if w.Label == "" {
		w.Label = c.Attr("aria-label")
	}
	return w
}

func iconFromNode(c *component.ComponentInfo) *IconWidget {
	w := &IconWidget{Label: c.Attr("aria-label")}
	if c.Tag() == "svg" {
		w.Library = LibrarySVG
		w.SVG = c.InnerHTML
	} else {
		w.Library, w.Name = iconName(c)
	}
	typo := style.ExtractTypography(c)
	w.Size = typo.FontSize
	if w.Size == nil {
		w.Size = style.ParseSizePtr(c.Styles.Get("width"))
	}
	w.Color = typo.Color
	if w.Color == "" {
		w.Color, _ = style.NormalizeColor(c.Styles.Get("fill"))
	}
	return w
}

// iconName picks the library and class list of an icon font element.
func iconName(c *component.ComponentInfo) (string, string) {
	classes := c.Classes()
	var kept []string
	library := ""
	for _, cls := range classes {
		lower := strings.ToLower(cls)
		switch {
		case lower == "fas" || lower == "fa-solid" || lower == "fa":
			library = LibrarySolid
		case lower == "far" || lower == "fa-regular":
			library = LibraryRegular
		case lower == "fab" || lower == "fa-brands":
			library = LibraryBrands
		case lower == "dashicons":
			library = LibraryDashicons
		case strings.HasPrefix(lower, "fa-") || strings.HasPrefix(lower, "dashicons-") || strings.HasPrefix(lower, "bi-"):
		default:
			continue
		}
		kept = append(kept, cls)
	}
	if library == "" {
		library = LibrarySolid
	}
	if c.ClassContains("material-icons") {
		return "material", strings.TrimSpace(c.TextContent)
	}
	return library, strings.Join(kept, " ")
}

// findIcon returns the first icon element in the subtree.
func findIcon(c *component.ComponentInfo) *component.ComponentInfo {
	if c == nil {
		return nil
	}
	return c.FindFirst(IsIcon)
}
