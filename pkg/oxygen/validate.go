package oxygen

import (
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/validator"
)

// Validate checks the component trees for the nesting Oxygen accepts and
// for consistent ids, parents and selectors. Problems are reported, never
// fixed.
func (d *Document) Validate() *validator.Report {
	c := validator.NewCollector(string(builder.TargetOxygen))
	refs := make(map[string]bool)

	check := func(root *Component, where string) {
		if root == nil {
			c.Error("missing-tree", where, "%s has no component tree", where)
			return
		}
		for i, top := range root.Children {
			if top.Name != CtSection {
				c.Error("top-level-not-section", where, "top-level component %d is a %s, expected %s", i, top.Name, CtSection)
				c.Suggest("wrap top-level components in a section")
			}
		}
		ids := make(map[int]string)
		selectors := make(map[string]string)
		root.Walk(func(comp, parent *Component) {
			if parent == nil {
				return
			}
			checkComponent(c, comp, parent, where, ids, selectors)
			for s := range comp.Options.Strings() {
				refs[s] = true
			}
		})
	}
	check(d.Tree, "page")
	if d.Tree == nil || len(d.Tree.Children) == 0 {
		c.Warn("empty-document", "", "page has no components")
	}
	for _, p := range d.ReusableParts {
		where := "part " + p.Title
		if p.Tree != nil && len(p.Tree.Children) == 0 {
			c.Warn("empty-part", where, "%s %q has no components", p.Type, p.Title)
		}
		check(p.Tree, where)
	}

	for _, key := range classKeys(d.Classes) {
		if !refs[strings.ToLower(key)] {
			c.Warn("unused-class", "", "class %q is never used", key)
		}
	}
	for _, col := range d.GlobalColors.Colors {
		if !refs[fmt.Sprintf("color(%d)", col.ID)] && !refs[strings.ToLower(col.Value)] {
			c.Warn("unused-global-color", "", "global color %d %q (%s) is never referenced", col.ID, col.Name, col.Value)
		}
	}
	for name, family := range d.GlobalSettings.Fonts {
		if !refs[strings.ToLower(name)] && !refs[strings.ToLower(family)] {
			c.Warn("unused-global-font", "", "global font %q (%s) is never referenced", name, family)
		}
	}
	return c.Report()
}

// intOption reads a numeric option written in memory (int) or decoded
// from JSON (float64).
func intOption(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func checkComponent(c *validator.Collector, comp, parent *Component, where string, ids map[int]string, selectors map[string]string) {
	path := comp.Source
	if path == "" {
		path = where
	}
	if strings.TrimSpace(comp.Name) == "" {
		c.Error("empty-component-name", path, "component %d has no name", comp.ID)
		return
	}

	if comp.ID <= 0 {
		c.Error("invalid-id", path, "%s has id %d", comp.Name, comp.ID)
	} else if prev, dup := ids[comp.ID]; dup {
		c.Error("duplicate-id", path, "id %d is used twice (first at %s)", comp.ID, prev)
	} else {
		ids[comp.ID] = path
	}
	if id, ok := intOption(comp.Options["ct_id"]); !ok || id != comp.ID {
		c.Error("id-mismatch", path, "%s %d carries ct_id %v", comp.Name, comp.ID, comp.Options["ct_id"])
	}
	if p, ok := intOption(comp.Options["ct_parent"]); !ok || p != parent.ID {
		c.Error("parent-mismatch", path, "%s %d is inside %d but ct_parent is %v", comp.Name, comp.ID, parent.ID, comp.Options["ct_parent"])
	}
	if comp.Depth != parent.Depth+1 {
		c.Warn("depth-mismatch", path, "%s %d has depth %d under depth %d", comp.Name, comp.ID, comp.Depth, parent.Depth)
	}

	sel, _ := comp.Options["selector"].(string)
	switch {
	case sel == "":
		c.Error("missing-selector", path, "%s %d has no selector", comp.Name, comp.ID)
	case selectors[sel] != "":
		c.Error("duplicate-selector", path, "selector %q is used twice (first at %s)", sel, selectors[sel])
	default:
		selectors[sel] = path
	}

	if !IsContainer(comp.Name) && len(comp.Children) > 0 {
		c.Error("widget-with-children", path, "%s %d has child components", comp.Name, comp.ID)
	}
	switch comp.Name {
	case CtSection:
		for _, child := range comp.Children {
			if child.Name != CtDivBlock && child.Name != CtNewColumns {
				c.Error("section-child-not-column", path, "section %d contains a %s", comp.ID, child.Name)
			}
		}
	case CtNewColumns:
		for _, child := range comp.Children {
			if child.Name != CtDivBlock {
				c.Error("new-columns-child-not-div-block", path, "columns %d contain a %s", comp.ID, child.Name)
			}
		}
	case CtSlider:
		for _, child := range comp.Children {
			if child.Name != CtSlide {
				c.Error("slider-child-not-slide", path, "slider %d contains a %s", comp.ID, child.Name)
			}
		}
	case CtSlide:
		if parent.Name != CtSlider {
			c.Error("slide-outside-slider", path, "slide %d is not inside a slider", comp.ID)
		}
	case OxyGallery:
		if imgs, _ := comp.Options["images"].([]any); len(imgs) == 0 {
			c.Error("empty-gallery", path, "gallery %d has no images", comp.ID)
		}
	case CtImage:
		if src, _ := comp.Options["src"].(string); src == "" {
			c.Warn("missing-image-src", path, "image %d has no source", comp.ID)
			c.Suggest("set the image source after importing the media")
		}
	case CtLinkButton:
		if u, _ := comp.Options["url"].(string); u == "" {
			c.Info("button-without-link", path, "button %d links nowhere", comp.ID)
		}
	case OxyNavMenu:
		c.Info("menu-needs-assignment", path, "nav menu %d needs a WordPress menu assigned after import", comp.ID)
	}
}
