package elementor

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/validator"
)

// Validate checks the document for structural completeness. Problems are
// reported, never fixed.
func (d *Document) Validate() *validator.Report {
	c := validator.NewCollector(string(builder.TargetElementor))
	seen := make(map[string]string)
	refs := make(map[string]bool)

	check := func(content []*Element, where string) {
		for i, top := range content {
			if top.ElType != ElSection {
				c.Error("top-level-not-section", where, "top-level element %d is a %q, expected a section", i, top.ElType)
				c.Suggest("wrap widgets and columns in a section")
			}
			top.Walk(func(el, parent *Element) {
				d.checkElement(c, el, parent, seen)
				for s := range el.Settings.Strings() {
					refs[s] = true
				}
			})
		}
	}
	check(d.Content, "content")
	for _, t := range d.Templates {
		if len(t.Content) == 0 {
			c.Warn("empty-template", t.ID, "template %q has no content", t.Title)
		}
		check(t.Content, "template "+t.ID)
	}

	if len(d.Content) == 0 {
		c.Warn("empty-content", "", "page has no sections")
	}

	for _, col := range d.PageSettings.CustomColors {
		if col.ID == "" {
			c.Error("missing-color-id", "", "global color %q has no id", col.Color)
			continue
		}
		if !refs["globals/colors?id="+strings.ToLower(col.ID)] && !refs[strings.ToLower(col.Color)] {
			c.Warn("unused-global-color", "", "global color %q (%s) is never referenced", col.ID, col.Color)
		}
	}
	for _, f := range d.PageSettings.CustomFonts {
		if !refs["globals/typography?id="+strings.ToLower(f.ID)] && !refs[strings.ToLower(f.FontFamily)] {
			c.Warn("unused-global-font", "", "global font %q (%s) is never referenced", f.ID, f.FontFamily)
		}
	}
	return c.Report()
}

func (d *Document) checkElement(c *validator.Collector, el, parent *Element, seen map[string]string) {
	path := el.Source
	if el.ID == "" {
		c.Error("missing-id", path, "%s has no id", el.ElType)
	} else if prev, dup := seen[el.ID]; dup {
		c.Error("duplicate-id", path, "id %q is used twice (first at %s)", el.ID, prev)
	} else {
		seen[el.ID] = path
	}

	switch el.ElType {
	case ElSection:
		if len(el.Elements) == 0 {
			c.Warn("empty-section", path, "section %s has no columns", el.ID)
		}
		for _, child := range el.Elements {
			if child.ElType != ElColumn {
				c.Error("section-child-not-column", path, "section %s contains a %s", el.ID, child.ElType)
			}
		}
		if el.IsInner && parent != nil {
			if parent.ElType != ElColumn {
				c.Error("inner-section-outside-column", path, "inner section %s is not inside a column", el.ID)
			}
		}
		if !el.IsInner && parent != nil {
			c.Warn("nested-outer-section", path, "section %s is nested but not marked inner", el.ID)
		}
	case ElColumn:
		if parent == nil || parent.ElType != ElSection {
			c.Error("column-outside-section", path, "column %s is not inside a section", el.ID)
		}
		for _, child := range el.Elements {
			if child.ElType == ElColumn {
				c.Error("column-in-column", path, "column %s contains a column", el.ID)
			}
			if child.ElType == ElSection && !child.IsInner {
				c.Error("outer-section-in-column", path, "column %s contains a non-inner section", el.ID)
			}
		}
		if parent != nil && parent.IsInner && hasInnerSection(el) {
			c.Warn("nested-inner-section", path, "column %s nests an inner section inside an inner section", el.ID)
			c.Suggest("Elementor edits only one level of inner sections")
		}
	case ElWidget:
		if strings.TrimSpace(el.WidgetType) == "" {
			c.Error("empty-widget-type", path, "widget %s has no widget type", el.ID)
		}
		if len(el.Elements) > 0 {
			c.Error("widget-with-children", path, "widget %s has child elements", el.ID)
		}
		if parent == nil || parent.ElType != ElColumn {
			c.Error("widget-outside-column", path, "widget %s is not inside a column", el.ID)
		}
		d.checkWidget(c, el, path)
	default:
		c.Error("invalid-el-type", path, "unknown elType %q", el.ElType)
	}
}

func (d *Document) checkWidget(c *validator.Collector, el *Element, path string) {
	s := el.Settings
	switch el.WidgetType {
	case WidgetImage:
		img := builder.AsMap(s["image"])
		if url, _ := img["url"].(string); url == "" {
			c.Warn("missing-image-url", path, "image widget %s has no image url", el.ID)
		}
	case WidgetButton:
		if _, ok := s["link"]; !ok {
			c.Info("button-without-link", path, "button %s links nowhere", el.ID)
		}
	case WidgetGallery:
		if imgs, _ := s["wp_gallery"].([]any); len(imgs) == 0 {
			c.Error("empty-gallery", path, "gallery %s has no images", el.ID)
		}
	case WidgetNavMenu:
		c.Info("menu-needs-assignment", path, "nav-menu %s needs a WordPress menu assigned after import", el.ID)
	}
}

func hasInnerSection(col *Element) bool {
	for _, child := range col.Elements {
		if child.ElType == ElSection {
			return true
		}
	}
	return false
}
