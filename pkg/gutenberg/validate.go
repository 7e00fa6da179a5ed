package gutenberg

import (
	"regexp"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/validator"
)

var imgSrcPattern = regexp.MustCompile(`<img[^>]*\ssrc="([^"]*)"`)

// Validate checks block nesting rules and that the block grammar can be
// round-tripped. Problems are reported, never fixed.
func (d *Document) Validate() *validator.Report {
	c := validator.NewCollector(string(builder.TargetGutenberg))
	anchors := make(map[string]string)
	refs := make(map[string]bool)

	check := func(blocks []*Block, where string) {
		for _, top := range blocks {
			top.Walk(func(blk, parent *Block) {
				checkBlock(c, blk, parent, where, anchors)
				for s := range blk.Attrs.Strings() {
					refs[s] = true
				}
			})
		}
	}
	check(d.Blocks, "blocks")
	for _, p := range d.Patterns {
		if len(p.Blocks) == 0 {
			c.Warn("empty-pattern", p.Name, "pattern %q has no blocks", p.Title)
		}
		check(p.Blocks, "pattern "+p.Name)
	}
	for _, r := range d.ReusableBlocks {
		if len(r.Blocks) == 0 {
			c.Warn("empty-pattern", r.Title, "reusable block %q has no blocks", r.Title)
		}
		check(r.Blocks, "reusable block "+r.Title)
	}
	for _, t := range d.TemplateParts {
		check(t.Blocks, "template part "+t.Slug)
	}

	if len(d.Blocks) == 0 {
		c.Warn("empty-document", "", "page has no blocks")
	}

	css := strings.ToLower(d.GlobalStyles.Styles.CSS)
	for _, col := range d.GlobalStyles.Settings.Color.Palette {
		slug := strings.ToLower(col.Slug)
		if !refs[slug] && !refs["var:preset|color|"+slug] && !refs[strings.ToLower(col.Color)] &&
			!strings.Contains(css, strings.ToLower(col.Color)) {
			c.Warn("unused-palette-color", "", "palette color %q (%s) is never referenced", col.Slug, col.Color)
		}
	}
	for _, f := range d.GlobalStyles.Settings.Typography.FontFamilies {
		slug := strings.ToLower(f.Slug)
		if !refs[slug] && !refs["var:preset|font-family|"+slug] && !refs[strings.ToLower(f.FontFamily)] {
			c.Warn("unused-font-family", "", "font family %q (%s) is never referenced", f.Slug, f.FontFamily)
		}
	}
	return c.Report()
}

// allowedParents lists blocks that may only appear inside one parent.
var allowedParents = map[string]string{
	BlockColumn:         BlockColumns,
	BlockButton:         BlockButtons,
	BlockListItem:       BlockList,
	BlockNavigationLink: BlockNavigation,
}

// allowedChildren lists blocks whose inner blocks are restricted.
var allowedChildren = map[string]string{
	BlockColumns: BlockColumn,
	BlockButtons: BlockButton,
	BlockList:    BlockListItem,
	BlockGallery: BlockImage,
}

var parentRules = map[string]string{
	BlockColumn:         "column-outside-columns",
	BlockButton:         "button-outside-buttons",
	BlockListItem:       "list-item-outside-list",
	BlockNavigationLink: "navigation-link-outside-navigation",
}

var childRules = map[string]string{
	BlockColumns: "columns-child-not-column",
	BlockButtons: "buttons-child-not-button",
	BlockList:    "list-child-not-list-item",
	BlockGallery: "gallery-child-not-image",
}

func checkBlock(c *validator.Collector, blk, parent *Block, where string, anchors map[string]string) {
	path := blk.Source
	if path == "" {
		path = where
	}
	if strings.TrimSpace(blk.Name) == "" {
		c.Error("empty-block-name", path, "block has no name")
		return
	}

	if want, ok := allowedParents[blk.Name]; ok {
		// top-level template part or pattern content may not start with one
		if parent == nil || parent.Name != want {
			c.Error(parentRules[blk.Name], path, "%s must be inside %s", blk.Name, want)
		}
	}
	if want, ok := allowedChildren[blk.Name]; ok {
		for _, child := range blk.InnerBlocks {
			if child.Name != want {
				c.Error(childRules[blk.Name], path, "%s contains a %s, expected %s", blk.Name, child.Name, want)
			}
		}
	}

	if id, _ := blk.Attrs["anchor"].(string); id != "" {
		if prev, dup := anchors[id]; dup {
			c.Error("duplicate-anchor", path, "anchor %q is used twice (first at %s)", id, prev)
		} else {
			anchors[id] = path
		}
	}

	if len(blk.InnerContent) > 0 {
		placeholders := 0
		for _, piece := range blk.InnerContent {
			if piece == nil {
				placeholders++
			}
		}
		if placeholders != len(blk.InnerBlocks) {
			c.Error("inner-content-mismatch", path, "%s has %d inner blocks but %d placeholders", blk.Name, len(blk.InnerBlocks), placeholders)
		}
	}

	switch blk.Name {
	case BlockGallery:
		if len(blk.InnerBlocks) == 0 {
			c.Error("empty-gallery", path, "gallery has no images")
		}
	case BlockImage:
		m := imgSrcPattern.FindStringSubmatch(blk.InnerHTML)
		if m == nil || m[1] == "" {
			c.Warn("image-without-url", path, "image has no source")
			c.Suggest("set the image source after importing the media")
		}
	case BlockNavigation:
		c.Info("navigation-needs-menu", path, "navigation has %d custom links; assign a menu after import", len(blk.InnerBlocks))
	}
}
