package gutenberg

import (
	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/style"
)

var dynamicBlocks = map[style.DynamicTag]string{
	style.TagPostTitle:     BlockPostTitle,
	style.TagSiteTitle:     BlockSiteTitle,
	style.TagPostDate:      BlockPostDate,
	style.TagAuthorName:    BlockPostAuthorName,
	style.TagPostExcerpt:   BlockPostExcerpt,
	style.TagFeaturedImage: BlockPostFeaturedImage,
}

// dynamicBlock replaces a node bound to post or site data with the core
// block that renders it on the server. Custom fields and permalinks keep
// their block and get a binding instead.
func (e *Exporter) dynamicBlock(a *builder.Analysis) *Block {
	d := a.Dynamic
	if d == nil {
		return nil
	}
	name, ok := dynamicBlocks[d.Tag]
	if !ok {
		return nil
	}
	if d.Attribute == "href" {
		return nil
	}
	if (d.Attribute == "src") != (d.Tag == style.TagFeaturedImage) {
		return nil
	}

	b := newBlock(name, a.Trace())
	switch name {
	case BlockPostTitle, BlockSiteTitle:
		level := 0
		if a.Kind == builder.KindHeading {
			level = a.Heading(2)
		}
		b.Attrs["level"] = level
		if a.Link() != "" {
			b.Attrs["isLink"] = true
		}
		e.applyStyle(b.Attrs, a, supportText)
	case BlockPostFeaturedImage:
		b.Attrs["sizeSlug"] = "full"
		e.applyStyle(b.Attrs, a, supportSpacing|supportBorder)
	default:
		e.applyStyle(b.Attrs, a, supportText)
	}
	if d.Fallback != "" {
		b.Attrs["metadata"] = builder.Settings{"fallback": d.Fallback}
	}
	b.dynamic()
	return b
}

// binding connects a custom field to the block's content (or url for an
// image) through block bindings.
func (e *Exporter) binding(attrs builder.Settings, a *builder.Analysis) {
	d := a.Dynamic
	if d == nil || d.Tag != style.TagACF || d.Field == "" {
		return
	}
	target := "content"
	if d.Attribute == "src" {
		target = "url"
	}
	meta := builder.Settings{}
	if existing := builder.AsMap(attrs["metadata"]); existing != nil {
		meta = builder.Settings(existing).Clone()
	}
	meta["bindings"] = builder.Settings{
		target: builder.Settings{
			"source": "core/post-meta",
			"args":   builder.Settings{"key": d.Field},
		},
	}
	attrs["metadata"] = meta
}
