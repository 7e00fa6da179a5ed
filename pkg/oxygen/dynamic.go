package oxygen

import (
	"fmt"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/style"
)

var dynamicData = map[style.DynamicTag]string{
	style.TagPostTitle:     "data='title'",
	style.TagSiteTitle:     "data='bloginfo' show='name'",
	style.TagPostDate:      "data='date'",
	style.TagAuthorName:    "data='author'",
	style.TagPostExcerpt:   "data='excerpt'",
	style.TagFeaturedImage: "data='featured_image'",
	style.TagPostURL:       "data='permalink'",
}

// dynamicShortcode returns the [oxygen] shortcode reading a data source,
// or "" for an unknown tag.
func dynamicShortcode(d *style.DynamicContent) string {
	if d == nil {
		return ""
	}
	if d.Tag == style.TagACF {
		if d.Field == "" {
			return ""
		}
		return fmt.Sprintf("[oxygen data='meta' key='%s']", d.Field)
	}
	data, ok := dynamicData[d.Tag]
	if !ok {
		return ""
	}
	return "[oxygen " + data + "]"
}

// dynamic binds a component's text, or its url for href bindings, to a
// data source. Oxygen has no fallback text, so the fallback is dropped.
func (e *Exporter) dynamic(c *Component, a *builder.Analysis) {
	code := dynamicShortcode(a.Dynamic)
	if code == "" {
		return
	}
	switch a.Dynamic.Attribute {
	case "href":
		c.Options["url"] = code
	case "src":
		return
	default:
		c.Options["ct_content"] = code
	}
	if a.Dynamic.Fallback != "" {
		e.log.Debug("dropping dynamic fallback", "path", a.Path, "fallback", a.Dynamic.Fallback)
	}
}
