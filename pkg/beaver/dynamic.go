package beaver

import (
	"html"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/style"
)

// Connection binds a module setting to a Themer field connection.
type Connection struct {
	Object   string           `json:"object"`
	Property string           `json:"property"`
	Field    string           `json:"field"`
	Settings builder.Settings `json:"settings,omitempty"`
}

var connectionSources = map[style.DynamicTag][2]string{
	style.TagPostTitle:     {"post", "title"},
	style.TagSiteTitle:     {"site", "title"},
	style.TagPostDate:      {"post", "date"},
	style.TagAuthorName:    {"post", "author_name"},
	style.TagPostExcerpt:   {"post", "excerpt"},
	style.TagFeaturedImage: {"post", "featured_image"},
	style.TagPostURL:       {"post", "url"},
}

// contentKeys is the setting a module renders as its text.
var contentKeys = map[string]string{
	ModHeading:  "heading",
	ModRichText: "text",
	ModButton:   "text",
	ModHTML:     "html",
}

// connection returns the connection for a dynamic binding feeding a field
// of the given type ("text", "html", "url" or "photo").
func connection(d *style.DynamicContent, field string) (Connection, bool) {
	if d == nil {
		return Connection{}, false
	}
	if d.Tag == style.TagACF {
		if d.Field == "" {
			return Connection{}, false
		}
		return Connection{
			Object:   "post",
			Property: "acf",
			Field:    field,
			Settings: builder.Settings{"type": field, "name": d.Field},
		}, true
	}
	src, ok := connectionSources[d.Tag]
	if !ok {
		return Connection{}, false
	}
	return Connection{Object: src[0], Property: src[1], Field: field}, true
}

// connect records the module's dynamic binding under its "connections"
// setting. The literal setting stays as the value shown when the
// connection resolves to nothing.
func (e *Exporter) connect(n *Node, a *builder.Analysis) {
	d := a.Dynamic
	if d == nil {
		return
	}
	var key, field string
	switch d.Attribute {
	case "href":
		key, field = "link", "url"
		if n.Module() == ModPhoto {
			key = "link_url"
		}
	case "src":
		if n.Module() != ModPhoto {
			return
		}
		key, field = "photo", "photo"
	default:
		k, ok := contentKeys[n.Module()]
		if !ok {
			e.log.Debug("module has no connectable text", "path", a.Path, "module", n.Module())
			return
		}
		key, field = k, "text"
		if k == "html" || (k == "text" && n.Module() == ModRichText) {
			field = "html"
		}
	}
	c, ok := connection(d, field)
	if !ok {
		return
	}
	conns, _ := n.Settings["connections"].(builder.Settings)
	if conns == nil {
		conns = builder.Settings{}
		n.Settings["connections"] = conns
	}
	conns[key] = c
	if d.Fallback != "" {
		switch key {
		case "heading", "text", "html":
			n.Settings[key] = html.EscapeString(d.Fallback)
		}
	}
}
