package style

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gnana997/wpexport/pkg/component"
)

// DynamicTag names a WordPress data source a placeholder binds to.
type DynamicTag string

const (
	TagPostTitle     DynamicTag = "post-title"
	TagSiteTitle     DynamicTag = "site-title"
	TagPostDate      DynamicTag = "post-date"
	TagAuthorName    DynamicTag = "author-name"
	TagPostExcerpt   DynamicTag = "post-excerpt"
	TagFeaturedImage DynamicTag = "featured-image"
	TagPostURL       DynamicTag = "post-url"
	TagACF           DynamicTag = "acf"
)

var dynamicKeys = map[string]DynamicTag{
	"post_title":     TagPostTitle,
	"title":          TagPostTitle,
	"site_title":     TagSiteTitle,
	"site_name":      TagSiteTitle,
	"post_date":      TagPostDate,
	"date":           TagPostDate,
	"author":         TagAuthorName,
	"author_name":    TagAuthorName,
	"post_excerpt":   TagPostExcerpt,
	"excerpt":        TagPostExcerpt,
	"featured_image": TagFeaturedImage,
	"thumbnail":      TagFeaturedImage,
	"post_url":       TagPostURL,
	"permalink":      TagPostURL,
	"acf":            TagACF,
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_]+)(?:\s*:\s*([\w-]+))?\s*\}\}`)

// DynamicContent binds an element's content (or one attribute) to a data
// source instead of literal text.
type DynamicContent struct {
	Tag DynamicTag `json:"tag"`
	// Field is the custom field key for TagACF.
	Field string `json:"field,omitempty"`
	// Fallback is the literal text left around the placeholder.
	Fallback string `json:"fallback,omitempty"`
	// Attribute is "src" or "href" when the binding targets an attribute,
	// "" for the element's text.
	Attribute string `json:"attribute,omitempty"`
}

// ParsePlaceholder resolves "post_title" or "acf:price" style keys.
func ParsePlaceholder(key string) (DynamicContent, bool) {
	name, field, _ := strings.Cut(strings.TrimSpace(key), ":")
	tag, ok := dynamicKeys[strings.ReplaceAll(strings.ToLower(name), "-", "_")]
	if !ok {
		return DynamicContent{}, false
	}
	if tag == TagACF && field == "" {
		return DynamicContent{}, false
	}
	return DynamicContent{Tag: tag, Field: field}, true
}

// ExtractDynamicContent looks for a data-dynamic attribute, a {{...}}
// placeholder in the text, src or href, or a data-dynamic element inside the
// inner HTML. Returns nil when the element is static.
func ExtractDynamicContent(c *component.ComponentInfo) *DynamicContent {
	if c == nil {
		return nil
	}
	if key := c.Attr("data-dynamic"); key != "" {
		if d, ok := ParsePlaceholder(key); ok {
			d.Fallback = firstNonEmpty(c.Attr("data-fallback"), stripPlaceholders(c.Text()))
			if c.Tag() == "img" {
				d.Attribute = "src"
			}
			return &d
		}
	}
	if d := fromPlaceholder(strings.TrimSpace(c.TextContent)); d != nil {
		return d
	}
	for _, attr := range []string{"src", "href"} {
		if d := fromPlaceholder(c.Attr(attr)); d != nil {
			d.Attribute = attr
			d.Fallback = ""
			return d
		}
	}
	if c.IsLeaf() && strings.Contains(c.InnerHTML, "data-dynamic") {
		return fromMarkup(c.InnerHTML)
	}
	return nil
}

func fromPlaceholder(s string) *DynamicContent {
	m := placeholderPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	key := m[1]
	if m[2] != "" {
		key += ":" + m[2]
	}
	d, ok := ParsePlaceholder(key)
	if !ok {
		return nil
	}
	d.Fallback = stripPlaceholders(s)
	return &d
}

func fromMarkup(html string) *DynamicContent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	sel := doc.Find("[data-dynamic]").First()
	key, _ := sel.Attr("data-dynamic")
	d, ok := ParsePlaceholder(key)
	if !ok {
		return nil
	}
	fallback, _ := sel.Attr("data-fallback")
	d.Fallback = firstNonEmpty(fallback, strings.TrimSpace(sel.Text()))
	return &d
}

func stripPlaceholders(s string) string {
	return strings.Join(strings.Fields(placeholderPattern.ReplaceAllString(s, "")), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
