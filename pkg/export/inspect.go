package export

import (
	"sort"
	"strconv"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/tokens"
	"github.com/gnana997/wpexport/pkg/widgets"
)

// WidgetHit is a node recognized as a specialized widget.
type WidgetHit struct {
	Path   string       `json:"path"`
	Tag    string       `json:"tag"`
	Kind   widgets.Kind `json:"kind"`
	Detail any          `json:"detail,omitempty"`
}

// TokenLink records the tokens one node resolves to.
type TokenLink struct {
	Path  string       `json:"path"`
	Tag   string       `json:"tag"`
	Links tokens.Links `json:"links"`
}

// Inspection is a target-neutral summary of a page: what every exporter
// will see before it writes anything.
type Inspection struct {
	Title     string         `json:"title,omitempty"`
	URL       string         `json:"url,omitempty"`
	Nodes     int            `json:"nodes"`
	Depth     int            `json:"depth"`
	Tags      map[string]int `json:"tags"`
	Widgets   []WidgetHit    `json:"widgets"`
	Tokens    []tokens.Token `json:"tokens"`
	Links     []TokenLink    `json:"links"`
	Templates int            `json:"templates"`
	Reusable  int            `json:"reusable"`
	Global    int            `json:"global"`
	Parts     []string       `json:"parts"`
}

// Inspect walks page once, detecting widgets and linking design tokens.
// Widget subtrees are not searched again, the way exporters consume them.
// Paths are slash-separated child indexes from the root ("/" is the root).
func Inspect(page *component.Page, opts builder.Options) (*Inspection, error) {
	if page == nil || page.Root == nil {
		return nil, ErrNilPage
	}
	opts = opts.Normalize()
	refs := tokens.Build(page.Palette, page.Typography)

	in := &Inspection{
		Title: page.Title,
		URL:   page.URL,
		Nodes: component.Count(page.Root),
		Tags:  make(map[string]int),
	}
	for _, kind := range []tokens.Kind{tokens.KindColor, tokens.KindFont, tokens.KindSize} {
		in.Tokens = append(in.Tokens, refs.Tokens(kind)...)
	}

	var walk func(c *component.ComponentInfo, path string, depth int, inWidget bool)
	walk = func(c *component.ComponentInfo, path string, depth int, inWidget bool) {
		if c == nil {
			return
		}
		if depth > in.Depth {
			in.Depth = depth
		}
		in.Tags[c.TagName]++
		if l := tokens.Link(c, refs); !l.Empty() {
			in.Links = append(in.Links, TokenLink{Path: path, Tag: c.TagName, Links: l})
		}
		if !inWidget {
			if det := widgets.Detect(c, opts.Detection); det != nil {
				in.Widgets = append(in.Widgets, WidgetHit{Path: path, Tag: c.TagName, Kind: det.Kind, Detail: detail(det)})
				inWidget = true
			}
		}
		for i, child := range c.Children {
			walk(child, childPath(path, i), depth+1, inWidget)
		}
	}
	walk(page.Root, "/", 1, false)

	if page.Library != nil {
		for _, t := range page.Library.Templates {
			in.Templates++
			if t.ReusabilityScore >= opts.Thresholds.ReusableScore {
				in.Reusable++
			}
			if t.ReusabilityScore >= opts.Thresholds.GlobalScore {
				in.Global++
			}
		}
	}
	for _, p := range page.Parts.All() {
		if p.Confidence >= opts.Thresholds.MinConfidence {
			in.Parts = append(in.Parts, string(p.Kind))
		}
	}
	return in, nil
}

// WidgetCounts tallies the hits per kind, in detection priority order.
func (in *Inspection) WidgetCounts() []KindCount {
	counts := make(map[widgets.Kind]int)
	for _, w := range in.Widgets {
		counts[w.Kind]++
	}
	var out []KindCount
	for _, k := range widgets.Priority {
		if n := counts[k]; n > 0 {
			out = append(out, KindCount{Kind: k, Count: n})
		}
	}
	return out
}

// KindCount pairs a widget kind with how often it was found.
type KindCount struct {
	Kind  widgets.Kind `json:"kind"`
	Count int          `json:"count"`
}

// SortedTags returns tag names, most frequent first.
func (in *Inspection) SortedTags() []string {
	tags := make([]string, 0, len(in.Tags))
	for t := range in.Tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if in.Tags[tags[i]] != in.Tags[tags[j]] {
			return in.Tags[tags[i]] > in.Tags[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

func childPath(parent string, i int) string {
	if parent == "/" {
		return "/" + strconv.Itoa(i)
	}
	return parent + "/" + strconv.Itoa(i)
}

func detail(d *widgets.Detection) any {
	switch d.Kind {
	case widgets.KindIcon:
		return d.Icon
	case widgets.KindIconList:
		return d.IconList
	case widgets.KindGallery:
		return d.Gallery
	case widgets.KindCarousel:
		return d.Carousel
	case widgets.KindTestimonial:
		return d.Testimonial
	case widgets.KindPricing:
		return d.Pricing
	}
	return nil
}
