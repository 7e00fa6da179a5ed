package widgets

import (
	"strconv"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// TestimonialWidget is a customer quote with attribution.
type TestimonialWidget struct {
	Content  string  `json:"content"`
	Name     string  `json:"name,omitempty"`
	Title    string  `json:"title,omitempty"`
	Company  string  `json:"company,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

var (
	testimonialHints = []string{"testimonial", "review", "quote"}
	nameHints        = []string{"name", "author", "cite", "client"}
	titleHints       = []string{"title", "position", "role", "job", "designation"}
)

// ExtractTestimonialWidget recognizes a quote card: a testimonial/review
// hint (or a blockquote) with quote text and an attribution.
func ExtractTestimonialWidget(c *component.ComponentInfo) *TestimonialWidget {
	if c == nil || c.IsLeaf() && c.InnerHTML == "" {
		return nil
	}
	hinted := c.Type() == "testimonial" || c.ClassContains(testimonialHints...) || c.Tag() == "blockquote"
	if !hinted {
		return nil
	}

	w := &TestimonialWidget{}
	nodes := append([]*component.ComponentInfo{c}, c.Descendants()...)
	for _, d := range nodes {
		text := strings.TrimSpace(d.TextContent)
		switch {
		case d.Tag() == "img" && w.ImageURL == "":
			w.ImageURL = imageSource(d.Attr("src"), d.Attr("data-src"), d.Attr("srcset"))
		case text == "":
		case d.Tag() == "cite" || d.ClassContains(nameHints...) && !d.ClassContains(titleHints...):
			if w.Name == "" {
				w.Name = strings.TrimLeft(text, "-— ")
			}
		case d.ClassContains("company"):
			w.Company = text
		case d.ClassContains(titleHints...):
			if w.Title == "" {
				w.Title = text
			}
		case d.TagIn("p", "blockquote", "q") || d.ClassContains("content", "text", "body"):
			if w.Content == "" {
				w.Content = strings.Trim(text, `"“”`)
			}
		}
	}
	if w.Name == "" {
		if strong := c.FindFirst(component.IsTag("strong", "b", "h4", "h5", "h6")); strong != nil && strong.Text() != w.Content {
			w.Name = strong.Text()
		}
	}

	w.Rating = rating(c)
	if w.Content == "" || w.Name == "" && w.Rating == 0 {
		return nil
	}
	return w
}

// rating reads data-rating, then star markup in the subtree.
func rating(c *component.ComponentInfo) float64 {
	for _, n := range append([]*component.ComponentInfo{c}, c.Descendants()...) {
		if v, err := strconv.ParseFloat(n.Attr("data-rating"), 64); err == nil && v > 0 && v <= 5 {
			return v
		}
		if v := parseRating(n.Attr("aria-label")); v > 0 {
			return v
		}
	}
	stars := 0.0
	for _, n := range c.Find(func(n *component.ComponentInfo) bool { return n.ClassContains("star") }) {
		switch {
		case n.ClassContains("empty"):
		case n.ClassContains("half"):
			stars += 0.5
		case n.IsLeaf():
			stars++
		}
	}
	if stars == 0 {
		for _, n := range append([]*component.ComponentInfo{c}, c.Descendants()...) {
			if n.IsLeaf() && strings.Contains(n.InnerHTML, "star") {
				stars = ratingFromMarkup(n.InnerHTML)
				break
			}
		}
	}
	return min(stars, 5)
}
