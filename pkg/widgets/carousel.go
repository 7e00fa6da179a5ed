package widgets

import (
	"strconv"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// Slide is one carousel slide.
type Slide struct {
	Heading    string `json:"heading,omitempty"`
	Text       string `json:"text,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	ImageAlt   string `json:"imageAlt,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonURL  string `json:"buttonUrl,omitempty"`
}

// IsImageOnly reports a slide carrying nothing but an image.
func (s Slide) IsImageOnly() bool {
	return s.ImageURL != "" && s.Heading == "" && s.Text == "" && s.ButtonText == ""
}

// CarouselWidget is a slider of images or content slides.
type CarouselWidget struct {
	Slides          []Slide `json:"slides"`
	ImageOnly       bool    `json:"imageOnly"`
	Autoplay        bool    `json:"autoplay"`
	AutoplaySpeedMs int     `json:"autoplaySpeedMs,omitempty"`
	Loop            bool    `json:"loop"`
	Arrows          bool    `json:"arrows"`
	Dots            bool    `json:"dots"`
	SlidesToShow    int     `json:"slidesToShow"`
	Effect          string  `json:"effect"`
}

// DefaultAutoplaySpeedMs applies when autoplay is on without an interval.
const DefaultAutoplaySpeedMs = 5000

var (
	carouselHints = []string{"carousel", "slider", "swiper", "slick", "glide", "splide", "owl-"}
	arrowHints    = []string{"prev", "next", "arrow"}
	dotHints      = []string{"dots", "pagination", "indicators", "bullets"}
)

func hasCarouselHint(c *component.ComponentInfo) bool {
	t := c.Type()
	return t == "carousel" || t == "slider" || c.ClassContains(carouselHints...) ||
		c.Attr("data-ride") == "carousel" ||
		strings.Contains(strings.ToLower(c.Attr("aria-roledescription")), "carousel")
}

func isSlide(n *component.ComponentInfo) bool {
	if n.ClassContains(dotHints...) || n.ClassContains(arrowHints...) {
		return false
	}
	if strings.EqualFold(n.Attr("aria-roledescription"), "slide") {
		return true
	}
	for _, cls := range n.Classes() {
		tok := strings.ToLower(cls)
		switch {
		case tok == "slide", tok == "carousel-item", tok == "owl-item",
			strings.HasSuffix(tok, "-slide"), strings.HasSuffix(tok, "_slide"),
			strings.HasPrefix(tok, "slide-"):
			return true
		}
	}
	return false
}

func isControl(n *component.ComponentInfo) bool {
	return n.TagIn("button") || n.ClassContains(arrowHints...) || n.ClassContains(dotHints...)
}

// ExtractCarouselWidget recognizes a carousel with the default thresholds.
func ExtractCarouselWidget(c *component.ComponentInfo) *CarouselWidget {
	return extractCarousel(c, DefaultOptions())
}

func extractCarousel(c *component.ComponentInfo, opts Options) *CarouselWidget {
	if c == nil || !hasCarouselHint(c) {
		return nil
	}
	nodes := slideNodes(c)
	if len(nodes) < opts.MinCarouselSlides {
		return nil
	}

	w := &CarouselWidget{ImageOnly: true, SlidesToShow: 1, Effect: "slide"}
	for _, n := range nodes {
		s := slideFrom(n)
		if !s.IsImageOnly() {
			w.ImageOnly = false
		}
		w.Slides = append(w.Slides, s)
	}

	w.Autoplay = attrBool(c, "data-autoplay") || c.Attr("data-ride") == "carousel"
	if w.Autoplay {
		w.AutoplaySpeedMs = DefaultAutoplaySpeedMs
		for _, key := range []string{"data-interval", "data-autoplay-speed", "data-autoplay"} {
			if ms, err := strconv.Atoi(c.Attr(key)); err == nil && ms > 0 {
				w.AutoplaySpeedMs = ms
				break
			}
		}
	}
	w.Loop = attrBool(c, "data-loop") || attrBool(c, "data-wrap")
	if n, err := strconv.Atoi(c.Attr("data-slides-to-show")); err == nil && n > 0 {
		w.SlidesToShow = n
	}
	if c.ClassContains("fade") || c.Attr("data-effect") == "fade" {
		w.Effect = "fade"
	}
	for _, d := range c.Descendants() {
		if d.ClassContains(arrowHints...) {
			w.Arrows = true
		}
		if d.ClassContains(dotHints...) {
			w.Dots = true
		}
	}
	return w
}

// slideNodes finds explicit slides anywhere below c; without slide
// classes, the children of the first track/wrapper (or of c itself) that
// are not navigation controls count as slides.
func slideNodes(c *component.ComponentInfo) []*component.ComponentInfo {
	if slides := c.Find(isSlide); len(slides) > 0 {
		return outermost(slides)
	}
	container := c
	if track := c.FindFirst(func(n *component.ComponentInfo) bool {
		return n.ClassContains("track", "wrapper", "inner", "list") && len(n.Children) > 1
	}); track != nil {
		container = track
	}
	var out []*component.ComponentInfo
	for _, child := range container.Children {
		if !isControl(child) {
			out = append(out, child)
		}
	}
	return out
}

// outermost drops nodes nested inside another node of the list.
func outermost(nodes []*component.ComponentInfo) []*component.ComponentInfo {
	inner := make(map[*component.ComponentInfo]bool)
	for _, n := range nodes {
		for _, d := range n.Descendants() {
			inner[d] = true
		}
	}
	var out []*component.ComponentInfo
	for _, n := range nodes {
		if !inner[n] {
			out = append(out, n)
		}
	}
	return out
}

func slideFrom(n *component.ComponentInfo) Slide {
	var s Slide
	all := append([]*component.ComponentInfo{n}, n.Descendants()...)
	for _, d := range all {
		switch {
		case d.Tag() == "img" && s.ImageURL == "":
			s.ImageURL = imageSource(d.Attr("src"), d.Attr("data-src"), d.Attr("srcset"))
			s.ImageAlt = d.Attr("alt")
		case d.HeadingLevel() > 0 && s.Heading == "":
			s.Heading = d.Text()
		case d.TagIn("a", "button") && s.ButtonText == "" && d != n:
			s.ButtonText = d.Text()
			s.ButtonURL = d.Attr("href")
		case d.TagIn("p", "span") && s.Text == "":
			s.Text = strings.TrimSpace(d.TextContent)
		}
	}
	if s.ImageURL == "" {
		s.ImageURL = style.ExtractBackground(n).ImageURL
	}
	return s
}

func attrBool(c *component.ComponentInfo, key string) bool {
	v, ok := c.Attributes[key]
	if !ok {
		return false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v != "false" && v != "0"
}
