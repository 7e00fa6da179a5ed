package widgets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/component"
)

// --- Helpers ---

func img(src string) *component.ComponentInfo {
	return &component.ComponentInfo{ComponentType: "image", TagName: "img", Attributes: map[string]string{"src": src, "alt": "photo"}}
}

func galleryNode(n int) *component.ComponentInfo {
	c := &component.ComponentInfo{ComponentType: "container", TagName: "div"}
	for i := 0; i < n; i++ {
		c.Children = append(c.Children, img(fmt.Sprintf("https://cdn.test/%d.jpg", i)))
	}
	return c
}

func text(tag, s string, class ...string) *component.ComponentInfo {
	c := &component.ComponentInfo{TagName: tag, TextContent: s}
	if len(class) > 0 {
		c.ClassName = class[0]
	}
	return c
}

func icon(class string) *component.ComponentInfo {
	return &component.ComponentInfo{ComponentType: "icon", TagName: "i", ClassName: class}
}

// --- Priority ---

func TestPriorityMatchesDetectorOrder(t *testing.T) {
	require.Len(t, detectors, len(Priority))
	for i, d := range detectors {
		assert.Equal(t, Priority[i], d.kind)
	}
}

func TestDetect_NilAndPlain(t *testing.T) {
	assert.Nil(t, Detect(nil, Options{}))
	card := &component.ComponentInfo{TagName: "div", ClassName: "card", Children: []*component.ComponentInfo{
		text("h3", "Title"), text("p", "Body"), text("a", "Click", "btn"),
	}}
	assert.Nil(t, Detect(card, Options{}))
}

// --- Icon ---

func TestExtractIconWidget(t *testing.T) {
	w := ExtractIconWidget(&component.ComponentInfo{
		TagName: "i", ClassName: "fas fa-star",
		Styles: component.Styles{"fontSize": "24px", "color": "#f5a623"},
	})
	require.NotNil(t, w)
	assert.Equal(t, LibrarySolid, w.Library)
	assert.Equal(t, "fas fa-star", w.Name)
	assert.Equal(t, 24.0, w.Size.Value)
	assert.Equal(t, "#f5a623", w.Color)

	link := &component.ComponentInfo{TagName: "a", Attributes: map[string]string{"href": "https://x.test"}, Children: []*component.ComponentInfo{icon("fab fa-twitter")}}
	w = ExtractIconWidget(link)
	require.NotNil(t, w)
	assert.Equal(t, LibraryBrands, w.Library)
	assert.Equal(t, "https://x.test", w.Link)

	assert.Nil(t, ExtractIconWidget(text("span", "Hello", "label")))
}

func TestDetect_IconWinsFirst(t *testing.T) {
	det := Detect(&component.ComponentInfo{TagName: "svg", InnerHTML: "<path d='M0 0'/>"}, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindIcon, det.Kind)
	assert.Equal(t, LibrarySVG, det.Icon.Library)
}

// --- Icon list ---

func TestExtractIconListWidget(t *testing.T) {
	list := &component.ComponentInfo{TagName: "ul"}
	for _, s := range []string{"Fast", "Secure", "Cheap"} {
		list.Children = append(list.Children, &component.ComponentInfo{TagName: "li", Children: []*component.ComponentInfo{
			icon("fas fa-check"), text("span", s),
		}})
	}
	det := Detect(list, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindIconList, det.Kind)
	require.Len(t, det.IconList.Items, 3)
	assert.Equal(t, "Secure", det.IconList.Items[1].Text)
	assert.Equal(t, "fas fa-check", det.IconList.Items[1].Icon)

	plain := &component.ComponentInfo{TagName: "ul", Children: []*component.ComponentInfo{text("li", "a"), text("li", "b")}}
	assert.Nil(t, ExtractIconListWidget(plain))
}

// --- Gallery ---

func TestGalleryDetection_FiveImages(t *testing.T) {
	det := Detect(galleryNode(5), Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindGallery, det.Kind)
	assert.Len(t, det.Gallery.Images, 5)
	assert.Equal(t, 4, det.Gallery.Columns)
	assert.Equal(t, "grid", det.Gallery.Layout)
}

func TestGalleryDetection_SingleImageFallsBack(t *testing.T) {
	assert.Nil(t, ExtractGalleryWidget(galleryNode(1)))
	assert.Nil(t, Detect(galleryNode(1), Options{}))
}

func TestGalleryDetection_RequiresValidSources(t *testing.T) {
	g := galleryNode(2)
	g.Children = append(g.Children, img(""))
	assert.Nil(t, ExtractGalleryWidget(g), "unhinted gallery needs every child to be an image")

	g.ClassName = "gallery"
	w := ExtractGalleryWidget(g)
	require.NotNil(t, w)
	assert.Len(t, w.Images, 2)
}

func TestGalleryDetection_FiguresAndLightbox(t *testing.T) {
	g := &component.ComponentInfo{TagName: "div", Styles: component.Styles{"gridTemplateColumns": "repeat(3, 1fr)", "gap": "8px"}}
	for i := 0; i < 3; i++ {
		src := fmt.Sprintf("/img/%d.png", i)
		g.Children = append(g.Children, &component.ComponentInfo{TagName: "figure", Children: []*component.ComponentInfo{
			{TagName: "a", Attributes: map[string]string{"href": src}, Children: []*component.ComponentInfo{img(src)}},
			text("figcaption", fmt.Sprintf("Caption %d", i)),
		}})
	}
	w := ExtractGalleryWidget(g)
	require.NotNil(t, w)
	assert.Equal(t, 3, w.Columns)
	assert.Equal(t, 8.0, w.Gap.Value)
	assert.True(t, w.Lightbox)
	assert.True(t, w.Captions)
	assert.Equal(t, "Caption 1", w.Images[1].Caption)
}

func TestGalleryDetection_FromMarkup(t *testing.T) {
	g := &component.ComponentInfo{
		TagName:   "div",
		ClassName: "gallery",
		InnerHTML: `<img src="/a.jpg" loading="lazy"><img src="data:image/gif;base64,xx" data-src="/b.jpg"><img src="">`,
	}
	w := ExtractGalleryWidget(g)
	require.NotNil(t, w)
	require.Len(t, w.Images, 2)
	assert.Equal(t, "/b.jpg", w.Images[1].URL)
	assert.True(t, w.LazyLoad)
}

// --- Carousel ---

func TestCarouselDetection(t *testing.T) {
	c := &component.ComponentInfo{
		TagName:    "div",
		ClassName:  "swiper",
		Attributes: map[string]string{"data-autoplay": "3000", "data-loop": "true"},
		Children: []*component.ComponentInfo{
			{TagName: "div", ClassName: "swiper-wrapper", Children: []*component.ComponentInfo{
				{TagName: "div", ClassName: "swiper-slide", Children: []*component.ComponentInfo{text("h2", "One"), text("p", "First")}},
				{TagName: "div", ClassName: "swiper-slide", Children: []*component.ComponentInfo{text("h2", "Two"), text("a", "Go")}},
			}},
			{TagName: "div", ClassName: "swiper-button-next"},
			{TagName: "div", ClassName: "swiper-pagination"},
		},
	}
	det := Detect(c, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindCarousel, det.Kind)
	w := det.Carousel
	require.Len(t, w.Slides, 2)
	assert.Equal(t, "One", w.Slides[0].Heading)
	assert.Equal(t, "First", w.Slides[0].Text)
	assert.Equal(t, "Go", w.Slides[1].ButtonText)
	assert.False(t, w.ImageOnly)
	assert.True(t, w.Autoplay)
	assert.Equal(t, 3000, w.AutoplaySpeedMs)
	assert.True(t, w.Loop)
	assert.True(t, w.Arrows)
	assert.True(t, w.Dots)
}

func TestCarouselWinsOverGalleryForSliderImages(t *testing.T) {
	g := galleryNode(3)
	g.ClassName = "hero-slider"
	det := Detect(g, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindCarousel, det.Kind)
	assert.True(t, det.Carousel.ImageOnly)
	assert.Len(t, det.Carousel.Slides, 3)
}

// --- Testimonial ---

func TestTestimonialDetection(t *testing.T) {
	c := &component.ComponentInfo{TagName: "div", ClassName: "testimonial", Children: []*component.ComponentInfo{
		img("/jane.jpg"),
		text("p", `"Best product ever."`),
		text("span", "Jane Doe", "author-name"),
		text("span", "CEO", "author-title"),
		{TagName: "div", ClassName: "stars", Children: []*component.ComponentInfo{
			{TagName: "i", ClassName: "fas fa-star"}, {TagName: "i", ClassName: "fas fa-star"},
			{TagName: "i", ClassName: "fas fa-star"}, {TagName: "i", ClassName: "fas fa-star-half"},
		}},
	}}
	det := Detect(c, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindTestimonial, det.Kind)
	w := det.Testimonial
	assert.Equal(t, "Best product ever.", w.Content)
	assert.Equal(t, "Jane Doe", w.Name)
	assert.Equal(t, "CEO", w.Title)
	assert.Equal(t, "/jane.jpg", w.ImageURL)
	assert.Equal(t, 3.5, w.Rating)
}

func TestTestimonialNeedsContent(t *testing.T) {
	c := &component.ComponentInfo{TagName: "div", ClassName: "review", Children: []*component.ComponentInfo{text("span", "Jane", "name")}}
	assert.Nil(t, ExtractTestimonialWidget(c))
}

func TestRatingFromMarkup(t *testing.T) {
	assert.Equal(t, 4.5, ratingFromMarkup(`<div aria-label="Rated 4.5 out of 5"></div>`))
	assert.Equal(t, 2.0, ratingFromMarkup(`<span class="star"></span><span class="star"></span><span class="star empty"></span>`))
	assert.Equal(t, 0.0, ratingFromMarkup(""))
}

// --- Pricing ---

func TestPricingDetection(t *testing.T) {
	c := &component.ComponentInfo{TagName: "div", ClassName: "pricing-card featured", Children: []*component.ComponentInfo{
		text("span", "Most popular", "badge"),
		text("h3", "Pro"),
		text("div", "$29/mo", "price"),
		{TagName: "ul", Children: []*component.ComponentInfo{
			text("li", "Unlimited sites"),
			text("li", "Priority support", "excluded"),
		}},
		{TagName: "a", TextContent: "Buy now", Attributes: map[string]string{"href": "/buy"}},
	}}
	det := Detect(c, Options{})
	require.NotNil(t, det)
	assert.Equal(t, KindPricing, det.Kind)
	w := det.Pricing
	assert.Equal(t, "Pro", w.Heading)
	assert.Equal(t, "$", w.Currency)
	assert.Equal(t, "29", w.Price)
	assert.Equal(t, "mo", w.Period)
	require.Len(t, w.Features, 2)
	assert.True(t, w.Features[0].Included)
	assert.False(t, w.Features[1].Included)
	assert.Equal(t, "Buy now", w.ButtonText)
	assert.Equal(t, "/buy", w.ButtonURL)
	assert.True(t, w.Featured)
	assert.Equal(t, "Most popular", w.Ribbon)
}

func TestPricingNeedsPrice(t *testing.T) {
	c := &component.ComponentInfo{TagName: "div", ClassName: "pricing", Children: []*component.ComponentInfo{text("h3", "Contact us")}}
	assert.Nil(t, ExtractPricingWidget(c))
}
