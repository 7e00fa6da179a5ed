// Package widgets recognizes higher-level widgets (icons, icon lists,
// galleries, carousels, testimonials, pricing tables) in a generic
// component subtree and extracts their structured data.
//
// Detectors are independent of each other. Detect runs them in a fixed
// priority order and returns the first match, so a node resolves to at most
// one specialized widget.
package widgets

import (
	"github.com/gnana997/wpexport/pkg/component"
)

// Kind identifies a specialized widget.
type Kind string

const (
	KindIcon        Kind = "icon"
	KindIconList    Kind = "icon-list"
	KindGallery     Kind = "gallery"
	KindCarousel    Kind = "carousel"
	KindTestimonial Kind = "testimonial"
	KindPricing     Kind = "pricing-table"
)

// Options tunes detection thresholds.
type Options struct {
	MinGalleryImages  int `json:"minGalleryImages" yaml:"min_gallery_images" toml:"min_gallery_images"`
	MinCarouselSlides int `json:"minCarouselSlides" yaml:"min_carousel_slides" toml:"min_carousel_slides"`
	MinIconListItems  int `json:"minIconListItems" yaml:"min_icon_list_items" toml:"min_icon_list_items"`
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{MinGalleryImages: 2, MinCarouselSlides: 2, MinIconListItems: 2}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinGalleryImages <= 0 {
		o.MinGalleryImages = d.MinGalleryImages
	}
	if o.MinCarouselSlides <= 0 {
		o.MinCarouselSlides = d.MinCarouselSlides
	}
	if o.MinIconListItems <= 0 {
		o.MinIconListItems = d.MinIconListItems
	}
	return o
}

// Detection is the result of Detect. Exactly one widget field matching Kind
// is set.
type Detection struct {
	Kind        Kind
	Icon        *IconWidget
	IconList    *IconListWidget
	Gallery     *GalleryWidget
	Carousel    *CarouselWidget
	Testimonial *TestimonialWidget
	Pricing     *PricingWidget
}

// detector pairs a kind with its extraction function.
type detector struct {
	kind Kind
	fn   func(*component.ComponentInfo, Options) *Detection
}

// Priority is the order Detect tries detectors in.
var Priority = []Kind{KindIcon, KindIconList, KindGallery, KindCarousel, KindTestimonial, KindPricing}

var detectors = []detector{
	{KindIcon, func(c *component.ComponentInfo, _ Options) *Detection {
		if w := ExtractIconWidget(c); w != nil {
			return &Detection{Kind: KindIcon, Icon: w}
		}
		return nil
	}},
	{KindIconList, func(c *component.ComponentInfo, o Options) *Detection {
		if w := extractIconList(c, o); w != nil {
			return &Detection{Kind: KindIconList, IconList: w}
		}
		return nil
	}},
	{KindGallery, func(c *component.ComponentInfo, o Options) *Detection {
		if w := extractGallery(c, o); w != nil {
			return &Detection{Kind: KindGallery, Gallery: w}
		}
		return nil
	}},
	{KindCarousel, func(c *component.ComponentInfo, o Options) *Detection {
		if w := extractCarousel(c, o); w != nil {
			return &Detection{Kind: KindCarousel, Carousel: w}
		}
		return nil
	}},
	{KindTestimonial, func(c *component.ComponentInfo, _ Options) *Detection {
		if w := ExtractTestimonialWidget(c); w != nil {
			return &Detection{Kind: KindTestimonial, Testimonial: w}
		}
		return nil
	}},
	{KindPricing, func(c *component.ComponentInfo, _ Options) *Detection {
		if w := ExtractPricingWidget(c); w != nil {
			return &Detection{Kind: KindPricing, Pricing: w}
		}
		return nil
	}},
}

// Detect tries every detector in priority order and returns the first
// match, or nil.
func Detect(c *component.ComponentInfo, opts Options) *Detection {
	if c == nil {
		return nil
	}
	opts = opts.withDefaults()
	for _, d := range detectors {
		if det := d.fn(c, opts); det != nil {
			return det
		}
	}
	return nil
}
