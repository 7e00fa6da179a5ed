package widgets

import (
	"path"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// GalleryImage is one gallery item.
type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Link    string `json:"link,omitempty"`
	Lazy    bool   `json:"-"`
}

// GalleryWidget is a grid of images.
type GalleryWidget struct {
	Images   []GalleryImage `json:"images"`
	Layout   string         `json:"layout"`
	Columns  int            `json:"columns"`
	Gap      *style.Size    `json:"gap,omitempty"`
	Lightbox bool           `json:"lightbox"`
	Captions bool           `json:"captions"`
	LazyLoad bool           `json:"lazyLoad"`
}

// ExtractGalleryWidget recognizes a gallery with the default thresholds.
func ExtractGalleryWidget(c *component.ComponentInfo) *GalleryWidget {
	return extractGallery(c, DefaultOptions())
}

func extractGallery(c *component.ComponentInfo, opts Options) *GalleryWidget {
	if c == nil || hasCarouselHint(c) || c.TagIn("img", "picture") {
		return nil
	}
	hinted := c.Type() == "gallery" || c.ClassContains("gallery", "grid-images", "photos")

	var images []GalleryImage
	switch {
	case len(c.Children) > 0:
		var ok bool
		images, ok = galleryItems(c, hinted)
		if !ok {
			return nil
		}
	case c.InnerHTML != "":
		images = imagesFromMarkup(c.InnerHTML)
	}
	if len(images) < opts.MinGalleryImages {
		return nil
	}

	w := &GalleryWidget{Images: images, Layout: "grid"}
	if c.ClassContains("masonry") {
		w.Layout = "masonry"
	} else if c.ClassContains("justified") {
		w.Layout = "justified"
	}

	layout := style.ExtractLayout(c)
	w.Gap = layout.Gap
	w.Columns = layout.GridColumns
	if w.Columns == 0 {
		w.Columns = min(len(images), 4)
	}
	w.Lightbox = c.ClassContains("lightbox") || c.Attr("data-lightbox") != ""
	for _, img := range images {
		if img.Caption != "" {
			w.Captions = true
		}
		if img.Lazy {
			w.LazyLoad = true
		}
		if isImageFile(img.Link) {
			w.Lightbox = true
		}
	}
	return w
}

// galleryItems collects one image per direct child. Without a gallery hint
// every child must be an image item; with a hint non-image children are
// skipped and nested images are collected.
func galleryItems(c *component.ComponentInfo, hinted bool) ([]GalleryImage, bool) {
	var out []GalleryImage
	for _, child := range c.Children {
		img, ok := imageItem(child)
		if ok {
			out = append(out, img)
			continue
		}
		if !hinted {
			return nil, false
		}
		for _, n := range child.Find(component.IsTag("img")) {
			if img, ok := imageItem(n); ok {
				out = append(out, img)
			}
		}
	}
	return out, true
}

// imageItem accepts an <img> with a usable src, or a figure/a/div/li that
// wraps exactly one such image and no other content besides a caption.
func imageItem(n *component.ComponentInfo) (GalleryImage, bool) {
	if n.Tag() == "img" {
		src := imageSource(n.Attr("src"), n.Attr("data-src"), n.Attr("srcset"))
		if src == "" {
			return GalleryImage{}, false
		}
		return GalleryImage{URL: src, Alt: n.Attr("alt"), Lazy: n.Attr("loading") == "lazy"}, true
	}
	if !n.TagIn("figure", "a", "div", "li", "picture") {
		return GalleryImage{}, false
	}
	imgs := n.Find(component.IsTag("img"))
	if len(imgs) != 1 {
		return GalleryImage{}, false
	}
	img, ok := imageItem(imgs[0])
	if !ok {
		return GalleryImage{}, false
	}
	for _, d := range n.Descendants() {
		if d == imgs[0] || d.TagIn("a", "picture", "source", "figcaption") {
			continue
		}
		if strings.TrimSpace(d.TextContent) != "" && !isCaption(d) {
			return GalleryImage{}, false
		}
	}
	if caption := n.FindFirst(isCaption); caption != nil {
		img.Caption = caption.Text()
	}
	if n.Tag() == "a" {
		img.Link = n.Attr("href")
	} else if a := n.FindFirst(component.IsTag("a")); a != nil {
		img.Link = a.Attr("href")
	}
	return img, true
}

func isCaption(n *component.ComponentInfo) bool {
	return n.Tag() == "figcaption" || n.ClassContains("caption")
}

func isImageFile(link string) bool {
	switch strings.ToLower(path.Ext(strings.SplitN(link, "?", 2)[0])) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".svg":
		return true
	}
	return false
}
