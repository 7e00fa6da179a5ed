package widgets

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fragment parses an innerHTML snippet. Malformed markup is tolerated by
// the HTML5 parser; only reader errors yield nil.
func fragment(html string) *goquery.Document {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

// imagesFromMarkup lists <img> elements with a usable src.
func imagesFromMarkup(html string) []GalleryImage {
	doc := fragment(html)
	if doc == nil {
		return nil
	}
	var out []GalleryImage
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := imageSource(s.AttrOr("src", ""), s.AttrOr("data-src", ""), s.AttrOr("srcset", ""))
		if src == "" {
			return
		}
		img := GalleryImage{URL: src, Alt: s.AttrOr("alt", "")}
		if fig := s.Closest("figure"); fig.Length() > 0 {
			img.Caption = strings.TrimSpace(fig.Find("figcaption").Text())
		}
		if a := s.Closest("a"); a.Length() > 0 {
			img.Link = a.AttrOr("href", "")
		}
		img.Lazy = s.AttrOr("loading", "") == "lazy"
		out = append(out, img)
	})
	return out
}

var ratingPattern = regexp.MustCompile(`(\d(?:\.\d)?)\s*(?:/\s*5|out of 5|stars?)`)

// ratingFromMarkup counts filled star icons or reads an aria-label such as
// "Rated 4.5 out of 5".
func ratingFromMarkup(html string) float64 {
	doc := fragment(html)
	if doc == nil {
		return 0
	}
	if label, ok := doc.Find("[aria-label]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return ratingPattern.MatchString(strings.ToLower(s.AttrOr("aria-label", "")))
	}).First().Attr("aria-label"); ok {
		if v := parseRating(label); v > 0 {
			return v
		}
	}
	stars := 0.0
	doc.Find("[class*=star]").Each(func(_ int, s *goquery.Selection) {
		cls := strings.ToLower(s.AttrOr("class", ""))
		switch {
		case strings.Contains(cls, "empty") || strings.Contains(cls, "far "):
		case strings.Contains(cls, "half"):
			stars += 0.5
		default:
			stars++
		}
	})
	if stars > 5 {
		stars = 5
	}
	if stars == 0 {
		if n := strings.Count(doc.Text(), "★"); n > 0 {
			stars = float64(min(n, 5))
		}
	}
	return stars
}

func parseRating(s string) float64 {
	m := ratingPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v > 5 {
		return 0
	}
	return v
}

// imageSource picks the first usable source among src, data-src and the
// first srcset candidate. Inline data: placeholders are skipped.
func imageSource(src, dataSrc, srcset string) string {
	for _, cand := range []string{src, dataSrc, firstSrcset(srcset)} {
		cand = strings.TrimSpace(cand)
		if cand == "" || strings.HasPrefix(cand, "data:") || cand == "#" {
			continue
		}
		return cand
	}
	return ""
}

func firstSrcset(srcset string) string {
	first := strings.TrimSpace(strings.Split(srcset, ",")[0])
	if f := strings.Fields(first); len(f) > 0 {
		return f[0]
	}
	return ""
}
