package widgets

import (
	"regexp"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// PricingFeature is one line of a plan's feature list.
type PricingFeature struct {
	Text     string `json:"text"`
	Included bool   `json:"included"`
}

// PricingWidget is a single pricing plan.
type PricingWidget struct {
	Heading    string           `json:"heading,omitempty"`
	SubHeading string           `json:"subHeading,omitempty"`
	Currency   string           `json:"currency,omitempty"`
	Price      string           `json:"price"`
	Period     string           `json:"period,omitempty"`
	Features   []PricingFeature `json:"features,omitempty"`
	ButtonText string           `json:"buttonText,omitempty"`
	ButtonURL  string           `json:"buttonUrl,omitempty"`
	Featured   bool             `json:"featured,omitempty"`
	Ribbon     string           `json:"ribbon,omitempty"`
}

var (
	pricingHints  = []string{"pricing", "price-table", "price-card", "plan"}
	featuredHints = []string{"featured", "popular", "highlight", "recommended"}
	pricePattern  = regexp.MustCompile(`([$€£¥₹])\s?(\d+(?:[.,]\d{1,2})?)(?:\s*/\s*([a-zA-Z]+))?`)
	periodPattern = regexp.MustCompile(`(?i)^(?:/|per)\s*(mo|month|yr|year|week|day|user)`)
	excludedHints = []string{"excluded", "unavailable", "disabled", "not-included"}
)

// ExtractPricingWidget recognizes a pricing plan card: a pricing hint plus
// a currency amount somewhere in the subtree.
func ExtractPricingWidget(c *component.ComponentInfo) *PricingWidget {
	if c == nil || c.IsLeaf() {
		return nil
	}
	t := c.Type()
	if t != "pricing" && t != "pricing-table" && !c.ClassContains(pricingHints...) {
		return nil
	}

	w := &PricingWidget{}
	var priceNode *component.ComponentInfo
	for _, d := range c.Descendants() {
		if m := pricePattern.FindStringSubmatch(d.TextContent); m != nil {
			w.Currency, w.Price, w.Period = m[1], m[2], strings.ToLower(m[3])
			priceNode = d
			break
		}
	}
	if priceNode == nil {
		return nil
	}
	if w.Period == "" {
		for _, d := range c.Descendants() {
			if m := periodPattern.FindStringSubmatch(strings.TrimSpace(d.TextContent)); m != nil {
				w.Period = strings.ToLower(m[1])
				break
			}
		}
	}

	for _, d := range c.Descendants() {
		switch {
		case d == priceNode:
		case d.HeadingLevel() > 0 && w.Heading == "":
			w.Heading = d.Text()
		case d.ClassContains("badge", "ribbon") && w.Ribbon == "":
			w.Ribbon = d.Text()
		case d.ClassContains("subtitle", "description", "sub-heading") && w.SubHeading == "":
			w.SubHeading = d.Text()
		case d.Tag() == "li":
			w.Features = append(w.Features, PricingFeature{
				Text:     d.Text(),
				Included: !d.ClassContains(excludedHints...) && !strings.HasPrefix(d.Text(), "✗"),
			})
		case d.TagIn("a", "button") && w.ButtonText == "":
			w.ButtonText = d.Text()
			w.ButtonURL = d.Attr("href")
		}
	}
	w.Featured = c.ClassContains(featuredHints...) || w.Ribbon != ""
	return w
}
