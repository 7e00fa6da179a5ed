package component

// Color is one palette entry.
type Color struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
	Usage int    `json:"usage,omitempty"`
}

// ColorPalette is the categorized color set extracted from a page.
type ColorPalette struct {
	Primary   []Color `json:"primary,omitempty"`
	Secondary []Color `json:"secondary,omitempty"`
	Accent    []Color `json:"accent,omitempty"`
	Neutral   []Color `json:"neutral,omitempty"`
	Semantic  []Color `json:"semantic,omitempty"`
}

// ColorCategory is a named slice of palette colors.
type ColorCategory struct {
	Name   string
	Colors []Color
}

// Categories returns the palette categories in a fixed order.
func (p *ColorPalette) Categories() []ColorCategory {
	if p == nil {
		return nil
	}
	return []ColorCategory{
		{Name: "primary", Colors: p.Primary},
		{Name: "secondary", Colors: p.Secondary},
		{Name: "accent", Colors: p.Accent},
		{Name: "neutral", Colors: p.Neutral},
		{Name: "semantic", Colors: p.Semantic},
	}
}

// FontFamily is a font used by the page with its role ("heading", "body").
type FontFamily struct {
	Family    string   `json:"family"`
	Role      string   `json:"role,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty"`
	Weights   []int    `json:"weights,omitempty"`
}

// TypeStep is one step of the type scale ("h1", "body", "small").
type TypeStep struct {
	Name       string `json:"name"`
	Size       string `json:"size"`
	LineHeight string `json:"lineHeight,omitempty"`
	Weight     string `json:"weight,omitempty"`
}

// TypographySystem describes the fonts and type scale of a page.
type TypographySystem struct {
	Fonts    []FontFamily `json:"fontFamilies,omitempty"`
	Scale    []TypeStep   `json:"typeScale,omitempty"`
	BaseSize string       `json:"baseSize,omitempty"`
}

// LibraryTemplate is a repeated component pattern detected across a site.
type LibraryTemplate struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Category         string         `json:"category,omitempty"`
	ReusabilityScore float64        `json:"reusabilityScore"`
	Confidence       float64        `json:"confidence,omitempty"`
	Occurrences      int            `json:"occurrences,omitempty"`
	Component        *ComponentInfo `json:"component"`
}

// ComponentLibrary holds the reusable templates extracted from a site.
type ComponentLibrary struct {
	Templates []LibraryTemplate `json:"templates,omitempty"`
}

// PartKind names a template-part region.
type PartKind string

const (
	PartHeader  PartKind = "header"
	PartFooter  PartKind = "footer"
	PartSidebar PartKind = "sidebar"
)

// TemplatePart is a detected header, footer or sidebar region.
type TemplatePart struct {
	Kind       PartKind       `json:"kind"`
	Confidence float64        `json:"confidence"`
	Component  *ComponentInfo `json:"component"`
}

// TemplateParts holds the detected site regions.
type TemplateParts struct {
	Header  *TemplatePart `json:"header,omitempty"`
	Footer  *TemplatePart `json:"footer,omitempty"`
	Sidebar *TemplatePart `json:"sidebar,omitempty"`
}

// All returns the present parts in header, footer, sidebar order. The Kind
// of each returned part is filled from its slot when empty.
func (t *TemplateParts) All() []TemplatePart {
	if t == nil {
		return nil
	}
	var out []TemplatePart
	add := func(p *TemplatePart, kind PartKind) {
		if p == nil || p.Component == nil {
			return
		}
		part := *p
		if part.Kind == "" {
			part.Kind = kind
		}
		out = append(out, part)
	}
	add(t.Header, PartHeader)
	add(t.Footer, PartFooter)
	add(t.Sidebar, PartSidebar)
	return out
}
