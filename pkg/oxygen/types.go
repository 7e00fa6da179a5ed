// Package oxygen exports a component tree as an Oxygen Builder page: a
// numbered component tree (ct_builder_json) with the class registry,
// stylesheets, global colors and reusable parts around it. Documents
// serialize as JSON or as Oxygen shortcodes.
package oxygen

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Component names.
const (
	CtSection      = "ct_section"
	CtDivBlock     = "ct_div_block"
	CtNewColumns   = "ct_new_columns"
	CtLink         = "ct_link"
	CtHeadline     = "ct_headline"
	CtTextBlock    = "ct_text_block"
	CtLinkText     = "ct_link_text"
	CtLinkButton   = "ct_link_button"
	CtImage        = "ct_image"
	CtVideo        = "ct_video"
	CtCodeBlock    = "ct_code_block"
	CtFancyIcon    = "ct_fancy_icon"
	CtSlider       = "ct_slider"
	CtSlide        = "ct_slide"
	OxyMap         = "oxy_map"
	OxyRichText    = "oxy_rich_text"
	OxyNavMenu     = "oxy_nav_menu"
	OxyGallery     = "oxy_gallery"
	OxyTestimonial = "oxy_testimonial"
	OxyPricingBox  = "oxy_pricing_box"
)

// containers may hold child components.
var containers = map[string]bool{
	CtSection:    true,
	CtDivBlock:   true,
	CtNewColumns: true,
	CtLink:       true,
	CtSlider:     true,
	CtSlide:      true,
}

// IsContainer reports whether components named name may have children.
func IsContainer(name string) bool { return containers[name] }

// Component is one node of ct_builder_json. The root has id 0 and the name
// "root"; every other node repeats its id and parent in its options.
type Component struct {
	builder.Trace `json:"-"`

	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Options  builder.Settings `json:"options,omitempty"`
	Depth    int              `json:"depth"`
	Children []*Component     `json:"children,omitempty"`
}

func (c *Component) add(children ...*Component) {
	for _, child := range children {
		if child != nil {
			c.Children = append(c.Children, child)
		}
	}
}

// Walk visits c and its descendants in pre-order. parent is nil for c.
func (c *Component) Walk(fn func(comp, parent *Component)) {
	var visit func(comp, parent *Component)
	visit = func(comp, parent *Component) {
		fn(comp, parent)
		for _, child := range comp.Children {
			visit(child, comp)
		}
	}
	visit(c, nil)
}

// Weight sums the trace weights of c and its descendants.
func (c *Component) Weight() int {
	n := 0
	c.Walk(func(comp, _ *Component) { n += comp.Origin().Weight() })
	return n
}

// short is the component name without its ct_/oxy_ prefix, used in
// selectors and nicenames.
func short(name string) string {
	for _, p := range []string{"ct_", "oxy_"} {
		if strings.HasPrefix(name, p) {
			return strings.TrimPrefix(name, p)
		}
	}
	return name
}

// Class is an entry of the class registry. Components reference it by key
// in their "classes" option.
type Class struct {
	Key      string           `json:"key"`
	Original builder.Settings `json:"original,omitempty"`
	Media    builder.Settings `json:"media,omitempty"`
}

// StyleSheet is an Oxygen stylesheet holding rules no component option can
// express.
type StyleSheet struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	CSS    string `json:"css"`
	Parent int    `json:"parent"`
	Status int    `json:"status"`
}

// GlobalColor is an entry of the global color set. Options reference it as
// "color(ID)".
type GlobalColor struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Set   int    `json:"set"`
}

// ColorSet groups global colors.
type ColorSet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GlobalColors is the oxygen_vsb_global_colors option.
type GlobalColors struct {
	Colors []GlobalColor `json:"colors"`
	Sets   []ColorSet    `json:"sets"`
}

// GlobalSettings carries the global fonts, keyed by display name.
type GlobalSettings struct {
	Fonts map[string]string `json:"fonts"`
}

// Reusable part types.
const (
	PartReusable = "reusable_part"
	PartTemplate = "template"
)

// ReusablePart is a ct_template post: a promoted library component or a
// header/footer template.
type ReusablePart struct {
	ID     int        `json:"id"`
	Title  string     `json:"title"`
	Type   string     `json:"ct_template_type"`
	Part   string     `json:"part,omitempty"`
	Global bool       `json:"global,omitempty"`
	Tree   *Component `json:"ct_builder_json"`
}

// Document is the result of one Oxygen export.
type Document struct {
	Title          string           `json:"title"`
	Tree           *Component       `json:"ct_builder_json"`
	Classes        map[string]Class `json:"ct_components_classes"`
	StyleSheets    []StyleSheet     `json:"ct_style_sheets"`
	GlobalColors   GlobalColors     `json:"oxygen_vsb_global_colors"`
	GlobalSettings GlobalSettings   `json:"ct_global_settings"`
	ReusableParts  []ReusablePart   `json:"reusable_parts,omitempty"`

	page builder.Trace
}

// Target implements builder.Document.
func (d *Document) Target() builder.Target { return builder.TargetOxygen }

// Formats implements builder.Document.
func (d *Document) Formats() []builder.Format {
	return []builder.Format{builder.FormatJSON, builder.FormatShortcode}
}

// Weight is the number of input nodes the page tree accounts for.
func (d *Document) Weight() int {
	n := d.page.Weight()
	if d.Tree != nil {
		n += d.Tree.Weight()
	}
	return n
}

// Walk visits every component of the page tree below the root.
func (d *Document) Walk(fn func(comp, parent *Component)) {
	if d.Tree == nil {
		return
	}
	for _, top := range d.Tree.Children {
		top.Walk(fn)
	}
}

func newRoot() *Component {
	return &Component{Trace: builder.SyntheticTrace(), ID: 0, Name: "root"}
}
