// Package elementor exports a component tree as an Elementor page: a
// section → column → widget tree plus page settings carrying the global
// colors and fonts registered during the export.
package elementor

import (
	"github.com/gnana997/wpexport/pkg/builder"
)

// Element types.
const (
	ElSection = "section"
	ElColumn  = "column"
	ElWidget  = "widget"
)

// Element is a section, column or widget.
type Element struct {
	builder.Trace `json:"-"`

	ID         string           `json:"id"`
	ElType     string           `json:"elType"`
	IsInner    bool             `json:"isInner"`
	WidgetType string           `json:"widgetType,omitempty"`
	Settings   builder.Settings `json:"settings"`
	Elements   []*Element       `json:"elements"`
}

// Walk visits e and its descendants in pre-order. parent is nil for e.
func (e *Element) Walk(fn func(el, parent *Element)) {
	var visit func(el, parent *Element)
	visit = func(el, parent *Element) {
		fn(el, parent)
		for _, child := range el.Elements {
			visit(child, el)
		}
	}
	visit(e, nil)
}

// Weight sums the trace weights of e and its descendants.
func (e *Element) Weight() int {
	n := 0
	e.Walk(func(el, _ *Element) { n += el.Origin().Weight() })
	return n
}

// CustomColor is an entry of page_settings.custom_colors.
type CustomColor struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// CustomFont is an entry of page_settings.custom_fonts.
type CustomFont struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	Typography string `json:"typography_typography"`
	FontFamily string `json:"typography_font_family"`
}

// PageSettings is the document-level settings object.
type PageSettings struct {
	CustomColors []CustomColor `json:"custom_colors"`
	CustomFonts  []CustomFont  `json:"custom_fonts"`
}

// Template is a saved template: a promoted library component or a theme
// part (header, footer).
type Template struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Global     bool       `json:"global,omitempty"`
	Conditions []string   `json:"conditions,omitempty"`
	Content    []*Element `json:"content"`
}

// Document is the result of one Elementor export.
type Document struct {
	Title        string       `json:"title"`
	Type         string       `json:"type"`
	Version      string       `json:"version"`
	Content      []*Element   `json:"content"`
	PageSettings PageSettings `json:"page_settings"`
	Templates    []Template   `json:"templates,omitempty"`

	page builder.Trace
}

// FormatVersion is the Elementor export format version written to
// documents.
const FormatVersion = "0.4"

// Target implements builder.Document.
func (d *Document) Target() builder.Target { return builder.TargetElementor }

// Formats implements builder.Document.
func (d *Document) Formats() []builder.Format { return []builder.Format{builder.FormatJSON} }

// Weight is the number of input nodes the page content accounts for,
// including unwrapped page wrappers.
func (d *Document) Weight() int {
	n := d.page.Weight()
	for _, el := range d.Content {
		n += el.Weight()
	}
	return n
}

// Walk visits every element of the page content.
func (d *Document) Walk(fn func(el, parent *Element)) {
	for _, el := range d.Content {
		el.Walk(fn)
	}
}
