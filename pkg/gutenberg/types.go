// Package gutenberg exports a component tree as WordPress blocks: a tree of
// blocks nested through innerBlocks, serializable to the block grammar,
// plus theme.json global styles, patterns, reusable blocks and template
// parts.
package gutenberg

import (
	"github.com/gnana997/wpexport/pkg/builder"
)

// Block is one parsed block in the shape WordPress's block parser returns.
//
// InnerContent holds the block's own markup split around its inner
// blocks: a nil entry marks where the next inner block goes. A block with
// no InnerContent is a dynamic block and serializes as a void comment.
type Block struct {
	builder.Trace `json:"-"`

	Name         string           `json:"blockName"`
	Attrs        builder.Settings `json:"attrs"`
	InnerBlocks  []*Block         `json:"innerBlocks"`
	InnerHTML    string           `json:"innerHTML"`
	InnerContent []*string        `json:"innerContent"`
}

// Walk visits b and its descendants in pre-order. parent is nil for b.
func (b *Block) Walk(fn func(blk, parent *Block)) {
	var visit func(blk, parent *Block)
	visit = func(blk, parent *Block) {
		fn(blk, parent)
		for _, child := range blk.InnerBlocks {
			visit(child, blk)
		}
	}
	visit(b, nil)
}

// Weight sums the trace weights of b and its descendants.
func (b *Block) Weight() int {
	n := 0
	b.Walk(func(blk, _ *Block) { n += blk.Origin().Weight() })
	return n
}

// PaletteColor is an entry of settings.color.palette.
type PaletteColor struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FontFamily is an entry of settings.typography.fontFamilies.
type FontFamily struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	FontFamily string `json:"fontFamily"`
}

// FontSize is an entry of settings.typography.fontSizes.
type FontSize struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Size string `json:"size"`
}

// GlobalStyles is the theme.json document carrying the page's palette,
// fonts and the stylesheet for effects blocks cannot express.
type GlobalStyles struct {
	Schema   string        `json:"$schema"`
	Version  int           `json:"version"`
	Settings ThemeSettings `json:"settings"`
	Styles   ThemeStyles   `json:"styles"`
}

// ThemeSettings is the settings section of theme.json.
type ThemeSettings struct {
	Color      ColorSettings      `json:"color"`
	Typography TypographySettings `json:"typography"`
}

// ColorSettings lists the palette.
type ColorSettings struct {
	Palette []PaletteColor `json:"palette"`
}

// TypographySettings lists font families and the font size scale.
type TypographySettings struct {
	FontFamilies []FontFamily `json:"fontFamilies"`
	FontSizes    []FontSize   `json:"fontSizes,omitempty"`
}

// ThemeStyles is the styles section of theme.json. CSS holds responsive
// overrides, hover rules and animation timing.
type ThemeStyles struct {
	CSS string `json:"css,omitempty"`
}

// Pattern is a block pattern registered from a reusable library component.
type Pattern struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Categories []string `json:"categories,omitempty"`
	Content    string   `json:"content"`
	Blocks     []*Block `json:"blocks"`
}

// ReusableBlock is a wp_block post: a synced pattern shared across pages.
type ReusableBlock struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	PostType   string   `json:"postType"`
	Status     string   `json:"status"`
	SyncStatus string   `json:"syncStatus,omitempty"`
	Content    string   `json:"content"`
	Blocks     []*Block `json:"blocks"`
}

// TemplatePart is a header, footer or sidebar template part.
type TemplatePart struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Area    string   `json:"area"`
	Content string   `json:"content"`
	Blocks  []*Block `json:"blocks"`
}

// Document is the result of one Gutenberg export.
type Document struct {
	Title          string          `json:"title"`
	Blocks         []*Block        `json:"blocks"`
	GlobalStyles   GlobalStyles    `json:"globalStyles"`
	Patterns       []Pattern       `json:"patterns,omitempty"`
	ReusableBlocks []ReusableBlock `json:"reusableBlocks,omitempty"`
	TemplateParts  []TemplatePart  `json:"templateParts,omitempty"`

	page builder.Trace
}

// ThemeJSONSchema is written to GlobalStyles.Schema.
const ThemeJSONSchema = "https://schemas.wp.org/trunk/theme.json"

// ThemeJSONVersion is the theme.json version written.
const ThemeJSONVersion = 3

// Target implements builder.Document.
func (d *Document) Target() builder.Target { return builder.TargetGutenberg }

// Formats implements builder.Document.
func (d *Document) Formats() []builder.Format {
	return []builder.Format{builder.FormatJSON, builder.FormatHTML}
}

// Weight is the number of input nodes the page blocks account for,
// including unwrapped page wrappers.
func (d *Document) Weight() int {
	n := d.page.Weight()
	for _, b := range d.Blocks {
		n += b.Weight()
	}
	return n
}

// Walk visits every block of the page.
func (d *Document) Walk(fn func(blk, parent *Block)) {
	for _, b := range d.Blocks {
		b.Walk(fn)
	}
}
