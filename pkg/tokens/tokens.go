// Package tokens links literal style values back to design tokens.
//
// Build turns an extracted palette and typography system into a lookup from
// literal value to token id; Link resolves a component's own color, font and
// size values through it. Neither function mutates its inputs, and Link
// never returns an id that Build did not produce.
package tokens

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
)

// Kind classifies a token.
type Kind string

const (
	KindColor Kind = "color"
	KindFont  Kind = "font"
	KindSize  Kind = "size"
)

// Token is one named design value.
type Token struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Kind     Kind   `json:"kind"`
	Category string `json:"category,omitempty"`
}

// Slug returns the token id, which is already slug-safe.
func (t Token) Slug() string { return t.ID }

// References maps literal values to token ids.
type References struct {
	Colors map[string]string `json:"colors"`
	Fonts  map[string]string `json:"fonts"`
	Sizes  map[string]string `json:"sizes"`

	tokens map[string]Token
	order  []string
}

func newReferences() *References {
	return &References{
		Colors: make(map[string]string),
		Fonts:  make(map[string]string),
		Sizes:  make(map[string]string),
		tokens: make(map[string]Token),
	}
}

// Empty reports whether no token was built.
func (r *References) Empty() bool {
	return r == nil || len(r.order) == 0
}

// Token returns the token with the given id.
func (r *References) Token(id string) (Token, bool) {
	if r == nil {
		return Token{}, false
	}
	t, ok := r.tokens[id]
	return t, ok
}

// Tokens returns every token of a kind in build order.
func (r *References) Tokens(kind Kind) []Token {
	if r == nil {
		return nil
	}
	var out []Token
	for _, id := range r.order {
		if t := r.tokens[id]; t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (r *References) add(t Token, key string, into map[string]string) {
	if key == "" {
		return
	}
	if _, dup := into[key]; dup {
		return
	}
	if _, dup := r.tokens[t.ID]; dup {
		return
	}
	into[key] = t.ID
	r.tokens[t.ID] = t
	r.order = append(r.order, t.ID)
}

var titleCaser = cases.Title(language.English)

// Title turns "primary-1" or "font_body" into "Primary 1" / "Font Body".
func Title(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses anything else into single dashes.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ColorKey is the lookup key of a color literal.
func ColorKey(v string) string {
	c, ok := style.NormalizeColor(v)
	if !ok {
		return ""
	}
	return c
}

// FontKey is the lookup key of a font-family literal.
func FontKey(v string) string {
	return strings.ToLower(style.PrimaryFont(v))
}

// SizeKey is the lookup key of a font-size literal.
func SizeKey(v string) string {
	sz, ok := style.ParseSize(v)
	if !ok {
		return ""
	}
	return sz.String()
}

// Build assembles token references from a palette and typography system.
// Without a palette no tokens are built at all, so every map is empty.
func Build(palette *component.ColorPalette, typo *component.TypographySystem) *References {
	refs := newReferences()
	if palette == nil {
		return refs
	}
	for _, cat := range palette.Categories() {
		for i, c := range cat.Colors {
			id := fmt.Sprintf("%s-%d", cat.Name, i+1)
			key := ColorKey(c.Value)
			name := c.Name
			if name == "" {
				name = Title(id)
			}
			refs.add(Token{ID: id, Name: name, Value: key, Kind: KindColor, Category: cat.Name}, key, refs.Colors)
		}
	}
	if typo == nil {
		return refs
	}
	for i, f := range typo.Fonts {
		id := fmt.Sprintf("font-%d", i+1)
		if f.Role != "" {
			if _, taken := refs.tokens["font-"+Slugify(f.Role)]; !taken {
				id = "font-" + Slugify(f.Role)
			}
		}
		refs.add(Token{ID: id, Name: f.Family, Value: style.PrimaryFont(f.Family), Kind: KindFont, Category: f.Role}, FontKey(f.Family), refs.Fonts)
	}
	base := 16.0
	if sz, ok := style.ParseSize(typo.BaseSize); ok && sz.Unit == "px" && sz.Value > 0 {
		base = sz.Value
	}
	for i, step := range typo.Scale {
		sz, ok := style.ParseSize(step.Size)
		if !ok {
			continue
		}
		id := "size-" + Slugify(step.Name)
		if step.Name == "" {
			id = fmt.Sprintf("size-%d", i+1)
		}
		t := Token{ID: id, Name: Title(step.Name), Value: sz.String(), Kind: KindSize}
		refs.add(t, sz.String(), refs.Sizes)
		linked, ok := refs.Sizes[sz.String()]
		if !ok {
			continue
		}
		// rem and px spellings of the same step resolve to the same token.
		var other string
		switch sz.Unit {
		case "px":
			other = alt(sz.Value/base, "rem")
		case "rem", "em":
			other = alt(sz.Value*base, "px")
		}
		if _, dup := refs.Sizes[other]; other != "" && !dup {
			refs.Sizes[other] = linked
		}
	}
	return refs
}

func alt(v float64, unit string) string {
	return style.Size{Value: v, Unit: unit}.String()
}

// Links holds per-property token ids for one component.
type Links struct {
	Colors map[string]string `json:"colors"`
	Fonts  map[string]string `json:"fonts"`
	Sizes  map[string]string `json:"sizes"`
}

// Empty reports whether nothing was linked.
func (l Links) Empty() bool {
	return len(l.Colors) == 0 && len(l.Fonts) == 0 && len(l.Sizes) == 0
}

// Color returns the color token linked to a property.
func (l Links) Color(prop string) string { return l.Colors[prop] }

var colorProps = []string{"color", "backgroundColor", "borderColor"}

// Link resolves the component's color, background, border color, font
// family and font size through refs. Values with no token are omitted.
func Link(c *component.ComponentInfo, refs *References) Links {
	l := Links{
		Colors: make(map[string]string),
		Fonts:  make(map[string]string),
		Sizes:  make(map[string]string),
	}
	if c == nil || refs.Empty() {
		return l
	}
	for _, prop := range colorProps {
		if id, ok := refs.Colors[ColorKey(c.Styles.Get(prop))]; ok {
			l.Colors[prop] = id
		}
	}
	if id, ok := refs.Fonts[FontKey(c.Styles.Get("fontFamily"))]; ok {
		l.Fonts["fontFamily"] = id
	}
	if id, ok := refs.Sizes[SizeKey(c.Styles.Get("fontSize"))]; ok {
		l.Sizes["fontSize"] = id
	}
	return l
}
