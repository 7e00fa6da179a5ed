package builder

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/tokens"
)

// GlobalColor is a registered color.
type GlobalColor struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// GlobalFont is a registered font family.
type GlobalFont struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Family string `json:"family"`
}

// IDFunc formats the id of the n-th (1-based) registry entry.
type IDFunc func(n int) string

// Registry deduplicates the literal colors and fonts of one export and
// assigns them incrementing ids. It belongs to a single exporter and is
// not safe for concurrent use.
type Registry struct {
	colorID IDFunc
	fontID  IDFunc

	colors  []GlobalColor
	byColor map[string]int
	fonts   []GlobalFont
	byFont  map[string]int
	uses    map[string]int
}

// NewRegistry builds an empty registry with the given id formats.
func NewRegistry(colorID, fontID IDFunc) *Registry {
	r := &Registry{colorID: colorID, fontID: fontID}
	r.Reset()
	return r
}

// Reset drops every entry and restarts numbering.
func (r *Registry) Reset() {
	r.colors = nil
	r.fonts = nil
	r.byColor = make(map[string]int)
	r.byFont = make(map[string]int)
	r.uses = make(map[string]int)
}

// Seed registers the palette and font tokens under their token ids, without
// counting a use.
func (r *Registry) Seed(refs *tokens.References) {
	for _, t := range refs.Tokens(tokens.KindColor) {
		if _, ok := r.byColor[t.Value]; ok {
			continue
		}
		r.byColor[t.Value] = len(r.colors)
		r.colors = append(r.colors, GlobalColor{ID: t.ID, Title: t.Name, Value: t.Value})
	}
	for _, t := range refs.Tokens(tokens.KindFont) {
		key := strings.ToLower(t.Value)
		if _, ok := r.byFont[key]; ok {
			continue
		}
		r.byFont[key] = len(r.fonts)
		r.fonts = append(r.fonts, GlobalFont{ID: t.ID, Title: t.Name, Family: t.Value})
	}
}

// Color registers a literal color (if new) and counts a use. Unparseable
// values return ok=false.
func (r *Registry) Color(value string) (GlobalColor, bool) {
	norm, ok := style.NormalizeColor(value)
	if !ok {
		return GlobalColor{}, false
	}
	i, ok := r.byColor[norm]
	if !ok {
		n := len(r.colors) + 1
		id := r.uniqueID(r.colorID, n)
		i = len(r.colors)
		r.byColor[norm] = i
		r.colors = append(r.colors, GlobalColor{ID: id, Title: tokens.Title(id), Value: norm})
	}
	c := r.colors[i]
	r.uses[c.ID]++
	return c, true
}

// Font registers a font family (if new) and counts a use.
func (r *Registry) Font(family string) (GlobalFont, bool) {
	name := style.PrimaryFont(family)
	if name == "" {
		return GlobalFont{}, false
	}
	key := strings.ToLower(name)
	i, ok := r.byFont[key]
	if !ok {
		n := len(r.fonts) + 1
		id := r.uniqueID(r.fontID, n)
		i = len(r.fonts)
		r.byFont[key] = i
		r.fonts = append(r.fonts, GlobalFont{ID: id, Title: name, Family: name})
	}
	f := r.fonts[i]
	r.uses[f.ID]++
	return f, true
}

// Use counts a reference to an already registered id, such as a token
// reference that bypassed Color.
func (r *Registry) Use(id string) {
	r.uses[id]++
}

// Colors returns the registered colors in registration order.
func (r *Registry) Colors() []GlobalColor {
	return append([]GlobalColor(nil), r.colors...)
}

// Fonts returns the registered fonts in registration order.
func (r *Registry) Fonts() []GlobalFont {
	return append([]GlobalFont(nil), r.fonts...)
}

// Uses returns how many times id was referenced.
func (r *Registry) Uses(id string) int {
	return r.uses[id]
}

func (r *Registry) uniqueID(f IDFunc, n int) string {
	taken := func(id string) bool {
		for _, c := range r.colors {
			if c.ID == id {
				return true
			}
		}
		for _, ft := range r.fonts {
			if ft.ID == id {
				return true
			}
		}
		return false
	}
	id := f(n)
	for taken(id) {
		n++
		id = f(n)
	}
	return id
}
