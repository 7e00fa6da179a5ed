// Package beaver exports a component tree as a Beaver Builder layout: a
// flat map of row, column-group, column and module nodes keyed by node id,
// each pointing at its parent, plus saved rows and modules, themer layouts
// and the global color and font styles.
package beaver

import (
	"encoding/json"
	"sort"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Node types.
const (
	NodeRow         = "row"
	NodeColumnGroup = "column-group"
	NodeColumn      = "column"
	NodeModule      = "module"
)

// ParentRef is a node id that encodes as null when empty, the way layout
// data marks rows.
type ParentRef string

// MarshalJSON implements json.Marshaler.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParentRef(s)
	return nil
}

// Node is one entry of the layout data.
type Node struct {
	builder.Trace `json:"-"`

	ID       string           `json:"node"`
	Type     string           `json:"type"`
	Parent   ParentRef        `json:"parent"`
	Position int              `json:"position"`
	Settings builder.Settings `json:"settings"`
}

// Module returns the module slug of a module node, or "".
func (n *Node) Module() string {
	if n.Type != NodeModule {
		return ""
	}
	s, _ := n.Settings["type"].(string)
	return s
}

// Layout is a flat node map. Children are found through parent references.
type Layout map[string]*Node

// Children returns the nodes whose parent is id ("" for rows), ordered by
// position.
func (l Layout) Children(id string) []*Node {
	var out []*Node
	for _, n := range l {
		if string(n.Parent) == id {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Rows returns the top-level nodes in position order.
func (l Layout) Rows() []*Node { return l.Children("") }

// Walk visits the layout depth-first from the rows, children in position
// order. parent is nil for rows. Nodes unreachable from a row are skipped.
func (l Layout) Walk(fn func(n, parent *Node)) {
	seen := make(map[string]bool, len(l))
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		fn(n, parent)
		for _, child := range l.Children(n.ID) {
			visit(child, n)
		}
	}
	for _, row := range l.Rows() {
		visit(row, nil)
	}
}

// Weight sums the trace weights of every node.
func (l Layout) Weight() int {
	n := 0
	for _, node := range l {
		n += node.Origin().Weight()
	}
	return n
}

// GlobalColor is a global style color. Colors are stored without '#';
// settings reference them through the CSS variable --fl-global-<uid>.
type GlobalColor struct {
	UID   string `json:"uid"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// GlobalFont is a global style font family.
type GlobalFont struct {
	UID    string `json:"uid"`
	Label  string `json:"label"`
	Family string `json:"family"`
}

// GlobalStyles carries the colors and fonts registered during the export.
type GlobalStyles struct {
	Colors []GlobalColor `json:"colors"`
	Fonts  []GlobalFont  `json:"fonts"`
}

// LayoutSettings is the per-layout custom code.
type LayoutSettings struct {
	CSS string `json:"css"`
	JS  string `json:"js"`
}

// Saved is a saved row or module: a library component promoted for reuse.
// Global saved nodes stay linked to every place they are used.
type Saved struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Global bool   `json:"global"`
	Nodes  Layout `json:"nodes"`
}

// Themer is a themer layout for a header, footer or part.
type Themer struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Type      string   `json:"layout_type"`
	Locations []string `json:"locations"`
	Nodes     Layout   `json:"nodes"`
}

// Document is the result of one Beaver Builder export.
type Document struct {
	Title        string         `json:"title"`
	Nodes        Layout         `json:"nodes"`
	Settings     LayoutSettings `json:"settings"`
	GlobalStyles GlobalStyles   `json:"global_styles"`
	Saved        []Saved        `json:"saved,omitempty"`
	Themer       []Themer       `json:"themer,omitempty"`

	page builder.Trace
}

// Target implements builder.Document.
func (d *Document) Target() builder.Target { return builder.TargetBeaver }

// Formats implements builder.Document.
func (d *Document) Formats() []builder.Format { return []builder.Format{builder.FormatJSON} }

// Weight is the number of input nodes the page layout accounts for.
func (d *Document) Weight() int {
	return d.page.Weight() + d.Nodes.Weight()
}
