package builder

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/tokens"
	"github.com/gnana997/wpexport/pkg/widgets"
)

// Analysis is everything the exporters read from one node. It is
// recomputed per export and never stored on the node.
type Analysis struct {
	Node *component.ComponentInfo
	Path string
	Kind Kind
	// Rule names the classification rule that decided Kind.
	Rule string

	Styles     component.Styles
	Typography style.Typography
	Box        style.BoxModel
	Shadow     *style.BoxShadow
	Background style.Background
	Border     style.Border
	Layout     style.Layout

	Responsive *style.ResponsiveSettings
	Hover      *style.HoverEffects
	Animation  *style.EntranceAnimation
	Motion     *style.MotionEffects
	Dynamic    *style.DynamicContent

	Tokens tokens.Links
	Widget *widgets.Detection

	detection widgets.Options
}

// Analyze classifies c and runs every extractor over it.
func Analyze(c *component.ComponentInfo, path string, refs *tokens.References, opts Options) *Analysis {
	kind, rule := ClassifyRule(c)
	desktop := style.DesktopStyles(c)
	a := &Analysis{
		Node:       c,
		Path:       path,
		Kind:       kind,
		Rule:       rule,
		Styles:     desktop,
		Typography: style.TypographyFromStyles(desktop),
		Box:        style.BoxModelFromStyles(desktop),
		Shadow:     style.ExtractBoxShadow(c),
		Background: style.ExtractBackground(c),
		Border:     style.ExtractBorder(c),
		Layout:     style.ExtractLayout(c),
		Responsive: style.ExtractResponsiveSettings(c),
		Hover:      style.ExtractHoverEffects(c),
		Animation:  style.ExtractEntranceAnimation(c),
		Motion:     style.ExtractMotionEffects(c),
		Dynamic:    style.ExtractDynamicContent(c),
		Tokens:     tokens.Link(c, refs),
		detection:  opts.Detection,
	}
	if kind != KindHTML {
		a.Widget = widgets.Detect(c, opts.Detection)
	}
	return a
}

// IsWidget reports whether the node is placed as a single widget: either a
// specialized widget or a non-structural kind. Widgets absorb their
// descendants.
func (a *Analysis) IsWidget() bool {
	return a.Widget != nil || !a.Kind.Structural()
}

// Trace returns the trace of the output node standing for this node.
// Widgets absorb their subtree.
func (a *Analysis) Trace() Trace {
	if a.IsWidget() {
		return Absorbing(a.Path, a.Node)
	}
	return From(a.Path)
}

// IsRow reports a container whose children should each become a column:
// an explicit row, a container whose children are all columns, or a
// horizontal flex or grid container of two or more structural children.
func (a *Analysis) IsRow() bool {
	if a.IsWidget() {
		return false
	}
	children := a.Node.Children
	if a.Kind == KindRow {
		return len(children) > 0
	}
	if len(children) == 0 {
		return false
	}
	allColumns, allStructural := true, true
	for _, child := range children {
		k := Classify(child)
		if k != KindColumn {
			allColumns = false
		}
		if !k.Structural() || widgets.Detect(child, a.detection) != nil {
			allStructural = false
		}
	}
	if allColumns {
		return true
	}
	horizontal := a.Layout.IsGrid() ||
		(a.Layout.IsFlex() && !strings.HasPrefix(a.Layout.Direction, "column"))
	return horizontal && allStructural && len(children) >= 2
}

// Heading returns the heading level from the tag, or fallback.
func (a *Analysis) Heading(fallback int) int {
	if l := a.Node.HeadingLevel(); l > 0 {
		return l
	}
	return fallback
}

// Link returns the node's own href, or that of its first link descendant.
func (a *Analysis) Link() string {
	if href := a.Node.Attr("href"); href != "" {
		return href
	}
	if l := a.Node.FindFirst(component.IsTag("a")); l != nil {
		return l.Attr("href")
	}
	return ""
}

// Image returns the image source of the node or its first img descendant.
func (a *Analysis) Image() (src, alt string) {
	n := a.Node
	if n.Tag() != "img" {
		if img := n.FindFirst(component.IsTag("img")); img != nil {
			n = img
		}
	}
	src = n.Attr("src")
	if src == "" {
		src = n.Attr("data-src")
	}
	return src, n.Attr("alt")
}

// Content returns the sanitized inner markup or escaped text of the node.
func (a *Analysis) Content() string {
	return RichContent(a.Node.InnerHTML, a.Node.Text())
}

// Text returns the node's plain text.
func (a *Analysis) Text() string {
	if t := a.Node.Text(); t != "" {
		return t
	}
	if a.Node.InnerHTML != "" {
		return PlainText(a.Node.InnerHTML)
	}
	return ""
}

// ListItems returns the texts of the node's list items.
func (a *Analysis) ListItems() []string {
	var out []string
	for _, li := range a.Node.Find(component.IsTag("li", "dt", "dd")) {
		if t := li.Text(); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		for _, child := range a.Node.Children {
			if t := child.Text(); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// ColumnWidth returns the width of the node as a percentage of its row,
// when the node declares a percentage width.
func (a *Analysis) ColumnWidth() (float64, bool) {
	if w := a.Layout.Width; w != nil && w.Unit == "%" && w.Value > 0 && w.Value <= 100 {
		return w.Value, true
	}
	return 0, false
}

var pageWrapperTags = map[string]bool{"html": true, "body": true, "main": true}

var pageWrapperTypes = map[string]bool{
	"page": true, "root": true, "wrapper": true, "body": true, "main": true,
}

// IsPageWrapper reports a node that only wraps the page content.
func IsPageWrapper(c *component.ComponentInfo) bool {
	if c == nil || c.IsLeaf() {
		return false
	}
	return pageWrapperTags[c.Tag()] || pageWrapperTypes[c.Type()]
}

// TopLevel is a node placed at the top of the output tree.
type TopLevel struct {
	Node *component.ComponentInfo
	Path string
}

// Unwrap returns the nodes placed at the top of the output tree and the
// trace of the page wrappers removed to reach them. When nothing was
// removed the trace is synthetic.
func Unwrap(root *component.ComponentInfo) ([]TopLevel, Trace) {
	if root == nil {
		return nil, SyntheticTrace()
	}
	if !IsPageWrapper(root) {
		return []TopLevel{{Node: root, Path: "0"}}, SyntheticTrace()
	}
	unwrapped := 0
	node, path := root, "0"
	for {
		unwrapped++
		if len(node.Children) == 1 && IsPageWrapper(node.Children[0]) {
			node, path = node.Children[0], component.ChildPath(path, 0)
			continue
		}
		break
	}
	var out []TopLevel
	for i, child := range node.Children {
		if child == nil {
			continue
		}
		out = append(out, TopLevel{Node: child, Path: component.ChildPath(path, i)})
	}
	return out, Trace{Source: "0", Consumed: unwrapped - 1}
}

// Children returns the non-nil children of c with their paths.
func Children(c *component.ComponentInfo, path string) []TopLevel {
	var out []TopLevel
	for i, child := range c.Children {
		if child == nil {
			continue
		}
		out = append(out, TopLevel{Node: child, Path: component.ChildPath(path, i)})
	}
	return out
}

// Weigh sums the weights of traced nodes.
func Weigh[T Traced](nodes ...T) int {
	n := 0
	for _, node := range nodes {
		n += node.Origin().Weight()
	}
	return n
}

// Fold descends from a through chains of single structural children
// (section > container > row) so a section-based target does not emit one
// wrapper per level. It returns the innermost analysis and how many nodes
// were folded into a.
func Fold(a *Analysis, analyze func(*component.ComponentInfo, string) *Analysis) (*Analysis, int) {
	folded := 0
	cur := a
	for !cur.IsRow() && len(cur.Node.Children) == 1 && cur.Node.Children[0] != nil {
		next := analyze(cur.Node.Children[0], component.ChildPath(cur.Path, 0))
		if next.IsWidget() {
			break
		}
		cur = next
		folded++
	}
	return cur, folded
}
