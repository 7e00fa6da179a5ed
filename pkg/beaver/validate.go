package beaver

import (
	"math"
	"sort"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/style"
	"github.com/gnana997/wpexport/pkg/validator"
)

// MaxGroupDepth is how many column groups may nest inside each other
// before the layout editor stops offering controls for them.
const MaxGroupDepth = 2

// validParents lists the parent types each node type accepts. Rows take
// no parent.
var validParents = map[string][]string{
	NodeColumnGroup: {NodeRow, NodeColumn},
	NodeColumn:      {NodeColumnGroup},
	NodeModule:      {NodeColumn},
}

// Validate checks the node maps for consistent ids, resolvable parents,
// the row / column-group / column / module hierarchy and dense sibling
// positions. Problems are reported, never fixed.
func (d *Document) Validate() *validator.Report {
	c := validator.NewCollector(string(builder.TargetBeaver))
	refs := make(map[string]bool)
	ids := make(map[string]string)

	if len(d.Nodes) == 0 {
		c.Warn("empty-document", "", "layout has no nodes")
	}
	checkLayout(c, d.Nodes, "page", false, ids, refs)
	for _, s := range d.Saved {
		where := "saved " + s.Title
		if len(s.Nodes) == 0 {
			c.Warn("empty-saved", where, "saved %s %q has no nodes", s.Type, s.Title)
		}
		checkLayout(c, s.Nodes, where, s.Type == SavedModule, ids, refs)
	}
	for _, t := range d.Themer {
		where := "themer " + t.Title
		if len(t.Nodes) == 0 {
			c.Warn("empty-themer", where, "themer layout %q has no nodes", t.Title)
		}
		if len(t.Locations) == 0 {
			c.Warn("themer-without-location", where, "themer layout %q is not assigned to any location", t.Title)
		}
		checkLayout(c, t.Nodes, where, false, ids, refs)
	}

	css := strings.ToLower(d.Settings.CSS)
	for _, col := range d.GlobalStyles.Colors {
		v := strings.ToLower(col.Color)
		if !refs[strings.ToLower(globalVar(col.UID))] && !refs[v] && !strings.Contains(css, v) && !strings.Contains(css, globalVar(col.UID)) {
			c.Warn("unused-global-color", "", "global color %q (%s) is never referenced", col.Label, col.Color)
		}
	}
	for _, f := range d.GlobalStyles.Fonts {
		v := strings.ToLower(f.Family)
		if !refs[v] && !strings.Contains(css, v) {
			c.Warn("unused-global-font", "", "global font %q (%s) is never referenced", f.Label, f.Family)
		}
	}
	return c.Report()
}

func checkLayout(c *validator.Collector, l Layout, where string, rootModule bool, ids map[string]string, refs map[string]bool) {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	children := make(map[string][]*Node)
	for _, key := range keys {
		n := l[key]
		path := n.Source
		if path == "" {
			path = where
		}
		if n.ID == "" {
			c.Error("missing-node-id", path, "%s node under key %q has no id", n.Type, key)
			continue
		}
		if n.ID != key {
			c.Error("key-mismatch", path, "node %s is stored under key %q", n.ID, key)
		}
		if prev, dup := ids[n.ID]; dup {
			c.Error("duplicate-node-id", path, "node id %s is used twice (first in %s)", n.ID, prev)
		} else {
			ids[n.ID] = where
		}
		for s := range n.Settings.Strings() {
			refs[s] = true
		}
		children[string(n.Parent)] = append(children[string(n.Parent)], n)
		checkNode(c, l, n, path, rootModule)
	}

	parents := make([]string, 0, len(children))
	for p := range children {
		parents = append(parents, p)
	}
	sort.Strings(parents)
	for _, p := range parents {
		checkPositions(c, l, p, children[p], where)
	}
}

func checkNode(c *validator.Collector, l Layout, n *Node, path string, rootModule bool) {
	switch n.Type {
	case NodeRow:
		if n.Parent != "" {
			c.Error("row-has-parent", path, "row %s has parent %s; rows sit at the top of the layout", n.ID, n.Parent)
		}
	case NodeColumnGroup, NodeColumn, NodeModule:
		if n.Parent == "" {
			if n.Type == NodeModule && rootModule {
				break
			}
			c.Error("missing-parent", path, "%s %s has no parent", n.Type, n.ID)
			c.Suggest("wrap top-level content in a row")
			break
		}
		p, ok := l[string(n.Parent)]
		if !ok {
			c.Error("unknown-parent", path, "%s %s points at missing parent %s", n.Type, n.ID, n.Parent)
			break
		}
		if !contains(validParents[n.Type], p.Type) {
			c.Error("invalid-parent", path, "%s %s cannot sit inside %s %s", n.Type, n.ID, p.Type, p.ID)
		}
	default:
		c.Error("unknown-node-type", path, "node %s has type %q", n.ID, n.Type)
		return
	}

	if cyclic(l, n) {
		c.Error("parent-cycle", path, "the parents of %s %s loop", n.Type, n.ID)
		return
	}
	if n.Type == NodeColumnGroup && groupDepth(l, n) > MaxGroupDepth {
		c.Warn("deep-nesting", path, "column group %s is nested %d levels deep", n.ID, groupDepth(l, n))
	}
	if n.Type == NodeModule {
		checkModule(c, n, path)
	}
}

// cyclic reports whether following parents from n revisits a node.
func cyclic(l Layout, n *Node) bool {
	seen := map[string]bool{n.ID: true}
	for cur := n; cur.Parent != ""; {
		p, ok := l[string(cur.Parent)]
		if !ok {
			return false
		}
		if seen[p.ID] {
			return true
		}
		seen[p.ID] = true
		cur = p
	}
	return false
}

// groupDepth counts the column groups from n up to its row, n included.
func groupDepth(l Layout, n *Node) int {
	depth := 0
	for cur, steps := n, 0; cur != nil && steps <= len(l); steps++ {
		if cur.Type == NodeColumnGroup {
			depth++
		}
		cur = l[string(cur.Parent)]
	}
	return depth
}

func checkModule(c *validator.Collector, n *Node, path string) {
	slug := n.Module()
	if slug == "" {
		c.Error("missing-module-type", path, "module %s has no type setting", n.ID)
		return
	}
	s := n.Settings
	conns := builder.AsMap(s["connections"])
	switch slug {
	case ModGallery:
		if photos, _ := s["photo_data"].([]any); len(photos) == 0 {
			c.Error("empty-gallery", path, "gallery %s has no photos", n.ID)
		}
	case ModSlideshow:
		if photos, _ := s["photos"].([]any); len(photos) == 0 {
			c.Error("empty-slider", path, "slideshow %s has no photos", n.ID)
		}
	case ModContentSlider:
		if slides, _ := s["slides"].([]any); len(slides) == 0 {
			c.Error("empty-slider", path, "content slider %s has no slides", n.ID)
		}
	case ModPhoto:
		if src, _ := s["photo_url"].(string); src == "" && conns["photo"] == nil {
			c.Warn("missing-photo", path, "photo %s has no image", n.ID)
			c.Suggest("set photo_url or connect the photo to a field")
		}
	case ModButton:
		if link, _ := s["link"].(string); link == "" && conns["link"] == nil {
			c.Info("button-without-link", path, "button %s has no link", n.ID)
		}
	case ModMenu:
		c.Info("menu-needs-assignment", path, "menu %s must be assigned a WordPress menu after import", n.ID)
	}
}

// checkPositions requires sibling positions to be unique and, ideally,
// dense from 0. Column sizes under a group should add up to 100.
func checkPositions(c *validator.Collector, l Layout, parent string, kids []*Node, where string) {
	sort.Slice(kids, func(i, j int) bool { return kids[i].Position < kids[j].Position })
	for i, n := range kids {
		if i > 0 && kids[i-1].Position == n.Position {
			c.Error("duplicate-position", where, "%s and %s share position %d under %q", kids[i-1].ID, n.ID, n.Position, parent)
			continue
		}
		if n.Position != i {
			c.Warn("position-gap", where, "%s has position %d, expected %d under %q", n.ID, n.Position, i, parent)
			break
		}
	}

	p, ok := l[parent]
	if !ok || p.Type != NodeColumnGroup {
		return
	}
	total := 0.0
	for _, n := range kids {
		if n.Type != NodeColumn {
			continue
		}
		if size, ok := sizeSetting(n.Settings["size"]); ok {
			total += size
		}
	}
	if math.Abs(total-100) > 1 {
		c.Warn("column-size-sum", where, "columns of group %s add up to %s%%, expected 100%%", parent, style.FormatNumber(total))
	}
}

// sizeSetting reads a column size written in memory or decoded from JSON.
func sizeSetting(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
