package component

import (
	"strconv"
	"strings"
)

// WalkFunc is called for every node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(node *ComponentInfo, path string, depth int) bool

// Walk visits c and its descendants in pre-order. Paths are dot-separated
// child indexes rooted at "0".
func (c *ComponentInfo) Walk(fn WalkFunc) {
	if c == nil {
		return
	}
	c.walk(fn, "0", 0)
}

func (c *ComponentInfo) walk(fn WalkFunc, path string, depth int) {
	if !fn(c, path, depth) {
		return
	}
	for i, child := range c.Children {
		if child == nil {
			continue
		}
		child.walk(fn, ChildPath(path, i), depth+1)
	}
}

// ChildPath returns the path of the i-th child of the node at path.
func ChildPath(path string, i int) string {
	return path + "." + strconv.Itoa(i)
}

// Count returns the number of nodes in the tree rooted at c.
func Count(c *ComponentInfo) int {
	n := 0
	c.Walk(func(*ComponentInfo, string, int) bool {
		n++
		return true
	})
	return n
}

// Descendants returns every node below c in pre-order, excluding c.
func (c *ComponentInfo) Descendants() []*ComponentInfo {
	var out []*ComponentInfo
	c.Walk(func(n *ComponentInfo, _ string, depth int) bool {
		if depth > 0 {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the descendants of c (excluding c) matching pred.
func (c *ComponentInfo) Find(pred func(*ComponentInfo) bool) []*ComponentInfo {
	var out []*ComponentInfo
	for _, d := range c.Descendants() {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// FindFirst returns the first descendant matching pred, or nil.
func (c *ComponentInfo) FindFirst(pred func(*ComponentInfo) bool) *ComponentInfo {
	for _, d := range c.Descendants() {
		if pred(d) {
			return d
		}
	}
	return nil
}

// Tag returns the lower-cased tag name.
func (c *ComponentInfo) Tag() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.TagName))
}

// Type returns the lower-cased component type.
func (c *ComponentInfo) Type() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.ComponentType))
}

// Classes splits ClassName on whitespace.
func (c *ComponentInfo) Classes() []string {
	if c == nil {
		return nil
	}
	return strings.Fields(c.ClassName)
}

// HasClass reports whether the node carries the exact class name.
func (c *ComponentInfo) HasClass(name string) bool {
	for _, cls := range c.Classes() {
		if cls == name {
			return true
		}
	}
	return false
}

// ClassContains reports whether any class contains one of the substrings
// (case-insensitive).
func (c *ComponentInfo) ClassContains(substrs ...string) bool {
	if c == nil || c.ClassName == "" {
		return false
	}
	lower := strings.ToLower(c.ClassName)
	for _, s := range substrs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Attr returns an attribute value, or "".
func (c *ComponentInfo) Attr(name string) string {
	if c == nil || c.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(c.Attributes[name])
}

// Text returns the trimmed text content of the node. When the node has no
// own text, the texts of its children are joined with single spaces.
func (c *ComponentInfo) Text() string {
	if c == nil {
		return ""
	}
	if t := strings.TrimSpace(c.TextContent); t != "" {
		return t
	}
	var parts []string
	for _, child := range c.Children {
		if t := child.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// IsLeaf reports whether the node has no children.
func (c *ComponentInfo) IsLeaf() bool {
	return c == nil || len(c.Children) == 0
}

// ChildrenWhere returns the direct children matching pred.
func (c *ComponentInfo) ChildrenWhere(pred func(*ComponentInfo) bool) []*ComponentInfo {
	var out []*ComponentInfo
	for _, child := range c.Children {
		if child != nil && pred(child) {
			out = append(out, child)
		}
	}
	return out
}

// IsTag returns a predicate matching nodes whose tag is one of tags.
func IsTag(tags ...string) func(*ComponentInfo) bool {
	return func(n *ComponentInfo) bool {
		t := n.Tag()
		for _, want := range tags {
			if t == want {
				return true
			}
		}
		return false
	}
}

// HeadingLevel returns 1-6 for h1..h6 tags, or 0.
func (c *ComponentInfo) HeadingLevel() int {
	t := c.Tag()
	if len(t) == 2 && t[0] == 'h' && t[1] >= '1' && t[1] <= '6' {
		return int(t[1] - '0')
	}
	return 0
}

// TagIn reports whether the node's tag is one of tags.
func (c *ComponentInfo) TagIn(tags ...string) bool {
	return IsTag(tags...)(c)
}
