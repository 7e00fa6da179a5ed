package component

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPage is returned when a page has no root component.
var ErrEmptyPage = errors.New("page has no root component")

// Page bundles a component tree with the analysis results produced for it
// upstream. Only Root is required.
type Page struct {
	Title      string            `json:"title,omitempty"`
	URL        string            `json:"url,omitempty"`
	Root       *ComponentInfo    `json:"root"`
	Palette    *ColorPalette     `json:"colorPalette,omitempty"`
	Typography *TypographySystem `json:"typographySystem,omitempty"`
	Library    *ComponentLibrary `json:"componentLibrary,omitempty"`
	Parts      *TemplateParts    `json:"templateParts,omitempty"`
}

// Validate checks the page for structural consistency.
// Returns a slice of validation errors (empty slice if valid).
func (p *Page) Validate() []error {
	var errs []error

	if p.Root == nil {
		return append(errs, ErrEmptyPage)
	}

	errs = append(errs, checkTree("root", p.Root)...)

	if p.Library != nil {
		for i, tpl := range p.Library.Templates {
			if tpl.Component == nil {
				errs = append(errs, fmt.Errorf("componentLibrary.templates[%d] %q: component is required", i, tpl.ID))
				continue
			}
			errs = append(errs, checkTree(fmt.Sprintf("componentLibrary.templates[%d]", i), tpl.Component)...)
		}
	}

	for _, part := range p.Parts.All() {
		errs = append(errs, checkTree("templateParts."+string(part.Kind), part.Component)...)
	}

	return errs
}

// checkTree verifies the strict-tree invariant: no node is reachable twice.
func checkTree(label string, root *ComponentInfo) []error {
	var errs []error
	seen := make(map[*ComponentInfo]string)
	var visit func(n *ComponentInfo, path string)
	visit = func(n *ComponentInfo, path string) {
		if first, dup := seen[n]; dup {
			errs = append(errs, fmt.Errorf("%s: node at %s already appears at %s", label, path, first))
			return
		}
		seen[n] = path
		for i, child := range n.Children {
			if child == nil {
				errs = append(errs, fmt.Errorf("%s: nil child at %s", label, ChildPath(path, i)))
				continue
			}
			visit(child, ChildPath(path, i))
		}
	}
	visit(root, "0")
	return errs
}

// Decode parses a page from JSON and validates it.
func Decode(data []byte) (*Page, error) {
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page JSON: %w", err)
	}
	if errs := page.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("page validation failed: %w", errors.Join(errs...))
	}
	return &page, nil
}

// DecodeComponent parses a bare component tree (no page envelope).
func DecodeComponent(data []byte) (*Page, error) {
	var root ComponentInfo
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse component JSON: %w", err)
	}
	page := &Page{Root: &root}
	if errs := page.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("page validation failed: %w", errors.Join(errs...))
	}
	return page, nil
}

// DecodeAny accepts either a page envelope ({"root": ...}) or a bare
// component tree.
func DecodeAny(data []byte) (*Page, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	if _, ok := probe["root"]; ok {
		return Decode(data)
	}
	return DecodeComponent(data)
}
