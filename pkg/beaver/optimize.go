package beaver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/builder"
)

// Optimize drops empty settings, duplicate saved nodes and themer layouts
// and repeated CSS rules. Running it again changes nothing.
func (d *Document) Optimize() {
	prune(d.Nodes)

	var saved []Saved
	seen := make(map[string]int)
	for _, s := range d.Saved {
		prune(s.Nodes)
		sig := s.Type + "|" + signature(s.Nodes)
		if i, dup := seen[sig]; dup {
			saved[i].Global = saved[i].Global || s.Global
			continue
		}
		seen[sig] = len(saved)
		saved = append(saved, s)
	}
	d.Saved = saved

	var themer []Themer
	seen = make(map[string]int)
	for _, t := range d.Themer {
		prune(t.Nodes)
		sig := t.Type + "|" + signature(t.Nodes)
		if i, dup := seen[sig]; dup {
			for _, loc := range t.Locations {
				if !contains(themer[i].Locations, loc) {
					themer[i].Locations = append(themer[i].Locations, loc)
				}
			}
			continue
		}
		seen[sig] = len(themer)
		themer = append(themer, t)
	}
	d.Themer = themer

	var rules []string
	have := make(map[string]bool)
	for _, line := range strings.Split(d.Settings.CSS, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || have[line] {
			continue
		}
		have[line] = true
		rules = append(rules, line)
	}
	d.Settings.CSS = strings.Join(rules, "\n")
}

func prune(l Layout) {
	for _, n := range l {
		if n.Settings == nil {
			n.Settings = builder.Settings{}
		}
		n.Settings.Prune()
	}
}

// signature describes a layout without node ids, so two saved nodes built
// from identical components compare equal.
func signature(l Layout) string {
	var b strings.Builder
	l.Walk(func(n, _ *Node) {
		data, _ := json.Marshal(n.Settings)
		fmt.Fprintf(&b, "%s/%d/%d:%s;", n.Type, n.Position, len(l.Children(n.ID)), data)
	})
	return b.String()
}

// Serialize renders the document as JSON. Layout data has no other
// representation.
func (d *Document) Serialize(format builder.Format) ([]byte, error) {
	switch format {
	case builder.FormatJSON, "":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode beaver builder document: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: beaver builder cannot write %s", builder.ErrUnsupportedFormat, format)
}
