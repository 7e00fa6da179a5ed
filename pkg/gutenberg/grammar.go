package gutenberg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// attrEscaper keeps serialized attributes from closing the HTML comment or
// being mistaken for markup.
var attrEscaper = strings.NewReplacer(
	"--", "\\u002d\\u002d",
	`\"`, "\\u0022",
)

// commentName is the name written in block delimiters: core blocks drop
// their namespace.
func commentName(name string) string {
	return strings.TrimPrefix(name, "core/")
}

func encodeAttrs(b *Block) (string, error) {
	if len(b.Attrs) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(b.Attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attributes of %s: %w", b.Name, err)
	}
	return attrEscaper.Replace(string(raw)), nil
}

// compose splits a block's markup around n inner blocks and stores it in
// InnerContent and InnerHTML.
func (b *Block) compose(open, close string) {
	n := len(b.InnerBlocks)
	var pieces []*string
	add := func(s string) { pieces = append(pieces, &s) }
	if n == 0 {
		add("\n" + open + close + "\n")
	} else {
		if open != "" {
			add("\n" + open)
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				add("\n\n")
			}
			pieces = append(pieces, nil)
		}
		if close != "" {
			add(close + "\n")
		}
	}
	b.InnerContent = pieces
	var html strings.Builder
	for _, p := range pieces {
		if p != nil {
			html.WriteString(*p)
		}
	}
	b.InnerHTML = html.String()
}

// dynamic marks a block rendered on the server: it serializes as a void
// comment unless it has inner blocks.
func (b *Block) dynamic() {
	b.InnerHTML = ""
	b.InnerContent = nil
	if len(b.InnerBlocks) == 0 {
		return
	}
	sep := "\n"
	pieces := []*string{&sep}
	for range b.InnerBlocks {
		s := "\n"
		pieces = append(pieces, nil, &s)
	}
	b.InnerContent = pieces
}

// Markup serializes blocks to the block grammar.
func Markup(blocks []*Block) (string, error) {
	var out strings.Builder
	for i, b := range blocks {
		if i > 0 {
			out.WriteString("\n\n")
		}
		if err := writeBlock(&out, b); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

func writeBlock(out *strings.Builder, b *Block) error {
	attrs, err := encodeAttrs(b)
	if err != nil {
		return err
	}
	name := commentName(b.Name)
	out.WriteString("<!-- wp:" + name + " ")
	if attrs != "" {
		out.WriteString(attrs + " ")
	}
	if len(b.InnerContent) == 0 {
		out.WriteString("/-->")
		return nil
	}
	out.WriteString("-->")
	next := 0
	for _, piece := range b.InnerContent {
		if piece != nil {
			out.WriteString(*piece)
			continue
		}
		if next < len(b.InnerBlocks) {
			if err := writeBlock(out, b.InnerBlocks[next]); err != nil {
				return err
			}
		}
		next++
	}
	out.WriteString("<!-- /wp:" + name + " -->")
	return nil
}
