package oxygen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// optionEscaper keeps option JSON from closing the ct_options attribute or
// the shortcode itself.
var optionEscaper = strings.NewReplacer("'", `\u0027`, "[", `\u005b`, "]", `\u005d`)

// Shortcodes renders the tree below root as nested Oxygen shortcodes:
//
//	[ct_section ct_options='{...}'][ct_div_block ct_options='{...}']...[/ct_div_block][/ct_section]
//
// Text content goes between the tags instead of into ct_options. WordPress
// cannot nest a shortcode inside one of the same name, so nested
// repetitions are numbered: ct_div_block inside ct_div_block is written
// as ct_div_block_2.
func Shortcodes(root *Component) (string, error) {
	if root == nil {
		return "", nil
	}
	var b strings.Builder
	open := make(map[string]int)
	var write func(c *Component) error
	write = func(c *Component) error {
		tag := c.Name
		if n := open[c.Name]; n > 0 {
			tag = fmt.Sprintf("%s_%d", c.Name, n+1)
		}
		open[c.Name]++
		defer func() { open[c.Name]-- }()

		opts := make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			if k != "ct_content" {
				opts[k] = v
			}
		}
		data, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("failed to encode options of %s %d: %w", c.Name, c.ID, err)
		}
		fmt.Fprintf(&b, "[%s ct_options='%s']", tag, optionEscaper.Replace(string(data)))
		if content, _ := c.Options["ct_content"].(string); content != "" {
			b.WriteString(content)
		}
		for _, child := range c.Children {
			if err := write(child); err != nil {
				return err
			}
		}
		fmt.Fprintf(&b, "[/%s]", tag)
		return nil
	}
	for _, top := range root.Children {
		if err := write(top); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
