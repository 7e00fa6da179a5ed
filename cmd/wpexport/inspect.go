package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/export"
)

const (
	maxWidth = 80
	maxTags  = 10
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		details bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a page: tags, widgets, design tokens, templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			page, err := component.LoadFile(args[0], nil)
			if err != nil {
				return err
			}
			in, err := export.Inspect(page, a.cfg.ExportOptions(a.logger))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			printInspection(a.out, args[0], in, details)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&details, "details", false, "list every widget and token link")
	return cmd
}

// printInspection prints a human-readable page summary.
func printInspection(w io.Writer, path string, in *export.Inspection, details bool) {
	header := path
	if in.Title != "" {
		header = fmt.Sprintf("%s  (%s)", in.Title, path)
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	if in.URL != "" {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(in.URL))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Nodes  %s, depth %d\n", humanize.Comma(int64(in.Nodes)), in.Depth)

	// Tags
	fmt.Fprintln(w)
	tags := in.SortedTags()
	fmt.Fprintln(w, "Tags")
	shown := tags
	if len(shown) > maxTags {
		shown = shown[:maxTags]
	}
	var parts []string
	for _, t := range shown {
		parts = append(parts, fmt.Sprintf("%s×%d", t, in.Tags[t]))
	}
	if rest := len(tags) - len(shown); rest > 0 {
		parts = append(parts, fmt.Sprintf("+%d more", rest))
	}
	printWrapped(w, strings.Join(parts, "  "), 2, maxWidth)

	// Widgets
	fmt.Fprintln(w)
	if len(in.Widgets) == 0 {
		fmt.Fprintln(w, "Widgets  (none)")
	} else {
		fmt.Fprintln(w, "Widgets")
		counts := in.WidgetCounts()
		kindW := 0
		for _, c := range counts {
			if len(c.Kind) > kindW {
				kindW = len(c.Kind)
			}
		}
		for _, c := range counts {
			fmt.Fprintf(w, "  %-*s  %d\n", kindW, c.Kind, c.Count)
		}
		if details {
			fmt.Fprintln(w)
			t := newTable("PATH", "TAG", "KIND")
			for _, hit := range in.Widgets {
				t.add(hit.Path, hit.Tag, string(hit.Kind))
			}
			t.render(w, "  ")
		}
	}

	// Tokens
	fmt.Fprintln(w)
	if len(in.Tokens) == 0 {
		fmt.Fprintln(w, "Design tokens  (none)")
	} else {
		fmt.Fprintf(w, "Design tokens  %d, linked from %s\n", len(in.Tokens), plural(len(in.Links), "node"))
		t := newTable("ID", "KIND", "VALUE", "NAME")
		for _, tok := range in.Tokens {
			t.add(tok.ID, string(tok.Kind), tok.Value, tok.Name)
		}
		t.render(w, "  ")
		if details && len(in.Links) > 0 {
			fmt.Fprintln(w)
			lt := newTable("PATH", "TAG", "TOKENS")
			for _, l := range in.Links {
				lt.add(l.Path, l.Tag, linkSummary(l))
			}
			lt.render(w, "  ")
		}
	}

	// Library and parts
	fmt.Fprintln(w)
	if in.Templates == 0 {
		fmt.Fprintln(w, "Library  (none)")
	} else {
		fmt.Fprintf(w, "Library  %s: %d reusable, %d global\n", plural(in.Templates, "template"), in.Reusable, in.Global)
	}
	if len(in.Parts) == 0 {
		fmt.Fprintln(w, "Template parts  (none)")
	} else {
		fmt.Fprintf(w, "Template parts  %s\n", strings.Join(in.Parts, ", "))
	}
}

// linkSummary renders prop=token pairs in a stable order.
func linkSummary(l export.TokenLink) string {
	var pairs []string
	for _, m := range []map[string]string{l.Links.Colors, l.Links.Fonts, l.Links.Sizes} {
		for prop, id := range m {
			pairs = append(pairs, prop+"="+id)
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
