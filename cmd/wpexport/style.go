package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#2271B1") // WordPress blue
	colorOK      = lipgloss.Color("#10B981")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorOK).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// severityLabel renders a fixed-width severity badge.
func severityLabel(sev string) string {
	label := fmt.Sprintf("%-9s", "["+sev+"]")
	switch sev {
	case "error":
		return errorStyle.Render(label)
	case "warning":
		return warnStyle.Render(label)
	}
	return dimStyle.Render(label)
}

// table prints rows with columns padded to their widest cell. The header
// row is followed by a rule.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table { return &table{header: header} }

func (t *table) add(cells ...string) { t.rows = append(t.rows, cells) }

func (t *table) render(w io.Writer, indent string) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = len(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i == len(cells)-1 {
				parts[i] = c
				continue
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.TrimRight(indent+strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, dimStyle.Render(line(t.header)))
	total := 0
	for _, wd := range widths {
		total += wd
	}
	total += 2 * (len(widths) - 1)
	fmt.Fprintln(w, indent+dimStyle.Render(strings.Repeat("─", total)))
	for _, r := range t.rows {
		fmt.Fprintln(w, line(r))
	}
}
