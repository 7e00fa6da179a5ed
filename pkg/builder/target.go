// Package builder holds the machinery every page-builder exporter shares:
// target and format names, per-export registries and id generators, the
// ordered type-rule tables, the naming translation table, settings helpers
// and the per-node style analysis.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/wpexport/pkg/validator"
)

// Target names a page builder.
type Target string

const (
	TargetElementor Target = "elementor"
	TargetGutenberg Target = "gutenberg"
	TargetOxygen    Target = "oxygen"
	TargetBeaver    Target = "beaver-builder"
)

// ErrUnknownTarget is returned for a target name no exporter handles.
var ErrUnknownTarget = errors.New("unknown target")

// ErrUnsupportedFormat is returned when a target cannot serialize a format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

var targetAliases = map[string]Target{
	"elementor":      TargetElementor,
	"gutenberg":      TargetGutenberg,
	"blocks":         TargetGutenberg,
	"wp":             TargetGutenberg,
	"oxygen":         TargetOxygen,
	"beaver-builder": TargetBeaver,
	"beaverbuilder":  TargetBeaver,
	"beaver":         TargetBeaver,
	"bb":             TargetBeaver,
}

// Targets returns every supported target in a stable order.
func Targets() []Target {
	return []Target{TargetElementor, TargetGutenberg, TargetOxygen, TargetBeaver}
}

// ParseTarget resolves a target name or alias, case-insensitively.
func ParseTarget(s string) (Target, error) {
	if t, ok := targetAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// Label is the human name of the target.
func (t Target) Label() string {
	switch t {
	case TargetElementor:
		return "Elementor"
	case TargetGutenberg:
		return "Gutenberg"
	case TargetOxygen:
		return "Oxygen"
	case TargetBeaver:
		return "Beaver Builder"
	}
	return string(t)
}

// Format is a serialization format.
type Format string

const (
	FormatJSON      Format = "json"
	FormatShortcode Format = "shortcode"
	FormatHTML      Format = "html"
)

// ParseFormat resolves a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatShortcode, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatShortcode:
		return ".txt"
	case FormatHTML:
		return ".html"
	}
	return ".json"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatShortcode:
		return "text/plain; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// Document is a finished export for one target.
type Document interface {
	// Target names the builder the document is for.
	Target() Target
	// Validate checks structural completeness. It never fails; problems
	// are reported.
	Validate() *validator.Report
	// Optimize removes redundant data in place. Running it again changes
	// nothing.
	Optimize()
	// Serialize renders the document in a supported format.
	Serialize(format Format) ([]byte, error)
	// Formats lists the formats Serialize supports, JSON first.
	Formats() []Format
	// Weight is the number of input nodes the document accounts for.
	Weight() int
}
