// Package presets provides the embedded default configuration and a sample
// page used by `wpexport init`.
package presets

import _ "embed"

// DefaultConfigYAML is the stock project configuration, embedded at build
// time.
//
//go:embed config.yaml
var DefaultConfigYAML []byte

// SamplePageJSON is a small landing page with a palette, a type system, a
// library template and a header part.
//
//go:embed sample-page.json
var SamplePageJSON []byte
