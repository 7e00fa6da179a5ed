package builder

import (
	"log/slog"

	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/widgets"
)

// Thresholds gate promotion of library templates and template parts.
type Thresholds struct {
	// ReusableScore promotes a library template to a saved template,
	// pattern or saved row.
	ReusableScore float64 `json:"reusableScore" yaml:"reusable_score" toml:"reusable_score"`
	// GlobalScore additionally marks a promoted template global.
	GlobalScore float64 `json:"globalScore" yaml:"global_score" toml:"global_score"`
	// MinConfidence admits a detected header/footer/sidebar.
	MinConfidence float64 `json:"minConfidence" yaml:"min_confidence" toml:"min_confidence"`
}

// DefaultThresholds returns 60/80/60.
func DefaultThresholds() Thresholds {
	return Thresholds{ReusableScore: 60, GlobalScore: 80, MinConfidence: 60}
}

// Options configures an exporter.
type Options struct {
	Thresholds Thresholds
	Detection  widgets.Options
	// SiteURL prefixes root-relative image URLs in targets that need
	// absolute media URLs. Empty leaves URLs untouched.
	SiteURL string
	Logger  *slog.Logger
}

// DefaultOptions returns options with the stock thresholds.
func DefaultOptions() Options {
	return Options{Thresholds: DefaultThresholds(), Detection: widgets.DefaultOptions()}
}

// Normalize fills zero thresholds and a nil logger.
func (o Options) Normalize() Options {
	d := DefaultThresholds()
	if o.Thresholds.ReusableScore <= 0 {
		o.Thresholds.ReusableScore = d.ReusableScore
	}
	if o.Thresholds.GlobalScore <= 0 {
		o.Thresholds.GlobalScore = d.GlobalScore
	}
	if o.Thresholds.MinConfidence <= 0 {
		o.Thresholds.MinConfidence = d.MinConfidence
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Promotion is a library template selected for export as a saved template.
type Promotion struct {
	Template component.LibraryTemplate
	Global   bool
}

// Promote selects the templates whose reusability score reaches the
// reusable threshold, marking those at or above the global threshold.
func (t Thresholds) Promote(lib *component.ComponentLibrary) []Promotion {
	if lib == nil {
		return nil
	}
	var out []Promotion
	for _, tpl := range lib.Templates {
		if tpl.Component == nil || tpl.ReusabilityScore < t.ReusableScore {
			continue
		}
		out = append(out, Promotion{Template: tpl, Global: tpl.ReusabilityScore >= t.GlobalScore})
	}
	return out
}

// Parts returns the template parts whose confidence reaches MinConfidence.
func (t Thresholds) Parts(parts *component.TemplateParts) []component.TemplatePart {
	var out []component.TemplatePart
	for _, p := range parts.All() {
		if p.Confidence >= t.MinConfidence {
			out = append(out, p)
		}
	}
	return out
}
