package config

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/util"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors reports whether any error was collected.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// Err returns errs as an error, or nil when empty.
func (errs ValidationErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks every field and returns all problems found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	for i, name := range c.Targets {
		if _, err := builder.ParseTarget(name); err != nil {
			add(fmt.Sprintf("targets[%d]", i), name, "unknown target")
		}
	}
	if _, err := builder.ParseFormat(c.Format); err != nil {
		add("format", c.Format, "must be json, shortcode or html")
	}

	for i, p := range c.Input.Include {
		if !doublestar.ValidatePattern(p) {
			add(fmt.Sprintf("input.include[%d]", i), p, "invalid glob pattern")
		}
	}
	for i, p := range c.Input.Exclude {
		if !doublestar.ValidatePattern(p) {
			add(fmt.Sprintf("input.exclude[%d]", i), p, "invalid glob pattern")
		}
	}
	if c.Input.Workers < 0 {
		add("input.workers", c.Input.Workers, "cannot be negative")
	}

	th := c.Thresholds
	for field, v := range map[string]float64{
		"thresholds.reusable_score": th.ReusableScore,
		"thresholds.global_score":   th.GlobalScore,
		"thresholds.min_confidence": th.MinConfidence,
	} {
		if v < 0 || v > 100 {
			add(field, v, "must be between 0 and 100")
		}
	}
	if th.GlobalScore > 0 && th.ReusableScore > 0 && th.GlobalScore < th.ReusableScore {
		add("thresholds.global_score", th.GlobalScore, "must not be below reusable_score")
	}

	det := c.Detection
	if det.MinGalleryImages < 0 {
		add("detection.min_gallery_images", det.MinGalleryImages, "cannot be negative")
	}
	if det.MinCarouselSlides < 0 {
		add("detection.min_carousel_slides", det.MinCarouselSlides, "cannot be negative")
	}
	if det.MinIconListItems < 0 {
		add("detection.min_icon_list_items", det.MinIconListItems, "cannot be negative")
	}

	if c.Log.Level != "" && string(util.ParseLogLevel(c.Log.Level)) != normalizeLevel(c.Log.Level) {
		add("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	switch util.LogFormat(strings.ToLower(c.Log.Format)) {
	case "", util.FormatJSON, util.FormatText:
	default:
		add("log.format", c.Log.Format, "must be json or text")
	}

	if c.Server.Addr != "" {
		if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil || port == "" {
			add("server.addr", c.Server.Addr, "must be host:port")
		}
	}
	if c.Server.CacheSize < 0 {
		add("server.cache_size", c.Server.CacheSize, "cannot be negative")
	}
	if c.Watch.DebounceMs < 0 {
		add("watch.debounce_ms", c.Watch.DebounceMs, "cannot be negative")
	}

	sortErrors(errs)
	return errs
}

func normalizeLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

// sortErrors orders errors by field so map iteration above stays
// deterministic.
func sortErrors(errs ValidationErrors) {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
}
