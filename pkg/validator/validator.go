// Package validator collects structural problems found in an export.
//
// Validation never aborts an export: a Report is returned alongside the
// document and callers decide whether to reject it.
package validator

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Violation represents a single validation rule violation.
type Violation struct {
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Severity   string `json:"severity"` // "error", "warning", "info"
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// String renders "rule at path: message".
func (v Violation) String() string {
	if v.Path == "" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s at %s: %s", v.Rule, v.Path, v.Message)
}

// Report is the outcome of validating one export.
type Report struct {
	Target     string      `json:"target"`
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
	Summary    string      `json:"summary"`
}

// Errors returns the error-level violations.
func (r *Report) Errors() []Violation { return r.bySeverity(SeverityError) }

// Warnings returns the warning-level violations.
func (r *Report) Warnings() []Violation { return r.bySeverity(SeverityWarning) }

func (r *Report) bySeverity(sev string) []Violation {
	if r == nil {
		return nil
	}
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

// HasRule reports whether any violation carries the rule.
func (r *Report) HasRule(rule string) bool {
	if r == nil {
		return false
	}
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Log writes the report: one Warn line per error, Debug per warning and a
// summary. Nothing is written for a clean report.
func (r *Report) Log(logger *slog.Logger) {
	if r == nil || len(r.Violations) == 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, v := range r.Violations {
		attrs := []any{"target", r.Target, "rule", v.Rule, "path", v.Path}
		switch v.Severity {
		case SeverityError:
			logger.Warn(v.Message, attrs...)
		default:
			logger.Debug(v.Message, attrs...)
		}
	}
	logger.Info("export validated", "target", r.Target, "valid", r.Valid, "summary", r.Summary)
}

// Collector accumulates violations while a validator walks a document.
type Collector struct {
	target     string
	violations []Violation
}

// NewCollector starts a report for target.
func NewCollector(target string) *Collector {
	return &Collector{target: target}
}

// Error records an error-level violation.
func (c *Collector) Error(rule, path, format string, args ...any) {
	c.add(SeverityError, rule, path, format, args...)
}

// Warn records a warning.
func (c *Collector) Warn(rule, path, format string, args ...any) {
	c.add(SeverityWarning, rule, path, format, args...)
}

// Info records an informational note.
func (c *Collector) Info(rule, path, format string, args ...any) {
	c.add(SeverityInfo, rule, path, format, args...)
}

func (c *Collector) add(sev, rule, path, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
		Path:     path,
	})
}

// Suggest attaches a suggestion to the last recorded violation.
func (c *Collector) Suggest(s string) {
	if n := len(c.violations); n > 0 {
		c.violations[n-1].Suggestion = s
	}
}

// Report finalizes the collected violations. Errors sort before warnings
// and info; the order within a severity is preserved.
func (c *Collector) Report() *Report {
	vs := append([]Violation(nil), c.violations...)
	rank := map[string]int{SeverityError: 0, SeverityWarning: 1, SeverityInfo: 2}
	sort.SliceStable(vs, func(i, j int) bool { return rank[vs[i].Severity] < rank[vs[j].Severity] })

	r := &Report{Target: c.target, Violations: vs}
	r.Valid = len(r.Errors()) == 0
	r.Summary = summarize(len(r.Errors()), len(r.Warnings()))
	return r
}

func summarize(errs, warns int) string {
	if errs == 0 && warns == 0 {
		return "no issues found"
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
