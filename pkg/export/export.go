// Package export is the target-neutral front of the exporters. It builds a
// fresh exporter for every run, validates, optimizes and serializes the
// result, and adds caching and batch processing on top.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gnana997/wpexport/pkg/beaver"
	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/elementor"
	"github.com/gnana997/wpexport/pkg/exportlog"
	"github.com/gnana997/wpexport/pkg/gutenberg"
	"github.com/gnana997/wpexport/pkg/oxygen"
	"github.com/gnana997/wpexport/pkg/validator"
)

// ErrUnknownTarget is returned for a target no exporter handles.
var ErrUnknownTarget = builder.ErrUnknownTarget

// ErrNilPage is returned when Run is given no page or a page without root.
var ErrNilPage = errors.New("nothing to export")

// Exporter converts a page for one builder.
//
// An Exporter carries registries and id counters between calls. Reset
// clears them; concurrent use of one instance is not supported.
type Exporter interface {
	Export(page *component.Page) builder.Document
	Reset()
}

// adapter lifts a target package's concrete exporter to Exporter.
type adapter[D builder.Document] struct {
	export func(*component.Page) D
	reset  func()
}

func (a adapter[D]) Export(page *component.Page) builder.Document { return a.export(page) }
func (a adapter[D]) Reset()                                       { a.reset() }

// New builds an exporter for target.
func New(target builder.Target, opts builder.Options) (Exporter, error) {
	switch target {
	case builder.TargetElementor:
		e := elementor.New(opts)
		return adapter[*elementor.Document]{export: e.Export, reset: e.Reset}, nil
	case builder.TargetGutenberg:
		e := gutenberg.New(opts)
		return adapter[*gutenberg.Document]{export: e.Export, reset: e.Reset}, nil
	case builder.TargetOxygen:
		e := oxygen.New(opts)
		return adapter[*oxygen.Document]{export: e.Export, reset: e.Reset}, nil
	case builder.TargetBeaver:
		e := beaver.New(opts)
		return adapter[*beaver.Document]{export: e.Export, reset: e.Reset}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
}

// Request describes one export run.
type Request struct {
	Target builder.Target
	// Format defaults to JSON.
	Format builder.Format
	// Optimize runs the target optimizer before serializing.
	Optimize bool
	// Source names the input in logs and results, usually a file path.
	Source string
}

// Result is the outcome of one export run.
type Result struct {
	RunID    string            `json:"runId"`
	Target   builder.Target    `json:"target"`
	Format   builder.Format    `json:"format"`
	Source   string            `json:"source,omitempty"`
	Report   *validator.Report `json:"report"`
	Nodes    int               `json:"nodes"`
	Weight   int               `json:"weight"`
	Bytes    int               `json:"bytes"`
	Duration time.Duration     `json:"durationNs"`
	Cached   bool              `json:"cached,omitempty"`
	Output   []byte            `json:"-"`

	Document builder.Document `json:"-"`
}

// Complete reports whether every input node is accounted for in the
// exported page.
func (r *Result) Complete() bool { return r.Weight == r.Nodes }

// Run exports page with a fresh exporter: export, validate, optimize (if
// requested), serialize. Validation problems are carried in the Report;
// errors are returned only for bad requests and serialization failures.
func Run(page *component.Page, req Request, opts builder.Options) (*Result, error) {
	return run(page, req, opts, nil)
}

func run(page *component.Page, req Request, opts builder.Options, elog *exportlog.Logger) (res *Result, err error) {
	opts = opts.Normalize()
	log := opts.Logger
	start := time.Now()
	runID := ulid.Make().String()

	defer func() {
		entry := exportlog.Entry{
			RunID:      runID,
			Target:     string(req.Target),
			Format:     string(req.Format),
			Source:     req.Source,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      exportlog.ErrorString(err),
		}
		if res != nil {
			entry.Nodes = res.Nodes
			entry.OutputBytes = res.Bytes
			entry.Valid = res.Report.Valid
			entry.Errors = len(res.Report.Errors())
			entry.Warnings = len(res.Report.Warnings())
		}
		if werr := elog.Write(entry); werr != nil {
			log.Warn("Failed to write export log entry", "run", runID, "error", werr)
		}
	}()

	if page == nil || page.Root == nil {
		return nil, ErrNilPage
	}
	if req.Format == "" {
		req.Format = builder.FormatJSON
	}
	exp, err := New(req.Target, opts)
	if err != nil {
		return nil, err
	}

	doc := exp.Export(page)
	report := doc.Validate()
	report.Log(log)
	if req.Optimize {
		doc.Optimize()
	}
	out, err := doc.Serialize(req.Format)
	if err != nil {
		return nil, err
	}

	res = &Result{
		RunID:    runID,
		Target:   req.Target,
		Format:   req.Format,
		Source:   req.Source,
		Report:   report,
		Nodes:    component.Count(page.Root),
		Weight:   doc.Weight(),
		Bytes:    len(out),
		Duration: time.Since(start),
		Output:   out,
		Document: doc,
	}
	if !res.Complete() {
		log.Warn("export does not account for every input node",
			"target", req.Target, "source", req.Source, "nodes", res.Nodes, "weight", res.Weight)
	}
	log.Debug("export finished",
		"run", runID, "target", req.Target, "format", req.Format,
		"bytes", res.Bytes, "valid", report.Valid, "duration", res.Duration)
	return res, nil
}

// RunAll exports page to every target. The first request error aborts.
func RunAll(page *component.Page, req Request, opts builder.Options) ([]*Result, error) {
	var out []*Result
	for _, t := range builder.Targets() {
		r := req
		r.Target = t
		if req.Format != "" && !supports(t, req.Format) {
			r.Format = builder.FormatJSON
		}
		res, err := Run(page, r, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Formats lists the formats target can serialize, JSON first.
func Formats(target builder.Target) []builder.Format {
	var doc builder.Document
	switch target {
	case builder.TargetElementor:
		doc = &elementor.Document{}
	case builder.TargetGutenberg:
		doc = &gutenberg.Document{}
	case builder.TargetOxygen:
		doc = &oxygen.Document{}
	case builder.TargetBeaver:
		doc = &beaver.Document{}
	default:
		return nil
	}
	return doc.Formats()
}

func supports(target builder.Target, f builder.Format) bool {
	for _, have := range Formats(target) {
		if have == f {
			return true
		}
	}
	return false
}
