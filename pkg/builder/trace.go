package builder

import (
	"github.com/gnana997/wpexport/pkg/component"
)

// Trace links an output node back to the input tree. It is never
// serialized; exporters embed it with `json:"-"`.
type Trace struct {
	// Source is the path of the input node this output node stands for.
	Source string
	// Synthetic marks wrappers the exporter created (default rows and
	// columns) that stand for no input node.
	Synthetic bool
	// Consumed counts input descendants absorbed into this node, such as
	// the images of a gallery widget.
	Consumed int
}

// Weight is the number of input nodes this output node accounts for.
func (t Trace) Weight() int {
	if t.Synthetic {
		return 0
	}
	return 1 + t.Consumed
}

// From traces an output node to a single input node.
func From(path string) Trace {
	return Trace{Source: path}
}

// Absorbing traces an output node that stands for n and its whole subtree.
func Absorbing(path string, n *component.ComponentInfo) Trace {
	return Trace{Source: path, Consumed: component.Count(n) - 1}
}

// SyntheticTrace marks an exporter-made wrapper.
func SyntheticTrace() Trace {
	return Trace{Synthetic: true}
}

// Traced is implemented by every output node.
type Traced interface {
	Origin() Trace
}

// Origin returns the trace itself, so embedding Trace satisfies Traced.
func (t Trace) Origin() Trace { return t }
