// Package htmlreconciler is a reference reconcile.Reconciler used by
// sched's own tests: host fibers render through domstub (a
// string-building DOM stand-in), composite fibers get useState/useEffect
// hook bookkeeping adapted from the teacher's fiber.go, and a composite
// marked Boundary acts as an error boundary. It deliberately does not
// track precise child insertion order (domstub.Element.AppendChild always
// appends) or hook cleanup functions — this is demonstration and test
// scaffolding, not a production DOM reconciler, and the scheduler itself
// never imports it.
package htmlreconciler

// Kind discriminates what an Element describes.
type Kind int

const (
	// Host describes a tagged element with attributes and children.
	Host Kind = iota
	// TextKind describes a leaf text run.
	TextKind
	// CompositeKind describes a user component function.
	CompositeKind
)

// Props is the attribute/argument bag passed to a host element or a
// component function.
type Props map[string]interface{}

// ComponentFunc is a user-defined component. caught is non-nil only on
// the synchronous re-render a boundary gets immediately after
// AcknowledgeErrorInBoundary runs against it; a component that sets
// Boundary on its own Element is expected to check caught and render a
// fallback instead of its normal tree.
type ComponentFunc func(props Props, h *Hooks, caught error) *Element

// Element is the desired-tree description a component function returns
// or a caller hands to Reconciler.Mount/Update, analogous to the
// teacher's *Element produced by createElement/Text.
type Element struct {
	Kind Kind

	// Host fields.
	Tag      string
	Props    Props
	Children []*Element

	// TextKind field.
	Text string

	// CompositeKind fields.
	Render   ComponentFunc
	Boundary bool
}

// H builds a host Element, mirroring the teacher's createElement.
func H(tag string, props Props, children ...*Element) *Element {
	return &Element{Kind: Host, Tag: tag, Props: props, Children: children}
}

// Txt builds a leaf text Element, mirroring the teacher's Text.
func Txt(content string) *Element {
	return &Element{Kind: TextKind, Text: content}
}

// Comp builds a composite Element wrapping a component function.
func Comp(render ComponentFunc, props Props) *Element {
	return &Element{Kind: CompositeKind, Render: render, Props: props}
}

// ErrorBoundary builds a composite Element flagged as an error boundary.
func ErrorBoundary(render ComponentFunc, props Props) *Element {
	e := Comp(render, props)
	e.Boundary = true
	return e
}
