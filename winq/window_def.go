package winq

import "strings"

// WindowDef is a window definition, used by OVER and the WINDOW clause.
type WindowDef struct {
	node
	base       string
	partitions []*Expression
	orderings  []*OrderingTerm
	frame      *FrameSpec
}

// NewWindowDef creates an empty window definition.
func NewWindowDef() *WindowDef {
	return &WindowDef{node: node{kind: KindWindowDef}}
}

// Base sets the base window name the definition extends.
func (w *WindowDef) Base(name string) *WindowDef {
	w.base = name
	return w
}

// Partition appends PARTITION BY expressions.
func (w *WindowDef) Partition(values ...any) *WindowDef {
	w.partitions = append(w.partitions, expressionsFrom(values)...)
	return w
}

// OrderBy appends ordering terms.
func (w *WindowDef) OrderBy(orderings ...*OrderingTerm) *WindowDef {
	w.orderings = append(w.orderings, orderings...)
	return w
}

// Frame sets the frame spec.
func (w *WindowDef) Frame(frame *FrameSpec) *WindowDef {
	w.frame = frame
	return w
}

// Description implements Identifier. The definition is parenthesized.
func (w *WindowDef) Description() string {
	parts := make([]string, 0, 4)
	if w.base != "" {
		parts = append(parts, w.base)
	}
	if len(w.partitions) > 0 {
		parts = append(parts, "PARTITION BY "+joinDescriptions(w.partitions))
	}
	if len(w.orderings) > 0 {
		parts = append(parts, "ORDER BY "+joinDescriptions(w.orderings))
	}
	if w.frame != nil {
		parts = append(parts, w.frame.Description())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
