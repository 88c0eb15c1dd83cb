package winq

type frameBound struct {
	keyword    string
	expression *Expression
}

func (b frameBound) description() string {
	if b.expression != nil {
		return b.expression.Description() + " " + b.keyword
	}
	return b.keyword
}

// FrameSpec is the frame of a window definition.
type FrameSpec struct {
	node
	unit    string
	first   *frameBound
	second  *frameBound
	exclude string
}

// NewFrameSpec creates a RANGE frame.
func NewFrameSpec() *FrameSpec {
	return &FrameSpec{node: node{kind: KindFrameSpec}, unit: "RANGE"}
}

func (f *FrameSpec) Range() *FrameSpec {
	f.unit = "RANGE"
	return f
}

func (f *FrameSpec) Rows() *FrameSpec {
	f.unit = "ROWS"
	return f
}

func (f *FrameSpec) Groups() *FrameSpec {
	f.unit = "GROUPS"
	return f
}

func (f *FrameSpec) start(bound frameBound) *FrameSpec {
	f.first = &bound
	return f
}

func (f *FrameSpec) end(bound frameBound) *FrameSpec {
	f.second = &bound
	return f
}

// UnboundedPreceding starts the frame at UNBOUNDED PRECEDING.
func (f *FrameSpec) UnboundedPreceding() *FrameSpec {
	return f.start(frameBound{keyword: "UNBOUNDED PRECEDING"})
}

// Preceding starts the frame at v PRECEDING.
func (f *FrameSpec) Preceding(v any) *FrameSpec {
	return f.start(frameBound{keyword: "PRECEDING", expression: expressionFrom(v)})
}

// CurrentRow starts the frame at CURRENT ROW.
func (f *FrameSpec) CurrentRow() *FrameSpec {
	return f.start(frameBound{keyword: "CURRENT ROW"})
}

// Following starts the frame at v FOLLOWING.
func (f *FrameSpec) Following(v any) *FrameSpec {
	return f.start(frameBound{keyword: "FOLLOWING", expression: expressionFrom(v)})
}

// AndPreceding ends a BETWEEN frame at v PRECEDING.
func (f *FrameSpec) AndPreceding(v any) *FrameSpec {
	return f.end(frameBound{keyword: "PRECEDING", expression: expressionFrom(v)})
}

// AndCurrentRow ends a BETWEEN frame at CURRENT ROW.
func (f *FrameSpec) AndCurrentRow() *FrameSpec {
	return f.end(frameBound{keyword: "CURRENT ROW"})
}

// AndFollowing ends a BETWEEN frame at v FOLLOWING.
func (f *FrameSpec) AndFollowing(v any) *FrameSpec {
	return f.end(frameBound{keyword: "FOLLOWING", expression: expressionFrom(v)})
}

// AndUnboundedFollowing ends a BETWEEN frame at UNBOUNDED FOLLOWING.
func (f *FrameSpec) AndUnboundedFollowing() *FrameSpec {
	return f.end(frameBound{keyword: "UNBOUNDED FOLLOWING"})
}

// ExcludeNoOthers, ExcludeCurrentRow, ExcludeGroup and ExcludeTies set the
// EXCLUDE clause.
func (f *FrameSpec) ExcludeNoOthers() *FrameSpec {
	f.exclude = "NO OTHERS"
	return f
}

func (f *FrameSpec) ExcludeCurrentRow() *FrameSpec {
	f.exclude = "CURRENT ROW"
	return f
}

func (f *FrameSpec) ExcludeGroup() *FrameSpec {
	f.exclude = "GROUP"
	return f
}

func (f *FrameSpec) ExcludeTies() *FrameSpec {
	f.exclude = "TIES"
	return f
}

// Description implements Identifier.
func (f *FrameSpec) Description() string {
	description := f.unit
	switch {
	case f.first != nil && f.second != nil:
		description += " BETWEEN " + f.first.description() + " AND " + f.second.description()
	case f.first != nil:
		description += " " + f.first.description()
	}
	if f.exclude != "" {
		description += " EXCLUDE " + f.exclude
	}
	return description
}
