package winq

// Filter is the FILTER clause of an aggregate window function.
type Filter struct {
	node
	condition *Expression
}

// NewFilter creates FILTER(WHERE condition).
func NewFilter(condition any) *Filter {
	return &Filter{node: node{kind: KindFilter}, condition: expressionFrom(condition)}
}

// Description implements Identifier.
func (f *Filter) Description() string {
	return "FILTER(WHERE " + f.condition.Description() + ")"
}
