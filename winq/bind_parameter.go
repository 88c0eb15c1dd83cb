package winq

import "strconv"

type bindParameterSwitch int

const (
	bindQuestionSign bindParameterSwitch = iota
	bindColon
	bindAt
	bindDollar
)

// BindParameter is a statement placeholder. Numbered parameters are 1-based.
type BindParameter struct {
	node
	switcher bindParameterSwitch
	n        int
	name     string
}

// NewBindParameter creates the numbered placeholder ?n.
func NewBindParameter(n int) *BindParameter {
	return &BindParameter{node: node{kind: KindBindParameter}, n: n}
}

// DefaultBindParameter creates the anonymous placeholder ?.
func DefaultBindParameter() *BindParameter {
	return &BindParameter{node: node{kind: KindBindParameter}}
}

// NewNamedBindParameter creates the placeholder :name.
func NewNamedBindParameter(name string) *BindParameter {
	return &BindParameter{node: node{kind: KindBindParameter}, switcher: bindColon, name: name}
}

// AtBindParameter creates the placeholder @name.
func AtBindParameter(name string) *BindParameter {
	return &BindParameter{node: node{kind: KindBindParameter}, switcher: bindAt, name: name}
}

// DollarBindParameter creates the placeholder $name.
func DollarBindParameter(name string) *BindParameter {
	return &BindParameter{node: node{kind: KindBindParameter}, switcher: bindDollar, name: name}
}

// BindParameters creates the numbered placeholders ?1 through ?count.
func BindParameters(count int) []*BindParameter {
	parameters := make([]*BindParameter, 0, count)
	for i := 1; i <= count; i++ {
		parameters = append(parameters, NewBindParameter(i))
	}
	return parameters
}

// Description implements Identifier.
func (b *BindParameter) Description() string {
	switch b.switcher {
	case bindColon:
		return ":" + b.name
	case bindAt:
		return "@" + b.name
	case bindDollar:
		return "$" + b.name
	default:
		if b.n > 0 {
			return "?" + strconv.Itoa(b.n)
		}
		return "?"
	}
}

func (b *BindParameter) asExpression() *Expression {
	e := newExpression(exprBindParameter)
	e.bindParameter = b
	return e
}
