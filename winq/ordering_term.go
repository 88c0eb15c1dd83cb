package winq

// Order is the direction of an ordering term or an indexed column.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

func (o Order) suffix() string {
	switch o {
	case OrderAsc:
		return " ASC"
	case OrderDesc:
		return " DESC"
	default:
		return ""
	}
}

// OrderingTerm is one term of an ORDER BY clause.
type OrderingTerm struct {
	node
	expression *Expression
	collation  string
	order      Order
}

// NewOrderingTerm creates an ordering term on a column, an expression or a
// Go value.
func NewOrderingTerm(v any) *OrderingTerm {
	return &OrderingTerm{node: node{kind: KindOrderingTerm}, expression: expressionFrom(v)}
}

// Collate sets the collation of the term.
func (o *OrderingTerm) Collate(collation string) *OrderingTerm {
	o.collation = collation
	return o
}

// Order sets the direction of the term.
func (o *OrderingTerm) Order(order Order) *OrderingTerm {
	o.order = order
	return o
}

// Description implements Identifier.
func (o *OrderingTerm) Description() string {
	description := o.expression.Description()
	if o.collation != "" {
		description += " COLLATE " + o.collation
	}
	return description + o.order.suffix()
}
