package winq

// ResultColumn is one column of a SELECT result: an expression with an
// optional alias, or a wildcard.
type ResultColumn struct {
	node
	expression *Expression
	alias      string
	wildcard   bool
	table      string
}

// NewResultColumn creates a result column from a column, an expression or a
// Go value.
func NewResultColumn(v any) *ResultColumn {
	if r, ok := v.(*ResultColumn); ok {
		return r
	}
	return &ResultColumn{node: node{kind: KindResultColumn}, expression: expressionFrom(v)}
}

// ResultColumnAll creates the wildcard result column *, or table.* when a
// table is given.
func ResultColumnAll(table ...string) *ResultColumn {
	r := &ResultColumn{node: node{kind: KindResultColumn}, wildcard: true}
	if len(table) > 0 {
		r.table = table[0]
	}
	return r
}

// As sets the alias of the result column.
func (r *ResultColumn) As(alias string) *ResultColumn {
	r.alias = alias
	return r
}

// Description implements Identifier.
func (r *ResultColumn) Description() string {
	if r.wildcard {
		if r.table != "" {
			return r.table + ".*"
		}
		return "*"
	}
	description := r.expression.Description()
	if r.alias != "" {
		description += " AS " + r.alias
	}
	return description
}

func (r *ResultColumn) asResultColumn() *ResultColumn {
	return r
}

func resultColumnsFrom(values []any) []*ResultColumn {
	columns := make([]*ResultColumn, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			columns = append(columns, NewColumn(x).asResultColumn())
		case ResultColumnConvertible:
			columns = append(columns, x.asResultColumn())
		default:
			columns = append(columns, NewResultColumn(v))
		}
	}
	return columns
}
