package winq

// CommonTableExpression is one named subquery of a WITH clause.
type CommonTableExpression struct {
	node
	name       string
	columns    []*Column
	selectSTMT *StatementSelect
}

// NewCommonTableExpression creates a common table expression.
func NewCommonTableExpression(name string) *CommonTableExpression {
	return &CommonTableExpression{node: node{kind: KindCommonTableExpression}, name: name}
}

// Column appends columns to the expression's column list.
func (c *CommonTableExpression) Column(columns ...any) *CommonTableExpression {
	c.columns = append(c.columns, columnsFrom(columns)...)
	return c
}

// As sets the subquery.
func (c *CommonTableExpression) As(s *StatementSelect) *CommonTableExpression {
	c.selectSTMT = s
	return c
}

// Description implements Identifier.
func (c *CommonTableExpression) Description() string {
	description := c.name
	if len(c.columns) > 0 {
		description += "(" + columnNames(c.columns) + ")"
	}
	return description + " AS(" + describe(c.selectSTMT) + ")"
}

type withClause struct {
	recursive bool
	ctes      []*CommonTableExpression
}

func (w withClause) prefix() string {
	if len(w.ctes) == 0 {
		return ""
	}
	description := "WITH "
	if w.recursive {
		description += "RECURSIVE "
	}
	return description + joinDescriptions(w.ctes) + " "
}
