package winq

import "strings"

type namedWindow struct {
	name string
	def  *WindowDef
}

type selectCore struct {
	distinct bool
	columns  []*ResultColumn
	from     []*TableOrSubquery
	where    *Expression
	groups   []*Expression
	having   *Expression
	windows  []namedWindow
}

func (c *selectCore) describe(b *strings.Builder) {
	b.WriteString("SELECT ")
	if c.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(joinDescriptions(c.columns))
	if len(c.from) > 0 {
		b.WriteString(" FROM " + joinDescriptions(c.from))
	}
	if c.where != nil {
		b.WriteString(" WHERE " + c.where.Description())
	}
	if len(c.groups) > 0 {
		b.WriteString(" GROUP BY " + joinDescriptions(c.groups))
		if c.having != nil {
			b.WriteString(" HAVING " + c.having.Description())
		}
	}
	for i, window := range c.windows {
		if i == 0 {
			b.WriteString(" WINDOW ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(window.name + " AS " + window.def.Description())
	}
}

// StatementSelect is a SELECT statement, possibly compound.
type StatementSelect struct {
	node
	with      withClause
	cores     []*selectCore
	compounds []string
	orderLimit
}

// NewStatementSelect creates an empty SELECT statement.
func NewStatementSelect() *StatementSelect {
	return &StatementSelect{node: node{kind: KindSelectStatement}, cores: []*selectCore{{}}}
}

func (s *StatementSelect) current() *selectCore {
	return s.cores[len(s.cores)-1]
}

// With sets the common table expressions.
func (s *StatementSelect) With(ctes ...*CommonTableExpression) *StatementSelect {
	s.with.ctes = append(s.with.ctes, ctes...)
	return s
}

// WithRecursive sets the common table expressions of WITH RECURSIVE.
func (s *StatementSelect) WithRecursive(ctes ...*CommonTableExpression) *StatementSelect {
	s.with.recursive = true
	return s.With(ctes...)
}

// Select appends result columns. Columns may be names, columns,
// expressions, result columns or Go values.
func (s *StatementSelect) Select(columns ...any) *StatementSelect {
	core := s.current()
	core.columns = append(core.columns, resultColumnsFrom(columns)...)
	return s
}

// Distinct makes the current core SELECT DISTINCT.
func (s *StatementSelect) Distinct() *StatementSelect {
	s.current().distinct = true
	return s
}

// From appends sources: table names, tables or subqueries, joins or select
// statements.
func (s *StatementSelect) From(sources ...any) *StatementSelect {
	core := s.current()
	core.from = append(core.from, tablesOrSubqueriesFrom(sources)...)
	return s
}

// Where sets the condition of the current core.
func (s *StatementSelect) Where(condition any) *StatementSelect {
	s.current().where = expressionFrom(condition)
	return s
}

// GroupBy appends grouping expressions.
func (s *StatementSelect) GroupBy(values ...any) *StatementSelect {
	core := s.current()
	core.groups = append(core.groups, expressionsFrom(values)...)
	return s
}

// Having sets the HAVING condition. It is emitted only with GROUP BY.
func (s *StatementSelect) Having(condition any) *StatementSelect {
	s.current().having = expressionFrom(condition)
	return s
}

// Window appends a named window definition.
func (s *StatementSelect) Window(name string, def *WindowDef) *StatementSelect {
	core := s.current()
	core.windows = append(core.windows, namedWindow{name: name, def: def})
	return s
}

func (s *StatementSelect) compound(operator string) *StatementSelect {
	s.compounds = append(s.compounds, operator)
	s.cores = append(s.cores, &selectCore{})
	return s
}

// Union, UnionAll, Intersect and Except start a new compound core.
func (s *StatementSelect) Union() *StatementSelect { return s.compound("UNION") }
func (s *StatementSelect) UnionAll() *StatementSelect { return s.compound("UNION ALL") }
func (s *StatementSelect) Intersect() *StatementSelect { return s.compound("INTERSECT") }
func (s *StatementSelect) Except() *StatementSelect { return s.compound("EXCEPT") }

// OrderBy appends ordering terms.
func (s *StatementSelect) OrderBy(orderings ...*OrderingTerm) *StatementSelect {
	s.orderBy(orderings)
	return s
}

// Limit sets LIMIT limit.
func (s *StatementSelect) Limit(limit any) *StatementSelect {
	s.setLimit(limit)
	return s
}

// LimitRange sets LIMIT from, to.
func (s *StatementSelect) LimitRange(from, to any) *StatementSelect {
	s.setLimitRange(from, to)
	return s
}

// Offset sets OFFSET offset. It is emitted only with LIMIT.
func (s *StatementSelect) Offset(offset any) *StatementSelect {
	s.setOffset(offset)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementSelect) IsWriteStatement() bool {
	return false
}

// Description implements Identifier.
func (s *StatementSelect) Description() string {
	var b strings.Builder
	b.WriteString(s.with.prefix())
	for i, core := range s.cores {
		if i > 0 {
			b.WriteString(" " + s.compounds[i-1] + " ")
		}
		core.describe(&b)
	}
	s.orderLimit.describe(&b)
	return b.String()
}

func (s *StatementSelect) asExpression() *Expression {
	e := newExpression(exprSelect)
	e.selectSTMT = s
	return e
}

func (s *StatementSelect) asTableOrSubquery() *TableOrSubquery {
	t := NewTableOrSubquery("")
	t.switcher, t.selectSTMT = tableOrSubquerySelect, s
	return t
}
