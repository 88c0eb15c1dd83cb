package winq

import "strings"

// StatementDelete is a DELETE statement.
type StatementDelete struct {
	node
	with  withClause
	table *QualifiedTable
	where *Expression
	orderLimit
}

// NewStatementDelete creates an empty DELETE statement.
func NewStatementDelete() *StatementDelete {
	return &StatementDelete{node: node{kind: KindDeleteStatement}}
}

// With sets the common table expressions.
func (s *StatementDelete) With(ctes ...*CommonTableExpression) *StatementDelete {
	s.with.ctes = append(s.with.ctes, ctes...)
	return s
}

// DeleteFrom sets the target table, a name or a *QualifiedTable.
func (s *StatementDelete) DeleteFrom(table any) *StatementDelete {
	s.table = qualifiedTableFrom(table)
	return s
}

// Of qualifies the target table by schema.
func (s *StatementDelete) Of(schema any) *StatementDelete {
	if s.table != nil {
		s.table.Of(schema)
	}
	return s
}

// Where sets the condition.
func (s *StatementDelete) Where(condition any) *StatementDelete {
	s.where = expressionFrom(condition)
	return s
}

// OrderBy appends ordering terms.
func (s *StatementDelete) OrderBy(orderings ...*OrderingTerm) *StatementDelete {
	s.orderBy(orderings)
	return s
}

// Limit sets LIMIT limit.
func (s *StatementDelete) Limit(limit any) *StatementDelete {
	s.setLimit(limit)
	return s
}

// LimitRange sets LIMIT from, to.
func (s *StatementDelete) LimitRange(from, to any) *StatementDelete {
	s.setLimitRange(from, to)
	return s
}

// Offset sets OFFSET offset.
func (s *StatementDelete) Offset(offset any) *StatementDelete {
	s.setOffset(offset)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementDelete) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementDelete) Description() string {
	var b strings.Builder
	b.WriteString(s.with.prefix())
	b.WriteString("DELETE FROM ")
	if s.table != nil {
		b.WriteString(s.table.Description())
	}
	if s.where != nil {
		b.WriteString(" WHERE " + s.where.Description())
	}
	s.orderLimit.describe(&b)
	return b.String()
}
