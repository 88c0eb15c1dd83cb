package winq

import "strings"

// StatementUpdate is an UPDATE statement.
type StatementUpdate struct {
	node
	with        withClause
	conflict    ConflictAction
	table       *QualifiedTable
	assignments []assignment
	from        []*TableOrSubquery
	where       *Expression
	orderLimit
}

// NewStatementUpdate creates an empty UPDATE statement.
func NewStatementUpdate() *StatementUpdate {
	return &StatementUpdate{node: node{kind: KindUpdateStatement}}
}

// With sets the common table expressions.
func (s *StatementUpdate) With(ctes ...*CommonTableExpression) *StatementUpdate {
	s.with.ctes = append(s.with.ctes, ctes...)
	return s
}

// Update sets the target table, a name or a *QualifiedTable.
func (s *StatementUpdate) Update(table any) *StatementUpdate {
	s.table = qualifiedTableFrom(table)
	return s
}

// Of qualifies the target table by schema.
func (s *StatementUpdate) Of(schema any) *StatementUpdate {
	if s.table != nil {
		s.table.Of(schema)
	}
	return s
}

// Conflict sets the UPDATE OR action.
func (s *StatementUpdate) Conflict(action ConflictAction) *StatementUpdate {
	s.conflict = action
	return s
}

func (s *StatementUpdate) OrReplace() *StatementUpdate { return s.Conflict(ConflictReplace) }
func (s *StatementUpdate) OrRollback() *StatementUpdate { return s.Conflict(ConflictRollback) }
func (s *StatementUpdate) OrAbort() *StatementUpdate { return s.Conflict(ConflictAbort) }
func (s *StatementUpdate) OrFail() *StatementUpdate { return s.Conflict(ConflictFail) }
func (s *StatementUpdate) OrIgnore() *StatementUpdate { return s.Conflict(ConflictIgnore) }

// Set starts an assignment. Several columns render as a column list
// assigned from a row value. Empty column lists are ignored.
func (s *StatementUpdate) Set(columns ...any) *StatementUpdate {
	if cs := columnsFrom(columns); len(cs) > 0 {
		s.assignments = append(s.assignments, assignment{columns: cs})
	}
	return s
}

// To sets the value of the last assignment.
func (s *StatementUpdate) To(v any) *StatementUpdate {
	if len(s.assignments) > 0 {
		s.assignments[len(s.assignments)-1].value = expressionFrom(v)
	}
	return s
}

// From appends UPDATE FROM sources.
func (s *StatementUpdate) From(sources ...any) *StatementUpdate {
	s.from = append(s.from, tablesOrSubqueriesFrom(sources)...)
	return s
}

// Where sets the condition.
func (s *StatementUpdate) Where(condition any) *StatementUpdate {
	s.where = expressionFrom(condition)
	return s
}

// OrderBy appends ordering terms.
func (s *StatementUpdate) OrderBy(orderings ...*OrderingTerm) *StatementUpdate {
	s.orderBy(orderings)
	return s
}

// Limit sets LIMIT limit.
func (s *StatementUpdate) Limit(limit any) *StatementUpdate {
	s.setLimit(limit)
	return s
}

// LimitRange sets LIMIT from, to.
func (s *StatementUpdate) LimitRange(from, to any) *StatementUpdate {
	s.setLimitRange(from, to)
	return s
}

// Offset sets OFFSET offset.
func (s *StatementUpdate) Offset(offset any) *StatementUpdate {
	s.setOffset(offset)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementUpdate) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementUpdate) Description() string {
	var b strings.Builder
	b.WriteString(s.with.prefix())
	b.WriteString("UPDATE" + conflictKeyword(s.conflict) + " ")
	if s.table != nil {
		b.WriteString(s.table.Description())
	}
	b.WriteString(" SET " + describeAssignments(s.assignments))
	if len(s.from) > 0 {
		b.WriteString(" FROM " + joinDescriptions(s.from))
	}
	if s.where != nil {
		b.WriteString(" WHERE " + s.where.Description())
	}
	s.orderLimit.describe(&b)
	return b.String()
}
