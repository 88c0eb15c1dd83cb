package winq

import "strings"

// StatementInsert is an INSERT statement.
type StatementInsert struct {
	node
	with          withClause
	replace       bool
	conflict      ConflictAction
	schema        string
	table         string
	alias         string
	columns       []*Column
	rows          [][]*Expression
	selectSTMT    *StatementSelect
	defaultValues bool
	upsert        *Upsert
}

// NewStatementInsert creates an empty INSERT statement.
func NewStatementInsert() *StatementInsert {
	return &StatementInsert{node: node{kind: KindInsertStatement}}
}

// With sets the common table expressions.
func (s *StatementInsert) With(ctes ...*CommonTableExpression) *StatementInsert {
	s.with.ctes = append(s.with.ctes, ctes...)
	return s
}

// InsertInto sets the target table.
func (s *StatementInsert) InsertInto(table string) *StatementInsert {
	s.table = table
	return s
}

// ReplaceInto sets the target table of a REPLACE statement.
func (s *StatementInsert) ReplaceInto(table string) *StatementInsert {
	s.table, s.replace = table, true
	return s
}

// Of qualifies the target table by schema.
func (s *StatementInsert) Of(schema any) *StatementInsert {
	s.schema = schemaName(schema)
	return s
}

// As sets the alias of the target table.
func (s *StatementInsert) As(alias string) *StatementInsert {
	s.alias = alias
	return s
}

// Conflict sets the INSERT OR action.
func (s *StatementInsert) Conflict(action ConflictAction) *StatementInsert {
	s.conflict = action
	return s
}

func (s *StatementInsert) OrReplace() *StatementInsert { return s.Conflict(ConflictReplace) }
func (s *StatementInsert) OrRollback() *StatementInsert { return s.Conflict(ConflictRollback) }
func (s *StatementInsert) OrAbort() *StatementInsert { return s.Conflict(ConflictAbort) }
func (s *StatementInsert) OrFail() *StatementInsert { return s.Conflict(ConflictFail) }
func (s *StatementInsert) OrIgnore() *StatementInsert { return s.Conflict(ConflictIgnore) }

// Columns appends target columns. Empty lists are ignored.
func (s *StatementInsert) Columns(columns ...any) *StatementInsert {
	s.columns = append(s.columns, columnsFrom(columns)...)
	return s
}

// Values appends one row of values. Empty rows are ignored.
func (s *StatementInsert) Values(values ...any) *StatementInsert {
	if len(values) > 0 {
		s.rows = append(s.rows, expressionsFrom(values))
		s.selectSTMT, s.defaultValues = nil, false
	}
	return s
}

// ValuesWithBindParameters appends one row of count numbered placeholders.
func (s *StatementInsert) ValuesWithBindParameters(count int) *StatementInsert {
	values := make([]any, 0, count)
	for _, parameter := range BindParameters(count) {
		values = append(values, parameter)
	}
	return s.Values(values...)
}

// Select makes the statement insert the rows of a SELECT.
func (s *StatementInsert) Select(selectSTMT *StatementSelect) *StatementInsert {
	s.selectSTMT, s.rows, s.defaultValues = selectSTMT, nil, false
	return s
}

// DefaultValues makes the statement INSERT ... DEFAULT VALUES.
func (s *StatementInsert) DefaultValues() *StatementInsert {
	s.defaultValues, s.rows, s.selectSTMT = true, nil, nil
	return s
}

// Upsert sets the ON CONFLICT clause.
func (s *StatementInsert) Upsert(upsert *Upsert) *StatementInsert {
	s.upsert = upsert
	return s
}

// Table returns the target table.
func (s *StatementInsert) Table() string {
	return s.table
}

// IsWriteStatement implements Statement.
func (s *StatementInsert) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementInsert) Description() string {
	var b strings.Builder
	b.WriteString(s.with.prefix())
	if s.replace {
		b.WriteString("REPLACE")
	} else {
		b.WriteString("INSERT" + conflictKeyword(s.conflict))
	}
	b.WriteString(" INTO " + qualified(s.schema, s.table))
	if s.alias != "" {
		b.WriteString(" AS " + s.alias)
	}
	if len(s.columns) > 0 {
		b.WriteString("(" + columnNames(s.columns) + ")")
	}
	switch {
	case s.defaultValues:
		b.WriteString(" DEFAULT VALUES")
	case s.selectSTMT != nil:
		b.WriteString(" " + s.selectSTMT.Description())
	default:
		b.WriteString(" VALUES")
		for i, row := range s.rows {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(" + joinDescriptions(row) + ")")
		}
	}
	if s.upsert != nil && !s.defaultValues {
		b.WriteString(" " + s.upsert.Description())
	}
	return b.String()
}
