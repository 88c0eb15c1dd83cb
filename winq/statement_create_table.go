package winq

import "strings"

// StatementCreateTable is a CREATE TABLE statement.
type StatementCreateTable struct {
	node
	temp         bool
	ifNotExists  bool
	schema       string
	table        string
	columnDefs   []*ColumnDef
	constraints  []*TableConstraint
	withoutRowID bool
	selectSTMT   *StatementSelect
}

// NewStatementCreateTable creates an empty CREATE TABLE statement.
func NewStatementCreateTable() *StatementCreateTable {
	return &StatementCreateTable{node: node{kind: KindCreateTableStatement}}
}

// CreateTable sets the table name.
func (s *StatementCreateTable) CreateTable(table string) *StatementCreateTable {
	s.table = table
	return s
}

// CreateTempTable sets the table name of a TEMP table.
func (s *StatementCreateTable) CreateTempTable(table string) *StatementCreateTable {
	s.table, s.temp = table, true
	return s
}

// Of qualifies the table by schema.
func (s *StatementCreateTable) Of(schema any) *StatementCreateTable {
	s.schema = schemaName(schema)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *StatementCreateTable) IfNotExists() *StatementCreateTable {
	s.ifNotExists = true
	return s
}

// Define appends column definitions.
func (s *StatementCreateTable) Define(columnDefs ...*ColumnDef) *StatementCreateTable {
	s.columnDefs = append(s.columnDefs, columnDefs...)
	return s
}

// Constraint appends table constraints.
func (s *StatementCreateTable) Constraint(constraints ...*TableConstraint) *StatementCreateTable {
	s.constraints = append(s.constraints, constraints...)
	return s
}

// WithoutRowID adds WITHOUT ROWID.
func (s *StatementCreateTable) WithoutRowID() *StatementCreateTable {
	s.withoutRowID = true
	return s
}

// As makes the statement CREATE TABLE ... AS select.
func (s *StatementCreateTable) As(selectSTMT *StatementSelect) *StatementCreateTable {
	s.selectSTMT = selectSTMT
	return s
}

// Table returns the table name.
func (s *StatementCreateTable) Table() string {
	return s.table
}

// IsWriteStatement implements Statement.
func (s *StatementCreateTable) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCreateTable) Description() string {
	var b strings.Builder
	b.WriteString("CREATE " + temp(s.temp) + "TABLE " + ifNotExists(s.ifNotExists))
	b.WriteString(qualified(s.schema, s.table))
	if s.selectSTMT != nil {
		b.WriteString(" AS " + s.selectSTMT.Description())
		return b.String()
	}
	b.WriteString("(" + joinDescriptions(s.columnDefs))
	if len(s.constraints) > 0 {
		if len(s.columnDefs) > 0 {
			b.WriteString(", ")
		}
		b.WriteString(joinDescriptions(s.constraints))
	}
	b.WriteString(")")
	if s.withoutRowID {
		b.WriteString(" WITHOUT ROWID")
	}
	return b.String()
}
