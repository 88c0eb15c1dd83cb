package winq

import "strings"

// StatementCreateVirtualTable is a CREATE VIRTUAL TABLE statement.
type StatementCreateVirtualTable struct {
	node
	ifNotExists bool
	schema      string
	table       string
	module      string
	arguments   []string
}

// NewStatementCreateVirtualTable creates an empty CREATE VIRTUAL TABLE
// statement.
func NewStatementCreateVirtualTable() *StatementCreateVirtualTable {
	return &StatementCreateVirtualTable{node: node{kind: KindCreateVirtualTableStatement}}
}

// CreateVirtualTable sets the table name.
func (s *StatementCreateVirtualTable) CreateVirtualTable(table string) *StatementCreateVirtualTable {
	s.table = table
	return s
}

// Of qualifies the table by schema.
func (s *StatementCreateVirtualTable) Of(schema any) *StatementCreateVirtualTable {
	s.schema = schemaName(schema)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *StatementCreateVirtualTable) IfNotExists() *StatementCreateVirtualTable {
	s.ifNotExists = true
	return s
}

// UsingModule sets the module, such as fts5.
func (s *StatementCreateVirtualTable) UsingModule(module string) *StatementCreateVirtualTable {
	s.module = module
	return s
}

// Arguments appends module arguments. Identifiers such as column
// definitions are rendered with their description.
func (s *StatementCreateVirtualTable) Arguments(arguments ...any) *StatementCreateVirtualTable {
	for _, argument := range arguments {
		switch x := argument.(type) {
		case string:
			s.arguments = append(s.arguments, x)
		case Identifier:
			s.arguments = append(s.arguments, x.Description())
		}
	}
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementCreateVirtualTable) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCreateVirtualTable) Description() string {
	return "CREATE VIRTUAL TABLE " + ifNotExists(s.ifNotExists) + qualified(s.schema, s.table) +
		" USING " + s.module + "(" + strings.Join(s.arguments, ", ") + ")"
}
