package winq

type alterTableSwitch int

const (
	alterRenameTable alterTableSwitch = iota
	alterRenameColumn
	alterAddColumn
	alterDropColumn
)

// StatementAlterTable is an ALTER TABLE statement.
type StatementAlterTable struct {
	node
	schema    string
	table     string
	switcher  alterTableSwitch
	newTable  string
	column    *Column
	newColumn *Column
	columnDef *ColumnDef
}

// NewStatementAlterTable creates an empty ALTER TABLE statement.
func NewStatementAlterTable() *StatementAlterTable {
	return &StatementAlterTable{node: node{kind: KindAlterTableStatement}}
}

// AlterTable sets the altered table.
func (s *StatementAlterTable) AlterTable(table string) *StatementAlterTable {
	s.table = table
	return s
}

// Of qualifies the table by schema.
func (s *StatementAlterTable) Of(schema any) *StatementAlterTable {
	s.schema = schemaName(schema)
	return s
}

// RenameTo renames the table.
func (s *StatementAlterTable) RenameTo(table string) *StatementAlterTable {
	s.switcher, s.newTable = alterRenameTable, table
	return s
}

// RenameColumn starts renaming a column; complete it with ToColumn.
func (s *StatementAlterTable) RenameColumn(column any) *StatementAlterTable {
	s.switcher, s.column = alterRenameColumn, columnFrom(column)
	return s
}

// ToColumn sets the new name of a renamed column.
func (s *StatementAlterTable) ToColumn(column any) *StatementAlterTable {
	s.newColumn = columnFrom(column)
	return s
}

// AddColumn adds a column.
func (s *StatementAlterTable) AddColumn(columnDef *ColumnDef) *StatementAlterTable {
	s.switcher, s.columnDef = alterAddColumn, columnDef
	return s
}

// DropColumn drops a column.
func (s *StatementAlterTable) DropColumn(column any) *StatementAlterTable {
	s.switcher, s.column = alterDropColumn, columnFrom(column)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementAlterTable) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementAlterTable) Description() string {
	description := "ALTER TABLE " + qualified(s.schema, s.table)
	switch s.switcher {
	case alterRenameTable:
		description += " RENAME TO " + s.newTable
	case alterRenameColumn:
		description += " RENAME COLUMN " + s.column.name + " TO "
		if s.newColumn != nil {
			description += s.newColumn.name
		}
	case alterAddColumn:
		description += " ADD COLUMN " + s.columnDef.Description()
	case alterDropColumn:
		description += " DROP COLUMN " + s.column.name
	}
	return description
}
