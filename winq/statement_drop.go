package winq

type dropStatement struct {
	node
	object   string
	ifExists bool
	schema   string
	name     string
}

func (s *dropStatement) description() string {
	return "DROP " + s.object + " " + ifExists(s.ifExists) + qualified(s.schema, s.name)
}

// StatementDropTable is a DROP TABLE statement.
type StatementDropTable struct{ dropStatement }

// NewStatementDropTable creates an empty DROP TABLE statement.
func NewStatementDropTable() *StatementDropTable {
	return &StatementDropTable{dropStatement{node: node{kind: KindDropTableStatement}, object: "TABLE"}}
}

func (s *StatementDropTable) DropTable(table string) *StatementDropTable {
	s.name = table
	return s
}

func (s *StatementDropTable) Of(schema any) *StatementDropTable {
	s.schema = schemaName(schema)
	return s
}

func (s *StatementDropTable) IfExists() *StatementDropTable {
	s.ifExists = true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementDropTable) IsWriteStatement() bool { return true }

// Description implements Identifier.
func (s *StatementDropTable) Description() string { return s.description() }

// StatementDropIndex is a DROP INDEX statement.
type StatementDropIndex struct{ dropStatement }

// NewStatementDropIndex creates an empty DROP INDEX statement.
func NewStatementDropIndex() *StatementDropIndex {
	return &StatementDropIndex{dropStatement{node: node{kind: KindDropIndexStatement}, object: "INDEX"}}
}

func (s *StatementDropIndex) DropIndex(index string) *StatementDropIndex {
	s.name = index
	return s
}

func (s *StatementDropIndex) Of(schema any) *StatementDropIndex {
	s.schema = schemaName(schema)
	return s
}

func (s *StatementDropIndex) IfExists() *StatementDropIndex {
	s.ifExists = true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementDropIndex) IsWriteStatement() bool { return true }

// Description implements Identifier.
func (s *StatementDropIndex) Description() string { return s.description() }

// StatementDropTrigger is a DROP TRIGGER statement.
type StatementDropTrigger struct{ dropStatement }

// NewStatementDropTrigger creates an empty DROP TRIGGER statement.
func NewStatementDropTrigger() *StatementDropTrigger {
	return &StatementDropTrigger{dropStatement{node: node{kind: KindDropTriggerStatement}, object: "TRIGGER"}}
}

func (s *StatementDropTrigger) DropTrigger(trigger string) *StatementDropTrigger {
	s.name = trigger
	return s
}

func (s *StatementDropTrigger) Of(schema any) *StatementDropTrigger {
	s.schema = schemaName(schema)
	return s
}

func (s *StatementDropTrigger) IfExists() *StatementDropTrigger {
	s.ifExists = true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementDropTrigger) IsWriteStatement() bool { return true }

// Description implements Identifier.
func (s *StatementDropTrigger) Description() string { return s.description() }

// StatementDropView is a DROP VIEW statement.
type StatementDropView struct{ dropStatement }

// NewStatementDropView creates an empty DROP VIEW statement.
func NewStatementDropView() *StatementDropView {
	return &StatementDropView{dropStatement{node: node{kind: KindDropViewStatement}, object: "VIEW"}}
}

func (s *StatementDropView) DropView(view string) *StatementDropView {
	s.name = view
	return s
}

func (s *StatementDropView) Of(schema any) *StatementDropView {
	s.schema = schemaName(schema)
	return s
}

func (s *StatementDropView) IfExists() *StatementDropView {
	s.ifExists = true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementDropView) IsWriteStatement() bool { return true }

// Description implements Identifier.
func (s *StatementDropView) Description() string { return s.description() }
