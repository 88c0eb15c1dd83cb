package winq

import "strings"

// StatementCreateTrigger is a CREATE TRIGGER statement.
type StatementCreateTrigger struct {
	node
	temp        bool
	ifNotExists bool
	schema      string
	trigger     string
	timing      string
	event       string
	columns     []*Column
	table       string
	forEachRow  bool
	when        *Expression
	statements  []Statement
}

// NewStatementCreateTrigger creates an empty CREATE TRIGGER statement.
func NewStatementCreateTrigger() *StatementCreateTrigger {
	return &StatementCreateTrigger{node: node{kind: KindCreateTriggerStatement}}
}

// CreateTrigger sets the trigger name.
func (s *StatementCreateTrigger) CreateTrigger(trigger string) *StatementCreateTrigger {
	s.trigger = trigger
	return s
}

// CreateTempTrigger sets the trigger name of a TEMP trigger.
func (s *StatementCreateTrigger) CreateTempTrigger(trigger string) *StatementCreateTrigger {
	s.trigger, s.temp = trigger, true
	return s
}

// Of qualifies the trigger by schema.
func (s *StatementCreateTrigger) Of(schema any) *StatementCreateTrigger {
	s.schema = schemaName(schema)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *StatementCreateTrigger) IfNotExists() *StatementCreateTrigger {
	s.ifNotExists = true
	return s
}

func (s *StatementCreateTrigger) Before() *StatementCreateTrigger {
	s.timing = "BEFORE"
	return s
}

func (s *StatementCreateTrigger) After() *StatementCreateTrigger {
	s.timing = "AFTER"
	return s
}

func (s *StatementCreateTrigger) InsteadOf() *StatementCreateTrigger {
	s.timing = "INSTEAD OF"
	return s
}

func (s *StatementCreateTrigger) Delete() *StatementCreateTrigger {
	s.event = "DELETE"
	return s
}

func (s *StatementCreateTrigger) Insert() *StatementCreateTrigger {
	s.event = "INSERT"
	return s
}

func (s *StatementCreateTrigger) Update() *StatementCreateTrigger {
	s.event = "UPDATE"
	return s
}

// UpdateOf fires the trigger on updates of the given columns.
func (s *StatementCreateTrigger) UpdateOf(columns ...any) *StatementCreateTrigger {
	s.event = "UPDATE"
	s.columns = append(s.columns, columnsFrom(columns)...)
	return s
}

// OnTable sets the table the trigger is attached to.
func (s *StatementCreateTrigger) OnTable(table string) *StatementCreateTrigger {
	s.table = table
	return s
}

// ForEachRow adds FOR EACH ROW.
func (s *StatementCreateTrigger) ForEachRow() *StatementCreateTrigger {
	s.forEachRow = true
	return s
}

// When sets the trigger condition.
func (s *StatementCreateTrigger) When(condition any) *StatementCreateTrigger {
	s.when = expressionFrom(condition)
	return s
}

// Execute appends an UPDATE, INSERT, DELETE or SELECT to the trigger
// program. Other statements are ignored.
func (s *StatementCreateTrigger) Execute(statement Statement) *StatementCreateTrigger {
	switch statement.(type) {
	case *StatementUpdate, *StatementInsert, *StatementDelete, *StatementSelect:
		s.statements = append(s.statements, statement)
	}
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementCreateTrigger) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCreateTrigger) Description() string {
	var b strings.Builder
	b.WriteString("CREATE " + temp(s.temp) + "TRIGGER " + ifNotExists(s.ifNotExists))
	b.WriteString(qualified(s.schema, s.trigger) + " ")
	if s.timing != "" {
		b.WriteString(s.timing + " ")
	}
	b.WriteString(s.event)
	if len(s.columns) > 0 {
		b.WriteString(" OF " + columnNames(s.columns))
	}
	b.WriteString(" ON " + s.table + " ")
	if s.forEachRow {
		b.WriteString("FOR EACH ROW ")
	}
	if s.when != nil {
		b.WriteString("WHEN " + s.when.Description() + " ")
	}
	b.WriteString("BEGIN ")
	for _, statement := range s.statements {
		b.WriteString(statement.Description() + "; ")
	}
	b.WriteString("END")
	return b.String()
}
