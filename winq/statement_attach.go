package winq

// StatementAttach is an ATTACH statement.
type StatementAttach struct {
	node
	path   *Expression
	schema string
	key    *Expression
}

// NewStatementAttach creates an empty ATTACH statement.
func NewStatementAttach() *StatementAttach {
	return &StatementAttach{node: node{kind: KindAttachStatement}}
}

// Attach sets the attached file, usually a path string.
func (s *StatementAttach) Attach(path any) *StatementAttach {
	s.path = expressionFrom(path)
	return s
}

// As sets the schema name of the attached database.
func (s *StatementAttach) As(schema any) *StatementAttach {
	s.schema = schemaName(schema)
	return s
}

// Key sets the cipher key of the attached database.
func (s *StatementAttach) Key(key any) *StatementAttach {
	s.key = expressionFrom(key)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementAttach) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementAttach) Description() string {
	description := "ATTACH "
	if s.path != nil {
		description += s.path.Description()
	}
	description += " AS " + s.schema
	if s.key != nil {
		description += " KEY " + s.key.Description()
	}
	return description
}

// StatementDetach is a DETACH statement.
type StatementDetach struct {
	node
	schema string
}

// NewStatementDetach creates DETACH schema.
func NewStatementDetach(schema any) *StatementDetach {
	return &StatementDetach{node: node{kind: KindDetachStatement}, schema: schemaName(schema)}
}

// IsWriteStatement implements Statement.
func (s *StatementDetach) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementDetach) Description() string {
	return "DETACH " + s.schema
}
