package winq

// StatementPragma is a PRAGMA statement.
type StatementPragma struct {
	node
	schema  string
	pragma  *Pragma
	value   *Expression
	assign  bool
	invoked bool
}

// NewStatementPragma creates an empty PRAGMA statement.
func NewStatementPragma() *StatementPragma {
	return &StatementPragma{node: node{kind: KindPragmaStatement}}
}

// Pragma sets the pragma.
func (s *StatementPragma) Pragma(pragma *Pragma) *StatementPragma {
	s.pragma = pragma
	return s
}

// Of qualifies the pragma by schema.
func (s *StatementPragma) Of(schema any) *StatementPragma {
	s.schema = schemaName(schema)
	return s
}

// ToValue makes the statement PRAGMA name = v.
func (s *StatementPragma) ToValue(v any) *StatementPragma {
	s.value, s.assign, s.invoked = expressionFrom(v), true, false
	return s
}

// WithValue makes the statement PRAGMA name(v).
func (s *StatementPragma) WithValue(v any) *StatementPragma {
	s.value, s.assign, s.invoked = expressionFrom(v), false, true
	return s
}

// IsWriteStatement implements Statement. A pragma writes when it assigns a
// value or when it is one of the pragmas that act on the database.
func (s *StatementPragma) IsWriteStatement() bool {
	if s.assign {
		return true
	}
	if s.pragma == nil {
		return false
	}
	switch s.pragma.name {
	case "incremental_vacuum", "wal_checkpoint", "optimize", "shrink_memory":
		return true
	}
	return false
}

// Description implements Identifier.
func (s *StatementPragma) Description() string {
	description := "PRAGMA "
	if s.pragma != nil {
		description += qualified(s.schema, s.pragma.name)
	}
	switch {
	case s.assign:
		description += " = " + s.value.Description()
	case s.invoked:
		description += "(" + s.value.Description() + ")"
	}
	return description
}
