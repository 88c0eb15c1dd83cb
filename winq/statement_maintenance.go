package winq

// StatementAnalyze is an ANALYZE statement.
type StatementAnalyze struct {
	node
	schema string
	name   string
}

// NewStatementAnalyze creates ANALYZE over every attached database.
func NewStatementAnalyze() *StatementAnalyze {
	return &StatementAnalyze{node: node{kind: KindAnalyzeStatement}}
}

// Of restricts the analysis to a schema.
func (s *StatementAnalyze) Of(schema any) *StatementAnalyze {
	s.schema = schemaName(schema)
	return s
}

// Analyze restricts the analysis to a table or an index.
func (s *StatementAnalyze) Analyze(tableOrIndex string) *StatementAnalyze {
	s.name = tableOrIndex
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementAnalyze) IsWriteStatement() bool {
	return false
}

// Description implements Identifier.
func (s *StatementAnalyze) Description() string {
	target := s.schema
	if s.name != "" {
		target = qualified(s.schema, s.name)
	}
	if target == "" {
		return "ANALYZE"
	}
	return "ANALYZE " + target
}

// StatementReindex is a REINDEX statement.
type StatementReindex struct {
	node
	schema string
	name   string
}

// NewStatementReindex creates REINDEX over every index.
func NewStatementReindex() *StatementReindex {
	return &StatementReindex{node: node{kind: KindReindexStatement}}
}

// Reindex restricts the statement to a collation, a table or an index.
func (s *StatementReindex) Reindex(name string) *StatementReindex {
	s.name = name
	return s
}

// Of qualifies the table or index by schema.
func (s *StatementReindex) Of(schema any) *StatementReindex {
	s.schema = schemaName(schema)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementReindex) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementReindex) Description() string {
	if s.name == "" {
		return "REINDEX"
	}
	return "REINDEX " + qualified(s.schema, s.name)
}

// StatementVacuum is a VACUUM statement.
type StatementVacuum struct {
	node
	schema string
	into   *Expression
}

// NewStatementVacuum creates VACUUM.
func NewStatementVacuum() *StatementVacuum {
	return &StatementVacuum{node: node{kind: KindVacuumStatement}}
}

// Of restricts the statement to a schema.
func (s *StatementVacuum) Of(schema any) *StatementVacuum {
	s.schema = schemaName(schema)
	return s
}

// Into writes the vacuumed database to a new file.
func (s *StatementVacuum) Into(path any) *StatementVacuum {
	s.into = expressionFrom(path)
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementVacuum) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementVacuum) Description() string {
	description := "VACUUM"
	if s.schema != "" {
		description += " " + s.schema
	}
	if s.into != nil {
		description += " INTO " + s.into.Description()
	}
	return description
}

// StatementExplain is an EXPLAIN statement.
type StatementExplain struct {
	node
	queryPlan bool
	statement Statement
}

// NewStatementExplain creates an empty EXPLAIN statement.
func NewStatementExplain() *StatementExplain {
	return &StatementExplain{node: node{kind: KindExplainStatement}}
}

// Explain sets the explained statement.
func (s *StatementExplain) Explain(statement Statement) *StatementExplain {
	s.statement, s.queryPlan = statement, false
	return s
}

// ExplainQueryPlan sets the statement whose query plan is explained.
func (s *StatementExplain) ExplainQueryPlan(statement Statement) *StatementExplain {
	s.statement, s.queryPlan = statement, true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementExplain) IsWriteStatement() bool {
	return false
}

// Description implements Identifier.
func (s *StatementExplain) Description() string {
	description := "EXPLAIN "
	if s.queryPlan {
		description += "QUERY PLAN "
	}
	if s.statement != nil {
		description += s.statement.Description()
	}
	return description
}
