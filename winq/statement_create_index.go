package winq

// StatementCreateIndex is a CREATE INDEX statement.
type StatementCreateIndex struct {
	node
	unique         bool
	ifNotExists    bool
	schema         string
	index          string
	table          string
	indexedColumns []*IndexedColumn
	where          *Expression
}

// NewStatementCreateIndex creates an empty CREATE INDEX statement.
func NewStatementCreateIndex() *StatementCreateIndex {
	return &StatementCreateIndex{node: node{kind: KindCreateIndexStatement}}
}

// CreateIndex sets the index name.
func (s *StatementCreateIndex) CreateIndex(index string) *StatementCreateIndex {
	s.index = index
	return s
}

// Unique makes the index UNIQUE.
func (s *StatementCreateIndex) Unique() *StatementCreateIndex {
	s.unique = true
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *StatementCreateIndex) IfNotExists() *StatementCreateIndex {
	s.ifNotExists = true
	return s
}

// Of qualifies the index by schema.
func (s *StatementCreateIndex) Of(schema any) *StatementCreateIndex {
	s.schema = schemaName(schema)
	return s
}

// On sets the indexed table.
func (s *StatementCreateIndex) On(table string) *StatementCreateIndex {
	s.table = table
	return s
}

// IndexedBy appends indexed columns.
func (s *StatementCreateIndex) IndexedBy(columns ...any) *StatementCreateIndex {
	s.indexedColumns = append(s.indexedColumns, indexedColumnsFrom(columns)...)
	return s
}

// Where makes the index partial.
func (s *StatementCreateIndex) Where(condition any) *StatementCreateIndex {
	s.where = expressionFrom(condition)
	return s
}

// Index returns the index name.
func (s *StatementCreateIndex) Index() string {
	return s.index
}

// Table returns the indexed table.
func (s *StatementCreateIndex) Table() string {
	return s.table
}

// Copy returns a shallow copy of the statement, so that a template can be
// bound to several tables.
func (s *StatementCreateIndex) Copy() *StatementCreateIndex {
	copied := *s
	copied.indexedColumns = append([]*IndexedColumn(nil), s.indexedColumns...)
	return &copied
}

// IsWriteStatement implements Statement.
func (s *StatementCreateIndex) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCreateIndex) Description() string {
	description := "CREATE "
	if s.unique {
		description += "UNIQUE "
	}
	description += "INDEX " + ifNotExists(s.ifNotExists) + qualified(s.schema, s.index) +
		" ON " + s.table + "(" + joinDescriptions(s.indexedColumns) + ")"
	if s.where != nil {
		description += " WHERE " + s.where.Description()
	}
	return description
}
