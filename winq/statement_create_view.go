package winq

// StatementCreateView is a CREATE VIEW statement.
type StatementCreateView struct {
	node
	temp        bool
	ifNotExists bool
	schema      string
	view        string
	columns     []*Column
	selectSTMT  *StatementSelect
}

// NewStatementCreateView creates an empty CREATE VIEW statement.
func NewStatementCreateView() *StatementCreateView {
	return &StatementCreateView{node: node{kind: KindCreateViewStatement}}
}

// CreateView sets the view name.
func (s *StatementCreateView) CreateView(view string) *StatementCreateView {
	s.view = view
	return s
}

// CreateTempView sets the view name of a TEMP view.
func (s *StatementCreateView) CreateTempView(view string) *StatementCreateView {
	s.view, s.temp = view, true
	return s
}

// Of qualifies the view by schema.
func (s *StatementCreateView) Of(schema any) *StatementCreateView {
	s.schema = schemaName(schema)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *StatementCreateView) IfNotExists() *StatementCreateView {
	s.ifNotExists = true
	return s
}

// WithColumns appends the view's column names.
func (s *StatementCreateView) WithColumns(columns ...any) *StatementCreateView {
	s.columns = append(s.columns, columnsFrom(columns)...)
	return s
}

// As sets the view's query.
func (s *StatementCreateView) As(selectSTMT *StatementSelect) *StatementCreateView {
	s.selectSTMT = selectSTMT
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementCreateView) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCreateView) Description() string {
	description := "CREATE " + temp(s.temp) + "VIEW " + ifNotExists(s.ifNotExists) + qualified(s.schema, s.view)
	if len(s.columns) > 0 {
		description += "(" + columnNames(s.columns) + ")"
	}
	return description + " AS " + describe(s.selectSTMT)
}
