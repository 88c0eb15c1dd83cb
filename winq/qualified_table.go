package winq

// QualifiedTable is the target table of UPDATE and DELETE.
type QualifiedTable struct {
	node
	schema     string
	table      string
	alias      string
	index      string
	notIndexed bool
}

// NewQualifiedTable creates a qualified table name.
func NewQualifiedTable(table string) *QualifiedTable {
	return &QualifiedTable{node: node{kind: KindQualifiedTableName}, table: table}
}

// Of qualifies the table by schema.
func (q *QualifiedTable) Of(schema any) *QualifiedTable {
	q.schema = schemaName(schema)
	return q
}

// As sets the alias of the table.
func (q *QualifiedTable) As(alias string) *QualifiedTable {
	q.alias = alias
	return q
}

// Indexed adds INDEXED BY index.
func (q *QualifiedTable) Indexed(index string) *QualifiedTable {
	q.index, q.notIndexed = index, false
	return q
}

// NotIndexed adds NOT INDEXED.
func (q *QualifiedTable) NotIndexed() *QualifiedTable {
	q.index, q.notIndexed = "", true
	return q
}

// Table returns the table name.
func (q *QualifiedTable) Table() string {
	return q.table
}

// Description implements Identifier.
func (q *QualifiedTable) Description() string {
	description := qualified(q.schema, q.table)
	if q.alias != "" {
		description += " AS " + q.alias
	}
	if q.index != "" {
		description += " INDEXED BY " + q.index
	} else if q.notIndexed {
		description += " NOT INDEXED"
	}
	return description
}

func (q *QualifiedTable) asTableOrSubquery() *TableOrSubquery {
	t := NewTableOrSubquery(q.table).Of(q.schema).As(q.alias)
	t.index, t.notIndexed = q.index, q.notIndexed
	return t
}

func qualifiedTableFrom(v any) *QualifiedTable {
	switch x := v.(type) {
	case *QualifiedTable:
		return x
	case string:
		return NewQualifiedTable(x)
	default:
		return NewQualifiedTable("")
	}
}
