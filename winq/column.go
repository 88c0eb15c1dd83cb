package winq

// Column names a table column, optionally qualified by a table and a schema.
//
// Qualifying methods return a new column so that columns shared by bindings
// are never mutated.
type Column struct {
	node
	expressionOperable
	name   string
	table  string
	schema string
}

// NewColumn creates a column fragment.
func NewColumn(name string) *Column {
	c := &Column{node: node{kind: KindColumn}, name: name}
	c.expressionOperable = expressionOperable{operand: c}
	return c
}

// ColumnAll creates the wildcard column *.
func ColumnAll() *Column {
	return NewColumn("*")
}

// ColumnRowID creates the rowid column.
func ColumnRowID() *Column {
	return NewColumn("rowid")
}

// Columns creates one column per name.
func Columns(names ...string) []*Column {
	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, NewColumn(name))
	}
	return columns
}

// Name returns the unqualified column name.
func (c *Column) Name() string {
	return c.name
}

// Table returns a copy of the column qualified by table.
func (c *Column) Table(table string) *Column {
	copied := NewColumn(c.name)
	copied.table, copied.schema = table, c.schema
	return copied
}

// Of returns a copy of the column qualified by schema, which may be a
// name or a *Schema.
func (c *Column) Of(schema any) *Column {
	copied := NewColumn(c.name)
	copied.table, copied.schema = c.table, schemaName(schema)
	return copied
}

// AsDef creates a column definition with the given type.
func (c *Column) AsDef(columnType ColumnType) *ColumnDef {
	return NewColumnDef(c, columnType)
}

// AsDefWithoutType creates a column definition without a type.
func (c *Column) AsDefWithoutType() *ColumnDef {
	return NewColumnDefWithoutType(c)
}

// Description implements Identifier.
func (c *Column) Description() string {
	if c.table == "" {
		return c.name
	}
	return qualified(c.schema, c.table) + "." + c.name
}

func (c *Column) asColumn() *Column {
	return c
}

func (c *Column) asExpression() *Expression {
	e := newExpression(exprColumn)
	e.column = c
	return e
}

func (c *Column) asResultColumn() *ResultColumn {
	return NewResultColumn(c)
}

func (c *Column) asIndexedColumn() *IndexedColumn {
	return NewIndexedColumn(c)
}
