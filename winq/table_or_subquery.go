package winq

type tableOrSubquerySwitch int

const (
	tableOrSubqueryTable tableOrSubquerySwitch = iota
	tableOrSubqueryFunction
	tableOrSubquerySelect
	tableOrSubqueryJoin
	tableOrSubqueryList
)

// TableOrSubquery is one source of a FROM clause: a table, a table-valued
// function, a subquery, a parenthesized join or a list of sources.
type TableOrSubquery struct {
	node
	switcher   tableOrSubquerySwitch
	schema     string
	table      string
	alias      string
	index      string
	notIndexed bool
	arguments  []*Expression
	selectSTMT *StatementSelect
	join       *Join
	list       []*TableOrSubquery
}

// NewTableOrSubquery creates a table source.
func NewTableOrSubquery(table string) *TableOrSubquery {
	return &TableOrSubquery{node: node{kind: KindTableOrSubquery}, table: table}
}

// TableFunction creates a table-valued function source.
func TableFunction(name string, arguments ...any) *TableOrSubquery {
	t := NewTableOrSubquery(name)
	t.switcher, t.arguments = tableOrSubqueryFunction, expressionsFrom(arguments)
	return t
}

// TableOrSubqueryList creates a parenthesized list of sources.
func TableOrSubqueryList(sources ...any) *TableOrSubquery {
	t := NewTableOrSubquery("")
	t.switcher, t.list = tableOrSubqueryList, tablesOrSubqueriesFrom(sources)
	return t
}

// Of qualifies a table or function source by schema.
func (t *TableOrSubquery) Of(schema any) *TableOrSubquery {
	t.schema = schemaName(schema)
	return t
}

// As sets the alias of the source.
func (t *TableOrSubquery) As(alias string) *TableOrSubquery {
	t.alias = alias
	return t
}

// Indexed adds INDEXED BY index to a table source.
func (t *TableOrSubquery) Indexed(index string) *TableOrSubquery {
	t.index, t.notIndexed = index, false
	return t
}

// NotIndexed adds NOT INDEXED to a table source.
func (t *TableOrSubquery) NotIndexed() *TableOrSubquery {
	t.index, t.notIndexed = "", true
	return t
}

// Description implements Identifier.
func (t *TableOrSubquery) Description() string {
	var description string
	switch t.switcher {
	case tableOrSubqueryTable:
		description = qualified(t.schema, t.table)
	case tableOrSubqueryFunction:
		description = qualified(t.schema, t.table) + "(" + joinDescriptions(t.arguments) + ")"
	case tableOrSubquerySelect:
		description = "(" + t.selectSTMT.Description() + ")"
	case tableOrSubqueryJoin:
		return "(" + t.join.Description() + ")"
	case tableOrSubqueryList:
		return "(" + joinDescriptions(t.list) + ")"
	}
	if t.alias != "" {
		description += " AS " + t.alias
	}
	if t.switcher == tableOrSubqueryTable {
		if t.index != "" {
			description += " INDEXED BY " + t.index
		} else if t.notIndexed {
			description += " NOT INDEXED"
		}
	}
	return description
}

func (t *TableOrSubquery) asTableOrSubquery() *TableOrSubquery {
	return t
}

func tableOrSubqueryFrom(v any) *TableOrSubquery {
	switch x := v.(type) {
	case string:
		return NewTableOrSubquery(x)
	case TableOrSubqueryConvertible:
		return x.asTableOrSubquery()
	default:
		return NewTableOrSubquery("")
	}
}

func tablesOrSubqueriesFrom(values []any) []*TableOrSubquery {
	tables := make([]*TableOrSubquery, 0, len(values))
	for _, v := range values {
		tables = append(tables, tableOrSubqueryFrom(v))
	}
	return tables
}
