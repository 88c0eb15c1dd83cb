package winq

// IndexedColumn is a column or expression of an index, a primary key or a
// unique constraint.
type IndexedColumn struct {
	node
	column     *Column
	expression *Expression
	collation  string
	order      Order
}

// NewIndexedColumn creates an indexed column from a column name, a column or
// an expression.
func NewIndexedColumn(v any) *IndexedColumn {
	i := &IndexedColumn{node: node{kind: KindIndexedColumn}}
	switch x := v.(type) {
	case *IndexedColumn:
		return x
	case string:
		i.column = NewColumn(x)
	case ColumnConvertible:
		i.column = x.asColumn()
	default:
		i.expression = expressionFrom(v)
	}
	return i
}

// Collate sets the collation of the indexed column.
func (i *IndexedColumn) Collate(collation string) *IndexedColumn {
	i.collation = collation
	return i
}

// Order sets the direction of the indexed column.
func (i *IndexedColumn) Order(order Order) *IndexedColumn {
	i.order = order
	return i
}

// Column returns the indexed column, or nil for an indexed expression.
func (i *IndexedColumn) Column() *Column {
	return i.column
}

// Description implements Identifier.
func (i *IndexedColumn) Description() string {
	var description string
	if i.column != nil {
		description = i.column.name
	} else {
		description = i.expression.Description()
	}
	if i.collation != "" {
		description += " COLLATE " + i.collation
	}
	return description + i.order.suffix()
}

func (i *IndexedColumn) asIndexedColumn() *IndexedColumn {
	return i
}

func indexedColumnsFrom(values []any) []*IndexedColumn {
	columns := make([]*IndexedColumn, 0, len(values))
	for _, v := range values {
		if convertible, ok := v.(IndexedColumnConvertible); ok {
			columns = append(columns, convertible.asIndexedColumn())
			continue
		}
		columns = append(columns, NewIndexedColumn(v))
	}
	return columns
}
