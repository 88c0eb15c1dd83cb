package winq

import (
	"strings"
)

// Identifier is implemented by every WINQ node.
type Identifier interface {
	// Kind returns the tag of the node. It never changes after construction.
	Kind() Kind
	// Description returns the SQL serialization of the node.
	Description() string
}

// ExpressionConvertible is implemented by nodes usable where an expression is
// expected: columns, expressions, literal values, bind parameters and select
// statements.
type ExpressionConvertible interface {
	Identifier
	asExpression() *Expression
}

// ResultColumnConvertible is implemented by result columns, columns and
// expressions.
type ResultColumnConvertible interface {
	Identifier
	asResultColumn() *ResultColumn
}

// IndexedColumnConvertible is implemented by indexed columns, columns and
// expressions.
type IndexedColumnConvertible interface {
	Identifier
	asIndexedColumn() *IndexedColumn
}

// TableOrSubqueryConvertible is implemented by table-or-subquery nodes,
// qualified table names, joins and select statements. Plain strings are
// accepted as table names wherever this interface is.
type TableOrSubqueryConvertible interface {
	Identifier
	asTableOrSubquery() *TableOrSubquery
}

// ColumnConvertible is implemented by columns and by every type embedding one.
type ColumnConvertible interface {
	Identifier
	asColumn() *Column
}

// Statement is a complete SQL statement.
type Statement interface {
	Identifier
	// IsWriteStatement reports whether executing the statement may modify
	// the database or its connection state.
	IsWriteStatement() bool
}

type node struct {
	kind Kind
}

// Kind returns the tag of the node.
func (n node) Kind() Kind {
	return n.kind
}

func describe(identifier Identifier) string {
	if identifier == nil {
		return ""
	}
	return identifier.Description()
}

func joinDescriptions[T Identifier](identifiers []T) string {
	parts := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		parts = append(parts, identifier.Description())
	}
	return strings.Join(parts, ", ")
}

// schemaName decomposes a schema parameter, which may be nil, a name or a
// *Schema. Nil and empty names omit the qualifier.
func schemaName(schema any) string {
	switch s := schema.(type) {
	case nil:
		return ""
	case string:
		return s
	case *Schema:
		if s == nil {
			return ""
		}
		return s.name
	default:
		return ""
	}
}

func qualified(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// columnFrom decomposes a column parameter: a name or any ColumnConvertible.
func columnFrom(v any) *Column {
	switch c := v.(type) {
	case string:
		return NewColumn(c)
	case ColumnConvertible:
		return c.asColumn()
	default:
		return nil
	}
}

func columnsFrom(values []any) []*Column {
	columns := make([]*Column, 0, len(values))
	for _, v := range values {
		if column := columnFrom(v); column != nil {
			columns = append(columns, column)
		}
	}
	return columns
}

// columnNames renders columns unqualified, as required by column lists of
// INSERT, UPDATE, indexes and constraints.
func columnNames(columns []*Column) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, column.name)
	}
	return strings.Join(parts, ", ")
}

func expressionsFrom(values []any) []*Expression {
	expressions := make([]*Expression, 0, len(values))
	for _, v := range values {
		expressions = append(expressions, expressionFrom(v))
	}
	return expressions
}
