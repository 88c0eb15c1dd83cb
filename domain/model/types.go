// Package model holds the tabular value objects exchanged by table export
// and import: a header, string records and inferred column types.
package model

// Header is the column names of a table.
type Header []string

// NewHeader creates a Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compares two headers.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Duplicate returns the first column name that appears twice, or "".
func (h Header) Duplicate() string {
	seen := make(map[string]struct{}, len(h))
	for _, name := range h {
		if _, ok := seen[name]; ok {
			return name
		}
		seen[name] = struct{}{}
	}
	return ""
}

// Record is one row of string cells.
type Record []string

// NewRecord creates a Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compares two records.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// ColumnType is the column type inferred for imported values.
type ColumnType int

const (
	// ColumnTypeText is a TEXT column.
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger is an INTEGER column.
	ColumnTypeInteger
	// ColumnTypeReal is a REAL column.
	ColumnTypeReal
	// ColumnTypeDatetime is a datetime kept as ISO8601 TEXT.
	ColumnTypeDatetime
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the SQL type name of the column.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeInteger:
		return sqlTypeInteger
	case ColumnTypeReal:
		return sqlTypeReal
	default:
		return sqlTypeText
	}
}

// ColumnInfo is a column name with its inferred type.
type ColumnInfo struct {
	Name string
	Type ColumnType
}
