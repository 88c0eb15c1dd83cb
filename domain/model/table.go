package model

import (
	"path/filepath"
	"strings"
)

// Table is a named header with its records and inferred column types.
type Table struct {
	name       string
	header     Header
	records    []Record
	columnInfo []ColumnInfo
}

// NewTable creates a Table and infers its column types from the records.
func NewTable(name string, header Header, records []Record) *Table {
	return &Table{
		name:       name,
		header:     header,
		records:    records,
		columnInfo: InferColumnsInfo(header, records),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Header returns the header.
func (t *Table) Header() Header {
	return t.header
}

// Records returns the records.
func (t *Table) Records() []Record {
	return t.records
}

// ColumnInfo returns the inferred column types.
func (t *Table) ColumnInfo() []ColumnInfo {
	return t.columnInfo
}

// Equal compares name, header and records.
func (t *Table) Equal(t2 *Table) bool {
	if t.name != t2.name || !t.header.Equal(t2.header) || len(t.records) != len(t2.records) {
		return false
	}
	for i, record := range t.records {
		if !record.Equal(t2.records[i]) {
			return false
		}
	}
	return true
}

// TableFromFilePath returns the table name of a file: its base name
// without the compression and format extensions.
func TableFromFilePath(filePath string) string {
	name := filepath.Base(filePath)
	for _, ext := range []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
