package winq

// ColumnType is the declared type of a column, matching the storage classes
// of the engine.
type ColumnType int

const (
	ColumnTypeNull ColumnType = iota
	ColumnTypeInteger
	ColumnTypeFloat
	ColumnTypeText
	ColumnTypeBLOB
)

// String returns the SQL type name. Float columns are declared REAL.
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeInteger:
		return "INTEGER"
	case ColumnTypeFloat:
		return "REAL"
	case ColumnTypeText:
		return "TEXT"
	case ColumnTypeBLOB:
		return "BLOB"
	default:
		return "NULL"
	}
}
