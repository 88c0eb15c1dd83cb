package orm

import (
	"context"

	"github.com/Tencent/wcdb-sub001/winq"
)

// Executor is the part of a database handle a Binding needs to create and
// reconcile its table.
type Executor interface {
	// Execute runs a statement that returns no rows.
	Execute(ctx context.Context, statement winq.Statement) error
	// TableExists reports whether a table exists in the main schema.
	TableExists(ctx context.Context, table string) (bool, error)
	// TableColumns returns the column names of a table.
	TableColumns(ctx context.Context, table string) ([]string, error)
	// TableSQL returns the CREATE statement stored for a table.
	TableSQL(ctx context.Context, table string) (string, error)
	// RunInTransaction runs fn in a transaction, or in a savepoint when a
	// transaction is already open on the handle.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Notify reports a finding that does not fail the reconciliation.
	Notify(ctx context.Context, notice Notice)
}

// Notice messages.
const (
	NoticeSkipColumn = "Skip column"
	NoticeAddColumn  = "Auto add column"
)

// Notice is a finding of table reconciliation.
type Notice struct {
	Message string
	Table   string
	Column  string
}

// PreparedStatement is the part of a prepared statement a TableBinding
// needs to bind and extract records. Bind indexes are 1-based, column
// indexes of the current row are 0-based.
type PreparedStatement interface {
	BindBool(index int, value bool)
	BindInt8(index int, value int8)
	BindInt16(index int, value int16)
	BindInt32(index int, value int32)
	BindInt64(index int, value int64)
	BindFloat32(index int, value float32)
	BindFloat64(index int, value float64)
	BindText(index int, value string)
	BindBLOB(index int, value []byte)
	BindNull(index int)

	// ColumnType returns the storage class of a column of the current row.
	ColumnType(index int) winq.ColumnType
	GetBool(index int) bool
	GetInt8(index int) int8
	GetInt16(index int) int16
	GetInt32(index int) int32
	GetInt64(index int) int64
	GetFloat32(index int) float32
	GetFloat64(index int) float64
	GetText(index int) string
	GetBLOB(index int) []byte
}

// BindOptional binds *value with bind, or NULL when value is nil.
//
//	orm.BindOptional(statement, index, object.Score, statement.BindFloat64)
func BindOptional[V any](statement PreparedStatement, index int, value *V, bind func(int, V)) {
	if value == nil {
		statement.BindNull(index)
		return
	}
	bind(index, *value)
}

// GetOptional reads a column with get, or returns nil when it is NULL.
//
//	object.Score = orm.GetOptional(statement, index, statement.GetFloat64)
func GetOptional[V any](statement PreparedStatement, index int, get func(int) V) *V {
	if statement.ColumnType(index) == winq.ColumnTypeNull {
		return nil
	}
	value := get(index)
	return &value
}
