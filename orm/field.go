package orm

import (
	"github.com/Tencent/wcdb-sub001/winq"
)

// TableBinding binds records of type T. Implementations are generated by
// cmd/wcdbgen or built by Reflect.
type TableBinding[T any] interface {
	// AllBindingFields returns every field in declaration order.
	AllBindingFields() []*Field[T]
	// BaseBinding returns the schema of T.
	BaseBinding() *Binding
	// ExtractObject builds a record from the current row. Column i of the
	// row holds fields[i].
	ExtractObject(fields []*Field[T], statement PreparedStatement) *T
	// BindField binds the value of field of object at the 1-based index.
	BindField(object *T, field *Field[T], index int, statement PreparedStatement)
	// IsAutoIncrement reports whether inserting object lets the engine
	// assign its auto-increment primary key.
	IsAutoIncrement(object *T) bool
	// SetLastInsertRowID stores the rowid assigned by the engine into the
	// auto-increment primary key of object.
	SetLastInsertRowID(object *T, rowid int64)
}

// Field is a column of the table of T. It embeds the column, so a field is
// usable wherever a column or an expression is expected:
//
//	db.Message.SentAt.Gt(since)
type Field[T any] struct {
	*winq.Column
	id            int
	primary       bool
	autoIncrement bool
	binding       TableBinding[T]
}

// NewField creates a field. id is the 1-based position of the field in
// the field list of binding.
func NewField[T any](binding TableBinding[T], name string, id int, primary, autoIncrement bool) *Field[T] {
	return &Field[T]{
		Column:        winq.NewColumn(name),
		id:            id,
		primary:       primary,
		autoIncrement: autoIncrement,
		binding:       binding,
	}
}

// ID returns the 1-based position of the field.
func (f *Field[T]) ID() int {
	return f.id
}

// IsPrimaryKey reports whether the field is the primary key.
func (f *Field[T]) IsPrimaryKey() bool {
	return f.primary
}

// IsAutoIncrement reports whether the field is an auto-increment primary
// key.
func (f *Field[T]) IsAutoIncrement() bool {
	return f.autoIncrement
}

// TableBinding returns the binding owning the field.
func (f *Field[T]) TableBinding() TableBinding[T] {
	return f.binding
}

// ColumnsOf returns the columns of fields as arguments of winq
// configurators taking columns.
func ColumnsOf[T any](fields []*Field[T]) []any {
	columns := make([]any, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, field.Column)
	}
	return columns
}

// BindObject binds the fields of object at consecutive indexes starting at
// startIndex.
func BindObject[T any](statement PreparedStatement, object *T, fields []*Field[T], startIndex int) {
	for i, field := range fields {
		field.binding.BindField(object, field, startIndex+i, statement)
	}
}

// ExtractObject builds a record from the current row of statement.
func ExtractObject[T any](statement PreparedStatement, fields []*Field[T]) *T {
	if len(fields) == 0 {
		return nil
	}
	return fields[0].binding.ExtractObject(fields, statement)
}

// AutoIncrementField returns the auto-increment primary key among fields,
// or nil.
func AutoIncrementField[T any](fields []*Field[T]) *Field[T] {
	for _, field := range fields {
		if field.autoIncrement {
			return field
		}
	}
	return nil
}
