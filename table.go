package wcdb

import (
	"context"

	"github.com/Tencent/wcdb-sub001/orm"
)

// Table is an accessor to one table of records of type T. Getting one
// does no I/O.
type Table[T any] struct {
	db      *Database
	name    string
	binding orm.TableBinding[T]
}

// GetTable returns the accessor of table in db for binding.
func GetTable[T any](db *Database, name string, binding orm.TableBinding[T]) *Table[T] {
	return &Table[T]{db: db, name: name, binding: binding}
}

// Name returns the name of the table.
func (t *Table[T]) Name() string {
	return t.name
}

// Database returns the database of the table.
func (t *Table[T]) Database() *Database {
	return t.db
}

// Binding returns the binding of the records.
func (t *Table[T]) Binding() orm.TableBinding[T] {
	return t.binding
}

func (t *Table[T]) fieldsOr(fields []*orm.Field[T]) []*orm.Field[T] {
	if len(fields) == 0 {
		return t.binding.AllBindingFields()
	}
	return fields
}

// Create creates the table, or reconciles it with the binding.
func (t *Table[T]) Create(ctx context.Context) error {
	return t.db.CreateTable(ctx, t.name, t.binding)
}

// Drop drops the table.
func (t *Table[T]) Drop(ctx context.Context) error {
	return t.db.DropTable(ctx, t.name)
}

// InsertObject inserts object on fields, or on every field when none is
// given.
func (t *Table[T]) InsertObject(ctx context.Context, object *T, fields ...*orm.Field[T]) error {
	return InsertObject(ctx, t.db, object, t.fieldsOr(fields), t.name)
}

// InsertObjects inserts objects in one transaction.
func (t *Table[T]) InsertObjects(ctx context.Context, objects []*T, fields ...*orm.Field[T]) error {
	return InsertObjects(ctx, t.db, objects, t.fieldsOr(fields), t.name)
}

// InsertOrReplaceObjects inserts objects, replacing conflicting rows.
func (t *Table[T]) InsertOrReplaceObjects(ctx context.Context, objects []*T, fields ...*orm.Field[T]) error {
	return InsertOrReplaceObjects(ctx, t.db, objects, t.fieldsOr(fields), t.name)
}

// InsertOrIgnoreObjects inserts objects, skipping conflicting ones.
func (t *Table[T]) InsertOrIgnoreObjects(ctx context.Context, objects []*T, fields ...*orm.Field[T]) error {
	return InsertOrIgnoreObjects(ctx, t.db, objects, t.fieldsOr(fields), t.name)
}

// GetFirstObject returns the first record matching opts, with every field.
func (t *Table[T]) GetFirstObject(ctx context.Context, opts ...QueryOption) (*T, error) {
	return GetFirstObject(ctx, t.db, t.binding.AllBindingFields(), t.name, opts...)
}

// GetAllObjects returns the records matching opts, with every field.
func (t *Table[T]) GetAllObjects(ctx context.Context, opts ...QueryOption) ([]*T, error) {
	return GetAllObjects(ctx, t.db, t.binding.AllBindingFields(), t.name, opts...)
}

// UpdateObject sets fields of the rows matching opts to the values of
// object.
func (t *Table[T]) UpdateObject(ctx context.Context, object *T, fields []*orm.Field[T], opts ...QueryOption) (int64, error) {
	return UpdateObject(ctx, t.db, object, t.fieldsOr(fields), t.name, opts...)
}

// DeleteObjects deletes the rows matching opts.
func (t *Table[T]) DeleteObjects(ctx context.Context, opts ...QueryOption) (int64, error) {
	return DeleteObjects(ctx, t.db, t.name, opts...)
}

// PrepareInsert starts an insert chain call on the table.
func (t *Table[T]) PrepareInsert() *Insert[T] {
	return NewInsert[T](t.db).IntoTable(t.name).OnFields(t.binding.AllBindingFields()...)
}

// PrepareSelect starts a select chain call on the table.
func (t *Table[T]) PrepareSelect() *Select[T] {
	return NewSelect[T](t.db).FromTable(t.name).OnFields(t.binding.AllBindingFields()...)
}

// PrepareUpdate starts an update chain call on the table.
func (t *Table[T]) PrepareUpdate() *Update[T] {
	return NewUpdate[T](t.db).Table(t.name)
}

// PrepareDelete starts a delete chain call on the table.
func (t *Table[T]) PrepareDelete() *Delete {
	return NewDelete(t.db).FromTable(t.name)
}
