package wcdb

import (
	"context"

	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// QueryOption narrows the rows an ORM operation reads, updates or
// deletes.
type QueryOption func(*queryOptions)

type queryOptions struct {
	where  any
	orders []*winq.OrderingTerm
	limit  any
	offset any
}

func newQueryOptions(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Where filters rows with condition, usually built from fields:
//
//	wcdb.Where(DBMessage.Sender.Eq("alice"))
func Where(condition any) QueryOption {
	return func(o *queryOptions) { o.where = condition }
}

// OrderBy orders rows.
func OrderBy(orders ...*winq.OrderingTerm) QueryOption {
	return func(o *queryOptions) { o.orders = append(o.orders, orders...) }
}

// Limit caps the number of rows.
func Limit(limit any) QueryOption {
	return func(o *queryOptions) { o.limit = limit }
}

// Offset skips rows.
func Offset(offset any) QueryOption {
	return func(o *queryOptions) { o.offset = offset }
}

// InsertObject inserts one record into table.
func InsertObject[T any](ctx context.Context, source Source, object *T, fields []*orm.Field[T], table string) error {
	return NewInsert[T](source).IntoTable(table).OnFields(fields...).Value(object).Execute(ctx)
}

// InsertObjects inserts records into table in one transaction.
func InsertObjects[T any](ctx context.Context, source Source, objects []*T, fields []*orm.Field[T], table string) error {
	return NewInsert[T](source).IntoTable(table).OnFields(fields...).Values(objects...).Execute(ctx)
}

// InsertOrReplaceObjects inserts records, replacing the rows they conflict
// with.
func InsertOrReplaceObjects[T any](ctx context.Context, source Source, objects []*T, fields []*orm.Field[T], table string) error {
	return NewInsert[T](source).OrReplace().IntoTable(table).OnFields(fields...).Values(objects...).Execute(ctx)
}

// InsertOrIgnoreObjects inserts records, skipping the ones that conflict
// with existing rows.
func InsertOrIgnoreObjects[T any](ctx context.Context, source Source, objects []*T, fields []*orm.Field[T], table string) error {
	return NewInsert[T](source).OrIgnore().IntoTable(table).OnFields(fields...).Values(objects...).Execute(ctx)
}

// GetFirstObject returns the first record of table matching opts, or nil.
func GetFirstObject[T any](ctx context.Context, source Source, fields []*orm.Field[T], table string, opts ...QueryOption) (*T, error) {
	o := newQueryOptions(opts)
	if o.limit == nil {
		o.limit = 1
	}
	return applySelect(NewSelect[T](source).OnFields(fields...).FromTable(table), o).FirstObject(ctx)
}

// GetAllObjects returns the records of table matching opts.
func GetAllObjects[T any](ctx context.Context, source Source, fields []*orm.Field[T], table string, opts ...QueryOption) ([]*T, error) {
	o := newQueryOptions(opts)
	return applySelect(NewSelect[T](source).OnFields(fields...).FromTable(table), o).AllObjects(ctx)
}

func applySelect[T any](s *Select[T], o queryOptions) *Select[T] {
	if o.where != nil {
		s.Where(o.where)
	}
	if len(o.orders) > 0 {
		s.OrderBy(o.orders...)
	}
	if o.limit != nil {
		s.Limit(o.limit)
	}
	if o.offset != nil {
		s.Offset(o.offset)
	}
	return s
}

// UpdateObject sets fields of the rows of table matching opts to the
// values of object. It returns the number of updated rows.
func UpdateObject[T any](ctx context.Context, source Source, object *T, fields []*orm.Field[T], table string, opts ...QueryOption) (int64, error) {
	o := newQueryOptions(opts)
	u := NewUpdate[T](source).Table(table).Set(fields...).ToObject(object)
	if o.where != nil {
		u.Where(o.where)
	}
	if len(o.orders) > 0 {
		u.OrderBy(o.orders...)
	}
	if o.limit != nil {
		u.Limit(o.limit)
	}
	if o.offset != nil {
		u.Offset(o.offset)
	}
	err := u.Execute(ctx)
	return u.Changes(), err
}

// DeleteObjects deletes the rows of table matching opts. It returns the
// number of deleted rows.
func DeleteObjects(ctx context.Context, source Source, table string, opts ...QueryOption) (int64, error) {
	o := newQueryOptions(opts)
	d := NewDelete(source).FromTable(table)
	if o.where != nil {
		d.Where(o.where)
	}
	if len(o.orders) > 0 {
		d.OrderBy(o.orders...)
	}
	if o.limit != nil {
		d.Limit(o.limit)
	}
	if o.offset != nil {
		d.Offset(o.offset)
	}
	err := d.Execute(ctx)
	return d.Changes(), err
}

// DeleteObjects deletes the rows of table matching opts.
func (db *Database) DeleteObjects(ctx context.Context, table string, opts ...QueryOption) (int64, error) {
	return DeleteObjects(ctx, db, table, opts...)
}

// InsertRows inserts rows of values into columns of table in one
// transaction.
func (db *Database) InsertRows(ctx context.Context, rows MultiRows, columns []string, table string) error {
	if len(rows) == 0 {
		return nil
	}
	statement := winq.NewStatementInsert().
		InsertInto(table).
		Columns(stringsToAny(columns)...).
		ValuesWithBindParameters(len(columns))
	return db.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
		s, err := h.PrepareMainStatement(ctx, statement)
		if err != nil {
			return false, err
		}
		defer h.FinalizeMainStatement()
		for _, row := range rows {
			s.Reset()
			s.ClearBindings()
			s.BindRow(row)
			if err := s.Step(ctx); err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

// UpdateRow sets columns of the rows of table matching opts to the values
// of row. It returns the number of updated rows.
func (db *Database) UpdateRow(ctx context.Context, row OneRow, columns []string, table string, opts ...QueryOption) (int64, error) {
	o := newQueryOptions(opts)
	statement := winq.NewStatementUpdate().Update(table)
	for index, column := range columns {
		statement.Set(column).To(winq.NewBindParameter(index + 1))
	}
	if o.where != nil {
		statement.Where(o.where)
	}
	if len(o.orders) > 0 {
		statement.OrderBy(o.orders...)
	}
	if o.limit != nil {
		statement.Limit(o.limit)
	}
	if o.offset != nil {
		statement.Offset(o.offset)
	}
	var changes int64
	err := db.withHandle(ctx, true, func(h *Handle) error {
		s, err := h.Prepare(ctx, statement)
		if err != nil {
			return err
		}
		defer s.Finalize()
		s.BindRow(row)
		if err := s.Step(ctx); err != nil {
			return err
		}
		changes = s.Changes()
		return nil
	})
	return changes, err
}

// GetValues returns columns of the rows of table matching opts.
func (db *Database) GetValues(ctx context.Context, columns []string, table string, opts ...QueryOption) (MultiRows, error) {
	o := newQueryOptions(opts)
	statement := winq.NewStatementSelect().Select(stringsToAny(columns)...).From(table)
	if o.where != nil {
		statement.Where(o.where)
	}
	if len(o.orders) > 0 {
		statement.OrderBy(o.orders...)
	}
	if o.limit != nil {
		statement.Limit(o.limit)
	}
	if o.offset != nil {
		statement.Offset(o.offset)
	}
	return db.GetAllRowsFromStatement(ctx, statement)
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
