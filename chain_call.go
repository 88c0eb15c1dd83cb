package wcdb

import (
	"context"

	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// chainCall is the part shared by the chain call builders: the source of
// the handle, the handle of the last run and its changes.
type chainCall struct {
	source         Source
	handle         *Handle
	changes        int64
	autoInvalidate bool
	executed       bool
}

func newChainCall(source Source) chainCall {
	return chainCall{source: source, autoInvalidate: true}
}

// run acquires a handle and runs fn with it. The main statement is
// finalized, and a handle acquired from a database invalidated, when fn
// fails or when the chain call invalidates automatically.
func (c *chainCall) run(ctx context.Context, write bool, fn func(h *Handle) error) error {
	h, release, err := c.source.acquire(ctx, write)
	if err != nil {
		return err
	}
	c.handle = h
	err = fn(h)
	if err != nil || c.autoInvalidate {
		h.FinalizeMainStatement()
		release()
	}
	return err
}

// Handle returns the handle of the last run, or nil before the first one.
// With automatic invalidation turned off the caller must invalidate it.
func (c *chainCall) Handle() *Handle {
	return c.handle
}

// Changes returns the number of rows changed by the last run.
func (c *chainCall) Changes() int64 {
	return c.changes
}

func missingTable(kind string) error {
	return newError(KindMisuse, "%s without a table", kind)
}

// Insert inserts records of type T.
type Insert[T any] struct {
	chainCall
	statement *winq.StatementInsert
	table     string
	conflict  winq.ConflictAction
	fields    []*orm.Field[T]
	values    []*T
}

// NewInsert starts an insert chain call on source.
func NewInsert[T any](source Source) *Insert[T] {
	return &Insert[T]{chainCall: newChainCall(source)}
}

// AutoInvalidateHandle sets whether the handle is invalidated after
// Execute. It is on by default.
func (i *Insert[T]) AutoInvalidateHandle(on bool) *Insert[T] {
	if !i.executed {
		i.autoInvalidate = on
	}
	return i
}

// IntoTable sets the target table.
func (i *Insert[T]) IntoTable(table string) *Insert[T] {
	if !i.executed {
		i.table = table
	}
	return i
}

// OrReplace replaces conflicting rows.
func (i *Insert[T]) OrReplace() *Insert[T] {
	if !i.executed {
		i.conflict = winq.ConflictReplace
	}
	return i
}

// OrIgnore skips conflicting rows.
func (i *Insert[T]) OrIgnore() *Insert[T] {
	if !i.executed {
		i.conflict = winq.ConflictIgnore
	}
	return i
}

// OnFields sets the inserted fields.
func (i *Insert[T]) OnFields(fields ...*orm.Field[T]) *Insert[T] {
	if !i.executed {
		i.fields = fields
	}
	return i
}

// Value sets one record to insert.
func (i *Insert[T]) Value(object *T) *Insert[T] {
	return i.Values(object)
}

// Values sets the records to insert.
func (i *Insert[T]) Values(objects ...*T) *Insert[T] {
	if !i.executed {
		i.values = objects
	}
	return i
}

// Statement returns the statement of the chain call.
func (i *Insert[T]) Statement() *winq.StatementInsert {
	if i.statement == nil {
		i.statement = winq.NewStatementInsert().
			InsertInto(i.table).
			Conflict(i.conflict).
			Columns(orm.ColumnsOf(i.fields)...).
			ValuesWithBindParameters(len(i.fields))
	}
	return i.statement
}

// Execute inserts the records. More than one record is inserted in a
// transaction. The auto-increment key of a record that asks for one is
// set to the rowid assigned by the engine. Execute after a successful run
// does nothing.
func (i *Insert[T]) Execute(ctx context.Context) error {
	if i.executed {
		return nil
	}
	if i.table == "" {
		return missingTable("insert")
	}
	if len(i.fields) == 0 {
		return newError(KindMisuse, "insert into %s without fields", i.table)
	}
	err := i.run(ctx, true, func(h *Handle) error {
		i.changes = 0
		if len(i.values) > 1 {
			return h.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
				return true, i.insertValues(ctx, h)
			})
		}
		return i.insertValues(ctx, h)
	})
	if err == nil {
		i.executed = true
	}
	return err
}

func (i *Insert[T]) insertValues(ctx context.Context, h *Handle) error {
	s, err := h.PrepareMainStatement(ctx, i.Statement())
	if err != nil {
		return err
	}
	binding := i.fields[0].TableBinding()
	for _, object := range i.values {
		s.Reset()
		autoIncrement := i.conflict != winq.ConflictReplace && binding.IsAutoIncrement(object)
		for index, field := range i.fields {
			if autoIncrement && field.IsAutoIncrement() {
				s.BindNull(index + 1)
				continue
			}
			binding.BindField(object, field, index+1, s)
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
		i.changes += s.Changes()
		if autoIncrement && s.Changes() > 0 {
			rowid, err := h.LastInsertedRowID(ctx)
			if err != nil {
				return err
			}
			binding.SetLastInsertRowID(object, rowid)
		}
	}
	return nil
}

// Delete deletes rows of a table.
type Delete struct {
	chainCall
	statement *winq.StatementDelete
}

// NewDelete starts a delete chain call on source.
func NewDelete(source Source) *Delete {
	return &Delete{chainCall: newChainCall(source), statement: winq.NewStatementDelete()}
}

// AutoInvalidateHandle sets whether the handle is invalidated after
// Execute.
func (d *Delete) AutoInvalidateHandle(on bool) *Delete {
	if !d.executed {
		d.autoInvalidate = on
	}
	return d
}

// FromTable sets the table.
func (d *Delete) FromTable(table string) *Delete {
	if !d.executed {
		d.statement.DeleteFrom(table)
	}
	return d
}

// Where sets the condition.
func (d *Delete) Where(condition any) *Delete {
	if !d.executed {
		d.statement.Where(condition)
	}
	return d
}

// OrderBy sets the order the rows are deleted in.
func (d *Delete) OrderBy(orders ...*winq.OrderingTerm) *Delete {
	if !d.executed {
		d.statement.OrderBy(orders...)
	}
	return d
}

// Limit caps the number of deleted rows.
func (d *Delete) Limit(limit any) *Delete {
	if !d.executed {
		d.statement.Limit(limit)
	}
	return d
}

// Offset skips rows before deleting.
func (d *Delete) Offset(offset any) *Delete {
	if !d.executed {
		d.statement.Offset(offset)
	}
	return d
}

// Statement returns the statement of the chain call.
func (d *Delete) Statement() *winq.StatementDelete {
	return d.statement
}

// Execute deletes the rows.
func (d *Delete) Execute(ctx context.Context) error {
	if d.executed {
		return nil
	}
	err := d.run(ctx, true, func(h *Handle) error {
		s, err := h.PrepareMainStatement(ctx, d.statement)
		if err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
		d.changes = s.Changes()
		return nil
	})
	if err == nil {
		d.executed = true
	}
	return err
}

// Update updates rows of a table from a record of type T or from a row of
// values.
type Update[T any] struct {
	chainCall
	statement *winq.StatementUpdate
	fields    []*orm.Field[T]
	object    *T
	row       OneRow
}

// NewUpdate starts an update chain call on source.
func NewUpdate[T any](source Source) *Update[T] {
	return &Update[T]{chainCall: newChainCall(source), statement: winq.NewStatementUpdate()}
}

// AutoInvalidateHandle sets whether the handle is invalidated after
// Execute.
func (u *Update[T]) AutoInvalidateHandle(on bool) *Update[T] {
	if !u.executed {
		u.autoInvalidate = on
	}
	return u
}

// Table sets the table.
func (u *Update[T]) Table(table string) *Update[T] {
	if !u.executed {
		u.statement.Update(table)
	}
	return u
}

// Set sets the updated fields.
func (u *Update[T]) Set(fields ...*orm.Field[T]) *Update[T] {
	if u.executed {
		return u
	}
	u.fields = fields
	for index, field := range fields {
		u.statement.Set(field.Column).To(winq.NewBindParameter(index + 1))
	}
	return u
}

// ToObject takes the new values of the fields from object.
func (u *Update[T]) ToObject(object *T) *Update[T] {
	if !u.executed {
		u.object, u.row = object, nil
	}
	return u
}

// ToRow takes the new values of the fields from row, in field order.
func (u *Update[T]) ToRow(row OneRow) *Update[T] {
	if !u.executed {
		u.row, u.object = row, nil
	}
	return u
}

// Where sets the condition.
func (u *Update[T]) Where(condition any) *Update[T] {
	if !u.executed {
		u.statement.Where(condition)
	}
	return u
}

// OrderBy sets the order the rows are updated in.
func (u *Update[T]) OrderBy(orders ...*winq.OrderingTerm) *Update[T] {
	if !u.executed {
		u.statement.OrderBy(orders...)
	}
	return u
}

// Limit caps the number of updated rows.
func (u *Update[T]) Limit(limit any) *Update[T] {
	if !u.executed {
		u.statement.Limit(limit)
	}
	return u
}

// Offset skips rows before updating.
func (u *Update[T]) Offset(offset any) *Update[T] {
	if !u.executed {
		u.statement.Offset(offset)
	}
	return u
}

// Statement returns the statement of the chain call.
func (u *Update[T]) Statement() *winq.StatementUpdate {
	return u.statement
}

// Execute updates the rows.
func (u *Update[T]) Execute(ctx context.Context) error {
	if u.executed {
		return nil
	}
	if len(u.fields) == 0 {
		return newError(KindMisuse, "update without fields")
	}
	if u.object == nil && u.row == nil {
		return newError(KindMisuse, "update without values")
	}
	err := u.run(ctx, true, func(h *Handle) error {
		s, err := h.PrepareMainStatement(ctx, u.statement)
		if err != nil {
			return err
		}
		if u.object != nil {
			BindObject(s, u.object, u.fields, 1)
		} else {
			s.BindRow(u.row)
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
		u.changes = s.Changes()
		return nil
	})
	if err == nil {
		u.executed = true
	}
	return err
}

// Select reads records of type T.
type Select[T any] struct {
	chainCall
	statement *winq.StatementSelect
	fields    []*orm.Field[T]
}

// NewSelect starts a select chain call on source.
func NewSelect[T any](source Source) *Select[T] {
	return &Select[T]{chainCall: newChainCall(source), statement: winq.NewStatementSelect()}
}

// AutoInvalidateHandle sets whether the handle is invalidated after a
// read.
func (s *Select[T]) AutoInvalidateHandle(on bool) *Select[T] {
	s.autoInvalidate = on
	return s
}

// OnFields sets the selected fields.
func (s *Select[T]) OnFields(fields ...*orm.Field[T]) *Select[T] {
	s.fields = fields
	s.statement.Select(orm.ColumnsOf(fields)...)
	return s
}

// FromTable sets the table.
func (s *Select[T]) FromTable(table string) *Select[T] {
	s.statement.From(table)
	return s
}

// Where sets the condition.
func (s *Select[T]) Where(condition any) *Select[T] {
	s.statement.Where(condition)
	return s
}

// OrderBy sets the order of the records.
func (s *Select[T]) OrderBy(orders ...*winq.OrderingTerm) *Select[T] {
	s.statement.OrderBy(orders...)
	return s
}

// Limit caps the number of records.
func (s *Select[T]) Limit(limit any) *Select[T] {
	s.statement.Limit(limit)
	return s
}

// Offset skips records.
func (s *Select[T]) Offset(offset any) *Select[T] {
	s.statement.Offset(offset)
	return s
}

// Statement returns the statement of the chain call.
func (s *Select[T]) Statement() *winq.StatementSelect {
	return s.statement
}

// FirstObject returns the first record, or nil when there is none.
func (s *Select[T]) FirstObject(ctx context.Context) (*T, error) {
	var object *T
	err := s.read(ctx, func(ps *PreparedStatement) error {
		if err := ps.Step(ctx); err != nil {
			return err
		}
		if !ps.IsDone() {
			object = ExtractObject(ps, s.fields)
		}
		return nil
	})
	return object, err
}

// AllObjects returns every record.
func (s *Select[T]) AllObjects(ctx context.Context) ([]*T, error) {
	var objects []*T
	err := s.read(ctx, func(ps *PreparedStatement) (err error) {
		objects, err = GetAllObjectsFromStatement(ctx, ps, s.fields)
		return err
	})
	return objects, err
}

func (s *Select[T]) read(ctx context.Context, fn func(ps *PreparedStatement) error) error {
	if len(s.fields) == 0 {
		return newError(KindMisuse, "select without fields")
	}
	return s.run(ctx, false, func(h *Handle) error {
		ps, err := h.PrepareMainStatement(ctx, s.statement)
		if err != nil {
			return err
		}
		return fn(ps)
	})
}
