package wcdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Tencent/wcdb-sub001/driver"
	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// HandleState is the lifecycle state of a Handle.
type HandleState int

// Handle states
const (
	HandleDetached HandleState = iota
	HandleAttached
	HandleInvalidated
)

// String implements fmt.Stringer.
func (s HandleState) String() string {
	switch s {
	case HandleDetached:
		return "Detached"
	case HandleAttached:
		return "Attached"
	case HandleInvalidated:
		return "Invalidated"
	default:
		return fmt.Sprintf("HandleState(%d)", int(s))
	}
}

// Handle pins one engine connection of a Database. It attaches on first
// use and keeps the connection until Invalidate; using it again afterwards
// attaches a fresh connection. A Handle must not be shared across
// goroutines.
type Handle struct {
	db         *Database
	write      bool
	state      HandleState
	conn       *sql.Conn
	id         int64
	main       *PreparedStatement
	statements map[*PreparedStatement]struct{}
	txDepth    int
}

var _ orm.Executor = (*Handle)(nil)

// Database returns the database the handle belongs to.
func (h *Handle) Database() *Database {
	return h.db
}

// ID returns the number of the pinned engine connection, or 0 when the
// handle is not attached.
func (h *Handle) ID() int64 {
	return h.id
}

// IsWrite reports whether the handle was acquired with the write hint.
func (h *Handle) IsWrite() bool {
	return h.write
}

// State returns the lifecycle state.
func (h *Handle) State() HandleState {
	return h.state
}

// IsInTransaction reports whether a transaction is open on the handle.
func (h *Handle) IsInTransaction() bool {
	return h.txDepth > 0
}

func (h *Handle) connection(ctx context.Context) (*sql.Conn, error) {
	if err := h.attach(ctx); err != nil {
		return nil, err
	}
	return h.conn, nil
}

func (h *Handle) attach(ctx context.Context) error {
	if h.state == HandleAttached {
		return nil
	}
	if err := h.db.gate.enter(ctx); err != nil {
		return err
	}
	conn, err := h.db.conn(ctx, h.write)
	if err != nil {
		h.db.gate.leave()
		return err
	}
	if err := conn.Raw(func(driverConn any) error {
		c, err := driver.FromRaw(driverConn)
		if err != nil {
			return err
		}
		h.id = c.ID()
		return nil
	}); err != nil {
		_ = conn.Close()
		h.db.gate.leave()
		return err
	}
	h.conn = conn
	h.state = HandleAttached
	if h.statements == nil {
		h.statements = make(map[*PreparedStatement]struct{})
	}
	if err := h.db.applyConfigs(ctx, h); err != nil {
		h.Invalidate()
		return err
	}
	return nil
}

// Invalidate finalizes every statement of the handle and returns its
// connection to the pool. An open transaction is rolled back first.
func (h *Handle) Invalidate() {
	if h.state != HandleAttached {
		return
	}
	if h.txDepth > 0 {
		_, _ = h.conn.ExecContext(context.Background(), "ROLLBACK")
		h.txDepth = 0
	}
	if h.main != nil {
		if h.main.state != StatementFinalized {
			_ = h.main.Finalize()
		}
		h.main = nil
	}
	for statement := range h.statements {
		_ = statement.Finalize()
	}
	_ = h.conn.Close()
	h.conn = nil
	h.id = 0
	h.state = HandleInvalidated
	h.db.gate.leave()
}

func (h *Handle) forget(statement *PreparedStatement) {
	delete(h.statements, statement)
	if h.main == statement {
		h.main = nil
	}
}

// Prepare compiles statement into a new PreparedStatement owned by the
// handle. It is finalized by Invalidate at the latest.
func (h *Handle) Prepare(ctx context.Context, statement winq.Statement) (*PreparedStatement, error) {
	s := newPreparedStatement(h)
	if err := s.Prepare(ctx, statement); err != nil {
		return nil, err
	}
	h.statements[s] = struct{}{}
	return s, nil
}

// PrepareSQL compiles a textual statement into a new PreparedStatement.
func (h *Handle) PrepareSQL(ctx context.Context, query string) (*PreparedStatement, error) {
	s := newPreparedStatement(h)
	if err := s.PrepareSQL(ctx, query); err != nil {
		return nil, err
	}
	h.statements[s] = struct{}{}
	return s, nil
}

// PrepareMainStatement compiles statement into the main statement slot of
// the handle, reusing the slot when it is already taken.
func (h *Handle) PrepareMainStatement(ctx context.Context, statement winq.Statement) (*PreparedStatement, error) {
	if h.main == nil {
		h.main = newPreparedStatement(h)
	}
	if err := h.main.Prepare(ctx, statement); err != nil {
		return nil, err
	}
	h.statements[h.main] = struct{}{}
	return h.main, nil
}

// MainStatement returns the main statement, or nil.
func (h *Handle) MainStatement() *PreparedStatement {
	return h.main
}

// FinalizeMainStatement finalizes the main statement if there is one.
func (h *Handle) FinalizeMainStatement() {
	if h.main != nil && h.main.state != StatementFinalized {
		_ = h.main.Finalize()
	}
	h.main = nil
}

// Execute runs statement to completion.
func (h *Handle) Execute(ctx context.Context, statement winq.Statement) error {
	s, err := h.Prepare(ctx, statement)
	if err != nil {
		return err
	}
	defer s.Finalize()
	return stepToEnd(ctx, s)
}

// ExecuteSQL runs a textual statement to completion.
func (h *Handle) ExecuteSQL(ctx context.Context, query string) error {
	s, err := h.PrepareSQL(ctx, query)
	if err != nil {
		return err
	}
	defer s.Finalize()
	return stepToEnd(ctx, s)
}

func stepToEnd(ctx context.Context, s *PreparedStatement) error {
	for !s.IsDone() {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Changes returns the number of rows changed by the last write statement
// on the handle.
func (h *Handle) Changes(ctx context.Context) (int64, error) {
	value, err := h.GetValueFromSQL(ctx, "SELECT changes()")
	return value.Int(), err
}

// LastInsertedRowID returns the rowid of the last row inserted on the
// handle.
func (h *Handle) LastInsertedRowID(ctx context.Context) (int64, error) {
	value, err := h.GetValueFromSQL(ctx, "SELECT last_insert_rowid()")
	return value.Int(), err
}

// TableExists implements orm.Executor.
func (h *Handle) TableExists(ctx context.Context, table string) (bool, error) {
	s, err := h.PrepareSQL(ctx, "SELECT count(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?1")
	if err != nil {
		return false, err
	}
	defer s.Finalize()
	s.BindText(1, table)
	if err := s.Step(ctx); err != nil {
		return false, err
	}
	return s.GetInt64(0) > 0, nil
}

// TableColumns implements orm.Executor.
func (h *Handle) TableColumns(ctx context.Context, table string) ([]string, error) {
	s, err := h.PrepareSQL(ctx, "SELECT name FROM pragma_table_info(?1)")
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	s.BindText(1, table)
	column, err := s.GetOneColumn(ctx, 0)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(column))
	for _, value := range column {
		names = append(names, value.Text())
	}
	return names, nil
}

// TableSQL implements orm.Executor.
func (h *Handle) TableSQL(ctx context.Context, table string) (string, error) {
	s, err := h.PrepareSQL(ctx, "SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?1")
	if err != nil {
		return "", err
	}
	defer s.Finalize()
	s.BindText(1, table)
	if err := s.Step(ctx); err != nil {
		return "", err
	}
	return s.GetText(0), nil
}

// TableNames returns the user tables of the main schema.
func (h *Handle) TableNames(ctx context.Context) ([]string, error) {
	column, err := h.GetOneColumnFromSQL(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\\_%' ESCAPE '\\' AND name NOT LIKE 'wcdb\\_%' ESCAPE '\\' ORDER BY name")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(column))
	for _, value := range column {
		names = append(names, value.Text())
	}
	return names, nil
}

// RunInTransaction implements orm.Executor.
func (h *Handle) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return h.RunTransaction(ctx, func(ctx context.Context, _ *Handle) (bool, error) {
		if err := fn(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Notify implements orm.Executor.
func (h *Handle) Notify(ctx context.Context, notice orm.Notice) {
	switch notice.Message {
	case orm.NoticeSkipColumn:
		e := newError(KindUnknown, "%s %s of table %s", notice.Message, notice.Column, notice.Table)
		e.Level = LevelNotice
		_ = h.db.report(ctx, e)
	default:
		h.db.Logger().InfoContext(ctx, notice.Message,
			slog.String("path", h.db.path),
			slog.String("table", notice.Table),
			slog.String("column", notice.Column))
	}
}

// GetValueFromStatement returns the first column of the first row.
func (h *Handle) GetValueFromStatement(ctx context.Context, statement winq.Statement) (Value, error) {
	row, err := h.GetOneRowFromStatement(ctx, statement)
	if err != nil || len(row) == 0 {
		return NullValue(), err
	}
	return row[0], nil
}

// GetOneRowFromStatement returns the first row, or nil when there is none.
func (h *Handle) GetOneRowFromStatement(ctx context.Context, statement winq.Statement) (OneRow, error) {
	s, err := h.Prepare(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return firstRow(ctx, s)
}

// GetOneColumnFromStatement returns the first column of every row.
func (h *Handle) GetOneColumnFromStatement(ctx context.Context, statement winq.Statement) (OneColumn, error) {
	s, err := h.Prepare(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return s.GetOneColumn(ctx, 0)
}

// GetAllRowsFromStatement returns every row.
func (h *Handle) GetAllRowsFromStatement(ctx context.Context, statement winq.Statement) (MultiRows, error) {
	s, err := h.Prepare(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return s.GetAllRows(ctx)
}

// GetValueFromSQL returns the first column of the first row of a textual
// query.
func (h *Handle) GetValueFromSQL(ctx context.Context, query string) (Value, error) {
	row, err := h.GetOneRowFromSQL(ctx, query)
	if err != nil || len(row) == 0 {
		return NullValue(), err
	}
	return row[0], nil
}

// GetOneRowFromSQL returns the first row of a textual query.
func (h *Handle) GetOneRowFromSQL(ctx context.Context, query string) (OneRow, error) {
	s, err := h.PrepareSQL(ctx, query)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return firstRow(ctx, s)
}

// GetOneColumnFromSQL returns the first column of every row of a textual
// query.
func (h *Handle) GetOneColumnFromSQL(ctx context.Context, query string) (OneColumn, error) {
	s, err := h.PrepareSQL(ctx, query)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return s.GetOneColumn(ctx, 0)
}

// GetAllRowsFromSQL returns every row of a textual query.
func (h *Handle) GetAllRowsFromSQL(ctx context.Context, query string) (MultiRows, error) {
	s, err := h.PrepareSQL(ctx, query)
	if err != nil {
		return nil, err
	}
	defer s.Finalize()
	return s.GetAllRows(ctx)
}

func firstRow(ctx context.Context, s *PreparedStatement) (OneRow, error) {
	if err := s.Step(ctx); err != nil {
		return nil, err
	}
	if s.IsDone() {
		return nil, nil
	}
	return s.GetOneRow(), nil
}

// acquire implements Source. The handle is used as is and never
// invalidated by the caller.
func (h *Handle) acquire(ctx context.Context, _ bool) (*Handle, func(), error) {
	if err := h.attach(ctx); err != nil {
		return nil, nil, err
	}
	return h, func() {}, nil
}
