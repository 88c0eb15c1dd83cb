package wcdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// StatementState is the lifecycle state of a PreparedStatement.
type StatementState int

// Statement states
const (
	StatementFresh StatementState = iota
	StatementPrepared
	StatementStepping
	StatementDone
	StatementFinalized
)

// PreparedStatement is a compiled statement pinned to the connection of
// its Handle. Bind indexes are 1-based and column indexes of the current
// row are 0-based. A PreparedStatement must not be shared across
// goroutines.
type PreparedStatement struct {
	handle       *Handle
	sql          string
	kind         string
	readOnly     bool
	stmt         *sql.Stmt
	args         []any
	names        []string
	rows         *sql.Rows
	columns      []string
	row          OneRow
	state        StatementState
	autoFinalize bool

	started  time.Time
	scanned  int64
	affected int64
}

var _ orm.PreparedStatement = (*PreparedStatement)(nil)

func newPreparedStatement(h *Handle) *PreparedStatement {
	return &PreparedStatement{handle: h}
}

// Prepare compiles statement. A statement that is not finalized may be
// prepared again; it then runs the new statement.
func (s *PreparedStatement) Prepare(ctx context.Context, statement winq.Statement) error {
	return s.prepare(ctx, statement.Description(), statement.Kind().String(), !statement.IsWriteStatement())
}

// PrepareSQL compiles a textual statement.
func (s *PreparedStatement) PrepareSQL(ctx context.Context, query string) error {
	return s.prepare(ctx, query, "SQL", isReadOnlySQL(query))
}

func (s *PreparedStatement) prepare(ctx context.Context, query, kind string, readOnly bool) error {
	if s.state == StatementFinalized {
		return s.misuse(ctx, "prepare a finalized statement")
	}
	s.release()
	conn, err := s.handle.connection(ctx)
	if err != nil {
		return err
	}
	text := scanSQL(query)
	if text.single {
		if err := compileSQL(ctx, conn, query); err != nil {
			return s.handle.db.report(ctx, newEngineError(err, stagePrepare, query))
		}
	}
	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return s.handle.db.report(ctx, newEngineError(err, stagePrepare, query))
	}
	s.stmt, s.sql, s.kind, s.readOnly = stmt, query, kind, readOnly
	s.names = text.names
	s.args = s.args[:0]
	s.state = StatementPrepared
	return nil
}

// SQL returns the text of the prepared statement.
func (s *PreparedStatement) SQL() string {
	return s.sql
}

// State returns the lifecycle state.
func (s *PreparedStatement) State() StatementState {
	return s.state
}

// IsReadOnly reports whether the statement returns rows instead of
// changing the database.
func (s *PreparedStatement) IsReadOnly() bool {
	return s.readOnly
}

// IsDone reports whether the last Step reached the end of the statement.
func (s *PreparedStatement) IsDone() bool {
	return s.state == StatementDone
}

// Changes returns the number of rows changed by the last run of a write
// statement.
func (s *PreparedStatement) Changes() int64 {
	return s.affected
}

// SetAutoFinalize makes a failing Step finalize the statement before the
// error is returned.
func (s *PreparedStatement) SetAutoFinalize(on bool) {
	s.autoFinalize = on
}

// Step runs the statement to the next row. A write statement runs to
// completion on its first Step. Step on a finished statement does nothing;
// Reset it to run it again.
func (s *PreparedStatement) Step(ctx context.Context) error {
	switch s.state {
	case StatementFresh, StatementFinalized:
		return s.misuse(ctx, "step a statement that is not prepared")
	case StatementDone:
		return nil
	}
	if s.state == StatementPrepared {
		s.started = time.Now()
		s.scanned, s.affected = 0, 0
		if !s.readOnly {
			return s.exec(ctx)
		}
		rows, err := s.stmt.QueryContext(ctx, s.arguments()...)
		if err != nil {
			return s.fail(ctx, err, stageStep)
		}
		columns, err := rows.Columns()
		if err != nil {
			rows.Close()
			return s.fail(ctx, err, stageStep)
		}
		s.rows, s.columns = rows, columns
		s.state = StatementStepping
	}
	if !s.rows.Next() {
		err := s.rows.Err()
		s.closeRows()
		if err != nil {
			return s.fail(ctx, err, stageStep)
		}
		s.state = StatementDone
		s.trace(0)
		return nil
	}
	cells := make([]any, len(s.columns))
	targets := make([]any, len(cells))
	for i := range cells {
		targets[i] = &cells[i]
	}
	if err := s.rows.Scan(targets...); err != nil {
		s.closeRows()
		return s.fail(ctx, err, stageStep)
	}
	s.row = s.row[:0]
	for _, cell := range cells {
		s.row = append(s.row, valueFromDriver(cell))
	}
	s.scanned++
	return nil
}

func (s *PreparedStatement) exec(ctx context.Context) error {
	result, err := s.stmt.ExecContext(ctx, s.arguments()...)
	if err != nil {
		return s.fail(ctx, err, stageStep)
	}
	affected, _ := result.RowsAffected()
	s.affected = affected
	s.state = StatementDone
	s.trace(affected)
	s.handle.db.noteWrite()
	return nil
}

// arguments returns the bound values in the form the driver matches
// against the placeholders: named placeholders get named arguments and
// unbound ones are NULL.
func (s *PreparedStatement) arguments() []any {
	args := make([]any, max(len(s.args), len(s.names)))
	for i := range args {
		var value any
		if i < len(s.args) {
			value = s.args[i]
		}
		if i < len(s.names) && s.names[i] != "" {
			value = sql.Named(s.names[i], value)
		}
		args[i] = value
	}
	return args
}

func (s *PreparedStatement) trace(affected int64) {
	s.handle.db.traceStatement(s.handle.ID(), s.sql, s.describeArgs(), PerformanceInfo{
		Elapsed:      time.Since(s.started),
		RowsAffected: affected,
		RowsScanned:  s.scanned,
	}, s.kind)
}

func (s *PreparedStatement) describeArgs() string {
	if len(s.args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.args))
	for _, arg := range s.args {
		parts = append(parts, valueFromDriver(arg).String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s *PreparedStatement) fail(ctx context.Context, err error, at stage) error {
	e := newEngineError(err, at, s.sql)
	if s.autoFinalize {
		_ = s.Finalize()
	} else if s.state != StatementFinalized {
		s.state = StatementDone
	}
	return s.handle.db.report(ctx, e)
}

func (s *PreparedStatement) misuse(ctx context.Context, message string) error {
	e := newError(KindMisuse, "%s", message)
	e.SQL = s.sql
	return s.handle.db.report(ctx, e)
}

// Reset returns the statement to the prepared state. Bound values are
// kept.
func (s *PreparedStatement) Reset() {
	if s.state == StatementStepping || s.state == StatementDone {
		s.closeRows()
		s.state = StatementPrepared
	}
}

// ClearBindings unbinds every parameter.
func (s *PreparedStatement) ClearBindings() {
	s.args = s.args[:0]
}

// Finalize releases the compiled statement. Finalizing twice is a misuse.
func (s *PreparedStatement) Finalize() error {
	if s.state == StatementFinalized {
		return newError(KindMisuse, "finalize a finalized statement")
	}
	s.release()
	s.state = StatementFinalized
	s.handle.forget(s)
	return nil
}

func (s *PreparedStatement) release() {
	s.closeRows()
	if s.stmt != nil {
		_ = s.stmt.Close()
		s.stmt = nil
	}
}

func (s *PreparedStatement) closeRows() {
	if s.rows != nil {
		_ = s.rows.Close()
		s.rows = nil
	}
	s.row = s.row[:0]
}

func (s *PreparedStatement) bind(index int, value any) {
	if index < 1 {
		return
	}
	for len(s.args) < index {
		s.args = append(s.args, nil)
	}
	s.args[index-1] = value
}

// BindBool binds a boolean as 0 or 1.
func (s *PreparedStatement) BindBool(index int, value bool) {
	if value {
		s.bind(index, int64(1))
		return
	}
	s.bind(index, int64(0))
}

// BindInt8 binds an integer.
func (s *PreparedStatement) BindInt8(index int, value int8) { s.bind(index, int64(value)) }

// BindInt16 binds an integer.
func (s *PreparedStatement) BindInt16(index int, value int16) { s.bind(index, int64(value)) }

// BindInt32 binds an integer.
func (s *PreparedStatement) BindInt32(index int, value int32) { s.bind(index, int64(value)) }

// BindInt64 binds an integer.
func (s *PreparedStatement) BindInt64(index int, value int64) { s.bind(index, value) }

// BindFloat32 binds a real.
func (s *PreparedStatement) BindFloat32(index int, value float32) { s.bind(index, float64(value)) }

// BindFloat64 binds a real.
func (s *PreparedStatement) BindFloat64(index int, value float64) { s.bind(index, value) }

// BindText binds text.
func (s *PreparedStatement) BindText(index int, value string) { s.bind(index, value) }

// BindBLOB binds bytes. A nil slice binds an empty BLOB.
func (s *PreparedStatement) BindBLOB(index int, value []byte) {
	if value == nil {
		value = []byte{}
	}
	s.bind(index, value)
}

// BindNull binds NULL.
func (s *PreparedStatement) BindNull(index int) { s.bind(index, nil) }

// BindValue binds a Value.
func (s *PreparedStatement) BindValue(index int, value Value) { s.bind(index, value.driverValue()) }

// Bind binds any value NewValue accepts. Nil pointers bind NULL.
func (s *PreparedStatement) Bind(index int, v any) error {
	value, err := NewValue(v)
	if err != nil {
		return err
	}
	s.BindValue(index, value)
	return nil
}

// BindRow binds the values of row at consecutive indexes starting at 1.
func (s *PreparedStatement) BindRow(row OneRow) {
	for i, value := range row {
		s.BindValue(i+1, value)
	}
}

// ColumnCount returns the number of result columns. It is known once the
// statement has been stepped.
func (s *PreparedStatement) ColumnCount() int {
	return len(s.columns)
}

// ColumnName returns the name of a result column.
func (s *PreparedStatement) ColumnName(index int) string {
	if index < 0 || index >= len(s.columns) {
		return ""
	}
	return s.columns[index]
}

// GetValue returns a column of the current row, or NULL when there is no
// such column.
func (s *PreparedStatement) GetValue(index int) Value {
	if index < 0 || index >= len(s.row) {
		return NullValue()
	}
	return s.row[index]
}

// ColumnType returns the storage class of a column of the current row.
func (s *PreparedStatement) ColumnType(index int) winq.ColumnType {
	return s.GetValue(index).Type()
}

// GetBool reads a column as a boolean.
func (s *PreparedStatement) GetBool(index int) bool { return s.GetValue(index).Bool() }

// GetInt8 reads a column as an integer.
func (s *PreparedStatement) GetInt8(index int) int8 { return int8(s.GetValue(index).Int()) }

// GetInt16 reads a column as an integer.
func (s *PreparedStatement) GetInt16(index int) int16 { return int16(s.GetValue(index).Int()) }

// GetInt32 reads a column as an integer.
func (s *PreparedStatement) GetInt32(index int) int32 { return int32(s.GetValue(index).Int()) }

// GetInt64 reads a column as an integer.
func (s *PreparedStatement) GetInt64(index int) int64 { return s.GetValue(index).Int() }

// GetFloat32 reads a column as a real.
func (s *PreparedStatement) GetFloat32(index int) float32 { return float32(s.GetValue(index).Float()) }

// GetFloat64 reads a column as a real.
func (s *PreparedStatement) GetFloat64(index int) float64 { return s.GetValue(index).Float() }

// GetText reads a column as text.
func (s *PreparedStatement) GetText(index int) string { return s.GetValue(index).Text() }

// GetBLOB reads a column as bytes.
func (s *PreparedStatement) GetBLOB(index int) []byte { return s.GetValue(index).BLOB() }

// GetOneRow returns a copy of the current row.
func (s *PreparedStatement) GetOneRow() OneRow {
	return append(OneRow{}, s.row...)
}

// GetAllRows steps to the end and returns every remaining row.
func (s *PreparedStatement) GetAllRows(ctx context.Context) (MultiRows, error) {
	var rows MultiRows
	for {
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
		if s.IsDone() {
			return rows, nil
		}
		rows = append(rows, s.GetOneRow())
	}
}

// GetOneColumn steps to the end and returns the values of column index.
func (s *PreparedStatement) GetOneColumn(ctx context.Context, index int) (OneColumn, error) {
	var column OneColumn
	for {
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
		if s.IsDone() {
			return column, nil
		}
		column = append(column, s.GetValue(index))
	}
}

// BindObject binds the fields of object at consecutive indexes starting at
// startIndex.
func BindObject[T any](s *PreparedStatement, object *T, fields []*orm.Field[T], startIndex int) {
	orm.BindObject(s, object, fields, startIndex)
}

// ExtractObject builds a record from the current row.
func ExtractObject[T any](s *PreparedStatement, fields []*orm.Field[T]) *T {
	return orm.ExtractObject(s, fields)
}

// GetAllObjectsFromStatement steps to the end and extracts a record from every
// remaining row.
func GetAllObjectsFromStatement[T any](ctx context.Context, s *PreparedStatement, fields []*orm.Field[T]) ([]*T, error) {
	var objects []*T
	for {
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
		if s.IsDone() {
			return objects, nil
		}
		objects = append(objects, ExtractObject(s, fields))
	}
}

// isReadOnlySQL tells whether a textual statement returns rows.
func isReadOnlySQL(query string) bool {
	trimmed := strings.TrimSpace(query)
	keyword, rest, _ := strings.Cut(trimmed, " ")
	upper := strings.ToUpper(rest)
	switch strings.ToUpper(keyword) {
	case "SELECT", "VALUES", "EXPLAIN":
		return true
	case "PRAGMA":
		return !strings.Contains(rest, "=") || strings.Contains(upper, "(")
	case "WITH":
		for _, write := range []string{"INSERT ", "UPDATE ", "DELETE ", "REPLACE "} {
			if strings.Contains(upper, write) {
				return strings.Contains(upper, " RETURNING ")
			}
		}
		return true
	default:
		return strings.Contains(strings.ToUpper(trimmed), " RETURNING ")
	}
}

func (s StatementState) String() string {
	switch s {
	case StatementFresh:
		return "Fresh"
	case StatementPrepared:
		return "Prepared"
	case StatementStepping:
		return "Stepping"
	case StatementDone:
		return "Done"
	case StatementFinalized:
		return "Finalized"
	default:
		return fmt.Sprintf("StatementState(%d)", int(s))
	}
}
