package orm

import (
	"context"

	"github.com/Tencent/wcdb-sub001/winq"
)

// rowStatement binds into a map and reads from a fixed row.
type rowStatement struct {
	bound map[int]any
	row   []any
}

func newRowStatement(row ...any) *rowStatement {
	return &rowStatement{bound: map[int]any{}, row: row}
}

func (s *rowStatement) BindBool(index int, value bool)       { s.bound[index] = value }
func (s *rowStatement) BindInt8(index int, value int8)       { s.bound[index] = int64(value) }
func (s *rowStatement) BindInt16(index int, value int16)     { s.bound[index] = int64(value) }
func (s *rowStatement) BindInt32(index int, value int32)     { s.bound[index] = int64(value) }
func (s *rowStatement) BindInt64(index int, value int64)     { s.bound[index] = value }
func (s *rowStatement) BindFloat32(index int, value float32) { s.bound[index] = float64(value) }
func (s *rowStatement) BindFloat64(index int, value float64) { s.bound[index] = value }
func (s *rowStatement) BindText(index int, value string)     { s.bound[index] = value }
func (s *rowStatement) BindBLOB(index int, value []byte)     { s.bound[index] = value }
func (s *rowStatement) BindNull(index int)                   { s.bound[index] = nil }

func (s *rowStatement) ColumnType(index int) winq.ColumnType {
	switch s.row[index].(type) {
	case int64, bool:
		return winq.ColumnTypeInteger
	case float64:
		return winq.ColumnTypeFloat
	case string:
		return winq.ColumnTypeText
	case []byte:
		return winq.ColumnTypeBLOB
	default:
		return winq.ColumnTypeNull
	}
}

func (s *rowStatement) GetBool(index int) bool {
	v, _ := s.row[index].(bool)
	return v
}
func (s *rowStatement) GetInt8(index int) int8   { return int8(s.GetInt64(index)) }
func (s *rowStatement) GetInt16(index int) int16 { return int16(s.GetInt64(index)) }
func (s *rowStatement) GetInt32(index int) int32 { return int32(s.GetInt64(index)) }
func (s *rowStatement) GetInt64(index int) int64 {
	v, _ := s.row[index].(int64)
	return v
}
func (s *rowStatement) GetFloat32(index int) float32 { return float32(s.GetFloat64(index)) }
func (s *rowStatement) GetFloat64(index int) float64 {
	v, _ := s.row[index].(float64)
	return v
}
func (s *rowStatement) GetText(index int) string {
	v, _ := s.row[index].(string)
	return v
}
func (s *rowStatement) GetBLOB(index int) []byte {
	v, _ := s.row[index].([]byte)
	return v
}

// recordingExecutor records executed SQL against an in-memory schema.
type recordingExecutor struct {
	tables  map[string][]string
	sql     map[string]string
	run     []string
	notices []Notice
	inTx    int
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{tables: map[string][]string{}, sql: map[string]string{}}
}

func (e *recordingExecutor) Execute(_ context.Context, statement winq.Statement) error {
	e.run = append(e.run, statement.Description())
	return nil
}

func (e *recordingExecutor) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := e.tables[table]
	return ok, nil
}

func (e *recordingExecutor) TableColumns(_ context.Context, table string) ([]string, error) {
	return e.tables[table], nil
}

func (e *recordingExecutor) TableSQL(_ context.Context, table string) (string, error) {
	return e.sql[table], nil
}

func (e *recordingExecutor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	e.inTx++
	return fn(ctx)
}

func (e *recordingExecutor) Notify(_ context.Context, notice Notice) {
	e.notices = append(e.notices, notice)
}
