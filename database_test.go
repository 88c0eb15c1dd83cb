package wcdb

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// allTypes has one field of every storage width.
type allTypes struct {
	ABool   bool    `wcdb:"a_bool"`
	AByte   int8    `wcdb:"a_byte"`
	AShort  int16   `wcdb:"a_short"`
	AInt    int32   `wcdb:"a_int"`
	ALong   int64   `wcdb:"a_long"`
	AFloat  float32 `wcdb:"a_float"`
	ADouble float64 `wcdb:"a_double"`
	AString string  `wcdb:"a_string"`
}

// message has an auto-increment key and an optional body.
type message struct {
	ID     int64   `wcdb:"id,primary,autoincrement"`
	Sender string  `wcdb:"sender,index"`
	Body   *string `wcdb:"body"`
	SentAt int64   `wcdb:"sent_at"`
}

// channelValue has a composite primary key.
type channelValue struct {
	_         struct{} `wcdb:"table,primaries=category+target_id+channel_id"`
	Category  int64    `wcdb:"category"`
	TargetID  string   `wcdb:"target_id"`
	ChannelID string   `wcdb:"channel_id"`
	Value     string   `wcdb:"value"`
}

var (
	allTypesBinding     = orm.MustReflect[allTypes]()
	messageBinding      = orm.MustReflect[message]()
	channelValueBinding = orm.MustReflect[channelValue]()
)

var channelValueColumns = []string{"category", "target_id", "channel_id", "value"}

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close(nil))
	})
	return db
}

func createTestTable[T any](t *testing.T, db *Database, name string, binding orm.TableBinding[T]) *Table[T] {
	t.Helper()
	table := GetTable(db, name, binding)
	require.NoError(t, table.Create(context.Background()))
	return table
}

func countRows(t *testing.T, db *Database, table string) int64 {
	t.Helper()
	value, err := db.GetValueFromStatement(context.Background(),
		winq.NewStatementSelect().Select(winq.ColumnAll().Count()).From(table))
	require.NoError(t, err)
	return value.Int()
}

func textPointer(s string) *string {
	return &s
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "same.db")

	first, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, first.Close(nil)) })

	second, err := Open(filepath.Join(dir, ".", "same.db"))
	require.NoError(t, err)
	assert.Same(t, first, second, "the same file must share one database")
	assert.Equal(t, path, first.Path())
	assert.False(t, first.IsOpened(), "the file is opened lazily")

	assert.True(t, first.CanOpen(context.Background()))
	assert.True(t, first.IsOpened())

	_, err = Open("")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestDatabaseCreateTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)

	var (
		mu       sync.Mutex
		executed []string
	)
	db.TraceSQL(func(_ int64, _ string, _ int64, sql string, _ string) {
		mu.Lock()
		defer mu.Unlock()
		executed = append(executed, sql)
	})

	require.NoError(t, db.CreateTable(ctx, "testTable", allTypesBinding))
	mu.Lock()
	assert.Contains(t, executed,
		"CREATE TABLE IF NOT EXISTS testTable(a_bool INTEGER, a_byte INTEGER, a_short INTEGER, a_int INTEGER, a_long INTEGER, a_float REAL, a_double REAL, a_string TEXT)")
	executed = nil
	mu.Unlock()

	require.NoError(t, db.CreateTable(ctx, "testTable", allTypesBinding), "creating twice is a no-op")
	mu.Lock()
	for _, sql := range executed {
		assert.NotContains(t, sql, "CREATE TABLE")
		assert.NotContains(t, sql, "ALTER TABLE")
	}
	mu.Unlock()
	db.TraceSQL(nil)

	exists, err := db.TableExists(ctx, "testTable")
	require.NoError(t, err)
	assert.True(t, exists)

	names, err := db.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"testTable"}, names)

	require.NoError(t, db.DropTable(ctx, "testTable"))
	exists, err = db.TableExists(ctx, "testTable")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDatabaseCreateTableAddsColumns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	require.NoError(t, db.ExecuteSQL(ctx, "CREATE TABLE messages(id INTEGER PRIMARY KEY AUTOINCREMENT, sender TEXT)"))
	require.NoError(t, db.ExecuteSQL(ctx, "INSERT INTO messages(sender) VALUES('alice')"))

	require.NoError(t, db.CreateTable(ctx, "messages", messageBinding))

	rows, err := db.GetValuesFromSQL(ctx, "SELECT name FROM pragma_table_info('messages') ORDER BY cid")
	require.NoError(t, err)
	var columns []string
	for _, row := range rows {
		columns = append(columns, row[0].Text())
	}
	assert.Equal(t, []string{"id", "sender", "body", "sent_at"}, columns)
	assert.Equal(t, int64(1), countRows(t, db, "messages"), "existing rows survive")
}

func TestDatabaseCloseAndReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	require.NoError(t, db.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))

	closed := false
	require.NoError(t, db.Close(func() { closed = true }))
	assert.True(t, closed)
	assert.False(t, db.IsOpened())

	require.NoError(t, db.ExecuteSQL(ctx, "INSERT INTO t(v) VALUES(1)"), "the next operation reopens the file")
	assert.True(t, db.IsOpened())
	assert.Equal(t, int64(1), countRows(t, db, "t"))
}

func TestDatabaseConfigs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) HandleConfig {
		return func(context.Context, *Handle) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	db.SetConfig("low", record("low"), ConfigPriorityLow)
	db.SetConfig("high", record("high"), ConfigPriorityHigh)

	h := db.GetHandle(true)
	_, err := h.GetValueFromSQL(ctx, "SELECT 1")
	require.NoError(t, err)
	h.Invalidate()
	mu.Lock()
	assert.Equal(t, []string{"high", "low"}, order)
	order = nil
	mu.Unlock()

	_, err = h.GetValueFromSQL(ctx, "SELECT 1")
	require.NoError(t, err)
	h.Invalidate()
	mu.Lock()
	assert.Empty(t, order, "configs run once per connection and version")
	mu.Unlock()

	db.RemoveConfig("high")
	_, err = h.GetValueFromSQL(ctx, "SELECT 1")
	require.NoError(t, err)
	h.Invalidate()
	mu.Lock()
	assert.Equal(t, []string{"low"}, order, "a changed config list is applied again")
	mu.Unlock()
}

func TestDatabaseBlockade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	require.NoError(t, db.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))

	db.Blockade()
	assert.True(t, db.IsBlockaded())

	done := make(chan error, 1)
	go func() {
		done <- db.ExecuteSQL(ctx, "INSERT INTO t(v) VALUES(1)")
	}()
	select {
	case err := <-done:
		t.Fatalf("operation ran through the blockade: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	db.Unblockade()
	require.NoError(t, <-done)
	assert.Equal(t, int64(1), countRows(t, db, "t"))

	db.Blockade()
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := db.ExecuteSQL(cancelled, "INSERT INTO t(v) VALUES(2)")
	db.Unblockade()
	require.ErrorIs(t, err, ErrCancelled)
}

func TestDatabaseCheckIfCorrupted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	require.NoError(t, db.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))

	corrupted, err := db.CheckIfCorrupted(ctx)
	require.NoError(t, err)
	assert.False(t, corrupted)
	assert.False(t, db.IsAlreadyCorrupted())
}

func TestDatabaseVacuum(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	require.NoError(t, db.ExecuteSQL(ctx, "CREATE TABLE t(v TEXT)"))
	require.NoError(t, db.ExecuteSQL(ctx, "INSERT INTO t(v) VALUES(zeroblob(65536))"))
	require.NoError(t, db.ExecuteSQL(ctx, "DELETE FROM t"))

	var progress []float64
	require.NoError(t, db.Vacuum(ctx, func(percentage, _ float64) bool {
		progress = append(progress, percentage)
		return true
	}))
	assert.Equal(t, []float64{1}, progress)
}
