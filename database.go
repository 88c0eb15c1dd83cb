package wcdb

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tencent/wcdb-sub001/driver"
	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

// Default options of a database.
const (
	DefaultJournalMode    = "WAL"
	DefaultSynchronous    = "NORMAL"
	DefaultBusyTimeout    = 10 * time.Second
	DefaultMaxReaders     = 4
	DefaultAutoCheckpoint = 1000
)

// Names of the built-in handle configs.
const (
	ConfigBasic      = "wcdb.basic"
	ConfigCheckpoint = "wcdb.checkpoint"
	ConfigCipher     = "wcdb.cipher"
)

// Config priorities. Configs run in ascending priority.
const (
	ConfigPriorityHighest = -1000
	ConfigPriorityHigh    = -100
	ConfigPriorityDefault = 0
	ConfigPriorityLow     = 100
)

// HandleConfig configures an engine connection. It runs on every
// connection the first time a handle pins it after the config set of the
// database changed.
type HandleConfig func(ctx context.Context, h *Handle) error

type namedConfig struct {
	name       string
	invocation HandleConfig
	priority   int
}

type options struct {
	journalMode    string
	synchronous    string
	busyTimeout    time.Duration
	foreignKeys    bool
	maxReaders     int
	autoCheckpoint int
}

func defaultOptions() options {
	return options{
		journalMode:    DefaultJournalMode,
		synchronous:    DefaultSynchronous,
		busyTimeout:    DefaultBusyTimeout,
		foreignKeys:    true,
		maxReaders:     DefaultMaxReaders,
		autoCheckpoint: DefaultAutoCheckpoint,
	}
}

// Database is the process wide object of one database file. Every
// operation acquires its own handle, so a Database is safe for concurrent
// use.
type Database struct {
	path    string
	tag     atomic.Int64
	logger  atomic.Pointer[slog.Logger]
	tracers tracers
	gate    *gate

	mu            sync.Mutex
	writer        *sql.DB
	reader        *sql.DB
	options       options
	configs       map[string]namedConfig
	configVersion uint64
	cipher        *cipherConfig

	corrupted     atomic.Bool
	onCorrupted   func(db *Database)
	backupFilter  func(table string) bool
	autoBackup    autoBackup
	checkpointOff bool
}

var registry = struct {
	mu        sync.Mutex
	databases map[string]*Database
}{databases: make(map[string]*Database)}

// Open returns the database of the file at path, creating the Database on
// first use. Opening the same file twice returns the same Database. The
// file itself is opened lazily by the first operation.
func Open(path string) (*Database, error) {
	if err := driver.ValidatePath(path); err != nil {
		return nil, &Error{Kind: KindInvalidPath, Level: LevelError, Message: err.Error(), Path: path, Err: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Kind: KindInvalidPath, Level: LevelError, Message: err.Error(), Path: path, Err: err}
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if db, ok := registry.databases[abs]; ok {
		return db, nil
	}
	db := &Database{
		path:    abs,
		gate:    newGate(),
		options: defaultOptions(),
		configs: make(map[string]namedConfig),
	}
	db.configs[ConfigBasic] = namedConfig{name: ConfigBasic, invocation: db.basicConfig, priority: ConfigPriorityHighest}
	db.configs[ConfigCheckpoint] = namedConfig{name: ConfigCheckpoint, invocation: db.checkpointConfig, priority: ConfigPriorityHigh}
	db.configVersion = 1
	registry.databases[abs] = db
	return db, nil
}

// configure changes the options of a database that is not opened yet.
func (db *Database) configure(fn func(o *options)) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.writer != nil {
		e := newError(KindMisuse, "options set after the database was opened")
		e.Path = db.path
		return e
	}
	fn(&db.options)
	db.configVersion++
	return nil
}

// Path returns the absolute path of the database file.
func (db *Database) Path() string {
	return db.path
}

// Tag returns the tag carried by traces and errors of the database.
func (db *Database) Tag() int64 {
	return db.tag.Load()
}

// SetTag sets the tag of the database.
func (db *Database) SetTag(tag int64) {
	db.tag.Store(tag)
}

// Logger returns the logger of the database.
func (db *Database) Logger() *slog.Logger {
	if logger := db.logger.Load(); logger != nil {
		return logger
	}
	return slog.Default()
}

// SetLogger replaces the logger of the database. nil restores
// slog.Default.
func (db *Database) SetLogger(logger *slog.Logger) {
	db.logger.Store(logger)
}

// open opens the connection pools of the database file once.
func (db *Database) open(ctx context.Context) (writer, reader *sql.DB, err error) {
	db.mu.Lock()
	if db.writer != nil {
		writer, reader = db.writer, db.reader
		db.mu.Unlock()
		return writer, reader, nil
	}
	writer, reader, err = db.openLocked(ctx)
	db.mu.Unlock()
	if err != nil {
		return nil, nil, db.report(ctx, err)
	}
	db.Logger().DebugContext(ctx, "database opened", slog.String("path", db.path))
	return writer, reader, nil
}

func (db *Database) openLocked(ctx context.Context) (*sql.DB, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(db.path), 0o750); err != nil {
		return nil, nil, &Error{Kind: KindInvalidPath, Level: LevelError, Message: err.Error(), Path: db.path, Err: err}
	}
	dsn := driver.DSN(db.path, db.options.busyTimeout)
	writer, err := sql.Open(driver.Name, dsn)
	if err != nil {
		return nil, nil, newEngineError(err, stageOpen, "")
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	reader, err := sql.Open(driver.Name, dsn)
	if err != nil {
		_ = writer.Close()
		return nil, nil, newEngineError(err, stageOpen, "")
	}
	reader.SetMaxOpenConns(db.options.maxReaders)
	reader.SetMaxIdleConns(db.options.maxReaders)
	closeBoth := func() { _ = errors.Join(writer.Close(), reader.Close()) }
	if err := writer.PingContext(ctx); err != nil {
		closeBoth()
		return nil, nil, newEngineError(err, stageOpen, "")
	}
	if db.cipher != nil {
		err = db.cipher.verify(ctx, writer, db.path)
	} else {
		err = checkPlain(ctx, writer, db.path)
	}
	if err != nil {
		closeBoth()
		return nil, nil, err
	}
	db.writer, db.reader = writer, reader
	return writer, reader, nil
}

// conn takes an engine connection from the writer or the reader pool.
func (db *Database) conn(ctx context.Context, write bool) (*sql.Conn, error) {
	writer, reader, err := db.open(ctx)
	if err != nil {
		return nil, err
	}
	pool := reader
	if write {
		pool = writer
	}
	conn, err := pool.Conn(ctx)
	if err != nil {
		return nil, db.report(ctx, newEngineError(err, stageOpen, ""))
	}
	return conn, nil
}

// CanOpen opens the database file if needed and reports whether it is
// usable.
func (db *Database) CanOpen(ctx context.Context) bool {
	return db.withHandle(ctx, false, func(h *Handle) error { return nil }) == nil
}

// IsOpened reports whether the database file is open.
func (db *Database) IsOpened() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.writer != nil
}

// Close waits until every handle is invalidated, closes the database file
// and runs onClosed, if not nil, before any new handle can attach. The
// next operation opens the file again.
func (db *Database) Close(onClosed func()) error {
	db.gate.block()
	defer db.gate.unblock()
	db.gate.drain()
	db.stopAutoBackup()

	err := db.closePools()
	db.Logger().Debug("database closed", slog.String("path", db.path))

	if onClosed != nil {
		onClosed()
	}
	return err
}

// Blockade holds back every new handle until Unblockade. Handles already
// attached keep working.
func (db *Database) Blockade() {
	db.gate.block()
}

// Unblockade lets new handles attach again.
func (db *Database) Unblockade() {
	db.gate.unblock()
}

// IsBlockaded reports whether the database is blockaded.
func (db *Database) IsBlockaded() bool {
	return db.gate.isBlocked()
}

// SetConfig adds or replaces a named handle config. Configs run in
// ascending priority on every connection before its next use.
func (db *Database) SetConfig(name string, invocation HandleConfig, priority int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.configs[name] = namedConfig{name: name, invocation: invocation, priority: priority}
	db.configVersion++
}

// RemoveConfig removes a named handle config. Connections that already ran
// it keep its effect.
func (db *Database) RemoveConfig(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.configs[name]; ok {
		delete(db.configs, name)
		db.configVersion++
	}
}

func (db *Database) configSnapshot() (uint64, []namedConfig) {
	db.mu.Lock()
	defer db.mu.Unlock()
	configs := make([]namedConfig, 0, len(db.configs))
	for _, config := range db.configs {
		configs = append(configs, config)
	}
	slices.SortFunc(configs, func(a, b namedConfig) int {
		return cmp.Or(cmp.Compare(a.priority, b.priority), cmp.Compare(a.name, b.name))
	})
	return db.configVersion, configs
}

// applyConfigs runs the configs on the connection of h unless it already
// ran this version of them.
func (db *Database) applyConfigs(ctx context.Context, h *Handle) error {
	version, configs := db.configSnapshot()
	var current uint64
	if err := h.conn.Raw(func(driverConn any) error {
		c, err := driver.FromRaw(driverConn)
		if err != nil {
			return err
		}
		current = c.ConfigVersion()
		return nil
	}); err != nil {
		return err
	}
	if current == version {
		return nil
	}
	for _, config := range configs {
		if err := config.invocation(ctx, h); err != nil {
			return err
		}
	}
	return h.conn.Raw(func(driverConn any) error {
		c, err := driver.FromRaw(driverConn)
		if err != nil {
			return err
		}
		c.SetConfigVersion(version)
		return nil
	})
}

func (db *Database) basicConfig(ctx context.Context, h *Handle) error {
	db.mu.Lock()
	opts := db.options
	db.mu.Unlock()
	if h.write {
		if err := h.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaJournalMode()).ToValue(opts.journalMode)); err != nil {
			return err
		}
	}
	if err := h.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaSynchronous()).ToValue(opts.synchronous)); err != nil {
		return err
	}
	return h.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaForeignKeys()).ToValue(opts.foreignKeys))
}

func (db *Database) checkpointConfig(ctx context.Context, h *Handle) error {
	db.mu.Lock()
	pages := db.options.autoCheckpoint
	if db.checkpointOff {
		pages = 0
	}
	db.mu.Unlock()
	return h.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaWalAutocheckpoint()).ToValue(pages))
}

// SetAutoCheckpointEnabled turns the automatic WAL checkpoint of the
// engine on or off.
func (db *Database) SetAutoCheckpointEnabled(on bool) {
	db.mu.Lock()
	db.checkpointOff = !on
	db.mu.Unlock()
	db.SetConfig(ConfigCheckpoint, db.checkpointConfig, ConfigPriorityHigh)
}

// GetHandle returns a detached handle. It attaches on first use and must
// be invalidated by the caller.
func (db *Database) GetHandle(write bool) *Handle {
	return &Handle{db: db, write: write}
}

// Source is where chain calls and ORM operations get their handle: a
// *Database or a *Handle.
type Source interface {
	acquire(ctx context.Context, write bool) (*Handle, func(), error)
}

// acquire implements Source. Inside a transaction the transaction handle
// is reused; otherwise a new handle is attached and released by
// invalidating it.
func (db *Database) acquire(ctx context.Context, write bool) (*Handle, func(), error) {
	if h, ok := db.transactionHandle(ctx); ok {
		return h, func() {}, nil
	}
	h := db.GetHandle(write)
	if err := h.attach(ctx); err != nil {
		return nil, nil, err
	}
	return h, h.Invalidate, nil
}

func (db *Database) withHandle(ctx context.Context, write bool, fn func(h *Handle) error) error {
	h, release, err := db.acquire(ctx, write)
	if err != nil {
		return err
	}
	defer release()
	return fn(h)
}

// CreateTable creates the table of a binding, or reconciles an existing
// one with it.
func (db *Database) CreateTable(ctx context.Context, table string, binding BaseBinder) error {
	return db.withHandle(ctx, true, func(h *Handle) error {
		return binding.BaseBinding().CreateTable(ctx, table, h)
	})
}

// BaseBinder is implemented by every TableBinding and by *orm.Binding.
type BaseBinder interface {
	BaseBinding() *orm.Binding
}

// DropTable drops a table if it exists.
func (db *Database) DropTable(ctx context.Context, table string) error {
	return db.Execute(ctx, winq.NewStatementDropTable().DropTable(table).IfExists())
}

// DropIndex drops an index if it exists.
func (db *Database) DropIndex(ctx context.Context, index string) error {
	return db.Execute(ctx, winq.NewStatementDropIndex().DropIndex(index).IfExists())
}

// TableExists reports whether a table or view exists.
func (db *Database) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := db.withHandle(ctx, false, func(h *Handle) (err error) {
		exists, err = h.TableExists(ctx, table)
		return err
	})
	return exists, err
}

// TableNames returns the user tables of the database.
func (db *Database) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := db.withHandle(ctx, false, func(h *Handle) (err error) {
		names, err = h.TableNames(ctx)
		return err
	})
	return names, err
}

// Execute runs statement on a handle of the matching kind.
func (db *Database) Execute(ctx context.Context, statement winq.Statement) error {
	return db.withHandle(ctx, statement.IsWriteStatement(), func(h *Handle) error {
		return h.Execute(ctx, statement)
	})
}

// ExecuteSQL runs one textual statement on a write handle.
func (db *Database) ExecuteSQL(ctx context.Context, query string) error {
	return db.withHandle(ctx, !isReadOnlySQL(query), func(h *Handle) error {
		return h.ExecuteSQL(ctx, query)
	})
}

// GetValueFromStatement returns the first column of the first row.
func (db *Database) GetValueFromStatement(ctx context.Context, statement winq.Statement) (Value, error) {
	var value Value
	err := db.withHandle(ctx, statement.IsWriteStatement(), func(h *Handle) (err error) {
		value, err = h.GetValueFromStatement(ctx, statement)
		return err
	})
	return value, err
}

// GetOneRowFromStatement returns the first row, or nil.
func (db *Database) GetOneRowFromStatement(ctx context.Context, statement winq.Statement) (OneRow, error) {
	var row OneRow
	err := db.withHandle(ctx, statement.IsWriteStatement(), func(h *Handle) (err error) {
		row, err = h.GetOneRowFromStatement(ctx, statement)
		return err
	})
	return row, err
}

// GetOneColumnFromStatement returns the first column of every row.
func (db *Database) GetOneColumnFromStatement(ctx context.Context, statement winq.Statement) (OneColumn, error) {
	var column OneColumn
	err := db.withHandle(ctx, statement.IsWriteStatement(), func(h *Handle) (err error) {
		column, err = h.GetOneColumnFromStatement(ctx, statement)
		return err
	})
	return column, err
}

// GetAllRowsFromStatement returns every row.
func (db *Database) GetAllRowsFromStatement(ctx context.Context, statement winq.Statement) (MultiRows, error) {
	var rows MultiRows
	err := db.withHandle(ctx, statement.IsWriteStatement(), func(h *Handle) (err error) {
		rows, err = h.GetAllRowsFromStatement(ctx, statement)
		return err
	})
	return rows, err
}

// GetValueFromSQL returns the first column of the first row of a textual
// query.
func (db *Database) GetValueFromSQL(ctx context.Context, query string) (Value, error) {
	var value Value
	err := db.withHandle(ctx, !isReadOnlySQL(query), func(h *Handle) (err error) {
		value, err = h.GetValueFromSQL(ctx, query)
		return err
	})
	return value, err
}

// GetValuesFromSQL returns every row of a textual query.
func (db *Database) GetValuesFromSQL(ctx context.Context, query string) (MultiRows, error) {
	var rows MultiRows
	err := db.withHandle(ctx, !isReadOnlySQL(query), func(h *Handle) (err error) {
		rows, err = h.GetAllRowsFromSQL(ctx, query)
		return err
	})
	return rows, err
}

// Vacuum rebuilds the database file. progress, if not nil, is called with
// the completed fraction when the rebuild is done.
func (db *Database) Vacuum(ctx context.Context, progress func(percentage, increment float64) bool) error {
	if err := db.Execute(ctx, winq.NewStatementVacuum()); err != nil {
		return err
	}
	if progress != nil {
		progress(1, 1)
	}
	return nil
}

// EnableAutoVacuum switches the file to full or incremental auto vacuum.
// The file is rebuilt for the mode to take effect.
func (db *Database) EnableAutoVacuum(ctx context.Context, incremental bool) error {
	mode := 1
	if incremental {
		mode = 2
	}
	if err := db.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaAutoVacuum()).ToValue(mode)); err != nil {
		return err
	}
	return db.Execute(ctx, winq.NewStatementVacuum())
}

// IncrementalVacuum frees up to pages free pages; 0 frees all of them.
func (db *Database) IncrementalVacuum(ctx context.Context, pages int) error {
	return db.Execute(ctx, winq.NewStatementPragma().Pragma(winq.PragmaIncrementalVacuum()).WithValue(pages))
}

// CheckIfCorrupted runs a quick integrity check.
func (db *Database) CheckIfCorrupted(ctx context.Context) (bool, error) {
	value, err := db.GetValueFromStatement(ctx, winq.NewStatementPragma().Pragma(winq.PragmaQuickCheck()))
	if err != nil {
		if e, ok := AsError(err); ok && e.Kind == KindCorrupt {
			return true, nil
		}
		return false, err
	}
	if value.Text() != "ok" {
		db.markCorrupted(ctx)
		return true, nil
	}
	return false, nil
}

// IsAlreadyCorrupted reports whether corruption has been detected since
// the database was created.
func (db *Database) IsAlreadyCorrupted() bool {
	return db.corrupted.Load()
}

// SetNotificationWhenCorrupted sets the callback run, in its own
// goroutine, the first time corruption is detected. nil clears it.
func (db *Database) SetNotificationWhenCorrupted(cb func(db *Database)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.onCorrupted = cb
}

func (db *Database) markCorrupted(ctx context.Context) {
	if !db.corrupted.CompareAndSwap(false, true) {
		return
	}
	db.Logger().WarnContext(ctx, "database corrupted", slog.String("path", db.path))
	db.mu.Lock()
	cb := db.onCorrupted
	db.mu.Unlock()
	if cb != nil {
		go cb(db)
	}
}
