package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"modernc.org/sqlite"
)

// Name is the name the driver is registered under with database/sql.
const Name = "wcdb"

func init() {
	sql.Register(Name, NewDriver())
}

// Driver implements database/sql/driver.Driver interface.
// It opens SQLite connections through modernc.org/sqlite and numbers them.
type Driver struct {
	sqlite *sqlite.Driver
	nextID atomic.Int64
}

// Connector implements database/sql/driver.Connector interface.
// It holds the data source name of one database file.
type Connector struct {
	driver *Driver
	dsn    string
}

// Connection implements database/sql/driver.Conn interface.
// It wraps an underlying SQLite connection and remembers which handle
// configuration version has been applied to it.
type Connection struct {
	conn          driver.Conn
	id            int64
	configVersion uint64
}

// Transaction implements database/sql/driver.Tx interface.
type Transaction struct {
	tx driver.Tx
}

// NewDriver creates a new wcdb driver
func NewDriver() *Driver {
	return &Driver{sqlite: &sqlite.Driver{}}
}

// DSN returns the data source name of the database file at path. A
// positive busyTimeout makes every connection wait for locks that long.
func DSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		return path
	}
	query := url.Values{}
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	return path + "?" + query.Encode()
}

// Open implements driver.Driver interface
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext interface
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	return &Connector{
		driver: d,
		dsn:    dsn,
	}, nil
}

// Connect implements driver.Connector interface
func (c *Connector) Connect(_ context.Context) (driver.Conn, error) {
	conn, err := c.driver.sqlite.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &Connection{conn: conn, id: c.driver.nextID.Add(1)}, nil
}

// Driver implements driver.Connector interface
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// ID returns the process unique number of the connection.
func (conn *Connection) ID() int64 {
	return conn.id
}

// ConfigVersion returns the configuration version last applied.
func (conn *Connection) ConfigVersion() uint64 {
	return conn.configVersion
}

// SetConfigVersion records that the configurations of version v have
// been applied to the connection.
func (conn *Connection) SetConfigVersion(v uint64) {
	conn.configVersion = v
}

// Close implements driver.Conn interface
func (conn *Connection) Close() error {
	if conn.conn != nil {
		return conn.conn.Close()
	}
	return nil
}

// Begin implements driver.Conn interface (deprecated, use BeginTx instead)
func (conn *Connection) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx interface
func (conn *Connection) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if connBeginTx, ok := conn.conn.(driver.ConnBeginTx); ok {
		tx, err := connBeginTx.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &Transaction{tx: tx}, nil
	}
	return nil, ErrBeginTxNotSupported
}

// Commit implements driver.Tx interface
func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

// Rollback implements driver.Tx interface
func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// Prepare implements driver.Conn interface (deprecated, use PrepareContext instead)
func (conn *Connection) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext interface
func (conn *Connection) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if connPrepareCtx, ok := conn.conn.(driver.ConnPrepareContext); ok {
		return connPrepareCtx.PrepareContext(ctx, query)
	}
	return nil, ErrPrepareContextNotSupported
}

// ExecContext implements driver.ExecerContext interface
func (conn *Connection) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if execer, ok := conn.conn.(driver.ExecerContext); ok {
		return execer.ExecContext(ctx, query, args)
	}
	return nil, ErrExecContextNotSupported
}

// QueryContext implements driver.QueryerContext interface
func (conn *Connection) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if queryer, ok := conn.conn.(driver.QueryerContext); ok {
		return queryer.QueryContext(ctx, query, args)
	}
	return nil, ErrQueryContextNotSupported
}

// Ping implements driver.Pinger interface
func (conn *Connection) Ping(ctx context.Context) error {
	if pinger, ok := conn.conn.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// ResetSession implements driver.SessionResetter interface
func (conn *Connection) ResetSession(ctx context.Context) error {
	if resetter, ok := conn.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// Unwrap returns the modernc.org/sqlite connection.
func (conn *Connection) Unwrap() driver.Conn {
	return conn.conn
}

// FromRaw extracts the Connection from the value handed to the callback
// of sql.Conn.Raw.
func FromRaw(driverConn any) (*Connection, error) {
	conn, ok := driverConn.(*Connection)
	if !ok {
		return nil, ErrNotWCDBConnection
	}
	return conn, nil
}
