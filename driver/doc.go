// Package driver provides the database/sql driver behind wcdb.
//
// The driver registers itself as "wcdb" and opens modernc.org/sqlite
// connections. Each connection is wrapped in a Connection that carries an
// identifier and the version of the handle configuration last applied to
// it, so the handle layer can reconfigure a pooled connection only when the
// configuration set of its database has changed.
//
// Usage:
//
//	import _ "github.com/Tencent/wcdb-sub001/driver"
//	db, err := sql.Open("wcdb", driver.DSN("app.db", 5*time.Second))
package driver
