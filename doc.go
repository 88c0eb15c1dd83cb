// Package wcdb is an object-relational database layer over SQLite.
//
// A Database is the process wide object of one database file. It hands
// out handles, each pinned to one connection of the engine: writes go
// through a single writer connection, reads through a pool of readers.
// Statements are built with the winq package, records are bound to tables
// with the orm package, and chain calls tie both together.
//
// # Features
//
//   - Type-safe statement building with winq instead of SQL strings
//   - Struct bindings declared with `wcdb` tags, or generated by wcdbgen
//   - Insert, update, delete and select chain calls with auto-increment
//     write-back
//   - Transactions nested as savepoints, rolled back on error or panic
//   - Classified errors with engine codes, SQL, path and tag
//   - SQL, performance and exception tracers, plus Prometheus metrics
//   - Cipher keys, backup material and table-by-table retrieve
//   - Import and export of CSV, TSV, LTSV, Parquet and Excel (XLSX) files
//
// # Basic Usage
//
//	type Message struct {
//	    ID     int64  `wcdb:"id,primary,autoincrement"`
//	    Sender string `wcdb:"sender,index"`
//	    SentAt int64  `wcdb:"sent_at"`
//	}
//
//	var messageBinding = orm.MustReflect[Message]()
//
//	db, err := wcdb.Open("data/app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close(nil)
//
//	table := wcdb.GetTable(db, "messages", messageBinding)
//	if err := table.Create(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := table.InsertObject(ctx, &Message{Sender: "alice"}); err != nil {
//	    log.Fatal(err)
//	}
//	messages, err := table.GetAllObjects(ctx,
//	    wcdb.Where(messageBinding.Field("sender").Eq("alice")))
//
// # Configuration
//
// Options such as the journal mode, the cipher key and seed files are set
// with a DatabaseBuilder before the file is opened, or loaded from a YAML
// file with LoadConfig. Setting them on an opened database fails with
// ErrMisuse.
//
// # Handles and Chain Calls
//
// Every operation of a Database acquires a handle and releases it when
// done. Chain calls invalidate the handle they acquired once they finish,
// unless AutoInvalidateHandle(false) is set; a Handle passed in as the
// source is never invalidated by a chain call. Inside RunTransaction, the
// context carries the transaction handle and every operation given that
// context runs on it.
//
// # Errors
//
// Errors of the engine are *Error values. Use errors.Is with the Err
// sentinels, or AsError to read the kind, the codes and the SQL:
//
//	if errors.Is(err, wcdb.ErrConstraintUnique) {
//	    // duplicate row
//	}
package wcdb
