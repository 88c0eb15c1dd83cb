// Package orm binds Go record types to tables.
//
// A Binding holds the schema of one record type: its column definitions,
// table constraints, indexes and virtual table configuration. It creates
// and reconciles the table on a handle with CreateTable.
//
// A TableBinding couples a Binding with the per-record routines that bind a
// record into a prepared statement and extract it back from a result row.
// TableBindings are either generated by cmd/wcdbgen from struct tags or
// built at run time by Reflect. Both read the same `wcdb` struct tags:
//
//	type Message struct {
//		_       struct{} `wcdb:"table,unique=sender+sent_at,index=sender+content"`
//		ID      int64    `wcdb:"id,primary,autoincrement"`
//		Sender  string   `wcdb:"sender,notnull"`
//		Content *string  `wcdb:"content"`
//		SentAt  int64    `wcdb:"sent_at,index"`
//	}
package orm
