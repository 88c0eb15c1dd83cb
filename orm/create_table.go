package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tencent/wcdb-sub001/winq"
)

var (
	// ErrAutoIncrementWithoutRowID is returned when auto increment is
	// enabled for an existing WITHOUT ROWID table.
	ErrAutoIncrementWithoutRowID = errors.New("orm: without rowid table can not be configured as autoincrement")
	// ErrNoIntegerPrimaryKey is returned when auto increment is enabled for
	// an existing table without an integer primary key.
	ErrNoIntegerPrimaryKey = errors.New("orm: no integer primary key found")
)

const migratingTablePrefix = "wcdb_migrating_"

// CreateTable creates table, or reconciles it when it already exists, in
// one transaction:
//
//   - missing columns are added with ALTER TABLE ADD COLUMN;
//   - columns of the table unknown to the binding are reported with
//     NoticeSkipColumn and kept;
//   - with EnableAutoIncrementForExistingTable, an integer primary key that
//     is not AUTOINCREMENT yet is migrated by recreating the table;
//   - declared indexes are created and dropped.
//
// A virtual table is created with CREATE VIRTUAL TABLE IF NOT EXISTS and is
// never reconciled. Calling CreateTable again without schema change has no
// effect.
func (b *Binding) CreateTable(ctx context.Context, table string, executor Executor) error {
	defer b.read()()

	if b.virtualModule != "" {
		return executor.Execute(ctx, b.createVirtualTableStatement(table))
	}

	return executor.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := executor.TableExists(ctx, table)
		if err != nil {
			return err
		}
		newlyCreated := !exists
		if exists {
			recreated, err := b.reconcile(ctx, table, executor)
			if err != nil {
				return err
			}
			newlyCreated = recreated
		} else if err := executor.Execute(ctx, b.createTableStatement(table)); err != nil {
			return err
		}

		creates, drops := b.indexStatements(table, newlyCreated)
		for _, statement := range creates {
			if err := executor.Execute(ctx, statement); err != nil {
				return err
			}
		}
		for _, statement := range drops {
			if err := executor.Execute(ctx, statement); err != nil {
				return err
			}
		}
		return nil
	})
}

// reconcile brings an existing table in line with the binding. It reports
// whether the table was recreated.
func (b *Binding) reconcile(ctx context.Context, table string, executor Executor) (bool, error) {
	columns, err := executor.TableColumns(ctx, table)
	if err != nil {
		return false, err
	}
	existing := make(map[string]string, len(columns))
	for _, column := range columns {
		existing[strings.ToLower(column)] = column
	}

	for _, def := range b.columnDefs {
		key := strings.ToLower(def.Name())
		if _, ok := existing[key]; ok {
			delete(existing, key)
			continue
		}
		if err := executor.Execute(ctx, winq.NewStatementAlterTable().AlterTable(table).AddColumn(def)); err != nil {
			return false, err
		}
		executor.Notify(ctx, Notice{Message: NoticeAddColumn, Table: table, Column: def.Name()})
	}
	for _, column := range columns {
		if _, ok := existing[strings.ToLower(column)]; ok {
			executor.Notify(ctx, Notice{Message: NoticeSkipColumn, Table: table, Column: column})
		}
	}

	if !b.autoIncrementForExistingTable {
		return false, nil
	}
	return b.configAutoIncrementIfNeeded(ctx, table, executor)
}

// configAutoIncrementIfNeeded recreates table with the AUTOINCREMENT
// definition of the binding when the stored one lacks it, keeping every row
// and rowid. The engine seeds the sequence from the copied rows.
func (b *Binding) configAutoIncrementIfNeeded(ctx context.Context, table string, executor Executor) (bool, error) {
	sql, err := executor.TableSQL(ctx, table)
	if err != nil {
		return false, err
	}
	upper := strings.ToUpper(sql)
	if strings.Contains(upper, "AUTOINCREMENT") {
		return false, nil
	}
	if strings.Contains(upper, "WITHOUT ROWID") {
		return false, fmt.Errorf("%w: %s", ErrAutoIncrementWithoutRowID, table)
	}
	var primary *winq.ColumnDef
	for _, def := range b.columnDefs {
		if def.IsAutoIncrement() && def.ColumnType() == winq.ColumnTypeInteger {
			primary = def
			break
		}
	}
	if primary == nil {
		return false, fmt.Errorf("%w: %s", ErrNoIntegerPrimaryKey, table)
	}

	migrating := migratingTablePrefix + table
	columns := make([]any, 0, len(b.columnDefs))
	for _, def := range b.columnDefs {
		columns = append(columns, def.Name())
	}
	statements := []winq.Statement{
		winq.NewStatementDropTable().DropTable(migrating).IfExists(),
		winq.NewStatementAlterTable().AlterTable(table).RenameTo(migrating),
		b.createTableStatement(table),
		winq.NewStatementInsert().InsertInto(table).Columns(columns...).
			Select(winq.NewStatementSelect().Select(columns...).From(migrating).
				OrderBy(winq.NewColumn(primary.Name()).Order(winq.OrderAsc))),
		winq.NewStatementDropTable().DropTable(migrating),
	}
	for _, statement := range statements {
		if err := executor.Execute(ctx, statement); err != nil {
			return false, err
		}
	}
	return true, nil
}
