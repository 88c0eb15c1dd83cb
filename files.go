package wcdb

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Tencent/wcdb-sub001/winq"
)

// fileSuffixes are the companion files the engine keeps next to a
// database file.
var fileSuffixes = []string{"-wal", "-shm", "-journal"}

// Paths returns the database file, its companion files and its backup
// material files, whether they exist or not.
func (db *Database) Paths() []string {
	first, last := db.materialPaths()
	paths := []string{db.path}
	for _, suffix := range fileSuffixes {
		paths = append(paths, db.path+suffix)
	}
	return append(paths, first, last)
}

// closePools closes both pools. The caller holds the gate blocked and
// drained.
func (db *Database) closePools() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.writer == nil {
		return nil
	}
	err := errors.Join(db.writer.Close(), db.reader.Close())
	db.writer, db.reader = nil, nil
	return err
}

// RemoveFiles closes the database and deletes every file in Paths. The
// next operation creates an empty database.
func (db *Database) RemoveFiles(ctx context.Context) error {
	db.gate.block()
	defer db.gate.unblock()
	db.gate.drain()
	db.stopAutoBackup()

	if err := db.closePools(); err != nil {
		return db.report(ctx, newEngineError(err, stageOpen, ""))
	}
	var errs []error
	for _, path := range db.Paths() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, NewErrorContext("remove files", path).Error(err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	db.corrupted.Store(false)
	db.Logger().InfoContext(ctx, "database files removed", slog.String("path", db.path))
	return nil
}

// FileSize returns the total size of the database file and its companion
// files.
func (db *Database) FileSize(ctx context.Context) (int64, error) {
	var size int64
	for _, path := range append([]string{db.path}, db.path+"-wal", db.path+"-journal") {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, NewErrorContext("file size", path).Error(err)
		}
		size += info.Size()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return size, nil
}

// TruncateCheckpoint writes the whole WAL back into the database file and
// truncates the WAL to zero bytes.
func (db *Database) TruncateCheckpoint(ctx context.Context) error {
	return db.withHandle(ctx, true, func(h *Handle) error {
		_, err := h.GetOneRowFromStatement(ctx, winq.NewStatementPragma().Pragma(winq.PragmaWalCheckpoint()).WithValue("TRUNCATE"))
		return err
	})
}
