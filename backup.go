package wcdb

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tencent/wcdb-sub001/domain/model"
	"github.com/Tencent/wcdb-sub001/driver"
	"github.com/Tencent/wcdb-sub001/winq"
)

// Backup material files, next to the database file.
const (
	firstMaterialSuffix = "-first.material"
	lastMaterialSuffix  = "-last.material"
)

// DefaultAutoBackupDelay is the delay between a write and the automatic
// backup it schedules.
const DefaultAutoBackupDelay = 10 * time.Minute

var materialMagic = [8]byte{'W', 'C', 'D', 'B', 'M', 'A', 'T', '1'}

const (
	materialFlagSealed byte = 1 << iota
)

// material is the header of a backup material file: magic, flags, the
// compression, the salt length and the salt, then the payload.
type material struct {
	flags       byte
	compression model.CompressionType
	salt        []byte
	payload     []byte
}

func (m material) encode() []byte {
	var buf bytes.Buffer
	buf.Write(materialMagic[:])
	buf.WriteByte(m.flags)
	buf.WriteByte(byte(m.compression))
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(m.salt)))
	buf.Write(m.salt)
	buf.Write(m.payload)
	return buf.Bytes()
}

func decodeMaterial(data []byte) (material, error) {
	const fixed = len(materialMagic) + 4
	if len(data) < fixed || !bytes.Equal(data[:len(materialMagic)], materialMagic[:]) {
		return material{}, ErrInvalidData
	}
	m := material{flags: data[8], compression: model.CompressionType(data[9])}
	saltLength := int(binary.BigEndian.Uint16(data[10:12]))
	if len(data) < fixed+saltLength {
		return material{}, ErrInvalidData
	}
	m.salt = data[fixed : fixed+saltLength]
	m.payload = data[fixed+saltLength:]
	return m, nil
}

// FilterBackup selects the tables saved by Backup. nil saves every table.
// Tables of the database itself are always saved.
func (db *Database) FilterBackup(filter func(table string) bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.backupFilter = filter
}

// SetBackupCompression sets the compression of backup material. It is
// zstd by default.
func (db *Database) SetBackupCompression(compression model.CompressionType) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.autoBackup.compression = compression
}

func (db *Database) materialPaths() (first, last string) {
	return db.path + firstMaterialSuffix, db.path + lastMaterialSuffix
}

func (db *Database) scratchPath(kind string) string {
	return filepath.Join(filepath.Dir(db.path), fmt.Sprintf(".%s.%s-%s", filepath.Base(db.path), kind, uuid.NewString()))
}

// Backup saves a snapshot of the database as backup material. The previous
// material is kept as a fallback for Retrieve.
func (db *Database) Backup(ctx context.Context) error {
	started := time.Now()
	snapshot := db.scratchPath("snapshot")
	defer removeFiles(snapshot, snapshot+"-journal")

	db.mu.Lock()
	filter, compression, cipher := db.backupFilter, db.autoBackup.compression, db.cipher
	db.mu.Unlock()

	var salt []byte
	err := db.withHandle(ctx, true, func(h *Handle) error {
		if cipher != nil {
			var err error
			if salt, err = cipherSalt(ctx, h); err != nil {
				return err
			}
		}
		return h.Execute(ctx, winq.NewStatementVacuum().Into(snapshot))
	})
	if err != nil {
		return err
	}

	if filter != nil {
		if err := filterSnapshot(ctx, snapshot, filter); err != nil {
			return db.report(ctx, err)
		}
	}

	data, err := os.ReadFile(snapshot) //nolint:gosec // path built by the database
	if err != nil {
		return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
	}
	if compression == model.CompressionNone {
		compression = model.CompressionZSTD
	}
	m := material{compression: compression}
	if m.payload, err = compressBytes(data, compression); err != nil {
		return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
	}
	if cipher != nil {
		m.flags |= materialFlagSealed
		m.salt = salt
		if m.payload, err = cipher.seal(salt, m.payload); err != nil {
			return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
		}
	}

	first, last := db.materialPaths()
	scratch := first + "." + uuid.NewString()
	if err := os.WriteFile(scratch, m.encode(), 0o600); err != nil {
		return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
	}
	if _, err := os.Stat(first); err == nil {
		if err := os.Rename(first, last); err != nil {
			_ = os.Remove(scratch)
			return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
		}
	}
	if err := os.Rename(scratch, first); err != nil {
		return db.report(ctx, NewErrorContext("backup", db.path).Error(err))
	}
	recordBackup(time.Since(started))
	db.Logger().InfoContext(ctx, "backup saved",
		slog.String("path", db.path),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

// filterSnapshot drops the tables of the snapshot rejected by filter.
func filterSnapshot(ctx context.Context, snapshot string, filter func(string) bool) error {
	pool, err := sql.Open(driver.Name, snapshot)
	if err != nil {
		return newEngineError(err, stageOpen, "")
	}
	defer pool.Close()
	tables, err := userTables(ctx, pool, "main")
	if err != nil {
		return err
	}
	for _, table := range tables {
		if table.kind != "table" || strings.HasPrefix(table.name, "wcdb_") || filter(table.name) {
			continue
		}
		statement := winq.NewStatementDropTable().DropTable(table.name).IfExists()
		if _, err := pool.ExecContext(ctx, statement.Description()); err != nil {
			return newEngineError(err, stageStep, statement.Description())
		}
	}
	return nil
}

type schemaObject struct {
	kind string
	name string
	sql  string
}

// userTables lists the schema objects of a schema, tables first.
func userTables(ctx context.Context, pool *sql.DB, schema string) ([]schemaObject, error) {
	query := fmt.Sprintf(
		"SELECT type, name, sql FROM %s.sqlite_master WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite\\_%%' ESCAPE '\\' "+
			"ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'index' THEN 1 ELSE 2 END, rowid", schema)
	rows, err := pool.QueryContext(ctx, query)
	if err != nil {
		return nil, newEngineError(err, stagePrepare, query)
	}
	defer rows.Close()
	var objects []schemaObject
	for rows.Next() {
		var object schemaObject
		if err := rows.Scan(&object.kind, &object.name, &object.sql); err != nil {
			return nil, newEngineError(err, stageStep, query)
		}
		objects = append(objects, object)
	}
	if err := rows.Err(); err != nil {
		return nil, newEngineError(err, stageStep, query)
	}
	return objects, nil
}

// readMaterial returns the newest usable backup material as database file
// content.
func (db *Database) readMaterial() ([]byte, error) {
	first, last := db.materialPaths()
	var errs []error
	for _, path := range []string{first, last} {
		data, err := os.ReadFile(path) //nolint:gosec // path built by the database
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err == nil {
			data, err = db.decodeMaterialFile(data)
		}
		if err == nil {
			return data, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrNoMaterial}, errs...)...)
	}
	return nil, ErrNoMaterial
}

func (db *Database) decodeMaterialFile(data []byte) ([]byte, error) {
	m, err := decodeMaterial(data)
	if err != nil {
		return nil, err
	}
	payload := m.payload
	db.mu.Lock()
	cipher := db.cipher
	db.mu.Unlock()
	if m.flags&materialFlagSealed != 0 {
		if cipher == nil {
			return nil, encryptionMismatch(db.path, "backup material is encrypted and no cipher key is set")
		}
		if payload, err = cipher.open(m.salt, payload); err != nil {
			return nil, encryptionMismatch(db.path, "backup material cannot be opened with the cipher key")
		}
	}
	return decompressBytes(payload, m.compression)
}

// Retrieve rebuilds the database from its backup material. The schema is
// created first, then the rows of every table are copied; progress, if not
// nil, is called after each table with the completed fraction and the
// fraction the table added, and cancels the retrieve by returning false.
// Retrieve returns the fraction of tables recovered.
func (db *Database) Retrieve(ctx context.Context, progress func(percentage, increment float64) bool) (float64, error) {
	started := time.Now()
	content, err := db.readMaterial()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return 0, db.report(ctx, e)
		}
		return 0, db.report(ctx, &Error{Kind: KindUnknown, Level: LevelError, Message: err.Error(), Err: err})
	}

	snapshot := db.scratchPath("material")
	target := db.scratchPath("retrieve")
	defer removeFiles(snapshot, snapshot+"-journal", target, target+"-journal", target+"-wal", target+"-shm")
	if err := os.WriteFile(snapshot, content, 0o600); err != nil {
		return 0, db.report(ctx, NewErrorContext("retrieve", db.path).Error(err))
	}

	score, err := rebuild(ctx, snapshot, target, progress)
	if err != nil {
		return score, db.report(ctx, err)
	}

	db.gate.block()
	defer db.gate.unblock()
	db.gate.drain()
	if closeErr := db.closePools(); closeErr != nil {
		return score, db.report(ctx, newEngineError(closeErr, stageOpen, ""))
	}
	removeFiles(db.path+"-wal", db.path+"-shm", db.path+"-journal")
	if err := os.Rename(target, db.path); err != nil {
		return score, db.report(ctx, NewErrorContext("retrieve", db.path).Error(err))
	}
	db.corrupted.Store(false)

	recordRetrieve(time.Since(started))
	db.Logger().InfoContext(ctx, "database retrieved",
		slog.String("path", db.path),
		slog.Float64("score", score),
		slog.Duration("elapsed", time.Since(started)))
	return score, nil
}

// rebuild creates target from the schema and the rows of snapshot.
func rebuild(ctx context.Context, snapshot, target string, progress func(float64, float64) bool) (float64, error) {
	pool, err := sql.Open(driver.Name, target)
	if err != nil {
		return 0, newEngineError(err, stageOpen, "")
	}
	defer pool.Close()
	pool.SetMaxOpenConns(1)

	attach := winq.NewStatementAttach().Attach(snapshot).As("material")
	if _, err := pool.ExecContext(ctx, attach.Description()); err != nil {
		return 0, newEngineError(err, stageStep, attach.Description())
	}
	objects, err := userTables(ctx, pool, "material")
	if err != nil {
		return 0, err
	}
	var tables []string
	for _, object := range objects {
		if _, err := pool.ExecContext(ctx, object.sql); err != nil {
			// shadow tables of a virtual table exist once the virtual table does
			if object.kind == "table" && strings.Contains(err.Error(), "already exists") {
				continue
			}
			return 0, newEngineError(err, stageStep, object.sql)
		}
		if object.kind == "table" && !strings.HasPrefix(strings.ToUpper(object.sql), "CREATE VIRTUAL") {
			tables = append(tables, object.name)
		}
	}
	if len(tables) == 0 {
		return 1, nil
	}

	increment := 1 / float64(len(tables))
	recovered := 0
	for i, table := range tables {
		if err := ctx.Err(); err != nil {
			return float64(recovered) * increment, newEngineError(err, stageStep, "")
		}
		statement := winq.NewStatementInsert().InsertInto(table).Select(
			winq.NewStatementSelect().Select(winq.ResultColumnAll()).From(winq.NewTableOrSubquery(table).Of("material")))
		if _, err := pool.ExecContext(ctx, statement.Description()); err == nil {
			recovered++
		}
		if progress != nil && !progress(float64(i+1)*increment, increment) {
			return float64(recovered) * increment, &Error{Kind: KindCancelled, Level: LevelWarning, Message: "retrieve cancelled"}
		}
	}
	detach := winq.NewStatementDetach("material")
	if _, err := pool.ExecContext(ctx, detach.Description()); err != nil {
		return 0, newEngineError(err, stageStep, detach.Description())
	}
	return float64(recovered) * increment, nil
}

// autoBackup schedules a backup some time after writes.
type autoBackup struct {
	mu          sync.Mutex
	enabled     bool
	delay       time.Duration
	timer       *time.Timer
	compression model.CompressionType
}

// EnableAutoBackup turns automatic backup on or off. When on, a write
// schedules a backup after the auto backup delay.
func (db *Database) EnableAutoBackup(on bool) {
	a := &db.autoBackup
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = on
	if a.delay == 0 {
		a.delay = DefaultAutoBackupDelay
	}
	if !on && a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// SetAutoBackupDelay sets the delay between a write and the automatic
// backup it schedules.
func (db *Database) SetAutoBackupDelay(delay time.Duration) {
	a := &db.autoBackup
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = delay
}

// noteWrite schedules an automatic backup if none is pending.
func (db *Database) noteWrite() {
	a := &db.autoBackup
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled || a.timer != nil {
		return
	}
	a.timer = time.AfterFunc(a.delay, func() {
		a.mu.Lock()
		a.timer = nil
		a.mu.Unlock()
		if err := db.Backup(context.Background()); err != nil {
			db.Logger().Warn("auto backup failed", slog.String("path", db.path), slog.Any("error", err))
		}
	})
}

func (db *Database) stopAutoBackup() {
	a := &db.autoBackup
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func removeFiles(paths ...string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}
