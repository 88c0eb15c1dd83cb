package wcdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Tencent/wcdb-sub001/domain/model"
	"github.com/Tencent/wcdb-sub001/driver"
)

// DatabaseBuilder configures a Database before its file is opened. Use
// NewBuilder to create one, chain the With methods and finish with Open.
//
// The typical usage pattern is:
//
//	db, err := wcdb.NewBuilder("app.db").
//		WithCipherKey([]byte("secret"), 0, wcdb.CipherVersionDefault).
//		EnableAutoBackup(time.Minute).
//		AddPath("seed/users.csv").
//		Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer db.Close(nil)
//
// Seed files added with AddPath or AddFS are imported on Open into the
// tables named after them, but only into tables that do not exist yet, so
// opening the same builder twice does not duplicate rows.
type DatabaseBuilder struct {
	path string
	// tag is set on the database when not nil
	tag    *int64
	logger *slog.Logger

	cipher  *builderCipher
	configs []namedConfig
	options []func(o *options)

	autoBackup        bool
	autoBackupDelay   time.Duration
	backupCompression *model.CompressionType

	// paths contains seed file and directory paths
	paths []string
	// filesystems contains seed fs.FS instances
	filesystems []fs.FS
	// collected contains every seed file after Build validation
	collected []seedFile
	built     bool
}

type builderCipher struct {
	key      []byte
	pageSize int
	version  CipherVersion
}

// seedFile is a file to import, read from a filesystem.
type seedFile struct {
	fsys fs.FS
	name string
}

// NewBuilder creates a builder for the database file at path.
func NewBuilder(path string) *DatabaseBuilder {
	return &DatabaseBuilder{path: path}
}

// WithTag sets the tag of the database.
func (b *DatabaseBuilder) WithTag(tag int64) *DatabaseBuilder {
	b.tag = &tag
	return b
}

// WithLogger sets the logger of the database.
func (b *DatabaseBuilder) WithLogger(logger *slog.Logger) *DatabaseBuilder {
	b.logger = logger
	return b
}

// WithCipherKey sets the cipher key. See Database.SetCipherKey.
func (b *DatabaseBuilder) WithCipherKey(key []byte, pageSize int, version CipherVersion) *DatabaseBuilder {
	b.cipher = &builderCipher{key: key, pageSize: pageSize, version: version}
	return b
}

// WithConfig adds a named handle config. See Database.SetConfig.
func (b *DatabaseBuilder) WithConfig(name string, invocation HandleConfig, priority int) *DatabaseBuilder {
	b.configs = append(b.configs, namedConfig{name: name, invocation: invocation, priority: priority})
	return b
}

// WithMaxOpenConns sets how many read connections the database keeps
// open at most. Writes always use a single connection.
func (b *DatabaseBuilder) WithMaxOpenConns(n int) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.maxReaders = n })
	return b
}

// WithJournalMode sets the journal mode, WAL by default.
func (b *DatabaseBuilder) WithJournalMode(mode string) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.journalMode = mode })
	return b
}

// WithSynchronous sets the synchronous level, NORMAL by default.
func (b *DatabaseBuilder) WithSynchronous(level string) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.synchronous = level })
	return b
}

// WithBusyTimeout sets how long a connection waits for a lock.
func (b *DatabaseBuilder) WithBusyTimeout(timeout time.Duration) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.busyTimeout = timeout })
	return b
}

// WithForeignKeys turns foreign key enforcement on or off.
func (b *DatabaseBuilder) WithForeignKeys(on bool) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.foreignKeys = on })
	return b
}

// WithAutoCheckpoint sets the WAL size in pages that triggers an automatic
// checkpoint.
func (b *DatabaseBuilder) WithAutoCheckpoint(pages int) *DatabaseBuilder {
	b.options = append(b.options, func(o *options) { o.autoCheckpoint = pages })
	return b
}

// EnableAutoBackup enables automatic backup after writes. A zero delay
// keeps DefaultAutoBackupDelay.
func (b *DatabaseBuilder) EnableAutoBackup(delay time.Duration) *DatabaseBuilder {
	b.autoBackup = true
	b.autoBackupDelay = delay
	return b
}

// DisableAutoBackup disables automatic backup (default behavior).
func (b *DatabaseBuilder) DisableAutoBackup() *DatabaseBuilder {
	b.autoBackup = false
	b.autoBackupDelay = 0
	return b
}

// WithBackupCompression sets the compression of backup material.
func (b *DatabaseBuilder) WithBackupCompression(compression model.CompressionType) *DatabaseBuilder {
	b.backupCompression = &compression
	return b
}

// AddPath adds seed files. A path can be a single file with a supported
// extension (.csv, .tsv, .ltsv, .parquet, .xlsx, text formats optionally
// compressed with .gz, .bz2, .xz or .zst) or a directory, searched
// recursively.
func (b *DatabaseBuilder) AddPath(paths ...string) *DatabaseBuilder {
	b.paths = append(b.paths, paths...)
	b.built = false
	return b
}

// AddFS adds every supported file of filesystem as a seed file. This is
// useful with embedded filesystems:
//
//	//go:embed seed
//	var seedFS embed.FS
//
//	builder := wcdb.NewBuilder("app.db").AddFS(seedFS)
func (b *DatabaseBuilder) AddFS(filesystem fs.FS) *DatabaseBuilder {
	b.filesystems = append(b.filesystems, filesystem)
	b.built = false
	return b
}

// Build validates the path and the seed inputs. Open calls it when it was
// not called before.
func (b *DatabaseBuilder) Build(_ context.Context) (*DatabaseBuilder, error) {
	if err := driver.ValidatePath(b.path); err != nil {
		return nil, &Error{Kind: KindInvalidPath, Level: LevelError, Message: err.Error(), Path: b.path, Err: err}
	}
	if b.cipher != nil && len(b.cipher.key) == 0 {
		return nil, errors.New("wcdb: cipher key must not be empty")
	}

	b.collected = b.collected[:0]
	for _, path := range b.paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("wcdb: seed path does not exist: %s", path)
			}
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			if !isImportable(path) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
			}
			b.collected = append(b.collected, seedFile{fsys: os.DirFS(filepath.Dir(path)), name: filepath.Base(path)})
			continue
		}
		files, err := collectSeedFiles(os.DirFS(path))
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", path, err)
		}
		b.collected = append(b.collected, files...)
	}
	for _, filesystem := range b.filesystems {
		if filesystem == nil {
			return nil, errors.New("wcdb: FS cannot be nil")
		}
		files, err := collectSeedFiles(filesystem)
		if err != nil {
			return nil, fmt.Errorf("failed to process FS input: %w", err)
		}
		if len(files) == 0 {
			return nil, errors.New("wcdb: no supported files found in filesystem")
		}
		b.collected = append(b.collected, files...)
	}
	b.built = true
	return b, nil
}

// Open applies the configuration to the database of the path, opens its
// file and imports the seed files. Options and cipher keys fail with
// ErrMisuse when the database of the path is already opened.
func (b *DatabaseBuilder) Open(ctx context.Context) (*Database, error) {
	if !b.built {
		if _, err := b.Build(ctx); err != nil {
			return nil, err
		}
	}
	db, err := Open(b.path)
	if err != nil {
		return nil, err
	}
	if err := b.apply(db); err != nil {
		return nil, err
	}
	if _, _, err := db.open(ctx); err != nil {
		return nil, err
	}
	for _, file := range b.collected {
		if err := b.seed(ctx, db, file); err != nil {
			return nil, errors.Join(err, db.Close(nil))
		}
	}
	return db, nil
}

func (b *DatabaseBuilder) apply(db *Database) error {
	if b.tag != nil {
		db.SetTag(*b.tag)
	}
	if b.logger != nil {
		db.SetLogger(b.logger)
	}
	if len(b.options) > 0 {
		if err := db.configure(func(o *options) {
			for _, option := range b.options {
				option(o)
			}
		}); err != nil {
			return err
		}
	}
	if b.cipher != nil {
		if err := db.SetCipherKey(b.cipher.key, b.cipher.pageSize, b.cipher.version); err != nil {
			return err
		}
	}
	for _, config := range b.configs {
		db.SetConfig(config.name, config.invocation, config.priority)
	}
	if b.backupCompression != nil {
		db.SetBackupCompression(*b.backupCompression)
	}
	if b.autoBackup {
		if b.autoBackupDelay > 0 {
			db.SetAutoBackupDelay(b.autoBackupDelay)
		}
		db.EnableAutoBackup(true)
	}
	return nil
}

// seed imports file unless its table exists.
func (b *DatabaseBuilder) seed(ctx context.Context, db *Database, file seedFile) error {
	table := model.TableFromFilePath(file.name)
	exists, err := db.TableExists(ctx, table)
	if err != nil || exists {
		return err
	}
	f, err := file.fsys.Open(file.name)
	if err != nil {
		return fmt.Errorf("failed to open seed file %s: %w", file.name, err)
	}
	defer f.Close()
	rows, err := db.ImportReader(ctx, f, file.name, table)
	if err != nil {
		return err
	}
	db.Logger().InfoContext(ctx, "seed file imported",
		slog.String("file", file.name),
		slog.String("table", table),
		slog.Int("rows", rows))
	return nil
}

// collectSeedFiles returns every supported file of filesystem. When the
// same table has files in several formats, the first one in walk order
// wins.
func collectSeedFiles(filesystem fs.FS) ([]seedFile, error) {
	var files []seedFile
	tables := make(map[string]struct{})
	err := fs.WalkDir(filesystem, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImportable(path) {
			return nil
		}
		table := model.TableFromFilePath(path)
		if _, ok := tables[table]; ok {
			return nil
		}
		tables[table] = struct{}{}
		files = append(files, seedFile{fsys: filesystem, name: path})
		return nil
	})
	return files, err
}

// isImportable reports whether name has a format ImportReader reads.
func isImportable(name string) bool {
	format, _ := model.DetectFormat(name)
	return format != model.OutputFormatUnknown
}
