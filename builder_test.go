package wcdb

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/domain/model"
)

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	builder := NewBuilder("app.db")
	require.NotNil(t, builder)
	assert.Equal(t, "app.db", builder.path)
	assert.Empty(t, builder.paths)
	assert.Empty(t, builder.filesystems)

	builder.AddPath("a.csv", "b.tsv").AddFS(fstest.MapFS{})
	assert.Equal(t, []string{"a.csv", "b.tsv"}, builder.paths)
	assert.Len(t, builder.filesystems, 1)
}

func TestDatabaseBuilderBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,alice\n"), 0o600))
	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o600))

	tests := []struct {
		name      string
		builder   func() *DatabaseBuilder
		wantErr   error
		wantSeeds int
	}{
		{
			name:    "no seeds",
			builder: func() *DatabaseBuilder { return NewBuilder(filepath.Join(dir, "a.db")) },
		},
		{
			name:      "file",
			builder:   func() *DatabaseBuilder { return NewBuilder(filepath.Join(dir, "a.db")).AddPath(csvPath) },
			wantSeeds: 1,
		},
		{
			name:      "directory skips unsupported files",
			builder:   func() *DatabaseBuilder { return NewBuilder(filepath.Join(dir, "a.db")).AddPath(dir) },
			wantSeeds: 1,
		},
		{
			name:    "unsupported file",
			builder: func() *DatabaseBuilder { return NewBuilder(filepath.Join(dir, "a.db")).AddPath(textPath) },
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "empty path",
			builder: func() *DatabaseBuilder { return NewBuilder("") },
			wantErr: ErrInvalidPath,
		},
		{
			name: "empty filesystem",
			builder: func() *DatabaseBuilder {
				return NewBuilder(filepath.Join(dir, "a.db")).AddFS(fstest.MapFS{"readme.md": {Data: []byte("x")}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			builder, err := tt.builder().Build(context.Background())
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.name == "empty filesystem":
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Len(t, builder.collected, tt.wantSeeds)
			}
		})
	}
}

func TestDatabaseBuilderMissingPath(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(filepath.Join(t.TempDir(), "a.db")).AddPath("does/not/exist.csv").Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed path does not exist")
}

func TestDatabaseBuilderSeeds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seeds := fstest.MapFS{
		"users.csv":          {Data: []byte("id,name,score\n1,alice,1.5\n2,bob,2\n")},
		"nested/orders.tsv":  {Data: []byte("id\tuser_id\n10\t1\n")},
		"events.ltsv.gz":     {Data: gzipBytes(t, "id:1\tkind:login\nid:2\tkind:logout\n")},
		"users.tsv":          {Data: []byte("id\tname\n9\tshadowed\n")},
		"nested/ignored.txt": {Data: []byte("x")},
	}
	path := filepath.Join(t.TempDir(), "seeded.db")

	db, err := NewBuilder(path).AddFS(seeds).Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close(nil)) })

	names, err := db.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "orders", "users"}, names)

	users, err := db.GetValuesFromSQL(ctx, "SELECT id, name, score FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, MultiRows{
		{IntValue(1), TextValue("alice"), FloatValue(1.5)},
		{IntValue(2), TextValue("bob"), FloatValue(2)},
	}, users)

	kinds, err := db.GetValuesFromSQL(ctx, "SELECT kind FROM events ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, MultiRows{{TextValue("login")}, {TextValue("logout")}}, kinds)

	_, err = NewBuilder(path).AddFS(seeds).Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, db, "users"), "seeds only fill tables that do not exist yet")
}

func TestDatabaseBuilderOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "options.db")

	var configured int
	db, err := NewBuilder(path).
		WithTag(42).
		WithJournalMode("TRUNCATE").
		WithSynchronous("FULL").
		WithBusyTimeout(time.Second).
		WithForeignKeys(true).
		WithBackupCompression(model.CompressionGZ).
		WithConfig("count", func(context.Context, *Handle) error {
			configured++
			return nil
		}, ConfigPriorityLow).
		Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close(nil)) })

	assert.Equal(t, int64(42), db.Tag())
	h := db.GetHandle(true)
	defer h.Invalidate()
	mode, err := h.GetValueFromSQL(ctx, "PRAGMA journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "truncate", mode.Text())
	foreignKeys, err := db.GetValueFromSQL(ctx, "PRAGMA foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, int64(1), foreignKeys.Int())
	assert.Positive(t, configured)

	_, err = NewBuilder(path).WithJournalMode("WAL").Open(ctx)
	require.ErrorIs(t, err, ErrMisuse, "options cannot change an opened database")

	_, err = NewBuilder(path).WithCipherKey([]byte("late"), 0, CipherVersionDefault).Open(ctx)
	require.ErrorIs(t, err, ErrMisuse)
}

func TestDatabaseBuilderCipher(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cipher.db")

	_, err := NewBuilder(path).WithCipherKey([]byte{}, 0, CipherVersionDefault).Build(ctx)
	require.Error(t, err)

	db, err := NewBuilder(path).
		WithCipherKey([]byte("secret"), 0, CipherVersionDefault).
		AddFS(fstest.MapFS{"users.csv": {Data: []byte("id\n1\n")}}).
		Open(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Close(nil))

	require.NoError(t, db.SetCipherKey([]byte("wrong"), 0, CipherVersionDefault))
	require.ErrorIs(t, db.ExecuteSQL(ctx, "SELECT 1"), ErrEncryptionMismatch)

	require.NoError(t, db.SetCipherKey([]byte("secret"), 0, CipherVersionDefault))
	assert.Equal(t, int64(1), countRows(t, db, "users"))
	require.NoError(t, db.Close(nil))
}
