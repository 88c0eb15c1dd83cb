package wcdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/domain/model"
)

func exportFixture(t *testing.T) *Database {
	t.Helper()
	db := openTestDatabase(t)
	table := createTestTable(t, db, "messages", messageBinding)
	require.NoError(t, table.InsertObjects(context.Background(), []*message{
		{Sender: "alice", Body: textPointer("hello, world"), SentAt: 10},
		{Sender: "bob", SentAt: 20},
	}))
	return db
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts model.ExportOptions
	}{
		{name: "csv", opts: model.NewExportOptions()},
		{name: "tsv gzip", opts: model.NewExportOptions().WithFormat(model.OutputFormatTSV).WithCompression(model.CompressionGZ)},
		{name: "ltsv xz", opts: model.NewExportOptions().WithFormat(model.OutputFormatLTSV).WithCompression(model.CompressionXZ)},
		{name: "csv zstd", opts: model.NewExportOptions().WithCompression(model.CompressionZSTD)},
		{name: "parquet", opts: model.NewExportOptions().WithFormat(model.OutputFormatParquet)},
		{name: "xlsx", opts: model.NewExportOptions().WithFormat(model.OutputFormatXLSX)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			source := exportFixture(t)
			path := filepath.Join(t.TempDir(), "messages"+tt.opts.FileExtension())
			require.NoError(t, source.ExportTable(ctx, "messages", path, tt.opts))
			require.FileExists(t, path)

			target := openTestDatabase(t)
			imported, err := target.ImportTable(ctx, path, "")
			require.NoError(t, err)
			assert.Equal(t, 2, imported)

			rows, err := target.GetValuesFromSQL(ctx, "SELECT id, sender, sent_at FROM messages ORDER BY id")
			require.NoError(t, err)
			assert.Equal(t, MultiRows{
				{IntValue(1), TextValue("alice"), IntValue(10)},
				{IntValue(2), TextValue("bob"), IntValue(20)},
			}, rows)

			body, err := target.GetValueFromSQL(ctx, "SELECT body FROM messages WHERE id = 1")
			require.NoError(t, err)
			assert.Equal(t, "hello, world", body.Text())
		})
	}
}

func TestExportNullCells(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := exportFixture(t)
	path := filepath.Join(t.TempDir(), "messages.csv")
	require.NoError(t, db.ExportTable(ctx, "messages", path, model.NewExportOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,sender,body,sent_at", lines[0])
	assert.Equal(t, `1,alice,"hello, world",10`, lines[1])
	assert.Equal(t, "2,bob,,20", lines[2])
}

func TestExportDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := exportFixture(t)
	createTestTable(t, db, "channel_values", channelValueBinding)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := db.ExportDatabase(ctx, dir, model.NewExportOptions().WithFormat(model.OutputFormatTSV))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "channel_values.tsv"),
		filepath.Join(dir, "messages.tsv"),
	}, paths)

	empty := openTestDatabase(t)
	_, err = empty.ExportDatabase(ctx, dir, model.NewExportOptions())
	require.ErrorIs(t, err, ErrNoTables)
}

func TestExportErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := exportFixture(t)
	dir := t.TempDir()

	err := db.ExportTable(ctx, "missing", filepath.Join(dir, "missing.csv"), model.NewExportOptions())
	require.ErrorIs(t, err, ErrNoTables)

	err = db.ExportTable(ctx, "messages", filepath.Join(dir, "messages.bin"), model.NewExportOptions().WithFormat(model.OutputFormatUnknown))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportIntoExistingTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	createTestTable(t, db, "messages", messageBinding)

	imported, err := db.ImportReader(ctx, strings.NewReader("sender,sent_at\ncarol,30\ndave,\n"), "batch.csv", "messages")
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	objects, err := GetAllObjects(ctx, db, messageBinding.AllBindingFields(), "messages")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, message{ID: 1, Sender: "carol", SentAt: 30}, *objects[0])
	assert.Equal(t, "dave", objects[1].Sender)

	_, err = db.ImportReader(ctx, strings.NewReader(""), "empty.csv", "messages")
	require.ErrorIs(t, err, ErrEmptyData)

	_, err = db.ImportReader(ctx, strings.NewReader("x"), "batch.txt", "messages")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = db.ImportReader(ctx, strings.NewReader("unknown\n1\n"), "batch.csv", "messages")
	require.ErrorIs(t, err, ErrPreparationFailed, "the header names a column the table does not have")
}
