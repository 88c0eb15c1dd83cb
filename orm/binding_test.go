package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/winq"
)

type allTypes struct {
	ABool   bool    `wcdb:"a_bool"`
	AByte   int8    `wcdb:"a_byte"`
	AShort  int16   `wcdb:"a_short"`
	AInt    int32   `wcdb:"a_int"`
	ALong   int64   `wcdb:"a_long"`
	AFloat  float32 `wcdb:"a_float"`
	ADouble float64 `wcdb:"a_double"`
	AString string  `wcdb:"a_string"`
}

type conversation struct {
	_         struct{} `wcdb:"table,primaries=category+target_id+channel_id"`
	Category  int32    `wcdb:"category"`
	TargetID  string   `wcdb:"target_id"`
	ChannelID string   `wcdb:"channel_id"`
	Value     *string  `wcdb:"value"`
}

type indexed struct {
	_      struct{} `wcdb:"table,index=multiIndex1+multiIndex2,index=specifiedNameIndex:value+multiIndex1"`
	Value  int64    `wcdb:"value,index"`
	Named  int64    `wcdb:"named,unique_index=namedIndex"`
	Multi1 int64    `wcdb:"multiIndex1"`
	Multi2 int64    `wcdb:"multiIndex2"`
}

type document struct {
	_       struct{} `wcdb:"table,fts=fts5,tokenizer=porter unicode61,content=contentTable"`
	ID      int64    `wcdb:"id,notindexed"`
	Content string   `wcdb:"content"`
}

type legacyDocument struct {
	_       struct{} `wcdb:"table,fts=fts3,tokenizer=wcdb_one_or_binary skip_stemming"`
	ID      int64    `wcdb:"id,notindexed"`
	Content string   `wcdb:"content"`
}

func TestBindingGenerateCreateTableStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		binding func() *Binding
		want    string
	}{
		{
			name:    "every field type",
			binding: func() *Binding { return MustReflect[allTypes]().BaseBinding() },
			want:    "CREATE TABLE IF NOT EXISTS testTable(a_bool INTEGER, a_byte INTEGER, a_short INTEGER, a_int INTEGER, a_long INTEGER, a_float REAL, a_double REAL, a_string TEXT)",
		},
		{
			name:    "composite primary key",
			binding: func() *Binding { return MustReflect[conversation]().BaseBinding() },
			want:    "CREATE TABLE IF NOT EXISTS testTable(category INTEGER, target_id TEXT, channel_id TEXT, value TEXT, PRIMARY KEY(category, target_id, channel_id))",
		},
		{
			name: "auto increment primary key",
			binding: func() *Binding {
				b := NewBinding()
				b.AddColumnDef(winq.NewColumnDef("value", winq.ColumnTypeInteger).MakePrimary(true))
				return b
			},
			want: "CREATE TABLE IF NOT EXISTS testTable(value INTEGER PRIMARY KEY AUTOINCREMENT)",
		},
		{
			name: "default value",
			binding: func() *Binding {
				b := NewBinding()
				b.AddColumnDef(winq.NewColumnDef("value", winq.ColumnTypeFloat).MakeDefaultTo(1.1))
				return b
			},
			want: "CREATE TABLE IF NOT EXISTS testTable(value REAL DEFAULT 1.1000000000000001)",
		},
		{
			name: "without rowid",
			binding: func() *Binding {
				b := NewBinding()
				b.AddColumnDef(winq.NewColumnDef("value", winq.ColumnTypeInteger).MakePrimary(false))
				b.ConfigWithoutRowID()
				return b
			},
			want: "CREATE TABLE IF NOT EXISTS testTable(value INTEGER PRIMARY KEY) WITHOUT ROWID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.binding().GenerateCreateTableStatement("testTable").Description())
		})
	}
}

func TestBindingGenerateIndexStatements(t *testing.T) {
	t.Parallel()

	binding := MustReflect[indexed]().BaseBinding()
	creates, drops := binding.GenerateIndexStatements("testTable", false)
	var got []string
	for _, statement := range creates {
		got = append(got, statement.Description())
	}
	assert.Equal(t, []string{
		"CREATE INDEX IF NOT EXISTS testTable_value_index ON testTable(value)",
		"CREATE UNIQUE INDEX IF NOT EXISTS namedIndex ON testTable(named)",
		"CREATE INDEX IF NOT EXISTS testTable_multiIndex1_multiIndex2_index ON testTable(multiIndex1, multiIndex2)",
		"CREATE INDEX IF NOT EXISTS specifiedNameIndex ON testTable(value, multiIndex1)",
	}, got)
	assert.Empty(t, drops)
}

func TestBindingGenerateCreateVirtualTableStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		binding *Binding
		want    string
	}{
		{
			name:    "fts5 with external content",
			binding: MustReflect[document]().BaseBinding(),
			want:    "CREATE VIRTUAL TABLE IF NOT EXISTS testTable USING fts5(tokenize = 'porter unicode61', content='contentTable', id UNINDEXED, content)",
		},
		{
			name:    "fts3 takes typed columns",
			binding: MustReflect[legacyDocument]().BaseBinding(),
			want:    "CREATE VIRTUAL TABLE IF NOT EXISTS testTable USING fts3(tokenize = wcdb_one_or_binary skip_stemming, id INTEGER, content TEXT, notindexed=id)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.binding.GenerateCreateVirtualTableStatement("testTable").Description())
		})
	}
}

func TestBindingIsFrozenAfterFirstRead(t *testing.T) {
	t.Parallel()

	binding := NewBinding()
	binding.AddColumnDef(winq.NewColumnDef("a", winq.ColumnTypeInteger))
	binding.AddColumnDef(winq.NewColumnDef("A", winq.ColumnTypeText))
	require.Len(t, binding.ColumnDefs(), 1)
	assert.Equal(t, winq.ColumnTypeText, binding.ColumnDef("a").ColumnType())

	binding.AddColumnDef(winq.NewColumnDef("b", winq.ColumnTypeInteger))
	binding.ConfigWithoutRowID()
	assert.Len(t, binding.ColumnDefs(), 1)
	assert.Nil(t, binding.ColumnDef("b"))
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS t(A TEXT)", binding.GenerateCreateTableStatement("t").Description())
}

func TestBindingCreateTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates a missing table with its indexes", func(t *testing.T) {
		t.Parallel()

		binding := NewBinding()
		binding.AddColumnDef(winq.NewColumnDef("id", winq.ColumnTypeInteger).MakePrimary(false))
		binding.AddColumnDef(winq.NewColumnDef("name", winq.ColumnTypeText))
		binding.AddIndex(IndexSuffix("name"), false, winq.NewStatementCreateIndex().IndexedBy("name"))
		binding.AddIndexForNewlyCreatedTableOnly("onlyNew", true, winq.NewStatementCreateIndex().IndexedBy("id", "name"))

		executor := newRecordingExecutor()
		require.NoError(t, binding.CreateTable(ctx, "people", executor))
		assert.Equal(t, 1, executor.inTx)
		assert.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS people(id INTEGER PRIMARY KEY, name TEXT)",
			"CREATE INDEX IF NOT EXISTS people_name_index ON people(name)",
			"CREATE INDEX IF NOT EXISTS onlyNew ON people(id, name)",
		}, executor.run)
	})

	t.Run("adds missing columns and reports unknown ones", func(t *testing.T) {
		t.Parallel()

		binding := NewBinding()
		binding.AddColumnDef(winq.NewColumnDef("id", winq.ColumnTypeInteger))
		binding.AddColumnDef(winq.NewColumnDef("name", winq.ColumnTypeText))
		binding.AddIndexForNewlyCreatedTableOnly("onlyNew", true, winq.NewStatementCreateIndex().IndexedBy("id"))
		binding.DropIndex("_old_index", false)

		executor := newRecordingExecutor()
		executor.tables["people"] = []string{"ID", "legacy"}
		require.NoError(t, binding.CreateTable(ctx, "people", executor))
		assert.Equal(t, []string{
			"ALTER TABLE people ADD COLUMN name TEXT",
			"DROP INDEX IF EXISTS people_old_index",
		}, executor.run)
		assert.Equal(t, []Notice{
			{Message: NoticeAddColumn, Table: "people", Column: "name"},
			{Message: NoticeSkipColumn, Table: "people", Column: "legacy"},
		}, executor.notices)
	})

	t.Run("second call without schema change executes nothing", func(t *testing.T) {
		t.Parallel()

		binding := MustReflect[allTypes]().BaseBinding()
		executor := newRecordingExecutor()
		executor.tables["t"] = []string{"a_bool", "a_byte", "a_short", "a_int", "a_long", "a_float", "a_double", "a_string"}
		require.NoError(t, binding.CreateTable(ctx, "t", executor))
		assert.Empty(t, executor.run)
		assert.Empty(t, executor.notices)
	})

	t.Run("migrates an existing table to auto increment", func(t *testing.T) {
		t.Parallel()

		binding := NewBinding()
		binding.AddColumnDef(winq.NewColumnDef("id", winq.ColumnTypeInteger).MakePrimary(true))
		binding.AddColumnDef(winq.NewColumnDef("name", winq.ColumnTypeText))
		binding.AddIndexForNewlyCreatedTableOnly("_name_index", false, winq.NewStatementCreateIndex().IndexedBy("name"))
		binding.EnableAutoIncrementForExistingTable()

		executor := newRecordingExecutor()
		executor.tables["people"] = []string{"id", "name"}
		executor.sql["people"] = "CREATE TABLE people(id INTEGER PRIMARY KEY, name TEXT)"
		require.NoError(t, binding.CreateTable(ctx, "people", executor))
		assert.Equal(t, []string{
			"DROP TABLE IF EXISTS wcdb_migrating_people",
			"ALTER TABLE people RENAME TO wcdb_migrating_people",
			"CREATE TABLE IF NOT EXISTS people(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)",
			"INSERT INTO people(id, name) SELECT id, name FROM wcdb_migrating_people ORDER BY id ASC",
			"DROP TABLE wcdb_migrating_people",
			"CREATE INDEX IF NOT EXISTS people_name_index ON people(name)",
		}, executor.run)

		executor.run = nil
		executor.sql["people"] = "CREATE TABLE people(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)"
		require.NoError(t, binding.CreateTable(ctx, "people", executor))
		assert.Empty(t, executor.run)
	})

	t.Run("refuses auto increment on a without rowid table", func(t *testing.T) {
		t.Parallel()

		binding := NewBinding()
		binding.AddColumnDef(winq.NewColumnDef("id", winq.ColumnTypeInteger).MakePrimary(true))
		binding.EnableAutoIncrementForExistingTable()

		executor := newRecordingExecutor()
		executor.tables["people"] = []string{"id"}
		executor.sql["people"] = "CREATE TABLE people(id INTEGER PRIMARY KEY) WITHOUT ROWID"
		require.ErrorIs(t, binding.CreateTable(ctx, "people", executor), ErrAutoIncrementWithoutRowID)
	})

	t.Run("refuses auto increment without integer primary key", func(t *testing.T) {
		t.Parallel()

		binding := NewBinding()
		binding.AddColumnDef(winq.NewColumnDef("id", winq.ColumnTypeText).MakePrimary(false))
		binding.EnableAutoIncrementForExistingTable()

		executor := newRecordingExecutor()
		executor.tables["people"] = []string{"id"}
		executor.sql["people"] = "CREATE TABLE people(id TEXT PRIMARY KEY)"
		require.ErrorIs(t, binding.CreateTable(ctx, "people", executor), ErrNoIntegerPrimaryKey)
	})

	t.Run("creates a virtual table without reconciliation", func(t *testing.T) {
		t.Parallel()

		executor := newRecordingExecutor()
		require.NoError(t, MustReflect[document]().BaseBinding().CreateTable(ctx, "docs", executor))
		assert.Zero(t, executor.inTx)
		assert.Equal(t, []string{
			"CREATE VIRTUAL TABLE IF NOT EXISTS docs USING fts5(tokenize = 'porter unicode61', content='contentTable', id UNINDEXED, content)",
		}, executor.run)
	})
}
