package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/winq"
)

type level int8

type message struct {
	_        struct{} `wcdb:"table,unique=sender+content"`
	ID       int64    `wcdb:"id,primary,autoincrement"`
	Sender   string   `wcdb:"sender,notnull"`
	Content  *string  `wcdb:"content"`
	Level    level    `wcdb:"level,default=3"`
	Read     bool     `wcdb:"read"`
	Score    *float64 `wcdb:"score"`
	Payload  []byte   `wcdb:"payload"`
	Internal string   `wcdb:"-"`
}

func TestReflectFields(t *testing.T) {
	t.Parallel()

	binding := MustReflect[message]()
	fields := binding.AllBindingFields()
	require.Len(t, fields, 7)

	var names []string
	for i, field := range fields {
		names = append(names, field.Name())
		assert.Equal(t, i+1, field.ID())
		assert.Same(t, binding, field.TableBinding())
	}
	assert.Equal(t, []string{"id", "sender", "content", "level", "read", "score", "payload"}, names)
	assert.True(t, fields[0].IsPrimaryKey())
	assert.True(t, fields[0].IsAutoIncrement())
	assert.Same(t, fields[1], binding.Field("Sender"))
	assert.Same(t, fields[1], binding.Field("sender"))
	assert.Same(t, fields[0], AutoIncrementField(fields))

	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS message(id INTEGER PRIMARY KEY AUTOINCREMENT, sender TEXT NOT NULL, content TEXT, level INTEGER DEFAULT 3, read INTEGER, score REAL, payload BLOB, UNIQUE(sender, content))",
		binding.BaseBinding().GenerateCreateTableStatement("message").Description())

	other, err := Reflect[message]()
	require.NoError(t, err)
	assert.Same(t, binding, other)
}

func TestReflectFieldsAreExpressions(t *testing.T) {
	t.Parallel()

	binding := MustReflect[message]()
	sender := binding.Field("sender")
	statement := winq.NewStatementSelect().
		Select(ColumnsOf(binding.AllBindingFields()[:2])...).
		From("message").
		Where(sender.Eq("alice").And(binding.Field("level").Gt(1)))
	assert.Equal(t, "SELECT id, sender FROM message WHERE (sender == 'alice') AND (level > 1)", statement.Description())
}

func TestReflectBindAndExtract(t *testing.T) {
	t.Parallel()

	binding := MustReflect[message]()
	fields := binding.AllBindingFields()

	t.Run("bind every field", func(t *testing.T) {
		t.Parallel()

		content := "hello"
		object := &message{ID: 7, Sender: "alice", Content: &content, Level: 2, Read: true, Payload: []byte{1, 2}}
		statement := newRowStatement()
		BindObject(statement, object, fields, 1)
		assert.Equal(t, map[int]any{
			1: int64(7), 2: "alice", 3: "hello", 4: int64(2), 5: true, 6: nil, 7: []byte{1, 2},
		}, statement.bound)
	})

	t.Run("extract every field", func(t *testing.T) {
		t.Parallel()

		statement := newRowStatement(int64(9), "bob", nil, int64(5), true, 0.5, []byte("x"))
		object := ExtractObject(statement, fields)
		require.NotNil(t, object)
		assert.Equal(t, &message{ID: 9, Sender: "bob", Level: 5, Read: true, Score: ptr(0.5), Payload: []byte("x")}, object)
	})

	t.Run("extract a subset of fields", func(t *testing.T) {
		t.Parallel()

		statement := newRowStatement("carol", "text")
		object := ExtractObject(statement, []*Field[message]{fields[1], fields[2]})
		assert.Equal(t, &message{Sender: "carol", Content: ptr("text")}, object)
	})

	t.Run("auto increment", func(t *testing.T) {
		t.Parallel()

		object := &message{}
		assert.True(t, binding.IsAutoIncrement(object))
		binding.SetLastInsertRowID(object, 42)
		assert.Equal(t, int64(42), object.ID)
		assert.False(t, binding.IsAutoIncrement(object))
	})
}

func TestReflectRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	type unsupported struct {
		When struct{} `wcdb:"when"`
	}
	type twoPrimaries struct {
		A int64 `wcdb:"a,primary"`
		B int64 `wcdb:"b,primary"`
	}

	_, err := Reflect[unsupported]()
	require.ErrorIs(t, err, ErrInvalidTag)
	_, err = Reflect[twoPrimaries]()
	require.ErrorIs(t, err, ErrInvalidTag)
	_, err = Reflect[int]()
	require.ErrorIs(t, err, ErrInvalidTag)
	assert.Panics(t, func() { MustReflect[twoPrimaries]() })
}

func TestOptionalHelpers(t *testing.T) {
	t.Parallel()

	statement := newRowStatement(nil, int64(3))
	BindOptional[int64](statement, 1, nil, statement.BindInt64)
	BindOptional(statement, 2, ptr(int64(4)), statement.BindInt64)
	assert.Equal(t, map[int]any{1: nil, 2: int64(4)}, statement.bound)

	assert.Nil(t, GetOptional(statement, 0, statement.GetInt64))
	assert.Equal(t, ptr(int64(3)), GetOptional(statement, 1, statement.GetInt64))
}

func TestFTSModuleArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		module      FTSModule
		wantTokens  string
		wantContent string
	}{
		{
			name: "fts5 quotes the tokenizer",
			module: FTSModule{
				Version: FTS5, Tokenizer: TokenizerVerbatim,
				TokenizerParameters: []string{TokenizerParameterSkipStemming, TokenizerParameterSimplifyChinese},
				ExternalTable:       "contentTable",
			},
			wantTokens:  "tokenize = 'wcdb_verbatim skip_stemming chinese_traditional_to_simplified'",
			wantContent: "content='contentTable'",
		},
		{
			name:       "fts4 keeps barewords",
			module:     FTSModule{Version: FTS4, Tokenizer: TokenizerOneOrBinary, TokenizerParameters: []string{TokenizerParameterNeedSymbol}},
			wantTokens: "tokenize = wcdb_one_or_binary need_symbol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantTokens, tt.module.TokenizeArgument())
			assert.Equal(t, tt.wantContent, tt.module.ContentArgument())
		})
	}
}
