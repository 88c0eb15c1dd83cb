package wcdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/winq"
)

func TestHandleLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)

	h := db.GetHandle(true)
	assert.Equal(t, HandleDetached, h.State())
	assert.Zero(t, h.ID())
	assert.True(t, h.IsWrite())
	assert.Same(t, db, h.Database())

	require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))
	assert.Equal(t, HandleAttached, h.State())
	assert.NotZero(t, h.ID())

	s, err := h.PrepareSQL(ctx, "SELECT v FROM t")
	require.NoError(t, err)

	h.Invalidate()
	assert.Equal(t, HandleInvalidated, h.State())
	assert.Zero(t, h.ID())
	assert.Equal(t, StatementFinalized, s.State(), "invalidating finalizes the statements of the handle")

	require.NoError(t, h.ExecuteSQL(ctx, "INSERT INTO t(v) VALUES(1)"), "an invalidated handle attaches again")
	assert.Equal(t, HandleAttached, h.State())
	h.Invalidate()
	h.Invalidate()
	assert.Equal(t, "Invalidated", h.State().String())
}

func TestHandleMainStatement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	h := db.GetHandle(true)
	defer h.Invalidate()

	require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))
	assert.Nil(t, h.MainStatement())

	insert := winq.NewStatementInsert().InsertInto("t").Columns("v").ValuesWithBindParameters(1)
	first, err := h.PrepareMainStatement(ctx, insert)
	require.NoError(t, err)
	first.BindInt64(1, 1)
	require.NoError(t, first.Step(ctx))

	second, err := h.PrepareMainStatement(ctx, winq.NewStatementSelect().Select("v").From("t"))
	require.NoError(t, err)
	assert.Same(t, first, second, "the main statement slot is reused")
	assert.Same(t, second, h.MainStatement())
	assert.True(t, second.IsReadOnly())

	h.FinalizeMainStatement()
	assert.Nil(t, h.MainStatement())
	assert.Equal(t, StatementFinalized, second.State())
}

func TestHandleQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	h := db.GetHandle(true)
	defer h.Invalidate()

	require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT)"))
	require.NoError(t, h.ExecuteSQL(ctx, "INSERT INTO t(name) VALUES('a'), ('b'), ('c')"))

	changes, err := h.Changes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), changes)

	rowid, err := h.LastInsertedRowID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rowid)

	value, err := h.GetValueFromSQL(ctx, "SELECT count(*) FROM t")
	require.NoError(t, err)
	assert.Equal(t, int64(3), value.Int())

	row, err := h.GetOneRowFromStatement(ctx, winq.NewStatementSelect().Select("id", "name").From("t").Where(winq.NewColumn("id").Eq(2)))
	require.NoError(t, err)
	assert.Equal(t, OneRow{IntValue(2), TextValue("b")}, row)

	row, err = h.GetOneRowFromSQL(ctx, "SELECT id FROM t WHERE id > 10")
	require.NoError(t, err)
	assert.Nil(t, row)

	column, err := h.GetOneColumnFromStatement(ctx, winq.NewStatementSelect().Select("name").From("t").OrderBy(winq.NewColumn("id").Order(winq.OrderDesc)))
	require.NoError(t, err)
	assert.Equal(t, OneColumn{TextValue("c"), TextValue("b"), TextValue("a")}, column)

	rows, err := h.GetAllRowsFromSQL(ctx, "SELECT id, name FROM t ORDER BY id LIMIT 2")
	require.NoError(t, err)
	assert.Equal(t, MultiRows{{IntValue(1), TextValue("a")}, {IntValue(2), TextValue("b")}}, rows)

	names, err := h.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, names)

	columns, err := h.TableColumns(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)

	sql, err := h.TableSQL(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT)", sql)
}

func TestHandleAsSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	table := createTestTable(t, db, "messages", messageBinding)

	h := db.GetHandle(true)
	defer h.Invalidate()

	insert := NewInsert[message](h).IntoTable(table.Name()).OnFields(messageBinding.AllBindingFields()...).Value(&message{Sender: "alice"})
	require.NoError(t, insert.Execute(ctx))
	assert.Equal(t, HandleAttached, h.State(), "a handle passed as source is never invalidated by the chain call")
	assert.Same(t, h, insert.Handle())
}

func TestPrepareCompilesEagerly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	h := db.GetHandle(true)
	defer h.Invalidate()

	require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(v INTEGER)"))

	tests := []struct {
		name    string
		prepare func() (*PreparedStatement, error)
	}{
		{
			name:    "missing table",
			prepare: func() (*PreparedStatement, error) { return h.PrepareSQL(ctx, "SELECT * FROM missing") },
		},
		{
			name:    "syntax error",
			prepare: func() (*PreparedStatement, error) { return h.PrepareSQL(ctx, "SELEC v FROM t") },
		},
		{
			name: "missing column with parameters",
			prepare: func() (*PreparedStatement, error) {
				return h.Prepare(ctx, winq.NewStatementSelect().Select("missing").From("t").Where(winq.NewColumn("v").Eq(winq.NewBindParameter(1))))
			},
		},
		{
			name: "write statement",
			prepare: func() (*PreparedStatement, error) {
				return h.Prepare(ctx, winq.NewStatementInsert().InsertInto("missing").Columns("v").ValuesWithBindParameters(1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.prepare()
			require.ErrorIs(t, err, ErrPreparationFailed)
			assert.Nil(t, s)
		})
	}

	s, err := h.PrepareSQL(ctx, "SELECT v FROM t WHERE v = ?1")
	require.NoError(t, err, "a statement with unbound parameters compiles")
	require.NoError(t, s.Finalize())
}

func TestStepErrorsAreStepFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	h := db.GetHandle(false)
	defer h.Invalidate()

	s, err := h.PrepareSQL(ctx, "SELECT abs(-9223372036854775807 - 1)")
	require.NoError(t, err)
	err = s.Step(ctx)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.NotErrorIs(t, err, ErrPreparationFailed)
}

func TestBindNamedParameters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	h := db.GetHandle(true)
	defer h.Invalidate()

	require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(id INTEGER, name TEXT)"))
	require.NoError(t, h.ExecuteSQL(ctx, "INSERT INTO t(id, name) VALUES(7, 'seven'), (8, 'eight')"))

	tests := []struct {
		name      string
		parameter *winq.BindParameter
	}{
		{name: "colon", parameter: winq.NewNamedBindParameter("id")},
		{name: "at", parameter: winq.AtBindParameter("id")},
		{name: "dollar", parameter: winq.DollarBindParameter("id")},
		{name: "numbered", parameter: winq.NewBindParameter(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := h.Prepare(ctx, winq.NewStatementSelect().Select("name").From("t").Where(winq.NewColumn("id").Eq(tt.parameter)))
			require.NoError(t, err)
			defer s.Finalize()

			s.BindInt64(1, 7)
			require.NoError(t, s.Step(ctx))
			require.False(t, s.IsDone())
			assert.Equal(t, "seven", s.GetText(0))

			s.Reset()
			s.BindInt64(1, 8)
			require.NoError(t, s.Step(ctx))
			assert.Equal(t, "eight", s.GetText(0))
		})
	}

	t.Run("repeated name shares its index", func(t *testing.T) {
		s, err := h.PrepareSQL(ctx, "SELECT count(*) FROM t WHERE id >= :low AND name <> :skip AND id >= :low")
		require.NoError(t, err)
		defer s.Finalize()

		s.BindInt64(1, 7)
		s.BindText(2, "seven")
		require.NoError(t, s.Step(ctx))
		assert.Equal(t, int64(1), s.GetInt64(0))
	})

	t.Run("unbound parameters are NULL", func(t *testing.T) {
		value, err := h.GetValueFromSQL(ctx, "SELECT :missing IS NULL")
		require.NoError(t, err)
		assert.True(t, value.Bool())
	})
}

func TestScanSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		names  []string
		single bool
	}{
		{name: "no parameters", query: "SELECT 1", single: true},
		{name: "anonymous", query: "SELECT ?, ?", names: []string{"", ""}, single: true},
		{name: "numbered", query: "SELECT ?3, ?", names: []string{"", "", "", ""}, single: true},
		{name: "named", query: "SELECT :a, @b, $c, :a", names: []string{"a", "b", "c"}, single: true},
		{name: "name not starting with a letter", query: "SELECT :_a, :1", names: []string{"", ""}, single: true},
		{name: "literals and comments", query: "SELECT ':a', \"@b\", [c?] -- ?\n/* $d; */ FROM t;", single: true},
		{name: "escaped quote", query: "SELECT 'it''s ?', :x", names: []string{"x"}, single: true},
		{name: "trailing statement", query: "DELETE FROM t; DROP TABLE t", single: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := scanSQL(tt.query)
			assert.Equal(t, tt.names, text.names)
			assert.Equal(t, tt.single, text.single)
		})
	}
}

func TestAutoFinalize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name         string
		autoFinalize bool
	}{
		{name: "on", autoFinalize: true},
		{name: "off", autoFinalize: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := openTestDatabase(t)
			h := db.GetHandle(true)
			defer h.Invalidate()

			require.NoError(t, h.ExecuteSQL(ctx, "CREATE TABLE t(id INTEGER PRIMARY KEY)"))
			require.NoError(t, h.ExecuteSQL(ctx, "INSERT INTO t(id) VALUES(1)"))

			insert := winq.NewStatementInsert().InsertInto("t").Columns("id").ValuesWithBindParameters(1)
			s, err := h.Prepare(ctx, insert)
			require.NoError(t, err)
			s.SetAutoFinalize(tt.autoFinalize)
			s.BindInt64(1, 1)
			require.ErrorIs(t, s.Step(ctx), ErrConstraintPrimaryKey)

			if tt.autoFinalize {
				assert.Equal(t, StatementFinalized, s.State())
				require.ErrorIs(t, s.Step(ctx), ErrMisuse)
				require.ErrorIs(t, s.Prepare(ctx, insert), ErrMisuse)
				return
			}

			assert.Equal(t, StatementDone, s.State())
			require.NoError(t, s.Prepare(ctx, insert), "the statement can be prepared again")
			s.BindInt64(1, 2)
			require.NoError(t, s.Step(ctx))
			assert.Equal(t, int64(1), s.Changes())
			require.NoError(t, s.Finalize())
		})
	}
}
