package wcdb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenRows(category int64) MultiRows {
	rows := make(MultiRows, 0, 10)
	for i := range 10 {
		rows = append(rows, OneRow{IntValue(category), TextValue("t"), TextValue(fmt.Sprintf("c%d", i)), TextValue("v")})
	}
	return rows
}

func TestRunTransaction(t *testing.T) {
	t.Parallel()

	errAbort := errors.New("abort")

	tests := []struct {
		name      string
		fn        TransactionFunc
		wantErr   error
		wantCount int64
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, h *Handle) (bool, error) {
				return true, h.Database().InsertRows(ctx, tenRows(1), channelValueColumns, "test_table")
			},
			wantCount: 10,
		},
		{
			name: "rollback on false",
			fn: func(ctx context.Context, h *Handle) (bool, error) {
				if err := h.Database().InsertRows(ctx, tenRows(1), channelValueColumns, "test_table"); err != nil {
					return false, err
				}
				return false, nil
			},
			wantCount: 0,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, h *Handle) (bool, error) {
				if err := h.Database().InsertRows(ctx, tenRows(1), channelValueColumns, "test_table"); err != nil {
					return false, err
				}
				return true, errAbort
			},
			wantErr:   errAbort,
			wantCount: 0,
		},
		{
			name: "rollback on failed statement",
			fn: func(ctx context.Context, h *Handle) (bool, error) {
				if err := h.Database().InsertRows(ctx, tenRows(1), channelValueColumns, "test_table"); err != nil {
					return false, err
				}
				return true, h.Database().InsertRows(ctx, tenRows(1)[:1], channelValueColumns, "test_table")
			},
			wantErr:   ErrConstraintPrimaryKey,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			db := openTestDatabase(t)
			createTestTable(t, db, "test_table", channelValueBinding)

			err := db.RunTransaction(ctx, tt.fn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, countRows(t, db, "test_table"))
		})
	}
}

func TestRunTransactionPanics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	createTestTable(t, db, "test_table", channelValueBinding)

	assert.PanicsWithValue(t, "boom", func() {
		_ = db.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
			if err := h.Database().InsertRows(ctx, tenRows(1), channelValueColumns, "test_table"); err != nil {
				return false, err
			}
			panic("boom")
		})
	})
	assert.Equal(t, int64(0), countRows(t, db, "test_table"))
}

func TestNestedTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	createTestTable(t, db, "test_table", channelValueBinding)

	err := db.RunTransaction(ctx, func(ctx context.Context, outer *Handle) (bool, error) {
		assert.True(t, outer.IsInTransaction())
		if err := db.InsertRows(ctx, tenRows(1), channelValueColumns, "test_table"); err != nil {
			return false, err
		}

		err := db.RunTransaction(ctx, func(ctx context.Context, inner *Handle) (bool, error) {
			assert.Same(t, outer, inner, "a nested transaction runs on the same handle")
			return false, db.InsertRows(ctx, tenRows(2), channelValueColumns, "test_table")
		})
		if err != nil {
			return false, err
		}

		err = outer.RunTransaction(ctx, func(ctx context.Context, _ *Handle) (bool, error) {
			return true, db.InsertRows(ctx, tenRows(3), channelValueColumns, "test_table")
		})
		return err == nil, err
	})
	require.NoError(t, err)

	rows, err := db.GetValuesFromSQL(ctx, "SELECT category, count(*) FROM test_table GROUP BY category ORDER BY category")
	require.NoError(t, err)
	assert.Equal(t, MultiRows{
		{IntValue(1), IntValue(10)},
		{IntValue(3), IntValue(10)},
	}, rows, "the rolled back savepoint leaves the rest of the transaction intact")
}

func TestRunTransactionOnReadHandle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDatabase(t)
	createTestTable(t, db, "test_table", channelValueBinding)

	h := db.GetHandle(false)
	defer h.Invalidate()

	called := false
	err := h.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
		called = true
		return true, nil
	})
	require.ErrorIs(t, err, ErrMisuse)
	assert.False(t, called)
	assert.False(t, h.IsInTransaction())
}

// Not parallel: the transaction counters are process wide.
func TestTransactionMetrics(t *testing.T) {
	ctx := context.Background()
	db := openTestDatabase(t)
	createTestTable(t, db, "test_table", channelValueBinding)

	dbMetrics.init()
	commits := testutil.ToFloat64(dbMetrics.commits)
	rollbacks := testutil.ToFloat64(dbMetrics.rollbacks)

	err := db.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
		if err := h.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
			return false, h.ExecuteSQL(ctx, "DELETE FROM test_table")
		}); err != nil {
			return false, err
		}
		return true, h.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
			return true, h.ExecuteSQL(ctx, "DELETE FROM test_table")
		})
	})
	require.NoError(t, err)
	assert.Equal(t, commits+1, testutil.ToFloat64(dbMetrics.commits), "savepoints are not counted")
	assert.Equal(t, rollbacks, testutil.ToFloat64(dbMetrics.rollbacks), "savepoints are not counted")

	require.NoError(t, db.RunTransaction(ctx, func(ctx context.Context, h *Handle) (bool, error) {
		return false, nil
	}))
	assert.Equal(t, commits+1, testutil.ToFloat64(dbMetrics.commits))
	assert.Equal(t, rollbacks+1, testutil.ToFloat64(dbMetrics.rollbacks))
}
