package driver

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	t.Parallel()

	t.Run("Create new driver", func(t *testing.T) {
		t.Parallel()

		d := NewDriver()
		if d == nil {
			t.Error("NewDriver() returned nil")
		}
	})
}

func TestDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		busyTimeout time.Duration
		want        string
	}{
		{name: "No timeout", path: "app.db", want: "app.db"},
		{name: "With timeout", path: "app.db", busyTimeout: 2 * time.Second, want: "app.db?_pragma=busy_timeout%282000%29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DSN(tt.path, tt.busyTimeout))
		})
	}
}

func TestConnectionNumbering(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	path := filepath.Join(t.TempDir(), "numbering.db")

	first, err := d.Open(path)
	require.NoError(t, err)
	defer first.Close()
	second, err := d.Open(path)
	require.NoError(t, err)
	defer second.Close()

	c1, err := FromRaw(first)
	require.NoError(t, err)
	c2, err := FromRaw(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID(), c2.ID())
	assert.NotNil(t, c1.Unwrap())

	_, err = FromRaw("not a connection")
	require.ErrorIs(t, err, ErrNotWCDBConnection)
}

func TestRegisteredDriver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open(Name, DSN(filepath.Join(t.TempDir(), "registered.db"), time.Second))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, "CREATE TABLE t(a INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t VALUES (?)", 7)
	require.NoError(t, err)

	var timeout int64
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, int64(1000), timeout)

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Raw(func(driverConn any) error {
		c, err := FromRaw(driverConn)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(0), c.ConfigVersion())
		c.SetConfigVersion(3)
		assert.Equal(t, uint64(3), c.ConfigVersion())
		return nil
	}))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO t VALUES (8)")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var count int64
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM t").Scan(&count))
	assert.Equal(t, int64(1), count)
}
