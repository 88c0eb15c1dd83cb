package wcdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencent/wcdb-sub001/domain/model"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	data := []byte(`
path: data/app.db
tag: 7
journal_mode: wal
synchronous: NORMAL
busy_timeout: 5s
max_open_conns: 2
auto_checkpoint: 500
foreign_keys: false
auto_backup: true
auto_backup_delay: 1m
backup_compression: gz
cipher:
  key_env: APP_DB_KEY
  page_size: 8192
  version: 3
log_level: debug
seed:
  - seed/users.csv
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, "data/app.db", cfg.Path)
	assert.Equal(t, int64(7), cfg.Tag)
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout)
	assert.Equal(t, time.Minute, cfg.AutoBackupDelay)
	require.NotNil(t, cfg.AutoCheckpoint)
	assert.Equal(t, 500, *cfg.AutoCheckpoint)
	require.NotNil(t, cfg.ForeignKeys)
	assert.False(t, *cfg.ForeignKeys)
	assert.Equal(t, &CipherConfig{KeyEnv: "APP_DB_KEY", PageSize: 8192, Version: 3}, cfg.Cipher)
	assert.Equal(t, []string{"seed/users.csv"}, cfg.Seed)
}

func TestParseConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "unknown key", data: "path: a.db\ncolour: red\n", wantMsg: "colour"},
		{name: "missing path", data: "tag: 1\n", wantMsg: "path is required"},
		{name: "journal mode", data: "path: a.db\njournal_mode: fast\n", wantMsg: `unknown journal_mode "fast"`},
		{name: "synchronous", data: "path: a.db\nsynchronous: maybe\n", wantMsg: `unknown synchronous "maybe"`},
		{name: "negative timeout", data: "path: a.db\nbusy_timeout: -1s\n", wantMsg: "busy_timeout must not be negative"},
		{name: "compression", data: "path: a.db\nbackup_compression: rar\n", wantMsg: `unknown backup_compression "rar"`},
		{name: "cipher without key", data: "path: a.db\ncipher:\n  page_size: 4096\n", wantMsg: "cipher.key_env is required"},
		{name: "cipher version", data: "path: a.db\ncipher:\n  key_env: K\n  version: 9\n", wantMsg: "unsupported cipher.version 9"},
		{name: "log level", data: "path: a.db\nlog_level: loud\n", wantMsg: `unknown log_level "loud"`},
		{name: "not yaml", data: "path: [", wantMsg: "failed to decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{JournalMode: "fast", MaxOpenConns: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
	assert.Contains(t, err.Error(), "unknown journal_mode")
	assert.Contains(t, err.Error(), "max_open_conns must not be negative")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wcdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: app.db\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "app.db", cfg.Path)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config failed")
}

func TestConfigBuilder(t *testing.T) {
	t.Parallel()

	delay := 3 * time.Minute
	cfg := &Config{
		Path:              "app.db",
		Tag:               9,
		AutoBackup:        true,
		AutoBackupDelay:   delay,
		BackupCompression: "xz",
		LogLevel:          "warn",
		Seed:              []string{"seed"},
	}
	b, err := cfg.Builder()
	require.NoError(t, err)
	require.NotNil(t, b.tag)
	assert.Equal(t, int64(9), *b.tag)
	assert.True(t, b.autoBackup)
	assert.Equal(t, delay, b.autoBackupDelay)
	require.NotNil(t, b.backupCompression)
	assert.Equal(t, model.CompressionXZ, *b.backupCompression)
	assert.NotNil(t, b.logger)
	assert.Equal(t, []string{"seed"}, b.paths)
}

func TestConfigBuilderCipherKeyFromEnvironment(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.db")
	cfg := &Config{Path: path, Cipher: &CipherConfig{KeyEnv: "WCDB_TEST_CIPHER_KEY"}}

	_, err := cfg.Builder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WCDB_TEST_CIPHER_KEY is not set")

	t.Setenv("WCDB_TEST_CIPHER_KEY", "secret")
	db, err := OpenConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close(nil)) })
	assert.True(t, db.IsOpened())

	exists, err := db.TableExists(ctx, cipherTable)
	require.NoError(t, err)
	assert.True(t, exists)
}
