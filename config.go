package wcdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tencent/wcdb-sub001/domain/model"
)

// Config is the YAML configuration of a database:
//
//	path: data/app.db
//	tag: 1
//	journal_mode: WAL
//	synchronous: NORMAL
//	busy_timeout: 10s
//	max_open_conns: 4
//	auto_checkpoint: 1000
//	auto_backup: true
//	auto_backup_delay: 10m
//	backup_compression: zstd
//	cipher:
//	  key_env: APP_DB_KEY
//	  page_size: 4096
//	  version: 4
//	log_level: info
//	seed:
//	  - seed/users.csv
type Config struct {
	Path              string        `yaml:"path"`
	Tag               int64         `yaml:"tag"`
	JournalMode       string        `yaml:"journal_mode"`
	Synchronous       string        `yaml:"synchronous"`
	BusyTimeout       time.Duration `yaml:"busy_timeout"`
	MaxOpenConns      int           `yaml:"max_open_conns"`
	AutoCheckpoint    *int          `yaml:"auto_checkpoint"`
	ForeignKeys       *bool         `yaml:"foreign_keys"`
	AutoBackup        bool          `yaml:"auto_backup"`
	AutoBackupDelay   time.Duration `yaml:"auto_backup_delay"`
	BackupCompression string        `yaml:"backup_compression"`
	Cipher            *CipherConfig `yaml:"cipher"`
	LogLevel          string        `yaml:"log_level"`
	Seed              []string      `yaml:"seed"`
}

// CipherConfig names the environment variable holding the cipher key, so
// the key itself never lives in the file.
type CipherConfig struct {
	KeyEnv   string `yaml:"key_env"`
	PageSize int    `yaml:"page_size"`
	Version  int    `yaml:"version"`
}

var (
	journalModes  = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	synchronouses = []string{"OFF", "NORMAL", "FULL", "EXTRA"}
	logLevels     = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided path
	if err != nil {
		return nil, NewErrorContext("load config", path).Error(err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, NewErrorContext("load config", path).Error(err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML configuration. Unknown keys
// are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values of the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}
	if c.JournalMode != "" && !containsFold(journalModes, c.JournalMode) {
		errs = append(errs, fmt.Errorf("unknown journal_mode %q", c.JournalMode))
	}
	if c.Synchronous != "" && !containsFold(synchronouses, c.Synchronous) {
		errs = append(errs, fmt.Errorf("unknown synchronous %q", c.Synchronous))
	}
	if c.BusyTimeout < 0 {
		errs = append(errs, errors.New("busy_timeout must not be negative"))
	}
	if c.MaxOpenConns < 0 {
		errs = append(errs, errors.New("max_open_conns must not be negative"))
	}
	if c.AutoCheckpoint != nil && *c.AutoCheckpoint < 0 {
		errs = append(errs, errors.New("auto_checkpoint must not be negative"))
	}
	if c.AutoBackupDelay < 0 {
		errs = append(errs, errors.New("auto_backup_delay must not be negative"))
	}
	if c.BackupCompression != "" && c.BackupCompression != "none" &&
		model.ParseCompressionType(c.BackupCompression) == model.CompressionNone {
		errs = append(errs, fmt.Errorf("unknown backup_compression %q", c.BackupCompression))
	}
	if c.Cipher != nil {
		if c.Cipher.KeyEnv == "" {
			errs = append(errs, errors.New("cipher.key_env is required"))
		}
		if v := CipherVersion(c.Cipher.Version); v != CipherVersionDefault && v != CipherVersion3 && v != CipherVersion4 {
			errs = append(errs, fmt.Errorf("unsupported cipher.version %d", c.Cipher.Version))
		}
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; c.LogLevel != "" && !ok {
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("wcdb: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Builder returns a DatabaseBuilder carrying the configuration. The cipher
// key is read from the environment.
func (c *Config) Builder() (*DatabaseBuilder, error) {
	b := NewBuilder(c.Path).WithTag(c.Tag)
	if c.JournalMode != "" {
		b.WithJournalMode(strings.ToUpper(c.JournalMode))
	}
	if c.Synchronous != "" {
		b.WithSynchronous(strings.ToUpper(c.Synchronous))
	}
	if c.BusyTimeout > 0 {
		b.WithBusyTimeout(c.BusyTimeout)
	}
	if c.MaxOpenConns > 0 {
		b.WithMaxOpenConns(c.MaxOpenConns)
	}
	if c.AutoCheckpoint != nil {
		b.WithAutoCheckpoint(*c.AutoCheckpoint)
	}
	if c.ForeignKeys != nil {
		b.WithForeignKeys(*c.ForeignKeys)
	}
	if c.AutoBackup {
		b.EnableAutoBackup(c.AutoBackupDelay)
	}
	if c.BackupCompression != "" {
		b.WithBackupCompression(model.ParseCompressionType(c.BackupCompression))
	}
	if c.Cipher != nil {
		key, ok := os.LookupEnv(c.Cipher.KeyEnv)
		if !ok || key == "" {
			return nil, fmt.Errorf("wcdb: cipher key variable %s is not set", c.Cipher.KeyEnv)
		}
		b.WithCipherKey([]byte(key), c.Cipher.PageSize, CipherVersion(c.Cipher.Version))
	}
	if c.LogLevel != "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevels[strings.ToLower(c.LogLevel)]})
		b.WithLogger(slog.New(handler))
	}
	if len(c.Seed) > 0 {
		b.AddPath(c.Seed...)
	}
	return b, nil
}

// OpenConfig opens the database the configuration describes.
func OpenConfig(ctx context.Context, cfg *Config) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := cfg.Builder()
	if err != nil {
		return nil, err
	}
	return b.Open(ctx)
}

func containsFold(values []string, v string) bool {
	for _, value := range values {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}
