package wcdb

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // cipher version 3 derives keys with PBKDF2-HMAC-SHA1
	"crypto/sha256"
	"crypto/sha512"
	"database/sql"
	"errors"
	"fmt"
	"hash"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

// CipherVersion selects the key derivation parameters of a cipher key.
type CipherVersion int

// Cipher versions. CipherVersionDefault follows SetDefaultCipherVersion.
const (
	CipherVersionDefault CipherVersion = 0
	CipherVersion3       CipherVersion = 3
	CipherVersion4       CipherVersion = 4
)

// DefaultCipherPageSize is the page size used when none is given.
const DefaultCipherPageSize = 4096

const (
	cipherTable    = "wcdb_cipher"
	cipherSaltSize = 16
	cipherKeySize  = chacha20poly1305.KeySize
)

var defaultCipherVersion atomic.Int32

func init() {
	defaultCipherVersion.Store(int32(CipherVersion4))
}

// SetDefaultCipherVersion sets the version used by SetCipherKey when it is
// given CipherVersionDefault.
func SetDefaultCipherVersion(version CipherVersion) {
	if version == CipherVersion3 || version == CipherVersion4 {
		defaultCipherVersion.Store(int32(version))
	}
}

func (v CipherVersion) resolve() CipherVersion {
	if v == CipherVersionDefault {
		return CipherVersion(defaultCipherVersion.Load())
	}
	return v
}

func (v CipherVersion) iterations() (int, func() hash.Hash) {
	if v == CipherVersion3 {
		return 64000, sha1.New
	}
	return 256000, sha512.New
}

// cipherConfig is the cipher key of a database with the keys derived from
// it, cached by salt.
type cipherConfig struct {
	key      []byte
	pageSize int
	version  CipherVersion

	mu      sync.Mutex
	derived map[string][]byte
}

func (c *cipherConfig) derive(salt []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key, ok := c.derived[string(salt)]; ok {
		return key
	}
	iterations, h := c.version.iterations()
	key := pbkdf2.Key(c.key, salt, iterations, cipherKeySize, h)
	if c.derived == nil {
		c.derived = make(map[string][]byte)
	}
	c.derived[string(salt)] = key
	return key
}

// verifier is the digest stored in the file to recognize the key.
func verifier(derived []byte) []byte {
	mac := hmac.New(sha256.New, derived)
	mac.Write([]byte("wcdb cipher verifier"))
	return mac.Sum(nil)
}

// SetCipherKey sets the key of the database. It must be called before the
// database file is opened. A nil key removes the cipher. pageSize 0 means
// DefaultCipherPageSize.
//
// The key is checked against the verifier stored in the file when the file
// is opened; a wrong key, page size or version fails with
// ErrEncryptionMismatch. Backup material of a keyed database is sealed
// with a key derived from it.
func (db *Database) SetCipherKey(key []byte, pageSize int, version CipherVersion) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.writer != nil {
		e := newError(KindMisuse, "cipher key set after the database was opened")
		e.Path = db.path
		return e
	}
	if key == nil {
		db.cipher = nil
		return nil
	}
	version = version.resolve()
	if version != CipherVersion3 && version != CipherVersion4 {
		return newError(KindMisuse, "unsupported cipher version %d", int(version))
	}
	if pageSize == 0 {
		pageSize = DefaultCipherPageSize
	}
	if pageSize < 512 || pageSize > 65536 || pageSize&(pageSize-1) != 0 {
		return newError(KindMisuse, "invalid cipher page size %d", pageSize)
	}
	db.cipher = &cipherConfig{key: append([]byte{}, key...), pageSize: pageSize, version: version}
	db.configs[ConfigCipher] = namedConfig{name: ConfigCipher, invocation: db.cipherConfigInvocation, priority: ConfigPriorityHighest - 1}
	db.configVersion++
	return nil
}

func (db *Database) cipherConfigInvocation(ctx context.Context, h *Handle) error {
	db.mu.Lock()
	c := db.cipher
	db.mu.Unlock()
	if c == nil || !h.write {
		return nil
	}
	return h.ExecuteSQL(ctx, fmt.Sprintf("PRAGMA page_size = %d", c.pageSize))
}

func encryptionMismatch(path, message string) *Error {
	return &Error{Kind: KindEncryptionMismatch, Level: LevelError, Message: message, Path: path}
}

// verify checks the key against the verifier of the file, writing one
// into a new file.
func (c *cipherConfig) verify(ctx context.Context, pool *sql.DB, path string) error {
	if _, err := pool.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size = %d", c.pageSize)); err != nil {
		return newEngineError(err, stageOpen, "")
	}
	var version, pageSize int
	var salt, digest []byte
	err := pool.QueryRowContext(ctx,
		"SELECT version, page_size, salt, verifier FROM "+cipherTable+" WHERE id = 1").
		Scan(&version, &pageSize, &salt, &digest)
	switch {
	case err == nil:
		if CipherVersion(version) != c.version {
			return encryptionMismatch(path, fmt.Sprintf("cipher version %d does not match %d", int(c.version), version))
		}
		if pageSize != c.pageSize {
			return encryptionMismatch(path, fmt.Sprintf("cipher page size %d does not match %d", c.pageSize, pageSize))
		}
		if !hmac.Equal(verifier(c.derive(salt)), digest) {
			return encryptionMismatch(path, "cipher key does not match")
		}
		return nil
	case errors.Is(err, sql.ErrNoRows) || isNoSuchTable(err):
		return c.initialize(ctx, pool, path)
	default:
		return newEngineError(err, stageOpen, "")
	}
}

func (c *cipherConfig) initialize(ctx context.Context, pool *sql.DB, path string) error {
	var tables int
	if err := pool.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\\_%' ESCAPE '\\' AND name <> ?1",
		cipherTable).Scan(&tables); err != nil {
		return newEngineError(err, stageOpen, "")
	}
	if tables > 0 {
		return encryptionMismatch(path, "file is not encrypted")
	}
	salt := make([]byte, cipherSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	if _, err := pool.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+cipherTable+
		"(id INTEGER PRIMARY KEY CHECK(id = 1), version INTEGER NOT NULL, page_size INTEGER NOT NULL, salt BLOB NOT NULL, verifier BLOB NOT NULL)"); err != nil {
		return newEngineError(err, stageStep, "")
	}
	if _, err := pool.ExecContext(ctx,
		"INSERT INTO "+cipherTable+"(id, version, page_size, salt, verifier) VALUES(1, ?1, ?2, ?3, ?4)",
		int(c.version), c.pageSize, salt, verifier(c.derive(salt))); err != nil {
		return newEngineError(err, stageStep, "")
	}
	return nil
}

// cipherSalt returns the salt stored in the file.
func cipherSalt(ctx context.Context, h *Handle) ([]byte, error) {
	value, err := h.GetValueFromSQL(ctx, "SELECT salt FROM "+cipherTable+" WHERE id = 1")
	if err != nil {
		return nil, err
	}
	if value.IsNull() {
		return nil, encryptionMismatch(h.db.path, "cipher salt is missing")
	}
	return value.BLOB(), nil
}

// checkPlain fails when a database opened without a key holds a cipher
// verifier.
func checkPlain(ctx context.Context, pool *sql.DB, path string) error {
	var count int
	if err := pool.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?1", cipherTable).Scan(&count); err != nil {
		return newEngineError(err, stageOpen, "")
	}
	if count > 0 {
		return encryptionMismatch(path, "file is encrypted and no cipher key is set")
	}
	return nil
}

func isNoSuchTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

// seal encrypts data with a key derived from salt.
func (c *cipherConfig) seal(salt, data []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.derive(salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, salt), nil
}

// open reverses seal.
func (c *cipherConfig) open(salt, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.derive(salt))
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrInvalidData
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, salt)
}
