package wcdb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors, one per error kind. An *Error matches the sentinel of
// its kind with errors.Is; constraint kinds also match ErrStepFailed.
var (
	// ErrInvalidPath indicates that the database file can not be opened
	ErrInvalidPath = errors.New("wcdb: invalid path")

	// ErrPreparationFailed indicates that a statement did not compile
	ErrPreparationFailed = errors.New("wcdb: preparation failed")

	// ErrStepFailed indicates that a statement failed while executing
	ErrStepFailed = errors.New("wcdb: step failed")

	// ErrConstraintPrimaryKey indicates a PRIMARY KEY constraint violation
	ErrConstraintPrimaryKey = errors.New("wcdb: primary key constraint failed")

	// ErrConstraintUnique indicates a UNIQUE constraint violation
	ErrConstraintUnique = errors.New("wcdb: unique constraint failed")

	// ErrConstraintNotNull indicates a NOT NULL constraint violation
	ErrConstraintNotNull = errors.New("wcdb: not null constraint failed")

	// ErrConstraintForeignKey indicates a FOREIGN KEY constraint violation
	ErrConstraintForeignKey = errors.New("wcdb: foreign key constraint failed")

	// ErrConstraintCheck indicates a CHECK constraint violation
	ErrConstraintCheck = errors.New("wcdb: check constraint failed")

	// ErrBusy indicates that the database file is locked by another connection
	ErrBusy = errors.New("wcdb: database is busy")

	// ErrLocked indicates a conflict within the same connection
	ErrLocked = errors.New("wcdb: database table is locked")

	// ErrCorrupt indicates that the database file is damaged
	ErrCorrupt = errors.New("wcdb: database is corrupted")

	// ErrFileMissing indicates that the database file was unlinked while open
	ErrFileMissing = errors.New("wcdb: database file is missing")

	// ErrCancelled indicates that the operation was cancelled by the caller
	ErrCancelled = errors.New("wcdb: operation cancelled")

	// ErrEncryptionMismatch indicates a wrong cipher key, page size or version
	ErrEncryptionMismatch = errors.New("wcdb: cipher configuration mismatch")

	// ErrMisuse indicates an API misuse such as stepping a finalized statement
	ErrMisuse = errors.New("wcdb: misuse")

	// ErrUnknown indicates an unclassified failure
	ErrUnknown = errors.New("wcdb: unknown error")

	// ErrNoMaterial indicates that retrieve found no usable backup material
	ErrNoMaterial = errors.New("wcdb: no backup material")

	// ErrEmptyData indicates that the data source contains no records
	ErrEmptyData = errors.New("wcdb: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("wcdb: unsupported file format")

	// ErrInvalidData indicates malformed or invalid data
	ErrInvalidData = errors.New("wcdb: invalid data format")

	// ErrNoTables indicates no tables found in database
	ErrNoTables = errors.New("wcdb: no tables found in database")
)

// Kind classifies an Error.
type Kind int

// Error kinds
const (
	KindUnknown Kind = iota
	KindInvalidPath
	KindPreparationFailed
	KindStepFailed
	KindConstraintPrimaryKey
	KindConstraintUnique
	KindConstraintNotNull
	KindConstraintForeignKey
	KindConstraintCheck
	KindBusy
	KindLocked
	KindCorrupt
	KindFileMissing
	KindCancelled
	KindEncryptionMismatch
	KindMisuse
)

var kindSentinels = map[Kind]error{
	KindUnknown:              ErrUnknown,
	KindInvalidPath:          ErrInvalidPath,
	KindPreparationFailed:    ErrPreparationFailed,
	KindStepFailed:           ErrStepFailed,
	KindConstraintPrimaryKey: ErrConstraintPrimaryKey,
	KindConstraintUnique:     ErrConstraintUnique,
	KindConstraintNotNull:    ErrConstraintNotNull,
	KindConstraintForeignKey: ErrConstraintForeignKey,
	KindConstraintCheck:      ErrConstraintCheck,
	KindBusy:                 ErrBusy,
	KindLocked:               ErrLocked,
	KindCorrupt:              ErrCorrupt,
	KindFileMissing:          ErrFileMissing,
	KindCancelled:            ErrCancelled,
	KindEncryptionMismatch:   ErrEncryptionMismatch,
	KindMisuse:               ErrMisuse,
}

var kindNames = map[Kind]string{
	KindUnknown:              "Unknown",
	KindInvalidPath:          "InvalidPath",
	KindPreparationFailed:    "PreparationFailed",
	KindStepFailed:           "StepFailed",
	KindConstraintPrimaryKey: "ConstraintPrimaryKey",
	KindConstraintUnique:     "ConstraintUnique",
	KindConstraintNotNull:    "ConstraintNotNull",
	KindConstraintForeignKey: "ConstraintForeignKey",
	KindConstraintCheck:      "ConstraintCheck",
	KindBusy:                 "Busy",
	KindLocked:               "Locked",
	KindCorrupt:              "Corrupt",
	KindFileMissing:          "FileMissing",
	KindCancelled:            "Cancelled",
	KindEncryptionMismatch:   "EncryptionMismatch",
	KindMisuse:               "Misuse",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsConstraint reports whether k refines KindStepFailed.
func (k Kind) IsConstraint() bool {
	return k >= KindConstraintPrimaryKey && k <= KindConstraintCheck
}

// Level is the severity of an Error.
type Level int

// Error levels
const (
	LevelIgnore Level = iota + 1
	LevelDebug
	LevelNotice
	LevelWarning
	LevelError
	LevelFatal
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelIgnore:
		return "IGNORE"
	case LevelDebug:
		return "DEBUG"
	case LevelNotice:
		return "NOTICE"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Error is the error returned by every operation that touches the engine.
type Error struct {
	Kind         Kind
	Level        Level
	Code         int
	ExtendedCode int
	Message      string
	Path         string
	SQL          string
	Tag          int64
	Err          error
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("wcdb: ")
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code: %d, extended code: %d)", e.Code, e.ExtendedCode)
	}
	if e.Path != "" {
		b.WriteString(", path: " + e.Path)
	}
	if e.SQL != "" {
		b.WriteString(", sql: " + e.SQL)
	}
	return b.String()
}

// Unwrap returns the underlying engine error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	if kindSentinels[e.Kind] == target {
		return true
	}
	return e.Kind.IsConstraint() && target == ErrStepFailed
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// stage tells which engine call produced an error, to refine unclassified
// engine codes.
type stage int

const (
	stageOpen stage = iota
	stagePrepare
	stageStep
)

var trailingCode = regexp.MustCompile(`\s*\(\d+\)$`)

// newEngineError classifies err, which came from the engine while running
// sql at the given stage.
func newEngineError(err error, at stage, sql string) *Error {
	if e, ok := AsError(err); ok {
		if e.SQL == "" {
			e.SQL = sql
		}
		return e
	}
	e := &Error{Kind: KindUnknown, Level: LevelError, Message: err.Error(), SQL: sql, Err: err}

	var engine *sqlite.Error
	switch {
	case errors.As(err, &engine):
		e.ExtendedCode = engine.Code()
		e.Code = e.ExtendedCode & 0xff
		e.Message = engineMessage(engine)
		e.Kind = classify(e.Code, e.ExtendedCode, at)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.Kind = KindCancelled
		e.Code = sqlite3.SQLITE_INTERRUPT
		e.ExtendedCode = sqlite3.SQLITE_INTERRUPT
	default:
		switch at {
		case stageOpen:
			e.Kind = KindInvalidPath
		case stagePrepare:
			e.Kind = KindPreparationFailed
		case stageStep:
			e.Kind = KindStepFailed
		}
	}
	if e.Kind == KindCorrupt || e.Kind == KindFileMissing {
		e.Level = LevelFatal
	}
	return e
}

func classify(code, extended int, at stage) Kind {
	switch extended {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_ROWID:
		return KindConstraintPrimaryKey
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return KindConstraintUnique
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return KindConstraintNotNull
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return KindConstraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return KindConstraintCheck
	case sqlite3.SQLITE_READONLY_DBMOVED:
		return KindFileMissing
	}
	switch code {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_IOERR:
		return KindCorrupt
	case sqlite3.SQLITE_BUSY:
		return KindBusy
	case sqlite3.SQLITE_LOCKED:
		return KindLocked
	case sqlite3.SQLITE_CANTOPEN:
		return KindInvalidPath
	case sqlite3.SQLITE_INTERRUPT:
		return KindCancelled
	case sqlite3.SQLITE_MISUSE:
		return KindMisuse
	}
	switch at {
	case stageOpen:
		return KindInvalidPath
	case stagePrepare:
		return KindPreparationFailed
	default:
		return KindStepFailed
	}
}

// engineMessage returns the message of the engine without the generic
// text of its result code and the trailing code number.
func engineMessage(engine *sqlite.Error) string {
	message := trailingCode.ReplaceAllString(strings.TrimSuffix(engine.Error(), " (SQLITE_BUSY)"), "")
	if _, detail, ok := strings.Cut(message, ": "); ok {
		return detail
	}
	return message
}

// newError creates an *Error that did not come from the engine.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Level: LevelError, Message: fmt.Sprintf(format, args...)}
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("wcdb: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
