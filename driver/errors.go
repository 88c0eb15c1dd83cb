package driver

import "errors"

// Predefined errors
var (
	// ErrBeginTxNotSupported is returned when underlying connection does not support BeginTx
	ErrBeginTxNotSupported = errors.New("wcdb driver: underlying connection does not support BeginTx")

	// ErrPrepareContextNotSupported is returned when underlying connection does not support PrepareContext
	ErrPrepareContextNotSupported = errors.New("wcdb driver: underlying connection does not support PrepareContext")

	// ErrExecContextNotSupported is returned when underlying connection does not support ExecContext
	ErrExecContextNotSupported = errors.New("wcdb driver: underlying connection does not support ExecContext")

	// ErrQueryContextNotSupported is returned when underlying connection does not support QueryContext
	ErrQueryContextNotSupported = errors.New("wcdb driver: underlying connection does not support QueryContext")

	// ErrNotWCDBConnection is returned when connection is not a wcdb connection
	ErrNotWCDBConnection = errors.New("wcdb driver: connection is not a wcdb connection")
)
