package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a header names a column twice.
	ErrDuplicateColumnName = errors.New("duplicate column name")
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnsupportedFormat is returned for a format the text codec does not
	// handle.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
