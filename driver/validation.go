package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxColumnCount defines the maximum number of columns allowed in a table
// (SQLITE_MAX_COLUMN).
const MaxColumnCount = 2000

var (
	// ErrTooManyColumns is returned when a table has too many columns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrInvalidPath is returned when a path is invalid or potentially dangerous
	ErrInvalidPath = errors.New("invalid or dangerous path")

	// ErrInvalidIdentifier is returned when an SQL identifier is invalid
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)

// ValidatePath checks that path can name a database file.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}

	// Check for null byte injection
	if strings.Contains(path, "\x00") {
		return ErrInvalidPath
	}

	// In-memory and URI names are not files
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return ErrInvalidPath
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return ErrInvalidPath
	}

	// Pseudo file systems never hold a database
	lowerPath := strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
	for _, sysDir := range []string{"/proc/", "/sys/", "/dev/"} {
		if strings.HasPrefix(lowerPath+"/", sysDir) {
			return ErrInvalidPath
		}
	}

	// Check for Windows reserved names
	reservedNames := []string{"con", "prn", "aux", "nul", "com1", "com2", "com3", "com4", "com5", "com6", "com7", "com8", "com9", "lpt1", "lpt2", "lpt3", "lpt4", "lpt5", "lpt6", "lpt7", "lpt8", "lpt9"}
	baseName := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, reserved := range reservedNames {
		if baseName == reserved {
			return ErrInvalidPath
		}
	}

	return nil
}

// ValidateIdentifier checks that name can be used unquoted as a table or
// column name in generated SQL.
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrInvalidIdentifier
	}
	for i, r := range name {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return ErrInvalidIdentifier
		}
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return ErrInvalidIdentifier
	}
	return nil
}

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return ErrTooManyColumns
	}
	return nil
}
