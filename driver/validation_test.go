package driver

import (
	"errors"
	"testing"
)

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		expected error
	}{
		{
			name:    "Valid relative path",
			path:    "testdata/app.db",
			wantErr: false,
		},
		{
			name:     "Empty path",
			path:     "",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "Whitespace only path",
			path:     "   ",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "Path with null byte",
			path:     "test\x00.db",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "In-memory database",
			path:     ":memory:",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "Directory",
			path:     "data/",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "Pseudo file system",
			path:     "/proc/self/status",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:     "Windows reserved name",
			path:     "con.db",
			wantErr:  true,
			expected: ErrInvalidPath,
		},
		{
			name:    "Valid absolute path",
			path:    "/var/lib/app/data.db",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("ValidatePath() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Plain name", input: "messages", wantErr: false},
		{name: "Underscore and digits", input: "_table_2", wantErr: false},
		{name: "Empty", input: "", wantErr: true},
		{name: "Leading digit", input: "2table", wantErr: true},
		{name: "Space", input: "my table", wantErr: true},
		{name: "Quote", input: "a'b", wantErr: true},
		{name: "Reserved prefix", input: "sqlite_master", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateColumnCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		columnCount int
		wantErr     bool
	}{
		{
			name:        "Valid column count",
			columnCount: 10,
			wantErr:     false,
		},
		{
			name:        "Maximum allowed columns",
			columnCount: MaxColumnCount,
			wantErr:     false,
		},
		{
			name:        "Too many columns",
			columnCount: MaxColumnCount + 1,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateColumnCount(tt.columnCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnCount() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
