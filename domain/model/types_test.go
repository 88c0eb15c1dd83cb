package model

import (
	"testing"
)

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header1  Header
		header2  Header
		expected bool
	}{
		{name: "equal", header1: NewHeader([]string{"a", "b"}), header2: NewHeader([]string{"a", "b"}), expected: true},
		{name: "different length", header1: NewHeader([]string{"a", "b"}), header2: NewHeader([]string{"a"}), expected: false},
		{name: "different content", header1: NewHeader([]string{"a", "b"}), header2: NewHeader([]string{"a", "c"}), expected: false},
		{name: "both empty", header1: NewHeader([]string{}), header2: NewHeader(nil), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.header1.Equal(tt.header2); got != tt.expected {
				t.Errorf("Equal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHeader_Duplicate(t *testing.T) {
	t.Parallel()

	if got := NewHeader([]string{"id", "name", "id"}).Duplicate(); got != "id" {
		t.Errorf("Duplicate() = %q, want %q", got, "id")
	}
	if got := NewHeader([]string{"id", "name"}).Duplicate(); got != "" {
		t.Errorf("Duplicate() = %q, want empty", got)
	}
}

func TestRecord_Equal(t *testing.T) {
	t.Parallel()

	if !NewRecord([]string{"1", "x"}).Equal(NewRecord([]string{"1", "x"})) {
		t.Error("expected records to be equal")
	}
	if NewRecord([]string{"1", "x"}).Equal(NewRecord([]string{"1", "y"})) {
		t.Error("expected records to differ")
	}
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		columnType ColumnType
		expected   string
	}{
		{ColumnTypeText, "TEXT"},
		{ColumnTypeInteger, "INTEGER"},
		{ColumnTypeReal, "REAL"},
		{ColumnTypeDatetime, "TEXT"},
		{ColumnType(99), "TEXT"},
	}

	for _, tt := range tests {
		if got := tt.columnType.String(); got != tt.expected {
			t.Errorf("ColumnType(%d).String() = %q, want %q", int(tt.columnType), got, tt.expected)
		}
	}
}
