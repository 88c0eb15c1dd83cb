package model

import (
	"testing"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ColumnType
	}{
		{name: "all integers", values: []string{"123", "456", "-789"}, expected: ColumnTypeInteger},
		{name: "integers and reals", values: []string{"123", "45.6", "789"}, expected: ColumnTypeReal},
		{name: "scientific notation", values: []string{"1e10", "2.5e-3"}, expected: ColumnTypeReal},
		{name: "number and text", values: []string{"123", "hello"}, expected: ColumnTypeText},
		{name: "only empty values", values: []string{"", " "}, expected: ColumnTypeText},
		{name: "no values", values: nil, expected: ColumnTypeText},
		{name: "integers with blanks", values: []string{"1", "", "3"}, expected: ColumnTypeInteger},
		{name: "ISO8601 dates", values: []string{"2023-01-15", "2023-02-20"}, expected: ColumnTypeDatetime},
		{name: "ISO8601 datetimes with zone", values: []string{"2023-01-15T10:30:00Z", "2023-02-20T14:45:30+09:00"}, expected: ColumnTypeDatetime},
		{name: "US dates", values: []string{"1/15/2023", "2/20/2023"}, expected: ColumnTypeDatetime},
		{name: "European dates", values: []string{"15.1.2023", "20.2.2023"}, expected: ColumnTypeDatetime},
		{name: "times", values: []string{"10:30:00", "09:15:45"}, expected: ColumnTypeDatetime},
		{name: "dates and numbers", values: []string{"2023-01-15", "42"}, expected: ColumnTypeText},
		{name: "dates and text", values: []string{"2023-01-15", "not a date"}, expected: ColumnTypeText},
		{name: "invalid date shape", values: []string{"2023-13-45"}, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InferColumnType(tt.values); got != tt.expected {
				t.Errorf("InferColumnType(%v) = %v, want %v", tt.values, got, tt.expected)
			}
		})
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	t.Run("mixed columns", func(t *testing.T) {
		t.Parallel()

		header := NewHeader([]string{"id", "name", "salary", "hired"})
		records := []Record{
			NewRecord([]string{"1", "Alice", "95000.5", "2023-01-15"}),
			NewRecord([]string{"2", "Bob", "78000", "2023-02-20"}),
			NewRecord([]string{"3"}),
		}
		want := []ColumnInfo{
			{Name: "id", Type: ColumnTypeInteger},
			{Name: "name", Type: ColumnTypeText},
			{Name: "salary", Type: ColumnTypeReal},
			{Name: "hired", Type: ColumnTypeDatetime},
		}

		got := InferColumnsInfo(header, records)
		if len(got) != len(want) {
			t.Fatalf("got %d columns, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("column %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("no records", func(t *testing.T) {
		t.Parallel()

		got := InferColumnsInfo(NewHeader([]string{"a", "b"}), nil)
		for _, column := range got {
			if column.Type != ColumnTypeText {
				t.Errorf("column %s = %v, want TEXT", column.Name, column.Type)
			}
		}
	})

	t.Run("no header", func(t *testing.T) {
		t.Parallel()

		if got := InferColumnsInfo(nil, []Record{{"1"}}); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}
