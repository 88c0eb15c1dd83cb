package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datetimeLayouts maps the shapes of recognized datetimes to the layouts
// that parse them.
var datetimeLayouts = []struct {
	shape   *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`), []string{time.RFC3339, time.RFC3339Nano}},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`), []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"}},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`), []string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"}},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), []string{"2006-01-02"}},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), []string{"1/2/2006", "01/02/2006"}},
	{regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`), []string{"2.1.2006", "02.01.2006"}},
	{regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`), []string{"15:04:05", "3:04:05"}},
}

func isDatetime(value string) bool {
	for _, dl := range datetimeLayouts {
		if !dl.shape.MatchString(value) {
			continue
		}
		for _, layout := range dl.layouts {
			if _, err := time.Parse(layout, value); err == nil {
				return true
			}
		}
	}
	return false
}

// InferColumnType returns the narrowest type holding every non-empty
// value. TEXT wins over datetime, datetime over REAL, REAL over INTEGER.
func InferColumnType(values []string) ColumnType {
	var hasDatetime, hasReal, hasInteger bool
	for _, value := range values {
		value = strings.TrimSpace(value)
		switch {
		case value == "":
		case isDatetime(value):
			hasDatetime = true
		case isInteger(value):
			hasInteger = true
		case isReal(value):
			hasReal = true
		default:
			return ColumnTypeText
		}
	}
	switch {
	case hasDatetime && (hasReal || hasInteger):
		return ColumnTypeText
	case hasDatetime:
		return ColumnTypeDatetime
	case hasReal:
		return ColumnTypeReal
	case hasInteger:
		return ColumnTypeInteger
	default:
		return ColumnTypeText
	}
}

func isInteger(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func isReal(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// InferColumnsInfo infers the type of every column of header from the
// records. Columns of a table without records are TEXT.
func InferColumnsInfo(header Header, records []Record) []ColumnInfo {
	if len(header) == 0 {
		return nil
	}
	columns := make([]ColumnInfo, len(header))
	for i, name := range header {
		columns[i] = ColumnInfo{Name: name, Type: ColumnTypeText}
		if len(records) == 0 {
			continue
		}
		values := make([]string, 0, len(records))
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i].Type = InferColumnType(values)
	}
	return columns
}
