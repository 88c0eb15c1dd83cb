package orm

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Tencent/wcdb-sub001/winq"
)

// GoType is a Go field type supported by bindings, with the routines that
// bind and extract it.
type GoType struct {
	// Name is the Go spelling, such as int32 or []byte.
	Name       string
	ColumnType winq.ColumnType
	// Suffix names the PreparedStatement routines: Bind<Suffix> and
	// Get<Suffix>.
	Suffix string
}

var goTypes = map[string]GoType{
	"bool":    {Name: "bool", ColumnType: winq.ColumnTypeInteger, Suffix: "Bool"},
	"int":     {Name: "int", ColumnType: winq.ColumnTypeInteger, Suffix: "Int64"},
	"int8":    {Name: "int8", ColumnType: winq.ColumnTypeInteger, Suffix: "Int8"},
	"int16":   {Name: "int16", ColumnType: winq.ColumnTypeInteger, Suffix: "Int16"},
	"int32":   {Name: "int32", ColumnType: winq.ColumnTypeInteger, Suffix: "Int32"},
	"int64":   {Name: "int64", ColumnType: winq.ColumnTypeInteger, Suffix: "Int64"},
	"float32": {Name: "float32", ColumnType: winq.ColumnTypeFloat, Suffix: "Float32"},
	"float64": {Name: "float64", ColumnType: winq.ColumnTypeFloat, Suffix: "Float64"},
	"string":  {Name: "string", ColumnType: winq.ColumnTypeText, Suffix: "Text"},
	"[]byte":  {Name: "[]byte", ColumnType: winq.ColumnTypeBLOB, Suffix: "BLOB"},
}

// LookupGoType resolves the spelling of a field type. A leading * marks an
// optional field, which binds nil as NULL and reads NULL as nil.
func LookupGoType(name string) (goType GoType, optional bool, ok bool) {
	if strings.HasPrefix(name, "*") {
		optional = true
		name = name[1:]
	}
	goType, ok = goTypes[name]
	return goType, optional, ok
}

// GoTypeOf resolves a reflected field type. Named types resolve through
// their kind.
func GoTypeOf(t reflect.Type) (goType GoType, optional bool, ok bool) {
	if t.Kind() == reflect.Pointer {
		optional = true
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		goType, ok = goTypes["bool"]
	case reflect.Int:
		goType, ok = goTypes["int"]
	case reflect.Int8:
		goType, ok = goTypes["int8"]
	case reflect.Int16:
		goType, ok = goTypes["int16"]
	case reflect.Int32:
		goType, ok = goTypes["int32"]
	case reflect.Int64:
		goType, ok = goTypes["int64"]
	case reflect.Float32:
		goType, ok = goTypes["float32"]
	case reflect.Float64:
		goType, ok = goTypes["float64"]
	case reflect.String:
		goType, ok = goTypes["string"]
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			goType, ok = goTypes["[]byte"]
		}
	}
	return goType, optional, ok
}

// ParseDefault converts the default of a tag to a value of columnType.
// Integer columns accept true and false.
func ParseDefault(value string, columnType winq.ColumnType) (any, error) {
	switch columnType {
	case winq.ColumnTypeInteger:
		switch value {
		case "true":
			return int64(1), nil
		case "false":
			return int64(0), nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: default %q should be an integer", ErrInvalidTag, value)
		}
		return i, nil
	case winq.ColumnTypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: default %q should be a float", ErrInvalidTag, value)
		}
		return f, nil
	case winq.ColumnTypeText:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: assigning a default value to %s is unsupported", ErrInvalidTag, columnType)
	}
}
