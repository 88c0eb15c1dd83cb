package winq

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type literalSpecial int

const (
	literalPlain literalSpecial = iota
	literalCurrentTime
	literalCurrentDate
	literalCurrentTimestamp
)

// LiteralValue is a constant: NULL, a boolean, a number, a string, a blob or
// one of the CURRENT_* keywords.
type LiteralValue struct {
	node
	valueKind Kind
	i         int64
	u         uint64
	f         float64
	s         string
	blob      []byte
	isBlob    bool
	special   literalSpecial
}

// NewLiteralValue creates a literal from a Go value. All integer widths widen
// to 64 bits, float32 widens to float64, booleans keep the Bool tag so they
// serialize as TRUE or FALSE. Pointers are dereferenced, nil pointers become
// NULL. driver.Valuer implementations are resolved through Value.
func NewLiteralValue(v any) *LiteralValue {
	l := &LiteralValue{node: node{kind: KindLiteralValue}, valueKind: KindNull}
	switch x := v.(type) {
	case nil:
	case *LiteralValue:
		if x != nil {
			copied := *x
			return &copied
		}
	case bool:
		l.valueKind = KindBool
		if x {
			l.i = 1
		}
	case int:
		l.valueKind, l.i = KindInt, int64(x)
	case int8:
		l.valueKind, l.i = KindInt, int64(x)
	case int16:
		l.valueKind, l.i = KindInt, int64(x)
	case int32:
		l.valueKind, l.i = KindInt, int64(x)
	case int64:
		l.valueKind, l.i = KindInt, x
	case uint:
		l.valueKind, l.u = KindUInt, uint64(x)
	case uint8:
		l.valueKind, l.u = KindUInt, uint64(x)
	case uint16:
		l.valueKind, l.u = KindUInt, uint64(x)
	case uint32:
		l.valueKind, l.u = KindUInt, uint64(x)
	case uint64:
		l.valueKind, l.u = KindUInt, x
	case float32:
		l.valueKind, l.f = KindDouble, float64(x)
	case float64:
		l.valueKind, l.f = KindDouble, x
	case string:
		l.valueKind, l.s = KindString, x
	case []byte:
		l.valueKind, l.blob, l.isBlob = KindString, x, true
	case driver.Valuer:
		value, err := x.Value()
		if err == nil {
			return NewLiteralValue(value)
		}
	default:
		return literalFromReflect(l, v)
	}
	return l
}

// literalFromReflect handles pointers and named scalar types such as
// enumerations declared over int or string.
func literalFromReflect(l *LiteralValue, v any) *LiteralValue {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return l
		}
		return NewLiteralValue(rv.Elem().Interface())
	case reflect.Bool:
		return NewLiteralValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewLiteralValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewLiteralValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return NewLiteralValue(rv.Float())
	case reflect.String:
		return NewLiteralValue(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return NewLiteralValue(rv.Bytes())
		}
	}
	if stringer, ok := v.(fmt.Stringer); ok {
		l.valueKind, l.s = KindString, stringer.String()
		return l
	}
	l.valueKind, l.s = KindString, fmt.Sprint(v)
	return l
}

// LiteralCurrentTime creates the CURRENT_TIME keyword.
func LiteralCurrentTime() *LiteralValue {
	return &LiteralValue{node: node{kind: KindLiteralValue}, special: literalCurrentTime}
}

// LiteralCurrentDate creates the CURRENT_DATE keyword.
func LiteralCurrentDate() *LiteralValue {
	return &LiteralValue{node: node{kind: KindLiteralValue}, special: literalCurrentDate}
}

// LiteralCurrentTimestamp creates the CURRENT_TIMESTAMP keyword.
func LiteralCurrentTimestamp() *LiteralValue {
	return &LiteralValue{node: node{kind: KindLiteralValue}, special: literalCurrentTimestamp}
}

// ValueKind returns the scalar tag of the literal (Null, Bool, Int, UInt,
// Double or String).
func (l *LiteralValue) ValueKind() Kind {
	return l.valueKind
}

// Description implements Identifier.
func (l *LiteralValue) Description() string {
	switch l.special {
	case literalCurrentTime:
		return "CURRENT_TIME"
	case literalCurrentDate:
		return "CURRENT_DATE"
	case literalCurrentTimestamp:
		return "CURRENT_TIMESTAMP"
	}
	switch l.valueKind {
	case KindBool:
		if l.i != 0 {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(l.i, 10)
	case KindUInt:
		return strconv.FormatUint(l.u, 10)
	case KindDouble:
		return formatDouble(l.f)
	case KindString:
		if l.isBlob {
			return "X'" + strings.ToUpper(hex.EncodeToString(l.blob)) + "'"
		}
		return quoteString(l.s)
	default:
		return "NULL"
	}
}

func (l *LiteralValue) asExpression() *Expression {
	return newLiteralExpression(l)
}

// formatDouble prints 17 significant digits so the text round-trips.
func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'g', 17, 64)
}
