package wcdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tencent/wcdb-sub001/winq"
)

// Value is a single SQLite value: NULL, INTEGER, REAL, TEXT or BLOB.
// Readers convert between storage classes the way SQLite does, so a Value
// can be read as any type. The zero Value is NULL.
type Value struct {
	kind winq.ColumnType
	i    int64
	f    float64
	s    string
	b    []byte
}

// OneRow is one result row.
type OneRow []Value

// OneColumn is the values of one column across result rows.
type OneColumn []Value

// MultiRows is a list of result rows.
type MultiRows []OneRow

// NullValue returns the NULL value.
func NullValue() Value { return Value{} }

// IntValue returns an INTEGER value.
func IntValue(v int64) Value { return Value{kind: winq.ColumnTypeInteger, i: v} }

// FloatValue returns a REAL value.
func FloatValue(v float64) Value { return Value{kind: winq.ColumnTypeFloat, f: v} }

// TextValue returns a TEXT value.
func TextValue(v string) Value { return Value{kind: winq.ColumnTypeText, s: v} }

// BLOBValue returns a BLOB value holding a copy of v.
func BLOBValue(v []byte) Value {
	return Value{kind: winq.ColumnTypeBLOB, b: append([]byte{}, v...)}
}

// NewValue converts a Go value into a Value. Booleans and all integer
// widths become INTEGER, floats become REAL, strings TEXT and byte slices
// BLOB. A nil pointer or nil becomes NULL; a non-nil pointer is
// dereferenced.
func NewValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case bool:
		if x {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows INTEGER", ErrMisuse, x)
		}
		return IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows INTEGER", ErrMisuse, x)
		}
		return IntValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case string:
		return TextValue(x), nil
	case []byte:
		if x == nil {
			return NullValue(), nil
		}
		return BLOBValue(x), nil
	case *bool:
		return derefValue(x)
	case *int:
		return derefValue(x)
	case *int8:
		return derefValue(x)
	case *int16:
		return derefValue(x)
	case *int32:
		return derefValue(x)
	case *int64:
		return derefValue(x)
	case *float32:
		return derefValue(x)
	case *float64:
		return derefValue(x)
	case *string:
		return derefValue(x)
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrMisuse, v)
	}
}

func derefValue[V any](p *V) (Value, error) {
	if p == nil {
		return NullValue(), nil
	}
	return NewValue(*p)
}

// MustValue is like NewValue but panics on unsupported types.
func MustValue(v any) Value {
	value, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return value
}

// valueFromDriver converts what database/sql scanned from the engine.
func valueFromDriver(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case int64:
		return IntValue(x)
	case float64:
		return FloatValue(x)
	case string:
		return TextValue(x)
	case []byte:
		return Value{kind: winq.ColumnTypeBLOB, b: x}
	case bool:
		if x {
			return IntValue(1)
		}
		return IntValue(0)
	case time.Time:
		return TextValue(formatTime(x))
	default:
		return TextValue(fmt.Sprint(x))
	}
}

// The driver parses TEXT of DATE, DATETIME and TIMESTAMP columns into
// time.Time. formatTime gives it back in the layout of the engine's date
// functions, with a fraction and an offset only when they are set.
func formatTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".999999999"
	}
	if _, offset := t.Zone(); offset != 0 {
		layout += "-07:00"
	}
	return t.Format(layout)
}

// driverValue returns the argument passed to database/sql.
func (v Value) driverValue() any {
	switch v.kind {
	case winq.ColumnTypeInteger:
		return v.i
	case winq.ColumnTypeFloat:
		return v.f
	case winq.ColumnTypeText:
		return v.s
	case winq.ColumnTypeBLOB:
		if v.b == nil {
			return []byte{}
		}
		return v.b
	default:
		return nil
	}
}

// Type returns the storage class of the value.
func (v Value) Type() winq.ColumnType {
	return v.kind
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.kind == winq.ColumnTypeNull
}

// Bool reads the value as a boolean: any non-zero integer is true.
func (v Value) Bool() bool {
	return v.Int() != 0
}

// Int reads the value as an integer. Reals are truncated and text is
// parsed, yielding 0 when it is not a number.
func (v Value) Int() int64 {
	switch v.kind {
	case winq.ColumnTypeInteger:
		return v.i
	case winq.ColumnTypeFloat:
		return int64(v.f)
	case winq.ColumnTypeText:
		return parseInt(v.s)
	case winq.ColumnTypeBLOB:
		return parseInt(string(v.b))
	default:
		return 0
	}
}

// Float reads the value as a real.
func (v Value) Float() float64 {
	switch v.kind {
	case winq.ColumnTypeInteger:
		return float64(v.i)
	case winq.ColumnTypeFloat:
		return v.f
	case winq.ColumnTypeText:
		return parseFloat(v.s)
	case winq.ColumnTypeBLOB:
		return parseFloat(string(v.b))
	default:
		return 0
	}
}

// Text reads the value as text. A BLOB is read as UTF-8.
func (v Value) Text() string {
	switch v.kind {
	case winq.ColumnTypeInteger:
		return strconv.FormatInt(v.i, 10)
	case winq.ColumnTypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case winq.ColumnTypeText:
		return v.s
	case winq.ColumnTypeBLOB:
		return strings.ToValidUTF8(string(v.b), "�")
	default:
		return ""
	}
}

// BLOB reads the value as bytes. The result is a copy.
func (v Value) BLOB() []byte {
	switch v.kind {
	case winq.ColumnTypeBLOB:
		return append([]byte{}, v.b...)
	case winq.ColumnTypeNull:
		return nil
	default:
		return []byte(v.Text())
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	return v.Text()
}

// Equal reports whether both values have the same storage class and
// content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case winq.ColumnTypeInteger:
		return v.i == other.i
	case winq.ColumnTypeFloat:
		return v.f == other.f
	case winq.ColumnTypeText:
		return v.s == other.s
	case winq.ColumnTypeBLOB:
		return string(v.b) == string(other.b)
	default:
		return true
	}
}

// Expression returns the value as a WINQ literal.
func (v Value) Expression() *winq.Expression {
	switch v.kind {
	case winq.ColumnTypeInteger:
		return winq.NewExpression(v.i)
	case winq.ColumnTypeFloat:
		return winq.NewExpression(v.f)
	case winq.ColumnTypeText:
		return winq.NewExpression(v.s)
	case winq.ColumnTypeBLOB:
		return winq.NewExpression(v.b)
	default:
		return winq.NewExpression(nil)
	}
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Values converts each argument with NewValue.
func Values(vs ...any) (OneRow, error) {
	row := make(OneRow, 0, len(vs))
	for _, v := range vs {
		value, err := NewValue(v)
		if err != nil {
			return nil, err
		}
		row = append(row, value)
	}
	return row, nil
}
