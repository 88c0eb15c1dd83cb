package orm

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Tencent/wcdb-sub001/winq"
)

// ReflectBinding is a TableBinding built at run time from the `wcdb` tags
// of T. It behaves like a generated binding and is slower only by the
// reflection on each bind and extract.
type ReflectBinding[T any] struct {
	binding *Binding
	fields  []*Field[T]
	byName  map[string]*Field[T]
	specs   []reflectField
	auto    int
}

type reflectField struct {
	index    []int
	goType   GoType
	optional bool
}

var reflectBindings sync.Map

// Reflect returns the binding of T, building it on first use. The binding
// is a process-wide singleton per type.
func Reflect[T any]() (*ReflectBinding[T], error) {
	t := reflect.TypeFor[T]()
	if cached, ok := reflectBindings.Load(t); ok {
		return cached.(*ReflectBinding[T]), nil
	}
	binding, err := newReflectBinding[T](t)
	if err != nil {
		return nil, err
	}
	actual, _ := reflectBindings.LoadOrStore(t, binding)
	return actual.(*ReflectBinding[T]), nil
}

// MustReflect is like Reflect but panics on malformed tags. It suits
// package level variables.
func MustReflect[T any]() *ReflectBinding[T] {
	binding, err := Reflect[T]()
	if err != nil {
		panic(err)
	}
	return binding
}

func newReflectBinding[T any](t reflect.Type) (*ReflectBinding[T], error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidTag, t)
	}
	var (
		table     TableOptions
		specs     []FieldSpec
		reflected []reflectField
	)
	for _, sf := range reflect.VisibleFields(t) {
		tag, tagged := sf.Tag.Lookup(TagKey)
		if sf.Name == "_" {
			options, ok, err := ParseTableTag(tag)
			if err != nil {
				return nil, err
			}
			if ok {
				table = options
			}
			continue
		}
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		options, skip, err := ParseFieldTag(sf.Name, tag)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		goType, optional, ok := GoTypeOf(sf.Type)
		if !ok {
			if !tagged {
				continue
			}
			return nil, fmt.Errorf("%w: type %s of field %s in %s is unsupported", ErrInvalidTag, sf.Type, sf.Name, t)
		}
		specs = append(specs, FieldSpec{Name: sf.Name, Type: goType, Optional: optional, Options: options})
		reflected = append(reflected, reflectField{index: sf.Index, goType: goType, optional: optional})
	}
	if err := Validate(t.Name(), table, specs); err != nil {
		return nil, err
	}

	r := &ReflectBinding[T]{
		binding: NewBinding(),
		byName:  make(map[string]*Field[T], len(specs)),
		specs:   reflected,
		auto:    -1,
	}
	if err := Configure(r.binding, table, specs); err != nil {
		return nil, err
	}
	for i, spec := range specs {
		field := NewField[T](r, spec.Options.Column, i+1, spec.Options.Primary, spec.Options.AutoIncrement)
		r.fields = append(r.fields, field)
		r.byName[strings.ToLower(spec.Options.Column)] = field
		r.byName[strings.ToLower(spec.Name)] = field
		if spec.Options.AutoIncrement {
			r.auto = i
		}
	}
	return r, nil
}

// Field returns the field of a column or Go field name, or nil.
func (r *ReflectBinding[T]) Field(name string) *Field[T] {
	return r.byName[strings.ToLower(name)]
}

// AllBindingFields implements TableBinding.
func (r *ReflectBinding[T]) AllBindingFields() []*Field[T] {
	return r.fields
}

// BaseBinding implements TableBinding.
func (r *ReflectBinding[T]) BaseBinding() *Binding {
	return r.binding
}

// ExtractObject implements TableBinding.
func (r *ReflectBinding[T]) ExtractObject(fields []*Field[T], statement PreparedStatement) *T {
	object := new(T)
	value := reflect.ValueOf(object).Elem()
	for i, field := range fields {
		spec := r.specs[field.ID()-1]
		target := value.FieldByIndex(spec.index)
		if spec.optional {
			if statement.ColumnType(i) == winq.ColumnTypeNull {
				continue
			}
			target.Set(reflect.New(target.Type().Elem()))
			target = target.Elem()
		}
		setValue(target, spec.goType, statement, i)
	}
	return object
}

func setValue(target reflect.Value, goType GoType, statement PreparedStatement, index int) {
	switch goType.Suffix {
	case "Bool":
		target.SetBool(statement.GetBool(index))
	case "Int8", "Int16", "Int32", "Int64":
		target.SetInt(statement.GetInt64(index))
	case "Float32", "Float64":
		target.SetFloat(statement.GetFloat64(index))
	case "Text":
		target.SetString(statement.GetText(index))
	case "BLOB":
		target.SetBytes(statement.GetBLOB(index))
	}
}

// BindField implements TableBinding.
func (r *ReflectBinding[T]) BindField(object *T, field *Field[T], index int, statement PreparedStatement) {
	spec := r.specs[field.ID()-1]
	value := reflect.ValueOf(object).Elem().FieldByIndex(spec.index)
	if spec.optional {
		if value.IsNil() {
			statement.BindNull(index)
			return
		}
		value = value.Elem()
	}
	switch spec.goType.Suffix {
	case "Bool":
		statement.BindBool(index, value.Bool())
	case "Int8", "Int16", "Int32", "Int64":
		statement.BindInt64(index, value.Int())
	case "Float32", "Float64":
		statement.BindFloat64(index, value.Float())
	case "Text":
		statement.BindText(index, value.String())
	case "BLOB":
		statement.BindBLOB(index, value.Bytes())
	}
}

// IsAutoIncrement implements TableBinding. A record asks for an engine
// assigned key when its auto-increment field holds the zero value.
func (r *ReflectBinding[T]) IsAutoIncrement(object *T) bool {
	if r.auto < 0 {
		return false
	}
	value := reflect.ValueOf(object).Elem().FieldByIndex(r.specs[r.auto].index)
	return value.IsZero()
}

// SetLastInsertRowID implements TableBinding.
func (r *ReflectBinding[T]) SetLastInsertRowID(object *T, rowid int64) {
	if r.auto < 0 {
		return
	}
	value := reflect.ValueOf(object).Elem().FieldByIndex(r.specs[r.auto].index)
	if value.Kind() == reflect.Pointer {
		value.Set(reflect.New(value.Type().Elem()))
		value = value.Elem()
	}
	value.SetInt(rowid)
}
