package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"github.com/Tencent/wcdb-sub001/orm"
)

// ormImport is the import path of the package the generated code uses.
const ormImport = "github.com/Tencent/wcdb-sub001/orm"

// suffixTypes maps the routine suffix of a GoType to the Go type its
// Bind and Get routines take and return.
var suffixTypes = map[string]string{
	"Bool":    "bool",
	"Int8":    "int8",
	"Int16":   "int16",
	"Int32":   "int32",
	"Int64":   "int64",
	"Float32": "float32",
	"Float64": "float64",
	"Text":    "string",
	"BLOB":    "[]byte",
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by wcdbgen. DO NOT EDIT.

package {{.Package}}

import (
	"sync"

	"{{.Import}}"
)
{{range .Records}}{{$record := .Name}}
// DB{{.Name}} is the table binding of {{.Name}}.
type DB{{.Name}} struct {
	binding *orm.Binding
	fields  []*orm.Field[{{.Name}}]
{{range .Fields}}
	{{.Name}} *orm.Field[{{$record}}]
{{- end}}
}

var db{{.Name}} = sync.OnceValue(func() *DB{{.Name}} {
	b := &DB{{.Name}}{binding: orm.NewBinding()}
{{- range .Fields}}
	b.{{.Name}} = orm.NewField[{{$record}}](b, {{.Column}}, {{.ID}}, {{.Primary}}, {{.AutoIncrement}})
{{- end}}
	b.fields = []*orm.Field[{{.Name}}]{ {{- range $i, $f := .Fields}}{{if $i}}, {{end}}b.{{$f.Name}}{{end -}} }
	orm.MustConfigure(b.binding, {{printf "%q" .Name}}, {{printf "%q" .TableTag}},
{{- range .Tagged}}
		orm.TaggedField{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}, Tag: {{printf "%q" .Tag}}},
{{- end}}
	)
	return b
})

// {{.Name}}Binding returns the table binding of {{.Name}}.
func {{.Name}}Binding() *DB{{.Name}} {
	return db{{.Name}}()
}

// AllFields returns every field in declaration order.
func (b *DB{{.Name}}) AllFields() []*orm.Field[{{.Name}}] {
	return b.fields
}

// AllBindingFields implements orm.TableBinding.
func (b *DB{{.Name}}) AllBindingFields() []*orm.Field[{{.Name}}] {
	return b.fields
}

// BaseBinding implements orm.TableBinding.
func (b *DB{{.Name}}) BaseBinding() *orm.Binding {
	return b.binding
}

// ExtractObject implements orm.TableBinding.
func (b *DB{{.Name}}) ExtractObject(fields []*orm.Field[{{.Name}}], statement orm.PreparedStatement) *{{.Name}} {
	object := &{{.Name}}{}
	for i, field := range fields {
		switch field.ID() {
{{- range .Fields}}
		case {{.ID}}:
			{{.Extract}}
{{- end}}
		}
	}
	return object
}

// BindField implements orm.TableBinding.
func (b *DB{{.Name}}) BindField(object *{{.Name}}, field *orm.Field[{{.Name}}], index int, statement orm.PreparedStatement) {
	switch field.ID() {
{{- range .Fields}}
	case {{.ID}}:
		{{.Bind}}
{{- end}}
	}
}

// IsAutoIncrement implements orm.TableBinding.
func (b *DB{{.Name}}) IsAutoIncrement({{if .Auto}}object{{else}}_{{end}} *{{.Name}}) bool {
{{- if .Auto}}
	return {{.Auto.IsAuto}}
{{- else}}
	return false
{{- end}}
}

// SetLastInsertRowID implements orm.TableBinding.
func (b *DB{{.Name}}) SetLastInsertRowID({{if .Auto}}object{{else}}_{{end}} *{{.Name}}, {{if .Auto}}rowid{{else}}_{{end}} int64) {
{{- if .Auto}}
	{{.Auto.SetRowID}}
{{- end}}
}
{{end}}`))

type fileData struct {
	Package string
	Import  string
	Records []recordData
}

type recordData struct {
	Name     string
	TableTag string
	Tagged   []orm.TaggedField
	Fields   []fieldData
	Auto     *fieldData
}

type fieldData struct {
	Name          string
	Column        string
	ID            int
	Primary       bool
	AutoIncrement bool
	Extract       string
	Bind          string
	IsAuto        string
	SetRowID      string
}

// Generate returns the formatted source of the bindings of records, in
// the package pkg.
func Generate(pkg string, records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	data := fileData{Package: pkg, Import: ormImport}
	for _, record := range records {
		recordData, err := newRecordData(record)
		if err != nil {
			return nil, err
		}
		data.Records = append(data.Records, recordData)
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return src, nil
}

func newRecordData(record Record) (recordData, error) {
	data := recordData{
		Name:     record.Name,
		TableTag: record.TableTag,
		Tagged:   record.Fields,
	}
	for i, spec := range record.Specs {
		field := fieldData{
			Name:          spec.Name,
			Column:        strconv.Quote(spec.Options.Column),
			ID:            i + 1,
			Primary:       spec.Options.Primary,
			AutoIncrement: spec.Options.AutoIncrement,
			Extract:       extractCode(spec),
			Bind:          bindCode(spec),
		}
		if spec.Options.AutoIncrement {
			if spec.Type.Suffix == "Bool" {
				return data, fmt.Errorf("%w: auto-increment field %s of %s must be an integer", orm.ErrInvalidTag, spec.Name, record.Name)
			}
			field.IsAuto, field.SetRowID = autoIncrementCode(spec)
		}
		data.Fields = append(data.Fields, field)
	}
	for i := range data.Fields {
		if data.Fields[i].AutoIncrement {
			data.Auto = &data.Fields[i]
		}
	}
	return data, nil
}

// converts reports whether the field type differs from the type of its
// routines, as int does from int64.
func converts(spec orm.FieldSpec) bool {
	return spec.Type.Name != suffixTypes[spec.Type.Suffix]
}

func extractCode(spec orm.FieldSpec) string {
	get := "statement.Get" + spec.Type.Suffix
	target := "object." + spec.Name
	switch {
	case !spec.Optional && !converts(spec):
		return fmt.Sprintf("%s = %s(i)", target, get)
	case !spec.Optional:
		return fmt.Sprintf("%s = %s(%s(i))", target, spec.Type.Name, get)
	case !converts(spec):
		return fmt.Sprintf("%s = orm.GetOptional(statement, i, %s)", target, get)
	default:
		return fmt.Sprintf("if value := orm.GetOptional(statement, i, %s); value != nil {\n"+
			"converted := %s(*value)\n%s = &converted\n}", get, spec.Type.Name, target)
	}
}

func bindCode(spec orm.FieldSpec) string {
	bind := "statement.Bind" + spec.Type.Suffix
	source := "object." + spec.Name
	routineType := suffixTypes[spec.Type.Suffix]
	switch {
	case !spec.Optional && !converts(spec):
		return fmt.Sprintf("%s(index, %s)", bind, source)
	case !spec.Optional:
		return fmt.Sprintf("%s(index, %s(%s))", bind, routineType, source)
	case !converts(spec):
		return fmt.Sprintf("orm.BindOptional(statement, index, %s, %s)", source, bind)
	default:
		return fmt.Sprintf("if %s == nil {\nstatement.BindNull(index)\n} else {\n%s(index, %s(*%s))\n}",
			source, bind, routineType, source)
	}
}

// autoIncrementCode returns the condition asking the engine for a key and
// the statement storing the assigned rowid.
func autoIncrementCode(spec orm.FieldSpec) (isAuto, setRowID string) {
	target := "object." + spec.Name
	value := "rowid"
	if spec.Type.Name != "int64" {
		value = spec.Type.Name + "(rowid)"
	}
	if spec.Optional {
		return target + " == nil", fmt.Sprintf("value := %s\n%s = &value", value, target)
	}
	return target + " == 0", fmt.Sprintf("%s = %s", target, value)
}
