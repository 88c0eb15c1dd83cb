// Package codegen generates orm.TableBinding implementations from Go
// structs annotated with `wcdb` tags.
//
// A record type opts in by tagging at least one of its fields. The table
// options sit on a blank field:
//
//	type Message struct {
//		_       struct{} `wcdb:"table,unique=sender+sent_at"`
//		ID      int64    `wcdb:"id,primary,autoincrement"`
//		Sender  string   `wcdb:"sender,notnull"`
//		Content *string  `wcdb:"content"`
//		SentAt  int64    `wcdb:"sent_at"`
//	}
//
// For each record R the generator emits a DBR type holding one field per
// column, a lazily built singleton returned by RBinding, and the methods of
// orm.TableBinding[R].
package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strconv"

	"github.com/Tencent/wcdb-sub001/orm"
)

// ErrNoRecords is returned when a file declares no tagged struct.
var ErrNoRecords = errors.New("codegen: no record type with wcdb tags")

// reservedNames are the members of the generated type a record field can
// not shadow.
var reservedNames = []string{"AllFields", "AllBindingFields", "BaseBinding", "ExtractObject", "BindField", "IsAutoIncrement", "SetLastInsertRowID"}

// Record is a tagged struct of a source file.
type Record struct {
	Name     string
	TableTag string
	// Fields are the fields passed to orm.ParseTagged, in declaration
	// order. Untagged fields of unsupported types are left out.
	Fields []orm.TaggedField
	// Specs are the validated columns.
	Specs []orm.FieldSpec
}

// File is a parsed source file.
type File struct {
	Path    string
	Package string
	Records []Record
}

// ParseFile parses the Go source of filename and returns its record types.
// src follows go/parser.ParseFile: when nil the file is read from disk.
func ParseFile(filename string, src any) (*File, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	file := &File{Path: filename, Package: node.Name.Name}
	for _, decl := range node.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			record, tagged, err := parseRecord(typeSpec.Name.Name, structType)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fset.Position(typeSpec.Pos()), err)
			}
			if tagged {
				file.Records = append(file.Records, record)
			}
		}
	}
	return file, nil
}

// parseRecord collects the fields of a struct. tagged reports whether any
// field carries a `wcdb` tag.
func parseRecord(name string, structType *ast.StructType) (record Record, tagged bool, err error) {
	record.Name = name
	for _, field := range structType.Fields.List {
		tag, hasTag, err := lookupTag(field)
		if err != nil {
			return record, false, err
		}
		tagged = tagged || hasTag
		if len(field.Names) == 0 {
			// embedded
			continue
		}
		spelling := types.ExprString(field.Type)
		for _, ident := range field.Names {
			if ident.Name == "_" {
				record.TableTag = tag
				continue
			}
			if !ident.IsExported() {
				continue
			}
			if _, _, ok := orm.LookupGoType(spelling); !ok && !hasTag {
				continue
			}
			if slices.Contains(reservedNames, ident.Name) {
				return record, false, fmt.Errorf("%w: field %s of %s shadows a binding method", orm.ErrInvalidTag, ident.Name, name)
			}
			record.Fields = append(record.Fields, orm.TaggedField{Name: ident.Name, Type: spelling, Tag: tag})
		}
	}
	if !tagged {
		return record, false, nil
	}
	_, specs, err := orm.ParseTagged(name, record.TableTag, record.Fields)
	if err != nil {
		return record, false, err
	}
	if len(specs) == 0 {
		return record, false, fmt.Errorf("%w: %s has no column", orm.ErrInvalidTag, name)
	}
	record.Specs = specs
	return record, true, nil
}

func lookupTag(field *ast.Field) (string, bool, error) {
	if field.Tag == nil {
		return "", false, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false, fmt.Errorf("malformed struct tag %s: %w", field.Tag.Value, err)
	}
	tag, ok := reflect.StructTag(raw).Lookup(orm.TagKey)
	return tag, ok, nil
}

// Select returns the records named in names, or every record when names
// is empty.
func (f *File) Select(names ...string) ([]Record, error) {
	if len(f.Records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, f.Path)
	}
	if len(names) == 0 {
		return f.Records, nil
	}
	records := make([]Record, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(f.Records, func(r Record) bool { return r.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("%w: %s in %s", ErrNoRecords, name, f.Path)
		}
		records = append(records, f.Records[i])
	}
	return records, nil
}
