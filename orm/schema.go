package orm

import (
	"fmt"
	"strings"

	"github.com/Tencent/wcdb-sub001/winq"
)

// FieldSpec is one tagged field of a record type.
type FieldSpec struct {
	// Name is the Go field name.
	Name     string
	Type     GoType
	Optional bool
	Options  FieldOptions
}

// Validate checks the tags of a record type:
//
//   - at most one field is primary, and multi-column primaries are used
//     for more;
//   - an auto-increment field is an integer primary key;
//   - a primary field carries no index;
//   - a not null field is not optional;
//   - a default matches the column type and is never set on a BLOB;
//   - multi-column specs only name existing columns.
func Validate(record string, table TableOptions, fields []FieldSpec) error {
	primaries := 0
	columns := make(map[string]bool, len(fields))
	for _, field := range fields {
		options := field.Options
		if columns[options.Column] {
			return fmt.Errorf("%w: column %s of %s is declared twice", ErrInvalidTag, options.Column, record)
		}
		columns[options.Column] = true
		if options.Primary {
			primaries++
			if primaries > 1 {
				return fmt.Errorf("%w: %s of %s is a second primary key, declare composite keys with primaries", ErrInvalidTag, field.Name, record)
			}
			if options.AutoIncrement && field.Type.ColumnType != winq.ColumnTypeInteger {
				return fmt.Errorf("%w: auto-increment field %s of %s must be an integer", ErrInvalidTag, field.Name, record)
			}
			if options.Index != nil {
				return fmt.Errorf("%w: primary key %s of %s needs no index", ErrInvalidTag, field.Name, record)
			}
		} else if options.AutoIncrement {
			return fmt.Errorf("%w: auto-increment field %s of %s must be the primary key", ErrInvalidTag, field.Name, record)
		}
		if options.NotNull && field.Optional {
			return fmt.Errorf("%w: not null field %s of %s can not be optional", ErrInvalidTag, field.Name, record)
		}
		if options.Default != nil {
			if _, err := ParseDefault(*options.Default, field.Type.ColumnType); err != nil {
				return fmt.Errorf("%s of %s: %w", field.Name, record, err)
			}
		}
	}

	check := func(kind string, names []string) error {
		if len(names) == 0 {
			return fmt.Errorf("%w: %s of %s names no column", ErrInvalidTag, kind, record)
		}
		for _, name := range names {
			if !columns[name] {
				return fmt.Errorf("%w: %s of %s names unknown column %s", ErrInvalidTag, kind, record, name)
			}
		}
		return nil
	}
	for _, names := range table.MultiPrimaries {
		if err := check("primaries", names); err != nil {
			return err
		}
	}
	for _, names := range table.MultiUnique {
		if err := check("unique", names); err != nil {
			return err
		}
	}
	for _, index := range table.MultiIndexes {
		if err := check("index", index.Columns); err != nil {
			return err
		}
	}
	return nil
}

// ColumnDefOf returns the column definition of a field.
func ColumnDefOf(field FieldSpec) (*winq.ColumnDef, error) {
	options := field.Options
	def := winq.NewColumnDef(options.Column, field.Type.ColumnType)
	if options.Primary {
		def.MakePrimary(options.AutoIncrement)
	}
	if options.Default != nil {
		value, err := ParseDefault(*options.Default, field.Type.ColumnType)
		if err != nil {
			return nil, err
		}
		def.MakeDefaultTo(value)
	}
	if options.Unique {
		def.MakeUnique()
	}
	if options.NotNull {
		def.MakeNotNull()
	}
	if options.NotIndexed {
		def.MakeNotIndexed()
	}
	return def, nil
}

// IndexSuffix returns the suffix naming an unnamed index over columns.
func IndexSuffix(columns ...string) string {
	return "_" + strings.Join(columns, "_") + "_index"
}

// Configure applies validated tags to binding.
func Configure(binding *Binding, table TableOptions, fields []FieldSpec) error {
	for _, field := range fields {
		def, err := ColumnDefOf(field)
		if err != nil {
			return err
		}
		binding.AddColumnDef(def)
		if field.Options.AutoIncrementForExistingTable {
			binding.EnableAutoIncrementForExistingTable()
		}
		if index := field.Options.Index; index != nil {
			statement := winq.NewStatementCreateIndex().IfNotExists().IndexedBy(field.Options.Column)
			if index.Unique {
				statement.Unique()
			}
			if index.Name != "" {
				binding.AddIndex(index.Name, true, statement)
			} else {
				binding.AddIndex(IndexSuffix(field.Options.Column), false, statement)
			}
		}
	}
	for _, index := range table.MultiIndexes {
		statement := winq.NewStatementCreateIndex().IfNotExists().IndexedBy(stringsToAny(index.Columns)...)
		if index.Name != "" {
			binding.AddIndex(index.Name, true, statement)
		} else {
			binding.AddIndex(IndexSuffix(index.Columns...), false, statement)
		}
	}
	for _, columns := range table.MultiPrimaries {
		binding.AddTableConstraint(winq.NewTableConstraint().PrimaryKey().IndexedBy(stringsToAny(columns)...))
	}
	for _, columns := range table.MultiUnique {
		binding.AddTableConstraint(winq.NewTableConstraint().Unique().IndexedBy(stringsToAny(columns)...))
	}
	if table.WithoutRowID {
		binding.ConfigWithoutRowID()
	}
	table.FTS.Configure(binding)
	return nil
}

func stringsToAny(values []string) []any {
	result := make([]any, 0, len(values))
	for _, value := range values {
		result = append(result, value)
	}
	return result
}

// TaggedField is a field as written in source: its Go name, the spelling
// of its type and its `wcdb` tag.
type TaggedField struct {
	Name string
	Type string
	Tag  string
}

// ParseTagged parses and validates the tags of the record type record.
// Fields without a tag use their Go name as column; fields tagged "-" are
// dropped.
func ParseTagged(record, tableTag string, fields []TaggedField) (TableOptions, []FieldSpec, error) {
	var table TableOptions
	if tableTag != "" {
		options, ok, err := ParseTableTag(tableTag)
		if err != nil {
			return table, nil, fmt.Errorf("%s: %w", record, err)
		}
		if !ok {
			return table, nil, fmt.Errorf("%w: table tag of %s must start with table", ErrInvalidTag, record)
		}
		table = options
	}
	specs := make([]FieldSpec, 0, len(fields))
	for _, field := range fields {
		options, skip, err := ParseFieldTag(field.Name, field.Tag)
		if err != nil {
			return table, nil, fmt.Errorf("%s: %w", record, err)
		}
		if skip {
			continue
		}
		goType, optional, ok := LookupGoType(field.Type)
		if !ok {
			return table, nil, fmt.Errorf("%w: type %s of field %s in %s is unsupported", ErrInvalidTag, field.Type, field.Name, record)
		}
		specs = append(specs, FieldSpec{Name: field.Name, Type: goType, Optional: optional, Options: options})
	}
	if err := Validate(record, table, specs); err != nil {
		return table, nil, err
	}
	return table, specs, nil
}

// MustConfigure configures binding from the tags of record and panics on
// malformed tags. Generated bindings call it once at package init, after
// the generator validated the same tags.
func MustConfigure(binding *Binding, record, tableTag string, fields ...TaggedField) {
	table, specs, err := ParseTagged(record, tableTag, fields)
	if err == nil {
		err = Configure(binding, table, specs)
	}
	if err != nil {
		panic(err)
	}
}
