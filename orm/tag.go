package orm

import (
	"errors"
	"fmt"
	"strings"
)

// TagKey is the struct tag key read by Reflect and cmd/wcdbgen.
const TagKey = "wcdb"

// ErrInvalidTag is returned for a malformed `wcdb` struct tag.
var ErrInvalidTag = errors.New("orm: invalid tag")

// IndexOption is a single column index declared on a field.
type IndexOption struct {
	// Name is the full index name. When empty the index is named after the
	// table and the column.
	Name   string
	Unique bool
}

// FieldOptions are the options of a field tag:
//
//	`wcdb:"column[,primary][,autoincrement][,autoincrement_existing][,unique][,notnull][,notindexed][,default=v][,index[=name]][,unique_index[=name]]"`
//
// An empty column name defaults to the Go field name. A tag of "-" skips
// the field.
type FieldOptions struct {
	Column                        string
	Primary                       bool
	AutoIncrement                 bool
	AutoIncrementForExistingTable bool
	Unique                        bool
	NotNull                       bool
	NotIndexed                    bool
	Default                       *string
	Index                         *IndexOption
}

// MultiIndex is an index over several columns.
type MultiIndex struct {
	// Name is the full index name. When empty the index is named after the
	// table and the columns.
	Name    string
	Columns []string
}

// TableOptions are the options of the table tag, carried by a blank field:
//
//	_ struct{} `wcdb:"table[,primaries=a+b][,unique=a+b][,index=[name:]a+b][,without_rowid][,fts=fts5][,tokenizer=name params...][,content=table]"`
//
// primaries, unique and index may be repeated.
type TableOptions struct {
	MultiPrimaries [][]string
	MultiUnique    [][]string
	MultiIndexes   []MultiIndex
	WithoutRowID   bool
	FTS            *FTSModule
}

// ParseFieldTag parses the tag of the Go field fieldName. skip is set for
// the tag "-".
func ParseFieldTag(fieldName, tag string) (options FieldOptions, skip bool, err error) {
	if tag == "-" {
		return options, true, nil
	}
	parts := strings.Split(tag, ",")
	options.Column = strings.TrimSpace(parts[0])
	if options.Column == "" {
		options.Column = fieldName
	}
	for _, part := range parts[1:] {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "primary":
			options.Primary = true
		case "autoincrement":
			options.AutoIncrement = true
		case "autoincrement_existing":
			options.AutoIncrementForExistingTable = true
		case "unique":
			options.Unique = true
		case "notnull":
			options.NotNull = true
		case "notindexed":
			options.NotIndexed = true
		case "default":
			if !hasValue {
				return options, false, fmt.Errorf("%w: default of %s has no value", ErrInvalidTag, fieldName)
			}
			options.Default = &value
		case "index":
			options.Index = &IndexOption{Name: value}
		case "unique_index":
			options.Index = &IndexOption{Name: value, Unique: true}
		case "":
		default:
			return options, false, fmt.Errorf("%w: unknown option %q of %s", ErrInvalidTag, key, fieldName)
		}
	}
	return options, false, nil
}

// ParseTableTag parses the tag of the blank table field. ok is false when
// the tag does not start with "table".
func ParseTableTag(tag string) (options TableOptions, ok bool, err error) {
	parts := strings.Split(tag, ",")
	if strings.TrimSpace(parts[0]) != "table" {
		return options, false, nil
	}
	for _, part := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "primaries":
			options.MultiPrimaries = append(options.MultiPrimaries, splitColumns(value))
		case "unique":
			options.MultiUnique = append(options.MultiUnique, splitColumns(value))
		case "index":
			name, columns, named := strings.Cut(value, ":")
			if !named {
				name, columns = "", value
			}
			options.MultiIndexes = append(options.MultiIndexes, MultiIndex{Name: name, Columns: splitColumns(columns)})
		case "without_rowid":
			options.WithoutRowID = true
		case "fts":
			options.fts().Version = value
		case "tokenizer":
			fields := strings.Fields(value)
			if len(fields) > 0 {
				options.fts().Tokenizer = fields[0]
				options.fts().TokenizerParameters = fields[1:]
			}
		case "content":
			options.fts().ExternalTable = value
		case "":
		default:
			return options, true, fmt.Errorf("%w: unknown table option %q", ErrInvalidTag, key)
		}
	}
	return options, true, nil
}

func (o *TableOptions) fts() *FTSModule {
	if o.FTS == nil {
		o.FTS = &FTSModule{}
	}
	return o.FTS
}

func splitColumns(value string) []string {
	var columns []string
	for _, column := range strings.Split(value, "+") {
		if column = strings.TrimSpace(column); column != "" {
			columns = append(columns, column)
		}
	}
	return columns
}
