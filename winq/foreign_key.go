package winq

import "strings"

// ForeignKeyAction is the action of an ON DELETE or ON UPDATE clause.
type ForeignKeyAction int

const (
	ForeignKeySetNull ForeignKeyAction = iota
	ForeignKeySetDefault
	ForeignKeyCascade
	ForeignKeyRestrict
	ForeignKeyNoAction
)

func (a ForeignKeyAction) String() string {
	switch a {
	case ForeignKeySetNull:
		return "SET NULL"
	case ForeignKeySetDefault:
		return "SET DEFAULT"
	case ForeignKeyCascade:
		return "CASCADE"
	case ForeignKeyRestrict:
		return "RESTRICT"
	default:
		return "NO ACTION"
	}
}

// Deferrable is the deferral mode of a foreign key.
type Deferrable int

const (
	DeferrableNone Deferrable = iota
	DeferrableInitiallyDeferred
	DeferrableInitiallyImmediate
	NotDeferrable
	NotDeferrableInitiallyDeferred
	NotDeferrableInitiallyImmediate
)

func (d Deferrable) String() string {
	switch d {
	case DeferrableInitiallyDeferred:
		return "DEFERRABLE INITIALLY DEFERRED"
	case DeferrableInitiallyImmediate:
		return "DEFERRABLE INITIALLY IMMEDIATE"
	case NotDeferrable:
		return "NOT DEFERRABLE"
	case NotDeferrableInitiallyDeferred:
		return "NOT DEFERRABLE INITIALLY DEFERRED"
	case NotDeferrableInitiallyImmediate:
		return "NOT DEFERRABLE INITIALLY IMMEDIATE"
	default:
		return ""
	}
}

// ForeignKey is a REFERENCES clause.
type ForeignKey struct {
	node
	table      string
	columns    []*Column
	clauses    []string
	deferrable Deferrable
}

// NewForeignKey creates an empty foreign key clause.
func NewForeignKey() *ForeignKey {
	return &ForeignKey{node: node{kind: KindForeignKeyClause}}
}

// References sets the parent table.
func (f *ForeignKey) References(table string) *ForeignKey {
	f.table = table
	return f
}

// Columns appends parent columns.
func (f *ForeignKey) Columns(columns ...any) *ForeignKey {
	f.columns = append(f.columns, columnsFrom(columns)...)
	return f
}

// OnDelete appends an ON DELETE action.
func (f *ForeignKey) OnDelete(action ForeignKeyAction) *ForeignKey {
	f.clauses = append(f.clauses, "ON DELETE "+action.String())
	return f
}

// OnUpdate appends an ON UPDATE action.
func (f *ForeignKey) OnUpdate(action ForeignKeyAction) *ForeignKey {
	f.clauses = append(f.clauses, "ON UPDATE "+action.String())
	return f
}

// Match appends a MATCH clause.
func (f *ForeignKey) Match(name string) *ForeignKey {
	f.clauses = append(f.clauses, "MATCH "+name)
	return f
}

// Deferrable sets the deferral mode.
func (f *ForeignKey) Deferrable(deferrable Deferrable) *ForeignKey {
	f.deferrable = deferrable
	return f
}

// Description implements Identifier.
func (f *ForeignKey) Description() string {
	var b strings.Builder
	b.WriteString("REFERENCES " + f.table)
	if len(f.columns) > 0 {
		b.WriteString("(" + columnNames(f.columns) + ")")
	}
	for _, clause := range f.clauses {
		b.WriteString(" " + clause)
	}
	if f.deferrable != DeferrableNone {
		b.WriteString(" " + f.deferrable.String())
	}
	return b.String()
}
