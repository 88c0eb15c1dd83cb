package orm

import (
	"strings"
	"sync"

	"github.com/Tencent/wcdb-sub001/winq"
)

// IndexAction decides what CreateTable does with an index.
type IndexAction int

const (
	// IndexCreate creates the index if it does not exist.
	IndexCreate IndexAction = iota
	// IndexCreateForNewlyCreatedTableOnly creates the index only together
	// with the table.
	IndexCreateForNewlyCreatedTableOnly
	// IndexDrop drops the index if it exists.
	IndexDrop
)

// Index is an index declared on a Binding.
type Index struct {
	// NameOrSuffix is the full index name when FullName is set, otherwise
	// a suffix appended to the table name.
	NameOrSuffix string
	FullName     bool
	Action       IndexAction
	// Statement is the template of CREATE INDEX. Its name and table are
	// filled in per table.
	Statement *winq.StatementCreateIndex
}

// Name returns the index name for table.
func (i *Index) Name(table string) string {
	if i.FullName {
		return i.NameOrSuffix
	}
	return table + i.NameOrSuffix
}

// Binding is the schema of a record type. It is configured once, usually
// by generated code, and becomes read-only the first time it is read:
// configurators called after that are ignored.
type Binding struct {
	mu     sync.RWMutex
	frozen bool

	columnDefs                    []*winq.ColumnDef
	constraints                   []*winq.TableConstraint
	indexes                       []*Index
	virtualModule                 string
	virtualArguments              []string
	withoutRowID                  bool
	autoIncrementForExistingTable bool
}

// NewBinding creates an empty Binding.
func NewBinding() *Binding {
	return &Binding{}
}

// BaseBinding returns b, so a Binding is accepted wherever a TableBinding
// is only needed for its schema.
func (b *Binding) BaseBinding() *Binding {
	return b
}

func (b *Binding) configure(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return
	}
	fn()
}

func (b *Binding) read() func() {
	b.mu.RLock()
	if b.frozen {
		return b.mu.RUnlock
	}
	b.mu.RUnlock()

	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
	b.mu.RLock()
	return b.mu.RUnlock
}

// AddColumnDef appends a column definition. A definition with the name of
// an existing one, compared case insensitively, replaces it in place.
func (b *Binding) AddColumnDef(def *winq.ColumnDef) {
	b.configure(func() {
		for i, existing := range b.columnDefs {
			if strings.EqualFold(existing.Name(), def.Name()) {
				b.columnDefs[i] = def
				return
			}
		}
		b.columnDefs = append(b.columnDefs, def)
	})
}

// EnableAutoIncrementForExistingTable makes CreateTable migrate an existing
// table whose integer primary key is not yet AUTOINCREMENT.
func (b *Binding) EnableAutoIncrementForExistingTable() {
	b.configure(func() {
		b.autoIncrementForExistingTable = true
	})
}

// AddIndex declares an index created with the table. nameOrSuffix is the
// full name when isFullName is set, otherwise a suffix of the table name.
func (b *Binding) AddIndex(nameOrSuffix string, isFullName bool, statement *winq.StatementCreateIndex) {
	b.addIndex(&Index{NameOrSuffix: nameOrSuffix, FullName: isFullName, Action: IndexCreate, Statement: statement})
}

// AddIndexForNewlyCreatedTableOnly declares an index created only when
// CreateTable creates the table.
func (b *Binding) AddIndexForNewlyCreatedTableOnly(nameOrSuffix string, isFullName bool, statement *winq.StatementCreateIndex) {
	b.addIndex(&Index{NameOrSuffix: nameOrSuffix, FullName: isFullName, Action: IndexCreateForNewlyCreatedTableOnly, Statement: statement})
}

// DropIndex declares an index that CreateTable drops.
func (b *Binding) DropIndex(nameOrSuffix string, isFullName bool) {
	b.addIndex(&Index{NameOrSuffix: nameOrSuffix, FullName: isFullName, Action: IndexDrop})
}

func (b *Binding) addIndex(index *Index) {
	b.configure(func() {
		for i, existing := range b.indexes {
			if existing.NameOrSuffix == index.NameOrSuffix {
				b.indexes[i] = index
				return
			}
		}
		b.indexes = append(b.indexes, index)
	})
}

// AddTableConstraint appends a table constraint such as a composite primary
// key.
func (b *Binding) AddTableConstraint(constraint *winq.TableConstraint) {
	b.configure(func() {
		b.constraints = append(b.constraints, constraint)
	})
}

// ConfigVirtualModule makes the table a virtual table using module, such
// as fts5.
func (b *Binding) ConfigVirtualModule(module string) {
	b.configure(func() {
		b.virtualModule = module
	})
}

// ConfigVirtualModuleArgument appends a module argument placed before the
// column arguments.
func (b *Binding) ConfigVirtualModuleArgument(argument string) {
	b.configure(func() {
		b.virtualArguments = append(b.virtualArguments, argument)
	})
}

// ConfigWithoutRowID makes the table WITHOUT ROWID.
func (b *Binding) ConfigWithoutRowID() {
	b.configure(func() {
		b.withoutRowID = true
	})
}

// ColumnDefs returns the column definitions in declaration order.
func (b *Binding) ColumnDefs() []*winq.ColumnDef {
	defer b.read()()
	return append([]*winq.ColumnDef(nil), b.columnDefs...)
}

// ColumnDef returns the definition of a column, compared case
// insensitively, or nil.
func (b *Binding) ColumnDef(name string) *winq.ColumnDef {
	defer b.read()()
	for _, def := range b.columnDefs {
		if strings.EqualFold(def.Name(), name) {
			return def
		}
	}
	return nil
}

// Indexes returns the declared indexes.
func (b *Binding) Indexes() []*Index {
	defer b.read()()
	return append([]*Index(nil), b.indexes...)
}

// VirtualModule returns the virtual table module, empty for a regular
// table.
func (b *Binding) VirtualModule() string {
	defer b.read()()
	return b.virtualModule
}

// GenerateCreateTableStatement returns CREATE TABLE IF NOT EXISTS table
// with every column definition and table constraint.
func (b *Binding) GenerateCreateTableStatement(table string) *winq.StatementCreateTable {
	defer b.read()()
	return b.createTableStatement(table)
}

func (b *Binding) createTableStatement(table string) *winq.StatementCreateTable {
	statement := winq.NewStatementCreateTable().CreateTable(table).IfNotExists().
		Define(b.columnDefs...).
		Constraint(b.constraints...)
	if b.withoutRowID {
		statement.WithoutRowID()
	}
	return statement
}

// GenerateCreateVirtualTableStatement returns CREATE VIRTUAL TABLE IF NOT
// EXISTS table. The configured module arguments come first, followed by
// one argument per column: fts5 takes bare column names, other modules
// take full column definitions.
func (b *Binding) GenerateCreateVirtualTableStatement(table string) *winq.StatementCreateVirtualTable {
	defer b.read()()
	return b.createVirtualTableStatement(table)
}

func (b *Binding) createVirtualTableStatement(table string) *winq.StatementCreateVirtualTable {
	statement := winq.NewStatementCreateVirtualTable().CreateVirtualTable(table).IfNotExists().
		UsingModule(b.virtualModule)
	for _, argument := range b.virtualArguments {
		statement.Arguments(argument)
	}
	isFTS5 := strings.EqualFold(b.virtualModule, FTS5)
	var notIndexed []string
	for _, def := range b.columnDefs {
		switch {
		case isFTS5 && def.IsUnIndexed():
			statement.Arguments(def.Name() + " UNINDEXED")
		case isFTS5:
			statement.Arguments(def.Name())
		case def.IsUnIndexed() && def.ColumnType() == winq.ColumnTypeNull:
			statement.Arguments(def.Name())
			notIndexed = append(notIndexed, def.Name())
		case def.IsUnIndexed():
			statement.Arguments(winq.NewColumnDef(def.Name(), def.ColumnType()))
			notIndexed = append(notIndexed, def.Name())
		default:
			statement.Arguments(def)
		}
	}
	for _, column := range notIndexed {
		statement.Arguments("notindexed=" + column)
	}
	return statement
}

// GenerateIndexStatements returns the CREATE INDEX and DROP INDEX
// statements for table. Indexes declared for newly created tables only
// are included when newlyCreated is set.
func (b *Binding) GenerateIndexStatements(table string, newlyCreated bool) ([]*winq.StatementCreateIndex, []*winq.StatementDropIndex) {
	defer b.read()()
	return b.indexStatements(table, newlyCreated)
}

func (b *Binding) indexStatements(table string, newlyCreated bool) ([]*winq.StatementCreateIndex, []*winq.StatementDropIndex) {
	var creates []*winq.StatementCreateIndex
	var drops []*winq.StatementDropIndex
	for _, index := range b.indexes {
		switch index.Action {
		case IndexCreateForNewlyCreatedTableOnly:
			if !newlyCreated {
				continue
			}
			fallthrough
		case IndexCreate:
			creates = append(creates, index.Statement.Copy().
				CreateIndex(index.Name(table)).IfNotExists().On(table))
		case IndexDrop:
			drops = append(drops, winq.NewStatementDropIndex().DropIndex(index.Name(table)).IfExists())
		}
	}
	return creates, drops
}
