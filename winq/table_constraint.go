package winq

type tableConstraintSwitch int

const (
	tableConstraintNone tableConstraintSwitch = iota
	tableConstraintPrimaryKey
	tableConstraintUnique
	tableConstraintCheck
	tableConstraintForeignKey
)

// TableConstraint is a table-level constraint of CREATE TABLE.
type TableConstraint struct {
	node
	name           string
	switcher       tableConstraintSwitch
	indexedColumns []*IndexedColumn
	conflict       ConflictAction
	expression     *Expression
	columns        []*Column
	foreignKey     *ForeignKey
}

// NewTableConstraint creates a table constraint, optionally named.
func NewTableConstraint(name ...string) *TableConstraint {
	c := &TableConstraint{node: node{kind: KindTableConstraint}}
	if len(name) > 0 {
		c.name = name[0]
	}
	return c
}

// PrimaryKey makes the constraint PRIMARY KEY(...).
func (c *TableConstraint) PrimaryKey() *TableConstraint {
	c.switcher = tableConstraintPrimaryKey
	return c
}

// Unique makes the constraint UNIQUE(...).
func (c *TableConstraint) Unique() *TableConstraint {
	c.switcher = tableConstraintUnique
	return c
}

// IndexedBy appends the columns of a PRIMARY KEY or UNIQUE constraint.
func (c *TableConstraint) IndexedBy(columns ...any) *TableConstraint {
	c.indexedColumns = append(c.indexedColumns, indexedColumnsFrom(columns)...)
	return c
}

// Conflict sets the ON CONFLICT action of a PRIMARY KEY or UNIQUE
// constraint.
func (c *TableConstraint) Conflict(action ConflictAction) *TableConstraint {
	c.conflict = action
	return c
}

// Check makes the constraint CHECK(condition).
func (c *TableConstraint) Check(condition any) *TableConstraint {
	c.switcher, c.expression = tableConstraintCheck, expressionFrom(condition)
	return c
}

// ForeignKey makes the constraint FOREIGN KEY(columns) REFERENCES ... .
func (c *TableConstraint) ForeignKey(foreignKey *ForeignKey, columns ...any) *TableConstraint {
	c.switcher, c.foreignKey = tableConstraintForeignKey, foreignKey
	c.columns = append(c.columns, columnsFrom(columns)...)
	return c
}

// IsPrimaryKey reports whether the constraint is PRIMARY KEY.
func (c *TableConstraint) IsPrimaryKey() bool {
	return c.switcher == tableConstraintPrimaryKey
}

// IsUnique reports whether the constraint is UNIQUE.
func (c *TableConstraint) IsUnique() bool {
	return c.switcher == tableConstraintUnique
}

// IndexedColumns returns the columns of a PRIMARY KEY or UNIQUE constraint.
func (c *TableConstraint) IndexedColumns() []*IndexedColumn {
	return c.indexedColumns
}

// Description implements Identifier.
func (c *TableConstraint) Description() string {
	description := ""
	if c.name != "" {
		description = "CONSTRAINT " + c.name + " "
	}
	switch c.switcher {
	case tableConstraintPrimaryKey:
		description += "PRIMARY KEY(" + joinDescriptions(c.indexedColumns) + ")" + c.conflict.onConflict()
	case tableConstraintUnique:
		description += "UNIQUE(" + joinDescriptions(c.indexedColumns) + ")" + c.conflict.onConflict()
	case tableConstraintCheck:
		description += "CHECK(" + c.expression.Description() + ")"
	case tableConstraintForeignKey:
		description += "FOREIGN KEY(" + columnNames(c.columns) + ") " + c.foreignKey.Description()
	}
	return description
}
