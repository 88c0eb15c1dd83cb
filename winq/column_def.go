package winq

import "strings"

// ColumnDef is a column definition of CREATE TABLE or ALTER TABLE ADD
// COLUMN.
type ColumnDef struct {
	node
	column      *Column
	columnType  ColumnType
	hasType     bool
	constraints []*ColumnConstraint
}

// NewColumnDef creates a typed column definition. column is a name or any
// ColumnConvertible.
func NewColumnDef(column any, columnType ColumnType) *ColumnDef {
	return &ColumnDef{node: node{kind: KindColumnDef}, column: columnFrom(column), columnType: columnType, hasType: true}
}

// NewColumnDefWithoutType creates a column definition without declared type.
func NewColumnDefWithoutType(column any) *ColumnDef {
	return &ColumnDef{node: node{kind: KindColumnDef}, column: columnFrom(column)}
}

// Constraint appends a column constraint.
func (d *ColumnDef) Constraint(constraint *ColumnConstraint) *ColumnDef {
	d.constraints = append(d.constraints, constraint)
	return d
}

// MakePrimary appends PRIMARY KEY, with AUTOINCREMENT when requested.
func (d *ColumnDef) MakePrimary(autoIncrement bool) *ColumnDef {
	constraint := NewColumnConstraint().PrimaryKey()
	if autoIncrement {
		constraint.AutoIncrement()
	}
	return d.Constraint(constraint)
}

// MakeDefaultTo appends DEFAULT v.
func (d *ColumnDef) MakeDefaultTo(v any) *ColumnDef {
	return d.Constraint(NewColumnConstraint().Default(v))
}

// MakeUnique appends UNIQUE.
func (d *ColumnDef) MakeUnique() *ColumnDef {
	return d.Constraint(NewColumnConstraint().Unique())
}

// MakeNotNull appends NOT NULL.
func (d *ColumnDef) MakeNotNull() *ColumnDef {
	return d.Constraint(NewColumnConstraint().NotNull())
}

// MakeNotIndexed appends UNINDEXED.
func (d *ColumnDef) MakeNotIndexed() *ColumnDef {
	return d.Constraint(NewColumnConstraint().UnIndexed())
}

// MakeForeignKey appends a REFERENCES clause.
func (d *ColumnDef) MakeForeignKey(foreignKey *ForeignKey) *ColumnDef {
	return d.Constraint(NewColumnConstraint().ForeignKey(foreignKey))
}

// Column returns the defined column.
func (d *ColumnDef) Column() *Column {
	return d.column
}

// Name returns the column name.
func (d *ColumnDef) Name() string {
	return d.column.name
}

// ColumnType returns the declared type, ColumnTypeNull when untyped.
func (d *ColumnDef) ColumnType() ColumnType {
	if !d.hasType {
		return ColumnTypeNull
	}
	return d.columnType
}

func (d *ColumnDef) hasConstraint(switcher columnConstraintSwitch) bool {
	for _, constraint := range d.constraints {
		if constraint.switcher == switcher {
			return true
		}
	}
	return false
}

// IsPrimaryKey reports whether the definition carries PRIMARY KEY.
func (d *ColumnDef) IsPrimaryKey() bool {
	return d.hasConstraint(constraintPrimaryKey)
}

// IsAutoIncrement reports whether the definition carries PRIMARY KEY
// AUTOINCREMENT.
func (d *ColumnDef) IsAutoIncrement() bool {
	for _, constraint := range d.constraints {
		if constraint.switcher == constraintPrimaryKey && constraint.autoIncrement {
			return true
		}
	}
	return false
}

// IsUnique reports whether the definition carries UNIQUE.
func (d *ColumnDef) IsUnique() bool {
	return d.hasConstraint(constraintUnique)
}

// IsNotNull reports whether the definition carries NOT NULL.
func (d *ColumnDef) IsNotNull() bool {
	return d.hasConstraint(constraintNotNull)
}

// IsUnIndexed reports whether the definition carries UNINDEXED.
func (d *ColumnDef) IsUnIndexed() bool {
	return d.hasConstraint(constraintUnIndexed)
}

// Description implements Identifier.
func (d *ColumnDef) Description() string {
	var b strings.Builder
	b.WriteString(d.column.name)
	if d.hasType {
		b.WriteString(" " + d.columnType.String())
	}
	for _, constraint := range d.constraints {
		b.WriteString(" " + constraint.Description())
	}
	return b.String()
}
