package winq

type columnConstraintSwitch int

const (
	constraintNone columnConstraintSwitch = iota
	constraintPrimaryKey
	constraintNotNull
	constraintUnique
	constraintCheck
	constraintDefault
	constraintCollate
	constraintForeignKey
	constraintUnIndexed
)

// ColumnConstraint is one constraint of a column definition.
type ColumnConstraint struct {
	node
	name          string
	switcher      columnConstraintSwitch
	order         Order
	conflict      ConflictAction
	autoIncrement bool
	expression    *Expression
	collation     string
	foreignKey    *ForeignKey
}

// NewColumnConstraint creates a column constraint, optionally named.
func NewColumnConstraint(name ...string) *ColumnConstraint {
	c := &ColumnConstraint{node: node{kind: KindColumnConstraint}}
	if len(name) > 0 {
		c.name = name[0]
	}
	return c
}

// PrimaryKey makes the constraint PRIMARY KEY.
func (c *ColumnConstraint) PrimaryKey() *ColumnConstraint {
	c.switcher = constraintPrimaryKey
	return c
}

// Order sets the direction of a PRIMARY KEY constraint.
func (c *ColumnConstraint) Order(order Order) *ColumnConstraint {
	c.order = order
	return c
}

// Conflict sets the ON CONFLICT action of a PRIMARY KEY, NOT NULL or UNIQUE
// constraint.
func (c *ColumnConstraint) Conflict(action ConflictAction) *ColumnConstraint {
	c.conflict = action
	return c
}

// AutoIncrement adds AUTOINCREMENT to a PRIMARY KEY constraint.
func (c *ColumnConstraint) AutoIncrement() *ColumnConstraint {
	c.autoIncrement = true
	return c
}

// NotNull makes the constraint NOT NULL.
func (c *ColumnConstraint) NotNull() *ColumnConstraint {
	c.switcher = constraintNotNull
	return c
}

// Unique makes the constraint UNIQUE.
func (c *ColumnConstraint) Unique() *ColumnConstraint {
	c.switcher = constraintUnique
	return c
}

// Check makes the constraint CHECK(condition).
func (c *ColumnConstraint) Check(condition any) *ColumnConstraint {
	c.switcher, c.expression = constraintCheck, expressionFrom(condition)
	return c
}

// Default makes the constraint DEFAULT v.
func (c *ColumnConstraint) Default(v any) *ColumnConstraint {
	c.switcher, c.expression = constraintDefault, expressionFrom(v)
	return c
}

// Collate makes the constraint COLLATE collation.
func (c *ColumnConstraint) Collate(collation string) *ColumnConstraint {
	c.switcher, c.collation = constraintCollate, collation
	return c
}

// ForeignKey makes the constraint a REFERENCES clause.
func (c *ColumnConstraint) ForeignKey(foreignKey *ForeignKey) *ColumnConstraint {
	c.switcher, c.foreignKey = constraintForeignKey, foreignKey
	return c
}

// UnIndexed makes the constraint UNINDEXED, for fts5 columns.
func (c *ColumnConstraint) UnIndexed() *ColumnConstraint {
	c.switcher = constraintUnIndexed
	return c
}

// Description implements Identifier.
func (c *ColumnConstraint) Description() string {
	description := ""
	if c.name != "" {
		description = "CONSTRAINT " + c.name + " "
	}
	switch c.switcher {
	case constraintPrimaryKey:
		description += "PRIMARY KEY" + c.order.suffix() + c.conflict.onConflict()
		if c.autoIncrement {
			description += " AUTOINCREMENT"
		}
	case constraintNotNull:
		description += "NOT NULL" + c.conflict.onConflict()
	case constraintUnique:
		description += "UNIQUE" + c.conflict.onConflict()
	case constraintCheck:
		description += "CHECK(" + c.expression.Description() + ")"
	case constraintDefault:
		if c.expression.switcher == exprLiteral {
			description += "DEFAULT " + c.expression.Description()
		} else {
			description += "DEFAULT(" + c.expression.Description() + ")"
		}
	case constraintCollate:
		description += "COLLATE " + c.collation
	case constraintForeignKey:
		description += c.foreignKey.Description()
	case constraintUnIndexed:
		description += "UNINDEXED"
	}
	return description
}
