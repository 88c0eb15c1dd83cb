package winq

import "strings"

// JoinConstraint is the ON or USING part of a join.
type JoinConstraint struct {
	node
	on    *Expression
	using []*Column
}

// Description implements Identifier.
func (c *JoinConstraint) Description() string {
	if c.on != nil {
		return "ON " + c.on.Description()
	}
	return "USING(" + columnNames(c.using) + ")"
}

type joinPart struct {
	operator   string
	source     *TableOrSubquery
	constraint *JoinConstraint
}

// Join is a join clause: a first source followed by joined sources.
type Join struct {
	node
	first *TableOrSubquery
	parts []joinPart
}

// NewJoin creates a join starting at source, a table name or any
// TableOrSubqueryConvertible.
func NewJoin(source any) *Join {
	return &Join{node: node{kind: KindJoinClause}, first: tableOrSubqueryFrom(source)}
}

func (j *Join) add(operator string, source any) *Join {
	j.parts = append(j.parts, joinPart{operator: operator, source: tableOrSubqueryFrom(source)})
	return j
}

// With joins source with a comma.
func (j *Join) With(source any) *Join { return j.add(",", source) }

func (j *Join) Join(source any) *Join { return j.add("JOIN", source) }
func (j *Join) LeftOuterJoin(source any) *Join { return j.add("LEFT OUTER JOIN", source) }
func (j *Join) LeftJoin(source any) *Join { return j.add("LEFT JOIN", source) }
func (j *Join) InnerJoin(source any) *Join { return j.add("INNER JOIN", source) }
func (j *Join) CrossJoin(source any) *Join { return j.add("CROSS JOIN", source) }
func (j *Join) NaturalJoin(source any) *Join { return j.add("NATURAL JOIN", source) }
func (j *Join) NaturalLeftOuterJoin(source any) *Join { return j.add("NATURAL LEFT OUTER JOIN", source) }
func (j *Join) NaturalLeftJoin(source any) *Join { return j.add("NATURAL LEFT JOIN", source) }
func (j *Join) NaturalInnerJoin(source any) *Join { return j.add("NATURAL INNER JOIN", source) }
func (j *Join) NaturalCrossJoin(source any) *Join { return j.add("NATURAL CROSS JOIN", source) }

// On sets the ON constraint of the last joined source.
func (j *Join) On(condition any) *Join {
	if len(j.parts) > 0 {
		j.parts[len(j.parts)-1].constraint = &JoinConstraint{node: node{kind: KindJoinConstraint}, on: expressionFrom(condition)}
	}
	return j
}

// Using sets the USING constraint of the last joined source.
func (j *Join) Using(columns ...any) *Join {
	if len(j.parts) > 0 && len(columns) > 0 {
		j.parts[len(j.parts)-1].constraint = &JoinConstraint{node: node{kind: KindJoinConstraint}, using: columnsFrom(columns)}
	}
	return j
}

// Description implements Identifier.
func (j *Join) Description() string {
	var b strings.Builder
	b.WriteString(j.first.Description())
	for _, part := range j.parts {
		if part.operator == "," {
			b.WriteString(", ")
		} else {
			b.WriteString(" " + part.operator + " ")
		}
		b.WriteString(part.source.Description())
		if part.constraint != nil {
			b.WriteString(" " + part.constraint.Description())
		}
	}
	return b.String()
}

func (j *Join) asTableOrSubquery() *TableOrSubquery {
	t := NewTableOrSubquery("")
	t.switcher, t.join = tableOrSubqueryJoin, j
	return t
}
