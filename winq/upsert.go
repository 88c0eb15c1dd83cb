package winq

import "strings"

type assignment struct {
	columns []*Column
	value   *Expression
}

func (a assignment) description() string {
	target := columnNames(a.columns)
	if len(a.columns) > 1 {
		target = "(" + target + ")"
	}
	value := "NULL"
	if a.value != nil {
		value = a.value.Description()
	}
	return target + " = " + value
}

func describeAssignments(assignments []assignment) string {
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		parts = append(parts, a.description())
	}
	return strings.Join(parts, ", ")
}

// Upsert is the ON CONFLICT clause of INSERT.
type Upsert struct {
	node
	indexedColumns []*IndexedColumn
	targetWhere    *Expression
	doUpdate       bool
	doNothing      bool
	assignments    []assignment
	updateWhere    *Expression
}

// NewUpsert creates an ON CONFLICT clause.
func NewUpsert() *Upsert {
	return &Upsert{node: node{kind: KindUpsertClause}}
}

// Indexed sets the conflict target columns.
func (u *Upsert) Indexed(columns ...any) *Upsert {
	u.indexedColumns = append(u.indexedColumns, indexedColumnsFrom(columns)...)
	return u
}

// Where sets the conflict target condition, or the DO UPDATE condition once
// DoUpdate has been called.
func (u *Upsert) Where(condition any) *Upsert {
	if u.doUpdate {
		u.updateWhere = expressionFrom(condition)
	} else {
		u.targetWhere = expressionFrom(condition)
	}
	return u
}

// DoNothing makes the clause DO NOTHING.
func (u *Upsert) DoNothing() *Upsert {
	u.doNothing, u.doUpdate = true, false
	return u
}

// DoUpdate makes the clause DO UPDATE.
func (u *Upsert) DoUpdate() *Upsert {
	u.doUpdate, u.doNothing = true, false
	return u
}

// Set starts an assignment of DO UPDATE SET. Empty column lists are ignored.
func (u *Upsert) Set(columns ...any) *Upsert {
	if cs := columnsFrom(columns); len(cs) > 0 {
		u.assignments = append(u.assignments, assignment{columns: cs})
	}
	return u
}

// To sets the value of the last assignment.
func (u *Upsert) To(v any) *Upsert {
	if len(u.assignments) > 0 {
		u.assignments[len(u.assignments)-1].value = expressionFrom(v)
	}
	return u
}

// Description implements Identifier.
func (u *Upsert) Description() string {
	var b strings.Builder
	b.WriteString("ON CONFLICT")
	if len(u.indexedColumns) > 0 {
		b.WriteString("(" + joinDescriptions(u.indexedColumns) + ")")
		if u.targetWhere != nil {
			b.WriteString(" WHERE " + u.targetWhere.Description())
		}
	}
	if u.doUpdate {
		b.WriteString(" DO UPDATE SET " + describeAssignments(u.assignments))
		if u.updateWhere != nil {
			b.WriteString(" WHERE " + u.updateWhere.Description())
		}
	} else {
		b.WriteString(" DO NOTHING")
	}
	return b.String()
}
