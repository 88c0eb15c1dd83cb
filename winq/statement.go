package winq

import "strings"

// orderLimit holds the ORDER BY, LIMIT and OFFSET clauses shared by SELECT,
// UPDATE and DELETE.
type orderLimit struct {
	orderings []*OrderingTerm
	limit     *Expression
	limitTo   *Expression
	offset    *Expression
}

func (c *orderLimit) orderBy(orderings []*OrderingTerm) {
	c.orderings = append(c.orderings, orderings...)
}

func (c *orderLimit) setLimit(limit any) {
	c.limit, c.limitTo = expressionFrom(limit), nil
}

func (c *orderLimit) setLimitRange(from, to any) {
	c.limit, c.limitTo = expressionFrom(from), expressionFrom(to)
}

func (c *orderLimit) setOffset(offset any) {
	c.offset = expressionFrom(offset)
}

func (c *orderLimit) describe(b *strings.Builder) {
	if len(c.orderings) > 0 {
		b.WriteString(" ORDER BY " + joinDescriptions(c.orderings))
	}
	if c.limit != nil {
		b.WriteString(" LIMIT " + c.limit.Description())
		if c.limitTo != nil {
			b.WriteString(", " + c.limitTo.Description())
		}
		if c.offset != nil {
			b.WriteString(" OFFSET " + c.offset.Description())
		}
	}
}

func conflictKeyword(action ConflictAction) string {
	if action == ConflictNone {
		return ""
	}
	return " OR " + action.String()
}

func ifNotExists(on bool) string {
	if on {
		return "IF NOT EXISTS "
	}
	return ""
}

func ifExists(on bool) string {
	if on {
		return "IF EXISTS "
	}
	return ""
}

func temp(on bool) string {
	if on {
		return "TEMP "
	}
	return ""
}
