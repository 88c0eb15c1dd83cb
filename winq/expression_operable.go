package winq

// expressionOperable provides the operator surface shared by columns and
// expressions. Every operator returns a new expression.
type expressionOperable struct {
	operand ExpressionConvertible
}

func (o expressionOperable) self() *Expression {
	return o.operand.asExpression()
}

func (o expressionOperable) unary(operator string) *Expression {
	e := newExpression(exprUnary)
	e.operator = operator
	e.operands = []*Expression{o.self()}
	return e
}

func (o expressionOperable) binary(operator string, v any) *Expression {
	e := newExpression(exprBinary)
	e.operator = operator
	e.operands = []*Expression{o.self(), expressionFrom(v)}
	return e
}

func (o expressionOperable) pattern(operator string, v any, not bool) *Expression {
	e := newExpression(exprPattern)
	e.operator = operator
	e.not = not
	e.operands = []*Expression{o.self(), expressionFrom(v)}
	return e
}

func (o expressionOperable) function(name string, arguments ...any) *Expression {
	return NewFunction(name, append([]any{o.self()}, arguments...)...)
}

// Not creates NOT x.
func (o expressionOperable) Not() *Expression { return o.unary("NOT") }

// Negative creates -x.
func (o expressionOperable) Negative() *Expression { return o.unary("-") }

// Positive creates +x.
func (o expressionOperable) Positive() *Expression { return o.unary("+") }

// BitwiseNot creates ~x.
func (o expressionOperable) BitwiseNot() *Expression { return o.unary("~") }

// IsNull creates x ISNULL.
func (o expressionOperable) IsNull() *Expression {
	e := newExpression(exprNullCheck)
	e.operands = []*Expression{o.self()}
	return e
}

// NotNull creates x NOTNULL.
func (o expressionOperable) NotNull() *Expression {
	e := o.IsNull()
	e.not = true
	return e
}

func (o expressionOperable) Or(v any) *Expression { return o.binary("OR", v) }
func (o expressionOperable) And(v any) *Expression { return o.binary("AND", v) }
func (o expressionOperable) Multiply(v any) *Expression { return o.binary("*", v) }
func (o expressionOperable) Divide(v any) *Expression { return o.binary("/", v) }
func (o expressionOperable) Mod(v any) *Expression { return o.binary("%", v) }
func (o expressionOperable) Add(v any) *Expression { return o.binary("+", v) }
func (o expressionOperable) Minus(v any) *Expression { return o.binary("-", v) }
func (o expressionOperable) LeftShift(v any) *Expression { return o.binary("<<", v) }
func (o expressionOperable) RightShift(v any) *Expression { return o.binary(">>", v) }
func (o expressionOperable) BitAnd(v any) *Expression { return o.binary("&", v) }
func (o expressionOperable) BitOr(v any) *Expression { return o.binary("|", v) }
func (o expressionOperable) Lt(v any) *Expression { return o.binary("<", v) }
func (o expressionOperable) Le(v any) *Expression { return o.binary("<=", v) }
func (o expressionOperable) Gt(v any) *Expression { return o.binary(">", v) }
func (o expressionOperable) Ge(v any) *Expression { return o.binary(">=", v) }
func (o expressionOperable) Eq(v any) *Expression { return o.binary("==", v) }
func (o expressionOperable) NotEq(v any) *Expression { return o.binary("!=", v) }
func (o expressionOperable) Concat(v any) *Expression { return o.binary("||", v) }

// Is creates x IS v.
func (o expressionOperable) Is(v any) *Expression {
	e := newExpression(exprIs)
	e.operands = []*Expression{o.self(), expressionFrom(v)}
	return e
}

// IsNot creates x IS NOT v.
func (o expressionOperable) IsNot(v any) *Expression {
	e := o.Is(v)
	e.not = true
	return e
}

// Between creates x BETWEEN begin AND end.
func (o expressionOperable) Between(begin, end any) *Expression {
	e := newExpression(exprBetween)
	e.operands = []*Expression{o.self(), expressionFrom(begin), expressionFrom(end)}
	return e
}

// NotBetween creates x NOT BETWEEN begin AND end.
func (o expressionOperable) NotBetween(begin, end any) *Expression {
	e := o.Between(begin, end)
	e.not = true
	return e
}

func (o expressionOperable) in(not bool, values []any) *Expression {
	e := newExpression(exprIn)
	e.not = not
	e.operands = append([]*Expression{o.self()}, expressionsFrom(values)...)
	if len(values) > 0 {
		e.in = inValues
	}
	return e
}

// In creates x IN(values...). No values yields x IN().
func (o expressionOperable) In(values ...any) *Expression { return o.in(false, values) }

// NotIn creates x NOT IN(values...).
func (o expressionOperable) NotIn(values ...any) *Expression { return o.in(true, values) }

// InSelect creates x IN(select).
func (o expressionOperable) InSelect(s *StatementSelect) *Expression {
	e := o.in(false, nil)
	e.in, e.selectSTMT = inSelect, s
	return e
}

// NotInSelect creates x NOT IN(select).
func (o expressionOperable) NotInSelect(s *StatementSelect) *Expression {
	e := o.InSelect(s)
	e.not = true
	return e
}

// InTable creates x IN table. Qualify the table with Of.
func (o expressionOperable) InTable(table string) *Expression {
	e := o.in(false, nil)
	e.in, e.table = inTable, table
	return e
}

// NotInTable creates x NOT IN table.
func (o expressionOperable) NotInTable(table string) *Expression {
	e := o.InTable(table)
	e.not = true
	return e
}

// InFunction creates x IN function(arguments...), for table-valued functions.
func (o expressionOperable) InFunction(function string, arguments ...any) *Expression {
	e := o.in(false, arguments)
	e.in, e.function = inFunction, function
	return e
}

// NotInFunction creates x NOT IN function(arguments...).
func (o expressionOperable) NotInFunction(function string, arguments ...any) *Expression {
	e := o.InFunction(function, arguments...)
	e.not = true
	return e
}

// Collate creates x COLLATE collation.
func (o expressionOperable) Collate(collation string) *Expression {
	e := newExpression(exprCollate)
	e.operands = []*Expression{o.self()}
	e.collation = collation
	return e
}

func (o expressionOperable) Like(v any) *Expression { return o.pattern("LIKE", v, false) }
func (o expressionOperable) NotLike(v any) *Expression { return o.pattern("LIKE", v, true) }
func (o expressionOperable) Glob(v any) *Expression { return o.pattern("GLOB", v, false) }
func (o expressionOperable) NotGlob(v any) *Expression { return o.pattern("GLOB", v, true) }
func (o expressionOperable) Match(v any) *Expression { return o.pattern("MATCH", v, false) }
func (o expressionOperable) NotMatch(v any) *Expression { return o.pattern("MATCH", v, true) }
func (o expressionOperable) Regexp(v any) *Expression { return o.pattern("REGEXP", v, false) }
func (o expressionOperable) NotRegexp(v any) *Expression { return o.pattern("REGEXP", v, true) }

// Substr creates SUBSTR(x, start, length).
func (o expressionOperable) Substr(start, length any) *Expression {
	return o.function("SUBSTR", start, length)
}

// Aggregate and scalar core functions applied to x.
func (o expressionOperable) Avg() *Expression { return o.function("AVG") }
func (o expressionOperable) Count() *Expression { return o.function("COUNT") }
func (o expressionOperable) Max() *Expression { return o.function("MAX") }
func (o expressionOperable) Min() *Expression { return o.function("MIN") }
func (o expressionOperable) Sum() *Expression { return o.function("SUM") }
func (o expressionOperable) Total() *Expression { return o.function("TOTAL") }
func (o expressionOperable) Abs() *Expression { return o.function("ABS") }
func (o expressionOperable) Hex() *Expression { return o.function("HEX") }
func (o expressionOperable) Length() *Expression { return o.function("LENGTH") }
func (o expressionOperable) Lower() *Expression { return o.function("LOWER") }
func (o expressionOperable) Upper() *Expression { return o.function("UPPER") }

// GroupConcat creates GROUP_CONCAT(x) or GROUP_CONCAT(x, separator).
func (o expressionOperable) GroupConcat(separator ...any) *Expression {
	return o.function("GROUP_CONCAT", separator...)
}

// Round creates ROUND(x) or ROUND(x, digits).
func (o expressionOperable) Round(digits ...any) *Expression {
	return o.function("ROUND", digits...)
}

// Full-text search auxiliary functions applied to x, usually the table column
// of an FTS table.
func (o expressionOperable) MatchInfo() *Expression { return o.function("matchInfo") }
func (o expressionOperable) Offsets() *Expression { return o.function("offsets") }
func (o expressionOperable) Bm25() *Expression { return o.function("bm25") }

// Snippet creates snippet(x, arguments...).
func (o expressionOperable) Snippet(arguments ...any) *Expression {
	return o.function("snippet", arguments...)
}

// Highlight creates highlight(x, arguments...).
func (o expressionOperable) Highlight(arguments ...any) *Expression {
	return o.function("highlight", arguments...)
}

// SubstringMatchInfo creates substring_match_info(x, arguments...), the
// WCDB tokenizer auxiliary.
func (o expressionOperable) SubstringMatchInfo(arguments ...any) *Expression {
	return o.function("substring_match_info", arguments...)
}

// Order creates an ordering term on x.
func (o expressionOperable) Order(order Order) *OrderingTerm {
	return NewOrderingTerm(o.self()).Order(order)
}

// As creates the result column x AS alias.
func (o expressionOperable) As(alias string) *ResultColumn {
	return NewResultColumn(o.self()).As(alias)
}
