package winq

import (
	"strings"
)

type expressionSwitch int

const (
	exprLiteral expressionSwitch = iota
	exprBindParameter
	exprColumn
	exprUnary
	exprNullCheck
	exprBinary
	exprIs
	exprPattern
	exprFunction
	exprList
	exprCast
	exprCollate
	exprBetween
	exprIn
	exprExists
	exprSelect
	exprCase
	exprRaise
	exprWindow
)

type inSwitch int

const (
	inEmpty inSwitch = iota
	inValues
	inSelect
	inTable
	inFunction
)

// Expression is an SQL expression tree. Operators build new expressions and
// leave their operands untouched; the configurators on Expression itself
// (Escape, Distinct, Argument, When, Filter, Over, ...) mutate and return the
// receiver.
type Expression struct {
	node
	expressionOperable
	switcher expressionSwitch

	column        *Column
	literal       *LiteralValue
	bindParameter *BindParameter
	raise         *RaiseFunction
	selectSTMT    *StatementSelect

	operator  string
	not       bool
	operands  []*Expression
	hasEscape bool

	function  string
	distinct  bool
	wildcard  bool
	arguments []*Expression

	in     inSwitch
	schema string
	table  string

	castType  ColumnType
	collation string

	caseBase *Expression
	whens    []*Expression
	thens    []*Expression
	elseExpr *Expression

	filter     *Filter
	windowDef  *WindowDef
	windowName string
}

func newExpression(switcher expressionSwitch) *Expression {
	e := &Expression{node: node{kind: KindExpression}, switcher: switcher}
	e.expressionOperable = expressionOperable{operand: e}
	return e
}

func newLiteralExpression(literal *LiteralValue) *Expression {
	e := newExpression(exprLiteral)
	e.literal = literal
	return e
}

// expressionFrom converts any admissible operand into an expression. Go
// scalars, strings, byte slices and nil become literal values.
func expressionFrom(v any) *Expression {
	switch x := v.(type) {
	case *Expression:
		if x == nil {
			return newLiteralExpression(NewLiteralValue(nil))
		}
		return x
	case ExpressionConvertible:
		return x.asExpression()
	default:
		return newLiteralExpression(NewLiteralValue(v))
	}
}

// NewExpression converts a column, literal, bind parameter, select statement
// or Go value into an expression.
func NewExpression(v any) *Expression {
	return expressionFrom(v)
}

// NewFunction creates the invocation name(arguments).
func NewFunction(name string, arguments ...any) *Expression {
	e := newExpression(exprFunction)
	e.function = name
	e.arguments = expressionsFrom(arguments)
	return e
}

// NewWindowFunction creates a window function invocation, to be completed
// with Filter, Over or OverWindow.
func NewWindowFunction(name string, arguments ...any) *Expression {
	e := newExpression(exprWindow)
	e.function = name
	e.arguments = expressionsFrom(arguments)
	return e
}

// NewExpressionList creates the parenthesized list (a, b, ...).
func NewExpressionList(values ...any) *Expression {
	e := newExpression(exprList)
	e.operands = expressionsFrom(values)
	return e
}

// Cast creates CAST(v AS columnType).
func Cast(v any, columnType ColumnType) *Expression {
	e := newExpression(exprCast)
	e.operands = []*Expression{expressionFrom(v)}
	e.castType = columnType
	return e
}

// Exists creates EXISTS(s).
func Exists(s *StatementSelect) *Expression {
	e := newExpression(exprExists)
	e.selectSTMT = s
	return e
}

// NotExists creates NOT EXISTS(s).
func NotExists(s *StatementSelect) *Expression {
	e := Exists(s)
	e.not = true
	return e
}

// Case creates a CASE expression. The optional base makes it the simple form
// CASE base WHEN ... .
func Case(base ...any) *Expression {
	e := newExpression(exprCase)
	if len(base) > 0 {
		e.caseBase = expressionFrom(base[0])
	}
	return e
}

// When appends a WHEN branch to a CASE expression.
func (e *Expression) When(v any) *Expression {
	e.whens = append(e.whens, expressionFrom(v))
	return e
}

// Then sets the result of the last WHEN branch of a CASE expression.
func (e *Expression) Then(v any) *Expression {
	e.thens = append(e.thens, expressionFrom(v))
	return e
}

// Else sets the ELSE result of a CASE expression.
func (e *Expression) Else(v any) *Expression {
	e.elseExpr = expressionFrom(v)
	return e
}

// Escape sets the ESCAPE character of a LIKE, GLOB, MATCH or REGEXP
// expression.
func (e *Expression) Escape(v any) *Expression {
	if e.switcher != exprPattern {
		return e
	}
	if e.hasEscape {
		e.operands[2] = expressionFrom(v)
	} else {
		e.operands = append(e.operands, expressionFrom(v))
		e.hasEscape = true
	}
	return e
}

// Distinct marks the arguments of a function invocation DISTINCT.
func (e *Expression) Distinct() *Expression {
	e.distinct = true
	return e
}

// InvokeAll makes a function invocation take the wildcard argument, as in
// COUNT(*).
func (e *Expression) InvokeAll() *Expression {
	e.wildcard = true
	return e
}

// Argument appends an argument to a function invocation.
func (e *Expression) Argument(v any) *Expression {
	e.arguments = append(e.arguments, expressionFrom(v))
	return e
}

// Arguments appends arguments to a function invocation.
func (e *Expression) Arguments(values ...any) *Expression {
	e.arguments = append(e.arguments, expressionsFrom(values)...)
	return e
}

// Of qualifies the table or function of an IN expression by schema.
func (e *Expression) Of(schema any) *Expression {
	e.schema = schemaName(schema)
	return e
}

// Filter sets the FILTER clause of a window function.
func (e *Expression) Filter(filter *Filter) *Expression {
	e.filter = filter
	return e
}

// Over sets the window definition of a window function.
func (e *Expression) Over(windowDef *WindowDef) *Expression {
	e.windowDef, e.windowName = windowDef, ""
	return e
}

// OverWindow refers a window function to a named window.
func (e *Expression) OverWindow(name string) *Expression {
	e.windowDef, e.windowName = nil, name
	return e
}

// Description implements Identifier.
func (e *Expression) Description() string {
	var b strings.Builder
	e.describe(&b)
	return b.String()
}

func (e *Expression) asExpression() *Expression {
	return e
}

func (e *Expression) asResultColumn() *ResultColumn {
	return NewResultColumn(e)
}

func (e *Expression) asIndexedColumn() *IndexedColumn {
	return NewIndexedColumn(e)
}

// needsParentheses reports whether the expression must be wrapped when it
// appears as an operand of another operator.
func (e *Expression) needsParentheses() bool {
	switch e.switcher {
	case exprUnary, exprNullCheck, exprBinary, exprIs, exprPattern, exprCollate, exprBetween:
		return true
	default:
		return false
	}
}

func writeOperand(b *strings.Builder, operand *Expression) {
	if operand.needsParentheses() {
		b.WriteString("(")
		operand.describe(b)
		b.WriteString(")")
		return
	}
	operand.describe(b)
}

func writeExpressions(b *strings.Builder, expressions []*Expression) {
	for i, expression := range expressions {
		if i > 0 {
			b.WriteString(", ")
		}
		expression.describe(b)
	}
}

func (e *Expression) describe(b *strings.Builder) {
	switch e.switcher {
	case exprLiteral:
		b.WriteString(e.literal.Description())
	case exprBindParameter:
		b.WriteString(e.bindParameter.Description())
	case exprColumn:
		b.WriteString(e.column.Description())
	case exprUnary:
		b.WriteString(e.operator)
		if e.operator == "NOT" {
			b.WriteString(" ")
		}
		writeOperand(b, e.operands[0])
	case exprNullCheck:
		writeOperand(b, e.operands[0])
		if e.not {
			b.WriteString(" NOTNULL")
		} else {
			b.WriteString(" ISNULL")
		}
	case exprBinary:
		writeOperand(b, e.operands[0])
		b.WriteString(" " + e.operator + " ")
		writeOperand(b, e.operands[1])
	case exprIs:
		writeOperand(b, e.operands[0])
		b.WriteString(" IS")
		if e.not {
			b.WriteString(" NOT")
		}
		b.WriteString(" ")
		writeOperand(b, e.operands[1])
	case exprPattern:
		writeOperand(b, e.operands[0])
		if e.not {
			b.WriteString(" NOT")
		}
		b.WriteString(" " + e.operator + " ")
		writeOperand(b, e.operands[1])
		if e.hasEscape {
			b.WriteString(" ESCAPE ")
			writeOperand(b, e.operands[2])
		}
	case exprFunction, exprWindow:
		b.WriteString(e.function + "(")
		if len(e.arguments) > 0 {
			if e.distinct {
				b.WriteString("DISTINCT ")
			}
			writeExpressions(b, e.arguments)
		} else if e.wildcard {
			b.WriteString("*")
		}
		b.WriteString(")")
		if e.switcher == exprWindow {
			if e.filter != nil {
				b.WriteString(" " + e.filter.Description())
			}
			if e.windowDef != nil {
				b.WriteString(" OVER" + e.windowDef.Description())
			} else if e.windowName != "" {
				b.WriteString(" OVER " + e.windowName)
			}
		}
	case exprList:
		b.WriteString("(")
		writeExpressions(b, e.operands)
		b.WriteString(")")
	case exprCast:
		b.WriteString("CAST(")
		e.operands[0].describe(b)
		b.WriteString(" AS " + e.castType.String() + ")")
	case exprCollate:
		writeOperand(b, e.operands[0])
		b.WriteString(" COLLATE " + e.collation)
	case exprBetween:
		writeOperand(b, e.operands[0])
		if e.not {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN ")
		writeOperand(b, e.operands[1])
		b.WriteString(" AND ")
		writeOperand(b, e.operands[2])
	case exprIn:
		e.describeIn(b)
	case exprExists:
		if e.not {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS(" + describe(e.selectSTMT) + ")")
	case exprSelect:
		b.WriteString("(" + describe(e.selectSTMT) + ")")
	case exprCase:
		b.WriteString("CASE ")
		if e.caseBase != nil {
			e.caseBase.describe(b)
			b.WriteString(" ")
		}
		for i, when := range e.whens {
			b.WriteString("WHEN ")
			when.describe(b)
			b.WriteString(" THEN ")
			if i < len(e.thens) {
				e.thens[i].describe(b)
			} else {
				b.WriteString("NULL")
			}
			b.WriteString(" ")
		}
		if e.elseExpr != nil {
			b.WriteString("ELSE ")
			e.elseExpr.describe(b)
			b.WriteString(" ")
		}
		b.WriteString("END")
	case exprRaise:
		b.WriteString(e.raise.Description())
	}
}

func (e *Expression) describeIn(b *strings.Builder) {
	e.operands[0].describe(b)
	if e.not {
		b.WriteString(" NOT")
	}
	b.WriteString(" IN")
	switch e.in {
	case inEmpty:
		b.WriteString("()")
	case inSelect:
		b.WriteString("(" + describe(e.selectSTMT) + ")")
	case inValues:
		b.WriteString("(")
		writeExpressions(b, e.operands[1:])
		b.WriteString(")")
	case inTable:
		b.WriteString(" " + qualified(e.schema, e.table))
	case inFunction:
		b.WriteString(" " + qualified(e.schema, e.function) + "(")
		writeExpressions(b, e.operands[1:])
		b.WriteString(")")
	}
}
