package winq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionDescription(t *testing.T) {
	t.Parallel()

	left := NewColumn("left")
	right := NewColumn("right")

	tests := []struct {
		name       string
		identifier Identifier
		want       string
	}{
		{name: "column order", identifier: NewColumn("testColumn").Order(OrderAsc), want: "testColumn ASC"},
		{name: "bind parameter", identifier: NewBindParameter(1), want: "?1"},
		{name: "anonymous bind parameter", identifier: DefaultBindParameter(), want: "?"},
		{name: "named bind parameter", identifier: NewNamedBindParameter("id"), want: ":id"},
		{name: "qualified column", identifier: NewColumn("a").Table("t").Of("main"), want: "main.t.a"},
		{name: "table qualified column", identifier: NewColumn("a").Table("t"), want: "t.a"},
		{name: "null check", identifier: left.IsNull(), want: "left ISNULL"},
		{name: "not null check", identifier: left.NotNull(), want: "left NOTNULL"},
		{name: "not", identifier: left.Not(), want: "NOT left"},
		{name: "negative", identifier: left.Negative(), want: "-left"},
		{name: "bitwise not", identifier: left.BitwiseNot(), want: "~left"},
		{name: "negative binary", identifier: left.Add(1).Negative(), want: "-(left + 1)"},
		{name: "greater", identifier: left.Gt(1), want: "left > 1"},
		{name: "equal false", identifier: left.Eq(false), want: "left == FALSE"},
		{name: "not equal", identifier: left.NotEq(right), want: "left != right"},
		{name: "concat", identifier: left.Concat("x"), want: "left || 'x'"},
		{name: "shift", identifier: left.LeftShift(2), want: "left << 2"},
		{name: "and of binaries", identifier: left.Eq(1).And(right.Lt(2)), want: "(left == 1) AND (right < 2)"},
		{name: "or of and", identifier: left.Eq(1).And(right.Lt(2)).Or(right.IsNull()), want: "((left == 1) AND (right < 2)) OR (right ISNULL)"},
		{name: "is", identifier: left.Is(nil), want: "left IS NULL"},
		{name: "is not", identifier: left.IsNot(right), want: "left IS NOT right"},
		{name: "like escape", identifier: left.Like("%a!%").Escape("!"), want: "left LIKE '%a!%' ESCAPE '!'"},
		{name: "not glob", identifier: left.NotGlob("a*"), want: "left NOT GLOB 'a*'"},
		{name: "match", identifier: left.Match("abc"), want: "left MATCH 'abc'"},
		{name: "not regexp", identifier: left.NotRegexp("^a"), want: "left NOT REGEXP '^a'"},
		{name: "between", identifier: left.Between(1, 2), want: "left BETWEEN 1 AND 2"},
		{name: "not between", identifier: left.NotBetween(right, 2), want: "left NOT BETWEEN right AND 2"},
		{name: "between of binary", identifier: left.Add(1).Between(1, 2), want: "(left + 1) BETWEEN 1 AND 2"},
		{name: "empty in", identifier: left.In(), want: "left IN()"},
		{name: "in values", identifier: left.In(1, 2), want: "left IN(1, 2)"},
		{name: "not in", identifier: left.NotIn("a"), want: "left NOT IN('a')"},
		{name: "in select", identifier: left.InSelect(NewStatementSelect().Select(right).From("t")), want: "left IN(SELECT right FROM t)"},
		{name: "in table", identifier: left.InTable("t").Of("main"), want: "left IN main.t"},
		{name: "not in table", identifier: left.NotInTable("t"), want: "left NOT IN t"},
		{name: "in function", identifier: left.InFunction("f", 1).Of(NewSchema("s")), want: "left IN s.f(1)"},
		{name: "collate", identifier: left.Collate("NOCASE"), want: "left COLLATE NOCASE"},
		{name: "substr", identifier: left.Substr(1, 2), want: "SUBSTR(left, 1, 2)"},
		{name: "distinct group concat", identifier: left.GroupConcat("-").Distinct(), want: "GROUP_CONCAT(DISTINCT left, '-')"},
		{name: "count", identifier: left.Count(), want: "COUNT(left)"},
		{name: "count all", identifier: CountAll(), want: "COUNT(*)"},
		{name: "round", identifier: left.Round(2), want: "ROUND(left, 2)"},
		{name: "fts offsets", identifier: left.Offsets(), want: "offsets(left)"},
		{name: "core function", identifier: IfNull(left, 0), want: "ifnull(left, 0)"},
		{name: "cast", identifier: Cast(left, ColumnTypeInteger), want: "CAST(left AS INTEGER)"},
		{name: "cast float", identifier: Cast(left.Add(1), ColumnTypeFloat), want: "CAST(left + 1 AS REAL)"},
		{name: "case", identifier: Case(left).When(1).Then("a").When(2).Then("b").Else("c"), want: "CASE left WHEN 1 THEN 'a' WHEN 2 THEN 'b' ELSE 'c' END"},
		{name: "searched case", identifier: Case().When(left.Gt(1)).Then(right), want: "CASE WHEN left > 1 THEN right END"},
		{name: "exists", identifier: Exists(NewStatementSelect().Select(1)), want: "EXISTS(SELECT 1)"},
		{name: "not exists", identifier: NotExists(NewStatementSelect().Select(1)), want: "NOT EXISTS(SELECT 1)"},
		{name: "select expression", identifier: NewExpression(NewStatementSelect().Select(1)).Add(1), want: "(SELECT 1) + 1"},
		{name: "expression list", identifier: NewExpressionList(1, "a"), want: "(1, 'a')"},
		{name: "raise", identifier: NewExpression(NewRaiseFunction().Abort("it's")), want: "RAISE(ABORT, 'it''s')"},
		{name: "raise ignore", identifier: NewRaiseFunction(), want: "RAISE(IGNORE)"},
		{
			name:       "window over definition",
			identifier: NewWindowFunction("row_number").Over(NewWindowDef().Partition(left).OrderBy(right.Order(OrderDesc))),
			want:       "row_number() OVER(PARTITION BY left ORDER BY right DESC)",
		},
		{
			name:       "window filter over name",
			identifier: NewWindowFunction("count", left).Filter(NewFilter(left.Gt(0))).OverWindow("w"),
			want:       "count(left) FILTER(WHERE left > 0) OVER w",
		},
		{
			name:       "window frame",
			identifier: NewWindowDef().OrderBy(left.Order(OrderAsc)).Frame(NewFrameSpec().Rows().Preceding(1).AndCurrentRow()),
			want:       "(ORDER BY left ASC ROWS BETWEEN 1 PRECEDING AND CURRENT ROW)",
		},
		{name: "frame unbounded", identifier: NewFrameSpec().UnboundedPreceding(), want: "RANGE UNBOUNDED PRECEDING"},
		{name: "result column alias", identifier: left.As("l"), want: "left AS l"},
		{name: "result column all of table", identifier: ResultColumnAll("t"), want: "t.*"},
		{name: "ordering collate", identifier: NewOrderingTerm(left).Collate("BINARY").Order(OrderDesc), want: "left COLLATE BINARY DESC"},
		{name: "indexed column", identifier: NewIndexedColumn("a").Order(OrderAsc), want: "a ASC"},
		{name: "indexed expression", identifier: NewIndexedColumn(left.Lower()), want: "LOWER(left)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.identifier.Description())
		})
	}
}

func TestLiteralValueDescription(t *testing.T) {
	t.Parallel()

	text := "pointer"
	var nilText *string

	tests := []struct {
		name  string
		value any
		want  string
		kind  Kind
	}{
		{name: "nil", value: nil, want: "NULL", kind: KindNull},
		{name: "true", value: true, want: "TRUE", kind: KindBool},
		{name: "false", value: false, want: "FALSE", kind: KindBool},
		{name: "int8", value: int8(-3), want: "-3", kind: KindInt},
		{name: "int64", value: int64(1) << 40, want: "1099511627776", kind: KindInt},
		{name: "uint64", value: uint64(18446744073709551615), want: "18446744073709551615", kind: KindUInt},
		{name: "double", value: 1.1, want: "1.1000000000000001", kind: KindDouble},
		{name: "whole double", value: 2.0, want: "2", kind: KindDouble},
		{name: "float32 widened", value: float32(0.5), want: "0.5", kind: KindDouble},
		{name: "string", value: "it's", want: "'it''s'", kind: KindString},
		{name: "blob", value: []byte("hi"), want: "X'6869'", kind: KindString},
		{name: "pointer", value: &text, want: "'pointer'", kind: KindString},
		{name: "nil pointer", value: nilText, want: "NULL", kind: KindNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			literal := NewLiteralValue(tt.value)
			assert.Equal(t, tt.want, literal.Description())
			assert.Equal(t, tt.kind, literal.ValueKind())
			assert.Equal(t, KindLiteralValue, literal.Kind())
		})
	}

	t.Run("current time keywords", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "CURRENT_TIME", LiteralCurrentTime().Description())
		assert.Equal(t, "CURRENT_DATE", LiteralCurrentDate().Description())
		assert.Equal(t, "CURRENT_TIMESTAMP", LiteralCurrentTimestamp().Description())
	})
}

func TestExpressionOperandsAreNotMutated(t *testing.T) {
	t.Parallel()

	column := NewColumn("shared")
	first := column.Gt(1)
	second := column.Lt(2).And(first)
	qualified := column.Table("t")

	assert.Equal(t, "shared > 1", first.Description())
	assert.Equal(t, "(shared < 2) AND (shared > 1)", second.Description())
	assert.Equal(t, "shared", column.Description())
	assert.Equal(t, "t.shared", qualified.Description())
	assert.Equal(t, KindColumn, column.Kind())
	assert.Equal(t, KindExpression, first.Kind())
}
