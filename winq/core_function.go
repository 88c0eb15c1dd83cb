package winq

// Core SQL functions that do not take a distinguished operand. Functions
// applied to one operand, like ABS or LENGTH, are methods of Column and
// Expression instead.

// CountAll creates COUNT(*).
func CountAll() *Expression {
	return NewFunction("COUNT").InvokeAll()
}

func Changes() *Expression { return NewFunction("changes") }
func Char(values ...any) *Expression { return NewFunction("char", values...) }
func Coalesce(values ...any) *Expression { return NewFunction("coalesce", values...) }
func IfNull(v, fallback any) *Expression { return NewFunction("ifnull", v, fallback) }
func Instr(haystack, needle any) *Expression { return NewFunction("instr", haystack, needle) }
func LastInsertRowID() *Expression { return NewFunction("last_insert_rowid") }
func NullIf(a, b any) *Expression { return NewFunction("nullif", a, b) }
func Printf(format any, values ...any) *Expression {
	return NewFunction("printf", append([]any{format}, values...)...)
}
func Quote(v any) *Expression { return NewFunction("quote", v) }
func Random() *Expression { return NewFunction("random") }
func RandomBlob(n any) *Expression { return NewFunction("randomblob", n) }
func Replace(v, from, to any) *Expression { return NewFunction("replace", v, from, to) }
func Trim(values ...any) *Expression { return NewFunction("trim", values...) }
func TypeOf(v any) *Expression { return NewFunction("typeof", v) }
func Unicode(v any) *Expression { return NewFunction("unicode", v) }
func ZeroBlob(n any) *Expression { return NewFunction("zeroblob", n) }
func TotalChanges() *Expression { return NewFunction("total_changes") }
func Date(values ...any) *Expression { return NewFunction("date", values...) }
func Time(values ...any) *Expression { return NewFunction("time", values...) }
func DateTime(values ...any) *Expression { return NewFunction("datetime", values...) }
func JulianDay(values ...any) *Expression { return NewFunction("julianday", values...) }
func StrfTime(format any, values ...any) *Expression {
	return NewFunction("strftime", append([]any{format}, values...)...)
}
